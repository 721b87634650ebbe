package pdftk

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/aretw0/formflow/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFields(t *testing.T) {
	dump := `---
FieldType: Text
FieldName: form1[0].Name[0]
FieldFlags: 0
FieldValue: 
FieldJustification: Left
---
FieldType: Button
FieldName: Married
FieldStateOption: Off
FieldStateOption: Yes
---
FieldType: Text
`
	fields, err := parseFields(strings.NewReader(dump))
	require.NoError(t, err)
	assert.Equal(t, []domain.FieldDescriptor{
		{Name: "form1[0].Name[0]", Type: "Text"},
		{Name: "Married", Type: "Button", Options: []string{"Off", "Yes"}},
	}, fields)
}

func TestEncodeXFDF(t *testing.T) {
	data, err := encodeXFDF(map[string]string{
		"b": "Tom & Jerry",
		"a": "<x>",
	})
	require.NoError(t, err)

	out := string(data)
	assert.True(t, strings.HasPrefix(out, "<?xml"))
	assert.Contains(t, out, `<xfdf xmlns="http://ns.adobe.com/xfdf/">`)
	assert.Less(t, strings.Index(out, `name="a"`), strings.Index(out, `name="b"`))
	assert.Contains(t, out, "<value>Tom &amp; Jerry</value>")
	assert.Contains(t, out, "<value>&lt;x&gt;</value>")
}

func TestLimiter(t *testing.T) {
	f := New(WithLanes(4))

	assert.Nil(t, f.limiter(0), "zero keeps the filler lanes")
	assert.Nil(t, f.limiter(4))
	assert.Nil(t, f.limiter(8))

	two := f.limiter(2)
	require.NotNil(t, two)
	assert.Same(t, two, f.limiter(2))
	assert.True(t, two.TryAcquire(2))
	assert.False(t, two.TryAcquire(1))
}

func TestFill_HonorsParallelism(t *testing.T) {
	f := New(WithBinary("/nonexistent/pdftk"), WithLanes(4))
	require.True(t, f.limiter(1).TryAcquire(1))
	defer f.limiter(1).Release(1)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := f.Fill(ctx, "i589.pdf", nil, domain.FillOptions{OutputFormat: "pdf", Parallelism: 1})
	assert.ErrorIs(t, err, context.DeadlineExceeded, "the only slot for parallelism 1 is taken")

	_, err = f.Fill(context.Background(), "i589.pdf", nil, domain.FillOptions{OutputFormat: "pdf", Parallelism: 2})
	require.Error(t, err)
	assert.NotErrorIs(t, err, context.DeadlineExceeded, "parallelism 2 has its own slots")
}
