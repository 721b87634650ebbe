package cli

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/aretw0/formflow/internal/config"
	"github.com/aretw0/formflow/internal/logging"
	"github.com/aretw0/formflow/pkg/adapters/file"
	"github.com/aretw0/formflow/pkg/adapters/memory"
	"github.com/aretw0/formflow/pkg/adapters/pdftk"
	"github.com/aretw0/formflow/pkg/adapters/redis"
	"github.com/aretw0/formflow/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T) config.Config {
	t.Helper()
	return config.Config{
		OutputDir:   t.TempDir(),
		TemplateDir: t.TempDir(),
		Pdftk:       "pdftk",
		LogLevel:    "error",
		Lanes:       2,
	}
}

func TestRunSession_DryRun(t *testing.T) {
	answers := []string{
		"Garcia", "Maria", "01/02/1990", "Honduras", "0.5",
		"no", "no", "religion", "no",
	}
	var out bytes.Buffer
	err := RunSession(context.Background(), RunOptions{
		Form:     "i589",
		Config:   testConfig(t),
		Headless: true,
		DryRun:   true,
		Input:    strings.NewReader(strings.Join(answers, "\n") + "\n"),
		Output:   &out,
	})
	require.NoError(t, err)
	assert.Regexp(t, `Dry run: document form[0-9]+\.pdf was not stored\.`, out.String())
}

func TestRunSession_EndOfInputIsNotAnError(t *testing.T) {
	var out bytes.Buffer
	err := RunSession(context.Background(), RunOptions{
		Form:   "i589",
		Config: testConfig(t),
		DryRun: true,
		Input:  strings.NewReader("Garcia\n"),
		Output: &out,
	})
	require.NoError(t, err)
	assert.Contains(t, out.String(), "Interrupted at 'given_name' node.")
	assert.NotContains(t, out.String(), "Document written")
}

func TestRunSession_UnknownForm(t *testing.T) {
	err := RunSession(context.Background(), RunOptions{
		Form:   "w2",
		Config: testConfig(t),
		DryRun: true,
		Input:  strings.NewReader(""),
		Output: &bytes.Buffer{},
	})
	assert.ErrorContains(t, err, "unknown form")
}

func TestNewBackend(t *testing.T) {
	logger := logging.NewNop()
	cfg := testConfig(t)

	b := NewBackend(cfg, true, logger)
	assert.IsType(t, &memory.Store{}, b.Writer)
	assert.IsType(t, &memory.Filler{}, b.Filler)

	b = NewBackend(cfg, false, logger)
	assert.IsType(t, &file.Store{}, b.Writer)
	assert.IsType(t, &file.Store{}, b.Reserver)
	require.IsType(t, &pdftk.Filler{}, b.Filler)
	assert.Equal(t, cfg.Lanes, b.Filler.(*pdftk.Filler).Lanes())

	mr := miniredis.RunT(t)
	cfg.RedisAddr = mr.Addr()
	b = NewBackend(cfg, false, logger)
	defer b.Close()
	assert.IsType(t, &redis.Reserver{}, b.Reserver)

	ok, err := b.Reserver.Reserve(context.Background(), "form1.pdf")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.True(t, mr.Exists("formflow:output:form1.pdf"))
}

func TestNewEngine_UsesBackendFiller(t *testing.T) {
	cfg := testConfig(t)
	template := filepath.Join(cfg.TemplateDir, "i589.pdf")
	b := &Backend{
		Filler: memory.NewFiller(map[string][]domain.FieldDescriptor{
			template: {{Name: "FamilyName", Type: "Text"}},
		}),
	}
	store := memory.NewStore()
	b.Writer, b.Reserver = store, store

	engine, err := NewEngine("i589", cfg, b, logging.NewNop(), domain.LifecycleHooks{})
	require.NoError(t, err)

	fields, err := engine.Fields(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []domain.FieldDescriptor{{Name: "FamilyName", Type: "Text"}}, fields)
}
