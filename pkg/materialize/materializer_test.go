package materialize_test

import (
	"context"
	"errors"
	"math/rand/v2"
	"regexp"
	"strconv"
	"sync"
	"testing"

	"github.com/aretw0/formflow/pkg/adapters/memory"
	"github.com/aretw0/formflow/pkg/domain"
	"github.com/aretw0/formflow/pkg/materialize"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var namePattern = regexp.MustCompile(`^form(\d+)\.pdf$`)

type failingWriter struct {
	*memory.Store
	err error
}

func (w failingWriter) Write(ctx context.Context, name string, data []byte) error {
	return w.err
}

func newMaterializer(t *testing.T, store *memory.Store, filler *memory.Filler, opts ...materialize.Option) *materialize.Materializer {
	t.Helper()
	m, err := materialize.New("templates/i589.pdf", filler, store, opts...)
	require.NoError(t, err)
	return m
}

func TestGenerateUniqueFilename_Format(t *testing.T) {
	m := newMaterializer(t, memory.NewStore(), memory.NewFiller(nil))

	for i := 0; i < 200; i++ {
		name, err := m.GenerateUniqueFilename(context.Background())
		require.NoError(t, err)

		match := namePattern.FindStringSubmatch(name)
		require.NotNil(t, match, name)
		n, _ := strconv.Atoi(match[1])
		assert.GreaterOrEqual(t, n, 1)
		assert.Less(t, n, materialize.NameSpace)
	}
}

func TestGenerateUniqueFilename_SkipsExisting(t *testing.T) {
	seed := func() *rand.Rand { return rand.New(rand.NewPCG(1, 2)) }

	// Learn the first candidate of this seed, then pretend it already exists.
	probe := newMaterializer(t, memory.NewStore(), memory.NewFiller(nil), materialize.WithRand(seed()))
	first, err := probe.GenerateUniqueFilename(context.Background())
	require.NoError(t, err)

	store := memory.NewStore()
	store.Seed(first)
	m := newMaterializer(t, store, memory.NewFiller(nil), materialize.WithRand(seed()))

	got, err := m.GenerateUniqueFilename(context.Background())
	require.NoError(t, err)
	assert.NotEqual(t, first, got)
	assert.True(t, store.Reserved(got))
}

func TestGenerateUniqueFilename_Exhausted(t *testing.T) {
	store := memory.NewStore()
	for n := 1; n < materialize.NameSpace; n++ {
		store.Seed(materialize.CandidateName(n))
	}
	m := newMaterializer(t, store, memory.NewFiller(nil), materialize.WithMaxAttempts(10))

	_, err := m.GenerateUniqueFilename(context.Background())
	assert.ErrorIs(t, err, domain.ErrNamespaceExhausted)
}

func TestGenerateUniqueFilename_ConcurrentCallersNeverShare(t *testing.T) {
	m := newMaterializer(t, memory.NewStore(), memory.NewFiller(nil))

	const workers = 64
	names := make(chan string, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			name, err := m.GenerateUniqueFilename(context.Background())
			if err == nil {
				names <- name
			}
		}()
	}
	wg.Wait()
	close(names)

	seen := map[string]bool{}
	for n := range names {
		assert.False(t, seen[n], "duplicate name %s", n)
		seen[n] = true
	}
	assert.Len(t, seen, workers)
}

func TestWrite_Success(t *testing.T) {
	store := memory.NewStore()
	filler := memory.NewFiller(nil)
	mapper := materialize.MapperFunc(func(a domain.Answers) (map[string]string, error) {
		return map[string]string{"FamilyName": a["lastName"].Str}, nil
	})

	var events []*domain.MaterializeEvent
	m := newMaterializer(t, store, filler,
		materialize.WithMapper(mapper),
		materialize.WithForm("i589"),
		materialize.WithLifecycleHooks(domain.LifecycleHooks{
			OnMaterialize: func(ctx context.Context, e *domain.MaterializeEvent) { events = append(events, e) },
		}),
	)

	name, err := m.Write(context.Background(), domain.Answers{"lastName": domain.String("Doe")})
	require.NoError(t, err)
	assert.Regexp(t, namePattern, name)

	data, ok := store.Read(name)
	require.True(t, ok)
	assert.JSONEq(t, `{"FamilyName":"Doe"}`, string(data))

	calls := filler.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, "templates/i589.pdf", calls[0].Document)
	assert.Equal(t, domain.FillOptions{OutputFormat: "pdf", Parallelism: 4}, calls[0].Options)

	require.Len(t, events, 1)
	assert.Equal(t, name, events[0].Filename)
	assert.Equal(t, "i589", events[0].Form)
	assert.Equal(t, 1, events[0].Fields)
	assert.NoError(t, events[0].Err)
}

func TestWrite_BaseMapperFillsNothing(t *testing.T) {
	filler := memory.NewFiller(nil)
	m := newMaterializer(t, memory.NewStore(), filler)

	_, err := m.Write(context.Background(), domain.Answers{"ignored": domain.Bool(true)})
	require.NoError(t, err)
	assert.Empty(t, filler.Calls()[0].Fields)
}

func TestWrite_FillFailureReleasesName(t *testing.T) {
	store := memory.NewStore()
	boom := errors.New("pdf engine crashed")
	filler := memory.NewFiller(nil)
	filler.Err = boom

	m := newMaterializer(t, store, filler, materialize.WithRand(rand.New(rand.NewPCG(7, 7))))
	_, err := m.Write(context.Background(), domain.Answers{})
	require.ErrorIs(t, err, boom)

	assert.Empty(t, store.List())
	assert.Len(t, filler.Calls(), 1, "no retry")

	// The same seed yields the same first candidate, which must be free again.
	probe := newMaterializer(t, store, memory.NewFiller(nil), materialize.WithRand(rand.New(rand.NewPCG(7, 7))), materialize.WithMaxAttempts(1))
	_, err = probe.GenerateUniqueFilename(context.Background())
	assert.NoError(t, err)
}

func TestWrite_StorageFailure(t *testing.T) {
	store := memory.NewStore()
	boom := errors.New("disk full")
	m, err := materialize.New("t.pdf", memory.NewFiller(nil), failingWriter{Store: store, err: boom})
	require.NoError(t, err)

	_, err = m.Write(context.Background(), domain.Answers{})
	assert.ErrorIs(t, err, boom)
	assert.Empty(t, store.List())
}

func TestWrite_MapperFailure(t *testing.T) {
	filler := memory.NewFiller(nil)
	boom := errors.New("bad answers")
	m := newMaterializer(t, memory.NewStore(), filler, materialize.WithMapper(materialize.MapperFunc(
		func(domain.Answers) (map[string]string, error) { return nil, boom },
	)))

	_, err := m.Write(context.Background(), domain.Answers{})
	assert.ErrorIs(t, err, boom)
	assert.Empty(t, filler.Calls())
}

func TestWriteAsync(t *testing.T) {
	store := memory.NewStore()
	m := newMaterializer(t, store, memory.NewFiller(nil))

	done := make(chan struct{})
	var gotName string
	var gotErr error
	m.WriteAsync(context.Background(), domain.Answers{}, func(name string, err error) {
		gotName, gotErr = name, err
		close(done)
	})
	<-done

	require.NoError(t, gotErr)
	_, ok := store.Read(gotName)
	assert.True(t, ok)
}

func TestNew_RequiresCollaborators(t *testing.T) {
	_, err := materialize.New("t.pdf", nil, memory.NewStore())
	assert.Error(t, err)

	_, err = materialize.New("t.pdf", memory.NewFiller(nil), nil)
	assert.Error(t, err)
}
