package ports

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunNameReserverContract runs a suite of tests to verify that a NameReserver
// implementation adheres to the defined interface contract.
func RunNameReserverContract(t *testing.T, r NameReserver) {
	ctx := context.Background()
	prefix := "contract-" + time.Now().Format("20060102150405")

	t.Run("Reserve Once", func(t *testing.T) {
		name := prefix + "-once.pdf"

		ok, err := r.Reserve(ctx, name)
		require.NoError(t, err)
		assert.True(t, ok, "first reservation should succeed")

		ok, err = r.Reserve(ctx, name)
		require.NoError(t, err)
		assert.False(t, ok, "second reservation of the same name should fail")
	})

	t.Run("Release Frees Name", func(t *testing.T) {
		name := prefix + "-release.pdf"

		ok, err := r.Reserve(ctx, name)
		require.NoError(t, err)
		require.True(t, ok)

		require.NoError(t, r.Release(ctx, name))

		ok, err = r.Reserve(ctx, name)
		require.NoError(t, err)
		assert.True(t, ok, "a released name can be reserved again")
	})

	t.Run("Concurrent Claims", func(t *testing.T) {
		name := prefix + "-race.pdf"
		const workers = 16

		var wg sync.WaitGroup
		var mu sync.Mutex
		wins := 0
		for i := 0; i < workers; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				ok, err := r.Reserve(ctx, name)
				if err != nil {
					t.Errorf("reserve: %v", err)
					return
				}
				if ok {
					mu.Lock()
					wins++
					mu.Unlock()
				}
			}()
		}
		wg.Wait()
		assert.Equal(t, 1, wins, fmt.Sprintf("exactly one of %d concurrent claims should win", workers))
	})
}
