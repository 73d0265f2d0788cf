package bootstrap

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_CreatesAtMostOnce(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	r := NewRegistry()
	calls := 0
	r.Register("pool", func() (any, error) {
		calls++
		return "instance", nil
	})

	// --- Act ---
	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			v, ok, err := r.GetOrCreate("pool")
			assert.NoError(t, err)
			assert.True(t, ok)
			assert.Equal(t, "instance", v)
		}()
	}
	wg.Wait()

	// --- Assert ---
	assert.Equal(t, 1, calls)
}

func TestRegistry_FirstRegistrationWins(t *testing.T) {
	t.Parallel()

	r := NewRegistry()
	r.RegisterInstance("k", "first")
	r.Register("k", func() (any, error) { return "second", nil })

	v, ok, err := r.GetOrCreate("k")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "first", v)
}

func TestRegistry_UnknownKey(t *testing.T) {
	t.Parallel()

	r := NewRegistry()
	_, ok, err := r.GetOrCreate("absent")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.False(t, r.IsRegistered("absent"))
}

func TestRegistry_FactoryErrorIsNotCached(t *testing.T) {
	t.Parallel()

	r := NewRegistry()
	attempts := 0
	r.Register("flaky", func() (any, error) {
		attempts++
		if attempts == 1 {
			return nil, errors.New("boom")
		}
		return "ok", nil
	})

	_, ok, err := r.GetOrCreate("flaky")
	require.Error(t, err)
	assert.True(t, ok)

	v, ok, err := r.GetOrCreate("flaky")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "ok", v)
}
