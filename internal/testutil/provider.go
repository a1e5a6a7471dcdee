// Package testutil holds helpers shared by tests of several packages.
package testutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julianstephens/rotipani/internal/storage"
)

// ProviderFactory returns a ready (initialized) provider for one subtest
type ProviderFactory func(t *testing.T) storage.Provider

// RunProviderTests checks the key-value contract every storage backend
// must satisfy.
func RunProviderTests(t *testing.T, newProvider ProviderFactory) {
	t.Run("get missing key", func(t *testing.T) {
		p := newProvider(t)
		v, ok, err := p.Get("2024-06-10")
		require.NoError(t, err)
		assert.False(t, ok)
		assert.Empty(t, v)
	})

	t.Run("set then get", func(t *testing.T) {
		p := newProvider(t)
		require.NoError(t, p.Set("2024-06-10", `{"lunch":true,"dinner":false}`))
		v, ok, err := p.Get("2024-06-10")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, `{"lunch":true,"dinner":false}`, v)
	})

	t.Run("set replaces", func(t *testing.T) {
		p := newProvider(t)
		require.NoError(t, p.Set("userName", "Asha"))
		require.NoError(t, p.Set("userName", "Ravi"))
		v, _, err := p.Get("userName")
		require.NoError(t, err)
		assert.Equal(t, "Ravi", v)
	})

	t.Run("remove", func(t *testing.T) {
		p := newProvider(t)
		require.NoError(t, p.Set("2024-06-10", "x"))
		require.NoError(t, p.Remove("2024-06-10"))
		_, ok, err := p.Get("2024-06-10")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("remove missing key is not an error", func(t *testing.T) {
		p := newProvider(t)
		assert.NoError(t, p.Remove("1999-01-01"))
	})

	t.Run("keys are sorted", func(t *testing.T) {
		p := newProvider(t)
		for _, k := range []string{"2024-06-10", "userName", "2023-12-31", "2024-01-02"} {
			require.NoError(t, p.Set(k, "v"))
		}
		keys, err := p.Keys()
		require.NoError(t, err)
		assert.Equal(t, []string{"2023-12-31", "2024-01-02", "2024-06-10", "userName"}, keys)
	})

	t.Run("clear removes everything", func(t *testing.T) {
		p := newProvider(t)
		require.NoError(t, p.Set("2024-06-10", "v"))
		require.NoError(t, p.Set("userName", "Asha"))
		require.NoError(t, p.Clear())
		keys, err := p.Keys()
		require.NoError(t, err)
		assert.Empty(t, keys)
		_, ok, err := p.Get("userName")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("values are opaque", func(t *testing.T) {
		p := newProvider(t)
		raw := "not json at all é \n\t"
		require.NoError(t, p.Set("2024-06-10", raw))
		v, _, err := p.Get("2024-06-10")
		require.NoError(t, err)
		assert.Equal(t, raw, v)
	})
}

// FixedClock returns a clock that always reports t
func FixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

// StepClock returns a clock that starts at t and advances by step on every call
func StepClock(t time.Time, step time.Duration) func() time.Time {
	current := t
	return func() time.Time {
		now := current
		current = current.Add(step)
		return now
	}
}
