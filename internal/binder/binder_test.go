package binder

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/confboot/internal/propsource"
)

func source(name string, values map[string]string) *propsource.MapSource {
	src := propsource.NewMapSource(name)
	for k, v := range values {
		src.Add(k, v, propsource.DescribedOrigin("test"))
	}
	return src
}

func TestBinder_FirstMatchWins(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	high := source("high", map[string]string{"server.port": "9090"})
	low := source("low", map[string]string{"server.port": "8080", "server.host": "localhost"})
	b := New([]propsource.Source{high, low})

	// --- Act / Assert ---
	v, ok, err := b.Bind("server.port")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "9090", v, "the earlier source must win")

	v, ok, err = b.Bind("server.host")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "localhost", v, "unshadowed keys fall through to later sources")
}

func TestBinder_PlaceholderResolution(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		values   map[string]string
		bind     string
		expected string
	}{
		{
			name:     "simple substitution",
			values:   map[string]string{"greeting": "hello ${name}", "name": "world"},
			bind:     "greeting",
			expected: "hello world",
		},
		{
			name:     "fallback used when missing",
			values:   map[string]string{"url": "${host:localhost}:${port:8080}"},
			bind:     "url",
			expected: "localhost:8080",
		},
		{
			name:     "nested fallback resolves recursively",
			values:   map[string]string{"value": "${missing:${inner}}", "inner": "resolved"},
			bind:     "value",
			expected: "resolved",
		},
		{
			name:     "transitive chain",
			values:   map[string]string{"a": "${b}", "b": "${c}", "c": "leaf"},
			bind:     "a",
			expected: "leaf",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			b := New([]propsource.Source{source("test", tc.values)})
			v, ok, err := b.Bind(tc.bind)
			require.NoError(t, err)
			require.True(t, ok)
			assert.Equal(t, tc.expected, v)
		})
	}
}

func TestBinder_PlaceholderCycleFailsFast(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	b := New([]propsource.Source{source("test", map[string]string{
		"a": "${b}",
		"b": "${a}",
	})})

	// --- Act ---
	_, _, err := b.Bind("a")

	// --- Assert ---
	require.Error(t, err)
	var cycleErr *PlaceholderCycleError
	require.ErrorAs(t, err, &cycleErr)
	assert.Contains(t, cycleErr.Chain, "a")
	assert.Contains(t, cycleErr.Chain, "b")
}

func TestBinder_UnresolvablePlaceholderIsAnError(t *testing.T) {
	t.Parallel()

	b := New([]propsource.Source{source("test", map[string]string{"v": "${nope}"})})
	_, ok, err := b.Bind("v")
	require.True(t, ok)
	require.ErrorContains(t, err, "could not resolve placeholder")
}

func TestBinder_BindSlice(t *testing.T) {
	t.Parallel()

	t.Run("comma delimited", func(t *testing.T) {
		t.Parallel()
		b := New([]propsource.Source{source("test", map[string]string{
			"profiles.active": "dev, local ,",
		})})
		values, err := b.BindSlice("profiles.active")
		require.NoError(t, err)
		assert.Equal(t, []string{"dev", "local"}, values)
	})

	t.Run("indexed elements", func(t *testing.T) {
		t.Parallel()
		b := New([]propsource.Source{source("test", map[string]string{
			"config.import[0]": "file:a.yaml",
			"config.import[1]": "file:b.yaml",
		})})
		values, err := b.BindSlice("config.import")
		require.NoError(t, err)
		assert.Equal(t, []string{"file:a.yaml", "file:b.yaml"}, values)
	})

	t.Run("absent", func(t *testing.T) {
		t.Parallel()
		b := New([]propsource.Source{source("test", nil)})
		values, err := b.BindSlice("missing")
		require.NoError(t, err)
		assert.Empty(t, values)
	})
}

func TestBinder_BindTyped(t *testing.T) {
	t.Parallel()

	b := New([]propsource.Source{source("test", map[string]string{
		"enabled": "TRUE",
		"port":    "8080",
		"broken":  "not-a-number",
	})})

	enabled, err := b.BindBool("enabled", false)
	require.NoError(t, err)
	assert.True(t, enabled)

	missing, err := b.BindBool("missing", true)
	require.NoError(t, err)
	assert.True(t, missing)

	port, err := b.BindInt("port", 0)
	require.NoError(t, err)
	assert.Equal(t, 8080, port)

	_, err = b.BindInt("broken", 0)
	var bindErr *BindError
	require.ErrorAs(t, err, &bindErr)
	assert.Equal(t, "broken", bindErr.Name)
}

func TestBinder_BoundHandlerCanReject(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	src := source("inactive", map[string]string{"secret": "value"})
	b := New([]propsource.Source{src}, WithBoundHandler(
		func(name string, value propsource.Value, s propsource.Source) error {
			return &InactiveSourceError{Name: name, Source: s.Name(), Origin: value.Origin}
		}))

	// --- Act ---
	_, _, err := b.Bind("secret")

	// --- Assert ---
	var inactiveErr *InactiveSourceError
	require.ErrorAs(t, err, &inactiveErr)
	assert.Equal(t, "inactive", inactiveErr.Source)
}
