package propsource

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanonicalName(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "already canonical", input: "server.port", expected: "server.port"},
		{name: "dashes dropped", input: "config.additional-location", expected: "config.additionallocation"},
		{name: "underscores dropped", input: "SERVER_PORT", expected: "serverport"},
		{name: "mixed case lowered", input: "Server.Port", expected: "server.port"},
		{name: "indexed name", input: "config.import[0]", expected: "config.import[0]"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.expected, CanonicalName(tc.input))
		})
	}
}

func TestMapSource_LookupIsRelaxed(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	src := NewMapSource("test")
	src.Add("config.additional-location", "file:extra/", FileOrigin("application.yaml", 3))

	// --- Act / Assert ---
	v, ok := src.Lookup("config.additionalLocation")
	require.True(t, ok, "lookup should match through canonical names")
	assert.Equal(t, "file:extra/", v.Raw)
	assert.Equal(t, "application.yaml:3", v.Origin.String())
}

func TestMapSource_AddReplacesInPlace(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	src := NewMapSource("test")
	src.Add("a", "1", DescribedOrigin("first"))
	src.Add("b", "2", DescribedOrigin("second"))

	// --- Act ---
	// Re-adding an existing key must replace the value but keep position.
	src.Add("a", "3", DescribedOrigin("third"))

	// --- Assert ---
	require.Equal(t, 2, src.Len())
	assert.Equal(t, []string{"a", "b"}, src.Names())
	v, ok := src.Lookup("a")
	require.True(t, ok)
	assert.Equal(t, "3", v.Raw)
}
