package loader

import (
	"context"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/confboot/internal/resolver"
)

func memFs(t *testing.T, files map[string]string) afero.Fs {
	t.Helper()
	fs := afero.NewMemMapFs()
	for name, content := range files {
		require.NoError(t, afero.WriteFile(fs, name, []byte(content), 0o644))
	}
	return fs
}

func TestLoaders_ExactlyOneClaimant(t *testing.T) {
	t.Parallel()

	fs := memFs(t, map[string]string{"application.yaml": "a: 1\n"})
	chain := New(NewYAMLLoader(fs), NewPropertiesLoader(fs))

	t.Run("single claimant loads", func(t *testing.T) {
		t.Parallel()
		data, err := chain.Load(context.Background(), resolver.NewFileResource("application.yaml", false))
		require.NoError(t, err)
		require.Len(t, data.Sources, 1)
	})

	t.Run("no claimant fails", func(t *testing.T) {
		t.Parallel()
		_, err := chain.Load(context.Background(), resolver.NewFileResource("application.ini", false))
		require.ErrorContains(t, err, "no loader found")
	})

	t.Run("multiple claimants fail", func(t *testing.T) {
		t.Parallel()
		dup := New(NewYAMLLoader(fs), NewYAMLLoader(fs))
		_, err := dup.Load(context.Background(), resolver.NewFileResource("application.yaml", false))
		require.ErrorContains(t, err, "multiple loaders found")
	})
}

func TestYAMLLoader_MultiDocument(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	content := "server:\n  port: 8080\n---\nserver:\n  port: 9090\n"
	fs := memFs(t, map[string]string{"application.yaml": content})

	// --- Act ---
	data, err := NewYAMLLoader(fs).Load(context.Background(), resolver.NewFileResource("application.yaml", false))

	// --- Assert ---
	require.NoError(t, err)
	require.Len(t, data.Sources, 2, "each document becomes its own source")

	first, ok := data.Sources[0].Lookup("server.port")
	require.True(t, ok)
	assert.Equal(t, "8080", first.Raw)
	assert.Equal(t, 2, first.Origin.Line)

	second, ok := data.Sources[1].Lookup("server.port")
	require.True(t, ok)
	assert.Equal(t, "9090", second.Raw)
	assert.Contains(t, data.Sources[1].Name(), "document #2")
}

func TestYAMLLoader_ScalarsAndSequences(t *testing.T) {
	t.Parallel()

	content := "empty: null\nlist:\n  - a\n  - b\n"
	fs := memFs(t, map[string]string{"application.yml": content})

	data, err := NewYAMLLoader(fs).Load(context.Background(), resolver.NewFileResource("application.yml", false))
	require.NoError(t, err)
	require.Len(t, data.Sources, 1)
	src := data.Sources[0]

	empty, ok := src.Lookup("empty")
	require.True(t, ok)
	assert.Equal(t, "", empty.Raw, "explicit null maps to the empty string")

	second, ok := src.Lookup("list[1]")
	require.True(t, ok)
	assert.Equal(t, "b", second.Raw)
}

func TestYAMLLoader_MalformedDocument(t *testing.T) {
	t.Parallel()

	fs := memFs(t, map[string]string{"bad.yaml": "a: [unclosed\n"})
	_, err := NewYAMLLoader(fs).Load(context.Background(), resolver.NewFileResource("bad.yaml", false))

	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Contains(t, parseErr.Resource, "bad.yaml")
}

func TestPropertiesLoader(t *testing.T) {
	t.Parallel()

	content := "# comment\n! also a comment\nserver.port = 8080\nempty.value=\n"
	fs := memFs(t, map[string]string{"application.properties": content})

	data, err := NewPropertiesLoader(fs).Load(context.Background(), resolver.NewFileResource("application.properties", false))
	require.NoError(t, err)
	require.Len(t, data.Sources, 1)
	src := data.Sources[0]

	port, ok := src.Lookup("server.port")
	require.True(t, ok)
	assert.Equal(t, "8080", port.Raw)
	assert.Equal(t, 3, port.Origin.Line)

	empty, ok := src.Lookup("empty.value")
	require.True(t, ok)
	assert.Equal(t, "", empty.Raw)
}

func TestPropertiesLoader_MalformedLine(t *testing.T) {
	t.Parallel()

	fs := memFs(t, map[string]string{"application.properties": "not a pair\n"})
	_, err := NewPropertiesLoader(fs).Load(context.Background(), resolver.NewFileResource("application.properties", false))

	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Equal(t, 1, parseErr.Origin.Line)
}

func TestTOMLLoader(t *testing.T) {
	t.Parallel()

	content := "[server]\nport = 8080\nhosts = [\"a\", \"b\"]\n"
	fs := memFs(t, map[string]string{"application.toml": content})

	data, err := NewTOMLLoader(fs).Load(context.Background(), resolver.NewFileResource("application.toml", false))
	require.NoError(t, err)
	require.Len(t, data.Sources, 1)
	src := data.Sources[0]

	port, ok := src.Lookup("server.port")
	require.True(t, ok)
	assert.Equal(t, "8080", port.Raw)

	host, ok := src.Lookup("server.hosts[1]")
	require.True(t, ok)
	assert.Equal(t, "b", host.Raw)
}

func TestTOMLLoader_ParseErrorCarriesPosition(t *testing.T) {
	t.Parallel()

	fs := memFs(t, map[string]string{"bad.toml": "key = \n"})
	_, err := NewTOMLLoader(fs).Load(context.Background(), resolver.NewFileResource("bad.toml", false))

	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.NotZero(t, parseErr.Origin.Line)
}

func TestHCLLoader(t *testing.T) {
	t.Parallel()

	content := `
port = 8080
tags = ["a", "b"]

server "main" {
  host = "localhost"
}
`
	fs := memFs(t, map[string]string{"application.hcl": content})

	data, err := NewHCLLoader(fs).Load(context.Background(), resolver.NewFileResource("application.hcl", false))
	require.NoError(t, err)
	require.Len(t, data.Sources, 1)
	src := data.Sources[0]

	port, ok := src.Lookup("port")
	require.True(t, ok)
	assert.Equal(t, "8080", port.Raw)
	assert.Equal(t, 2, port.Origin.Line)

	tag, ok := src.Lookup("tags[0]")
	require.True(t, ok)
	assert.Equal(t, "a", tag.Raw)

	host, ok := src.Lookup("server.main.host")
	require.True(t, ok)
	assert.Equal(t, "localhost", host.Raw)
}

func TestHCLLoader_SyntaxError(t *testing.T) {
	t.Parallel()

	fs := memFs(t, map[string]string{"bad.hcl": "server {\n"})
	_, err := NewHCLLoader(fs).Load(context.Background(), resolver.NewFileResource("bad.hcl", false))

	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)
}

func TestConfigTreeLoader(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	fs := memFs(t, map[string]string{
		"etc/config/db/password":   "secret\n",
		"etc/config/db/username":   "admin",
		"etc/config/.hidden":       "nope",
		"etc/config/.secrets/item": "nope",
	})

	// --- Act ---
	data, err := NewConfigTreeLoader(fs).Load(context.Background(), resolver.NewConfigTreeResource("etc/config"))

	// --- Assert ---
	require.NoError(t, err)
	require.Len(t, data.Sources, 1)
	src := data.Sources[0]
	require.Equal(t, 2, src.Len(), "dot files and dot directories are skipped")

	password, ok := src.Lookup("db.password")
	require.True(t, ok)
	assert.Equal(t, "secret", password.Raw, "one trailing newline is trimmed")

	username, ok := src.Lookup("db.username")
	require.True(t, ok)
	assert.Equal(t, "admin", username.Raw)
}

func TestConfigTreeLoader_MissingDirectory(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	_, err := NewConfigTreeLoader(fs).Load(context.Background(), resolver.NewConfigTreeResource("etc/config"))

	var notFound *resolver.ResourceNotFoundError
	require.ErrorAs(t, err, &notFound)
}
