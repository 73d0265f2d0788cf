// Package testutil provides the shared harness for resolution tests: an
// in-memory filesystem seeded from literal file maps, a captured debug-level
// logger, and a one-call engine run.
package testutil

import (
	"bytes"
	"context"
	"log/slog"
	"sync"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"

	"github.com/vk/confboot/internal/ctxlog"
	"github.com/vk/confboot/internal/engine"
	"github.com/vk/confboot/internal/propsource"
)

// SafeBuffer is a thread-safe buffer for capturing log output in tests.
type SafeBuffer struct {
	b  bytes.Buffer
	mu sync.Mutex
}

// Write implements the io.Writer interface for SafeBuffer.
func (b *SafeBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.Write(p)
}

// String implements the fmt.Stringer interface for SafeBuffer.
func (b *SafeBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.String()
}

// Fs builds an in-memory filesystem from a map of path to file content.
func Fs(t *testing.T, files map[string]string) afero.Fs {
	t.Helper()
	fs := afero.NewMemMapFs()
	for name, content := range files {
		require.NoError(t, afero.WriteFile(fs, name, []byte(content), 0o644))
	}
	return fs
}

// Source builds a property source from literal name/value pairs, applied in
// sorted-key order with a test-described origin.
func Source(name string, values map[string]string) *propsource.MapSource {
	src := propsource.NewMapSource(name)
	for _, key := range sortedKeys(values) {
		src.Add(key, values[key], propsource.DescribedOrigin("test value "+key))
	}
	return src
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	for i := 1; i < len(keys); i++ {
		for j := i; j > 0 && keys[j] < keys[j-1]; j-- {
			keys[j], keys[j-1] = keys[j-1], keys[j]
		}
	}
	return keys
}

// ResolutionResult holds the outcome of a harness run.
type ResolutionResult struct {
	Result    *engine.Result
	Err       error
	LogOutput string
}

// RunResolution seeds an in-memory filesystem with the given files and runs
// the resolution engine over it with debug logging captured.
func RunResolution(t *testing.T, files map[string]string, opts engine.Options) *ResolutionResult {
	t.Helper()

	if opts.Fs == nil {
		opts.Fs = Fs(t, files)
	}
	logBuffer := &SafeBuffer{}
	logger := slog.New(slog.NewTextHandler(logBuffer, &slog.HandlerOptions{Level: slog.LevelDebug}))
	ctx := ctxlog.WithLogger(context.Background(), logger)

	result, err := engine.New(opts).Run(ctx)
	return &ResolutionResult{Result: result, Err: err, LogOutput: logBuffer.String()}
}
