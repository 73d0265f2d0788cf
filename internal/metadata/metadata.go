// Package metadata reads the two line-oriented registries that stand in for
// runtime type introspection: the candidates registry mapping an enabling
// annotation to its module names, and the metadata index carrying
// precomputed per-module condition attributes for the cheap filter tier.
package metadata

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/afero"
)

// Condition keys stored in the metadata index under "module.Key".
const (
	KeyOnType               = "OnType"
	KeyOnProperty           = "OnProperty"
	KeyOnWebApplicationType = "OnWebApplicationType"
	KeyOrder                = "Order"
	KeyBefore               = "Before"
	KeyAfter                = "After"
)

// parseLines reads a key=value registry: one pair per line, '#' comments,
// blank lines ignored. Duplicate keys append with a comma.
func parseLines(r io.Reader, name string) (map[string]string, error) {
	out := make(map[string]string)
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, ok := strings.Cut(line, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("%s:%d: expected key=value, got %q", name, lineNo, line)
		}
		value = strings.TrimSpace(value)
		if existing, dup := out[key]; dup && existing != "" && value != "" {
			value = existing + "," + value
		} else if dup && existing != "" {
			value = existing
		}
		out[key] = value
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading %s: %w", name, err)
	}
	return out, nil
}

func splitValues(value string) []string {
	if value == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// Registry maps an enabling-annotation key to its declared candidate module
// names, in declaration order.
type Registry struct {
	entries map[string]string
}

// LoadRegistry reads a candidates registry from a file.
func LoadRegistry(fs afero.Fs, path string) (*Registry, error) {
	f, err := fs.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening candidates registry: %w", err)
	}
	defer f.Close()
	return ParseRegistry(f, path)
}

// ParseRegistry reads a candidates registry from a reader.
func ParseRegistry(r io.Reader, name string) (*Registry, error) {
	entries, err := parseLines(r, name)
	if err != nil {
		return nil, err
	}
	return &Registry{entries: entries}, nil
}

// EmptyRegistry returns a registry with no candidate declarations.
func EmptyRegistry() *Registry {
	return &Registry{entries: make(map[string]string)}
}

// Lookup returns the candidate names registered under the key, in
// declaration order.
func (r *Registry) Lookup(key string) []string {
	return splitValues(r.entries[key])
}

// Index is the precomputed metadata side-table. A bare "module=" line marks
// the module as processed by the metadata generator, distinguishing "no
// conditions" from "conditions never computed".
type Index struct {
	entries map[string]string
}

// EmptyIndex returns an index with no entries; every module reads as
// unprocessed.
func EmptyIndex() *Index {
	return &Index{entries: make(map[string]string)}
}

// LoadIndex reads a metadata index from a file.
func LoadIndex(fs afero.Fs, path string) (*Index, error) {
	f, err := fs.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening metadata index: %w", err)
	}
	defer f.Close()
	return ParseIndex(f, path)
}

// ParseIndex reads a metadata index from a reader.
func ParseIndex(r io.Reader, name string) (*Index, error) {
	entries, err := parseLines(r, name)
	if err != nil {
		return nil, err
	}
	return &Index{entries: entries}, nil
}

// WasProcessed reports whether the metadata generator saw the module.
func (i *Index) WasProcessed(module string) bool {
	_, ok := i.entries[module]
	return ok
}

// Get returns the raw value stored under module.key.
func (i *Index) Get(module, key string) (string, bool) {
	v, ok := i.entries[module+"."+key]
	return v, ok
}

// GetSet returns the comma-separated values stored under module.key.
func (i *Index) GetSet(module, key string) []string {
	v, _ := i.Get(module, key)
	return splitValues(v)
}

// GetInt returns the integer stored under module.key, or the fallback when
// absent or malformed.
func (i *Index) GetInt(module, key string, fallback int) int {
	v, ok := i.Get(module, key)
	if !ok {
		return fallback
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return fallback
	}
	return n
}
