// Package binder provides a read-only composite view over an ordered list of
// property sources. Lookups are first-match-wins in source order; values are
// bound with lazy ${...} placeholder substitution against the same composite,
// failing fast on cyclic references.
package binder

import (
	"strconv"
	"strings"

	"github.com/vk/confboot/internal/propsource"
)

// SourceFunc supplies the sources to bind against, highest precedence first.
// It is re-invoked per lookup so callers can compose the binder over a tree
// that is still growing.
type SourceFunc func() []propsource.Source

// BoundHandler observes every successful bind. Returning an error aborts the
// bind; the contributor layer uses this to reject values that would be
// satisfied by an inactive profile source.
type BoundHandler func(name string, value propsource.Value, source propsource.Source) error

// Binder is the composite view.
type Binder struct {
	sources      SourceFunc
	placeholders SourceFunc
	onBound      BoundHandler
}

// Option configures a Binder.
type Option func(*Binder)

// WithBoundHandler installs a handler invoked after each successful bind.
func WithBoundHandler(h BoundHandler) Option {
	return func(b *Binder) { b.onBound = h }
}

// WithPlaceholderSources widens ${...} expansion to a different source list
// than the one used for direct lookups. The contributor layer uses this to
// bind a single document's properties while resolving placeholders against
// the whole tree.
func WithPlaceholderSources(sources SourceFunc) Option {
	return func(b *Binder) { b.placeholders = sources }
}

// New creates a binder over a fixed list of sources.
func New(sources []propsource.Source, opts ...Option) *Binder {
	return NewLazy(func() []propsource.Source { return sources }, opts...)
}

// NewLazy creates a binder whose sources are recomputed per lookup.
func NewLazy(sources SourceFunc, opts ...Option) *Binder {
	b := &Binder{sources: sources}
	for _, opt := range opts {
		opt(b)
	}
	if b.placeholders == nil {
		b.placeholders = b.sources
	}
	return b
}

// Lookup returns the raw (placeholder-unresolved) value for a property name,
// plus the source that supplied it.
func (b *Binder) Lookup(name string) (propsource.Value, propsource.Source, bool) {
	for _, src := range b.sources() {
		if v, ok := src.Lookup(name); ok {
			return v, src, true
		}
	}
	return propsource.Value{}, nil, false
}

// Contains reports whether the property is present in any source.
func (b *Binder) Contains(name string) bool {
	_, _, ok := b.Lookup(name)
	return ok
}

// Bind returns the value for a property with placeholders resolved. The
// boolean reports presence; errors cover placeholder failures and handler
// rejections.
func (b *Binder) Bind(name string) (string, bool, error) {
	value, source, ok := b.Lookup(name)
	if !ok {
		return "", false, nil
	}
	resolved, err := b.resolvePlaceholders(value.Raw, nil)
	if err != nil {
		return "", true, &BindError{Name: name, Value: value.Raw, Origin: value.Origin, Err: err}
	}
	if b.onBound != nil {
		if err := b.onBound(name, value, source); err != nil {
			return "", true, err
		}
	}
	return resolved, true, nil
}

// BindOr binds a property, returning the fallback when it is absent.
func (b *Binder) BindOr(name, fallback string) (string, error) {
	v, ok, err := b.Bind(name)
	if err != nil {
		return "", err
	}
	if !ok {
		return fallback, nil
	}
	return v, nil
}

// BindBool binds a boolean property.
func (b *Binder) BindBool(name string, fallback bool) (bool, error) {
	v, ok, err := b.Bind(name)
	if err != nil {
		return false, err
	}
	if !ok || v == "" {
		return fallback, nil
	}
	parsed, perr := strconv.ParseBool(strings.ToLower(v))
	if perr != nil {
		value, _, _ := b.Lookup(name)
		return false, &BindError{Name: name, Value: v, Origin: value.Origin, Err: perr}
	}
	return parsed, nil
}

// BindInt binds an integer property.
func (b *Binder) BindInt(name string, fallback int) (int, error) {
	v, ok, err := b.Bind(name)
	if err != nil {
		return 0, err
	}
	if !ok || v == "" {
		return fallback, nil
	}
	parsed, perr := strconv.Atoi(v)
	if perr != nil {
		value, _, _ := b.Lookup(name)
		return 0, &BindError{Name: name, Value: v, Origin: value.Origin, Err: perr}
	}
	return parsed, nil
}

// BindSlice binds a string list declared either as a single comma-delimited
// value or as indexed elements name[0], name[1], ...
func (b *Binder) BindSlice(name string) ([]string, error) {
	if v, ok, err := b.Bind(name); err != nil {
		return nil, err
	} else if ok {
		if strings.TrimSpace(v) == "" {
			return nil, nil
		}
		parts := strings.Split(v, ",")
		values := make([]string, 0, len(parts))
		for _, part := range parts {
			part = strings.TrimSpace(part)
			if part != "" {
				values = append(values, part)
			}
		}
		return values, nil
	}
	var values []string
	for i := 0; ; i++ {
		v, ok, err := b.Bind(name + "[" + strconv.Itoa(i) + "]")
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}
		values = append(values, v)
	}
	return values, nil
}
