package binder

import (
	"fmt"
	"strings"
)

const (
	placeholderStart = "${"
	placeholderEnd   = "}"
	defaultSeparator = ":"
)

// resolvePlaceholders substitutes every ${name} or ${name:default} in the
// value against the binder itself. visiting carries the chain of property
// names currently being expanded; revisiting one is a fatal cycle.
func (b *Binder) resolvePlaceholders(value string, visiting []string) (string, error) {
	start := strings.Index(value, placeholderStart)
	if start < 0 {
		return value, nil
	}

	var out strings.Builder
	for start >= 0 {
		out.WriteString(value[:start])
		rest := value[start+len(placeholderStart):]
		end := matchingEnd(rest)
		if end < 0 {
			out.WriteString(value[start:])
			return out.String(), nil
		}
		expanded, err := b.expandPlaceholder(rest[:end], visiting)
		if err != nil {
			return "", err
		}
		out.WriteString(expanded)
		value = rest[end+len(placeholderEnd):]
		start = strings.Index(value, placeholderStart)
	}
	out.WriteString(value)
	return out.String(), nil
}

func (b *Binder) expandPlaceholder(placeholder string, visiting []string) (string, error) {
	name, fallback, hasFallback := strings.Cut(placeholder, defaultSeparator)
	for _, seen := range visiting {
		if seen == name {
			return "", &PlaceholderCycleError{Chain: append(append([]string{}, visiting...), name)}
		}
	}
	raw, ok := b.lookupPlaceholder(name)
	if !ok {
		if hasFallback {
			return b.resolvePlaceholders(fallback, visiting)
		}
		return "", fmt.Errorf("could not resolve placeholder %q", name)
	}
	return b.resolvePlaceholders(raw, append(visiting, name))
}

func (b *Binder) lookupPlaceholder(name string) (string, bool) {
	for _, src := range b.placeholders() {
		if v, ok := src.Lookup(name); ok {
			return v.Raw, true
		}
	}
	return "", false
}

// matchingEnd finds the index of the placeholder's closing brace, tolerating
// nested ${...} inside defaults.
func matchingEnd(s string) int {
	depth := 0
	for i := 0; i < len(s); i++ {
		switch {
		case strings.HasPrefix(s[i:], placeholderStart):
			depth++
			i++
		case s[i] == '}':
			if depth == 0 {
				return i
			}
			depth--
		}
	}
	return -1
}
