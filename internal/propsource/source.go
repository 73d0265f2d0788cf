// Package propsource defines the uniform, name-addressed view over
// heterogeneous configuration backends. Every loaded document becomes a
// Source: an immutable, insertion-ordered mapping from canonical dotted
// names to string values with origin tracking.
package propsource

// Value is a single property value plus its provenance.
type Value struct {
	Raw    string
	Origin Origin
}

// Source is a read-only, name-addressed property container. Lookup is
// performed on the canonical form of the name, so equivalent spellings of
// the same key resolve identically.
type Source interface {
	// Name identifies the source for diagnostics (usually the resource it
	// was loaded from).
	Name() string

	// Lookup returns the value for the given property name, if present.
	Lookup(name string) (Value, bool)

	// Names returns all property names in insertion order, in the spelling
	// they were declared with.
	Names() []string
}

type entry struct {
	declared string
	value    Value
}

// MapSource is the standard Source implementation: an immutable ordered map
// built once by a loader and owned by exactly one contributor.
type MapSource struct {
	name    string
	entries []entry
	index   map[string]int
}

// NewMapSource creates an empty MapSource with the given diagnostic name.
// Entries are appended with Add before the source is published; once handed
// to a contributor it must not be modified.
func NewMapSource(name string) *MapSource {
	return &MapSource{name: name, index: make(map[string]int)}
}

// Add records a property. A later Add for an equivalent name replaces the
// earlier value, preserving the original insertion position. This gives
// last-one-wins semantics within a single document.
func (s *MapSource) Add(name, raw string, origin Origin) {
	canonical := CanonicalName(name)
	if i, ok := s.index[canonical]; ok {
		s.entries[i] = entry{declared: name, value: Value{Raw: raw, Origin: origin}}
		return
	}
	s.index[canonical] = len(s.entries)
	s.entries = append(s.entries, entry{declared: name, value: Value{Raw: raw, Origin: origin}})
}

// Name implements Source.
func (s *MapSource) Name() string { return s.name }

// Lookup implements Source.
func (s *MapSource) Lookup(name string) (Value, bool) {
	i, ok := s.index[CanonicalName(name)]
	if !ok {
		return Value{}, false
	}
	return s.entries[i].value, true
}

// Names implements Source.
func (s *MapSource) Names() []string {
	names := make([]string, len(s.entries))
	for i, e := range s.entries {
		names[i] = e.declared
	}
	return names
}

// Len returns the number of properties held by the source.
func (s *MapSource) Len() int { return len(s.entries) }
