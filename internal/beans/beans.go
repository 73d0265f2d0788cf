// Package beans provides the registry view consumed by the expensive tier of
// conditional evaluation. It models only what condition matching needs:
// definitions queryable by type, annotation, and name, with an optional
// parent registry hierarchy.
package beans

// Definition describes one registered bean.
type Definition struct {
	Name        string
	Type        string
	Annotations []string

	// Primary marks the definition as the preferred autowire candidate when
	// several share a type.
	Primary bool

	// ScopedProxy marks an internal proxy-target definition. These are
	// invisible to condition matching.
	ScopedProxy bool
}

// Registry is the read-only bean registry surface used during evaluation.
type Registry interface {
	// NamesForType returns the names of definitions assignable to the type.
	NamesForType(typeName string) []string

	// NamesForAnnotation returns the names of definitions carrying the
	// annotation.
	NamesForAnnotation(annotation string) []string

	// Contains reports whether a definition with the name exists.
	Contains(name string) bool

	// Definition returns the definition for a name.
	Definition(name string) (Definition, bool)

	// Parent returns the enclosing registry, or nil at the root.
	Parent() Registry
}

// MapRegistry is an in-memory Registry.
type MapRegistry struct {
	parent Registry
	names  []string
	defs   map[string]Definition
}

// NewRegistry creates an empty registry with an optional parent.
func NewRegistry(parent Registry) *MapRegistry {
	return &MapRegistry{parent: parent, defs: make(map[string]Definition)}
}

// Register adds a definition, replacing any existing one with the same name.
func (r *MapRegistry) Register(def Definition) {
	if _, exists := r.defs[def.Name]; !exists {
		r.names = append(r.names, def.Name)
	}
	r.defs[def.Name] = def
}

// NamesForType returns registration-ordered names of definitions whose type
// equals the given type name. Scoped-proxy internals are skipped.
func (r *MapRegistry) NamesForType(typeName string) []string {
	var out []string
	for _, name := range r.names {
		def := r.defs[name]
		if def.ScopedProxy {
			continue
		}
		if def.Type == typeName {
			out = append(out, name)
		}
	}
	return out
}

// NamesForAnnotation returns registration-ordered names of definitions
// carrying the annotation. Scoped-proxy internals are skipped.
func (r *MapRegistry) NamesForAnnotation(annotation string) []string {
	var out []string
	for _, name := range r.names {
		def := r.defs[name]
		if def.ScopedProxy {
			continue
		}
		for _, a := range def.Annotations {
			if a == annotation {
				out = append(out, name)
				break
			}
		}
	}
	return out
}

// Contains reports whether the registry itself holds the name.
func (r *MapRegistry) Contains(name string) bool {
	_, ok := r.defs[name]
	return ok
}

// Definition returns the definition registered under the name.
func (r *MapRegistry) Definition(name string) (Definition, bool) {
	def, ok := r.defs[name]
	return def, ok
}

// Parent returns the enclosing registry.
func (r *MapRegistry) Parent() Registry { return r.parent }
