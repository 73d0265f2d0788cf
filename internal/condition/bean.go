package condition

import (
	"fmt"
	"strings"

	"github.com/vk/confboot/internal/beans"
)

// SearchStrategy controls how far up the registry hierarchy a bean search
// looks.
type SearchStrategy int

// Search strategies.
const (
	// SearchCurrent searches only the current registry.
	SearchCurrent SearchStrategy = iota
	// SearchAncestors searches only the ancestors, skipping the current
	// registry.
	SearchAncestors
	// SearchAll searches the current registry and all ancestors.
	SearchAll
)

// beanSearch describes what to look for in the registry.
type beanSearch struct {
	Types        []string
	Annotations  []string
	Names        []string
	Strategy     SearchStrategy
	IgnoredTypes []string
}

// matchesIn returns the union of names matched by type, annotation, and
// explicit name across the registries selected by the strategy, excluding
// ignored types.
func (s beanSearch) matchesIn(root beans.Registry) []string {
	seen := make(map[string]bool)
	var out []string
	add := func(names []string) {
		for _, name := range names {
			if !seen[name] {
				seen[name] = true
				out = append(out, name)
			}
		}
	}
	registry := root
	if s.Strategy == SearchAncestors && registry != nil {
		registry = registry.Parent()
	}
	for registry != nil {
		for _, typeName := range s.Types {
			add(registry.NamesForType(typeName))
		}
		for _, annotation := range s.Annotations {
			add(registry.NamesForAnnotation(annotation))
		}
		for _, name := range s.Names {
			if def, ok := registry.Definition(name); ok && !def.ScopedProxy {
				add([]string{name})
			}
		}
		if s.Strategy == SearchCurrent {
			break
		}
		registry = registry.Parent()
	}
	return s.withoutIgnored(root, out)
}

func (s beanSearch) withoutIgnored(root beans.Registry, names []string) []string {
	if len(s.IgnoredTypes) == 0 {
		return names
	}
	ignored := make(map[string]bool, len(s.IgnoredTypes))
	for _, t := range s.IgnoredTypes {
		ignored[t] = true
	}
	filtered := names[:0]
	for _, name := range names {
		if def, ok := definitionIn(root, name); ok && ignored[def.Type] {
			continue
		}
		filtered = append(filtered, name)
	}
	return filtered
}

func definitionIn(registry beans.Registry, name string) (beans.Definition, bool) {
	for r := registry; r != nil; r = r.Parent() {
		if def, ok := r.Definition(name); ok {
			return def, true
		}
	}
	return beans.Definition{}, false
}

// OnBean matches when the registry holds at least one bean satisfying the
// search.
type OnBean struct {
	Types        []string
	Annotations  []string
	Names        []string
	Strategy     SearchStrategy
	IgnoredTypes []string
}

// Name implements Condition.
func (c OnBean) Name() string { return "on-bean" }

// Matches implements Condition.
func (c OnBean) Matches(ctx *Context) Outcome {
	found := beanSearch{
		Types: c.Types, Annotations: c.Annotations, Names: c.Names,
		Strategy: c.Strategy, IgnoredTypes: c.IgnoredTypes,
	}.matchesIn(ctx.Beans)
	if len(found) == 0 {
		return NoMatch("on-bean did not find any matching beans")
	}
	return Match(fmt.Sprintf("on-bean found beans %s", strings.Join(found, ", ")))
}

// OnMissingBean matches when the registry holds no bean satisfying the
// search.
type OnMissingBean struct {
	Types        []string
	Annotations  []string
	Names        []string
	Strategy     SearchStrategy
	IgnoredTypes []string
}

// Name implements Condition.
func (c OnMissingBean) Name() string { return "on-missing-bean" }

// Matches implements Condition.
func (c OnMissingBean) Matches(ctx *Context) Outcome {
	found := beanSearch{
		Types: c.Types, Annotations: c.Annotations, Names: c.Names,
		Strategy: c.Strategy, IgnoredTypes: c.IgnoredTypes,
	}.matchesIn(ctx.Beans)
	if len(found) > 0 {
		return NoMatch(fmt.Sprintf("on-missing-bean found unwanted beans %s", strings.Join(found, ", ")))
	}
	return Match("on-missing-bean found no matching beans")
}

// OnSingleCandidate matches when exactly one bean of the type is a viable
// autowire target: a single match, or several matches with exactly one
// marked primary.
type OnSingleCandidate struct {
	Type     string
	Strategy SearchStrategy
}

// Name implements Condition.
func (c OnSingleCandidate) Name() string { return "on-single-candidate" }

// Matches implements Condition.
func (c OnSingleCandidate) Matches(ctx *Context) Outcome {
	found := beanSearch{Types: []string{c.Type}, Strategy: c.Strategy}.matchesIn(ctx.Beans)
	switch len(found) {
	case 0:
		return NoMatch(fmt.Sprintf("on-single-candidate did not find any %s beans", c.Type))
	case 1:
		return Match(fmt.Sprintf("on-single-candidate found single bean %s", found[0]))
	}
	var primaries []string
	for _, name := range found {
		if def, ok := definitionIn(ctx.Beans, name); ok && def.Primary {
			primaries = append(primaries, name)
		}
	}
	if len(primaries) == 1 {
		return Match(fmt.Sprintf("on-single-candidate found primary bean %s among %d candidates",
			primaries[0], len(found)))
	}
	return NoMatch(fmt.Sprintf("on-single-candidate found %d %s beans with no single primary",
		len(found), c.Type))
}
