package selector

import (
	"fmt"
	"sort"
	"strings"

	"github.com/vk/confboot/internal/metadata"
)

// OrderingCycleError reports a cycle among before/after declarations.
type OrderingCycleError struct {
	Members []string
}

func (e *OrderingCycleError) Error() string {
	return fmt.Sprintf("cycle in module ordering declarations: %s", strings.Join(e.Members, " -> "))
}

// sortModules orders modules deterministically: a stable sort by the numeric
// order annotation over declaration order, then a topological pass applying
// before/after declarations. Graph constraints are authoritative; numeric
// order only decides among otherwise-unconstrained modules.
func sortModules(modules []string, index *metadata.Index) ([]string, error) {
	ordered := append([]string{}, modules...)
	sort.SliceStable(ordered, func(i, j int) bool {
		return index.GetInt(ordered[i], metadata.KeyOrder, 0) <
			index.GetInt(ordered[j], metadata.KeyOrder, 0)
	})
	return applyOrderingDeclarations(ordered, index)
}

// applyOrderingDeclarations performs a depth-first topological sort that
// visits each module's "must come earlier" set before the module itself,
// preserving the incoming order everywhere no declaration forces a swap.
func applyOrderingDeclarations(modules []string, index *metadata.Index) ([]string, error) {
	inSet := make(map[string]bool, len(modules))
	for _, m := range modules {
		inSet[m] = true
	}

	// earlier[m] holds modules that must precede m: m's "after" set plus
	// every module declaring "before m".
	earlier := make(map[string][]string, len(modules))
	for _, m := range modules {
		for _, after := range index.GetSet(m, metadata.KeyAfter) {
			if inSet[after] {
				earlier[m] = append(earlier[m], after)
			}
		}
	}
	for _, m := range modules {
		for _, before := range index.GetSet(m, metadata.KeyBefore) {
			if inSet[before] {
				earlier[before] = append(earlier[before], m)
			}
		}
	}

	done := make(map[string]bool, len(modules))
	visiting := make(map[string]bool, len(modules))
	var out []string

	var visit func(name string, chain []string) error
	visit = func(name string, chain []string) error {
		if done[name] {
			return nil
		}
		if visiting[name] {
			return &OrderingCycleError{Members: append(chain, name)}
		}
		visiting[name] = true
		for _, dep := range earlier[name] {
			if err := visit(dep, append(chain, name)); err != nil {
				return err
			}
		}
		visiting[name] = false
		done[name] = true
		out = append(out, name)
		return nil
	}

	for _, m := range modules {
		if err := visit(m, nil); err != nil {
			return nil, err
		}
	}
	return out, nil
}
