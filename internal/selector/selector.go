// Package selector turns the candidates registry into the final ordered
// module list: it collects candidates per entry point, applies exclusions
// and the cheap filter tier, then aggregates, deduplicates, and sorts once
// across all entry points.
package selector

import (
	"context"
	"fmt"
	"strings"

	"github.com/vk/confboot/internal/condition"
	"github.com/vk/confboot/internal/ctxlog"
	"github.com/vk/confboot/internal/metadata"
)

// Property names consumed by selection.
const (
	// ExcludeProperty lists module names to exclude, on top of the
	// exclusions declared at each entry point.
	ExcludeProperty = "autoconfigure.exclude"

	// EnabledProperty is the kill switch; when bound to false every entry
	// point selects nothing.
	EnabledProperty = "autoconfigure.enabled"
)

// EntryPoint is one declared aggregation site importing modules under a
// registry key.
type EntryPoint struct {
	// Name identifies the entry point in attribution diagnostics.
	Name string

	// Key selects the candidate list in the registry.
	Key string

	// Exclude lists module names excluded at this entry point.
	Exclude []string
}

// InvalidExclusionError reports every excluded name that is loadable but not
// a known candidate. All invalid names are collected before failing.
type InvalidExclusionError struct {
	Names []string
}

func (e *InvalidExclusionError) Error() string {
	return fmt.Sprintf("the following modules were excluded but are not auto-configuration candidates: %s",
		strings.Join(e.Names, ", "))
}

// Selection is the aggregated result across all processed entry points.
type Selection struct {
	// Modules is the final ordered module list.
	Modules []string

	// Exclusions is the union of every applied exclusion.
	Exclusions map[string]bool

	// AttributedTo maps each selected module to the name of the entry point
	// that first introduced it.
	AttributedTo map[string]string
}

// provisional is the per-entry-point stage-one result.
type provisional struct {
	entry      EntryPoint
	candidates []string
	exclusions []string
}

// Selector runs the two-stage selection pipeline. It is owned by one
// bootstrap invocation and not safe for concurrent use.
type Selector struct {
	registry *metadata.Registry
	index    *metadata.Index
	filters  []condition.Filter
	condCtx  *condition.Context
	report   *condition.Report

	provisionals []provisional
}

// New creates a selector. A nil registry or index behaves as an empty one
// and a nil filter slice uses the default cheap filter chain.
func New(registry *metadata.Registry, index *metadata.Index, condCtx *condition.Context, filters []condition.Filter, report *condition.Report) *Selector {
	if registry == nil {
		registry = metadata.EmptyRegistry()
	}
	if index == nil {
		index = metadata.EmptyIndex()
	}
	if filters == nil {
		filters = condition.DefaultFilters()
	}
	if report == nil {
		report = condition.NewReport()
	}
	return &Selector{
		registry: registry,
		index:    index,
		filters:  filters,
		condCtx:  condCtx,
		report:   report,
	}
}

// Report returns the evaluation report shared across entry points.
func (s *Selector) Report() *condition.Report { return s.report }

// Process runs stage one for an entry point: collect candidates, validate
// and apply exclusions, then run the batched cheap filters. The provisional
// result is held until Select aggregates all entry points.
func (s *Selector) Process(ctx context.Context, entry EntryPoint) error {
	logger := ctxlog.FromContext(ctx)

	enabled, err := s.condCtx.Binder.BindBool(EnabledProperty, true)
	if err != nil {
		return err
	}
	if !enabled {
		logger.Debug("Auto-configuration disabled; entry point selects nothing.", "entry_point", entry.Name)
		return nil
	}

	candidates := dedupe(s.registry.Lookup(entry.Key))
	exclusions, err := s.exclusions(entry)
	if err != nil {
		return err
	}
	if err := s.validateExclusions(candidates, exclusions); err != nil {
		return err
	}
	candidates = without(candidates, exclusions)
	candidates = s.applyFilters(ctx, candidates)

	s.provisionals = append(s.provisionals, provisional{
		entry:      entry,
		candidates: candidates,
		exclusions: exclusions,
	})
	logger.Debug("Entry point processed.",
		"entry_point", entry.Name, "candidates", len(candidates), "exclusions", len(exclusions))
	return nil
}

// Select runs stage two: merge all provisional results, re-apply the union
// of exclusions, deduplicate first-seen, and sort deterministically.
func (s *Selector) Select(ctx context.Context) (*Selection, error) {
	excluded := make(map[string]bool)
	for _, p := range s.provisionals {
		for _, name := range p.exclusions {
			excluded[name] = true
		}
	}

	seen := make(map[string]bool)
	attributed := make(map[string]string)
	var modules []string
	for _, p := range s.provisionals {
		for _, candidate := range p.candidates {
			if seen[candidate] || excluded[candidate] {
				continue
			}
			seen[candidate] = true
			attributed[candidate] = p.entry.Name
			modules = append(modules, candidate)
		}
	}

	ordered, err := sortModules(modules, s.index)
	if err != nil {
		return nil, err
	}
	ctxlog.FromContext(ctx).Debug("Module selection complete.",
		"modules", len(ordered), "exclusions", len(excluded))
	return &Selection{Modules: ordered, Exclusions: excluded, AttributedTo: attributed}, nil
}

// exclusions merges entry-point exclusions with the bound exclude property.
func (s *Selector) exclusions(entry EntryPoint) ([]string, error) {
	bound, err := s.condCtx.Binder.BindSlice(ExcludeProperty)
	if err != nil {
		return nil, err
	}
	return dedupe(append(append([]string{}, entry.Exclude...), bound...)), nil
}

// validateExclusions fails on excluded names that are loadable yet not
// candidates. Unloadable names are silently accepted so stale exclusions of
// removed modules do not break startup.
func (s *Selector) validateExclusions(candidates, exclusions []string) error {
	isCandidate := make(map[string]bool, len(candidates))
	for _, c := range candidates {
		isCandidate[c] = true
	}
	var invalid []string
	for _, name := range exclusions {
		if isCandidate[name] {
			continue
		}
		if s.condCtx.Classifier.Presence(name) == condition.PresencePresent {
			invalid = append(invalid, name)
		}
	}
	if len(invalid) > 0 {
		return &InvalidExclusionError{Names: invalid}
	}
	return nil
}

// applyFilters runs each batched cheap filter over the surviving candidates.
// A candidate eliminated by one filter is blanked out so later filters skip
// it entirely.
func (s *Selector) applyFilters(ctx context.Context, candidates []string) []string {
	working := append([]string{}, candidates...)
	skipped := false
	for _, filter := range s.filters {
		matches := filter.Match(working, s.index, s.condCtx)
		for i, matched := range matches {
			if working[i] == "" {
				continue
			}
			outcome := condition.Match(filter.Name() + " matched")
			if !matched {
				outcome = condition.NoMatch(filter.Name() + " did not match")
			}
			s.report.Record(working[i], filter.Name(), outcome)
			if !matched {
				working[i] = ""
				skipped = true
			}
		}
	}
	if !skipped {
		return working
	}
	var out []string
	for _, candidate := range working {
		if candidate != "" {
			out = append(out, candidate)
		}
	}
	return out
}

func dedupe(names []string) []string {
	seen := make(map[string]bool, len(names))
	var out []string
	for _, name := range names {
		if !seen[name] {
			seen[name] = true
			out = append(out, name)
		}
	}
	return out
}

func without(names []string, excluded []string) []string {
	drop := make(map[string]bool, len(excluded))
	for _, name := range excluded {
		drop[name] = true
	}
	var out []string
	for _, name := range names {
		if !drop[name] {
			out = append(out, name)
		}
	}
	return out
}
