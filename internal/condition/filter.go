package condition

import (
	"github.com/vk/confboot/internal/metadata"
)

// Filter is one batched cheap-tier pass over all candidates. Candidates
// already eliminated by an earlier filter arrive as empty strings and must
// pass through untouched.
type Filter interface {
	// Name identifies the filter in diagnostics.
	Name() string

	// Match reports, per candidate, whether it survives this filter.
	Match(candidates []string, index *metadata.Index, ctx *Context) []bool
}

// OnTypeFilter eliminates candidates whose metadata-declared required types
// are missing. Candidates the metadata generator never saw always survive;
// the expensive tier decides for them.
type OnTypeFilter struct{}

// Name implements Filter.
func (OnTypeFilter) Name() string { return "on-type" }

// Match implements Filter.
func (OnTypeFilter) Match(candidates []string, index *metadata.Index, ctx *Context) []bool {
	matches := make([]bool, len(candidates))
	for i, candidate := range candidates {
		if candidate == "" {
			continue
		}
		matches[i] = true
		if !index.WasProcessed(candidate) {
			continue
		}
		for _, typeName := range index.GetSet(candidate, metadata.KeyOnType) {
			if ctx.Classifier.Presence(typeName) == PresenceMissing {
				matches[i] = false
				break
			}
		}
	}
	return matches
}

// OnPropertyFilter eliminates candidates with a metadata-declared property
// occurrence whose aggregate is not satisfied.
type OnPropertyFilter struct{}

// Name implements Filter.
func (OnPropertyFilter) Name() string { return "on-property" }

// Match implements Filter.
func (OnPropertyFilter) Match(candidates []string, index *metadata.Index, ctx *Context) []bool {
	matches := make([]bool, len(candidates))
	for i, candidate := range candidates {
		if candidate == "" {
			continue
		}
		matches[i] = true
		if !index.WasProcessed(candidate) {
			continue
		}
		for _, encoded := range index.GetSet(candidate, metadata.KeyOnProperty) {
			if outcome := Evaluate(ctx, ParseOccurrence(encoded)); !outcome.Matched {
				matches[i] = false
				break
			}
		}
	}
	return matches
}

// OnWebApplicationTypeFilter eliminates candidates requiring a web
// application type whose marker types are entirely absent. Unknown marker
// presence never eliminates.
type OnWebApplicationTypeFilter struct{}

// Name implements Filter.
func (OnWebApplicationTypeFilter) Name() string { return "on-web-application-type" }

// Match implements Filter.
func (OnWebApplicationTypeFilter) Match(candidates []string, index *metadata.Index, ctx *Context) []bool {
	matches := make([]bool, len(candidates))
	for i, candidate := range candidates {
		if candidate == "" {
			continue
		}
		matches[i] = true
		if !index.WasProcessed(candidate) {
			continue
		}
		for _, required := range index.GetSet(candidate, metadata.KeyOnWebApplicationType) {
			if allMarkersMissing(ctx.Classifier, WebApplicationType(required)) {
				matches[i] = false
				break
			}
		}
	}
	return matches
}

func allMarkersMissing(classifier TypeClassifier, kind WebApplicationType) bool {
	markers := webMarkerTypes[kind]
	if len(markers) == 0 {
		return false
	}
	for _, marker := range markers {
		if classifier.Presence(marker) != PresenceMissing {
			return false
		}
	}
	return true
}

// DefaultFilters returns the cheap filter chain in evaluation order.
func DefaultFilters() []Filter {
	return []Filter{OnTypeFilter{}, OnWebApplicationTypeFilter{}, OnPropertyFilter{}}
}
