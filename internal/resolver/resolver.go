// Package resolver turns configuration location strings into concrete,
// loadable resources. Resolvers are pluggable strategies tried in order;
// the first resolver that recognizes a location owns it.
package resolver

import (
	"context"
	"fmt"

	"github.com/vk/confboot/internal/ctxlog"
	"github.com/vk/confboot/internal/location"
)

// Resource is a concrete resolved artifact corresponding to one location
// match. Glob expansion may produce many resources from a single location.
type Resource interface {
	// Identity is the deduplication key: two resources with the same
	// identity are never loaded twice in one bootstrap.
	Identity() string

	// Optional reports resource-level optional-existence semantics,
	// distinct from the location's own optional flag.
	Optional() bool

	fmt.Stringer
}

// Result pairs a location with one of its resolved resources.
type Result struct {
	Location        location.Location
	Resource        Resource
	ProfileSpecific bool
}

// Resolver is a single resolution strategy.
type Resolver interface {
	// IsResolvable reports whether this resolver recognizes the location.
	IsResolvable(loc location.Location) bool

	// Resolve expands the location into resources for the profile-unaware
	// phase, preserving discovery order.
	Resolve(ctx context.Context, loc location.Location) ([]Result, error)

	// ResolveProfileSpecific expands the location into profile-qualified
	// resources once active profiles are known.
	ResolveProfileSpecific(ctx context.Context, loc location.Location, profiles []string) ([]Result, error)
}

// ResourceNotFoundError signals that a resolved resource does not exist on
// the backing store. The importer converts it into a location-level
// not-found according to the caller's policy.
type ResourceNotFoundError struct {
	Resource Resource
}

func (e *ResourceNotFoundError) Error() string {
	return fmt.Sprintf("config data resource %q cannot be found", e.Resource)
}

// Resolvers is an ordered chain of resolution strategies.
type Resolvers struct {
	resolvers []Resolver
}

// New creates a resolver chain. Order matters: the first resolver whose
// IsResolvable returns true handles the location.
func New(resolvers ...Resolver) *Resolvers {
	return &Resolvers{resolvers: resolvers}
}

// Resolve resolves a single location. When profiles is non-nil the matching
// resolver is also asked for profile-specific variants, which are appended
// after the base results so that later (more specific) candidates win the
// final override order.
func (r *Resolvers) Resolve(ctx context.Context, loc location.Location, profiles []string) ([]Result, error) {
	for _, resolver := range r.resolvers {
		if !resolver.IsResolvable(loc) {
			continue
		}
		results, err := resolver.Resolve(ctx, loc)
		if err != nil {
			return nil, err
		}
		if profiles != nil {
			profileResults, err := resolver.ResolveProfileSpecific(ctx, loc, profiles)
			if err != nil {
				return nil, err
			}
			results = append(results, profileResults...)
		}
		ctxlog.FromContext(ctx).Debug("Resolved config location.", "location", loc.String(), "results", len(results))
		return results, nil
	}
	return nil, fmt.Errorf("unresolvable config location %q", loc)
}
