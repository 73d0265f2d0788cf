// Package importer drives resolution and loading for declared imports.
// Resources are tracked by identity so the same document is never imported
// twice; missing locations are handled per the caller-chosen policy.
package importer

import (
	"context"
	"errors"

	"github.com/vk/confboot/internal/activation"
	"github.com/vk/confboot/internal/ctxlog"
	"github.com/vk/confboot/internal/loader"
	"github.com/vk/confboot/internal/location"
	"github.com/vk/confboot/internal/resolver"
)

// NotFoundPolicy decides what happens when a required location is missing.
type NotFoundPolicy int

// Not-found policies.
const (
	// FailOnNotFound aborts the bootstrap with the not-found error.
	FailOnNotFound NotFoundPolicy = iota
	// IgnoreNotFound logs a warning and continues.
	IgnoreNotFound
)

// Loaded pairs a resolution result with the config data it produced.
// Results are kept in load order: the contributor tree relies on this order
// to preserve override precedence.
type Loaded struct {
	Result resolver.Result
	Data   loader.ConfigData
}

// Importer resolves and loads config data locations, deduplicating by
// resource identity across the whole bootstrap.
type Importer struct {
	resolvers *resolver.Resolvers
	loaders   *loader.Loaders
	policy    NotFoundPolicy

	loaded            map[string]bool
	loadedLocations   map[string]bool
	optionalLocations map[string]bool
}

// New creates an importer.
func New(resolvers *resolver.Resolvers, loaders *loader.Loaders, policy NotFoundPolicy) *Importer {
	return &Importer{
		resolvers:         resolvers,
		loaders:           loaders,
		policy:            policy,
		loaded:            make(map[string]bool),
		loadedLocations:   make(map[string]bool),
		optionalLocations: make(map[string]bool),
	}
}

// ResolveAndLoad resolves the given locations and loads every resource not
// already imported. Candidates for each location are loaded in reverse
// resolution order so that later (more specific) candidates end up earlier
// in the result list and win the final override order.
func (i *Importer) ResolveAndLoad(ctx context.Context, actCtx *activation.Context, locations []location.Location) ([]Loaded, error) {
	var profiles []string
	if actCtx != nil && actCtx.Profiles() != nil {
		profiles = actCtx.Profiles().Accepted()
	}
	candidates, err := i.resolve(ctx, profiles, locations)
	if err != nil {
		return nil, err
	}
	return i.load(ctx, candidates)
}

func (i *Importer) resolve(ctx context.Context, profiles []string, locations []location.Location) ([]resolver.Result, error) {
	var resolved []resolver.Result
	for _, loc := range locations {
		results, err := i.resolvers.Resolve(ctx, loc, profiles)
		if err != nil {
			var notFound *location.NotFoundError
			if errors.As(err, &notFound) {
				if handled, herr := i.handleNotFound(ctx, notFound, loc.Optional()); handled {
					continue
				} else if herr != nil {
					return nil, herr
				}
			}
			return nil, err
		}
		resolved = append(resolved, results...)
	}
	return resolved, nil
}

func (i *Importer) load(ctx context.Context, candidates []resolver.Result) ([]Loaded, error) {
	logger := ctxlog.FromContext(ctx)
	var result []Loaded
	for n := len(candidates) - 1; n >= 0; n-- {
		candidate := candidates[n]
		loc := candidate.Location
		res := candidate.Resource
		if res.Optional() {
			i.optionalLocations[loc.String()] = true
		}
		if i.loaded[res.Identity()] {
			i.loadedLocations[loc.String()] = true
			logger.Debug("Skipping already-imported config data.", "resource", res.String())
			continue
		}
		data, err := i.loaders.Load(ctx, res)
		if err != nil {
			var notFound *resolver.ResourceNotFoundError
			if errors.As(err, &notFound) {
				optional := loc.Optional() || res.Optional()
				locErr := location.NewNotFound(loc, notFound.Error())
				if handled, herr := i.handleNotFound(ctx, locErr, optional); handled {
					continue
				} else if herr != nil {
					return nil, herr
				}
			}
			return nil, err
		}
		i.loaded[res.Identity()] = true
		i.loadedLocations[loc.String()] = true
		result = append(result, Loaded{Result: candidate, Data: data})
	}
	return result, nil
}

// handleNotFound applies the not-found policy. The boolean reports whether
// the error was swallowed; otherwise the returned error is fatal.
func (i *Importer) handleNotFound(ctx context.Context, err *location.NotFoundError, optional bool) (bool, error) {
	if optional {
		ctxlog.FromContext(ctx).Debug("Skipping missing optional config data.", "location", err.Location.String())
		return true, nil
	}
	if i.policy == IgnoreNotFound {
		ctxlog.FromContext(ctx).Warn("Skipping missing required config data.", "location", err.Location.String())
		return true, nil
	}
	return false, err
}

// LoadedLocations returns the set of location strings that produced loaded
// (or deduplicated) config data.
func (i *Importer) LoadedLocations() map[string]bool { return i.loadedLocations }

// OptionalLocations returns the set of location strings whose resources were
// resource-level optional.
func (i *Importer) OptionalLocations() map[string]bool { return i.optionalLocations }
