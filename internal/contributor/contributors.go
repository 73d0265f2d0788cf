package contributor

import (
	"context"

	"github.com/vk/confboot/internal/activation"
	"github.com/vk/confboot/internal/binder"
	"github.com/vk/confboot/internal/ctxlog"
	"github.com/vk/confboot/internal/importer"
	"github.com/vk/confboot/internal/propsource"
)

// Contributors is the immutable aggregate over the contributor tree.
// Processing imports returns a new aggregate; snapshots already handed out
// stay valid.
type Contributors struct {
	root *Contributor
}

// New creates an aggregate over the given initial contributors.
func New(initial []*Contributor) *Contributors {
	return &Contributors{root: NewRoot(initial)}
}

// Root returns the tree root.
func (c *Contributors) Root() *Contributor { return c.root }

// Stream returns every contributor in binder precedence order.
func (c *Contributors) Stream() []*Contributor { return c.root.Stream() }

// WithProcessedImports processes imports from all active contributors until
// the current phase reaches quiescence (no active contributor with
// unprocessed imports remains), returning the resulting aggregate.
func (c *Contributors) WithProcessedImports(ctx context.Context, imp *importer.Importer, actCtx *activation.Context) (*Contributors, error) {
	logger := ctxlog.FromContext(ctx)
	phase := PhaseFor(actCtx)
	logger.Debug("Processing contributor imports.", "phase", phase.String())

	result := c
	processed := 0
	for {
		next := result.nextToProcess(actCtx, phase)
		if next == nil {
			logger.Debug("Contributor imports processed.", "phase", phase.String(), "count", processed)
			return result, nil
		}

		if next.Kind() == KindUnboundImport {
			bound, err := next.WithBoundProperties(result.documentBinder(next, actCtx))
			if err != nil {
				return nil, err
			}
			result = &Contributors{root: result.root.WithReplacement(next, bound)}
			continue
		}

		imported, err := imp.ResolveAndLoad(ctx, actCtx, next.Imports())
		if err != nil {
			return nil, err
		}
		withChildren := next.WithChildren(phase, asContributors(imported))
		result = &Contributors{root: result.root.WithReplacement(next, withChildren)}
		processed++
	}
}

// nextToProcess finds the first contributor needing work in this phase: an
// unbound import, or an active contributor with unprocessed imports.
func (c *Contributors) nextToProcess(actCtx *activation.Context, phase ImportPhase) *Contributor {
	for _, contributor := range c.Stream() {
		if contributor.Kind() == KindUnboundImport {
			return contributor
		}
		if contributor.IsActive(actCtx) && contributor.HasUnprocessedImports(phase) {
			return contributor
		}
	}
	return nil
}

// asContributors converts loaded config data into child contributors.
// Property sources within one document set are reversed so that the last
// document of a file sits earliest in the stream and wins the override order.
func asContributors(imported []importer.Loaded) []*Contributor {
	var children []*Contributor
	for _, item := range imported {
		if len(item.Data.Sources) == 0 {
			children = append(children, OfEmptyLocation(item.Result.Location, item.Result.ProfileSpecific))
			continue
		}
		for i := len(item.Data.Sources) - 1; i >= 0; i-- {
			children = append(children, OfUnboundImport(
				item.Result.Location,
				item.Result.Resource,
				item.Result.ProfileSpecific,
				item.Data.Sources[i],
			))
		}
	}
	return children
}

// BinderOption configures the composite binder built over the tree.
type BinderOption int

// Binder options.
const (
	// FailOnBindToInactiveSource makes binding fail when a property would
	// be satisfied by (or is shadowed in) an inactive contributor.
	FailOnBindToInactiveSource BinderOption = iota
)

// Binder returns a read-only composite binder over the currently resolved
// contributors. Sources are iterated in tree precedence order, filtered to
// contributors holding a property source and — unless the fail-on-inactive
// option is set — to active ones; the first source containing a name wins.
func (c *Contributors) Binder(actCtx *activation.Context, opts ...BinderOption) *binder.Binder {
	failOnInactive := false
	for _, opt := range opts {
		if opt == FailOnBindToInactiveSource {
			failOnInactive = true
		}
	}

	sources := func() []propsource.Source {
		var out []propsource.Source
		for _, contributor := range c.Stream() {
			if contributor.Source() == nil {
				continue
			}
			if !failOnInactive && !contributor.IsActive(actCtx) {
				continue
			}
			out = append(out, contributor.Source())
		}
		return out
	}

	var options []binder.Option
	if failOnInactive {
		options = append(options, binder.WithBoundHandler(c.inactiveSourceChecker(actCtx)))
	}
	return binder.NewLazy(sources, options...)
}

// inactiveSourceChecker rejects a successful bind when any inactive
// contributor also defines the property, preventing silently honoring
// values from a profile that was never activated.
func (c *Contributors) inactiveSourceChecker(actCtx *activation.Context) binder.BoundHandler {
	return func(name string, value propsource.Value, source propsource.Source) error {
		for _, contributor := range c.Stream() {
			if contributor.IsActive(actCtx) || contributor.Source() == nil {
				continue
			}
			if v, ok := contributor.Source().Lookup(name); ok {
				return &binder.InactiveSourceError{
					Name:   name,
					Source: contributor.Source().Name(),
					Origin: v.Origin,
				}
			}
		}
		return nil
	}
}

// documentBinder builds the binder used to bind a single document's own
// config.* properties: lookups see only that document, while placeholders
// resolve against all active sources in the tree.
func (c *Contributors) documentBinder(doc *Contributor, actCtx *activation.Context) *binder.Binder {
	own := func() []propsource.Source {
		if doc.Source() == nil {
			return nil
		}
		return []propsource.Source{doc.Source()}
	}
	tree := func() []propsource.Source {
		var out []propsource.Source
		for _, contributor := range c.Stream() {
			if contributor.Source() == nil || !contributor.IsActive(actCtx) {
				continue
			}
			out = append(out, contributor.Source())
		}
		return out
	}
	return binder.NewLazy(own, binder.WithPlaceholderSources(tree))
}
