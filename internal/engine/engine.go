// Package engine drives config data resolution end to end: it seeds the
// contributor tree from defaults and pre-existing sources, processes imports
// in two phases around the activation-context freeze, and exposes the merged
// property view consumed by property binding and conditional evaluation.
package engine

import (
	"context"
	"fmt"

	"github.com/spf13/afero"

	"github.com/vk/confboot/internal/activation"
	"github.com/vk/confboot/internal/binder"
	"github.com/vk/confboot/internal/bootstrap"
	"github.com/vk/confboot/internal/contributor"
	"github.com/vk/confboot/internal/ctxlog"
	"github.com/vk/confboot/internal/importer"
	"github.com/vk/confboot/internal/loader"
	"github.com/vk/confboot/internal/location"
	"github.com/vk/confboot/internal/propsource"
	"github.com/vk/confboot/internal/resolver"
)

// Property names steering resolution itself. These are only honored from
// pre-existing sources, since they decide where config files come from and
// therefore cannot live in config files.
const (
	LocationProperty           = "config.location"
	AdditionalLocationProperty = "config.additional-location"
	NameProperty               = "config.name"
)

// DefaultLocations are searched when no config.location is declared. Later
// entries win the override order, so the config/ subdirectory beats the
// working directory.
var DefaultLocations = []string{
	"optional:file:./",
	"optional:file:./config/",
}

// Options configures a resolution run.
type Options struct {
	// Fs is the backing filesystem; defaults to the OS filesystem.
	Fs afero.Fs

	// ExistingSources are property sources that exist before resolution
	// starts (environment variables, caller overrides). Earlier sources win.
	ExistingSources []*propsource.MapSource

	// ClasspathRoots are the search roots for classpath: locations; defaults
	// to the working directory.
	ClasspathRoots []string

	// AdditionalProfiles are activated on top of the bound ones.
	AdditionalProfiles []string

	// Policy controls handling of missing required locations.
	Policy importer.NotFoundPolicy

	// Bootstrap is shared with resolvers that need expensive, once-only
	// infrastructure. Optional; one is created when nil.
	Bootstrap *bootstrap.Registry
}

// Result is the outcome of a resolution run.
type Result struct {
	Contributors      *contributor.Contributors
	ActivationContext *activation.Context

	// Sources holds the active property sources in precedence order.
	Sources []propsource.Source

	LoadedLocations   map[string]bool
	OptionalLocations map[string]bool

	binder *binder.Binder
}

// Binder returns the merged, active-only property view.
func (r *Result) Binder() *binder.Binder { return r.binder }

// StrictBinder returns a binder that fails when a bind would touch a
// property defined in an inactive contributor.
func (r *Result) StrictBinder() *binder.Binder {
	return r.Contributors.Binder(r.ActivationContext, contributor.FailOnBindToInactiveSource)
}

// Engine is the configuration data resolution driver.
type Engine struct {
	opts Options
}

// New creates an engine. The zero Options value resolves ./ and ./config/
// on the OS filesystem with no pre-existing sources.
func New(opts Options) *Engine {
	if opts.Fs == nil {
		opts.Fs = afero.NewOsFs()
	}
	if len(opts.ClasspathRoots) == 0 {
		opts.ClasspathRoots = []string{"."}
	}
	if opts.Bootstrap == nil {
		opts.Bootstrap = bootstrap.NewRegistry()
	}
	return &Engine{opts: opts}
}

// Bootstrap returns the registry shared across the bootstrap phase.
func (e *Engine) Bootstrap() *bootstrap.Registry { return e.opts.Bootstrap }

// Run executes the full resolution pipeline on the calling goroutine.
func (e *Engine) Run(ctx context.Context) (*Result, error) {
	logger := ctxlog.FromContext(ctx)

	existingSources := make([]propsource.Source, 0, len(e.opts.ExistingSources))
	for _, src := range e.opts.ExistingSources {
		existingSources = append(existingSources, src)
	}
	initialBinder := binder.New(existingSources)

	names, err := initialBinder.BindSlice(NameProperty)
	if err != nil {
		return nil, err
	}

	resolvers := resolver.New(
		resolver.NewConfigTreeResolver(e.opts.Fs),
		resolver.NewStandardResolver(e.opts.Fs, e.opts.ClasspathRoots, names),
	)
	loaders := loader.New(
		loader.NewPropertiesLoader(e.opts.Fs),
		loader.NewTOMLLoader(e.opts.Fs),
		loader.NewHCLLoader(e.opts.Fs),
		loader.NewYAMLLoader(e.opts.Fs),
		loader.NewConfigTreeLoader(e.opts.Fs),
	)
	imp := importer.New(resolvers, loaders, e.opts.Policy)

	initial, err := e.initialContributors(initialBinder)
	if err != nil {
		return nil, err
	}
	contributors := contributor.New(initial)

	// Phase A: resolve everything reachable without knowing profiles.
	contributors, err = contributors.WithProcessedImports(ctx, imp, nil)
	if err != nil {
		return nil, err
	}

	// Freeze the activation context from the pre-profile binder. This
	// happens exactly once; documents loaded later cannot change it.
	preProfileBinder := contributors.Binder(nil)
	profiles, err := activation.BindProfiles(preProfileBinder, e.opts.AdditionalProfiles)
	if err != nil {
		return nil, err
	}
	platform, err := activation.DetectCloudPlatform(preProfileBinder)
	if err != nil {
		return nil, err
	}
	actCtx := activation.NewContext(profiles, platform)
	logger.Debug("Activation context frozen.",
		"profiles", profiles.Accepted(), "cloud_platform", string(platform))

	// Phase B: profile-specific documents and late activations join in.
	contributors, err = contributors.WithProcessedImports(ctx, imp, actCtx)
	if err != nil {
		return nil, err
	}

	if err := checkProfileProperties(contributors); err != nil {
		return nil, err
	}

	result := &Result{
		Contributors:      contributors,
		ActivationContext: actCtx,
		Sources:           activeSources(contributors, actCtx),
		LoadedLocations:   imp.LoadedLocations(),
		OptionalLocations: imp.OptionalLocations(),
		binder:            contributors.Binder(actCtx),
	}
	logger.Debug("Config data resolution complete.",
		"sources", len(result.Sources), "locations", len(result.LoadedLocations))
	return result, nil
}

// initialContributors seeds the tree: existing sources first (they win the
// override order), then additional locations, then the standard locations.
func (e *Engine) initialContributors(initialBinder *binder.Binder) ([]*contributor.Contributor, error) {
	var initial []*contributor.Contributor
	for _, src := range e.opts.ExistingSources {
		initial = append(initial, contributor.OfExisting(src))
	}

	additional, err := bindLocations(initialBinder, AdditionalLocationProperty, nil)
	if err != nil {
		return nil, err
	}
	if len(additional) > 0 {
		initial = append(initial, contributor.OfInitialImport(additional...))
	}

	locations, err := bindLocations(initialBinder, LocationProperty, DefaultLocations)
	if err != nil {
		return nil, err
	}
	initial = append(initial, contributor.OfInitialImport(locations...))
	return initial, nil
}

func bindLocations(b *binder.Binder, name string, fallback []string) ([]location.Location, error) {
	declared, err := b.BindSlice(name)
	if err != nil {
		return nil, err
	}
	if len(declared) == 0 {
		declared = fallback
	}
	var locations []location.Location
	for _, spec := range declared {
		locations = append(locations, location.ParseAll(spec)...)
	}
	return locations, nil
}

// checkProfileProperties rejects profile activation properties declared in
// profile-specific documents. By the time such a document loads, the profile
// decision is frozen, so honoring them would silently lie.
func checkProfileProperties(contributors *contributor.Contributors) error {
	for _, c := range contributors.Stream() {
		if !c.IsProfileSpecific() || c.Source() == nil {
			continue
		}
		for _, name := range []string{activation.ActiveProfilesProperty, activation.IncludeProfilesProperty} {
			if v, ok := c.Source().Lookup(name); ok {
				return fmt.Errorf("property %q is not allowed in a profile-specific document (%s)", name, v.Origin)
			}
		}
	}
	return nil
}

func activeSources(contributors *contributor.Contributors, actCtx *activation.Context) []propsource.Source {
	var sources []propsource.Source
	for _, c := range contributors.Stream() {
		if c.Source() == nil || !c.IsActive(actCtx) {
			continue
		}
		sources = append(sources, c.Source())
	}
	return sources
}
