package contributor

import (
	"github.com/vk/confboot/internal/activation"
	"github.com/vk/confboot/internal/binder"
	"github.com/vk/confboot/internal/location"
	"github.com/vk/confboot/internal/propsource"
	"github.com/vk/confboot/internal/resolver"
)

// Kind classifies a contributor node.
type Kind int

// Contributor kinds.
const (
	// KindRoot is the structural root holding all other contributors.
	KindRoot Kind = iota
	// KindInitial is a synthetic contributor carrying an initial location
	// to import (defaults, config.location).
	KindInitial
	// KindExisting wraps a property source that existed before resolution
	// started (environment variables, caller-supplied sources).
	KindExisting
	// KindUnboundImport is a freshly loaded document whose own config.*
	// properties have not been bound yet.
	KindUnboundImport
	// KindBoundImport is a loaded document with bound properties.
	KindBoundImport
	// KindEmptyLocation records a location that resolved to no documents.
	KindEmptyLocation
)

func (k Kind) String() string {
	switch k {
	case KindRoot:
		return "root"
	case KindInitial:
		return "initial"
	case KindExisting:
		return "existing"
	case KindUnboundImport:
		return "unbound-import"
	case KindBoundImport:
		return "bound-import"
	case KindEmptyLocation:
		return "empty-location"
	}
	return "unknown"
}

// ImportPhase distinguishes imports processed before profiles are known from
// those processed after.
type ImportPhase int

// Import phases.
const (
	PhaseBeforeProfileActivation ImportPhase = iota
	PhaseAfterProfileActivation
)

func (p ImportPhase) String() string {
	if p == PhaseBeforeProfileActivation {
		return "before-profile-activation"
	}
	return "after-profile-activation"
}

// PhaseFor returns the import phase implied by the activation context.
func PhaseFor(ctx *activation.Context) ImportPhase {
	if ctx == nil {
		return PhaseBeforeProfileActivation
	}
	return PhaseAfterProfileActivation
}

// Properties holds the bound config.* options of a document contributor.
type Properties struct {
	Imports         []location.Location
	OnProfile       []string
	OnCloudPlatform activation.CloudPlatform
}

// Property names bound from each document.
const (
	ImportProperty          = "config.import"
	OnProfileProperty       = "config.activate.on-profile"
	OnCloudPlatformProperty = "config.activate.on-cloud-platform"
)

// BindProperties binds the contributor-level options from the given binder.
func BindProperties(b *binder.Binder) (*Properties, error) {
	imports, err := b.BindSlice(ImportProperty)
	if err != nil {
		return nil, err
	}
	onProfile, err := b.BindSlice(OnProfileProperty)
	if err != nil {
		return nil, err
	}
	onCloudRaw, _, err := b.Bind(OnCloudPlatformProperty)
	if err != nil {
		return nil, err
	}
	var onCloud activation.CloudPlatform
	if onCloudRaw != "" {
		onCloud, err = activation.ParseCloudPlatform(onCloudRaw)
		if err != nil {
			return nil, err
		}
	}
	props := &Properties{OnProfile: onProfile, OnCloudPlatform: onCloud}
	for _, spec := range imports {
		props.Imports = append(props.Imports, location.ParseAll(spec)...)
	}
	return props, nil
}

// hasActivation reports whether any activation predicate was declared.
func (p *Properties) hasActivation() bool {
	return p != nil && (len(p.OnProfile) > 0 || p.OnCloudPlatform != "")
}

// Contributor is one immutable node of the configuration-source tree. A
// contributor is never mutated: state transitions produce a replacement node
// and the surrounding tree is rebuilt with structural sharing.
type Contributor struct {
	kind            Kind
	location        location.Location
	resource        resolver.Resource
	profileSpecific bool
	source          *propsource.MapSource
	properties      *Properties
	children        map[ImportPhase][]*Contributor
}

// NewRoot creates the structural root over the given initial contributors.
func NewRoot(contributors []*Contributor) *Contributor {
	return &Contributor{
		kind:     KindRoot,
		children: map[ImportPhase][]*Contributor{PhaseBeforeProfileActivation: contributors},
	}
}

// OfInitialImport creates a synthetic contributor whose only purpose is to
// import the given locations.
func OfInitialImport(locations ...location.Location) *Contributor {
	return &Contributor{
		kind:       KindInitial,
		properties: &Properties{Imports: locations},
	}
}

// OfExisting wraps a pre-existing property source.
func OfExisting(source *propsource.MapSource) *Contributor {
	return &Contributor{kind: KindExisting, source: source}
}

// OfUnboundImport creates a contributor for one freshly loaded document.
func OfUnboundImport(loc location.Location, res resolver.Resource, profileSpecific bool, source *propsource.MapSource) *Contributor {
	return &Contributor{
		kind:            KindUnboundImport,
		location:        loc,
		resource:        res,
		profileSpecific: profileSpecific,
		source:          source,
	}
}

// OfEmptyLocation records a location that produced no property sources.
func OfEmptyLocation(loc location.Location, profileSpecific bool) *Contributor {
	return &Contributor{kind: KindEmptyLocation, location: loc, profileSpecific: profileSpecific}
}

// Kind returns the contributor kind.
func (c *Contributor) Kind() Kind { return c.kind }

// Location returns the originating location, if any.
func (c *Contributor) Location() location.Location { return c.location }

// Resource returns the originating resolved resource, if any.
func (c *Contributor) Resource() resolver.Resource { return c.resource }

// IsProfileSpecific reports whether the contributor came from a
// profile-qualified resolution result.
func (c *Contributor) IsProfileSpecific() bool { return c.profileSpecific }

// Source returns the contributor's property source, or nil for structural
// nodes.
func (c *Contributor) Source() *propsource.MapSource { return c.source }

// Properties returns the bound config.* options, or nil while unbound.
func (c *Contributor) Properties() *Properties { return c.properties }

// Imports returns the declared imports still owned by this contributor.
func (c *Contributor) Imports() []location.Location {
	if c.properties == nil {
		return nil
	}
	return c.properties.Imports
}

// HasUnprocessedImports reports whether the contributor declares imports
// that were not yet processed in the given phase.
func (c *Contributor) HasUnprocessedImports(phase ImportPhase) bool {
	if len(c.Imports()) == 0 {
		return false
	}
	_, processed := c.children[phase]
	return !processed
}

// Children returns the children attached for a phase.
func (c *Contributor) Children(phase ImportPhase) []*Contributor {
	return c.children[phase]
}

// IsActive reports whether the contributor is active under the given
// activation context. A contributor with an activation predicate is inactive
// until the context exists; afterwards the profile predicate matches if any
// declared profile is accepted, and the cloud-platform predicate must equal
// the detected platform.
func (c *Contributor) IsActive(ctx *activation.Context) bool {
	if c.properties == nil || !c.properties.hasActivation() {
		return true
	}
	if ctx == nil {
		return false
	}
	if p := c.properties.OnCloudPlatform; p != "" && p != ctx.CloudPlatform() {
		return false
	}
	if len(c.properties.OnProfile) == 0 {
		return true
	}
	for _, profile := range c.properties.OnProfile {
		if ctx.Profiles() != nil && ctx.Profiles().IsAccepted(profile) {
			return true
		}
	}
	return false
}

// WithBoundProperties returns a bound copy of an unbound import, with its
// config.* options bound through the given binder.
func (c *Contributor) WithBoundProperties(b *binder.Binder) (*Contributor, error) {
	props, err := BindProperties(b)
	if err != nil {
		return nil, err
	}
	bound := c.clone()
	bound.kind = KindBoundImport
	bound.properties = props
	return bound, nil
}

// WithChildren returns a copy of the contributor with children attached for
// the given phase, marking that phase's imports as processed.
func (c *Contributor) WithChildren(phase ImportPhase, children []*Contributor) *Contributor {
	updated := c.clone()
	if children == nil {
		children = []*Contributor{}
	}
	updated.children[phase] = children
	return updated
}

// WithReplacement returns this contributor with the old node structurally
// replaced by the new one. Untouched subtrees are shared with the original.
func (c *Contributor) WithReplacement(old, replacement *Contributor) *Contributor {
	if c == old {
		return replacement
	}
	updated := c
	for phase, children := range c.children {
		for i, child := range children {
			replaced := child.WithReplacement(old, replacement)
			if replaced == child {
				continue
			}
			if updated == c {
				updated = c.clone()
			}
			updated.children[phase][i] = replaced
		}
	}
	return updated
}

// Stream returns the contributor and every descendant in binder precedence
// order: for each node, its after-profile children first, then its
// before-profile children, then the node itself. Documents imported by a
// contributor therefore override the contributor's own values, and
// profile-specific documents override their base documents.
func (c *Contributor) Stream() []*Contributor {
	var out []*Contributor
	c.stream(&out)
	return out
}

func (c *Contributor) stream(out *[]*Contributor) {
	for _, child := range c.children[PhaseAfterProfileActivation] {
		child.stream(out)
	}
	for _, child := range c.children[PhaseBeforeProfileActivation] {
		child.stream(out)
	}
	*out = append(*out, c)
}

// clone copies the contributor, deep-copying the children map (but not the
// child nodes, which stay shared).
func (c *Contributor) clone() *Contributor {
	copied := *c
	copied.children = make(map[ImportPhase][]*Contributor, len(c.children))
	for phase, children := range c.children {
		copied.children[phase] = append([]*Contributor{}, children...)
	}
	return &copied
}
