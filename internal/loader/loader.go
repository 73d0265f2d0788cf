// Package loader turns resolved resources into property sources. Each
// supported document format has its own Loader; the chain picks exactly one
// loader per resource. Parse failures are reported as ParseError, a distinct
// error kind from not-found.
package loader

import (
	"context"
	"fmt"

	"github.com/vk/confboot/internal/propsource"
	"github.com/vk/confboot/internal/resolver"
)

// ConfigData is the outcome of loading one resource: zero or more property
// sources in document order. When a single file produces several documents,
// later documents override earlier ones.
type ConfigData struct {
	Sources []*propsource.MapSource
}

// ParseError reports a malformed document. It is always fatal and carries
// the resource identity and, when known, the position of the failure.
type ParseError struct {
	Resource string
	Origin   propsource.Origin
	Err      error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("cannot parse config data from %s: %v", e.Resource, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Loader loads a single kind of resource.
type Loader interface {
	// CanLoad reports whether this loader understands the resource.
	CanLoad(res resolver.Resource) bool

	// Load parses the resource into config data. An empty ConfigData is
	// legal for genuinely empty documents or directories.
	Load(ctx context.Context, res resolver.Resource) (ConfigData, error)
}

// Loaders is the loader chain.
type Loaders struct {
	loaders []Loader
}

// New creates a loader chain.
func New(loaders ...Loader) *Loaders {
	return &Loaders{loaders: loaders}
}

// Load finds the single loader that understands the resource and runs it.
// Zero or multiple claimants are configuration bugs and fail loudly.
func (l *Loaders) Load(ctx context.Context, res resolver.Resource) (ConfigData, error) {
	var match Loader
	for _, loader := range l.loaders {
		if !loader.CanLoad(res) {
			continue
		}
		if match != nil {
			return ConfigData{}, fmt.Errorf("multiple loaders found for resource %q", res)
		}
		match = loader
	}
	if match == nil {
		return ConfigData{}, fmt.Errorf("no loader found for resource %q", res)
	}
	return match.Load(ctx, res)
}

// fileResource narrows a resource to the standard file kind.
func fileResource(res resolver.Resource) (resolver.FileResource, bool) {
	fr, ok := res.(resolver.FileResource)
	return fr, ok
}
