package resolver

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/afero"

	"github.com/vk/confboot/internal/fsutil"
	"github.com/vk/confboot/internal/location"
)

// ConfigTreeResource is a resolved directory tree holding one value per file.
type ConfigTreeResource struct {
	dir string
}

// NewConfigTreeResource creates a config tree resource for a directory path.
func NewConfigTreeResource(dir string) ConfigTreeResource {
	return ConfigTreeResource{dir: strings.TrimSuffix(dir, "/")}
}

// Dir returns the directory path without a trailing slash.
func (r ConfigTreeResource) Dir() string { return r.dir }

// Identity implements Resource.
func (r ConfigTreeResource) Identity() string { return "configtree:" + r.dir }

// Optional implements Resource.
func (r ConfigTreeResource) Optional() bool { return false }

func (r ConfigTreeResource) String() string { return "config tree [" + r.dir + "]" }

// ConfigTreeResolver resolves configtree: locations into directory resources.
type ConfigTreeResolver struct {
	fs afero.Fs
}

// NewConfigTreeResolver creates a config tree resolver over the filesystem.
func NewConfigTreeResolver(fs afero.Fs) *ConfigTreeResolver {
	return &ConfigTreeResolver{fs: fs}
}

// IsResolvable implements Resolver.
func (r *ConfigTreeResolver) IsResolvable(loc location.Location) bool {
	return loc.HasPrefix(location.ConfigTreePrefix)
}

// Resolve implements Resolver. The location value must end with a path
// separator; a pattern is expanded into one resource per matched directory.
func (r *ConfigTreeResolver) Resolve(ctx context.Context, loc location.Location) ([]Result, error) {
	value := loc.NonPrefixedValue(location.ConfigTreePrefix)
	if !strings.HasSuffix(value, "/") {
		return nil, fmt.Errorf("config tree location %q must end with '/'", loc)
	}
	if !fsutil.IsPattern(value) {
		return []Result{{Location: loc, Resource: NewConfigTreeResource(value)}}, nil
	}
	matches, err := fsutil.Glob(r.fs, value)
	if err != nil {
		return nil, err
	}
	if len(matches) == 0 && !loc.Optional() {
		return nil, location.NewNotFound(loc, "pattern matched no directories")
	}
	results := make([]Result, 0, len(matches))
	for _, match := range matches {
		if !fsutil.IsDir(r.fs, strings.TrimSuffix(match, "/")) {
			continue
		}
		results = append(results, Result{Location: loc, Resource: NewConfigTreeResource(match)})
	}
	return results, nil
}

// ResolveProfileSpecific implements Resolver. Config trees have no
// profile-qualified variants.
func (r *ConfigTreeResolver) ResolveProfileSpecific(ctx context.Context, loc location.Location, profiles []string) ([]Result, error) {
	return nil, nil
}
