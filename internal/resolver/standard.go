package resolver

import (
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/spf13/afero"

	"github.com/vk/confboot/internal/fsutil"
	"github.com/vk/confboot/internal/location"
)

// DefaultExtensions lists the file extensions probed when a location names a
// directory rather than a file. Order is significant: later extensions
// override earlier ones for the same config name.
var DefaultExtensions = []string{"properties", "toml", "hcl", "yml", "yaml"}

// FileResource is a resolved regular file.
type FileResource struct {
	path     string
	optional bool
}

// NewFileResource creates a file resource. Optional resources that turn out
// to be missing are silently skipped by the importer.
func NewFileResource(p string, optional bool) FileResource {
	return FileResource{path: path.Clean(p), optional: optional}
}

// Path returns the cleaned file path.
func (r FileResource) Path() string { return r.path }

// Identity implements Resource.
func (r FileResource) Identity() string { return "file:" + r.path }

// Optional implements Resource.
func (r FileResource) Optional() bool { return r.optional }

func (r FileResource) String() string { return "file [" + r.path + "]" }

// StandardResolver resolves file: and classpath: locations (and bare paths,
// which are treated as file:). Directory locations are expanded against the
// configured config names and extensions; glob patterns are expanded against
// the backing filesystem in discovery order.
type StandardResolver struct {
	fs         afero.Fs
	roots      []string
	names      []string
	extensions []string
}

// NewStandardResolver creates the standard resolver. roots are the search
// roots consulted for classpath: locations; names are the base config file
// names (usually just "application").
func NewStandardResolver(fs afero.Fs, roots, names []string) *StandardResolver {
	if len(names) == 0 {
		names = []string{"application"}
	}
	return &StandardResolver{fs: fs, roots: roots, names: names, extensions: DefaultExtensions}
}

// IsResolvable implements Resolver. The standard resolver is the fallback
// strategy: it claims everything except locations owned by another scheme.
func (r *StandardResolver) IsResolvable(loc location.Location) bool {
	return !loc.HasPrefix(location.ConfigTreePrefix)
}

// Resolve implements Resolver.
func (r *StandardResolver) Resolve(ctx context.Context, loc location.Location) ([]Result, error) {
	return r.resolve(ctx, loc, "")
}

// ResolveProfileSpecific implements Resolver. Profile variants are resolved
// in profile declaration order, so a later profile's document lands later in
// the candidate list and wins the override order.
func (r *StandardResolver) ResolveProfileSpecific(ctx context.Context, loc location.Location, profiles []string) ([]Result, error) {
	var results []Result
	for _, profile := range profiles {
		resolved, err := r.resolve(ctx, loc, profile)
		if err != nil {
			return nil, err
		}
		results = append(results, resolved...)
	}
	return results, nil
}

func (r *StandardResolver) resolve(ctx context.Context, loc location.Location, profile string) ([]Result, error) {
	var bases []string
	switch {
	case loc.HasPrefix(location.ClasspathPrefix):
		value := strings.TrimPrefix(loc.NonPrefixedValue(location.ClasspathPrefix), "/")
		for _, root := range r.roots {
			bases = append(bases, path.Join(root, value)+trailingSlash(value))
		}
	case loc.HasPrefix(location.FilePrefix):
		bases = append(bases, loc.NonPrefixedValue(location.FilePrefix))
	default:
		bases = append(bases, loc.Value())
	}

	var results []Result
	found := false
	for _, base := range bases {
		resolved, ok, err := r.resolveBase(loc, base, profile)
		if err != nil {
			return nil, err
		}
		found = found || ok
		results = append(results, resolved...)
	}
	if !found && !loc.Optional() && profile == "" {
		return nil, location.NewNotFound(loc, "no matching resource")
	}
	return results, nil
}

// resolveBase expands one base path. The boolean reports whether the base
// itself exists, which drives required-location not-found handling.
func (r *StandardResolver) resolveBase(loc location.Location, base, profile string) ([]Result, bool, error) {
	if fsutil.IsPattern(base) {
		return r.resolvePattern(loc, base, profile)
	}
	if strings.HasSuffix(base, "/") || fsutil.IsDir(r.fs, base) {
		if !fsutil.IsDir(r.fs, base) {
			return nil, false, nil
		}
		return r.resolveDirectory(loc, strings.TrimSuffix(base, "/"), profile), true, nil
	}
	if profile != "" {
		// A location naming one concrete file has no profile variants.
		return nil, true, nil
	}
	if !fsutil.Exists(r.fs, base) {
		return nil, false, nil
	}
	if fsutil.Ext(base) == "" {
		return nil, false, fmt.Errorf("config file %q has no file extension", base)
	}
	return []Result{{Location: loc, Resource: NewFileResource(base, loc.Optional())}}, true, nil
}

func (r *StandardResolver) resolvePattern(loc location.Location, pattern, profile string) ([]Result, bool, error) {
	matches, err := fsutil.Glob(r.fs, pattern)
	if err != nil {
		return nil, false, err
	}
	var results []Result
	for _, match := range matches {
		resolved, _, err := r.resolveBase(loc, match, profile)
		if err != nil {
			return nil, false, err
		}
		results = append(results, resolved...)
	}
	return results, len(matches) > 0, nil
}

func (r *StandardResolver) resolveDirectory(loc location.Location, dir, profile string) []Result {
	var results []Result
	for _, name := range r.names {
		fileName := name
		if profile != "" {
			fileName = name + "-" + profile
		}
		for _, ext := range r.extensions {
			p := path.Join(dir, fileName+"."+ext)
			if !fsutil.Exists(r.fs, p) {
				continue
			}
			results = append(results, Result{
				Location:        loc,
				Resource:        NewFileResource(p, true),
				ProfileSpecific: profile != "",
			})
		}
	}
	return results
}

func trailingSlash(value string) string {
	if strings.HasSuffix(value, "/") || value == "" {
		return "/"
	}
	return ""
}
