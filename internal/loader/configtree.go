package loader

import (
	"context"
	"path"
	"strings"

	"github.com/spf13/afero"

	"github.com/vk/confboot/internal/ctxlog"
	"github.com/vk/confboot/internal/fsutil"
	"github.com/vk/confboot/internal/propsource"
	"github.com/vk/confboot/internal/resolver"
)

// ConfigTreeLoader loads a directory tree as one property source: each
// regular file contributes one property whose name is the file's relative
// path with separators turned into dots and whose value is the file content
// with a single trailing newline trimmed.
type ConfigTreeLoader struct {
	fs afero.Fs
}

// NewConfigTreeLoader creates a config tree loader over the filesystem.
func NewConfigTreeLoader(fs afero.Fs) *ConfigTreeLoader {
	return &ConfigTreeLoader{fs: fs}
}

// CanLoad implements Loader.
func (l *ConfigTreeLoader) CanLoad(res resolver.Resource) bool {
	_, ok := res.(resolver.ConfigTreeResource)
	return ok
}

// Load implements Loader.
func (l *ConfigTreeLoader) Load(ctx context.Context, res resolver.Resource) (ConfigData, error) {
	tree := res.(resolver.ConfigTreeResource)
	exists, err := afero.DirExists(l.fs, tree.Dir())
	if err != nil || !exists {
		return ConfigData{}, &resolver.ResourceNotFoundError{Resource: res}
	}

	files, err := fsutil.FindFiles(l.fs, tree.Dir())
	if err != nil {
		return ConfigData{}, err
	}

	src := propsource.NewMapSource(res.String())
	for _, file := range files {
		raw, err := afero.ReadFile(l.fs, file)
		if err != nil {
			return ConfigData{}, err
		}
		rel := strings.TrimPrefix(strings.TrimPrefix(file, tree.Dir()), "/")
		name := strings.ReplaceAll(path.Clean(rel), "/", ".")
		value := strings.TrimSuffix(string(raw), "\n")
		src.Add(name, value, propsource.Origin{File: file, Description: "config tree entry"})
	}
	ctxlog.FromContext(ctx).Debug("Loaded config tree.", "dir", tree.Dir(), "entries", src.Len())

	if src.Len() == 0 {
		return ConfigData{}, nil
	}
	return ConfigData{Sources: []*propsource.MapSource{src}}, nil
}
