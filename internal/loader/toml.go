package loader

import (
	"context"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/afero"

	"github.com/vk/confboot/internal/fsutil"
	"github.com/vk/confboot/internal/propsource"
	"github.com/vk/confboot/internal/resolver"
)

// TOMLLoader loads .toml files as a single document.
type TOMLLoader struct {
	fs afero.Fs
}

// NewTOMLLoader creates a TOML loader over the filesystem.
func NewTOMLLoader(fs afero.Fs) *TOMLLoader {
	return &TOMLLoader{fs: fs}
}

// CanLoad implements Loader.
func (l *TOMLLoader) CanLoad(res resolver.Resource) bool {
	fr, ok := fileResource(res)
	return ok && fsutil.Ext(fr.Path()) == "toml"
}

// Load implements Loader.
func (l *TOMLLoader) Load(ctx context.Context, res resolver.Resource) (ConfigData, error) {
	fr, _ := fileResource(res)
	raw, err := afero.ReadFile(l.fs, fr.Path())
	if err != nil {
		return ConfigData{}, &resolver.ResourceNotFoundError{Resource: res}
	}

	var doc map[string]any
	if err := toml.Unmarshal(raw, &doc); err != nil {
		origin := propsource.FileOrigin(fr.Path(), 0)
		if derr, ok := err.(*toml.DecodeError); ok {
			line, _ := derr.Position()
			origin = propsource.FileOrigin(fr.Path(), line)
		}
		return ConfigData{}, &ParseError{Resource: res.String(), Origin: origin, Err: err}
	}
	if len(doc) == 0 {
		return ConfigData{}, nil
	}

	src := propsource.NewMapSource(fr.Path())
	flattenValue(src, "", doc, propsource.FileOrigin(fr.Path(), 0))
	return ConfigData{Sources: []*propsource.MapSource{src}}, nil
}
