package loader

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/afero"

	"github.com/vk/confboot/internal/fsutil"
	"github.com/vk/confboot/internal/propsource"
	"github.com/vk/confboot/internal/resolver"
)

// PropertiesLoader loads line-oriented key=value files. Lines starting with
// '#' or '!' are comments; whitespace around keys and values is trimmed.
type PropertiesLoader struct {
	fs afero.Fs
}

// NewPropertiesLoader creates a properties loader over the filesystem.
func NewPropertiesLoader(fs afero.Fs) *PropertiesLoader {
	return &PropertiesLoader{fs: fs}
}

// CanLoad implements Loader.
func (l *PropertiesLoader) CanLoad(res resolver.Resource) bool {
	fr, ok := fileResource(res)
	return ok && fsutil.Ext(fr.Path()) == "properties"
}

// Load implements Loader.
func (l *PropertiesLoader) Load(ctx context.Context, res resolver.Resource) (ConfigData, error) {
	fr, _ := fileResource(res)
	raw, err := afero.ReadFile(l.fs, fr.Path())
	if err != nil {
		return ConfigData{}, &resolver.ResourceNotFoundError{Resource: res}
	}

	src := propsource.NewMapSource(fr.Path())
	for i, line := range strings.Split(string(raw), "\n") {
		lineNo := i + 1
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") || strings.HasPrefix(trimmed, "!") {
			continue
		}
		key, value, ok := strings.Cut(trimmed, "=")
		if !ok {
			return ConfigData{}, &ParseError{
				Resource: res.String(),
				Origin:   propsource.FileOrigin(fr.Path(), lineNo),
				Err:      fmt.Errorf("line %d is not a key=value pair", lineNo),
			}
		}
		key = strings.TrimSpace(key)
		if key == "" {
			return ConfigData{}, &ParseError{
				Resource: res.String(),
				Origin:   propsource.FileOrigin(fr.Path(), lineNo),
				Err:      fmt.Errorf("line %d has an empty key", lineNo),
			}
		}
		src.Add(key, strings.TrimSpace(value), propsource.FileOrigin(fr.Path(), lineNo))
	}

	if src.Len() == 0 {
		return ConfigData{}, nil
	}
	return ConfigData{Sources: []*propsource.MapSource{src}}, nil
}
