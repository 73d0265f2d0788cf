package loader

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strconv"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	"github.com/vk/confboot/internal/ctxlog"
	"github.com/vk/confboot/internal/fsutil"
	"github.com/vk/confboot/internal/propsource"
	"github.com/vk/confboot/internal/resolver"
)

// YAMLLoader loads .yaml/.yml files, including multi-document streams.
// Each document becomes its own property source so that later documents in
// the same file override earlier ones.
type YAMLLoader struct {
	fs afero.Fs
}

// NewYAMLLoader creates a YAML loader over the filesystem.
func NewYAMLLoader(fs afero.Fs) *YAMLLoader {
	return &YAMLLoader{fs: fs}
}

// CanLoad implements Loader.
func (l *YAMLLoader) CanLoad(res resolver.Resource) bool {
	fr, ok := fileResource(res)
	if !ok {
		return false
	}
	ext := fsutil.Ext(fr.Path())
	return ext == "yaml" || ext == "yml"
}

// Load implements Loader.
func (l *YAMLLoader) Load(ctx context.Context, res resolver.Resource) (ConfigData, error) {
	fr, _ := fileResource(res)
	raw, err := afero.ReadFile(l.fs, fr.Path())
	if err != nil {
		return ConfigData{}, &resolver.ResourceNotFoundError{Resource: res}
	}

	var data ConfigData
	decoder := yaml.NewDecoder(bytes.NewReader(raw))
	doc := 0
	for {
		var node yaml.Node
		err := decoder.Decode(&node)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return ConfigData{}, &ParseError{Resource: res.String(), Origin: propsource.FileOrigin(fr.Path(), 0), Err: err}
		}
		name := fr.Path()
		if doc > 0 {
			name += " (document #" + strconv.Itoa(doc+1) + ")"
		}
		src := propsource.NewMapSource(name)
		if err := flattenYAMLNode(src, "", &node, fr.Path()); err != nil {
			return ConfigData{}, &ParseError{Resource: res.String(), Origin: propsource.FileOrigin(fr.Path(), node.Line), Err: err}
		}
		if src.Len() > 0 {
			data.Sources = append(data.Sources, src)
		}
		doc++
	}
	ctxlog.FromContext(ctx).Debug("Loaded YAML config data.", "path", fr.Path(), "documents", doc)
	return data, nil
}

// flattenYAMLNode walks the decoded node tree so that each scalar keeps its
// own source line in the origin.
func flattenYAMLNode(src *propsource.MapSource, prefix string, node *yaml.Node, file string) error {
	switch node.Kind {
	case yaml.DocumentNode:
		for _, child := range node.Content {
			if err := flattenYAMLNode(src, prefix, child, file); err != nil {
				return err
			}
		}
	case yaml.MappingNode:
		for i := 0; i+1 < len(node.Content); i += 2 {
			key := node.Content[i]
			value := node.Content[i+1]
			if err := flattenYAMLNode(src, joinKey(prefix, key.Value), value, file); err != nil {
				return err
			}
		}
	case yaml.SequenceNode:
		for i, child := range node.Content {
			if err := flattenYAMLNode(src, prefix+"["+strconv.Itoa(i)+"]", child, file); err != nil {
				return err
			}
		}
	case yaml.ScalarNode:
		value := node.Value
		if node.Tag == "!!null" {
			value = ""
		}
		src.Add(prefix, value, propsource.FileOrigin(file, node.Line))
	case yaml.AliasNode:
		if node.Alias != nil {
			return flattenYAMLNode(src, prefix, node.Alias, file)
		}
	}
	return nil
}
