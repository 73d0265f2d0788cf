package loader

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/spf13/afero"
	"github.com/zclconf/go-cty/cty"

	"github.com/vk/confboot/internal/fsutil"
	"github.com/vk/confboot/internal/propsource"
	"github.com/vk/confboot/internal/resolver"
)

// HCLLoader loads .hcl config documents. Top-level and block-nested
// attributes are statically evaluated and flattened into dotted property
// names; block types and labels become name elements.
type HCLLoader struct {
	fs afero.Fs
}

// NewHCLLoader creates an HCL loader over the filesystem.
func NewHCLLoader(fs afero.Fs) *HCLLoader {
	return &HCLLoader{fs: fs}
}

// CanLoad implements Loader.
func (l *HCLLoader) CanLoad(res resolver.Resource) bool {
	fr, ok := fileResource(res)
	return ok && fsutil.Ext(fr.Path()) == "hcl"
}

// Load implements Loader.
func (l *HCLLoader) Load(ctx context.Context, res resolver.Resource) (ConfigData, error) {
	fr, _ := fileResource(res)
	raw, err := afero.ReadFile(l.fs, fr.Path())
	if err != nil {
		return ConfigData{}, &resolver.ResourceNotFoundError{Resource: res}
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(raw, fr.Path())
	if diags.HasErrors() {
		return ConfigData{}, &ParseError{Resource: res.String(), Origin: diagOrigin(fr.Path(), diags), Err: diags}
	}
	body, ok := file.Body.(*hclsyntax.Body)
	if !ok {
		return ConfigData{}, &ParseError{Resource: res.String(), Err: fmt.Errorf("unexpected HCL body type %T", file.Body)}
	}

	src := propsource.NewMapSource(fr.Path())
	if err := l.flattenBody(src, "", body, fr.Path()); err != nil {
		return ConfigData{}, err
	}
	if src.Len() == 0 {
		return ConfigData{}, nil
	}
	return ConfigData{Sources: []*propsource.MapSource{src}}, nil
}

func (l *HCLLoader) flattenBody(src *propsource.MapSource, prefix string, body *hclsyntax.Body, file string) error {
	names := make([]string, 0, len(body.Attributes))
	for name := range body.Attributes {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		attr := body.Attributes[name]
		value, diags := attr.Expr.Value(nil)
		if diags.HasErrors() {
			return &ParseError{
				Resource: file,
				Origin:   propsource.FileOrigin(file, attr.SrcRange.Start.Line),
				Err:      diags,
			}
		}
		origin := propsource.FileOrigin(file, attr.SrcRange.Start.Line)
		flattenCty(src, joinKey(prefix, name), value, origin)
	}
	for _, block := range body.Blocks {
		elements := append([]string{block.Type}, block.Labels...)
		if err := l.flattenBody(src, joinKey(prefix, strings.Join(elements, ".")), block.Body, file); err != nil {
			return err
		}
	}
	return nil
}

// flattenCty converts a cty value into dotted string properties.
func flattenCty(src *propsource.MapSource, prefix string, v cty.Value, origin propsource.Origin) {
	if v.IsNull() {
		src.Add(prefix, "", origin)
		return
	}
	t := v.Type()
	switch {
	case t == cty.String:
		src.Add(prefix, v.AsString(), origin)
	case t == cty.Number:
		src.Add(prefix, v.AsBigFloat().Text('f', -1), origin)
	case t == cty.Bool:
		src.Add(prefix, strconv.FormatBool(v.True()), origin)
	case t.IsTupleType() || t.IsListType() || t.IsSetType():
		i := 0
		for it := v.ElementIterator(); it.Next(); {
			_, element := it.Element()
			flattenCty(src, prefix+"["+strconv.Itoa(i)+"]", element, origin)
			i++
		}
	case t.IsObjectType() || t.IsMapType():
		type pair struct {
			key   string
			value cty.Value
		}
		var pairs []pair
		for it := v.ElementIterator(); it.Next(); {
			key, element := it.Element()
			pairs = append(pairs, pair{key: key.AsString(), value: element})
		}
		sort.Slice(pairs, func(i, j int) bool { return pairs[i].key < pairs[j].key })
		for _, p := range pairs {
			flattenCty(src, joinKey(prefix, p.key), p.value, origin)
		}
	default:
		src.Add(prefix, v.GoString(), origin)
	}
}

func diagOrigin(file string, diags hcl.Diagnostics) propsource.Origin {
	for _, d := range diags {
		if d.Subject != nil {
			return propsource.FileOrigin(file, d.Subject.Start.Line)
		}
	}
	return propsource.FileOrigin(file, 0)
}
