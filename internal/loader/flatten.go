package loader

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/vk/confboot/internal/propsource"
)

// flattenValue walks a decoded document value and appends dotted-name
// properties to the source. Maps nest with '.', sequences index with [n].
func flattenValue(src *propsource.MapSource, prefix string, v any, origin propsource.Origin) {
	switch value := v.(type) {
	case map[string]any:
		keys := make([]string, 0, len(value))
		for k := range value {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			flattenValue(src, joinKey(prefix, k), value[k], origin)
		}
	case map[any]any:
		m := make(map[string]any, len(value))
		for k, item := range value {
			m[fmt.Sprint(k)] = item
		}
		flattenValue(src, prefix, m, origin)
	case []any:
		for i, item := range value {
			flattenValue(src, prefix+"["+strconv.Itoa(i)+"]", item, origin)
		}
	case nil:
		src.Add(prefix, "", origin)
	default:
		src.Add(prefix, fmt.Sprint(value), origin)
	}
}

func joinKey(prefix, key string) string {
	if prefix == "" {
		return key
	}
	return prefix + "." + key
}
