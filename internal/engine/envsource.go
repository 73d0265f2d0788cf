package engine

import (
	"strings"

	"github.com/vk/confboot/internal/propsource"
)

// EnvironmentSourceName names the property source built from process
// environment variables.
const EnvironmentSourceName = "environment"

// EnvironFunc matches os.Environ.
type EnvironFunc func() []string

// NewEnvironmentSource builds a property source from KEY=value pairs, mapping
// each variable name to a relaxed property name: underscores become dots and
// the result is canonicalized on insert. CONFIG_IMPORT therefore satisfies a
// lookup of config.import.
func NewEnvironmentSource(environ EnvironFunc) *propsource.MapSource {
	src := propsource.NewMapSource(EnvironmentSourceName)
	for _, pair := range environ() {
		key, value, ok := strings.Cut(pair, "=")
		if ok && key != "" {
			src.Add(
				strings.ReplaceAll(key, "_", "."),
				value,
				propsource.DescribedOrigin("environment variable "+key),
			)
		}
	}
	return src
}
