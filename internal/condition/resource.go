package condition

import (
	"fmt"
	"strings"

	"github.com/vk/confboot/internal/activation"
	"github.com/vk/confboot/internal/fsutil"
)

// OnResource matches when every listed resource path exists on the
// filesystem.
type OnResource struct {
	Resources []string
}

// Name implements Condition.
func (c OnResource) Name() string { return "on-resource" }

// Matches implements Condition.
func (c OnResource) Matches(ctx *Context) Outcome {
	var missing []string
	for _, path := range c.Resources {
		if !fsutil.Exists(ctx.Fs, path) {
			missing = append(missing, path)
		}
	}
	if len(missing) > 0 {
		return NoMatch(fmt.Sprintf("on-resource did not find resource %s", strings.Join(missing, ", ")))
	}
	return Match(fmt.Sprintf("on-resource found %s", strings.Join(c.Resources, ", ")))
}

// OnCloudPlatform matches when the frozen activation context detected the
// required platform.
type OnCloudPlatform struct {
	Required activation.CloudPlatform
}

// Name implements Condition.
func (c OnCloudPlatform) Name() string { return "on-cloud-platform" }

// Matches implements Condition.
func (c OnCloudPlatform) Matches(ctx *Context) Outcome {
	if ctx.CloudPlatform == c.Required {
		return Match(fmt.Sprintf("on-cloud-platform found %s", c.Required))
	}
	return NoMatch(fmt.Sprintf("on-cloud-platform required %s but found %s", c.Required, ctx.CloudPlatform))
}
