package activation

import (
	"fmt"

	"github.com/vk/confboot/internal/binder"
	"github.com/vk/confboot/internal/propsource"
)

// CloudPlatform identifies the detected hosting platform.
type CloudPlatform string

// Known cloud platforms.
const (
	CloudPlatformNone         CloudPlatform = "none"
	CloudPlatformKubernetes   CloudPlatform = "kubernetes"
	CloudPlatformCloudFoundry CloudPlatform = "cloud-foundry"
	CloudPlatformHeroku       CloudPlatform = "heroku"
)

// CloudPlatformOverrideProperty forces the detected platform, bypassing
// environment sniffing.
const CloudPlatformOverrideProperty = "main.cloud-platform"

// ParseCloudPlatform converts a property value into a CloudPlatform.
func ParseCloudPlatform(value string) (CloudPlatform, error) {
	switch propsource.CanonicalName(value) {
	case "none", "":
		return CloudPlatformNone, nil
	case "kubernetes":
		return CloudPlatformKubernetes, nil
	case "cloudfoundry":
		return CloudPlatformCloudFoundry, nil
	case "heroku":
		return CloudPlatformHeroku, nil
	}
	return CloudPlatformNone, fmt.Errorf("unknown cloud platform %q", value)
}

// DetectCloudPlatform resolves the platform: an explicit override property
// wins, otherwise well-known environment markers are probed through the
// binder (the engine exposes process environment variables as properties).
func DetectCloudPlatform(b *binder.Binder) (CloudPlatform, error) {
	override, ok, err := b.Bind(CloudPlatformOverrideProperty)
	if err != nil {
		return CloudPlatformNone, err
	}
	if ok {
		return ParseCloudPlatform(override)
	}
	switch {
	case b.Contains("kubernetes.service.host") && b.Contains("kubernetes.service.port"):
		return CloudPlatformKubernetes, nil
	case b.Contains("vcap.application") || b.Contains("vcap.services"):
		return CloudPlatformCloudFoundry, nil
	case b.Contains("dyno"):
		return CloudPlatformHeroku, nil
	}
	return CloudPlatformNone, nil
}
