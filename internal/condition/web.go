package condition

import (
	"fmt"

	"github.com/vk/confboot/internal/binder"
)

// WebApplicationType classifies how the application serves requests.
type WebApplicationType string

// Web application types.
const (
	WebApplicationNone     WebApplicationType = "none"
	WebApplicationServlet  WebApplicationType = "servlet"
	WebApplicationReactive WebApplicationType = "reactive"

	// WebApplicationAny accepts servlet and reactive alike.
	WebApplicationAny WebApplicationType = "any"
)

// WebApplicationTypeProperty overrides the deduced web application type.
const WebApplicationTypeProperty = "main.web-application-type"

// webMarkerTypes are the classpath markers whose presence implies each type.
var webMarkerTypes = map[WebApplicationType][]string{
	WebApplicationServlet:  {"confboot.web.servlet.Dispatcher"},
	WebApplicationReactive: {"confboot.web.reactive.HTTPHandler"},
}

// DeduceWebApplicationType determines the web application type from the
// override property and classpath marker presence: reactive when only the
// reactive markers are present, none when no servlet marker is present,
// servlet otherwise.
func DeduceWebApplicationType(b *binder.Binder, classifier TypeClassifier) (WebApplicationType, error) {
	override, found, err := b.Bind(WebApplicationTypeProperty)
	if err != nil {
		return WebApplicationNone, err
	}
	if found {
		switch WebApplicationType(override) {
		case WebApplicationNone, WebApplicationServlet, WebApplicationReactive:
			return WebApplicationType(override), nil
		default:
			return WebApplicationNone, fmt.Errorf("invalid %s value %q", WebApplicationTypeProperty, override)
		}
	}
	servlet := anyMarkerPresent(classifier, WebApplicationServlet)
	reactive := anyMarkerPresent(classifier, WebApplicationReactive)
	switch {
	case reactive && !servlet:
		return WebApplicationReactive, nil
	case !servlet:
		return WebApplicationNone, nil
	}
	return WebApplicationServlet, nil
}

func anyMarkerPresent(classifier TypeClassifier, kind WebApplicationType) bool {
	for _, marker := range webMarkerTypes[kind] {
		if classifier.Presence(marker) == PresencePresent {
			return true
		}
	}
	return false
}

// OnWebApplication matches when the deduced web application type satisfies
// the required one.
type OnWebApplication struct {
	Required WebApplicationType
}

// Name implements Condition.
func (c OnWebApplication) Name() string { return "on-web-application" }

// Matches implements Condition.
func (c OnWebApplication) Matches(ctx *Context) Outcome {
	actual := ctx.WebApplicationType
	required := c.Required
	if required == "" {
		required = WebApplicationAny
	}
	matched := actual == required ||
		(required == WebApplicationAny && actual != WebApplicationNone)
	if matched {
		return Match(fmt.Sprintf("on-web-application found %s application", actual))
	}
	return NoMatch(fmt.Sprintf("on-web-application required %s but found %s", required, actual))
}
