package condition

import (
	"fmt"
	"sort"
	"strings"
)

// Presence is the classifier's answer for one type name.
type Presence int

// Classifier answers.
const (
	// PresenceUnknown means the classifier cannot decide; the cheap tier
	// must not eliminate a candidate on an unknown type.
	PresenceUnknown Presence = iota
	PresencePresent
	PresenceMissing
)

// TypeClassifier answers type-presence questions without loading anything.
type TypeClassifier interface {
	Presence(typeName string) Presence
}

// frameworkPrefix marks types belonging to this framework. They sort after
// third-party types in diagnostic messages.
const frameworkPrefix = "confboot."

// ManifestClassifier is a TypeClassifier seeded from an explicit manifest of
// known types. Names absent from the manifest are missing when the manifest
// is authoritative, unknown otherwise.
type ManifestClassifier struct {
	present       map[string]bool
	authoritative bool
}

// NewManifestClassifier builds a classifier over the listed present types.
// When authoritative, unlisted types classify as missing.
func NewManifestClassifier(present []string, authoritative bool) *ManifestClassifier {
	known := make(map[string]bool, len(present))
	for _, name := range present {
		known[name] = true
	}
	return &ManifestClassifier{present: known, authoritative: authoritative}
}

// Presence implements TypeClassifier.
func (c *ManifestClassifier) Presence(typeName string) Presence {
	if c.present[typeName] {
		return PresencePresent
	}
	if c.authoritative {
		return PresenceMissing
	}
	return PresenceUnknown
}

// sortTypeNames orders type names for messages: third-party types first,
// framework types after, case-insensitive lexicographic within each group.
func sortTypeNames(names []string) []string {
	sorted := append([]string{}, names...)
	sort.SliceStable(sorted, func(i, j int) bool {
		fi := strings.HasPrefix(sorted[i], frameworkPrefix)
		fj := strings.HasPrefix(sorted[j], frameworkPrefix)
		if fi != fj {
			return !fi
		}
		return strings.ToLower(sorted[i]) < strings.ToLower(sorted[j])
	})
	return sorted
}

// OnType matches when every listed type is present (or unknowable).
type OnType struct {
	Types []string
}

// Name implements Condition.
func (c OnType) Name() string { return "on-type" }

// Matches implements Condition.
func (c OnType) Matches(ctx *Context) Outcome {
	var missing []string
	for _, typeName := range c.Types {
		if ctx.Classifier.Presence(typeName) == PresenceMissing {
			missing = append(missing, typeName)
		}
	}
	if len(missing) > 0 {
		return NoMatch(fmt.Sprintf("on-type did not find required types %s",
			strings.Join(sortTypeNames(missing), ", ")))
	}
	return Match(fmt.Sprintf("on-type found required types %s",
		strings.Join(sortTypeNames(c.Types), ", ")))
}

// OnMissingType matches when every listed type is absent.
type OnMissingType struct {
	Types []string
}

// Name implements Condition.
func (c OnMissingType) Name() string { return "on-missing-type" }

// Matches implements Condition.
func (c OnMissingType) Matches(ctx *Context) Outcome {
	var present []string
	for _, typeName := range c.Types {
		if ctx.Classifier.Presence(typeName) == PresencePresent {
			present = append(present, typeName)
		}
	}
	if len(present) > 0 {
		return NoMatch(fmt.Sprintf("on-missing-type found unwanted types %s",
			strings.Join(sortTypeNames(present), ", ")))
	}
	return Match("on-missing-type found no unwanted types")
}
