// Package location models configuration location strings: an optional
// "optional:" marker, a scheme prefix and a value. Locations are parsed once
// from import declarations or defaults and never mutated.
package location

import (
	"fmt"
	"strings"
)

// OptionalPrefix marks a location whose absence should be silently ignored.
const OptionalPrefix = "optional:"

// Recognized scheme prefixes.
const (
	FilePrefix       = "file:"
	ClasspathPrefix  = "classpath:"
	ConfigTreePrefix = "configtree:"
)

// Location is a single parsed configuration location.
type Location struct {
	value    string
	optional bool
}

// Parse parses a single location string, stripping the optional: marker.
func Parse(s string) Location {
	s = strings.TrimSpace(s)
	optional := strings.HasPrefix(s, OptionalPrefix)
	if optional {
		s = s[len(OptionalPrefix):]
	}
	return Location{value: s, optional: optional}
}

// ParseAll splits a comma-delimited declaration into its locations, keeping
// declaration order. Empty segments are dropped.
func ParseAll(s string) []Location {
	var locations []Location
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		locations = append(locations, Parse(part))
	}
	return locations
}

// Of builds a non-optional location from a raw value.
func Of(value string) Location {
	return Location{value: value}
}

// Optional reports whether the location was declared with the optional: marker.
func (l Location) Optional() bool { return l.optional }

// Value returns the location without the optional: marker.
func (l Location) Value() string { return l.value }

// HasPrefix reports whether the location value carries the given scheme prefix.
func (l Location) HasPrefix(prefix string) bool {
	return strings.HasPrefix(l.value, prefix)
}

// NonPrefixedValue returns the value with the given scheme prefix removed.
func (l Location) NonPrefixedValue(prefix string) string {
	return strings.TrimPrefix(l.value, prefix)
}

// IsZero reports whether the location is the zero value.
func (l Location) IsZero() bool { return l.value == "" }

// String returns the original spelling, including the optional: marker.
func (l Location) String() string {
	if l.optional {
		return OptionalPrefix + l.value
	}
	return l.value
}

// NotFoundError signals that a location (or one of its resolved resources)
// does not exist. Callers decide, per the optional flag, whether this is
// fatal. It always carries the offending location string.
type NotFoundError struct {
	Location Location
	Detail   string
}

// NewNotFound builds a NotFoundError for the given location.
func NewNotFound(loc Location, detail string) *NotFoundError {
	return &NotFoundError{Location: loc, Detail: detail}
}

func (e *NotFoundError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("config data %q cannot be found: %s", e.Location, e.Detail)
	}
	return fmt.Sprintf("config data %q cannot be found", e.Location)
}
