package propsource

import "fmt"

// Origin records the human-readable provenance of a single property value:
// which file and line it came from, or which environment variable, or which
// directory entry.
type Origin struct {
	File        string
	Line        int
	Description string
}

// FileOrigin builds an origin for a value read from a file at a known line.
// A zero line means the format does not track line numbers.
func FileOrigin(file string, line int) Origin {
	return Origin{File: file, Line: line}
}

// DescribedOrigin builds an origin with a free-form description, used for
// values that do not come from a file (environment variables, defaults).
func DescribedOrigin(description string) Origin {
	return Origin{Description: description}
}

func (o Origin) String() string {
	if o.File != "" {
		if o.Line > 0 {
			return fmt.Sprintf("%s:%d", o.File, o.Line)
		}
		return o.File
	}
	if o.Description != "" {
		return o.Description
	}
	return "unknown origin"
}
