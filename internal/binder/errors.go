package binder

import (
	"fmt"
	"strings"

	"github.com/vk/confboot/internal/propsource"
)

// BindError reports a failed bind: a type conversion failure, an unresolved
// or cyclic placeholder, or a handler rejection. It carries the property
// name, the attempted value and its origin when available.
type BindError struct {
	Name   string
	Value  string
	Origin propsource.Origin
	Err    error
}

func (e *BindError) Error() string {
	return fmt.Sprintf("failed to bind property %q from value %q (%s): %v", e.Name, e.Value, e.Origin, e.Err)
}

func (e *BindError) Unwrap() error { return e.Err }

// PlaceholderCycleError reports a cyclic or self-referential placeholder
// chain. It carries every property name visited, in order.
type PlaceholderCycleError struct {
	Chain []string
}

func (e *PlaceholderCycleError) Error() string {
	return fmt.Sprintf("circular placeholder reference: %s", strings.Join(e.Chain, " -> "))
}

// InactiveSourceError reports a bind that would have been satisfied by a
// property source belonging to an inactive contributor (for example a
// document gated on a profile that was never activated).
type InactiveSourceError struct {
	Name   string
	Source string
	Origin propsource.Origin
}

func (e *InactiveSourceError) Error() string {
	return fmt.Sprintf("property %q imported from inactive source %s (%s)", e.Name, e.Source, e.Origin)
}
