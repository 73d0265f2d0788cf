// Package condition implements conditional evaluation for module candidates.
// The cheap tier answers from the metadata index, the type classifier, and
// the merged property view alone; the expensive tier additionally needs a
// live bean registry.
package condition

import (
	"fmt"

	"github.com/spf13/afero"

	"github.com/vk/confboot/internal/activation"
	"github.com/vk/confboot/internal/beans"
	"github.com/vk/confboot/internal/binder"
)

// Outcome is the result of evaluating one condition.
type Outcome struct {
	Matched bool
	Message string
}

// Match creates a matching outcome.
func Match(message string) Outcome { return Outcome{Matched: true, Message: message} }

// NoMatch creates a non-matching outcome.
func NoMatch(message string) Outcome { return Outcome{Matched: false, Message: message} }

// Context carries every collaborator a condition may consult. Conditions
// receive it explicitly; they hold no state of their own between calls.
type Context struct {
	Binder             *binder.Binder
	Classifier         TypeClassifier
	Beans              beans.Registry
	Fs                 afero.Fs
	WebApplicationType WebApplicationType
	CloudPlatform      activation.CloudPlatform
}

// Condition is a single evaluatable predicate on a candidate module.
type Condition interface {
	// Name identifies the condition in diagnostics.
	Name() string

	// Matches evaluates the condition against the context.
	Matches(ctx *Context) Outcome
}

// Evaluate runs a condition, converting a panic inside the implementation
// into a no-match outcome. One broken condition must never abort the whole
// selection.
func Evaluate(ctx *Context, cond Condition) (outcome Outcome) {
	defer func() {
		if r := recover(); r != nil {
			outcome = NoMatch(fmt.Sprintf("%s failed to evaluate: %v", cond.Name(), r))
		}
	}()
	return cond.Matches(ctx)
}

// All evaluates conditions in order, returning the first non-matching
// outcome, or a match when every condition matched.
func All(ctx *Context, conds ...Condition) Outcome {
	for _, cond := range conds {
		if outcome := Evaluate(ctx, cond); !outcome.Matched {
			return outcome
		}
	}
	return Match("all conditions matched")
}
