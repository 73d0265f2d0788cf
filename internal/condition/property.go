package condition

import (
	"fmt"
	"strings"
)

// OnProperty matches when every named property under the prefix is
// satisfied: present with the required value (case-insensitive), or present
// with any value except the literal "false" when no value is required, or
// absent with MatchIfMissing set. Multiple names AND together.
type OnProperty struct {
	Prefix         string
	Names          []string
	HavingValue    string
	MatchIfMissing bool
}

// Name implements Condition.
func (c OnProperty) Name() string { return "on-property" }

// Matches implements Condition.
func (c OnProperty) Matches(ctx *Context) Outcome {
	prefix := c.Prefix
	if prefix != "" && !strings.HasSuffix(prefix, ".") {
		prefix += "."
	}
	var missing, mismatched []string
	for _, name := range c.Names {
		full := prefix + name
		value, found, err := ctx.Binder.Bind(full)
		if err != nil {
			return NoMatch(fmt.Sprintf("on-property failed to bind %s: %v", full, err))
		}
		if !found {
			if !c.MatchIfMissing {
				missing = append(missing, full)
			}
			continue
		}
		if !c.valueSatisfied(value) {
			mismatched = append(mismatched, fmt.Sprintf("%s=%s", full, value))
		}
	}
	switch {
	case len(missing) > 0:
		return NoMatch(fmt.Sprintf("on-property did not find property %s", strings.Join(missing, ", ")))
	case len(mismatched) > 0:
		return NoMatch(fmt.Sprintf("on-property found %s", strings.Join(mismatched, ", ")))
	}
	return Match("on-property matched")
}

func (c OnProperty) valueSatisfied(value string) bool {
	if c.HavingValue != "" {
		return strings.EqualFold(value, c.HavingValue)
	}
	return !strings.EqualFold(value, "false")
}

// ParseOccurrence decodes one metadata-encoded on-property occurrence:
// names joined with '&', an optional '=requiredValue', and an optional
// trailing '?' setting match-if-missing. The prefix is already folded into
// the names when the metadata is generated.
func ParseOccurrence(encoded string) OnProperty {
	cond := OnProperty{}
	if strings.HasSuffix(encoded, "?") {
		cond.MatchIfMissing = true
		encoded = strings.TrimSuffix(encoded, "?")
	}
	names, value, hasValue := strings.Cut(encoded, "=")
	if hasValue {
		cond.HavingValue = value
	}
	for _, name := range strings.Split(names, "&") {
		if name = strings.TrimSpace(name); name != "" {
			cond.Names = append(cond.Names, name)
		}
	}
	return cond
}
