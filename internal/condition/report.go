package condition

import "sort"

// RecordedOutcome pairs a condition name with its outcome for the report.
type RecordedOutcome struct {
	Condition string
	Outcome   Outcome
}

// Report accumulates evaluation outcomes per candidate for diagnostics. It
// is owned by a single selection run and not safe for concurrent use.
type Report struct {
	outcomes map[string][]RecordedOutcome
}

// NewReport creates an empty report.
func NewReport() *Report {
	return &Report{outcomes: make(map[string][]RecordedOutcome)}
}

// Record stores one outcome for a candidate.
func (r *Report) Record(candidate, conditionName string, outcome Outcome) {
	r.outcomes[candidate] = append(r.outcomes[candidate], RecordedOutcome{
		Condition: conditionName,
		Outcome:   outcome,
	})
}

// Outcomes returns the recorded outcomes for a candidate in evaluation
// order.
func (r *Report) Outcomes(candidate string) []RecordedOutcome {
	return r.outcomes[candidate]
}

// Candidates returns every candidate with at least one recorded outcome,
// sorted for stable output.
func (r *Report) Candidates() []string {
	out := make([]string, 0, len(r.outcomes))
	for candidate := range r.outcomes {
		out = append(out, candidate)
	}
	sort.Strings(out)
	return out
}

// Matched reports whether every recorded outcome for the candidate matched.
func (r *Report) Matched(candidate string) bool {
	for _, rec := range r.outcomes[candidate] {
		if !rec.Outcome.Matched {
			return false
		}
	}
	return true
}
