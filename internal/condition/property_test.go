package condition

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOnProperty(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name   string
		cond   OnProperty
		values map[string]string
		want   bool
	}{
		{
			name:   "present without required value",
			cond:   OnProperty{Names: []string{"cache.enabled"}},
			values: map[string]string{"cache.enabled": "true"},
			want:   true,
		},
		{
			name:   "any value except false satisfies",
			cond:   OnProperty{Names: []string{"cache.enabled"}},
			values: map[string]string{"cache.enabled": "yes-please"},
			want:   true,
		},
		{
			name:   "literal false never satisfies",
			cond:   OnProperty{Names: []string{"cache.enabled"}},
			values: map[string]string{"cache.enabled": "FALSE"},
			want:   false,
		},
		{
			name:   "required value compares case-insensitively",
			cond:   OnProperty{Names: []string{"cache.mode"}, HavingValue: "Redis"},
			values: map[string]string{"cache.mode": "REDIS"},
			want:   true,
		},
		{
			name:   "required value mismatch",
			cond:   OnProperty{Names: []string{"cache.mode"}, HavingValue: "redis"},
			values: map[string]string{"cache.mode": "caffeine"},
			want:   false,
		},
		{
			name:   "missing without match-if-missing",
			cond:   OnProperty{Names: []string{"cache.enabled"}},
			values: nil,
			want:   false,
		},
		{
			name:   "missing with match-if-missing",
			cond:   OnProperty{Names: []string{"cache.enabled"}, MatchIfMissing: true},
			values: nil,
			want:   true,
		},
		{
			name:   "prefix is joined with a dot",
			cond:   OnProperty{Prefix: "cache", Names: []string{"enabled"}},
			values: map[string]string{"cache.enabled": "true"},
			want:   true,
		},
		{
			name:   "multiple names all required",
			cond:   OnProperty{Names: []string{"a", "b"}},
			values: map[string]string{"a": "1"},
			want:   false,
		},
		{
			name:   "match-if-missing tolerates a missing name but not a false one",
			cond:   OnProperty{Names: []string{"a", "b"}, MatchIfMissing: true},
			values: map[string]string{"a": "false"},
			want:   false,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			ctx := &Context{Binder: binderOver(tc.values)}
			assert.Equal(t, tc.want, tc.cond.Matches(ctx).Matched)
		})
	}
}

func TestOnProperty_BindErrorIsNoMatch(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	// The placeholder cycle makes the bind fail; match-if-missing must not
	// treat the failure as an absent property.
	cond := OnProperty{Names: []string{"flag"}, MatchIfMissing: true}
	ctx := &Context{Binder: binderOver(map[string]string{"flag": "${flag}"})}

	// --- Act ---
	outcome := cond.Matches(ctx)

	// --- Assert ---
	assert.False(t, outcome.Matched)
	assert.Contains(t, outcome.Message, "on-property failed to bind flag")
}

func TestParseOccurrence(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name    string
		encoded string
		want    OnProperty
	}{
		{
			name:    "single name",
			encoded: "cache.enabled",
			want:    OnProperty{Names: []string{"cache.enabled"}},
		},
		{
			name:    "multiple names",
			encoded: "cache.enabled&cache.mode",
			want:    OnProperty{Names: []string{"cache.enabled", "cache.mode"}},
		},
		{
			name:    "required value",
			encoded: "cache.mode=redis",
			want:    OnProperty{Names: []string{"cache.mode"}, HavingValue: "redis"},
		},
		{
			name:    "match-if-missing marker",
			encoded: "cache.enabled?",
			want:    OnProperty{Names: []string{"cache.enabled"}, MatchIfMissing: true},
		},
		{
			name:    "everything combined",
			encoded: "a&b=on?",
			want:    OnProperty{Names: []string{"a", "b"}, HavingValue: "on", MatchIfMissing: true},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, ParseOccurrence(tc.encoded))
		})
	}
}
