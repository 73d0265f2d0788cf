package condition

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestManifestClassifier(t *testing.T) {
	t.Parallel()

	t.Run("authoritative", func(t *testing.T) {
		t.Parallel()
		c := NewManifestClassifier([]string{"db.Driver"}, true)
		assert.Equal(t, PresencePresent, c.Presence("db.Driver"))
		assert.Equal(t, PresenceMissing, c.Presence("db.Other"))
	})

	t.Run("non-authoritative", func(t *testing.T) {
		t.Parallel()
		c := NewManifestClassifier([]string{"db.Driver"}, false)
		assert.Equal(t, PresencePresent, c.Presence("db.Driver"))
		assert.Equal(t, PresenceUnknown, c.Presence("db.Other"))
	})
}

func TestOnType(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name       string
		cond       OnType
		classifier TypeClassifier
		want       bool
		message    string
	}{
		{
			name:       "all present",
			cond:       OnType{Types: []string{"db.Driver"}},
			classifier: classifierOf("db.Driver"),
			want:       true,
		},
		{
			name:       "one missing",
			cond:       OnType{Types: []string{"db.Driver", "db.Pool"}},
			classifier: classifierOf("db.Driver"),
			want:       false,
			message:    "on-type did not find required types db.Pool",
		},
		{
			name:       "unknown never eliminates",
			cond:       OnType{Types: []string{"db.Driver"}},
			classifier: NewManifestClassifier(nil, false),
			want:       true,
		},
		{
			name:       "missing types sorted with framework types last",
			cond:       OnType{Types: []string{"confboot.tx.Manager", "zebra.Driver", "Alpha.Type"}},
			classifier: classifierOf(),
			want:       false,
			message:    "on-type did not find required types Alpha.Type, zebra.Driver, confboot.tx.Manager",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			outcome := tc.cond.Matches(&Context{Classifier: tc.classifier})
			assert.Equal(t, tc.want, outcome.Matched)
			if tc.message != "" {
				assert.Equal(t, tc.message, outcome.Message)
			}
		})
	}
}

func TestOnMissingType(t *testing.T) {
	t.Parallel()

	t.Run("matches when absent", func(t *testing.T) {
		t.Parallel()
		outcome := OnMissingType{Types: []string{"legacy.Driver"}}.Matches(&Context{Classifier: classifierOf()})
		assert.True(t, outcome.Matched)
	})

	t.Run("fails when present", func(t *testing.T) {
		t.Parallel()
		outcome := OnMissingType{Types: []string{"legacy.Driver"}}.Matches(
			&Context{Classifier: classifierOf("legacy.Driver")})
		assert.False(t, outcome.Matched)
		assert.Contains(t, outcome.Message, "found unwanted types legacy.Driver")
	})

	t.Run("unknown does not count as present", func(t *testing.T) {
		t.Parallel()
		outcome := OnMissingType{Types: []string{"legacy.Driver"}}.Matches(
			&Context{Classifier: NewManifestClassifier(nil, false)})
		assert.True(t, outcome.Matched)
	})
}
