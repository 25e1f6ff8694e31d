package critique

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCritique_JSON(t *testing.T) {
	t.Run("clean JSON object", func(t *testing.T) {
		got := parseCritique(`{"expertAdvice":"tighten act two","intermediateGaps":"pacing","rookieConcepts":"show, don't tell"}`)

		assert.Equal(t, "tighten act two", got.ExpertAdvice)
		assert.Equal(t, "pacing", got.IntermediateGaps)
		assert.Equal(t, "show, don't tell", got.RookieConcepts)
	})

	t.Run("JSON with surrounding prose", func(t *testing.T) {
		reply := `Here is my critique:

{"expertAdvice":"a","intermediateGaps":"b","rookieConcepts":"c"}

Hope that helps!`

		got := parseCritique(reply)
		assert.Equal(t, Critique{ExpertAdvice: "a", IntermediateGaps: "b", RookieConcepts: "c"}, got)
	})

	t.Run("empty JSON object falls through to labels", func(t *testing.T) {
		reply := `{} Expert's Advice: real content here`

		got := parseCritique(reply)
		assert.Equal(t, "real content here", got.ExpertAdvice)
	})
}

func TestParseCritique_Labels(t *testing.T) {
	t.Run("all three sections", func(t *testing.T) {
		reply := `Expert's Advice: Your counterpoint is ambitious.
Keep the inner voices moving.

Intermediate Gaps: The bridge modulation lands flat.

Rookie Concepts: Practice with a metronome.`

		got := parseCritique(reply)

		assert.Equal(t, "Your counterpoint is ambitious.\nKeep the inner voices moving.", got.ExpertAdvice)
		assert.Equal(t, "The bridge modulation lands flat.", got.IntermediateGaps)
		assert.Equal(t, "Practice with a metronome.", got.RookieConcepts)
	})

	t.Run("missing rookie label yields empty section", func(t *testing.T) {
		reply := `Expert's Advice: solid work overall.

Intermediate Gaps: watch your transitions.`

		got := parseCritique(reply)

		assert.Equal(t, "solid work overall.", got.ExpertAdvice)
		assert.Equal(t, "watch your transitions.", got.IntermediateGaps)
		assert.Equal(t, "", got.RookieConcepts)
	})

	t.Run("garbled reply yields all empty sections", func(t *testing.T) {
		got := parseCritique("the model rambled about something else entirely")
		assert.Equal(t, Critique{}, got)
	})

	t.Run("labels without colons", func(t *testing.T) {
		reply := "Expert's Advice\ngreat\nIntermediate Gaps\nfine\nRookie Concepts\nbasics"

		got := parseCritique(reply)
		assert.Equal(t, "great", got.ExpertAdvice)
		assert.Equal(t, "fine", got.IntermediateGaps)
		assert.Equal(t, "basics", got.RookieConcepts)
	})
}

func TestExtractJSONObject(t *testing.T) {
	t.Run("nested object", func(t *testing.T) {
		obj, ok := extractJSONObject(`text {"a":{"b":1}} trailing`)
		require.True(t, ok)
		assert.Equal(t, `{"a":{"b":1}}`, obj)
	})

	t.Run("no object", func(t *testing.T) {
		_, ok := extractJSONObject("no braces here")
		assert.False(t, ok)
	})

	t.Run("unbalanced object", func(t *testing.T) {
		_, ok := extractJSONObject(`{"unclosed":`)
		assert.False(t, ok)
	})
}
