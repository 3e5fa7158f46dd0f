package matcher

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// oneOf accepts any of its listed strings.
type oneOf []string

func (o oneOf) Test(s string) bool {
	for _, v := range o {
		if v == s {
			return true
		}
	}
	return false
}

func TestFindMatchesAnyOrder(t *testing.T) {
	preds := []oneOf{{"iron"}, {"gold"}}

	got := FindMatches([]string{"gold", "iron"}, preds)
	require.NotNil(t, got)
	assert.Equal(t, []int{1, 0}, got)

	got = FindMatches([]string{"iron", "gold"}, preds)
	assert.Equal(t, []int{0, 1}, got)
}

func TestFindMatchesNeedsAugmentingPath(t *testing.T) {
	// Greedy assignment of "a" to the wide predicate would strand "b".
	preds := []oneOf{{"a", "b"}, {"a"}}
	got := FindMatches([]string{"a", "b"}, preds)
	require.NotNil(t, got)
	assert.Equal(t, []int{1, 0}, got)
}

func TestFindMatchesDuplicates(t *testing.T) {
	preds := []oneOf{{"stick"}, {"stick"}, {"diamond"}}
	assert.True(t, Matches([]string{"stick", "diamond", "stick"}, preds))
	assert.False(t, Matches([]string{"stick", "diamond", "diamond"}, preds))
}

func TestFindMatchesLengthMismatch(t *testing.T) {
	preds := []oneOf{{"a"}, {"b"}, {"c"}}
	assert.Nil(t, FindMatches([]string{"a", "b"}, preds))
	assert.Nil(t, FindMatches([]string{"a", "b", "c", "a"}, preds))
}

func TestFindMatchesUnacceptedInput(t *testing.T) {
	preds := []oneOf{{"a"}, {"b"}}
	assert.Nil(t, FindMatches([]string{"a", "z"}, preds))
}

func TestFindMatchesEmpty(t *testing.T) {
	got := FindMatches([]string{}, []oneOf{})
	assert.NotNil(t, got)
	assert.Empty(t, got)
	assert.True(t, Matches[string, oneOf](nil, nil))
}

func TestFindMatchesAssignmentIsValid(t *testing.T) {
	preds := []oneOf{
		{"a", "b", "c"},
		{"a"},
		{"b", "c"},
		{"c"},
	}
	inputs := []string{"c", "b", "a", "a"}

	// a,a need {a,b,c} and {a}; b needs {b,c}; c needs {c}.
	got := FindMatches(inputs, preds)
	require.NotNil(t, got)

	used := map[int]bool{}
	for i, j := range got {
		assert.True(t, preds[j].Test(inputs[i]), "input %d assigned to predicate %d", i, j)
		assert.False(t, used[j], "predicate %d used twice", j)
		used[j] = true
	}
}
