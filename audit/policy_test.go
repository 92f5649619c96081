package audit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStrictGuardrailFlag(t *testing.T) {
	cases := []struct {
		name         string
		index, guard float64
		want         string
	}{
		{"both pass", 10.0, 0.875, "OK"},
		{"boundaries pass", 1.0, 0.7, "OK"},
		{"weak guardrails", 10.0, 0.69, "REVIEW-GUARDRAILS"},
		{"low efficiency", 0.99, 0.9, "LOW-EFFICIENCY"},
		{"both trip", 0.2, 0.1, "REVIEW-GUARDRAILS;LOW-EFFICIENCY"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, StrictGuardrailFlag(tc.index, tc.guard))
		})
	}
}

func TestNewFlagPolicy_EmptyDefaultsToThresholdLadder(t *testing.T) {
	p := NewFlagPolicy("")
	assert.Equal(t, PolicyThresholdLadder, p.Name())
}

func TestNewFlagPolicy_UnknownPanics(t *testing.T) {
	assert.Panics(t, func() { NewFlagPolicy("majority-vote") })
}

func TestParseFlagPolicy(t *testing.T) {
	p, err := ParseFlagPolicy(PolicyStrictGuardrail)
	require.NoError(t, err)
	assert.Equal(t, PolicyStrictGuardrail, p.Name())

	_, err = ParseFlagPolicy("majority-vote")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "majority-vote")
}

func TestPolicies_SameInputsDifferentFlags(t *testing.T) {
	// GIVEN an input that the ladder considers efficient
	idx, guard := 10.0, 0.5
	score := ComputeScore(idx, guard)

	// THEN the ladder reports the score band and the strict policy flags the guardrails
	assert.Equal(t, "efficient", ThresholdLadderPolicy{}.Flag(idx, guard, score, ModeExecute))
	assert.Equal(t, "REVIEW-GUARDRAILS", StrictGuardrailPolicy{}.Flag(idx, guard, score, ModeExecute))
}

func TestStrictGuardrailPolicy_IgnoresMode(t *testing.T) {
	p := StrictGuardrailPolicy{}
	assert.Equal(t, p.Flag(0.5, 0.9, 0.45, ModeExecute), p.Flag(0.5, 0.9, 0.45, ModeExplore))
}
