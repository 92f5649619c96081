package audit

import (
	"fmt"
	"strings"
)

const (
	// PolicyThresholdLadder grades the composite score against the mode's ladder.
	PolicyThresholdLadder = "threshold-ladder"
	// PolicyStrictGuardrail checks guard factor and index independently and joins
	// the tripped checks.
	PolicyStrictGuardrail = "strict-guardrail-policy"
)

const (
	strictGuardThreshold = 0.7
	strictIndexThreshold = 1.0
)

// FlagPolicy derives a categorical flag from an evaluated input.
type FlagPolicy interface {
	Name() string
	Flag(index, guardFactor, score float64, mode Mode) string
}

// ValidFlagPolicies is the set of recognized flag policy names.
// Shared by ParseFlagPolicy and NewFlagPolicy.
var ValidFlagPolicies = map[string]bool{"": true, PolicyThresholdLadder: true, PolicyStrictGuardrail: true}

// IsValidFlagPolicy reports whether name is a recognized flag policy.
// The empty string is valid and selects threshold-ladder.
func IsValidFlagPolicy(name string) bool {
	return ValidFlagPolicies[name]
}

// ThresholdLadderPolicy classifies the composite score; index and guard factor are ignored.
type ThresholdLadderPolicy struct{}

func (ThresholdLadderPolicy) Name() string { return PolicyThresholdLadder }

// Flag implements FlagPolicy for ThresholdLadderPolicy.
func (ThresholdLadderPolicy) Flag(_, _, score float64, mode Mode) string {
	return Classify(score, mode)
}

// StrictGuardrailPolicy ignores score and mode.
type StrictGuardrailPolicy struct{}

func (StrictGuardrailPolicy) Name() string { return PolicyStrictGuardrail }

// Flag implements FlagPolicy for StrictGuardrailPolicy.
func (StrictGuardrailPolicy) Flag(index, guardFactor, _ float64, _ Mode) string {
	return StrictGuardrailFlag(index, guardFactor)
}

// StrictGuardrailFlag returns "REVIEW-GUARDRAILS" when guardFactor < 0.7 and
// "LOW-EFFICIENCY" when index < 1.0, joined with ";" when both trip, or "OK".
func StrictGuardrailFlag(index, guardFactor float64) string {
	var flags []string
	if guardFactor < strictGuardThreshold {
		flags = append(flags, "REVIEW-GUARDRAILS")
	}
	if index < strictIndexThreshold {
		flags = append(flags, "LOW-EFFICIENCY")
	}
	if len(flags) == 0 {
		return "OK"
	}
	return strings.Join(flags, ";")
}

// ParseFlagPolicy creates a flag policy by name, returning an error for unknown names.
func ParseFlagPolicy(name string) (FlagPolicy, error) {
	if !IsValidFlagPolicy(name) {
		return nil, fmt.Errorf("unknown flag policy %q; valid: %s, %s", name, PolicyThresholdLadder, PolicyStrictGuardrail)
	}
	return NewFlagPolicy(name), nil
}

// NewFlagPolicy creates a flag policy by name.
// An empty string defaults to threshold-ladder. Panics on unrecognized names.
func NewFlagPolicy(name string) FlagPolicy {
	if !IsValidFlagPolicy(name) {
		panic(fmt.Sprintf("unknown flag policy %q", name))
	}
	switch name {
	case "", PolicyThresholdLadder:
		return ThresholdLadderPolicy{}
	case PolicyStrictGuardrail:
		return StrictGuardrailPolicy{}
	default:
		panic(fmt.Sprintf("unhandled flag policy %q", name))
	}
}
