package audit

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidArgument is returned when visible time or entropy is not strictly positive.
var ErrInvalidArgument = errors.New("invalid argument")

// ComputeIndex returns output / (visibleTime * entropy).
// Both visibleTime and entropy must be > 0; otherwise the returned error wraps
// ErrInvalidArgument. No default is substituted.
func ComputeIndex(output, visibleTime, entropy float64) (float64, error) {
	if err := validatePositive("visible time", visibleTime); err != nil {
		return 0, err
	}
	if err := validatePositive("entropy", entropy); err != nil {
		return 0, err
	}
	return output / (visibleTime * entropy), nil
}

// TolerantIndex is the grid/visualization variant of ComputeIndex.
// It returns 0 instead of failing when either denominator factor is non-positive.
func TolerantIndex(output, visibleTime, entropy float64) float64 {
	idx, err := ComputeIndex(output, visibleTime, entropy)
	if err != nil {
		return 0
	}
	return idx
}

// Clamp01 limits v to [0, 1]. NaN maps to 0.
func Clamp01(v float64) float64 {
	if !(v > 0) {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// ComputeGuardFactor returns the mean of safety and proportionality after clamping
// each to [0, 1]. Out-of-range inputs are corrected, not rejected.
func ComputeGuardFactor(safety, proportionality float64) float64 {
	return (Clamp01(safety) + Clamp01(proportionality)) / 2
}

// ComputeScore scales the index by the guard factor.
func ComputeScore(index, guardFactor float64) float64 {
	return index * guardFactor
}

func validatePositive(name string, val float64) error {
	if math.IsNaN(val) || val <= 0 {
		return fmt.Errorf("%w: %s must be > 0, got %g", ErrInvalidArgument, name, val)
	}
	return nil
}
