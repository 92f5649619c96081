// Package audit computes the efficiency index and its governance flag.
//
// # Reading Guide
//
//   - index.go: the index formula, its strict and tolerant variants, guard factor and score
//   - ladder.go: ordered threshold bands used by the threshold-ladder flag policy
//   - policy.go: the FlagPolicy registry (threshold-ladder, strict-guardrail-policy)
//   - evaluator.go: Evaluator, which combines the above into a Result
//   - profile.go: named safety/proportionality defaults
//
// Every function in this package is a pure function of its inputs. I/O lives in the
// sub-packages:
//   - audit/batch/: CSV tables evaluated row by row
//   - audit/grid/: synthetic Cartesian grids of (visible time, entropy)
//   - audit/plot/: line plots of a grid slice
//   - audit/trace/: per-row decision records and batch summaries
package audit
