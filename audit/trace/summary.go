package trace

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Summary aggregates statistics from an AuditTrace.
type Summary struct {
	Rows             int
	ScoredRows       int
	MinIndex         float64
	MeanIndex        float64
	MedianIndex      float64
	MaxIndex         float64
	MeanScore        float64        // 0 when no row was scored
	FlagDistribution map[string]int // flag → number of rows
}

// Summarize computes aggregate statistics from an AuditTrace.
// Safe for nil or empty traces (returns zero-value fields).
func Summarize(at *AuditTrace) *Summary {
	summary := &Summary{
		FlagDistribution: make(map[string]int),
	}
	if at == nil || len(at.Records) == 0 {
		return summary
	}

	indices := make([]float64, 0, len(at.Records))
	var scores []float64
	for _, r := range at.Records {
		indices = append(indices, r.Index)
		if r.Score != nil {
			scores = append(scores, *r.Score)
		}
		if r.Flag != "" {
			summary.FlagDistribution[r.Flag]++
		}
	}

	summary.Rows = len(indices)
	summary.ScoredRows = len(scores)
	summary.MinIndex = floats.Min(indices)
	summary.MaxIndex = floats.Max(indices)
	summary.MeanIndex = stat.Mean(indices, nil)

	sorted := append([]float64(nil), indices...)
	sort.Float64s(sorted)
	summary.MedianIndex = stat.Quantile(0.5, stat.Empirical, sorted, nil)

	if len(scores) > 0 {
		summary.MeanScore = stat.Mean(scores, nil)
	}
	return summary
}

// Flags returns the distinct flags in descending count order, ties broken by name.
func (s *Summary) Flags() []string {
	names := make([]string, 0, len(s.FlagDistribution))
	for name := range s.FlagDistribution {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		ci, cj := s.FlagDistribution[names[i]], s.FlagDistribution[names[j]]
		if ci != cj {
			return ci > cj
		}
		return names[i] < names[j]
	})
	return names
}

// FlagShare returns the fraction of rows carrying flag, or NaN for an empty summary.
func (s *Summary) FlagShare(flag string) float64 {
	if s.Rows == 0 {
		return math.NaN()
	}
	return float64(s.FlagDistribution[flag]) / float64(s.Rows)
}
