// Package trace records per-row audit decisions for batch analysis.
// It stores plain data and does not import audit.
package trace

// Record captures the evaluation of a single batch row.
type Record struct {
	Row         int // 1-based data row number
	Index       float64
	GuardFactor *float64 // nil when the row was not scored
	Score       *float64
	Flag        string
}

// AuditTrace collects decision records during a batch run.
type AuditTrace struct {
	Records []Record
}

// NewAuditTrace creates an AuditTrace ready for recording.
func NewAuditTrace(capacity int) *AuditTrace {
	return &AuditTrace{Records: make([]Record, 0, capacity)}
}

// Record appends a row decision.
func (at *AuditTrace) Record(r Record) {
	at.Records = append(at.Records, r)
}
