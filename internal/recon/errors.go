package recon

import "github.com/shopspring/decimal"

// The reconciliation failure taxonomy. Malformed numerics recover to
// zero inside the normalizer and never surface here. The cases below
// are the ones callers must be able to see.

// RangeViolation marks corrupted source data (negative balance, usage
// above issue). It is reported, never auto-corrected.
type RangeViolation struct {
	RecordID string          `json:"record_id"`
	Field    string          `json:"field"`
	Value    decimal.Decimal `json:"value"`
	Detail   string          `json:"detail"`
}

// Diagnostics carries the data-quality counters a report accumulates
// while aggregating. Silent-recovery cases are counted, not raised.
type Diagnostics struct {
	SkippedDates    int              `json:"skipped_dates"`     // records excluded from a ranged computation for an unparseable date
	UnresolvedRefs  int              `json:"unresolved_refs"`   // joins that fell back to an Unknown label
	IgnoredUsage    int              `json:"ignored_usage"`     // usage rows outside the filtered material set
	RangeViolations []RangeViolation `json:"range_violations,omitempty"`
}
