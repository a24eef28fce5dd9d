package domain

import "time"

// MismatchKind is the closed set of discrepancy types the detector reports.
// Consumers can rely on every kind carrying the typed payload fields below;
// there are no free-form payloads.
type MismatchKind string

const (
	MismatchKindDate        MismatchKind = "date_mismatch"
	MismatchKindName        MismatchKind = "name_mismatch"
	MismatchKindMissingDate MismatchKind = "missing_date"
	MismatchKindOther       MismatchKind = "other"
)

// Severity ranks how strongly a mismatch signals a problem.
type Severity string

const (
	SeverityHigh   Severity = "high"
	SeverityMedium Severity = "medium"
	SeverityLow    Severity = "low"
)

// Mismatch is one discrepancy between the registry's structured record and a
// fact extracted from a filing document. Every mismatch carries the source
// document identifier so findings are auditable back to raw evidence.
type Mismatch struct {
	Kind             MismatchKind `json:"type"`
	Severity         Severity     `json:"severity"`
	Context          FactContext  `json:"context,omitempty"`
	SourceDocumentID string       `json:"source_document_id"`
	Expected         string       `json:"expected,omitempty"`
	Found            string       `json:"found,omitempty"`
	ExpectedDate     *time.Time   `json:"expected_date,omitempty"`
	FoundDate        *time.Time   `json:"found_date,omitempty"`
	DifferenceDays   int          `json:"difference_days,omitempty"`
	Message          string       `json:"message"`
}

// MismatchReport groups a company's mismatches. The JSON shape is part of the
// export contract: report generation keys off "mismatches.mismatches".
type MismatchReport struct {
	Mismatches []Mismatch `json:"mismatches"`
	Total      int        `json:"total"`
}

// CountBySeverity tallies mismatches per severity level.
func (r MismatchReport) CountBySeverity() map[Severity]int {
	counts := make(map[Severity]int)
	for _, m := range r.Mismatches {
		counts[m.Severity]++
	}
	return counts
}
