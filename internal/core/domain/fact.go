package domain

import "time"

// FactKind distinguishes the two kinds of facts extracted from filing text.
type FactKind string

const (
	FactKindDate FactKind = "date"
	FactKindName FactKind = "name"
)

// FactContext scopes a fact to the semantic role it was extracted under.
type FactContext string

const (
	FactContextIncorporation FactContext = "incorporation"
	FactContextNameChange    FactContext = "name_change"
	FactContextRegistration  FactContext = "registration"
	FactContextFiling        FactContext = "filing"
	FactContextUnscoped      FactContext = "unscoped"
)

// ExtractedFact is a single date or name pulled out of a filing document.
// Confidence is a heuristic ordering hint, not a calibrated probability.
type ExtractedFact struct {
	Kind             FactKind    `json:"kind"`
	Context          FactContext `json:"context"`
	DateValue        *time.Time  `json:"date_value,omitempty"`
	NameValue        string      `json:"name_value,omitempty"`
	SourceDocumentID string      `json:"source_document_id"`
	Confidence       float64     `json:"confidence"`
}

// NewDateFact builds a date fact.
func NewDateFact(context FactContext, value time.Time, documentID string, confidence float64) ExtractedFact {
	return ExtractedFact{
		Kind:             FactKindDate,
		Context:          context,
		DateValue:        &value,
		SourceDocumentID: documentID,
		Confidence:       confidence,
	}
}

// NewNameFact builds a name fact.
func NewNameFact(value, documentID string, confidence float64) ExtractedFact {
	return ExtractedFact{
		Kind:             FactKindName,
		Context:          FactContextUnscoped,
		NameValue:        value,
		SourceDocumentID: documentID,
		Confidence:       confidence,
	}
}
