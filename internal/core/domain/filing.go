package domain

import (
	"strings"
	"time"
)

// DocumentType classifies a filing document for context-scoped extraction.
type DocumentType string

const (
	DocumentTypeIncorporation DocumentType = "incorporation"
	DocumentTypeNameChange    DocumentType = "name-change"
	DocumentTypeAnnualReturn  DocumentType = "annual-return"
	DocumentTypeOther         DocumentType = "other"
)

// FilingDocument is one document from a company's filing history.
// RawText is materialized lazily by the orchestrator and not retained after
// extraction; the metadata fields come from the filing-history listing.
type FilingDocument struct {
	DocumentID    string       `json:"document_id"`
	CompanyNumber string       `json:"company_number"`
	Type          DocumentType `json:"type"`
	Category      string       `json:"category,omitempty"`
	Description   string       `json:"description,omitempty"`
	FiledAt       *time.Time   `json:"filed_at,omitempty"`
	RawText       string       `json:"-"`
	RetrievedAt   time.Time    `json:"retrieved_at,omitempty"`
}

// ClassifyFiling maps a registry filing category/description onto a
// DocumentType. Unrecognized filings classify as DocumentTypeOther.
func ClassifyFiling(category, description string) DocumentType {
	c := strings.ToLower(category)
	d := strings.ToLower(description)

	switch {
	case strings.Contains(c, "incorporation") || strings.Contains(d, "incorporation"):
		return DocumentTypeIncorporation
	case strings.Contains(c, "change-of-name") || strings.Contains(d, "change of name") || strings.Contains(d, "change name"):
		return DocumentTypeNameChange
	case strings.Contains(c, "annual-return") || strings.Contains(d, "annual return") ||
		strings.Contains(c, "confirmation-statement") || strings.Contains(d, "confirmation statement"):
		return DocumentTypeAnnualReturn
	default:
		return DocumentTypeOther
	}
}

// ExtractionContext returns the semantic context used when extracting dates
// from a document of this type.
func (t DocumentType) ExtractionContext() FactContext {
	switch t {
	case DocumentTypeIncorporation:
		return FactContextIncorporation
	case DocumentTypeNameChange:
		return FactContextNameChange
	case DocumentTypeAnnualReturn:
		return FactContextFiling
	default:
		return FactContextUnscoped
	}
}
