package services

import (
	"context"
	"testing"
	"time"

	"github.com/signal-watch/signalwatch-core/internal/core/domain"
	"github.com/signal-watch/signalwatch-core/internal/extract"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func incorporationDoc(id, text string) domain.FilingDocument {
	return domain.FilingDocument{
		DocumentID: id,
		Type:       domain.DocumentTypeIncorporation,
		RawText:    text,
	}
}

func recordWithIncorporation(d time.Time) *domain.CompanyRecord {
	return &domain.CompanyRecord{
		CompanyNumber:     "00000001",
		CompanyName:       "ACME WIDGETS LIMITED",
		IncorporationDate: &d,
	}
}

func TestDetectNoFalsePositiveOnMatchingDate(t *testing.T) {
	detector := NewMismatchDetector()
	record := recordWithIncorporation(day(1999, time.May, 10))
	docs := []domain.FilingDocument{
		incorporationDoc("TX1", "The company was incorporated on 10 May 1999."),
	}

	report := detector.Detect(context.Background(), record, docs, extract.NewPatternExtractor())
	if report.Total != 0 {
		t.Fatalf("got %d mismatches, want 0: %+v", report.Total, report.Mismatches)
	}
}

func TestDetectDateMismatch(t *testing.T) {
	detector := NewMismatchDetector()
	record := recordWithIncorporation(day(1999, time.May, 10))
	docs := []domain.FilingDocument{
		incorporationDoc("TX1", "Date of incorporation: 11/05/1999"),
	}

	report := detector.Detect(context.Background(), record, docs, extract.NewPatternExtractor())
	if report.Total != 1 {
		t.Fatalf("got %d mismatches, want 1: %+v", report.Total, report.Mismatches)
	}
	m := report.Mismatches[0]
	if m.Kind != domain.MismatchKindDate {
		t.Errorf("Kind = %q", m.Kind)
	}
	if m.DifferenceDays != 1 {
		t.Errorf("DifferenceDays = %d, want 1", m.DifferenceDays)
	}
	if m.Severity != domain.SeverityMedium {
		t.Errorf("Severity = %q, want medium for a 1-day difference", m.Severity)
	}
	if m.SourceDocumentID != "TX1" {
		t.Errorf("SourceDocumentID = %q", m.SourceDocumentID)
	}
}

func TestDetectLargeDateMismatchIsHighSeverity(t *testing.T) {
	detector := NewMismatchDetector()
	record := recordWithIncorporation(day(1999, time.May, 10))
	docs := []domain.FilingDocument{
		incorporationDoc("TX1", "Date of incorporation: 10/05/1998"),
	}

	report := detector.Detect(context.Background(), record, docs, extract.NewPatternExtractor())
	if report.Total != 1 {
		t.Fatalf("got %d mismatches, want 1", report.Total)
	}
	if report.Mismatches[0].Severity != domain.SeverityHigh {
		t.Errorf("Severity = %q, want high", report.Mismatches[0].Severity)
	}
	if report.Mismatches[0].DifferenceDays != -365 {
		t.Errorf("DifferenceDays = %d, want -365", report.Mismatches[0].DifferenceDays)
	}
}

func TestDetectMissingDate(t *testing.T) {
	detector := NewMismatchDetector()
	record := recordWithIncorporation(day(1999, time.May, 10))
	docs := []domain.FilingDocument{
		incorporationDoc("TX1", "Date of incorporation: [illegible]"),
	}

	report := detector.Detect(context.Background(), record, docs, extract.NewPatternExtractor())
	if report.Total != 1 {
		t.Fatalf("got %d mismatches, want 1: %+v", report.Total, report.Mismatches)
	}
	if report.Mismatches[0].Kind != domain.MismatchKindMissingDate {
		t.Errorf("Kind = %q, want missing_date", report.Mismatches[0].Kind)
	}
}

func TestDetectNameMismatch(t *testing.T) {
	detector := NewMismatchDetector()
	prev := day(2010, time.January, 1)
	record := &domain.CompanyRecord{
		CompanyNumber: "00000001",
		CompanyName:   "ACME WIDGETS LIMITED",
		PreviousNames: []domain.PreviousName{{Name: "ACME HOLDINGS LTD", CeasedOn: &prev}},
	}
	docs := []domain.FilingDocument{
		{
			DocumentID: "TX1",
			Type:       domain.DocumentTypeOther,
			RawText:    "Return for ACME HOLDINGS LTD and BOGUS TRADING LIMITED. Director: Jane Smith",
		},
	}

	report := detector.Detect(context.Background(), record, docs, extract.NewPatternExtractor())
	if report.Total != 1 {
		t.Fatalf("got %d mismatches, want 1: %+v", report.Total, report.Mismatches)
	}
	m := report.Mismatches[0]
	if m.Kind != domain.MismatchKindName {
		t.Errorf("Kind = %q", m.Kind)
	}
	if m.Found != "BOGUS TRADING LIMITED" {
		t.Errorf("Found = %q", m.Found)
	}
}

func TestDetectUncomparableContextIgnored(t *testing.T) {
	detector := NewMismatchDetector()
	// Record has no incorporation date, so the fact maps to nothing.
	record := &domain.CompanyRecord{CompanyNumber: "00000001", CompanyName: "ACME WIDGETS LIMITED"}
	docs := []domain.FilingDocument{
		incorporationDoc("TX1", "Date of incorporation: 11/05/1999"),
	}

	report := detector.Detect(context.Background(), record, docs, extract.NewPatternExtractor())
	if report.Total != 0 {
		t.Fatalf("got %d mismatches, want 0: %+v", report.Total, report.Mismatches)
	}
}
