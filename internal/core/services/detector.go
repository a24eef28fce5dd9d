package services

import (
	"context"
	"fmt"
	"time"

	"github.com/signal-watch/signalwatch-core/internal/core/domain"
	"github.com/signal-watch/signalwatch-core/internal/core/ports/driven"
	"github.com/signal-watch/signalwatch-core/internal/extract"
)

// Severity boundary: a date discrepancy larger than this many days is ranked
// high, anything smaller is medium.
const severeDifferenceDays = 30

// MismatchDetector compares facts extracted from filing documents against a
// company's structured registry record. It never fails a scan: documents
// whose extraction errors are skipped, and the remaining documents still
// produce a report.
type MismatchDetector struct {
	dates         *extract.DateExtractor
	toleranceDays int
}

// NewMismatchDetector creates a detector with exact-day comparison.
func NewMismatchDetector() *MismatchDetector {
	return &MismatchDetector{
		dates:         extract.NewDateExtractor(),
		toleranceDays: 0,
	}
}

// Detect extracts facts from every document and reports each discrepancy
// against the record. Facts whose semantic context has no corresponding
// record field are ignored rather than reported.
func (d *MismatchDetector) Detect(ctx context.Context, record *domain.CompanyRecord, docs []domain.FilingDocument, extractor driven.FactExtractor) domain.MismatchReport {
	var mismatches []domain.Mismatch

	for i := range docs {
		doc := &docs[i]
		if doc.RawText == "" {
			continue
		}
		mismatches = append(mismatches, d.detectDates(ctx, record, doc, extractor)...)
		mismatches = append(mismatches, d.detectNames(ctx, record, doc, extractor)...)
	}

	return domain.MismatchReport{Mismatches: mismatches, Total: len(mismatches)}
}

func (d *MismatchDetector) detectDates(ctx context.Context, record *domain.CompanyRecord, doc *domain.FilingDocument, extractor driven.FactExtractor) []domain.Mismatch {
	factContext := doc.Type.ExtractionContext()

	found, err := extractor.ExtractDates(ctx, doc.RawText, factContext)
	if err != nil {
		return nil
	}

	expected := d.expectedDates(record, doc, factContext)
	if len(expected) == 0 {
		return nil
	}

	if len(found) == 0 {
		// The document claims to state this date but none was readable.
		if d.dates.ContextStated(doc.RawText, factContext) {
			return []domain.Mismatch{{
				Kind:             domain.MismatchKindMissingDate,
				Severity:         domain.SeverityMedium,
				Context:          factContext,
				SourceDocumentID: doc.DocumentID,
				ExpectedDate:     &expected[0],
				Message:          fmt.Sprintf("document states a %s date but none could be read", factContext),
			}}
		}
		return nil
	}

	var mismatches []domain.Mismatch
	for _, f := range found {
		exp, diff, ok := nearestExpected(expected, f, d.toleranceDays)
		if ok {
			continue
		}
		severity := domain.SeverityMedium
		if diff > severeDifferenceDays || diff < -severeDifferenceDays {
			severity = domain.SeverityHigh
		}
		expCopy := exp
		fCopy := f
		mismatches = append(mismatches, domain.Mismatch{
			Kind:             domain.MismatchKindDate,
			Severity:         severity,
			Context:          factContext,
			SourceDocumentID: doc.DocumentID,
			ExpectedDate:     &expCopy,
			FoundDate:        &fCopy,
			DifferenceDays:   diff,
			Message:          fmt.Sprintf("%s date in filing differs from registry by %d day(s)", factContext, diff),
		})
	}
	return mismatches
}

// expectedDates returns the registry dates a fact in this context is checked
// against. An empty slice means the context maps to no record field and the
// fact is not comparable.
func (d *MismatchDetector) expectedDates(record *domain.CompanyRecord, doc *domain.FilingDocument, factContext domain.FactContext) []time.Time {
	switch factContext {
	case domain.FactContextIncorporation, domain.FactContextRegistration:
		if record.IncorporationDate != nil {
			return []time.Time{*record.IncorporationDate}
		}
	case domain.FactContextNameChange:
		var dates []time.Time
		for _, prev := range record.PreviousNames {
			if prev.CeasedOn != nil {
				dates = append(dates, *prev.CeasedOn)
			}
			if prev.EffectiveFrom != nil {
				dates = append(dates, *prev.EffectiveFrom)
			}
		}
		return dates
	case domain.FactContextFiling:
		if doc.FiledAt != nil {
			return []time.Time{*doc.FiledAt}
		}
	}
	return nil
}

// nearestExpected finds the expected date closest to found. ok is true when
// the closest one is within tolerance, meaning no mismatch.
func nearestExpected(expected []time.Time, found time.Time, toleranceDays int) (nearest time.Time, diff int, ok bool) {
	for i, exp := range expected {
		delta := extract.DaysBetween(exp, found)
		abs := delta
		if abs < 0 {
			abs = -abs
		}
		if i == 0 || abs < absInt(diff) {
			nearest = exp
			diff = delta
		}
		if extract.CompareDates(exp, found, toleranceDays) {
			return exp, delta, true
		}
	}
	return nearest, diff, false
}

func absInt(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

func (d *MismatchDetector) detectNames(ctx context.Context, record *domain.CompanyRecord, doc *domain.FilingDocument, extractor driven.FactExtractor) []domain.Mismatch {
	found, err := extractor.ExtractNames(ctx, doc.RawText)
	if err != nil {
		return nil
	}

	variants := record.NameVariants()
	if len(variants) == 0 {
		return nil
	}
	known := make(map[string]struct{}, len(variants))
	for _, v := range variants {
		known[extract.NormalizeCompanyName(v)] = struct{}{}
	}

	// A foreign name alongside one of the company's own names reads as a
	// co-mention; a document naming no known variant at all is the stronger
	// signal.
	variantSeen := false
	var unknown []string
	for _, name := range found {
		// Person names never map to the company name field.
		if !extract.IsCompanyName(name) {
			continue
		}
		normalized := extract.NormalizeCompanyName(name)
		if _, ok := known[normalized]; ok {
			variantSeen = true
			continue
		}
		unknown = append(unknown, normalized)
	}

	severity := domain.SeverityHigh
	if variantSeen {
		severity = domain.SeverityMedium
	}

	var mismatches []domain.Mismatch
	for _, normalized := range unknown {
		mismatches = append(mismatches, domain.Mismatch{
			Kind:             domain.MismatchKindName,
			Severity:         severity,
			SourceDocumentID: doc.DocumentID,
			Expected:         extract.NormalizeCompanyName(record.CompanyName),
			Found:            normalized,
			Message:          fmt.Sprintf("filing names %q, not a known name of this company", normalized),
		})
	}
	return mismatches
}
