// Package exporters renders a completed batch result as CSV, JSON or HTML.
// Every exporter writes to an io.Writer and never mutates the result.
package exporters

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/signal-watch/signalwatch-core/internal/core/domain"
)

var mismatchHeader = []string{
	"company_number", "company_name", "type", "severity", "context",
	"source_document_id", "expected", "found", "difference_days", "message",
}

var connectionHeader = []string{
	"company_number", "officer_id", "director_name", "role", "active", "depth",
}

// WriteCSV writes the batch's mismatches as CSV rows, one row per mismatch.
// Companies that failed or had no mismatches produce no rows.
func WriteCSV(w io.Writer, batch *domain.BatchResult) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(mismatchHeader); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}

	for _, result := range batch.Results {
		if result.Failed() {
			continue
		}
		for _, m := range result.Mismatches.Mismatches {
			row := []string{
				result.CompanyNumber,
				result.CompanyName,
				string(m.Kind),
				string(m.Severity),
				string(m.Context),
				m.SourceDocumentID,
				csvValue(m.Expected, m.ExpectedDate),
				csvValue(m.Found, m.FoundDate),
				strconv.Itoa(m.DifferenceDays),
				m.Message,
			}
			if err := cw.Write(row); err != nil {
				return fmt.Errorf("failed to write csv row: %w", err)
			}
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteNetworkCSV writes the network's connections as CSV rows. A batch
// without a network produces only the header.
func WriteNetworkCSV(w io.Writer, batch *domain.BatchResult) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(connectionHeader); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}

	if batch.Network != nil {
		for _, c := range batch.Network.Connections {
			row := []string{
				c.CompanyNumber,
				c.OfficerID,
				c.DirectorName,
				c.Role,
				strconv.FormatBool(c.Active),
				strconv.Itoa(c.Depth),
			}
			if err := cw.Write(row); err != nil {
				return fmt.Errorf("failed to write csv row: %w", err)
			}
		}
	}

	cw.Flush()
	return cw.Error()
}

// csvValue prefers the typed date over the free-text value when both are set.
func csvValue(text string, date *time.Time) string {
	if date != nil {
		return date.Format("2006-01-02")
	}
	return text
}
