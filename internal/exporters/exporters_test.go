package exporters

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/signal-watch/signalwatch-core/internal/core/domain"
)

func testBatch() *domain.BatchResult {
	incorporated := time.Date(1998, 3, 4, 0, 0, 0, 0, time.UTC)
	found := time.Date(1998, 5, 4, 0, 0, 0, 0, time.UTC)

	return &domain.BatchResult{
		Results: []*domain.ScanResult{
			{
				CompanyNumber: "00123456",
				CompanyName:   "ACME WIDGETS LIMITED",
				Documents:     3,
				Mismatches: domain.MismatchReport{
					Mismatches: []domain.Mismatch{
						{
							Kind:             domain.MismatchKindDate,
							Severity:         domain.SeverityHigh,
							Context:          domain.FactContextIncorporation,
							SourceDocumentID: "doc-1",
							ExpectedDate:     &incorporated,
							FoundDate:        &found,
							DifferenceDays:   61,
							Message:          "incorporation date differs from filing",
						},
						{
							Kind:             domain.MismatchKindName,
							Severity:         domain.SeverityHigh,
							SourceDocumentID: "doc-2",
							Expected:         "ACME WIDGETS LIMITED",
							Found:            "ACME GADGETS LIMITED",
							Message:          "company name not among known variants",
						},
					},
					Total: 2,
				},
			},
			{
				CompanyNumber: "SC999999",
				Error:         "not found",
			},
		},
		Network: &domain.NetworkGraph{
			Companies: []domain.CompanyNode{
				{CompanyNumber: "00123456", CompanyName: "ACME WIDGETS LIMITED", Depth: 0},
			},
			Directors: []domain.DirectorNode{
				{OfficerID: "off-1", Name: "Jane Smith"},
			},
			Connections: []domain.Connection{
				{CompanyNumber: "00123456", OfficerID: "off-1", DirectorName: "Jane Smith", Role: "director", Active: true, Depth: 0},
			},
			Statistics: domain.NetworkStats{
				TotalCompanies:   1,
				TotalDirectors:   1,
				TotalConnections: 1,
			},
		},
		Failed: []string{"SC999999"},
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, testBatch()); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}

	rows, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("failed to parse output: %v", err)
	}

	// Header plus one row per mismatch; the failed company contributes none.
	if len(rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(rows))
	}
	if rows[0][0] != "company_number" {
		t.Errorf("unexpected header: %v", rows[0])
	}
	if rows[1][2] != "date_mismatch" || rows[1][6] != "1998-03-04" || rows[1][7] != "1998-05-04" {
		t.Errorf("unexpected date mismatch row: %v", rows[1])
	}
	if rows[2][2] != "name_mismatch" || rows[2][7] != "ACME GADGETS LIMITED" {
		t.Errorf("unexpected name mismatch row: %v", rows[2])
	}
}

func TestWriteNetworkCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteNetworkCSV(&buf, testBatch()); err != nil {
		t.Fatalf("WriteNetworkCSV: %v", err)
	}

	rows, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("failed to parse output: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[1][0] != "00123456" || rows[1][2] != "Jane Smith" || rows[1][4] != "true" {
		t.Errorf("unexpected connection row: %v", rows[1])
	}
}

func TestWriteNetworkCSV_NoNetwork(t *testing.T) {
	var buf bytes.Buffer
	batch := &domain.BatchResult{}
	if err := WriteNetworkCSV(&buf, batch); err != nil {
		t.Fatalf("WriteNetworkCSV: %v", err)
	}
	rows, _ := csv.NewReader(&buf).ReadAll()
	if len(rows) != 1 {
		t.Errorf("expected header only, got %d rows", len(rows))
	}
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteJSON(&buf, testBatch()); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}

	var envelope struct {
		GeneratedAt time.Time          `json:"generated_at"`
		Summary     domain.ScanSummary `json:"summary"`
		Result      struct {
			Results []json.RawMessage `json:"results"`
			Network *struct {
				Statistics domain.NetworkStats `json:"statistics"`
			} `json:"network"`
		} `json:"result"`
	}
	if err := json.Unmarshal(buf.Bytes(), &envelope); err != nil {
		t.Fatalf("failed to parse output: %v", err)
	}

	if envelope.GeneratedAt.IsZero() {
		t.Error("expected generated_at to be set")
	}
	if envelope.Summary.TotalCompanies != 2 || envelope.Summary.FailedCompanies != 1 {
		t.Errorf("unexpected summary: %+v", envelope.Summary)
	}
	if envelope.Summary.TotalMismatches != 2 {
		t.Errorf("expected 2 mismatches in summary, got %d", envelope.Summary.TotalMismatches)
	}
	if len(envelope.Result.Results) != 2 {
		t.Errorf("expected 2 results, got %d", len(envelope.Result.Results))
	}
	if envelope.Result.Network == nil || envelope.Result.Network.Statistics.TotalCompanies != 1 {
		t.Error("expected network statistics to survive the round trip")
	}
}

func TestWriteHTML(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteHTML(&buf, testBatch()); err != nil {
		t.Fatalf("WriteHTML: %v", err)
	}
	out := buf.String()

	for _, want := range []string{
		"ACME WIDGETS LIMITED (00123456)",
		"severity-high",
		"incorporation date differs from filing",
		"Scan failed: not found",
		"Director Network",
		"Jane Smith",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("expected report to contain %q", want)
		}
	}
}

func TestWriteHTML_EscapesContent(t *testing.T) {
	batch := &domain.BatchResult{
		Results: []*domain.ScanResult{
			{
				CompanyNumber: "00000001",
				CompanyName:   "<script>alert(1)</script>",
			},
		},
	}

	var buf bytes.Buffer
	if err := WriteHTML(&buf, batch); err != nil {
		t.Fatalf("WriteHTML: %v", err)
	}
	if strings.Contains(buf.String(), "<script>alert(1)</script>") {
		t.Error("expected company name to be escaped")
	}
}

func TestExport_Dispatch(t *testing.T) {
	batch := testBatch()

	for _, format := range []Format{FormatCSV, FormatJSON, FormatHTML} {
		var buf bytes.Buffer
		if err := Export(&buf, format, batch); err != nil {
			t.Errorf("Export(%s): %v", format, err)
		}
		if buf.Len() == 0 {
			t.Errorf("Export(%s): empty output", format)
		}
		if format.ContentType() == "" {
			t.Errorf("expected content type for %s", format)
		}
	}

	var buf bytes.Buffer
	err := Export(&buf, Format("xml"), batch)
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput for unknown format, got %v", err)
	}
}
