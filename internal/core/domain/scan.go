package domain

import "time"

// Folder discriminators used as the configuration fingerprint. Only options
// that change output shape participate; AI extraction is recorded in
// provenance but does not change cache identity.
const (
	FingerprintActiveOnly   = "Only Active Directors"
	FingerprintAllDirectors = "Directors"
)

// ScanOptions are the caller-supplied settings for one scan request.
type ScanOptions struct {
	ActiveDirectorsOnly bool `json:"active_directors_only"`
	UseAI               bool `json:"use_ai"`
	ScanNetwork         bool `json:"scan_network"`
	NetworkDepth        int  `json:"network_depth"`
	UseRemoteCache      bool `json:"use_remote_cache"`
}

// Fingerprint derives the cache-key discriminator from the options that
// affect output shape.
func (o ScanOptions) Fingerprint() string {
	if o.ActiveDirectorsOnly {
		return FingerprintActiveOnly
	}
	return FingerprintAllDirectors
}

// Provenance records when and under what configuration a result was produced.
type Provenance struct {
	ScannedAt           time.Time `json:"scanned_at"`
	ActiveDirectorsOnly bool      `json:"active_directors_only"`
	AIExtraction        bool      `json:"ai_extraction"`
}

// ScanResult is one company's outcome: the authoritative record plus the
// mismatches found in its filings, or a per-company error. Immutable after
// creation; cached keyed by (company number, configuration fingerprint).
type ScanResult struct {
	CompanyNumber string         `json:"company_number"`
	CompanyName   string         `json:"company_name,omitempty"`
	Record        *CompanyRecord `json:"record,omitempty"`
	Mismatches    MismatchReport `json:"mismatches"`
	Documents     int            `json:"documents_scanned"`
	Error         string         `json:"error,omitempty"`
	Provenance    Provenance     `json:"provenance"`
}

// Failed reports whether this company's scan ended in an error.
func (r *ScanResult) Failed() bool {
	return r.Error != ""
}

// BatchResult is the orchestrator's complete answer for one request. The
// field names are the stable contract the rendering/export layer depends on.
type BatchResult struct {
	Results []*ScanResult `json:"results"`
	Network *NetworkGraph `json:"network,omitempty"`
	Failed  []string      `json:"failed,omitempty"`
}

// Summary condenses a batch for API responses.
func (b *BatchResult) Summary() ScanSummary {
	s := ScanSummary{TotalCompanies: len(b.Results)}
	for _, r := range b.Results {
		if r.Failed() {
			s.FailedCompanies++
			continue
		}
		s.TotalMismatches += len(r.Mismatches.Mismatches)
	}
	if b.Network != nil {
		s.NetworkCompanies = b.Network.Statistics.TotalCompanies
	}
	return s
}

// ScanSummary is the condensed view returned alongside a result ID.
type ScanSummary struct {
	TotalCompanies   int  `json:"total_companies"`
	FailedCompanies  int  `json:"failed_companies"`
	TotalMismatches  int  `json:"total_mismatches"`
	NetworkCompanies int  `json:"network_companies,omitempty"`
	FromCache        bool `json:"from_cache,omitempty"`
}
