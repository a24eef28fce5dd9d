package domain

import (
	"strings"
	"time"
)

// CompanyStatus is the registry's lifecycle state for a company.
type CompanyStatus string

const (
	CompanyStatusActive         CompanyStatus = "active"
	CompanyStatusDissolved      CompanyStatus = "dissolved"
	CompanyStatusLiquidation    CompanyStatus = "liquidation"
	CompanyStatusReceivership   CompanyStatus = "receivership"
	CompanyStatusAdministration CompanyStatus = "administration"
	CompanyStatusUnknown        CompanyStatus = ""
)

// Address is a company's registered office address.
type Address struct {
	AddressLine1 string `json:"address_line_1,omitempty"`
	AddressLine2 string `json:"address_line_2,omitempty"`
	Locality     string `json:"locality,omitempty"`
	Region       string `json:"region,omitempty"`
	PostalCode   string `json:"postal_code,omitempty"`
	Country      string `json:"country,omitempty"`
}

// String renders the address as a single comma-joined line.
func (a Address) String() string {
	parts := []string{}
	for _, p := range []string{a.AddressLine1, a.AddressLine2, a.Locality, a.Region, a.PostalCode, a.Country} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", ")
}

// PreviousName is a historical name plus the window it was in use.
type PreviousName struct {
	Name          string     `json:"name"`
	EffectiveFrom *time.Time `json:"effective_from,omitempty"`
	CeasedOn      *time.Time `json:"ceased_on,omitempty"`
}

// CompanyRecord is the registry's authoritative structured data for one
// company, as returned at scan time. It is an immutable snapshot: the
// orchestrator owns it for the duration of one scan and nothing mutates it
// after construction.
type CompanyRecord struct {
	CompanyNumber     string         `json:"company_number"`
	CompanyName       string         `json:"company_name"`
	Status            CompanyStatus  `json:"company_status"`
	CompanyType       string         `json:"company_type,omitempty"`
	IncorporationDate *time.Time     `json:"date_of_creation,omitempty"`
	DissolutionDate   *time.Time     `json:"date_of_cessation,omitempty"`
	RegisteredAddress Address        `json:"registered_office_address"`
	SICCodes          []string       `json:"sic_codes,omitempty"`
	PreviousNames     []PreviousName `json:"previous_names,omitempty"`
}

// NameVariants returns every name the company has been known by: the current
// name plus all previous names. Used for name-mismatch comparison.
func (c *CompanyRecord) NameVariants() []string {
	variants := make([]string, 0, 1+len(c.PreviousNames))
	if c.CompanyName != "" {
		variants = append(variants, c.CompanyName)
	}
	for _, prev := range c.PreviousNames {
		if prev.Name != "" {
			variants = append(variants, prev.Name)
		}
	}
	return variants
}

// Appointment links a director to one company.
type Appointment struct {
	CompanyNumber string     `json:"company_number"`
	CompanyName   string     `json:"company_name,omitempty"`
	Role          string     `json:"role"`
	AppointedOn   *time.Time `json:"appointed_on,omitempty"`
	ResignedOn    *time.Time `json:"resigned_on,omitempty"`
}

// Active reports whether the directorship is currently held.
func (a Appointment) Active() bool {
	return a.ResignedOn == nil
}

// Director is a company officer. Identity is the registry-assigned OfficerID;
// names collide and must never be used to merge director records.
type Director struct {
	OfficerID    string        `json:"officer_id"`
	Name         string        `json:"name"`
	Appointments []Appointment `json:"appointments,omitempty"`
}

// companyNumberLen is the normalized identifier width used by the registry.
const companyNumberLen = 8

// NormalizeCompanyNumber canonicalizes a company number to the 8-character
// zero-padded form used for every lookup, cache key and cross-reference.
// Normalization is idempotent. Numbers with a two-letter prefix (SC, NI, OC,
// ...) are padded after the prefix.
func NormalizeCompanyNumber(raw string) (string, error) {
	s := strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(raw), " ", ""))
	if s == "" || len(s) > companyNumberLen {
		return "", ErrInvalidInput
	}
	for _, r := range s {
		if (r < '0' || r > '9') && (r < 'A' || r > 'Z') {
			return "", ErrInvalidInput
		}
	}

	// Two-letter jurisdiction prefix keeps its place; digits are padded after it.
	prefix := ""
	rest := s
	if len(s) >= 2 && isAlpha(s[0]) && isAlpha(s[1]) {
		prefix = s[:2]
		rest = s[2:]
	}
	for _, r := range rest {
		if r < '0' || r > '9' {
			return "", ErrInvalidInput
		}
	}
	pad := companyNumberLen - len(prefix) - len(rest)
	return prefix + strings.Repeat("0", pad) + rest, nil
}

func isAlpha(b byte) bool {
	return b >= 'A' && b <= 'Z'
}

// RateLimitStatus reports the registry client's remaining request budget.
type RateLimitStatus struct {
	Limit         int       `json:"limit"`
	Remaining     int       `json:"remaining"`
	Reset         time.Time `json:"reset"`
	WindowSeconds int       `json:"window_seconds"`
}
