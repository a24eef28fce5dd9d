package companieshouse

import (
	"strings"
	"time"

	"github.com/signal-watch/signalwatch-core/internal/core/domain"
)

// chDate handles the registry's bare "2006-01-02" date encoding.
type chDate struct {
	time.Time
}

func (d *chDate) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		return nil
	}
	parsed, err := time.Parse("2006-01-02", s)
	if err != nil {
		return err
	}
	d.Time = parsed
	return nil
}

func (d *chDate) ptr() *time.Time {
	if d == nil || d.IsZero() {
		return nil
	}
	t := d.Time
	return &t
}

type companyProfile struct {
	CompanyNumber        string             `json:"company_number"`
	CompanyName          string             `json:"company_name"`
	CompanyStatus        string             `json:"company_status"`
	Type                 string             `json:"type"`
	DateOfCreation       *chDate            `json:"date_of_creation"`
	DateOfCessation      *chDate            `json:"date_of_cessation"`
	RegisteredOffice     addressWire        `json:"registered_office_address"`
	SICCodes             []string           `json:"sic_codes"`
	PreviousCompanyNames []previousNameWire `json:"previous_company_names"`
}

type addressWire struct {
	AddressLine1 string `json:"address_line_1"`
	AddressLine2 string `json:"address_line_2"`
	Locality     string `json:"locality"`
	Region       string `json:"region"`
	PostalCode   string `json:"postal_code"`
	Country      string `json:"country"`
}

type previousNameWire struct {
	Name          string  `json:"name"`
	EffectiveFrom *chDate `json:"effective_from"`
	CeasedOn      *chDate `json:"ceased_on"`
}

func (p *companyProfile) toDomain() *domain.CompanyRecord {
	record := &domain.CompanyRecord{
		CompanyNumber:     p.CompanyNumber,
		CompanyName:       p.CompanyName,
		Status:            domain.CompanyStatus(p.CompanyStatus),
		CompanyType:       p.Type,
		IncorporationDate: p.DateOfCreation.ptr(),
		DissolutionDate:   p.DateOfCessation.ptr(),
		RegisteredAddress: domain.Address{
			AddressLine1: p.RegisteredOffice.AddressLine1,
			AddressLine2: p.RegisteredOffice.AddressLine2,
			Locality:     p.RegisteredOffice.Locality,
			Region:       p.RegisteredOffice.Region,
			PostalCode:   p.RegisteredOffice.PostalCode,
			Country:      p.RegisteredOffice.Country,
		},
		SICCodes: p.SICCodes,
	}
	for _, prev := range p.PreviousCompanyNames {
		record.PreviousNames = append(record.PreviousNames, domain.PreviousName{
			Name:          prev.Name,
			EffectiveFrom: prev.EffectiveFrom.ptr(),
			CeasedOn:      prev.CeasedOn.ptr(),
		})
	}
	return record
}

type officerList struct {
	Items []officerItem `json:"items"`
}

type officerItem struct {
	Name        string  `json:"name"`
	OfficerRole string  `json:"officer_role"`
	AppointedOn *chDate `json:"appointed_on"`
	ResignedOn  *chDate `json:"resigned_on"`
	Links       struct {
		Officer struct {
			Appointments string `json:"appointments"`
		} `json:"officer"`
	} `json:"links"`
}

// officerID pulls the registry officer identifier out of the appointments
// link ("/officers/{id}/appointments").
func (o *officerItem) officerID() string {
	parts := strings.Split(strings.Trim(o.Links.Officer.Appointments, "/"), "/")
	if len(parts) >= 2 && parts[0] == "officers" {
		return parts[1]
	}
	return ""
}

type appointmentList struct {
	Items []appointmentItem `json:"items"`
}

type appointmentItem struct {
	OfficerRole string  `json:"officer_role"`
	AppointedOn *chDate `json:"appointed_on"`
	ResignedOn  *chDate `json:"resigned_on"`
	AppointedTo struct {
		CompanyNumber string `json:"company_number"`
		CompanyName   string `json:"company_name"`
	} `json:"appointed_to"`
}

type filingHistoryList struct {
	Items      []filingHistoryItem `json:"items"`
	TotalCount int                 `json:"total_count"`
}

type filingHistoryItem struct {
	TransactionID string  `json:"transaction_id"`
	Category      string  `json:"category"`
	Description   string  `json:"description"`
	Date          *chDate `json:"date"`
	Links         struct {
		DocumentMetadata string `json:"document_metadata"`
	} `json:"links"`
}

// documentID prefers the document-API identifier from the metadata link and
// falls back to the transaction ID.
func (f *filingHistoryItem) documentID() string {
	if f.Links.DocumentMetadata != "" {
		parts := strings.Split(strings.Trim(f.Links.DocumentMetadata, "/"), "/")
		return parts[len(parts)-1]
	}
	return f.TransactionID
}

type searchResult struct {
	Items      []searchItem `json:"items"`
	TotalItems int          `json:"total_results"`
}

type searchItem struct {
	Title          string  `json:"title"`
	CompanyNumber  string  `json:"company_number"`
	CompanyStatus  string  `json:"company_status"`
	CompanyType    string  `json:"company_type"`
	DateOfCreation *chDate `json:"date_of_creation"`
}
