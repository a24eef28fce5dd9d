package mocks

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/signal-watch/signalwatch-core/internal/core/domain"
	"github.com/signal-watch/signalwatch-core/internal/core/ports/driven"
)

// MockRegistryClient is an in-memory RegistryClient for testing.
type MockRegistryClient struct {
	mu sync.Mutex

	profiles     map[string]*domain.CompanyRecord
	officers     map[string][]domain.Director
	appointments map[string][]domain.Appointment
	filings      map[string][]domain.FilingDocument
	documents    map[string]string

	rateLimit domain.RateLimitStatus

	// Err, when set, is returned by every call.
	Err error

	// ProfileCalls counts Profile invocations, for cache-policy assertions.
	ProfileCalls int
}

// NewMockRegistryClient creates an empty mock registry.
func NewMockRegistryClient() *MockRegistryClient {
	return &MockRegistryClient{
		profiles:     make(map[string]*domain.CompanyRecord),
		officers:     make(map[string][]domain.Director),
		appointments: make(map[string][]domain.Appointment),
		filings:      make(map[string][]domain.FilingDocument),
		documents:    make(map[string]string),
		rateLimit:    domain.RateLimitStatus{Limit: 600, Remaining: 600, WindowSeconds: 300},
	}
}

// Verify interface compliance
var _ driven.RegistryClient = (*MockRegistryClient)(nil)

// AddCompany registers a company profile.
func (m *MockRegistryClient) AddCompany(record *domain.CompanyRecord) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.profiles[record.CompanyNumber] = record
}

// AddOfficers registers the officers of a company.
func (m *MockRegistryClient) AddOfficers(companyNumber string, directors []domain.Director) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.officers[companyNumber] = directors
}

// AddAppointments registers an officer's appointments.
func (m *MockRegistryClient) AddAppointments(officerID string, appointments []domain.Appointment) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.appointments[officerID] = appointments
}

// AddFiling registers a filing and its document text.
func (m *MockRegistryClient) AddFiling(companyNumber string, doc domain.FilingDocument, text string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.filings[companyNumber] = append(m.filings[companyNumber], doc)
	m.documents[doc.DocumentID] = text
}

func (m *MockRegistryClient) Profile(ctx context.Context, companyNumber string) (*domain.CompanyRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ProfileCalls++
	if m.Err != nil {
		return nil, m.Err
	}
	record, ok := m.profiles[companyNumber]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return record, nil
}

func (m *MockRegistryClient) Officers(ctx context.Context, companyNumber string, activeOnly bool) ([]domain.Director, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	directors := m.officers[companyNumber]
	if !activeOnly {
		return directors, nil
	}
	var active []domain.Director
	for _, d := range directors {
		for _, a := range d.Appointments {
			if a.Active() {
				active = append(active, d)
				break
			}
		}
	}
	return active, nil
}

func (m *MockRegistryClient) Appointments(ctx context.Context, officerID string) ([]domain.Appointment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	return m.appointments[officerID], nil
}

func (m *MockRegistryClient) FilingHistory(ctx context.Context, companyNumber string, categories []string) ([]domain.FilingDocument, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	docs := m.filings[companyNumber]
	if len(categories) == 0 {
		return docs, nil
	}
	var filtered []domain.FilingDocument
	for _, doc := range docs {
		for _, cat := range categories {
			if doc.Category == cat {
				filtered = append(filtered, doc)
				break
			}
		}
	}
	return filtered, nil
}

func (m *MockRegistryClient) DocumentText(ctx context.Context, doc *domain.FilingDocument) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return "", m.Err
	}
	text, ok := m.documents[doc.DocumentID]
	if !ok {
		return "", domain.ErrNotFound
	}
	return text, nil
}

func (m *MockRegistryClient) Search(ctx context.Context, query, status string, limit int) ([]domain.CompanyRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	var results []domain.CompanyRecord
	lower := strings.ToLower(query)
	for _, record := range m.profiles {
		if !strings.Contains(strings.ToLower(record.CompanyName), lower) && record.CompanyNumber != query {
			continue
		}
		if status != "" && record.Status != domain.CompanyStatus(status) {
			continue
		}
		results = append(results, *record)
	}
	sort.Slice(results, func(i, j int) bool { return results[i].CompanyNumber < results[j].CompanyNumber })
	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

func (m *MockRegistryClient) RateLimit() domain.RateLimitStatus {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.rateLimit
}

// Reset clears all stored data and counters.
func (m *MockRegistryClient) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.profiles = make(map[string]*domain.CompanyRecord)
	m.officers = make(map[string][]domain.Director)
	m.appointments = make(map[string][]domain.Appointment)
	m.filings = make(map[string][]domain.FilingDocument)
	m.documents = make(map[string]string)
	m.Err = nil
	m.ProfileCalls = 0
}
