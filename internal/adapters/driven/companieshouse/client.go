// Package companieshouse implements the registry client against the
// Companies House public data and document APIs.
package companieshouse

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/signal-watch/signalwatch-core/internal/core/domain"
	"github.com/signal-watch/signalwatch-core/internal/core/ports/driven"
)

const (
	defaultBaseURL         = "https://api.company-information.service.gov.uk"
	defaultDocumentBaseURL = "https://document-api.company-information.service.gov.uk"

	searchPageSize = 100
)

// Client provides Companies House API operations. All calls go through the
// shared rate limiter, so a Client is safe for concurrent use.
type Client struct {
	apiKey      string
	httpClient  *http.Client
	baseURL     string
	documentURL string
	limiter     *RateLimiter
	logger      *slog.Logger
	maxRetries  int
}

// ClientConfig holds settings for the registry client. APIKey is required;
// everything else has a sensible default.
type ClientConfig struct {
	APIKey          string
	BaseURL         string
	DocumentBaseURL string
	HTTPClient      *http.Client
	Limiter         *RateLimiter
	Logger          *slog.Logger
}

// NewClient creates a Companies House client.
func NewClient(cfg ClientConfig) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("companies house api key is required: %w", domain.ErrInvalidInput)
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	documentURL := cfg.DocumentBaseURL
	if documentURL == "" {
		documentURL = defaultDocumentBaseURL
	}
	limiter := cfg.Limiter
	if limiter == nil {
		limiter = NewRateLimiter()
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		apiKey:      cfg.APIKey,
		httpClient:  httpClient,
		baseURL:     strings.TrimSuffix(baseURL, "/"),
		documentURL: strings.TrimSuffix(documentURL, "/"),
		limiter:     limiter,
		logger:      logger,
		maxRetries:  3,
	}, nil
}

// Verify interface compliance
var _ driven.RegistryClient = (*Client)(nil)

// Profile retrieves the registered profile for a company.
func (c *Client) Profile(ctx context.Context, companyNumber string) (*domain.CompanyRecord, error) {
	var profile companyProfile
	if err := c.getJSON(ctx, c.baseURL+"/company/"+url.PathEscape(companyNumber), &profile); err != nil {
		return nil, err
	}
	return profile.toDomain(), nil
}

// Officers retrieves the officers of a company.
func (c *Client) Officers(ctx context.Context, companyNumber string, activeOnly bool) ([]domain.Director, error) {
	var list officerList
	if err := c.getJSON(ctx, c.baseURL+"/company/"+url.PathEscape(companyNumber)+"/officers", &list); err != nil {
		return nil, err
	}

	var directors []domain.Director
	for _, item := range list.Items {
		appointment := domain.Appointment{
			CompanyNumber: companyNumber,
			Role:          item.OfficerRole,
			AppointedOn:   item.AppointedOn.ptr(),
			ResignedOn:    item.ResignedOn.ptr(),
		}
		if activeOnly && !appointment.Active() {
			continue
		}
		directors = append(directors, domain.Director{
			OfficerID:    item.officerID(),
			Name:         item.Name,
			Appointments: []domain.Appointment{appointment},
		})
	}
	return directors, nil
}

// Appointments retrieves every company appointment held by an officer.
func (c *Client) Appointments(ctx context.Context, officerID string) ([]domain.Appointment, error) {
	var list appointmentList
	if err := c.getJSON(ctx, c.baseURL+"/officers/"+url.PathEscape(officerID)+"/appointments", &list); err != nil {
		return nil, err
	}

	appointments := make([]domain.Appointment, 0, len(list.Items))
	for _, item := range list.Items {
		appointments = append(appointments, domain.Appointment{
			CompanyNumber: item.AppointedTo.CompanyNumber,
			CompanyName:   item.AppointedTo.CompanyName,
			Role:          item.OfficerRole,
			AppointedOn:   item.AppointedOn.ptr(),
			ResignedOn:    item.ResignedOn.ptr(),
		})
	}
	return appointments, nil
}

// FilingHistory retrieves filing metadata for a company, newest first.
func (c *Client) FilingHistory(ctx context.Context, companyNumber string, categories []string) ([]domain.FilingDocument, error) {
	endpoint := c.baseURL + "/company/" + url.PathEscape(companyNumber) + "/filing-history"
	if len(categories) > 0 {
		endpoint += "?category=" + url.QueryEscape(strings.Join(categories, ","))
	}

	var list filingHistoryList
	if err := c.getJSON(ctx, endpoint, &list); err != nil {
		return nil, err
	}

	docs := make([]domain.FilingDocument, 0, len(list.Items))
	for _, item := range list.Items {
		docs = append(docs, domain.FilingDocument{
			DocumentID:    item.documentID(),
			CompanyNumber: companyNumber,
			Type:          domain.ClassifyFiling(item.Category, item.Description),
			Category:      item.Category,
			Description:   item.Description,
			FiledAt:       item.Date.ptr(),
		})
	}
	return docs, nil
}

// DocumentText fetches the text rendering of a filing document from the
// document API.
func (c *Client) DocumentText(ctx context.Context, doc *domain.FilingDocument) (string, error) {
	resp, err := c.doRequest(ctx, c.documentURL+"/document/"+url.PathEscape(doc.DocumentID)+"/content", "text/plain")
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read document body: %w", err)
	}
	return string(body), nil
}

// Search finds companies by name or number, paging until limit is filled.
// A non-empty status becomes the company_status filter on each page request.
func (c *Client) Search(ctx context.Context, query, status string, limit int) ([]domain.CompanyRecord, error) {
	var records []domain.CompanyRecord
	for start := 0; len(records) < limit; start += searchPageSize {
		pageSize := searchPageSize
		if remaining := limit - len(records); remaining < pageSize {
			pageSize = remaining
		}
		endpoint := fmt.Sprintf("%s/search/companies?q=%s&items_per_page=%d&start_index=%d",
			c.baseURL, url.QueryEscape(query), pageSize, start)
		if status != "" {
			endpoint += "&company_status=" + url.QueryEscape(status)
		}

		var page searchResult
		if err := c.getJSON(ctx, endpoint, &page); err != nil {
			return nil, err
		}
		if len(page.Items) == 0 {
			break
		}
		for _, item := range page.Items {
			records = append(records, domain.CompanyRecord{
				CompanyNumber:     item.CompanyNumber,
				CompanyName:       item.Title,
				Status:            domain.CompanyStatus(item.CompanyStatus),
				CompanyType:       item.CompanyType,
				IncorporationDate: item.DateOfCreation.ptr(),
			})
		}
		if len(page.Items) < pageSize {
			break
		}
	}
	return records, nil
}

// RateLimit reports current request-quota usage.
func (c *Client) RateLimit() domain.RateLimitStatus {
	return c.limiter.Status()
}

func (c *Client) getJSON(ctx context.Context, endpoint string, out any) error {
	resp, err := c.doRequest(ctx, endpoint, "application/json")
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s: %w", endpoint, domain.ErrParse)
	}
	return nil
}

// doRequest performs a GET with rate limiting, retry on server errors, and
// header-driven backoff on 429.
func (c *Client) doRequest(ctx context.Context, endpoint, accept string) (*http.Response, error) {
	var resp *http.Response
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return nil, fmt.Errorf("create request: %w", err)
		}
		// The API key goes in the basic-auth username, password empty.
		req.SetBasicAuth(c.apiKey, "")
		req.Header.Set("Accept", accept)

		resp, err = c.httpClient.Do(req)
		if err != nil {
			return nil, fmt.Errorf("registry request: %w", domain.ErrUpstreamUnavailable)
		}

		if resp.StatusCode == http.StatusTooManyRequests {
			wait := retryAfter(resp)
			resp.Body.Close()
			c.logger.Warn("registry rate limited, backing off", "wait", wait, "endpoint", endpoint)
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(wait):
				continue
			}
		}

		// Success or non-retryable error
		if resp.StatusCode < 500 {
			break
		}

		// Server error - retry with exponential backoff
		resp.Body.Close()
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(time.Duration(attempt+1) * time.Second):
		}
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		resp.Body.Close()
		return nil, domain.ErrNotFound
	case resp.StatusCode == http.StatusUnauthorized, resp.StatusCode == http.StatusForbidden:
		resp.Body.Close()
		return nil, domain.ErrUnauthorized
	case resp.StatusCode == http.StatusTooManyRequests:
		resp.Body.Close()
		return nil, domain.ErrRateLimitExceeded
	case resp.StatusCode >= 400:
		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		return nil, fmt.Errorf("registry error %d: %s: %w", resp.StatusCode, string(body), domain.ErrUpstreamUnavailable)
	}
	return resp, nil
}

func retryAfter(resp *http.Response) time.Duration {
	if header := resp.Header.Get("Retry-After"); header != "" {
		if seconds, err := strconv.Atoi(header); err == nil && seconds >= 0 {
			return time.Duration(seconds) * time.Second
		}
	}
	return 2 * time.Second
}
