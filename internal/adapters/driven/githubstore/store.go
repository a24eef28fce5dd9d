// Package githubstore implements the object store port on top of the GitHub
// contents API. A plain repository doubles as the shared result cache: cheap,
// versioned, and reachable from anywhere with a token.
package githubstore

import (
	"bytes"
	"context"
	"encoding/base64"
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

const defaultBaseURL = "https://api.github.com"

// Store provides object storage in a GitHub repository.
type Store struct {
	token      string
	owner      string
	repo       string
	branch     string
	httpClient *http.Client
	baseURL    string
	logger     *slog.Logger
	maxRetries int
}

// StoreConfig holds settings for the GitHub-backed store. Token and Repo
// ("owner/name") are required.
type StoreConfig struct {
	Token      string
	Repo       string
	Branch     string
	BaseURL    string
	HTTPClient *http.Client
	Logger     *slog.Logger
}

// NewStore creates a GitHub-backed object store.
func NewStore(cfg StoreConfig) (*Store, error) {
	if cfg.Token == "" {
		return nil, fmt.Errorf("github token is required: %w", domain.ErrInvalidInput)
	}
	owner, repo, ok := strings.Cut(cfg.Repo, "/")
	if !ok || owner == "" || repo == "" {
		return nil, fmt.Errorf("github repo must be owner/name: %w", domain.ErrInvalidInput)
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		token:      cfg.Token,
		owner:      owner,
		repo:       repo,
		branch:     cfg.Branch,
		httpClient: httpClient,
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		logger:     logger,
		maxRetries: 3,
	}, nil
}

// Verify interface compliance
var _ driven.ObjectStore = (*Store)(nil)

type contentResponse struct {
	Type     string `json:"type"`
	Name     string `json:"name"`
	Path     string `json:"path"`
	SHA      string `json:"sha"`
	Content  string `json:"content"`
	Encoding string `json:"encoding"`
}

// Exists reports whether an object is present at path.
func (s *Store) Exists(ctx context.Context, path string) (bool, error) {
	_, _, err := s.fetch(ctx, path)
	if err != nil {
		if err == domain.ErrNotFound {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// Get retrieves the object content at path.
func (s *Store) Get(ctx context.Context, path string) ([]byte, error) {
	content, _, err := s.fetch(ctx, path)
	return content, err
}

// Put writes content at path. The contents API requires the current blob SHA
// to update an existing file, so Put reads first and tolerates a miss.
func (s *Store) Put(ctx context.Context, path string, content []byte, message string) error {
	_, sha, err := s.fetch(ctx, path)
	if err != nil && err != domain.ErrNotFound {
		return err
	}

	payload := map[string]string{
		"message": message,
		"content": base64.StdEncoding.EncodeToString(content),
	}
	if sha != "" {
		payload["sha"] = sha
	}
	if s.branch != "" {
		payload["branch"] = s.branch
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal content payload: %w", err)
	}

	resp, err := s.doRequest(ctx, http.MethodPut, s.contentURL(path), body)
	if err != nil {
		return err
	}
	resp.Body.Close()
	return nil
}

// List returns the entry names directly under a directory path.
func (s *Store) List(ctx context.Context, path string) ([]string, error) {
	resp, err := s.doRequest(ctx, http.MethodGet, s.contentURL(path), nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var entries []contentResponse
	if err := json.NewDecoder(resp.Body).Decode(&entries); err != nil {
		return nil, fmt.Errorf("decode directory listing: %w", domain.ErrParse)
	}
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		names = append(names, entry.Name)
	}
	return names, nil
}

// fetch retrieves a file's decoded content and blob SHA.
func (s *Store) fetch(ctx context.Context, path string) ([]byte, string, error) {
	resp, err := s.doRequest(ctx, http.MethodGet, s.contentURL(path), nil)
	if err != nil {
		return nil, "", err
	}
	defer resp.Body.Close()

	var file contentResponse
	if err := json.NewDecoder(resp.Body).Decode(&file); err != nil {
		return nil, "", fmt.Errorf("decode content response: %w", domain.ErrParse)
	}
	if file.Encoding != "base64" {
		return []byte(file.Content), file.SHA, nil
	}
	// GitHub wraps base64 content at 60 columns.
	decoded, err := base64.StdEncoding.DecodeString(strings.ReplaceAll(file.Content, "\n", ""))
	if err != nil {
		return nil, "", fmt.Errorf("decode file content: %w", domain.ErrParse)
	}
	return decoded, file.SHA, nil
}

func (s *Store) contentURL(path string) string {
	endpoint := fmt.Sprintf("%s/repos/%s/%s/contents/%s", s.baseURL, s.owner, s.repo, strings.TrimPrefix(path, "/"))
	if s.branch != "" {
		endpoint += "?ref=" + url.QueryEscape(s.branch)
	}
	return endpoint
}

// doRequest takes the body as bytes so each retry sends a fresh reader; a
// shared reader would be drained by the first attempt.
func (s *Store) doRequest(ctx context.Context, method, endpoint string, body []byte) (*http.Response, error) {
	var resp *http.Response
	for attempt := 0; attempt <= s.maxRetries; attempt++ {
		var reader io.Reader
		if body != nil {
			reader = bytes.NewReader(body)
		}
		req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
		if err != nil {
			return nil, fmt.Errorf("create request: %w", err)
		}
		req.Header.Set("Authorization", "Bearer "+s.token)
		req.Header.Set("Accept", "application/vnd.github.v3+json")
		req.Header.Set("X-GitHub-Api-Version", "2022-11-28")

		resp, err = s.httpClient.Do(req)
		if err != nil {
			return nil, fmt.Errorf("github request: %w", domain.ErrCacheUnavailable)
		}

		// Check for rate limiting
		if resp.StatusCode == http.StatusForbidden || resp.StatusCode == http.StatusTooManyRequests {
			if resetHeader := resp.Header.Get("X-RateLimit-Reset"); resetHeader != "" {
				resetTime, _ := strconv.ParseInt(resetHeader, 10, 64)
				if resetTime > 0 {
					waitDuration := time.Until(time.Unix(resetTime, 0))
					if waitDuration > 0 && waitDuration < 5*time.Minute {
						resp.Body.Close()
						s.logger.Warn("github rate limited, backing off", "wait", waitDuration)
						select {
						case <-ctx.Done():
							return nil, ctx.Err()
						case <-time.After(waitDuration):
							continue
						}
					}
				}
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

	if resp.StatusCode == http.StatusNotFound {
		resp.Body.Close()
		return nil, domain.ErrNotFound
	}
	if resp.StatusCode >= 400 {
		respBody, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		return nil, fmt.Errorf("github api error %d: %s: %w", resp.StatusCode, string(respBody), domain.ErrCacheUnavailable)
	}
	return resp, nil
}
