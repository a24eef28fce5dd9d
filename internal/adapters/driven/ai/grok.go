// Package ai provides the optional LLM-backed fact extractor. Scans that
// request AI extraction degrade to the pattern extractor when a call fails,
// so every error returned here is recoverable from the caller's view.
package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/signal-watch/signalwatch-core/internal/core/domain"
	"github.com/signal-watch/signalwatch-core/internal/core/ports/driven"
)

// Ensure GrokExtractor implements FactExtractor
var _ driven.FactExtractor = (*GrokExtractor)(nil)

const (
	defaultGrokBaseURL = "https://api.x.ai/v1"
	defaultGrokModel   = "grok-3-mini"

	// Filing text beyond this is truncated before prompting. OCR output for
	// old filings can run to hundreds of pages and the facts we want are
	// almost always near the top.
	maxPromptChars = 12000
)

// GrokExtractor implements FactExtractor using xAI's chat completions API.
// The same wire format is served by OpenAI-compatible endpoints, so the
// factory points this adapter at other providers by swapping the base URL.
type GrokExtractor struct {
	apiKey  string
	model   string
	baseURL string
	client  *http.Client
}

// NewGrokExtractor creates a Grok-backed fact extractor.
func NewGrokExtractor(apiKey, model, baseURL string) (*GrokExtractor, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("xAI API key is required")
	}
	if model == "" {
		model = defaultGrokModel
	}
	if baseURL == "" {
		baseURL = defaultGrokBaseURL
	}

	return &GrokExtractor{
		apiKey:  apiKey,
		model:   model,
		baseURL: baseURL,
		client: &http.Client{
			Timeout: 60 * time.Second,
		},
	}, nil
}

// Model returns the model name being used.
func (g *GrokExtractor) Model() string {
	return g.model
}

// Close releases resources held by the extractor.
func (g *GrokExtractor) Close() error {
	g.client.CloseIdleConnections()
	return nil
}

// chatRequest is the request body for the chat completions API
type chatRequest struct {
	Model          string        `json:"model"`
	Messages       []chatMessage `json:"messages"`
	Temperature    float64       `json:"temperature"`
	ResponseFormat *struct {
		Type string `json:"type"`
	} `json:"response_format,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// chatResponse is the response from the chat completions API
type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
		Code    string `json:"code"`
	} `json:"error,omitempty"`
}

var contextInstructions = map[domain.FactContext]string{
	domain.FactContextIncorporation: "dates on which the company was incorporated or formed",
	domain.FactContextNameChange:    "dates on which the company changed its name",
	domain.FactContextRegistration:  "dates on which the company or a charge was registered",
	domain.FactContextFiling:        "dates on which this document was filed, signed or made up to",
	domain.FactContextUnscoped:      "every date that refers to a company event",
}

// ExtractDates asks the model for the dates matching the given context and
// returns them parsed, deduplicated and sorted ascending.
func (g *GrokExtractor) ExtractDates(ctx context.Context, text string, factContext domain.FactContext) ([]time.Time, error) {
	instruction, ok := contextInstructions[factContext]
	if !ok {
		instruction = contextInstructions[domain.FactContextUnscoped]
	}

	prompt := fmt.Sprintf(
		"Extract the %s from the following UK company filing text. "+
			"Respond with a JSON object of the form {\"dates\": [\"YYYY-MM-DD\", ...]}. "+
			"Use ISO 8601 dates only. If no such date is stated, return an empty list. "+
			"Text:\n\n%s",
		instruction, truncate(text))

	content, err := g.complete(ctx, prompt)
	if err != nil {
		return nil, err
	}

	var parsed struct {
		Dates []string `json:"dates"`
	}
	if err := json.Unmarshal([]byte(content), &parsed); err != nil {
		return nil, fmt.Errorf("%w: model returned malformed JSON: %v", domain.ErrParse, err)
	}

	seen := make(map[time.Time]struct{}, len(parsed.Dates))
	var dates []time.Time
	for _, raw := range parsed.Dates {
		d, err := time.Parse("2006-01-02", strings.TrimSpace(raw))
		if err != nil {
			continue
		}
		// Same plausible-year window as the pattern extractor.
		if d.Year() < 1800 || d.Year() > 2100 {
			continue
		}
		if _, dup := seen[d]; dup {
			continue
		}
		seen[d] = struct{}{}
		dates = append(dates, d)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
	return dates, nil
}

// ExtractNames asks the model for the company names mentioned in the text.
func (g *GrokExtractor) ExtractNames(ctx context.Context, text string) ([]string, error) {
	prompt := fmt.Sprintf(
		"Extract every registered company name mentioned in the following UK "+
			"company filing text. Include former names. Exclude names of people. "+
			"Respond with a JSON object of the form {\"names\": [\"...\", ...]}. "+
			"Text:\n\n%s",
		truncate(text))

	content, err := g.complete(ctx, prompt)
	if err != nil {
		return nil, err
	}

	var parsed struct {
		Names []string `json:"names"`
	}
	if err := json.Unmarshal([]byte(content), &parsed); err != nil {
		return nil, fmt.Errorf("%w: model returned malformed JSON: %v", domain.ErrParse, err)
	}

	seen := make(map[string]struct{}, len(parsed.Names))
	var names []string
	for _, raw := range parsed.Names {
		name := strings.TrimSpace(raw)
		if name == "" {
			continue
		}
		key := strings.ToUpper(name)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		names = append(names, name)
	}
	return names, nil
}

// complete sends a single-turn chat completion and returns the message content.
func (g *GrokExtractor) complete(ctx context.Context, prompt string) (string, error) {
	reqBody := chatRequest{
		Model: g.model,
		Messages: []chatMessage{
			{Role: "system", Content: "You extract structured facts from UK Companies House filing text. You respond only with JSON."},
			{Role: "user", Content: prompt},
		},
		Temperature: 0,
		ResponseFormat: &struct {
			Type string `json:"type"`
		}{Type: "json_object"},
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", g.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+g.apiKey)

	resp, err := g.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	var chatResp chatResponse
	if err := json.Unmarshal(respBody, &chatResp); err != nil {
		return "", fmt.Errorf("failed to parse response: %w", err)
	}

	if chatResp.Error != nil {
		return "", fmt.Errorf("xAI API error: %s (type: %s, code: %s)",
			chatResp.Error.Message, chatResp.Error.Type, chatResp.Error.Code)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("xAI API returned status %d", resp.StatusCode)
	}
	if len(chatResp.Choices) == 0 {
		return "", fmt.Errorf("xAI API returned no choices")
	}

	return chatResp.Choices[0].Message.Content, nil
}

func truncate(text string) string {
	if len(text) <= maxPromptChars {
		return text
	}
	return text[:maxPromptChars]
}
