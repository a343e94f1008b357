// Package remote implements a DocumentExtractor backed by an HTTP extraction
// service (OCR plus field labeling). The service receives document bytes and
// returns a flat field map with per-field confidence scores.
package remote

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"rinsetu/internal/config"
	"rinsetu/internal/extractor"
	"rinsetu/internal/port"
)

// Extractor implements port.DocumentExtractor against a remote extraction API.
type Extractor struct {
	apiKey   string
	endpoint string
	client   *http.Client
}

// NewExtractor creates a remote extractor from a provider config.
func NewExtractor(cfg *config.ExtractorProviderConfig) *Extractor {
	timeout := time.Duration(cfg.TimeoutSecs) * time.Second
	if timeout == 0 {
		timeout = 60 * time.Second
	}
	return &Extractor{
		apiKey:   cfg.APIKey,
		endpoint: cfg.Endpoint,
		client:   &http.Client{Timeout: timeout},
	}
}

// NewExtractorWithEndpoint creates an extractor pointing at a custom endpoint (for testing).
func NewExtractorWithEndpoint(cfg *config.ExtractorProviderConfig, endpoint string) *Extractor {
	e := NewExtractor(cfg)
	e.endpoint = endpoint
	return e
}

type extractRequest struct {
	Document     string `json:"document"` // base64-encoded bytes
	ContentType  string `json:"content_type"`
	Filename     string `json:"filename,omitempty"`
	DocumentType string `json:"document_type,omitempty"`
}

type extractResponse struct {
	DocumentType string             `json:"document_type"`
	Fields       map[string]string  `json:"fields"`
	Confidence   map[string]float64 `json:"confidence"`
}

func (e *Extractor) Extract(ctx context.Context, input port.ExtractInput) (*port.ExtractOutput, error) {
	reqBody := extractRequest{
		Document:     base64.StdEncoding.EncodeToString(input.FileBytes),
		ContentType:  input.ContentType,
		Filename:     input.Filename,
		DocumentType: input.DocumentType,
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.endpoint, bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+e.apiKey)

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling extraction API: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		baseErr := fmt.Errorf("extraction API error (status %d): %s", resp.StatusCode, truncate(string(respBody), 500))
		if resp.StatusCode == http.StatusTooManyRequests {
			retryAfter := extractor.ParseRetryAfterHeader(resp.Header.Get("Retry-After"))
			return nil, extractor.NewRateLimitError("remote", baseErr, retryAfter)
		}
		return nil, baseErr
	}

	var parsed extractResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return nil, fmt.Errorf("unmarshaling response: %w", err)
	}
	if len(parsed.Fields) == 0 {
		return nil, fmt.Errorf("extraction API returned no fields")
	}

	return &port.ExtractOutput{
		DocumentType: parsed.DocumentType,
		Fields:       parsed.Fields,
		Confidence:   parsed.Confidence,
		ProviderUsed: "remote",
	}, nil
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
