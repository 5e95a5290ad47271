package nlp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// RemoteAnalyzer calls an HTTP linguistic service (a spaCy sidecar exposing
// POST /analyze {"text": "..."} -> [{"texto","lema","pos","tag","dependencia"}]).
type RemoteAnalyzer struct {
	baseURL string
	client  *http.Client
}

type analyzeRequest struct {
	Text string `json:"text"`
}

type analyzeResponse struct {
	Tokens []TokenRecord `json:"tokens"`
	Error  *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

func NewRemoteAnalyzer(baseURL string, timeout time.Duration) *RemoteAnalyzer {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &RemoteAnalyzer{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

func (a *RemoteAnalyzer) Available() bool { return a.baseURL != "" }

func (a *RemoteAnalyzer) Analyze(ctx context.Context, text string) ([]TokenRecord, error) {
	if !a.Available() {
		return nil, ErrAnalyzerUnavailable
	}

	body, err := json.Marshal(analyzeRequest{Text: text})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+"/analyze", bytes.NewBuffer(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("analyzer request failed: %w", err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("analyzer error (status %d): %s", resp.StatusCode, string(bodyBytes))
	}

	var out analyzeResponse
	if err := json.Unmarshal(bodyBytes, &out); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	if out.Error != nil {
		return nil, fmt.Errorf("analyzer returned error: %s", out.Error.Message)
	}

	return out.Tokens, nil
}

// FallbackAnalyzer tries the primary analyzer and falls back to the secondary on error
type FallbackAnalyzer struct {
	Primary   Analyzer
	Secondary Analyzer
}

func (f *FallbackAnalyzer) Available() bool {
	return (f.Primary != nil && f.Primary.Available()) || (f.Secondary != nil && f.Secondary.Available())
}

func (f *FallbackAnalyzer) Analyze(ctx context.Context, text string) ([]TokenRecord, error) {
	if f.Primary != nil && f.Primary.Available() {
		records, err := f.Primary.Analyze(ctx, text)
		if err == nil {
			return records, nil
		}
		if f.Secondary == nil {
			return nil, err
		}
	}
	if f.Secondary == nil {
		return nil, ErrAnalyzerUnavailable
	}
	return f.Secondary.Analyze(ctx, text)
}
