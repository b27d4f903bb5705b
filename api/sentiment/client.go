// Package sentiment calls the aspect-based sentiment service used to tag
// comments.
package sentiment

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// ErrNotConfigured is returned by Analyze when no service URL is set.
var ErrNotConfigured = errors.New("sentiment service not configured")

// Aspect is one tagged aspect of a text, e.g. {"food", "positive"}.
type Aspect struct {
	Aspect    string `json:"aspect"`
	Sentiment string `json:"sentiment"`
}

type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient returns a client for the service at baseURL. The model behind it
// is slow, so the default timeout is generous.
func NewClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 60 * time.Second}
	}
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), httpClient: httpClient}
}

type analyzeRequest struct {
	Text string `json:"text"`
}

type analyzeResponse struct {
	Results []Aspect `json:"results"`
}

func (c *Client) Analyze(ctx context.Context, text string) ([]Aspect, error) {
	if c == nil || c.baseURL == "" {
		return nil, ErrNotConfigured
	}

	body, err := json.Marshal(analyzeRequest{Text: text})
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/analyze", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("sentiment: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("sentiment: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("sentiment: unexpected http status %d", resp.StatusCode)
	}

	var out analyzeResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("sentiment: decode: %w", err)
	}

	aspects := make([]Aspect, 0, len(out.Results))
	for _, a := range out.Results {
		a.Aspect = strings.TrimSpace(a.Aspect)
		a.Sentiment = strings.ToLower(strings.TrimSpace(a.Sentiment))
		if a.Aspect == "" {
			continue
		}
		aspects = append(aspects, a)
	}
	return aspects, nil
}
