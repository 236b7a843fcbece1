// Package indexing provides the HTTP client of the indexing service, which
// also fronts the screening service.
//
// Every endpoint answers with a {"result": ...} envelope. Requests are
// throttled with a token bucket and, when client credentials are configured,
// authenticated with OAuth2.
package indexing

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/oauth2/clientcredentials"
	"golang.org/x/time/rate"
)

// Default configuration values.
const (
	DefaultBaseURL       = "http://localhost:3008"
	DefaultTimeout       = 60 * time.Second
	DefaultRatePerSecond = 20.0
	DefaultBurst         = 5
)

// Config holds configuration for the indexing client.
type Config struct {
	// BaseURL is the indexing API base URL (default: http://localhost:3008).
	BaseURL string

	// Timeout is the request timeout (default: 60s).
	Timeout time.Duration

	// RatePerSecond is the sustained request rate (default: 20).
	RatePerSecond float64

	// Burst is the maximum burst size (default: 5).
	Burst int

	// TokenURL, ClientID and ClientSecret enable OAuth2 client credentials
	// when all three are set.
	TokenURL     string
	ClientID     string
	ClientSecret string
}

// Client calls the indexing service.
type Client struct {
	client  *http.Client
	baseURL string
	limiter *rate.Limiter
}

// envelope is the response format of every endpoint.
type envelope struct {
	Result json.RawMessage `json:"result"`
}

// NewClient creates a new indexing client.
func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.RatePerSecond == 0 {
		cfg.RatePerSecond = DefaultRatePerSecond
	}
	if cfg.Burst == 0 {
		cfg.Burst = DefaultBurst
	}

	client := &http.Client{}
	if cfg.TokenURL != "" && cfg.ClientID != "" && cfg.ClientSecret != "" {
		credentials := clientcredentials.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			TokenURL:     cfg.TokenURL,
		}
		client = credentials.Client(context.Background())
	}
	client.Timeout = cfg.Timeout

	return &Client{
		client:  client,
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		limiter: rate.NewLimiter(rate.Limit(cfg.RatePerSecond), cfg.Burst),
	}
}

// call sends body to path and decodes the result into out. A nil body
// sends a GET request; a nil out discards the result.
func (c *Client) call(ctx context.Context, path string, body, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit: %w", err)
	}

	method := http.MethodGet
	var reader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		method = http.MethodPost
		reader = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, err := io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("indexing error on %s (status %d): failed to read response", path, resp.StatusCode)
		}
		return fmt.Errorf("indexing error on %s (status %d): %s", path, resp.StatusCode, strings.TrimSpace(string(respBody)))
	}

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	if out == nil || len(env.Result) == 0 {
		return nil
	}
	if err := json.Unmarshal(env.Result, out); err != nil {
		return fmt.Errorf("decode %s result: %w", path, err)
	}
	return nil
}
