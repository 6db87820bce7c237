package taxapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/storefront/backend/internal/domain/tax"
)

// maxResponseSize is the maximum allowed response size from the tax API (10MB)
const maxResponseSize = 10 * 1024 * 1024

// Client is the HTTP client for the tax validate and country-rate
// endpoints. It implements tax.ValidateClient and tax.CountriesClient.
type Client struct {
	config     *Config
	baseURL    string
	httpClient *http.Client
}

var (
	_ tax.ValidateClient  = (*Client)(nil)
	_ tax.CountriesClient = (*Client)(nil)
)

// NewClient creates a tax API client from the given configuration
func NewClient(config *Config) (*Client, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	timeout := config.TimeoutSeconds
	if timeout == 0 {
		timeout = DefaultTimeoutSeconds
	}
	return &Client{
		config:  config,
		baseURL: config.ResolveBaseURL(),
		httpClient: &http.Client{
			Timeout: time.Duration(timeout) * time.Second,
		},
	}, nil
}

// ValidateOrder submits the order's unit-line batch for tax validation
func (c *Client) ValidateOrder(ctx context.Context, req *tax.ValidateRequest) (*tax.ValidateResponse, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("taxapi: failed to encode validate request: %w", err)
	}

	body, err := c.doRequest(ctx, http.MethodPost, "/customerOrders/validate", payload, tax.ErrValidateUnavailable)
	if err != nil {
		return nil, err
	}

	var resp tax.ValidateResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("%w: %v", tax.ErrInvalidResponse, err)
	}
	return &resp, nil
}

// countriesEnvelope is the wire envelope of the countries endpoint
type countriesEnvelope struct {
	Result []tax.Country `json:"result"`
}

// Countries fetches the flat country/region maximum tax rate table
func (c *Client) Countries(ctx context.Context) ([]tax.Country, error) {
	body, err := c.doRequest(ctx, http.MethodGet, "/countries", nil, tax.ErrCountriesUnavailable)
	if err != nil {
		return nil, err
	}

	var envelope countriesEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("%w: %v", tax.ErrInvalidResponse, err)
	}
	return envelope.Result, nil
}

// doRequest performs one HTTP call and returns the raw body. Transport
// and HTTP-level failures wrap unavailableErr so callers can route to
// their fallback path.
func (c *Client) doRequest(ctx context.Context, method, path string, payload []byte, unavailableErr error) ([]byte, error) {
	var reqBody io.Reader
	if payload != nil {
		reqBody = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return nil, fmt.Errorf("taxapi: failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "apikey "+c.config.APIKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", unavailableErr, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("taxapi: failed to read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("%w: HTTP %d", unavailableErr, resp.StatusCode)
	}
	return body, nil
}
