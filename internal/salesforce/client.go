package salesforce

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/dbsmedya/sfnav/internal/config"
	"github.com/dbsmedya/sfnav/internal/records"
)

// Client talks to one Salesforce org over the REST API. It is safe for the
// single-threaded session model: one command's round-trips complete before
// the next command starts.
type Client struct {
	config     *config.SalesforceConfig
	httpClient *http.Client

	accessToken string
	instanceURL string
}

// NewClient creates a client from configuration. The client must be
// connected with Connect() before use.
func NewClient(cfg *config.SalesforceConfig) (*Client, error) {
	if cfg == nil {
		return nil, fmt.Errorf("salesforce config is nil")
	}
	return &Client{
		config: cfg,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}, nil
}

// Connect authenticates against the org with exponential backoff. The JWT
// bearer flow is used when a client ID and private key are configured,
// otherwise the username-password flow.
func (c *Client) Connect(ctx context.Context) error {
	var auth *authResult
	var err error

	maxRetries := 3
	backoff := time.Second

	for i := 0; i < maxRetries; i++ {
		auth, err = c.login(ctx)
		if err == nil {
			c.accessToken = auth.AccessToken
			c.instanceURL = auth.InstanceURL
			return nil
		}

		if i < maxRetries-1 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff):
				backoff *= 2 // Exponential backoff
			}
		}
	}

	return fmt.Errorf("failed after %d retries: %w", maxRetries, err)
}

func (c *Client) login(ctx context.Context) (*authResult, error) {
	if c.config.ClientID != "" && c.config.PrivateKey != "" {
		return jwtLogin(ctx, c.httpClient, c.config)
	}
	return soapLogin(ctx, c.httpClient, c.config)
}

// InstanceURL returns the org's instance URL once connected. Rendering uses
// it to build clickable record links.
func (c *Client) InstanceURL() string {
	return c.instanceURL
}

// restPath builds an absolute REST API URL for the configured API version.
func (c *Client) restPath(parts ...string) string {
	p := c.instanceURL + "/services/data/v" + c.config.APIVersion
	for _, part := range parts {
		p += "/" + part
	}
	return p
}

// do executes an authenticated request and decodes the JSON response into
// out (when out is non-nil). Non-2xx responses are returned as *APIError.
func (c *Client) do(ctx context.Context, method, rawURL string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, rawURL, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.accessToken)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return parseAPIError(resp)
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}

	if err := decodeJSON(resp.Body, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// parseAPIError extracts the first error entry of a Salesforce error body.
func parseAPIError(resp *http.Response) error {
	apiErr := &APIError{StatusCode: resp.StatusCode}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		apiErr.Message = fmt.Sprintf("status %d", resp.StatusCode)
		return apiErr
	}

	var entries []APIError
	if err := json.Unmarshal(raw, &entries); err == nil && len(entries) > 0 {
		apiErr.Code = entries[0].Code
		apiErr.Message = entries[0].Message
		return apiErr
	}

	apiErr.Message = string(raw)
	return apiErr
}

// decodeJSON decodes with UseNumber so numeric field values keep their
// integer/decimal shape instead of collapsing to float64.
func decodeJSON(r io.Reader, out interface{}) error {
	dec := json.NewDecoder(r)
	dec.UseNumber()
	return dec.Decode(out)
}

// Query executes a SOQL query and returns the full result envelope,
// including the accurate total size.
func (c *Client) Query(ctx context.Context, soql string) (*QueryResult, error) {
	u := c.restPath("query") + "?q=" + url.QueryEscape(soql)

	var result QueryResult
	if err := c.do(ctx, http.MethodGet, u, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Search executes a SOSL search and returns the raw grouped results.
func (c *Client) Search(ctx context.Context, sosl string) (*SearchResult, error) {
	u := c.restPath("search") + "?q=" + url.QueryEscape(sosl)

	var result SearchResult
	if err := c.do(ctx, http.MethodGet, u, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// GetRecord fetches a record by ID with all its accessible fields.
func (c *Client) GetRecord(ctx context.Context, objectType, recordID string) (records.Record, error) {
	var rec records.Record
	if err := c.do(ctx, http.MethodGet, c.restPath("sobjects", objectType, recordID), nil, &rec); err != nil {
		return nil, fmt.Errorf("failed to get %s %s: %w", objectType, recordID, err)
	}
	return rec, nil
}

// UpdateRecord writes the given field values to a record. Salesforce
// answers 204 on success.
func (c *Client) UpdateRecord(ctx context.Context, objectType, recordID string, fields map[string]interface{}) error {
	u := c.restPath("sobjects", objectType, recordID)
	if err := c.do(ctx, http.MethodPatch, u, fields, nil); err != nil {
		return fmt.Errorf("failed to update record: %w", err)
	}
	return nil
}

// DescribeObject fetches the full metadata of an object type. Memoization
// lives in the metadata resolver, not here.
func (c *Client) DescribeObject(ctx context.Context, objectType string) (*ObjectDescribe, error) {
	var describe ObjectDescribe
	if err := c.do(ctx, http.MethodGet, c.restPath("sobjects", objectType, "describe"), nil, &describe); err != nil {
		return nil, fmt.Errorf("failed to describe %s: %w", objectType, err)
	}
	return &describe, nil
}

// DescribeGlobal fetches the org-wide object listing.
func (c *Client) DescribeGlobal(ctx context.Context) (*GlobalDescribe, error) {
	var describe GlobalDescribe
	if err := c.do(ctx, http.MethodGet, c.restPath("sobjects"), nil, &describe); err != nil {
		return nil, fmt.Errorf("failed to describe org: %w", err)
	}
	return &describe, nil
}

// ListObjects returns the org's object types, filtered to
// queryable+createable non-custom-setting objects unless showAll is set.
func (c *Client) ListObjects(ctx context.Context, showAll bool) ([]SObjectSummary, error) {
	describe, err := c.DescribeGlobal(ctx)
	if err != nil {
		return nil, err
	}

	var objects []SObjectSummary
	for _, obj := range describe.SObjects {
		if showAll || (!obj.CustomSetting && obj.Queryable && obj.Createable) {
			objects = append(objects, obj)
		}
	}
	return objects, nil
}
