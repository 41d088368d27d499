// Package bookstore is a thin client for the demo book store and account
// endpoints.
package bookstore

import (
	"context"
	"fmt"
	"strings"

	"github.com/abdul-hamid-achik/bookspec/packages/http"
	"github.com/abdul-hamid-achik/bookspec/packages/models"
	"github.com/tidwall/gjson"
)

const (
	// DefaultBaseURL is the public demo host.
	DefaultBaseURL = "https://demoqa.com"

	BooksPath         = "/BookStore/v1/Books"
	GenerateTokenPath = "/Account/v1/GenerateToken"
)

// RequestError is a 4xx answer carrying the API's {code, message} body.
type RequestError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *RequestError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("request rejected with status %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("request rejected with status %d (code %s): %s", e.StatusCode, e.Code, e.Message)
}

func requestError(resp *http.Response) *RequestError {
	doc := gjson.ParseBytes(resp.Body)
	msg := doc.Get("message").String()
	if msg == "" {
		msg = strings.TrimSpace(resp.BodyString())
	}
	return &RequestError{
		StatusCode: resp.StatusCode,
		Code:       doc.Get("code").String(),
		Message:    msg,
	}
}

type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(baseURL string, httpClient *http.Client) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if httpClient == nil {
		httpClient = http.NewClient()
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
	}
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

// URL joins path onto the base URL.
func (c *Client) URL(path string) string {
	return c.baseURL + path
}

// ListBooks sends GET /BookStore/v1/Books through filters.
func (c *Client) ListBooks(ctx context.Context, filters ...http.Filter) (*http.Response, error) {
	req := http.NewRequest("GET", c.URL(BooksPath)).AddFilter(filters...)
	return c.http.DoContext(ctx, req)
}

// GenerateToken posts creds as JSON to /Account/v1/GenerateToken. body may
// be a models.Credentials, a map, or a pre-encoded JSON string.
func (c *Client) GenerateToken(ctx context.Context, body any, filters ...http.Filter) (*http.Response, error) {
	req := http.NewRequest("POST", c.URL(GenerateTokenPath)).AddFilter(filters...)

	switch b := body.(type) {
	case string:
		req.SetHeader("Content-Type", "application/json")
		req.SetBody(b)
	default:
		if err := req.SetJSONBody(b); err != nil {
			return nil, err
		}
	}

	return c.http.DoContext(ctx, req)
}

// Books fetches and decodes the catalog.
func (c *Client) Books(ctx context.Context, filters ...http.Filter) (*models.Books, error) {
	resp, err := c.ListBooks(ctx, filters...)
	if err != nil {
		return nil, fmt.Errorf("listing books: %w", err)
	}
	if !resp.IsSuccess() {
		return nil, fmt.Errorf("listing books: unexpected status %d", resp.StatusCode)
	}
	return models.DecodeBooks(resp.Body)
}

// Authorize requests a token and decodes the answer. A rejected login is not
// an error; check AuthorisationResponse.Authorized. Missing credentials come
// back as a *RequestError.
func (c *Client) Authorize(ctx context.Context, creds models.Credentials, filters ...http.Filter) (*models.AuthorisationResponse, error) {
	resp, err := c.GenerateToken(ctx, creds, filters...)
	if err != nil {
		return nil, fmt.Errorf("generating token: %w", err)
	}
	if resp.IsClientError() {
		return nil, fmt.Errorf("generating token: %w", requestError(resp))
	}
	if !resp.IsSuccess() {
		return nil, fmt.Errorf("generating token: unexpected status %d: %s", resp.StatusCode, resp.BodyString())
	}
	return models.DecodeAuthorisationResponse(resp.Body)
}
