// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package backend is the HTTP client for the headless CMS REST API.
// It speaks the backend's JSON envelope conventions ({data, meta} for
// lists, {data} for single records), attaches the bearer token, and
// normalizes error responses into sentinel errors with human-readable
// messages so UI layers never inspect raw status codes.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
	"time"

	"dashpress/internal/metrics"
)

// tokenKey is the context key carrying the per-request bearer token.
type tokenKey struct{}

// ContextWithToken returns a context carrying the session's bearer token.
// The client reads it on every request unless preview mode pins a fixed
// token instead.
func ContextWithToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, tokenKey{}, token)
}

// TokenFromContext extracts the bearer token placed by ContextWithToken.
func TokenFromContext(ctx context.Context) string {
	tok, _ := ctx.Value(tokenKey{}).(string)
	return tok
}

// Client issues authenticated requests against the backend API.
type Client struct {
	baseURL      string
	httpClient   *http.Client
	previewToken string // non-empty only in preview mode
}

// New creates a backend client. previewToken is empty outside preview
// mode; when set it overrides any session token, letting local
// development run without a real login flow.
func New(baseURL, previewToken string) *Client {
	return &Client{
		baseURL:      strings.TrimRight(baseURL, "/"),
		httpClient:   &http.Client{Timeout: 30 * time.Second},
		previewToken: previewToken,
	}
}

// NewWithHTTPClient is New with an injectable *http.Client, used by tests.
func NewWithHTTPClient(baseURL, previewToken string, hc *http.Client) *Client {
	c := New(baseURL, previewToken)
	c.httpClient = hc
	return c
}

// Pagination is the backend's list pagination metadata.
type Pagination struct {
	Page      int `json:"page"`
	PageSize  int `json:"pageSize"`
	PageCount int `json:"pageCount"`
	Total     int `json:"total"`
}

// listEnvelope is the backend's list response shape.
type listEnvelope struct {
	Data json.RawMessage `json:"data"`
	Meta struct {
		Pagination Pagination `json:"pagination"`
	} `json:"meta"`
}

// itemEnvelope is the backend's single-record response shape.
type itemEnvelope struct {
	Data json.RawMessage `json:"data"`
}

// List fetches a page of resources from path with the given query.
func List[T any](ctx context.Context, c *Client, path string, q *Query) ([]T, Pagination, error) {
	body, err := c.do(ctx, http.MethodGet, path+"?"+q.Encode(), nil)
	if err != nil {
		return nil, Pagination{}, err
	}

	var env listEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, Pagination{}, fmt.Errorf("backend: decode list %s: %w", path, err)
	}

	var items []T
	if len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, &items); err != nil {
			return nil, Pagination{}, fmt.Errorf("backend: decode list items %s: %w", path, err)
		}
	}
	return items, env.Meta.Pagination, nil
}

// Get fetches a single resource by id (or documentId).
func Get[T any](ctx context.Context, c *Client, path string, q *Query) (*T, error) {
	url := path
	if enc := q.Encode(); enc != "" {
		url += "?" + enc
	}
	body, err := c.do(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	return decodeItem[T](path, body)
}

// Create posts a new resource wrapped in the backend's {data} envelope.
func Create[T any](ctx context.Context, c *Client, path string, payload any) (*T, error) {
	body, err := c.do(ctx, http.MethodPost, path, map[string]any{"data": payload})
	if err != nil {
		return nil, err
	}
	return decodeItem[T](path, body)
}

// Update replaces a resource's attributes.
func Update[T any](ctx context.Context, c *Client, path string, payload any) (*T, error) {
	body, err := c.do(ctx, http.MethodPut, path, map[string]any{"data": payload})
	if err != nil {
		return nil, err
	}
	return decodeItem[T](path, body)
}

// Delete removes a resource.
func (c *Client) Delete(ctx context.Context, path string) error {
	_, err := c.do(ctx, http.MethodDelete, path, nil)
	return err
}

// GetJSON fetches a resource that is not wrapped in the {data}
// envelope (the users-permissions endpoints).
func (c *Client) GetJSON(ctx context.Context, path string, out any) error {
	body, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("backend: decode %s: %w", path, err)
	}
	return nil
}

// Post issues a bare POST without the {data} envelope (auth endpoints).
func (c *Client) Post(ctx context.Context, path string, payload any, out any) error {
	body, err := c.do(ctx, http.MethodPost, path, payload)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("backend: decode %s: %w", path, err)
	}
	return nil
}

func decodeItem[T any](path string, body []byte) (*T, error) {
	var env itemEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("backend: decode %s: %w", path, err)
	}
	if len(env.Data) == 0 || string(env.Data) == "null" {
		return nil, ErrNotFound
	}
	var item T
	if err := json.Unmarshal(env.Data, &item); err != nil {
		return nil, fmt.Errorf("backend: decode item %s: %w", path, err)
	}
	return &item, nil
}

// Upload posts one file as multipart form data to the backend's upload
// endpoint and returns the raw response body for the caller to decode.
func (c *Client) Upload(ctx context.Context, path, filename, contentType string, file io.Reader) ([]byte, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	hdr := textproto.MIMEHeader{}
	hdr.Set("Content-Disposition", fmt.Sprintf(`form-data; name="files"; filename=%q`, filename))
	hdr.Set("Content-Type", contentType)
	part, err := mw.CreatePart(hdr)
	if err != nil {
		return nil, fmt.Errorf("backend: multipart part: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return nil, fmt.Errorf("backend: copy upload: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("backend: close multipart: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, &buf)
	if err != nil {
		return nil, fmt.Errorf("backend: build upload request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Accept", "application/json")

	token := c.previewToken
	if token == "" {
		token = TokenFromContext(ctx)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("backend: upload: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 10<<20))
	if err != nil {
		return nil, fmt.Errorf("backend: read upload response: %w", err)
	}
	if resp.StatusCode >= 400 {
		var apiErr apiErrorBody
		_ = json.Unmarshal(body, &apiErr)
		return nil, normalizeError(resp.StatusCode, apiErr)
	}
	return body, nil
}

// do performs the HTTP round-trip, attaches the bearer token, and maps
// non-2xx responses through normalizeError.
func (c *Client) do(ctx context.Context, method, path string, payload any) ([]byte, error) {
	var reqBody io.Reader
	if payload != nil {
		buf, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("backend: marshal request: %w", err)
		}
		reqBody = bytes.NewReader(buf)
	}

	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return nil, fmt.Errorf("backend: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	token := c.previewToken
	if token == "" {
		token = TokenFromContext(ctx)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.BackendRequestsTotal.WithLabelValues(method, "transport_error").Inc()
		return nil, fmt.Errorf("backend: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 10<<20))
	if err != nil {
		return nil, fmt.Errorf("backend: read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		metrics.BackendRequestsTotal.WithLabelValues(method, "error").Inc()
		var apiErr apiErrorBody
		// A non-JSON error body falls through with zero values.
		_ = json.Unmarshal(body, &apiErr)
		err := normalizeError(resp.StatusCode, apiErr)
		slog.Debug("backend request failed",
			"method", method,
			"path", path,
			"status", resp.StatusCode,
			"error", err,
		)
		return nil, err
	}

	metrics.BackendRequestsTotal.WithLabelValues(method, "ok").Inc()
	return body, nil
}
