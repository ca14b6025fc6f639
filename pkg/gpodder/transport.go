package gpodder

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// Param is a single query string parameter. Parameters are passed as a
// slice so the order supplied by the caller is preserved in the encoded
// query; url.Values would sort them.
type Param struct {
	Key   string
	Value string
}

// do makes one HTTP request to the gpodder.net API.
//
// It handles:
// - Request construction with Basic auth and User-Agent headers
// - Query string encoding in caller-supplied order
// - JSON request bodies and response decoding
// - Context cancellation
//
// It performs no retries and no status-code branching: a non-2xx response
// is returned verbatim as a *StatusError, everything else is wrapped and
// surfaced immediately.
func (c *Client) do(ctx context.Context, method, path string, params []Param, body, out interface{}) error {
	requestURL := c.baseURL + path
	if len(params) > 0 {
		requestURL += "?" + encodeParams(params)
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("gpodder: failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, requestURL, reader)
	if err != nil {
		return fmt.Errorf("gpodder: failed to create request: %w", err)
	}

	req.SetBasicAuth(c.username, c.password)
	req.Header.Set("User-Agent", userAgent)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	c.logDebugf("gpodder: %s %s", method, path)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("gpodder: http request failed: %w", err)
	}

	data, err := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if err != nil {
		return fmt.Errorf("gpodder: failed to read response: %w", err)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return &StatusError{
			Method:     method,
			Path:       path,
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
		}
	}

	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("gpodder: failed to decode response: %w", err)
		}
	}

	c.logDebugf("gpodder: %s %s succeeded (%d)", method, path, resp.StatusCode)
	return nil
}

func (c *Client) get(ctx context.Context, path string, out interface{}) error {
	return c.do(ctx, http.MethodGet, path, nil, nil, out)
}

func (c *Client) getWithQuery(ctx context.Context, path string, params []Param, out interface{}) error {
	return c.do(ctx, http.MethodGet, path, params, nil, out)
}

func (c *Client) put(ctx context.Context, path string, body, out interface{}) error {
	return c.do(ctx, http.MethodPut, path, nil, body, out)
}

func (c *Client) post(ctx context.Context, path string, body, out interface{}) error {
	return c.do(ctx, http.MethodPost, path, nil, body, out)
}

// encodeParams encodes query parameters preserving their order.
func encodeParams(params []Param) string {
	var b strings.Builder
	for i, p := range params {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(p.Key))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(p.Value))
	}
	return b.String()
}
