package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
)

// DefaultBaseURL is the production backend.
const DefaultBaseURL = "https://cms.mysolutionlending.com/api"

// Client is the generic JSON transport shared by the session helpers.
type Client struct {
	BaseURL string
	HTTP    *http.Client
}

func NewClient(baseURL string, httpClient *http.Client) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		HTTP:    httpClient,
	}
}

// FetchOptions describes one JSON request.
type FetchOptions struct {
	Method  string
	URL     string // absolute, or a path relative to BaseURL
	Body    any
	Headers map[string]string
}

// Fetch sends a JSON request and decodes the response into out (which may be
// nil). Content-Type defaults to application/json; Headers override it.
func (c *Client) Fetch(ctx context.Context, opts FetchOptions, out any) error {
	var body io.Reader
	if opts.Body != nil {
		payload, err := json.Marshal(opts.Body)
		if err != nil {
			return err
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, opts.Method, c.resolve(opts.URL), body)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range opts.Headers {
		req.Header.Set(k, v)
	}

	res, err := c.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if err := CheckResponse(res); err != nil {
		return err
	}
	if out == nil {
		_, err = io.Copy(io.Discard, res.Body)
		return err
	}
	return json.NewDecoder(res.Body).Decode(out)
}

func (c *Client) resolve(url string) string {
	if strings.HasPrefix(url, "http://") || strings.HasPrefix(url, "https://") {
		return url
	}
	return c.BaseURL + "/" + strings.TrimPrefix(url, "/")
}
