package request

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"github.com/anzhiyu-c/anheyu-cli/internal/shared"
	"github.com/charmbracelet/log"
	"golang.org/x/oauth2"
	"golang.org/x/time/rate"
)

const defaultBaseURL string = "http://127.0.0.1:8091/api"

// APIError is returned for non-2xx responses and for envelopes carrying a failure code.
type APIError struct {
	StatusCode int
	Code       int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api error (status %d, code %d): %s", e.StatusCode, e.Code, e.Message)
	}
	return fmt.Sprintf("api error: status %d", e.StatusCode)
}

func (e *APIError) Unwrap() error { return shared.ErrAPIRequest }

// IsStatus reports whether err is an [APIError] with the given HTTP status.
func IsStatus(err error, status int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == status
}

// envelope is the backend's uniform response wrapper.
type envelope struct {
	Code    *int            `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// File is a single part of a multipart upload.
type File struct {
	Name   string
	Reader io.Reader
}

// Options configures a [Client].
type Options struct {
	BaseURL    string
	Token      string
	Timeout    time.Duration
	RateLimit  float64 // requests per second, 0 disables throttling
	HTTPClient *http.Client
	Logger     *log.Logger
}

// Client performs requests against the anheyu backend.
type Client struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *log.Logger
}

// New creates a [Client]. A non-empty token is sent as a bearer token through an [oauth2.Transport].
func New(opts Options) *Client {
	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: opts.Timeout}
	}

	if opts.Token != "" {
		src := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: opts.Token, TokenType: "Bearer"})
		httpClient = &http.Client{
			Timeout:   httpClient.Timeout,
			Transport: &oauth2.Transport{Source: src, Base: httpClient.Transport},
		}
	}

	logger := opts.Logger
	if logger == nil {
		logger = shared.NewLogger(io.Discard)
	}

	c := &Client{baseURL: baseURL, httpClient: httpClient, logger: logger}
	if opts.RateLimit > 0 {
		c.limiter = rate.NewLimiter(rate.Limit(opts.RateLimit), 1)
	}
	return c
}

// BaseURL returns the base URL requests are resolved against.
func (c *Client) BaseURL() string { return c.baseURL }

// Get performs a GET request with the given query and decodes the response into result.
func (c *Client) Get(ctx context.Context, path string, query url.Values, result any) error {
	return c.doJSON(ctx, http.MethodGet, path, query, nil, result)
}

// Post sends body as JSON and decodes the response into result.
func (c *Client) Post(ctx context.Context, path string, body, result any) error {
	return c.doJSON(ctx, http.MethodPost, path, nil, body, result)
}

// Put sends body as JSON with the given query and decodes the response into result.
func (c *Client) Put(ctx context.Context, path string, query url.Values, body, result any) error {
	return c.doJSON(ctx, http.MethodPut, path, query, body, result)
}

// Delete performs a DELETE request, optionally with a JSON body.
func (c *Client) Delete(ctx context.Context, path string, body, result any) error {
	return c.doJSON(ctx, http.MethodDelete, path, nil, body, result)
}

// Upload posts files as a multipart form under field, with extra form values.
func (c *Client) Upload(ctx context.Context, path, field string, files []File, fields map[string]string, result any) error {
	if len(files) == 0 {
		return fmt.Errorf("%w: no files to upload", shared.ErrInvalidInput)
	}

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			return fmt.Errorf("failed to write form field: %w", err)
		}
	}

	for _, f := range files {
		part, err := mw.CreateFormFile(field, filepath.Base(f.Name))
		if err != nil {
			return fmt.Errorf("failed to create form file: %w", err)
		}
		if _, err := io.Copy(part, f.Reader); err != nil {
			return fmt.Errorf("failed to copy %s: %w", f.Name, err)
		}
	}

	if err := mw.Close(); err != nil {
		return fmt.Errorf("failed to finalize multipart body: %w", err)
	}

	req, err := c.newRequest(ctx, http.MethodPost, path, nil, &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	return c.do(req, result)
}

// Download streams the raw response body for path into w and returns the number of bytes written.
func (c *Client) Download(ctx context.Context, path string, query url.Values, w io.Writer) (int64, error) {
	req, err := c.newRequest(ctx, http.MethodGet, path, query, nil)
	if err != nil {
		return 0, err
	}

	resp, err := c.send(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		return 0, statusError(resp.StatusCode, body)
	}

	n, err := io.Copy(w, resp.Body)
	if err != nil {
		return n, fmt.Errorf("failed to read response: %w", err)
	}
	return n, nil
}

func (c *Client) doJSON(ctx context.Context, method, path string, query url.Values, body, result any) error {
	var r io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		r = bytes.NewReader(data)
	}

	req, err := c.newRequest(ctx, method, path, query, r)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return c.do(req, result)
}

// resolve joins path onto the base URL. Absolute URLs are used as-is.
func (c *Client) resolve(path string, query url.Values) string {
	target := path
	if !strings.HasPrefix(path, "http://") && !strings.HasPrefix(path, "https://") {
		target = c.baseURL + "/" + strings.TrimLeft(path, "/")
	}
	if len(query) > 0 {
		sep := "?"
		if strings.Contains(target, "?") {
			sep = "&"
		}
		target += sep + query.Encode()
	}
	return target
}

func (c *Client) newRequest(ctx context.Context, method, path string, query url.Values, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.resolve(path, query), body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", shared.GenerateID())
	return req, nil
}

func (c *Client) send(req *http.Request) (*http.Response, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(req.Context()); err != nil {
			return nil, fmt.Errorf("rate limiter: %w", err)
		}
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}

	c.logger.Debug("request", "method", req.Method, "url", req.URL.String(), "status", resp.StatusCode, "elapsed", time.Since(start))
	return resp, nil
}

func (c *Client) do(req *http.Request, result any) error {
	resp, err := c.send(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return statusError(resp.StatusCode, body)
	}

	return decode(resp.StatusCode, body, result)
}

// decode unwraps an envelope when present, otherwise decodes body directly.
func decode(status int, body []byte, result any) error {
	var env envelope
	if err := json.Unmarshal(body, &env); err == nil && env.Code != nil {
		if code := *env.Code; code != 0 && (code < 200 || code >= 300) {
			return &APIError{StatusCode: status, Code: code, Message: env.Message}
		}
		if result == nil || len(env.Data) == 0 || string(env.Data) == "null" {
			return nil
		}
		if err := json.Unmarshal(env.Data, result); err != nil {
			return fmt.Errorf("%w: %v", shared.ErrDecodeResponse, err)
		}
		return nil
	}

	if result == nil || len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, result); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrDecodeResponse, err)
	}
	return nil
}

func statusError(status int, body []byte) error {
	apiErr := &APIError{StatusCode: status, Code: status}

	var env envelope
	if err := json.Unmarshal(body, &env); err == nil {
		if env.Code != nil {
			apiErr.Code = *env.Code
		}
		apiErr.Message = env.Message
	}
	return apiErr
}
