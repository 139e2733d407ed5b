package bitbucket

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"slices"
	"strings"

	logger "github.com/sirupsen/logrus"

	"github.com/Ulis123/bitbucket-auto-pull-request/internal/domain/entities"
)

// Client is a thin HTTP client for the Bitbucket Cloud REST API 2.0.
// It authenticates every request and flattens error payloads into *APIError.
type Client struct {
	baseURL     string
	credentials entities.Credentials
	httpClient  *http.Client
}

// NewClient creates a new Bitbucket HTTP client. The baseURL is the API root
// (e.g., https://api.bitbucket.org/2.0).
func NewClient(baseURL string, credentials entities.Credentials, httpClient *http.Client) *Client {
	if baseURL == "" {
		baseURL = entities.DefaultBitbucketBaseURL
	}
	return &Client{
		baseURL:     strings.TrimRight(baseURL, "/"),
		credentials: credentials,
		httpClient:  httpClient,
	}
}

// Get performs an HTTP GET request and unmarshals the JSON response.
// An absolute URL, such as a page's "next" link, is requested as is.
func (c *Client) Get(ctx context.Context, path string, result any) error {
	body, err := c.send(ctx, http.MethodGet, path, "", nil)
	if err != nil {
		return err
	}
	return decode(body, result)
}

// GetRaw performs an HTTP GET request and returns the response body untouched.
func (c *Client) GetRaw(ctx context.Context, path string) ([]byte, error) {
	return c.send(ctx, http.MethodGet, path, "", nil)
}

// Post performs an HTTP POST request with a JSON body and unmarshals the JSON response.
func (c *Client) Post(ctx context.Context, path string, body, result any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshaling request body: %w", err)
	}
	respBody, err := c.send(ctx, http.MethodPost, path, "application/json", bytes.NewReader(data))
	if err != nil {
		return err
	}
	return decode(respBody, result)
}

// PostForm performs an HTTP POST request with an already encoded form body.
func (c *Client) PostForm(ctx context.Context, path, contentType string, body io.Reader) error {
	_, err := c.send(ctx, http.MethodPost, path, contentType, body)
	return err
}

func (c *Client) send(
	ctx context.Context,
	method, path, contentType string,
	body io.Reader,
) ([]byte, error) {
	url := path
	if !strings.HasPrefix(path, "http://") && !strings.HasPrefix(path, "https://") {
		url = c.baseURL + path
	}

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	c.authorize(req)
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("executing request %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}
	logger.Debugf("Bitbucket %s %s returned %d", method, path, resp.StatusCode)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, newAPIError(resp.StatusCode, respBody)
	}
	return respBody, nil
}

func (c *Client) authorize(req *http.Request) {
	switch c.credentials.Kind {
	case entities.AuthToken:
		req.Header.Set("Authorization", "Bearer "+c.credentials.Token)
	case entities.AuthBasic:
		req.SetBasicAuth(c.credentials.Username, c.credentials.Password)
	}
}

func decode(body []byte, result any) error {
	if result == nil || len(body) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, result); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}

func newAPIError(statusCode int, body []byte) *APIError {
	apiErr := &APIError{StatusCode: statusCode}

	var payload ErrorResponse
	if json.Unmarshal(body, &payload) == nil && payload.Error.Message != "" {
		apiErr.Message = payload.Error.Message
		switch detail := payload.Error.Detail.(type) {
		case nil:
		case string:
			apiErr.Detail = detail
		default:
			if encoded, err := json.Marshal(detail); err == nil {
				apiErr.Detail = string(encoded)
			}
		}
		if apiErr.Detail == "" && len(payload.Error.Fields) > 0 {
			if encoded, err := json.Marshal(payload.Error.Fields); err == nil {
				apiErr.Detail = string(encoded)
			}
		}
		return apiErr
	}

	apiErr.Message = http.StatusText(statusCode)
	if text := strings.TrimSpace(string(body)); text != "" && len(text) < 512 { //nolint:mnd // keep HTML error pages out
		apiErr.Detail = text
	}
	if apiErr.Message == "" {
		apiErr.Message = fmt.Sprintf("unexpected status %d", statusCode)
	}
	return apiErr
}

// IsStatus reports whether err is an *APIError with one of the given status codes.
func IsStatus(err error, codes ...int) bool {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	return slices.Contains(codes, apiErr.StatusCode)
}
