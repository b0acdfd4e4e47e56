package taxjar

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

const (
	// DefaultAPIURL is the production endpoint.
	DefaultAPIURL = "https://api.taxjar.com/v2/"
	// SandboxAPIURL is the sandbox endpoint for test credentials.
	SandboxAPIURL = "https://api.sandbox.taxjar.com/v2/"

	// APIKeyEnv is consulted when NewClient receives a blank key.
	APIKeyEnv = "TAXJAR_API_KEY"

	defaultUserAgent = "taxjar-go/1.0"
)

// Doer executes HTTP requests. *http.Client satisfies it.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client is a TaxJar API client. It is safe for concurrent use.
type Client struct {
	apiKey     string
	apiURL     string
	userAgent  string
	httpClient Doer
	logger     zerolog.Logger
}

// Operation is one logical API call.
type Operation struct {
	Method string
	Path   string
	// Params is sent as the JSON body when non-nil. On GET it is also
	// flattened into the query string if it implements QueryParams.
	Params any
}

// RawResponse is the status and textual payload of one HTTP exchange.
type RawResponse struct {
	StatusCode int
	Body       string
}

// NewClient creates a new TaxJar client. A blank apiKey falls back to the
// TAXJAR_API_KEY environment variable.
func NewClient(apiKey string, logger zerolog.Logger, opts ...Option) (*Client, error) {
	if strings.TrimSpace(apiKey) == "" {
		apiKey = os.Getenv(APIKeyEnv)
	}
	if strings.TrimSpace(apiKey) == "" {
		return nil, ErrMissingAPIKey
	}

	client := &Client{
		apiKey:    apiKey,
		apiURL:    DefaultAPIURL,
		userAgent: defaultUserAgent,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: logger,
	}

	for _, opt := range opts {
		if err := opt(client); err != nil {
			return nil, fmt.Errorf("invalid client option: %w", err)
		}
	}

	return client, nil
}

// APIURL returns the base URL requests are sent to
func (c *Client) APIURL() string {
	return c.apiURL
}

// newRequest builds an authenticated request for op.
func (c *Client) newRequest(ctx context.Context, op Operation) (*http.Request, error) {
	var body io.Reader
	if op.Params != nil {
		payload, err := json.Marshal(op.Params)
		if err != nil {
			return nil, fmt.Errorf("failed to encode parameters: %w", err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, op.Method, c.apiURL+strings.TrimLeft(op.Path, "/"), body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	// GET keeps the JSON body as well; the service ignores it.
	if op.Method == http.MethodGet {
		if qp, ok := op.Params.(QueryParams); ok {
			if values := qp.Query(); len(values) > 0 {
				req.URL.RawQuery = values.Encode()
			}
		}
	}

	return req, nil
}

// dispatch performs a single HTTP exchange.
func (c *Client) dispatch(req *http.Request) (*RawResponse, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	c.logger.Debug().
		Str("method", req.Method).
		Str("path", req.URL.Path).
		Int("status", resp.StatusCode).
		Msg("TaxJar API request completed")

	return &RawResponse{StatusCode: resp.StatusCode, Body: string(body)}, nil
}

// Execute sends req and blocks until the response has been read.
func (c *Client) Execute(req *http.Request) (*RawResponse, error) {
	return run(req.Context(), Blocking, func(context.Context) (*RawResponse, error) {
		return c.dispatch(req)
	}).Await(req.Context())
}

// ExecuteAsync sends req on its own goroutine.
func (c *Client) ExecuteAsync(req *http.Request) *Future[*RawResponse] {
	return run(req.Context(), Suspending, func(context.Context) (*RawResponse, error) {
		return c.dispatch(req)
	})
}

// Classify turns a raw response into its body or a typed service error.
func Classify(resp *RawResponse) (string, error) {
	if resp.StatusCode < http.StatusBadRequest {
		return resp.Body, nil
	}

	var serviceErr ServiceError
	if err := json.Unmarshal([]byte(resp.Body), &serviceErr); err != nil {
		return "", &MalformedErrorPayloadError{StatusCode: resp.StatusCode, Body: resp.Body, Err: err}
	}
	if serviceErr.Error == "" && serviceErr.Detail == "" {
		return "", &MalformedErrorPayloadError{StatusCode: resp.StatusCode, Body: resp.Body}
	}

	return "", &APIError{StatusCode: resp.StatusCode, Err: serviceErr}
}

// send builds, dispatches and classifies op.
func (c *Client) send(ctx context.Context, op Operation) (string, error) {
	req, err := c.newRequest(ctx, op)
	if err != nil {
		return "", err
	}

	raw, err := c.dispatch(req)
	if err != nil {
		return "", err
	}

	// A cancelled call is never classified.
	if err := ctx.Err(); err != nil {
		return "", err
	}

	return Classify(raw)
}

// SendRequest runs op and returns the successful response body.
func (c *Client) SendRequest(ctx context.Context, op Operation) (string, error) {
	return run(ctx, Blocking, func(ctx context.Context) (string, error) {
		return c.send(ctx, op)
	}).Await(ctx)
}

// SendRequestAsync runs op on its own goroutine.
func (c *Client) SendRequestAsync(ctx context.Context, op Operation) *Future[string] {
	return run(ctx, Suspending, func(ctx context.Context) (string, error) {
		return c.send(ctx, op)
	})
}

// call runs op under s and unwraps the envelope E into T.
func call[E any, T any](ctx context.Context, c *Client, s Strategy, op Operation, unwrap func(*E) T) *Future[T] {
	return run(ctx, s, func(ctx context.Context) (T, error) {
		var zero T

		body, err := c.send(ctx, op)
		if err != nil {
			return zero, err
		}

		var envelope E
		if err := json.Unmarshal([]byte(body), &envelope); err != nil {
			return zero, fmt.Errorf("%w: %s %s: %v", ErrInvalidResponse, op.Method, op.Path, err)
		}

		return unwrap(&envelope), nil
	})
}

// fail returns an already resolved Future carrying err.
func fail[T any](err error) *Future[T] {
	f := newFuture[T]()
	var zero T
	f.resolve(zero, err)
	return f
}
