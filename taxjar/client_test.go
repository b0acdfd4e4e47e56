package taxjar

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubDoer answers every request with a fixed response.
type stubDoer struct {
	status int
	body   string
	calls  atomic.Int32
	last   atomic.Pointer[http.Request]
}

func (d *stubDoer) Do(req *http.Request) (*http.Response, error) {
	d.calls.Add(1)
	d.last.Store(req)
	return &http.Response{
		StatusCode: d.status,
		Body:       io.NopCloser(strings.NewReader(d.body)),
		Header:     http.Header{"Content-Type": {"application/json"}},
	}, nil
}

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewClient("test-key", zerolog.Nop(), WithAPIURL(server.URL))
	require.NoError(t, err)
	return client
}

func TestNewClient(t *testing.T) {
	logger := zerolog.Nop()

	tests := []struct {
		name    string
		apiKey  string
		envKey  string
		opts    []Option
		wantKey string
		wantURL string
		wantErr error
	}{
		{
			name:    "explicit key",
			apiKey:  "abc",
			wantKey: "abc",
			wantURL: DefaultAPIURL,
		},
		{
			name:    "falls back to environment",
			apiKey:  "  ",
			envKey:  "from-env",
			wantKey: "from-env",
			wantURL: DefaultAPIURL,
		},
		{
			name:    "missing key",
			apiKey:  "",
			wantErr: ErrMissingAPIKey,
		},
		{
			name:    "sandbox url",
			apiKey:  "abc",
			opts:    []Option{WithAPIURL(SandboxAPIURL)},
			wantKey: "abc",
			wantURL: SandboxAPIURL,
		},
		{
			name:    "url without trailing slash",
			apiKey:  "abc",
			opts:    []Option{WithAPIURL("http://localhost:8080/v2")},
			wantKey: "abc",
			wantURL: "http://localhost:8080/v2/",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(APIKeyEnv, tt.envKey)

			client, err := NewClient(tt.apiKey, logger, tt.opts...)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, client)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantKey, client.apiKey)
			assert.Equal(t, tt.wantURL, client.APIURL())
		})
	}
}

func TestNewClientMissingKeyNeverDials(t *testing.T) {
	t.Setenv(APIKeyEnv, "")
	doer := &stubDoer{status: http.StatusOK, body: `{}`}

	_, err := NewClient("", zerolog.Nop(), WithHTTPClient(doer))
	require.ErrorIs(t, err, ErrMissingAPIKey)
	assert.Equal(t, int32(0), doer.calls.Load())
}

func TestNewClientInvalidOptions(t *testing.T) {
	_, err := NewClient("abc", zerolog.Nop(), WithAPIURL("not a url"))
	require.Error(t, err)

	_, err = NewClient("abc", zerolog.Nop(), WithHTTPClient(nil))
	require.Error(t, err)
}

func TestNewRequest(t *testing.T) {
	client, err := NewClient("secret", zerolog.Nop(), WithAPIURL("https://example.test/v2/"))
	require.NoError(t, err)
	ctx := context.Background()

	t.Run("GET with query params", func(t *testing.T) {
		params := &RateParams{Country: "US", City: "Beverly Hills", Street: "1 Main St"}
		req, err := client.newRequest(ctx, Operation{Method: http.MethodGet, Path: "rates/90210", Params: params})
		require.NoError(t, err)

		assert.Equal(t, "Bearer secret", req.Header.Get("Authorization"))
		assert.Equal(t, "application/json", req.Header.Get("Content-Type"))
		assert.Equal(t, "/v2/rates/90210", req.URL.Path)

		query := req.URL.Query()
		assert.Len(t, query, 3)
		assert.Equal(t, "US", query.Get("country"))
		assert.Equal(t, "Beverly Hills", query.Get("city"))
		assert.Equal(t, "1 Main St", query.Get("street"))

		// the JSON body is attached on GET too
		require.NotNil(t, req.Body)
		body, err := io.ReadAll(req.Body)
		require.NoError(t, err)
		assert.JSONEq(t, `{"country":"US","city":"Beverly Hills","street":"1 Main St"}`, string(body))
	})

	t.Run("GET without params", func(t *testing.T) {
		req, err := client.newRequest(ctx, Operation{Method: http.MethodGet, Path: "categories"})
		require.NoError(t, err)
		assert.Empty(t, req.URL.RawQuery)
		assert.Nil(t, req.Body)
		assert.Equal(t, "Bearer secret", req.Header.Get("Authorization"))
	})

	t.Run("non-GET never adds query params", func(t *testing.T) {
		for _, method := range []string{http.MethodPost, http.MethodPut, http.MethodDelete} {
			params := ValidateParams{VAT: "FR40303265045"}
			req, err := client.newRequest(ctx, Operation{Method: method, Path: "validation", Params: params})
			require.NoError(t, err)
			assert.Empty(t, req.URL.RawQuery, method)

			body, err := io.ReadAll(req.Body)
			require.NoError(t, err)
			assert.JSONEq(t, `{"vat":"FR40303265045"}`, string(body), method)
		}
	})

	t.Run("unencodable params", func(t *testing.T) {
		_, err := client.newRequest(ctx, Operation{Method: http.MethodPost, Path: "taxes", Params: make(chan int)})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to encode parameters")
	})
}

func TestClassify(t *testing.T) {
	t.Run("success returns body unchanged", func(t *testing.T) {
		for _, status := range []int{200, 201, 204, 301, 399} {
			body := `{"rate":{"zip":"90210"}}`
			got, err := Classify(&RawResponse{StatusCode: status, Body: body})
			require.NoError(t, err)
			assert.Equal(t, body, got)
		}
	})

	t.Run("service error", func(t *testing.T) {
		for _, status := range []int{400, 401, 404, 422, 429, 500, 503} {
			_, err := Classify(&RawResponse{
				StatusCode: status,
				Body:       `{"error":"not_found","detail":"no such order","status":404}`,
			})
			require.Error(t, err)

			var apiErr *APIError
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, status, apiErr.StatusCode)
			assert.Equal(t, "not_found - no such order", err.Error())
			assert.Equal(t, "not_found", apiErr.Err.Error)
			assert.Equal(t, "no such order", apiErr.Err.Detail)
			assert.ErrorIs(t, err, ErrServiceFailure)
		}
	})

	t.Run("malformed error payload", func(t *testing.T) {
		for _, body := range []string{"", "<html>Bad Gateway</html>", `{}`, `[1,2]`} {
			_, err := Classify(&RawResponse{StatusCode: http.StatusBadGateway, Body: body})
			require.Error(t, err)

			var malformed *MalformedErrorPayloadError
			require.ErrorAs(t, err, &malformed, body)
			assert.Equal(t, http.StatusBadGateway, malformed.StatusCode)
			assert.Equal(t, body, malformed.Body)
			assert.ErrorIs(t, err, ErrServiceFailure)
		}
	})
}

func TestAPIError(t *testing.T) {
	tests := []struct {
		code          int
		notFound      bool
		unauthorized  bool
		unprocessable bool
		rateLimited   bool
		serverError   bool
	}{
		{400, false, false, true, false, false},
		{401, false, true, false, false, false},
		{403, false, true, false, false, false},
		{404, true, false, false, false, false},
		{422, false, false, true, false, false},
		{429, false, false, false, true, false},
		{500, false, false, false, false, true},
		{503, false, false, false, false, true},
	}

	for _, tt := range tests {
		err := &APIError{StatusCode: tt.code}
		assert.Equal(t, tt.notFound, err.IsNotFound(), tt.code)
		assert.Equal(t, tt.unauthorized, err.IsUnauthorized(), tt.code)
		assert.Equal(t, tt.unprocessable, err.IsUnprocessable(), tt.code)
		assert.Equal(t, tt.rateLimited, err.IsRateLimited(), tt.code)
		assert.Equal(t, tt.serverError, err.IsServerError(), tt.code)
	}
}

func TestExecuteSyncAndAsyncMatch(t *testing.T) {
	doer := &stubDoer{status: http.StatusOK, body: `{"categories":[{"name":"Clothing","product_tax_code":"20010"}]}`}
	client, err := NewClient("test-key", zerolog.Nop(), WithHTTPClient(doer))
	require.NoError(t, err)

	ctx := context.Background()
	op := Operation{Method: http.MethodGet, Path: "categories"}

	syncReq, err := client.newRequest(ctx, op)
	require.NoError(t, err)
	syncResp, err := client.Execute(syncReq)
	require.NoError(t, err)
	syncHeaders := doer.last.Load().Header.Clone()

	asyncReq, err := client.newRequest(ctx, op)
	require.NoError(t, err)
	asyncResp, err := client.ExecuteAsync(asyncReq).Await(ctx)
	require.NoError(t, err)
	asyncHeaders := doer.last.Load().Header.Clone()

	assert.Equal(t, syncResp, asyncResp)
	assert.Equal(t, syncHeaders, asyncHeaders)
	assert.Equal(t, int32(2), doer.calls.Load())
}

func TestSendRequestSyncAndAsyncMatch(t *testing.T) {
	doer := &stubDoer{status: http.StatusUnprocessableEntity, body: `{"error":"unprocessable_entity","detail":"to_zip is missing"}`}
	client, err := NewClient("test-key", zerolog.Nop(), WithHTTPClient(doer))
	require.NoError(t, err)

	ctx := context.Background()
	op := Operation{Method: http.MethodPost, Path: "taxes", Params: TaxParams{ToCountry: "US", Amount: 15}}

	_, syncErr := client.SendRequest(ctx, op)
	_, asyncErr := client.SendRequestAsync(ctx, op).Await(ctx)

	require.Error(t, syncErr)
	require.Error(t, asyncErr)
	assert.Equal(t, syncErr, asyncErr)
}

func TestTransportErrorPropagates(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	client, err := NewClient("test-key", zerolog.Nop(), WithAPIURL(url))
	require.NoError(t, err)

	_, err = client.Categories(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "request failed")

	var apiErr *APIError
	assert.False(t, errors.As(err, &apiErr))
}

// blockingDoer waits for the request context to end, then answers with a
// well-formed service error that must never be classified.
type blockingDoer struct {
	started chan struct{}
}

func (d *blockingDoer) Do(req *http.Request) (*http.Response, error) {
	close(d.started)
	<-req.Context().Done()
	return &http.Response{
		StatusCode: http.StatusInternalServerError,
		Body:       io.NopCloser(strings.NewReader(`{"error":"internal","detail":"boom"}`)),
	}, nil
}

func TestAsyncCancellationSkipsClassification(t *testing.T) {
	doer := &blockingDoer{started: make(chan struct{})}
	client, err := NewClient("test-key", zerolog.Nop(), WithHTTPClient(doer))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	future := client.CategoriesAsync(ctx)

	<-doer.started
	select {
	case <-future.Done():
		t.Fatal("future resolved before cancellation")
	default:
	}
	cancel()

	_, err = future.Await(context.Background())
	require.ErrorIs(t, err, context.Canceled)

	var apiErr *APIError
	assert.False(t, errors.As(err, &apiErr))
}

func TestFutureAwaitRespectsCallerContext(t *testing.T) {
	f := newFuture[string]()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := f.Await(ctx)
	require.ErrorIs(t, err, context.Canceled)

	f.resolve("done", nil)
	got, err := f.Await(ctx)
	require.NoError(t, err)
	assert.Equal(t, "done", got)
}

func TestStrategyString(t *testing.T) {
	assert.Equal(t, "blocking", Blocking.String())
	assert.Equal(t, "suspending", Suspending.String())
	assert.Equal(t, "unknown", Strategy(7).String())
}

func nopLogger() zerolog.Logger {
	return zerolog.Nop()
}
