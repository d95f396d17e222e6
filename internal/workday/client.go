// Package workday is the HR backend access layer. A Client is bound to one
// caller's bearer credential and lives for one inbound request; it caches
// the caller's resolved identity and worker profile for that lifetime.
package workday

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/marcus-qen/hragent/internal/config"
	"github.com/marcus-qen/hragent/internal/metrics"
	"github.com/marcus-qen/hragent/internal/record"
	"github.com/marcus-qen/hragent/internal/telemetry"
	"go.uber.org/zap"
)

// HTTPRequester represents the minimum HTTP client contract used for backend calls.
type HTTPRequester interface {
	Do(req *http.Request) (*http.Response, error)
}

// ClientConfig configures a backend client. It holds no per-caller state and
// can be shared across requests.
type ClientConfig struct {
	Endpoints  config.WorkdayConfig
	HTTPClient HTTPRequester
	Logger     *zap.Logger
}

// Request is the logical contract for one backend call.
type Request struct {
	// Resource is a low-cardinality name used for metrics and spans.
	Resource string
	Method   string
	URL      string
	Query    url.Values
	Body     any
}

// Client issues authenticated calls to the HR backend on behalf of one caller.
type Client struct {
	endpoints  config.WorkdayConfig
	token      string
	timeout    time.Duration
	httpClient HTTPRequester
	logger     *zap.Logger

	subject *SubjectContext
	profile record.Record
}

// NewHTTPRequester builds the shared transport used by every request-scoped client.
func NewHTTPRequester() *http.Client {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.MaxIdleConnsPerHost = 16
	return &http.Client{Transport: transport}
}

// NewClient binds cfg to the caller's bearer credential.
func NewClient(cfg ClientConfig, token string) *Client {
	endpoints := cfg.Endpoints.Resolve()

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = NewHTTPRequester()
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Client{
		endpoints:  endpoints,
		token:      token,
		timeout:    endpoints.Timeout,
		httpClient: httpClient,
		logger:     logger,
	}
}

// Call performs one backend request and returns the decoded body: a JSON
// value, raw text when the body is not JSON, or nil for an empty body.
// Non-2xx responses and transport failures return *BackendError.
func (c *Client) Call(ctx context.Context, r Request) (any, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	method := r.Method
	if method == "" {
		method = http.MethodGet
	}
	resource := r.Resource
	if resource == "" {
		resource = "unknown"
	}

	ctx, span := telemetry.StartBackendCallSpan(ctx, resource, method)
	started := time.Now()
	status := 0
	data, err := func() (any, error) {
		requestCtx := ctx
		if c.timeout > 0 {
			var cancel context.CancelFunc
			requestCtx, cancel = context.WithTimeout(ctx, c.timeout)
			defer cancel()
		}

		req, err := c.newRequest(requestCtx, method, r)
		if err != nil {
			return nil, err
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, transportError(err)
		}
		defer resp.Body.Close()
		status = resp.StatusCode

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, transportError(err)
		}
		data := decodeBody(body)

		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			return nil, statusError(resp.StatusCode, data)
		}
		return data, nil
	}()
	elapsed := time.Since(started)

	c.logger.Debug("workday request",
		zap.String("method", method),
		zap.String("url", r.URL),
		zap.Int("status", status),
		zap.Duration("duration", elapsed),
	)
	metrics.RecordBackendCall(resource, method, status, elapsed)
	telemetry.EndBackendCallSpan(span, status, err)

	return data, err
}

func (c *Client) newRequest(ctx context.Context, method string, r Request) (*http.Request, error) {
	reqURL, err := url.Parse(r.URL)
	if err != nil {
		return nil, &BackendError{Message: fmt.Sprintf("invalid Workday URL %q", r.URL), Cause: err}
	}
	if len(r.Query) > 0 {
		params := reqURL.Query()
		for key, values := range r.Query {
			for _, value := range values {
				params.Add(key, value)
			}
		}
		reqURL.RawQuery = params.Encode()
	}

	var body io.Reader
	if r.Body != nil {
		encoded, err := json.Marshal(r.Body)
		if err != nil {
			return nil, &BackendError{Message: "failed to encode Workday request body", Cause: err}
		}
		body = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL.String(), body)
	if err != nil {
		return nil, &BackendError{Message: "failed to build Workday request", Cause: err}
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	return req, nil
}

// decodeBody tries JSON for any non-empty body regardless of content type and
// keeps undecodable bodies as raw text.
func decodeBody(body []byte) any {
	if len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	if v, err := record.Decode(body); err == nil {
		return v
	}
	return string(body)
}
