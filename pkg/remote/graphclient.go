package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"

	"github.com/stackmap/stackmap/pkg/errors"
	"github.com/stackmap/stackmap/pkg/logging"
)

// DefaultTimeout bounds each remote call attempt. The original system
// issued unbounded calls; here every attempt runs under a deadline and
// expiry surfaces as a distinct Timeout error.
const DefaultTimeout = 10 * time.Second

// DefaultMaxRetries is the number of retries for transient failures.
const DefaultMaxRetries = 3

// GraphClient is the HTTP implementation of Client. It posts operation
// documents to the catalog's query endpoint, retries transient transport
// failures with exponential backoff, and never retries business-rule
// rejections.
type GraphClient struct {
	endpoint   string
	token      string
	timeout    time.Duration
	maxRetries uint64
	http       *http.Client
}

// GraphOption configures a GraphClient.
type GraphOption func(*GraphClient)

// WithToken sets the bearer token sent on every request.
func WithToken(token string) GraphOption {
	return func(c *GraphClient) { c.token = token }
}

// WithTimeout sets the per-attempt deadline.
func WithTimeout(timeout time.Duration) GraphOption {
	return func(c *GraphClient) {
		if timeout > 0 {
			c.timeout = timeout
		}
	}
}

// WithMaxRetries sets the retry budget for transient failures.
func WithMaxRetries(retries int) GraphOption {
	return func(c *GraphClient) {
		if retries >= 0 {
			c.maxRetries = uint64(retries)
		}
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(client *http.Client) GraphOption {
	return func(c *GraphClient) {
		if client != nil {
			c.http = client
		}
	}
}

// NewGraphClient creates a client for the catalog at the given endpoint.
func NewGraphClient(endpoint string, opts ...GraphOption) *GraphClient {
	c := &GraphClient{
		endpoint:   endpoint,
		timeout:    DefaultTimeout,
		maxRetries: DefaultMaxRetries,
		http:       &http.Client{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Query implements Client.
func (c *GraphClient) Query(ctx context.Context, operation string, vars map[string]any, out any) error {
	return c.do(ctx, operation, vars, out)
}

// Mutate implements Client.
func (c *GraphClient) Mutate(ctx context.Context, operation string, vars map[string]any, out any) error {
	return c.do(ctx, operation, vars, out)
}

// graphRequest is the request envelope.
type graphRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

// graphResponse is the response envelope.
type graphResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []graphError    `json:"errors"`
}

type graphError struct {
	Message    string `json:"message"`
	Extensions struct {
		Code string `json:"code"`
	} `json:"extensions"`
}

func (c *GraphClient) do(ctx context.Context, operation string, vars map[string]any, out any) error {
	name := operationName(operation)
	body, err := json.Marshal(graphRequest{Query: operation, Variables: vars})
	if err != nil {
		return errors.NewRemoteUnavailableError(name, "encoding request", err)
	}

	attempt := func() error {
		return c.attempt(ctx, name, body, out)
	}
	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewExponentialBackOff(), c.maxRetries), ctx)
	if err := backoff.Retry(attempt, policy); err != nil {
		if ctx.Err() != nil && !errors.IsTimeout(err) {
			if ctx.Err() == context.DeadlineExceeded {
				return errors.NewTimeoutError(name, 0)
			}
			return errors.ErrCanceled
		}
		return err
	}
	return nil
}

// attempt performs a single HTTP exchange. Retryable failures are
// returned bare; terminal ones are wrapped in backoff.Permanent.
func (c *GraphClient) attempt(ctx context.Context, name string, body []byte, out any) error {
	attemptCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(attemptCtx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return backoff.Permanent(errors.NewRemoteUnavailableError(name, "building request", err))
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	requestID := uuid.NewString()
	req.Header.Set("X-Request-ID", requestID)

	logging.Ctx(ctx).Debug().
		Str("operation", name).
		Str("request_id", requestID).
		Msg("remote catalog call")

	resp, err := c.http.Do(req)
	if err != nil {
		if attemptCtx.Err() == context.DeadlineExceeded {
			// Timed-out attempts are retryable; a Timeout error
			// surfaces if the retry budget runs out.
			return errors.NewTimeoutError(name, c.timeout)
		}
		return errors.NewRemoteUnavailableError(name, err.Error(), err)
	}
	defer resp.Body.Close() //nolint:errcheck

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.NewRemoteUnavailableError(name, "reading response", err)
	}

	if resp.StatusCode >= http.StatusInternalServerError {
		return errors.NewRemoteUnavailableError(name,
			fmt.Sprintf("status %d: %s", resp.StatusCode, truncate(string(data), 200)), nil)
	}
	if resp.StatusCode != http.StatusOK {
		return backoff.Permanent(errors.NewRemoteRejectedError(name, "",
			fmt.Sprintf("status %d: %s", resp.StatusCode, truncate(string(data), 200))))
	}

	var envelope graphResponse
	if err := json.Unmarshal(data, &envelope); err != nil {
		return backoff.Permanent(errors.NewRemoteUnavailableError(name, "malformed response body", err))
	}
	if len(envelope.Errors) > 0 {
		first := envelope.Errors[0]
		return backoff.Permanent(errors.NewRemoteRejectedError(name, first.Extensions.Code, first.Message))
	}
	if out != nil {
		if err := json.Unmarshal(envelope.Data, out); err != nil {
			return backoff.Permanent(errors.NewRemoteUnavailableError(name, "malformed response data", err))
		}
	}
	return nil
}

// operationName extracts the name from an operation document, e.g.
// "query ListComponents { ... }" yields "ListComponents".
func operationName(operation string) string {
	fields := strings.Fields(operation)
	if len(fields) < 2 {
		return "unknown"
	}
	name := fields[1]
	if i := strings.IndexAny(name, "({"); i > 0 {
		name = name[:i]
	}
	return name
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
