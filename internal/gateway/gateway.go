// Package gateway performs the single remote call every dao command makes:
// one JSON POST of an RPC envelope to the master's task endpoint.
//
// The gateway wraps the Resty HTTP client with DAO-specific behaviour:
//   - Endpoint: "tasks" resolved against the master URL (RFC 3986 reference
//     resolution, so a base without a trailing slash loses its last segment)
//   - Tracing: each call carries an X-Request-ID header
//   - Failures: non-2xx answers become *RPCError with the raw body, timeouts
//     become *TimeoutError naming the configured master URL
//
// There are no retries. A command either gets one answer or fails.
package gateway

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"
	"time"

	"github.com/concave-dev/dao/internal/logging"
	"github.com/concave-dev/dao/internal/result"
	"github.com/concave-dev/dao/internal/validate"
	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
)

// TaskPath is the endpoint path resolved against the master URL.
const TaskPath = "tasks"

// RequestIDHeader carries the per-call request id.
const RequestIDHeader = "X-Request-ID"

// Envelope is the RPC request body. Args always starts with the caller's
// user name and location.
type Envelope struct {
	Func   string         `json:"func"`
	Args   []any          `json:"args"`
	Kwargs map[string]any `json:"kwargs"`
}

// Config holds gateway settings.
type Config struct {
	MasterURL string
	Timeout   time.Duration
	UserAgent string

	// Logger receives Resty's internal log lines. Nil keeps Resty's default.
	Logger resty.Logger
}

// Gateway sends envelopes to one master.
type Gateway struct {
	client    *resty.Client
	masterURL string
	endpoint  string
}

// New builds a gateway for cfg.
func New(cfg Config) (*Gateway, error) {
	if err := validate.ValidatePositiveTimeout(cfg.Timeout, "timeout"); err != nil {
		return nil, err
	}
	base, err := validate.ParseMasterURL(cfg.MasterURL)
	if err != nil {
		return nil, err
	}
	endpoint := base.ResolveReference(&url.URL{Path: TaskPath}).String()

	client := resty.New()
	if cfg.Logger != nil {
		client.SetLogger(cfg.Logger)
	}

	client.
		SetTimeout(cfg.Timeout).
		SetHeader("Accept", "application/json").
		SetHeader("Content-Type", "application/json").
		SetRetryCount(0)
	if cfg.UserAgent != "" {
		client.SetHeader("User-Agent", cfg.UserAgent)
	}

	client.OnBeforeRequest(func(c *resty.Client, req *resty.Request) error {
		logging.Debug("Calling master: %s %s (request %s)", req.Method, req.URL, req.Header.Get(RequestIDHeader))
		return nil
	})

	client.OnAfterResponse(func(c *resty.Client, resp *resty.Response) error {
		logging.Debug("Master response: %d %s (took %v)", resp.StatusCode(), resp.Status(), resp.Time())
		return nil
	})

	client.OnError(func(req *resty.Request, err error) {
		logging.Debug("Master call failed: %s %s - %v", req.Method, req.URL, err)
	})

	return &Gateway{client: client, masterURL: cfg.MasterURL, endpoint: endpoint}, nil
}

// Endpoint returns the resolved task URL.
func (g *Gateway) Endpoint() string {
	return g.endpoint
}

// Call posts env and returns the decoded "result" member of the answer.
func (g *Gateway) Call(ctx context.Context, env Envelope) (result.Value, error) {
	if env.Args == nil {
		env.Args = []any{}
	}
	if env.Kwargs == nil {
		env.Kwargs = map[string]any{}
	}

	resp, err := g.client.R().
		SetContext(ctx).
		SetHeader(RequestIDHeader, uuid.NewString()).
		SetBody(env).
		Post(g.endpoint)
	if err != nil {
		if isTimeout(err) {
			return nil, &TimeoutError{URL: g.masterURL}
		}
		return nil, fmt.Errorf("failed to reach master at %s: %w", g.endpoint, err)
	}

	body := resp.Body()
	if !resp.IsSuccess() {
		return nil, &RPCError{StatusCode: resp.StatusCode(), Body: string(body)}
	}

	decoded, err := result.Decode(body)
	if err != nil {
		return nil, &RPCError{StatusCode: resp.StatusCode(), Body: string(body)}
	}
	answer, ok := decoded.(*result.Mapping)
	if !ok {
		return nil, &RPCError{StatusCode: resp.StatusCode(), Body: string(body)}
	}
	value, ok := answer.Get("result")
	if !ok {
		return nil, &RPCError{StatusCode: resp.StatusCode(), Body: string(body)}
	}
	return value, nil
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
