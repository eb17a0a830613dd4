package schedule

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/rs/zerolog"

	"gold-price-alerts/internal/gateway"
)

const schedulesPath = "/api/schedules"

// ErrUnavailable indicates the gateway handled a transport failure and the
// call produced no response. Callers usually stay silent on it.
var ErrUnavailable = errors.New("schedule: service unavailable")

// APIError is a domain-level failure reported by the scheduler service. Its
// message is surfaced to the user verbatim.
type APIError struct {
	Message string
}

func (e *APIError) Error() string {
	return e.Message
}

type envelope struct {
	Success    bool           `json:"success"`
	Schedule   *Schedule      `json:"schedule,omitempty"`
	Executions []ExecutionLog `json:"executions,omitempty"`
	Error      string         `json:"error,omitempty"`
}

// CreateRequest is the scheduler's create contract.
type CreateRequest struct {
	AgentID        string `json:"agent_id"`
	CronExpression string `json:"cron_expression"`
	Message        string `json:"message"`
	Timezone       string `json:"timezone"`
}

// Service is the scheduler-service call contract used by the manager.
type Service interface {
	Get(ctx context.Context, id string) (*Schedule, error)
	Create(ctx context.Context, req CreateRequest) (*Schedule, error)
	Delete(ctx context.Context, id string) error
	Pause(ctx context.Context, id string) error
	Resume(ctx context.Context, id string) error
	ListExecutions(ctx context.Context, id string, limit int) ([]ExecutionLog, error)
}

// Options parameterise the scheduler client.
type Options struct {
	BaseURL string
}

// Client talks to the schedule-management service through the gateway.
type Client struct {
	gateway *gateway.Client
	baseURL string
	logger  zerolog.Logger
}

// NewClient constructs a scheduler client.
func NewClient(opts Options, gw *gateway.Client, logger zerolog.Logger) *Client {
	return &Client{
		gateway: gw,
		baseURL: strings.TrimRight(opts.BaseURL, "/"),
		logger:  logger.With().Str("component", "scheduler_client").Logger(),
	}
}

// Get reads the current state of one schedule.
func (c *Client) Get(ctx context.Context, id string) (*Schedule, error) {
	env, err := c.call(ctx, http.MethodGet, c.scheduleURL(id), nil)
	if err != nil {
		return nil, err
	}
	if env.Schedule == nil {
		return nil, &APIError{Message: "scheduler returned no schedule"}
	}
	return env.Schedule, nil
}

// Create allocates a new schedule and returns the service's record of it.
func (c *Client) Create(ctx context.Context, req CreateRequest) (*Schedule, error) {
	env, err := c.call(ctx, http.MethodPost, c.baseURL+schedulesPath, req)
	if err != nil {
		return nil, err
	}
	if env.Schedule == nil {
		return nil, &APIError{Message: "scheduler did not return the created schedule"}
	}
	return env.Schedule, nil
}

// Delete removes a schedule. Best effort for callers: a missing schedule is
// still a domain error here, swallowing it is the caller's policy.
func (c *Client) Delete(ctx context.Context, id string) error {
	_, err := c.call(ctx, http.MethodDelete, c.scheduleURL(id), nil)
	return err
}

// Pause deactivates a schedule.
func (c *Client) Pause(ctx context.Context, id string) error {
	_, err := c.call(ctx, http.MethodPost, c.scheduleURL(id)+"/pause", nil)
	return err
}

// Resume reactivates a schedule.
func (c *Client) Resume(ctx context.Context, id string) error {
	_, err := c.call(ctx, http.MethodPost, c.scheduleURL(id)+"/resume", nil)
	return err
}

// ListExecutions returns the bounded most-recent-first run history.
func (c *Client) ListExecutions(ctx context.Context, id string, limit int) ([]ExecutionLog, error) {
	endpoint := fmt.Sprintf("%s/executions?limit=%d", c.scheduleURL(id), limit)
	env, err := c.call(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	return env.Executions, nil
}

func (c *Client) call(ctx context.Context, method, endpoint string, payload any) (*envelope, error) {
	var env envelope
	ok, err := c.gateway.DoJSON(ctx, method, endpoint, payload, &env)
	if err != nil {
		return nil, fmt.Errorf("scheduler %s %s: %w", method, endpoint, err)
	}
	if !ok {
		return nil, ErrUnavailable
	}
	if !env.Success {
		msg := env.Error
		if msg == "" {
			msg = "scheduler request failed"
		}
		return nil, &APIError{Message: msg}
	}
	return &env, nil
}

func (c *Client) scheduleURL(id string) string {
	return c.baseURL + schedulesPath + "/" + url.PathEscape(id)
}

var _ Service = (*Client)(nil)
