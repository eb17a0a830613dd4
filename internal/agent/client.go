package agent

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"gold-price-alerts/internal/gateway"
)

const invokePath = "/api/agents/invoke"

// InvokeResponse is the agent-execution service envelope.
type InvokeResponse struct {
	Success   bool           `json:"success"`
	SessionID string         `json:"session_id,omitempty"`
	Response  *InvokePayload `json:"response,omitempty"`
	Error     string         `json:"error,omitempty"`
}

// InvokePayload carries the agent's raw result, whose shape is not fixed.
type InvokePayload struct {
	Result json.RawMessage `json:"result"`
}

// NormalizedResult runs the raw result through Normalize.
func (r *InvokeResponse) NormalizedResult() *Result {
	if r == nil || r.Response == nil || len(r.Response.Result) == 0 {
		return nil
	}
	return Normalize(json.RawMessage(r.Response.Result))
}

// Invoker executes a natural-language instruction against the agent service.
type Invoker interface {
	Invoke(ctx context.Context, message, agentID string) (*InvokeResponse, error)
}

// Options parameterise the agent client.
type Options struct {
	BaseURL string
}

// Client talks to the agent-execution service through the gateway.
type Client struct {
	gateway *gateway.Client
	baseURL string
	logger  zerolog.Logger
}

// NewClient constructs an agent client.
func NewClient(opts Options, gw *gateway.Client, logger zerolog.Logger) *Client {
	return &Client{
		gateway: gw,
		baseURL: strings.TrimRight(opts.BaseURL, "/"),
		logger:  logger.With().Str("component", "agent_client").Logger(),
	}
}

// Invoke sends the instruction and returns the service envelope. A nil
// response with nil error means the gateway handled a transport failure and
// the call produced no response.
func (c *Client) Invoke(ctx context.Context, message, agentID string) (*InvokeResponse, error) {
	payload := invokeRequest{Message: message, AgentID: agentID}

	var envelope InvokeResponse
	ok, err := c.gateway.DoJSON(ctx, http.MethodPost, c.baseURL+invokePath, payload, &envelope)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}

	c.logger.Debug().
		Bool("success", envelope.Success).
		Str("session_id", envelope.SessionID).
		Msg("agent invocation completed")
	return &envelope, nil
}

type invokeRequest struct {
	Message string `json:"message"`
	AgentID string `json:"agent_id"`
}

var _ Invoker = (*Client)(nil)
