// Package gateway wraps every outbound call to the backend services with a
// uniform recovery policy for session expiry, server errors, and network
// failures. The gateway itself stays UI-agnostic: it reports a typed outcome
// and consults injected hooks, so the embedding layer decides whether a
// failure escalates to a full client restart.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Outcome classifies the terminal state of one wrapped call.
type Outcome int

const (
	OutcomeSuccess Outcome = iota
	OutcomeRedirected
	OutcomeServerError
	OutcomeNetworkError
)

// String implements fmt.Stringer for log fields.
func (o Outcome) String() string {
	switch o {
	case OutcomeSuccess:
		return "success"
	case OutcomeRedirected:
		return "redirected"
	case OutcomeServerError:
		return "server_error"
	case OutcomeNetworkError:
		return "network_error"
	default:
		return "unknown"
	}
}

// Result carries the typed outcome of a wrapped call. Response is only set
// for OutcomeSuccess; every other outcome has already been handled and the
// caller should treat the call as having produced no response.
type Result struct {
	Outcome    Outcome
	Response   *http.Response
	RedirectTo string
}

// RecoveryPrompter decides whether a destructive recovery (full client
// restart) should run after a backend failure. Implementations may block.
type RecoveryPrompter interface {
	ConfirmReload(reason string) bool
}

// Hooks are the recovery actions the embedding layer supplies.
type Hooks struct {
	// Navigate is invoked when the transport signals a redirect, which this
	// system treats as session expiry.
	Navigate func(target string)
	// Reload performs the full client restart after the prompter accepts.
	Reload func()
}

// Options parameterise the gateway.
type Options struct {
	Timeout   time.Duration
	UserAgent string
}

// Client is the resilient call gateway.
type Client struct {
	opts     Options
	http     *http.Client
	prompter RecoveryPrompter
	hooks    Hooks
	logger   zerolog.Logger
}

// New constructs a gateway. A nil prompter declines every reload.
func New(opts Options, prompter RecoveryPrompter, hooks Hooks, logger zerolog.Logger) *Client {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	httpClient := &http.Client{
		Timeout: timeout,
		// Redirects are an authentication signal here, never followed.
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}

	return &Client{
		opts:     opts,
		http:     httpClient,
		prompter: prompter,
		hooks:    hooks,
		logger:   logger.With().Str("component", "gateway").Logger(),
	}
}

// Do executes one wrapped request. All transport failures are resolved to a
// typed outcome; Do never returns an error for them.
func (c *Client) Do(req *http.Request) Result {
	if req.Header.Get("X-Request-ID") == "" {
		req.Header.Set("X-Request-ID", uuid.NewString())
	}
	if c.opts.UserAgent != "" && req.Header.Get("User-Agent") == "" {
		req.Header.Set("User-Agent", c.opts.UserAgent)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Warn().Err(err).Str("url", req.URL.String()).Msg("request could not reach the backend")
		c.recover("Cannot connect to the backend service. Restart the client and retry?")
		return Result{Outcome: OutcomeNetworkError}
	}

	if resp.StatusCode >= 300 && resp.StatusCode < 400 {
		target := resp.Header.Get("Location")
		drainAndClose(resp)
		c.logger.Info().Str("target", target).Msg("redirect received, treating as session expiry")
		if c.hooks.Navigate != nil {
			c.hooks.Navigate(target)
		}
		return Result{Outcome: OutcomeRedirected, RedirectTo: target}
	}

	if resp.StatusCode >= 500 {
		drainAndClose(resp)
		c.logger.Warn().Int("status", resp.StatusCode).Str("url", req.URL.String()).Msg("backend returned a server error")
		c.recover("The backend service is erroring. Restart the client and retry?")
		return Result{Outcome: OutcomeServerError}
	}

	return Result{Outcome: OutcomeSuccess, Response: resp}
}

func (c *Client) recover(reason string) {
	if c.prompter == nil || !c.prompter.ConfirmReload(reason) {
		return
	}
	if c.hooks.Reload != nil {
		c.hooks.Reload()
	}
}

// DoJSON marshals payload (when non-nil), executes the request, and decodes
// a successful response body into out (when non-nil). The boolean reports
// whether a response was obtained at all; handled transport failures return
// (false, nil) so callers can treat them as "no response".
func (c *Client) DoJSON(ctx context.Context, method, url string, payload, out any) (bool, error) {
	var body io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return false, fmt.Errorf("marshal request payload: %w", err)
		}
		body = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return false, fmt.Errorf("create request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	result := c.Do(req)
	if result.Outcome != OutcomeSuccess {
		return false, nil
	}
	defer drainAndClose(result.Response)

	if out == nil {
		return true, nil
	}
	if err := json.NewDecoder(result.Response.Body).Decode(out); err != nil {
		return true, fmt.Errorf("decode response body: %w", err)
	}
	return true, nil
}

func drainAndClose(resp *http.Response) {
	_, _ = io.Copy(io.Discard, resp.Body)
	_ = resp.Body.Close()
}
