// Package activity consumes the agent activity event stream. The stream is
// observe-only for the core except for one controlled write, the processing
// flag toggled around check-now runs.
package activity

import (
	"context"
	"net/url"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

// Event is one activity ("thinking") event emitted by the agent session.
type Event struct {
	Type      string    `json:"type"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// Options parameterise the subscription.
type Options struct {
	WSURL       string
	DialTimeout time.Duration
}

// Subscription is a live connection to the activity stream.
type Subscription struct {
	conn       *websocket.Conn
	events     chan Event
	connected  atomic.Bool
	processing atomic.Bool
	logger     zerolog.Logger
}

// Subscribe opens the stream for a session. An empty sessionID subscribes to
// the unscoped stream.
func Subscribe(ctx context.Context, opts Options, sessionID string, logger zerolog.Logger) (*Subscription, error) {
	endpoint := opts.WSURL
	if sessionID != "" {
		u, err := url.Parse(endpoint)
		if err != nil {
			return nil, err
		}
		q := u.Query()
		q.Set("session_id", sessionID)
		u.RawQuery = q.Encode()
		endpoint = u.String()
	}

	dialer := websocket.Dialer{HandshakeTimeout: opts.DialTimeout}
	conn, _, err := dialer.DialContext(ctx, endpoint, nil)
	if err != nil {
		return nil, err
	}

	sub := &Subscription{
		conn:   conn,
		events: make(chan Event, 64),
		logger: logger.With().Str("component", "activity").Str("session_id", sessionID).Logger(),
	}
	sub.connected.Store(true)

	go sub.readLoop()
	return sub, nil
}

func (s *Subscription) readLoop() {
	defer func() {
		s.connected.Store(false)
		close(s.events)
	}()

	for {
		var evt Event
		if err := s.conn.ReadJSON(&evt); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.logger.Warn().Err(err).Msg("activity stream closed unexpectedly")
			}
			return
		}
		s.events <- evt
	}
}

// Events yields the ordered activity events. The channel closes when the
// connection drops.
func (s *Subscription) Events() <-chan Event {
	return s.events
}

// Connected reports whether the stream is still live.
func (s *Subscription) Connected() bool {
	return s.connected.Load()
}

// SetProcessing records whether a check is currently running.
func (s *Subscription) SetProcessing(v bool) {
	s.processing.Store(v)
}

// Processing reports the processing flag.
func (s *Subscription) Processing() bool {
	return s.processing.Load()
}

// Close tears the connection down.
func (s *Subscription) Close() error {
	return s.conn.Close()
}
