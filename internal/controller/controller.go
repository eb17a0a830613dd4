// Package controller is the orchestration state machine coordinating the
// message composer, cron translator, schedule lifecycle manager, and agent
// client. It owns all mutable state and exposes operations plus a read-only
// snapshot; nothing here is a package global.
package controller

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"gold-price-alerts/internal/agent"
	"gold-price-alerts/internal/alert"
	"gold-price-alerts/internal/cronutil"
	"gold-price-alerts/internal/schedule"
)

// Track identifies one independently loading operation lane.
type Track string

const (
	TrackFetchSchedule Track = "fetch_schedule"
	TrackFetchLogs     Track = "fetch_logs"
	TrackCheckNow      Track = "check_now"
	TrackToggle        Track = "toggle_schedule"
	TrackSave          Track = "save_settings"
)

var (
	// ErrTrackBusy reports that the operation's track is already in flight.
	ErrTrackBusy = errors.New("controller: operation already in flight")
	// ErrNoSchedule reports that toggling requires a loaded schedule.
	ErrNoSchedule = errors.New("controller: no schedule loaded")
)

// ScheduleManager is the lifecycle surface the controller drives.
type ScheduleManager interface {
	Refresh(ctx context.Context) (*schedule.Schedule, error)
	Replace(ctx context.Context, req schedule.CreateRequest) (*schedule.Schedule, error)
	Toggle(ctx context.Context) (*schedule.Schedule, error)
	Executions(ctx context.Context, limit int) ([]schedule.ExecutionLog, error)
	ManagedID() string
}

// SettingsStore is the local persistence surface the controller writes.
type SettingsStore interface {
	Settings() (alert.Settings, bool)
	SaveSettings(settings alert.Settings) error
	SaveLastSessionID(id string) error
}

// ProcessingSetter is the one controlled write to the activity stream.
type ProcessingSetter interface {
	SetProcessing(v bool)
}

// Options parameterise the controller.
type Options struct {
	AgentID         string
	HistoryLimit    int
	NotificationTTL time.Duration
	Defaults        alert.Settings
}

// Controller coordinates all alert orchestration operations.
type Controller struct {
	agent      agent.Invoker
	schedules  ScheduleManager
	store      SettingsStore
	processing ProcessingSetter
	opts       Options
	logger     zerolog.Logger
	now        func() time.Time

	mu         sync.Mutex
	inflight   map[Track]bool
	settings   alert.Settings
	sched      *schedule.Schedule
	logs       []schedule.ExecutionLog
	lastResult *agent.Result
	sessionID  string
	note       *Notification
	noteGen    uint64
}

// New constructs a controller, loading saved settings or falling back to
// the provided defaults.
func New(invoker agent.Invoker, schedules ScheduleManager, store SettingsStore, processing ProcessingSetter, opts Options, logger zerolog.Logger) *Controller {
	if opts.NotificationTTL <= 0 {
		opts.NotificationTTL = 5 * time.Second
	}
	if opts.HistoryLimit <= 0 {
		opts.HistoryLimit = 20
	}

	settings := opts.Defaults.Normalized()
	if store != nil {
		if saved, ok := store.Settings(); ok {
			settings = saved.Normalized()
		}
	}

	return &Controller{
		agent:      invoker,
		schedules:  schedules,
		store:      store,
		processing: processing,
		opts:       opts,
		logger:     logger.With().Str("component", "controller").Logger(),
		now:        time.Now,
		inflight:   make(map[Track]bool),
		settings:   settings,
	}
}

// Snapshot is a read-only copy of the controller's state.
type Snapshot struct {
	Settings     alert.Settings
	Schedule     *schedule.Schedule
	Logs         []schedule.ExecutionLog
	LastResult   *agent.Result
	SessionID    string
	Notification *Notification
	InFlight     map[Track]bool
}

// Snapshot returns the current state for rendering.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	inflight := make(map[Track]bool, len(c.inflight))
	for track, busy := range c.inflight {
		if busy {
			inflight[track] = true
		}
	}

	var note *Notification
	if c.note != nil {
		copied := *c.note
		note = &copied
	}

	var sched *schedule.Schedule
	if c.sched != nil {
		copied := *c.sched
		sched = &copied
	}

	return Snapshot{
		Settings:     c.settings,
		Schedule:     sched,
		Logs:         append([]schedule.ExecutionLog(nil), c.logs...),
		LastResult:   c.lastResult,
		SessionID:    c.sessionID,
		Notification: note,
		InFlight:     inflight,
	}
}

// UpdateSettings replaces the in-memory settings without persisting them.
// Persistence happens on explicit save only.
func (c *Controller) UpdateSettings(settings alert.Settings) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.settings = settings.Normalized()
}

// runTrack enters a track, refusing re-entry while in flight, and converts
// any panic during the operation into an error notification.
func (c *Controller) runTrack(track Track, fn func()) error {
	c.mu.Lock()
	if c.inflight[track] {
		c.mu.Unlock()
		return ErrTrackBusy
	}
	c.inflight[track] = true
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		delete(c.inflight, track)
		c.mu.Unlock()

		if r := recover(); r != nil {
			c.logger.Error().Interface("panic", r).Str("track", string(track)).Msg("operation panicked")
			c.notifyError(fmt.Sprintf("Unexpected failure: %v", r))
		}
	}()

	fn()
	return nil
}

// CheckNow composes the instruction from current settings, invokes the
// agent, and normalizes the response. It resolves to updated state plus at
// most one notification; the only error it returns is ErrTrackBusy.
func (c *Controller) CheckNow(ctx context.Context) error {
	return c.runTrack(TrackCheckNow, func() {
		c.mu.Lock()
		message := alert.ComposeMessage(c.settings)
		c.mu.Unlock()

		if c.processing != nil {
			c.processing.SetProcessing(true)
			defer c.processing.SetProcessing(false)
		}

		resp, err := c.agent.Invoke(ctx, message, c.opts.AgentID)
		if err != nil {
			c.logger.Warn().Err(err).Msg("agent invocation failed")
			c.notifyError("Gold price check failed: " + err.Error())
			return
		}
		if resp == nil {
			// Gateway handled a transport failure; resolve with no result.
			return
		}

		if resp.SessionID != "" {
			c.mu.Lock()
			c.sessionID = resp.SessionID
			c.mu.Unlock()
			if c.store != nil {
				if err := c.store.SaveLastSessionID(resp.SessionID); err != nil {
					c.logger.Warn().Err(err).Msg("failed to persist session id")
				}
			}
		}

		if !resp.Success {
			msg := resp.Error
			if msg == "" {
				msg = "Gold price check failed"
			}
			c.notifyError(msg)
			return
		}

		result := resp.NormalizedResult()
		if result == nil {
			c.notifySuccess("Agent responded; check the results for details")
			return
		}

		c.mu.Lock()
		c.lastResult = result
		c.mu.Unlock()
		c.notifySuccess("Gold price check completed")
	})
}

// RefreshSchedule re-reads the managed schedule. A schedule may not exist
// yet, so failures stay silent and the cached copy simply goes unknown.
func (c *Controller) RefreshSchedule(ctx context.Context) error {
	return c.runTrack(TrackFetchSchedule, func() {
		sched, err := c.schedules.Refresh(ctx)
		if err != nil {
			c.logger.Debug().Err(err).Msg("schedule refresh failed")
			return
		}
		c.mu.Lock()
		c.sched = sched
		c.mu.Unlock()
	})
}

// RefreshLogs reloads the bounded execution history.
func (c *Controller) RefreshLogs(ctx context.Context) error {
	return c.runTrack(TrackFetchLogs, func() {
		logs, err := c.schedules.Executions(ctx, c.opts.HistoryLimit)
		if err != nil {
			if errors.Is(err, schedule.ErrUnavailable) {
				return
			}
			c.notifyError("Failed to load run history: " + err.Error())
			return
		}
		c.mu.Lock()
		c.logs = logs
		c.mu.Unlock()
	})
}

// ToggleSchedule pauses an active schedule or resumes a paused one, then
// displays the freshly fetched state.
func (c *Controller) ToggleSchedule(ctx context.Context) error {
	c.mu.Lock()
	loaded := c.sched
	c.mu.Unlock()
	if loaded == nil {
		return ErrNoSchedule
	}

	return c.runTrack(TrackToggle, func() {
		wasActive := loaded.IsActive

		sched, err := c.schedules.Toggle(ctx)
		if err != nil {
			if errors.Is(err, schedule.ErrUnavailable) {
				return
			}
			c.notifyError("Failed to update schedule: " + err.Error())
			return
		}

		c.mu.Lock()
		c.sched = sched
		c.mu.Unlock()

		if wasActive {
			c.notifySuccess("Schedule paused")
		} else {
			c.notifySuccess("Schedule resumed")
		}
	})
}

// SaveSettings persists the settings locally regardless of remote outcome,
// then atomically replaces the managed schedule. The notification reflects
// the remote outcome only.
func (c *Controller) SaveSettings(ctx context.Context, settings alert.Settings) error {
	return c.runTrack(TrackSave, func() {
		normalized := settings.Normalized()

		c.mu.Lock()
		c.settings = normalized
		c.mu.Unlock()

		if c.store != nil {
			if err := c.store.SaveSettings(normalized); err != nil {
				c.logger.Warn().Err(err).Msg("failed to persist settings locally")
			}
		}

		req := schedule.CreateRequest{
			AgentID:        c.opts.AgentID,
			CronExpression: cronutil.ToCron(normalized.Frequency, normalized.TriggerTime),
			Message:        alert.ComposeMessage(normalized),
			Timezone:       normalized.Timezone,
		}

		sched, err := c.schedules.Replace(ctx, req)
		if err != nil {
			if errors.Is(err, schedule.ErrUnavailable) {
				return
			}
			c.notifyError("Failed to update alert schedule: " + err.Error())
			return
		}

		c.mu.Lock()
		c.sched = sched
		c.mu.Unlock()
		c.notifySuccess("Alert settings saved and schedule updated")
	})
}
