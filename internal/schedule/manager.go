package schedule

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
)

// IdentityStore persists the identifier of the schedule this installation
// manages, so the same schedule is picked up across sessions.
type IdentityStore interface {
	ManagedScheduleID() string
	SaveManagedScheduleID(id string) error
}

// Manager tracks the single managed schedule and drives its lifecycle
// against the scheduler service. Exactly one schedule is managed per
// installation; replacing settings replaces the schedule.
type Manager struct {
	service   Service
	identity  IdentityStore
	logger    zerolog.Logger
	managedID string
	current   *Schedule
}

// NewManager constructs a manager, resuming the previously managed schedule
// identifier from the identity store.
func NewManager(service Service, identity IdentityStore, logger zerolog.Logger) *Manager {
	m := &Manager{
		service:  service,
		identity: identity,
		logger:   logger.With().Str("component", "schedule_manager").Logger(),
	}
	if identity != nil {
		m.managedID = identity.ManagedScheduleID()
	}
	return m
}

// ManagedID returns the identifier of the managed schedule, if any.
func (m *Manager) ManagedID() string {
	return m.managedID
}

// Current returns the cached copy of the managed schedule, if loaded.
func (m *Manager) Current() *Schedule {
	return m.current
}

// Refresh re-reads the managed schedule from the service. A schedule may
// legitimately not exist yet, so every failure resolves to (nil, nil) and
// the schedule is simply "not yet known".
func (m *Manager) Refresh(ctx context.Context) (*Schedule, error) {
	if m.managedID == "" {
		m.current = nil
		return nil, nil
	}

	sched, err := m.service.Get(ctx, m.managedID)
	if err != nil {
		m.logger.Debug().Err(err).Str("schedule_id", m.managedID).Msg("schedule not yet known")
		return nil, nil
	}

	m.current = sched
	return sched, nil
}

// Replace runs the save protocol: delete the old schedule (ignoring
// failure), create a new one from the current settings, and adopt the new
// identifier on success. On create failure the previous managed-identifier
// state is left untouched even though the old schedule is already gone;
// Refresh then resolves to "not yet known" until the next successful save.
func (m *Manager) Replace(ctx context.Context, req CreateRequest) (*Schedule, error) {
	if m.managedID != "" {
		if err := m.service.Delete(ctx, m.managedID); err != nil {
			m.logger.Warn().Err(err).Str("schedule_id", m.managedID).Msg("delete of previous schedule failed, continuing")
		}
	}
	m.current = nil

	sched, err := m.service.Create(ctx, req)
	if err != nil {
		return nil, err
	}

	m.managedID = sched.ID
	m.current = sched
	if m.identity != nil {
		if err := m.identity.SaveManagedScheduleID(sched.ID); err != nil {
			m.logger.Error().Err(err).Str("schedule_id", sched.ID).Msg("failed to persist managed schedule id")
		}
	}

	m.logger.Info().Str("schedule_id", sched.ID).Str("cron", sched.CronExpression).Msg("schedule replaced")
	return sched, nil
}

// Toggle pauses an active managed schedule or resumes a paused one, then
// re-fetches it. Pause/resume responses may not echo the full updated
// record, so the fresh get is the authoritative state, never an optimistic
// local flip.
func (m *Manager) Toggle(ctx context.Context) (*Schedule, error) {
	if m.current == nil {
		return nil, errors.New("no schedule loaded")
	}

	var err error
	if m.current.IsActive {
		err = m.service.Pause(ctx, m.current.ID)
	} else {
		err = m.service.Resume(ctx, m.current.ID)
	}
	if err != nil {
		return nil, err
	}

	sched, err := m.service.Get(ctx, m.current.ID)
	if err != nil {
		return nil, fmt.Errorf("re-fetch after toggle: %w", err)
	}

	m.current = sched
	return sched, nil
}

// Executions reads the bounded most-recent-first run history of the managed
// schedule. Without a managed schedule there is no history.
func (m *Manager) Executions(ctx context.Context, limit int) ([]ExecutionLog, error) {
	if m.managedID == "" {
		return nil, nil
	}
	return m.service.ListExecutions(ctx, m.managedID, limit)
}
