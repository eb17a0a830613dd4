package schedule

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeService struct {
	calls     []string
	schedules map[string]*Schedule
	createErr error
	deleteErr error
	nextID    string
}

func newFakeService() *fakeService {
	return &fakeService{schedules: map[string]*Schedule{}, nextID: "sch-new"}
}

func (f *fakeService) Get(ctx context.Context, id string) (*Schedule, error) {
	f.calls = append(f.calls, "get:"+id)
	sched, ok := f.schedules[id]
	if !ok {
		return nil, &APIError{Message: "schedule not found"}
	}
	copied := *sched
	return &copied, nil
}

func (f *fakeService) Create(ctx context.Context, req CreateRequest) (*Schedule, error) {
	f.calls = append(f.calls, "create")
	if f.createErr != nil {
		return nil, f.createErr
	}
	sched := &Schedule{ID: f.nextID, IsActive: true, CronExpression: req.CronExpression, Timezone: req.Timezone}
	f.schedules[sched.ID] = sched
	return sched, nil
}

func (f *fakeService) Delete(ctx context.Context, id string) error {
	f.calls = append(f.calls, "delete:"+id)
	if f.deleteErr != nil {
		return f.deleteErr
	}
	delete(f.schedules, id)
	return nil
}

func (f *fakeService) Pause(ctx context.Context, id string) error {
	f.calls = append(f.calls, "pause:"+id)
	if sched, ok := f.schedules[id]; ok {
		sched.IsActive = false
	}
	return nil
}

func (f *fakeService) Resume(ctx context.Context, id string) error {
	f.calls = append(f.calls, "resume:"+id)
	if sched, ok := f.schedules[id]; ok {
		sched.IsActive = true
	}
	return nil
}

func (f *fakeService) ListExecutions(ctx context.Context, id string, limit int) ([]ExecutionLog, error) {
	f.calls = append(f.calls, "executions:"+id)
	return []ExecutionLog{{ID: "e1", ScheduleID: id}}, nil
}

type fakeIdentity struct {
	id    string
	saves int
}

func (f *fakeIdentity) ManagedScheduleID() string { return f.id }

func (f *fakeIdentity) SaveManagedScheduleID(id string) error {
	f.id = id
	f.saves++
	return nil
}

func TestReplaceAdoptsNewIdentifier(t *testing.T) {
	svc := newFakeService()
	svc.schedules["sch-old"] = &Schedule{ID: "sch-old", IsActive: true}
	identity := &fakeIdentity{id: "sch-old"}
	manager := NewManager(svc, identity, zerolog.Nop())

	sched, err := manager.Replace(context.Background(), CreateRequest{CronExpression: "0 9 * * *", Timezone: "UTC"})
	require.NoError(t, err)
	require.Equal(t, "sch-new", sched.ID)

	assert.Equal(t, []string{"delete:sch-old", "create"}, svc.calls)
	assert.Equal(t, "sch-new", manager.ManagedID())
	assert.Equal(t, "sch-new", identity.id)
	assert.Equal(t, 1, identity.saves)
}

func TestReplaceIgnoresDeleteFailure(t *testing.T) {
	svc := newFakeService()
	svc.deleteErr = &APIError{Message: "already gone"}
	identity := &fakeIdentity{id: "sch-old"}
	manager := NewManager(svc, identity, zerolog.Nop())

	sched, err := manager.Replace(context.Background(), CreateRequest{})
	require.NoError(t, err)
	assert.Equal(t, "sch-new", sched.ID)
}

// A create failure after the delete leaves the identifier pointing at a
// schedule that no longer exists. That is the documented behaviour of the
// non-atomic replace protocol, asserted here as-is.
func TestReplaceCreateFailureLeavesDanglingIdentifier(t *testing.T) {
	svc := newFakeService()
	svc.schedules["sch-old"] = &Schedule{ID: "sch-old"}
	svc.createErr = &APIError{Message: "quota exceeded"}
	identity := &fakeIdentity{id: "sch-old"}
	manager := NewManager(svc, identity, zerolog.Nop())

	_, err := manager.Replace(context.Background(), CreateRequest{})
	require.Error(t, err)

	assert.Equal(t, "sch-old", manager.ManagedID(), "previous identifier state stays untouched")
	assert.Zero(t, identity.saves, "nothing is persisted on failure")
	assert.Nil(t, manager.Current())

	sched, err := manager.Refresh(context.Background())
	require.NoError(t, err)
	assert.Nil(t, sched, "dangling identifier resolves to not-yet-known")
}

func TestToggleUsesFreshGetNotOptimisticFlip(t *testing.T) {
	svc := newFakeService()
	svc.schedules["sch-1"] = &Schedule{ID: "sch-1", IsActive: true}
	identity := &fakeIdentity{id: "sch-1"}
	manager := NewManager(svc, identity, zerolog.Nop())

	_, err := manager.Refresh(context.Background())
	require.NoError(t, err)

	sched, err := manager.Toggle(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"get:sch-1", "pause:sch-1", "get:sch-1"}, svc.calls)
	assert.False(t, sched.IsActive, "displayed state comes from the re-fetch")

	sched, err = manager.Toggle(context.Background())
	require.NoError(t, err)
	assert.True(t, sched.IsActive)
	assert.Contains(t, svc.calls, "resume:sch-1")
}

func TestToggleRequiresLoadedSchedule(t *testing.T) {
	manager := NewManager(newFakeService(), &fakeIdentity{}, zerolog.Nop())
	_, err := manager.Toggle(context.Background())
	require.Error(t, err)
}

func TestRefreshWithoutIdentifier(t *testing.T) {
	manager := NewManager(newFakeService(), &fakeIdentity{}, zerolog.Nop())
	sched, err := manager.Refresh(context.Background())
	require.NoError(t, err)
	assert.Nil(t, sched)
}

func TestExecutionsWithoutIdentifier(t *testing.T) {
	svc := newFakeService()
	manager := NewManager(svc, &fakeIdentity{}, zerolog.Nop())

	logs, err := manager.Executions(context.Background(), 10)
	require.NoError(t, err)
	assert.Empty(t, logs)
	assert.Empty(t, svc.calls, "no managed schedule means no service call")
}

func TestErrUnavailableIsNotAnAPIError(t *testing.T) {
	var apiErr *APIError
	assert.False(t, errors.As(ErrUnavailable, &apiErr))
}
