package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/palomar/internal/core/domain"
	"github.com/custodia-labs/palomar/internal/core/ports/driven"
)

// --- Mock implementations for scheduler testing ---

// mockSchedulerStore implements driven.SchedulerStore for testing.
type mockSchedulerStore struct {
	mu       sync.RWMutex
	tasks    map[string]*domain.ScheduledTask
	results  map[string][]domain.TaskResult
	saveErr  error
	listErr  error
	getErr   error
	pruneErr error
	pruned   int
}

func newMockSchedulerStore() *mockSchedulerStore {
	return &mockSchedulerStore{
		tasks:   make(map[string]*domain.ScheduledTask),
		results: make(map[string][]domain.TaskResult),
	}
}

func (m *mockSchedulerStore) GetTask(_ context.Context, taskID string) (*domain.ScheduledTask, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.getErr != nil {
		return nil, m.getErr
	}
	task, exists := m.tasks[taskID]
	if !exists {
		return nil, nil
	}
	taskCopy := *task
	return &taskCopy, nil
}

func (m *mockSchedulerStore) ListTasks(_ context.Context) ([]domain.ScheduledTask, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.listErr != nil {
		return nil, m.listErr
	}
	tasks := make([]domain.ScheduledTask, 0, len(m.tasks))
	for _, t := range m.tasks {
		tasks = append(tasks, *t)
	}
	return tasks, nil
}

func (m *mockSchedulerStore) SaveTask(_ context.Context, task *domain.ScheduledTask) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	if task == nil {
		return domain.ErrInvalidInput
	}
	taskCopy := *task
	m.tasks[task.ID] = &taskCopy
	return nil
}

func (m *mockSchedulerStore) DeleteTask(_ context.Context, taskID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.tasks, taskID)
	return nil
}

func (m *mockSchedulerStore) RecordResult(_ context.Context, result *domain.TaskResult) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if result == nil {
		return domain.ErrInvalidInput
	}
	m.results[result.TaskID] = append(m.results[result.TaskID], *result)
	return nil
}

func (m *mockSchedulerStore) GetTaskHistory(_ context.Context, taskID string, limit int) ([]domain.TaskResult, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	results := m.results[taskID]
	if len(results) > limit {
		results = results[len(results)-limit:]
	}
	return results, nil
}

func (m *mockSchedulerStore) PruneHistory(_ context.Context, keep int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pruned = keep
	return m.pruneErr
}

func (m *mockSchedulerStore) history(taskID string) []domain.TaskResult {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]domain.TaskResult(nil), m.results[taskID]...)
}

// mockRefresher implements Refresher for testing.
type mockRefresher struct {
	mu     sync.Mutex
	calls  int
	result domain.RefreshResult
	err    error
}

func (m *mockRefresher) Refresh(_ context.Context) (domain.RefreshResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	return m.result, m.err
}

func (m *mockRefresher) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// Ensure mocks implement interfaces
var _ driven.SchedulerStore = (*mockSchedulerStore)(nil)
var _ Refresher = (*mockRefresher)(nil)

// ==================== Scheduler Tests ====================

func TestNewScheduler_Defaults(t *testing.T) {
	scheduler := NewScheduler(domain.SchedulerConfig{Enabled: true}, newMockSchedulerStore(), nil)

	require.NotNil(t, scheduler)
	assert.Equal(t, time.Minute, scheduler.config.TickInterval)
	assert.Equal(t, 100, scheduler.config.HistoryLimit)
}

func TestScheduler_StartStop(t *testing.T) {
	scheduler := NewScheduler(domain.DefaultSchedulerConfig(time.Hour), newMockSchedulerStore(), &mockRefresher{})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_ = scheduler.Start(ctx)
	}()

	time.Sleep(50 * time.Millisecond)

	require.NoError(t, scheduler.Stop())
	wg.Wait()
}

func TestScheduler_StartReturnsOnCancel(t *testing.T) {
	scheduler := NewScheduler(domain.DefaultSchedulerConfig(time.Hour), newMockSchedulerStore(), &mockRefresher{})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- scheduler.Start(ctx) }()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("scheduler did not stop after cancel")
	}
	assert.NoError(t, scheduler.Stop())
}

func TestScheduler_StopWithoutStart(t *testing.T) {
	scheduler := NewScheduler(domain.DefaultSchedulerConfig(time.Hour), newMockSchedulerStore(), nil)
	require.NoError(t, scheduler.Stop())
}

func TestScheduler_DisabledStartReturns(t *testing.T) {
	scheduler := NewScheduler(domain.SchedulerConfig{Enabled: false}, newMockSchedulerStore(), nil)
	assert.NoError(t, scheduler.Start(context.Background()))
}

func TestScheduler_InitialiseTasks(t *testing.T) {
	store := newMockSchedulerStore()
	scheduler := NewScheduler(domain.DefaultSchedulerConfig(10*time.Minute), store, nil)

	ctx := context.Background()
	require.NoError(t, scheduler.initialiseTasks(ctx))

	task, err := store.GetTask(ctx, domain.TaskIDCatalogRefresh)
	require.NoError(t, err)
	require.NotNil(t, task)
	assert.Equal(t, "Catalogue Refresh", task.Name)
	assert.Equal(t, 10*time.Minute, task.Interval)
	assert.True(t, task.Enabled)

	tasks, err := scheduler.Tasks(ctx)
	require.NoError(t, err)
	assert.Len(t, tasks, 1)
}

func TestScheduler_EnsureTask_UpdateInterval(t *testing.T) {
	store := newMockSchedulerStore()
	scheduler := NewScheduler(domain.DefaultSchedulerConfig(time.Hour), store, nil)
	ctx := context.Background()

	taskCfg := domain.TaskConfig{Enabled: true, Interval: time.Hour}
	require.NoError(t, scheduler.ensureTask(ctx, "test-task", "Test Task", taskCfg))

	taskCfg.Interval = 2 * time.Hour
	require.NoError(t, scheduler.ensureTask(ctx, "test-task", "Test Task", taskCfg))

	task, err := store.GetTask(ctx, "test-task")
	require.NoError(t, err)
	assert.Equal(t, 2*time.Hour, task.Interval)
}

func TestScheduler_EnsureTask_StoreError(t *testing.T) {
	store := newMockSchedulerStore()
	store.getErr = errors.New("db down")
	scheduler := NewScheduler(domain.DefaultSchedulerConfig(time.Hour), store, nil)

	err := scheduler.ensureTask(context.Background(), "x", "X", domain.TaskConfig{Enabled: true})
	assert.Error(t, err)
}

func TestScheduler_CheckAndRunDueTasks_RecordsResult(t *testing.T) {
	store := newMockSchedulerStore()
	refresher := &mockRefresher{result: domain.RefreshResult{Origin: domain.OriginNetwork, Count: 12}}
	scheduler := NewScheduler(domain.DefaultSchedulerConfig(time.Hour), store, refresher)
	ctx := context.Background()

	require.NoError(t, store.SaveTask(ctx, &domain.ScheduledTask{
		ID:       domain.TaskIDCatalogRefresh,
		Name:     "Catalogue Refresh",
		Interval: time.Hour,
		NextRun:  time.Now().Add(-time.Minute),
		Enabled:  true,
	}))

	scheduler.checkAndRunDueTasks(ctx)
	scheduler.wg.Wait()

	assert.Equal(t, 1, refresher.callCount())

	history := store.history(domain.TaskIDCatalogRefresh)
	require.Len(t, history, 1)
	assert.True(t, history[0].Success)
	assert.Equal(t, 12, history[0].ItemsProcessed)
	assert.Equal(t, domain.OriginNetwork, history[0].Origin)
	assert.NotEmpty(t, history[0].ID)
	assert.Equal(t, 100, store.pruned)

	task, err := store.GetTask(ctx, domain.TaskIDCatalogRefresh)
	require.NoError(t, err)
	assert.True(t, task.NextRun.After(time.Now()))
	assert.Empty(t, task.LastError)
}

func TestScheduler_CheckAndRunDueTasks_RecordsFailure(t *testing.T) {
	store := newMockSchedulerStore()
	refresher := &mockRefresher{err: errors.New("offline")}
	scheduler := NewScheduler(domain.DefaultSchedulerConfig(time.Hour), store, refresher)
	ctx := context.Background()

	require.NoError(t, store.SaveTask(ctx, &domain.ScheduledTask{
		ID: domain.TaskIDCatalogRefresh, Interval: time.Hour, Enabled: true,
	}))

	scheduler.checkAndRunDueTasks(ctx)
	scheduler.wg.Wait()

	history := store.history(domain.TaskIDCatalogRefresh)
	require.Len(t, history, 1)
	assert.False(t, history[0].Success)
	assert.Equal(t, "offline", history[0].Error)

	task, err := store.GetTask(ctx, domain.TaskIDCatalogRefresh)
	require.NoError(t, err)
	assert.Equal(t, "offline", task.LastError)
}

func TestScheduler_CheckAndRunDueTasks_SkipsFutureTasks(t *testing.T) {
	store := newMockSchedulerStore()
	refresher := &mockRefresher{}
	scheduler := NewScheduler(domain.DefaultSchedulerConfig(time.Hour), store, refresher)
	ctx := context.Background()

	require.NoError(t, store.SaveTask(ctx, &domain.ScheduledTask{
		ID: domain.TaskIDCatalogRefresh, Interval: time.Hour, Enabled: true,
		NextRun: time.Now().Add(time.Hour),
	}))

	scheduler.checkAndRunDueTasks(ctx)
	scheduler.wg.Wait()

	assert.Zero(t, refresher.callCount())
}

func TestScheduler_RunTask_UnknownTaskID(t *testing.T) {
	store := newMockSchedulerStore()
	scheduler := NewScheduler(domain.DefaultSchedulerConfig(time.Hour), store, nil)

	scheduler.runTask(context.Background(), domain.ScheduledTask{ID: "unknown-task", Enabled: true})
	scheduler.wg.Wait()

	assert.Empty(t, store.history("unknown-task"))
}

func TestScheduler_RunCatalogRefresh_NilRefresher(t *testing.T) {
	scheduler := NewScheduler(domain.DefaultSchedulerConfig(time.Hour), newMockSchedulerStore(), nil)

	var result domain.TaskResult
	assert.NoError(t, scheduler.runCatalogRefresh(context.Background(), &result))
}
