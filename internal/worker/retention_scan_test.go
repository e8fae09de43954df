package worker

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/ignite/crm-retention/internal/domain"
	"github.com/ignite/crm-retention/internal/service/retention"
)

type fakePlanner struct {
	mu    sync.Mutex
	calls int
	reqs  []retention.PlanRequest
	err   error
}

func (f *fakePlanner) Plan(_ context.Context, req retention.PlanRequest) (*retention.Plan, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.reqs = append(f.reqs, req)
	if f.err != nil {
		return nil, f.err
	}
	return &retention.Plan{RunID: "run", Action: req.Action}, nil
}

func (f *fakePlanner) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type fakeReloader struct {
	mu    sync.Mutex
	calls int
	err   error
}

func (f *fakeReloader) Reload(context.Context) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return 0, f.err
}

func TestRetentionScanWorker_RunsImmediatelyAndOnTick(t *testing.T) {
	defer goleak.VerifyNone(t)
	planner := &fakePlanner{}
	reloader := &fakeReloader{}
	w := NewRetentionScanWorker(planner, reloader, domain.GDPRFullyDelete, 10*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		w.Start(ctx)
		close(done)
	}()

	require.Eventually(t, func() bool { return planner.count() >= 3 }, time.Second, 5*time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("worker did not stop after cancel")
	}

	planner.mu.Lock()
	defer planner.mu.Unlock()
	assert.Equal(t, domain.GDPRFullyDelete, planner.reqs[0].Action)

	reloader.mu.Lock()
	defer reloader.mu.Unlock()
	assert.GreaterOrEqual(t, reloader.calls, 3)
}

func TestRetentionScanWorker_ReloadFailureStillPlans(t *testing.T) {
	planner := &fakePlanner{}
	w := NewRetentionScanWorker(planner, &fakeReloader{err: errors.New("s3 unavailable")}, domain.GDPRAnonymize, time.Hour)

	var got *retention.Plan
	w.onPlan = func(p *retention.Plan) { got = p }
	w.scan(context.Background())

	assert.Equal(t, 1, planner.count())
	require.NotNil(t, got)
	assert.Equal(t, domain.GDPRAnonymize, got.Action)
}

func TestRetentionScanWorker_SkipsWhenLocked(t *testing.T) {
	planner := &fakePlanner{err: retention.ErrRunInProgress}
	w := NewRetentionScanWorker(planner, nil, domain.GDPRAnonymize, time.Hour)

	called := false
	w.onPlan = func(*retention.Plan) { called = true }
	w.scan(context.Background())

	assert.Equal(t, 1, planner.count())
	assert.False(t, called)
}

func TestNewRetentionScanWorker_DefaultInterval(t *testing.T) {
	w := NewRetentionScanWorker(&fakePlanner{}, nil, domain.GDPRAnonymize, 0)
	assert.Equal(t, DefaultScanInterval, w.interval)
}

func TestRetentionScanWorker_StartScheduled(t *testing.T) {
	defer goleak.VerifyNone(t)
	planner := &fakePlanner{}
	w := NewRetentionScanWorker(planner, nil, domain.GDPRAnonymize, time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.StartScheduled(ctx, "@every 1s") }()

	require.Eventually(t, func() bool { return planner.count() >= 1 }, 3*time.Second, 20*time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("scheduler did not stop after cancel")
	}
}

func TestRetentionScanWorker_InvalidSchedule(t *testing.T) {
	w := NewRetentionScanWorker(&fakePlanner{}, nil, domain.GDPRAnonymize, time.Hour)
	err := w.StartScheduled(context.Background(), "not a schedule")
	assert.ErrorContains(t, err, "invalid scan schedule")
}
