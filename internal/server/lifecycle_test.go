package server

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

// blockingService runs until stopped and records its stop time so tests can
// check shutdown ordering.
type blockingService struct {
	mu        sync.Mutex
	started   bool
	stoppedAt time.Time
	done      chan struct{}
}

func newBlockingService() *blockingService {
	return &blockingService{done: make(chan struct{})}
}

func (b *blockingService) Start() error {
	b.mu.Lock()
	b.started = true
	b.mu.Unlock()
	<-b.done
	return nil
}

func (b *blockingService) Stop() {
	b.mu.Lock()
	if b.stoppedAt.IsZero() {
		b.stoppedAt = time.Now()
		close(b.done)
	}
	b.mu.Unlock()
}

func (b *blockingService) snapshot() (bool, time.Time) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.started, b.stoppedAt
}

func TestLifecycleStopsInReverseOrder(t *testing.T) {
	lc := NewLifecycle(zaptest.NewLogger(t))

	pool := newBlockingService()
	listener := newBlockingService()
	lc.Add("database", pool)
	lc.Add("http", listener)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- lc.Run(ctx)
	}()

	deadline := time.After(2 * time.Second)
	for {
		poolUp, _ := pool.snapshot()
		listenerUp, _ := listener.snapshot()
		if poolUp && listenerUp {
			break
		}
		select {
		case <-deadline:
			t.Fatal("services did not start in time")
		default:
			time.Sleep(10 * time.Millisecond)
		}
	}

	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("lifecycle did not shut down in time")
	}

	_, poolStop := pool.snapshot()
	_, listenerStop := listener.snapshot()
	require.False(t, poolStop.IsZero())
	require.False(t, listenerStop.IsZero())
	assert.False(t, poolStop.Before(listenerStop),
		"pool registered first must stop after the listener")
}

func TestLifecycleShutsDownOnServiceError(t *testing.T) {
	lc := NewLifecycle(zaptest.NewLogger(t))

	healthy := newBlockingService()
	lc.Add("healthy", healthy)
	lc.Add("broken", &FuncService{
		StartFn: func() error { return assert.AnError },
		StopFn:  func() {},
	})

	done := make(chan error, 1)
	go func() {
		done <- lc.Run(context.Background())
	}()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("lifecycle did not shut down after service failure")
	}

	_, stoppedAt := healthy.snapshot()
	assert.False(t, stoppedAt.IsZero(), "healthy service stopped during shutdown")
}

func TestFuncService(t *testing.T) {
	started := false
	stopped := false

	svc := &FuncService{
		StartFn: func() error {
			started = true
			return nil
		},
		StopFn: func() {
			stopped = true
		},
	}

	require.NoError(t, svc.Start())
	assert.True(t, started)

	svc.Stop()
	assert.True(t, stopped)
}
