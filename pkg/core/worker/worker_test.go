package worker

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type mockReadinessWaiter struct {
	readyChan chan struct{}
}

func newMockReadinessWaiter() *mockReadinessWaiter {
	return &mockReadinessWaiter{readyChan: make(chan struct{})}
}

func (m *mockReadinessWaiter) WaitReady(ctx context.Context) error {
	select {
	case <-m.readyChan:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (m *mockReadinessWaiter) MarkReady() {
	close(m.readyChan)
}

type mockShutdowner struct {
	calls atomic.Int32
}

func (m *mockShutdowner) Shutdown(...fx.ShutdownOption) error {
	m.calls.Add(1)
	return nil
}

func newTestWorker(runFunc func(ctx context.Context) error, opts Options) (*baseWorker, *mockShutdowner, *mockReadinessWaiter) {
	sd := &mockShutdowner{}
	rw := newMockReadinessWaiter()
	return &baseWorker{
		name:       "test-worker",
		log:        zap.NewNop(),
		runFunc:    runFunc,
		shutdowner: sd,
		readiness:  rw,
		options:    opts,
	}, sd, rw
}

func TestWorkerRunsUntilStopped(t *testing.T) {
	started := make(chan struct{})
	var stopped atomic.Bool

	w, _, _ := newTestWorker(func(ctx context.Context) error {
		close(started)
		<-ctx.Done()
		stopped.Store(true)
		return nil
	}, Options{})

	w.Start()
	<-started
	w.Stop()

	assert.True(t, stopped.Load())
}

func TestWorkerWaitsForReadiness(t *testing.T) {
	var ran atomic.Bool
	done := make(chan struct{})

	w, _, rw := newTestWorker(func(ctx context.Context) error {
		ran.Store(true)
		close(done)
		return nil
	}, Options{WaitReady: true})

	w.Start()

	time.Sleep(20 * time.Millisecond)
	assert.False(t, ran.Load())

	rw.MarkReady()
	<-done
	w.Stop()

	assert.True(t, ran.Load())
}

func TestWorkerStopWhileWaitingForReadiness(t *testing.T) {
	var ran atomic.Bool

	w, _, _ := newTestWorker(func(ctx context.Context) error {
		ran.Store(true)
		return nil
	}, Options{WaitReady: true})

	w.Start()
	w.Stop()

	assert.False(t, ran.Load())
}

func TestWorkerShutdownOnError(t *testing.T) {
	t.Run("fatal error triggers shutdown when configured", func(t *testing.T) {
		w, sd, _ := newTestWorker(func(ctx context.Context) error {
			return errors.New("broker unreachable")
		}, Options{ShutdownOnError: true})

		w.Start()
		w.Stop()

		assert.Equal(t, int32(1), sd.calls.Load())
	})

	t.Run("fatal error is only logged otherwise", func(t *testing.T) {
		w, sd, _ := newTestWorker(func(ctx context.Context) error {
			return errors.New("broker unreachable")
		}, Options{})

		w.Start()
		w.Stop()

		assert.Equal(t, int32(0), sd.calls.Load())
	})
}

func TestRegisterOptions(t *testing.T) {
	opts := Options{}
	WithReady()(&opts)
	WithShutdown()(&opts)

	assert.True(t, opts.WaitReady)
	assert.True(t, opts.ShutdownOnError)
}
