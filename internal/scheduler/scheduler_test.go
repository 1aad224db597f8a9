package scheduler

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aryankumar/fleetdeck/internal/cluster"
	"github.com/aryankumar/fleetdeck/internal/util"
)

type fakeSweeper struct {
	calls atomic.Int32
	err   error
}

func (f *fakeSweeper) Sweep(context.Context) ([]cluster.Snapshot, error) {
	f.calls.Add(1)
	if f.err != nil {
		return nil, f.err
	}
	return []cluster.Snapshot{{Context: "alpha", Status: cluster.StatusConnected}}, nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestNew(t *testing.T) {
	t.Parallel()

	t.Run("five field spec", func(t *testing.T) {
		t.Parallel()

		s, err := New("*/5 * * * *", &fakeSweeper{}, discardLogger())
		require.NoError(t, err)

		after := time.Date(2026, 2, 15, 7, 1, 0, 0, time.UTC)
		next := s.Next(after)
		assert.Equal(t, 5, next.Minute())
		assert.Equal(t, 7, next.Hour())
	})

	t.Run("every descriptor", func(t *testing.T) {
		t.Parallel()

		s, err := New("@every 10m", &fakeSweeper{}, discardLogger())
		require.NoError(t, err)

		after := time.Date(2026, 2, 15, 7, 0, 0, 0, time.UTC)
		assert.Equal(t, after.Add(10*time.Minute), s.Next(after))
	})

	t.Run("malformed spec", func(t *testing.T) {
		t.Parallel()

		_, err := New("every now and then", &fakeSweeper{}, discardLogger())
		require.Error(t, err)
	})
}

func TestScheduler_Tick(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		err          error
		wantRuns     int64
		wantSkipped  int64
		wantFailures int64
	}{
		{"success", nil, 1, 0, 0},
		{"busy is skipped", &util.BusyError{Operation: "sweep", Holder: "switch to prod"}, 0, 1, 0},
		{"failure", errors.New("kubeconfig unreadable"), 0, 0, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			sweeper := &fakeSweeper{err: tt.err}
			s, err := New("@every 1m", sweeper, discardLogger())
			require.NoError(t, err)

			s.tick(context.Background())

			assert.Equal(t, int32(1), sweeper.calls.Load())
			assert.Equal(t, tt.wantRuns, s.Runs())
			assert.Equal(t, tt.wantSkipped, s.Skipped())
			assert.Equal(t, tt.wantFailures, s.Failures())
		})
	}
}

func TestScheduler_RunStopsOnCancel(t *testing.T) {
	t.Parallel()

	sweeper := &fakeSweeper{}
	s, err := New("@every 1h", sweeper, discardLogger())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
	assert.Equal(t, int32(0), sweeper.calls.Load())
}

func TestScheduler_RunSweepsOnSchedule(t *testing.T) {
	t.Parallel()

	sweeper := &fakeSweeper{}
	s, err := New("@every 1s", sweeper, discardLogger())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = s.Run(ctx) }()

	require.Eventually(t, func() bool { return s.Runs() >= 1 }, 5*time.Second, 50*time.Millisecond)
}

type blockingSweeper struct {
	started  chan struct{}
	calls    atomic.Int32
	canceled atomic.Bool
}

func (b *blockingSweeper) Sweep(ctx context.Context) ([]cluster.Snapshot, error) {
	if b.calls.Add(1) == 1 {
		close(b.started)
	}
	<-ctx.Done()
	b.canceled.Store(true)
	return nil, ctx.Err()
}

func TestScheduler_RunWaitsForInFlightSweep(t *testing.T) {
	t.Parallel()

	sweeper := &blockingSweeper{started: make(chan struct{})}
	s, err := New("@every 1s", sweeper, discardLogger())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	select {
	case <-sweeper.started:
	case <-time.After(5 * time.Second):
		t.Fatal("no sweep started")
	}
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}

	assert.True(t, sweeper.canceled.Load(), "in-flight sweep should see its context cancelled")
	assert.Equal(t, int32(1), sweeper.calls.Load(), "overlapping ticks must be skipped")
	assert.Equal(t, int64(1), s.Failures())
}
