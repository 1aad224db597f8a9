package executor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

func TestNewPool(t *testing.T) {
	tests := []struct {
		name            string
		workers         int
		expectedWorkers int
	}{
		{"positive workers", 5, 5},
		{"zero workers defaults to 1", 0, 1},
		{"negative workers defaults to 1", -5, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pool := NewPool(tt.workers, nil)

			if pool.WorkerCount() != tt.expectedWorkers {
				t.Errorf("expected %d workers, got %d", tt.expectedWorkers, pool.WorkerCount())
			}
			if pool.TaskCount() != 0 {
				t.Errorf("expected 0 tasks initially, got %d", pool.TaskCount())
			}
			if pool.IsRunning() {
				t.Error("new pool should not be running")
			}
		})
	}
}

func TestPool_Submit(t *testing.T) {
	noop := func(ctx context.Context) (any, error) { return nil, nil }

	tests := []struct {
		name        string
		task        Task
		errContains string
	}{
		{name: "valid task", task: Task{Name: "nodes", Execute: noop}},
		{name: "missing name", task: Task{Execute: noop}, errContains: "name"},
		{name: "missing execute function", task: Task{Name: "nodes"}, errContains: "execute function"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pool := NewPool(1, slog.Default())
			err := pool.Submit(tt.task)

			if tt.errContains != "" {
				if err == nil || !strings.Contains(err.Error(), tt.errContains) {
					t.Fatalf("expected error containing %q, got %v", tt.errContains, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if pool.TaskCount() != 1 {
				t.Errorf("expected 1 task, got %d", pool.TaskCount())
			}
		})
	}
}

func TestPool_Submit_WhileRunning(t *testing.T) {
	pool := NewPool(1, nil)
	started := make(chan struct{})
	release := make(chan struct{})

	_ = pool.Submit(Task{Name: "slow", Execute: func(ctx context.Context) (any, error) {
		close(started)
		<-release
		return nil, nil
	}})

	done := make(chan struct{})
	go func() {
		pool.Execute(context.Background())
		close(done)
	}()

	<-started
	if err := pool.Submit(Task{Name: "late", Execute: func(ctx context.Context) (any, error) { return nil, nil }}); err == nil {
		t.Error("expected submit to fail while running")
	}
	close(release)
	<-done
}

func TestPool_Execute(t *testing.T) {
	pool := NewPool(3, nil)
	names := []string{"nodes", "pods", "namespaces", "deployments", "services"}

	for i, name := range names {
		i := i
		_ = pool.Submit(Task{Name: name, Execute: func(ctx context.Context) (any, error) {
			time.Sleep(time.Duration(5-i) * time.Millisecond)
			return i, nil
		}})
	}

	results := pool.Execute(context.Background())

	if len(results) != len(names) {
		t.Fatalf("expected %d results, got %d", len(names), len(results))
	}
	for i, r := range results {
		if r.Name != names[i] {
			t.Errorf("result %d: got name %q, want %q", i, r.Name, names[i])
		}
		if r.Error != nil {
			t.Errorf("result %d: unexpected error %v", i, r.Error)
		}
		if r.Data.(int) != i {
			t.Errorf("result %d: got data %v", i, r.Data)
		}
	}
}

func TestPool_Execute_Empty(t *testing.T) {
	results := NewPool(2, nil).Execute(context.Background())
	if len(results) != 0 {
		t.Errorf("expected no results, got %d", len(results))
	}
}

func TestPool_Execute_BoundedConcurrency(t *testing.T) {
	const workers = 2
	pool := NewPool(workers, nil)

	var inFlight, peak atomic.Int32
	for i := 0; i < 8; i++ {
		_ = pool.Submit(Task{Name: fmt.Sprintf("task-%d", i), Execute: func(ctx context.Context) (any, error) {
			n := inFlight.Add(1)
			for {
				old := peak.Load()
				if n <= old || peak.CompareAndSwap(old, n) {
					break
				}
			}
			time.Sleep(5 * time.Millisecond)
			inFlight.Add(-1)
			return nil, nil
		}})
	}

	pool.Execute(context.Background())

	if peak.Load() > workers {
		t.Errorf("observed %d concurrent tasks, limit is %d", peak.Load(), workers)
	}
}

func TestPool_Execute_ContextCancelled(t *testing.T) {
	pool := NewPool(1, nil)
	var calls atomic.Int32
	for i := 0; i < 3; i++ {
		_ = pool.Submit(Task{Name: fmt.Sprintf("task-%d", i), Execute: func(ctx context.Context) (any, error) {
			calls.Add(1)
			return nil, nil
		}})
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results := pool.Execute(ctx)

	if calls.Load() != 0 {
		t.Errorf("expected no task to run, got %d", calls.Load())
	}
	for _, r := range results {
		if !errors.Is(r.Error, context.Canceled) {
			t.Errorf("task %s: expected context.Canceled, got %v", r.Name, r.Error)
		}
	}
}

func TestPool_PartialFailures(t *testing.T) {
	pool := NewPool(4, nil)
	boom := errors.New("forbidden")

	_ = pool.Submit(Task{Name: "nodes", Execute: func(ctx context.Context) (any, error) { return nil, boom }})
	_ = pool.Submit(Task{Name: "pods", Execute: func(ctx context.Context) (any, error) { return 3, nil }})
	_ = pool.Submit(Task{Name: "metrics", Execute: func(ctx context.Context) (any, error) { return nil, boom }})

	results := pool.Execute(context.Background())

	if got := CountFailed(results); got != 2 {
		t.Errorf("expected 2 failures, got %d", got)
	}
	if results[1].Data.(int) != 3 {
		t.Error("successful task result lost")
	}
}
