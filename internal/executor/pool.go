package executor

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"
)

// Task is one named unit of work, such as a single list call feeding an aggregate
type Task struct {
	// Name identifies the task in results and errors (e.g. "nodes", "pods")
	Name string

	// Execute performs the work and returns its data or an error
	Execute func(ctx context.Context) (any, error)
}

// Result represents the outcome of executing a task
type Result struct {
	// Name is the task name this result belongs to
	Name string

	// Data contains the successful result data (nil if error occurred)
	Data any

	// Error contains any error that occurred during execution (nil if successful)
	Error error

	// Duration is how long the task took to execute
	Duration time.Duration
}

// Pool runs a batch of tasks with bounded concurrency.
// A pool executes one batch at a time; Submit is rejected while it runs.
type Pool struct {
	workers int

	// mu protects tasks
	mu    sync.Mutex
	tasks []Task

	logger  *slog.Logger
	running atomic.Bool
}

// NewPool creates a new worker pool with the specified number of workers.
// workers <= 0 defaults to 1.
func NewPool(workers int, logger *slog.Logger) *Pool {
	if workers <= 0 {
		workers = 1
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &Pool{
		workers: workers,
		tasks:   make([]Task, 0),
		logger:  logger,
	}
}

// Submit adds a task to the pool's queue
func (p *Pool) Submit(task Task) error {
	if p.running.Load() {
		return fmt.Errorf("pool is running, cannot submit new tasks")
	}

	if task.Name == "" {
		return fmt.Errorf("task must have a name")
	}
	if task.Execute == nil {
		return fmt.Errorf("task %q must have an execute function", task.Name)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	p.tasks = append(p.tasks, task)
	p.logger.Debug("task submitted", "task", task.Name, "total_tasks", len(p.tasks))

	return nil
}

// Execute runs all submitted tasks and returns one result per task in submission order.
// Tasks that never started because ctx ended get a result carrying ctx.Err().
func (p *Pool) Execute(ctx context.Context) []Result {
	if !p.running.CompareAndSwap(false, true) {
		p.logger.Error("pool is already running")
		return []Result{}
	}
	defer p.running.Store(false)

	p.mu.Lock()
	tasks := make([]Task, len(p.tasks))
	copy(tasks, p.tasks)
	p.mu.Unlock()

	if len(tasks) == 0 {
		p.logger.Debug("no tasks to execute")
		return []Result{}
	}

	startTime := time.Now()

	workerCount := p.workers
	if workerCount > len(tasks) {
		workerCount = len(tasks)
	}

	taskChan := make(chan int, len(tasks))
	for i := range tasks {
		taskChan <- i
	}
	close(taskChan)

	results := make([]Result, len(tasks))
	var wg sync.WaitGroup

	for w := 0; w < workerCount; w++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			for idx := range taskChan {
				results[idx] = p.executeTask(ctx, workerID, tasks[idx])
			}
		}(w)
	}

	wg.Wait()

	p.logger.Debug("task execution completed",
		"total", len(tasks),
		"failed", CountFailed(results),
		"duration", time.Since(startTime))

	return results
}

// executeTask executes a single task and returns the result
func (p *Pool) executeTask(ctx context.Context, workerID int, task Task) Result {
	startTime := time.Now()

	if err := ctx.Err(); err != nil {
		return Result{
			Name:  task.Name,
			Error: fmt.Errorf("task not executed: %w", err),
		}
	}

	data, err := task.Execute(ctx)
	duration := time.Since(startTime)

	if err != nil {
		p.logger.Debug("task failed",
			"worker_id", workerID,
			"task", task.Name,
			"error", err,
			"duration", duration)
	}

	return Result{
		Name:     task.Name,
		Data:     data,
		Error:    err,
		Duration: duration,
	}
}

// IsRunning returns true if the pool is currently executing tasks
func (p *Pool) IsRunning() bool {
	return p.running.Load()
}

// TaskCount returns the number of tasks currently queued
func (p *Pool) TaskCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.tasks)
}

// WorkerCount returns the number of workers in the pool
func (p *Pool) WorkerCount() int {
	return p.workers
}
