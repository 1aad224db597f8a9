package cluster

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/aryankumar/fleetdeck/internal/config"
	"github.com/aryankumar/fleetdeck/internal/metrics"
	"github.com/aryankumar/fleetdeck/internal/util"
)

// Session is the single entry point for anything that changes the current
// context. Context mutations pass through a one-slot gate so that a
// read-current, mutate, act, restore sequence never interleaves with another.
//
// Anything that acts on a cluster goes through WithCurrent or WithContext so
// it never runs against handles a sweep has swapped in.
type Session struct {
	store        ContextStore
	facade       *Facade
	orchestrator *Orchestrator

	gate chan struct{}

	// mu protects holder
	mu     sync.Mutex
	holder string

	logger *slog.Logger
}

// NewSession wires a session over its collaborators
func NewSession(store ContextStore, facade *Facade, orchestrator *Orchestrator, logger *slog.Logger) *Session {
	if logger == nil {
		logger = slog.Default()
	}

	return &Session{
		store:        store,
		facade:       facade,
		orchestrator: orchestrator,
		gate:         make(chan struct{}, 1),
		logger:       logger,
	}
}

// Facade returns the facade bound to the current context
func (s *Session) Facade() *Facade {
	return s.facade
}

// Orchestrator returns the sweep orchestrator
func (s *Session) Orchestrator() *Orchestrator {
	return s.orchestrator
}

// Init builds handles for the current context, if one is set
func (s *Session) Init(ctx context.Context) error {
	name, err := s.store.CurrentName()
	if err != nil {
		return err
	}
	if name == "" {
		s.logger.Debug("no current context, handles not built")
		return nil
	}
	return s.facade.Refresh(ctx)
}

// ListContexts returns the known contexts in listing order
func (s *Session) ListContexts() ([]config.ClusterContext, error) {
	return s.store.ListContexts()
}

// Current returns the active context
func (s *Session) Current() (config.ClusterContext, error) {
	name, err := s.store.CurrentName()
	if err != nil {
		return config.ClusterContext{}, err
	}
	if name == "" {
		return config.ClusterContext{}, fmt.Errorf("no current context set: %w", util.ErrClusterNotFound)
	}
	return s.store.GetContext(name)
}

// SwitchContext makes name the permanent current context and rebuilds the
// handles. If the rebuild fails the previous context is put back, so callers
// never see a current context without matching handles.
func (s *Session) SwitchContext(ctx context.Context, name string) error {
	if err := s.acquire(ctx, "switch to "+name); err != nil {
		return err
	}
	defer s.release()

	previous, err := s.store.CurrentName()
	if err != nil {
		metrics.RecordContextSwitch(metrics.OutcomeFailure)
		return err
	}

	if err := s.store.SetCurrent(name); err != nil {
		metrics.RecordContextSwitch(metrics.OutcomeFailure)
		return err
	}

	if err := s.facade.Refresh(ctx); err != nil {
		metrics.RecordContextSwitch(metrics.OutcomeFailure)
		s.logger.Warn("refresh failed, reverting context switch",
			"context", name,
			"previous", previous,
			"error", err)

		switchErr := fmt.Errorf("failed to switch to context %q: %w", name, err)
		if previous == name {
			return switchErr
		}
		if rollbackErr := restoreCurrent(ctx, s.store, s.facade, previous); rollbackErr != nil {
			return errors.Join(switchErr, rollbackErr)
		}
		return switchErr
	}

	if previous == name {
		metrics.RecordContextSwitch(metrics.OutcomeNoop)
	} else {
		metrics.RecordContextSwitch(metrics.OutcomeSuccess)
	}
	s.logger.Info("switched context", "context", name, "previous", previous)
	return nil
}

// RemoveContext deletes a non-current context from the kubeconfig
func (s *Session) RemoveContext(ctx context.Context, name string) error {
	if err := s.acquire(ctx, "remove "+name); err != nil {
		return err
	}
	defer s.release()

	return s.store.RemoveContext(name)
}

// AddContext imports a new context into the kubeconfig
func (s *Session) AddContext(ctx context.Context, cc config.ClusterContext) error {
	if err := s.acquire(ctx, "add "+cc.Name); err != nil {
		return err
	}
	defer s.release()

	return s.store.AddContext(cc)
}

// Sweep runs a cross-cluster sweep. It fails with *util.BusyError rather
// than queue behind another context mutation.
func (s *Session) Sweep(ctx context.Context) ([]Snapshot, error) {
	if err := s.tryAcquire("sweep"); err != nil {
		metrics.RecordSweep(metrics.OutcomeRejected, 0)
		return nil, err
	}
	defer s.release()

	return s.orchestrator.Sweep(ctx)
}

// WithContext runs fn against the handles of context name and then restores
// the original current context. Fails fast with *util.BusyError when the
// session is held.
func (s *Session) WithContext(ctx context.Context, name string, fn func(ctx context.Context, h *Handles) error) (err error) {
	if err := s.tryAcquire("operation on " + name); err != nil {
		return err
	}
	defer s.release()

	original, err := s.store.CurrentName()
	if err != nil {
		return err
	}

	if original == name {
		h, err := s.bound(ctx, name)
		if err != nil {
			return err
		}
		return fn(ctx, h)
	}

	defer func() {
		if restoreErr := restoreCurrent(ctx, s.store, s.facade, original); restoreErr != nil {
			err = errors.Join(err, restoreErr)
		}
	}()

	if err := s.store.SetCurrent(name); err != nil {
		return err
	}
	if err := s.facade.Refresh(ctx); err != nil {
		return err
	}

	h, err := s.facade.Handles()
	if err != nil {
		return err
	}
	return fn(ctx, h)
}

// WithCurrent runs fn against the handles of the stored current context. It
// waits for a sweep or switch in progress to finish, so the facade is bound
// to the current context for as long as fn runs.
func (s *Session) WithCurrent(ctx context.Context, fn func(ctx context.Context, h *Handles) error) error {
	if err := s.acquire(ctx, "operation on current context"); err != nil {
		return err
	}
	defer s.release()

	name, err := s.store.CurrentName()
	if err != nil {
		return err
	}
	if name == "" {
		return fmt.Errorf("no current context set: %w", util.ErrClusterNotFound)
	}

	h, err := s.bound(ctx, name)
	if err != nil {
		return err
	}
	return fn(ctx, h)
}

// bound returns the facade's handles, rebuilding them when they are missing
// or belong to a context other than name. Callers hold the gate.
func (s *Session) bound(ctx context.Context, name string) (*Handles, error) {
	if h, err := s.facade.Handles(); err == nil && h.Context == name {
		return h, nil
	}
	if err := s.facade.Refresh(ctx); err != nil {
		return nil, err
	}
	return s.facade.Handles()
}

// acquire waits for the gate or for ctx to end
func (s *Session) acquire(ctx context.Context, op string) error {
	select {
	case s.gate <- struct{}{}:
		s.setHolder(op)
		return nil
	case <-ctx.Done():
		return fmt.Errorf("waiting to %s: %w", op, ctx.Err())
	}
}

// tryAcquire takes the gate or reports who holds it
func (s *Session) tryAcquire(op string) error {
	select {
	case s.gate <- struct{}{}:
		s.setHolder(op)
		return nil
	default:
		return &util.BusyError{Operation: op, Holder: s.Holder()}
	}
}

func (s *Session) release() {
	s.setHolder("")
	<-s.gate
}

func (s *Session) setHolder(op string) {
	s.mu.Lock()
	s.holder = op
	s.mu.Unlock()
}

// Holder names the operation holding the gate, or "" when free
func (s *Session) Holder() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.holder
}
