package cluster

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/aryankumar/fleetdeck/internal/metrics"
	"golang.org/x/sync/errgroup"
	corev1 "k8s.io/api/core/v1"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/util/wait"
	"k8s.io/client-go/util/retry"
)

// Phase is the sweep state machine position
type Phase int32

const (
	PhaseIdle Phase = iota
	PhaseSwitching
	PhaseProbing
	PhaseRecording
	PhaseRestoring
)

var phaseNames = [...]string{"idle", "switching", "probing", "recording", "restoring"}

func (p Phase) String() string {
	if p < 0 || int(p) >= len(phaseNames) {
		return fmt.Sprintf("phase(%d)", int32(p))
	}
	return phaseNames[p]
}

// Orchestrator walks every known context, probes it and restores the
// original current context afterwards.
//
// It does not serialise itself against other context mutations; callers go
// through Session for that.
type Orchestrator struct {
	store  ContextStore
	facade *Facade

	probeTimeout time.Duration
	backoff      wait.Backoff

	phase atomic.Int32
	last  atomic.Pointer[[]Snapshot]

	logger *slog.Logger
	now    func() time.Time
}

// NewOrchestrator creates a sweep orchestrator. probeTimeout bounds each
// context's probe; probeRetries is the number of extra attempts per read.
func NewOrchestrator(store ContextStore, facade *Facade, probeTimeout time.Duration, probeRetries int, logger *slog.Logger) *Orchestrator {
	if logger == nil {
		logger = slog.Default()
	}
	if probeTimeout <= 0 {
		probeTimeout = 10 * time.Second
	}
	if probeRetries < 0 {
		probeRetries = 0
	}

	return &Orchestrator{
		store:        store,
		facade:       facade,
		probeTimeout: probeTimeout,
		backoff: wait.Backoff{
			Steps:    probeRetries + 1,
			Duration: 200 * time.Millisecond,
			Factor:   2.0,
			Jitter:   0.1,
		},
		logger: logger,
		now:    time.Now,
	}
}

// Phase reports where the running sweep is, or PhaseIdle
func (o *Orchestrator) Phase() Phase {
	return Phase(o.phase.Load())
}

func (o *Orchestrator) setPhase(p Phase) {
	o.phase.Store(int32(p))
}

// LastSnapshots returns the result of the most recent completed sweep
func (o *Orchestrator) LastSnapshots() []Snapshot {
	last := o.last.Load()
	if last == nil {
		return nil
	}
	out := make([]Snapshot, len(*last))
	copy(out, *last)
	return out
}

// Sweep probes every context in listing order and returns one snapshot each.
//
// A failing context is recorded as disconnected and the loop moves on. The
// original current context is restored exactly once on every exit path; a
// restore failure is returned alongside the snapshots.
func (o *Orchestrator) Sweep(ctx context.Context) (snapshots []Snapshot, err error) {
	start := time.Now()

	original, err := o.store.CurrentName()
	if err != nil {
		metrics.RecordSweep(metrics.OutcomeFailure, time.Since(start))
		return nil, fmt.Errorf("failed to capture current context: %w", err)
	}

	contexts, err := o.store.ListContexts()
	if err != nil {
		metrics.RecordSweep(metrics.OutcomeFailure, time.Since(start))
		return nil, fmt.Errorf("failed to list contexts: %w", err)
	}

	o.logger.Info("starting sweep", "contexts", len(contexts), "original", original)

	defer func() {
		o.setPhase(PhaseRestoring)
		if restoreErr := o.restore(ctx, original); restoreErr != nil {
			o.logger.Error("failed to restore context after sweep",
				"original", original,
				"error", restoreErr)
			err = errors.Join(err, restoreErr)
		}
		o.setPhase(PhaseIdle)
		metrics.RecordSweep(metrics.OutcomeOf(err), time.Since(start))
	}()

	snapshots = make([]Snapshot, 0, len(contexts))
	for _, cc := range contexts {
		snapshots = append(snapshots, o.sweepOne(ctx, cc.Name))
	}

	stored := make([]Snapshot, len(snapshots))
	copy(stored, snapshots)
	o.last.Store(&stored)

	o.logger.Info("sweep finished",
		"contexts", len(snapshots),
		"disconnected", countDisconnected(snapshots),
		"duration", time.Since(start))

	return snapshots, nil
}

// sweepOne switches to name, rebuilds handles and probes
func (o *Orchestrator) sweepOne(ctx context.Context, name string) Snapshot {
	o.setPhase(PhaseSwitching)

	snap, err := o.switchAndProbe(ctx, name)

	o.setPhase(PhaseRecording)
	if err != nil {
		o.logger.Warn("context unreachable", "context", name, "error", err)
		snap = disconnected(name, err, o.now())
	} else {
		o.logger.Debug("context probed",
			"context", name,
			"nodes", snap.NodeCount,
			"pods", snap.PodCount,
			"namespaces", snap.NamespaceCount)
	}
	metrics.RecordProbe(name, string(snap.Status))

	return snap
}

func (o *Orchestrator) switchAndProbe(ctx context.Context, name string) (Snapshot, error) {
	if err := o.store.SetCurrent(name); err != nil {
		return Snapshot{}, err
	}
	if err := o.facade.Refresh(ctx); err != nil {
		return Snapshot{}, err
	}

	h, err := o.facade.Handles()
	if err != nil {
		return Snapshot{}, err
	}
	if h.Context != name {
		return Snapshot{}, fmt.Errorf("handles bound to %q while probing %q", h.Context, name)
	}

	o.setPhase(PhaseProbing)
	return o.probe(ctx, h)
}

// probe lists nodes, pods and namespaces concurrently under one deadline
func (o *Orchestrator) probe(ctx context.Context, h *Handles) (Snapshot, error) {
	probeCtx, cancel := context.WithTimeout(ctx, o.probeTimeout)
	defer cancel()

	var (
		nodes      []corev1.Node
		pods       []corev1.Pod
		namespaces []corev1.Namespace
	)

	g, gctx := errgroup.WithContext(probeCtx)
	g.Go(func() error {
		return o.read(func() (err error) {
			nodes, err = h.Cluster.ListNodes(gctx)
			return err
		})
	})
	g.Go(func() error {
		return o.read(func() (err error) {
			pods, err = h.Workloads.ListPods(gctx, metav1.NamespaceAll, metav1.ListOptions{})
			return err
		})
	})
	g.Go(func() error {
		return o.read(func() (err error) {
			namespaces, err = h.Cluster.ListNamespaces(gctx)
			return err
		})
	})

	if err := g.Wait(); err != nil {
		return Snapshot{}, err
	}

	snap := Snapshot{
		Context:        h.Context,
		Status:         StatusConnected,
		NodeCount:      len(nodes),
		PodCount:       len(pods),
		NamespaceCount: len(namespaces),
		LastChecked:    o.now(),
	}
	if len(nodes) > 0 {
		snap.KubeletVersion = nodes[0].Status.NodeInfo.KubeletVersion
	}
	return snap, nil
}

// read retries fn on transient API errors. Only reads go through here.
func (o *Orchestrator) read(fn func() error) error {
	return retry.OnError(o.backoff, isTransient, fn)
}

func isTransient(err error) bool {
	return apierrors.IsTimeout(err) ||
		apierrors.IsServerTimeout(err) ||
		apierrors.IsTooManyRequests(err) ||
		apierrors.IsServiceUnavailable(err) ||
		apierrors.IsInternalError(err)
}

func (o *Orchestrator) restore(ctx context.Context, original string) error {
	return restoreCurrent(ctx, o.store, o.facade, original)
}

// restoreCurrent puts original back as the current context and rebuilds the
// handles. An empty original means none was set, so current-context is
// cleared and the handles dropped. It runs even when ctx is already done.
func restoreCurrent(ctx context.Context, store ContextStore, facade *Facade, original string) error {
	ctx = context.WithoutCancel(ctx)

	if original == "" {
		if err := store.ClearCurrent(); err != nil {
			return fmt.Errorf("failed to clear current context: %w", err)
		}
		facade.Reset()
		return nil
	}

	if err := store.SetCurrent(original); err != nil {
		return fmt.Errorf("failed to restore context %q: %w", original, err)
	}
	if err := facade.Refresh(ctx); err != nil {
		return fmt.Errorf("failed to refresh restored context %q: %w", original, err)
	}
	return nil
}

func countDisconnected(snapshots []Snapshot) int {
	n := 0
	for _, s := range snapshots {
		if s.Status == StatusDisconnected {
			n++
		}
	}
	return n
}
