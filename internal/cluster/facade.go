package cluster

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/aryankumar/fleetdeck/internal/executor"
	"github.com/aryankumar/fleetdeck/internal/util"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/apimachinery/pkg/types"
)

const defaultParallelism = 5

// Facade owns the handle set for the active context and exposes a
// kind-independent operation surface over it.
//
// Readers never block on a refresh: the handle set is swapped atomically, so
// a caller sees either the old complete set or the new complete set.
type Facade struct {
	store   ContextStore
	factory ClientFactory

	handles atomic.Pointer[Handles]

	// mu serialises rebuilds
	mu sync.Mutex

	parallel int
	logger   *slog.Logger
	now      func() time.Time
}

// FacadeOption configures a Facade
type FacadeOption func(*Facade)

// WithClientFactory replaces the factory used to build clientsets
func WithClientFactory(factory ClientFactory) FacadeOption {
	return func(f *Facade) {
		if factory != nil {
			f.factory = factory
		}
	}
}

// WithParallelism bounds concurrent sub-fetches of GetAggregateMetrics
func WithParallelism(n int) FacadeOption {
	return func(f *Facade) {
		if n > 0 {
			f.parallel = n
		}
	}
}

// WithLogger sets the logger
func WithLogger(logger *slog.Logger) FacadeOption {
	return func(f *Facade) {
		if logger != nil {
			f.logger = logger
		}
	}
}

// NewFacade creates a facade over store. No handles exist until Refresh.
func NewFacade(store ContextStore, opts ...FacadeOption) *Facade {
	f := &Facade{
		store:    store,
		factory:  DefaultClientFactory,
		parallel: defaultParallelism,
		logger:   slog.Default(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Refresh rebuilds every handle from the store's current context and installs
// the new set in one step. Calling it repeatedly is harmless.
func (f *Facade) Refresh(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	name, err := f.store.CurrentName()
	if err != nil {
		return fmt.Errorf("failed to read current context: %w", err)
	}
	if name == "" {
		return fmt.Errorf("no current context set: %w", util.ErrClusterNotFound)
	}

	cc, err := f.store.GetContext(name)
	if err != nil {
		return err
	}

	restConfig, err := f.store.RESTConfig(name)
	if err != nil {
		return err
	}

	clientsets, err := f.factory.NewClientsets(name, restConfig)
	if err != nil {
		return err
	}

	f.handles.Store(NewHandles(name, cc.Namespace, restConfig, clientsets, f.logger))

	f.logger.Debug("client handles rebuilt", "context", name, "server", restConfig.Host)
	return nil
}

// Reset drops the handle set. Handles fails until the next Refresh.
func (f *Facade) Reset() {
	f.handles.Store(nil)
}

// Handles returns the handle set for the active context
func (f *Facade) Handles() (*Handles, error) {
	h := f.handles.Load()
	if h == nil {
		return nil, util.ErrNotRefreshed
	}
	return h, nil
}

// DeleteResourceByName parses kind and deletes. Unknown kinds fail before any API call.
func (f *Facade) DeleteResourceByName(ctx context.Context, kind, name, namespace string) error {
	k, err := ParseKind(kind)
	if err != nil {
		return withOperation(err, "delete")
	}
	return f.DeleteResource(ctx, k, name, namespace)
}

// DeleteResource deletes one object. An empty namespace means the context's default.
func (f *Facade) DeleteResource(ctx context.Context, kind Kind, name, namespace string) error {
	if !kind.Valid() {
		return &util.UnsupportedKindError{Kind: kind.String(), Operation: "delete"}
	}

	h, err := f.Handles()
	if err != nil {
		return err
	}
	namespace = h.NamespaceOr(namespace)

	switch kind {
	case KindPod:
		err = h.Workloads.DeletePod(ctx, name, namespace)
	case KindDeployment:
		err = h.Workloads.DeleteDeployment(ctx, name, namespace)
	case KindService:
		err = h.Network.DeleteService(ctx, name, namespace)
	case KindConfigMap:
		err = h.Config.DeleteConfigMap(ctx, name, namespace)
	case KindSecret:
		err = h.Config.DeleteSecret(ctx, name, namespace)
	}
	if err != nil {
		return err
	}

	f.logger.Info("deleted resource",
		"context", h.Context,
		"kind", kind.String(),
		"namespace", namespace,
		"name", name)
	return nil
}

// Get fetches one object as its typed API struct
func (f *Facade) Get(ctx context.Context, kind Kind, name, namespace string) (runtime.Object, error) {
	if !kind.Valid() {
		return nil, &util.UnsupportedKindError{Kind: kind.String(), Operation: "get"}
	}

	h, err := f.Handles()
	if err != nil {
		return nil, err
	}
	namespace = h.NamespaceOr(namespace)

	switch kind {
	case KindPod:
		return h.Workloads.GetPod(ctx, name, namespace)
	case KindDeployment:
		return h.Workloads.GetDeployment(ctx, name, namespace)
	case KindService:
		return h.Network.GetService(ctx, name, namespace)
	case KindConfigMap:
		return h.Config.GetConfigMap(ctx, name, namespace)
	default:
		return h.Config.GetSecret(ctx, name, namespace)
	}
}

// List returns one summary row per object. allNamespaces ignores namespace.
func (f *Facade) List(ctx context.Context, kind Kind, namespace string, allNamespaces bool) ([]ResourceSummary, error) {
	if !kind.Valid() {
		return nil, &util.UnsupportedKindError{Kind: kind.String(), Operation: "list"}
	}

	h, err := f.Handles()
	if err != nil {
		return nil, err
	}
	if allNamespaces {
		namespace = metav1.NamespaceAll
	} else {
		namespace = h.NamespaceOr(namespace)
	}

	switch kind {
	case KindPod:
		pods, err := h.Workloads.ListPods(ctx, namespace, metav1.ListOptions{})
		if err != nil {
			return nil, err
		}
		out := make([]ResourceSummary, 0, len(pods))
		for i := range pods {
			out = append(out, summarizePod(&pods[i]))
		}
		return out, nil
	case KindDeployment:
		deployments, err := h.Workloads.ListDeployments(ctx, namespace)
		if err != nil {
			return nil, err
		}
		out := make([]ResourceSummary, 0, len(deployments))
		for i := range deployments {
			out = append(out, summarizeDeployment(&deployments[i]))
		}
		return out, nil
	case KindService:
		services, err := h.Network.ListServices(ctx, namespace)
		if err != nil {
			return nil, err
		}
		out := make([]ResourceSummary, 0, len(services))
		for i := range services {
			out = append(out, summarizeService(&services[i]))
		}
		return out, nil
	case KindConfigMap:
		configMaps, err := h.Config.ListConfigMaps(ctx, namespace)
		if err != nil {
			return nil, err
		}
		out := make([]ResourceSummary, 0, len(configMaps))
		for i := range configMaps {
			out = append(out, summarizeConfigMap(&configMaps[i]))
		}
		return out, nil
	default:
		secrets, err := h.Config.ListSecrets(ctx, namespace)
		if err != nil {
			return nil, err
		}
		out := make([]ResourceSummary, 0, len(secrets))
		for i := range secrets {
			out = append(out, summarizeSecret(&secrets[i]))
		}
		return out, nil
	}
}

// Scale sets the replica count. Only deployments scale.
func (f *Facade) Scale(ctx context.Context, kind Kind, name, namespace string, replicas int32) error {
	if kind != KindDeployment {
		return &util.UnsupportedKindError{Kind: kind.String(), Operation: "scale"}
	}

	h, err := f.Handles()
	if err != nil {
		return err
	}
	return h.Workloads.ScaleDeployment(ctx, name, h.NamespaceOr(namespace), replicas)
}

// Patch applies a patch of type pt to one object
func (f *Facade) Patch(ctx context.Context, kind Kind, name, namespace string, pt types.PatchType, data []byte) (runtime.Object, error) {
	if !kind.Valid() {
		return nil, &util.UnsupportedKindError{Kind: kind.String(), Operation: "patch"}
	}

	h, err := f.Handles()
	if err != nil {
		return nil, err
	}
	namespace = h.NamespaceOr(namespace)

	switch kind {
	case KindPod:
		return h.Workloads.PatchPod(ctx, name, namespace, pt, data)
	case KindDeployment:
		return h.Workloads.PatchDeployment(ctx, name, namespace, pt, data)
	case KindService:
		return h.Network.PatchService(ctx, name, namespace, pt, data)
	case KindConfigMap:
		return h.Config.PatchConfigMap(ctx, name, namespace, pt, data)
	default:
		return h.Config.PatchSecret(ctx, name, namespace, pt, data)
	}
}

// Sub-fetch names used in aggregate metrics and partial failures
const (
	sourceNodes       = "nodes"
	sourcePods        = "pods"
	sourceNamespaces  = "namespaces"
	sourceDeployments = "deployments"
	sourceServices    = "services"
	sourceNodeMetrics = "node-metrics"
)

// GetAggregateMetrics gathers counts and CPU/memory totals for the active
// cluster. Sub-fetches run concurrently. If any of them fails the result is
// *util.PartialFailureError naming every failed source, never a partial total.
func (f *Facade) GetAggregateMetrics(ctx context.Context) (*AggregateMetrics, error) {
	h, err := f.Handles()
	if err != nil {
		return nil, err
	}

	pool := executor.NewPool(f.parallel, f.logger)
	tasks := []executor.Task{
		{Name: sourceNodes, Execute: func(ctx context.Context) (any, error) {
			return h.Cluster.ListNodes(ctx)
		}},
		{Name: sourcePods, Execute: func(ctx context.Context) (any, error) {
			return h.Workloads.ListPods(ctx, metav1.NamespaceAll, metav1.ListOptions{})
		}},
		{Name: sourceNamespaces, Execute: func(ctx context.Context) (any, error) {
			return h.Cluster.ListNamespaces(ctx)
		}},
		{Name: sourceDeployments, Execute: func(ctx context.Context) (any, error) {
			return h.Workloads.ListDeployments(ctx, metav1.NamespaceAll)
		}},
		{Name: sourceServices, Execute: func(ctx context.Context) (any, error) {
			return h.Network.ListServices(ctx, metav1.NamespaceAll)
		}},
		{Name: sourceNodeMetrics, Execute: func(ctx context.Context) (any, error) {
			return h.Cluster.NodeMetrics(ctx)
		}},
	}
	for _, task := range tasks {
		if err := pool.Submit(task); err != nil {
			return nil, err
		}
	}

	results := pool.Execute(ctx)
	if executor.HasErrors(results) {
		failed := executor.FailedNames(results)
		f.logger.Warn("aggregate metrics incomplete", "context", h.Context, "failed", failed)
		return nil, &util.PartialFailureError{
			Failed: failed,
			Err:    util.NewMultiError(executor.GetErrors(results)),
		}
	}

	return buildAggregate(h.Context, executor.ByName(results), f.now()), nil
}

// NamespaceOr returns ns, or the context default when ns is empty
func (h *Handles) NamespaceOr(ns string) string {
	if ns != "" {
		return ns
	}
	if h.Namespace != "" {
		return h.Namespace
	}
	return metav1.NamespaceDefault
}

// withOperation fills in the operation on an UnsupportedKindError
func withOperation(err error, op string) error {
	if unsupported, ok := err.(*util.UnsupportedKindError); ok {
		unsupported.Operation = op
	}
	return err
}
