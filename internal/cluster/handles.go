package cluster

import (
	"fmt"
	"log/slog"

	"github.com/aryankumar/fleetdeck/internal/resources"
	"github.com/aryankumar/fleetdeck/pkg/version"
	"k8s.io/client-go/kubernetes"
	"k8s.io/client-go/rest"
	metricsclientset "k8s.io/metrics/pkg/client/clientset/versioned"
)

// Handles is the immutable set of domain clients bound to one context.
// A new set replaces the old one on every refresh; a set is never mutated.
type Handles struct {
	// Context is the kubeconfig context the set was built for
	Context string

	// Namespace is the context's default namespace
	Namespace string

	RestConfig *rest.Config

	Workloads *resources.WorkloadClient
	Network   *resources.NetworkClient
	Storage   *resources.StorageClient
	Config    *resources.ConfigClient
	RBAC      *resources.RBACClient
	Cluster   *resources.ClusterClient
}

// Handles returns h itself so a fixed set can stand in for a facade
func (h *Handles) Handles() (*Handles, error) {
	return h, nil
}

// Clientsets are the raw API clients for one context
type Clientsets struct {
	Kube kubernetes.Interface

	// Metrics may be nil when metrics-server is not wanted
	Metrics metricsclientset.Interface
}

// ClientFactory builds the raw API clients for a context
type ClientFactory interface {
	NewClientsets(contextName string, restConfig *rest.Config) (*Clientsets, error)
}

// ClientFactoryFunc adapts a function to ClientFactory
type ClientFactoryFunc func(contextName string, restConfig *rest.Config) (*Clientsets, error)

// NewClientsets calls f
func (f ClientFactoryFunc) NewClientsets(contextName string, restConfig *rest.Config) (*Clientsets, error) {
	return f(contextName, restConfig)
}

// DefaultClientFactory creates real clientsets from the rest config
var DefaultClientFactory ClientFactory = ClientFactoryFunc(func(contextName string, restConfig *rest.Config) (*Clientsets, error) {
	if restConfig == nil {
		return nil, fmt.Errorf("rest config cannot be nil")
	}
	if restConfig.UserAgent == "" {
		restConfig = rest.CopyConfig(restConfig)
		restConfig.UserAgent = version.UserAgent()
	}

	kube, err := kubernetes.NewForConfig(restConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create clientset for context %q: %w", contextName, err)
	}

	metrics, err := metricsclientset.NewForConfig(restConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create metrics clientset for context %q: %w", contextName, err)
	}

	return &Clientsets{Kube: kube, Metrics: metrics}, nil
})

// NewHandles wires the six domain clients over the given clientsets
func NewHandles(contextName, namespace string, restConfig *rest.Config, cs *Clientsets, logger *slog.Logger) *Handles {
	if logger == nil {
		logger = slog.Default()
	}

	return &Handles{
		Context:    contextName,
		Namespace:  namespace,
		RestConfig: restConfig,
		Workloads:  resources.NewWorkloadClient(cs.Kube, contextName, logger),
		Network:    resources.NewNetworkClient(cs.Kube, contextName, logger),
		Storage:    resources.NewStorageClient(cs.Kube, contextName, logger),
		Config:     resources.NewConfigClient(cs.Kube, contextName, logger),
		RBAC:       resources.NewRBACClient(cs.Kube, contextName, logger),
		Cluster:    resources.NewClusterClient(cs.Kube, cs.Metrics, contextName, logger),
	}
}
