package resources

import (
	"context"
	"errors"
	"log/slog"

	"github.com/aryankumar/fleetdeck/internal/util"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes"
	metricsv1beta1 "k8s.io/metrics/pkg/apis/metrics/v1beta1"
	metricsclientset "k8s.io/metrics/pkg/client/clientset/versioned"
)

// ErrMetricsUnavailable is returned when no metrics client was configured
var ErrMetricsUnavailable = errors.New("metrics API client not configured")

// ClusterClient covers cluster-scoped objects: nodes, namespaces, quotas and node usage
type ClusterClient struct {
	client  kubernetes.Interface
	metrics metricsclientset.Interface
	context string
	logger  *slog.Logger
}

// NewClusterClient creates a cluster client bound to contextName.
// metrics may be nil when the metrics API is not wanted.
func NewClusterClient(client kubernetes.Interface, metrics metricsclientset.Interface, contextName string, logger *slog.Logger) *ClusterClient {
	if logger == nil {
		logger = slog.Default()
	}
	return &ClusterClient{client: client, metrics: metrics, context: contextName, logger: logger}
}

// Context returns the kubeconfig context this client is bound to
func (c *ClusterClient) Context() string {
	return c.context
}

// ListNodes lists all nodes
func (c *ClusterClient) ListNodes(ctx context.Context) ([]corev1.Node, error) {
	list, err := c.client.CoreV1().Nodes().List(ctx, metav1.ListOptions{})
	if err != nil {
		return nil, translateError("list nodes", c.context, "node", "", "", err)
	}
	return list.Items, nil
}

// ListNamespaces lists all namespaces
func (c *ClusterClient) ListNamespaces(ctx context.Context) ([]corev1.Namespace, error) {
	list, err := c.client.CoreV1().Namespaces().List(ctx, metav1.ListOptions{})
	if err != nil {
		return nil, translateError("list namespaces", c.context, "namespace", "", "", err)
	}
	return list.Items, nil
}

// ListResourceQuotas lists quotas in namespace ("" for all namespaces)
func (c *ClusterClient) ListResourceQuotas(ctx context.Context, namespace string) ([]corev1.ResourceQuota, error) {
	list, err := c.client.CoreV1().ResourceQuotas(namespace).List(ctx, metav1.ListOptions{})
	if err != nil {
		return nil, translateError("list resourcequotas", c.context, "resourcequota", "", namespace, err)
	}
	return list.Items, nil
}

// NodeMetrics returns current CPU and memory usage per node from metrics-server
func (c *ClusterClient) NodeMetrics(ctx context.Context) ([]metricsv1beta1.NodeMetrics, error) {
	if c.metrics == nil {
		return nil, util.NewTransportError("list node metrics", c.context, ErrMetricsUnavailable)
	}

	list, err := c.metrics.MetricsV1beta1().NodeMetricses().List(ctx, metav1.ListOptions{})
	if err != nil {
		return nil, translateError("list node metrics", c.context, "nodemetrics", "", "", err)
	}
	return list.Items, nil
}
