package resources

import (
	"context"
	"log/slog"

	corev1 "k8s.io/api/core/v1"
	networkingv1 "k8s.io/api/networking/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/types"
	"k8s.io/client-go/kubernetes"
)

// NetworkClient covers services, ingresses and network policies
type NetworkClient struct {
	client  kubernetes.Interface
	context string
	logger  *slog.Logger
}

// NewNetworkClient creates a network client bound to contextName
func NewNetworkClient(client kubernetes.Interface, contextName string, logger *slog.Logger) *NetworkClient {
	if logger == nil {
		logger = slog.Default()
	}
	return &NetworkClient{client: client, context: contextName, logger: logger}
}

// Context returns the kubeconfig context this client is bound to
func (c *NetworkClient) Context() string {
	return c.context
}

// ListServices lists services in namespace ("" for all namespaces)
func (c *NetworkClient) ListServices(ctx context.Context, namespace string) ([]corev1.Service, error) {
	list, err := c.client.CoreV1().Services(namespace).List(ctx, metav1.ListOptions{})
	if err != nil {
		return nil, translateError("list services", c.context, "service", "", namespace, err)
	}
	return list.Items, nil
}

// GetService fetches a single service
func (c *NetworkClient) GetService(ctx context.Context, name, namespace string) (*corev1.Service, error) {
	svc, err := c.client.CoreV1().Services(namespace).Get(ctx, name, metav1.GetOptions{})
	if err != nil {
		return nil, translateError("get service", c.context, "service", name, namespace, err)
	}
	return svc, nil
}

// DeleteService deletes a single service
func (c *NetworkClient) DeleteService(ctx context.Context, name, namespace string) error {
	err := c.client.CoreV1().Services(namespace).Delete(ctx, name, metav1.DeleteOptions{})
	return translateError("delete service", c.context, "service", name, namespace, err)
}

// PatchService applies a patch to a service
func (c *NetworkClient) PatchService(ctx context.Context, name, namespace string, pt types.PatchType, data []byte) (*corev1.Service, error) {
	svc, err := c.client.CoreV1().Services(namespace).Patch(ctx, name, pt, data, metav1.PatchOptions{})
	if err != nil {
		return nil, translateError("patch service", c.context, "service", name, namespace, err)
	}
	return svc, nil
}

// ListIngresses lists ingresses in namespace
func (c *NetworkClient) ListIngresses(ctx context.Context, namespace string) ([]networkingv1.Ingress, error) {
	list, err := c.client.NetworkingV1().Ingresses(namespace).List(ctx, metav1.ListOptions{})
	if err != nil {
		return nil, translateError("list ingresses", c.context, "ingress", "", namespace, err)
	}
	return list.Items, nil
}

// ListNetworkPolicies lists network policies in namespace
func (c *NetworkClient) ListNetworkPolicies(ctx context.Context, namespace string) ([]networkingv1.NetworkPolicy, error) {
	list, err := c.client.NetworkingV1().NetworkPolicies(namespace).List(ctx, metav1.ListOptions{})
	if err != nil {
		return nil, translateError("list network policies", c.context, "networkpolicy", "", namespace, err)
	}
	return list.Items, nil
}
