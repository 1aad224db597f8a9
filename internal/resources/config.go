package resources

import (
	"context"
	"log/slog"

	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/types"
	"k8s.io/client-go/kubernetes"
)

// ConfigClient covers config maps and secrets
type ConfigClient struct {
	client  kubernetes.Interface
	context string
	logger  *slog.Logger
}

// NewConfigClient creates a config client bound to contextName
func NewConfigClient(client kubernetes.Interface, contextName string, logger *slog.Logger) *ConfigClient {
	if logger == nil {
		logger = slog.Default()
	}
	return &ConfigClient{client: client, context: contextName, logger: logger}
}

// Context returns the kubeconfig context this client is bound to
func (c *ConfigClient) Context() string {
	return c.context
}

// ListConfigMaps lists config maps in namespace ("" for all namespaces)
func (c *ConfigClient) ListConfigMaps(ctx context.Context, namespace string) ([]corev1.ConfigMap, error) {
	list, err := c.client.CoreV1().ConfigMaps(namespace).List(ctx, metav1.ListOptions{})
	if err != nil {
		return nil, translateError("list configmaps", c.context, "configmap", "", namespace, err)
	}
	return list.Items, nil
}

// GetConfigMap fetches a single config map
func (c *ConfigClient) GetConfigMap(ctx context.Context, name, namespace string) (*corev1.ConfigMap, error) {
	cm, err := c.client.CoreV1().ConfigMaps(namespace).Get(ctx, name, metav1.GetOptions{})
	if err != nil {
		return nil, translateError("get configmap", c.context, "configmap", name, namespace, err)
	}
	return cm, nil
}

// DeleteConfigMap deletes a single config map
func (c *ConfigClient) DeleteConfigMap(ctx context.Context, name, namespace string) error {
	err := c.client.CoreV1().ConfigMaps(namespace).Delete(ctx, name, metav1.DeleteOptions{})
	return translateError("delete configmap", c.context, "configmap", name, namespace, err)
}

// PatchConfigMap applies a patch to a config map
func (c *ConfigClient) PatchConfigMap(ctx context.Context, name, namespace string, pt types.PatchType, data []byte) (*corev1.ConfigMap, error) {
	cm, err := c.client.CoreV1().ConfigMaps(namespace).Patch(ctx, name, pt, data, metav1.PatchOptions{})
	if err != nil {
		return nil, translateError("patch configmap", c.context, "configmap", name, namespace, err)
	}
	return cm, nil
}

// ListSecrets lists secrets in namespace ("" for all namespaces)
func (c *ConfigClient) ListSecrets(ctx context.Context, namespace string) ([]corev1.Secret, error) {
	list, err := c.client.CoreV1().Secrets(namespace).List(ctx, metav1.ListOptions{})
	if err != nil {
		return nil, translateError("list secrets", c.context, "secret", "", namespace, err)
	}
	return list.Items, nil
}

// GetSecret fetches a single secret
func (c *ConfigClient) GetSecret(ctx context.Context, name, namespace string) (*corev1.Secret, error) {
	secret, err := c.client.CoreV1().Secrets(namespace).Get(ctx, name, metav1.GetOptions{})
	if err != nil {
		return nil, translateError("get secret", c.context, "secret", name, namespace, err)
	}
	return secret, nil
}

// DeleteSecret deletes a single secret
func (c *ConfigClient) DeleteSecret(ctx context.Context, name, namespace string) error {
	err := c.client.CoreV1().Secrets(namespace).Delete(ctx, name, metav1.DeleteOptions{})
	return translateError("delete secret", c.context, "secret", name, namespace, err)
}

// PatchSecret applies a patch to a secret
func (c *ConfigClient) PatchSecret(ctx context.Context, name, namespace string, pt types.PatchType, data []byte) (*corev1.Secret, error) {
	secret, err := c.client.CoreV1().Secrets(namespace).Patch(ctx, name, pt, data, metav1.PatchOptions{})
	if err != nil {
		return nil, translateError("patch secret", c.context, "secret", name, namespace, err)
	}
	return secret, nil
}
