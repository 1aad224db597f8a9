package resources

import (
	"context"
	"log/slog"

	corev1 "k8s.io/api/core/v1"
	storagev1 "k8s.io/api/storage/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes"
)

// StorageClient covers volumes, claims and storage classes
type StorageClient struct {
	client  kubernetes.Interface
	context string
	logger  *slog.Logger
}

// NewStorageClient creates a storage client bound to contextName
func NewStorageClient(client kubernetes.Interface, contextName string, logger *slog.Logger) *StorageClient {
	if logger == nil {
		logger = slog.Default()
	}
	return &StorageClient{client: client, context: contextName, logger: logger}
}

// Context returns the kubeconfig context this client is bound to
func (c *StorageClient) Context() string {
	return c.context
}

// ListPersistentVolumeClaims lists claims in namespace
func (c *StorageClient) ListPersistentVolumeClaims(ctx context.Context, namespace string) ([]corev1.PersistentVolumeClaim, error) {
	list, err := c.client.CoreV1().PersistentVolumeClaims(namespace).List(ctx, metav1.ListOptions{})
	if err != nil {
		return nil, translateError("list persistentvolumeclaims", c.context, "persistentvolumeclaim", "", namespace, err)
	}
	return list.Items, nil
}

// ListPersistentVolumes lists cluster-scoped volumes
func (c *StorageClient) ListPersistentVolumes(ctx context.Context) ([]corev1.PersistentVolume, error) {
	list, err := c.client.CoreV1().PersistentVolumes().List(ctx, metav1.ListOptions{})
	if err != nil {
		return nil, translateError("list persistentvolumes", c.context, "persistentvolume", "", "", err)
	}
	return list.Items, nil
}

// ListStorageClasses lists storage classes
func (c *StorageClient) ListStorageClasses(ctx context.Context) ([]storagev1.StorageClass, error) {
	list, err := c.client.StorageV1().StorageClasses().List(ctx, metav1.ListOptions{})
	if err != nil {
		return nil, translateError("list storageclasses", c.context, "storageclass", "", "", err)
	}
	return list.Items, nil
}
