package resources

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	appsv1 "k8s.io/api/apps/v1"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/types"
	"k8s.io/client-go/kubernetes"
)

// RestartedAtAnnotation is stamped on the pod template to force a fresh rollout
const RestartedAtAnnotation = "kubectl.kubernetes.io/restartedAt"

// WorkloadClient covers pods, deployments and replica sets
type WorkloadClient struct {
	client  kubernetes.Interface
	context string
	logger  *slog.Logger
	now     func() time.Time
}

// NewWorkloadClient creates a workload client bound to contextName
func NewWorkloadClient(client kubernetes.Interface, contextName string, logger *slog.Logger) *WorkloadClient {
	if logger == nil {
		logger = slog.Default()
	}
	return &WorkloadClient{client: client, context: contextName, logger: logger, now: time.Now}
}

// Context returns the kubeconfig context this client is bound to
func (c *WorkloadClient) Context() string {
	return c.context
}

// ListPods lists pods in namespace ("" for all namespaces)
func (c *WorkloadClient) ListPods(ctx context.Context, namespace string, opts metav1.ListOptions) ([]corev1.Pod, error) {
	list, err := c.client.CoreV1().Pods(namespace).List(ctx, opts)
	if err != nil {
		return nil, translateError("list pods", c.context, "pod", "", namespace, err)
	}
	return list.Items, nil
}

// GetPod fetches a single pod
func (c *WorkloadClient) GetPod(ctx context.Context, name, namespace string) (*corev1.Pod, error) {
	pod, err := c.client.CoreV1().Pods(namespace).Get(ctx, name, metav1.GetOptions{})
	if err != nil {
		return nil, translateError("get pod", c.context, "pod", name, namespace, err)
	}
	return pod, nil
}

// DeletePod deletes a single pod
func (c *WorkloadClient) DeletePod(ctx context.Context, name, namespace string) error {
	err := c.client.CoreV1().Pods(namespace).Delete(ctx, name, metav1.DeleteOptions{})
	return translateError("delete pod", c.context, "pod", name, namespace, err)
}

// PatchPod applies a patch to a pod
func (c *WorkloadClient) PatchPod(ctx context.Context, name, namespace string, pt types.PatchType, data []byte) (*corev1.Pod, error) {
	pod, err := c.client.CoreV1().Pods(namespace).Patch(ctx, name, pt, data, metav1.PatchOptions{})
	if err != nil {
		return nil, translateError("patch pod", c.context, "pod", name, namespace, err)
	}
	return pod, nil
}

// ListDeployments lists deployments in namespace ("" for all namespaces)
func (c *WorkloadClient) ListDeployments(ctx context.Context, namespace string) ([]appsv1.Deployment, error) {
	list, err := c.client.AppsV1().Deployments(namespace).List(ctx, metav1.ListOptions{})
	if err != nil {
		return nil, translateError("list deployments", c.context, "deployment", "", namespace, err)
	}
	return list.Items, nil
}

// GetDeployment fetches a single deployment
func (c *WorkloadClient) GetDeployment(ctx context.Context, name, namespace string) (*appsv1.Deployment, error) {
	deploy, err := c.client.AppsV1().Deployments(namespace).Get(ctx, name, metav1.GetOptions{})
	if err != nil {
		return nil, translateError("get deployment", c.context, "deployment", name, namespace, err)
	}
	return deploy, nil
}

// DeleteDeployment deletes a deployment and lets the garbage collector remove its replica sets
func (c *WorkloadClient) DeleteDeployment(ctx context.Context, name, namespace string) error {
	propagation := metav1.DeletePropagationBackground
	err := c.client.AppsV1().Deployments(namespace).Delete(ctx, name, metav1.DeleteOptions{
		PropagationPolicy: &propagation,
	})
	return translateError("delete deployment", c.context, "deployment", name, namespace, err)
}

// UpdateDeployment writes deploy back. The update is conditional on
// deploy.ResourceVersion; a stale version yields *util.ConflictError.
func (c *WorkloadClient) UpdateDeployment(ctx context.Context, deploy *appsv1.Deployment) (*appsv1.Deployment, error) {
	updated, err := c.client.AppsV1().Deployments(deploy.Namespace).Update(ctx, deploy, metav1.UpdateOptions{})
	if err != nil {
		return nil, translateError("update deployment", c.context, "deployment", deploy.Name, deploy.Namespace, err)
	}
	return updated, nil
}

// PatchDeployment applies a patch to a deployment
func (c *WorkloadClient) PatchDeployment(ctx context.Context, name, namespace string, pt types.PatchType, data []byte) (*appsv1.Deployment, error) {
	deploy, err := c.client.AppsV1().Deployments(namespace).Patch(ctx, name, pt, data, metav1.PatchOptions{})
	if err != nil {
		return nil, translateError("patch deployment", c.context, "deployment", name, namespace, err)
	}
	return deploy, nil
}

// ScaleDeployment sets the desired replica count. Only spec.replicas is patched.
func (c *WorkloadClient) ScaleDeployment(ctx context.Context, name, namespace string, replicas int32) error {
	if replicas < 0 {
		return fmt.Errorf("replicas must be >= 0, got %d", replicas)
	}

	patch := fmt.Sprintf(`{"spec":{"replicas":%d}}`, replicas)
	_, err := c.client.AppsV1().Deployments(namespace).Patch(ctx, name, types.MergePatchType, []byte(patch), metav1.PatchOptions{})
	if err != nil {
		return translateError("scale deployment", c.context, "deployment", name, namespace, err)
	}

	c.logger.Info("scaled deployment",
		"context", c.context,
		"namespace", namespace,
		"deployment", name,
		"replicas", replicas)
	return nil
}

// RestartDeployment triggers a new rollout by stamping the pod template with
// the current time. Image and replica count are untouched.
func (c *WorkloadClient) RestartDeployment(ctx context.Context, name, namespace string) error {
	patch := fmt.Sprintf(`{"spec":{"template":{"metadata":{"annotations":{%q:%q}}}}}`,
		RestartedAtAnnotation, c.now().Format(time.RFC3339))

	_, err := c.client.AppsV1().Deployments(namespace).Patch(ctx, name, types.StrategicMergePatchType, []byte(patch), metav1.PatchOptions{})
	if err != nil {
		return translateError("restart deployment", c.context, "deployment", name, namespace, err)
	}

	c.logger.Info("restarted deployment", "context", c.context, "namespace", namespace, "deployment", name)
	return nil
}

// ListReplicaSets lists replica sets in namespace
func (c *WorkloadClient) ListReplicaSets(ctx context.Context, namespace string, opts metav1.ListOptions) ([]appsv1.ReplicaSet, error) {
	list, err := c.client.AppsV1().ReplicaSets(namespace).List(ctx, opts)
	if err != nil {
		return nil, translateError("list replicasets", c.context, "replicaset", "", namespace, err)
	}
	return list.Items, nil
}
