package resources

import (
	"context"
	"log/slog"

	corev1 "k8s.io/api/core/v1"
	rbacv1 "k8s.io/api/rbac/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes"
)

// RBACClient covers roles, bindings and service accounts
type RBACClient struct {
	client  kubernetes.Interface
	context string
	logger  *slog.Logger
}

// NewRBACClient creates an RBAC client bound to contextName
func NewRBACClient(client kubernetes.Interface, contextName string, logger *slog.Logger) *RBACClient {
	if logger == nil {
		logger = slog.Default()
	}
	return &RBACClient{client: client, context: contextName, logger: logger}
}

// Context returns the kubeconfig context this client is bound to
func (c *RBACClient) Context() string {
	return c.context
}

// ListRoles lists roles in namespace
func (c *RBACClient) ListRoles(ctx context.Context, namespace string) ([]rbacv1.Role, error) {
	list, err := c.client.RbacV1().Roles(namespace).List(ctx, metav1.ListOptions{})
	if err != nil {
		return nil, translateError("list roles", c.context, "role", "", namespace, err)
	}
	return list.Items, nil
}

// ListRoleBindings lists role bindings in namespace
func (c *RBACClient) ListRoleBindings(ctx context.Context, namespace string) ([]rbacv1.RoleBinding, error) {
	list, err := c.client.RbacV1().RoleBindings(namespace).List(ctx, metav1.ListOptions{})
	if err != nil {
		return nil, translateError("list rolebindings", c.context, "rolebinding", "", namespace, err)
	}
	return list.Items, nil
}

// ListClusterRoles lists cluster roles
func (c *RBACClient) ListClusterRoles(ctx context.Context) ([]rbacv1.ClusterRole, error) {
	list, err := c.client.RbacV1().ClusterRoles().List(ctx, metav1.ListOptions{})
	if err != nil {
		return nil, translateError("list clusterroles", c.context, "clusterrole", "", "", err)
	}
	return list.Items, nil
}

// ListClusterRoleBindings lists cluster role bindings
func (c *RBACClient) ListClusterRoleBindings(ctx context.Context) ([]rbacv1.ClusterRoleBinding, error) {
	list, err := c.client.RbacV1().ClusterRoleBindings().List(ctx, metav1.ListOptions{})
	if err != nil {
		return nil, translateError("list clusterrolebindings", c.context, "clusterrolebinding", "", "", err)
	}
	return list.Items, nil
}

// ListServiceAccounts lists service accounts in namespace
func (c *RBACClient) ListServiceAccounts(ctx context.Context, namespace string) ([]corev1.ServiceAccount, error) {
	list, err := c.client.CoreV1().ServiceAccounts(namespace).List(ctx, metav1.ListOptions{})
	if err != nil {
		return nil, translateError("list serviceaccounts", c.context, "serviceaccount", "", namespace, err)
	}
	return list.Items, nil
}
