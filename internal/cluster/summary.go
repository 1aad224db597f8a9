package cluster

import (
	"fmt"
	"strings"
	"time"

	"github.com/aryankumar/fleetdeck/internal/executor"
	appsv1 "k8s.io/api/apps/v1"
	corev1 "k8s.io/api/core/v1"
	metricsv1beta1 "k8s.io/metrics/pkg/apis/metrics/v1beta1"
)

func summarizePod(pod *corev1.Pod) ResourceSummary {
	return ResourceSummary{
		Kind:      KindPod,
		Name:      pod.Name,
		Namespace: pod.Namespace,
		Status:    string(pod.Status.Phase),
		Detail:    fmt.Sprintf("ready %s, restarts %d", podReadyStatus(pod), podRestarts(pod)),
		Created:   pod.CreationTimestamp.Time,
	}
}

func summarizeDeployment(deploy *appsv1.Deployment) ResourceSummary {
	status := "Progressing"
	if deploy.Spec.Paused {
		status = "Paused"
	} else if deploy.Spec.Replicas != nil && deploy.Status.AvailableReplicas >= *deploy.Spec.Replicas {
		status = "Available"
	}

	return ResourceSummary{
		Kind:      KindDeployment,
		Name:      deploy.Name,
		Namespace: deploy.Namespace,
		Status:    status,
		Detail: fmt.Sprintf("ready %s, up-to-date %d",
			deploymentReadyStatus(deploy), deploy.Status.UpdatedReplicas),
		Created: deploy.CreationTimestamp.Time,
	}
}

func summarizeService(svc *corev1.Service) ResourceSummary {
	return ResourceSummary{
		Kind:      KindService,
		Name:      svc.Name,
		Namespace: svc.Namespace,
		Status:    string(svc.Spec.Type),
		Detail:    fmt.Sprintf("%s %s", svc.Spec.ClusterIP, servicePorts(svc)),
		Created:   svc.CreationTimestamp.Time,
	}
}

func summarizeConfigMap(cm *corev1.ConfigMap) ResourceSummary {
	return ResourceSummary{
		Kind:      KindConfigMap,
		Name:      cm.Name,
		Namespace: cm.Namespace,
		Detail:    fmt.Sprintf("%d keys", len(cm.Data)+len(cm.BinaryData)),
		Created:   cm.CreationTimestamp.Time,
	}
}

func summarizeSecret(secret *corev1.Secret) ResourceSummary {
	return ResourceSummary{
		Kind:      KindSecret,
		Name:      secret.Name,
		Namespace: secret.Namespace,
		Status:    string(secret.Type),
		Detail:    fmt.Sprintf("%d keys", len(secret.Data)),
		Created:   secret.CreationTimestamp.Time,
	}
}

// podReadyStatus returns "ready/total" containers
func podReadyStatus(pod *corev1.Pod) string {
	total := len(pod.Spec.Containers)
	ready := 0
	for _, cs := range pod.Status.ContainerStatuses {
		if cs.Ready {
			ready++
		}
	}
	return fmt.Sprintf("%d/%d", ready, total)
}

func podRestarts(pod *corev1.Pod) int32 {
	var restarts int32
	for _, cs := range pod.Status.ContainerStatuses {
		restarts += cs.RestartCount
	}
	return restarts
}

func deploymentReadyStatus(deploy *appsv1.Deployment) string {
	desired := int32(0)
	if deploy.Spec.Replicas != nil {
		desired = *deploy.Spec.Replicas
	}
	return fmt.Sprintf("%d/%d", deploy.Status.ReadyReplicas, desired)
}

func servicePorts(svc *corev1.Service) string {
	if len(svc.Spec.Ports) == 0 {
		return "<none>"
	}

	ports := make([]string, 0, len(svc.Spec.Ports))
	for _, port := range svc.Spec.Ports {
		portStr := fmt.Sprintf("%d", port.Port)
		if port.NodePort != 0 {
			portStr = fmt.Sprintf("%d:%d", port.Port, port.NodePort)
		}
		if port.Protocol != "" && port.Protocol != corev1.ProtocolTCP {
			portStr = fmt.Sprintf("%s/%s", portStr, port.Protocol)
		}
		ports = append(ports, portStr)
	}
	return strings.Join(ports, ",")
}

// buildAggregate folds the sub-fetch results into totals. Every source is
// known to have succeeded.
func buildAggregate(contextName string, results map[string]executor.Result, at time.Time) *AggregateMetrics {
	agg := &AggregateMetrics{Context: contextName, CollectedAt: at}

	if nodes, ok := results[sourceNodes].Data.([]corev1.Node); ok {
		agg.NodeCount = len(nodes)
		for i := range nodes {
			cpu, mem := nodeCapacity(&nodes[i])
			agg.CPUCapacityMilli += cpu
			agg.MemoryCapacityBytes += mem
		}
	}
	if pods, ok := results[sourcePods].Data.([]corev1.Pod); ok {
		agg.PodCount = len(pods)
	}
	if namespaces, ok := results[sourceNamespaces].Data.([]corev1.Namespace); ok {
		agg.NamespaceCount = len(namespaces)
	}
	if deployments, ok := results[sourceDeployments].Data.([]appsv1.Deployment); ok {
		agg.DeploymentCount = len(deployments)
	}
	if services, ok := results[sourceServices].Data.([]corev1.Service); ok {
		agg.ServiceCount = len(services)
	}
	if usage, ok := results[sourceNodeMetrics].Data.([]metricsv1beta1.NodeMetrics); ok {
		for _, m := range usage {
			agg.CPUUsageMilli += m.Usage.Cpu().MilliValue()
			agg.MemoryUsageBytes += m.Usage.Memory().Value()
		}
	}

	agg.CPUUtilization = percent(agg.CPUUsageMilli, agg.CPUCapacityMilli)
	agg.MemoryUtilization = percent(agg.MemoryUsageBytes, agg.MemoryCapacityBytes)
	return agg
}

// nodeCapacity prefers allocatable and falls back to raw capacity
func nodeCapacity(node *corev1.Node) (cpuMilli, memBytes int64) {
	resources := node.Status.Allocatable
	if len(resources) == 0 {
		resources = node.Status.Capacity
	}
	return resources.Cpu().MilliValue(), resources.Memory().Value()
}

func percent(used, capacity int64) float64 {
	if capacity <= 0 {
		return 0
	}
	return float64(used) / float64(capacity) * 100
}
