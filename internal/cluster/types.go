package cluster

import "time"

// Status is the connectivity state recorded for one context in a sweep
type Status string

const (
	StatusConnected    Status = "connected"
	StatusDisconnected Status = "disconnected"
	StatusChecking     Status = "checking"
)

// Snapshot is the health of one context as seen by the latest sweep.
// A disconnected snapshot never carries counts or a version.
type Snapshot struct {
	// Context is the kubeconfig context name
	Context string `json:"context" yaml:"context"`

	// Status is connected, disconnected or checking
	Status Status `json:"status" yaml:"status"`

	NodeCount      int    `json:"nodeCount" yaml:"nodeCount"`
	PodCount       int    `json:"podCount" yaml:"podCount"`
	NamespaceCount int    `json:"namespaceCount" yaml:"namespaceCount"`
	KubeletVersion string `json:"kubeletVersion,omitempty" yaml:"kubeletVersion,omitempty"`

	// LastChecked is when the probe finished
	LastChecked time.Time `json:"lastChecked" yaml:"lastChecked"`

	// Error holds the probe failure for disconnected contexts
	Error string `json:"error,omitempty" yaml:"error,omitempty"`
}

// disconnected returns a snapshot with every derived field cleared
func disconnected(contextName string, err error, at time.Time) Snapshot {
	s := Snapshot{
		Context:     contextName,
		Status:      StatusDisconnected,
		LastChecked: at,
	}
	if err != nil {
		s.Error = err.Error()
	}
	return s
}

// AggregateMetrics summarises the active cluster
type AggregateMetrics struct {
	Context string `json:"context" yaml:"context"`

	NodeCount       int `json:"nodeCount" yaml:"nodeCount"`
	PodCount        int `json:"podCount" yaml:"podCount"`
	NamespaceCount  int `json:"namespaceCount" yaml:"namespaceCount"`
	DeploymentCount int `json:"deploymentCount" yaml:"deploymentCount"`
	ServiceCount    int `json:"serviceCount" yaml:"serviceCount"`

	// CPU in millicores, memory in bytes. Capacity is node allocatable.
	CPUCapacityMilli    int64 `json:"cpuCapacityMilli" yaml:"cpuCapacityMilli"`
	CPUUsageMilli       int64 `json:"cpuUsageMilli" yaml:"cpuUsageMilli"`
	MemoryCapacityBytes int64 `json:"memoryCapacityBytes" yaml:"memoryCapacityBytes"`
	MemoryUsageBytes    int64 `json:"memoryUsageBytes" yaml:"memoryUsageBytes"`

	// Utilization as a percentage of capacity
	CPUUtilization    float64 `json:"cpuUtilization" yaml:"cpuUtilization"`
	MemoryUtilization float64 `json:"memoryUtilization" yaml:"memoryUtilization"`

	CollectedAt time.Time `json:"collectedAt" yaml:"collectedAt"`
}

// ResourceSummary is one row of a List call
type ResourceSummary struct {
	Kind      Kind      `json:"kind" yaml:"kind"`
	Name      string    `json:"name" yaml:"name"`
	Namespace string    `json:"namespace" yaml:"namespace"`
	Status    string    `json:"status" yaml:"status"`
	Detail    string    `json:"detail,omitempty" yaml:"detail,omitempty"`
	Created   time.Time `json:"created" yaml:"created"`
}
