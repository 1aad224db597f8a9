package app

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/aryankumar/fleetdeck/internal/cluster"
	"github.com/aryankumar/fleetdeck/internal/config"
	"github.com/aryankumar/fleetdeck/internal/output"
	"github.com/aryankumar/fleetdeck/internal/rollout"
)

// Now is the clock used for AGE columns
var Now = time.Now

// ContextList renders kubeconfig contexts, current first
type ContextList []config.ClusterContext

func (l ContextList) Headers() []string {
	return []string{"CONTEXT", "CURRENT", "CLUSTER", "SERVER", "NAMESPACE", "USER", "LABELS"}
}

func (l ContextList) Rows() [][]string {
	rows := make([][]string, 0, len(l))
	for _, c := range l {
		current := ""
		if c.Current {
			current = "*"
		}
		name := c.Name
		if c.Alias != "" {
			name = fmt.Sprintf("%s (%s)", c.Name, c.Alias)
		}
		rows = append(rows, []string{name, current, c.Cluster, c.Server, c.Namespace, c.CredentialsRef, formatLabels(c.Labels)})
	}
	return rows
}

// SnapshotList renders the result of a sweep
type SnapshotList []cluster.Snapshot

func (l SnapshotList) Headers() []string {
	return []string{"CONTEXT", "STATUS", "NODES", "PODS", "NAMESPACES", "VERSION", "ERROR"}
}

func (l SnapshotList) Rows() [][]string {
	rows := make([][]string, 0, len(l))
	for _, s := range l {
		if s.Status != cluster.StatusConnected {
			rows = append(rows, []string{s.Context, string(s.Status), "-", "-", "-", "-", s.Error})
			continue
		}
		rows = append(rows, []string{
			s.Context,
			string(s.Status),
			strconv.Itoa(s.NodeCount),
			strconv.Itoa(s.PodCount),
			strconv.Itoa(s.NamespaceCount),
			s.KubeletVersion,
			"",
		})
	}
	return rows
}

func (l SnapshotList) Summary() string {
	connected := 0
	for _, s := range l {
		if s.Status == cluster.StatusConnected {
			connected++
		}
	}
	return fmt.Sprintf("%d/%d contexts connected", connected, len(l))
}

// ResourceList renders the rows of a List call
type ResourceList []cluster.ResourceSummary

func (l ResourceList) Headers() []string {
	return []string{"NAME", "NAMESPACE", "KIND", "STATUS", "DETAIL", "AGE"}
}

func (l ResourceList) Rows() [][]string {
	now := Now()
	rows := make([][]string, 0, len(l))
	for _, r := range l {
		rows = append(rows, []string{r.Name, r.Namespace, r.Kind.String(), r.Status, r.Detail, output.FormatAge(r.Created, now)})
	}
	return rows
}

// RevisionList renders deployment revision history
type RevisionList []rollout.RevisionRecord

func (l RevisionList) Headers() []string {
	return []string{"REVISION", "CURRENT", "REPLICASET", "REPLICAS", "IMAGES", "CHANGE-CAUSE", "AGE"}
}

func (l RevisionList) Rows() [][]string {
	now := Now()
	rows := make([][]string, 0, len(l))
	for _, r := range l {
		current := ""
		if r.Current {
			current = "*"
		}
		rows = append(rows, []string{
			strconv.FormatInt(r.Revision, 10),
			current,
			r.ReplicaSet,
			strconv.Itoa(int(r.DesiredReplicas)),
			strings.Join(r.Images, ","),
			r.ChangeCause,
			output.FormatAge(r.CreatedAt, now),
		})
	}
	return rows
}

// MetricsView renders aggregate metrics as a key/value table
func MetricsView(m *cluster.AggregateMetrics) map[string]string {
	return map[string]string{
		"context":     m.Context,
		"nodes":       strconv.Itoa(m.NodeCount),
		"pods":        strconv.Itoa(m.PodCount),
		"namespaces":  strconv.Itoa(m.NamespaceCount),
		"deployments": strconv.Itoa(m.DeploymentCount),
		"services":    strconv.Itoa(m.ServiceCount),
		"cpu":         fmt.Sprintf("%dm / %dm (%.1f%%)", m.CPUUsageMilli, m.CPUCapacityMilli, m.CPUUtilization),
		"memory":      fmt.Sprintf("%dMi / %dMi (%.1f%%)", m.MemoryUsageBytes>>20, m.MemoryCapacityBytes>>20, m.MemoryUtilization),
	}
}

func formatLabels(labels map[string]string) string {
	if len(labels) == 0 {
		return ""
	}
	pairs := make([]string, 0, len(labels))
	for k, v := range labels {
		pairs = append(pairs, k+"="+v)
	}
	sort.Strings(pairs)
	return strings.Join(pairs, ",")
}
