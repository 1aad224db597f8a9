package util

import "strings"

// ShortContextName shortens provider-generated context names for display.
//
// EKS contexts are ARNs (arn:aws:eks:region:account-id:cluster/cluster-name) and
// GKE contexts follow gke_project_zone_cluster-name. Anything else is returned unchanged.
func ShortContextName(name string) string {
	if strings.HasPrefix(name, "gke_") {
		parts := strings.SplitN(name, "_", 4)
		if len(parts) == 4 && parts[3] != "" {
			return parts[3]
		}
		return name
	}

	if !strings.HasPrefix(name, "arn:") {
		return name
	}

	// "cluster/" precedes the cluster name in EKS ARNs
	if idx := strings.LastIndex(name, "cluster/"); idx != -1 {
		return name[idx+len("cluster/"):]
	}

	if idx := strings.LastIndex(name, "/"); idx != -1 {
		return name[idx+1:]
	}

	if idx := strings.LastIndex(name, ":"); idx != -1 {
		return name[idx+1:]
	}

	return name
}
