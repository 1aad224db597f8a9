package rollout

import "time"

const (
	// RevisionAnnotation carries the revision number on deployments and replica sets
	RevisionAnnotation = "deployment.kubernetes.io/revision"

	// ChangeCauseAnnotation records why a revision was created
	ChangeCauseAnnotation = "kubernetes.io/change-cause"

	// podTemplateHashLabel is added by the deployment controller per replica set
	podTemplateHashLabel = "pod-template-hash"
)

// RevisionRecord describes one revision of a deployment
type RevisionRecord struct {
	Revision        int64     `json:"revision" yaml:"revision"`
	CreatedAt       time.Time `json:"createdAt" yaml:"createdAt"`
	Images          []string  `json:"images" yaml:"images"`
	DesiredReplicas int32     `json:"desiredReplicas" yaml:"desiredReplicas"`
	ChangeCause     string    `json:"changeCause,omitempty" yaml:"changeCause,omitempty"`

	// ReplicaSet is the name of the replica set holding this revision
	ReplicaSet string `json:"replicaSet" yaml:"replicaSet"`

	// Current marks the revision the deployment is running
	Current bool `json:"current" yaml:"current"`
}

// RollbackResult reports what a rollback did
type RollbackResult struct {
	Deployment string `json:"deployment" yaml:"deployment"`
	Namespace  string `json:"namespace" yaml:"namespace"`
	Revision   int64  `json:"revision" yaml:"revision"`

	// Changed is false when the target was already the current revision
	Changed bool `json:"changed" yaml:"changed"`
}
