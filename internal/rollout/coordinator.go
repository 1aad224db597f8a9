package rollout

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strconv"

	"github.com/aryankumar/fleetdeck/internal/cluster"
	"github.com/aryankumar/fleetdeck/internal/metrics"
	"github.com/aryankumar/fleetdeck/internal/util"
	appsv1 "k8s.io/api/apps/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/types"
)

// HandleProvider supplies the handles for the context to act on.
// *cluster.Facade and *cluster.Handles both satisfy it.
type HandleProvider interface {
	Handles() (*cluster.Handles, error)
}

// Coordinator runs rollout workflows against the provider's current handles
type Coordinator struct {
	provider HandleProvider
	logger   *slog.Logger
}

// NewCoordinator creates a coordinator
func NewCoordinator(provider HandleProvider, logger *slog.Logger) *Coordinator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Coordinator{provider: provider, logger: logger}
}

// GetRevisionHistory lists the deployment's revisions, newest first
func (c *Coordinator) GetRevisionHistory(ctx context.Context, name, namespace string) ([]RevisionRecord, error) {
	h, err := c.provider.Handles()
	if err != nil {
		return nil, err
	}
	namespace = h.NamespaceOr(namespace)

	deploy, err := h.Workloads.GetDeployment(ctx, name, namespace)
	if err != nil {
		return nil, err
	}

	history, err := c.history(ctx, h, deploy)
	if err != nil {
		return nil, err
	}

	records := make([]RevisionRecord, 0, len(history))
	for _, rev := range history {
		records = append(records, rev.record)
	}
	return records, nil
}

// RollbackToRevision points the deployment's pod template at an earlier
// revision. The target is validated before anything is written; rolling back
// to the current revision is a no-op. A concurrent edit of the deployment
// surfaces as *util.ConflictError.
func (c *Coordinator) RollbackToRevision(ctx context.Context, name, namespace string, revision int64) (*RollbackResult, error) {
	h, err := c.provider.Handles()
	if err != nil {
		return nil, err
	}
	namespace = h.NamespaceOr(namespace)

	deploy, err := h.Workloads.GetDeployment(ctx, name, namespace)
	if err != nil {
		metrics.RecordRolloutOperation("rollback", metrics.OutcomeFailure)
		return nil, err
	}

	history, err := c.history(ctx, h, deploy)
	if err != nil {
		metrics.RecordRolloutOperation("rollback", metrics.OutcomeFailure)
		return nil, err
	}

	target, err := findRevision(history, name, namespace, revision)
	if err != nil {
		metrics.RecordRolloutOperation("rollback", metrics.OutcomeRejected)
		return nil, err
	}

	result := &RollbackResult{Deployment: name, Namespace: namespace, Revision: revision}

	if target.record.Current {
		c.logger.Info("deployment already at revision",
			"context", h.Context,
			"namespace", namespace,
			"deployment", name,
			"revision", revision)
		metrics.RecordRolloutOperation("rollback", metrics.OutcomeNoop)
		return result, nil
	}

	updated := deploy.DeepCopy()
	template := target.replicaSet.Spec.Template.DeepCopy()
	delete(template.Labels, podTemplateHashLabel)
	updated.Spec.Template = *template

	if updated.Annotations == nil {
		updated.Annotations = make(map[string]string)
	}
	updated.Annotations[ChangeCauseAnnotation] = fmt.Sprintf("rolled back to revision %d", revision)

	if _, err := h.Workloads.UpdateDeployment(ctx, updated); err != nil {
		metrics.RecordRolloutOperation("rollback", metrics.OutcomeFailure)
		return nil, err
	}

	c.logger.Info("rolled back deployment",
		"context", h.Context,
		"namespace", namespace,
		"deployment", name,
		"revision", revision)
	metrics.RecordRolloutOperation("rollback", metrics.OutcomeSuccess)

	result.Changed = true
	return result, nil
}

// Pause stops the deployment controller from rolling out template changes
func (c *Coordinator) Pause(ctx context.Context, name, namespace string) error {
	return c.setPaused(ctx, name, namespace, true)
}

// Resume undoes Pause
func (c *Coordinator) Resume(ctx context.Context, name, namespace string) error {
	return c.setPaused(ctx, name, namespace, false)
}

// pausePatch touches spec.paused and nothing else
func pausePatch(paused bool) []byte {
	return []byte(fmt.Sprintf(`{"spec":{"paused":%t}}`, paused))
}

func (c *Coordinator) setPaused(ctx context.Context, name, namespace string, paused bool) error {
	op := "resume"
	if paused {
		op = "pause"
	}

	h, err := c.provider.Handles()
	if err != nil {
		return err
	}
	namespace = h.NamespaceOr(namespace)

	_, err = h.Workloads.PatchDeployment(ctx, name, namespace, types.MergePatchType, pausePatch(paused))
	metrics.RecordRolloutOperation(op, metrics.OutcomeOf(err))
	if err != nil {
		return err
	}

	c.logger.Info(op+"d deployment", "context", h.Context, "namespace", namespace, "deployment", name)
	return nil
}

// Restart rolls every pod of the deployment without changing its spec
func (c *Coordinator) Restart(ctx context.Context, name, namespace string) error {
	h, err := c.provider.Handles()
	if err != nil {
		return err
	}

	err = h.Workloads.RestartDeployment(ctx, name, h.NamespaceOr(namespace))
	metrics.RecordRolloutOperation("restart", metrics.OutcomeOf(err))
	return err
}

// revision pairs a record with the replica set it came from
type revision struct {
	record     RevisionRecord
	replicaSet *appsv1.ReplicaSet
}

// history returns the deployment's revisions sorted newest first. Replica
// sets without a usable revision annotation are skipped.
func (c *Coordinator) history(ctx context.Context, h *cluster.Handles, deploy *appsv1.Deployment) ([]revision, error) {
	opts := metav1.ListOptions{}
	if deploy.Spec.Selector != nil {
		selector, err := metav1.LabelSelectorAsSelector(deploy.Spec.Selector)
		if err != nil {
			return nil, fmt.Errorf("invalid selector on deployment %s/%s: %w", deploy.Namespace, deploy.Name, err)
		}
		opts.LabelSelector = selector.String()
	}

	replicaSets, err := h.Workloads.ListReplicaSets(ctx, deploy.Namespace, opts)
	if err != nil {
		return nil, err
	}

	current, _ := parseRevision(deploy.Annotations)

	revisions := make([]revision, 0, len(replicaSets))
	for i := range replicaSets {
		rs := &replicaSets[i]
		if !ownedBy(rs, deploy) {
			continue
		}

		number, ok := parseRevision(rs.Annotations)
		if !ok {
			c.logger.Debug("skipping replica set without revision",
				"namespace", rs.Namespace,
				"replicaset", rs.Name)
			continue
		}

		revisions = append(revisions, revision{
			record:     toRecord(rs, number, number == current),
			replicaSet: rs,
		})
	}

	sort.SliceStable(revisions, func(i, j int) bool {
		return revisions[i].record.Revision > revisions[j].record.Revision
	})
	return revisions, nil
}

// findRevision returns the target if it exists and carries a usable pod template
func findRevision(history []revision, name, namespace string, number int64) (*revision, error) {
	for i := range history {
		if history[i].record.Revision != number {
			continue
		}
		if len(history[i].replicaSet.Spec.Template.Spec.Containers) == 0 {
			return nil, &util.RevisionNotFoundError{
				Workload:  name,
				Namespace: namespace,
				Revision:  number,
				Reason:    "revision has no pod template",
			}
		}
		return &history[i], nil
	}

	return nil, &util.RevisionNotFoundError{Workload: name, Namespace: namespace, Revision: number}
}

func ownedBy(rs *appsv1.ReplicaSet, deploy *appsv1.Deployment) bool {
	for _, ref := range rs.OwnerReferences {
		if ref.Kind != "Deployment" || ref.Name != deploy.Name {
			continue
		}
		if ref.UID != "" && deploy.UID != "" && ref.UID != deploy.UID {
			continue
		}
		return true
	}
	return false
}

func parseRevision(annotations map[string]string) (int64, bool) {
	raw, ok := annotations[RevisionAnnotation]
	if !ok {
		return 0, false
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}

func toRecord(rs *appsv1.ReplicaSet, number int64, current bool) RevisionRecord {
	images := make([]string, 0, len(rs.Spec.Template.Spec.Containers))
	for _, container := range rs.Spec.Template.Spec.Containers {
		images = append(images, container.Image)
	}

	var replicas int32
	if rs.Spec.Replicas != nil {
		replicas = *rs.Spec.Replicas
	}

	return RevisionRecord{
		Revision:        number,
		CreatedAt:       rs.CreationTimestamp.Time,
		Images:          images,
		DesiredReplicas: replicas,
		ChangeCause:     rs.Annotations[ChangeCauseAnnotation],
		ReplicaSet:      rs.Name,
		Current:         current,
	}
}
