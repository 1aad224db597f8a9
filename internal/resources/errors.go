package resources

import (
	"github.com/aryankumar/fleetdeck/internal/util"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
)

// translateError maps an API error onto the util error types
func translateError(op, contextName, kind, name, namespace string, err error) error {
	switch {
	case err == nil:
		return nil
	case apierrors.IsNotFound(err) && name != "":
		return &util.NotFoundError{Kind: kind, Name: name, Namespace: namespace}
	case apierrors.IsConflict(err):
		return &util.ConflictError{Kind: kind, Name: name, Namespace: namespace, Err: err}
	default:
		return util.NewTransportError(op, contextName, err)
	}
}
