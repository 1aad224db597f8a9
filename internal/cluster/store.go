package cluster

import (
	"github.com/aryankumar/fleetdeck/internal/config"
	"k8s.io/client-go/rest"
)

// ContextStore is the credential store as seen by the cluster layer.
// *config.KubeconfigStore implements it.
type ContextStore interface {
	ListContexts() ([]config.ClusterContext, error)
	GetContext(name string) (config.ClusterContext, error)
	CurrentName() (string, error)
	SetCurrent(name string) error
	ClearCurrent() error
	AddContext(cc config.ClusterContext) error
	RemoveContext(name string) error
	RESTConfig(name string) (*rest.Config, error)
}

var _ ContextStore = (*config.KubeconfigStore)(nil)
