package cluster

import (
	"fmt"
	"strings"

	"github.com/aryankumar/fleetdeck/internal/util"
)

// Kind is the closed set of resource kinds the facade dispatches on
type Kind int

const (
	KindPod Kind = iota + 1
	KindDeployment
	KindService
	KindConfigMap
	KindSecret
)

var kindNames = map[Kind]string{
	KindPod:        "pod",
	KindDeployment: "deployment",
	KindService:    "service",
	KindConfigMap:  "configmap",
	KindSecret:     "secret",
}

// kindAliases maps accepted spellings onto kinds; keys are lower case
var kindAliases = map[string]Kind{
	"pod": KindPod, "pods": KindPod, "po": KindPod,
	"deployment": KindDeployment, "deployments": KindDeployment, "deploy": KindDeployment,
	"service": KindService, "services": KindService, "svc": KindService,
	"configmap": KindConfigMap, "configmaps": KindConfigMap, "cm": KindConfigMap,
	"secret": KindSecret, "secrets": KindSecret,
}

// Kinds returns every supported kind in a fixed order
func Kinds() []Kind {
	return []Kind{KindPod, KindDeployment, KindService, KindConfigMap, KindSecret}
}

// ParseKind resolves a kind string case-insensitively.
// Anything outside the supported set is *util.UnsupportedKindError.
func ParseKind(s string) (Kind, error) {
	if k, ok := kindAliases[strings.ToLower(strings.TrimSpace(s))]; ok {
		return k, nil
	}
	return 0, &util.UnsupportedKindError{Kind: s}
}

// String returns the canonical lower-case kind name
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Valid reports whether k is one of the supported kinds
func (k Kind) Valid() bool {
	_, ok := kindNames[k]
	return ok
}

// MarshalText encodes the kind by name
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText decodes a kind name
func (k *Kind) UnmarshalText(text []byte) error {
	parsed, err := ParseKind(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}
