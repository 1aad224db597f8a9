package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/aryankumar/fleetdeck/internal/util"
	"k8s.io/client-go/rest"
	"k8s.io/client-go/tools/clientcmd"
	"k8s.io/client-go/tools/clientcmd/api"
)

const defaultNamespace = "default"

// KubeconfigStore is the credential store backed by kubeconfig files.
//
// The files are the sole source of truth: every call re-reads them and every
// mutation is written back before the call returns. The store never touches
// client handles; callers refresh those after changing the current context.
type KubeconfigStore struct {
	// mu serialises read-modify-write cycles on the files within this process
	mu sync.Mutex

	paths        []string
	explicitPath string
	logger       *slog.Logger
}

// NewKubeconfigStore creates a store over the kubeconfig sources.
// It checks sources in the following order:
// 1. Explicit path (--kubeconfig flag)
// 2. KUBECONFIG environment variable (multiple paths separated by ':' on Unix or ';' on Windows)
// 3. Default ~/.kube/config
func NewKubeconfigStore(explicitPath string, logger *slog.Logger) *KubeconfigStore {
	if logger == nil {
		logger = slog.Default()
	}

	store := &KubeconfigStore{
		paths:  make([]string, 0),
		logger: logger,
	}

	if explicitPath != "" {
		if expandedPath, err := expandPath(explicitPath); err == nil {
			store.explicitPath = expandedPath
			store.paths = append(store.paths, expandedPath)
		}
		return store
	}

	if kubeconfigEnv := os.Getenv("KUBECONFIG"); kubeconfigEnv != "" {
		for _, path := range filepath.SplitList(kubeconfigEnv) {
			path = strings.TrimSpace(path)
			if path == "" {
				continue
			}
			if expandedPath, err := expandPath(path); err == nil {
				store.paths = append(store.paths, expandedPath)
			}
		}
	}

	if len(store.paths) == 0 {
		home, err := os.UserHomeDir()
		if err == nil {
			store.paths = append(store.paths, filepath.Join(home, ".kube", "config"))
		}
	}

	return store
}

// Paths returns the kubeconfig paths being used
func (s *KubeconfigStore) Paths() []string {
	return s.paths
}

// ListContexts returns all contexts sorted by name.
// The order is stable across calls and is the order sweeps probe in.
func (s *KubeconfigStore) ListContexts() ([]ClusterContext, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cfg, err := s.load()
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(cfg.Contexts))
	for name, kctx := range cfg.Contexts {
		if kctx == nil {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)

	contexts := make([]ClusterContext, 0, len(names))
	for _, name := range names {
		contexts = append(contexts, toClusterContext(cfg, name))
	}

	return contexts, nil
}

// GetContext returns a single context by name
func (s *KubeconfigStore) GetContext(name string) (ClusterContext, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cfg, err := s.load()
	if err != nil {
		return ClusterContext{}, err
	}

	if kctx, ok := cfg.Contexts[name]; !ok || kctx == nil {
		return ClusterContext{}, util.NewContextNotFound(name)
	}

	return toClusterContext(cfg, name), nil
}

// CurrentName returns the raw current-context value, which may be empty
func (s *KubeconfigStore) CurrentName() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cfg, err := s.load()
	if err != nil {
		return "", err
	}

	return cfg.CurrentContext, nil
}

// GetCurrent returns the active context
func (s *KubeconfigStore) GetCurrent() (ClusterContext, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cfg, err := s.load()
	if err != nil {
		return ClusterContext{}, err
	}

	if cfg.CurrentContext == "" {
		return ClusterContext{}, fmt.Errorf("no current context set: %w", util.ErrClusterNotFound)
	}
	if kctx, ok := cfg.Contexts[cfg.CurrentContext]; !ok || kctx == nil {
		return ClusterContext{}, util.NewContextNotFound(cfg.CurrentContext)
	}

	return toClusterContext(cfg, cfg.CurrentContext), nil
}

// SetCurrent makes name the active context and persists it
func (s *KubeconfigStore) SetCurrent(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cfg, err := s.load()
	if err != nil {
		return err
	}

	if kctx, ok := cfg.Contexts[name]; !ok || kctx == nil {
		return util.NewContextNotFound(name)
	}

	if cfg.CurrentContext == name {
		return nil
	}

	previous := cfg.CurrentContext
	cfg.CurrentContext = name
	if err := s.write(cfg); err != nil {
		return err
	}

	s.logger.Debug("current context changed", "from", previous, "to", name)
	return nil
}

// ClearCurrent unsets current-context. It is a no-op when none is set.
func (s *KubeconfigStore) ClearCurrent() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cfg, err := s.load()
	if err != nil {
		return err
	}
	if cfg.CurrentContext == "" {
		return nil
	}

	previous := cfg.CurrentContext
	cfg.CurrentContext = ""
	if err := s.write(cfg); err != nil {
		return err
	}

	s.logger.Debug("current context cleared", "previous", previous)
	return nil
}

// RemoveContext deletes a context entry. The active context cannot be removed.
// Cluster and user entries are left in place since other contexts may share them.
func (s *KubeconfigStore) RemoveContext(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cfg, err := s.load()
	if err != nil {
		return err
	}

	if _, ok := cfg.Contexts[name]; !ok {
		return util.NewContextNotFound(name)
	}
	if cfg.CurrentContext == name {
		return &util.InUseError{Context: name}
	}

	delete(cfg.Contexts, name)
	if err := s.write(cfg); err != nil {
		return err
	}

	s.logger.Info("removed context", "context", name)
	return nil
}

// AddContext imports a new context. CredentialsRef must name an existing user entry.
// When no cluster entry named cc.Cluster (or cc.Name) exists, one is created from cc.Server.
func (s *KubeconfigStore) AddContext(cc ClusterContext) error {
	if cc.Name == "" {
		return fmt.Errorf("context name is required: %w", util.ErrInvalidConfig)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cfg, err := s.load()
	if err != nil {
		return err
	}

	if _, ok := cfg.Contexts[cc.Name]; ok {
		return fmt.Errorf("context %q: %w", cc.Name, util.ErrAlreadyExists)
	}
	if _, ok := cfg.AuthInfos[cc.CredentialsRef]; !ok {
		return &util.NotFoundError{Kind: "credentials", Name: cc.CredentialsRef}
	}

	clusterName := cc.Cluster
	if clusterName == "" {
		clusterName = cc.Name
	}
	if _, ok := cfg.Clusters[clusterName]; !ok {
		if cc.Server == "" {
			return fmt.Errorf("cluster %q does not exist and no server was given: %w", clusterName, util.ErrInvalidConfig)
		}
		cluster := api.NewCluster()
		cluster.Server = cc.Server
		cfg.Clusters[clusterName] = cluster
	}

	kctx := api.NewContext()
	kctx.Cluster = clusterName
	kctx.AuthInfo = cc.CredentialsRef
	kctx.Namespace = cc.Namespace
	cfg.Contexts[cc.Name] = kctx

	if err := s.write(cfg); err != nil {
		return err
	}

	s.logger.Info("added context", "context", cc.Name, "cluster", clusterName)
	return nil
}

// RESTConfig builds a rest.Config bound to the named context
func (s *KubeconfigStore) RESTConfig(name string) (*rest.Config, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cfg, err := s.load()
	if err != nil {
		return nil, err
	}
	if kctx, ok := cfg.Contexts[name]; !ok || kctx == nil {
		return nil, util.NewContextNotFound(name)
	}

	clientConfig := clientcmd.NewNonInteractiveClientConfig(*cfg, name, &clientcmd.ConfigOverrides{}, s.rules())
	restConfig, err := clientConfig.ClientConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to create client config for context %q: %w", name, err)
	}

	return restConfig, nil
}

func (s *KubeconfigStore) rules() *clientcmd.ClientConfigLoadingRules {
	if s.explicitPath != "" {
		return &clientcmd.ClientConfigLoadingRules{ExplicitPath: s.explicitPath}
	}
	return &clientcmd.ClientConfigLoadingRules{Precedence: s.paths}
}

// load reads and merges the kubeconfig files. Callers hold s.mu.
func (s *KubeconfigStore) load() (*api.Config, error) {
	if len(s.paths) == 0 {
		return nil, fmt.Errorf("no kubeconfig paths available: %w", util.ErrInvalidConfig)
	}

	cfg, err := s.rules().Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load kubeconfig: %w", err)
	}
	if cfg == nil {
		return nil, fmt.Errorf("kubeconfig is empty: %w", util.ErrInvalidConfig)
	}

	return cfg, nil
}

// write persists cfg to whichever files hold the changed entries. Callers hold s.mu.
func (s *KubeconfigStore) write(cfg *api.Config) error {
	if err := clientcmd.ModifyConfig(s.rules(), *cfg, false); err != nil {
		return fmt.Errorf("failed to write kubeconfig: %w", err)
	}
	return nil
}

func toClusterContext(cfg *api.Config, name string) ClusterContext {
	kctx := cfg.Contexts[name]

	cc := ClusterContext{
		Name:           name,
		Cluster:        kctx.Cluster,
		Namespace:      kctx.Namespace,
		CredentialsRef: kctx.AuthInfo,
		Current:        name == cfg.CurrentContext,
	}
	if cluster := cfg.Clusters[kctx.Cluster]; cluster != nil {
		cc.Server = cluster.Server
	}
	if cc.Namespace == "" {
		cc.Namespace = defaultNamespace
	}

	return cc
}

// expandPath expands ~ to home directory and evaluates environment variables
func expandPath(path string) (string, error) {
	path = os.ExpandEnv(path)

	if strings.HasPrefix(path, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		path = filepath.Join(home, path[1:])
	}

	return filepath.Clean(path), nil
}
