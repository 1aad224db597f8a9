package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	defaultConfigName = ".fleetdeck"
	defaultConfigDir  = ".fleetdeck"

	// DefaultProbeTimeout bounds one cluster's probe during a sweep
	DefaultProbeTimeout = 10 * time.Second

	// DefaultProbeRetries is the number of extra attempts for transient probe errors
	DefaultProbeRetries = 2

	// DefaultServerAddress is where "fleetdeck serve" listens
	DefaultServerAddress = ":8080"
)

// Manager handles fleetdeck configuration
type Manager struct {
	configPath string
	config     *FleetConfig
	viper      *viper.Viper
}

// NewManager creates a new configuration manager
func NewManager(configPath string) *Manager {
	return &Manager{
		configPath: configPath,
		viper:      viper.New(),
		config:     &FleetConfig{},
	}
}

// Load loads the fleetdeck configuration from file.
// Values may be overridden by FLEETDECK_* environment variables,
// e.g. FLEETDECK_SWEEP_PROBETIMEOUT=5s.
func (m *Manager) Load() (*FleetConfig, error) {
	if m.configPath != "" {
		m.viper.SetConfigFile(m.configPath)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}

		// ~/.fleetdeck/.fleetdeck.yaml, then ~/.fleetdeck.yaml
		m.viper.AddConfigPath(filepath.Join(home, defaultConfigDir))
		m.viper.AddConfigPath(home)
		m.viper.SetConfigName(defaultConfigName)
		m.viper.SetConfigType("yaml")
	}

	m.viper.SetEnvPrefix("FLEETDECK")
	m.viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	m.viper.AutomaticEnv()
	m.bindEnvKeys()

	m.config = &FleetConfig{}

	if err := m.viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	if err := m.viper.Unmarshal(m.config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	m.applyDefaults()

	return m.config, nil
}

// bindEnvKeys registers nested keys so AutomaticEnv can see them without a config file
func (m *Manager) bindEnvKeys() {
	for _, key := range []string{
		"defaults.timeout",
		"defaults.parallel",
		"defaults.outputFormat",
		"defaults.noColor",
		"sweep.probeTimeout",
		"sweep.probeRetries",
		"sweep.schedule",
		"server.address",
	} {
		_ = m.viper.BindEnv(key)
	}
}

// Save saves the current configuration to file
func (m *Manager) Save() error {
	if m.configPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("failed to get home directory: %w", err)
		}

		m.configPath = filepath.Join(home, defaultConfigDir, "config.yaml")
	}

	dir := filepath.Dir(m.configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := m.viper.WriteConfigAs(m.configPath); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// GetConfig returns the current configuration
func (m *Manager) GetConfig() *FleetConfig {
	return m.config
}

// GetClusterConfig returns metadata for a specific context
func (m *Manager) GetClusterConfig(name string) (ClusterConfig, bool) {
	if m.config.Clusters == nil {
		return ClusterConfig{}, false
	}

	cluster, ok := m.config.Clusters[name]
	return cluster, ok
}

// SetClusterConfig sets or updates metadata for a context
func (m *Manager) SetClusterConfig(name string, config ClusterConfig) {
	if m.config.Clusters == nil {
		m.config.Clusters = make(map[string]ClusterConfig)
	}

	m.config.Clusters[name] = config
	m.viper.Set("clusters", m.config.Clusters)
}

// RemoveClusterConfig removes metadata for a context
func (m *Manager) RemoveClusterConfig(name string) {
	if m.config.Clusters == nil {
		return
	}

	delete(m.config.Clusters, name)
	m.viper.Set("clusters", m.config.Clusters)
}

// FilterByLabels returns the contexts whose configured labels match every selector pair
func (m *Manager) FilterByLabels(contexts []ClusterContext, selector map[string]string) []ClusterContext {
	if len(selector) == 0 {
		return contexts
	}

	matching := make([]ClusterContext, 0, len(contexts))
	for _, cc := range contexts {
		cfg, ok := m.config.Clusters[cc.Name]
		if !ok {
			continue
		}
		if matchesLabels(cfg.Labels, selector) {
			matching = append(matching, cc)
		}
	}

	return matching
}

// MergeContextInfo copies alias and labels from fleetdeck config onto kubeconfig contexts
func (m *Manager) MergeContextInfo(contexts []ClusterContext) []ClusterContext {
	if m.config.Clusters == nil {
		return contexts
	}

	for i := range contexts {
		if cfg, ok := m.config.Clusters[contexts[i].Name]; ok {
			contexts[i].Alias = cfg.Alias
			contexts[i].Labels = cfg.Labels
		}
	}

	return contexts
}

// applyDefaults sets default values for configuration
func (m *Manager) applyDefaults() {
	if m.config == nil {
		return
	}

	if m.config.Defaults.Timeout == 0 {
		m.config.Defaults.Timeout = 30 * time.Second
	}
	if m.config.Defaults.Parallel == 0 {
		m.config.Defaults.Parallel = 5
	}
	if m.config.Defaults.OutputFormat == "" {
		m.config.Defaults.OutputFormat = "table"
	}

	if m.config.Sweep.ProbeTimeout == 0 {
		m.config.Sweep.ProbeTimeout = DefaultProbeTimeout
	}
	if m.config.Sweep.ProbeRetries < 0 {
		m.config.Sweep.ProbeRetries = 0
	} else if m.config.Sweep.ProbeRetries == 0 && !m.viper.IsSet("sweep.probeRetries") {
		m.config.Sweep.ProbeRetries = DefaultProbeRetries
	}

	if m.config.Server.Address == "" {
		m.config.Server.Address = DefaultServerAddress
	}
}

// matchesLabels checks if cluster labels match the required labels
func matchesLabels(clusterLabels, requiredLabels map[string]string) bool {
	for key, value := range requiredLabels {
		clusterValue, exists := clusterLabels[key]
		if !exists || clusterValue != value {
			return false
		}
	}

	return true
}
