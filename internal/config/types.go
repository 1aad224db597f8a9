package config

import "time"

// FleetConfig represents the fleetdeck configuration file structure
type FleetConfig struct {
	// Clusters maps kubeconfig context names to display metadata
	Clusters map[string]ClusterConfig `yaml:"clusters,omitempty" json:"clusters,omitempty"`

	// Defaults contains default settings for operations
	Defaults DefaultsConfig `yaml:"defaults,omitempty" json:"defaults,omitempty"`

	// Sweep controls cross-cluster health sweeps
	Sweep SweepConfig `yaml:"sweep,omitempty" json:"sweep,omitempty"`

	// Server controls the panel HTTP API started by "fleetdeck serve"
	Server ServerConfig `yaml:"server,omitempty" json:"server,omitempty"`
}

// ClusterConfig holds operator-supplied metadata for one context
type ClusterConfig struct {
	// Alias is a friendly name for the cluster
	Alias string `yaml:"alias,omitempty" json:"alias,omitempty"`

	// Labels for organizing clusters
	Labels map[string]string `yaml:"labels,omitempty" json:"labels,omitempty"`
}

// DefaultsConfig contains default configuration values
type DefaultsConfig struct {
	// Timeout for API operations
	Timeout time.Duration `yaml:"timeout,omitempty" json:"timeout,omitempty"`

	// Parallel is the number of concurrent sub-fetches for aggregate metrics
	Parallel int `yaml:"parallel,omitempty" json:"parallel,omitempty"`

	// OutputFormat is the default output format (table, json, yaml)
	OutputFormat string `yaml:"outputFormat,omitempty" json:"outputFormat,omitempty"`

	// NoColor disables colored output
	NoColor bool `yaml:"noColor,omitempty" json:"noColor,omitempty"`
}

// SweepConfig bounds each per-cluster probe of a sweep
type SweepConfig struct {
	// ProbeTimeout is the deadline for one cluster's node/pod/namespace probe
	ProbeTimeout time.Duration `yaml:"probeTimeout,omitempty" json:"probeTimeout,omitempty"`

	// ProbeRetries is how many times a read-only probe call is retried on transient errors
	ProbeRetries int `yaml:"probeRetries,omitempty" json:"probeRetries,omitempty"`

	// Schedule is a cron spec for periodic sweeps in serve mode; empty disables them
	Schedule string `yaml:"schedule,omitempty" json:"schedule,omitempty"`
}

// ServerConfig configures the panel HTTP API
type ServerConfig struct {
	// Address is the listen address, e.g. ":8080"
	Address string `yaml:"address,omitempty" json:"address,omitempty"`
}

// ClusterContext is one named connection profile from the kubeconfig
type ClusterContext struct {
	// Name is the kubeconfig context name (unique)
	Name string `json:"name" yaml:"name"`

	// Cluster is the kubeconfig cluster entry the context points at
	Cluster string `json:"cluster" yaml:"cluster"`

	// Server is the API server URL
	Server string `json:"server" yaml:"server"`

	// Namespace is the default namespace
	Namespace string `json:"namespace" yaml:"namespace"`

	// CredentialsRef is the kubeconfig user (auth info) entry
	CredentialsRef string `json:"credentialsRef" yaml:"credentialsRef"`

	// Current indicates if this is the current context
	Current bool `json:"current" yaml:"current"`

	// Alias is a friendly name from fleetdeck config
	Alias string `json:"alias,omitempty" yaml:"alias,omitempty"`

	// Labels from fleetdeck config
	Labels map[string]string `json:"labels,omitempty" yaml:"labels,omitempty"`
}
