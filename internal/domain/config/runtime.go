package config

import (
	"path/filepath"
	"time"
)

// RuntimeConfig represents the complete runtime configuration
// This is injected into use cases and contains all resolved settings
type RuntimeConfig struct {
	// Core settings
	ProjectRoot string
	DataDir     string

	// Execution settings
	Debug          bool
	NonInteractive bool
	JSON           bool // Output in JSON format
	Timeout        time.Duration

	// ConfigSource is the rsoc.toml that was loaded, empty when running on defaults
	ConfigSource string

	// Resolved deployment parameters
	Deploy *DeployConfig
}

// StatePath is where the world state is persisted
func (c *RuntimeConfig) StatePath() string {
	return filepath.Join(c.DataDir, "state.json")
}
