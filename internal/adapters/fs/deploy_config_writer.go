package fs

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/trebuchet-org/rarity-society/internal/domain/config"
	"github.com/trebuchet-org/rarity-society/internal/usecase"
)

const deployConfigHeader = `# rsoc deployment parameters. Every key is optional; missing keys take
# their default. Accounts may be named here with a private_key (can sign
# typed messages) or an address.

`

// DeployConfigWriter writes rsoc.toml files
type DeployConfigWriter struct{}

// NewDeployConfigWriter creates a new DeployConfigWriter
func NewDeployConfigWriter() *DeployConfigWriter {
	return &DeployConfigWriter{}
}

// WriteDeployConfig writes cfg to path. An existing file is left alone.
func (w *DeployConfigWriter) WriteDeployConfig(path string, cfg *config.DeployConfig) (bool, error) {
	if _, err := os.Stat(path); err == nil {
		return false, nil
	} else if !os.IsNotExist(err) {
		return false, fmt.Errorf("failed to stat %s: %w", path, err)
	}

	var buf bytes.Buffer
	buf.WriteString(deployConfigHeader)
	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return false, fmt.Errorf("failed to encode deployment config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return false, fmt.Errorf("failed to create directory: %w", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return false, fmt.Errorf("failed to write %s: %w", path, err)
	}
	return true, nil
}

var _ usecase.DeployConfigWriter = (*DeployConfigWriter)(nil)
