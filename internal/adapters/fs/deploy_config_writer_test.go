package fs

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/BurntSushi/toml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/rarity-society/internal/domain/config"
)

func TestDeployConfigWriter_WriteDeployConfig(t *testing.T) {
	writer := NewDeployConfigWriter()
	path := filepath.Join(t.TempDir(), "rsoc.toml")

	cfg := config.DefaultDeployConfig()
	cfg.Timelock.Delay = 3600
	wrote, err := writer.WriteDeployConfig(path, cfg)
	require.NoError(t, err)
	assert.True(t, wrote)

	var got config.DeployConfig
	_, err = toml.DecodeFile(path, &got)
	require.NoError(t, err)
	assert.Equal(t, uint64(3600), got.Timelock.Delay)
	assert.Equal(t, "admin", got.DAO.Admin)
	assert.Equal(t, cfg.Auction.ReservePrice, got.Auction.ReservePrice)
}

func TestDeployConfigWriter_KeepsExistingFile(t *testing.T) {
	writer := NewDeployConfigWriter()
	path := filepath.Join(t.TempDir(), "rsoc.toml")
	require.NoError(t, os.WriteFile(path, []byte("[timelock]\ndelay = 1\n"), 0644))

	wrote, err := writer.WriteDeployConfig(path, config.DefaultDeployConfig())
	require.NoError(t, err)
	assert.False(t, wrote)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "[timelock]\ndelay = 1\n", string(data))
}
