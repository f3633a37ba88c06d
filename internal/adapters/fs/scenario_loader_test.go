package fs

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/rarity-society/internal/domain/config"
	"github.com/trebuchet-org/rarity-society/internal/domain/models"
)

func TestScenarioLoader_LoadScenario(t *testing.T) {
	tests := []struct {
		name    string
		content string
		check   func(t *testing.T, sc *models.Scenario)
		wantErr string
	}{
		{
			name: "bid and settle",
			content: `name: first auction
steps:
  - call: auction.unpause
    from: deployer
  - call: auction.createBid
    from: alice
    args: ["0"]
    value: 1 ether
  - warp: 11m
  - call: auction.settleCurrentAndCreateNewAuction
`,
			check: func(t *testing.T, sc *models.Scenario) {
				assert.Equal(t, "first auction", sc.Name)
				require.Len(t, sc.Steps, 4)
				assert.Equal(t, "auction.createBid", sc.Steps[1].Call)
				assert.Equal(t, []string{"0"}, sc.Steps[1].Args)
				assert.Equal(t, "1 ether", sc.Steps[1].Value)
				kind, err := sc.Steps[2].Kind()
				require.NoError(t, err)
				assert.Equal(t, models.StepWarp, kind)
			},
		},
		{
			name:    "name defaults to file name",
			content: "steps:\n  - mine: 3\n",
			check: func(t *testing.T, sc *models.Scenario) {
				assert.Equal(t, "scenario.yaml", sc.Name)
				assert.Equal(t, uint64(3), sc.Steps[0].Mine)
			},
		},
		{
			name:    "expect revert",
			content: "steps:\n  - call: governor.queue\n    args: [\"1\"]\n    expect_revert: can only be queued if it is succeeded\n",
			check: func(t *testing.T, sc *models.Scenario) {
				assert.Contains(t, sc.Steps[0].ExpectRevert, "succeeded")
			},
		},
		{
			name:    "unknown key",
			content: "steps:\n  - cal: auction.pause\n",
			wantErr: "failed to parse scenario",
		},
		{
			name:    "no steps",
			content: "name: empty\n",
			wantErr: "has no steps",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			require.NoError(t, os.WriteFile(filepath.Join(dir, "scenario.yaml"), []byte(tt.content), 0644))
			loader := NewScenarioLoader(&config.RuntimeConfig{ProjectRoot: dir})

			sc, err := loader.LoadScenario(context.Background(), "scenario.yaml")
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			tt.check(t, sc)
		})
	}
}

func TestScenarioLoader_MissingFile(t *testing.T) {
	loader := NewScenarioLoader(&config.RuntimeConfig{ProjectRoot: t.TempDir()})
	_, err := loader.LoadScenario(context.Background(), "nope.yaml")
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}
