package cli

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"
	"github.com/trebuchet-org/rarity-society/internal/cli/render"
	"github.com/trebuchet-org/rarity-society/internal/usecase"
)

// NewChainCmd creates the chain command group
func NewChainCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chain",
		Short: "Inspect and drive the local chain",
		Long: `Inspect the local chain and move it forward.

When run without subcommands, shows the chain status.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runChain(cmd, usecase.ManageChainParams{Operation: usecase.ChainStatus})
		},
	}

	cmd.AddCommand(newChainStatusCmd())
	cmd.AddCommand(newChainMineCmd())
	cmd.AddCommand(newChainWarpCmd())
	cmd.AddCommand(newChainAutomineCmd())

	return cmd
}

func newChainStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show block, clock, contracts and account holdings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runChain(cmd, usecase.ManageChainParams{Operation: usecase.ChainStatus})
		},
	}
}

func newChainMineCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mine [blocks]",
		Short: "Mine blocks (default 1)",
		Example: `  # Skip the voting delay of a proposal
  rsoc chain mine 13000`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			blocks := uint64(1)
			if len(args) == 1 {
				n, err := strconv.ParseUint(args[0], 10, 64)
				if err != nil || n == 0 {
					return fmt.Errorf("invalid block count %q", args[0])
				}
				blocks = n
			}
			return runChain(cmd, usecase.ManageChainParams{Operation: usecase.ChainMine, Blocks: blocks})
		},
	}
}

func newChainWarpCmd() *cobra.Command {
	var timestamp uint64

	cmd := &cobra.Command{
		Use:   "warp [duration]",
		Short: "Move the clock forward",
		Example: `  # Let the timelock delay pass
  rsoc chain warp 48h

  # Set the next block's timestamp
  rsoc chain warp --to 1700864000`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			params := usecase.ManageChainParams{Operation: usecase.ChainWarp, Timestamp: timestamp}
			if len(args) == 1 {
				d, err := time.ParseDuration(args[0])
				if err != nil {
					return fmt.Errorf("invalid duration %q: %w", args[0], err)
				}
				params.Duration = d
			}
			if params.Duration == 0 && params.Timestamp == 0 {
				return fmt.Errorf("give a duration or --to")
			}
			return runChain(cmd, params)
		},
	}

	cmd.Flags().Uint64Var(&timestamp, "to", 0, "Absolute unix timestamp for the next block")

	return cmd
}

func newChainAutomineCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "automine <on|off>",
		Short:     "Seal every transaction in its own block, or batch until mined",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"on", "off"},
		RunE: func(cmd *cobra.Command, args []string) error {
			var on bool
			switch args[0] {
			case "on", "true":
				on = true
			case "off", "false":
			default:
				return fmt.Errorf("automine takes on or off, got %q", args[0])
			}
			return runChain(cmd, usecase.ManageChainParams{Operation: usecase.ChainAutomine, Automine: on})
		},
	}
}

func runChain(cmd *cobra.Command, params usecase.ManageChainParams) error {
	app, err := getApp(cmd)
	if err != nil {
		return err
	}

	result, err := app.ManageChain.Run(cmd.Context(), params)
	if err != nil {
		return err
	}

	if app.Config.JSON {
		return printJSON(cmd, result)
	}
	return render.NewChainRenderer(cmd.OutOrStdout()).Render(result)
}
