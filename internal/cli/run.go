package cli

import (
	"github.com/spf13/cobra"
	"github.com/trebuchet-org/rarity-society/internal/cli/render"
	"github.com/trebuchet-org/rarity-society/internal/usecase"
)

// NewRunCmd creates the run command
func NewRunCmd() *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "run <scenario.yaml>",
		Short: "Replay a scenario file against the chain",
		Long: `Replay a scenario: a YAML list of steps that mine, warp the clock, fund
accounts, deploy receiver fixtures and call contract methods.

The run stops at the first failing step. Steps before it stay applied
unless --dry-run is set.`,
		Example: `  rsoc run scenarios/full-cycle.yaml
  rsoc run scenarios/veto.yaml --dry-run`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			result, err := app.RunScenario.Run(cmd.Context(), usecase.RunScenarioParams{
				Path:   args[0],
				DryRun: dryRun,
			})
			if result != nil && len(result.Steps) > 0 && !app.Config.JSON {
				if rerr := render.NewScenarioRenderer(cmd.OutOrStdout()).Render(result); rerr != nil {
					return rerr
				}
			}
			if err != nil {
				return err
			}

			if app.Config.JSON {
				return printJSON(cmd, result)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Run without saving the chain")

	return cmd
}
