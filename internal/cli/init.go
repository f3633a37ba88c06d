package cli

import (
	"github.com/spf13/cobra"
	"github.com/trebuchet-org/rarity-society/internal/cli/render"
	"github.com/trebuchet-org/rarity-society/internal/usecase"
)

// NewInitCmd creates the init command
func NewInitCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Deploy a fresh Rarity Society world",
		Long: `Deploy WETH, the token, timelock, governor and auction house into a new local
world and fund the dev accounts.

Parameters come from rsoc.toml in the project root. Without one, the defaults
are used and written to a starter rsoc.toml.`,
		Example: `  # Deploy with the parameters in rsoc.toml
  rsoc init

  # Throw away the current world and start over
  rsoc init --force`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			result, err := app.InitSystem.Run(cmd.Context(), usecase.InitSystemParams{Force: force})
			if err != nil {
				return err
			}

			if app.Config.JSON {
				return printJSON(cmd, result)
			}
			return render.NewInitRenderer(cmd.OutOrStdout()).Render(result)
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Replace an existing world")

	return cmd
}
