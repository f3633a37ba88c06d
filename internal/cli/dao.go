package cli

import (
	"fmt"
	"strings"

	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/trebuchet-org/rarity-society/internal/cli/render"
	"github.com/trebuchet-org/rarity-society/internal/usecase"
)

// NewDAOCmd creates the dao command group
func NewDAOCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dao",
		Short: "Show and change governor settings",
		Long: `Show governor and timelock settings, or change them.

When run without subcommands, shows the settings.`,
		Args: cobra.NoArgs,
		RunE: runDAOSettings,
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "settings",
		Short: "Show governor and timelock settings",
		Args:  cobra.NoArgs,
		RunE:  runDAOSettings,
	})
	cmd.AddCommand(newDAOSetCmd())

	return cmd
}

func runDAOSettings(cmd *cobra.Command, args []string) error {
	app, err := getApp(cmd)
	if err != nil {
		return err
	}

	settings, err := app.ShowSettings.Run(cmd.Context())
	if err != nil {
		return err
	}

	if app.Config.JSON {
		return printJSON(cmd, settings)
	}
	return render.NewDAORenderer(cmd.OutOrStdout(), namer(app)).Render(settings)
}

// parseDAOParameter matches a parameter name
func parseDAOParameter(s string) (usecase.DAOParameter, error) {
	p := usecase.DAOParameter(strings.ToLower(strings.ReplaceAll(s, "_", "-")))
	if !lo.Contains(usecase.DAOParameters, p) {
		names := lo.Map(usecase.DAOParameters, func(p usecase.DAOParameter, _ int) string { return string(p) })
		return "", fmt.Errorf("unknown parameter %q (expected one of %s)", s, strings.Join(names, ", "))
	}
	return p, nil
}

func newDAOSetCmd() *cobra.Command {
	var from string

	names := lo.Map(usecase.DAOParameters, func(p usecase.DAOParameter, _ int) string { return string(p) })

	cmd := &cobra.Command{
		Use:   "set <parameter> [value]",
		Short: "Change a governor setting",
		Long: `Change a governor setting. Most settings are sent from the governor admin;
vetoer changes come from the current vetoer.

Parameters: ` + strings.Join(names, ", ") + `

accept-admin and revoke-veto take no value.`,
		Example: `  rsoc dao set voting-period 7200
  rsoc dao set pending-admin bob
  rsoc dao set accept-admin --from bob`,
		Args:      cobra.RangeArgs(1, 2),
		ValidArgs: names,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			param, err := parseDAOParameter(args[0])
			if err != nil {
				return err
			}
			params := usecase.SetParameterParams{Parameter: param, From: from}
			if len(args) == 2 {
				params.Value = args[1]
			}

			result, err := app.SetParameter.Run(cmd.Context(), params)
			if err != nil {
				return err
			}

			if app.Config.JSON {
				return printJSON(cmd, result)
			}
			return render.NewDAORenderer(cmd.OutOrStdout(), namer(app)).RenderSet(result)
		},
	}

	addFromFlag(cmd, &from, "governor admin")

	return cmd
}
