package cli

import (
	"github.com/spf13/cobra"
	"github.com/trebuchet-org/rarity-society/internal/cli/render"
	"github.com/trebuchet-org/rarity-society/internal/usecase"
)

// NewEventsCmd creates the events command
func NewEventsCmd() *cobra.Command {
	var (
		format    string
		contract  string
		name      string
		fromBlock uint64
		limit     int
	)

	cmd := &cobra.Command{
		Use:   "events",
		Short: "List emitted events",
		Long: `List the events the system contracts emitted, oldest first.

Formats:
  table  human readable (default)
  json   records with decoded arguments
  yaml   records with decoded arguments
  raw    ABI encoded EVM logs with topics and data`,
		Example: `  rsoc events --contract governor --name VoteCast
  rsoc events --format raw --limit 10 > logs.json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			f := usecase.EventFormat(format)
			if app.Config.JSON && !cmd.Flags().Changed("format") {
				f = usecase.EventFormatJSON
			}

			result, err := app.ListEvents.Run(cmd.Context(), usecase.ListEventsParams{
				Contract:  contract,
				Name:      name,
				FromBlock: fromBlock,
				Limit:     limit,
				Format:    f,
			})
			if err != nil {
				return err
			}

			if f == usecase.EventFormatTable {
				return render.NewEventsRenderer(cmd.OutOrStdout()).Render(result)
			}
			return app.ListEvents.Export(cmd.OutOrStdout(), result.Records, f)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", string(usecase.EventFormatTable), "Output format (table, json, yaml, raw)")
	cmd.Flags().StringVarP(&contract, "contract", "c", "", "Only events from this contract (name or address)")
	cmd.Flags().StringVarP(&name, "name", "n", "", "Only events with this name, e.g. Transfer")
	cmd.Flags().Uint64Var(&fromBlock, "from-block", 0, "Only events from this block on")
	cmd.Flags().IntVarP(&limit, "limit", "l", 0, "Keep only the most recent events (0 keeps all)")

	return cmd
}
