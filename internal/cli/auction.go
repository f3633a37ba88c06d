package cli

import (
	"github.com/spf13/cobra"
	"github.com/trebuchet-org/rarity-society/internal/cli/render"
	"github.com/trebuchet-org/rarity-society/internal/usecase"
)

// NewAuctionCmd creates the auction command group
func NewAuctionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auction",
		Short: "Bid on and run the token auction",
		Long: `Show the current auction round, bid on it, and settle it.

When run without subcommands, shows the current round.`,
		Args: cobra.NoArgs,
		RunE: runAuctionStatus,
	}

	cmd.AddCommand(&cobra.Command{
		Use:     "status",
		Aliases: []string{"show"},
		Short:   "Show the current auction round",
		Args:    cobra.NoArgs,
		RunE:    runAuctionStatus,
	})
	cmd.AddCommand(newAuctionBidCmd())

	for _, op := range []struct {
		op    usecase.AuctionOperation
		short string
	}{
		{usecase.AuctionSettle, "Settle the ended round while the house is paused"},
		{usecase.AuctionSettleAndCreate, "Settle the ended round and start the next one"},
		{usecase.AuctionPause, "Pause the auction house (owner)"},
		{usecase.AuctionUnpause, "Unpause the auction house, starting a round if none is open (owner)"},
	} {
		cmd.AddCommand(newManageAuctionCmd(op.op, op.short, false))
	}
	for _, op := range []struct {
		op    usecase.AuctionOperation
		short string
	}{
		{usecase.AuctionSetTreasurySplit, "Set the percentage of proceeds kept by the treasury (owner)"},
		{usecase.AuctionSetTimeBuffer, "Set the seconds a late bid extends the round by (owner)"},
		{usecase.AuctionSetReservePrice, "Set the minimum first bid (owner)"},
		{usecase.AuctionSetDuration, "Set the round length in seconds (owner)"},
	} {
		cmd.AddCommand(newManageAuctionCmd(op.op, op.short, true))
	}

	return cmd
}

func runAuctionStatus(cmd *cobra.Command, args []string) error {
	app, err := getApp(cmd)
	if err != nil {
		return err
	}

	view, err := app.ShowAuction.Run(cmd.Context())
	if err != nil {
		return err
	}

	if app.Config.JSON {
		return printJSON(cmd, view)
	}
	return render.NewAuctionRenderer(cmd.OutOrStdout(), namer(app)).Render(view)
}

func newAuctionBidCmd() *cobra.Command {
	var (
		from    string
		tokenID uint64
	)

	cmd := &cobra.Command{
		Use:   "bid [amount]",
		Short: "Bid on the current round (default: the minimum next bid)",
		Example: `  rsoc auction bid 0.5ether --from alice
  rsoc auction bid --from bob`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			params := usecase.PlaceBidParams{From: from}
			if len(args) == 1 {
				params.Amount = args[0]
			}
			if cmd.Flags().Changed("token") {
				params.TokenID = &tokenID
			}

			result, err := app.PlaceBid.Run(cmd.Context(), params)
			if err != nil {
				return err
			}

			if app.Config.JSON {
				return printJSON(cmd, result)
			}
			return render.NewAuctionRenderer(cmd.OutOrStdout(), namer(app)).RenderBid(result)
		},
	}

	addFromFlag(cmd, &from, "deployer")
	cmd.Flags().Uint64Var(&tokenID, "token", 0, "Token the bid is for (default the current round's token)")

	return cmd
}

func newManageAuctionCmd(op usecase.AuctionOperation, short string, setter bool) *cobra.Command {
	var from string

	cmd := &cobra.Command{
		Use:   string(op),
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			params := usecase.ManageAuctionParams{Operation: op, From: from}
			if setter {
				params.Value = args[0]
			}

			result, err := app.ManageAuction.Run(cmd.Context(), params)
			if err != nil {
				return err
			}

			if app.Config.JSON {
				return printJSON(cmd, result)
			}
			return render.NewAuctionRenderer(cmd.OutOrStdout(), namer(app)).RenderManage(result)
		},
	}
	if setter {
		cmd.Use += " <value>"
		cmd.Args = cobra.ExactArgs(1)
	}

	def := "auction owner"
	if op == usecase.AuctionSettle || op == usecase.AuctionSettleAndCreate {
		def = "deployer"
	}
	addFromFlag(cmd, &from, def)

	return cmd
}
