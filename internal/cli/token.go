package cli

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"
	"github.com/trebuchet-org/rarity-society/internal/cli/render"
	"github.com/trebuchet-org/rarity-society/internal/usecase"
)

// NewTokenCmd creates the token command group
func NewTokenCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint, move and delegate tokens",
	}

	cmd.AddCommand(newTokenMintCmd())
	cmd.AddCommand(newTokenTransferCmd())
	cmd.AddCommand(newTokenBurnCmd())
	cmd.AddCommand(newTokenDelegateCmd(false))
	cmd.AddCommand(newTokenDelegateCmd(true))
	cmd.AddCommand(newTokenVotesCmd())

	return cmd
}

func parseTokenID(s string) (uint64, error) {
	id, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid token id %q", s)
	}
	return id, nil
}

func newTokenMintCmd() *cobra.Command {
	var from string

	cmd := &cobra.Command{
		Use:   "mint [recipient]",
		Short: "Mint the next token (minter or owner only)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			params := usecase.ManageTokenParams{Operation: usecase.TokenMint, From: from}
			if len(args) == 1 {
				params.To = args[0]
			}
			return runToken(cmd, params)
		},
	}

	addFromFlag(cmd, &from, "deployer")
	return cmd
}

func newTokenTransferCmd() *cobra.Command {
	var from string

	cmd := &cobra.Command{
		Use:   "transfer <token-id> <recipient>",
		Short: "Transfer a token, moving its vote to the recipient's delegate",
		Example: `  rsoc token transfer 3 bob --from alice`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseTokenID(args[0])
			if err != nil {
				return err
			}
			return runToken(cmd, usecase.ManageTokenParams{Operation: usecase.TokenTransfer, From: from, To: args[1], TokenID: id})
		},
	}

	addFromFlag(cmd, &from, "deployer")
	return cmd
}

func newTokenBurnCmd() *cobra.Command {
	var from string

	cmd := &cobra.Command{
		Use:   "burn <token-id>",
		Short: "Burn a token (minter or owner only)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseTokenID(args[0])
			if err != nil {
				return err
			}
			return runToken(cmd, usecase.ManageTokenParams{Operation: usecase.TokenBurn, From: from, TokenID: id})
		},
	}

	addFromFlag(cmd, &from, "deployer")
	return cmd
}

func runToken(cmd *cobra.Command, params usecase.ManageTokenParams) error {
	app, err := getApp(cmd)
	if err != nil {
		return err
	}

	result, err := app.ManageToken.Run(cmd.Context(), params)
	if err != nil {
		return err
	}

	if app.Config.JSON {
		return printJSON(cmd, result)
	}
	return render.NewTokenRenderer(cmd.OutOrStdout(), namer(app)).RenderManage(result)
}

// newTokenDelegateCmd creates "delegate", or "delegate-by-sig" when signed
// is set
func newTokenDelegateCmd(signed bool) *cobra.Command {
	var (
		from    string
		bySig   bool
		relayer string
		expiry  time.Duration
	)
	bySig = signed

	cmd := &cobra.Command{
		Use:   "delegate <delegatee>",
		Short: "Delegate voting power, directly or by signature",
		Example: `  # alice votes through bob
  rsoc token delegate bob --from alice

  # alice signs, carol pays for the transaction
  rsoc token delegate bob --from alice --by-sig --relayer carol`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			result, err := app.DelegateVotes.Run(cmd.Context(), usecase.DelegateVotesParams{
				From:      from,
				Delegatee: args[0],
				BySig:     bySig,
				Relayer:   relayer,
				Expiry:    expiry,
			})
			if err != nil {
				return err
			}

			if app.Config.JSON {
				return printJSON(cmd, result)
			}
			return render.NewTokenRenderer(cmd.OutOrStdout(), namer(app)).RenderDelegate(result)
		},
	}

	if signed {
		cmd.Use = "delegate-by-sig <delegatee>"
		cmd.Short = "Sign a delegation and have a relayer submit it"
		cmd.Example = `  rsoc token delegate-by-sig bob --from alice --relayer carol`
	} else {
		cmd.Flags().BoolVar(&bySig, "by-sig", false, "Sign a delegation and have --relayer submit it")
	}
	addFromFlag(cmd, &from, "deployer")
	cmd.Flags().StringVar(&relayer, "relayer", "", "Account that submits a signed delegation (default deployer)")
	cmd.Flags().DurationVar(&expiry, "expiry", time.Hour, "How long a signed delegation stays valid")

	return cmd
}

func newTokenVotesCmd() *cobra.Command {
	var block uint64

	cmd := &cobra.Command{
		Use:     "votes [account]",
		Aliases: []string{"checkpoints"},
		Short:   "Show an account's delegate, votes and checkpoints",
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			params := usecase.ShowVotesParams{Block: block}
			if len(args) == 1 {
				params.Account = args[0]
			}
			result, err := app.ShowVotes.Run(cmd.Context(), params)
			if err != nil {
				return err
			}

			if app.Config.JSON {
				return printJSON(cmd, result)
			}
			return render.NewTokenRenderer(cmd.OutOrStdout(), namer(app)).RenderVotes(result)
		},
	}

	cmd.Flags().Uint64Var(&block, "block", 0, "Also show the votes held at this past block")

	return cmd
}
