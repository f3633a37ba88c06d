package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/trebuchet-org/rarity-society/internal/cli/render"
	"github.com/trebuchet-org/rarity-society/internal/usecase"
)

// NewProposalCmd creates the proposal command group
func NewProposalCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "proposal",
		Aliases: []string{"proposals", "prop"},
		Short:   "Propose, vote on and execute governance proposals",
	}

	cmd.AddCommand(newProposeCmd())
	cmd.AddCommand(newVoteCmd())
	for _, op := range []usecase.ProposalOperation{
		usecase.ProposalQueue,
		usecase.ProposalExecute,
		usecase.ProposalCancel,
		usecase.ProposalVeto,
	} {
		cmd.AddCommand(newManageProposalCmd(op))
	}
	cmd.AddCommand(newListProposalsCmd())
	cmd.AddCommand(newShowProposalCmd())

	return cmd
}

// parseAction reads "TARGET[=VALUE]:SIGNATURE[:ARGS]". ARGS are comma
// separated; brackets group array arguments. A signature starting with 0x
// is raw calldata, and an empty signature sends only the value.
func parseAction(s string) (usecase.ActionInput, error) {
	parts := strings.SplitN(s, ":", 3)
	if len(parts) < 2 {
		return usecase.ActionInput{}, fmt.Errorf("action %q must look like target[=value]:signature[:args]", s)
	}

	var action usecase.ActionInput
	action.Target, action.Value, _ = strings.Cut(strings.TrimSpace(parts[0]), "=")
	action.Target = strings.TrimSpace(action.Target)
	action.Value = strings.TrimSpace(action.Value)
	if action.Target == "" {
		return usecase.ActionInput{}, fmt.Errorf("action %q has no target", s)
	}

	sig := strings.TrimSpace(parts[1])
	if strings.HasPrefix(sig, "0x") {
		action.Calldata = sig
	} else {
		action.Signature = sig
	}

	if len(parts) == 3 {
		if action.Signature == "" {
			return usecase.ActionInput{}, fmt.Errorf("action %q has arguments but no signature", s)
		}
		action.Args = splitArgs(parts[2])
	}
	if action.Signature == "" && action.Calldata == "" && action.Value == "" {
		return usecase.ActionInput{}, fmt.Errorf("action %q does nothing", s)
	}
	return action, nil
}

// splitArgs splits on commas outside of brackets
func splitArgs(s string) []string {
	var (
		args  []string
		depth int
		start int
	)
	for i, r := range s {
		switch r {
		case '[':
			depth++
		case ']':
			depth--
		case ',':
			if depth == 0 {
				args = append(args, strings.TrimSpace(s[start:i]))
				start = i + 1
			}
		}
	}
	if rest := strings.TrimSpace(s[start:]); rest != "" || len(args) > 0 {
		args = append(args, rest)
	}
	return args
}

func newProposeCmd() *cobra.Command {
	var (
		from            string
		actions         []string
		description     string
		descriptionFile string
	)

	cmd := &cobra.Command{
		Use:   "propose",
		Short: "Open a proposal",
		Long: `Open a proposal made of one or more actions the timelock runs once it passes.

Each --action is TARGET[=VALUE]:SIGNATURE[:ARGS]:
  TARGET     account or contract name (timelock, governor, token, auction, weth) or address
  VALUE      native currency sent with the call, e.g. 1ether or "0.5 ether"
  SIGNATURE  function signature such as setDelay(uint256), or raw 0x calldata
  ARGS       comma separated arguments; @name resolves an account or contract`,
		Example: `  # Lengthen the timelock delay to 3 days
  rsoc proposal propose --from alice \
    --action 'timelock:setDelay(uint256):259200' \
    --description 'Lengthen the timelock delay'

  # Pay bob 1 ether from the treasury
  rsoc proposal propose --from alice --action 'bob=1 ether:' --description 'Grant for bob'`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			if descriptionFile != "" {
				data, err := os.ReadFile(descriptionFile)
				if err != nil {
					return fmt.Errorf("failed to read description: %w", err)
				}
				description = string(data)
			}

			params := usecase.ProposeProposalParams{From: from, Description: description}
			for _, s := range actions {
				action, err := parseAction(s)
				if err != nil {
					return err
				}
				params.Actions = append(params.Actions, action)
			}

			result, err := app.ProposeProposal.Run(cmd.Context(), params)
			if err != nil {
				return err
			}

			if app.Config.JSON {
				return printJSON(cmd, result)
			}
			return render.NewProposalRenderer(cmd.OutOrStdout(), namer(app)).RenderPropose(result)
		},
	}

	addFromFlag(cmd, &from, "deployer")
	cmd.Flags().StringArrayVarP(&actions, "action", "a", nil, "Action as target[=value]:signature[:args] (repeatable)")
	cmd.Flags().StringVarP(&description, "description", "d", "", "Proposal description; the first line is its title")
	cmd.Flags().StringVar(&descriptionFile, "description-file", "", "Read the description from a file")
	cmd.MarkFlagsMutuallyExclusive("description", "description-file")

	return cmd
}

func newVoteCmd() *cobra.Command {
	var (
		from    string
		reason  string
		bySig   bool
		relayer string
	)

	cmd := &cobra.Command{
		Use:   "vote <proposal-id> <for|against|abstain>",
		Short: "Vote on an active proposal",
		Example: `  rsoc proposal vote 1 for --from alice --reason "long overdue"

  # bob signs the ballot, carol submits it
  rsoc proposal vote 1 against --from bob --by-sig --relayer carol`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			id, err := parseProposalID(args[0])
			if err != nil {
				return err
			}
			support, err := usecase.ParseSupport(args[1])
			if err != nil {
				return err
			}

			result, err := app.CastVote.Run(cmd.Context(), usecase.CastVoteParams{
				From:       from,
				ProposalID: id,
				Support:    support,
				Reason:     reason,
				BySig:      bySig,
				Relayer:    relayer,
			})
			if err != nil {
				return err
			}

			if app.Config.JSON {
				return printJSON(cmd, result)
			}
			return render.NewProposalRenderer(cmd.OutOrStdout(), namer(app)).RenderVote(result)
		},
	}

	addFromFlag(cmd, &from, "deployer")
	cmd.Flags().StringVar(&reason, "reason", "", "Reason recorded with the vote")
	cmd.Flags().BoolVar(&bySig, "by-sig", false, "Sign the ballot and have --relayer submit it")
	cmd.Flags().StringVar(&relayer, "relayer", "", "Account that submits a signed ballot (default deployer)")
	cmd.MarkFlagsMutuallyExclusive("reason", "by-sig")

	return cmd
}

func newManageProposalCmd(op usecase.ProposalOperation) *cobra.Command {
	var (
		from string
		yes  bool
	)

	short := map[usecase.ProposalOperation]string{
		usecase.ProposalQueue:   "Queue a succeeded proposal in the timelock",
		usecase.ProposalExecute: "Execute a queued proposal once its eta has passed",
		usecase.ProposalCancel:  "Cancel a proposal (proposer, or anyone once the proposer drops below threshold)",
		usecase.ProposalVeto:    "Veto a proposal (vetoer only)",
	}[op]

	cmd := &cobra.Command{
		Use:   string(op) + " <proposal-id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			id, err := parseProposalID(args[0])
			if err != nil {
				return err
			}

			result, err := app.ManageProposal.Run(cmd.Context(), usecase.ManageProposalParams{
				Operation:  op,
				ProposalID: id,
				From:       from,
				Yes:        yes,
			})
			if err != nil {
				return err
			}

			if app.Config.JSON {
				return printJSON(cmd, result)
			}
			return render.NewProposalRenderer(cmd.OutOrStdout(), namer(app)).RenderManage(result)
		},
	}

	def := "deployer"
	if op == usecase.ProposalVeto {
		def = "the configured vetoer"
	}
	addFromFlag(cmd, &from, def)
	if op != usecase.ProposalQueue {
		cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")
	}

	return cmd
}

func newListProposalsCmd() *cobra.Command {
	var (
		state    string
		proposer string
	)

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List proposals, newest first",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			result, err := app.ListProposals.Run(cmd.Context(), usecase.ListProposalsParams{
				State:    state,
				Proposer: proposer,
			})
			if err != nil {
				return err
			}

			if app.Config.JSON {
				return printJSON(cmd, result)
			}
			return render.NewProposalRenderer(cmd.OutOrStdout(), namer(app)).RenderList(result)
		},
	}

	cmd.Flags().StringVar(&state, "state", "", "Only proposals in this state (pending, active, succeeded, queued, ...)")
	cmd.Flags().StringVar(&proposer, "proposer", "", "Only proposals opened by this account")

	return cmd
}

func newShowProposalCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id|query>",
		Short: "Show a proposal with its actions and ballots",
		Long: `Show a proposal by id, or by a query matched against proposal descriptions.
When several proposals match, you pick one interactively.`,
		Example: `  rsoc proposal show 2
  rsoc proposal show "timelock delay"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			result, err := app.ShowProposal.Run(cmd.Context(), usecase.ShowProposalParams{Ref: strings.Join(args, " ")})
			if err != nil {
				return err
			}

			if app.Config.JSON {
				return printJSON(cmd, result)
			}
			return render.NewProposalRenderer(cmd.OutOrStdout(), namer(app)).RenderProposal(result)
		},
	}
}
