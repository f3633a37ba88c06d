package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/trebuchet-org/rarity-society/internal/adapters/progress"
	"github.com/trebuchet-org/rarity-society/internal/app"
	"github.com/trebuchet-org/rarity-society/internal/config"
	"github.com/trebuchet-org/rarity-society/internal/usecase"
)

// contextKey is the type for context keys
type contextKey string

const (
	// appKey is the context key for the app instance
	appKey contextKey = "app"
)

// finishingSink is a progress sink that has to be stopped once the
// command is done
type finishingSink interface {
	usecase.ProgressSink
	Finish()
}

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "rsoc",
		Short: "Rarity Society governance and auction simulator",
		Long: `rsoc runs the Rarity Society token, governor, timelock and auction house on a
local in-process chain. The world is kept in .rsoc/state.json so every command
picks up where the last one left off.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if skipsApp(cmd.Name()) {
				return nil
			}

			projectRoot, err := config.FindProjectRoot()
			if err != nil {
				return err
			}

			v := config.SetupViper(projectRoot, cmd)

			sink := newProgressSink(v.GetBool("json"), v.GetBool("non_interactive"))
			cobra.OnFinalize(sink.Finish)

			appInstance, err := app.InitApp(v, sink)
			if err != nil {
				return fmt.Errorf("failed to initialize app: %w", err)
			}

			ctx := context.WithValue(cmd.Context(), appKey, appInstance)

			if appInstance.Config.Timeout > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, appInstance.Config.Timeout)
				cobra.OnFinalize(cancel)
			}

			cmd.SetContext(ctx)
			return nil
		},
	}

	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug output")
	rootCmd.PersistentFlags().Bool("non-interactive", false, "Disable interactive prompts")
	rootCmd.PersistentFlags().Bool("json", false, "Output results as JSON")
	rootCmd.PersistentFlags().Duration("timeout", 0, "Abort commands that run longer than this")

	rootCmd.AddGroup(&cobra.Group{
		ID:    "main",
		Title: "Main Commands",
	})
	rootCmd.AddGroup(&cobra.Group{
		ID:    "governance",
		Title: "Governance Commands",
	})
	rootCmd.AddGroup(&cobra.Group{
		ID:    "chain",
		Title: "Chain Commands",
	})

	for _, c := range []*cobra.Command{NewInitCmd(), NewRunCmd(), NewEventsCmd()} {
		c.GroupID = "main"
		rootCmd.AddCommand(c)
	}
	for _, c := range []*cobra.Command{NewProposalCmd(), NewDAOCmd(), NewTokenCmd(), NewAuctionCmd()} {
		c.GroupID = "governance"
		rootCmd.AddCommand(c)
	}

	chainCmd := NewChainCmd()
	chainCmd.GroupID = "chain"
	rootCmd.AddCommand(chainCmd)

	rootCmd.AddCommand(NewVersionCmd())

	return rootCmd
}

// skipsApp reports whether a command runs without loading the project
func skipsApp(name string) bool {
	switch name {
	case "version", "help", "completion", cobra.ShellCompRequestCmd, cobra.ShellCompNoDescRequestCmd:
		return true
	}
	return false
}

func newProgressSink(jsonOutput, nonInteractive bool) finishingSink {
	if jsonOutput || nonInteractive {
		return progress.NewNopSink()
	}
	return progress.NewSpinnerProgressReporter()
}

// getApp retrieves the app instance from the command context
func getApp(cmd *cobra.Command) (*app.App, error) {
	appInstance := cmd.Context().Value(appKey)
	if appInstance == nil {
		return nil, fmt.Errorf("app not initialized")
	}

	a, ok := appInstance.(*app.App)
	if !ok {
		return nil, fmt.Errorf("invalid app instance")
	}

	return a, nil
}
