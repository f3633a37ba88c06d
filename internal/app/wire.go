//go:build wireinject
// +build wireinject

package app

import (
	"github.com/google/wire"
	"github.com/spf13/viper"
	"github.com/trebuchet-org/rarity-society/internal/adapters"
	"github.com/trebuchet-org/rarity-society/internal/config"
	"github.com/trebuchet-org/rarity-society/internal/logging"
	"github.com/trebuchet-org/rarity-society/internal/usecase"
)

// InitApp creates a fully wired App instance
func InitApp(v *viper.Viper, sink usecase.ProgressSink) (*App, error) {
	wire.Build(
		// Configuration
		config.Provider,
		logging.LoggingSet,

		// Adapters
		adapters.AllAdapters,

		// Shared world access
		usecase.NewWorld,

		// Use cases
		usecase.NewInitSystem,
		usecase.NewManageChain,
		usecase.NewRunScenario,
		usecase.NewListEvents,
		usecase.NewManageToken,
		usecase.NewDelegateVotes,
		usecase.NewShowVotes,
		usecase.NewProposeProposal,
		usecase.NewCastVote,
		usecase.NewManageProposal,
		usecase.NewListProposals,
		usecase.NewShowProposal,
		usecase.NewShowSettings,
		usecase.NewSetParameter,
		usecase.NewShowAuction,
		usecase.NewPlaceBid,
		usecase.NewManageAuction,

		// App
		NewApp,
	)
	return nil, nil
}
