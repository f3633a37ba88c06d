package app

import (
	"github.com/trebuchet-org/rarity-society/internal/domain/config"
	"github.com/trebuchet-org/rarity-society/internal/usecase"
)

// App is the main application container that holds all use cases
type App struct {
	// Configuration
	Config *config.RuntimeConfig

	// Shared dependencies
	Keyring usecase.Keyring

	// World and chain
	InitSystem  *usecase.InitSystem
	ManageChain *usecase.ManageChain
	RunScenario *usecase.RunScenario
	ListEvents  *usecase.ListEvents

	// Token and voting power
	ManageToken   *usecase.ManageToken
	DelegateVotes *usecase.DelegateVotes
	ShowVotes     *usecase.ShowVotes

	// Governance
	ProposeProposal *usecase.ProposeProposal
	CastVote        *usecase.CastVote
	ManageProposal  *usecase.ManageProposal
	ListProposals   *usecase.ListProposals
	ShowProposal    *usecase.ShowProposal
	ShowSettings    *usecase.ShowSettings
	SetParameter    *usecase.SetParameter

	// Auction house
	ShowAuction   *usecase.ShowAuction
	PlaceBid      *usecase.PlaceBid
	ManageAuction *usecase.ManageAuction
}

// NewApp creates a new application instance with all use cases
func NewApp(
	cfg *config.RuntimeConfig,
	keyring usecase.Keyring,
	initSystem *usecase.InitSystem,
	manageChain *usecase.ManageChain,
	runScenario *usecase.RunScenario,
	listEvents *usecase.ListEvents,
	manageToken *usecase.ManageToken,
	delegateVotes *usecase.DelegateVotes,
	showVotes *usecase.ShowVotes,
	proposeProposal *usecase.ProposeProposal,
	castVote *usecase.CastVote,
	manageProposal *usecase.ManageProposal,
	listProposals *usecase.ListProposals,
	showProposal *usecase.ShowProposal,
	showSettings *usecase.ShowSettings,
	setParameter *usecase.SetParameter,
	showAuction *usecase.ShowAuction,
	placeBid *usecase.PlaceBid,
	manageAuction *usecase.ManageAuction,
) (*App, error) {
	return &App{
		Config:          cfg,
		Keyring:         keyring,
		InitSystem:      initSystem,
		ManageChain:     manageChain,
		RunScenario:     runScenario,
		ListEvents:      listEvents,
		ManageToken:     manageToken,
		DelegateVotes:   delegateVotes,
		ShowVotes:       showVotes,
		ProposeProposal: proposeProposal,
		CastVote:        castVote,
		ManageProposal:  manageProposal,
		ListProposals:   listProposals,
		ShowProposal:    showProposal,
		ShowSettings:    showSettings,
		SetParameter:    setParameter,
		ShowAuction:     showAuction,
		PlaceBid:        placeBid,
		ManageAuction:   manageAuction,
	}, nil
}
