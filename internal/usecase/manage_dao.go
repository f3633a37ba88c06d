package usecase

import (
	"context"
	"fmt"
	"strconv"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"github.com/trebuchet-org/rarity-society/internal/chain"
	"github.com/trebuchet-org/rarity-society/internal/contracts/governor"
	"github.com/trebuchet-org/rarity-society/internal/domain/config"
	"github.com/trebuchet-org/rarity-society/internal/domain/models"
)

// DAOSettings is the governance configuration of the deployed system
type DAOSettings struct {
	Admin                common.Address             `json:"admin"`
	PendingAdmin         common.Address             `json:"pendingAdmin"`
	Vetoer               common.Address             `json:"vetoer"`
	Params               governor.Params            `json:"params"`
	ProposalCount        uint64                     `json:"proposalCount"`
	TotalSupply          uint64                     `json:"totalSupply"`
	ProposalThresholdMax uint64                     `json:"proposalThresholdMax"`
	QuorumVotes          uint64                     `json:"quorumVotes"`
	TimelockAdmin        common.Address             `json:"timelockAdmin"`
	TimelockDelay        uint64                     `json:"timelockDelay"`
	Treasury             *uint256.Int               `json:"treasury"`
	Queued               []models.QueuedTransaction `json:"queued"`
	Names                map[common.Address]string  `json:"-"`
}

// ShowSettings reads the governor and timelock configuration
type ShowSettings struct {
	world *World
}

// NewShowSettings creates a new ShowSettings use case
func NewShowSettings(world *World) *ShowSettings {
	return &ShowSettings{world: world}
}

// Run reads the settings
func (uc *ShowSettings) Run(ctx context.Context) (*DAOSettings, error) {
	var result *DAOSettings
	err := uc.world.View(ctx, func(s *Session) error {
		var err error
		result, err = settings(s)
		return err
	})
	return result, err
}

func settings(s *Session) (*DAOSettings, error) {
	gov, err := s.Governor()
	if err != nil {
		return nil, err
	}
	tl, err := s.Timelock()
	if err != nil {
		return nil, err
	}
	tok, err := s.Token()
	if err != nil {
		return nil, err
	}
	maxThreshold, err := gov.MaxProposalThreshold(s.Host)
	if err != nil {
		return nil, err
	}
	quorum, err := gov.QuorumVotes(s.Host)
	if err != nil {
		return nil, err
	}
	st := &DAOSettings{
		Admin:                gov.Admin(),
		PendingAdmin:         gov.PendingAdmin(),
		Vetoer:               gov.Vetoer(),
		Params:               gov.Params(),
		ProposalCount:        gov.ProposalCount(),
		TotalSupply:          tok.TotalSupply(),
		ProposalThresholdMax: maxThreshold,
		QuorumVotes:          quorum,
		TimelockAdmin:        tl.Admin(),
		TimelockDelay:        tl.Delay(),
		Treasury:             s.Host.Balance(s.System.Timelock),
		Queued:               tl.QueuedTransactions(),
		Names:                make(map[common.Address]string),
	}
	for _, a := range []common.Address{st.Admin, st.PendingAdmin, st.Vetoer, st.TimelockAdmin} {
		st.Names[a] = s.NameOf(a)
	}
	return st, nil
}

// DAOParameter is a governor setting the admin can change
type DAOParameter string

const (
	ParamVotingDelay       DAOParameter = "voting-delay"
	ParamVotingPeriod      DAOParameter = "voting-period"
	ParamProposalThreshold DAOParameter = "proposal-threshold"
	ParamQuorumVotesBPS    DAOParameter = "quorum-votes-bps"
	ParamPendingAdmin      DAOParameter = "pending-admin"
	ParamAcceptAdmin       DAOParameter = "accept-admin"
	ParamVetoer            DAOParameter = "vetoer"
	ParamRevokeVeto        DAOParameter = "revoke-veto"
)

// DAOParameters lists every settable parameter
var DAOParameters = []DAOParameter{
	ParamVotingDelay, ParamVotingPeriod, ParamProposalThreshold, ParamQuorumVotesBPS,
	ParamPendingAdmin, ParamAcceptAdmin, ParamVetoer, ParamRevokeVeto,
}

// SetParameterParams contains parameters for a governor setting change
type SetParameterParams struct {
	Parameter DAOParameter
	Value     string
	From      string
}

// SetParameterResult contains the settings after the change
type SetParameterResult struct {
	Parameter DAOParameter `json:"parameter"`
	Settings  *DAOSettings `json:"settings"`
	Tx        *TxResult    `json:"tx"`
}

// SetParameter changes a governor setting from the admin, or from the
// vetoer for veto changes
type SetParameter struct {
	world *World
	cfg   *config.RuntimeConfig
}

// NewSetParameter creates a new SetParameter use case
func NewSetParameter(world *World, cfg *config.RuntimeConfig) *SetParameter {
	return &SetParameter{world: world, cfg: cfg}
}

// Run changes the setting
func (uc *SetParameter) Run(ctx context.Context, params SetParameterParams) (*SetParameterResult, error) {
	result := &SetParameterResult{Parameter: params.Parameter}
	err := uc.world.Update(ctx, func(s *Session) error {
		gov, err := s.Governor()
		if err != nil {
			return err
		}
		fn, err := uc.change(s, gov, params)
		if err != nil {
			return err
		}
		def := uc.defaultSender(params.Parameter)
		if params.Parameter == ParamAcceptAdmin {
			def = gov.PendingAdmin().Hex()
		}
		from, err := s.Sender(params.From, def)
		if err != nil {
			return err
		}
		result.Tx, err = s.Send(ctx, from, s.System.Governor, nil, fn)
		if err != nil {
			return err
		}
		result.Settings, err = settings(s)
		return err
	})
	return result, err
}

func (uc *SetParameter) defaultSender(p DAOParameter) string {
	dc := uc.cfg.Deploy
	if dc == nil {
		dc = config.DefaultDeployConfig()
	}
	switch p {
	case ParamVetoer, ParamRevokeVeto:
		return dc.DAO.Vetoer
	}
	return dc.DAO.Admin
}

func (uc *SetParameter) change(s *Session, gov *governor.Governor, params SetParameterParams) (func(env *chain.Env) error, error) {
	number := func() (uint64, error) {
		n, err := strconv.ParseUint(params.Value, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("%s needs a number, got %q", params.Parameter, params.Value)
		}
		return n, nil
	}
	address := func() (common.Address, error) {
		if params.Value == "" {
			return common.Address{}, fmt.Errorf("%s needs an account", params.Parameter)
		}
		return s.Resolve(params.Value)
	}

	switch params.Parameter {
	case ParamVotingDelay:
		n, err := number()
		return func(env *chain.Env) error { return gov.SetVotingDelay(env, n) }, err
	case ParamVotingPeriod:
		n, err := number()
		return func(env *chain.Env) error { return gov.SetVotingPeriod(env, n) }, err
	case ParamProposalThreshold:
		n, err := number()
		return func(env *chain.Env) error { return gov.SetProposalThreshold(env, n) }, err
	case ParamQuorumVotesBPS:
		n, err := number()
		return func(env *chain.Env) error { return gov.SetQuorumVotesBPS(env, n) }, err
	case ParamPendingAdmin:
		a, err := address()
		return func(env *chain.Env) error { return gov.SetPendingAdmin(env, a) }, err
	case ParamAcceptAdmin:
		return gov.AcceptAdmin, nil
	case ParamVetoer:
		a, err := address()
		return func(env *chain.Env) error { return gov.SetVetoer(env, a) }, err
	case ParamRevokeVeto:
		return gov.RevokeVetoPower, nil
	}
	return nil, fmt.Errorf("unknown parameter %q", params.Parameter)
}
