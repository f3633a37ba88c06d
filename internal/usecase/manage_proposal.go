package usecase

import (
	"context"
	"fmt"

	"github.com/trebuchet-org/rarity-society/internal/chain"
	"github.com/trebuchet-org/rarity-society/internal/domain/config"
)

// ProposalOperation moves a proposal through its lifecycle
type ProposalOperation string

const (
	ProposalQueue   ProposalOperation = "queue"
	ProposalExecute ProposalOperation = "execute"
	ProposalCancel  ProposalOperation = "cancel"
	ProposalVeto    ProposalOperation = "veto"
)

// confirm reports whether the operation asks the user first
func (op ProposalOperation) confirm() bool {
	return op != ProposalQueue
}

// ManageProposalParams contains parameters for a lifecycle step
type ManageProposalParams struct {
	Operation  ProposalOperation
	ProposalID uint64
	From       string
	// Yes skips the confirmation prompt
	Yes bool
}

// ManageProposalResult contains the proposal after the step
type ManageProposalResult struct {
	Operation ProposalOperation `json:"operation"`
	Aborted   bool              `json:"aborted,omitempty"`
	Proposal  *ProposalView     `json:"proposal"`
	Tx        *TxResult         `json:"tx,omitempty"`
}

// ManageProposal queues, executes, cancels and vetoes proposals
type ManageProposal struct {
	world     *World
	cfg       *config.RuntimeConfig
	confirmer Confirmer
	encoder   CallEncoder
}

// NewManageProposal creates a new ManageProposal use case
func NewManageProposal(world *World, cfg *config.RuntimeConfig, confirmer Confirmer, encoder CallEncoder) *ManageProposal {
	return &ManageProposal{world: world, cfg: cfg, confirmer: confirmer, encoder: encoder}
}

// Run executes the step
func (uc *ManageProposal) Run(ctx context.Context, params ManageProposalParams) (*ManageProposalResult, error) {
	result := &ManageProposalResult{Operation: params.Operation}

	def := "deployer"
	if params.Operation == ProposalVeto && uc.cfg.Deploy != nil {
		def = uc.cfg.Deploy.DAO.Vetoer
	}

	err := uc.world.Update(ctx, func(s *Session) error {
		gov, err := s.Governor()
		if err != nil {
			return err
		}
		from, err := s.Sender(params.From, def)
		if err != nil {
			return err
		}
		before, err := proposalView(s, gov, uc.encoder, params.ProposalID, false)
		if err != nil {
			return err
		}
		result.Proposal = before

		var fn func(env *chain.Env) error
		switch params.Operation {
		case ProposalQueue:
			fn = func(env *chain.Env) error { return gov.Queue(env, params.ProposalID) }
		case ProposalExecute:
			fn = func(env *chain.Env) error { return gov.Execute(env, params.ProposalID) }
		case ProposalCancel:
			fn = func(env *chain.Env) error { return gov.Cancel(env, params.ProposalID) }
		case ProposalVeto:
			fn = func(env *chain.Env) error { return gov.Veto(env, params.ProposalID) }
		default:
			return fmt.Errorf("unknown proposal operation %q", params.Operation)
		}

		if params.Operation.confirm() && !params.Yes {
			prompt := fmt.Sprintf("%s proposal %d (%s, %s)?", params.Operation, before.ID, before.StateName, before.Title())
			ok, err := uc.confirmer.Confirm(ctx, prompt)
			if err != nil {
				return err
			}
			if !ok {
				result.Aborted = true
				return nil
			}
		}

		result.Tx, err = s.Send(ctx, from, s.System.Governor, nil, fn)
		if err != nil {
			return err
		}
		result.Proposal, err = proposalView(s, gov, uc.encoder, params.ProposalID, false)
		return err
	})
	return result, err
}
