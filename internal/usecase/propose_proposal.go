package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/trebuchet-org/rarity-society/internal/chain"
	"github.com/trebuchet-org/rarity-society/internal/contracts/governor"
	"github.com/trebuchet-org/rarity-society/internal/domain"
)

// ActionInput is one proposal action as typed by the user
type ActionInput struct {
	Target string
	// Value is an amount such as "1 ether"
	Value     string
	Signature string
	Args      []string
	// Calldata is raw hex used instead of Args. With an empty Signature it
	// is sent to the target as-is.
	Calldata string
}

// ProposeProposalParams contains parameters for opening a proposal
type ProposeProposalParams struct {
	From        string
	Actions     []ActionInput
	Description string
}

// ProposeProposalResult contains the opened proposal
type ProposeProposalResult struct {
	Proposal *ProposalView `json:"proposal"`
	Tx       *TxResult     `json:"tx"`
}

// ProposeProposal opens a governance proposal
type ProposeProposal struct {
	world   *World
	encoder CallEncoder
}

// NewProposeProposal creates a new ProposeProposal use case
func NewProposeProposal(world *World, encoder CallEncoder) *ProposeProposal {
	return &ProposeProposal{world: world, encoder: encoder}
}

// Run opens the proposal
func (uc *ProposeProposal) Run(ctx context.Context, params ProposeProposalParams) (*ProposeProposalResult, error) {
	if strings.TrimSpace(params.Description) == "" {
		return nil, fmt.Errorf("a proposal needs a description")
	}
	result := &ProposeProposalResult{}
	err := uc.world.Update(ctx, func(s *Session) error {
		gov, err := s.Governor()
		if err != nil {
			return err
		}
		from, err := s.Sender(params.From, "deployer")
		if err != nil {
			return err
		}
		pp, err := uc.encode(s, params)
		if err != nil {
			return err
		}

		var id uint64
		result.Tx, err = s.Send(ctx, from, s.System.Governor, nil, func(env *chain.Env) error {
			var err error
			id, err = gov.Propose(env, pp)
			return err
		})
		if err != nil {
			return err
		}
		result.Proposal, err = proposalView(s, gov, uc.encoder, id, false)
		return err
	})
	return result, err
}

func (uc *ProposeProposal) encode(s *Session, params ProposeProposalParams) (governor.ProposeParams, error) {
	pp := governor.ProposeParams{Description: params.Description}
	for i, a := range params.Actions {
		target, err := s.Resolve(a.Target)
		if err != nil {
			return pp, fmt.Errorf("action %d target: %w", i, err)
		}
		value, err := domain.ParseAmount(a.Value)
		if err != nil {
			return pp, fmt.Errorf("action %d value: %w", i, err)
		}
		data, err := uc.calldata(s, a)
		if err != nil {
			return pp, fmt.Errorf("action %d: %w", i, err)
		}
		pp.Targets = append(pp.Targets, target)
		pp.Values = append(pp.Values, value)
		pp.Signatures = append(pp.Signatures, a.Signature)
		pp.Calldatas = append(pp.Calldatas, data)
	}
	return pp, nil
}

func (uc *ProposeProposal) calldata(s *Session, a ActionInput) ([]byte, error) {
	if a.Calldata != "" {
		if len(a.Args) > 0 {
			return nil, fmt.Errorf("give either calldata or arguments, not both")
		}
		return hexutil.Decode(a.Calldata)
	}
	if a.Signature == "" {
		if len(a.Args) > 0 {
			return nil, fmt.Errorf("arguments need a function signature")
		}
		return nil, nil
	}
	args, err := resolveArgs(s, a.Args)
	if err != nil {
		return nil, err
	}
	return uc.encoder.EncodeArgs(a.Signature, args)
}

// resolveArgs replaces "@name" arguments with the address they name
func resolveArgs(s *Session, args []string) ([]string, error) {
	out := make([]string, len(args))
	for i, arg := range args {
		if !strings.HasPrefix(arg, "@") {
			out[i] = arg
			continue
		}
		addr, err := s.Resolve(arg[1:])
		if err != nil {
			return nil, err
		}
		out[i] = addr.Hex()
	}
	return out, nil
}
