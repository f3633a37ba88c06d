package usecase

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/samber/lo"
	"github.com/trebuchet-org/rarity-society/internal/domain"
)

// ListProposalsParams contains filters for listing proposals
type ListProposalsParams struct {
	// State keeps proposals in this state, e.g. "active"
	State    string
	Proposer string
}

// ListProposalsResult contains the matching proposals, newest first
type ListProposalsResult struct {
	Block     uint64          `json:"block"`
	Time      uint64          `json:"time"`
	Proposals []*ProposalView `json:"proposals"`
}

// ListProposals lists governance proposals
type ListProposals struct {
	world   *World
	encoder CallEncoder
}

// NewListProposals creates a new ListProposals use case
func NewListProposals(world *World, encoder CallEncoder) *ListProposals {
	return &ListProposals{world: world, encoder: encoder}
}

// Run lists the proposals
func (uc *ListProposals) Run(ctx context.Context, params ListProposalsParams) (*ListProposalsResult, error) {
	var result *ListProposalsResult
	err := uc.world.View(ctx, func(s *Session) error {
		views, err := allProposals(s, uc.encoder)
		if err != nil {
			return err
		}
		if params.State != "" {
			state := strings.ToLower(params.State)
			views = lo.Filter(views, func(v *ProposalView, _ int) bool { return v.StateName == state })
		}
		if params.Proposer != "" {
			proposer, err := s.Resolve(params.Proposer)
			if err != nil {
				return err
			}
			views = lo.Filter(views, func(v *ProposalView, _ int) bool { return v.Proposer == proposer })
		}
		result = &ListProposalsResult{Block: s.Host.BlockNumber(), Time: s.Host.Time(), Proposals: views}
		return nil
	})
	return result, err
}

func allProposals(s *Session, enc CallEncoder) ([]*ProposalView, error) {
	gov, err := s.Governor()
	if err != nil {
		return nil, err
	}
	views := make([]*ProposalView, 0, gov.ProposalCount())
	for id := gov.ProposalCount(); id > 0; id-- {
		v, err := proposalView(s, gov, enc, id, false)
		if err != nil {
			return nil, err
		}
		views = append(views, v)
	}
	return views, nil
}

// ShowProposalParams identifies a proposal by id or by part of its
// description
type ShowProposalParams struct {
	Ref string
}

// ShowProposal shows one proposal with its ballots
type ShowProposal struct {
	world    *World
	encoder  CallEncoder
	selector ProposalSelector
}

// NewShowProposal creates a new ShowProposal use case
func NewShowProposal(world *World, encoder CallEncoder, selector ProposalSelector) *ShowProposal {
	return &ShowProposal{world: world, encoder: encoder, selector: selector}
}

// Run finds the proposal
func (uc *ShowProposal) Run(ctx context.Context, params ShowProposalParams) (*ProposalView, error) {
	var result *ProposalView
	err := uc.world.View(ctx, func(s *Session) error {
		gov, err := s.Governor()
		if err != nil {
			return err
		}
		if id, err := strconv.ParseUint(strings.TrimPrefix(params.Ref, "#"), 10, 64); err == nil {
			result, err = proposalView(s, gov, uc.encoder, id, true)
			return err
		}

		views, err := allProposals(s, uc.encoder)
		if err != nil {
			return err
		}
		needle := strings.ToLower(params.Ref)
		matches := lo.Filter(views, func(v *ProposalView, _ int) bool {
			return strings.Contains(strings.ToLower(v.Description), needle)
		})
		switch len(matches) {
		case 0:
			return fmt.Errorf("no proposal matches %q: %w", params.Ref, domain.ErrNotFound)
		case 1:
			result = matches[0]
		default:
			if result, err = uc.selector.SelectProposal(ctx, matches); err != nil {
				return err
			}
		}
		result.Ballots = ballots(s, result.ID)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
