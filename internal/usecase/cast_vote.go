package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/trebuchet-org/rarity-society/internal/chain"
	"github.com/trebuchet-org/rarity-society/internal/contracts/eip712"
	"github.com/trebuchet-org/rarity-society/internal/domain/models"
)

// ParseSupport reads a vote direction: for, against, abstain or 0-2
func ParseSupport(s string) (models.VoteType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "for", "yes", "1":
		return models.VoteFor, nil
	case "against", "no", "0":
		return models.VoteAgainst, nil
	case "abstain", "2":
		return models.VoteAbstain, nil
	}
	return 0, fmt.Errorf("invalid vote %q: use for, against or abstain", s)
}

// CastVoteParams contains parameters for voting on a proposal
type CastVoteParams struct {
	From       string
	ProposalID uint64
	Support    models.VoteType
	Reason     string
	// BySig signs a Ballot with From's key and has Relayer submit it
	BySig   bool
	Relayer string
}

// CastVoteResult contains the recorded ballot
type CastVoteResult struct {
	Voter     common.Address `json:"voter"`
	Receipt   models.Receipt `json:"receipt"`
	Signature string         `json:"signature,omitempty"`
	Proposal  *ProposalView  `json:"proposal"`
	Tx        *TxResult      `json:"tx"`
}

// CastVote records a ballot on a proposal
type CastVote struct {
	world   *World
	keyring Keyring
	encoder CallEncoder
}

// NewCastVote creates a new CastVote use case
func NewCastVote(world *World, keyring Keyring, encoder CallEncoder) *CastVote {
	return &CastVote{world: world, keyring: keyring, encoder: encoder}
}

// Run casts the vote
func (uc *CastVote) Run(ctx context.Context, params CastVoteParams) (*CastVoteResult, error) {
	if params.BySig && params.Reason != "" {
		return nil, fmt.Errorf("a signed ballot cannot carry a reason")
	}
	result := &CastVoteResult{}
	err := uc.world.Update(ctx, func(s *Session) error {
		gov, err := s.Governor()
		if err != nil {
			return err
		}
		voter, err := s.Sender(params.From, "deployer")
		if err != nil {
			return err
		}
		result.Voter = voter
		support := uint8(params.Support)

		sender := voter
		fn := func(env *chain.Env) error {
			if params.Reason != "" {
				return gov.CastVoteWithReason(env, params.ProposalID, support, params.Reason)
			}
			return gov.CastVote(env, params.ProposalID, support)
		}

		if params.BySig {
			if sender, err = s.Sender(params.Relayer, "deployer"); err != nil {
				return err
			}
			msg := eip712.Ballot{ProposalID: params.ProposalID, Support: support}
			digest, err := msg.Hash(gov.Domain(s.Host.ChainID()))
			if err != nil {
				return err
			}
			raw, err := uc.keyring.SignDigest(voter, digest)
			if err != nil {
				return fmt.Errorf("failed to sign ballot: %w", err)
			}
			sig, err := eip712.SplitSignature(raw)
			if err != nil {
				return err
			}
			result.Signature = hexutil.Encode(raw)
			fn = func(env *chain.Env) error {
				return gov.CastVoteBySig(env, params.ProposalID, support, sig)
			}
		}

		result.Tx, err = s.Send(ctx, sender, s.System.Governor, nil, fn)
		if err != nil {
			return err
		}
		result.Receipt = gov.Receipt(params.ProposalID, voter)
		result.Proposal, err = proposalView(s, gov, uc.encoder, params.ProposalID, false)
		return err
	})
	return result, err
}
