package usecase

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
	"github.com/trebuchet-org/rarity-society/internal/domain/models"
)

// ShowVotesParams contains parameters for reading an account's votes
type ShowVotesParams struct {
	Account string
	// Block asks for the votes held at a past block; 0 means now
	Block uint64
}

// ShowVotesResult is an account's position in the voting ledger
type ShowVotesResult struct {
	Name         string              `json:"name,omitempty"`
	Address      common.Address      `json:"address"`
	Delegate     common.Address      `json:"delegate"`
	Tokens       uint64              `json:"tokens"`
	CurrentVotes uint64              `json:"currentVotes"`
	Block        uint64              `json:"block,omitempty"`
	PriorVotes   *uint64             `json:"priorVotes,omitempty"`
	Nonce        uint64              `json:"nonce"`
	Checkpoints  []models.Checkpoint `json:"checkpoints"`
}

// ShowVotes reads the voting ledger of one account
type ShowVotes struct {
	world *World
}

// NewShowVotes creates a new ShowVotes use case
func NewShowVotes(world *World) *ShowVotes {
	return &ShowVotes{world: world}
}

// Run reads the ledger
func (uc *ShowVotes) Run(ctx context.Context, params ShowVotesParams) (*ShowVotesResult, error) {
	var result *ShowVotesResult
	err := uc.world.View(ctx, func(s *Session) error {
		tok, err := s.Token()
		if err != nil {
			return err
		}
		ref := params.Account
		if ref == "" {
			ref = "deployer"
		}
		addr, err := s.Resolve(ref)
		if err != nil {
			return err
		}
		tokens, err := tok.BalanceOf(addr)
		if err != nil {
			return err
		}

		result = &ShowVotesResult{
			Name:         s.NameOf(addr),
			Address:      addr,
			Delegate:     tok.Delegates(addr),
			Tokens:       tokens,
			CurrentVotes: tok.GetCurrentVotes(addr),
			Nonce:        tok.Nonces(addr),
		}
		n := tok.NumCheckpoints(addr)
		result.Checkpoints = make([]models.Checkpoint, 0, n)
		for i := uint32(0); i < n; i++ {
			result.Checkpoints = append(result.Checkpoints, tok.Checkpoint(addr, i))
		}

		if params.Block != 0 {
			votes, err := tok.GetPriorVotes(s.Host, addr, params.Block)
			if err != nil {
				return err
			}
			result.Block = params.Block
			result.PriorVotes = &votes
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
