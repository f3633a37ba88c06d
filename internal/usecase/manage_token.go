package usecase

import (
	"context"
	"fmt"

	"github.com/trebuchet-org/rarity-society/internal/chain"
)

// TokenOperation is a token ownership change
type TokenOperation string

const (
	TokenMint     TokenOperation = "mint"
	TokenTransfer TokenOperation = "transfer"
	TokenBurn     TokenOperation = "burn"
)

// ManageTokenParams contains parameters for a token ownership change
type ManageTokenParams struct {
	Operation TokenOperation
	From      string
	// To receives a minted or transferred token. Minting without a
	// recipient goes to the sender.
	To      string
	TokenID uint64
}

// ManageTokenResult contains the outcome of the change
type ManageTokenResult struct {
	Operation   TokenOperation `json:"operation"`
	TokenID     uint64         `json:"tokenId"`
	TotalSupply uint64         `json:"totalSupply"`
	Tx          *TxResult      `json:"tx"`
}

// ManageToken mints, transfers and burns tokens
type ManageToken struct {
	world *World
}

// NewManageToken creates a new ManageToken use case
func NewManageToken(world *World) *ManageToken {
	return &ManageToken{world: world}
}

// Run executes the change
func (uc *ManageToken) Run(ctx context.Context, params ManageTokenParams) (*ManageTokenResult, error) {
	result := &ManageTokenResult{Operation: params.Operation, TokenID: params.TokenID}
	err := uc.world.Update(ctx, func(s *Session) error {
		tok, err := s.Token()
		if err != nil {
			return err
		}
		from, err := s.Sender(params.From, "deployer")
		if err != nil {
			return err
		}

		var fn func(env *chain.Env) error
		switch params.Operation {
		case TokenMint:
			to := from
			if params.To != "" {
				if to, err = s.Resolve(params.To); err != nil {
					return err
				}
			}
			fn = func(env *chain.Env) error {
				id, err := tok.MintTo(env, to)
				result.TokenID = id
				return err
			}
		case TokenTransfer:
			to, err := s.Resolve(params.To)
			if err != nil {
				return err
			}
			fn = func(env *chain.Env) error {
				return tok.TransferFrom(env, from, to, params.TokenID)
			}
		case TokenBurn:
			fn = func(env *chain.Env) error {
				return tok.Burn(env, params.TokenID)
			}
		default:
			return fmt.Errorf("unknown token operation %q", params.Operation)
		}

		result.Tx, err = s.Send(ctx, from, s.System.Token, nil, fn)
		result.TotalSupply = tok.TotalSupply()
		return err
	})
	return result, err
}
