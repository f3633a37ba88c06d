package usecase

import (
	"context"
	"fmt"

	"github.com/trebuchet-org/rarity-society/internal/chain"
	"github.com/trebuchet-org/rarity-society/internal/domain"
)

// PlaceBidParams contains parameters for a bid
type PlaceBidParams struct {
	From string
	// TokenID defaults to the token of the current round
	TokenID *uint64
	// Amount is the bid, e.g. "0.5 ether". Empty bids the minimum.
	Amount string
}

// PlaceBidResult contains the round after the bid
type PlaceBidResult struct {
	Auction *AuctionView `json:"auction"`
	Tx      *TxResult    `json:"tx"`
}

// PlaceBid bids on the current auction round
type PlaceBid struct {
	world *World
}

// NewPlaceBid creates a new PlaceBid use case
func NewPlaceBid(world *World) *PlaceBid {
	return &PlaceBid{world: world}
}

// Run places the bid
func (uc *PlaceBid) Run(ctx context.Context, params PlaceBidParams) (*PlaceBidResult, error) {
	result := &PlaceBidResult{}
	err := uc.world.Update(ctx, func(s *Session) error {
		house, err := s.AuctionHouse()
		if err != nil {
			return err
		}
		from, err := s.Sender(params.From, "deployer")
		if err != nil {
			return err
		}

		id := house.Auction().TokenID
		if params.TokenID != nil {
			id = *params.TokenID
		}
		amount := house.MinNextBid()
		if params.Amount != "" {
			if amount, err = domain.ParseAmount(params.Amount); err != nil {
				return fmt.Errorf("bid amount: %w", err)
			}
		}

		result.Tx, err = s.Send(ctx, from, s.System.AuctionHouse, amount, func(env *chain.Env) error {
			return house.CreateBid(env, id)
		})
		if err != nil {
			return err
		}
		result.Auction, err = auctionView(s)
		return err
	})
	return result, err
}
