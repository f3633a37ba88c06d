package usecase

import (
	"context"
	"fmt"
	"strconv"

	"github.com/trebuchet-org/rarity-society/internal/chain"
	"github.com/trebuchet-org/rarity-society/internal/contracts/auctionhouse"
	"github.com/trebuchet-org/rarity-society/internal/domain"
)

// AuctionOperation is an owner or keeper action on the auction house
type AuctionOperation string

const (
	AuctionSettle           AuctionOperation = "settle"
	AuctionSettleAndCreate  AuctionOperation = "settle-and-create"
	AuctionPause            AuctionOperation = "pause"
	AuctionUnpause          AuctionOperation = "unpause"
	AuctionSetTreasurySplit AuctionOperation = "treasury-split"
	AuctionSetTimeBuffer    AuctionOperation = "time-buffer"
	AuctionSetReservePrice  AuctionOperation = "reserve-price"
	AuctionSetDuration      AuctionOperation = "duration"
)

// ManageAuctionParams contains parameters for an auction house action
type ManageAuctionParams struct {
	Operation AuctionOperation
	// Value is the new setting for the setter operations
	Value string
	From  string
}

// ManageAuctionResult contains the round after the action
type ManageAuctionResult struct {
	Operation AuctionOperation `json:"operation"`
	Auction   *AuctionView     `json:"auction"`
	Tx        *TxResult        `json:"tx"`
}

// ManageAuction settles rounds, pauses the house, and changes its settings
type ManageAuction struct {
	world *World
}

// NewManageAuction creates a new ManageAuction use case
func NewManageAuction(world *World) *ManageAuction {
	return &ManageAuction{world: world}
}

// Run executes the action. Settling is open to anyone; everything else
// is sent from the owner unless From says otherwise.
func (uc *ManageAuction) Run(ctx context.Context, params ManageAuctionParams) (*ManageAuctionResult, error) {
	result := &ManageAuctionResult{Operation: params.Operation}
	err := uc.world.Update(ctx, func(s *Session) error {
		house, err := s.AuctionHouse()
		if err != nil {
			return err
		}
		fn, err := auctionAction(house, params)
		if err != nil {
			return err
		}
		def := house.Owner().Hex()
		if params.Operation == AuctionSettle || params.Operation == AuctionSettleAndCreate {
			def = "deployer"
		}
		from, err := s.Sender(params.From, def)
		if err != nil {
			return err
		}
		result.Tx, err = s.Send(ctx, from, s.System.AuctionHouse, nil, fn)
		if err != nil {
			return err
		}
		result.Auction, err = auctionView(s)
		return err
	})
	return result, err
}

func auctionAction(house *auctionhouse.AuctionHouse, params ManageAuctionParams) (func(env *chain.Env) error, error) {
	number := func() (uint64, error) {
		n, err := strconv.ParseUint(params.Value, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("%s needs a number, got %q", params.Operation, params.Value)
		}
		return n, nil
	}

	switch params.Operation {
	case AuctionSettle:
		return house.SettleAuction, nil
	case AuctionSettleAndCreate:
		return house.SettleCurrentAndCreateNewAuction, nil
	case AuctionPause:
		return house.Pause, nil
	case AuctionUnpause:
		return house.Unpause, nil
	case AuctionSetTreasurySplit:
		n, err := number()
		return func(env *chain.Env) error { return house.SetTreasurySplit(env, n) }, err
	case AuctionSetTimeBuffer:
		n, err := number()
		return func(env *chain.Env) error { return house.SetTimeBuffer(env, n) }, err
	case AuctionSetDuration:
		n, err := number()
		return func(env *chain.Env) error { return house.SetDuration(env, n) }, err
	case AuctionSetReservePrice:
		price, err := domain.ParseAmount(params.Value)
		if err != nil {
			return nil, fmt.Errorf("reserve price: %w", err)
		}
		return func(env *chain.Env) error { return house.SetReservePrice(env, price) }, nil
	}
	return nil, fmt.Errorf("unknown auction operation %q", params.Operation)
}
