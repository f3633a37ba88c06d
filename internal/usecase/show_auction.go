package usecase

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"github.com/trebuchet-org/rarity-society/internal/contracts/auctionhouse"
	"github.com/trebuchet-org/rarity-society/internal/domain/models"
)

// AuctionPhase is where the current round stands
type AuctionPhase string

const (
	AuctionNotStarted AuctionPhase = "not-started"
	AuctionLive       AuctionPhase = "live"
	AuctionEnded      AuctionPhase = "ended"
	AuctionSettled    AuctionPhase = "settled"
)

// AuctionView is the auction house and its current round
type AuctionView struct {
	Auction    models.Auction      `json:"auction"`
	Phase      AuctionPhase        `json:"phase"`
	Remaining  uint64              `json:"remaining"`
	MinNextBid *uint256.Int        `json:"minNextBid"`
	BidderName string              `json:"bidderName,omitempty"`
	Owner      common.Address      `json:"owner"`
	OwnerName  string              `json:"ownerName,omitempty"`
	Reserve    common.Address      `json:"reserve"`
	Paused     bool                `json:"paused"`
	Params     auctionhouse.Params `json:"params"`
	Now        uint64              `json:"now"`
	Block      uint64              `json:"block"`
}

// ShowAuction reads the auction house
type ShowAuction struct {
	world *World
}

// NewShowAuction creates a new ShowAuction use case
func NewShowAuction(world *World) *ShowAuction {
	return &ShowAuction{world: world}
}

// Run reads the current round
func (uc *ShowAuction) Run(ctx context.Context) (*AuctionView, error) {
	var result *AuctionView
	err := uc.world.View(ctx, func(s *Session) error {
		var err error
		result, err = auctionView(s)
		return err
	})
	return result, err
}

func auctionView(s *Session) (*AuctionView, error) {
	house, err := s.AuctionHouse()
	if err != nil {
		return nil, err
	}
	a := house.Auction()
	now := s.Host.Time()
	view := &AuctionView{
		Auction:    a,
		MinNextBid: house.MinNextBid(),
		Owner:      house.Owner(),
		OwnerName:  s.NameOf(house.Owner()),
		Reserve:    house.Reserve(),
		Paused:     house.Paused(),
		Params:     house.Params(),
		Now:        now,
		Block:      s.Host.BlockNumber(),
	}
	if a.Bidder != (common.Address{}) {
		view.BidderName = s.NameOf(a.Bidder)
	}
	switch {
	case !a.Started():
		view.Phase = AuctionNotStarted
	case a.Settled:
		view.Phase = AuctionSettled
	case now >= a.EndTime:
		view.Phase = AuctionEnded
	default:
		view.Phase = AuctionLive
		view.Remaining = a.EndTime - now
	}
	return view, nil
}
