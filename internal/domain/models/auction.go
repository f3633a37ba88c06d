package models

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

// Auction is the auction house's single live round
type Auction struct {
	TokenID   uint64         `json:"tokenId"`
	Amount    *uint256.Int   `json:"amount"`
	StartTime uint64         `json:"startTime"`
	EndTime   uint64         `json:"endTime"`
	Bidder    common.Address `json:"bidder"`
	Settled   bool           `json:"settled"`
}

// Started reports whether an auction round was ever created
func (a *Auction) Started() bool {
	return a.StartTime != 0
}

// Clone returns a deep copy of the auction
func (a Auction) Clone() Auction {
	c := a
	if a.Amount != nil {
		c.Amount = new(uint256.Int).Set(a.Amount)
	}
	return c
}
