package models

import (
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

// System records where each contract of a deployment lives
type System struct {
	WETH         common.Address `json:"weth"`
	Token        common.Address `json:"token"`
	Timelock     common.Address `json:"timelock"`
	Governor     common.Address `json:"governor"`
	AuctionHouse common.Address `json:"auctionHouse"`
	// Fixtures are contracts deployed by scenarios, by alias
	Fixtures map[string]common.Address `json:"fixtures,omitempty"`
}

// ContractNames lists the names Lookup accepts
var ContractNames = []string{"weth", "token", "timelock", "governor", "auction"}

// Lookup resolves a contract by its short name
func (s *System) Lookup(name string) (common.Address, error) {
	switch strings.ToLower(name) {
	case "weth":
		return s.WETH, nil
	case "token":
		return s.Token, nil
	case "timelock":
		return s.Timelock, nil
	case "governor", "dao":
		return s.Governor, nil
	case "auction", "auctionhouse", "auction-house":
		return s.AuctionHouse, nil
	}
	if addr, ok := s.Fixtures[name]; ok {
		return addr, nil
	}
	return common.Address{}, fmt.Errorf("unknown contract %q (expected one of %s)", name, strings.Join(ContractNames, ", "))
}

// NameOf is the short name of a system contract, or "" for other addresses
func (s *System) NameOf(addr common.Address) string {
	switch addr {
	case s.WETH:
		return "weth"
	case s.Token:
		return "token"
	case s.Timelock:
		return "timelock"
	case s.Governor:
		return "governor"
	case s.AuctionHouse:
		return "auction"
	}
	for alias, a := range s.Fixtures {
		if a == addr {
			return alias
		}
	}
	return ""
}
