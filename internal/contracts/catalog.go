// Package contracts lists every contract kind the host can run, so that a
// persisted world can be rebuilt and its entry points addressed by name.
package contracts

import (
	"fmt"

	"github.com/trebuchet-org/rarity-society/internal/chain"
	"github.com/trebuchet-org/rarity-society/internal/contracts/auctionhouse"
	"github.com/trebuchet-org/rarity-society/internal/contracts/governor"
	"github.com/trebuchet-org/rarity-society/internal/contracts/receiver"
	"github.com/trebuchet-org/rarity-society/internal/contracts/timelock"
	"github.com/trebuchet-org/rarity-society/internal/contracts/token"
	"github.com/trebuchet-org/rarity-society/internal/contracts/weth"
	"github.com/trebuchet-org/rarity-society/internal/domain"
)

type entry struct {
	factory chain.Factory
	abi     string
}

var catalog = map[string]entry{
	weth.Kind:              {factory: weth.Empty, abi: weth.ABI},
	token.Kind:             {factory: token.Empty, abi: token.ABI},
	timelock.Kind:          {factory: timelock.Empty, abi: timelock.ABI},
	governor.Kind:          {factory: governor.Empty, abi: governor.ABI},
	auctionhouse.Kind:      {factory: auctionhouse.Empty, abi: auctionhouse.ABI},
	receiver.GasBurnerKind: {factory: receiver.NewGasBurner, abi: receiver.ABI},
	receiver.ReverterKind:  {factory: receiver.NewReverter, abi: receiver.ABI},
}

// Factories maps each contract kind to the constructor chain.Import needs
func Factories() map[string]chain.Factory {
	out := make(map[string]chain.Factory, len(catalog))
	for kind, e := range catalog {
		out[kind] = e.factory
	}
	return out
}

// ABI returns the JSON ABI of a contract kind
func ABI(kind string) (string, error) {
	e, ok := catalog[kind]
	if !ok {
		return "", fmt.Errorf("contract kind %q: %w", kind, domain.ErrNotFound)
	}
	return e.abi, nil
}
