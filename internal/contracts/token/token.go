// Package token implements the Rarity Society NFT together with the
// checkpointed voting ledger its holders govern with.
package token

import (
	"encoding/json"
	"maps"
	"slices"

	"github.com/ethereum/go-ethereum/common"
	"github.com/trebuchet-org/rarity-society/internal/chain"
	"github.com/trebuchet-org/rarity-society/internal/domain"
	"github.com/trebuchet-org/rarity-society/internal/domain/models"
)

const (
	Kind   = "RaritySocietyToken"
	Name   = "Rarity Society"
	Symbol = "RARITY"
)

var (
	ErrOwnerOnly          = domain.Revert("Ownable: caller is not the owner")
	ErrMinterOnly         = domain.Revert("minter only")
	ErrMaxSupply          = domain.Revert("max supply reached")
	ErrNonexistentToken   = domain.Revert("ERC721: owner query for nonexistent token")
	ErrMintToZero         = domain.Revert("ERC721: mint to the zero address")
	ErrTransferToZero     = domain.Revert("ERC721: transfer to the zero address")
	ErrIncorrectOwner     = domain.Revert("ERC721: transfer from incorrect owner")
	ErrNotOwnerOrApproved = domain.Revert("ERC721: transfer caller is not owner nor approved")
	ErrApproveToCaller    = domain.Revert("ERC721: approve to caller")
	ErrZeroAddressQuery   = domain.Revert("ERC721: balance query for the zero address")
	ErrNewOwnerZero       = domain.Revert("Ownable: new owner is the zero address")
)

// State is the token's storage
type State struct {
	Owner       common.Address                              `json:"owner"`
	Minter      common.Address                              `json:"minter"`
	MaxSupply   uint64                                      `json:"maxSupply"`
	NextID      uint64                                      `json:"nextId"`
	TotalSupply uint64                                      `json:"totalSupply"`
	Owners      map[uint64]common.Address                   `json:"owners"`
	Balances    map[common.Address]uint64                   `json:"balances"`
	Operators   map[common.Address]map[common.Address]bool `json:"operators"`
	// Delegates holds explicit delegations only; absence means self
	Delegates   map[common.Address]common.Address    `json:"delegates"`
	Checkpoints map[common.Address][]models.Checkpoint `json:"checkpoints"`
	Nonces      map[common.Address]uint64            `json:"nonces"`
}

func newState() *State {
	return &State{
		Owners:      make(map[uint64]common.Address),
		Balances:    make(map[common.Address]uint64),
		Operators:   make(map[common.Address]map[common.Address]bool),
		Delegates:   make(map[common.Address]common.Address),
		Checkpoints: make(map[common.Address][]models.Checkpoint),
		Nonces:      make(map[common.Address]uint64),
	}
}

func (s *State) clone() *State {
	c := *s
	c.Owners = maps.Clone(s.Owners)
	c.Balances = maps.Clone(s.Balances)
	c.Delegates = maps.Clone(s.Delegates)
	c.Nonces = maps.Clone(s.Nonces)
	c.Operators = make(map[common.Address]map[common.Address]bool, len(s.Operators))
	for owner, ops := range s.Operators {
		c.Operators[owner] = maps.Clone(ops)
	}
	c.Checkpoints = make(map[common.Address][]models.Checkpoint, len(s.Checkpoints))
	for acct, cps := range s.Checkpoints {
		c.Checkpoints[acct] = slices.Clone(cps)
	}
	return &c
}

// Token is a deployed token contract
type Token struct {
	address common.Address
	st      *State
}

var _ chain.Contract = (*Token)(nil)

// Empty allocates a token at addr for state import
func Empty(addr common.Address) chain.Contract {
	return &Token{address: addr, st: newState()}
}

// Deploy constructs the token in a deployment frame. The deployer becomes
// the owner.
func Deploy(env *chain.Env, minter common.Address, maxSupply uint64) (*Token, error) {
	t := &Token{address: env.Self(), st: newState()}
	t.st.Owner = env.Caller()
	t.st.Minter = minter
	t.st.MaxSupply = maxSupply
	if err := env.Emit(&domain.OwnershipTransferred{NewOwner: env.Caller()}); err != nil {
		return nil, err
	}
	if err := env.Emit(&domain.MinterUpdated{Minter: minter}); err != nil {
		return nil, err
	}
	return t, nil
}

func (t *Token) Kind() string            { return Kind }
func (t *Token) Address() common.Address { return t.address }

func (t *Token) Snapshot() any { return t.st.clone() }

func (t *Token) Restore(snapshot any) { t.st = snapshot.(*State).clone() }

func (t *Token) Decode(raw json.RawMessage) error {
	st := newState()
	if err := json.Unmarshal(raw, st); err != nil {
		return err
	}
	t.st = st
	return nil
}

func (t *Token) Handle(env *chain.Env, input []byte) ([]byte, error) {
	return dispatcher.Dispatch(t, env, input)
}

func (t *Token) Owner() common.Address  { return t.st.Owner }
func (t *Token) Minter() common.Address { return t.st.Minter }
func (t *Token) MaxSupply() uint64      { return t.st.MaxSupply }
func (t *Token) TotalSupply() uint64    { return t.st.TotalSupply }

// SetMinter replaces the account allowed to mint
func (t *Token) SetMinter(env *chain.Env, minter common.Address) error {
	if env.Caller() != t.st.Owner {
		return ErrOwnerOnly
	}
	t.st.Minter = minter
	if err := env.UseGas(chain.GasStore); err != nil {
		return err
	}
	return env.Emit(&domain.MinterUpdated{Minter: minter})
}

// TransferOwnership hands the owner role to another account
func (t *Token) TransferOwnership(env *chain.Env, newOwner common.Address) error {
	if env.Caller() != t.st.Owner {
		return ErrOwnerOnly
	}
	if newOwner == (common.Address{}) {
		return ErrNewOwnerZero
	}
	previous := t.st.Owner
	t.st.Owner = newOwner
	if err := env.UseGas(chain.GasStore); err != nil {
		return err
	}
	return env.Emit(&domain.OwnershipTransferred{PreviousOwner: previous, NewOwner: newOwner})
}
