// Package auctionhouse sells one freshly minted token per round in an
// English auction and splits the proceeds between the owner and a reserve.
package auctionhouse

import (
	"encoding/json"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"github.com/trebuchet-org/rarity-society/internal/chain"
	"github.com/trebuchet-org/rarity-society/internal/contracts/token"
	"github.com/trebuchet-org/rarity-society/internal/contracts/weth"
	"github.com/trebuchet-org/rarity-society/internal/domain"
	"github.com/trebuchet-org/rarity-society/internal/domain/models"
)

const (
	Kind = "RaritySocietyAuctionHouse"

	MinTimeBuffer    uint64 = 60
	MaxTimeBuffer    uint64 = 24 * 60 * 60
	MaxTreasurySplit uint64 = 100
	MinDuration      uint64 = 10 * 60
	MaxDuration      uint64 = 7 * 24 * 60 * 60

	MinBidIncrementPercentage uint64 = 5
	// RefundGasStipend caps the gas handed to a bidder or payee receiving
	// native currency
	RefundGasStipend uint64 = 30_000
)

var (
	MinReservePrice = uint256.NewInt(1)
	MaxReservePrice = uint256.MustFromDecimal("1000000000000000000000")
)

var (
	ErrAlreadyInitialized = domain.Revert("Initializable: contract is already initialized")
	ErrInvalidTimeBuffer  = domain.Revert("time buffer is invalid")
	ErrInvalidReserve     = domain.Revert("reserve price is invalid")
	ErrInvalidSplit       = domain.Revert("treasury split is invalid")
	ErrInvalidDuration    = domain.Revert("duration is invalid")
	ErrOwnerOnly          = domain.Revert("Ownable: caller is not the owner")
	ErrNewOwnerZero       = domain.Revert("Ownable: new owner is the zero address")
	ErrPaused             = domain.Revert("Pausable: paused")
	ErrNotPaused          = domain.Revert("Pausable: not paused")
	ErrNotUpForAuction    = domain.Revert("Rarity Pass not up for auction")
	ErrExpired            = domain.Revert("Auction expired")
	ErrBelowReserve       = domain.Revert("Bid lower than reserve price")
	ErrBidIncrement       = domain.Revert("Bid must be at least 5% greater than last bid")
	ErrNotBegun           = domain.Revert("Auction hasn't begun")
	ErrAlreadySettled     = domain.Revert("Auction has already been settled")
	ErrNotCompleted       = domain.Revert("Auction hasn't completed")
	ErrNotInitialized     = domain.Revert("auction house not initialized")
	ErrInvalidToken       = domain.Revert("invalid token address")
	ErrInvalidWETH        = domain.Revert("invalid weth address")
)

// Params are the owner-tunable auction settings
type Params struct {
	TreasurySplit uint64       `json:"treasurySplit"`
	TimeBuffer    uint64       `json:"timeBuffer"`
	ReservePrice  *uint256.Int `json:"reservePrice"`
	Duration      uint64       `json:"duration"`
}

// State is the auction house's storage
type State struct {
	Initialized bool           `json:"initialized"`
	Owner       common.Address `json:"owner"`
	Paused      bool           `json:"paused"`
	Token       common.Address `json:"token"`
	WETH        common.Address `json:"weth"`
	Reserve     common.Address `json:"reserve"`
	Params
	Auction models.Auction `json:"auction"`
}

func newState() *State {
	return &State{
		Params:  Params{ReservePrice: new(uint256.Int)},
		Auction: models.Auction{Amount: new(uint256.Int)},
	}
}

func (s *State) clone() *State {
	c := *s
	c.ReservePrice = new(uint256.Int).Set(s.ReservePrice)
	c.Auction = s.Auction.Clone()
	return &c
}

// AuctionHouse is a deployed auction house
type AuctionHouse struct {
	address common.Address
	st      *State
}

var _ chain.Contract = (*AuctionHouse)(nil)

// Empty allocates an auction house at addr for state import
func Empty(addr common.Address) chain.Contract {
	return &AuctionHouse{address: addr, st: newState()}
}

// Deploy creates an uninitialized auction house. Its address becomes the
// token's minter before Initialize runs.
func Deploy(env *chain.Env) (*AuctionHouse, error) {
	return &AuctionHouse{address: env.Self(), st: newState()}, nil
}

func (a *AuctionHouse) Kind() string            { return Kind }
func (a *AuctionHouse) Address() common.Address { return a.address }

func (a *AuctionHouse) Snapshot() any        { return a.st.clone() }
func (a *AuctionHouse) Restore(snapshot any) { a.st = snapshot.(*State).clone() }

func (a *AuctionHouse) Decode(raw json.RawMessage) error {
	st := newState()
	if err := json.Unmarshal(raw, st); err != nil {
		return err
	}
	if st.ReservePrice == nil {
		st.ReservePrice = new(uint256.Int)
	}
	if st.Auction.Amount == nil {
		st.Auction.Amount = new(uint256.Int)
	}
	a.st = st
	return nil
}

func (a *AuctionHouse) Handle(env *chain.Env, input []byte) ([]byte, error) {
	return dispatcher.Dispatch(a, env, input)
}

func (a *AuctionHouse) Owner() common.Address   { return a.st.Owner }
func (a *AuctionHouse) Paused() bool            { return a.st.Paused }
func (a *AuctionHouse) Token() common.Address   { return a.st.Token }
func (a *AuctionHouse) WETH() common.Address    { return a.st.WETH }
func (a *AuctionHouse) Reserve() common.Address { return a.st.Reserve }

// Params returns a copy of the auction settings
func (a *AuctionHouse) Params() Params {
	p := a.st.Params
	p.ReservePrice = new(uint256.Int).Set(p.ReservePrice)
	return p
}

// Auction returns a copy of the current round
func (a *AuctionHouse) Auction() models.Auction { return a.st.Auction.Clone() }

// MinNextBid is the smallest bid the current round accepts
func (a *AuctionHouse) MinNextBid() *uint256.Int {
	cur := a.st.Auction.Amount
	if a.st.Auction.Bidder == (common.Address{}) || cur.IsZero() {
		return new(uint256.Int).Set(a.st.ReservePrice)
	}
	inc := new(uint256.Int).Mul(cur, uint256.NewInt(MinBidIncrementPercentage))
	inc.Div(inc, uint256.NewInt(100))
	next := new(uint256.Int).Add(cur, inc)
	if next.Lt(a.st.ReservePrice) {
		return new(uint256.Int).Set(a.st.ReservePrice)
	}
	return next
}

func (a *AuctionHouse) token(v chain.View) (*token.Token, error) {
	if !a.st.Initialized {
		return nil, ErrNotInitialized
	}
	c, ok := v.Contract(a.st.Token)
	if !ok {
		return nil, ErrInvalidToken
	}
	t, ok := c.(*token.Token)
	if !ok {
		return nil, ErrInvalidToken
	}
	return t, nil
}

func (a *AuctionHouse) weth(v chain.View) (*weth.WETH, error) {
	c, ok := v.Contract(a.st.WETH)
	if !ok {
		return nil, ErrInvalidWETH
	}
	w, ok := c.(*weth.WETH)
	if !ok {
		return nil, ErrInvalidWETH
	}
	return w, nil
}

func checkTimeBuffer(v uint64) error {
	if v < MinTimeBuffer || v > MaxTimeBuffer {
		return ErrInvalidTimeBuffer
	}
	return nil
}

func checkSplit(v uint64) error {
	if v > MaxTreasurySplit {
		return ErrInvalidSplit
	}
	return nil
}

func checkDuration(v uint64) error {
	if v < MinDuration || v > MaxDuration {
		return ErrInvalidDuration
	}
	return nil
}

// Initialize binds the collaborators, makes the caller the owner and leaves
// the house paused. Only the reserve price's upper bound is enforced here.
func (a *AuctionHouse) Initialize(env *chain.Env, tok, reserve, wethAddr common.Address, p Params) error {
	if a.st.Initialized {
		return ErrAlreadyInitialized
	}
	if err := checkTimeBuffer(p.TimeBuffer); err != nil {
		return err
	}
	if p.ReservePrice == nil || p.ReservePrice.Gt(MaxReservePrice) {
		return ErrInvalidReserve
	}
	if err := checkSplit(p.TreasurySplit); err != nil {
		return err
	}
	if err := checkDuration(p.Duration); err != nil {
		return err
	}

	owner := env.Caller()
	a.st.Initialized = true
	a.st.Owner = owner
	a.st.Paused = true
	a.st.Token = tok
	a.st.WETH = wethAddr
	a.st.Reserve = reserve
	a.st.Params = Params{
		TreasurySplit: p.TreasurySplit,
		TimeBuffer:    p.TimeBuffer,
		ReservePrice:  new(uint256.Int).Set(p.ReservePrice),
		Duration:      p.Duration,
	}
	if err := env.UseGas(8 * chain.GasStore); err != nil {
		return err
	}

	for _, ev := range []domain.Event{
		&domain.OwnershipTransferred{NewOwner: owner},
		&domain.Paused{Account: owner},
		&domain.AuctionTreasurySplitSet{TreasurySplit: p.TreasurySplit},
		&domain.AuctionTimeBufferSet{TimeBuffer: p.TimeBuffer},
		&domain.AuctionReservePriceSet{ReservePrice: new(uint256.Int).Set(p.ReservePrice)},
		&domain.AuctionDurationSet{Duration: p.Duration},
	} {
		if err := env.Emit(ev); err != nil {
			return err
		}
	}
	return nil
}

func (a *AuctionHouse) onlyOwner(env *chain.Env) error {
	if env.Caller() != a.st.Owner {
		return ErrOwnerOnly
	}
	return nil
}

// TransferOwnership hands the house to a new owner
func (a *AuctionHouse) TransferOwnership(env *chain.Env, newOwner common.Address) error {
	if err := a.onlyOwner(env); err != nil {
		return err
	}
	if newOwner == (common.Address{}) {
		return ErrNewOwnerZero
	}
	old := a.st.Owner
	a.st.Owner = newOwner
	if err := env.UseGas(chain.GasStore); err != nil {
		return err
	}
	return env.Emit(&domain.OwnershipTransferred{PreviousOwner: old, NewOwner: newOwner})
}

// SetTreasurySplit sets the owner's percentage of the proceeds
func (a *AuctionHouse) SetTreasurySplit(env *chain.Env, split uint64) error {
	if err := a.onlyOwner(env); err != nil {
		return err
	}
	if err := checkSplit(split); err != nil {
		return err
	}
	a.st.TreasurySplit = split
	if err := env.UseGas(chain.GasStore); err != nil {
		return err
	}
	return env.Emit(&domain.AuctionTreasurySplitSet{TreasurySplit: split})
}

// SetTimeBuffer sets the late-bid window that extends a round
func (a *AuctionHouse) SetTimeBuffer(env *chain.Env, buffer uint64) error {
	if err := a.onlyOwner(env); err != nil {
		return err
	}
	if err := checkTimeBuffer(buffer); err != nil {
		return err
	}
	a.st.TimeBuffer = buffer
	if err := env.UseGas(chain.GasStore); err != nil {
		return err
	}
	return env.Emit(&domain.AuctionTimeBufferSet{TimeBuffer: buffer})
}

// SetReservePrice sets the minimum opening bid
func (a *AuctionHouse) SetReservePrice(env *chain.Env, price *uint256.Int) error {
	if err := a.onlyOwner(env); err != nil {
		return err
	}
	if price == nil || price.Lt(MinReservePrice) || price.Gt(MaxReservePrice) {
		return ErrInvalidReserve
	}
	a.st.ReservePrice = new(uint256.Int).Set(price)
	if err := env.UseGas(chain.GasStore); err != nil {
		return err
	}
	return env.Emit(&domain.AuctionReservePriceSet{ReservePrice: new(uint256.Int).Set(price)})
}

// SetDuration sets the length of future rounds
func (a *AuctionHouse) SetDuration(env *chain.Env, duration uint64) error {
	if err := a.onlyOwner(env); err != nil {
		return err
	}
	if err := checkDuration(duration); err != nil {
		return err
	}
	a.st.Duration = duration
	if err := env.UseGas(chain.GasStore); err != nil {
		return err
	}
	return env.Emit(&domain.AuctionDurationSet{Duration: duration})
}
