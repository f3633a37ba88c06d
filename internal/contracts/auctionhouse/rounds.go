package auctionhouse

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"github.com/trebuchet-org/rarity-society/internal/chain"
	"github.com/trebuchet-org/rarity-society/internal/domain"
	"github.com/trebuchet-org/rarity-society/internal/domain/models"
)

// Pause stops new rounds from being created
func (a *AuctionHouse) Pause(env *chain.Env) error {
	if err := a.onlyOwner(env); err != nil {
		return err
	}
	if a.st.Paused {
		return ErrPaused
	}
	return a.pause(env)
}

func (a *AuctionHouse) pause(env *chain.Env) error {
	a.st.Paused = true
	if err := env.UseGas(chain.GasStore); err != nil {
		return err
	}
	return env.Emit(&domain.Paused{Account: env.Caller()})
}

// Unpause resumes the house and opens a round when none is live. A round
// that cannot be opened leaves the house paused instead of failing.
func (a *AuctionHouse) Unpause(env *chain.Env) error {
	if err := a.onlyOwner(env); err != nil {
		return err
	}
	if !a.st.Paused {
		return ErrNotPaused
	}
	a.st.Paused = false
	if err := env.UseGas(chain.GasStore); err != nil {
		return err
	}
	if err := env.Emit(&domain.Unpaused{Account: env.Caller()}); err != nil {
		return err
	}
	if !a.st.Auction.Started() || a.st.Auction.Settled {
		return a.createAuction(env)
	}
	return nil
}

// createAuction mints the next token and opens a round for it
func (a *AuctionHouse) createAuction(env *chain.Env) error {
	tok, err := a.token(env)
	if err != nil {
		return err
	}
	var id uint64
	if err := env.Invoke(tok.Address(), nil, func(child *chain.Env) error {
		id, err = tok.Mint(child)
		return err
	}); err != nil {
		if _, reverted := domain.RevertReason(err); reverted {
			return a.pause(env)
		}
		return err
	}

	start := env.Time()
	a.st.Auction = models.Auction{
		TokenID:   id,
		Amount:    new(uint256.Int),
		StartTime: start,
		EndTime:   start + a.st.Duration,
	}
	if err := env.UseGas(4 * chain.GasStore); err != nil {
		return err
	}
	return env.Emit(&domain.AuctionCreated{TokenID: id, StartTime: start, EndTime: a.st.Auction.EndTime})
}

// CreateBid places the call value as a bid on the live round. The outbid
// bidder is refunded; a late bid pushes the end out to now plus the time
// buffer.
func (a *AuctionHouse) CreateBid(env *chain.Env, tokenID uint64) error {
	cur := &a.st.Auction
	if !cur.Started() || cur.TokenID != tokenID {
		return ErrNotUpForAuction
	}
	now := env.Time()
	if now >= cur.EndTime {
		return ErrExpired
	}
	value := env.Value()
	if value.Lt(a.st.ReservePrice) {
		return ErrBelowReserve
	}
	if value.Lt(a.MinNextBid()) {
		return ErrBidIncrement
	}

	bidder := env.Caller()
	lastBidder, lastAmount := cur.Bidder, cur.Amount
	cur.Bidder = bidder
	cur.Amount = value
	extended := now+a.st.TimeBuffer >= cur.EndTime
	if extended {
		cur.EndTime = now + a.st.TimeBuffer
	}
	endTime := cur.EndTime
	if err := env.UseGas(3 * chain.GasStore); err != nil {
		return err
	}

	if lastBidder != (common.Address{}) {
		if err := a.pay(env, lastBidder, lastAmount); err != nil {
			return err
		}
	}

	if err := env.Emit(&domain.AuctionBid{TokenID: tokenID, Bidder: bidder, Amount: new(uint256.Int).Set(value), Extended: extended}); err != nil {
		return err
	}
	if extended {
		return env.Emit(&domain.AuctionExtended{TokenID: tokenID, EndTime: endTime})
	}
	return nil
}

// SettleAuction closes the round while the house is paused
func (a *AuctionHouse) SettleAuction(env *chain.Env) error {
	if !a.st.Paused {
		return ErrNotPaused
	}
	return a.settle(env)
}

// SettleCurrentAndCreateNewAuction closes the round and opens the next one
// in a single call. The house must be running.
func (a *AuctionHouse) SettleCurrentAndCreateNewAuction(env *chain.Env) error {
	if a.st.Paused {
		return ErrPaused
	}
	if err := a.settle(env); err != nil {
		return err
	}
	return a.createAuction(env)
}

// settle hands the token to the winner, or the owner when nobody bid, and
// splits the winning amount: the owner takes the treasury split rounded
// down and the reserve takes the rest.
func (a *AuctionHouse) settle(env *chain.Env) error {
	if !a.st.Auction.Started() {
		return ErrNotBegun
	}
	if a.st.Auction.Settled {
		return ErrAlreadySettled
	}
	if env.Time() < a.st.Auction.EndTime {
		return ErrNotCompleted
	}
	a.st.Auction.Settled = true
	// payouts may restore state from a snapshot, so work from a copy
	cur := a.st.Auction.Clone()
	if err := env.UseGas(chain.GasStore); err != nil {
		return err
	}

	tok, err := a.token(env)
	if err != nil {
		return err
	}
	winner := cur.Bidder
	if winner == (common.Address{}) {
		winner = a.st.Owner
	}
	if err := env.Invoke(tok.Address(), nil, func(child *chain.Env) error {
		return tok.TransferFrom(child, a.address, winner, cur.TokenID)
	}); err != nil {
		return err
	}

	if !cur.Amount.IsZero() {
		ownerShare := new(uint256.Int).Mul(cur.Amount, uint256.NewInt(a.st.TreasurySplit))
		ownerShare.Div(ownerShare, uint256.NewInt(100))
		reserveShare := new(uint256.Int).Sub(cur.Amount, ownerShare)
		if err := a.pay(env, a.st.Owner, ownerShare); err != nil {
			return err
		}
		if err := a.pay(env, a.st.Reserve, reserveShare); err != nil {
			return err
		}
	}

	return env.Emit(&domain.AuctionSettled{TokenID: cur.TokenID, Winner: cur.Bidder, Amount: new(uint256.Int).Set(cur.Amount)})
}

// pay sends native currency with a capped gas stipend. A recipient that
// rejects it or burns the stipend is paid in WETH instead.
func (a *AuctionHouse) pay(env *chain.Env, to common.Address, amount *uint256.Int) error {
	if amount.IsZero() {
		return nil
	}
	if _, err := env.Call(to, amount, nil, RefundGasStipend); err == nil {
		return nil
	}
	w, err := a.weth(env)
	if err != nil {
		return err
	}
	if err := env.Invoke(w.Address(), amount, w.Deposit); err != nil {
		return err
	}
	return env.Invoke(w.Address(), nil, func(child *chain.Env) error {
		return w.Transfer(child, to, amount)
	})
}
