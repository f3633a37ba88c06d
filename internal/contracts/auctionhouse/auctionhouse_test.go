package auctionhouse

import (
	"context"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/rarity-society/internal/chain"
	"github.com/trebuchet-org/rarity-society/internal/contracts/receiver"
	"github.com/trebuchet-org/rarity-society/internal/contracts/token"
	"github.com/trebuchet-org/rarity-society/internal/contracts/weth"
	"github.com/trebuchet-org/rarity-society/internal/domain"
)

const (
	maxSupply = 10
	duration  = 60 * 60
	buffer    = 5 * 60
)

var (
	deployer = common.HexToAddress("0x00000000000000000000000000000000000000d0")
	reserve  = common.HexToAddress("0x00000000000000000000000000000000000000e5")
	alice    = common.HexToAddress("0x00000000000000000000000000000000000000a1")
	bob      = common.HexToAddress("0x00000000000000000000000000000000000000b0")

	defaultParams = Params{
		TreasurySplit: 50,
		TimeBuffer:    buffer,
		ReservePrice:  uint256.NewInt(1),
		Duration:      duration,
	}
)

type fixture struct {
	host  *chain.Host
	weth  *weth.WETH
	token *token.Token
	house *AuctionHouse
}

// deployUninitialized deploys WETH, the auction house and a token minted by
// the house
func deployUninitialized(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	f := &fixture{host: chain.NewHost(chain.DefaultOptions(), nil)}

	_, _, err := f.host.Deploy(ctx, deployer, func(env *chain.Env) (chain.Contract, error) {
		var err error
		f.weth, err = weth.Deploy(env)
		return f.weth, err
	})
	require.NoError(t, err)
	_, _, err = f.host.Deploy(ctx, deployer, func(env *chain.Env) (chain.Contract, error) {
		var err error
		f.house, err = Deploy(env)
		return f.house, err
	})
	require.NoError(t, err)
	_, _, err = f.host.Deploy(ctx, deployer, func(env *chain.Env) (chain.Contract, error) {
		var err error
		f.token, err = token.Deploy(env, f.house.Address(), maxSupply)
		return f.token, err
	})
	require.NoError(t, err)

	for _, a := range []common.Address{deployer, alice, bob} {
		f.host.Fund(a, uint256.NewInt(1_000_000))
	}
	return f
}

func deploy(t *testing.T) *fixture {
	t.Helper()
	f := deployUninitialized(t)
	rcpt := f.send(t, deployer, func(env *chain.Env) error {
		return f.house.Initialize(env, f.token.Address(), reserve, f.weth.Address(), defaultParams)
	})
	require.NoError(t, rcpt.Err)
	return f
}

// started unpauses the house and returns the start time of the first round
func started(t *testing.T) (*fixture, uint64) {
	t.Helper()
	f := deploy(t)
	start := f.host.Time()
	rcpt := f.send(t, deployer, f.house.Unpause)
	require.NoError(t, rcpt.Err)
	return f, start
}

func (f *fixture) send(t *testing.T, from common.Address, fn func(env *chain.Env) error) *chain.Receipt {
	t.Helper()
	return f.sendValue(t, from, nil, fn)
}

func (f *fixture) sendValue(t *testing.T, from common.Address, value *uint256.Int, fn func(env *chain.Env) error) *chain.Receipt {
	t.Helper()
	rcpt, _ := f.host.Transact(context.Background(), chain.Tx{From: from, To: f.house.Address(), Value: value}, fn)
	require.NotNil(t, rcpt)
	return rcpt
}

func (f *fixture) bid(t *testing.T, from common.Address, id uint64, amount uint64) *chain.Receipt {
	t.Helper()
	return f.sendValue(t, from, uint256.NewInt(amount), func(env *chain.Env) error {
		return f.house.CreateBid(env, id)
	})
}

func (f *fixture) balanceOf(t *testing.T, a common.Address) uint64 {
	t.Helper()
	n, err := f.token.BalanceOf(a)
	require.NoError(t, err)
	return n
}

func events[T domain.Event](logs []chain.Log) []T {
	var out []T
	for _, l := range logs {
		if e, ok := l.Event.(T); ok {
			out = append(out, e)
		}
	}
	return out
}

func TestInitialize(t *testing.T) {
	withParams := func(mod func(p *Params)) Params {
		p := defaultParams
		p.ReservePrice = new(uint256.Int).Set(defaultParams.ReservePrice)
		mod(&p)
		return p
	}
	tests := []struct {
		name    string
		params  Params
		wantErr error
	}{
		{"time buffer below min", withParams(func(p *Params) { p.TimeBuffer = MinTimeBuffer - 1 }), ErrInvalidTimeBuffer},
		{"reserve above max", withParams(func(p *Params) { p.ReservePrice = new(uint256.Int).AddUint64(MaxReservePrice, 1) }), ErrInvalidReserve},
		{"split above max", withParams(func(p *Params) { p.TreasurySplit = MaxTreasurySplit + 1 }), ErrInvalidSplit},
		{"duration above max", withParams(func(p *Params) { p.Duration = MaxDuration + 1 }), ErrInvalidDuration},
		{"zero reserve accepted", withParams(func(p *Params) { p.ReservePrice = new(uint256.Int) }), nil},
		{"valid", defaultParams, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := deployUninitialized(t)
			rcpt := f.send(t, deployer, func(env *chain.Env) error {
				return f.house.Initialize(env, f.token.Address(), reserve, f.weth.Address(), tt.params)
			})
			if tt.wantErr != nil {
				assert.ErrorIs(t, rcpt.Err, tt.wantErr)
				return
			}
			require.NoError(t, rcpt.Err)
		})
	}

	t.Run("state and events", func(t *testing.T) {
		f := deployUninitialized(t)
		rcpt := f.send(t, deployer, func(env *chain.Env) error {
			return f.house.Initialize(env, f.token.Address(), reserve, f.weth.Address(), defaultParams)
		})
		require.NoError(t, rcpt.Err)

		assert.Equal(t, deployer, f.house.Owner())
		assert.True(t, f.house.Paused())
		assert.Equal(t, f.token.Address(), f.house.Token())
		assert.Equal(t, f.weth.Address(), f.house.WETH())
		assert.Equal(t, reserve, f.house.Reserve())
		assert.Equal(t, defaultParams, f.house.Params())

		assert.Equal(t, []domain.Event{
			&domain.OwnershipTransferred{NewOwner: deployer},
			&domain.Paused{Account: deployer},
			&domain.AuctionTreasurySplitSet{TreasurySplit: 50},
			&domain.AuctionTimeBufferSet{TimeBuffer: buffer},
			&domain.AuctionReservePriceSet{ReservePrice: uint256.NewInt(1)},
			&domain.AuctionDurationSet{Duration: duration},
		}, []domain.Event{
			rcpt.Logs[0].Event, rcpt.Logs[1].Event, rcpt.Logs[2].Event,
			rcpt.Logs[3].Event, rcpt.Logs[4].Event, rcpt.Logs[5].Event,
		})

		rcpt = f.send(t, deployer, func(env *chain.Env) error {
			return f.house.Initialize(env, f.token.Address(), reserve, f.weth.Address(), defaultParams)
		})
		assert.ErrorIs(t, rcpt.Err, ErrAlreadyInitialized)
	})
}

func TestSetters(t *testing.T) {
	tests := []struct {
		name    string
		call    func(a *AuctionHouse, env *chain.Env) error
		wantErr error
		check   func(t *testing.T, a *AuctionHouse)
	}{
		{
			name: "treasury split at max",
			call: func(a *AuctionHouse, env *chain.Env) error { return a.SetTreasurySplit(env, MaxTreasurySplit) },
			check: func(t *testing.T, a *AuctionHouse) {
				assert.Equal(t, MaxTreasurySplit, a.Params().TreasurySplit)
			},
		},
		{
			name:    "treasury split above max",
			call:    func(a *AuctionHouse, env *chain.Env) error { return a.SetTreasurySplit(env, MaxTreasurySplit+1) },
			wantErr: ErrInvalidSplit,
		},
		{
			name: "time buffer at max",
			call: func(a *AuctionHouse, env *chain.Env) error { return a.SetTimeBuffer(env, MaxTimeBuffer) },
			check: func(t *testing.T, a *AuctionHouse) {
				assert.Equal(t, MaxTimeBuffer, a.Params().TimeBuffer)
			},
		},
		{
			name:    "time buffer above max",
			call:    func(a *AuctionHouse, env *chain.Env) error { return a.SetTimeBuffer(env, MaxTimeBuffer+1) },
			wantErr: ErrInvalidTimeBuffer,
		},
		{
			name:    "time buffer below min",
			call:    func(a *AuctionHouse, env *chain.Env) error { return a.SetTimeBuffer(env, MinTimeBuffer-1) },
			wantErr: ErrInvalidTimeBuffer,
		},
		{
			name: "reserve price at max",
			call: func(a *AuctionHouse, env *chain.Env) error { return a.SetReservePrice(env, MaxReservePrice) },
			check: func(t *testing.T, a *AuctionHouse) {
				assert.Equal(t, MaxReservePrice, a.Params().ReservePrice)
			},
		},
		{
			name: "reserve price above max",
			call: func(a *AuctionHouse, env *chain.Env) error {
				return a.SetReservePrice(env, new(uint256.Int).AddUint64(MaxReservePrice, 1))
			},
			wantErr: ErrInvalidReserve,
		},
		{
			name:    "reserve price below min",
			call:    func(a *AuctionHouse, env *chain.Env) error { return a.SetReservePrice(env, new(uint256.Int)) },
			wantErr: ErrInvalidReserve,
		},
		{
			name: "duration at max",
			call: func(a *AuctionHouse, env *chain.Env) error { return a.SetDuration(env, MaxDuration) },
			check: func(t *testing.T, a *AuctionHouse) {
				assert.Equal(t, MaxDuration, a.Params().Duration)
			},
		},
		{
			name:    "duration above max",
			call:    func(a *AuctionHouse, env *chain.Env) error { return a.SetDuration(env, MaxDuration+1) },
			wantErr: ErrInvalidDuration,
		},
		{
			name:    "duration below min",
			call:    func(a *AuctionHouse, env *chain.Env) error { return a.SetDuration(env, MinDuration-1) },
			wantErr: ErrInvalidDuration,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := deploy(t)
			rcpt := f.send(t, alice, func(env *chain.Env) error { return tt.call(f.house, env) })
			assert.ErrorIs(t, rcpt.Err, ErrOwnerOnly)

			rcpt = f.send(t, deployer, func(env *chain.Env) error { return tt.call(f.house, env) })
			if tt.wantErr != nil {
				assert.ErrorIs(t, rcpt.Err, tt.wantErr)
				return
			}
			require.NoError(t, rcpt.Err)
			require.Len(t, rcpt.Logs, 1)
			tt.check(t, f.house)
		})
	}

	t.Run("transfer ownership", func(t *testing.T) {
		f := deploy(t)
		rcpt := f.send(t, deployer, func(env *chain.Env) error { return f.house.TransferOwnership(env, common.Address{}) })
		assert.ErrorIs(t, rcpt.Err, ErrNewOwnerZero)

		rcpt = f.send(t, deployer, func(env *chain.Env) error { return f.house.TransferOwnership(env, alice) })
		require.NoError(t, rcpt.Err)
		assert.Equal(t, alice, f.house.Owner())
		assert.Equal(t, &domain.OwnershipTransferred{PreviousOwner: deployer, NewOwner: alice}, rcpt.Logs[0].Event)

		rcpt = f.send(t, deployer, f.house.Pause)
		assert.ErrorIs(t, rcpt.Err, ErrOwnerOnly)
	})
}

func TestPause(t *testing.T) {
	t.Run("unpause by owner opens the first round", func(t *testing.T) {
		f := deploy(t)
		start := f.host.Time()
		rcpt := f.send(t, deployer, f.house.Unpause)
		require.NoError(t, rcpt.Err)

		assert.False(t, f.house.Paused())
		assert.Equal(t, uint64(1), f.token.TotalSupply())
		assert.Equal(t, []*domain.Unpaused{{Account: deployer}}, events[*domain.Unpaused](rcpt.Logs))
		assert.Equal(t, []*domain.AuctionCreated{{TokenID: 0, StartTime: start, EndTime: start + duration}},
			events[*domain.AuctionCreated](rcpt.Logs))

		cur := f.house.Auction()
		assert.Equal(t, uint64(0), cur.TokenID)
		assert.True(t, cur.Amount.IsZero())
		assert.Equal(t, common.Address{}, cur.Bidder)
		assert.False(t, cur.Settled)
	})

	t.Run("non-owner and repeated calls", func(t *testing.T) {
		f := deploy(t)
		assert.ErrorIs(t, f.send(t, deployer, f.house.Pause).Err, ErrPaused)
		assert.ErrorIs(t, f.send(t, alice, f.house.Unpause).Err, ErrOwnerOnly)
		require.NoError(t, f.send(t, deployer, f.house.Unpause).Err)
		assert.ErrorIs(t, f.send(t, deployer, f.house.Unpause).Err, ErrNotPaused)
		assert.ErrorIs(t, f.send(t, alice, f.house.Pause).Err, ErrOwnerOnly)

		rcpt := f.send(t, deployer, f.house.Pause)
		require.NoError(t, rcpt.Err)
		assert.Equal(t, []*domain.Paused{{Account: deployer}}, events[*domain.Paused](rcpt.Logs))
		assert.True(t, f.house.Paused())
	})

	t.Run("stays paused when minting fails", func(t *testing.T) {
		f := deploy(t)
		for range maxSupply {
			rcpt := f.send(t, deployer, func(env *chain.Env) error {
				_, err := f.token.MintTo(env, deployer)
				return err
			})
			require.NoError(t, rcpt.Err)
		}

		rcpt := f.send(t, deployer, f.house.Unpause)
		require.NoError(t, rcpt.Err)
		assert.True(t, f.house.Paused())
		assert.Equal(t, []*domain.Paused{{Account: deployer}}, events[*domain.Paused](rcpt.Logs))
		assert.Empty(t, events[*domain.AuctionCreated](rcpt.Logs))
		assert.Equal(t, uint64(maxSupply), f.token.TotalSupply())
		auction := f.house.Auction()
		assert.False(t, auction.Started())
	})

	t.Run("unpausing mid-round keeps the round", func(t *testing.T) {
		f, start := started(t)
		require.NoError(t, f.send(t, deployer, f.house.Pause).Err)
		rcpt := f.send(t, deployer, f.house.Unpause)
		require.NoError(t, rcpt.Err)
		assert.Empty(t, events[*domain.AuctionCreated](rcpt.Logs))
		assert.Equal(t, start, f.house.Auction().StartTime)
		assert.Equal(t, uint64(1), f.token.TotalSupply())
	})
}

func TestCreateBid(t *testing.T) {
	t.Run("preconditions", func(t *testing.T) {
		f, start := started(t)
		assert.ErrorIs(t, f.bid(t, alice, 1, 10).Err, ErrNotUpForAuction)
		assert.ErrorIs(t, f.bid(t, alice, 0, 0).Err, ErrBelowReserve)

		require.NoError(t, f.host.SetNextTimestamp(start+duration))
		assert.ErrorIs(t, f.bid(t, alice, 0, 10).Err, ErrExpired)
	})

	t.Run("before any round", func(t *testing.T) {
		f := deploy(t)
		assert.ErrorIs(t, f.bid(t, alice, 0, 10).Err, ErrNotUpForAuction)
	})

	t.Run("reserve price", func(t *testing.T) {
		f, _ := started(t)
		require.NoError(t, f.send(t, deployer, func(env *chain.Env) error {
			return f.house.SetReservePrice(env, uint256.NewInt(50))
		}).Err)
		assert.ErrorIs(t, f.bid(t, alice, 0, 49).Err, ErrBelowReserve)
		require.NoError(t, f.bid(t, alice, 0, 50).Err)
	})

	t.Run("five percent increment", func(t *testing.T) {
		f, _ := started(t)
		require.NoError(t, f.bid(t, alice, 0, 100).Err)
		assert.ErrorIs(t, f.bid(t, bob, 0, 104).Err, ErrBidIncrement)
		require.NoError(t, f.bid(t, bob, 0, 105).Err)
		assert.Equal(t, uint64(110), f.house.MinNextBid().Uint64())
	})

	t.Run("records the bid", func(t *testing.T) {
		f, start := started(t)
		rcpt := f.bid(t, alice, 0, 1)
		require.NoError(t, rcpt.Err)

		cur := f.house.Auction()
		assert.Equal(t, uint64(1), cur.Amount.Uint64())
		assert.Equal(t, alice, cur.Bidder)
		assert.Equal(t, start, cur.StartTime)
		assert.Equal(t, start+duration, cur.EndTime)
		assert.Equal(t, []*domain.AuctionBid{{TokenID: 0, Bidder: alice, Amount: uint256.NewInt(1)}},
			events[*domain.AuctionBid](rcpt.Logs))
		assert.Empty(t, events[*domain.AuctionExtended](rcpt.Logs))
		assert.Equal(t, uint64(1), f.host.Balance(f.house.Address()).Uint64())
	})

	t.Run("refunds the previous bidder", func(t *testing.T) {
		f, _ := started(t)
		require.NoError(t, f.bid(t, alice, 0, 1000).Err)
		before := f.host.Balance(alice).Uint64()

		require.NoError(t, f.bid(t, bob, 0, 2000).Err)
		assert.Equal(t, before+1000, f.host.Balance(alice).Uint64())
		assert.Equal(t, uint64(2000), f.host.Balance(f.house.Address()).Uint64())
	})

	t.Run("extends a late bid", func(t *testing.T) {
		f, start := started(t)
		end := start + duration
		require.NoError(t, f.host.SetNextTimestamp(end-1))

		rcpt := f.bid(t, alice, 0, 1)
		require.NoError(t, rcpt.Err)
		assert.Equal(t, end-1+buffer, f.house.Auction().EndTime)
		assert.Equal(t, []*domain.AuctionExtended{{TokenID: 0, EndTime: end - 1 + buffer}},
			events[*domain.AuctionExtended](rcpt.Logs))
		assert.Equal(t, []*domain.AuctionBid{{TokenID: 0, Bidder: alice, Amount: uint256.NewInt(1), Extended: true}},
			events[*domain.AuctionBid](rcpt.Logs))
	})

	t.Run("does not extend before the buffer window", func(t *testing.T) {
		f, start := started(t)
		end := start + duration
		require.NoError(t, f.host.SetNextTimestamp(end-buffer-1))

		rcpt := f.bid(t, alice, 0, 1)
		require.NoError(t, rcpt.Err)
		assert.Equal(t, end, f.house.Auction().EndTime)
		assert.Empty(t, events[*domain.AuctionExtended](rcpt.Logs))
	})

	t.Run("extends at the start of the buffer window", func(t *testing.T) {
		f, start := started(t)
		end := start + duration
		require.NoError(t, f.host.SetNextTimestamp(end-buffer))

		rcpt := f.bid(t, alice, 0, 1)
		require.NoError(t, rcpt.Err)
		assert.Equal(t, end, f.house.Auction().EndTime)
		assert.Len(t, events[*domain.AuctionExtended](rcpt.Logs), 1)
	})
}

// hostileBid places a bid from a receiver contract deployed with create
func hostileBid(t *testing.T, f *fixture, create func(addr common.Address) chain.Contract, amount uint64) common.Address {
	t.Helper()
	ctx := context.Background()
	addr, _, err := f.host.Deploy(ctx, alice, func(env *chain.Env) (chain.Contract, error) {
		return create(env.Self()), nil
	})
	require.NoError(t, err)

	input, err := Pack("createBid", big.NewInt(0))
	require.NoError(t, err)
	data, err := receiver.Pack(f.house.Address(), input)
	require.NoError(t, err)
	rcpt, err := f.host.Transact(ctx, chain.Tx{From: alice, To: addr, Value: uint256.NewInt(amount), Data: data}, nil)
	require.NoError(t, err)
	require.NoError(t, rcpt.Err)
	require.Equal(t, addr, f.house.Auction().Bidder)
	return addr
}

func TestRefundFallback(t *testing.T) {
	tests := []struct {
		name   string
		create func(addr common.Address) chain.Contract
	}{
		{"gas burner", receiver.NewGasBurner},
		{"reverter", receiver.NewReverter},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, _ := started(t)
			hostile := hostileBid(t, f, tt.create, 1000)

			rcpt, err := f.host.Transact(context.Background(), chain.Tx{
				From:     bob,
				To:       f.house.Address(),
				Value:    uint256.NewInt(2000),
				GasLimit: 300_000,
			}, func(env *chain.Env) error { return f.house.CreateBid(env, 0) })
			require.NoError(t, err)

			assert.Less(t, rcpt.GasUsed, uint64(150_000))
			assert.Equal(t, uint64(1000), f.weth.BalanceOf(hostile).Uint64())
			assert.True(t, f.host.Balance(hostile).IsZero())
			assert.Equal(t, bob, f.house.Auction().Bidder)
		})
	}
}

func TestSettleAuction(t *testing.T) {
	t.Run("never started", func(t *testing.T) {
		f := deploy(t)
		assert.ErrorIs(t, f.send(t, deployer, f.house.SettleAuction).Err, ErrNotBegun)
	})

	t.Run("requires pause", func(t *testing.T) {
		f, _ := started(t)
		assert.ErrorIs(t, f.send(t, deployer, f.house.SettleAuction).Err, ErrNotPaused)
	})

	t.Run("not completed then settled once", func(t *testing.T) {
		f, start := started(t)
		require.NoError(t, f.send(t, deployer, f.house.Pause).Err)
		require.NoError(t, f.host.SetNextTimestamp(start+duration-1))
		assert.ErrorIs(t, f.send(t, deployer, f.house.SettleAuction).Err, ErrNotCompleted)

		require.NoError(t, f.send(t, deployer, f.house.SettleAuction).Err)
		assert.ErrorIs(t, f.send(t, deployer, f.house.SettleAuction).Err, ErrAlreadySettled)
	})

	t.Run("no bids returns the token to the owner", func(t *testing.T) {
		f, start := started(t)
		require.NoError(t, f.host.SetNextTimestamp(start+duration))
		require.NoError(t, f.send(t, deployer, f.house.Pause).Err)
		rcpt := f.send(t, alice, f.house.SettleAuction)
		require.NoError(t, rcpt.Err)
		assert.Equal(t, uint64(1), f.balanceOf(t, deployer))
		assert.Equal(t, []*domain.AuctionSettled{{TokenID: 0, Amount: new(uint256.Int)}},
			events[*domain.AuctionSettled](rcpt.Logs))
	})

	t.Run("awards the winner and splits proceeds", func(t *testing.T) {
		f, start := started(t)
		require.NoError(t, f.bid(t, alice, 0, 90).Err)
		require.NoError(t, f.bid(t, bob, 0, 101).Err)
		require.NoError(t, f.host.SetNextTimestamp(start+duration))
		require.NoError(t, f.send(t, deployer, f.house.Pause).Err)

		ownerBefore := f.host.Balance(deployer).Uint64()
		rcpt := f.send(t, alice, f.house.SettleAuction)
		require.NoError(t, rcpt.Err)

		assert.Equal(t, uint64(0), f.balanceOf(t, alice))
		assert.Equal(t, uint64(1), f.balanceOf(t, bob))
		assert.Equal(t, ownerBefore+50, f.host.Balance(deployer).Uint64())
		assert.Equal(t, uint64(51), f.host.Balance(reserve).Uint64())
		assert.True(t, f.host.Balance(f.house.Address()).IsZero())
		assert.Equal(t, []*domain.AuctionSettled{{TokenID: 0, Winner: bob, Amount: uint256.NewInt(101)}},
			events[*domain.AuctionSettled](rcpt.Logs))

		cur := f.house.Auction()
		assert.True(t, cur.Settled)
		assert.Equal(t, start, cur.StartTime)
		assert.Equal(t, start+duration, cur.EndTime)
		assert.Equal(t, bob, cur.Bidder)
	})

	t.Run("unpause after settlement opens the next round", func(t *testing.T) {
		f, start := started(t)
		require.NoError(t, f.host.SetNextTimestamp(start+duration))
		require.NoError(t, f.send(t, deployer, f.house.Pause).Err)
		require.NoError(t, f.send(t, deployer, f.house.SettleAuction).Err)

		rcpt := f.send(t, deployer, f.house.Unpause)
		require.NoError(t, rcpt.Err)
		assert.Len(t, events[*domain.AuctionCreated](rcpt.Logs), 1)
		assert.Equal(t, uint64(1), f.house.Auction().TokenID)
	})
}

func TestSettleCurrentAndCreateNewAuction(t *testing.T) {
	t.Run("requires the house running", func(t *testing.T) {
		f := deploy(t)
		assert.ErrorIs(t, f.send(t, deployer, f.house.SettleCurrentAndCreateNewAuction).Err, ErrPaused)
	})

	t.Run("not completed", func(t *testing.T) {
		f, start := started(t)
		require.NoError(t, f.host.SetNextTimestamp(start+duration-1))
		assert.ErrorIs(t, f.send(t, deployer, f.house.SettleCurrentAndCreateNewAuction).Err, ErrNotCompleted)
	})

	t.Run("settles and relists", func(t *testing.T) {
		f, start := started(t)
		require.NoError(t, f.bid(t, alice, 0, 1).Err)
		end := start + duration
		require.NoError(t, f.host.SetNextTimestamp(end))

		rcpt := f.send(t, bob, f.house.SettleCurrentAndCreateNewAuction)
		require.NoError(t, rcpt.Err)
		assert.Equal(t, uint64(1), f.balanceOf(t, alice))
		assert.Equal(t, []*domain.AuctionSettled{{TokenID: 0, Winner: alice, Amount: uint256.NewInt(1)}},
			events[*domain.AuctionSettled](rcpt.Logs))
		// 1 wei at a 50% split rounds the owner's share down to nothing
		assert.Equal(t, uint64(1), f.host.Balance(reserve).Uint64())

		cur := f.house.Auction()
		assert.Equal(t, uint64(1), cur.TokenID)
		assert.True(t, cur.Amount.IsZero())
		assert.Equal(t, end, cur.StartTime)
		assert.Equal(t, end+duration, cur.EndTime)
		assert.Equal(t, common.Address{}, cur.Bidder)
		assert.False(t, cur.Settled)
	})

	t.Run("pauses when the supply runs out", func(t *testing.T) {
		f, start := started(t)
		for range maxSupply - 1 {
			rcpt := f.send(t, deployer, func(env *chain.Env) error {
				_, err := f.token.MintTo(env, deployer)
				return err
			})
			require.NoError(t, rcpt.Err)
		}
		require.NoError(t, f.host.SetNextTimestamp(start+duration))

		rcpt := f.send(t, alice, f.house.SettleCurrentAndCreateNewAuction)
		require.NoError(t, rcpt.Err)
		assert.True(t, f.house.Paused())
		assert.True(t, f.house.Auction().Settled)
		assert.Equal(t, []*domain.Paused{{Account: alice}}, events[*domain.Paused](rcpt.Logs))
	})
}

func TestDispatch(t *testing.T) {
	f, start := started(t)
	ctx := context.Background()

	input, err := Pack("createBid", big.NewInt(0))
	require.NoError(t, err)
	rcpt, err := f.host.Transact(ctx, chain.Tx{From: alice, To: f.house.Address(), Value: uint256.NewInt(7), Data: input}, nil)
	require.NoError(t, err)
	require.NoError(t, rcpt.Err)

	input, err = Pack("auction")
	require.NoError(t, err)
	var out []byte
	_, err = f.host.Transact(ctx, chain.Tx{From: alice, To: f.house.Address()}, func(env *chain.Env) error {
		var err error
		out, err = f.house.Handle(env, input)
		return err
	})
	require.NoError(t, err)
	res, err := Unpack("auction", out)
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(0), res[0])
	assert.Equal(t, big.NewInt(7), res[1])
	assert.Equal(t, new(big.Int).SetUint64(start), res[2])
	assert.Equal(t, alice, res[4])
	assert.Equal(t, false, res[5])

	input, err = Pack("setDuration", big.NewInt(int64(MinDuration)))
	require.NoError(t, err)
	rcpt, err = f.host.Transact(ctx, chain.Tx{From: alice, To: f.house.Address(), Data: input}, nil)
	require.Error(t, err)
	assert.ErrorIs(t, rcpt.Err, ErrOwnerOnly)

	input, err = Pack("pause")
	require.NoError(t, err)
	rcpt, err = f.host.Transact(ctx, chain.Tx{From: deployer, To: f.house.Address(), Value: uint256.NewInt(1), Data: input}, nil)
	require.Error(t, err)
	assert.ErrorIs(t, rcpt.Err, chain.ErrNonPayable)
}
