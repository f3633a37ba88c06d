package auctionhouse

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/trebuchet-org/rarity-society/internal/chain"
)

// ABI is the dispatchable surface of the auction house
const ABI = `[
{"type":"function","name":"owner","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"address"}]},
{"type":"function","name":"paused","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"bool"}]},
{"type":"function","name":"token","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"address"}]},
{"type":"function","name":"weth","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"address"}]},
{"type":"function","name":"reserve","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"address"}]},
{"type":"function","name":"treasurySplit","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"uint256"}]},
{"type":"function","name":"timeBuffer","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"uint256"}]},
{"type":"function","name":"reservePrice","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"uint256"}]},
{"type":"function","name":"duration","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"uint256"}]},
{"type":"function","name":"auction","stateMutability":"view","inputs":[],"outputs":[{"name":"tokenId","type":"uint256"},{"name":"amount","type":"uint256"},{"name":"startTime","type":"uint256"},{"name":"endTime","type":"uint256"},{"name":"bidder","type":"address"},{"name":"settled","type":"bool"}]},
{"type":"function","name":"initialize","stateMutability":"nonpayable","inputs":[{"name":"token","type":"address"},{"name":"reserve","type":"address"},{"name":"weth","type":"address"},{"name":"treasurySplit","type":"uint256"},{"name":"timeBuffer","type":"uint256"},{"name":"reservePrice","type":"uint256"},{"name":"duration","type":"uint256"}],"outputs":[]},
{"type":"function","name":"pause","stateMutability":"nonpayable","inputs":[],"outputs":[]},
{"type":"function","name":"unpause","stateMutability":"nonpayable","inputs":[],"outputs":[]},
{"type":"function","name":"createBid","stateMutability":"payable","inputs":[{"name":"tokenId","type":"uint256"}],"outputs":[]},
{"type":"function","name":"settleAuction","stateMutability":"nonpayable","inputs":[],"outputs":[]},
{"type":"function","name":"settleCurrentAndCreateNewAuction","stateMutability":"nonpayable","inputs":[],"outputs":[]},
{"type":"function","name":"setTreasurySplit","stateMutability":"nonpayable","inputs":[{"name":"treasurySplit","type":"uint256"}],"outputs":[]},
{"type":"function","name":"setTimeBuffer","stateMutability":"nonpayable","inputs":[{"name":"timeBuffer","type":"uint256"}],"outputs":[]},
{"type":"function","name":"setReservePrice","stateMutability":"nonpayable","inputs":[{"name":"reservePrice","type":"uint256"}],"outputs":[]},
{"type":"function","name":"setDuration","stateMutability":"nonpayable","inputs":[{"name":"duration","type":"uint256"}],"outputs":[]},
{"type":"function","name":"transferOwnership","stateMutability":"nonpayable","inputs":[{"name":"newOwner","type":"address"}],"outputs":[]}
]`

func view(fn func(a *AuctionHouse) any) chain.Method[*AuctionHouse] {
	return func(a *AuctionHouse, _ *chain.Env, _ []any) ([]any, error) {
		return []any{fn(a)}, nil
	}
}

func action(fn func(a *AuctionHouse, env *chain.Env) error) chain.Method[*AuctionHouse] {
	return func(a *AuctionHouse, env *chain.Env, _ []any) ([]any, error) {
		return nil, fn(a, env)
	}
}

func uintMethod(fn func(a *AuctionHouse, env *chain.Env, v uint64) error) chain.Method[*AuctionHouse] {
	return func(a *AuctionHouse, env *chain.Env, args []any) ([]any, error) {
		v, err := chain.ArgUint64(args[0])
		if err != nil {
			return nil, err
		}
		return nil, fn(a, env, v)
	}
}

var dispatcher = chain.NewDispatcher[*AuctionHouse](ABI).
	Register("owner", view(func(a *AuctionHouse) any { return a.Owner() })).
	Register("paused", view(func(a *AuctionHouse) any { return a.Paused() })).
	Register("token", view(func(a *AuctionHouse) any { return a.Token() })).
	Register("weth", view(func(a *AuctionHouse) any { return a.WETH() })).
	Register("reserve", view(func(a *AuctionHouse) any { return a.Reserve() })).
	Register("treasurySplit", view(func(a *AuctionHouse) any { return chain.Big(a.st.TreasurySplit) })).
	Register("timeBuffer", view(func(a *AuctionHouse) any { return chain.Big(a.st.TimeBuffer) })).
	Register("reservePrice", view(func(a *AuctionHouse) any { return a.st.ReservePrice.ToBig() })).
	Register("duration", view(func(a *AuctionHouse) any { return chain.Big(a.st.Duration) })).
	Register("auction", func(a *AuctionHouse, _ *chain.Env, _ []any) ([]any, error) {
		cur := a.st.Auction
		return []any{chain.Big(cur.TokenID), cur.Amount.ToBig(), chain.Big(cur.StartTime), chain.Big(cur.EndTime), cur.Bidder, cur.Settled}, nil
	}).
	Register("initialize", func(a *AuctionHouse, env *chain.Env, args []any) ([]any, error) {
		split, err := chain.ArgUint64(args[3])
		if err != nil {
			return nil, err
		}
		buffer, err := chain.ArgUint64(args[4])
		if err != nil {
			return nil, err
		}
		price, err := chain.ArgU256(args[5])
		if err != nil {
			return nil, err
		}
		duration, err := chain.ArgUint64(args[6])
		if err != nil {
			return nil, err
		}
		return nil, a.Initialize(env, args[0].(common.Address), args[1].(common.Address), args[2].(common.Address), Params{
			TreasurySplit: split,
			TimeBuffer:    buffer,
			ReservePrice:  price,
			Duration:      duration,
		})
	}).
	Register("pause", action((*AuctionHouse).Pause)).
	Register("unpause", action((*AuctionHouse).Unpause)).
	Register("createBid", uintMethod((*AuctionHouse).CreateBid)).
	Register("settleAuction", action((*AuctionHouse).SettleAuction)).
	Register("settleCurrentAndCreateNewAuction", action((*AuctionHouse).SettleCurrentAndCreateNewAuction)).
	Register("setTreasurySplit", uintMethod((*AuctionHouse).SetTreasurySplit)).
	Register("setTimeBuffer", uintMethod((*AuctionHouse).SetTimeBuffer)).
	Register("setDuration", uintMethod((*AuctionHouse).SetDuration)).
	Register("setReservePrice", func(a *AuctionHouse, env *chain.Env, args []any) ([]any, error) {
		price, err := chain.ArgU256(args[0])
		if err != nil {
			return nil, err
		}
		return nil, a.SetReservePrice(env, price)
	}).
	Register("transferOwnership", func(a *AuctionHouse, env *chain.Env, args []any) ([]any, error) {
		return nil, a.TransferOwnership(env, args[0].(common.Address))
	})

// Pack encodes a call to one of the auction house's entry points
func Pack(method string, args ...any) ([]byte, error) {
	return dispatcher.Pack(method, args...)
}

// Unpack decodes the outputs of one of the auction house's views
func Unpack(method string, data []byte) ([]any, error) {
	return dispatcher.Unpack(method, data)
}
