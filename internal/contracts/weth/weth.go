// Package weth implements wrapped native currency, the auction house's
// refund path of last resort.
package weth

import (
	"encoding/json"
	"maps"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"github.com/trebuchet-org/rarity-society/internal/chain"
	"github.com/trebuchet-org/rarity-society/internal/domain"
)

const Kind = "WETH"

var ErrInsufficientBalance = domain.Revert("WETH: insufficient balance")

const ABI = `[
{"type":"function","name":"name","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"string"}]},
{"type":"function","name":"symbol","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"string"}]},
{"type":"function","name":"decimals","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"uint8"}]},
{"type":"function","name":"totalSupply","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"uint256"}]},
{"type":"function","name":"balanceOf","stateMutability":"view","inputs":[{"name":"owner","type":"address"}],"outputs":[{"name":"","type":"uint256"}]},
{"type":"function","name":"deposit","stateMutability":"payable","inputs":[],"outputs":[]},
{"type":"function","name":"withdraw","stateMutability":"nonpayable","inputs":[{"name":"wad","type":"uint256"}],"outputs":[]},
{"type":"function","name":"transfer","stateMutability":"nonpayable","inputs":[{"name":"dst","type":"address"},{"name":"wad","type":"uint256"}],"outputs":[{"name":"","type":"bool"}]}
]`

// State is the WETH ledger
type State struct {
	Balances map[common.Address]*uint256.Int `json:"balances"`
}

// WETH is a deployed wrapped-currency contract
type WETH struct {
	address common.Address
	st      *State
}

var _ chain.Contract = (*WETH)(nil)

func Empty(addr common.Address) chain.Contract {
	return &WETH{address: addr, st: &State{Balances: make(map[common.Address]*uint256.Int)}}
}

func Deploy(env *chain.Env) (*WETH, error) {
	return Empty(env.Self()).(*WETH), nil
}

func (w *WETH) Kind() string            { return Kind }
func (w *WETH) Address() common.Address { return w.address }

// balances are replaced, never mutated in place, so a shallow copy suffices
func (w *WETH) Snapshot() any {
	return &State{Balances: maps.Clone(w.st.Balances)}
}

func (w *WETH) Restore(snapshot any) {
	w.st = &State{Balances: maps.Clone(snapshot.(*State).Balances)}
}

func (w *WETH) Decode(raw json.RawMessage) error {
	st := &State{}
	if err := json.Unmarshal(raw, st); err != nil {
		return err
	}
	if st.Balances == nil {
		st.Balances = make(map[common.Address]*uint256.Int)
	}
	w.st = st
	return nil
}

func (w *WETH) Handle(env *chain.Env, input []byte) ([]byte, error) {
	return dispatcher.Dispatch(w, env, input)
}

// BalanceOf returns an account's wrapped balance
func (w *WETH) BalanceOf(a common.Address) *uint256.Int {
	if b, ok := w.st.Balances[a]; ok {
		return new(uint256.Int).Set(b)
	}
	return new(uint256.Int)
}

// TotalSupply is the native currency the contract holds
func (w *WETH) TotalSupply(env *chain.Env) *uint256.Int {
	return env.Balance(w.address)
}

// Deposit wraps the call value for the caller
func (w *WETH) Deposit(env *chain.Env) error {
	wad := env.Value()
	w.st.Balances[env.Caller()] = new(uint256.Int).Add(w.BalanceOf(env.Caller()), wad)
	if err := env.UseGas(chain.GasStore); err != nil {
		return err
	}
	return env.Emit(&domain.Deposit{Dst: env.Caller(), Wad: wad})
}

// Withdraw unwraps wad back to the caller
func (w *WETH) Withdraw(env *chain.Env, wad *uint256.Int) error {
	src := env.Caller()
	bal := w.BalanceOf(src)
	if bal.Lt(wad) {
		return ErrInsufficientBalance
	}
	w.st.Balances[src] = new(uint256.Int).Sub(bal, wad)
	if err := env.UseGas(chain.GasStore); err != nil {
		return err
	}
	if _, err := env.Call(src, wad, nil, env.GasLeft()); err != nil {
		return err
	}
	return env.Emit(&domain.Withdrawal{Src: src, Wad: new(uint256.Int).Set(wad)})
}

// Transfer moves wrapped balance from the caller
func (w *WETH) Transfer(env *chain.Env, dst common.Address, wad *uint256.Int) error {
	src := env.Caller()
	bal := w.BalanceOf(src)
	if bal.Lt(wad) {
		return ErrInsufficientBalance
	}
	w.st.Balances[src] = new(uint256.Int).Sub(bal, wad)
	w.st.Balances[dst] = new(uint256.Int).Add(w.BalanceOf(dst), wad)
	if err := env.UseGas(2 * chain.GasStore); err != nil {
		return err
	}
	return env.Emit(&domain.ERC20Transfer{Src: src, Dst: dst, Wad: new(uint256.Int).Set(wad)})
}

var dispatcher = chain.NewDispatcher[*WETH](ABI).
	Receive(func(w *WETH, env *chain.Env) error { return w.Deposit(env) }).
	Register("name", func(*WETH, *chain.Env, []any) ([]any, error) { return []any{"Wrapped Ether"}, nil }).
	Register("symbol", func(*WETH, *chain.Env, []any) ([]any, error) { return []any{"WETH"}, nil }).
	Register("decimals", func(*WETH, *chain.Env, []any) ([]any, error) { return []any{uint8(18)}, nil }).
	Register("totalSupply", func(w *WETH, env *chain.Env, _ []any) ([]any, error) {
		return []any{w.TotalSupply(env).ToBig()}, nil
	}).
	Register("balanceOf", func(w *WETH, _ *chain.Env, args []any) ([]any, error) {
		return []any{w.BalanceOf(args[0].(common.Address)).ToBig()}, nil
	}).
	Register("deposit", func(w *WETH, env *chain.Env, _ []any) ([]any, error) {
		return nil, w.Deposit(env)
	}).
	Register("withdraw", func(w *WETH, env *chain.Env, args []any) ([]any, error) {
		wad, err := chain.ArgU256(args[0])
		if err != nil {
			return nil, err
		}
		return nil, w.Withdraw(env, wad)
	}).
	Register("transfer", func(w *WETH, env *chain.Env, args []any) ([]any, error) {
		wad, err := chain.ArgU256(args[1])
		if err != nil {
			return nil, err
		}
		return []any{true}, w.Transfer(env, args[0].(common.Address), wad)
	})
