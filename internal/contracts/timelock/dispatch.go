package timelock

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/trebuchet-org/rarity-society/internal/chain"
)

// ABI is the dispatchable surface of the timelock
const ABI = `[
{"type":"function","name":"admin","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"address"}]},
{"type":"function","name":"pendingAdmin","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"address"}]},
{"type":"function","name":"delay","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"uint256"}]},
{"type":"function","name":"GRACE_PERIOD","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"uint256"}]},
{"type":"function","name":"MINIMUM_DELAY","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"uint256"}]},
{"type":"function","name":"MAXIMUM_DELAY","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"uint256"}]},
{"type":"function","name":"queuedTransactions","stateMutability":"view","inputs":[{"name":"hash","type":"bytes32"}],"outputs":[{"name":"","type":"bool"}]},
{"type":"function","name":"setDelay","stateMutability":"nonpayable","inputs":[{"name":"delay_","type":"uint256"}],"outputs":[]},
{"type":"function","name":"setPendingAdmin","stateMutability":"nonpayable","inputs":[{"name":"pendingAdmin_","type":"address"}],"outputs":[]},
{"type":"function","name":"acceptAdmin","stateMutability":"nonpayable","inputs":[],"outputs":[]},
{"type":"function","name":"queueTransaction","stateMutability":"nonpayable","inputs":[{"name":"target","type":"address"},{"name":"value","type":"uint256"},{"name":"signature","type":"string"},{"name":"data","type":"bytes"},{"name":"eta","type":"uint256"}],"outputs":[{"name":"","type":"bytes32"}]},
{"type":"function","name":"cancelTransaction","stateMutability":"nonpayable","inputs":[{"name":"target","type":"address"},{"name":"value","type":"uint256"},{"name":"signature","type":"string"},{"name":"data","type":"bytes"},{"name":"eta","type":"uint256"}],"outputs":[]},
{"type":"function","name":"executeTransaction","stateMutability":"payable","inputs":[{"name":"target","type":"address"},{"name":"value","type":"uint256"},{"name":"signature","type":"string"},{"name":"data","type":"bytes"},{"name":"eta","type":"uint256"}],"outputs":[{"name":"","type":"bytes"}]}
]`

func argCall(args []any) (Call, error) {
	value, err := chain.ArgU256(args[1])
	if err != nil {
		return Call{}, err
	}
	eta, err := chain.ArgUint64(args[4])
	if err != nil {
		return Call{}, err
	}
	return Call{
		Target:    args[0].(common.Address),
		Value:     value,
		Signature: args[2].(string),
		Data:      args[3].([]byte),
		Eta:       eta,
	}, nil
}

// the timelock accepts plain transfers and unknown calldata
var dispatcher = chain.NewDispatcher[*Timelock](ABI).
	Receive(func(*Timelock, *chain.Env) error { return nil }).
	Fallback(func(*Timelock, *chain.Env, []byte) ([]byte, error) { return nil, nil }).
	Register("admin", func(t *Timelock, _ *chain.Env, _ []any) ([]any, error) {
		return []any{t.Admin()}, nil
	}).
	Register("pendingAdmin", func(t *Timelock, _ *chain.Env, _ []any) ([]any, error) {
		return []any{t.PendingAdmin()}, nil
	}).
	Register("delay", func(t *Timelock, _ *chain.Env, _ []any) ([]any, error) {
		return []any{chain.Big(t.Delay())}, nil
	}).
	Register("GRACE_PERIOD", func(*Timelock, *chain.Env, []any) ([]any, error) {
		return []any{chain.Big(GracePeriod)}, nil
	}).
	Register("MINIMUM_DELAY", func(*Timelock, *chain.Env, []any) ([]any, error) {
		return []any{chain.Big(MinimumDelay)}, nil
	}).
	Register("MAXIMUM_DELAY", func(*Timelock, *chain.Env, []any) ([]any, error) {
		return []any{chain.Big(MaximumDelay)}, nil
	}).
	Register("queuedTransactions", func(t *Timelock, _ *chain.Env, args []any) ([]any, error) {
		return []any{t.IsQueued(common.Hash(args[0].([32]byte)))}, nil
	}).
	Register("setDelay", func(t *Timelock, env *chain.Env, args []any) ([]any, error) {
		delay, err := chain.ArgUint64(args[0])
		if err != nil {
			return nil, err
		}
		return nil, t.SetDelay(env, delay)
	}).
	Register("setPendingAdmin", func(t *Timelock, env *chain.Env, args []any) ([]any, error) {
		return nil, t.SetPendingAdmin(env, args[0].(common.Address))
	}).
	Register("acceptAdmin", func(t *Timelock, env *chain.Env, _ []any) ([]any, error) {
		return nil, t.AcceptAdmin(env)
	}).
	Register("queueTransaction", func(t *Timelock, env *chain.Env, args []any) ([]any, error) {
		c, err := argCall(args)
		if err != nil {
			return nil, err
		}
		hash, err := t.QueueTransaction(env, c)
		return []any{[32]byte(hash)}, err
	}).
	Register("cancelTransaction", func(t *Timelock, env *chain.Env, args []any) ([]any, error) {
		c, err := argCall(args)
		if err != nil {
			return nil, err
		}
		return nil, t.CancelTransaction(env, c)
	}).
	Register("executeTransaction", func(t *Timelock, env *chain.Env, args []any) ([]any, error) {
		c, err := argCall(args)
		if err != nil {
			return nil, err
		}
		out, err := t.ExecuteTransaction(env, c)
		if out == nil {
			out = []byte{}
		}
		return []any{out}, err
	})

// Pack encodes a call to one of the timelock's entry points
func Pack(method string, args ...any) ([]byte, error) {
	return dispatcher.Pack(method, args...)
}
