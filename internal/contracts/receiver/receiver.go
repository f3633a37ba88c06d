// Package receiver provides hostile contract accounts: one that burns all
// gas it is given on receipt of value, one that always reverts. Both can
// forward calls, so they can act as bidders.
package receiver

import (
	"encoding/json"

	"github.com/ethereum/go-ethereum/common"
	"github.com/trebuchet-org/rarity-society/internal/chain"
	"github.com/trebuchet-org/rarity-society/internal/domain"
)

const (
	GasBurnerKind = "GasBurner"
	ReverterKind  = "Reverter"
)

var ErrRejected = domain.Revert("receiver: rejected")

const ABI = `[
{"type":"function","name":"forward","stateMutability":"payable","inputs":[{"name":"target","type":"address"},{"name":"data","type":"bytes"}],"outputs":[{"name":"","type":"bytes"}]}
]`

// Receiver is a stateless hostile account
type Receiver struct {
	address common.Address
	kind    string
}

var _ chain.Contract = (*Receiver)(nil)

// NewGasBurner allocates a gas burner at addr
func NewGasBurner(addr common.Address) chain.Contract {
	return &Receiver{address: addr, kind: GasBurnerKind}
}

// NewReverter allocates a reverter at addr
func NewReverter(addr common.Address) chain.Contract {
	return &Receiver{address: addr, kind: ReverterKind}
}

func (r *Receiver) Kind() string                   { return r.kind }
func (r *Receiver) Address() common.Address        { return r.address }
func (r *Receiver) Snapshot() any                  { return nil }
func (r *Receiver) Restore(any)                    {}
func (r *Receiver) Decode(json.RawMessage) error   { return nil }
func (r *Receiver) Handle(env *chain.Env, input []byte) ([]byte, error) {
	return dispatcher.Dispatch(r, env, input)
}

// Forward calls target with data, passing on the call value
func (r *Receiver) Forward(env *chain.Env, target common.Address, data []byte) ([]byte, error) {
	return env.Call(target, env.Value(), data, env.GasLeft())
}

func (r *Receiver) receive(env *chain.Env) error {
	if r.kind == ReverterKind {
		return ErrRejected
	}
	for {
		if err := env.UseGas(chain.GasStore); err != nil {
			return err
		}
	}
}

var dispatcher = chain.NewDispatcher[*Receiver](ABI).
	Receive((*Receiver).receive).
	Register("forward", func(r *Receiver, env *chain.Env, args []any) ([]any, error) {
		out, err := r.Forward(env, args[0].(common.Address), args[1].([]byte))
		if out == nil {
			out = []byte{}
		}
		return []any{out}, err
	})

// Pack encodes a call to forward
func Pack(target common.Address, data []byte) ([]byte, error) {
	return dispatcher.Pack("forward", target, data)
}
