package chain

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"github.com/trebuchet-org/rarity-society/internal/domain"
)

// MaxCallDepth bounds nested frames
const MaxCallDepth = 1024

// ErrCallDepth is returned when a call would exceed MaxCallDepth
var ErrCallDepth = domain.Revert("max call depth exceeded")

// Env is the execution context of one call frame
type Env struct {
	host   *Host
	caller common.Address
	self   common.Address
	origin common.Address
	value  *uint256.Int
	gas    *GasMeter
	depth  int
}

// Caller is the immediate sender of the call (msg.sender)
func (e *Env) Caller() common.Address { return e.caller }

// Self is the address of the executing contract
func (e *Env) Self() common.Address { return e.self }

// Origin is the externally owned account that signed the transaction
func (e *Env) Origin() common.Address { return e.origin }

// Value is the native currency sent with the call. Never nil.
func (e *Env) Value() *uint256.Int { return new(uint256.Int).Set(e.value) }

func (e *Env) BlockNumber() uint64 { return e.host.block }
func (e *Env) Time() uint64        { return e.host.time }
func (e *Env) ChainID() uint64     { return e.host.chainID }

// UseGas charges the current frame
func (e *Env) UseGas(n uint64) error { return e.gas.Use(n) }

// GasLeft is the gas remaining in the current frame
func (e *Env) GasLeft() uint64 { return e.gas.Left() }

// Emit records an event from the executing contract
func (e *Env) Emit(ev domain.Event) error {
	if err := e.gas.Use(GasLog); err != nil {
		return err
	}
	h := e.host
	h.logs = append(h.logs, Log{
		Address: e.self,
		Block:   h.block,
		TxIndex: h.txIndex,
		Index:   uint32(len(h.logs) - h.txLogs),
		Event:   ev,
	})
	return nil
}

// Balance returns the native balance of an account
func (e *Env) Balance(addr common.Address) *uint256.Int { return e.host.Balance(addr) }

// Contract returns the code at addr, if any
func (e *Env) Contract(addr common.Address) (Contract, bool) { return e.host.Contract(addr) }

// Call sends value and raw calldata to another account with at most gas
// forwarded. Accounts without code accept value and ignore the input. A
// failed call leaves the caller's frame intact; the error is returned so the
// caller decides whether to revert.
func (e *Env) Call(to common.Address, value *uint256.Int, input []byte, gas uint64) ([]byte, error) {
	var out []byte
	err := e.enter(to, value, gas, func(child *Env) error {
		c, ok := e.host.contracts[to]
		if !ok {
			if len(input) > 0 {
				return fmt.Errorf("%s: %w", to.Hex(), domain.ErrNoCode)
			}
			return nil
		}
		var err error
		out, err = c.Handle(child, input)
		return err
	})
	return out, err
}

// Invoke makes a typed call into another contract, forwarding all remaining
// gas. fn receives the child frame, whose Caller is the current contract.
func (e *Env) Invoke(to common.Address, value *uint256.Int, fn func(child *Env) error) error {
	return e.enter(to, value, e.gas.Left(), fn)
}

func (e *Env) enter(to common.Address, value *uint256.Int, gas uint64, fn func(child *Env) error) error {
	if value == nil {
		value = new(uint256.Int)
	}
	if e.depth+1 > MaxCallDepth {
		return ErrCallDepth
	}
	cost := GasCall
	if !value.IsZero() {
		cost += GasCallValue
	}
	if err := e.gas.Use(cost); err != nil {
		return err
	}

	child := &Env{
		host:   e.host,
		caller: e.self,
		self:   to,
		origin: e.origin,
		value:  value,
		gas:    e.gas.child(gas),
		depth:  e.depth + 1,
	}
	err := e.host.frame(func() error {
		if err := e.host.transfer(e.self, to, value); err != nil {
			return err
		}
		return fn(child)
	})
	e.gas.absorb(child.gas)
	return err
}
