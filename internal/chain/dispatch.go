package chain

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"github.com/trebuchet-org/rarity-society/internal/domain"
)

// ErrNonPayable is the revert for value sent to a non-payable entry point
var ErrNonPayable = domain.Revert("non-payable method")

// Method is an ABI entry point bound to a contract type. args are the
// unpacked inputs; the returned values are packed as the outputs.
type Method[C any] func(c C, env *Env, args []any) ([]any, error)

// Dispatcher routes calldata to methods of C by 4-byte selector
type Dispatcher[C any] struct {
	abi      abi.ABI
	methods  map[string]Method[C]
	receive  func(c C, env *Env) error
	fallback func(c C, env *Env, input []byte) ([]byte, error)
}

// NewDispatcher parses an ABI definition. It panics on malformed JSON since
// the definitions are compiled in.
func NewDispatcher[C any](definition string) *Dispatcher[C] {
	parsed, err := abi.JSON(strings.NewReader(definition))
	if err != nil {
		panic(fmt.Sprintf("invalid contract ABI: %v", err))
	}
	return &Dispatcher[C]{abi: parsed, methods: make(map[string]Method[C])}
}

// ABI returns the parsed definition
func (d *Dispatcher[C]) ABI() abi.ABI { return d.abi }

// Register binds a method by its ABI name
func (d *Dispatcher[C]) Register(name string, fn Method[C]) *Dispatcher[C] {
	if _, ok := d.abi.Methods[name]; !ok {
		panic(fmt.Sprintf("method %q not in ABI", name))
	}
	d.methods[name] = fn
	return d
}

// Receive sets the handler for calls with empty calldata
func (d *Dispatcher[C]) Receive(fn func(c C, env *Env) error) *Dispatcher[C] {
	d.receive = fn
	return d
}

// Fallback sets the handler for calldata that matches no method
func (d *Dispatcher[C]) Fallback(fn func(c C, env *Env, input []byte) ([]byte, error)) *Dispatcher[C] {
	d.fallback = fn
	return d
}

// Dispatch decodes input, runs the matching method and packs its outputs
func (d *Dispatcher[C]) Dispatch(c C, env *Env, input []byte) ([]byte, error) {
	if len(input) == 0 && d.receive != nil {
		return nil, d.receive(c, env)
	}
	if len(input) < 4 {
		return d.unmatched(c, env, input)
	}
	method, err := d.abi.MethodById(input[:4])
	if err != nil {
		return d.unmatched(c, env, input)
	}
	fn, ok := d.methods[method.Name]
	if !ok {
		return d.unmatched(c, env, input)
	}
	if !method.IsPayable() && !env.value.IsZero() {
		return nil, ErrNonPayable
	}
	args, err := method.Inputs.Unpack(input[4:])
	if err != nil {
		return nil, domain.Revert(fmt.Sprintf("invalid calldata for %s", method.Sig))
	}
	out, err := fn(c, env, args)
	if err != nil {
		return nil, err
	}
	return method.Outputs.Pack(out...)
}

func (d *Dispatcher[C]) unmatched(c C, env *Env, input []byte) ([]byte, error) {
	if d.fallback != nil {
		return d.fallback(c, env, input)
	}
	if len(input) == 0 {
		return nil, fmt.Errorf("no receive function: %w", domain.ErrUnknownMethod)
	}
	if len(input) < 4 {
		return nil, domain.ErrUnknownMethod
	}
	return nil, fmt.Errorf("selector %x: %w", input[:4], domain.ErrUnknownMethod)
}

// Pack encodes a call to the named method
func (d *Dispatcher[C]) Pack(name string, args ...any) ([]byte, error) {
	return d.abi.Pack(name, args...)
}

// Unpack decodes the outputs of the named method
func (d *Dispatcher[C]) Unpack(name string, data []byte) ([]any, error) {
	return d.abi.Unpack(name, data)
}

// ArgU256 converts an unpacked uint256 argument
func ArgU256(arg any) (*uint256.Int, error) {
	b, ok := arg.(*big.Int)
	if !ok {
		return nil, fmt.Errorf("argument is %T, not uint256", arg)
	}
	v, overflow := uint256.FromBig(b)
	if overflow {
		return nil, domain.Revert("value out of range")
	}
	return v, nil
}

// ArgUint64 converts an unpacked uint256 or uint64 argument
func ArgUint64(arg any) (uint64, error) {
	switch v := arg.(type) {
	case uint64:
		return v, nil
	case uint32:
		return uint64(v), nil
	case uint8:
		return uint64(v), nil
	case *big.Int:
		if !v.IsUint64() {
			return 0, domain.Revert("value out of range")
		}
		return v.Uint64(), nil
	}
	return 0, fmt.Errorf("argument is %T, not an unsigned integer", arg)
}

// ArgAddress converts an unpacked address argument
func ArgAddress(arg any) (common.Address, error) {
	a, ok := arg.(common.Address)
	if !ok {
		return common.Address{}, fmt.Errorf("argument is %T, not address", arg)
	}
	return a, nil
}

// Big converts an integer for packing as uint256
func Big(v uint64) *big.Int { return new(big.Int).SetUint64(v) }
