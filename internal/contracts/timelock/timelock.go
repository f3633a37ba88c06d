// Package timelock implements the delayed-execution queue governance
// actions pass through.
package timelock

import (
	"encoding/json"
	"maps"
	"sort"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/holiman/uint256"
	"github.com/trebuchet-org/rarity-society/internal/chain"
	"github.com/trebuchet-org/rarity-society/internal/domain"
	"github.com/trebuchet-org/rarity-society/internal/domain/models"
)

const (
	Kind = "Timelock"

	GracePeriod  uint64 = 14 * 24 * 60 * 60
	MinimumDelay uint64 = 2 * 24 * 60 * 60
	MaximumDelay uint64 = 30 * 24 * 60 * 60
)

var (
	ErrDelayBelowMin       = domain.Revert("Delay exceeds min delay")
	ErrDelayAboveMax       = domain.Revert("Delay exceeds max delay")
	ErrNotSelf             = domain.Revert("Call must come from Timelock")
	ErrPendingAdminNotSelf = domain.Revert("must call from timelock")
	ErrNotPendingAdmin     = domain.Revert("Call must come from pending admin")
	ErrAdminOnly           = domain.Revert("admin only")
	ErrEtaTooEarly         = domain.Revert("execution block must satisfy delay")
	ErrNotQueued           = domain.Revert("not yet queued")
	ErrTooEarly            = domain.Revert("not yet passed timelock")
	ErrStale               = domain.Revert("tx is stale")
	ErrExecutionReverted   = domain.Revert("tx execution reverted")
)

// Call is one (target, value, signature, calldata, eta) tuple
type Call struct {
	Target    common.Address
	Value     *uint256.Int
	Signature string
	Data      []byte
	Eta       uint64
}

var hashArgs = func() abi.Arguments {
	mk := func(t string) abi.Argument {
		typ, err := abi.NewType(t, "", nil)
		if err != nil {
			panic(err)
		}
		return abi.Argument{Type: typ}
	}
	return abi.Arguments{mk("address"), mk("uint256"), mk("string"), mk("bytes"), mk("uint256")}
}()

// Hash is keccak256(abi.encode(target, value, signature, data, eta))
func (c Call) Hash() common.Hash {
	value := c.Value
	if value == nil {
		value = new(uint256.Int)
	}
	data := c.Data
	if data == nil {
		data = []byte{}
	}
	packed, err := hashArgs.Pack(c.Target, value.ToBig(), c.Signature, data, chain.Big(c.Eta))
	if err != nil {
		// all argument types are fixed above
		panic(err)
	}
	return crypto.Keccak256Hash(packed)
}

// Calldata is the input delivered to the target: the selector of signature
// followed by data, or data alone when signature is empty.
func (c Call) Calldata() []byte {
	if c.Signature == "" {
		return c.Data
	}
	return append(Selector(c.Signature), c.Data...)
}

// Selector derives the 4-byte selector of a function signature
func Selector(signature string) []byte {
	return crypto.Keccak256([]byte(signature))[:4]
}

func (c Call) event() domain.TimelockTransaction {
	value := c.Value
	if value == nil {
		value = new(uint256.Int)
	}
	return domain.TimelockTransaction{
		TxHash:    c.Hash(),
		Target:    c.Target,
		Value:     new(uint256.Int).Set(value),
		Signature: c.Signature,
		Data:      c.Data,
		Eta:       c.Eta,
	}
}

// State is the timelock's storage
type State struct {
	Admin        common.Address                           `json:"admin"`
	PendingAdmin common.Address                           `json:"pendingAdmin"`
	Delay        uint64                                   `json:"delay"`
	Queued       map[common.Hash]models.QueuedTransaction `json:"queued"`
}

func (s *State) clone() *State {
	c := *s
	c.Queued = maps.Clone(s.Queued)
	return &c
}

// Timelock is a deployed timelock contract
type Timelock struct {
	address common.Address
	st      *State
}

var _ chain.Contract = (*Timelock)(nil)

// Empty allocates a timelock at addr for state import
func Empty(addr common.Address) chain.Contract {
	return &Timelock{address: addr, st: &State{Queued: make(map[common.Hash]models.QueuedTransaction)}}
}

// Deploy constructs the timelock in a deployment frame
func Deploy(env *chain.Env, admin common.Address, delay uint64) (*Timelock, error) {
	if err := checkDelay(delay); err != nil {
		return nil, err
	}
	return &Timelock{
		address: env.Self(),
		st: &State{
			Admin:  admin,
			Delay:  delay,
			Queued: make(map[common.Hash]models.QueuedTransaction),
		},
	}, nil
}

func (t *Timelock) Kind() string                 { return Kind }
func (t *Timelock) Address() common.Address      { return t.address }
func (t *Timelock) Admin() common.Address        { return t.st.Admin }
func (t *Timelock) PendingAdmin() common.Address { return t.st.PendingAdmin }
func (t *Timelock) Delay() uint64                { return t.st.Delay }

func (t *Timelock) Snapshot() any        { return t.st.clone() }
func (t *Timelock) Restore(snapshot any) { t.st = snapshot.(*State).clone() }

func (t *Timelock) Decode(raw json.RawMessage) error {
	st := &State{}
	if err := json.Unmarshal(raw, st); err != nil {
		return err
	}
	if st.Queued == nil {
		st.Queued = make(map[common.Hash]models.QueuedTransaction)
	}
	t.st = st
	return nil
}

func (t *Timelock) Handle(env *chain.Env, input []byte) ([]byte, error) {
	return dispatcher.Dispatch(t, env, input)
}

// IsQueued reports whether a transaction hash is queued
func (t *Timelock) IsQueued(hash common.Hash) bool {
	_, ok := t.st.Queued[hash]
	return ok
}

// QueuedTransactions lists queued transactions by eta
func (t *Timelock) QueuedTransactions() []models.QueuedTransaction {
	out := make([]models.QueuedTransaction, 0, len(t.st.Queued))
	for _, q := range t.st.Queued {
		out = append(out, q)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Eta != out[j].Eta {
			return out[i].Eta < out[j].Eta
		}
		return out[i].Hash.Cmp(out[j].Hash) < 0
	})
	return out
}

func checkDelay(delay uint64) error {
	if delay < MinimumDelay {
		return ErrDelayBelowMin
	}
	if delay > MaximumDelay {
		return ErrDelayAboveMax
	}
	return nil
}

// SetDelay changes the delay. Only the timelock itself may call it.
func (t *Timelock) SetDelay(env *chain.Env, delay uint64) error {
	if env.Caller() != t.address {
		return ErrNotSelf
	}
	if err := checkDelay(delay); err != nil {
		return err
	}
	old := t.st.Delay
	t.st.Delay = delay
	if err := env.UseGas(chain.GasStore); err != nil {
		return err
	}
	return env.Emit(&domain.NewDelay{OldDelay: old, NewDelay: delay})
}

// SetPendingAdmin nominates the next admin. Only the timelock itself may
// call it.
func (t *Timelock) SetPendingAdmin(env *chain.Env, pending common.Address) error {
	if env.Caller() != t.address {
		return ErrPendingAdminNotSelf
	}
	old := t.st.PendingAdmin
	t.st.PendingAdmin = pending
	if err := env.UseGas(chain.GasStore); err != nil {
		return err
	}
	return env.Emit(&domain.NewPendingAdmin{OldPendingAdmin: old, NewPendingAdmin: pending})
}

// AcceptAdmin completes an admin transfer
func (t *Timelock) AcceptAdmin(env *chain.Env) error {
	if env.Caller() != t.st.PendingAdmin {
		return ErrNotPendingAdmin
	}
	oldAdmin, pending := t.st.Admin, t.st.PendingAdmin
	t.st.Admin = pending
	t.st.PendingAdmin = common.Address{}
	if err := env.UseGas(2 * chain.GasStore); err != nil {
		return err
	}
	if err := env.Emit(&domain.NewAdmin{OldAdmin: oldAdmin, NewAdmin: pending}); err != nil {
		return err
	}
	return env.Emit(&domain.NewPendingAdmin{OldPendingAdmin: pending})
}

// QueueTransaction accepts a call for execution at or after c.Eta
func (t *Timelock) QueueTransaction(env *chain.Env, c Call) (common.Hash, error) {
	if env.Caller() != t.st.Admin {
		return common.Hash{}, ErrAdminOnly
	}
	if c.Eta < env.Time()+t.st.Delay {
		return common.Hash{}, ErrEtaTooEarly
	}
	ev := c.event()
	t.st.Queued[ev.TxHash] = models.QueuedTransaction{
		Hash:      ev.TxHash,
		Target:    ev.Target,
		Value:     ev.Value,
		Signature: ev.Signature,
		Data:      ev.Data,
		Eta:       ev.Eta,
	}
	if err := env.UseGas(chain.GasStore); err != nil {
		return common.Hash{}, err
	}
	return ev.TxHash, env.Emit(&domain.QueueTransaction{TimelockTransaction: ev})
}

// CancelTransaction drops a queued call. Unknown calls are accepted.
func (t *Timelock) CancelTransaction(env *chain.Env, c Call) error {
	if env.Caller() != t.st.Admin {
		return ErrAdminOnly
	}
	ev := c.event()
	delete(t.st.Queued, ev.TxHash)
	if err := env.UseGas(chain.GasStore); err != nil {
		return err
	}
	return env.Emit(&domain.CancelTransaction{TimelockTransaction: ev})
}

// ExecuteTransaction performs a queued call whose eta has passed and which
// is still within the grace period.
func (t *Timelock) ExecuteTransaction(env *chain.Env, c Call) ([]byte, error) {
	if env.Caller() != t.st.Admin {
		return nil, ErrAdminOnly
	}
	ev := c.event()
	if !t.IsQueued(ev.TxHash) {
		return nil, ErrNotQueued
	}
	now := env.Time()
	if now < c.Eta {
		return nil, ErrTooEarly
	}
	if now > c.Eta+GracePeriod {
		return nil, ErrStale
	}

	delete(t.st.Queued, ev.TxHash)
	if err := env.UseGas(chain.GasStore); err != nil {
		return nil, err
	}

	out, err := env.Call(c.Target, ev.Value, c.Calldata(), env.GasLeft())
	if err != nil {
		return nil, ErrExecutionReverted
	}
	return out, env.Emit(&domain.ExecuteTransaction{TimelockTransaction: ev})
}
