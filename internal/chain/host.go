// Package chain is the execution host the contracts run on. It orders
// transactions, keeps the block counter and clock, moves native currency,
// meters gas, and rolls back every state change of a failed call frame.
package chain

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/holiman/uint256"
	"github.com/trebuchet-org/rarity-society/internal/domain"
)

const (
	DefaultChainID     uint64 = 31337
	DefaultGenesisTime uint64 = 1_700_000_000
	DefaultBlockTime   uint64 = 1
)

// Contract is code deployed on the host. Handle receives raw calldata;
// empty input is a plain value transfer.
type Contract interface {
	Kind() string
	Handle(env *Env, input []byte) ([]byte, error)
	// Snapshot returns a deep copy of the contract's state
	Snapshot() any
	// Restore reinstates a value previously returned by Snapshot
	Restore(snapshot any)
	// Decode loads persisted state produced by marshaling Snapshot
	Decode(raw json.RawMessage) error
}

// Reader exposes the block context views are evaluated against
type Reader interface {
	BlockNumber() uint64
	Time() uint64
	ChainID() uint64
}

// View is a Reader that can also resolve other contracts. Both Host and
// Env satisfy it, so read-only accessors work inside and outside a call.
type View interface {
	Reader
	Contract(addr common.Address) (Contract, bool)
}

// Options configures a new Host
type Options struct {
	ChainID     uint64
	GenesisTime uint64
	BlockTime   uint64
	GasLimit    uint64
	Automine    bool
}

// DefaultOptions mirrors a local development node
func DefaultOptions() Options {
	return Options{
		ChainID:     DefaultChainID,
		GenesisTime: DefaultGenesisTime,
		BlockTime:   DefaultBlockTime,
		GasLimit:    DefaultGasLimit,
		Automine:    true,
	}
}

// Tx describes a top-level transaction
type Tx struct {
	From     common.Address
	To       common.Address
	Value    *uint256.Int
	GasLimit uint64
	Data     []byte
}

// Receipt is the outcome of a transaction
type Receipt struct {
	Block   uint64 `json:"block"`
	Index   uint32 `json:"index"`
	GasUsed uint64 `json:"gasUsed"`
	Status  bool   `json:"status"`
	Logs    []Log  `json:"logs"`
	Err     error  `json:"-"`
}

// Host executes transactions one at a time against the world state
type Host struct {
	mu sync.Mutex

	chainID   uint64
	block     uint64
	time      uint64
	blockTime uint64
	gasLimit  uint64
	automine  bool
	txIndex   uint32
	txLogs    int

	balances  map[common.Address]*uint256.Int
	nonces    map[common.Address]uint64
	contracts map[common.Address]Contract
	logs      []Log

	log *slog.Logger
}

// NewHost creates an empty host at block 1
func NewHost(opts Options, log *slog.Logger) *Host {
	if opts.ChainID == 0 {
		opts.ChainID = DefaultChainID
	}
	if opts.GasLimit == 0 {
		opts.GasLimit = DefaultGasLimit
	}
	if opts.BlockTime == 0 {
		opts.BlockTime = DefaultBlockTime
	}
	if opts.GenesisTime == 0 {
		opts.GenesisTime = DefaultGenesisTime
	}
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Host{
		chainID:   opts.ChainID,
		block:     1,
		time:      opts.GenesisTime,
		blockTime: opts.BlockTime,
		gasLimit:  opts.GasLimit,
		automine:  opts.Automine,
		balances:  make(map[common.Address]*uint256.Int),
		nonces:    make(map[common.Address]uint64),
		contracts: make(map[common.Address]Contract),
		log:       log.With("component", "host"),
	}
}

// BlockNumber is the number of the block being built
func (h *Host) BlockNumber() uint64 { return h.block }

// Time is the timestamp of the block being built
func (h *Host) Time() uint64 { return h.time }

func (h *Host) ChainID() uint64 { return h.chainID }

func (h *Host) Automine() bool { return h.automine }

// SetAutomine toggles sealing a block after every transaction
func (h *Host) SetAutomine(on bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.automine = on
}

// Mine seals n blocks, advancing the clock by one block time each
func (h *Host) Mine(n uint64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.mine(n)
}

func (h *Host) mine(n uint64) {
	h.block += n
	h.time += n * h.blockTime
	h.txIndex = 0
}

// IncreaseTime moves the clock of the pending block forward
func (h *Host) IncreaseTime(seconds uint64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.time += seconds
}

// SetNextTimestamp sets the timestamp of the pending block. Time never
// moves backwards.
func (h *Host) SetNextTimestamp(ts uint64) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if ts < h.time {
		return fmt.Errorf("timestamp %d is before the pending block time %d", ts, h.time)
	}
	h.time = ts
	return nil
}

// Balance returns the native balance of an account
func (h *Host) Balance(addr common.Address) *uint256.Int {
	if b, ok := h.balances[addr]; ok {
		return new(uint256.Int).Set(b)
	}
	return new(uint256.Int)
}

// Fund credits an account out of thin air (genesis allocation)
func (h *Host) Fund(addr common.Address, amount *uint256.Int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.credit(addr, amount)
}

// Nonce returns the number of transactions sent by an account
func (h *Host) Nonce(addr common.Address) uint64 {
	return h.nonces[addr]
}

// Contract returns the contract deployed at addr
func (h *Host) Contract(addr common.Address) (Contract, bool) {
	c, ok := h.contracts[addr]
	return c, ok
}

// Logs returns the logs that pass the filter, in emission order
func (h *Host) Logs(filter LogFilter) []Log {
	out := make([]Log, 0, len(h.logs))
	for _, l := range h.logs {
		if filter.Matches(l) {
			out = append(out, l)
		}
	}
	return out
}

// Transact runs fn as a transaction from tx.From to tx.To. When fn is nil
// the transaction delivers tx.Data to the contract at tx.To, or just moves
// value when there is none. A failing transaction leaves no trace in the
// world state beyond the returned receipt.
func (h *Host) Transact(ctx context.Context, tx Tx, fn func(env *Env) error) (*Receipt, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	return h.transact(tx, func(env *Env) error {
		if fn != nil {
			return fn(env)
		}
		if c, ok := h.contracts[tx.To]; ok {
			_, err := c.Handle(env, tx.Data)
			return err
		}
		return nil
	})
}

// Deploy creates a contract at the address derived from the deployer and
// its nonce. create receives an Env whose Self is the new address.
func (h *Host) Deploy(ctx context.Context, from common.Address, create func(env *Env) (Contract, error)) (common.Address, *Receipt, error) {
	if err := ctx.Err(); err != nil {
		return common.Address{}, nil, err
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	addr := crypto.CreateAddress(from, h.nonces[from])
	rcpt, err := h.transact(Tx{From: from, To: addr}, func(env *Env) error {
		if _, exists := h.contracts[addr]; exists {
			return fmt.Errorf("contract at %s: %w", addr.Hex(), domain.ErrAlreadyExists)
		}
		c, err := create(env)
		if err != nil {
			return err
		}
		h.contracts[addr] = c
		return env.UseGas(GasStore)
	})
	if err != nil {
		return common.Address{}, rcpt, err
	}
	h.log.Debug("contract deployed", "address", addr.Hex(), "kind", h.contracts[addr].Kind())
	return addr, rcpt, nil
}

func (h *Host) transact(tx Tx, fn func(env *Env) error) (*Receipt, error) {
	gasLimit := tx.GasLimit
	if gasLimit == 0 || gasLimit > h.gasLimit {
		gasLimit = h.gasLimit
	}
	value := tx.Value
	if value == nil {
		value = new(uint256.Int)
	}

	meter := NewGasMeter(gasLimit)
	env := &Env{
		host:   h,
		caller: tx.From,
		self:   tx.To,
		origin: tx.From,
		value:  value,
		gas:    meter,
	}
	firstLog := len(h.logs)
	h.txLogs = firstLog
	h.nonces[tx.From]++

	err := meter.Use(GasTx)
	if err == nil {
		err = h.frame(func() error {
			if err := h.transfer(tx.From, tx.To, value); err != nil {
				return err
			}
			return fn(env)
		})
	}

	rcpt := &Receipt{
		Block:   h.block,
		Index:   h.txIndex,
		GasUsed: meter.Used(),
		Status:  err == nil,
		Logs:    append([]Log(nil), h.logs[firstLog:]...),
		Err:     err,
	}
	if err != nil {
		if reason, ok := domain.RevertReason(err); ok {
			h.log.Info("transaction reverted", "from", tx.From.Hex(), "to", tx.To.Hex(), "reason", reason)
		} else {
			h.log.Info("transaction failed", "from", tx.From.Hex(), "to", tx.To.Hex(), "error", err)
		}
	}
	h.log.Debug("transaction", "block", h.block, "index", h.txIndex, "from", tx.From.Hex(), "to", tx.To.Hex(),
		"gas_used", rcpt.GasUsed, "status", rcpt.Status)

	h.txIndex++
	if h.automine {
		h.mine(1)
	}
	return rcpt, err
}

type snapshot struct {
	balances  map[common.Address]*uint256.Int
	contracts map[common.Address]Contract
	states    map[common.Address]any
	logs      int
}

func (h *Host) snapshot() *snapshot {
	s := &snapshot{
		balances:  make(map[common.Address]*uint256.Int, len(h.balances)),
		contracts: maps.Clone(h.contracts),
		states:    make(map[common.Address]any, len(h.contracts)),
		logs:      len(h.logs),
	}
	for addr, b := range h.balances {
		s.balances[addr] = new(uint256.Int).Set(b)
	}
	for addr, c := range h.contracts {
		s.states[addr] = c.Snapshot()
	}
	return s
}

func (h *Host) restore(s *snapshot) {
	h.balances = s.balances
	h.contracts = s.contracts
	for addr, c := range h.contracts {
		c.Restore(s.states[addr])
	}
	h.logs = h.logs[:s.logs]
}

// frame runs fn atomically: on error every state change fn made is undone
func (h *Host) frame(fn func() error) error {
	s := h.snapshot()
	if err := fn(); err != nil {
		h.restore(s)
		return err
	}
	return nil
}

func (h *Host) transfer(from, to common.Address, amount *uint256.Int) error {
	if amount == nil || amount.IsZero() || from == to {
		return nil
	}
	bal := h.balances[from]
	if bal == nil || bal.Lt(amount) {
		return fmt.Errorf("%s: %w", from.Hex(), domain.ErrInsufficientBalance)
	}
	h.balances[from] = new(uint256.Int).Sub(bal, amount)
	h.credit(to, amount)
	return nil
}

func (h *Host) credit(addr common.Address, amount *uint256.Int) {
	bal, ok := h.balances[addr]
	if !ok {
		bal = new(uint256.Int)
	}
	h.balances[addr] = new(uint256.Int).Add(bal, amount)
}

// IsRevert reports whether err is a contract revert with the given reason
func IsRevert(err error, reason string) bool {
	return errors.Is(err, domain.Revert(reason))
}
