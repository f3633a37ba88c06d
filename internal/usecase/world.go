package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"github.com/trebuchet-org/rarity-society/internal/chain"
	"github.com/trebuchet-org/rarity-society/internal/contracts"
	"github.com/trebuchet-org/rarity-society/internal/contracts/auctionhouse"
	"github.com/trebuchet-org/rarity-society/internal/contracts/governor"
	"github.com/trebuchet-org/rarity-society/internal/contracts/timelock"
	"github.com/trebuchet-org/rarity-society/internal/contracts/token"
	"github.com/trebuchet-org/rarity-society/internal/contracts/weth"
	"github.com/trebuchet-org/rarity-society/internal/domain"
	"github.com/trebuchet-org/rarity-society/internal/domain/config"
	"github.com/trebuchet-org/rarity-society/internal/domain/models"
)

// World opens the persisted world, hands it to a use case, and saves it
// back afterwards
type World struct {
	store   WorldStore
	keyring Keyring
	log     *slog.Logger
}

// NewWorld creates a new World
func NewWorld(store WorldStore, keyring Keyring, log *slog.Logger) *World {
	return &World{store: store, keyring: keyring, log: log.With("component", "world")}
}

// Session is an open world: the host and the addresses of the system
type Session struct {
	Host    *chain.Host
	System  models.System
	keyring Keyring
}

// Open loads the world into a fresh host
func (w *World) Open(ctx context.Context) (*Session, error) {
	sys, ws, err := w.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	host, err := chain.Import(ws, contracts.Factories(), chain.WithLogger(w.log))
	if err != nil {
		return nil, fmt.Errorf("failed to rebuild world: %w", err)
	}
	w.log.Debug("world opened", "block", host.BlockNumber(), "time", host.Time())
	return &Session{Host: host, System: *sys, keyring: w.keyring}, nil
}

// Commit saves the session's world
func (w *World) Commit(ctx context.Context, s *Session) error {
	ws, err := s.Host.Export()
	if err != nil {
		return err
	}
	if err := w.store.Save(ctx, &s.System, ws); err != nil {
		return fmt.Errorf("failed to save world: %w", err)
	}
	w.log.Debug("world saved", "block", ws.Block, "contracts", len(ws.Contracts), "logs", len(ws.Logs))
	return nil
}

// Update opens the world, runs fn, and commits whatever fn left behind. A
// reverted transaction is still recorded, the way a chain records it.
func (w *World) Update(ctx context.Context, fn func(s *Session) error) error {
	s, err := w.Open(ctx)
	if err != nil {
		return err
	}
	runErr := fn(s)
	if err := w.Commit(ctx, s); err != nil {
		return err
	}
	return runErr
}

// View opens the world for reading only
func (w *World) View(ctx context.Context, fn func(s *Session) error) error {
	s, err := w.Open(ctx)
	if err != nil {
		return err
	}
	return fn(s)
}

// TxResult is the outcome of one transaction a use case sent
type TxResult struct {
	From    common.Address `json:"from"`
	To      common.Address `json:"to"`
	Receipt *chain.Receipt `json:"receipt"`
}

// Send runs fn as a transaction from one account to one contract
func (s *Session) Send(ctx context.Context, from, to common.Address, value *uint256.Int, fn func(env *chain.Env) error) (*TxResult, error) {
	rcpt, err := s.Host.Transact(ctx, chain.Tx{From: from, To: to, Value: value}, fn)
	if rcpt == nil {
		return nil, err
	}
	res := &TxResult{From: from, To: to, Receipt: rcpt}
	if err != nil {
		return res, fmt.Errorf("transaction to %s failed: %w", s.describe(to), err)
	}
	return res, nil
}

func (s *Session) describe(addr common.Address) string {
	if name := s.System.NameOf(addr); name != "" {
		return name
	}
	return addr.Hex()
}

// Resolve turns an account name, contract name, or hex address into an
// address. Contract names take precedence over account names.
func (s *Session) Resolve(ref string) (common.Address, error) {
	if addr, err := s.System.Lookup(ref); err == nil {
		return addr, nil
	}
	return s.keyring.Resolve(ref)
}

// Sender resolves the account a transaction is sent from, falling back to
// def when ref is empty
func (s *Session) Sender(ref, def string) (common.Address, error) {
	if ref == "" {
		ref = def
	}
	if ref == config.RoleTimelock || ref == config.RoleGovernor {
		return common.Address{}, fmt.Errorf("%s is a contract; its calls go through a governance proposal", ref)
	}
	addr, err := s.keyring.Resolve(ref)
	if err != nil {
		return common.Address{}, err
	}
	if name := s.System.NameOf(addr); name != "" {
		return common.Address{}, fmt.Errorf("%s is a contract and cannot send transactions", name)
	}
	return addr, nil
}

// NameOf labels an address with its account or contract name
func (s *Session) NameOf(addr common.Address) string {
	if name := s.System.NameOf(addr); name != "" {
		return name
	}
	return s.keyring.NameOf(addr)
}

func contractAt[T chain.Contract](s *Session, addr common.Address, name string) (T, error) {
	var zero T
	c, ok := s.Host.Contract(addr)
	if !ok {
		return zero, fmt.Errorf("%s at %s: %w", name, addr.Hex(), domain.ErrNoCode)
	}
	typed, ok := c.(T)
	if !ok {
		return zero, fmt.Errorf("contract at %s is a %s, not the %s", addr.Hex(), c.Kind(), name)
	}
	return typed, nil
}

func (s *Session) Token() (*token.Token, error) {
	return contractAt[*token.Token](s, s.System.Token, "token")
}

func (s *Session) Governor() (*governor.Governor, error) {
	return contractAt[*governor.Governor](s, s.System.Governor, "governor")
}

func (s *Session) Timelock() (*timelock.Timelock, error) {
	return contractAt[*timelock.Timelock](s, s.System.Timelock, "timelock")
}

func (s *Session) AuctionHouse() (*auctionhouse.AuctionHouse, error) {
	return contractAt[*auctionhouse.AuctionHouse](s, s.System.AuctionHouse, "auction house")
}

func (s *Session) WETH() (*weth.WETH, error) {
	return contractAt[*weth.WETH](s, s.System.WETH, "weth")
}
