package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/ethereum/go-ethereum/common"
	"github.com/trebuchet-org/rarity-society/internal/chain"
	"github.com/trebuchet-org/rarity-society/internal/contracts/auctionhouse"
	"github.com/trebuchet-org/rarity-society/internal/contracts/governor"
	"github.com/trebuchet-org/rarity-society/internal/contracts/timelock"
	"github.com/trebuchet-org/rarity-society/internal/contracts/token"
	"github.com/trebuchet-org/rarity-society/internal/contracts/weth"
	"github.com/trebuchet-org/rarity-society/internal/domain"
	"github.com/trebuchet-org/rarity-society/internal/domain/config"
	"github.com/trebuchet-org/rarity-society/internal/domain/models"
)

// DeployFileName is the starter deployment file init writes
const DeployFileName = "rsoc.toml"

// InitSystemParams contains parameters for deploying a fresh world
type InitSystemParams struct {
	// Force replaces an existing world
	Force bool
}

// InitSystemResult contains the deployed system
type InitSystemResult struct {
	System        models.System `json:"system"`
	Accounts      []Account     `json:"accounts"`
	Owner         string        `json:"auctionOwner"`
	Started       bool          `json:"auctionStarted"`
	Block         uint64        `json:"block"`
	Time          uint64        `json:"time"`
	ConfigSource  string        `json:"configSource,omitempty"`
	ConfigWritten string        `json:"configWritten,omitempty"`
}

// InitSystem deploys WETH, the token, timelock, governor and auction house
// into a new world and wires them together
type InitSystem struct {
	cfg     *config.RuntimeConfig
	store   WorldStore
	keyring Keyring
	writer  DeployConfigWriter
	log     *slog.Logger
	sink    ProgressSink
}

// NewInitSystem creates a new InitSystem use case
func NewInitSystem(
	cfg *config.RuntimeConfig,
	store WorldStore,
	keyring Keyring,
	writer DeployConfigWriter,
	log *slog.Logger,
	sink ProgressSink,
) *InitSystem {
	return &InitSystem{
		cfg:     cfg,
		store:   store,
		keyring: keyring,
		writer:  writer,
		log:     log.With("component", "init"),
		sink:    sink,
	}
}

const deploySteps = 9

// Run executes the deployment
func (uc *InitSystem) Run(ctx context.Context, params InitSystemParams) (*InitSystemResult, error) {
	exists, err := uc.store.Exists(ctx)
	if err != nil {
		return nil, err
	}
	if exists && !params.Force {
		return nil, fmt.Errorf("world at %s: %w (use --force to replace it)", uc.cfg.StatePath(), domain.ErrAlreadyExists)
	}

	dc := uc.cfg.Deploy
	if dc == nil {
		dc = config.DefaultDeployConfig()
	}
	balance, err := domain.ParseAmount(dc.Chain.Balance)
	if err != nil {
		return nil, fmt.Errorf("chain.balance: %w", err)
	}
	reservePrice, err := domain.ParseAmount(dc.Auction.ReservePrice)
	if err != nil {
		return nil, fmt.Errorf("auction.reserve_price: %w", err)
	}
	deployer, err := uc.keyring.Resolve("deployer")
	if err != nil {
		return nil, err
	}

	host := chain.NewHost(chain.Options{
		ChainID:     dc.Chain.ChainID,
		GenesisTime: dc.Chain.GenesisTime,
		Automine:    true,
	}, uc.log)
	accounts := uc.keyring.Accounts()
	for _, acc := range accounts {
		host.Fund(acc.Address, balance)
	}

	step := 0
	progress := func(msg string) {
		step++
		uc.sink.OnProgress(ctx, ProgressEvent{Stage: "deploy", Current: step, Total: deploySteps, Message: msg, Spinner: true})
	}

	var sys models.System
	deploy := func(name string, create func(env *chain.Env) (chain.Contract, error)) (common.Address, error) {
		progress("Deploying " + name)
		addr, _, err := host.Deploy(ctx, deployer, create)
		if err != nil {
			return common.Address{}, fmt.Errorf("failed to deploy %s: %w", name, err)
		}
		uc.log.Info("deployed", "contract", name, "address", addr.Hex())
		return addr, nil
	}

	if sys.WETH, err = deploy("WETH", func(env *chain.Env) (chain.Contract, error) {
		return weth.Deploy(env)
	}); err != nil {
		return nil, err
	}
	if sys.Governor, err = deploy("governor", func(env *chain.Env) (chain.Contract, error) {
		return governor.Deploy(env)
	}); err != nil {
		return nil, err
	}
	if sys.Timelock, err = deploy("timelock", func(env *chain.Env) (chain.Contract, error) {
		return timelock.Deploy(env, sys.Governor, dc.Timelock.Delay)
	}); err != nil {
		return nil, err
	}
	if sys.AuctionHouse, err = deploy("auction house", func(env *chain.Env) (chain.Contract, error) {
		return auctionhouse.Deploy(env)
	}); err != nil {
		return nil, err
	}
	if sys.Token, err = deploy("token", func(env *chain.Env) (chain.Contract, error) {
		return token.Deploy(env, sys.AuctionHouse, dc.Token.MaxSupply)
	}); err != nil {
		return nil, err
	}

	party := func(ref string) (common.Address, error) {
		switch ref {
		case config.RoleTimelock:
			return sys.Timelock, nil
		case config.RoleGovernor:
			return sys.Governor, nil
		}
		return uc.keyring.Resolve(ref)
	}
	admin, err := party(dc.DAO.Admin)
	if err != nil {
		return nil, fmt.Errorf("dao.admin: %w", err)
	}
	vetoer, err := party(dc.DAO.Vetoer)
	if err != nil {
		return nil, fmt.Errorf("dao.vetoer: %w", err)
	}
	owner, err := party(dc.Auction.Owner)
	if err != nil {
		return nil, fmt.Errorf("auction.owner: %w", err)
	}
	reserve, err := party(dc.Auction.Reserve)
	if err != nil {
		return nil, fmt.Errorf("auction.reserve: %w", err)
	}

	send := func(msg string, to common.Address, fn func(env *chain.Env) error) error {
		progress(msg)
		if _, err := host.Transact(ctx, chain.Tx{From: deployer, To: to}, fn); err != nil {
			return fmt.Errorf("%s: %w", msg, err)
		}
		return nil
	}

	gov, _ := contractOf[*governor.Governor](host, sys.Governor)
	if err := send("Initializing governor", sys.Governor, func(env *chain.Env) error {
		return gov.Initialize(env, sys.Timelock, sys.Token, admin, vetoer, governor.Params{
			VotingPeriod:      dc.DAO.VotingPeriod,
			VotingDelay:       dc.DAO.VotingDelay,
			ProposalThreshold: dc.DAO.ProposalThreshold,
			QuorumVotesBPS:    dc.DAO.QuorumVotesBPS,
		})
	}); err != nil {
		return nil, err
	}

	house, _ := contractOf[*auctionhouse.AuctionHouse](host, sys.AuctionHouse)
	if err := send("Initializing auction house", sys.AuctionHouse, func(env *chain.Env) error {
		return house.Initialize(env, sys.Token, reserve, sys.WETH, auctionhouse.Params{
			TreasurySplit: dc.Auction.TreasurySplit,
			TimeBuffer:    dc.Auction.TimeBuffer,
			ReservePrice:  reservePrice,
			Duration:      dc.Auction.Duration,
		})
	}); err != nil {
		return nil, err
	}

	if dc.Auction.Start {
		if err := send("Starting first auction", sys.AuctionHouse, house.Unpause); err != nil {
			return nil, err
		}
	} else {
		progress("Auction house left paused")
	}

	if owner != deployer {
		if err := send("Transferring auction house ownership", sys.AuctionHouse, func(env *chain.Env) error {
			return house.TransferOwnership(env, owner)
		}); err != nil {
			return nil, err
		}
	} else {
		progress("Auction house owned by deployer")
	}

	host.SetAutomine(dc.Chain.Automine)

	ws, err := host.Export()
	if err != nil {
		return nil, err
	}
	if err := uc.store.Save(ctx, &sys, ws); err != nil {
		return nil, fmt.Errorf("failed to save world: %w", err)
	}

	result := &InitSystemResult{
		System:       sys,
		Accounts:     accounts,
		Owner:        dc.Auction.Owner,
		Started:      dc.Auction.Start,
		Block:        host.BlockNumber(),
		Time:         host.Time(),
		ConfigSource: uc.cfg.ConfigSource,
	}

	if uc.cfg.ConfigSource == "" && uc.writer != nil {
		path := filepath.Join(uc.cfg.ProjectRoot, DeployFileName)
		wrote, err := uc.writer.WriteDeployConfig(path, dc)
		if err != nil {
			uc.sink.Error(fmt.Sprintf("could not write %s: %v", path, err))
		} else if wrote {
			result.ConfigWritten = path
		}
	}

	return result, nil
}

func contractOf[T chain.Contract](host *chain.Host, addr common.Address) (T, bool) {
	c, ok := host.Contract(addr)
	if !ok {
		var zero T
		return zero, false
	}
	typed, ok := c.(T)
	return typed, ok
}
