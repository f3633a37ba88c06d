package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"github.com/trebuchet-org/rarity-society/internal/domain/models"
)

// ChainOperation is what ManageChain does to the host
type ChainOperation string

const (
	ChainStatus   ChainOperation = "status"
	ChainMine     ChainOperation = "mine"
	ChainWarp     ChainOperation = "warp"
	ChainAutomine ChainOperation = "automine"
)

// ManageChainParams contains parameters for a host operation
type ManageChainParams struct {
	Operation ChainOperation
	Blocks    uint64
	// Duration moves the clock forward; Timestamp sets it absolutely
	Duration  time.Duration
	Timestamp uint64
	Automine  bool
}

// AccountStatus is an account's holdings
type AccountStatus struct {
	Account
	Balance *uint256.Int `json:"balance"`
	WETH    *uint256.Int `json:"weth"`
	Tokens  uint64       `json:"tokens"`
	Votes   uint64       `json:"votes"`
}

// ChainStatusResult describes the host after the operation
type ChainStatusResult struct {
	Operation ChainOperation  `json:"operation"`
	ChainID   uint64          `json:"chainId"`
	Block     uint64          `json:"block"`
	Time      uint64          `json:"time"`
	Automine  bool            `json:"automine"`
	System    models.System   `json:"system"`
	Accounts  []AccountStatus `json:"accounts,omitempty"`
	Treasury  *uint256.Int    `json:"treasury,omitempty"`
}

// ManageChain mines blocks, moves the clock, toggles automine, and reports
// the host status
type ManageChain struct {
	world   *World
	keyring Keyring
}

// NewManageChain creates a new ManageChain use case
func NewManageChain(world *World, keyring Keyring) *ManageChain {
	return &ManageChain{world: world, keyring: keyring}
}

// Run executes the operation
func (uc *ManageChain) Run(ctx context.Context, params ManageChainParams) (*ChainStatusResult, error) {
	var result *ChainStatusResult
	op := func(s *Session) error {
		switch params.Operation {
		case ChainStatus:
		case ChainMine:
			if params.Blocks == 0 {
				return fmt.Errorf("number of blocks must be positive")
			}
			s.Host.Mine(params.Blocks)
		case ChainWarp:
			if params.Timestamp != 0 {
				if err := s.Host.SetNextTimestamp(params.Timestamp); err != nil {
					return err
				}
			} else {
				if params.Duration < time.Second {
					return fmt.Errorf("warp duration must be at least one second")
				}
				s.Host.IncreaseTime(uint64(params.Duration / time.Second))
			}
		case ChainAutomine:
			s.Host.SetAutomine(params.Automine)
		default:
			return fmt.Errorf("unknown chain operation %q", params.Operation)
		}
		var err error
		result, err = uc.status(s, params.Operation)
		return err
	}

	var err error
	if params.Operation == ChainStatus {
		err = uc.world.View(ctx, op)
	} else {
		err = uc.world.Update(ctx, op)
	}
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (uc *ManageChain) status(s *Session, op ChainOperation) (*ChainStatusResult, error) {
	result := &ChainStatusResult{
		Operation: op,
		ChainID:   s.Host.ChainID(),
		Block:     s.Host.BlockNumber(),
		Time:      s.Host.Time(),
		Automine:  s.Host.Automine(),
		System:    s.System,
	}
	if op != ChainStatus {
		return result, nil
	}

	tok, err := s.Token()
	if err != nil {
		return nil, err
	}
	w, err := s.WETH()
	if err != nil {
		return nil, err
	}
	for _, acc := range uc.keyring.Accounts() {
		result.Accounts = append(result.Accounts, holdings(s, acc, tok, w))
	}
	result.Treasury = s.Host.Balance(s.System.Timelock)
	return result, nil
}

type balanceReader interface {
	BalanceOf(a common.Address) *uint256.Int
}

type nftReader interface {
	BalanceOf(owner common.Address) (uint64, error)
	GetCurrentVotes(a common.Address) uint64
}

func holdings(s *Session, acc Account, tok nftReader, w balanceReader) AccountStatus {
	tokens, _ := tok.BalanceOf(acc.Address)
	return AccountStatus{
		Account: acc,
		Balance: s.Host.Balance(acc.Address),
		WETH:    w.BalanceOf(acc.Address),
		Tokens:  tokens,
		Votes:   tok.GetCurrentVotes(acc.Address),
	}
}
