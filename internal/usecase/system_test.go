package usecase_test

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/rarity-society/internal/domain"
	"github.com/trebuchet-org/rarity-society/internal/domain/config"
	"github.com/trebuchet-org/rarity-society/internal/domain/models"
	"github.com/trebuchet-org/rarity-society/internal/usecase"
)

func startedAuction() *config.DeployConfig {
	dc := config.DefaultDeployConfig()
	dc.Auction.Start = true
	return dc
}

func TestInitSystem(t *testing.T) {
	ctx := context.Background()

	t.Run("fresh world", func(t *testing.T) {
		e := newTestEnv(t, nil)

		result, err := e.initSystem.Run(ctx, usecase.InitSystemParams{})
		require.NoError(t, err)

		for name, addr := range map[string]common.Address{
			"weth":          result.System.WETH,
			"token":         result.System.Token,
			"timelock":      result.System.Timelock,
			"governor":      result.System.Governor,
			"auction house": result.System.AuctionHouse,
		} {
			assert.NotEqual(t, common.Address{}, addr, name)
		}
		assert.Len(t, result.Accounts, len(config.DevAccounts))
		assert.False(t, result.Started)
		assert.Len(t, e.sink.events, 9)
		assert.Equal(t, 1, e.store.saves)
		assert.Equal(t, filepath.Join(e.cfg.ProjectRoot, usecase.DeployFileName), result.ConfigWritten)
		assert.Equal(t, result.ConfigWritten, e.writer.path)
	})

	t.Run("existing world needs force", func(t *testing.T) {
		e := deployed(t, nil)

		_, err := e.initSystem.Run(ctx, usecase.InitSystemParams{})
		assert.ErrorIs(t, err, domain.ErrAlreadyExists)

		_, err = e.initSystem.Run(ctx, usecase.InitSystemParams{Force: true})
		require.NoError(t, err)
		assert.Equal(t, 2, e.store.saves)
	})

	t.Run("loaded config is not rewritten", func(t *testing.T) {
		e := newTestEnv(t, nil)
		e.cfg.ConfigSource = "rsoc.toml"

		result, err := e.initSystem.Run(ctx, usecase.InitSystemParams{})
		require.NoError(t, err)
		assert.Empty(t, result.ConfigWritten)
		assert.Empty(t, e.writer.path)
	})

	t.Run("invalid governor params revert", func(t *testing.T) {
		dc := config.DefaultDeployConfig()
		dc.DAO.VotingPeriod = 1
		e := newTestEnv(t, dc)

		_, err := e.initSystem.Run(ctx, usecase.InitSystemParams{})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid voting period")
		assert.Zero(t, e.store.saves)
	})

	t.Run("use cases need a world", func(t *testing.T) {
		e := newTestEnv(t, nil)

		_, err := e.settings.Run(ctx)
		assert.ErrorIs(t, err, domain.ErrStateNotInitialized)
	})
}

func TestManageToken(t *testing.T) {
	ctx := context.Background()
	e := deployed(t, nil)

	minted, err := e.token.Run(ctx, usecase.ManageTokenParams{Operation: usecase.TokenMint, To: "alice"})
	require.NoError(t, err)
	assert.Equal(t, uint64(1), minted.TotalSupply)
	id := minted.TokenID

	_, err = e.token.Run(ctx, usecase.ManageTokenParams{Operation: usecase.TokenMint, From: "alice"})
	reason, _ := domain.RevertReason(err)
	assert.Equal(t, "minter only", reason)

	_, err = e.token.Run(ctx, usecase.ManageTokenParams{Operation: usecase.TokenTransfer, From: "alice", To: "bob", TokenID: id})
	require.NoError(t, err)

	bob, err := e.votes.Run(ctx, usecase.ShowVotesParams{Account: "bob"})
	require.NoError(t, err)
	assert.Equal(t, uint64(1), bob.Tokens)
	assert.Equal(t, uint64(1), bob.CurrentVotes)

	burned, err := e.token.Run(ctx, usecase.ManageTokenParams{Operation: usecase.TokenBurn, From: "bob", TokenID: id})
	require.NoError(t, err)
	assert.Zero(t, burned.TotalSupply)

	bob, err = e.votes.Run(ctx, usecase.ShowVotesParams{Account: "bob"})
	require.NoError(t, err)
	assert.Zero(t, bob.CurrentVotes)
	require.Len(t, bob.Checkpoints, 2)
	assert.Equal(t, uint64(1), bob.Checkpoints[0].Votes)
	assert.Zero(t, bob.Checkpoints[1].Votes)
}

func TestDelegateVotes(t *testing.T) {
	ctx := context.Background()
	e := deployed(t, nil)
	e.mintTo(t, "alice", 2)
	e.mintTo(t, "bob", 1)

	t.Run("direct", func(t *testing.T) {
		result, err := e.delegate.Run(ctx, usecase.DelegateVotesParams{From: "alice", Delegatee: "bob"})
		require.NoError(t, err)
		assert.Equal(t, uint64(3), result.Votes)

		alice, err := e.votes.Run(ctx, usecase.ShowVotesParams{Account: "alice"})
		require.NoError(t, err)
		assert.Equal(t, uint64(2), alice.Tokens)
		assert.Zero(t, alice.CurrentVotes)
		assert.Equal(t, result.Delegatee, alice.Delegate)
	})

	t.Run("by signature", func(t *testing.T) {
		result, err := e.delegate.Run(ctx, usecase.DelegateVotesParams{
			From:      "bob",
			Delegatee: "carol",
			BySig:     true,
			Expiry:    10 * time.Minute,
		})
		require.NoError(t, err)
		assert.NotEmpty(t, result.Signature)
		assert.Equal(t, uint64(1), result.Votes)

		deployer, err := e.keyring.Resolve("deployer")
		require.NoError(t, err)
		assert.Equal(t, deployer, result.Tx.From)

		bob, err := e.votes.Run(ctx, usecase.ShowVotesParams{Account: "bob"})
		require.NoError(t, err)
		assert.Equal(t, uint64(1), bob.Nonce)
		assert.Equal(t, uint64(2), bob.CurrentVotes, "alice's delegation stays with bob")
	})

	t.Run("prior votes", func(t *testing.T) {
		status, err := e.chain.Run(ctx, usecase.ManageChainParams{Operation: usecase.ChainStatus})
		require.NoError(t, err)
		e.mine(t, 1)

		carol, err := e.votes.Run(ctx, usecase.ShowVotesParams{Account: "carol", Block: status.Block})
		require.NoError(t, err)
		require.NotNil(t, carol.PriorVotes)
		assert.Equal(t, uint64(1), *carol.PriorVotes)
	})
}

func TestAuction(t *testing.T) {
	ctx := context.Background()
	e := deployed(t, startedAuction())

	view, err := e.auction.Run(ctx)
	require.NoError(t, err)
	require.Equal(t, usecase.AuctionLive, view.Phase)
	assert.False(t, view.Paused)
	tokenID := view.Auction.TokenID

	first, err := e.bid.Run(ctx, usecase.PlaceBidParams{From: "alice", Amount: "1 ether"})
	require.NoError(t, err)
	assert.Equal(t, "alice", first.Auction.BidderName)
	assert.Equal(t, uint256.NewInt(1_050_000_000_000_000_000), first.Auction.MinNextBid)

	_, err = e.bid.Run(ctx, usecase.PlaceBidParams{From: "carol", Amount: "1 ether"})
	reason, _ := domain.RevertReason(err)
	assert.Equal(t, "Bid must be at least 5% greater than last bid", reason)

	second, err := e.bid.Run(ctx, usecase.PlaceBidParams{From: "bob"})
	require.NoError(t, err)
	assert.Equal(t, "bob", second.Auction.BidderName)
	assert.Equal(t, uint256.NewInt(1_050_000_000_000_000_000), second.Auction.Auction.Amount)

	_, err = e.house.Run(ctx, usecase.ManageAuctionParams{Operation: usecase.AuctionSettleAndCreate})
	reason, _ = domain.RevertReason(err)
	assert.Equal(t, "Auction hasn't completed", reason)

	_, err = e.chain.Run(ctx, usecase.ManageChainParams{
		Operation: usecase.ChainWarp,
		Duration:  time.Duration(config.DefaultDuration+1) * time.Second,
	})
	require.NoError(t, err)

	settled, err := e.house.Run(ctx, usecase.ManageAuctionParams{Operation: usecase.AuctionSettleAndCreate})
	require.NoError(t, err)
	assert.Equal(t, usecase.AuctionLive, settled.Auction.Phase)
	assert.NotEqual(t, tokenID, settled.Auction.Auction.TokenID)

	bob, err := e.votes.Run(ctx, usecase.ShowVotesParams{Account: "bob"})
	require.NoError(t, err)
	assert.Equal(t, uint64(1), bob.Tokens)
	assert.Equal(t, uint64(1), bob.CurrentVotes)
}

func TestManageAuction_Owner(t *testing.T) {
	ctx := context.Background()
	e := deployed(t, startedAuction())

	tests := []struct {
		name    string
		params  usecase.ManageAuctionParams
		wantErr string
		check   func(t *testing.T, v *usecase.AuctionView)
	}{
		{
			name:    "pause needs the owner",
			params:  usecase.ManageAuctionParams{Operation: usecase.AuctionPause, From: "alice"},
			wantErr: "Ownable: caller is not the owner",
		},
		{
			name:   "pause",
			params: usecase.ManageAuctionParams{Operation: usecase.AuctionPause},
			check:  func(t *testing.T, v *usecase.AuctionView) { assert.True(t, v.Paused) },
		},
		{
			name:   "reserve price",
			params: usecase.ManageAuctionParams{Operation: usecase.AuctionSetReservePrice, Value: "2 ether"},
			check: func(t *testing.T, v *usecase.AuctionView) {
				assert.Equal(t, uint256.NewInt(2_000_000_000_000_000_000), v.Params.ReservePrice)
			},
		},
		{
			name:   "time buffer",
			params: usecase.ManageAuctionParams{Operation: usecase.AuctionSetTimeBuffer, Value: "120"},
			check:  func(t *testing.T, v *usecase.AuctionView) { assert.Equal(t, uint64(120), v.Params.TimeBuffer) },
		},
		{
			name:    "treasury split needs a number",
			params:  usecase.ManageAuctionParams{Operation: usecase.AuctionSetTreasurySplit, Value: "half"},
			wantErr: "needs a number",
		},
		{
			name:    "unknown operation",
			params:  usecase.ManageAuctionParams{Operation: "burn"},
			wantErr: "unknown auction operation",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := e.house.Run(ctx, tt.params)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			tt.check(t, result.Auction)
		})
	}
}

func TestSetParameter(t *testing.T) {
	ctx := context.Background()
	e := deployed(t, nil)

	result, err := e.setParam.Run(ctx, usecase.SetParameterParams{Parameter: usecase.ParamVotingDelay, Value: "5"})
	require.NoError(t, err)
	assert.Equal(t, uint64(5), result.Settings.Params.VotingDelay)

	_, err = e.setParam.Run(ctx, usecase.SetParameterParams{Parameter: usecase.ParamVotingDelay, Value: "5", From: "alice"})
	reason, _ := domain.RevertReason(err)
	assert.Equal(t, "admin only", reason)

	bob, err := e.keyring.Resolve("bob")
	require.NoError(t, err)
	_, err = e.setParam.Run(ctx, usecase.SetParameterParams{Parameter: usecase.ParamPendingAdmin, Value: "bob"})
	require.NoError(t, err)
	accepted, err := e.setParam.Run(ctx, usecase.SetParameterParams{Parameter: usecase.ParamAcceptAdmin})
	require.NoError(t, err)
	assert.Equal(t, bob, accepted.Settings.Admin)
	assert.Equal(t, common.Address{}, accepted.Settings.PendingAdmin)
}

func TestManageChain(t *testing.T) {
	ctx := context.Background()
	e := deployed(t, nil)

	before, err := e.chain.Run(ctx, usecase.ManageChainParams{Operation: usecase.ChainStatus})
	require.NoError(t, err)
	assert.Equal(t, config.DefaultChainID, before.ChainID)
	assert.Len(t, before.Accounts, len(config.DevAccounts))
	saves := e.store.saves

	mined, err := e.chain.Run(ctx, usecase.ManageChainParams{Operation: usecase.ChainMine, Blocks: 10})
	require.NoError(t, err)
	assert.Equal(t, before.Block+10, mined.Block)
	assert.Equal(t, saves+1, e.store.saves, "status is read-only, mine saves")

	warped, err := e.chain.Run(ctx, usecase.ManageChainParams{Operation: usecase.ChainWarp, Timestamp: mined.Time + 3600})
	require.NoError(t, err)
	assert.Equal(t, mined.Time+3600, warped.Time)

	_, err = e.chain.Run(ctx, usecase.ManageChainParams{Operation: usecase.ChainWarp, Timestamp: 1})
	assert.Error(t, err)

	_, err = e.chain.Run(ctx, usecase.ManageChainParams{Operation: usecase.ChainWarp, Duration: time.Millisecond})
	assert.ErrorContains(t, err, "at least one second")

	off, err := e.chain.Run(ctx, usecase.ManageChainParams{Operation: usecase.ChainAutomine, Automine: false})
	require.NoError(t, err)
	assert.False(t, off.Automine)
}

func TestListEvents(t *testing.T) {
	ctx := context.Background()
	e := deployed(t, nil)
	e.mintTo(t, "alice", 3)

	t.Run("filter by contract and name", func(t *testing.T) {
		result, err := e.events.Run(ctx, usecase.ListEventsParams{Contract: "token", Name: "Transfer"})
		require.NoError(t, err)
		require.Len(t, result.Records, 3)
		for i, rec := range result.Records {
			assert.Equal(t, "token", rec.Contract)
			assert.Equal(t, "Transfer", rec.Kind)
			assert.Nil(t, rec.Raw)
			if i > 0 {
				assert.GreaterOrEqual(t, rec.Block, result.Records[i-1].Block)
			}
		}
	})

	t.Run("raw logs with limit", func(t *testing.T) {
		result, err := e.events.Run(ctx, usecase.ListEventsParams{Contract: "token", Name: "Transfer", Limit: 1, Format: usecase.EventFormatRaw})
		require.NoError(t, err)
		require.Len(t, result.Records, 1)
		require.NotNil(t, result.Records[0].Raw)
		assert.Len(t, result.Records[0].Raw.Topics, 4)
		tr, ok := result.Records[0].Event.(*domain.Transfer)
		require.True(t, ok)
		assert.Equal(t, uint64(2), tr.TokenID)
	})

	t.Run("export", func(t *testing.T) {
		result, err := e.events.Run(ctx, usecase.ListEventsParams{Name: "DelegateVotesChanged"})
		require.NoError(t, err)
		var buf bytes.Buffer
		require.NoError(t, e.events.Export(&buf, result.Records, usecase.EventFormatJSON))
		assert.Contains(t, buf.String(), "newBalance")
	})

	t.Run("unknown format", func(t *testing.T) {
		_, err := e.events.Run(ctx, usecase.ListEventsParams{Format: "csv"})
		assert.ErrorContains(t, err, "unknown event format")
	})

	t.Run("unknown contract", func(t *testing.T) {
		_, err := e.events.Run(ctx, usecase.ListEventsParams{Contract: "vault"})
		assert.Error(t, err)
	})
}

func TestRunScenario(t *testing.T) {
	ctx := context.Background()

	scenario := &models.Scenario{
		Name: "mint and deposit",
		Steps: []models.ScenarioStep{
			{Mine: 5},
			{Warp: "1h"},
			{Fund: "alice", Value: "1 ether"},
			{Deploy: "Reverter", As: "sink"},
			{Call: "token.mintTo", Args: []string{"@alice"}},
			{Call: "token.mintTo", From: "alice", Args: []string{"@alice"}, ExpectRevert: "minter only"},
			{Call: "weth.deposit", From: "alice", Value: "1 ether"},
		},
	}

	t.Run("applies steps", func(t *testing.T) {
		e := deployed(t, nil)
		e.scenarios["full.yaml"] = scenario
		saves := e.store.saves

		result, err := e.scenario.Run(ctx, usecase.RunScenarioParams{Path: "full.yaml"})
		require.NoError(t, err)
		require.Len(t, result.Steps, len(scenario.Steps))
		assert.Equal(t, models.StepMine, result.Steps[0].Kind)
		require.NotNil(t, result.Steps[3].Address)
		assert.Equal(t, "minter only", result.Steps[5].Reverted)
		assert.NotEmpty(t, result.Steps[6].Events)
		assert.Len(t, e.sink.events, 9+len(scenario.Steps))
		assert.Equal(t, saves+1, e.store.saves)

		alice, err := e.votes.Run(ctx, usecase.ShowVotesParams{Account: "alice"})
		require.NoError(t, err)
		assert.Equal(t, uint64(1), alice.Tokens)

		status, err := e.chain.Run(ctx, usecase.ManageChainParams{Operation: usecase.ChainStatus})
		require.NoError(t, err)
		assert.Contains(t, status.System.Fixtures, "sink")
	})

	t.Run("dry run leaves the world alone", func(t *testing.T) {
		e := deployed(t, nil)
		e.scenarios["full.yaml"] = scenario
		saves := e.store.saves

		result, err := e.scenario.Run(ctx, usecase.RunScenarioParams{Path: "full.yaml", DryRun: true})
		require.NoError(t, err)
		assert.True(t, result.DryRun)
		assert.Equal(t, saves, e.store.saves)

		alice, err := e.votes.Run(ctx, usecase.ShowVotesParams{Account: "alice"})
		require.NoError(t, err)
		assert.Zero(t, alice.Tokens)
	})

	t.Run("stops at the first failing step", func(t *testing.T) {
		e := deployed(t, nil)
		e.scenarios["bad.yaml"] = &models.Scenario{
			Name: "bad",
			Steps: []models.ScenarioStep{
				{Mine: 1},
				{Call: "token.mintTo", Args: []string{"@bob"}, ExpectRevert: "minter only"},
				{Mine: 1},
			},
		}

		result, err := e.scenario.Run(ctx, usecase.RunScenarioParams{Path: "bad.yaml"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "step 2")
		assert.Contains(t, err.Error(), "succeeded")
		assert.Len(t, result.Steps, 1)
	})

	t.Run("rejects ambiguous steps before running", func(t *testing.T) {
		e := deployed(t, nil)
		e.scenarios["mixed.yaml"] = &models.Scenario{
			Name:  "mixed",
			Steps: []models.ScenarioStep{{Mine: 1, Warp: "1h"}},
		}
		saves := e.store.saves

		_, err := e.scenario.Run(ctx, usecase.RunScenarioParams{Path: "mixed.yaml"})
		assert.ErrorContains(t, err, "step 1")
		assert.Equal(t, saves, e.store.saves)
	})
}
