package governor

import (
	"context"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/rarity-society/internal/chain"
	"github.com/trebuchet-org/rarity-society/internal/contracts/eip712"
	"github.com/trebuchet-org/rarity-society/internal/contracts/timelock"
	"github.com/trebuchet-org/rarity-society/internal/contracts/token"
	"github.com/trebuchet-org/rarity-society/internal/domain"
	"github.com/trebuchet-org/rarity-society/internal/domain/models"
)

const votingDelay = 10

var (
	deployer = common.HexToAddress("0x00000000000000000000000000000000000000d0")
	admin    = common.HexToAddress("0x00000000000000000000000000000000000000ad")
	vetoer   = common.HexToAddress("0x00000000000000000000000000000000000000fe")
	alice    = common.HexToAddress("0x00000000000000000000000000000000000000a1")
	bob      = common.HexToAddress("0x00000000000000000000000000000000000000b0")

	defaultParams = Params{
		VotingPeriod:      MinVotingPeriod,
		VotingDelay:       votingDelay,
		ProposalThreshold: 1,
		QuorumVotesBPS:    1000,
	}
)

type fixture struct {
	host     *chain.Host
	token    *token.Token
	timelock *timelock.Timelock
	gov      *Governor
}

// deployUninitialized deploys the token, governor and timelock without
// initializing the governor
func deployUninitialized(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	f := &fixture{host: chain.NewHost(chain.DefaultOptions(), nil)}

	_, _, err := f.host.Deploy(ctx, deployer, func(env *chain.Env) (chain.Contract, error) {
		var err error
		f.token, err = token.Deploy(env, deployer, 100)
		return f.token, err
	})
	require.NoError(t, err)
	_, _, err = f.host.Deploy(ctx, deployer, func(env *chain.Env) (chain.Contract, error) {
		var err error
		f.gov, err = Deploy(env)
		return f.gov, err
	})
	require.NoError(t, err)
	_, _, err = f.host.Deploy(ctx, deployer, func(env *chain.Env) (chain.Contract, error) {
		var err error
		f.timelock, err = timelock.Deploy(env, f.gov.Address(), timelock.MinimumDelay)
		return f.timelock, err
	})
	require.NoError(t, err)
	return f
}

func deploy(t *testing.T) *fixture {
	t.Helper()
	f := deployUninitialized(t)
	rcpt := f.send(t, deployer, func(env *chain.Env) error {
		return f.gov.Initialize(env, f.timelock.Address(), f.token.Address(), admin, vetoer, defaultParams)
	})
	require.NoError(t, rcpt.Err)
	return f
}

func (f *fixture) send(t *testing.T, from common.Address, fn func(env *chain.Env) error) *chain.Receipt {
	t.Helper()
	rcpt, _ := f.host.Transact(context.Background(), chain.Tx{From: from, To: f.gov.Address()}, fn)
	require.NotNil(t, rcpt)
	return rcpt
}

func (f *fixture) mint(t *testing.T, to common.Address, n int) {
	t.Helper()
	for range n {
		rcpt := f.send(t, deployer, func(env *chain.Env) error {
			_, err := f.token.MintTo(env, to)
			return err
		})
		require.NoError(t, rcpt.Err)
	}
}

func (f *fixture) transfer(t *testing.T, from, to common.Address, id uint64) {
	t.Helper()
	rcpt := f.send(t, from, func(env *chain.Env) error { return f.token.TransferFrom(env, from, to, id) })
	require.NoError(t, rcpt.Err)
}

// setDelayAction is a proposal that raises the timelock delay by one second
func (f *fixture) setDelayAction(t *testing.T, copies int) ProposeParams {
	t.Helper()
	packed, err := timelock.Pack("setDelay", chain.Big(timelock.MinimumDelay+1))
	require.NoError(t, err)
	var pp ProposeParams
	for range copies {
		pp.Targets = append(pp.Targets, f.timelock.Address())
		pp.Values = append(pp.Values, new(uint256.Int))
		pp.Signatures = append(pp.Signatures, "setDelay(uint256)")
		pp.Calldatas = append(pp.Calldatas, packed[4:])
	}
	pp.Description = "raise the timelock delay"
	return pp
}

func (f *fixture) propose(t *testing.T, from common.Address, pp ProposeParams) uint64 {
	t.Helper()
	var id uint64
	rcpt := f.send(t, from, func(env *chain.Env) error {
		var err error
		id, err = f.gov.Propose(env, pp)
		return err
	})
	require.NoError(t, rcpt.Err)
	return id
}

func (f *fixture) vote(t *testing.T, from common.Address, id uint64, support models.VoteType) *chain.Receipt {
	t.Helper()
	return f.send(t, from, func(env *chain.Env) error { return f.gov.CastVote(env, id, uint8(support)) })
}

func (f *fixture) state(t *testing.T, id uint64) models.ProposalState {
	t.Helper()
	s, err := f.gov.State(f.host, id)
	require.NoError(t, err)
	return s
}

// passed takes a fresh proposal through voting with a single for vote
func (f *fixture) passed(t *testing.T, voter common.Address, id uint64) {
	t.Helper()
	f.host.Mine(votingDelay)
	require.NoError(t, f.vote(t, voter, id, models.VoteFor).Err)
	f.host.Mine(MinVotingPeriod)
	require.Equal(t, models.ProposalStateSucceeded, f.state(t, id))
}

func (f *fixture) queue(t *testing.T, id uint64) *chain.Receipt {
	t.Helper()
	return f.send(t, deployer, func(env *chain.Env) error { return f.gov.Queue(env, id) })
}

func (f *fixture) execute(t *testing.T, id uint64) *chain.Receipt {
	t.Helper()
	return f.send(t, deployer, func(env *chain.Env) error { return f.gov.Execute(env, id) })
}

func events[T domain.Event](logs []chain.Log) []T {
	var out []T
	for _, l := range logs {
		if e, ok := l.Event.(T); ok {
			out = append(out, e)
		}
	}
	return out
}

func TestInitialize(t *testing.T) {
	tests := []struct {
		name     string
		timelock bool
		token    bool
		modify   func(p *Params)
		wantErr  error
	}{
		{name: "zero timelock", token: true, wantErr: ErrInvalidTimelock},
		{name: "zero token", timelock: true, wantErr: ErrInvalidToken},
		{name: "voting period", timelock: true, token: true, modify: func(p *Params) { p.VotingPeriod = MinVotingPeriod - 1 }, wantErr: ErrInvalidVotingPeriod},
		{name: "voting delay", timelock: true, token: true, modify: func(p *Params) { p.VotingDelay = 0 }, wantErr: ErrInvalidVotingDelay},
		{name: "quorum", timelock: true, token: true, modify: func(p *Params) { p.QuorumVotesBPS = 0 }, wantErr: ErrInvalidQuorum},
		{name: "threshold above supply ceiling", timelock: true, token: true, modify: func(p *Params) { p.ProposalThreshold = 2 }, wantErr: ErrInvalidThreshold},
		{name: "zero threshold", timelock: true, token: true, modify: func(p *Params) { p.ProposalThreshold = 0 }, wantErr: ErrInvalidThreshold},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := deployUninitialized(t)
			p := defaultParams
			if tt.modify != nil {
				tt.modify(&p)
			}
			var tl, tok common.Address
			if tt.timelock {
				tl = f.timelock.Address()
			}
			if tt.token {
				tok = f.token.Address()
			}
			rcpt := f.send(t, deployer, func(env *chain.Env) error {
				return f.gov.Initialize(env, tl, tok, admin, vetoer, p)
			})
			assert.ErrorIs(t, rcpt.Err, tt.wantErr)
		})
	}

	t.Run("stores parameters and emits events", func(t *testing.T) {
		f := deployUninitialized(t)
		rcpt := f.send(t, deployer, func(env *chain.Env) error {
			return f.gov.Initialize(env, f.timelock.Address(), f.token.Address(), admin, vetoer, defaultParams)
		})
		require.NoError(t, rcpt.Err)

		assert.Equal(t, admin, f.gov.Admin())
		assert.Equal(t, vetoer, f.gov.Vetoer())
		assert.Equal(t, common.Address{}, f.gov.PendingAdmin())
		assert.Equal(t, defaultParams, f.gov.Params())
		assert.Zero(t, f.gov.ProposalCount())
		assert.Equal(t, []domain.Event{
			&domain.VotingPeriodSet{ParameterChange: domain.ParameterChange{New: MinVotingPeriod}},
			&domain.VotingDelaySet{ParameterChange: domain.ParameterChange{New: votingDelay}},
			&domain.ProposalThresholdSet{ParameterChange: domain.ParameterChange{New: 1}},
			&domain.QuorumVotesBPSSet{ParameterChange: domain.ParameterChange{New: 1000}},
		}, []domain.Event{rcpt.Logs[0].Event, rcpt.Logs[1].Event, rcpt.Logs[2].Event, rcpt.Logs[3].Event})

		rcpt = f.send(t, deployer, func(env *chain.Env) error {
			return f.gov.Initialize(env, f.timelock.Address(), f.token.Address(), admin, vetoer, defaultParams)
		})
		assert.ErrorIs(t, rcpt.Err, ErrAlreadyInitialized)
	})
}

func TestPropose(t *testing.T) {
	t.Run("validation", func(t *testing.T) {
		f := deploy(t)
		pp := f.setDelayAction(t, 1)

		propose := func(from common.Address, pp ProposeParams) error {
			return f.send(t, from, func(env *chain.Env) error {
				_, err := f.gov.Propose(env, pp)
				return err
			}).Err
		}

		assert.ErrorIs(t, propose(deployer, pp), ErrBelowThreshold, "no supply")
		f.mint(t, deployer, 1)

		mismatch := pp
		mismatch.Signatures = append([]string{"x()"}, pp.Signatures...)
		assert.ErrorIs(t, propose(deployer, mismatch), ErrArityMismatch)
		assert.ErrorIs(t, propose(deployer, ProposeParams{}), ErrNoActions)
		assert.ErrorIs(t, propose(deployer, f.setDelayAction(t, ProposalMaxOperations+1)), ErrTooManyActions)
		assert.ErrorIs(t, propose(alice, pp), ErrBelowThreshold)
	})

	t.Run("records the proposal", func(t *testing.T) {
		f := deploy(t)
		f.mint(t, deployer, 20)
		block := f.host.BlockNumber()

		var rcpt *chain.Receipt
		var id uint64
		rcpt = f.send(t, deployer, func(env *chain.Env) error {
			var err error
			id, err = f.gov.Propose(env, f.setDelayAction(t, 1))
			return err
		})
		require.NoError(t, rcpt.Err)
		assert.Equal(t, uint64(1), id)

		p, err := f.gov.Proposal(id)
		require.NoError(t, err)
		assert.Equal(t, deployer, p.Proposer)
		assert.Equal(t, block+votingDelay, p.StartBlock)
		assert.Equal(t, block+votingDelay+MinVotingPeriod, p.EndBlock)
		assert.Equal(t, uint64(2), p.QuorumVotes, "floor(20 * 1000 / 10000)")
		assert.Zero(t, p.Eta)
		assert.Equal(t, id, f.gov.LatestProposalID(deployer))

		created := events[*domain.ProposalCreated](rcpt.Logs)
		require.Len(t, created, 1)
		assert.Equal(t, []common.Address{f.timelock.Address()}, created[0].Targets)
		assert.Equal(t, []string{"setDelay(uint256)"}, created[0].Signatures)
	})

	t.Run("quorum never drops below one", func(t *testing.T) {
		f := deploy(t)
		f.mint(t, deployer, 3)
		id := f.propose(t, deployer, f.setDelayAction(t, 1))
		p, err := f.gov.Proposal(id)
		require.NoError(t, err)
		assert.Equal(t, uint64(1), p.QuorumVotes)
	})

	t.Run("one live proposal per proposer", func(t *testing.T) {
		f := deploy(t)
		f.mint(t, deployer, 2)
		f.transfer(t, deployer, alice, 1)
		pp := f.setDelayAction(t, 1)
		f.propose(t, deployer, pp)
		f.propose(t, alice, pp)

		again := func() error {
			return f.send(t, deployer, func(env *chain.Env) error {
				_, err := f.gov.Propose(env, pp)
				return err
			}).Err
		}
		assert.ErrorIs(t, again(), ErrPendingProposal)
		f.host.Mine(votingDelay)
		assert.ErrorIs(t, again(), ErrActiveProposal)
		f.host.Mine(MinVotingPeriod)
		assert.NoError(t, again())
	})
}

func TestLifecycle(t *testing.T) {
	f := deploy(t)
	f.mint(t, deployer, 20)
	id := f.propose(t, deployer, f.setDelayAction(t, 1))

	_, err := f.gov.State(f.host, 10)
	assert.ErrorIs(t, err, ErrInvalidProposalID)

	assert.Equal(t, models.ProposalStatePending, f.state(t, id))
	assert.ErrorIs(t, f.queue(t, id).Err, ErrNotSucceeded)

	f.host.Mine(votingDelay - 2)
	assert.Equal(t, models.ProposalStatePending, f.state(t, id))
	f.host.Mine(1)
	assert.Equal(t, models.ProposalStateActive, f.state(t, id))

	require.NoError(t, f.vote(t, deployer, id, models.VoteFor).Err)
	f.host.Mine(MinVotingPeriod - 2)
	assert.Equal(t, models.ProposalStateActive, f.state(t, id))
	f.host.Mine(1)
	assert.Equal(t, models.ProposalStateSucceeded, f.state(t, id))
	assert.ErrorIs(t, f.execute(t, id).Err, ErrNotQueued)

	queuedAt := f.host.Time()
	rcpt := f.queue(t, id)
	require.NoError(t, rcpt.Err)
	eta := queuedAt + timelock.MinimumDelay
	assert.Equal(t, []*domain.ProposalQueued{{ID: id, Eta: eta}}, events[*domain.ProposalQueued](rcpt.Logs))
	assert.Len(t, events[*domain.QueueTransaction](rcpt.Logs), 1)
	assert.Equal(t, models.ProposalStateQueued, f.state(t, id))

	assert.ErrorIs(t, f.execute(t, id).Err, timelock.ErrTooEarly)

	f.host.IncreaseTime(timelock.MinimumDelay)
	rcpt = f.execute(t, id)
	require.NoError(t, rcpt.Err)
	assert.Equal(t, models.ProposalStateExecuted, f.state(t, id))
	assert.Equal(t, timelock.MinimumDelay+1, f.timelock.Delay())
	assert.Len(t, events[*domain.NewDelay](rcpt.Logs), 1)
	assert.Equal(t, []*domain.ProposalExecuted{{ID: id}}, events[*domain.ProposalExecuted](rcpt.Logs))

	assert.ErrorIs(t, f.execute(t, id).Err, ErrNotQueued)
	assert.ErrorIs(t, f.send(t, deployer, func(env *chain.Env) error { return f.gov.Cancel(env, id) }).Err, ErrCancelExecuted)
	assert.ErrorIs(t, f.send(t, vetoer, func(env *chain.Env) error { return f.gov.Veto(env, id) }).Err, ErrVetoExecuted)
}

func TestDefeated(t *testing.T) {
	t.Run("against votes win ties", func(t *testing.T) {
		f := deploy(t)
		f.mint(t, deployer, 2)
		f.transfer(t, deployer, alice, 1)
		id := f.propose(t, deployer, f.setDelayAction(t, 1))
		f.host.Mine(votingDelay)
		require.NoError(t, f.vote(t, deployer, id, models.VoteFor).Err)
		require.NoError(t, f.vote(t, alice, id, models.VoteAgainst).Err)
		f.host.Mine(MinVotingPeriod)
		assert.Equal(t, models.ProposalStateDefeated, f.state(t, id))
	})

	t.Run("for votes below quorum", func(t *testing.T) {
		f := deploy(t)
		f.mint(t, alice, 19)
		f.mint(t, bob, 1)
		id := f.propose(t, bob, f.setDelayAction(t, 1))
		f.host.Mine(votingDelay)
		require.NoError(t, f.vote(t, bob, id, models.VoteFor).Err)
		f.host.Mine(MinVotingPeriod)

		p, err := f.gov.Proposal(id)
		require.NoError(t, err)
		assert.Equal(t, uint64(1), p.ForVotes)
		assert.Equal(t, uint64(2), p.QuorumVotes)
		assert.Equal(t, models.ProposalStateDefeated, f.state(t, id))
	})
}

func TestExpired(t *testing.T) {
	f := deploy(t)
	f.mint(t, deployer, 1)
	id := f.propose(t, deployer, f.setDelayAction(t, 1))
	f.passed(t, deployer, id)
	require.NoError(t, f.queue(t, id).Err)

	f.host.IncreaseTime(timelock.MinimumDelay + timelock.GracePeriod)
	assert.Equal(t, models.ProposalStateExpired, f.state(t, id))
	assert.ErrorIs(t, f.execute(t, id).Err, ErrNotQueued)
}

func TestQueue_IdenticalActions(t *testing.T) {
	t.Run("within one proposal", func(t *testing.T) {
		f := deploy(t)
		f.mint(t, deployer, 1)
		id := f.propose(t, deployer, f.setDelayAction(t, 2))
		f.passed(t, deployer, id)
		assert.ErrorIs(t, f.queue(t, id).Err, ErrIdenticalQueued)
	})

	t.Run("across proposals at the same eta", func(t *testing.T) {
		f := deploy(t)
		f.mint(t, alice, 10)
		f.mint(t, bob, 10)
		first := f.propose(t, alice, f.setDelayAction(t, 1))
		second := f.propose(t, bob, f.setDelayAction(t, 1))
		f.host.Mine(votingDelay)
		require.NoError(t, f.vote(t, alice, first, models.VoteFor).Err)
		require.NoError(t, f.vote(t, alice, second, models.VoteFor).Err)
		f.host.Mine(MinVotingPeriod)

		f.host.SetAutomine(false)
		require.NoError(t, f.queue(t, first).Err)
		assert.ErrorIs(t, f.queue(t, second).Err, ErrIdenticalQueued)
		f.host.Mine(1)
		assert.NoError(t, f.queue(t, second).Err)
	})
}

func TestCancel(t *testing.T) {
	cancel := func(f *fixture, from common.Address, id uint64) error {
		return f.send(t, from, func(env *chain.Env) error { return f.gov.Cancel(env, id) }).Err
	}

	t.Run("by proposer", func(t *testing.T) {
		f := deploy(t)
		f.mint(t, deployer, 1)
		id := f.propose(t, deployer, f.setDelayAction(t, 1))
		require.NoError(t, cancel(f, deployer, id))
		assert.Equal(t, models.ProposalStateCanceled, f.state(t, id))
	})

	t.Run("by anyone once the proposer drops below threshold", func(t *testing.T) {
		f := deploy(t)
		f.mint(t, deployer, 2)
		id := f.propose(t, deployer, f.setDelayAction(t, 1))
		assert.ErrorIs(t, cancel(f, alice, id), ErrCancelNotAllowed)

		f.transfer(t, deployer, alice, 0)
		assert.ErrorIs(t, cancel(f, alice, id), ErrCancelNotAllowed)
		f.transfer(t, deployer, alice, 1)
		require.NoError(t, cancel(f, alice, id))
		assert.Equal(t, models.ProposalStateCanceled, f.state(t, id))
	})

	t.Run("queued proposal leaves the timelock", func(t *testing.T) {
		f := deploy(t)
		f.mint(t, deployer, 1)
		id := f.propose(t, deployer, f.setDelayAction(t, 1))
		f.passed(t, deployer, id)
		require.NoError(t, f.queue(t, id).Err)
		require.Len(t, f.timelock.QueuedTransactions(), 1)

		require.NoError(t, cancel(f, deployer, id))
		assert.Empty(t, f.timelock.QueuedTransactions())
		assert.Equal(t, models.ProposalStateCanceled, f.state(t, id))
	})
}

func TestVeto(t *testing.T) {
	veto := func(f *fixture, from common.Address, id uint64) *chain.Receipt {
		return f.send(t, from, func(env *chain.Env) error { return f.gov.Veto(env, id) })
	}

	f := deploy(t)
	f.mint(t, deployer, 1)
	id := f.propose(t, deployer, f.setDelayAction(t, 1))
	f.passed(t, deployer, id)
	require.NoError(t, f.queue(t, id).Err)

	assert.ErrorIs(t, veto(f, admin, id).Err, ErrVetoerOnly)
	rcpt := veto(f, vetoer, id)
	require.NoError(t, rcpt.Err)
	assert.Equal(t, []*domain.ProposalVetoed{{ID: id}}, events[*domain.ProposalVetoed](rcpt.Logs))
	assert.Equal(t, models.ProposalStateVetoed, f.state(t, id))
	assert.Empty(t, f.timelock.QueuedTransactions())

	rcpt = f.send(t, vetoer, func(env *chain.Env) error { return f.gov.RevokeVetoPower(env) })
	require.NoError(t, rcpt.Err)
	assert.Equal(t, &domain.NewVetoer{OldVetoer: vetoer}, rcpt.Logs[0].Event)
	assert.ErrorIs(t, veto(f, vetoer, id).Err, ErrVetoerOnly)
}

func TestCastVote(t *testing.T) {
	t.Run("preconditions", func(t *testing.T) {
		f := deploy(t)
		f.mint(t, deployer, 1)
		id := f.propose(t, deployer, f.setDelayAction(t, 1))

		assert.ErrorIs(t, f.vote(t, deployer, 10, models.VoteFor).Err, ErrInvalidProposalID)
		assert.ErrorIs(t, f.vote(t, deployer, id, models.VoteFor).Err, ErrVotingClosed)
		f.host.Mine(votingDelay)
		assert.ErrorIs(t, f.vote(t, deployer, id, models.VoteType(3)).Err, ErrInvalidVoteType)
		require.NoError(t, f.vote(t, deployer, id, models.VoteFor).Err)
		assert.ErrorIs(t, f.vote(t, deployer, id, models.VoteAgainst).Err, ErrAlreadyVoted)
		f.host.Mine(MinVotingPeriod)
		assert.ErrorIs(t, f.vote(t, alice, id, models.VoteFor).Err, ErrVotingClosed)
	})

	t.Run("weight is fixed at the start block", func(t *testing.T) {
		f := deploy(t)
		f.mint(t, deployer, 3)
		f.mint(t, bob, 1)
		id := f.propose(t, deployer, f.setDelayAction(t, 1))
		f.host.Mine(votingDelay)
		f.transfer(t, deployer, alice, 0)

		require.NoError(t, f.vote(t, deployer, id, models.VoteFor).Err)
		require.NoError(t, f.vote(t, alice, id, models.VoteAgainst).Err)
		rcpt := f.send(t, bob, func(env *chain.Env) error {
			return f.gov.CastVoteWithReason(env, id, uint8(models.VoteAbstain), "no opinion")
		})
		require.NoError(t, rcpt.Err)
		assert.Equal(t, &domain.VoteCast{Voter: bob, ProposalID: id, Support: 2, Votes: 1, Reason: "no opinion"}, rcpt.Logs[0].Event)

		p, err := f.gov.Proposal(id)
		require.NoError(t, err)
		assert.Equal(t, uint64(3), p.ForVotes)
		assert.Zero(t, p.AgainstVotes)
		assert.Equal(t, uint64(1), p.AbstainVotes)
		assert.Equal(t, models.Receipt{HasVoted: true, Support: models.VoteFor, Votes: 3}, f.gov.Receipt(id, deployer))
		assert.Equal(t, models.Receipt{HasVoted: true, Support: models.VoteAgainst}, f.gov.Receipt(id, alice))
	})

	t.Run("by signature", func(t *testing.T) {
		key, err := crypto.GenerateKey()
		require.NoError(t, err)
		signer := crypto.PubkeyToAddress(key.PublicKey)

		f := deploy(t)
		f.mint(t, deployer, 1)
		f.mint(t, signer, 5)
		id := f.propose(t, deployer, f.setDelayAction(t, 1))
		f.host.Mine(votingDelay)

		digest, err := eip712.Ballot{ProposalID: id, Support: 1}.Hash(f.gov.Domain(f.host.ChainID()))
		require.NoError(t, err)
		raw, err := crypto.Sign(digest[:], key)
		require.NoError(t, err)
		sig, err := eip712.SplitSignature(raw)
		require.NoError(t, err)

		rcpt := f.send(t, bob, func(env *chain.Env) error { return f.gov.CastVoteBySig(env, id, 1, sig) })
		require.NoError(t, rcpt.Err)
		assert.Equal(t, models.Receipt{HasVoted: true, Support: models.VoteFor, Votes: 5}, f.gov.Receipt(id, signer))
		assert.False(t, f.gov.Receipt(id, bob).HasVoted)

		// the same signature cannot vote twice
		rcpt = f.send(t, bob, func(env *chain.Env) error { return f.gov.CastVoteBySig(env, id, 1, sig) })
		assert.ErrorIs(t, rcpt.Err, ErrAlreadyVoted)
	})
}

func TestSettings(t *testing.T) {
	t.Run("ranges and admin", func(t *testing.T) {
		tests := []struct {
			name    string
			from    common.Address
			set     func(g *Governor, env *chain.Env) error
			wantErr error
		}{
			{"delay by non-admin", deployer, func(g *Governor, env *chain.Env) error { return g.SetVotingDelay(env, 5) }, ErrAdminOnly},
			{"delay below min", admin, func(g *Governor, env *chain.Env) error { return g.SetVotingDelay(env, MinVotingDelay-1) }, ErrInvalidVotingDelay},
			{"delay above max", admin, func(g *Governor, env *chain.Env) error { return g.SetVotingDelay(env, MaxVotingDelay+1) }, ErrInvalidVotingDelay},
			{"period below min", admin, func(g *Governor, env *chain.Env) error { return g.SetVotingPeriod(env, MinVotingPeriod-1) }, ErrInvalidVotingPeriod},
			{"period above max", admin, func(g *Governor, env *chain.Env) error { return g.SetVotingPeriod(env, MaxVotingPeriod+1) }, ErrInvalidVotingPeriod},
			{"quorum below min", admin, func(g *Governor, env *chain.Env) error { return g.SetQuorumVotesBPS(env, MinQuorumVotesBPS-1) }, ErrInvalidQuorumSet},
			{"quorum above max", admin, func(g *Governor, env *chain.Env) error { return g.SetQuorumVotesBPS(env, MaxQuorumVotesBPS+1) }, ErrInvalidQuorumSet},
			{"threshold below min", admin, func(g *Governor, env *chain.Env) error { return g.SetProposalThreshold(env, 0) }, ErrInvalidThreshold},
			{"pending admin by non-admin", deployer, func(g *Governor, env *chain.Env) error { return g.SetPendingAdmin(env, alice) }, ErrAdminOnly},
			{"vetoer by non-vetoer", admin, func(g *Governor, env *chain.Env) error { return g.SetVetoer(env, alice) }, ErrVetoerOnly},
			{"valid delay", admin, func(g *Governor, env *chain.Env) error { return g.SetVotingDelay(env, 5) }, nil},
			{"valid period", admin, func(g *Governor, env *chain.Env) error { return g.SetVotingPeriod(env, MaxVotingPeriod) }, nil},
			{"valid quorum", admin, func(g *Governor, env *chain.Env) error { return g.SetQuorumVotesBPS(env, MinQuorumVotesBPS) }, nil},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				f := deploy(t)
				rcpt := f.send(t, tt.from, func(env *chain.Env) error { return tt.set(f.gov, env) })
				if tt.wantErr != nil {
					assert.ErrorIs(t, rcpt.Err, tt.wantErr)
					return
				}
				require.NoError(t, rcpt.Err)
				assert.Len(t, rcpt.Logs, 1)
			})
		}
	})

	t.Run("threshold ceiling follows supply", func(t *testing.T) {
		f := deploy(t)
		set := func(v uint64) *chain.Receipt {
			return f.send(t, admin, func(env *chain.Env) error { return f.gov.SetProposalThreshold(env, v) })
		}

		assert.ErrorIs(t, set(2).Err, ErrInvalidThreshold, "supply 0")
		f.mint(t, deployer, 19)
		assert.ErrorIs(t, set(2).Err, ErrInvalidThreshold, "supply 19")
		f.mint(t, deployer, 1)
		rcpt := set(2)
		require.NoError(t, rcpt.Err)
		assert.Equal(t, &domain.ProposalThresholdSet{ParameterChange: domain.ParameterChange{Old: 1, New: 2}}, rcpt.Logs[0].Event)
		assert.Equal(t, uint64(2), f.gov.Params().ProposalThreshold)
	})

	t.Run("admin transfer", func(t *testing.T) {
		f := deploy(t)
		accept := func(from common.Address) *chain.Receipt {
			return f.send(t, from, func(env *chain.Env) error { return f.gov.AcceptAdmin(env) })
		}

		assert.ErrorIs(t, accept(deployer).Err, ErrPendingAdminOnly)
		rcpt := f.send(t, admin, func(env *chain.Env) error { return f.gov.SetPendingAdmin(env, deployer) })
		require.NoError(t, rcpt.Err)
		assert.Equal(t, &domain.NewPendingAdmin{NewPendingAdmin: deployer}, rcpt.Logs[0].Event)
		assert.ErrorIs(t, accept(alice).Err, ErrPendingAdminOnly)

		rcpt = accept(deployer)
		require.NoError(t, rcpt.Err)
		assert.Equal(t, deployer, f.gov.Admin())
		assert.Equal(t, common.Address{}, f.gov.PendingAdmin())
		assert.Equal(t, &domain.NewAdmin{OldAdmin: admin, NewAdmin: deployer}, rcpt.Logs[0].Event)
		assert.Equal(t, &domain.NewPendingAdmin{OldPendingAdmin: deployer}, rcpt.Logs[1].Event)
	})

	t.Run("vetoer hand-over", func(t *testing.T) {
		f := deploy(t)
		rcpt := f.send(t, vetoer, func(env *chain.Env) error { return f.gov.SetVetoer(env, alice) })
		require.NoError(t, rcpt.Err)
		assert.Equal(t, &domain.NewVetoer{OldVetoer: vetoer, NewVetoer: alice}, rcpt.Logs[0].Event)
		assert.Equal(t, alice, f.gov.Vetoer())
	})
}

func TestDispatch(t *testing.T) {
	f := deploy(t)
	f.mint(t, deployer, 1)
	ctx := context.Background()

	packed, err := timelock.Pack("setDelay", chain.Big(timelock.MinimumDelay+1))
	require.NoError(t, err)
	input, err := Pack("propose",
		[]common.Address{f.timelock.Address()},
		[]*big.Int{big.NewInt(0)},
		[]string{"setDelay(uint256)"},
		[][]byte{packed[4:]},
		"via calldata")
	require.NoError(t, err)

	rcpt, err := f.host.Transact(ctx, chain.Tx{From: deployer, To: f.gov.Address(), Data: input}, nil)
	require.NoError(t, err)
	require.NoError(t, rcpt.Err)
	assert.Equal(t, uint64(1), f.gov.ProposalCount())

	input, err = Pack("state", big.NewInt(1))
	require.NoError(t, err)
	var out []byte
	_, err = f.host.Transact(ctx, chain.Tx{From: deployer, To: f.gov.Address()}, func(env *chain.Env) error {
		var err error
		out, err = f.gov.Handle(env, input)
		return err
	})
	require.NoError(t, err)
	res, err := Unpack("state", out)
	require.NoError(t, err)
	assert.Equal(t, uint8(models.ProposalStatePending), res[0])

	input, err = Pack("state", big.NewInt(2))
	require.NoError(t, err)
	rcpt, err = f.host.Transact(ctx, chain.Tx{From: deployer, To: f.gov.Address(), Data: input}, nil)
	require.Error(t, err)
	assert.ErrorIs(t, rcpt.Err, ErrInvalidProposalID)
}
