package governor

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"github.com/samber/lo"
	"github.com/trebuchet-org/rarity-society/internal/chain"
	"github.com/trebuchet-org/rarity-society/internal/contracts/eip712"
	"github.com/trebuchet-org/rarity-society/internal/contracts/timelock"
	"github.com/trebuchet-org/rarity-society/internal/domain"
	"github.com/trebuchet-org/rarity-society/internal/domain/models"
)

// ProposeParams are the parallel action arrays of a proposal
type ProposeParams struct {
	Targets     []common.Address
	Values      []*uint256.Int
	Signatures  []string
	Calldatas   [][]byte
	Description string
}

// Proposal returns a copy of a stored proposal
func (g *Governor) Proposal(id uint64) (*models.Proposal, error) {
	p, err := g.proposal(id)
	if err != nil {
		return nil, err
	}
	return p.Clone(), nil
}

func (g *Governor) proposal(id uint64) (*models.Proposal, error) {
	p, ok := g.st.Proposals[id]
	if !ok || id == 0 || id > g.st.ProposalCount {
		return nil, ErrInvalidProposalID
	}
	return p, nil
}

// Receipt returns a voter's ballot on a proposal
func (g *Governor) Receipt(id uint64, voter common.Address) models.Receipt {
	return g.st.Receipts[id][voter]
}

// State evaluates where a proposal is in its lifecycle at the reader's
// block and time.
func (g *Governor) State(r chain.Reader, id uint64) (models.ProposalState, error) {
	p, err := g.proposal(id)
	if err != nil {
		return 0, err
	}
	return proposalState(r, p), nil
}

func proposalState(r chain.Reader, p *models.Proposal) models.ProposalState {
	block := r.BlockNumber()
	switch {
	case p.Vetoed:
		return models.ProposalStateVetoed
	case p.Canceled:
		return models.ProposalStateCanceled
	case block < p.StartBlock:
		return models.ProposalStatePending
	case block < p.EndBlock:
		return models.ProposalStateActive
	case p.ForVotes <= p.AgainstVotes || p.ForVotes < p.QuorumVotes:
		return models.ProposalStateDefeated
	case p.Eta == 0:
		return models.ProposalStateSucceeded
	case p.Executed:
		return models.ProposalStateExecuted
	case r.Time() > p.Eta+timelock.GracePeriod:
		return models.ProposalStateExpired
	}
	return models.ProposalStateQueued
}

// Propose opens a proposal for the caller and returns its id
func (g *Governor) Propose(env *chain.Env, pp ProposeParams) (uint64, error) {
	tok, err := g.token(env)
	if err != nil {
		return 0, err
	}
	proposer := env.Caller()
	if tok.GetCurrentVotes(proposer) < g.st.ProposalThreshold {
		return 0, ErrBelowThreshold
	}
	n := len(pp.Targets)
	if len(pp.Values) != n || len(pp.Signatures) != n || len(pp.Calldatas) != n {
		return 0, ErrArityMismatch
	}
	if n == 0 {
		return 0, ErrNoActions
	}
	if n > ProposalMaxOperations {
		return 0, ErrTooManyActions
	}
	if latest, ok := g.st.Proposals[g.st.LatestProposalIDs[proposer]]; ok {
		switch proposalState(env, latest) {
		case models.ProposalStatePending:
			return 0, ErrPendingProposal
		case models.ProposalStateActive:
			return 0, ErrActiveProposal
		}
	}

	start := env.BlockNumber() + g.st.VotingDelay
	g.st.ProposalCount++
	p := &models.Proposal{
		ID:          g.st.ProposalCount,
		Proposer:    proposer,
		Description: pp.Description,
		StartBlock:  start,
		EndBlock:    start + g.st.VotingPeriod,
		QuorumVotes: bps(tok.TotalSupply(), g.st.QuorumVotesBPS),
		Actions: lo.Map(pp.Targets, func(target common.Address, i int) models.Action {
			value := pp.Values[i]
			if value == nil {
				value = new(uint256.Int)
			}
			return models.Action{
				Target:    target,
				Value:     new(uint256.Int).Set(value),
				Signature: pp.Signatures[i],
				Calldata:  append([]byte(nil), pp.Calldatas[i]...),
			}
		}),
	}
	g.st.Proposals[p.ID] = p
	g.st.LatestProposalIDs[proposer] = p.ID
	if err := env.UseGas(uint64(4+n) * chain.GasStore); err != nil {
		return 0, err
	}

	return p.ID, env.Emit(&domain.ProposalCreated{
		ID:          p.ID,
		Proposer:    proposer,
		Targets:     p.Targets(),
		Values:      lo.Map(p.Actions, func(a models.Action, _ int) *uint256.Int { return new(uint256.Int).Set(a.Value) }),
		Signatures:  lo.Map(p.Actions, func(a models.Action, _ int) string { return a.Signature }),
		Calldatas:   lo.Map(p.Actions, func(a models.Action, _ int) []byte { return a.Calldata }),
		StartBlock:  p.StartBlock,
		EndBlock:    p.EndBlock,
		QuorumVotes: p.QuorumVotes,
		Description: p.Description,
	})
}

// CastVote records the caller's ballot
func (g *Governor) CastVote(env *chain.Env, id uint64, support uint8) error {
	return g.castVote(env, env.Caller(), id, support, "")
}

// CastVoteWithReason records the caller's ballot with a reason attached to
// the event
func (g *Governor) CastVoteWithReason(env *chain.Env, id uint64, support uint8, reason string) error {
	return g.castVote(env, env.Caller(), id, support, reason)
}

// CastVoteBySig records a ballot signed off-chain by the voter
func (g *Governor) CastVoteBySig(env *chain.Env, id uint64, support uint8, sig eip712.Signature) error {
	digest, err := eip712.Ballot{ProposalID: id, Support: support}.Hash(g.Domain(env.ChainID()))
	if err != nil {
		return err
	}
	voter, err := eip712.Recover(digest, sig)
	if err != nil || voter == (common.Address{}) {
		return ErrInvalidSignature
	}
	return g.castVote(env, voter, id, support, "")
}

func (g *Governor) castVote(env *chain.Env, voter common.Address, id uint64, support uint8, reason string) error {
	p, err := g.proposal(id)
	if err != nil {
		return err
	}
	if proposalState(env, p) != models.ProposalStateActive {
		return ErrVotingClosed
	}
	if support > uint8(models.VoteAbstain) {
		return ErrInvalidVoteType
	}
	if g.st.Receipts[id][voter].HasVoted {
		return ErrAlreadyVoted
	}
	tok, err := g.token(env)
	if err != nil {
		return err
	}
	// weight is fixed at the start of voting, whatever has moved since
	votes := tok.VotesAt(voter, p.StartBlock)

	switch models.VoteType(support) {
	case models.VoteAgainst:
		p.AgainstVotes += votes
	case models.VoteFor:
		p.ForVotes += votes
	case models.VoteAbstain:
		p.AbstainVotes += votes
	}
	if g.st.Receipts[id] == nil {
		g.st.Receipts[id] = make(map[common.Address]models.Receipt)
	}
	g.st.Receipts[id][voter] = models.Receipt{HasVoted: true, Support: models.VoteType(support), Votes: votes}
	if err := env.UseGas(2 * chain.GasStore); err != nil {
		return err
	}
	return env.Emit(&domain.VoteCast{Voter: voter, ProposalID: id, Support: support, Votes: votes, Reason: reason})
}

func call(a models.Action, eta uint64) timelock.Call {
	return timelock.Call{Target: a.Target, Value: a.Value, Signature: a.Signature, Data: a.Calldata, Eta: eta}
}

// Queue schedules every action of a succeeded proposal on the timelock
func (g *Governor) Queue(env *chain.Env, id uint64) error {
	p, err := g.proposal(id)
	if err != nil {
		return err
	}
	if proposalState(env, p) != models.ProposalStateSucceeded {
		return ErrNotSucceeded
	}
	tl, err := g.timelock(env)
	if err != nil {
		return err
	}
	eta := env.Time() + tl.Delay()
	for _, a := range p.Actions {
		c := call(a, eta)
		if tl.IsQueued(c.Hash()) {
			return ErrIdenticalQueued
		}
		if err := env.Invoke(tl.Address(), nil, func(child *chain.Env) error {
			_, err := tl.QueueTransaction(child, c)
			return err
		}); err != nil {
			return err
		}
	}
	p.Eta = eta
	if err := env.UseGas(chain.GasStore); err != nil {
		return err
	}
	return env.Emit(&domain.ProposalQueued{ID: id, Eta: eta})
}

// Execute runs a queued proposal's actions through the timelock
func (g *Governor) Execute(env *chain.Env, id uint64) error {
	p, err := g.proposal(id)
	if err != nil {
		return err
	}
	if proposalState(env, p) != models.ProposalStateQueued {
		return ErrNotQueued
	}
	tl, err := g.timelock(env)
	if err != nil {
		return err
	}
	p.Executed = true
	if err := env.UseGas(chain.GasStore); err != nil {
		return err
	}
	for _, a := range p.Actions {
		c := call(a, p.Eta)
		if err := env.Invoke(tl.Address(), nil, func(child *chain.Env) error {
			_, err := tl.ExecuteTransaction(child, c)
			return err
		}); err != nil {
			return err
		}
	}
	return env.Emit(&domain.ProposalExecuted{ID: id})
}

// Cancel withdraws a proposal. The proposer may always cancel; anyone may
// once the proposer's votes fall below the threshold.
func (g *Governor) Cancel(env *chain.Env, id uint64) error {
	p, err := g.proposal(id)
	if err != nil {
		return err
	}
	if p.Executed {
		return ErrCancelExecuted
	}
	tok, err := g.token(env)
	if err != nil {
		return err
	}
	if env.Caller() != p.Proposer && tok.GetCurrentVotes(p.Proposer) >= g.st.ProposalThreshold {
		return ErrCancelNotAllowed
	}
	p.Canceled = true
	if err := g.unqueue(env, p); err != nil {
		return err
	}
	return env.Emit(&domain.ProposalCanceled{ID: id})
}

// Veto kills a proposal. Only the vetoer may veto.
func (g *Governor) Veto(env *chain.Env, id uint64) error {
	if env.Caller() != g.st.Vetoer || g.st.Vetoer == (common.Address{}) {
		return ErrVetoerOnly
	}
	p, err := g.proposal(id)
	if err != nil {
		return err
	}
	if p.Executed {
		return ErrVetoExecuted
	}
	p.Vetoed = true
	if err := g.unqueue(env, p); err != nil {
		return err
	}
	return env.Emit(&domain.ProposalVetoed{ID: id})
}

// unqueue drops a queued proposal's actions from the timelock
func (g *Governor) unqueue(env *chain.Env, p *models.Proposal) error {
	if err := env.UseGas(chain.GasStore); err != nil {
		return err
	}
	if p.Eta == 0 {
		return nil
	}
	tl, err := g.timelock(env)
	if err != nil {
		return err
	}
	for _, a := range p.Actions {
		c := call(a, p.Eta)
		if err := env.Invoke(tl.Address(), nil, func(child *chain.Env) error {
			return tl.CancelTransaction(child, c)
		}); err != nil {
			return err
		}
	}
	return nil
}
