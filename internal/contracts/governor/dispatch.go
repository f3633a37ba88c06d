package governor

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"github.com/samber/lo"
	"github.com/trebuchet-org/rarity-society/internal/chain"
	"github.com/trebuchet-org/rarity-society/internal/contracts/eip712"
	"github.com/trebuchet-org/rarity-society/internal/domain/models"
)

// ABI is the dispatchable surface of the governor
const ABI = `[
{"type":"function","name":"daoAdmin","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"address"}]},
{"type":"function","name":"pendingAdmin","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"address"}]},
{"type":"function","name":"vetoer","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"address"}]},
{"type":"function","name":"timelock","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"address"}]},
{"type":"function","name":"token","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"address"}]},
{"type":"function","name":"votingPeriod","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"uint256"}]},
{"type":"function","name":"votingDelay","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"uint256"}]},
{"type":"function","name":"proposalThreshold","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"uint256"}]},
{"type":"function","name":"quorumVotesBPS","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"uint256"}]},
{"type":"function","name":"proposalCount","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"uint256"}]},
{"type":"function","name":"maxProposalThreshold","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"uint256"}]},
{"type":"function","name":"latestProposalIds","stateMutability":"view","inputs":[{"name":"proposer","type":"address"}],"outputs":[{"name":"","type":"uint256"}]},
{"type":"function","name":"quorumVotes","stateMutability":"view","inputs":[{"name":"proposalId","type":"uint256"}],"outputs":[{"name":"","type":"uint256"}]},
{"type":"function","name":"state","stateMutability":"view","inputs":[{"name":"proposalId","type":"uint256"}],"outputs":[{"name":"","type":"uint8"}]},
{"type":"function","name":"getReceipt","stateMutability":"view","inputs":[{"name":"proposalId","type":"uint256"},{"name":"voter","type":"address"}],"outputs":[{"name":"hasVoted","type":"bool"},{"name":"support","type":"uint8"},{"name":"votes","type":"uint96"}]},
{"type":"function","name":"getActions","stateMutability":"view","inputs":[{"name":"proposalId","type":"uint256"}],"outputs":[{"name":"targets","type":"address[]"},{"name":"values","type":"uint256[]"},{"name":"signatures","type":"string[]"},{"name":"calldatas","type":"bytes[]"}]},
{"type":"function","name":"proposals","stateMutability":"view","inputs":[{"name":"proposalId","type":"uint256"}],"outputs":[{"name":"id","type":"uint256"},{"name":"proposer","type":"address"},{"name":"eta","type":"uint256"},{"name":"startBlock","type":"uint256"},{"name":"endBlock","type":"uint256"},{"name":"forVotes","type":"uint256"},{"name":"againstVotes","type":"uint256"},{"name":"abstainVotes","type":"uint256"},{"name":"quorumVotes","type":"uint256"},{"name":"canceled","type":"bool"},{"name":"vetoed","type":"bool"},{"name":"executed","type":"bool"}]},
{"type":"function","name":"initialize","stateMutability":"nonpayable","inputs":[{"name":"admin","type":"address"},{"name":"timelock","type":"address"},{"name":"token","type":"address"},{"name":"vetoer","type":"address"},{"name":"votingPeriod","type":"uint256"},{"name":"votingDelay","type":"uint256"},{"name":"proposalThreshold","type":"uint256"},{"name":"quorumVotesBPS","type":"uint256"}],"outputs":[]},
{"type":"function","name":"propose","stateMutability":"nonpayable","inputs":[{"name":"targets","type":"address[]"},{"name":"values","type":"uint256[]"},{"name":"signatures","type":"string[]"},{"name":"calldatas","type":"bytes[]"},{"name":"description","type":"string"}],"outputs":[{"name":"","type":"uint256"}]},
{"type":"function","name":"castVote","stateMutability":"nonpayable","inputs":[{"name":"proposalId","type":"uint256"},{"name":"support","type":"uint8"}],"outputs":[]},
{"type":"function","name":"castVoteWithReason","stateMutability":"nonpayable","inputs":[{"name":"proposalId","type":"uint256"},{"name":"support","type":"uint8"},{"name":"reason","type":"string"}],"outputs":[]},
{"type":"function","name":"castVoteBySig","stateMutability":"nonpayable","inputs":[{"name":"proposalId","type":"uint256"},{"name":"support","type":"uint8"},{"name":"v","type":"uint8"},{"name":"r","type":"bytes32"},{"name":"s","type":"bytes32"}],"outputs":[]},
{"type":"function","name":"queue","stateMutability":"nonpayable","inputs":[{"name":"proposalId","type":"uint256"}],"outputs":[]},
{"type":"function","name":"execute","stateMutability":"nonpayable","inputs":[{"name":"proposalId","type":"uint256"}],"outputs":[]},
{"type":"function","name":"cancel","stateMutability":"nonpayable","inputs":[{"name":"proposalId","type":"uint256"}],"outputs":[]},
{"type":"function","name":"veto","stateMutability":"nonpayable","inputs":[{"name":"proposalId","type":"uint256"}],"outputs":[]},
{"type":"function","name":"setVotingDelay","stateMutability":"nonpayable","inputs":[{"name":"newVotingDelay","type":"uint256"}],"outputs":[]},
{"type":"function","name":"setVotingPeriod","stateMutability":"nonpayable","inputs":[{"name":"newVotingPeriod","type":"uint256"}],"outputs":[]},
{"type":"function","name":"setProposalThreshold","stateMutability":"nonpayable","inputs":[{"name":"newProposalThreshold","type":"uint256"}],"outputs":[]},
{"type":"function","name":"setQuorumVotesBPS","stateMutability":"nonpayable","inputs":[{"name":"newQuorumVotesBPS","type":"uint256"}],"outputs":[]},
{"type":"function","name":"setPendingAdmin","stateMutability":"nonpayable","inputs":[{"name":"newPendingAdmin","type":"address"}],"outputs":[]},
{"type":"function","name":"acceptAdmin","stateMutability":"nonpayable","inputs":[],"outputs":[]},
{"type":"function","name":"setVetoer","stateMutability":"nonpayable","inputs":[{"name":"newVetoer","type":"address"}],"outputs":[]},
{"type":"function","name":"revokeVetoPower","stateMutability":"nonpayable","inputs":[],"outputs":[]}
]`

// uintArgs converts leading uint256 arguments
func uintArgs(args []any, n int) ([]uint64, error) {
	out := make([]uint64, n)
	for i := range out {
		v, err := chain.ArgUint64(args[i])
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// uintMethod adapts a method whose only argument is a uint256, a proposal
// id or a parameter value
func uintMethod(fn func(g *Governor, env *chain.Env, id uint64) error) chain.Method[*Governor] {
	return func(g *Governor, env *chain.Env, args []any) ([]any, error) {
		id, err := chain.ArgUint64(args[0])
		if err != nil {
			return nil, err
		}
		return nil, fn(g, env, id)
	}
}

func view(fn func(g *Governor) any) chain.Method[*Governor] {
	return func(g *Governor, _ *chain.Env, _ []any) ([]any, error) {
		return []any{fn(g)}, nil
	}
}

var dispatcher = chain.NewDispatcher[*Governor](ABI).
	Register("daoAdmin", view(func(g *Governor) any { return g.Admin() })).
	Register("pendingAdmin", view(func(g *Governor) any { return g.PendingAdmin() })).
	Register("vetoer", view(func(g *Governor) any { return g.Vetoer() })).
	Register("timelock", view(func(g *Governor) any { return g.Timelock() })).
	Register("token", view(func(g *Governor) any { return g.Token() })).
	Register("votingPeriod", view(func(g *Governor) any { return chain.Big(g.st.VotingPeriod) })).
	Register("votingDelay", view(func(g *Governor) any { return chain.Big(g.st.VotingDelay) })).
	Register("proposalThreshold", view(func(g *Governor) any { return chain.Big(g.st.ProposalThreshold) })).
	Register("quorumVotesBPS", view(func(g *Governor) any { return chain.Big(g.st.QuorumVotesBPS) })).
	Register("proposalCount", view(func(g *Governor) any { return chain.Big(g.st.ProposalCount) })).
	Register("maxProposalThreshold", func(g *Governor, env *chain.Env, _ []any) ([]any, error) {
		v, err := g.MaxProposalThreshold(env)
		return []any{chain.Big(v)}, err
	}).
	Register("latestProposalIds", func(g *Governor, _ *chain.Env, args []any) ([]any, error) {
		return []any{chain.Big(g.LatestProposalID(args[0].(common.Address)))}, nil
	}).
	Register("quorumVotes", func(g *Governor, _ *chain.Env, args []any) ([]any, error) {
		p, err := g.proposalArg(args[0])
		if err != nil {
			return nil, err
		}
		return []any{chain.Big(p.QuorumVotes)}, nil
	}).
	Register("state", func(g *Governor, env *chain.Env, args []any) ([]any, error) {
		p, err := g.proposalArg(args[0])
		if err != nil {
			return nil, err
		}
		return []any{uint8(proposalState(env, p))}, nil
	}).
	Register("getReceipt", func(g *Governor, _ *chain.Env, args []any) ([]any, error) {
		id, err := chain.ArgUint64(args[0])
		if err != nil {
			return nil, err
		}
		r := g.Receipt(id, args[1].(common.Address))
		return []any{r.HasVoted, uint8(r.Support), chain.Big(r.Votes)}, nil
	}).
	Register("getActions", func(g *Governor, _ *chain.Env, args []any) ([]any, error) {
		p, err := g.proposalArg(args[0])
		if err != nil {
			return nil, err
		}
		return []any{
			p.Targets(),
			lo.Map(p.Actions, func(a models.Action, _ int) *big.Int { return a.Value.ToBig() }),
			lo.Map(p.Actions, func(a models.Action, _ int) string { return a.Signature }),
			lo.Map(p.Actions, func(a models.Action, _ int) []byte { return a.Calldata }),
		}, nil
	}).
	Register("proposals", func(g *Governor, _ *chain.Env, args []any) ([]any, error) {
		p, err := g.proposalArg(args[0])
		if err != nil {
			return nil, err
		}
		return []any{
			chain.Big(p.ID), p.Proposer, chain.Big(p.Eta), chain.Big(p.StartBlock), chain.Big(p.EndBlock),
			chain.Big(p.ForVotes), chain.Big(p.AgainstVotes), chain.Big(p.AbstainVotes), chain.Big(p.QuorumVotes),
			p.Canceled, p.Vetoed, p.Executed,
		}, nil
	}).
	Register("initialize", func(g *Governor, env *chain.Env, args []any) ([]any, error) {
		v, err := uintArgs(args[4:], 4)
		if err != nil {
			return nil, err
		}
		return nil, g.Initialize(env,
			args[1].(common.Address), args[2].(common.Address), args[0].(common.Address), args[3].(common.Address),
			Params{VotingPeriod: v[0], VotingDelay: v[1], ProposalThreshold: v[2], QuorumVotesBPS: v[3]})
	}).
	Register("propose", func(g *Governor, env *chain.Env, args []any) ([]any, error) {
		values := make([]*uint256.Int, 0, len(args[1].([]*big.Int)))
		for _, v := range args[1].([]*big.Int) {
			u, err := chain.ArgU256(v)
			if err != nil {
				return nil, err
			}
			values = append(values, u)
		}
		id, err := g.Propose(env, ProposeParams{
			Targets:     args[0].([]common.Address),
			Values:      values,
			Signatures:  args[2].([]string),
			Calldatas:   args[3].([][]byte),
			Description: args[4].(string),
		})
		return []any{chain.Big(id)}, err
	}).
	Register("castVote", func(g *Governor, env *chain.Env, args []any) ([]any, error) {
		id, err := chain.ArgUint64(args[0])
		if err != nil {
			return nil, err
		}
		return nil, g.CastVote(env, id, args[1].(uint8))
	}).
	Register("castVoteWithReason", func(g *Governor, env *chain.Env, args []any) ([]any, error) {
		id, err := chain.ArgUint64(args[0])
		if err != nil {
			return nil, err
		}
		return nil, g.CastVoteWithReason(env, id, args[1].(uint8), args[2].(string))
	}).
	Register("castVoteBySig", func(g *Governor, env *chain.Env, args []any) ([]any, error) {
		id, err := chain.ArgUint64(args[0])
		if err != nil {
			return nil, err
		}
		sig := eip712.Signature{V: args[2].(uint8), R: args[3].([32]byte), S: args[4].([32]byte)}
		return nil, g.CastVoteBySig(env, id, args[1].(uint8), sig)
	}).
	Register("queue", uintMethod((*Governor).Queue)).
	Register("execute", uintMethod((*Governor).Execute)).
	Register("cancel", uintMethod((*Governor).Cancel)).
	Register("veto", uintMethod((*Governor).Veto)).
	Register("setVotingDelay", uintMethod((*Governor).SetVotingDelay)).
	Register("setVotingPeriod", uintMethod((*Governor).SetVotingPeriod)).
	Register("setProposalThreshold", uintMethod((*Governor).SetProposalThreshold)).
	Register("setQuorumVotesBPS", uintMethod((*Governor).SetQuorumVotesBPS)).
	Register("setPendingAdmin", func(g *Governor, env *chain.Env, args []any) ([]any, error) {
		return nil, g.SetPendingAdmin(env, args[0].(common.Address))
	}).
	Register("acceptAdmin", func(g *Governor, env *chain.Env, _ []any) ([]any, error) {
		return nil, g.AcceptAdmin(env)
	}).
	Register("setVetoer", func(g *Governor, env *chain.Env, args []any) ([]any, error) {
		return nil, g.SetVetoer(env, args[0].(common.Address))
	}).
	Register("revokeVetoPower", func(g *Governor, env *chain.Env, _ []any) ([]any, error) {
		return nil, g.RevokeVetoPower(env)
	})

func (g *Governor) proposalArg(arg any) (*models.Proposal, error) {
	id, err := chain.ArgUint64(arg)
	if err != nil {
		return nil, err
	}
	return g.proposal(id)
}

// Pack encodes a call to one of the governor's entry points
func Pack(method string, args ...any) ([]byte, error) {
	return dispatcher.Pack(method, args...)
}

// Unpack decodes the return values of a governor entry point
func Unpack(method string, data []byte) ([]any, error) {
	return dispatcher.Unpack(method, data)
}
