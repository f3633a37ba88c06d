package models

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

// ProposalState is the lifecycle state of a proposal. The numeric values
// are part of the external interface.
type ProposalState uint8

const (
	ProposalStatePending ProposalState = iota
	ProposalStateActive
	ProposalStateCanceled
	ProposalStateDefeated
	ProposalStateSucceeded
	ProposalStateQueued
	ProposalStateExpired
	ProposalStateExecuted
	ProposalStateVetoed
)

var proposalStateNames = [...]string{
	"pending", "active", "canceled", "defeated", "succeeded", "queued", "expired", "executed", "vetoed",
}

func (s ProposalState) String() string {
	if int(s) < len(proposalStateNames) {
		return proposalStateNames[s]
	}
	return "unknown"
}

// IsLive reports whether the proposal still blocks its proposer from proposing again
func (s ProposalState) IsLive() bool {
	return s == ProposalStatePending || s == ProposalStateActive
}

// VoteType is the support value of a ballot
type VoteType uint8

const (
	VoteAgainst VoteType = 0
	VoteFor     VoteType = 1
	VoteAbstain VoteType = 2
)

func (v VoteType) String() string {
	switch v {
	case VoteAgainst:
		return "against"
	case VoteFor:
		return "for"
	case VoteAbstain:
		return "abstain"
	}
	return "invalid"
}

// Action is one call a proposal makes through the timelock
type Action struct {
	Target    common.Address `json:"target"`
	Value     *uint256.Int   `json:"value"`
	Signature string         `json:"signature"`
	Calldata  []byte         `json:"calldata"`
}

// Proposal is the governor's record of a proposal
type Proposal struct {
	ID           uint64         `json:"id"`
	Proposer     common.Address `json:"proposer"`
	Actions      []Action       `json:"actions"`
	Description  string         `json:"description"`
	StartBlock   uint64         `json:"startBlock"`
	EndBlock     uint64         `json:"endBlock"`
	Eta          uint64         `json:"eta"`
	ForVotes     uint64         `json:"forVotes"`
	AgainstVotes uint64         `json:"againstVotes"`
	AbstainVotes uint64         `json:"abstainVotes"`
	QuorumVotes  uint64         `json:"quorumVotes"`
	Canceled     bool           `json:"canceled"`
	Executed     bool           `json:"executed"`
	Vetoed       bool           `json:"vetoed"`
}

// Targets returns the action targets in order
func (p *Proposal) Targets() []common.Address {
	out := make([]common.Address, len(p.Actions))
	for i, a := range p.Actions {
		out[i] = a.Target
	}
	return out
}

// Clone returns a deep copy of the proposal
func (p *Proposal) Clone() *Proposal {
	c := *p
	c.Actions = make([]Action, len(p.Actions))
	for i, a := range p.Actions {
		c.Actions[i] = Action{
			Target:    a.Target,
			Value:     new(uint256.Int).Set(a.Value),
			Signature: a.Signature,
			Calldata:  append([]byte(nil), a.Calldata...),
		}
	}
	return &c
}

// Receipt records a voter's ballot on a proposal
type Receipt struct {
	HasVoted bool     `json:"hasVoted"`
	Support  VoteType `json:"support"`
	Votes    uint64   `json:"votes"`
}
