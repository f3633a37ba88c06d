package usecase

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/trebuchet-org/rarity-society/internal/chain"
	"github.com/trebuchet-org/rarity-society/internal/contracts/governor"
	"github.com/trebuchet-org/rarity-society/internal/domain"
	"github.com/trebuchet-org/rarity-society/internal/domain/models"
)

// ProposalView is a proposal as the user sees it
type ProposalView struct {
	*models.Proposal
	State        models.ProposalState `json:"-"`
	StateName    string               `json:"state"`
	ProposerName string               `json:"proposerName,omitempty"`
	Calls        []string             `json:"calls"`
	Ballots      []Ballot             `json:"ballots,omitempty"`
}

// Ballot is one vote cast on a proposal
type Ballot struct {
	Voter   common.Address  `json:"voter"`
	Name    string          `json:"name,omitempty"`
	Support models.VoteType `json:"support"`
	Votes   uint64          `json:"votes"`
	Reason  string          `json:"reason,omitempty"`
	Block   uint64          `json:"block"`
}

// Title is the first line of the description
func (v *ProposalView) Title() string {
	for i, r := range v.Description {
		if r == '\n' {
			return v.Description[:i]
		}
	}
	return v.Description
}

func proposalView(s *Session, gov *governor.Governor, enc CallEncoder, id uint64, withBallots bool) (*ProposalView, error) {
	p, err := gov.Proposal(id)
	if err != nil {
		return nil, fmt.Errorf("proposal %d: %w", id, err)
	}
	state, err := gov.State(s.Host, id)
	if err != nil {
		return nil, err
	}
	view := &ProposalView{
		Proposal:     p,
		State:        state,
		StateName:    state.String(),
		ProposerName: s.NameOf(p.Proposer),
	}
	for _, a := range p.Actions {
		view.Calls = append(view.Calls, describeAction(s, enc, a))
	}
	if withBallots {
		view.Ballots = ballots(s, id)
	}
	return view, nil
}

func describeAction(s *Session, enc CallEncoder, a models.Action) string {
	target := s.NameOf(a.Target)
	if target == "" {
		target = a.Target.Hex()
	}
	call := hexutil.Encode(a.Calldata)
	if a.Signature != "" {
		if desc, err := enc.DescribeCall(a.Signature, a.Calldata); err == nil {
			call = desc
		} else {
			call = a.Signature + " " + call
		}
	}
	if a.Value != nil && !a.Value.IsZero() {
		return fmt.Sprintf("%s.%s {value: %s}", target, call, domain.FormatAmount(a.Value))
	}
	return target + "." + call
}

func ballots(s *Session, id uint64) []Ballot {
	gov := s.System.Governor
	var out []Ballot
	for _, l := range s.Host.Logs(chain.LogFilter{Address: &gov, Name: domain.VoteCast{}.ContractEventName()}) {
		ev, ok := l.Event.(*domain.VoteCast)
		if !ok || ev.ProposalID != id {
			continue
		}
		out = append(out, Ballot{
			Voter:   ev.Voter,
			Name:    s.NameOf(ev.Voter),
			Support: models.VoteType(ev.Support),
			Votes:   ev.Votes,
			Reason:  ev.Reason,
			Block:   l.Block,
		})
	}
	return out
}
