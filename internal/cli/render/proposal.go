package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/trebuchet-org/rarity-society/internal/domain/models"
	"github.com/trebuchet-org/rarity-society/internal/usecase"
)

// NameFunc names an address, or returns "" when it has no name
type NameFunc func(common.Address) string

// ProposalRenderer renders governance proposals
type ProposalRenderer struct {
	out   io.Writer
	names NameFunc
}

// NewProposalRenderer creates a new proposal renderer
func NewProposalRenderer(out io.Writer, names NameFunc) *ProposalRenderer {
	return &ProposalRenderer{out: out, names: names}
}

func stateStyle(s models.ProposalState) *color.Color {
	switch s {
	case models.ProposalStateActive, models.ProposalStatePending:
		return pendingStyle
	case models.ProposalStateSucceeded, models.ProposalStateQueued:
		return color.New(color.FgCyan)
	case models.ProposalStateExecuted:
		return successStyle
	}
	return failureStyle
}

// RenderList renders proposals as a table, newest first
func (r *ProposalRenderer) RenderList(result *usecase.ListProposalsResult) error {
	if len(result.Proposals) == 0 {
		fmt.Fprintln(r.out, "No proposals found")
		return nil
	}

	t := newTable(4, 10, 12, 24)
	t.AppendHeader(table.Row{"ID", "STATE", "PROPOSER", "VOTES (for/against/abstain)", "TITLE"})
	for _, p := range result.Proposals {
		proposer := p.ProposerName
		if proposer == "" {
			proposer = p.Proposer.Hex()[:10]
		}
		t.AppendRow(table.Row{
			fmt.Sprintf("#%d", p.ID),
			stateStyle(p.State).Sprint(Title(p.StateName)),
			proposer,
			fmt.Sprintf("%d / %d / %d", p.ForVotes, p.AgainstVotes, p.AbstainVotes),
			p.Title(),
		})
	}
	fmt.Fprintln(r.out, t.Render())
	fmt.Fprintln(r.out)
	fmt.Fprintln(r.out, timestampStyle.Sprintf("block %d, %s", result.Block, formatTimestamp(result.Time)))
	return nil
}

// RenderProposal renders one proposal with its actions and ballots
func (r *ProposalRenderer) RenderProposal(p *usecase.ProposalView) error {
	fmt.Fprintf(r.out, "%s %s  %s\n",
		sectionHeaderStyle.Sprintf("Proposal #%d", p.ID),
		stateStyle(p.State).Sprintf("[%s]", Title(p.StateName)),
		p.Title())

	rows := [][2]string{
		{"Proposer", named(p.Proposer, p.ProposerName)},
		{"Voting", fmt.Sprintf("blocks %d to %d", p.StartBlock, p.EndBlock)},
		{"Votes", fmt.Sprintf("%s for, %s against, %s abstain",
			successStyle.Sprint(p.ForVotes), failureStyle.Sprint(p.AgainstVotes), labelStyle.Sprint(p.AbstainVotes))},
		{"Quorum", fmt.Sprintf("%d", p.QuorumVotes)},
	}
	if p.Eta != 0 {
		rows = append(rows, [2]string{"ETA", formatTimestamp(p.Eta)})
	}
	keyValues(r.out, rows)

	if body := strings.TrimSpace(strings.TrimPrefix(p.Description, p.Title())); body != "" {
		fmt.Fprintln(r.out)
		for _, line := range strings.Split(body, "\n") {
			fmt.Fprintf(r.out, "  %s\n", line)
		}
	}

	fmt.Fprintln(r.out)
	fmt.Fprintln(r.out, sectionHeaderStyle.Sprint("Actions"))
	for i, call := range p.Calls {
		target := p.Actions[i].Target
		fmt.Fprintf(r.out, "  %d. %s → %s\n", i+1, call, named(target, r.names(target)))
	}

	if len(p.Ballots) > 0 {
		fmt.Fprintln(r.out)
		fmt.Fprintln(r.out, sectionHeaderStyle.Sprint("Ballots"))
		t := newTable(12, 8, 6)
		for _, b := range p.Ballots {
			voter := b.Name
			if voter == "" {
				voter = b.Voter.Hex()
			}
			t.AppendRow(table.Row{voter, supportStyle(b.Support).Sprint(b.Support), b.Votes, b.Reason})
		}
		fmt.Fprintln(r.out, t.Render())
	}
	return nil
}

func supportStyle(v models.VoteType) *color.Color {
	switch v {
	case models.VoteFor:
		return successStyle
	case models.VoteAgainst:
		return failureStyle
	}
	return labelStyle
}

// RenderPropose renders a newly opened proposal
func (r *ProposalRenderer) RenderPropose(result *usecase.ProposeProposalResult) error {
	renderTx(r.out, result.Tx, r.names)
	fmt.Fprintln(r.out, FormatSuccess(fmt.Sprintf("Proposal #%d created, voting opens at block %d",
		result.Proposal.ID, result.Proposal.StartBlock)))
	return nil
}

// RenderVote renders a cast ballot
func (r *ProposalRenderer) RenderVote(result *usecase.CastVoteResult) error {
	renderTx(r.out, result.Tx, r.names)
	if result.Signature != "" {
		fmt.Fprintf(r.out, "  %s %s\n", labelStyle.Sprint("signature:"), result.Signature)
	}
	fmt.Fprintln(r.out, FormatSuccess(fmt.Sprintf("%s voted %s on proposal #%d with %d votes",
		named(result.Voter, r.names(result.Voter)), result.Receipt.Support, result.Proposal.ID, result.Receipt.Votes)))
	p := result.Proposal
	fmt.Fprintf(r.out, "  tally: %d for, %d against, %d abstain (quorum %d)\n",
		p.ForVotes, p.AgainstVotes, p.AbstainVotes, p.QuorumVotes)
	return nil
}

// RenderManage renders a queue, execute, cancel or veto
func (r *ProposalRenderer) RenderManage(result *usecase.ManageProposalResult) error {
	if result.Aborted {
		fmt.Fprintln(r.out, FormatWarning(fmt.Sprintf("%s aborted", Title(string(result.Operation)))))
		return nil
	}
	renderTx(r.out, result.Tx, r.names)
	msg := fmt.Sprintf("Proposal #%d is now %s", result.Proposal.ID, result.Proposal.StateName)
	if result.Operation == usecase.ProposalQueue {
		msg += fmt.Sprintf(", executable from %s", formatTimestamp(result.Proposal.Eta))
	}
	fmt.Fprintln(r.out, FormatSuccess(msg))
	return nil
}
