package render

import (
	"fmt"
	"io"

	"github.com/ethereum/go-ethereum/common"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/trebuchet-org/rarity-society/internal/domain"
	"github.com/trebuchet-org/rarity-society/internal/usecase"
)

// DAORenderer renders governor and timelock settings
type DAORenderer struct {
	out   io.Writer
	names NameFunc
}

// NewDAORenderer creates a new DAO renderer
func NewDAORenderer(out io.Writer, names NameFunc) *DAORenderer {
	return &DAORenderer{out: out, names: names}
}

func (r *DAORenderer) name(s *usecase.DAOSettings) NameFunc {
	return func(a common.Address) string {
		if n, ok := s.Names[a]; ok {
			return n
		}
		return r.names(a)
	}
}

// Render renders the settings
func (r *DAORenderer) Render(s *usecase.DAOSettings) error {
	name := r.name(s)

	fmt.Fprintln(r.out, sectionHeaderStyle.Sprint("Governor"))
	keyValues(r.out, [][2]string{
		{"Admin", named(s.Admin, name(s.Admin))},
		{"Pending admin", named(s.PendingAdmin, name(s.PendingAdmin))},
		{"Vetoer", named(s.Vetoer, name(s.Vetoer))},
		{"Voting delay", fmt.Sprintf("%d blocks", s.Params.VotingDelay)},
		{"Voting period", fmt.Sprintf("%d blocks", s.Params.VotingPeriod)},
		{"Proposal threshold", fmt.Sprintf("%d votes (max %d)", s.Params.ProposalThreshold, s.ProposalThresholdMax)},
		{"Quorum", fmt.Sprintf("%d bps (%d votes at %d supply)", s.Params.QuorumVotesBPS, s.QuorumVotes, s.TotalSupply)},
		{"Proposals", fmt.Sprintf("%d", s.ProposalCount)},
	})

	fmt.Fprintln(r.out)
	fmt.Fprintln(r.out, sectionHeaderStyle.Sprint("Timelock"))
	keyValues(r.out, [][2]string{
		{"Admin", named(s.TimelockAdmin, name(s.TimelockAdmin))},
		{"Delay", formatDuration(s.TimelockDelay)},
		{"Treasury", amountStyle.Sprint(domain.FormatAmount(s.Treasury))},
	})

	if len(s.Queued) > 0 {
		fmt.Fprintln(r.out)
		fmt.Fprintln(r.out, sectionHeaderStyle.Sprint("Queued transactions"))
		t := newTable(12, 20, 12)
		t.AppendHeader(table.Row{"HASH", "TARGET", "ETA", "CALL"})
		for _, q := range s.Queued {
			t.AppendRow(table.Row{
				q.Hash.Hex()[:10],
				named(q.Target, name(q.Target)),
				formatTimestamp(q.Eta),
				q.Signature,
			})
		}
		fmt.Fprintln(r.out, t.Render())
	}
	return nil
}

// RenderSet renders a changed setting followed by the new settings
func (r *DAORenderer) RenderSet(result *usecase.SetParameterResult) error {
	renderTx(r.out, result.Tx, r.names)
	fmt.Fprintln(r.out, FormatSuccess(fmt.Sprintf("%s updated", Title(string(result.Parameter)))))
	fmt.Fprintln(r.out)
	return r.Render(result.Settings)
}

var _ Renderer[*usecase.DAOSettings] = (*DAORenderer)(nil)
