package render

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/trebuchet-org/rarity-society/internal/usecase"
)

// TokenRenderer renders token ownership changes and voting power
type TokenRenderer struct {
	out   io.Writer
	names NameFunc
}

// NewTokenRenderer creates a new token renderer
func NewTokenRenderer(out io.Writer, names NameFunc) *TokenRenderer {
	return &TokenRenderer{out: out, names: names}
}

// RenderManage renders a mint, transfer or burn
func (r *TokenRenderer) RenderManage(result *usecase.ManageTokenResult) error {
	renderTx(r.out, result.Tx, r.names)
	fmt.Fprintln(r.out, FormatSuccess(fmt.Sprintf("%s token #%d (supply %d)",
		Title(string(result.Operation)), result.TokenID, result.TotalSupply)))
	return nil
}

// RenderDelegate renders a delegation
func (r *TokenRenderer) RenderDelegate(result *usecase.DelegateVotesResult) error {
	renderTx(r.out, result.Tx, r.names)
	if result.Signature != "" {
		fmt.Fprintf(r.out, "  %s %s\n", labelStyle.Sprint("signature:"), result.Signature)
	}
	fmt.Fprintln(r.out, FormatSuccess(fmt.Sprintf("%s delegated to %s, who now has %d votes",
		named(result.Delegator, r.names(result.Delegator)),
		named(result.Delegatee, r.names(result.Delegatee)),
		result.Votes)))
	return nil
}

// RenderVotes renders an account's voting ledger
func (r *TokenRenderer) RenderVotes(result *usecase.ShowVotesResult) error {
	fmt.Fprintln(r.out, sectionHeaderStyle.Sprint("Voting power"))
	rows := [][2]string{
		{"Account", named(result.Address, result.Name)},
		{"Delegate", named(result.Delegate, r.names(result.Delegate))},
		{"Tokens", fmt.Sprintf("%d", result.Tokens)},
		{"Current votes", fmt.Sprintf("%d", result.CurrentVotes)},
		{"Nonce", fmt.Sprintf("%d", result.Nonce)},
	}
	if result.PriorVotes != nil {
		rows = append(rows, [2]string{fmt.Sprintf("Votes at block %d", result.Block), fmt.Sprintf("%d", *result.PriorVotes)})
	}
	keyValues(r.out, rows)

	if len(result.Checkpoints) == 0 {
		return nil
	}
	fmt.Fprintln(r.out)
	fmt.Fprintln(r.out, sectionHeaderStyle.Sprint("Checkpoints"))
	t := newTable(4, 10)
	t.AppendHeader(table.Row{"#", "FROM BLOCK", "VOTES"})
	for i, c := range result.Checkpoints {
		t.AppendRow(table.Row{i, c.FromBlock, c.Votes})
	}
	fmt.Fprintln(r.out, t.Render())
	return nil
}
