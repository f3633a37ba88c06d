package render

import (
	"fmt"
	"io"
	"sort"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/samber/lo"
	"github.com/trebuchet-org/rarity-society/internal/domain"
	"github.com/trebuchet-org/rarity-society/internal/usecase"
)

// ChainRenderer renders the host status
type ChainRenderer struct {
	out io.Writer
}

// NewChainRenderer creates a new chain renderer
func NewChainRenderer(out io.Writer) *ChainRenderer {
	return &ChainRenderer{out: out}
}

// Render renders the status after a host operation
func (r *ChainRenderer) Render(result *usecase.ChainStatusResult) error {
	switch result.Operation {
	case usecase.ChainMine, usecase.ChainWarp, usecase.ChainAutomine:
		fmt.Fprintln(r.out, FormatSuccess(fmt.Sprintf("Block %d at %s", result.Block, formatTimestamp(result.Time))))
		if result.Operation == usecase.ChainAutomine {
			fmt.Fprintf(r.out, "  automine %s\n", onOff(result.Automine))
		}
		return nil
	}

	fmt.Fprintln(r.out, sectionHeaderStyle.Sprint("Chain"))
	keyValues(r.out, [][2]string{
		{"Chain ID", fmt.Sprintf("%d", result.ChainID)},
		{"Block", fmt.Sprintf("%d", result.Block)},
		{"Time", formatTimestamp(result.Time)},
		{"Automine", onOff(result.Automine)},
		{"Treasury", amountStyle.Sprint(domain.FormatAmount(result.Treasury))},
	})

	fmt.Fprintln(r.out)
	fmt.Fprintln(r.out, sectionHeaderStyle.Sprint("Contracts"))
	sys := result.System
	keyValues(r.out, [][2]string{
		{"token", sys.Token.Hex()},
		{"governor", sys.Governor.Hex()},
		{"timelock", sys.Timelock.Hex()},
		{"auction", sys.AuctionHouse.Hex()},
		{"weth", sys.WETH.Hex()},
	})
	aliases := lo.Keys(sys.Fixtures)
	sort.Strings(aliases)
	for _, alias := range aliases {
		keyValues(r.out, [][2]string{{alias, sys.Fixtures[alias].Hex()}})
	}

	if len(result.Accounts) > 0 {
		fmt.Fprintln(r.out)
		t := newTable(10, 42)
		t.AppendHeader(table.Row{"ACCOUNT", "ADDRESS", "BALANCE", "WETH", "TOKENS", "VOTES"})
		for _, acc := range result.Accounts {
			t.AppendRow(table.Row{
				nameStyle.Sprint(acc.Name),
				acc.Address.Hex(),
				domain.FormatAmount(acc.Balance),
				domain.FormatAmount(acc.WETH),
				acc.Tokens,
				acc.Votes,
			})
		}
		fmt.Fprintln(r.out, t.Render())
	}
	return nil
}

func onOff(b bool) string {
	if b {
		return successStyle.Sprint("on")
	}
	return pendingStyle.Sprint("off")
}

var _ Renderer[*usecase.ChainStatusResult] = (*ChainRenderer)(nil)
