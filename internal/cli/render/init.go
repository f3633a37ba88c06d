package render

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/trebuchet-org/rarity-society/internal/usecase"
)

// InitRenderer renders init command results
type InitRenderer struct {
	out io.Writer
}

// NewInitRenderer creates a new init renderer
func NewInitRenderer(out io.Writer) *InitRenderer {
	return &InitRenderer{out: out}
}

// Render renders the deployed system
func (r *InitRenderer) Render(result *usecase.InitSystemResult) error {
	color.New(color.FgGreen, color.Bold).Fprintln(r.out, "🎉 Rarity Society deployed!")
	fmt.Fprintln(r.out)

	sys := result.System
	keyValues(r.out, [][2]string{
		{"Token", sys.Token.Hex()},
		{"Governor", sys.Governor.Hex()},
		{"Timelock", sys.Timelock.Hex()},
		{"Auction house", sys.AuctionHouse.Hex()},
		{"WETH", sys.WETH.Hex()},
	})
	fmt.Fprintln(r.out)

	started := "paused"
	if result.Started {
		started = "first round live"
	}
	fmt.Fprintf(r.out, "Auction house owned by %s, %s\n", nameStyle.Sprint(result.Owner), started)
	fmt.Fprintf(r.out, "Block %d at %s\n", result.Block, formatTimestamp(result.Time))

	if result.ConfigSource != "" {
		fmt.Fprintf(r.out, "Parameters from %s\n", result.ConfigSource)
	}
	if result.ConfigWritten != "" {
		fmt.Fprintln(r.out, FormatSuccess("Wrote starter parameters to "+result.ConfigWritten))
	}

	fmt.Fprintln(r.out)
	color.New(color.FgCyan, color.Bold).Fprintln(r.out, "📋 Funded accounts:")
	for _, acc := range result.Accounts {
		signs := ""
		if !acc.CanSign {
			signs = labelStyle.Sprint(" (address only)")
		}
		fmt.Fprintf(r.out, "  • %s %s%s\n", nameStyle.Sprintf("%-10s", acc.Name), acc.Address.Hex(), signs)
	}
	return nil
}

var _ Renderer[*usecase.InitSystemResult] = (*InitRenderer)(nil)
