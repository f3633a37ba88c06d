package render

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/trebuchet-org/rarity-society/internal/usecase"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Color styles shared by the renderers
var (
	addressStyle       = color.New(color.FgWhite)
	nameStyle          = color.New(color.FgCyan)
	timestampStyle     = color.New(color.Faint)
	labelStyle         = color.New(color.Faint)
	sectionHeaderStyle = color.New(color.Bold, color.FgHiWhite)
	amountStyle        = color.New(color.FgYellow)
	successStyle       = color.New(color.FgGreen)
	failureStyle       = color.New(color.FgRed)
	pendingStyle       = color.New(color.FgYellow)
	eventStyle         = color.New(color.FgMagenta)
)

var titleCaser = cases.Title(language.English)

// FormatWarning formats a warning message with the warning icon
func FormatWarning(message string) string {
	return color.New(color.FgYellow).Sprintf("⚠️  %s", message)
}

// FormatError formats an error message with the error icon. Only the last
// link of a wrapped error chain is shown.
func FormatError(message string) string {
	parts := strings.Split(message, ": ")
	msg := parts[len(parts)-1]
	if len(msg) > 0 {
		msg = strings.ToUpper(msg[:1]) + msg[1:]
	}
	return color.New(color.FgRed).Sprintf("❌ %s", msg)
}

// FormatSuccess formats a success message with the success icon
func FormatSuccess(message string) string {
	return color.New(color.FgGreen).Sprintf("✅ %s", message)
}

// Title title-cases a kebab or lower case word, e.g. "settle-and-create"
// becomes "Settle And Create"
func Title(s string) string {
	return titleCaser.String(strings.ReplaceAll(s, "-", " "))
}

// named renders an address with its account or contract name when it has one
func named(addr common.Address, name string) string {
	if addr == (common.Address{}) {
		return labelStyle.Sprint("none")
	}
	if name == "" {
		return addressStyle.Sprint(addr.Hex())
	}
	return fmt.Sprintf("%s %s", nameStyle.Sprint(name), labelStyle.Sprintf("(%s)", addr.Hex()))
}

// formatTimestamp renders a unix timestamp in UTC
func formatTimestamp(ts uint64) string {
	return time.Unix(int64(ts), 0).UTC().Format("2006-01-02 15:04:05")
}

// formatDuration renders whole seconds as a Go duration, e.g. "9m30s"
func formatDuration(seconds uint64) string {
	return (time.Duration(seconds) * time.Second).String()
}

// newTable creates a borderless table in the style every list uses
func newTable(widths ...int) table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleLight)
	t.Style().Options.SeparateRows = false
	t.Style().Options.DrawBorder = false
	t.Style().Options.SeparateHeader = false
	t.Style().Options.SeparateColumns = false
	t.Style().Box = table.BoxStyle{
		PaddingRight: "   ",
	}

	colConfigs := make([]table.ColumnConfig, len(widths))
	for i, width := range widths {
		colConfigs[i] = table.ColumnConfig{
			Number:   i + 1,
			Align:    text.AlignLeft,
			WidthMin: width,
		}
	}
	t.SetColumnConfigs(colConfigs)
	return t
}

// keyValues prints aligned "label: value" lines
func keyValues(out io.Writer, rows [][2]string) {
	width := 0
	for _, row := range rows {
		width = max(width, len(row[0]))
	}
	for _, row := range rows {
		fmt.Fprintf(out, "  %s %s\n", labelStyle.Sprintf("%-*s", width+1, row[0]+":"), row[1])
	}
}

// renderTx prints the one-line summary of a transaction and its events
func renderTx(out io.Writer, tx *usecase.TxResult, names func(common.Address) string) {
	if tx == nil || tx.Receipt == nil {
		return
	}
	r := tx.Receipt
	fmt.Fprintf(out, "%s block %d, gas %d, from %s\n",
		successStyle.Sprint("✓"), r.Block, r.GasUsed, named(tx.From, names(tx.From)))
	for _, l := range r.Logs {
		fmt.Fprintf(out, "    %s %s\n", eventStyle.Sprint("↳"), l.Event.String())
	}
}
