package render

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/trebuchet-org/rarity-society/internal/usecase"
)

// EventsRenderer renders the event log as a table
type EventsRenderer struct {
	out io.Writer
}

// NewEventsRenderer creates a new events renderer
func NewEventsRenderer(out io.Writer) *EventsRenderer {
	return &EventsRenderer{out: out}
}

// Render renders the events in emission order
func (r *EventsRenderer) Render(result *usecase.ListEventsResult) error {
	if len(result.Records) == 0 {
		fmt.Fprintln(r.out, "No events found")
		return nil
	}

	t := newTable(6, 10, 22)
	t.AppendHeader(table.Row{"BLOCK", "CONTRACT", "EVENT", "ARGS"})
	for _, rec := range result.Records {
		contract := rec.Contract
		if contract == "" {
			contract = rec.Address.Hex()[:10]
		}
		t.AppendRow(table.Row{
			fmt.Sprintf("%d.%d", rec.Block, rec.LogIndex),
			nameStyle.Sprint(contract),
			eventStyle.Sprint(rec.Name),
			rec.Summary(),
		})
	}
	fmt.Fprintln(r.out, t.Render())
	fmt.Fprintln(r.out)
	fmt.Fprintln(r.out, timestampStyle.Sprintf("%d events, block %d", len(result.Records), result.Block))
	return nil
}

var _ Renderer[*usecase.ListEventsResult] = (*EventsRenderer)(nil)
