package render

import (
	"fmt"
	"io"

	"github.com/trebuchet-org/rarity-society/internal/usecase"
)

// ScenarioRenderer renders the steps a scenario ran
type ScenarioRenderer struct {
	out io.Writer
}

// NewScenarioRenderer creates a new scenario renderer
func NewScenarioRenderer(out io.Writer) *ScenarioRenderer {
	return &ScenarioRenderer{out: out}
}

// Render renders every step with its block and events
func (r *ScenarioRenderer) Render(result *usecase.RunScenarioResult) error {
	header := sectionHeaderStyle.Sprint(result.Name)
	if result.DryRun {
		header += " " + pendingStyle.Sprint("[dry run]")
	}
	fmt.Fprintln(r.out, header)

	for _, step := range result.Steps {
		mark := successStyle.Sprint("✓")
		detail := ""
		switch {
		case step.Reverted != "":
			mark = pendingStyle.Sprint("↺")
			detail = labelStyle.Sprintf(" reverted as expected: %s", step.Reverted)
		case step.Address != nil:
			detail = labelStyle.Sprintf(" at %s", step.Address.Hex())
		case step.GasUsed > 0:
			detail = labelStyle.Sprintf(" gas %d", step.GasUsed)
		}
		fmt.Fprintf(r.out, "%s %2d. %s %s%s\n", mark, step.Index, step.Description,
			timestampStyle.Sprintf("(block %d)", step.Block), detail)
		for _, ev := range step.Events {
			fmt.Fprintf(r.out, "       %s %s\n", eventStyle.Sprint("↳"), ev)
		}
	}

	fmt.Fprintln(r.out)
	msg := fmt.Sprintf("%d steps ran", len(result.Steps))
	if result.DryRun {
		msg += ", world left unchanged"
	}
	fmt.Fprintln(r.out, FormatSuccess(msg))
	return nil
}

var _ Renderer[*usecase.RunScenarioResult] = (*ScenarioRenderer)(nil)
