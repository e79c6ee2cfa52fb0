package render

import (
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"
	"github.com/flash-protocol/flash-deployer/internal/usecase"
	"github.com/jedib0t/go-pretty/v6/table"
)

// ScenarioRenderer renders the scenario report
type ScenarioRenderer struct {
	out io.Writer
}

// NewScenarioRenderer creates a new scenario renderer
func NewScenarioRenderer(out io.Writer) *ScenarioRenderer {
	return &ScenarioRenderer{out: out}
}

// Render prints every step with its outcome, then the totals
func (r *ScenarioRenderer) Render(result *usecase.ScenarioResult) error {
	t := newTable(r.out, table.Row{"Step", "Expectation", "Result", "Gas", "Time"})
	for _, step := range result.Steps {
		t.AppendRow(table.Row{
			step.Name,
			step.Expectation,
			outcome(step.Outcome),
			formatGas(step.GasUsed),
			formatDuration(step),
		})
	}
	t.Render()
	fmt.Fprintln(r.out)

	for _, step := range result.Steps {
		if step.Outcome == usecase.OutcomeFailed {
			fmt.Fprintln(r.out, FormatError(fmt.Sprintf("%s: %s", step.Name, step.Error)))
		}
	}

	summary := fmt.Sprintf("%d passed, %d failed", result.Passed, result.Failed)
	if result.Failed > 0 {
		fmt.Fprintln(r.out, color.New(color.FgRed, color.Bold).Sprint(summary))
		return nil
	}
	fmt.Fprintln(r.out, FormatSuccess(summary))
	return nil
}

func outcome(o usecase.StepOutcome) string {
	switch o {
	case usecase.OutcomePassed:
		return color.New(color.FgGreen).Sprint("✓ passed")
	case usecase.OutcomeFailed:
		return color.New(color.FgRed).Sprint("✗ failed")
	default:
		return color.New(color.Faint).Sprint("skipped")
	}
}

func formatDuration(step usecase.StepResult) string {
	if step.Outcome == usecase.OutcomeSkipped {
		return ""
	}
	return step.Duration.Round(time.Millisecond).String()
}
