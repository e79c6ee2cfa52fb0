package render

import (
	"fmt"
	"io"

	"github.com/ethereum/go-ethereum/common"
	"github.com/fatih/color"
	"github.com/flash-protocol/flash-deployer/internal/usecase"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/samber/lo"
)

// BootstrapRenderer renders the bootstrap plan or its execution
type BootstrapRenderer struct {
	out io.Writer
}

// NewBootstrapRenderer creates a new bootstrap renderer
func NewBootstrapRenderer(out io.Writer) *BootstrapRenderer {
	return &BootstrapRenderer{out: out}
}

// Render prints one row per serial step
func (r *BootstrapRenderer) Render(result *usecase.BootstrapPoolsResult) error {
	fmt.Fprintf(r.out, "Network:  %s\n", result.Network)
	if result.FlashApp != (common.Address{}) {
		fmt.Fprintf(r.out, "FlashApp: %s\n", result.FlashApp.Hex())
	}
	if result.GasPrice != nil {
		fmt.Fprintf(r.out, "Gas price: %s wei\n", result.GasPrice)
	}
	fmt.Fprintln(r.out)

	t := newTable(r.out, table.Row{"#", "Action", "Target", "Amount", "Status", "Tx", "Gas"})
	for i, step := range result.Steps {
		t.AppendRow(table.Row{
			i + 1,
			step.Action,
			step.Target.Hex(),
			stepAmount(step),
			stepStatus(step),
			shortHash(step.TxHash),
			formatGas(step.GasUsed),
		})
	}
	t.Render()
	fmt.Fprintln(r.out)

	if !result.Executed {
		fmt.Fprintln(r.out, FormatWarning(fmt.Sprintf("Dry run: re-run with --execute to send %d transactions", len(result.Steps))))
		return nil
	}

	done := lo.CountBy(result.Steps, func(s usecase.BootstrapStep) bool { return s.Status == usecase.StepDone })
	gas := lo.SumBy(result.Steps, func(s usecase.BootstrapStep) uint64 { return s.GasUsed })
	fmt.Fprintln(r.out, FormatSuccess(fmt.Sprintf("%d transactions sent, %s gas", done, formatGas(gas))))
	return nil
}

func stepAmount(step usecase.BootstrapStep) string {
	switch {
	case step.Amount != nil:
		return formatWei(step.Amount)
	case step.Liquidity != nil:
		return fmt.Sprintf("FLASH %s / ALT %s", formatUnits(step.Liquidity.AmountFlash), formatUnits(step.Liquidity.AmountAlt))
	default:
		return ""
	}
}

func stepStatus(step usecase.BootstrapStep) string {
	switch step.Status {
	case usecase.StepDone:
		return color.New(color.FgGreen).Sprint("✓ done")
	case usecase.StepSkipped:
		return color.New(color.FgYellow).Sprintf("skipped (%s)", step.Note)
	default:
		return color.New(color.Faint).Sprint("planned")
	}
}
