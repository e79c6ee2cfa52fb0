package render

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/flash-protocol/flash-deployer/internal/usecase"
)

var labelStyle = color.New(color.Faint)

// DeployRenderer renders a single deployment
type DeployRenderer struct {
	out io.Writer
}

// NewDeployRenderer creates a new deploy renderer
func NewDeployRenderer(out io.Writer) *DeployRenderer {
	return &DeployRenderer{out: out}
}

// Render prints the deployed address and its transaction
func (r *DeployRenderer) Render(result *usecase.DeployContractResult) error {
	record := result.Record
	fmt.Fprintln(r.out, FormatSuccess(fmt.Sprintf("Deployed %s", record.ContractName)))
	fmt.Fprintln(r.out)

	r.field("Address", color.New(color.FgGreen, color.Bold).Sprint(record.Address.Hex()))
	r.field("Network", fmt.Sprintf("%s (chain %d)", record.Network, record.ChainID))
	r.field("Deployer", record.Deployer.Hex())
	r.field("Tx", record.TxHash.Hex())
	r.field("Block", fmt.Sprintf("%d", record.BlockNumber))
	if result.Receipt != nil {
		r.field("Gas used", formatGas(result.Receipt.GasUsed))
	}
	if result.Artifact != nil {
		r.field("Artifact", result.Artifact.Key())
	}
	return nil
}

func (r *DeployRenderer) field(label, value string) {
	fmt.Fprintf(r.out, "  %s %s\n", labelStyle.Sprintf("%-10s", label+":"), value)
}
