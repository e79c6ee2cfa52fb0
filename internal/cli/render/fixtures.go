package render

import (
	"fmt"
	"io"

	"github.com/flash-protocol/flash-deployer/internal/usecase"
	"github.com/jedib0t/go-pretty/v6/table"
)

// FixturesRenderer renders the deployed fixture set
type FixturesRenderer struct {
	out io.Writer
}

// NewFixturesRenderer creates a new fixtures renderer
func NewFixturesRenderer(out io.Writer) *FixturesRenderer {
	return &FixturesRenderer{out: out}
}

// Render prints the dev accounts and the fixtures in deployment order
func (r *FixturesRenderer) Render(result *usecase.RunFixturesResult) error {
	fmt.Fprintf(r.out, "Dev chain %d\n\n", result.ChainID)

	accounts := newTable(r.out, table.Row{"Account", "Address"})
	for i, account := range result.Accounts {
		accounts.AppendRow(table.Row{i, account.Hex()})
	}
	accounts.Render()
	fmt.Fprintln(r.out)

	t := newTable(r.out, table.Row{"Contract", "Address", "Deployer", "Tx", "Gas"})
	for _, d := range result.Deployments {
		t.AppendRow(table.Row{
			contractStyle.Sprint(d.Contract),
			d.Address.Hex(),
			d.Deployer.Hex(),
			shortHash(d.TxHash),
			formatGas(d.GasUsed),
		})
	}
	t.Render()
	fmt.Fprintln(r.out)
	fmt.Fprintln(r.out, FormatSuccess(fmt.Sprintf("%d fixtures deployed at their predicted addresses", len(result.Deployments))))
	return nil
}
