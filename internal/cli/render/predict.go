package render

import (
	"fmt"
	"io"

	"github.com/flash-protocol/flash-deployer/internal/usecase"
	"github.com/jedib0t/go-pretty/v6/table"
)

// PredictRenderer renders predicted CREATE addresses
type PredictRenderer struct {
	out io.Writer
}

// NewPredictRenderer creates a new predict renderer
func NewPredictRenderer(out io.Writer) *PredictRenderer {
	return &PredictRenderer{out: out}
}

// Render prints one address per nonce
func (r *PredictRenderer) Render(result *usecase.PredictAddressResult) error {
	fmt.Fprintf(r.out, "Deployer: %s\n\n", result.From.Hex())

	t := newTable(r.out, table.Row{"Nonce", "Address"})
	for _, p := range result.Predictions {
		t.AppendRow(table.Row{p.Nonce, p.Address.Hex()})
	}
	t.Render()
	return nil
}
