package render

import (
	"fmt"
	"io"
	"net/url"

	"github.com/fatih/color"
	"github.com/flash-protocol/flash-deployer/internal/usecase"
	"github.com/jedib0t/go-pretty/v6/table"
)

// NetworksRenderer renders network lists
type NetworksRenderer struct {
	out io.Writer
}

// NewNetworksRenderer creates a new networks renderer
func NewNetworksRenderer(out io.Writer) *NetworksRenderer {
	return &NetworksRenderer{out: out}
}

// Render renders the configured networks, marking the selected one
func (r *NetworksRenderer) Render(result *usecase.ListNetworksResult) error {
	if len(result.Networks) == 0 {
		fmt.Fprintln(r.out, "No networks configured in flash.toml [networks]")
		return nil
	}

	fmt.Fprintln(r.out, "🌐 Available Networks:")
	fmt.Fprintln(r.out)

	t := newTable(r.out, table.Row{"", "Network", "Chain ID", "RPC", "Status"})
	for _, network := range result.Networks {
		marker := ""
		if network.Name == result.Current {
			marker = color.New(color.FgCyan).Sprint("*")
		}
		if network.Error != nil {
			t.AppendRow(table.Row{marker, network.Name, "-", "-", color.New(color.FgRed).Sprintf("❌ %v", network.Error)})
			continue
		}

		chainID := "auto"
		if network.Network.ChainID != 0 {
			chainID = fmt.Sprintf("%d", network.Network.ChainID)
		}
		status := "✅"
		if network.Network.Local {
			status = "✅ local"
		}
		t.AppendRow(table.Row{marker, network.Name, chainID, redactURL(network.Network.RPCURL), status})
	}
	t.Render()
	return nil
}

// redactURL keeps the scheme and host; paths often carry API keys
func redactURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return raw
	}
	if u.Path == "" || u.Path == "/" {
		return u.Scheme + "://" + u.Host
	}
	return u.Scheme + "://" + u.Host + "/…"
}
