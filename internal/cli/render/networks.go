package render

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/eth-infinitism/aadeploy/internal/usecase"
)

// NetworksRenderer renders network lists
type NetworksRenderer struct {
	out io.Writer
}

// NewNetworksRenderer creates a new networks renderer
func NewNetworksRenderer(out io.Writer) *NetworksRenderer {
	return &NetworksRenderer{out: out}
}

// RenderNetworksList renders the configured networks as a table
func (r *NetworksRenderer) RenderNetworksList(result *usecase.ListNetworksResult) error {
	if len(result.Networks) == 0 {
		fmt.Fprintln(r.out, "No networks configured in deploy.toml [networks]")
		return nil
	}

	fmt.Fprintln(r.out, "🌐 Available Networks:")
	fmt.Fprintln(r.out)

	t := table.NewWriter()
	t.SetOutputMirror(r.out)
	t.SetStyle(table.StyleLight)
	t.Style().Options.DrawBorder = false
	t.AppendHeader(table.Row{"Network", "Chain ID", "URL", "Deterministic", "Proxy"})

	for _, n := range result.Networks {
		name := n.Name
		if n.Default {
			name += color.New(color.Faint).Sprint(" (default)")
		}

		if n.Error != nil {
			t.AppendRow(table.Row{name, color.New(color.FgRed).Sprintf("❌ %v", n.Error), "", "", ""})
			continue
		}

		chainID := "-"
		if n.ChainID != 0 {
			chainID = fmt.Sprintf("%d", n.ChainID)
		}

		t.AppendRow(table.Row{
			name,
			chainID,
			n.Network.URL,
			yesNo(!n.Network.NoDeterministicDeployment),
			yesNo(n.ProxyDeployed),
		})
	}

	t.Render()
	return nil
}

func yesNo(b bool) string {
	if b {
		return color.New(color.FgGreen).Sprint("✓")
	}
	return color.New(color.Faint).Sprint("✗")
}
