package render

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/eth-infinitism/aadeploy/internal/domain/models"
	"github.com/eth-infinitism/aadeploy/internal/usecase"
)

// EntryPointMarker prefixes the line carrying the EntryPoint address.
// Scripts grep for it, so it is printed even in quiet terminals.
const EntryPointMarker = "==entrypoint addr="

// DeployRenderer renders the outcome of a deploy run
type DeployRenderer struct {
	out io.Writer
}

// NewDeployRenderer creates a new deploy renderer
func NewDeployRenderer(out io.Writer) *DeployRenderer {
	return &DeployRenderer{out: out}
}

// Render prints one line per contract followed by the EntryPoint marker line
func (r *DeployRenderer) Render(result *usecase.DeployContractsResult) error {
	mode := "create"
	if result.Deterministic {
		mode = "deterministic"
	}

	fmt.Fprintf(r.out, "%s %s (chain %d, %s)\n",
		color.New(color.Bold).Sprint("Network:"), result.Network.Name, result.ChainID, mode)
	fmt.Fprintf(r.out, "%s %s\n", color.New(color.Bold).Sprint("Deployer:"), result.Deployer.Hex())
	if result.ProxyInstalled {
		fmt.Fprintln(r.out, FormatSuccess("deterministic deployment proxy installed"))
	}

	for _, d := range result.Deployments {
		fmt.Fprintln(r.out, r.deploymentLine(d))
	}

	if ep := result.EntryPoint(); ep != nil {
		fmt.Fprintf(r.out, "%s %s\n", EntryPointMarker, ep.Address)
	}
	return nil
}

func (r *DeployRenderer) deploymentLine(d *models.Deployment) string {
	name := color.New(color.FgGreen, color.Bold).Sprint(d.ContractName)
	if d.Reused {
		return fmt.Sprintf("reusing %s at %s", name, d.Address)
	}

	line := fmt.Sprintf("deployed %s at %s", name, d.Address)
	if d.Receipt != nil {
		line += color.New(color.Faint).Sprintf(" (tx %s, gas %d)", d.TransactionHash, d.Receipt.GasUsed)
	}
	return line
}
