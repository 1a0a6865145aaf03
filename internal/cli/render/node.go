package render

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/eth-infinitism/aadeploy/internal/usecase"
)

// NodeRenderer renders local node reports
type NodeRenderer struct {
	out io.Writer
}

// NewNodeRenderer creates a new node renderer
func NewNodeRenderer(out io.Writer) *NodeRenderer {
	return &NodeRenderer{out: out}
}

func (r *NodeRenderer) println(c *color.Color, format string, args ...any) {
	fmt.Fprintln(r.out, c.Sprintf(format, args...))
}

// RenderStart renders the result of start and restart
func (r *NodeRenderer) RenderStart(report *usecase.NodeReport) error {
	r.println(color.New(color.FgGreen), "✅ Anvil '%s' running with PID %d", report.Instance.Name, report.Status.PID)
	r.println(color.New(color.FgYellow), "📋 Logs: %s", report.Status.LogFile)
	r.println(color.New(color.FgBlue), "🌐 RPC URL: %s", report.Status.RPCURL)
	if report.ProxyInstalled {
		r.println(color.New(color.FgGreen), "✅ Installed deterministic deployment proxy at %s", report.Status.ProxyAddress)
	}
	r.renderReadiness(report)
	return nil
}

// RenderStop renders the result of stop
func (r *NodeRenderer) RenderStop(report *usecase.NodeReport) error {
	if report.WasRunning {
		r.println(color.New(color.FgGreen), "✅ Anvil '%s' stopped", report.Instance.Name)
	} else {
		r.println(color.New(color.FgYellow), "Anvil '%s' is not running", report.Instance.Name)
	}
	return nil
}

// RenderStatus renders the result of status
func (r *NodeRenderer) RenderStatus(report *usecase.NodeReport) error {
	r.println(color.New(color.FgCyan, color.Bold), "📊 Anvil Status ('%s'):", report.Instance.Name)

	status := report.Status
	if !status.Running {
		r.println(color.New(color.FgRed), "Status: 🔴 Not running")
		r.println(color.New(color.FgHiBlack), "PID file: %s", report.Instance.PidFile)
		r.println(color.New(color.FgHiBlack), "Log file: %s", report.Instance.LogFile)
		return nil
	}

	r.println(color.New(color.FgGreen), "Status: 🟢 Running (PID %d)", status.PID)
	r.println(color.New(color.FgBlue), "RPC URL: %s", status.RPCURL)
	r.println(color.New(color.FgYellow), "Log file: %s", status.LogFile)
	if !status.RPCHealthy {
		r.println(color.New(color.FgRed), "RPC Health: ❌ Not responding")
		return nil
	}
	r.println(color.New(color.FgGreen), "RPC Health: ✅ Responding")

	if status.ProxyDeployed {
		r.println(color.New(color.FgGreen), "Deployment proxy: ✅ Deployed at %s", status.ProxyAddress)
	} else {
		r.println(color.New(color.FgRed), "Deployment proxy: ❌ Not deployed (run 'aadeploy node restart')")
	}

	if ep := report.EntryPoint; ep != nil {
		if ep.Deployed {
			r.println(color.New(color.FgGreen), "EntryPoint: ✅ %s", ep.Address)
		} else {
			r.println(color.New(color.FgYellow), "EntryPoint: ✗ no code at recorded %s", ep.Address)
		}
	}
	r.renderReadiness(report)
	return nil
}

func (r *NodeRenderer) renderReadiness(report *usecase.NodeReport) {
	switch {
	case report.Status.Error != "":
		fmt.Fprintln(r.out, FormatError(report.Status.Error))
	case report.ChainIDMismatch:
		r.println(color.New(color.FgRed), "Chain ID: %d, expected %s", report.ChainID, report.Instance.ChainID)
	case report.Ready:
		r.println(color.New(color.FgGreen), "Chain ID: %d, ready for deterministic deployments", report.ChainID)
	}
}

// RenderLogsHeader renders the header for logs streaming
func (r *NodeRenderer) RenderLogsHeader(report *usecase.NodeReport) error {
	r.println(color.New(color.FgCyan, color.Bold), "📋 Showing anvil '%s' logs (Ctrl+C to exit):", report.Instance.Name)
	r.println(color.New(color.FgHiBlack), "Log file: %s\n", report.Status.LogFile)
	return nil
}
