package cli

import (
	"github.com/spf13/cobra"

	"github.com/eth-infinitism/aadeploy/internal/app"
	"github.com/eth-infinitism/aadeploy/internal/cli/render"
	"github.com/eth-infinitism/aadeploy/internal/usecase"
)

// NewNodeCmd creates the node command with subcommands
func NewNodeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "node",
		Short: "Manage a local anvil node",
		Long: `Manage a local anvil node for testing deployments. The deterministic
deployment proxy is installed on start when anvil does not ship it, so
deployments to the node get the same addresses as on public chains.

The node name is also the network whose recorded EntryPoint 'status' checks.`,
	}

	cmd.AddCommand(newNodeSubCmd("start", "Start local anvil node",
		"Start a local anvil node with the deterministic deployment proxy. Fails if already running.",
		func(cmd *cobra.Command, a *app.App, params usecase.NodeParams) error {
			report, err := a.ManageNode.Start(cmd.Context(), params)
			if err != nil {
				return err
			}
			return renderNode(cmd, a, report, (*render.NodeRenderer).RenderStart)
		}))
	cmd.AddCommand(newNodeSubCmd("stop", "Stop local anvil node", "Stop the local anvil node if running.",
		func(cmd *cobra.Command, a *app.App, params usecase.NodeParams) error {
			report, err := a.ManageNode.Stop(cmd.Context(), params)
			if err != nil {
				return err
			}
			return renderNode(cmd, a, report, (*render.NodeRenderer).RenderStop)
		}))
	cmd.AddCommand(newNodeSubCmd("restart", "Restart local anvil node",
		"Restart the local anvil node. Anvil keeps no state, so earlier deployments are gone.",
		func(cmd *cobra.Command, a *app.App, params usecase.NodeParams) error {
			report, err := a.ManageNode.Restart(cmd.Context(), params)
			if err != nil {
				return err
			}
			return renderNode(cmd, a, report, (*render.NodeRenderer).RenderStart)
		}))
	cmd.AddCommand(newNodeSubCmd("status", "Show anvil status",
		"Show status of the local anvil node, its chain id, the deployment proxy and the recorded EntryPoint.",
		func(cmd *cobra.Command, a *app.App, params usecase.NodeParams) error {
			report, err := a.ManageNode.Status(cmd.Context(), params)
			if err != nil {
				return err
			}
			return renderNode(cmd, a, report, (*render.NodeRenderer).RenderStatus)
		}))
	cmd.AddCommand(newNodeSubCmd("logs", "Show anvil logs", "Follow the log file of the local anvil node.",
		func(cmd *cobra.Command, a *app.App, params usecase.NodeParams) error {
			report, err := a.ManageNode.Logs(cmd.Context(), params)
			if err != nil {
				return err
			}
			if err := render.NewNodeRenderer(cmd.OutOrStdout()).RenderLogsHeader(report); err != nil {
				return err
			}
			return a.ManageNode.FollowLogs(cmd.Context(), report, cmd.OutOrStdout())
		}))

	return cmd
}

// nodeFlags holds common flags for node commands
type nodeFlags struct {
	name    string
	port    string
	chainID string
}

func addNodeFlags(cmd *cobra.Command, flags *nodeFlags) {
	cmd.Flags().StringVar(&flags.name, "name", usecase.DefaultNodeName, "Instance name")
	cmd.Flags().StringVar(&flags.port, "port", usecase.DefaultNodePort, "RPC port to bind")
	cmd.Flags().StringVar(&flags.chainID, "chain-id", usecase.DefaultNodeChainID, "Chain ID to use for the instance")
}

type nodeRunFunc func(cmd *cobra.Command, a *app.App, params usecase.NodeParams) error

func newNodeSubCmd(use, short, long string, run nodeRunFunc) *cobra.Command {
	flags := &nodeFlags{}

	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Long:  long,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := getApp(cmd)
			if err != nil {
				return err
			}
			return run(cmd, a, usecase.NodeParams{
				Name:    flags.name,
				Port:    flags.port,
				ChainID: flags.chainID,
			})
		},
	}

	addNodeFlags(cmd, flags)
	return cmd
}

func renderNode(cmd *cobra.Command, a *app.App, report *usecase.NodeReport, fn func(*render.NodeRenderer, *usecase.NodeReport) error) error {
	if a.Config.JSON {
		return render.RenderJSON(cmd.OutOrStdout(), report)
	}
	return fn(render.NewNodeRenderer(cmd.OutOrStdout()), report)
}
