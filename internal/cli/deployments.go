package cli

import (
	"github.com/spf13/cobra"

	"github.com/eth-infinitism/aadeploy/internal/cli/render"
	"github.com/eth-infinitism/aadeploy/internal/usecase"
)

// NewDeploymentsCmd creates the deployments command
func NewDeploymentsCmd() *cobra.Command {
	params := usecase.ListDeploymentsParams{}

	cmd := &cobra.Command{
		Use:     "deployments",
		Aliases: []string{"ls"},
		Short:   "List recorded deployments",
		Long: `List the deployment records stored under deployments/<network>/.

By default only the selected network is listed. Use --all for every network
with records and --check to verify that each recorded address still holds code
on the selected network.`,
		Annotations: map[string]string{annotationNetwork: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			result, err := app.ListDeployments.Run(cmd.Context(), params)
			if err != nil {
				return err
			}

			if app.Config.JSON {
				return render.RenderJSON(cmd.OutOrStdout(), result)
			}
			return render.NewDeploymentsRenderer(cmd.OutOrStdout()).RenderDeploymentList(result)
		},
	}

	cmd.Flags().BoolVar(&params.All, "all", false, "List deployments on every network")
	cmd.Flags().BoolVar(&params.Check, "check", false, "Check that deployed addresses still hold code")

	return cmd
}
