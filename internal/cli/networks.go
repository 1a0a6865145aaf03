package cli

import (
	"github.com/spf13/cobra"

	"github.com/eth-infinitism/aadeploy/internal/cli/render"
	"github.com/eth-infinitism/aadeploy/internal/usecase"
)

// NewNetworksCmd creates the networks command
func NewNetworksCmd() *cobra.Command {
	var offline bool

	cmd := &cobra.Command{
		Use:   "networks",
		Short: "List networks configured in deploy.toml",
		Long: `List the networks configured in the [networks] section of deploy.toml.

Each endpoint is queried for its chain ID and for the deterministic deployment
proxy unless --offline is given. Networks whose URL references an unset
environment variable are listed with the error.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			result, err := app.ListNetworks.Run(cmd.Context(), usecase.ListNetworksParams{Offline: offline})
			if err != nil {
				return err
			}

			return render.NewNetworksRenderer(cmd.OutOrStdout()).RenderNetworksList(result)
		},
	}

	cmd.Flags().BoolVar(&offline, "offline", false, "Do not query the RPC endpoints")

	return cmd
}
