package cli

import (
	"github.com/spf13/cobra"

	"github.com/eth-infinitism/aadeploy/internal/cli/render"
	"github.com/eth-infinitism/aadeploy/internal/usecase"
)

// NewDeployCmd creates the deploy command
func NewDeployCmd() *cobra.Command {
	var (
		simpleAccountFactory bool
		yes                  bool
		noCompile            bool
	)

	cmd := &cobra.Command{
		Use:   "deploy",
		Short: "Deploy the EntryPoint",
		Long: `Compile the contracts and deploy the EntryPoint to the selected network.

Unless the network disables it, the EntryPoint is deployed with CREATE2 through
the deterministic deployment proxy (0x4e59b44847b379578588920ca78fbf26c0b4956c)
using SALT or the default salt, so it lands on the same address on every chain.
A contract already present at that address is reused without a transaction.

The network comes from --network, HARDHAT_NETWORK, the local config or the
project default. The "dynamic" network reads its name and url from
HARDHAT_DYNAMIC_NETWORK_NAME and HARDHAT_DYNAMIC_NETWORK_URL. DEPLOYER_PK (or
the key stored with 'aadeploy key set') signs the transactions.

Examples:
  aadeploy deploy --network localhost
  HARDHAT_NETWORK=dynamic HARDHAT_DYNAMIC_NETWORK_NAME=devnet \
    HARDHAT_DYNAMIC_NETWORK_URL=http://10.0.0.5:8545 aadeploy deploy`,
		Annotations: map[string]string{annotationNetwork: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			if !noCompile {
				if _, err := app.CompileContracts.Run(cmd.Context()); err != nil {
					return err
				}
			}

			params := usecase.DeployContractsParams{
				SimpleAccountFactory: simpleAccountFactory,
				Yes:                  yes,
			}

			result, err := app.DeployContracts.Run(cmd.Context(), params)
			if err != nil {
				return err
			}

			if app.Config.JSON {
				return render.RenderJSON(cmd.OutOrStdout(), result)
			}
			return render.NewDeployRenderer(cmd.OutOrStdout()).Render(result)
		},
	}

	cmd.Flags().BoolVar(&simpleAccountFactory, "simple-account-factory", false, "Also deploy SimpleAccountFactory")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation on live networks")
	cmd.Flags().BoolVar(&noCompile, "no-compile", false, "Use the existing artifacts")

	return cmd
}
