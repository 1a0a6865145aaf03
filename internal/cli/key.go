package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/eth-infinitism/aadeploy/internal/adapters/interactive"
	"github.com/eth-infinitism/aadeploy/internal/cli/render"
	"github.com/eth-infinitism/aadeploy/internal/usecase"
)

// NewKeyCmd creates the key command
func NewKeyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "key",
		Short: "Manage the deployer key in the OS keyring",
		Long: `Store the deployer private key in the OS keyring so it does not have to live
in .env. DEPLOYER_PK, when set, always takes precedence over the stored key.`,
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "set",
		Short: "Store the deployer key",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}
			if app.Config.NonInteractive {
				return fmt.Errorf("key set prompts for the key and cannot run with --non-interactive")
			}

			key, err := interactive.PromptSecret("Deployer private key", func(s string) error {
				_, err := usecase.AddressFromKey(s)
				return err
			})
			if err != nil {
				return err
			}
			return runKeyCommand(cmd, usecase.ManageKeyParams{Operation: "set", Key: key})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show the deployer address and where the key comes from",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runKeyCommand(cmd, usecase.ManageKeyParams{Operation: "show"})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "delete",
		Short: "Remove the stored deployer key",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runKeyCommand(cmd, usecase.ManageKeyParams{Operation: "delete"})
		},
	})

	return cmd
}

func runKeyCommand(cmd *cobra.Command, params usecase.ManageKeyParams) error {
	app, err := getApp(cmd)
	if err != nil {
		return err
	}

	result, err := app.ManageKey.Execute(cmd.Context(), params)
	if err != nil {
		return err
	}

	if app.Config.JSON {
		return render.RenderJSON(cmd.OutOrStdout(), result)
	}
	return render.NewKeyRenderer(cmd.OutOrStdout()).Render(result)
}
