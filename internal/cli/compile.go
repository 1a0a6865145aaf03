package cli

import (
	"github.com/spf13/cobra"

	"github.com/eth-infinitism/aadeploy/internal/cli/render"
)

// NewCompileCmd creates the compile command
func NewCompileCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "compile",
		Short: "Compile the contracts",
		Long: `Compile the Solidity sources under contracts/ with the compilers configured
in deploy.toml and write the artifacts.

Sources with a compiler override are compiled in their own job together with
the files they import. Set COVERAGE to compile everything with the first
configured compiler.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			result, err := app.CompileContracts.Run(cmd.Context())
			if err != nil {
				return err
			}

			if app.Config.JSON {
				return render.RenderJSON(cmd.OutOrStdout(), result)
			}
			return render.NewCompileRenderer(cmd.OutOrStdout()).RenderCompile(result)
		},
	}
}

// NewCompilersCmd creates the compilers command
func NewCompilersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "compilers",
		Short: "Resolve the configured compiler versions",
		Long: `Resolve every configured compiler version to a compiler build, downloading
release builds from binaries.soliditylang.org when needed. The vendored
soljson build is used for 0.8.23.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			builds, err := app.ResolveCompilers.Run(cmd.Context())
			if err != nil {
				return err
			}

			if app.Config.JSON {
				return render.RenderJSON(cmd.OutOrStdout(), builds)
			}
			return render.NewCompileRenderer(cmd.OutOrStdout()).RenderCompilers(builds)
		},
	}
}
