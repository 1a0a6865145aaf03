package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/eth-infinitism/aadeploy/internal/adapters/interactive"
	"github.com/eth-infinitism/aadeploy/internal/adapters/progress"
	"github.com/eth-infinitism/aadeploy/internal/app"
	"github.com/eth-infinitism/aadeploy/internal/config"
	"github.com/eth-infinitism/aadeploy/internal/usecase"
)

// contextKey is the type for context keys
type contextKey string

const (
	// appKey is the context key for the app instance
	appKey contextKey = "app"

	// annotationNetwork marks commands that need the selected network and the
	// deployer key resolved before they run
	annotationNetwork = "aadeploy/network"
)

// stoppableSink is a progress sink holding terminal state that must be released
type stoppableSink interface {
	usecase.ProgressSink
	Stop()
}

// Execute runs the root command and releases the spinner and signal handlers
// whether or not the command succeeded
func Execute() error {
	rootCmd, cleanup := newRootCmd()
	defer cleanup()
	return rootCmd.Execute()
}

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	rootCmd, _ := newRootCmd()
	return rootCmd
}

func newRootCmd() (*cobra.Command, func()) {
	var (
		sink   stoppableSink
		cancel context.CancelFunc
	)
	cleanup := func() {
		if sink != nil {
			sink.Stop()
			sink = nil
		}
		if cancel != nil {
			cancel()
			cancel = nil
		}
	}

	rootCmd := &cobra.Command{
		Use:   "aadeploy",
		Short: "Deploy the ERC-4337 EntryPoint",
		Long: `aadeploy compiles the account-abstraction contracts and deploys the EntryPoint
through the deterministic deployment proxy, so every chain gets the same address.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Skip for help/version commands
			if cmd.Name() == "version" || cmd.Name() == "help" || cmd.Name() == "completion" {
				return nil
			}

			projectRoot, err := config.FindProjectRoot()
			if err != nil {
				return err
			}

			v := config.SetupViper(projectRoot, cmd)
			v.Set(config.ResolveNetworkKey, needsNetwork(cmd))
			v.Set(config.RequireDeployerKeyKey, needsDeployerKey(cmd))

			if v.GetBool("select_network") {
				if err := selectNetwork(v, projectRoot); err != nil {
					return err
				}
			}

			sink = newProgressSink(v)

			appInstance, err := app.InitApp(v, sink)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			cancel = stop
			if appInstance.Config.Timeout > 0 {
				var cancelTimeout context.CancelFunc
				ctx, cancelTimeout = context.WithTimeout(ctx, appInstance.Config.Timeout)
				cancel = func() {
					cancelTimeout()
					stop()
				}
			}

			cmd.SetContext(context.WithValue(ctx, appKey, appInstance))
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			cleanup()
		},
	}

	// Global flags
	rootCmd.PersistentFlags().StringP("network", "n", "", "Network to use (e.g. localhost, sepolia, dynamic)")
	rootCmd.PersistentFlags().Bool("select-network", false, "Pick the network interactively")
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug output")
	rootCmd.PersistentFlags().Bool("non-interactive", false, "Disable interactive prompts")
	rootCmd.PersistentFlags().Bool("json", false, "Output JSON")
	rootCmd.PersistentFlags().Duration("timeout", 0, "Abort the command after this duration (default 5m)")

	rootCmd.AddGroup(&cobra.Group{
		ID:    "main",
		Title: "Main Commands",
	})
	rootCmd.AddGroup(&cobra.Group{
		ID:    "management",
		Title: "Management Commands",
	})

	deployCmd := NewDeployCmd()
	deployCmd.GroupID = "main"
	rootCmd.AddCommand(deployCmd)

	compileCmd := NewCompileCmd()
	compileCmd.GroupID = "main"
	rootCmd.AddCommand(compileCmd)

	deploymentsCmd := NewDeploymentsCmd()
	deploymentsCmd.GroupID = "main"
	rootCmd.AddCommand(deploymentsCmd)

	compilersCmd := NewCompilersCmd()
	compilersCmd.GroupID = "management"
	rootCmd.AddCommand(compilersCmd)

	networksCmd := NewNetworksCmd()
	networksCmd.GroupID = "management"
	rootCmd.AddCommand(networksCmd)

	configCmd := NewConfigCmd()
	configCmd.GroupID = "management"
	rootCmd.AddCommand(configCmd)

	nodeCmd := NewNodeCmd()
	nodeCmd.GroupID = "management"
	rootCmd.AddCommand(nodeCmd)

	keyCmd := NewKeyCmd()
	keyCmd.GroupID = "management"
	rootCmd.AddCommand(keyCmd)

	rootCmd.AddCommand(NewVersionCmd())

	return rootCmd, cleanup
}

// needsNetwork reports whether cmd requires the network to be resolved
func needsNetwork(cmd *cobra.Command) bool {
	if cmd.Annotations[annotationNetwork] != "true" {
		return false
	}
	// deployments --all without --check only reads the store
	if all, err := cmd.Flags().GetBool("all"); err == nil && all {
		check, _ := cmd.Flags().GetBool("check")
		return check
	}
	return true
}

// needsDeployerKey reports whether cmd requires DEPLOYER_PK. The key
// subcommands manage the stored key and run without one.
func needsDeployerKey(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Name() == "key" {
			return false
		}
	}
	return true
}

// selectNetwork asks the user for the network and stores the choice in v
func selectNetwork(v *viper.Viper, projectRoot string) error {
	if v.GetBool("non_interactive") {
		return fmt.Errorf("--select-network cannot be used with --non-interactive")
	}

	project, err := config.LoadProjectFile(projectRoot)
	if err != nil {
		return err
	}

	def := v.GetString("network")
	if def == "" {
		def = project.DefaultNetwork
	}

	chosen, err := interactive.SelectNetwork(config.NetworkNames(project.Networks), def)
	if err != nil {
		return err
	}
	v.Set("network", chosen)
	return nil
}

// newProgressSink returns a spinner on interactive terminals and a no-op sink otherwise
func newProgressSink(v *viper.Viper) stoppableSink {
	if v.GetBool("json") || v.GetBool("non_interactive") || !isatty.IsTerminal(os.Stderr.Fd()) {
		return progress.NewNopSink()
	}
	return progress.NewSpinnerProgressReporter()
}

// getApp retrieves the app instance from the command context
func getApp(cmd *cobra.Command) (*app.App, error) {
	appInstance := cmd.Context().Value(appKey)
	if appInstance == nil {
		return nil, fmt.Errorf("app not initialized")
	}

	app, ok := appInstance.(*app.App)
	if !ok {
		return nil, fmt.Errorf("invalid app instance")
	}

	return app, nil
}
