package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/eth-infinitism/aadeploy/internal/domain"
	"github.com/eth-infinitism/aadeploy/internal/domain/config"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// ResolveNetworkKey is the viper key commands set when they need the selected
// network and the deployer key resolved before they run
const ResolveNetworkKey = "resolve_network"

// RequireDeployerKeyKey is the viper key set for every command except those
// managing the stored key, which must run before any key exists
const RequireDeployerKeyKey = "require_deployer_key"

// KeySource provides the deployer key when DEPLOYER_PK is not set
type KeySource interface {
	DeployerKey() (string, error)
}

// Provider creates RuntimeConfig for Wire dependency injection
func Provider(v *viper.Viper, keys KeySource) (*config.RuntimeConfig, error) {
	// Get project root from viper
	projectRoot := v.GetString("project_root")
	if projectRoot == "" {
		var err error
		projectRoot, err = FindProjectRoot()
		if err != nil {
			return nil, fmt.Errorf("failed to find project root: %w", err)
		}
	}

	env, err := LoadEnv(projectRoot)
	if err != nil {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	project, err := LoadProjectFile(projectRoot)
	if err != nil {
		return nil, err
	}

	coverage := env.Has(EnvCoverage)

	salt := env.Get(EnvSalt)
	if salt == "" {
		salt = DefaultSalt
	}

	cfg := &config.RuntimeConfig{
		ProjectRoot:     projectRoot,
		ArtifactsDir:    filepath.Join(projectRoot, project.Paths.Artifacts),
		DeploymentsDir:  filepath.Join(projectRoot, project.Paths.Deployments),
		SourcesDir:      filepath.Join(projectRoot, project.Paths.Sources),
		CacheDir:        filepath.Join(projectRoot, project.Paths.Cache),
		DefaultNetwork:  project.DefaultNetwork,
		Networks:        project.Networks,
		Debug:           v.GetBool("debug"),
		NonInteractive:  v.GetBool("non_interactive"),
		JSON:            v.GetBool("json"),
		Timeout:         v.GetDuration("timeout"),
		DeployerKey:     env.Get(EnvDeployerPK),
		Salt:            salt,
		EtherscanAPIKey: env.Get(EnvEtherscanAPIKey),
		NamedAccounts:   project.NamedAccounts,
		Coverage:        coverage,
		Solidity:        SelectSolidity(project.Solidity, coverage),
	}

	if v.GetBool(RequireDeployerKeyKey) || v.GetBool(ResolveNetworkKey) {
		deployerKey, err := resolveDeployerKey(env, keys)
		if err != nil {
			return nil, err
		}
		cfg.DeployerKey = deployerKey
	}

	if !v.GetBool(ResolveNetworkKey) {
		return cfg, nil
	}

	networkName := v.GetString("network")
	if networkName == "" {
		networkName = env.Get(EnvNetwork)
	}
	if networkName == "" {
		networkName = project.DefaultNetwork
	}

	network, err := ResolveNetwork(networkName, env, project.Networks)
	if err != nil {
		return nil, err
	}
	network.Accounts = []string{cfg.DeployerKey}

	cfg.Network = network

	return cfg, nil
}

// resolveDeployerKey reads DEPLOYER_PK, falling back to the stored key
func resolveDeployerKey(env Env, keys KeySource) (string, error) {
	if key := env.Get(EnvDeployerPK); key != "" {
		return key, nil
	}

	if keys != nil {
		key, err := keys.DeployerKey()
		if err == nil && key != "" {
			return key, nil
		}
		if err != nil && !errors.Is(err, domain.ErrNotFound) {
			return "", fmt.Errorf("%w (keyring: %v)", &domain.MissingEnvVarError{Name: EnvDeployerPK}, err)
		}
	}

	return "", &domain.MissingEnvVarError{Name: EnvDeployerPK}
}

// FindProjectRoot walks up from current directory to find deploy.toml.
// Without one, the current directory is the project root.
func FindProjectRoot() (string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}

	dir := cwd
	for {
		if _, err := os.Stat(filepath.Join(dir, ProjectFileName)); err == nil {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return cwd, nil
		}
		dir = parent
	}
}

// SetupViper creates and configures a viper instance
func SetupViper(projectRoot string, cmd *cobra.Command) *viper.Viper {
	v := viper.New()

	// Set up config file
	v.SetConfigName(config.LocalConfigName)
	v.SetConfigType("json")
	v.AddConfigPath(filepath.Join(projectRoot, config.LocalConfigDir))

	// Set up environment variables
	v.SetEnvPrefix("AADEPLOY")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	_ = v.BindEnv("network", "AADEPLOY_NETWORK", EnvNetwork)

	// Set defaults
	v.SetDefault("timeout", "5m")
	v.SetDefault("debug", false)
	v.SetDefault("non_interactive", false)
	v.SetDefault("json", false)
	v.SetDefault("project_root", projectRoot)

	// Try to read config file (ignore error if not found)
	_ = v.ReadInConfig()

	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		key := strings.ReplaceAll(f.Name, "-", "_")
		if err := v.BindPFlag(key, f); err != nil {
			panic(err)
		}
	})

	return v
}
