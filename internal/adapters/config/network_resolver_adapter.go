package config

import (
	"context"

	"github.com/eth-infinitism/aadeploy/internal/config"
	domainconfig "github.com/eth-infinitism/aadeploy/internal/domain/config"
	"github.com/eth-infinitism/aadeploy/internal/usecase"
)

// NetworkResolverAdapter resolves the networks of the project file against the
// environment, including the dynamic network
type NetworkResolverAdapter struct {
	networks map[string]domainconfig.NetworkEntry
	env      config.Env
}

// NewNetworkResolverAdapter creates a new adapter reading .env files of the project
func NewNetworkResolverAdapter(cfg *domainconfig.RuntimeConfig) (*NetworkResolverAdapter, error) {
	env, err := config.LoadEnv(cfg.ProjectRoot)
	if err != nil {
		return nil, err
	}
	return NewNetworkResolverAdapterWithEnv(cfg, env), nil
}

// NewNetworkResolverAdapterWithEnv creates a new adapter over an explicit environment
func NewNetworkResolverAdapterWithEnv(cfg *domainconfig.RuntimeConfig, env config.Env) *NetworkResolverAdapter {
	return &NetworkResolverAdapter{
		networks: cfg.Networks,
		env:      env,
	}
}

// GetNetworks returns all configured network names
func (a *NetworkResolverAdapter) GetNetworks(ctx context.Context) []string {
	return config.NetworkNames(a.networks)
}

// ResolveNetwork resolves a network name to its configuration
func (a *NetworkResolverAdapter) ResolveNetwork(ctx context.Context, networkName string) (*domainconfig.Network, error) {
	return config.ResolveNetwork(networkName, a.env, a.networks)
}

// Ensure the adapter implements the interface
var _ usecase.NetworkResolver = (*NetworkResolverAdapter)(nil)
