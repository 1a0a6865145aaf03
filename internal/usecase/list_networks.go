package usecase

import (
	"context"

	"github.com/eth-infinitism/aadeploy/internal/domain"
	"github.com/eth-infinitism/aadeploy/internal/domain/config"
)

// ListNetworksParams contains parameters for listing networks
type ListNetworksParams struct {
	// Offline skips the RPC checks
	Offline bool
}

// ListNetworksResult contains the result of listing networks
type ListNetworksResult struct {
	Networks []NetworkStatus
}

// NetworkStatus represents the status of a network
type NetworkStatus struct {
	Name          string
	Network       *config.Network
	ChainID       uint64
	ProxyDeployed bool
	Default       bool
	Error         error
}

// ListNetworks is a use case for listing available networks
type ListNetworks struct {
	config   *config.RuntimeConfig
	resolver NetworkResolver
	checker  BlockchainChecker
}

// NewListNetworks creates a new ListNetworks use case
func NewListNetworks(cfg *config.RuntimeConfig, resolver NetworkResolver, checker BlockchainChecker) *ListNetworks {
	return &ListNetworks{
		config:   cfg,
		resolver: resolver,
		checker:  checker,
	}
}

// Run executes the use case
func (uc *ListNetworks) Run(ctx context.Context, params ListNetworksParams) (*ListNetworksResult, error) {
	// Get all configured networks
	networkNames := uc.resolver.GetNetworks(ctx)

	// Check each network's status
	networks := make([]NetworkStatus, 0, len(networkNames))
	for _, name := range networkNames {
		status := NetworkStatus{
			Name:    name,
			Default: name == uc.config.DefaultNetwork,
		}

		network, err := uc.resolver.ResolveNetwork(ctx, name)
		if err != nil {
			status.Error = err
			networks = append(networks, status)
			continue
		}
		status.Network = network
		status.ChainID = network.ChainID

		if !params.Offline {
			uc.check(ctx, &status)
		}

		networks = append(networks, status)
	}

	return &ListNetworksResult{
		Networks: networks,
	}, nil
}

func (uc *ListNetworks) check(ctx context.Context, status *NetworkStatus) {
	chainID, err := uc.checker.GetChainID(ctx, status.Network.URL)
	if err != nil {
		status.Error = err
		return
	}
	if status.Network.ChainID != 0 && status.Network.ChainID != chainID {
		status.Error = domain.ErrChainIDMismatch
	}
	status.ChainID = chainID

	if status.Network.NoDeterministicDeployment {
		return
	}
	deployed, err := uc.checker.HasCode(ctx, status.Network.URL, domain.DeterministicProxyAddress)
	if err != nil {
		status.Error = err
		return
	}
	status.ProxyDeployed = deployed
}
