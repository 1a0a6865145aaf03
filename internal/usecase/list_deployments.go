package usecase

import (
	"context"
	"fmt"

	"github.com/eth-infinitism/aadeploy/internal/domain/config"
	"github.com/eth-infinitism/aadeploy/internal/domain/models"
	"github.com/ethereum/go-ethereum/common"
)

// ListDeploymentsParams contains parameters for listing deployments
type ListDeploymentsParams struct {
	// All lists every network with records instead of the selected one
	All bool
	// Check verifies that code still exists at every recorded address
	Check bool
}

// NetworkDeployments holds the deployment records of one network
type NetworkDeployments struct {
	Network     string
	ChainID     uint64
	Deployments []*models.Deployment
	// Missing lists the contracts whose recorded address has no code
	Missing map[string]bool
}

// DeploymentListResult contains the result of listing deployments
type DeploymentListResult struct {
	Networks []NetworkDeployments
}

// ListDeployments is a use case for listing deployment records
type ListDeployments struct {
	config  *config.RuntimeConfig
	store   DeploymentStore
	checker BlockchainChecker
}

// NewListDeployments creates a new ListDeployments use case
func NewListDeployments(cfg *config.RuntimeConfig, store DeploymentStore, checker BlockchainChecker) *ListDeployments {
	return &ListDeployments{
		config:  cfg,
		store:   store,
		checker: checker,
	}
}

// Run executes the use case
func (uc *ListDeployments) Run(ctx context.Context, params ListDeploymentsParams) (*DeploymentListResult, error) {
	var networks []string
	if params.All {
		var err error
		if networks, err = uc.store.ListNetworks(ctx); err != nil {
			return nil, fmt.Errorf("failed to list networks: %w", err)
		}
	} else {
		if uc.config.Network == nil {
			return nil, fmt.Errorf("no network selected")
		}
		networks = []string{uc.config.Network.Name}
	}

	result := &DeploymentListResult{}
	for _, name := range networks {
		deployments, err := uc.store.ListDeployments(ctx, name)
		if err != nil {
			return nil, fmt.Errorf("failed to list deployments on %s: %w", name, err)
		}
		chainID, _ := uc.store.GetChainID(ctx, name)

		entry := NetworkDeployments{
			Network:     name,
			ChainID:     chainID,
			Deployments: deployments,
		}

		if params.Check && uc.config.Network != nil && uc.config.Network.Name == name {
			entry.Missing = make(map[string]bool)
			for _, d := range deployments {
				deployed, err := uc.checker.HasCode(ctx, uc.config.Network.URL, common.HexToAddress(d.Address))
				if err != nil {
					return nil, fmt.Errorf("failed to check %s: %w", d.ContractName, err)
				}
				if !deployed {
					entry.Missing[d.ContractName] = true
				}
			}
		}

		result.Networks = append(result.Networks, entry)
	}

	return result, nil
}
