package fs

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/eth-infinitism/aadeploy/internal/domain"
	"github.com/eth-infinitism/aadeploy/internal/domain/config"
	"github.com/eth-infinitism/aadeploy/internal/domain/models"
	"github.com/eth-infinitism/aadeploy/internal/usecase"
)

// chainIDFile sits next to the deployment records of a network
const chainIDFile = ".chainId"

// DeploymentStoreAdapter stores one JSON file per contract under deployments/<network>/
type DeploymentStoreAdapter struct {
	root string
}

// NewDeploymentStoreAdapter creates a new DeploymentStoreAdapter
func NewDeploymentStoreAdapter(cfg *config.RuntimeConfig) *DeploymentStoreAdapter {
	return &DeploymentStoreAdapter{root: cfg.DeploymentsDir}
}

// GetDeployment reads the record of a contract on a network
func (s *DeploymentStoreAdapter) GetDeployment(_ context.Context, network, contractName string) (*models.Deployment, error) {
	path := filepath.Join(s.root, network, contractName+".json")
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("deployment %s on %s: %w", contractName, network, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to read deployment file: %w", err)
	}

	var deployment models.Deployment
	if err := json.Unmarshal(data, &deployment); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if deployment.ContractName == "" {
		deployment.ContractName = contractName
	}
	return &deployment, nil
}

// ListDeployments reads every record of a network, sorted by contract name
func (s *DeploymentStoreAdapter) ListDeployments(ctx context.Context, network string) ([]*models.Deployment, error) {
	entries, err := os.ReadDir(filepath.Join(s.root, network))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read deployments directory: %w", err)
	}

	var deployments []*models.Deployment
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".json") {
			continue
		}
		deployment, err := s.GetDeployment(ctx, network, strings.TrimSuffix(name, ".json"))
		if err != nil {
			return nil, err
		}
		deployments = append(deployments, deployment)
	}

	sort.Slice(deployments, func(i, j int) bool {
		return deployments[i].ContractName < deployments[j].ContractName
	})
	return deployments, nil
}

// SaveDeployment writes the record of a contract and the chain id of the network
func (s *DeploymentStoreAdapter) SaveDeployment(_ context.Context, network string, chainID uint64, deployment *models.Deployment) error {
	dir := filepath.Join(s.root, network)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create deployments directory: %w", err)
	}

	if err := os.WriteFile(filepath.Join(dir, chainIDFile), []byte(strconv.FormatUint(chainID, 10)), 0644); err != nil {
		return fmt.Errorf("failed to write chain id: %w", err)
	}

	data, err := json.MarshalIndent(deployment, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal deployment: %w", err)
	}

	return writeFileAtomic(filepath.Join(dir, deployment.ContractName+".json"), data)
}

// ListNetworks returns the networks that have deployment records
func (s *DeploymentStoreAdapter) ListNetworks(_ context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read deployments directory: %w", err)
	}

	var networks []string
	for _, entry := range entries {
		if entry.IsDir() {
			networks = append(networks, entry.Name())
		}
	}
	sort.Strings(networks)
	return networks, nil
}

// GetChainID returns the chain id recorded for a network
func (s *DeploymentStoreAdapter) GetChainID(_ context.Context, network string) (uint64, error) {
	data, err := os.ReadFile(filepath.Join(s.root, network, chainIDFile))
	if err != nil {
		if os.IsNotExist(err) {
			return 0, domain.ErrNotFound
		}
		return 0, err
	}
	chainID, err := strconv.ParseUint(strings.TrimSpace(string(data)), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s for %s: %w", chainIDFile, network, err)
	}
	return chainID, nil
}

// writeFileAtomic writes through a temp file so readers never see a partial record
func writeFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := os.Chmod(tmp.Name(), 0644); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

// Ensure the adapter implements the interface
var _ usecase.DeploymentStore = (*DeploymentStoreAdapter)(nil)
