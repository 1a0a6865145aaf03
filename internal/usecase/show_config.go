package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/eth-infinitism/aadeploy/internal/domain/config"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// ShowConfigResult contains the resolved runtime configuration without secrets
type ShowConfigResult struct {
	ProjectRoot     string                `json:"projectRoot" yaml:"projectRoot"`
	Network         *config.Network       `json:"network,omitempty" yaml:"network,omitempty"`
	Deployer        string                `json:"deployer,omitempty" yaml:"deployer,omitempty"`
	Salt            string                `json:"salt" yaml:"salt"`
	EtherscanAPIKey bool                  `json:"etherscanApiKey" yaml:"etherscanApiKey"`
	Coverage        bool                  `json:"coverage" yaml:"coverage"`
	Solidity        config.SolidityConfig `json:"solidity" yaml:"solidity"`
	NamedAccounts   map[string]string     `json:"namedAccounts,omitempty" yaml:"namedAccounts,omitempty"`
	ArtifactsDir    string                `json:"artifactsDir" yaml:"artifactsDir"`
	DeploymentsDir  string                `json:"deploymentsDir" yaml:"deploymentsDir"`
}

// ShowConfig is a use case for showing configuration
type ShowConfig struct {
	config *config.RuntimeConfig
}

// NewShowConfig creates a new ShowConfig use case
func NewShowConfig(cfg *config.RuntimeConfig) *ShowConfig {
	return &ShowConfig{
		config: cfg,
	}
}

// Run executes the show config use case
func (uc *ShowConfig) Run(ctx context.Context) (*ShowConfigResult, error) {
	result := &ShowConfigResult{
		ProjectRoot:     uc.config.ProjectRoot,
		Network:         uc.config.Network,
		Salt:            uc.config.Salt,
		EtherscanAPIKey: uc.config.EtherscanAPIKey != "",
		Coverage:        uc.config.Coverage,
		Solidity:        uc.config.Solidity,
		NamedAccounts:   uc.config.NamedAccounts,
		ArtifactsDir:    uc.config.ArtifactsDir,
		DeploymentsDir:  uc.config.DeploymentsDir,
	}

	if uc.config.DeployerKey != "" {
		address, err := AddressFromKey(uc.config.DeployerKey)
		if err != nil {
			return nil, err
		}
		result.Deployer = address.Hex()
	}

	return result, nil
}

// AddressFromKey derives the account address of a hex private key
func AddressFromKey(key string) (common.Address, error) {
	privateKey, err := crypto.HexToECDSA(strings.TrimPrefix(key, "0x"))
	if err != nil {
		return common.Address{}, fmt.Errorf("invalid deployer key: %w", err)
	}
	return crypto.PubkeyToAddress(privateKey.PublicKey), nil
}
