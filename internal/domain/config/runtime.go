package config

import (
	"time"
)

// DynamicNetworkName is the placeholder network whose settings come from the environment
const DynamicNetworkName = "dynamic"

// Local overrides live in <project>/.aadeploy/config.local.json
const (
	LocalConfigDir  = ".aadeploy"
	LocalConfigName = "config.local"
)

// RuntimeConfig represents the complete runtime configuration
// This is built once before any command runs and injected into use cases
type RuntimeConfig struct {
	// Core settings
	ProjectRoot    string
	ArtifactsDir   string
	DeploymentsDir string
	SourcesDir     string
	CacheDir       string

	// Selected network, resolved at startup. Nil for commands that don't talk to a chain.
	Network *Network

	// Statically configured networks from the project file
	DefaultNetwork string
	Networks       map[string]NetworkEntry

	// Execution settings
	Debug          bool
	NonInteractive bool
	JSON           bool
	Timeout        time.Duration

	// Deployment settings
	DeployerKey     string `json:"-" yaml:"-"`
	Salt            string
	EtherscanAPIKey string `json:"-" yaml:"-"`
	NamedAccounts   map[string]string

	// Compiler settings
	Coverage bool
	Solidity SolidityConfig
}

// Network represents a resolved network configuration
type Network struct {
	Name    string `json:"name" yaml:"name"`
	URL     string `json:"url" yaml:"url"`
	ChainID uint64 `json:"chainId,omitempty" yaml:"chainId,omitempty"`

	// IsDynamic is set when name and url came from HARDHAT_DYNAMIC_NETWORK_* variables
	IsDynamic                 bool `json:"isDynamic" yaml:"isDynamic"`
	NoDeterministicDeployment bool `json:"noDeterministicDeployment" yaml:"noDeterministicDeployment"`
	ZkSync                    bool `json:"zksync,omitempty" yaml:"zksync,omitempty"`
	Live                      bool `json:"live" yaml:"live"`

	Accounts []string `json:"-" yaml:"-"`
}

// IsLocal reports whether the network is a local developer chain
func (n *Network) IsLocal() bool {
	return IsLocalChainID(n.ChainID)
}

// IsLocalChainID reports whether chainID belongs to a local developer chain (anvil, hardhat, ganache)
func IsLocalChainID(chainID uint64) bool {
	return chainID == 31337 || chainID == 1337
}
