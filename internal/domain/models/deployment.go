package models

import (
	"encoding/json"
	"time"
)

// DeploymentMethod represents how the contract was deployed
type DeploymentMethod string

const (
	DeploymentMethodCreate  DeploymentMethod = "CREATE"
	DeploymentMethodCreate2 DeploymentMethod = "CREATE2"
)

// Deployment represents a contract deployment record.
// The JSON shape follows the per-contract files written under deployments/<network>/.
type Deployment struct {
	ContractName     string           `json:"contractName"`
	Address          string           `json:"address"`
	Deployer         string           `json:"from"`
	ABI              json.RawMessage  `json:"abi"`
	TransactionHash  string           `json:"transactionHash,omitempty"`
	Receipt          *Receipt         `json:"receipt,omitempty"`
	Args             []any            `json:"args"`
	Method           DeploymentMethod `json:"method"`
	Salt             string           `json:"salt,omitempty"`
	Factory          string           `json:"factory,omitempty"`
	NumDeployments   int              `json:"numDeployments"`
	SolcVersion      string           `json:"solcVersion,omitempty"`
	Bytecode         string           `json:"bytecode"`
	DeployedBytecode string           `json:"deployedBytecode,omitempty"`
	CreatedAt        time.Time        `json:"createdAt"`

	// Runtime fields (not persisted)
	Reused bool `json:"-"` // true when no transaction was sent
}

// Receipt is the subset of a transaction receipt kept with a deployment
type Receipt struct {
	TransactionHash string `json:"transactionHash"`
	From            string `json:"from"`
	To              string `json:"to,omitempty"`
	ContractAddress string `json:"contractAddress"`
	GasUsed         uint64 `json:"gasUsed"`
	BlockHash       string `json:"blockHash"`
	BlockNumber     uint64 `json:"blockNumber"`
	Status          uint64 `json:"status"`
}
