package models

import "encoding/json"

// ArtifactFormat is the format tag written into compiled artifacts
const ArtifactFormat = "hh-sol-artifact-1"

// Artifact represents a compiled contract artifact
type Artifact struct {
	Format           string          `json:"_format"`
	ContractName     string          `json:"contractName"`
	SourceName       string          `json:"sourceName"`
	ABI              json.RawMessage `json:"abi"`
	Bytecode         string          `json:"bytecode"`
	DeployedBytecode string          `json:"deployedBytecode"`
	LinkReferences   map[string]any  `json:"linkReferences"`
	SolcVersion      string          `json:"solcVersion,omitempty"`
}

// FullyQualifiedName returns "<sourceName>:<contractName>"
func (a *Artifact) FullyQualifiedName() string {
	return a.SourceName + ":" + a.ContractName
}
