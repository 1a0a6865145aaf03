package models

import (
	"encoding/json"

	"github.com/eth-infinitism/aadeploy/internal/domain/config"
)

// CompilerInput is the solc standard JSON input
type CompilerInput struct {
	Language string                   `json:"language"`
	Sources  map[string]SourceContent `json:"sources"`
	Settings CompilerInputSettings    `json:"settings"`
}

// SourceContent is a single entry of the standard JSON sources map
type SourceContent struct {
	Content string `json:"content"`
}

// CompilerInputSettings are the solc settings of a compile job
type CompilerInputSettings struct {
	Optimizer       config.OptimizerSettings       `json:"optimizer"`
	ViaIR           bool                           `json:"viaIR,omitempty"`
	EvmVersion      string                         `json:"evmVersion,omitempty"`
	OutputSelection map[string]map[string][]string `json:"outputSelection"`
}

// CompilerOutput is the solc standard JSON output
type CompilerOutput struct {
	Errors    []CompilerDiagnostic                   `json:"errors,omitempty"`
	Contracts map[string]map[string]CompiledContract `json:"contracts"`
}

// CompilerDiagnostic is an error or warning reported by solc
type CompilerDiagnostic struct {
	Component        string `json:"component"`
	Severity         string `json:"severity"`
	Type             string `json:"type"`
	Message          string `json:"message"`
	FormattedMessage string `json:"formattedMessage"`
}

// IsError reports whether the diagnostic fails the compilation
func (d CompilerDiagnostic) IsError() bool {
	return d.Severity == "error"
}

// CompiledContract is a single contract of the solc output
type CompiledContract struct {
	ABI json.RawMessage `json:"abi"`
	EVM struct {
		Bytecode         BytecodeObject `json:"bytecode"`
		DeployedBytecode BytecodeObject `json:"deployedBytecode"`
	} `json:"evm"`
}

// BytecodeObject represents bytecode information in the solc output
type BytecodeObject struct {
	Object         string         `json:"object"`
	LinkReferences map[string]any `json:"linkReferences"`
}
