package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for domain operations
var (
	// ErrNotFound is returned when a requested resource doesn't exist
	ErrNotFound = errors.New("not found")

	// ErrUnknownNetwork is returned when a network name is not configured
	ErrUnknownNetwork = errors.New("unknown network")

	// ErrInvalidAddress is returned when an Ethereum address is invalid
	ErrInvalidAddress = errors.New("invalid address")

	// ErrInvalidSalt is returned when a salt cannot be turned into a bytes32
	ErrInvalidSalt = errors.New("invalid salt")

	// ErrContractNotFound is returned when no compiled artifact exists for a contract
	ErrContractNotFound = errors.New("contract not found")

	// ErrChainIDMismatch is returned when the RPC endpoint reports another chain than configured
	ErrChainIDMismatch = errors.New("chain ID mismatch")

	// ErrDeploymentReverted is returned when a deployment transaction was mined with status 0
	ErrDeploymentReverted = errors.New("deployment reverted")

	// ErrZkSyncUnsupported is returned when deploying to a zkSync network, which needs zksolc bytecode
	ErrZkSyncUnsupported = errors.New("zkSync networks are not supported")

	// ErrAborted is returned when the user declines a confirmation prompt
	ErrAborted = errors.New("aborted by user")
)

// MissingEnvVarError reports a required environment variable that is not set.
type MissingEnvVarError struct {
	Name string
}

func (e *MissingEnvVarError) Error() string {
	return fmt.Sprintf("%s is missing", e.Name)
}

// UnknownNetworkError carries the suggestions for a network name that is not configured.
type UnknownNetworkError struct {
	Name        string
	Suggestions []string
}

func (e *UnknownNetworkError) Error() string {
	msg := fmt.Sprintf("network '%s' is not configured", e.Name)
	if len(e.Suggestions) > 0 {
		msg += fmt.Sprintf(" (did you mean %s?)", strings.Join(e.Suggestions, ", "))
	}
	return msg
}

func (e *UnknownNetworkError) Unwrap() error {
	return ErrUnknownNetwork
}

// CompileError holds the diagnostics reported by the compiler for one compile job.
type CompileError struct {
	Version     string
	Diagnostics []string
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("compilation with solc %s failed:\n%s", e.Version, strings.Join(e.Diagnostics, "\n"))
}
