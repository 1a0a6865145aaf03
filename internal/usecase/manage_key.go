package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/eth-infinitism/aadeploy/internal/domain"
	"github.com/eth-infinitism/aadeploy/internal/domain/config"
)

// Key sources reported by ManageKey
const (
	KeySourceEnv     = "env"
	KeySourceKeyring = "keyring"
	KeySourceNone    = "none"
)

// ManageKeyParams contains parameters for key operations
type ManageKeyParams struct {
	Operation string // set, show, delete
	Key       string
}

// ManageKeyResult contains the result of key operations
type ManageKeyResult struct {
	Operation string
	Address   string
	Source    string
}

// ManageKey stores the deployer key in the OS keyring
type ManageKey struct {
	config *config.RuntimeConfig
	store  KeyStore
}

// NewManageKey creates a new ManageKey use case
func NewManageKey(cfg *config.RuntimeConfig, store KeyStore) *ManageKey {
	return &ManageKey{
		config: cfg,
		store:  store,
	}
}

// Execute performs the key operation
func (m *ManageKey) Execute(ctx context.Context, params ManageKeyParams) (*ManageKeyResult, error) {
	switch params.Operation {
	case "set":
		return m.set(params.Key)
	case "show":
		return m.show()
	case "delete":
		if err := m.store.DeleteDeployerKey(); err != nil && !errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("failed to delete deployer key: %w", err)
		}
		return &ManageKeyResult{Operation: "delete", Source: KeySourceKeyring}, nil
	default:
		return nil, fmt.Errorf("unknown operation: %s", params.Operation)
	}
}

func (m *ManageKey) set(key string) (*ManageKeyResult, error) {
	address, err := AddressFromKey(key)
	if err != nil {
		return nil, err
	}
	if err := m.store.SetDeployerKey(key); err != nil {
		return nil, fmt.Errorf("failed to store deployer key: %w", err)
	}
	return &ManageKeyResult{Operation: "set", Address: address.Hex(), Source: KeySourceKeyring}, nil
}

func (m *ManageKey) show() (*ManageKeyResult, error) {
	result := &ManageKeyResult{Operation: "show", Source: KeySourceNone}

	// DEPLOYER_PK shadows the keyring
	key := m.config.DeployerKey
	if key != "" {
		result.Source = KeySourceEnv
	} else {
		stored, err := m.store.DeployerKey()
		if err != nil && !errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("failed to read deployer key: %w", err)
		}
		if stored == "" {
			return result, nil
		}
		key = stored
		result.Source = KeySourceKeyring
	}

	address, err := AddressFromKey(key)
	if err != nil {
		return nil, err
	}
	result.Address = address.Hex()
	return result, nil
}
