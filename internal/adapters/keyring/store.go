package keyring

import (
	"errors"
	"fmt"

	"github.com/zalando/go-keyring"

	"github.com/eth-infinitism/aadeploy/internal/domain"
	"github.com/eth-infinitism/aadeploy/internal/usecase"
)

const (
	// ServiceName is the keyring service the deployer key is stored under
	ServiceName = "aadeploy"

	deployerAccount = "deployer"
)

// Store keeps the deployer private key in the OS keyring
type Store struct {
	service string
}

// NewStore creates a keyring store for the default service
func NewStore() *Store {
	return &Store{service: ServiceName}
}

// DeployerKey returns the stored key or domain.ErrNotFound
func (s *Store) DeployerKey() (string, error) {
	key, err := keyring.Get(s.service, deployerAccount)
	return key, wrapKeyringError(err)
}

func (s *Store) SetDeployerKey(key string) error {
	if err := keyring.Set(s.service, deployerAccount, key); err != nil {
		return fmt.Errorf("keyring: %w", err)
	}
	return nil
}

func (s *Store) DeleteDeployerKey() error {
	return wrapKeyringError(keyring.Delete(s.service, deployerAccount))
}

func wrapKeyringError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, keyring.ErrNotFound) {
		return fmt.Errorf("deployer key %w in keyring", domain.ErrNotFound)
	}
	return fmt.Errorf("keyring: %w", err)
}

// Ensure the adapter implements the interface
var _ usecase.KeyStore = (*Store)(nil)
