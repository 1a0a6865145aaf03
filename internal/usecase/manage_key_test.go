package usecase_test

import (
	"context"
	"testing"

	"github.com/eth-infinitism/aadeploy/internal/domain"
	"github.com/eth-infinitism/aadeploy/internal/domain/config"
	"github.com/eth-infinitism/aadeploy/internal/usecase"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// anvil's first dev account
const testKeyAddress = "0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266"

type memKeyStore struct {
	key string
}

func (m *memKeyStore) DeployerKey() (string, error) {
	if m.key == "" {
		return "", domain.ErrNotFound
	}
	return m.key, nil
}

func (m *memKeyStore) SetDeployerKey(key string) error {
	m.key = key
	return nil
}

func (m *memKeyStore) DeleteDeployerKey() error {
	if m.key == "" {
		return domain.ErrNotFound
	}
	m.key = ""
	return nil
}

func TestManageKey(t *testing.T) {
	ctx := context.Background()

	t.Run("set then show from keyring", func(t *testing.T) {
		store := &memKeyStore{}
		uc := usecase.NewManageKey(&config.RuntimeConfig{}, store)

		result, err := uc.Execute(ctx, usecase.ManageKeyParams{Operation: "set", Key: testKey})
		require.NoError(t, err)
		assert.Equal(t, testKeyAddress, result.Address)
		assert.Equal(t, testKey, store.key)

		result, err = uc.Execute(ctx, usecase.ManageKeyParams{Operation: "show"})
		require.NoError(t, err)
		assert.Equal(t, usecase.KeySourceKeyring, result.Source)
		assert.Equal(t, testKeyAddress, result.Address)
	})

	t.Run("environment shadows keyring", func(t *testing.T) {
		store := &memKeyStore{key: "0x59c6995e998f97a5a0044966f0945389dc9e86dae88c7a8412f4603b6b78690d"}
		uc := usecase.NewManageKey(&config.RuntimeConfig{DeployerKey: testKey}, store)

		result, err := uc.Execute(ctx, usecase.ManageKeyParams{Operation: "show"})
		require.NoError(t, err)
		assert.Equal(t, usecase.KeySourceEnv, result.Source)
		assert.Equal(t, testKeyAddress, result.Address)
	})

	t.Run("show without key", func(t *testing.T) {
		uc := usecase.NewManageKey(&config.RuntimeConfig{}, &memKeyStore{})

		result, err := uc.Execute(ctx, usecase.ManageKeyParams{Operation: "show"})
		require.NoError(t, err)
		assert.Equal(t, usecase.KeySourceNone, result.Source)
		assert.Empty(t, result.Address)
	})

	t.Run("invalid key is rejected before storing", func(t *testing.T) {
		store := &memKeyStore{}
		uc := usecase.NewManageKey(&config.RuntimeConfig{}, store)

		_, err := uc.Execute(ctx, usecase.ManageKeyParams{Operation: "set", Key: "0x1234"})
		require.Error(t, err)
		assert.Empty(t, store.key)
	})

	t.Run("delete is idempotent", func(t *testing.T) {
		uc := usecase.NewManageKey(&config.RuntimeConfig{}, &memKeyStore{})

		_, err := uc.Execute(ctx, usecase.ManageKeyParams{Operation: "delete"})
		assert.NoError(t, err)
	})
}

func TestShowConfig(t *testing.T) {
	cfg := &config.RuntimeConfig{
		ProjectRoot:     "/project",
		Network:         &config.Network{Name: "dev", URL: "http://localhost:8545"},
		DeployerKey:     testKey,
		EtherscanAPIKey: "secret",
		Salt:            testSalt,
	}

	result, err := usecase.NewShowConfig(cfg).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, testKeyAddress, result.Deployer)
	assert.True(t, result.EtherscanAPIKey)
	assert.Equal(t, testSalt, result.Salt)
	assert.Equal(t, "dev", result.Network.Name)
}
