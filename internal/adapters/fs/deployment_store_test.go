package fs

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/eth-infinitism/aadeploy/internal/domain"
	"github.com/eth-infinitism/aadeploy/internal/domain/config"
	"github.com/eth-infinitism/aadeploy/internal/domain/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeploymentStoreAdapter(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	store := NewDeploymentStoreAdapter(&config.RuntimeConfig{DeploymentsDir: filepath.Join(dir, "deployments")})

	t.Run("empty store", func(t *testing.T) {
		_, err := store.GetDeployment(ctx, "dev", "EntryPoint")
		assert.ErrorIs(t, err, domain.ErrNotFound)

		networks, err := store.ListNetworks(ctx)
		require.NoError(t, err)
		assert.Empty(t, networks)

		deployments, err := store.ListDeployments(ctx, "dev")
		require.NoError(t, err)
		assert.Empty(t, deployments)

		_, err = store.GetChainID(ctx, "dev")
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	deployment := &models.Deployment{
		ContractName:    "EntryPoint",
		Address:         "0x0000000071727De22E5E9d8BAf0edAc6f37da032",
		Deployer:        "0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266",
		ABI:             json.RawMessage(`[]`),
		TransactionHash: "0xabc",
		Receipt:         &models.Receipt{TransactionHash: "0xabc", GasUsed: 4000000, Status: 1},
		Args:            []any{},
		Method:          models.DeploymentMethodCreate2,
		Salt:            "0x90d8084deab30c2a37c45e8d47f49f2f7965183cb6990a98943ef94940681de3",
		NumDeployments:  1,
		Bytecode:        "0x6080",
		CreatedAt:       time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
	}

	t.Run("save and read back", func(t *testing.T) {
		require.NoError(t, store.SaveDeployment(ctx, "dev", 31337, deployment))
		require.NoError(t, store.SaveDeployment(ctx, "dev", 31337, &models.Deployment{ContractName: "SimpleAccountFactory", Address: "0x01"}))

		got, err := store.GetDeployment(ctx, "dev", "EntryPoint")
		require.NoError(t, err)
		assert.Equal(t, deployment.Address, got.Address)
		assert.Equal(t, deployment.Salt, got.Salt)
		assert.Equal(t, uint64(4000000), got.Receipt.GasUsed)
		assert.Equal(t, deployment.CreatedAt, got.CreatedAt)

		chainID, err := store.GetChainID(ctx, "dev")
		require.NoError(t, err)
		assert.Equal(t, uint64(31337), chainID)

		deployments, err := store.ListDeployments(ctx, "dev")
		require.NoError(t, err)
		require.Len(t, deployments, 2)
		assert.Equal(t, "EntryPoint", deployments[0].ContractName)
		assert.Equal(t, "SimpleAccountFactory", deployments[1].ContractName)

		networks, err := store.ListNetworks(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"dev"}, networks)
	})

	t.Run("file layout", func(t *testing.T) {
		data, err := os.ReadFile(filepath.Join(dir, "deployments", "dev", "EntryPoint.json"))
		require.NoError(t, err)

		var raw map[string]any
		require.NoError(t, json.Unmarshal(data, &raw))
		assert.Equal(t, deployment.Deployer, raw["from"])
		assert.Equal(t, "CREATE2", raw["method"])
		assert.NotContains(t, raw, "Reused")

		chainID, err := os.ReadFile(filepath.Join(dir, "deployments", "dev", ".chainId"))
		require.NoError(t, err)
		assert.Equal(t, "31337", string(chainID))

		entries, err := os.ReadDir(filepath.Join(dir, "deployments", "dev"))
		require.NoError(t, err)
		assert.Len(t, entries, 3, "no temp files left behind")
	})
}
