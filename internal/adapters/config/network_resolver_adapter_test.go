package config

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eth-infinitism/aadeploy/internal/config"
	"github.com/eth-infinitism/aadeploy/internal/domain"
	domainconfig "github.com/eth-infinitism/aadeploy/internal/domain/config"
)

func TestNetworkResolverAdapter(t *testing.T) {
	ctx := context.Background()
	cfg := &domainconfig.RuntimeConfig{
		Networks: map[string]domainconfig.NetworkEntry{
			"localhost": {URL: "http://127.0.0.1:8545"},
			"sepolia":   {URL: "${SEPOLIA_RPC_URL}", ChainID: 11155111},
			"dynamic":   {},
		},
	}
	env := config.Env{
		"SEPOLIA_RPC_URL":                "https://rpc.sepolia.example",
		config.EnvDynamicNetworkName:     "staging",
		config.EnvDynamicNetworkURL:      "https://staging.example",
		config.EnvDynamicNoDeterministic: "true",
	}
	adapter := NewNetworkResolverAdapterWithEnv(cfg, env)

	t.Run("lists networks", func(t *testing.T) {
		assert.Equal(t, []string{"dynamic", "localhost", "sepolia"}, adapter.GetNetworks(ctx))
	})

	t.Run("expands static network url", func(t *testing.T) {
		network, err := adapter.ResolveNetwork(ctx, "sepolia")
		require.NoError(t, err)
		assert.Equal(t, "https://rpc.sepolia.example", network.URL)
		assert.Equal(t, uint64(11155111), network.ChainID)
		assert.True(t, network.Live)
	})

	t.Run("resolves dynamic network from env", func(t *testing.T) {
		network, err := adapter.ResolveNetwork(ctx, "dynamic")
		require.NoError(t, err)
		assert.Equal(t, "staging", network.Name)
		assert.Equal(t, "https://staging.example", network.URL)
		assert.True(t, network.IsDynamic)
		assert.True(t, network.NoDeterministicDeployment)
	})

	t.Run("unknown network", func(t *testing.T) {
		_, err := adapter.ResolveNetwork(ctx, "sepolya")
		assert.ErrorIs(t, err, domain.ErrUnknownNetwork)
	})
}
