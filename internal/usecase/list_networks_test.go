package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/eth-infinitism/aadeploy/internal/domain"
	"github.com/eth-infinitism/aadeploy/internal/domain/config"
	"github.com/eth-infinitism/aadeploy/internal/usecase"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeNetworkResolver struct {
	networks map[string]*config.Network
	errs     map[string]error
	names    []string
}

func (f *fakeNetworkResolver) GetNetworks(context.Context) []string {
	return f.names
}

func (f *fakeNetworkResolver) ResolveNetwork(_ context.Context, name string) (*config.Network, error) {
	if err, ok := f.errs[name]; ok {
		return nil, err
	}
	return f.networks[name], nil
}

type fakeChecker struct {
	chainIDs map[string]uint64
	code     map[string]map[common.Address]bool
	err      error
	calls    int
}

func (f *fakeChecker) GetChainID(_ context.Context, rpcURL string) (uint64, error) {
	f.calls++
	if f.err != nil {
		return 0, f.err
	}
	return f.chainIDs[rpcURL], nil
}

func (f *fakeChecker) HasCode(_ context.Context, rpcURL string, address common.Address) (bool, error) {
	f.calls++
	if f.err != nil {
		return false, f.err
	}
	return f.code[rpcURL][address], nil
}

func TestListNetworks(t *testing.T) {
	ctx := context.Background()

	resolver := &fakeNetworkResolver{
		names: []string{"abstract", "dev", "dynamic"},
		networks: map[string]*config.Network{
			"abstract": {Name: "abstract", URL: "https://abs", ChainID: 2741, ZkSync: true, NoDeterministicDeployment: true},
			"dev":      {Name: "dev", URL: "http://localhost:8545"},
		},
		errs: map[string]error{
			"dynamic": &domain.MissingEnvVarError{Name: "HARDHAT_DYNAMIC_NETWORK_NAME"},
		},
	}

	t.Run("checks chain id and proxy", func(t *testing.T) {
		checker := &fakeChecker{
			chainIDs: map[string]uint64{"https://abs": 2741, "http://localhost:8545": 31337},
			code: map[string]map[common.Address]bool{
				"http://localhost:8545": {domain.DeterministicProxyAddress: true},
			},
		}
		uc := usecase.NewListNetworks(&config.RuntimeConfig{DefaultNetwork: "dev"}, resolver, checker)

		result, err := uc.Run(ctx, usecase.ListNetworksParams{})
		require.NoError(t, err)
		require.Len(t, result.Networks, 3)

		abstract := result.Networks[0]
		assert.NoError(t, abstract.Error)
		assert.Equal(t, uint64(2741), abstract.ChainID)
		assert.False(t, abstract.ProxyDeployed)

		dev := result.Networks[1]
		assert.True(t, dev.Default)
		assert.Equal(t, uint64(31337), dev.ChainID)
		assert.True(t, dev.ProxyDeployed)

		dynamic := result.Networks[2]
		assert.EqualError(t, dynamic.Error, "HARDHAT_DYNAMIC_NETWORK_NAME is missing")
	})

	t.Run("chain id mismatch is reported per network", func(t *testing.T) {
		checker := &fakeChecker{chainIDs: map[string]uint64{"https://abs": 1}}
		uc := usecase.NewListNetworks(&config.RuntimeConfig{}, resolver, checker)

		result, err := uc.Run(ctx, usecase.ListNetworksParams{})
		require.NoError(t, err)
		assert.ErrorIs(t, result.Networks[0].Error, domain.ErrChainIDMismatch)
	})

	t.Run("rpc errors do not fail the listing", func(t *testing.T) {
		checker := &fakeChecker{err: errors.New("dial tcp: connection refused")}
		uc := usecase.NewListNetworks(&config.RuntimeConfig{}, resolver, checker)

		result, err := uc.Run(ctx, usecase.ListNetworksParams{})
		require.NoError(t, err)
		assert.Error(t, result.Networks[1].Error)
	})

	t.Run("offline skips rpc", func(t *testing.T) {
		checker := &fakeChecker{}
		uc := usecase.NewListNetworks(&config.RuntimeConfig{}, resolver, checker)

		result, err := uc.Run(ctx, usecase.ListNetworksParams{Offline: true})
		require.NoError(t, err)
		assert.Zero(t, checker.calls)
		assert.Equal(t, uint64(2741), result.Networks[0].ChainID)
	})
}
