package usecase_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/eth-infinitism/aadeploy/internal/domain"
	"github.com/eth-infinitism/aadeploy/internal/domain/config"
	"github.com/eth-infinitism/aadeploy/internal/domain/models"
	"github.com/eth-infinitism/aadeploy/internal/usecase"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const (
	testSalt = "0x90d8084deab30c2a37c45e8d47f49f2f7965183cb6990a98943ef94940681de3"
	testKey  = "0xac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80"

	entryPointBytecode = "0x6080604052348015600f57600080fd5b50603f80601d6000396000f3fe6080604052600080fdfea164736f6c6343000817000a"
	factoryBytecode    = "0x60a0604052348015600f57600080fd5b50604051601e3803601e833981016040819052602b91603b565b6001600160a01b03166080526069565b"
	factoryABI         = `[{"type":"constructor","inputs":[{"name":"_entryPoint","type":"address","internalType":"contract IEntryPoint"}],"stateMutability":"nonpayable"}]`
)

func testArtifacts() *memArtifactStore {
	return newMemArtifactStore(
		&models.Artifact{
			Format:       models.ArtifactFormat,
			ContractName: "EntryPoint",
			SourceName:   "contracts/core/EntryPoint.sol",
			ABI:          json.RawMessage(`[]`),
			Bytecode:     entryPointBytecode,
		},
		&models.Artifact{
			Format:       models.ArtifactFormat,
			ContractName: "SimpleAccountFactory",
			SourceName:   "contracts/samples/SimpleAccountFactory.sol",
			ABI:          json.RawMessage(factoryABI),
			Bytecode:     factoryBytecode,
		},
	)
}

func testRuntimeConfig(network *config.Network) *config.RuntimeConfig {
	return &config.RuntimeConfig{
		Network:     network,
		Salt:        testSalt,
		DeployerKey: testKey,
	}
}

type deployFixture struct {
	chain       *fakeChain
	deployments *memDeploymentStore
	confirmer   *MockConfirmer
	uc          *usecase.DeployContracts
}

func newDeployFixture(t *testing.T, network *config.Network, chainID uint64) *deployFixture {
	t.Helper()
	f := &deployFixture{
		chain:       newFakeChain(chainID),
		deployments: newMemDeploymentStore(),
		confirmer:   &MockConfirmer{},
	}
	f.uc = usecase.NewDeployContracts(
		testRuntimeConfig(network),
		testArtifacts(),
		f.deployments,
		f.chain,
		f.confirmer,
		&MockProgressSink{},
		discardLogger(),
	)
	return f
}

func TestDeployContracts_Deterministic(t *testing.T) {
	ctx := context.Background()
	salt := common.HexToHash(testSalt)
	wantEntryPoint := crypto.CreateAddress2(domain.DeterministicProxyAddress, salt, crypto.Keccak256(common.FromHex(entryPointBytecode)))

	t.Run("fresh local chain deploys entry point and factory", func(t *testing.T) {
		f := newDeployFixture(t, &config.Network{Name: "dev", URL: "http://localhost:8545"}, 31337)

		result, err := f.uc.Run(ctx, usecase.DeployContractsParams{SimpleAccountFactory: true})
		require.NoError(t, err)

		assert.True(t, result.Deterministic)
		assert.True(t, result.ProxyInstalled)
		assert.Equal(t, uint64(31337), result.ChainID)
		assert.Equal(t, testKey, f.chain.lastKey)
		require.Len(t, result.Deployments, 2)

		entryPoint := result.EntryPoint()
		require.NotNil(t, entryPoint)
		assert.Equal(t, wantEntryPoint.Hex(), entryPoint.Address)
		assert.Equal(t, models.DeploymentMethodCreate2, entryPoint.Method)
		assert.Equal(t, salt.Hex(), entryPoint.Salt)
		assert.False(t, entryPoint.Reused)
		assert.Equal(t, 1, entryPoint.NumDeployments)

		require.Len(t, f.chain.txs, 2)
		tx := f.chain.txs[0]
		require.NotNil(t, tx.To)
		assert.Equal(t, domain.DeterministicProxyAddress, *tx.To)
		assert.Equal(t, usecase.DeployGasLimit, tx.GasLimit)
		assert.Equal(t, salt.Bytes(), tx.Data[:32])
		assert.Equal(t, common.FromHex(entryPointBytecode), tx.Data[32:])

		// factory constructor receives the entry point address
		factoryTx := f.chain.txs[1]
		assert.Equal(t, common.LeftPadBytes(wantEntryPoint.Bytes(), 32), factoryTx.Data[len(factoryTx.Data)-32:])
		factory := result.Deployments[1]
		assert.Equal(t, "SimpleAccountFactory", factory.ContractName)
		assert.Len(t, factory.Args, 1)
	})

	t.Run("fresh anvil chain sends exactly one transaction", func(t *testing.T) {
		f := newDeployFixture(t, &config.Network{Name: "localhost", URL: "http://localhost:8545"}, 31337)
		// anvil ships with the deterministic deployment proxy
		f.chain.code[domain.DeterministicProxyAddress] = []byte{0x60}

		result, err := f.uc.Run(ctx, usecase.DeployContractsParams{})
		require.NoError(t, err)

		assert.False(t, result.ProxyInstalled)
		assert.Zero(t, f.chain.proxyTxs)
		require.Len(t, f.chain.txs, 1)
		require.Len(t, result.Deployments, 1)
		assert.Equal(t, wantEntryPoint.Hex(), result.EntryPoint().Address)
	})

	t.Run("second run sends no transaction", func(t *testing.T) {
		f := newDeployFixture(t, &config.Network{Name: "dev", URL: "http://localhost:8545"}, 31337)

		params := usecase.DeployContractsParams{SimpleAccountFactory: true}
		first, err := f.uc.Run(ctx, params)
		require.NoError(t, err)
		txCount := len(f.chain.txs)
		saves := f.deployments.saves

		second, err := f.uc.Run(ctx, params)
		require.NoError(t, err)

		assert.Equal(t, txCount, len(f.chain.txs), "no new transactions")
		assert.Equal(t, saves, f.deployments.saves, "records unchanged")
		assert.Equal(t, 1, f.chain.proxyTxs)
		assert.False(t, second.ProxyInstalled)
		require.Len(t, second.Deployments, 2)
		for i := range second.Deployments {
			assert.True(t, second.Deployments[i].Reused)
			assert.Equal(t, first.Deployments[i].Address, second.Deployments[i].Address)
		}
	})

	t.Run("code deployed by someone else is reused and recorded", func(t *testing.T) {
		f := newDeployFixture(t, &config.Network{Name: "sepolia", URL: "http://localhost:8545"}, 11155111)
		f.chain.code[wantEntryPoint] = []byte{0x60}

		result, err := f.uc.Run(ctx, usecase.DeployContractsParams{})
		require.NoError(t, err)

		assert.Empty(t, f.chain.txs)
		entryPoint := result.EntryPoint()
		assert.True(t, entryPoint.Reused)
		assert.Equal(t, wantEntryPoint.Hex(), entryPoint.Address)

		stored, err := f.deployments.GetDeployment(ctx, "sepolia", "EntryPoint")
		require.NoError(t, err)
		assert.Equal(t, wantEntryPoint.Hex(), stored.Address)
		assert.Empty(t, stored.TransactionHash)
	})

	t.Run("same inputs give the same address on another chain", func(t *testing.T) {
		a := newDeployFixture(t, &config.Network{Name: "dev", URL: "http://localhost:8545"}, 31337)
		b := newDeployFixture(t, &config.Network{Name: "other", URL: "http://localhost:9545"}, 1337)

		ra, err := a.uc.Run(ctx, usecase.DeployContractsParams{})
		require.NoError(t, err)
		rb, err := b.uc.Run(ctx, usecase.DeployContractsParams{})
		require.NoError(t, err)

		assert.Equal(t, ra.EntryPoint().Address, rb.EntryPoint().Address)
	})
}

func TestDeployContracts_SimpleAccountFactoryFlag(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name        string
		chainID     uint64
		flag        bool
		wantFactory bool
	}{
		{name: "local chain default", chainID: 31337, wantFactory: false},
		{name: "ganache chain default", chainID: 1337, wantFactory: false},
		{name: "remote chain default", chainID: 10, wantFactory: false},
		{name: "enabled on remote chain", chainID: 10, flag: true, wantFactory: true},
		{name: "enabled on local chain", chainID: 31337, flag: true, wantFactory: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newDeployFixture(t, &config.Network{Name: "net", URL: "http://localhost:8545"}, tt.chainID)

			result, err := f.uc.Run(ctx, usecase.DeployContractsParams{SimpleAccountFactory: tt.flag})
			require.NoError(t, err)

			if tt.wantFactory {
				assert.Len(t, result.Deployments, 2)
				assert.Len(t, f.chain.txs, 2)
			} else {
				assert.Len(t, result.Deployments, 1)
				assert.Len(t, f.chain.txs, 1)
			}
		})
	}
}

func TestDeployContracts_NoDeterministicDeployment(t *testing.T) {
	ctx := context.Background()
	network := &config.Network{Name: "devnet", URL: "http://localhost:8545", NoDeterministicDeployment: true, IsDynamic: true}

	f := newDeployFixture(t, network, 1337)

	first, err := f.uc.Run(ctx, usecase.DeployContractsParams{})
	require.NoError(t, err)

	assert.False(t, first.Deterministic)
	assert.False(t, first.ProxyInstalled)
	assert.Zero(t, f.chain.proxyTxs)
	require.Len(t, f.chain.txs, 1)
	assert.Nil(t, f.chain.txs[0].To)

	entryPoint := first.EntryPoint()
	assert.Equal(t, crypto.CreateAddress(f.chain.deployer, 0).Hex(), entryPoint.Address)
	assert.Equal(t, models.DeploymentMethodCreate, entryPoint.Method)
	assert.Empty(t, entryPoint.Salt)

	second, err := f.uc.Run(ctx, usecase.DeployContractsParams{})
	require.NoError(t, err)
	assert.Len(t, f.chain.txs, 1, "record with unchanged bytecode is reused")
	assert.True(t, second.EntryPoint().Reused)
	assert.Equal(t, entryPoint.Address, second.EntryPoint().Address)

	// bytecode lost from the chain: deploy again
	delete(f.chain.code, common.HexToAddress(entryPoint.Address))
	third, err := f.uc.Run(ctx, usecase.DeployContractsParams{})
	require.NoError(t, err)
	assert.Len(t, f.chain.txs, 2)
	assert.Equal(t, 2, third.EntryPoint().NumDeployments)
	assert.NotEqual(t, entryPoint.Address, third.EntryPoint().Address)
}

func TestDeployContracts_Errors(t *testing.T) {
	ctx := context.Background()

	t.Run("no network", func(t *testing.T) {
		f := newDeployFixture(t, nil, 31337)
		_, err := f.uc.Run(ctx, usecase.DeployContractsParams{})
		require.Error(t, err)
		assert.Zero(t, f.chain.connects)
	})

	t.Run("live network declined", func(t *testing.T) {
		f := newDeployFixture(t, &config.Network{Name: "mainnet", URL: "https://rpc.example", Live: true}, 1)
		f.confirmer.On("Confirm", mock.AnythingOfType("string")).Return(false, nil)

		_, err := f.uc.Run(ctx, usecase.DeployContractsParams{})
		assert.ErrorIs(t, err, domain.ErrAborted)
		assert.Zero(t, f.chain.connects)
		f.confirmer.AssertExpectations(t)
	})

	t.Run("live network confirmed", func(t *testing.T) {
		f := newDeployFixture(t, &config.Network{Name: "mainnet", URL: "https://rpc.example", Live: true}, 1)
		f.confirmer.On("Confirm", mock.AnythingOfType("string")).Return(true, nil)

		_, err := f.uc.Run(ctx, usecase.DeployContractsParams{})
		require.NoError(t, err)
		assert.Len(t, f.chain.txs, 1)
	})

	t.Run("live network with --yes skips the prompt", func(t *testing.T) {
		f := newDeployFixture(t, &config.Network{Name: "mainnet", URL: "https://rpc.example", Live: true}, 1)

		_, err := f.uc.Run(ctx, usecase.DeployContractsParams{Yes: true})
		require.NoError(t, err)
		f.confirmer.AssertNotCalled(t, "Confirm", mock.Anything)
	})

	t.Run("zksync network is rejected", func(t *testing.T) {
		network := &config.Network{Name: "abstract", URL: "https://api.mainnet.abs.xyz", ChainID: 2741, NoDeterministicDeployment: true, ZkSync: true}
		f := newDeployFixture(t, network, 2741)

		_, err := f.uc.Run(ctx, usecase.DeployContractsParams{Yes: true})
		assert.ErrorIs(t, err, domain.ErrZkSyncUnsupported)
		assert.Contains(t, err.Error(), "abstract")
		assert.Zero(t, f.chain.connects)
		assert.Empty(t, f.chain.txs)
	})

	t.Run("chain id mismatch", func(t *testing.T) {
		f := newDeployFixture(t, &config.Network{Name: "abstract", URL: "http://localhost:8545", ChainID: 2741}, 31337)

		_, err := f.uc.Run(ctx, usecase.DeployContractsParams{})
		assert.ErrorIs(t, err, domain.ErrChainIDMismatch)
		assert.Empty(t, f.chain.txs)
	})

	t.Run("connect failure", func(t *testing.T) {
		f := newDeployFixture(t, &config.Network{Name: "dev", URL: "http://localhost:8545"}, 31337)
		f.chain.connectFn = func() error { return errors.New("connection refused") }

		_, err := f.uc.Run(ctx, usecase.DeployContractsParams{})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "connection refused")
	})

	t.Run("reverted deployment", func(t *testing.T) {
		f := newDeployFixture(t, &config.Network{Name: "dev", URL: "http://localhost:8545"}, 31337)
		f.chain.revert = true

		_, err := f.uc.Run(ctx, usecase.DeployContractsParams{})
		assert.ErrorIs(t, err, domain.ErrDeploymentReverted)
		assert.Zero(t, f.deployments.saves)
	})

	t.Run("invalid salt", func(t *testing.T) {
		f := newDeployFixture(t, &config.Network{Name: "dev", URL: "http://localhost:8545"}, 31337)
		cfg := testRuntimeConfig(&config.Network{Name: "dev", URL: "http://localhost:8545"})
		cfg.Salt = "not-hex"
		uc := usecase.NewDeployContracts(cfg, testArtifacts(), f.deployments, f.chain, f.confirmer, &MockProgressSink{}, discardLogger())

		_, err := uc.Run(ctx, usecase.DeployContractsParams{})
		assert.ErrorIs(t, err, domain.ErrInvalidSalt)
		assert.Zero(t, f.chain.connects)
	})

	t.Run("missing artifact", func(t *testing.T) {
		f := newDeployFixture(t, &config.Network{Name: "dev", URL: "http://localhost:8545"}, 31337)
		uc := usecase.NewDeployContracts(testRuntimeConfig(&config.Network{Name: "dev", URL: "http://localhost:8545"}),
			newMemArtifactStore(), f.deployments, f.chain, f.confirmer, &MockProgressSink{}, discardLogger())

		_, err := uc.Run(ctx, usecase.DeployContractsParams{})
		assert.ErrorIs(t, err, domain.ErrContractNotFound)
		assert.Empty(t, f.chain.txs)
	})
}
