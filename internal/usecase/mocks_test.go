package usecase_test

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"sync"

	"github.com/eth-infinitism/aadeploy/internal/domain"
	"github.com/eth-infinitism/aadeploy/internal/domain/config"
	"github.com/eth-infinitism/aadeploy/internal/domain/models"
	"github.com/eth-infinitism/aadeploy/internal/usecase"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/mock"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// MockConfirmer is a mock implementation of Confirmer
type MockConfirmer struct {
	mock.Mock
}

func (m *MockConfirmer) Confirm(message string) (bool, error) {
	args := m.Called(message)
	return args.Bool(0), args.Error(1)
}

// MockBuildResolver is a mock implementation of BuildResolver
type MockBuildResolver struct {
	mock.Mock
}

func (m *MockBuildResolver) Resolve(ctx context.Context, version string) (*config.CompilerBuild, error) {
	args := m.Called(ctx, version)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*config.CompilerBuild), args.Error(1)
}

// MockProgressSink records progress events
type MockProgressSink struct {
	events []usecase.ProgressEvent
	infos  []string
}

func (m *MockProgressSink) OnProgress(ctx context.Context, event usecase.ProgressEvent) {
	m.events = append(m.events, event)
}

func (m *MockProgressSink) Info(message string) {
	m.infos = append(m.infos, message)
}

func (m *MockProgressSink) Error(string) {}

// memArtifactStore keeps artifacts in memory
type memArtifactStore struct {
	artifacts map[string]*models.Artifact
}

func newMemArtifactStore(artifacts ...*models.Artifact) *memArtifactStore {
	s := &memArtifactStore{artifacts: make(map[string]*models.Artifact)}
	for _, a := range artifacts {
		s.artifacts[a.ContractName] = a
	}
	return s
}

func (s *memArtifactStore) GetArtifact(_ context.Context, contractName string) (*models.Artifact, error) {
	a, ok := s.artifacts[contractName]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrContractNotFound, contractName)
	}
	return a, nil
}

func (s *memArtifactStore) ListArtifacts(context.Context) ([]*models.Artifact, error) {
	var out []*models.Artifact
	for _, a := range s.artifacts {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ContractName < out[j].ContractName })
	return out, nil
}

func (s *memArtifactStore) SaveArtifact(_ context.Context, artifact *models.Artifact) error {
	s.artifacts[artifact.ContractName] = artifact
	return nil
}

// memDeploymentStore keeps deployment records in memory
type memDeploymentStore struct {
	mu       sync.Mutex
	records  map[string]map[string]models.Deployment
	chainIDs map[string]uint64
	saves    int
}

func newMemDeploymentStore() *memDeploymentStore {
	return &memDeploymentStore{
		records:  make(map[string]map[string]models.Deployment),
		chainIDs: make(map[string]uint64),
	}
}

func (s *memDeploymentStore) GetDeployment(_ context.Context, network, contractName string) (*models.Deployment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.records[network][contractName]
	if !ok {
		return nil, fmt.Errorf("deployment %s on %s: %w", contractName, network, domain.ErrNotFound)
	}
	return &d, nil
}

func (s *memDeploymentStore) ListDeployments(_ context.Context, network string) ([]*models.Deployment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*models.Deployment
	for _, d := range s.records[network] {
		d := d
		out = append(out, &d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ContractName < out[j].ContractName })
	return out, nil
}

func (s *memDeploymentStore) SaveDeployment(_ context.Context, network string, chainID uint64, deployment *models.Deployment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.records[network] == nil {
		s.records[network] = make(map[string]models.Deployment)
	}
	s.records[network][deployment.ContractName] = *deployment
	s.chainIDs[network] = chainID
	s.saves++
	return nil
}

func (s *memDeploymentStore) ListNetworks(context.Context) ([]string, error) {
	var names []string
	for name := range s.records {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

func (s *memDeploymentStore) GetChainID(_ context.Context, network string) (uint64, error) {
	id, ok := s.chainIDs[network]
	if !ok {
		return 0, domain.ErrNotFound
	}
	return id, nil
}

// fakeChain simulates the on-chain side of deployments
type fakeChain struct {
	chainID   uint64
	deployer  common.Address
	code      map[common.Address][]byte
	txs       []usecase.DeployTx
	nonce     uint64
	revert    bool
	proxyTxs  int
	connects  int
	lastKey   string
	connectFn func() error
}

func newFakeChain(chainID uint64) *fakeChain {
	return &fakeChain{
		chainID:  chainID,
		deployer: common.HexToAddress("0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266"),
		code:     make(map[common.Address][]byte),
	}
}

func (c *fakeChain) Connect(_ context.Context, _ *config.Network, deployerKey string) (usecase.ChainClient, error) {
	c.connects++
	c.lastKey = deployerKey
	if c.connectFn != nil {
		if err := c.connectFn(); err != nil {
			return nil, err
		}
	}
	return c, nil
}

func (c *fakeChain) ChainID() uint64          { return c.chainID }
func (c *fakeChain) Deployer() common.Address { return c.deployer }
func (c *fakeChain) Close()                   {}

func (c *fakeChain) HasCode(_ context.Context, address common.Address) (bool, error) {
	return len(c.code[address]) > 0, nil
}

func (c *fakeChain) EnsureDeterministicProxy(context.Context) (bool, error) {
	if len(c.code[domain.DeterministicProxyAddress]) > 0 {
		return false, nil
	}
	c.code[domain.DeterministicProxyAddress] = []byte{0x60}
	c.proxyTxs++
	return true, nil
}

func (c *fakeChain) Deploy(_ context.Context, tx usecase.DeployTx) (*models.Receipt, error) {
	c.txs = append(c.txs, tx)
	txHash := crypto.Keccak256Hash(tx.Data, []byte{byte(len(c.txs))})

	receipt := &models.Receipt{
		TransactionHash: txHash.Hex(),
		From:            c.deployer.Hex(),
		GasUsed:         21000,
		BlockNumber:     uint64(len(c.txs)),
		Status:          1,
	}
	if c.revert {
		receipt.Status = 0
		return receipt, nil
	}

	var created common.Address
	if tx.To != nil && *tx.To == domain.DeterministicProxyAddress {
		salt := common.BytesToHash(tx.Data[:32])
		created = domain.DeterministicAddress(salt, tx.Data[32:])
		receipt.To = tx.To.Hex()
	} else {
		created = crypto.CreateAddress(c.deployer, c.nonce)
		receipt.ContractAddress = created.Hex()
	}
	c.nonce++
	c.code[created] = []byte{0x60, 0x80}

	return receipt, nil
}
