package usecase

import (
	"context"
	"io"

	"github.com/eth-infinitism/aadeploy/internal/domain"
	"github.com/eth-infinitism/aadeploy/internal/domain/config"
	"github.com/eth-infinitism/aadeploy/internal/domain/models"
	"github.com/ethereum/go-ethereum/common"
)

// ArtifactStore handles persistence of compiled contract artifacts
type ArtifactStore interface {
	GetArtifact(ctx context.Context, contractName string) (*models.Artifact, error)
	ListArtifacts(ctx context.Context) ([]*models.Artifact, error)
	SaveArtifact(ctx context.Context, artifact *models.Artifact) error
}

// DeploymentStore handles persistence of deployment records, one directory per network
type DeploymentStore interface {
	GetDeployment(ctx context.Context, network, contractName string) (*models.Deployment, error)
	ListDeployments(ctx context.Context, network string) ([]*models.Deployment, error)
	SaveDeployment(ctx context.Context, network string, chainID uint64, deployment *models.Deployment) error
	ListNetworks(ctx context.Context) ([]string, error)
	GetChainID(ctx context.Context, network string) (uint64, error)
}

// BuildResolver resolves a compiler version to a compiler build
type BuildResolver interface {
	Resolve(ctx context.Context, version string) (*config.CompilerBuild, error)
}

// SourceCollector reads project sources and everything they import
type SourceCollector interface {
	Collect(ctx context.Context) (*models.SourceGraph, error)
}

// SolidityCompiler runs a compiler build on a standard JSON input
type SolidityCompiler interface {
	Compile(ctx context.Context, build *config.CompilerBuild, input *models.CompilerInput) (*models.CompilerOutput, error)
}

// ChainConnector opens a deployment session on a network
type ChainConnector interface {
	Connect(ctx context.Context, network *config.Network, deployerKey string) (ChainClient, error)
}

// ChainClient performs the on-chain side of a deployment for one deployer account
type ChainClient interface {
	ChainID() uint64
	Deployer() common.Address
	HasCode(ctx context.Context, address common.Address) (bool, error)
	// EnsureDeterministicProxy installs the deterministic-deployment proxy when
	// it is missing and reports whether a transaction was needed
	EnsureDeterministicProxy(ctx context.Context) (bool, error)
	// Deploy sends the deployment transaction and waits for it to be mined
	Deploy(ctx context.Context, tx DeployTx) (*models.Receipt, error)
	Close()
}

// DeployTx is a deployment transaction: a contract creation when To is nil,
// otherwise a call to the deterministic-deployment proxy
type DeployTx struct {
	To       *common.Address
	Data     []byte
	GasLimit uint64
}

// BlockchainChecker performs read-only checks against RPC endpoints
type BlockchainChecker interface {
	GetChainID(ctx context.Context, rpcURL string) (uint64, error)
	HasCode(ctx context.Context, rpcURL string, address common.Address) (bool, error)
}

// LocalConfigStore persists the local configuration overrides
type LocalConfigStore interface {
	Exists() bool
	Load(ctx context.Context) (*domain.LocalConfig, error)
	Save(ctx context.Context, config *domain.LocalConfig) error
	GetPath() string
}

// Confirmer asks the user to confirm an action
type Confirmer interface {
	Confirm(message string) (bool, error)
}

// KeyStore stores the deployer private key outside the environment
type KeyStore interface {
	DeployerKey() (string, error)
	SetDeployerKey(key string) error
	DeleteDeployerKey() error
}

// AnvilManager manages local anvil node instances
type AnvilManager interface {
	Start(ctx context.Context, instance *domain.AnvilInstance) error
	Stop(ctx context.Context, instance *domain.AnvilInstance) error
	GetStatus(ctx context.Context, instance *domain.AnvilInstance) (*domain.AnvilStatus, error)
	InstallProxy(ctx context.Context, instance *domain.AnvilInstance) error
	StreamLogs(ctx context.Context, instance *domain.AnvilInstance, writer io.Writer) error
}

// Progress tracking interfaces

// ProgressEvent represents a progress update
type ProgressEvent struct {
	Stage    string
	Current  int
	Total    int
	Message  string
	Spinner  bool
	Metadata interface{}
}

// ProgressSink receives progress events
type ProgressSink interface {
	OnProgress(ctx context.Context, event ProgressEvent)
	Info(message string)
	Error(message string)
}

// NopProgress is a no-op implementation of ProgressSink
type NopProgress struct{}

func (NopProgress) OnProgress(context.Context, ProgressEvent) {}
func (NopProgress) Info(string)                               {}
func (NopProgress) Error(string)                              {}

// NetworkResolver resolves configured network names
type NetworkResolver interface {
	GetNetworks(ctx context.Context) []string
	ResolveNetwork(ctx context.Context, name string) (*config.Network, error)
}
