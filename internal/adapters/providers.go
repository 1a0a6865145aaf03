package adapters

import (
	"github.com/google/wire"

	"github.com/eth-infinitism/aadeploy/internal/adapters/anvil"
	"github.com/eth-infinitism/aadeploy/internal/adapters/blockchain"
	"github.com/eth-infinitism/aadeploy/internal/adapters/compiler"
	internalconfig "github.com/eth-infinitism/aadeploy/internal/adapters/config"
	"github.com/eth-infinitism/aadeploy/internal/adapters/deployer"
	"github.com/eth-infinitism/aadeploy/internal/adapters/fs"
	"github.com/eth-infinitism/aadeploy/internal/adapters/interactive"
	"github.com/eth-infinitism/aadeploy/internal/adapters/keyring"
	"github.com/eth-infinitism/aadeploy/internal/config"
	"github.com/eth-infinitism/aadeploy/internal/usecase"
)

// FSSet provides filesystem-based implementations
var FSSet = wire.NewSet(
	fs.NewDeploymentStoreAdapter,
	wire.Bind(new(usecase.DeploymentStore), new(*fs.DeploymentStoreAdapter)),

	fs.NewArtifactStoreAdapter,
	wire.Bind(new(usecase.ArtifactStore), new(*fs.ArtifactStoreAdapter)),

	fs.NewSourceCollectorAdapter,
	wire.Bind(new(usecase.SourceCollector), new(*fs.SourceCollectorAdapter)),

	fs.NewLocalConfigStoreAdapter,
	wire.Bind(new(usecase.LocalConfigStore), new(*fs.LocalConfigStoreAdapter)),
)

// CompilerSet provides compiler resolution and execution
var CompilerSet = wire.NewSet(
	compiler.NewSolcBinResolver,
	compiler.NewOverrideResolver,
	wire.Bind(new(usecase.BuildResolver), new(*compiler.OverrideResolver)),

	compiler.NewSolcAdapter,
	wire.Bind(new(usecase.SolidityCompiler), new(*compiler.SolcAdapter)),
)

// DeployerSet provides the on-chain deployment session
var DeployerSet = wire.NewSet(
	deployer.NewConnector,
	wire.Bind(new(usecase.ChainConnector), new(*deployer.Connector)),
)

// InteractiveSet provides interactive implementations
var InteractiveSet = wire.NewSet(
	interactive.NewConfirmAdapter,
	wire.Bind(new(usecase.Confirmer), new(*interactive.ConfirmAdapter)),
)

// ConfigSet provides configuration-based implementations
var ConfigSet = wire.NewSet(
	internalconfig.NewNetworkResolverAdapter,
	wire.Bind(new(usecase.NetworkResolver), new(*internalconfig.NetworkResolverAdapter)),
)

// BlockchainSet provides blockchain-based implementations
var BlockchainSet = wire.NewSet(
	blockchain.NewCheckerAdapter,
	wire.Bind(new(usecase.BlockchainChecker), new(*blockchain.CheckerAdapter)),
)

// AnvilSet provides the local node manager
var AnvilSet = wire.NewSet(
	anvil.NewManager,
	wire.Bind(new(usecase.AnvilManager), new(*anvil.Manager)),
)

// KeyringSet provides the deployer key store, also used by the config provider
var KeyringSet = wire.NewSet(
	keyring.NewStore,
	wire.Bind(new(usecase.KeyStore), new(*keyring.Store)),
	wire.Bind(new(config.KeySource), new(*keyring.Store)),
)

// AllAdapters includes all adapter sets
var AllAdapters = wire.NewSet(
	FSSet,
	CompilerSet,
	DeployerSet,
	InteractiveSet,
	ConfigSet,
	BlockchainSet,
	AnvilSet,
	KeyringSet,
)
