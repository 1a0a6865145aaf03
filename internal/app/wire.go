//go:build wireinject
// +build wireinject

package app

import (
	"github.com/google/wire"
	"github.com/spf13/viper"

	"github.com/eth-infinitism/aadeploy/internal/adapters"
	"github.com/eth-infinitism/aadeploy/internal/config"
	"github.com/eth-infinitism/aadeploy/internal/logging"
	"github.com/eth-infinitism/aadeploy/internal/usecase"
)

// InitApp creates a fully wired App instance
func InitApp(v *viper.Viper, sink usecase.ProgressSink) (*App, error) {
	wire.Build(
		// Configuration
		config.Provider,
		logging.LoggingSet,

		// Adapters
		adapters.AllAdapters,

		// Use cases
		usecase.NewDeployContracts,
		usecase.NewCompileContracts,
		usecase.NewResolveCompilers,
		usecase.NewListNetworks,
		usecase.NewListDeployments,
		usecase.NewShowConfig,
		usecase.NewSetConfig,
		usecase.NewRemoveConfig,
		usecase.NewManageNode,
		usecase.NewManageKey,

		// App
		NewApp,
	)
	return nil, nil
}
