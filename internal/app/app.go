package app

import (
	"log/slog"

	"github.com/eth-infinitism/aadeploy/internal/domain/config"
	"github.com/eth-infinitism/aadeploy/internal/usecase"
)

// App is the main application container that holds all use cases
type App struct {
	// Configuration
	Config *config.RuntimeConfig
	Log    *slog.Logger

	// Use cases
	DeployContracts  *usecase.DeployContracts
	CompileContracts *usecase.CompileContracts
	ResolveCompilers *usecase.ResolveCompilers
	ListNetworks     *usecase.ListNetworks
	ListDeployments  *usecase.ListDeployments
	ShowConfig       *usecase.ShowConfig
	SetConfig        *usecase.SetConfig
	RemoveConfig     *usecase.RemoveConfig
	ManageNode       *usecase.ManageNode
	ManageKey        *usecase.ManageKey
}

// NewApp creates a new application instance with all use cases
func NewApp(
	cfg *config.RuntimeConfig,
	log *slog.Logger,
	deployContracts *usecase.DeployContracts,
	compileContracts *usecase.CompileContracts,
	resolveCompilers *usecase.ResolveCompilers,
	listNetworks *usecase.ListNetworks,
	listDeployments *usecase.ListDeployments,
	showConfig *usecase.ShowConfig,
	setConfig *usecase.SetConfig,
	removeConfig *usecase.RemoveConfig,
	manageNode *usecase.ManageNode,
	manageKey *usecase.ManageKey,
) (*App, error) {
	return &App{
		Config:           cfg,
		Log:              log,
		DeployContracts:  deployContracts,
		CompileContracts: compileContracts,
		ResolveCompilers: resolveCompilers,
		ListNetworks:     listNetworks,
		ListDeployments:  listDeployments,
		ShowConfig:       showConfig,
		SetConfig:        setConfig,
		RemoveConfig:     removeConfig,
		ManageNode:       manageNode,
		ManageKey:        manageKey,
	}, nil
}
