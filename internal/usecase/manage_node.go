package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/ethereum/go-ethereum/common"

	"github.com/eth-infinitism/aadeploy/internal/domain"
)

// Defaults for the local node. The node name doubles as the network whose
// deployment records are checked against it, so "dev" matches the dev network.
const (
	DefaultNodeName    = "dev"
	DefaultNodePort    = "8545"
	DefaultNodeChainID = "31337"
)

// NodeParams identifies a local node
type NodeParams struct {
	Name    string
	Port    string
	ChainID string
}

func (p NodeParams) instance() *domain.AnvilInstance {
	instance := &domain.AnvilInstance{Name: p.Name, Port: p.Port, ChainID: p.ChainID}
	if instance.Name == "" {
		instance.Name = DefaultNodeName
	}
	if instance.Port == "" {
		instance.Port = DefaultNodePort
	}
	if instance.ChainID == "" {
		instance.ChainID = DefaultNodeChainID
	}
	return instance
}

// NodeEntryPoint is the recorded EntryPoint of the node's network
type NodeEntryPoint struct {
	Address  string `json:"address"`
	Deployed bool   `json:"deployed"`
}

// NodeReport describes a local node and whether it can take deterministic deployments
type NodeReport struct {
	Instance *domain.AnvilInstance `json:"instance"`
	Status   *domain.AnvilStatus   `json:"status"`
	// ChainID is the chain id the node reports over RPC
	ChainID uint64 `json:"chainId,omitempty"`
	// ChainIDMismatch is set when the node reports another chain id than requested
	ChainIDMismatch bool `json:"chainIdMismatch,omitempty"`
	// Ready is set when the chain id matches and the deployment proxy is present
	Ready          bool            `json:"ready"`
	ProxyInstalled bool            `json:"proxyInstalled,omitempty"`
	EntryPoint     *NodeEntryPoint `json:"entryPoint,omitempty"`
	// WasRunning is set by stop when there was a node to stop
	WasRunning bool `json:"wasRunning,omitempty"`
}

// ManageNode runs the local anvil node used for deployment testing
type ManageNode struct {
	anvil       AnvilManager
	checker     BlockchainChecker
	deployments DeploymentStore
	progress    ProgressSink
}

// NewManageNode creates a new ManageNode use case
func NewManageNode(anvil AnvilManager, checker BlockchainChecker, deployments DeploymentStore, progress ProgressSink) *ManageNode {
	return &ManageNode{
		anvil:       anvil,
		checker:     checker,
		deployments: deployments,
		progress:    progress,
	}
}

// Start launches the node and installs the deterministic deployment proxy when missing
func (m *ManageNode) Start(ctx context.Context, params NodeParams) (*NodeReport, error) {
	instance := params.instance()
	m.progress.Info(fmt.Sprintf("Starting local anvil node '%s' on port %s...", instance.Name, instance.Port))

	status, err := m.anvil.GetStatus(ctx, instance)
	if err == nil && status.Running {
		return nil, fmt.Errorf("anvil '%s' is already running (PID %d)", instance.Name, status.PID)
	}

	if err := m.anvil.Start(ctx, instance); err != nil {
		return nil, fmt.Errorf("failed to start anvil: %w", err)
	}
	return m.inspect(ctx, instance, true)
}

// Stop stops the node if it is running
func (m *ManageNode) Stop(ctx context.Context, params NodeParams) (*NodeReport, error) {
	instance := params.instance()
	m.progress.Info(fmt.Sprintf("Stopping anvil '%s'...", instance.Name))

	status, err := m.anvil.GetStatus(ctx, instance)
	if err != nil || !status.Running {
		return &NodeReport{Instance: instance, Status: &domain.AnvilStatus{}}, nil
	}

	if err := m.anvil.Stop(ctx, instance); err != nil {
		return nil, fmt.Errorf("failed to stop anvil: %w", err)
	}
	return &NodeReport{Instance: instance, Status: &domain.AnvilStatus{}, WasRunning: true}, nil
}

// Restart stops the node if it is running and starts it again.
// Anvil keeps no state across restarts, so every deployment is gone afterwards.
func (m *ManageNode) Restart(ctx context.Context, params NodeParams) (*NodeReport, error) {
	instance := params.instance()
	m.progress.Info(fmt.Sprintf("Restarting anvil '%s'...", instance.Name))

	status, err := m.anvil.GetStatus(ctx, instance)
	if err == nil && status.Running {
		if err := m.anvil.Stop(ctx, instance); err != nil {
			return nil, fmt.Errorf("failed to stop anvil: %w", err)
		}
	}

	if err := m.anvil.Start(ctx, instance); err != nil {
		return nil, fmt.Errorf("failed to start anvil: %w", err)
	}
	return m.inspect(ctx, instance, true)
}

// Status reports the node without changing it
func (m *ManageNode) Status(ctx context.Context, params NodeParams) (*NodeReport, error) {
	return m.inspect(ctx, params.instance(), false)
}

// Logs resolves the node's log file for FollowLogs
func (m *ManageNode) Logs(ctx context.Context, params NodeParams) (*NodeReport, error) {
	instance := params.instance()
	status, err := m.anvil.GetStatus(ctx, instance)
	if err != nil {
		return nil, fmt.Errorf("failed to get status: %w", err)
	}
	return &NodeReport{Instance: instance, Status: status}, nil
}

// FollowLogs streams the node's log to w until ctx is cancelled
func (m *ManageNode) FollowLogs(ctx context.Context, report *NodeReport, w io.Writer) error {
	return m.anvil.StreamLogs(ctx, report.Instance, w)
}

func (m *ManageNode) inspect(ctx context.Context, instance *domain.AnvilInstance, repair bool) (*NodeReport, error) {
	status, err := m.anvil.GetStatus(ctx, instance)
	if err != nil {
		return nil, fmt.Errorf("failed to get status: %w", err)
	}

	report := &NodeReport{Instance: instance, Status: status}
	if !status.Running || !status.RPCHealthy {
		return report, nil
	}

	chainID, err := m.checker.GetChainID(ctx, status.RPCURL)
	if err != nil {
		status.Error = err.Error()
		return report, nil
	}
	report.ChainID = chainID
	if want, err := strconv.ParseUint(instance.ChainID, 10, 64); err == nil && want != chainID {
		report.ChainIDMismatch = true
	}

	if repair && !status.ProxyDeployed {
		if err := m.anvil.InstallProxy(ctx, instance); err != nil {
			return nil, err
		}
		status.ProxyDeployed = true
		report.ProxyInstalled = true
	}
	report.Ready = status.ProxyDeployed && !report.ChainIDMismatch

	entryPoint, err := m.deployments.GetDeployment(ctx, instance.Name, EntryPointContract)
	switch {
	case errors.Is(err, domain.ErrNotFound):
	case err != nil:
		return nil, fmt.Errorf("failed to read EntryPoint deployment of %s: %w", instance.Name, err)
	default:
		deployed, err := m.checker.HasCode(ctx, status.RPCURL, common.HexToAddress(entryPoint.Address))
		if err != nil {
			status.Error = err.Error()
			return report, nil
		}
		report.EntryPoint = &NodeEntryPoint{Address: entryPoint.Address, Deployed: deployed}
	}

	return report, nil
}
