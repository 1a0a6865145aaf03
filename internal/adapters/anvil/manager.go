package anvil

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/rpc"

	"github.com/eth-infinitism/aadeploy/internal/domain"
	"github.com/eth-infinitism/aadeploy/internal/usecase"
)

const (
	DefaultAnvilName = "anvil"
	DefaultAnvilPort = "8545"

	startupTimeout = 10 * time.Second
	stopTimeout    = 5 * time.Second
	rpcTimeout     = 2 * time.Second
)

// Manager runs anvil nodes in the background, tracked by pid and log files
type Manager struct {
	log     *slog.Logger
	tempDir string
	binary  string
}

// NewManager creates a new anvil manager
func NewManager(log *slog.Logger) *Manager {
	return &Manager{
		log:     log.With("component", "AnvilManager"),
		tempDir: os.TempDir(),
		binary:  "anvil",
	}
}

// setFilePaths fills in defaults and per-instance pid and log files
func (m *Manager) setFilePaths(instance *domain.AnvilInstance) {
	if strings.TrimSpace(instance.Name) == "" {
		instance.Name = DefaultAnvilName
	}
	if strings.TrimSpace(instance.Port) == "" {
		instance.Port = DefaultAnvilPort
	}
	if instance.PidFile == "" {
		instance.PidFile = filepath.Join(m.tempDir, fmt.Sprintf("aadeploy-%s.pid", instance.Name))
	}
	if instance.LogFile == "" {
		instance.LogFile = filepath.Join(m.tempDir, fmt.Sprintf("aadeploy-%s.log", instance.Name))
	}
}

func buildAnvilArgs(instance *domain.AnvilInstance) []string {
	args := []string{"--port", instance.Port, "--host", "0.0.0.0"}
	if instance.ChainID != "" {
		args = append(args, "--chain-id", instance.ChainID)
	}
	return args
}

func rpcURL(instance *domain.AnvilInstance) string {
	return fmt.Sprintf("http://localhost:%s", instance.Port)
}

// Start launches anvil and waits for its RPC
func (m *Manager) Start(ctx context.Context, instance *domain.AnvilInstance) error {
	m.setFilePaths(instance)
	if m.isRunning(instance) {
		return fmt.Errorf("anvil '%s' is already running (PID file exists at %s)", instance.Name, instance.PidFile)
	}

	if _, err := exec.LookPath(m.binary); err != nil {
		return fmt.Errorf("anvil not found in PATH, install foundry: %w", err)
	}

	logFile, err := os.Create(instance.LogFile)
	if err != nil {
		return fmt.Errorf("failed to create log file: %w", err)
	}
	defer logFile.Close()

	cmd := exec.Command(m.binary, buildAnvilArgs(instance)...)
	cmd.Stdout = logFile
	cmd.Stderr = logFile

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to start anvil: %w", err)
	}
	m.log.Debug("started anvil", "name", instance.Name, "pid", cmd.Process.Pid, "port", instance.Port)

	if err := writePidFile(instance.PidFile, cmd.Process.Pid); err != nil {
		_ = cmd.Process.Kill()
		return fmt.Errorf("failed to write PID file: %w", err)
	}
	// Detach; the node outlives this process
	_ = cmd.Process.Release()

	return m.waitForRPC(ctx, instance)
}

func (m *Manager) waitForRPC(ctx context.Context, instance *domain.AnvilInstance) error {
	ctx, cancel := context.WithTimeout(ctx, startupTimeout)
	defer cancel()

	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		if err := m.checkRPCHealth(ctx, instance); err == nil {
			return nil
		}
		select {
		case <-ctx.Done():
			return fmt.Errorf("anvil '%s' did not become ready, see %s", instance.Name, instance.LogFile)
		case <-ticker.C:
		}
	}
}

// InstallProxy sets the deterministic deployment proxy code with anvil_setCode
func (m *Manager) InstallProxy(ctx context.Context, instance *domain.AnvilInstance) error {
	err := m.call(ctx, instance, nil, "anvil_setCode",
		domain.DeterministicProxyAddress,
		hexutil.Bytes(domain.DeterministicProxyRuntimeCode),
	)
	if err != nil {
		return fmt.Errorf("failed to install deterministic deployment proxy: %w", err)
	}
	return nil
}

// Stop terminates the instance and removes its pid file
func (m *Manager) Stop(ctx context.Context, instance *domain.AnvilInstance) error {
	m.setFilePaths(instance)
	if !m.isRunning(instance) {
		return nil
	}

	pid, err := readPidFile(instance.PidFile)
	if err != nil {
		return fmt.Errorf("failed to read PID file: %w", err)
	}

	process, err := os.FindProcess(pid)
	if err != nil {
		return fmt.Errorf("failed to find process: %w", err)
	}

	if err := process.Signal(syscall.SIGTERM); err != nil {
		if err := process.Kill(); err != nil {
			return fmt.Errorf("failed to kill process: %w", err)
		}
	}

	// The process is not our child, so poll until it's gone
	deadline := time.Now().Add(stopTimeout)
	for processAlive(process) {
		if time.Now().After(deadline) {
			_ = process.Kill()
			break
		}
		time.Sleep(50 * time.Millisecond)
	}

	if err := os.Remove(instance.PidFile); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove PID file: %w", err)
	}
	return nil
}

// GetStatus reports process, RPC and proxy state of the instance
func (m *Manager) GetStatus(ctx context.Context, instance *domain.AnvilInstance) (*domain.AnvilStatus, error) {
	m.setFilePaths(instance)

	status := &domain.AnvilStatus{
		LogFile:      instance.LogFile,
		ProxyAddress: domain.DeterministicProxyAddress.Hex(),
	}
	if !m.isRunning(instance) {
		return status, nil
	}

	status.Running = true
	status.PID, _ = readPidFile(instance.PidFile)
	status.RPCURL = rpcURL(instance)

	if err := m.checkRPCHealth(ctx, instance); err != nil {
		status.Error = err.Error()
		return status, nil
	}
	status.RPCHealthy = true

	deployed, err := m.checkProxyDeployment(ctx, instance)
	if err != nil {
		status.Error = err.Error()
		return status, nil
	}
	status.ProxyDeployed = deployed

	return status, nil
}

// StreamLogs follows the instance log file until ctx is cancelled
func (m *Manager) StreamLogs(ctx context.Context, instance *domain.AnvilInstance, writer io.Writer) error {
	m.setFilePaths(instance)
	if _, err := os.Stat(instance.LogFile); os.IsNotExist(err) {
		return fmt.Errorf("log file does not exist: %s", instance.LogFile)
	}

	cmd := exec.CommandContext(ctx, "tail", "-f", instance.LogFile)
	cmd.Stdout = writer
	cmd.Stderr = writer
	if err := cmd.Run(); err != nil && ctx.Err() == nil {
		return err
	}
	return nil
}

func (m *Manager) checkRPCHealth(ctx context.Context, instance *domain.AnvilInstance) error {
	var blockNumber hexutil.Uint64
	return m.call(ctx, instance, &blockNumber, "eth_blockNumber")
}

func (m *Manager) checkProxyDeployment(ctx context.Context, instance *domain.AnvilInstance) (bool, error) {
	var code hexutil.Bytes
	if err := m.call(ctx, instance, &code, "eth_getCode", domain.DeterministicProxyAddress, "latest"); err != nil {
		return false, err
	}
	return len(code) > 0, nil
}

func (m *Manager) call(ctx context.Context, instance *domain.AnvilInstance, result any, method string, args ...any) error {
	ctx, cancel := context.WithTimeout(ctx, rpcTimeout)
	defer cancel()

	client, err := rpc.DialContext(ctx, rpcURL(instance))
	if err != nil {
		return fmt.Errorf("failed to connect to %s: %w", rpcURL(instance), err)
	}
	defer client.Close()

	if err := client.CallContext(ctx, result, method, args...); err != nil {
		var rpcErr rpc.Error
		if errors.As(err, &rpcErr) {
			return fmt.Errorf("RPC error: %s", rpcErr.Error())
		}
		return err
	}
	return nil
}

// isRunning checks the pid file and whether its process is alive
func (m *Manager) isRunning(instance *domain.AnvilInstance) bool {
	pid, err := readPidFile(instance.PidFile)
	if err != nil {
		return false
	}
	process, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	return processAlive(process)
}

func processAlive(process *os.Process) bool {
	return process.Signal(syscall.Signal(0)) == nil
}

func readPidFile(path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil {
		return 0, fmt.Errorf("invalid PID in file: %s", string(data))
	}
	return pid, nil
}

func writePidFile(path string, pid int) error {
	return os.WriteFile(path, []byte(strconv.Itoa(pid)), 0644)
}

// Ensure the adapter implements the interface
var _ usecase.AnvilManager = (*Manager)(nil)
