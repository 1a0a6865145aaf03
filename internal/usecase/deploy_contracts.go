package usecase

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/eth-infinitism/aadeploy/internal/domain"
	"github.com/eth-infinitism/aadeploy/internal/domain/config"
	"github.com/eth-infinitism/aadeploy/internal/domain/models"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
)

const (
	EntryPointContract           = "EntryPoint"
	SimpleAccountFactoryContract = "SimpleAccountFactory"

	// DeployGasLimit is the gas limit of every deployment transaction
	DeployGasLimit uint64 = 6_000_000
)

// DeployContracts deploys the EntryPoint and, optionally, the SimpleAccountFactory
type DeployContracts struct {
	config      *config.RuntimeConfig
	artifacts   ArtifactStore
	deployments DeploymentStore
	connector   ChainConnector
	confirmer   Confirmer
	progress    ProgressSink
	log         *slog.Logger
}

// NewDeployContracts creates a new DeployContracts use case
func NewDeployContracts(
	cfg *config.RuntimeConfig,
	artifacts ArtifactStore,
	deployments DeploymentStore,
	connector ChainConnector,
	confirmer Confirmer,
	progress ProgressSink,
	log *slog.Logger,
) *DeployContracts {
	return &DeployContracts{
		config:      cfg,
		artifacts:   artifacts,
		deployments: deployments,
		connector:   connector,
		confirmer:   confirmer,
		progress:    progress,
		log:         log,
	}
}

// DeployContractsParams contains parameters for a deploy run
type DeployContractsParams struct {
	// SimpleAccountFactory also deploys the sample factory after the EntryPoint
	SimpleAccountFactory bool
	// Yes skips the confirmation prompt on live networks
	Yes bool
}

// DeployContractsResult contains the outcome of a deploy run
type DeployContractsResult struct {
	Network        *config.Network
	ChainID        uint64
	Deployer       common.Address
	Deterministic  bool
	ProxyInstalled bool
	Deployments    []*models.Deployment
}

// EntryPoint returns the EntryPoint deployment
func (r *DeployContractsResult) EntryPoint() *models.Deployment {
	for _, d := range r.Deployments {
		if d.ContractName == EntryPointContract {
			return d
		}
	}
	return nil
}

// Run executes the deployment
func (d *DeployContracts) Run(ctx context.Context, params DeployContractsParams) (*DeployContractsResult, error) {
	network := d.config.Network
	if network == nil {
		return nil, fmt.Errorf("no network selected")
	}
	if network.ZkSync {
		return nil, fmt.Errorf("%w: %s runs zkEVM bytecode, solc output cannot be deployed there", domain.ErrZkSyncUnsupported, network.Name)
	}

	if network.Live && !params.Yes && !d.config.NonInteractive {
		ok, err := d.confirmer.Confirm(fmt.Sprintf("Deploy to live network %s (%s)?", network.Name, network.URL))
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, domain.ErrAborted
		}
	}

	var salt common.Hash
	if !network.NoDeterministicDeployment {
		var err error
		if salt, err = domain.ParseSalt(d.config.Salt); err != nil {
			return nil, err
		}
	}

	client, err := d.connector.Connect(ctx, network, d.config.DeployerKey)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", network.Name, err)
	}
	defer client.Close()

	chainID := client.ChainID()
	if network.ChainID != 0 && network.ChainID != chainID {
		return nil, fmt.Errorf("%w: network %s is configured with chain %d but %s reports %d",
			domain.ErrChainIDMismatch, network.Name, network.ChainID, network.URL, chainID)
	}

	result := &DeployContractsResult{
		Network:       network,
		ChainID:       chainID,
		Deployer:      client.Deployer(),
		Deterministic: !network.NoDeterministicDeployment,
	}

	d.log.Debug("deploying", "network", network.Name, "chainId", chainID, "deployer", result.Deployer, "deterministic", result.Deterministic)

	job := &deployJob{DeployContracts: d, client: client, network: network, chainID: chainID, salt: salt, result: result}

	entryPoint, err := job.deploy(ctx, EntryPointContract)
	if err != nil {
		return nil, err
	}
	result.Deployments = append(result.Deployments, entryPoint)

	if params.SimpleAccountFactory {
		factory, err := job.deploy(ctx, SimpleAccountFactoryContract, common.HexToAddress(entryPoint.Address))
		if err != nil {
			return nil, err
		}
		result.Deployments = append(result.Deployments, factory)
	}

	return result, nil
}

// deployJob carries the per-run state of a deployment
type deployJob struct {
	*DeployContracts
	client  ChainClient
	network *config.Network
	chainID uint64
	salt    common.Hash
	result  *DeployContractsResult
}

func (j *deployJob) deploy(ctx context.Context, contractName string, args ...any) (*models.Deployment, error) {
	artifact, err := j.artifacts.GetArtifact(ctx, contractName)
	if err != nil {
		return nil, fmt.Errorf("failed to load artifact for %s: %w", contractName, err)
	}

	initCode, err := buildInitCode(artifact, args)
	if err != nil {
		return nil, err
	}

	existing, err := j.deployments.GetDeployment(ctx, j.network.Name, contractName)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("failed to read deployment of %s: %w", contractName, err)
	}

	j.progress.OnProgress(ctx, ProgressEvent{
		Stage:   "deploy",
		Message: fmt.Sprintf("Deploying %s to %s", contractName, j.network.Name),
		Spinner: true,
	})

	var deployment *models.Deployment
	if j.result.Deterministic {
		deployment, err = j.deployDeterministic(ctx, artifact, initCode, args, existing)
	} else {
		deployment, err = j.deployCreate(ctx, artifact, initCode, args, existing)
	}
	if err != nil {
		return nil, err
	}

	if deployment.Reused {
		j.log.Info("reusing deployment", "contract", contractName, "address", deployment.Address)
	} else {
		j.log.Info("deployed", "contract", contractName, "address", deployment.Address,
			"tx", deployment.TransactionHash, "gasUsed", deployment.Receipt.GasUsed)
	}

	return deployment, nil
}

func (j *deployJob) deployDeterministic(ctx context.Context, artifact *models.Artifact, initCode []byte, args []any, existing *models.Deployment) (*models.Deployment, error) {
	address := domain.DeterministicAddress(j.salt, initCode)

	deployed, err := j.client.HasCode(ctx, address)
	if err != nil {
		return nil, fmt.Errorf("failed to check code at %s: %w", address, err)
	}
	if deployed {
		if existing != nil && strings.EqualFold(existing.Address, address.Hex()) {
			existing.Reused = true
			return existing, nil
		}
		// deployed by someone else, or the record was lost
		deployment := j.newDeployment(artifact, address, args, existing)
		deployment.Salt = j.salt.Hex()
		deployment.Factory = domain.DeterministicProxyAddress.Hex()
		deployment.NumDeployments = 1
		if existing != nil {
			deployment.NumDeployments = existing.NumDeployments
		}
		deployment.Reused = true
		if err := j.save(ctx, deployment); err != nil {
			return nil, err
		}
		return deployment, nil
	}

	installed, err := j.client.EnsureDeterministicProxy(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to set up deterministic deployment proxy: %w", err)
	}
	j.result.ProxyInstalled = j.result.ProxyInstalled || installed

	proxy := domain.DeterministicProxyAddress
	receipt, err := j.client.Deploy(ctx, DeployTx{
		To:       &proxy,
		Data:     domain.DeterministicCalldata(j.salt, initCode),
		GasLimit: DeployGasLimit,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to deploy %s: %w", artifact.ContractName, err)
	}
	if receipt.Status == 0 {
		return nil, fmt.Errorf("%w: %s (tx %s)", domain.ErrDeploymentReverted, artifact.ContractName, receipt.TransactionHash)
	}

	deployment := j.newDeployment(artifact, address, args, existing)
	deployment.Method = models.DeploymentMethodCreate2
	deployment.Salt = j.salt.Hex()
	deployment.Factory = proxy.Hex()
	deployment.TransactionHash = receipt.TransactionHash
	deployment.Receipt = receipt

	if err := j.save(ctx, deployment); err != nil {
		return nil, err
	}
	return deployment, nil
}

func (j *deployJob) deployCreate(ctx context.Context, artifact *models.Artifact, initCode []byte, args []any, existing *models.Deployment) (*models.Deployment, error) {
	if existing != nil && existing.Bytecode == artifact.Bytecode && sameArgs(existing.Args, args) {
		deployed, err := j.client.HasCode(ctx, common.HexToAddress(existing.Address))
		if err != nil {
			return nil, fmt.Errorf("failed to check code at %s: %w", existing.Address, err)
		}
		if deployed {
			existing.Reused = true
			return existing, nil
		}
	}

	receipt, err := j.client.Deploy(ctx, DeployTx{
		Data:     initCode,
		GasLimit: DeployGasLimit,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to deploy %s: %w", artifact.ContractName, err)
	}
	if receipt.Status == 0 {
		return nil, fmt.Errorf("%w: %s (tx %s)", domain.ErrDeploymentReverted, artifact.ContractName, receipt.TransactionHash)
	}

	deployment := j.newDeployment(artifact, common.HexToAddress(receipt.ContractAddress), args, existing)
	deployment.Method = models.DeploymentMethodCreate
	deployment.TransactionHash = receipt.TransactionHash
	deployment.Receipt = receipt

	if err := j.save(ctx, deployment); err != nil {
		return nil, err
	}
	return deployment, nil
}

func (j *deployJob) newDeployment(artifact *models.Artifact, address common.Address, args []any, existing *models.Deployment) *models.Deployment {
	numDeployments := 1
	if existing != nil {
		numDeployments = existing.NumDeployments + 1
	}
	if args == nil {
		args = []any{}
	}

	return &models.Deployment{
		ContractName:     artifact.ContractName,
		Address:          address.Hex(),
		Deployer:         j.client.Deployer().Hex(),
		ABI:              artifact.ABI,
		Args:             args,
		Method:           models.DeploymentMethodCreate2,
		NumDeployments:   numDeployments,
		SolcVersion:      artifact.SolcVersion,
		Bytecode:         artifact.Bytecode,
		DeployedBytecode: artifact.DeployedBytecode,
		CreatedAt:        time.Now().UTC(),
	}
}

func (j *deployJob) save(ctx context.Context, deployment *models.Deployment) error {
	if err := j.deployments.SaveDeployment(ctx, j.network.Name, j.chainID, deployment); err != nil {
		return fmt.Errorf("failed to save deployment of %s: %w", deployment.ContractName, err)
	}
	return nil
}

// buildInitCode appends the ABI-encoded constructor arguments to the creation bytecode
func buildInitCode(artifact *models.Artifact, args []any) ([]byte, error) {
	if len(artifact.LinkReferences) > 0 {
		return nil, fmt.Errorf("%s needs linked libraries, which are not supported", artifact.ContractName)
	}

	bytecode := common.FromHex(artifact.Bytecode)
	if len(bytecode) == 0 {
		return nil, fmt.Errorf("%s has no bytecode (abstract contract or interface?)", artifact.ContractName)
	}
	if len(args) == 0 {
		return bytecode, nil
	}

	parsed, err := abi.JSON(bytes.NewReader(artifact.ABI))
	if err != nil {
		return nil, fmt.Errorf("failed to parse ABI of %s: %w", artifact.ContractName, err)
	}
	encoded, err := parsed.Pack("", args...)
	if err != nil {
		return nil, fmt.Errorf("failed to encode constructor arguments of %s: %w", artifact.ContractName, err)
	}

	return append(bytecode, encoded...), nil
}

// sameArgs compares constructor arguments by their JSON form, which is how
// they are stored in deployment records
func sameArgs(stored []any, args []any) bool {
	if len(stored) == 0 && len(args) == 0 {
		return true
	}
	a, err := json.Marshal(stored)
	if err != nil {
		return false
	}
	b, err := json.Marshal(args)
	if err != nil {
		return false
	}
	return strings.EqualFold(string(a), string(b))
}
