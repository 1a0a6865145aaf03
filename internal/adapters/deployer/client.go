package deployer

import (
	"context"
	"crypto/ecdsa"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/rpc"
	"github.com/holiman/uint256"
	"github.com/lmittmann/w3"
	"github.com/lmittmann/w3/module/eth"

	"github.com/eth-infinitism/aadeploy/internal/domain"
	"github.com/eth-infinitism/aadeploy/internal/domain/config"
	"github.com/eth-infinitism/aadeploy/internal/domain/models"
	"github.com/eth-infinitism/aadeploy/internal/usecase"
)

const (
	// DefaultPollInterval is how often receipts are polled
	DefaultPollInterval = time.Second

	transferGasLimit uint64 = 21_000
)

// ErrInvalidDeployerKey is returned when the deployer key is not a secp256k1 private key
var ErrInvalidDeployerKey = errors.New("invalid deployer private key")

// Connector opens w3 sessions for deployments
type Connector struct {
	log          *slog.Logger
	pollInterval time.Duration
}

// NewConnector creates a connector polling receipts every DefaultPollInterval
func NewConnector(log *slog.Logger) *Connector {
	return NewConnectorWithPollInterval(log, DefaultPollInterval)
}

// NewConnectorWithPollInterval creates a connector with a custom receipt poll interval
func NewConnectorWithPollInterval(log *slog.Logger, pollInterval time.Duration) *Connector {
	return &Connector{
		log:          log.With("component", "Deployer"),
		pollInterval: pollInterval,
	}
}

// Connect dials the network and reads its chain id
func (c *Connector) Connect(ctx context.Context, network *config.Network, deployerKey string) (usecase.ChainClient, error) {
	key, err := crypto.HexToECDSA(strings.TrimPrefix(strings.TrimSpace(deployerKey), "0x"))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDeployerKey, err)
	}

	client, err := w3.Dial(network.URL)
	if err != nil {
		return nil, fmt.Errorf("dial rpc %s: %w", network.URL, err)
	}

	var chainID uint64
	if err := client.CallCtx(ctx, eth.ChainID().Returns(&chainID)); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("get chain id from %s: %w", network.URL, err)
	}

	address := crypto.PubkeyToAddress(key.PublicKey)
	c.log.Debug("connected", "network", network.Name, "chainId", chainID, "deployer", address.Hex())

	return &Client{
		client:       client,
		chainID:      chainID,
		signer:       types.LatestSignerForChainID(new(big.Int).SetUint64(chainID)),
		key:          key,
		address:      address,
		pollInterval: c.pollInterval,
		log:          c.log.With("network", network.Name),
	}, nil
}

// Client sends legacy transactions for a single deployer account
type Client struct {
	client       *w3.Client
	chainID      uint64
	signer       types.Signer
	key          *ecdsa.PrivateKey
	address      common.Address
	pollInterval time.Duration
	log          *slog.Logger
}

func (c *Client) ChainID() uint64 {
	return c.chainID
}

func (c *Client) Deployer() common.Address {
	return c.address
}

func (c *Client) Close() {
	_ = c.client.Close()
}

// HasCode reports whether address holds contract code
func (c *Client) HasCode(ctx context.Context, address common.Address) (bool, error) {
	var code []byte
	if err := c.client.CallCtx(ctx, eth.Code(address, nil).Returns(&code)); err != nil {
		return false, fmt.Errorf("get code at %s: %w", address.Hex(), err)
	}
	return len(code) > 0, nil
}

// EnsureDeterministicProxy funds the proxy signer when needed and broadcasts
// the presigned proxy deployment
func (c *Client) EnsureDeterministicProxy(ctx context.Context) (bool, error) {
	deployed, err := c.HasCode(ctx, domain.DeterministicProxyAddress)
	if err != nil {
		return false, err
	}
	if deployed {
		return false, nil
	}

	c.log.Info("installing deterministic deployment proxy", "address", domain.DeterministicProxyAddress.Hex())

	var balance *big.Int
	if err := c.client.CallCtx(ctx, eth.Balance(domain.DeterministicProxySigner, nil).Returns(&balance)); err != nil {
		return false, fmt.Errorf("get proxy signer balance: %w", err)
	}

	required := new(uint256.Int).Mul(
		uint256.NewInt(domain.DeterministicProxyGasPrice),
		uint256.NewInt(domain.DeterministicProxyGasLimit),
	)
	current, overflow := uint256.FromBig(balance)
	if !overflow && current.Lt(required) {
		shortfall := new(uint256.Int).Sub(required, current)
		receipt, err := c.send(ctx, &domain.DeterministicProxySigner, shortfall.ToBig(), nil, transferGasLimit)
		if err != nil {
			return false, fmt.Errorf("fund proxy signer: %w", err)
		}
		if receipt.Status != types.ReceiptStatusSuccessful {
			return false, fmt.Errorf("fund proxy signer: transaction %s reverted", receipt.TxHash.Hex())
		}
	}

	var txHash common.Hash
	if err := c.client.CallCtx(ctx, eth.SendRawTx(domain.DeterministicProxyDeployTx).Returns(&txHash)); err != nil {
		return false, fmt.Errorf("send proxy deployment: %w", err)
	}
	receipt, err := c.waitForReceipt(ctx, txHash)
	if err != nil {
		return false, err
	}
	if receipt.Status != types.ReceiptStatusSuccessful {
		return false, fmt.Errorf("proxy deployment %s reverted", txHash.Hex())
	}

	return true, nil
}

// Deploy signs and sends the deployment and waits for it to be mined
func (c *Client) Deploy(ctx context.Context, tx usecase.DeployTx) (*models.Receipt, error) {
	receipt, err := c.send(ctx, tx.To, nil, tx.Data, tx.GasLimit)
	if err != nil {
		return nil, err
	}
	return toReceipt(receipt, c.address, tx.To), nil
}

func (c *Client) send(ctx context.Context, to *common.Address, value *big.Int, data []byte, gasLimit uint64) (*types.Receipt, error) {
	var (
		nonce    uint64
		gasPrice *big.Int
	)
	if err := c.client.CallCtx(ctx,
		eth.Nonce(c.address, nil).Returns(&nonce),
		eth.GasPrice().Returns(&gasPrice),
	); err != nil {
		return nil, fmt.Errorf("get nonce and gas price: %w", err)
	}

	tx, err := types.SignNewTx(c.key, c.signer, &types.LegacyTx{
		Nonce:    nonce,
		GasPrice: gasPrice,
		Gas:      gasLimit,
		To:       to,
		Value:    value,
		Data:     data,
	})
	if err != nil {
		return nil, fmt.Errorf("sign tx: %w", err)
	}

	var txHash common.Hash
	if err := c.client.CallCtx(ctx, eth.SendTx(tx).Returns(&txHash)); err != nil {
		return nil, fmt.Errorf("send tx: %w", err)
	}
	c.log.Debug("sent transaction", "hash", txHash.Hex(), "nonce", nonce)

	return c.waitForReceipt(ctx, tx.Hash())
}

func (c *Client) waitForReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error) {
	ticker := time.NewTicker(c.pollInterval)
	defer ticker.Stop()

	for {
		var receipt *types.Receipt
		err := c.client.CallCtx(ctx, eth.TxReceipt(txHash).Returns(&receipt))
		switch {
		case err == nil && receipt != nil:
			return receipt, nil
		case err != nil && !isNotFound(err):
			return nil, fmt.Errorf("waiting for transaction %s: %w", txHash.Hex(), err)
		}

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("waiting for transaction %s: %w", txHash.Hex(), ctx.Err())
		case <-ticker.C:
		}
	}
}

// isNotFound reports whether err is w3's error for a null result, which
// eth_getTransactionReceipt returns until the transaction is mined
func isNotFound(err error) bool {
	var callErrs w3.CallErrors
	if !errors.As(err, &callErrs) {
		return false
	}
	for _, callErr := range callErrs {
		if callErr == nil {
			continue
		}
		var rpcErr rpc.Error
		if errors.As(callErr, &rpcErr) || callErr.Error() != "not found" {
			return false
		}
	}
	return true
}

func toReceipt(r *types.Receipt, from common.Address, to *common.Address) *models.Receipt {
	receipt := &models.Receipt{
		TransactionHash: r.TxHash.Hex(),
		From:            from.Hex(),
		GasUsed:         r.GasUsed,
		BlockHash:       r.BlockHash.Hex(),
		Status:          r.Status,
	}
	if r.BlockNumber != nil {
		receipt.BlockNumber = r.BlockNumber.Uint64()
	}
	if to != nil {
		receipt.To = to.Hex()
	}
	if r.ContractAddress != (common.Address{}) {
		receipt.ContractAddress = r.ContractAddress.Hex()
	}
	return receipt
}

// Ensure the adapter implements the interfaces
var (
	_ usecase.ChainConnector = (*Connector)(nil)
	_ usecase.ChainClient    = (*Client)(nil)
)
