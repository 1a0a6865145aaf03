package blockchain

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"

	"github.com/eth-infinitism/aadeploy/internal/usecase"
)

const checkTimeout = 5 * time.Second

// CheckerAdapter implements the BlockchainChecker interface using ethclient.
// Clients are dialed once per RPC url.
type CheckerAdapter struct {
	mu      sync.Mutex
	clients map[string]*ethclient.Client
}

// NewCheckerAdapter creates a new blockchain checker adapter
func NewCheckerAdapter() *CheckerAdapter {
	return &CheckerAdapter{
		clients: make(map[string]*ethclient.Client),
	}
}

func (c *CheckerAdapter) client(rpcURL string) (*ethclient.Client, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if client, ok := c.clients[rpcURL]; ok {
		return client, nil
	}
	client, err := ethclient.Dial(rpcURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RPC: %w", err)
	}
	c.clients[rpcURL] = client
	return client, nil
}

// GetChainID returns the chain id reported by the endpoint
func (c *CheckerAdapter) GetChainID(ctx context.Context, rpcURL string) (uint64, error) {
	client, err := c.client(rpcURL)
	if err != nil {
		return 0, err
	}

	ctx, cancel := context.WithTimeout(ctx, checkTimeout)
	defer cancel()

	chainID, err := client.ChainID(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to get chain ID: %w", err)
	}
	return chainID.Uint64(), nil
}

// HasCode reports whether a contract exists at the given address
func (c *CheckerAdapter) HasCode(ctx context.Context, rpcURL string, address common.Address) (bool, error) {
	client, err := c.client(rpcURL)
	if err != nil {
		return false, err
	}

	ctx, cancel := context.WithTimeout(ctx, checkTimeout)
	defer cancel()

	code, err := client.CodeAt(ctx, address, nil)
	if err != nil {
		return false, fmt.Errorf("failed to check code: %w", err)
	}
	return len(code) > 0, nil
}

// Close closes every dialed client
func (c *CheckerAdapter) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	for url, client := range c.clients {
		client.Close()
		delete(c.clients, url)
	}
}

// Ensure the adapter implements the interface
var _ usecase.BlockchainChecker = (*CheckerAdapter)(nil)
