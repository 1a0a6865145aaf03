package deployer

import (
	"bytes"
	"encoding/json"
	"io"
	"math/big"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/eth-infinitism/aadeploy/internal/domain"
)

type rpcRequest struct {
	JSONRPC string            `json:"jsonrpc"`
	ID      json.RawMessage   `json:"id"`
	Method  string            `json:"method"`
	Params  []json.RawMessage `json:"params"`
}

type rpcResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id"`
	Result  any             `json:"result"`
	Error   *rpcError       `json:"error,omitempty"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// fakeNode is a minimal JSON-RPC node that executes value transfers,
// contract creations and deterministic proxy calls
type fakeNode struct {
	mu       sync.Mutex
	chainID  uint64
	gasPrice *big.Int
	code     map[common.Address][]byte
	balances map[common.Address]*big.Int
	nonces   map[common.Address]uint64
	receipts map[common.Hash]map[string]any
	sent     []*types.Transaction
	methods  map[string]int

	// receipt lookups that report "not mined" before a receipt is returned
	pendingPolls int
	// makes every transaction revert
	revert bool
	// when set, every receipt lookup fails with this internal error
	receiptErr string
}

func newFakeNode(t *testing.T, chainID uint64) (*fakeNode, string) {
	node := &fakeNode{
		chainID:  chainID,
		gasPrice: big.NewInt(1_000_000_000),
		code:     make(map[common.Address][]byte),
		balances: make(map[common.Address]*big.Int),
		nonces:   make(map[common.Address]uint64),
		receipts: make(map[common.Hash]map[string]any),
		methods:  make(map[string]int),
	}
	srv := httptest.NewServer(node)
	t.Cleanup(srv.Close)
	return node, srv.URL
}

func (n *fakeNode) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if trimmed := bytes.TrimSpace(body); len(trimmed) > 0 && trimmed[0] == '[' {
		var reqs []rpcRequest
		if err := json.Unmarshal(trimmed, &reqs); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		resps := make([]rpcResponse, len(reqs))
		for i, req := range reqs {
			resps[i] = n.handle(req)
		}
		_ = json.NewEncoder(w).Encode(resps)
		return
	}

	var req rpcRequest
	if err := json.Unmarshal(body, &req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	_ = json.NewEncoder(w).Encode(n.handle(req))
}

func (n *fakeNode) handle(req rpcRequest) rpcResponse {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.methods[req.Method]++

	resp := rpcResponse{JSONRPC: "2.0", ID: req.ID}
	fail := func(msg string) rpcResponse {
		resp.Error = &rpcError{Code: -32000, Message: msg}
		return resp
	}

	switch req.Method {
	case "eth_chainId":
		resp.Result = hexutil.Uint64(n.chainID)
	case "eth_gasPrice":
		resp.Result = (*hexutil.Big)(n.gasPrice)
	case "eth_getCode":
		resp.Result = hexutil.Bytes(n.code[n.address(req.Params[0])])
	case "eth_getBalance":
		resp.Result = (*hexutil.Big)(n.balance(n.address(req.Params[0])))
	case "eth_getTransactionCount":
		resp.Result = hexutil.Uint64(n.nonces[n.address(req.Params[0])])
	case "eth_sendRawTransaction":
		var raw hexutil.Bytes
		if err := json.Unmarshal(req.Params[0], &raw); err != nil {
			return fail(err.Error())
		}
		hash, err := n.apply(raw)
		if err != nil {
			return fail(err.Error())
		}
		resp.Result = hash
	case "eth_getTransactionReceipt":
		var hash common.Hash
		if err := json.Unmarshal(req.Params[0], &hash); err != nil {
			return fail(err.Error())
		}
		if n.receiptErr != "" {
			resp.Error = &rpcError{Code: -32603, Message: n.receiptErr}
			return resp
		}
		if n.pendingPolls > 0 {
			n.pendingPolls--
			resp.Result = nil
			return resp
		}
		if receipt, ok := n.receipts[hash]; ok {
			resp.Result = receipt
		}
	default:
		return fail("method not supported: " + req.Method)
	}
	return resp
}

func (n *fakeNode) address(param json.RawMessage) common.Address {
	var addr common.Address
	_ = json.Unmarshal(param, &addr)
	return addr
}

func (n *fakeNode) balance(addr common.Address) *big.Int {
	if b, ok := n.balances[addr]; ok {
		return b
	}
	return new(big.Int)
}

func (n *fakeNode) apply(raw []byte) (common.Hash, error) {
	tx := new(types.Transaction)
	if err := tx.UnmarshalBinary(raw); err != nil {
		return common.Hash{}, err
	}
	signer := types.LatestSignerForChainID(new(big.Int).SetUint64(n.chainID))
	from, err := types.Sender(signer, tx)
	if err != nil {
		return common.Hash{}, err
	}
	n.sent = append(n.sent, tx)

	nonce := n.nonces[from]
	n.nonces[from] = nonce + 1

	status := uint64(types.ReceiptStatusSuccessful)
	var created common.Address
	switch {
	case n.revert:
		status = types.ReceiptStatusFailed
	case tx.To() == nil:
		created = crypto.CreateAddress(from, nonce)
		code := tx.Data()
		if from == domain.DeterministicProxySigner {
			code = domain.DeterministicProxyRuntimeCode
		}
		n.code[created] = code
	case *tx.To() == domain.DeterministicProxyAddress && len(n.code[domain.DeterministicProxyAddress]) > 0:
		data := tx.Data()
		salt := common.BytesToHash(data[:common.HashLength])
		n.code[domain.DeterministicAddress(salt, data[common.HashLength:])] = []byte{0x60, 0x80}
	}

	if tx.Value() != nil && tx.Value().Sign() > 0 && status == types.ReceiptStatusSuccessful {
		n.balances[*tx.To()] = new(big.Int).Add(n.balance(*tx.To()), tx.Value())
	}

	receipt := map[string]any{
		"type":              hexutil.Uint64(tx.Type()),
		"status":            hexutil.Uint64(status),
		"cumulativeGasUsed": hexutil.Uint64(21_000),
		"gasUsed":           hexutil.Uint64(21_000),
		"effectiveGasPrice": (*hexutil.Big)(n.gasPrice),
		"logsBloom":         types.Bloom{},
		"logs":              []any{},
		"transactionHash":   tx.Hash(),
		"transactionIndex":  hexutil.Uint64(0),
		"blockHash":         common.HexToHash("0xb1"),
		"blockNumber":       (*hexutil.Big)(big.NewInt(int64(len(n.sent)))),
		"from":              from,
	}
	if tx.To() != nil {
		receipt["to"] = *tx.To()
	}
	if created != (common.Address{}) {
		receipt["contractAddress"] = created
	}
	n.receipts[tx.Hash()] = receipt
	return tx.Hash(), nil
}

func (n *fakeNode) calls(method string) int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.methods[method]
}

func (n *fakeNode) transactions() []*types.Transaction {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]*types.Transaction(nil), n.sent...)
}
