package domain

import (
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
)

// DeterministicProxyAddress is the deterministic-deployment proxy. Calling it
// with salt ‖ initcode creates the contract with CREATE2 and returns its address.
var DeterministicProxyAddress = common.HexToAddress("0x4e59b44847b379578588920ca78fbf26c0b4956c")

// The proxy is installed by broadcasting a presigned pre-EIP-155 transaction
// from a keyless signer, which has to hold gas price * gas limit first.
var (
	DeterministicProxySigner      = common.HexToAddress("0x3fab184622dc19b6109349b94811493bf2a45362")
	DeterministicProxyDeployTx    = common.FromHex("0xf8a58085174876e800830186a08080b853604580600e600039806000f350fe7fffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffe03601600081602082378035828234f58015156039578182fd5b8082525050506014600cf31ba02222222222222222222222222222222222222222222222222222222222222222a02222222222222222222222222222222222222222222222222222222222222222")
	DeterministicProxyRuntimeCode = common.FromHex("0x7fffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffe03601600081602082378035828234f58015156039578182fd5b8082525050506014600cf3")
)

const (
	DeterministicProxyGasPrice uint64 = 100_000_000_000
	DeterministicProxyGasLimit uint64 = 100_000
)

// ParseSalt decodes a hex salt and left-pads it to 32 bytes
func ParseSalt(salt string) (common.Hash, error) {
	s := strings.TrimPrefix(strings.TrimPrefix(salt, "0x"), "0X")
	if len(s)%2 == 1 {
		s = "0" + s
	}
	raw, err := hexutil.Decode("0x" + s)
	if err != nil {
		return common.Hash{}, fmt.Errorf("%w %q: %v", ErrInvalidSalt, salt, err)
	}
	if len(raw) > common.HashLength {
		return common.Hash{}, fmt.Errorf("%w %q: longer than 32 bytes", ErrInvalidSalt, salt)
	}
	return common.BytesToHash(raw), nil
}

// DeterministicAddress returns the address the proxy deploys initCode to for salt
func DeterministicAddress(salt common.Hash, initCode []byte) common.Address {
	return crypto.CreateAddress2(DeterministicProxyAddress, salt, crypto.Keccak256(initCode))
}

// DeterministicCalldata is the proxy calldata: salt followed by the init code
func DeterministicCalldata(salt common.Hash, initCode []byte) []byte {
	data := make([]byte, 0, common.HashLength+len(initCode))
	data = append(data, salt.Bytes()...)
	return append(data, initCode...)
}
