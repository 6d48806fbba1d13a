package calldata

import (
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
)

// DefaultCommandTTL is how far in the future Build places the deadline.
const DefaultCommandTTL = time.Hour

// Command is the EVM-side view of a relayed call, as consumed by a receiver
// contract's execute entry point.
type Command struct {
	Target   common.Address `json:"target"`
	Value    *big.Int       `json:"value"`
	Data     hexutil.Bytes  `json:"data"`
	Nonce    *big.Int       `json:"nonce"`
	Deadline *big.Int       `json:"deadline"`
	ChainID  *big.Int       `json:"chainId"`
}

// commandTuple matches the Solidity struct Command used by the receiver.
type commandTuple struct {
	Target   common.Address `abi:"target"`
	Value    *big.Int       `abi:"value"`
	Data     []byte         `abi:"data"`
	Nonce    *big.Int       `abi:"nonce"`
	Deadline *big.Int       `abi:"deadline"`
}

var (
	commandType = mustParseType("tuple", []abi.ArgumentMarshaling{
		{Name: "target", Type: "address"},
		{Name: "value", Type: "uint256"},
		{Name: "data", Type: "bytes"},
		{Name: "nonce", Type: "uint256"},
		{Name: "deadline", Type: "uint256"},
	})
	bytes32Type = mustParseType("bytes32", nil)
	addressType = mustParseType("address", nil)
	uint256Type = mustParseType("uint256", nil)
	bytesType   = mustParseType("bytes", nil)
)

func mustParseType(typeName string, components []abi.ArgumentMarshaling) abi.Type {
	typ, err := abi.NewType(typeName, "", components)
	if err != nil {
		panic(fmt.Sprintf("failed to parse ABI type %s: %v", typeName, err))
	}
	return typ
}

// Build fills a Command with zero value and nonce and a deadline
// DefaultCommandTTL after now.
func Build(target common.Address, data []byte, chainID uint64, now time.Time) Command {
	return Command{
		Target:   target,
		Value:    new(big.Int),
		Data:     data,
		Nonce:    new(big.Int),
		Deadline: big.NewInt(now.Add(DefaultCommandTTL).Unix()),
		ChainID:  new(big.Int).SetUint64(chainID),
	}
}

// EncodeForContract ABI-encodes the command as the tuple
// (address,uint256,bytes,uint256,uint256).
func (c Command) EncodeForContract() ([]byte, error) {
	return abi.Arguments{{Type: commandType}}.Pack(commandTuple{
		Target:   c.Target,
		Value:    orZero(c.Value),
		Data:     c.Data,
		Nonce:    orZero(c.Nonce),
		Deadline: orZero(c.Deadline),
	})
}

// Hash returns the keccak256 of the ABI-encoded command fields followed by
// the chain id. A non-nil pubKeyX is prepended for signature binding.
func (c Command) Hash(pubKeyX *[32]byte) (common.Hash, error) {
	args := abi.Arguments{
		{Type: addressType},
		{Type: uint256Type},
		{Type: bytesType},
		{Type: uint256Type},
		{Type: uint256Type},
		{Type: uint256Type},
	}
	values := []any{c.Target, orZero(c.Value), []byte(c.Data), orZero(c.Nonce), orZero(c.Deadline), orZero(c.ChainID)}
	if pubKeyX != nil {
		args = append(abi.Arguments{{Type: bytes32Type}}, args...)
		values = append([]any{*pubKeyX}, values...)
	}
	packed, err := args.Pack(values...)
	if err != nil {
		return common.Hash{}, err
	}
	return crypto.Keccak256Hash(packed), nil
}

func orZero(v *big.Int) *big.Int {
	if v == nil {
		return new(big.Int)
	}
	return v
}
