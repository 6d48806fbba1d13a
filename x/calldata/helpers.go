package calldata

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/compose-network/bmcp/x/wire"
)

const (
	TransferSignature = "transfer(address,uint256)"
	ApproveSignature  = "approve(address,uint256)"
	OnReportSignature = "onReport(string)"
)

// Transfer encodes an ERC-20 transfer(to, amount) call.
func Transfer(to common.Address, amount *big.Int) ([]byte, error) {
	return Encode(TransferSignature, Address(to), Uint(amount))
}

// Approve encodes an ERC-20 approve(spender, amount) call.
func Approve(spender common.Address, amount *big.Int) ([]byte, error) {
	return Encode(ApproveSignature, Address(spender), Uint(amount))
}

// Message encodes a single-string call to fn, e.g. Message("setMessage", "hi").
func Message(fn, text string) ([]byte, error) {
	return Encode(fn+"(string)", String(text))
}

// OnReport encodes onReport(string).
func OnReport(text string) ([]byte, error) {
	return Encode(OnReportSignature, String(text))
}

// DecodeTransfer unpacks transfer(address,uint256) call data.
func DecodeTransfer(data []byte) (common.Address, *big.Int, error) {
	values, err := Decode(TransferSignature, data)
	if err != nil {
		return common.Address{}, nil, err
	}
	to, ok := values[0].(common.Address)
	if !ok {
		return common.Address{}, nil, wire.Errorf(wire.KindInvalidCallData, "transfer recipient has type %T", values[0])
	}
	amount, ok := values[1].(*big.Int)
	if !ok {
		return common.Address{}, nil, wire.Errorf(wire.KindInvalidCallData, "transfer amount has type %T", values[1])
	}
	return to, amount, nil
}
