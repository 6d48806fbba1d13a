package bridge

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/compose-network/bmcp/x/calldata"
)

// ContractCall is the call a decoded command becomes on the destination
// chain: the receiver's command tuple, its ABI encoding and the hash a
// signer commits to.
type ContractCall struct {
	Command calldata.Command `json:"command"`
	Encoded hexutil.Bytes    `json:"encoded"`
	Hash    common.Hash      `json:"hash"`
}

// ContractCall builds the receiver-side call for a command envelope. The
// command's nonce and deadline carry over; a missing deadline is set
// calldata.DefaultCommandTTL after the validator's clock. A non-nil pubKeyX
// binds the hash to that key.
func (d *Decoder) ContractCall(env *Envelope, pubKeyX *[32]byte) (*ContractCall, error) {
	if env == nil || env.Command == nil {
		return nil, errors.New("envelope carries no command")
	}
	c := env.Command

	call := calldata.Build(common.BytesToAddress(c.Contract), c.CallData, env.Chain.ChainID, d.validator.Now())
	if c.Nonce != nil {
		call.Nonce = new(big.Int).SetUint64(uint64(*c.Nonce))
	}
	if c.Deadline != nil {
		call.Deadline = new(big.Int).SetUint64(uint64(*c.Deadline))
	}
	if err := d.validator.ContractCall(call); err != nil {
		err = fmt.Errorf("%w: %w", ErrInvalidPayload, err)
		d.fail("contract_call", err)
		return nil, err
	}

	encoded, err := call.EncodeForContract()
	if err != nil {
		return nil, fmt.Errorf("encode contract call: %w", err)
	}
	hash, err := call.Hash(pubKeyX)
	if err != nil {
		return nil, fmt.Errorf("hash contract call: %w", err)
	}
	return &ContractCall{Command: call, Encoded: encoded, Hash: hash}, nil
}
