package bridge

import (
	"fmt"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/compose-network/bmcp/x/chains"
	"github.com/compose-network/bmcp/x/message"
	"github.com/compose-network/bmcp/x/wire"
)

// MinConfirmations is the Bitcoin depth a payload needs before relaying.
const MinConfirmations = 6

// TokenAmount is a token transfer attached to a forwarded message.
type TokenAmount struct {
	Token  string       `json:"token"`
	Amount *hexutil.Big `json:"amount"`
}

// Any2EVM is the message handed to the destination-chain router.
type Any2EVM struct {
	MessageID           string        `json:"messageId"`
	SourceChainSelector uint64        `json:"sourceChainSelector,string"`
	DestChainSelector   uint64        `json:"destChainSelector,string"`
	Sender              hexutil.Bytes `json:"sender"`
	Receiver            string        `json:"receiver"`
	Data                hexutil.Bytes `json:"data"`
	GasLimit            uint64        `json:"gasLimit"`
	ExtraArgs           hexutil.Bytes `json:"extraArgs,omitempty"`
	DestTokenAmounts    []TokenAmount `json:"destTokenAmounts"`
}

// ToAny2EVM builds the forwarded message for env found in Bitcoin
// transaction txid sent by sender. The message id is the txid.
func ToAny2EVM(txid, sender string, env *Envelope) (*Any2EVM, error) {
	hash, err := chainhash.NewHashFromStr(txid)
	if err != nil {
		return nil, fmt.Errorf("invalid txid %q: %w", txid, err)
	}
	if env == nil || (env.Message == nil && env.Command == nil) {
		return nil, fmt.Errorf("envelope carries no payload")
	}

	out := &Any2EVM{
		MessageID:           hash.String(),
		SourceChainSelector: chains.BitcoinSelector,
		DestChainSelector:   env.Selector,
		Sender:              []byte(sender),
		Receiver:            wire.FormatAddress(env.Receiver()),
		Data:                env.Data(),
		GasLimit:            message.DefaultGasLimit,
		DestTokenAmounts:    []TokenAmount{},
	}
	if env.Message != nil {
		out.GasLimit = env.Message.GasLimit
		out.ExtraArgs = env.Message.ExtraArgs
	}
	return out, nil
}

// Relayable reports whether a payload at the given depth may be forwarded.
func Relayable(confirmations int64) bool { return confirmations >= MinConfirmations }
