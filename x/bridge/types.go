// Package bridge joins the chain registry, payload codecs, validator and
// script wrapper into the encode and decode pipelines used by the API and
// the relayer.
package bridge

import (
	"errors"

	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/compose-network/bmcp/x/chains"
	"github.com/compose-network/bmcp/x/command"
	"github.com/compose-network/bmcp/x/message"
	"github.com/compose-network/bmcp/x/script"
)

// Format names a payload layout. Values match the codec names.
type Format string

const (
	FormatMessage Format = "message"
	FormatCommand Format = "command"
)

// ErrInvalidPayload wraps validation failures of a decoded payload.
var ErrInvalidPayload = errors.New("payload failed validation")

// Artifact is the result of an encode: the payload and the OP_RETURN script
// carrying it.
type Artifact struct {
	Format     Format        `json:"format"`
	Selector   uint64        `json:"selector,string"`
	Payload    hexutil.Bytes `json:"payload"`
	Script     hexutil.Bytes `json:"script"`
	Size       int           `json:"size"`
	ScriptSize int           `json:"script_size"`
	Tier       string        `json:"tier"`
}

func newArtifact(format Format, selector uint64, payload []byte) *Artifact {
	s := script.Wrap(payload)
	return &Artifact{
		Format:     format,
		Selector:   selector,
		Payload:    payload,
		Script:     s,
		Size:       len(payload),
		ScriptSize: len(s),
		Tier:       script.TierFor(len(payload)).String(),
	}
}

// Envelope is a decoded and validated payload with its destination chain.
// Exactly one of Message and Command is set.
type Envelope struct {
	Format   Format           `json:"format"`
	Selector uint64           `json:"selector,string"`
	Chain    chains.Entry     `json:"chain"`
	Message  *message.Message `json:"message,omitempty"`
	Command  *command.Command `json:"command,omitempty"`
	Payload  hexutil.Bytes    `json:"payload"`
}

// Receiver returns the 20-byte destination address.
func (e *Envelope) Receiver() []byte {
	if e.Message != nil {
		return e.Message.Receiver
	}
	if e.Command != nil {
		return e.Command.Contract
	}
	return nil
}

// Data returns the bytes delivered to the receiver.
func (e *Envelope) Data() []byte {
	if e.Message != nil {
		return e.Message.Data
	}
	if e.Command != nil {
		return e.Command.CallData
	}
	return nil
}
