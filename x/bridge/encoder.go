package bridge

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/compose-network/bmcp/x/chains"
	"github.com/compose-network/bmcp/x/command"
	"github.com/compose-network/bmcp/x/message"
	"github.com/compose-network/bmcp/x/validate"
)

// MessageRequest describes an extended-layout message. Chain is a registry
// key or a raw selector. A zero GasLimit means message.DefaultGasLimit; empty
// ExtraArgs are filled with the V2 encoding of GasLimit and AllowOutOfOrder.
type MessageRequest struct {
	Chain           string
	Receiver        string
	Data            []byte
	GasLimit        uint64
	ExtraArgs       []byte
	AllowOutOfOrder bool
	// Strict requires Chain to resolve to a registered entry.
	Strict bool
}

// CommandRequest describes a compact-layout command.
type CommandRequest struct {
	Chain    string
	Contract string
	CallData []byte
	Nonce    *uint32
	Deadline *uint32
	Strict   bool
}

// Encoder builds payloads and OP_RETURN scripts.
type Encoder struct {
	chains    *chains.Registry
	validator *validate.Validator
	metrics   *Metrics
	log       zerolog.Logger
}

// NewEncoder creates an encoder. A nil metrics disables recording.
func NewEncoder(reg *chains.Registry, v *validate.Validator, m *Metrics, log zerolog.Logger) *Encoder {
	return &Encoder{
		chains:    reg,
		validator: v,
		metrics:   m,
		log:       log.With().Str("component", "bridge-encoder").Logger(),
	}
}

func (e *Encoder) resolve(chain string, strict bool) (uint64, error) {
	selector, err := command.ResolveSelector(e.chains, chain)
	if err != nil {
		return 0, err
	}
	if strict {
		if _, ok := e.chains.BySelector(selector); !ok {
			return 0, fmt.Errorf("%w: selector %d", chains.ErrUnknownChain, selector)
		}
	}
	return selector, nil
}

// EncodeMessage resolves the chain, builds and validates the message, and
// wraps the encoded payload.
func (e *Encoder) EncodeMessage(req MessageRequest) (*Artifact, error) {
	art, err := e.encodeMessage(req)
	if err != nil {
		e.metrics.recordError("encode_message", ErrorKind(err))
		return nil, err
	}
	e.metrics.recordEncoded(FormatMessage, art.Size)
	e.log.Debug().
		Uint64("selector", art.Selector).
		Int("size", art.Size).
		Str("tier", art.Tier).
		Msg("Encoded message")
	return art, nil
}

func (e *Encoder) encodeMessage(req MessageRequest) (*Artifact, error) {
	selector, err := e.resolve(req.Chain, req.Strict)
	if err != nil {
		return nil, err
	}

	gas := req.GasLimit
	if gas == 0 {
		gas = message.DefaultGasLimit
	}
	extra := req.ExtraArgs
	if len(extra) == 0 {
		extra = message.EncodeExtraArgsV2(gas, req.AllowOutOfOrder)
	}

	m, err := message.New(selector, req.Receiver, req.Data, gas, extra)
	if err != nil {
		return nil, err
	}
	payload, err := message.Encode(m)
	if err != nil {
		return nil, err
	}
	if err := e.validator.Message(m); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidPayload, err)
	}
	return newArtifact(FormatMessage, selector, payload), nil
}

// EncodeCommand resolves the chain, builds and validates the command, and
// wraps the encoded payload.
func (e *Encoder) EncodeCommand(req CommandRequest) (*Artifact, error) {
	art, err := e.encodeCommand(req)
	if err != nil {
		e.metrics.recordError("encode_command", ErrorKind(err))
		return nil, err
	}
	e.metrics.recordEncoded(FormatCommand, art.Size)
	e.log.Debug().
		Uint64("selector", art.Selector).
		Int("size", art.Size).
		Str("tier", art.Tier).
		Msg("Encoded command")
	return art, nil
}

func (e *Encoder) encodeCommand(req CommandRequest) (*Artifact, error) {
	selector, err := e.resolve(req.Chain, req.Strict)
	if err != nil {
		return nil, err
	}

	var opts []command.Option
	if req.Nonce != nil {
		opts = append(opts, command.WithNonce(*req.Nonce))
	}
	if req.Deadline != nil {
		opts = append(opts, command.WithDeadline(*req.Deadline))
	}

	c, err := command.New(selector, req.Contract, req.CallData, opts...)
	if err != nil {
		return nil, err
	}
	payload, err := command.Encode(c)
	if err != nil {
		return nil, err
	}
	if err := e.validator.Command(c); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidPayload, err)
	}
	return newArtifact(FormatCommand, selector, payload), nil
}
