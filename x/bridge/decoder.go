package bridge

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/compose-network/bmcp/x/chains"
	"github.com/compose-network/bmcp/x/codec"
	"github.com/compose-network/bmcp/x/command"
	"github.com/compose-network/bmcp/x/message"
	"github.com/compose-network/bmcp/x/script"
	"github.com/compose-network/bmcp/x/validate"
	"github.com/compose-network/bmcp/x/wire"
)

// Decoder turns OP_RETURN scripts back into validated envelopes.
type Decoder struct {
	codecs    codec.Registry
	chains    *chains.Registry
	validator *validate.Validator
	metrics   *Metrics
	log       zerolog.Logger
}

// NewDecoder creates a decoder over the default payload codecs.
func NewDecoder(reg *chains.Registry, v *validate.Validator, m *Metrics, log zerolog.Logger) *Decoder {
	return NewDecoderWithCodecs(codec.NewRegistry(), reg, v, m, log)
}

// NewDecoderWithCodecs creates a decoder over an explicit codec registry.
func NewDecoderWithCodecs(
	codecs codec.Registry,
	reg *chains.Registry,
	v *validate.Validator,
	m *Metrics,
	log zerolog.Logger,
) *Decoder {
	return &Decoder{
		codecs:    codecs,
		chains:    reg,
		validator: v,
		metrics:   m,
		log:       log.With().Str("component", "bridge-decoder").Logger(),
	}
}

// DecodeScript unwraps script and decodes its payload.
func (d *Decoder) DecodeScript(s []byte) (*Envelope, error) {
	payload, err := script.Unwrap(s)
	if err != nil {
		d.fail("unwrap", err)
		return nil, err
	}
	return d.DecodePayload(payload)
}

// DecodePayload detects the layout of payload, decodes and validates it and
// resolves the destination chain. A selector missing from the registry
// yields chains.ErrUnknownChain.
func (d *Decoder) DecodePayload(payload []byte) (*Envelope, error) {
	env, err := d.decodePayload(payload)
	if err != nil {
		d.fail("decode", err)
		return nil, err
	}
	d.metrics.recordDecoded(env.Format, len(payload))
	return env, nil
}

func (d *Decoder) decodePayload(payload []byte) (*Envelope, error) {
	c, ok := d.codecs.Detect(payload)
	if !ok {
		return nil, wire.Errorf(wire.KindUnsupportedProtocol, "no codec recognizes payload prefix %s", prefixHex(payload))
	}
	if len(payload) > c.MaxPayloadSize() {
		return nil, wire.Errorf(wire.KindPayloadTooLarge, "%s payload too large: %d bytes (max: %d)", c.Name(), len(payload), c.MaxPayloadSize())
	}

	decoded, err := c.Decode(payload)
	if err != nil {
		return nil, err
	}

	env := &Envelope{Payload: payload}
	switch v := decoded.(type) {
	case *message.Message:
		if err := d.validator.Message(v); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidPayload, err)
		}
		env.Format, env.Selector, env.Message = FormatMessage, v.ChainSelector, v
	case *command.Command:
		if v.Version != command.Version {
			return nil, wire.Errorf(wire.KindUnsupportedVersion, "unsupported command version: %d", v.Version)
		}
		if err := d.validator.Command(v); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidPayload, err)
		}
		env.Format, env.Selector, env.Command = FormatCommand, v.ChainSelector, v
	default:
		return nil, fmt.Errorf("codec %s returned unsupported type %T", c.Name(), decoded)
	}

	entry, ok := d.chains.BySelector(env.Selector)
	if !ok {
		return nil, fmt.Errorf("%w: selector %d", chains.ErrUnknownChain, env.Selector)
	}
	env.Chain = entry
	return env, nil
}

// fail records err. Unsupported versions are logged at Warn, other rejections
// at Debug.
func (d *Decoder) fail(operation string, err error) {
	kind := ErrorKind(err)
	d.metrics.recordError(operation, kind)

	if errors.Is(err, wire.ErrUnsupportedVersion) {
		d.log.Warn().Err(err).Str("operation", operation).Msg("Skipping payload with unsupported version")
		return
	}
	d.log.Debug().Err(err).Str("operation", operation).Str("kind", kind).Msg("Payload rejected")
}

func prefixHex(b []byte) string {
	if len(b) > 4 {
		b = b[:4]
	}
	return fmt.Sprintf("0x%x", b)
}
