// Package message implements the extended cross-chain message layout carried
// in a Bitcoin OP_RETURN output.
//
// Wire format, all integers big-endian:
//
//	protocol_id    u16  (0x4243, "BC")
//	version        u8   (0x02)
//	chain_selector u64
//	receiver       [20]byte
//	data_len       u32
//	data           [data_len]byte
//	gas_limit      u64
//	extra_args_len u32
//	extra_args     [extra_args_len]byte
package message

import (
	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/compose-network/bmcp/x/wire"
)

const (
	// ProtocolID is the two-byte magic opening every extended message.
	ProtocolID uint16 = 0x4243
	// Version is the only supported layout version.
	Version uint8 = 0x02
	// MaxMessageSize is the ceiling on a serialized message.
	MaxMessageSize = 100_000
	// MinGasLimit is the lowest gas limit a relayer will forward.
	MinGasLimit uint64 = 21_000
	// DefaultGasLimit is used for extra args when the caller gives none.
	DefaultGasLimit uint64 = 200_000

	// HeaderSize is the width of all fixed fields, i.e. a message with empty
	// data and extra args.
	HeaderSize = 2 + 1 + 8 + wire.AddressLength + 4 + 8 + 4
)

// Message is a decoded extended-layout message. Byte fields marshal as
// 0x-hex and the selector as a decimal string.
type Message struct {
	ProtocolID    uint16        `json:"protocol_id"`
	Version       uint8         `json:"version"`
	ChainSelector uint64        `json:"chain_selector,string"`
	Receiver      hexutil.Bytes `json:"receiver"`
	Data          hexutil.Bytes `json:"data"`
	GasLimit      uint64        `json:"gas_limit"`
	ExtraArgs     hexutil.Bytes `json:"extra_args"`
}

// New builds a message with the current protocol id and version. The
// receiver is given in hex form.
func New(selector uint64, receiver string, data []byte, gasLimit uint64, extraArgs []byte) (*Message, error) {
	addr, err := wire.ParseAddress(receiver)
	if err != nil {
		return nil, err
	}
	return &Message{
		ProtocolID:    ProtocolID,
		Version:       Version,
		ChainSelector: selector,
		Receiver:      addr,
		Data:          data,
		GasLimit:      gasLimit,
		ExtraArgs:     extraArgs,
	}, nil
}

// EncodedSize returns the serialized length of m.
func (m *Message) EncodedSize() int {
	return HeaderSize + len(m.Data) + len(m.ExtraArgs)
}

// ReceiverHex returns the receiver as 0x-prefixed lowercase hex.
func (m *Message) ReceiverHex() string {
	return wire.FormatAddress(m.Receiver)
}

// Encode serializes m. Nothing is returned on failure.
func Encode(m *Message) ([]byte, error) {
	if err := wire.CheckAddress(m.Receiver, "receiver"); err != nil {
		return nil, err
	}

	size := m.EncodedSize()
	if size > MaxMessageSize {
		return nil, wire.Errorf(wire.KindPayloadTooLarge, "message too large: %d bytes (max: %d)", size, MaxMessageSize)
	}

	w := wire.NewWriter(size)
	w.U16(m.ProtocolID)
	w.U8(m.Version)
	w.U64(m.ChainSelector)
	w.Raw(m.Receiver)
	w.U32(uint32(len(m.Data))) //nolint:gosec // bounded by MaxMessageSize
	w.Raw(m.Data)
	w.U64(m.GasLimit)
	w.U32(uint32(len(m.ExtraArgs))) //nolint:gosec // bounded by MaxMessageSize
	w.Raw(m.ExtraArgs)

	return w.Bytes(), nil
}

// Decode parses an extended-layout message. Only the protocol id and version
// are checked; byte slices in the result alias data.
func Decode(data []byte) (*Message, error) {
	r := wire.NewReader(data)

	protocolID, err := r.U16("protocol id")
	if err != nil {
		return nil, err
	}
	if protocolID != ProtocolID {
		return nil, wire.Errorf(wire.KindUnsupportedProtocol, "invalid protocol id: 0x%04x", protocolID)
	}

	version, err := r.U8("version")
	if err != nil {
		return nil, err
	}
	if version != Version {
		return nil, wire.Errorf(wire.KindUnsupportedVersion, "unsupported version: 0x%02x", version)
	}

	m := &Message{ProtocolID: protocolID, Version: version}

	if m.ChainSelector, err = r.U64("chain selector"); err != nil {
		return nil, err
	}
	if m.Receiver, err = r.Bytes(wire.AddressLength, "receiver"); err != nil {
		return nil, err
	}
	dataLen, err := r.U32("data length")
	if err != nil {
		return nil, err
	}
	if m.Data, err = r.Bytes(int(dataLen), "data"); err != nil {
		return nil, err
	}
	if m.GasLimit, err = r.U64("gas limit"); err != nil {
		return nil, err
	}
	extraLen, err := r.U32("extra args length")
	if err != nil {
		return nil, err
	}
	if m.ExtraArgs, err = r.Bytes(int(extraLen), "extra args"); err != nil {
		return nil, err
	}

	return m, nil
}

// HasMagic reports whether b opens with the extended protocol id.
func HasMagic(b []byte) bool {
	return len(b) >= 2 && uint16(b[0])<<8|uint16(b[1]) == ProtocolID
}
