// Package command implements the compact, magic-prefixed command layout.
//
// Wire format, all integers big-endian:
//
//	magic          u32  (0x424D4350, "BMCP")
//	version        u8   (0x01)
//	chain_selector u64
//	contract       [20]byte
//	call_data_len  u16
//	call_data      [call_data_len]byte
//	nonce          u32  optional
//	deadline       u32  optional, unix seconds
//
// The optional fields carry no tag. Their presence is inferred from the bytes
// left after the call data, so a deadline can only be sent together with a
// nonce.
package command

import (
	"encoding/binary"
	"math"

	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/compose-network/bmcp/x/wire"
)

const (
	// ProtocolMagic opens every compact command.
	ProtocolMagic uint32 = 0x424d4350
	// Version is the compact layout version written by Encode.
	Version uint8 = 1
	// MaxPayloadSize is the ceiling on a serialized command.
	MaxPayloadSize = 80_000
	// MaxCallDataSize is bounded by the two-byte length prefix.
	MaxCallDataSize = math.MaxUint16

	// HeaderSize is the width of the fixed prefix including the call data length.
	HeaderSize = 4 + 1 + 8 + wire.AddressLength + 2
)

// Command is a decoded compact command.
type Command struct {
	Magic         uint32        `json:"magic"`
	Version       uint8         `json:"version"`
	ChainSelector uint64        `json:"chain_selector,string"`
	Contract      hexutil.Bytes `json:"contract"`
	CallData      hexutil.Bytes `json:"call_data"`
	Nonce         *uint32       `json:"nonce,omitempty"`
	Deadline      *uint32       `json:"deadline,omitempty"`
}

// New builds a command with the current magic and version. The contract is
// given in hex form; short values are left-padded to 20 bytes.
func New(selector uint64, contract string, callData []byte, opts ...Option) (*Command, error) {
	addr, err := wire.ParsePaddedAddress(contract)
	if err != nil {
		return nil, err
	}
	o := applyOptions(opts)
	return &Command{
		Magic:         ProtocolMagic,
		Version:       Version,
		ChainSelector: selector,
		Contract:      addr,
		CallData:      callData,
		Nonce:         o.Nonce,
		Deadline:      o.Deadline,
	}, nil
}

// EncodedSize returns the serialized length of c.
func (c *Command) EncodedSize() int {
	return EstimateSize(len(c.CallData), Options{Nonce: c.Nonce, Deadline: c.Deadline})
}

// ContractHex returns the contract as 0x-prefixed lowercase hex.
func (c *Command) ContractHex() string {
	return wire.FormatAddress(c.Contract)
}

// Protocol returns the ASCII form of the magic.
func (c *Command) Protocol() string {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], c.Magic)
	return string(b[:])
}

// Encode serializes c. Nothing is returned on failure.
func Encode(c *Command) ([]byte, error) {
	if err := wire.CheckAddress(c.Contract, "contract"); err != nil {
		return nil, err
	}
	if len(c.CallData) > MaxCallDataSize {
		return nil, wire.Errorf(wire.KindPayloadTooLarge, "call data too large: %d bytes (max: %d)", len(c.CallData), MaxCallDataSize)
	}
	if c.Deadline != nil && c.Nonce == nil {
		return nil, wire.Errorf(wire.KindInvalidOptions, "deadline requires a nonce")
	}

	size := c.EncodedSize()
	if size > MaxPayloadSize {
		return nil, wire.Errorf(wire.KindPayloadTooLarge, "payload too large: %d bytes (max: %d)", size, MaxPayloadSize)
	}

	w := wire.NewWriter(size)
	w.U32(c.Magic)
	w.U8(c.Version)
	w.U64(c.ChainSelector)
	w.Raw(c.Contract)
	w.U16(uint16(len(c.CallData)))
	w.Raw(c.CallData)
	if c.Nonce != nil {
		w.U32(*c.Nonce)
	}
	if c.Deadline != nil {
		w.U32(*c.Deadline)
	}

	return w.Bytes(), nil
}

// Decode parses a compact command.
//
// Decode does not check the magic or the version and therefore does not
// authenticate the payload; call IsKnownMagic first when the source is
// untrusted. Bytes following the deadline are ignored.
func Decode(data []byte) (*Command, error) {
	r := wire.NewReader(data)
	c := &Command{}

	var err error
	if c.Magic, err = r.U32("magic"); err != nil {
		return nil, err
	}
	if c.Version, err = r.U8("version"); err != nil {
		return nil, err
	}
	if c.ChainSelector, err = r.U64("chain selector"); err != nil {
		return nil, err
	}
	if c.Contract, err = r.Bytes(wire.AddressLength, "contract"); err != nil {
		return nil, err
	}
	callLen, err := r.U16("call data length")
	if err != nil {
		return nil, err
	}
	if c.CallData, err = r.Bytes(int(callLen), "call data"); err != nil {
		return nil, err
	}

	if r.Remaining() > 0 {
		nonce, err := r.U32("nonce")
		if err != nil {
			return nil, err
		}
		c.Nonce = &nonce
	}
	if r.Remaining() > 0 {
		deadline, err := r.U32("deadline")
		if err != nil {
			return nil, err
		}
		c.Deadline = &deadline
	}

	return c, nil
}

// IsKnownMagic reports whether b opens with ProtocolMagic.
func IsKnownMagic(b []byte) bool {
	return len(b) >= 4 && binary.BigEndian.Uint32(b) == ProtocolMagic
}

// MagicBytes returns ProtocolMagic in wire order.
func MagicBytes() []byte {
	return binary.BigEndian.AppendUint32(nil, ProtocolMagic)
}
