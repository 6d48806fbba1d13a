// Package script wraps payloads into Bitcoin OP_RETURN locking scripts and
// extracts them again.
//
// Layout: OP_RETURN followed by a single data push whose opcode is chosen
// from the payload length:
//
//	n <= 75         0x6a n payload
//	n <= 255        0x6a 0x4c n payload
//	n <= 65535      0x6a 0x4d u16le(n) payload
//	otherwise       0x6a 0x4e u32le(n) payload
package script

import (
	"encoding/binary"
	"math"

	"github.com/btcsuite/btcd/txscript"
	"github.com/btcsuite/btcd/wire"
	"github.com/ethereum/go-ethereum/common/hexutil"

	bwire "github.com/compose-network/bmcp/x/wire"
)

// MaxDirectPush is the largest length pushed by the length byte alone.
const MaxDirectPush = txscript.OP_DATA_75

// Tier identifies the push encoding used for a payload.
type Tier int

const (
	TierDirect Tier = iota
	TierPushData1
	TierPushData2
	TierPushData4
)

// String returns the string representation of Tier
func (t Tier) String() string {
	switch t {
	case TierDirect:
		return "direct"
	case TierPushData1:
		return "pushdata1"
	case TierPushData2:
		return "pushdata2"
	case TierPushData4:
		return "pushdata4"
	default:
		return "unknown"
	}
}

// Overhead is the number of script bytes surrounding the payload.
func (t Tier) Overhead() int {
	switch t {
	case TierPushData1:
		return 3
	case TierPushData2:
		return 4
	case TierPushData4:
		return 6
	default:
		return 2
	}
}

// TierFor returns the push tier for an n-byte payload.
func TierFor(n int) Tier {
	switch {
	case n <= MaxDirectPush:
		return TierDirect
	case n <= math.MaxUint8:
		return TierPushData1
	case n <= math.MaxUint16:
		return TierPushData2
	default:
		return TierPushData4
	}
}

// Size returns the script length Wrap produces for an n-byte payload.
func Size(n int) int { return TierFor(n).Overhead() + n }

// Wrap builds an OP_RETURN script carrying payload.
//
//nolint:gosec // lengths are bounded by the tier
func Wrap(payload []byte) []byte {
	n := len(payload)
	out := make([]byte, 0, Size(n))
	out = append(out, txscript.OP_RETURN)
	switch TierFor(n) {
	case TierDirect:
		out = append(out, byte(n))
	case TierPushData1:
		out = append(out, txscript.OP_PUSHDATA1, byte(n))
	case TierPushData2:
		out = append(out, txscript.OP_PUSHDATA2)
		out = binary.LittleEndian.AppendUint16(out, uint16(n))
	default:
		out = append(out, txscript.OP_PUSHDATA4)
		out = binary.LittleEndian.AppendUint32(out, uint32(n))
	}
	return append(out, payload...)
}

// IsOpReturn reports whether script starts with OP_RETURN.
func IsOpReturn(script []byte) bool {
	return len(script) > 0 && script[0] == txscript.OP_RETURN
}

// Unwrap returns the payload of the first push following OP_RETURN. Bytes
// after that push are ignored. The returned slice aliases script.
func Unwrap(script []byte) ([]byte, error) {
	if len(script) == 0 {
		return nil, bwire.Errorf(bwire.KindUnrecognizedScript, "empty script")
	}
	if !IsOpReturn(script) {
		return nil, bwire.Errorf(bwire.KindUnrecognizedScript, "script starts with 0x%02x, not OP_RETURN", script[0])
	}

	r := bwire.NewReader(script[1:])
	op, err := r.U8("push opcode")
	if err != nil {
		return nil, err
	}

	var n int
	switch {
	case op == txscript.OP_0:
		return nil, nil
	case op <= txscript.OP_DATA_75:
		n = int(op)
	case op == txscript.OP_PUSHDATA1:
		v, err := r.U8("pushdata1 length")
		if err != nil {
			return nil, err
		}
		n = int(v)
	case op == txscript.OP_PUSHDATA2:
		b, err := r.Bytes(2, "pushdata2 length")
		if err != nil {
			return nil, err
		}
		n = int(binary.LittleEndian.Uint16(b))
	case op == txscript.OP_PUSHDATA4:
		b, err := r.Bytes(4, "pushdata4 length")
		if err != nil {
			return nil, err
		}
		v := binary.LittleEndian.Uint32(b)
		if uint64(v) > uint64(r.Remaining()) {
			return nil, bwire.Errorf(bwire.KindTruncatedInput, "push of %d bytes exceeds %d remaining", v, r.Remaining())
		}
		n = int(v)
	default:
		return nil, bwire.Errorf(bwire.KindUnrecognizedScript, "opcode 0x%02x is not a data push", op)
	}

	return r.Bytes(n, "pushed payload")
}

// WrapHex wraps payload and returns the 0x-prefixed script hex.
func WrapHex(payload []byte) string { return hexutil.Encode(Wrap(payload)) }

// UnwrapHex decodes a script given as hex, with or without 0x.
func UnwrapHex(s string) ([]byte, error) {
	raw, err := DecodeHex(s)
	if err != nil {
		return nil, err
	}
	return Unwrap(raw)
}

// DecodeHex decodes hex with an optional 0x prefix.
func DecodeHex(s string) ([]byte, error) {
	if len(s) < 2 || (s[:2] != "0x" && s[:2] != "0X") {
		s = "0x" + s
	}
	raw, err := hexutil.Decode(s)
	if err != nil {
		return nil, bwire.Errorf(bwire.KindUnrecognizedScript, "invalid script hex: %v", err)
	}
	return raw, nil
}

// TxOut returns a zero-value transaction output carrying payload.
func TxOut(payload []byte) *wire.TxOut {
	return wire.NewTxOut(0, Wrap(payload))
}
