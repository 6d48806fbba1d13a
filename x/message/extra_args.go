package message

import (
	"encoding/binary"

	"github.com/compose-network/bmcp/x/wire"
)

// ExtraArgsV2Size is the width of the v2 extra args: a 32-byte big-endian
// gas limit followed by an out-of-order execution flag.
const ExtraArgsV2Size = 33

// EncodeExtraArgsV2 encodes gasLimit as a full 32-byte big-endian integer.
// The 24 high bytes are always zero.
func EncodeExtraArgsV2(gasLimit uint64, allowOutOfOrder bool) []byte {
	buf := make([]byte, ExtraArgsV2Size)
	binary.BigEndian.PutUint64(buf[24:32], gasLimit)
	if allowOutOfOrder {
		buf[32] = 1
	}
	return buf
}

// DecodeExtraArgsV2 is the inverse of EncodeExtraArgsV2.
func DecodeExtraArgsV2(b []byte) (gasLimit uint64, allowOutOfOrder bool, err error) {
	if len(b) < ExtraArgsV2Size {
		return 0, false, wire.Errorf(wire.KindTruncatedInput, "extra args need %d bytes, got %d", ExtraArgsV2Size, len(b))
	}
	for _, v := range b[:24] {
		if v != 0 {
			return 0, false, wire.Errorf(wire.KindInvalidOptions, "extra args gas limit exceeds 64 bits")
		}
	}
	switch b[32] {
	case 0:
	case 1:
		allowOutOfOrder = true
	default:
		return 0, false, wire.Errorf(wire.KindInvalidOptions, "invalid out-of-order flag 0x%02x", b[32])
	}
	return binary.BigEndian.Uint64(b[24:32]), allowOutOfOrder, nil
}
