package wire

import (
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// AddressLength is the width of an EVM address on the wire.
const AddressLength = common.AddressLength

// ParseAddress decodes a 40 hex character address with an optional 0x prefix.
func ParseAddress(s string) ([]byte, error) {
	if !common.IsHexAddress(s) {
		return nil, Errorf(KindMalformedAddress, "%q is not a 20-byte hex address", s)
	}
	return common.HexToAddress(s).Bytes(), nil
}

// ParsePaddedAddress accepts up to 40 hex characters with an optional 0x
// prefix and left-pads the value with zeros to AddressLength bytes.
func ParsePaddedAddress(s string) ([]byte, error) {
	h := strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	if h == "" || len(h) > 2*AddressLength {
		return nil, Errorf(KindMalformedAddress, "%q does not fit a 20-byte address", s)
	}
	for _, c := range h {
		if !isHexChar(c) {
			return nil, Errorf(KindMalformedAddress, "%q is not hex", s)
		}
	}
	return common.HexToAddress(h).Bytes(), nil
}

func isHexChar(c rune) bool {
	return ('0' <= c && c <= '9') || ('a' <= c && c <= 'f') || ('A' <= c && c <= 'F')
}

// CheckAddress verifies a raw address is exactly AddressLength bytes.
func CheckAddress(b []byte, what string) error {
	if len(b) != AddressLength {
		return Errorf(KindMalformedAddress, "%s must be %d bytes, got %d", what, AddressLength, len(b))
	}
	return nil
}

// FormatAddress renders a raw address as lowercase 0x-prefixed hex.
func FormatAddress(b []byte) string {
	return hexutil.Encode(b)
}
