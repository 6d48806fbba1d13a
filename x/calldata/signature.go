// Package calldata produces and parses EVM call data for the commands carried
// by a payload. Payload codecs treat its output as opaque bytes.
package calldata

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"

	"github.com/compose-network/bmcp/x/wire"
)

// Signature is a parsed function signature such as "transfer(address,uint256)".
type Signature struct {
	method abi.Method
}

// ParseSignature parses a human-readable function signature. A leading
// "function" keyword, parameter names and a trailing "returns (...)" clause
// are accepted and ignored. Tuple parameters are not supported.
func ParseSignature(sig string) (*Signature, error) {
	s := strings.TrimSpace(sig)
	s = strings.TrimSpace(strings.TrimPrefix(s, "function "))
	if i := strings.Index(s, " returns"); i >= 0 {
		s = strings.TrimSpace(s[:i])
	}

	open := strings.IndexByte(s, '(')
	if open <= 0 || !strings.HasSuffix(s, ")") {
		return nil, wire.Errorf(wire.KindInvalidCallData, "malformed signature %q", sig)
	}
	name := strings.TrimSpace(s[:open])
	params := strings.TrimSpace(s[open+1 : len(s)-1])
	if strings.ContainsAny(params, "()") {
		return nil, wire.Errorf(wire.KindInvalidCallData, "tuple parameters are not supported in %q", sig)
	}

	var inputs abi.Arguments
	if params != "" {
		for i, p := range strings.Split(params, ",") {
			fields := strings.Fields(p)
			if len(fields) == 0 {
				return nil, wire.Errorf(wire.KindInvalidCallData, "empty parameter %d in %q", i, sig)
			}
			typ, err := abi.NewType(fields[0], "", nil)
			if err != nil {
				return nil, wire.Errorf(wire.KindInvalidCallData, "parameter %d of %q: %v", i, sig, err)
			}
			if err := checkType(typ); err != nil {
				return nil, wire.Errorf(wire.KindInvalidCallData, "parameter %d of %q: %v", i, sig, err)
			}
			arg := abi.Argument{Type: typ}
			if len(fields) > 1 {
				arg.Name = fields[len(fields)-1]
			}
			inputs = append(inputs, arg)
		}
	}

	return &Signature{
		method: abi.NewMethod(name, name, abi.Function, "", false, false, inputs, nil),
	}, nil
}

// checkType rejects integer widths the ABI parser accepts but Solidity does
// not: widths must be a multiple of 8 in [8, 256], element types included.
func checkType(t abi.Type) error {
	switch t.T {
	case abi.UintTy, abi.IntTy:
		if t.Size < 8 || t.Size > 256 || t.Size%8 != 0 {
			return fmt.Errorf("invalid integer type %s", t.String())
		}
	case abi.SliceTy, abi.ArrayTy:
		if t.Elem != nil {
			return checkType(*t.Elem)
		}
	}
	return nil
}

// Name returns the function name.
func (s *Signature) Name() string { return s.method.RawName }

// Canonical returns the normalized signature, e.g. "transfer(address,uint256)".
func (s *Signature) Canonical() string { return s.method.Sig }

// Selector returns the first four bytes of keccak256(Canonical()).
func (s *Signature) Selector() [4]byte {
	var out [4]byte
	copy(out[:], s.method.ID)
	return out
}

// Inputs returns the parsed parameter list.
func (s *Signature) Inputs() abi.Arguments { return s.method.Inputs }

// Encode packs args against the signature. The number of arguments must
// match the number of parameters and each argument kind must fit its type.
func (s *Signature) Encode(args ...Arg) ([]byte, error) {
	inputs := s.method.Inputs
	if len(args) != len(inputs) {
		return nil, wire.Errorf(wire.KindInvalidCallData, "%s expects %d arguments, got %d", s.Canonical(), len(inputs), len(args))
	}
	values := make([]any, len(args))
	for i, a := range args {
		v, err := convert(inputs[i].Type, a)
		if err != nil {
			return nil, wire.Errorf(wire.KindInvalidCallData, "argument %d of %s: %v", i, s.Canonical(), err)
		}
		values[i] = v
	}
	packed, err := inputs.Pack(values...)
	if err != nil {
		return nil, wire.Errorf(wire.KindInvalidCallData, "pack %s: %v", s.Canonical(), err)
	}
	return append(append(make([]byte, 0, 4+len(packed)), s.method.ID...), packed...), nil
}

// Decode verifies the selector and unpacks the arguments.
func (s *Signature) Decode(data []byte) ([]any, error) {
	if len(data) < 4 {
		return nil, wire.Errorf(wire.KindTruncatedInput, "call data shorter than a selector: %d bytes", len(data))
	}
	if !bytes.Equal(data[:4], s.method.ID) {
		return nil, wire.Errorf(wire.KindInvalidCallData, "selector 0x%x does not match %s", data[:4], s.Canonical())
	}
	values, err := s.method.Inputs.Unpack(data[4:])
	if err != nil {
		return nil, wire.Errorf(wire.KindInvalidCallData, "unpack %s: %v", s.Canonical(), err)
	}
	return values, nil
}

// Encode parses sig and packs args.
func Encode(sig string, args ...Arg) ([]byte, error) {
	s, err := ParseSignature(sig)
	if err != nil {
		return nil, err
	}
	return s.Encode(args...)
}

// Decode parses sig and unpacks data.
func Decode(sig string, data []byte) ([]any, error) {
	s, err := ParseSignature(sig)
	if err != nil {
		return nil, err
	}
	return s.Decode(data)
}

// FunctionSelector returns the four-byte selector of sig.
func FunctionSelector(sig string) ([4]byte, error) {
	s, err := ParseSignature(sig)
	if err != nil {
		return [4]byte{}, err
	}
	return s.Selector(), nil
}
