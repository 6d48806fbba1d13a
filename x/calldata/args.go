package calldata

import (
	"fmt"
	"math/big"
	"reflect"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// ArgKind names the Go-side shape of an argument.
type ArgKind int

const (
	ArgAddress ArgKind = iota + 1
	ArgUint
	ArgInt
	ArgBool
	ArgString
	ArgBytes
	ArgList
)

// String returns the string representation of ArgKind
func (k ArgKind) String() string {
	switch k {
	case ArgAddress:
		return "address"
	case ArgUint:
		return "uint"
	case ArgInt:
		return "int"
	case ArgBool:
		return "bool"
	case ArgString:
		return "string"
	case ArgBytes:
		return "bytes"
	case ArgList:
		return "list"
	default:
		return "unknown"
	}
}

// Arg is a typed argument descriptor.
type Arg struct {
	kind ArgKind
	addr common.Address
	num  *big.Int
	b    bool
	str  string
	raw  []byte
	list []Arg
}

func Address(a common.Address) Arg { return Arg{kind: ArgAddress, addr: a} }
func Uint(v *big.Int) Arg          { return Arg{kind: ArgUint, num: v} }
func Uint64(v uint64) Arg          { return Uint(new(big.Int).SetUint64(v)) }
func Int(v *big.Int) Arg           { return Arg{kind: ArgInt, num: v} }
func Bool(v bool) Arg              { return Arg{kind: ArgBool, b: v} }
func String(v string) Arg          { return Arg{kind: ArgString, str: v} }
func Bytes(v []byte) Arg           { return Arg{kind: ArgBytes, raw: v} }
func Bytes32(v [32]byte) Arg       { return Arg{kind: ArgBytes, raw: v[:]} }
func List(items ...Arg) Arg        { return Arg{kind: ArgList, list: items} }

// Kind returns the descriptor kind.
func (a Arg) Kind() ArgKind { return a.kind }

// convert maps a descriptor onto the Go value the abi packer expects for typ.
//
//nolint:gocyclo // one case per abi type
func convert(typ abi.Type, a Arg) (any, error) {
	switch typ.T {
	case abi.AddressTy:
		if a.kind != ArgAddress {
			return nil, mismatch(typ, a)
		}
		return a.addr, nil

	case abi.UintTy:
		if a.kind != ArgUint || a.num == nil {
			return nil, mismatch(typ, a)
		}
		if a.num.Sign() < 0 || a.num.BitLen() > typ.Size {
			return nil, fmt.Errorf("%s does not fit %s", a.num, typ)
		}
		switch typ.Size {
		case 8:
			return uint8(a.num.Uint64()), nil
		case 16:
			return uint16(a.num.Uint64()), nil
		case 32:
			return uint32(a.num.Uint64()), nil
		case 64:
			return a.num.Uint64(), nil
		}
		return new(big.Int).Set(a.num), nil

	case abi.IntTy:
		if (a.kind != ArgInt && a.kind != ArgUint) || a.num == nil {
			return nil, mismatch(typ, a)
		}
		limit := new(big.Int).Lsh(big.NewInt(1), uint(typ.Size-1))
		if a.num.Cmp(limit) >= 0 || a.num.Cmp(new(big.Int).Neg(limit)) < 0 {
			return nil, fmt.Errorf("%s does not fit %s", a.num, typ)
		}
		switch typ.Size {
		case 8:
			return int8(a.num.Int64()), nil
		case 16:
			return int16(a.num.Int64()), nil
		case 32:
			return int32(a.num.Int64()), nil
		case 64:
			return a.num.Int64(), nil
		}
		return new(big.Int).Set(a.num), nil

	case abi.BoolTy:
		if a.kind != ArgBool {
			return nil, mismatch(typ, a)
		}
		return a.b, nil

	case abi.StringTy:
		if a.kind != ArgString {
			return nil, mismatch(typ, a)
		}
		return a.str, nil

	case abi.BytesTy:
		if a.kind != ArgBytes {
			return nil, mismatch(typ, a)
		}
		return a.raw, nil

	case abi.FixedBytesTy:
		if a.kind != ArgBytes {
			return nil, mismatch(typ, a)
		}
		if len(a.raw) != typ.Size {
			return nil, fmt.Errorf("%s needs %d bytes, got %d", typ, typ.Size, len(a.raw))
		}
		arr := reflect.New(typ.GetType()).Elem()
		reflect.Copy(arr, reflect.ValueOf(a.raw))
		return arr.Interface(), nil

	case abi.SliceTy, abi.ArrayTy:
		if a.kind != ArgList {
			return nil, mismatch(typ, a)
		}
		var out reflect.Value
		if typ.T == abi.ArrayTy {
			if len(a.list) != typ.Size {
				return nil, fmt.Errorf("%s needs %d elements, got %d", typ, typ.Size, len(a.list))
			}
			out = reflect.New(typ.GetType()).Elem()
		} else {
			out = reflect.MakeSlice(typ.GetType(), len(a.list), len(a.list))
		}
		for i, item := range a.list {
			v, err := convert(*typ.Elem, item)
			if err != nil {
				return nil, fmt.Errorf("element %d: %w", i, err)
			}
			out.Index(i).Set(reflect.ValueOf(v))
		}
		return out.Interface(), nil
	}
	return nil, fmt.Errorf("unsupported parameter type %s", typ)
}

func mismatch(typ abi.Type, a Arg) error {
	return fmt.Errorf("%s argument given for %s parameter", a.kind, typ)
}

// ParseArg converts a textual value into a descriptor for the named
// elementary type. Integers accept decimal or 0x-hex, byte types 0x-hex.
func ParseArg(typ, value string) (Arg, error) {
	typ = strings.TrimSpace(typ)
	value = strings.TrimSpace(value)
	switch {
	case typ == "address":
		if !common.IsHexAddress(value) {
			return Arg{}, fmt.Errorf("invalid address %q", value)
		}
		return Address(common.HexToAddress(value)), nil
	case strings.HasPrefix(typ, "uint"):
		n, ok := new(big.Int).SetString(value, 0)
		if !ok {
			return Arg{}, fmt.Errorf("invalid integer %q", value)
		}
		return Uint(n), nil
	case strings.HasPrefix(typ, "int"):
		n, ok := new(big.Int).SetString(value, 0)
		if !ok {
			return Arg{}, fmt.Errorf("invalid integer %q", value)
		}
		return Int(n), nil
	case typ == "bool":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return Arg{}, fmt.Errorf("invalid bool %q", value)
		}
		return Bool(b), nil
	case typ == "string":
		return String(value), nil
	case strings.HasPrefix(typ, "bytes"):
		raw, err := hexutil.Decode(value)
		if err != nil {
			return Arg{}, fmt.Errorf("invalid hex %q: %w", value, err)
		}
		return Bytes(raw), nil
	}
	return Arg{}, fmt.Errorf("unsupported textual type %q", typ)
}
