package wire

import (
	"errors"
	"fmt"
)

// Kind represents the category of a codec failure.
type Kind int

const (
	KindMalformedAddress Kind = iota + 1
	KindUnsupportedProtocol
	KindUnsupportedVersion
	KindPayloadTooLarge
	KindTruncatedInput
	KindUnrecognizedScript
	KindInvalidOptions
	KindInvalidCallData
)

// String returns the string representation of Kind
func (k Kind) String() string {
	switch k {
	case KindMalformedAddress:
		return "malformed_address"
	case KindUnsupportedProtocol:
		return "unsupported_protocol"
	case KindUnsupportedVersion:
		return "unsupported_version"
	case KindPayloadTooLarge:
		return "payload_too_large"
	case KindTruncatedInput:
		return "truncated_input"
	case KindUnrecognizedScript:
		return "unrecognized_script"
	case KindInvalidOptions:
		return "invalid_options"
	case KindInvalidCallData:
		return "invalid_call_data"
	default:
		return "unknown"
	}
}

// Error is returned by every encode/decode operation in this module.
// Two errors are equal under errors.Is when their kinds match.
type Error struct {
	Kind Kind
	Msg  string
}

// Sentinels for errors.Is comparisons.
var (
	ErrMalformedAddress    = &Error{Kind: KindMalformedAddress}
	ErrUnsupportedProtocol = &Error{Kind: KindUnsupportedProtocol}
	ErrUnsupportedVersion  = &Error{Kind: KindUnsupportedVersion}
	ErrPayloadTooLarge     = &Error{Kind: KindPayloadTooLarge}
	ErrTruncatedInput      = &Error{Kind: KindTruncatedInput}
	ErrUnrecognizedScript  = &Error{Kind: KindUnrecognizedScript}
	ErrInvalidOptions      = &Error{Kind: KindInvalidOptions}
	ErrInvalidCallData     = &Error{Kind: KindInvalidCallData}
)

// Error implements the error interface
func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Msg == "" {
		return e.Kind.String()
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

// Is reports whether target carries the same kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

// Errorf builds an *Error of the given kind.
func Errorf(kind Kind, format string, args ...any) error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// KindOf extracts the kind of err, or 0 when err is not a codec error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}
