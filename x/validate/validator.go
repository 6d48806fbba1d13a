// Package validate judges structurally valid decoded payloads for semantic
// acceptability. Malformed bytes are the codecs' concern; every check here
// runs on values that already decoded.
package validate

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/compose-network/bmcp/x/command"
	"github.com/compose-network/bmcp/x/message"
	"github.com/compose-network/bmcp/x/wire"
)

// Error is a single failed check.
type Error struct {
	Field  string
	Reason string
}

func (e *Error) Error() string { return e.Field + ": " + e.Reason }

func fail(field, format string, args ...any) error {
	return &Error{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// Fields returns the names of every failed field in err.
func Fields(err error) []string {
	if err == nil {
		return nil
	}
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		var out []string
		for _, e := range joined.Unwrap() {
			out = append(out, Fields(e)...)
		}
		return out
	}
	var e *Error
	if errors.As(err, &e) {
		return []string{e.Field}
	}
	return nil
}

// Validator holds the few knobs that are not wire constants.
type Validator struct {
	now           func() time.Time
	checkDeadline bool
}

// Option configures a Validator.
type Option func(*Validator)

// WithClock sets the time source used for deadline checks.
func WithClock(now func() time.Time) Option {
	return func(v *Validator) { v.now = now }
}

// WithDeadlineCheck toggles rejection of commands whose deadline has passed.
func WithDeadlineCheck(enabled bool) Option {
	return func(v *Validator) { v.checkDeadline = enabled }
}

// New returns a Validator with deadline checks disabled and the wall clock.
func New(opts ...Option) *Validator {
	v := &Validator{now: time.Now}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Now returns the validator's current time.
func (v *Validator) Now() time.Time { return v.now() }

// Message checks an extended-layout message. The returned error joins every
// failed check; nil means the message is acceptable.
func (v *Validator) Message(m *message.Message) error {
	if m == nil {
		return fail("message", "is nil")
	}
	var errs []error
	if m.ProtocolID != message.ProtocolID {
		errs = append(errs, fail("protocol_id", "expected 0x%04x, got 0x%04x", message.ProtocolID, m.ProtocolID))
	}
	if m.Version != message.Version {
		errs = append(errs, fail("version", "expected 0x%02x, got 0x%02x", message.Version, m.Version))
	}
	if len(m.Receiver) != wire.AddressLength {
		errs = append(errs, fail("receiver", "must be %d bytes, got %d", wire.AddressLength, len(m.Receiver)))
	}
	if m.GasLimit < message.MinGasLimit {
		errs = append(errs, fail("gas_limit", "%d is below minimum %d", m.GasLimit, message.MinGasLimit))
	}
	if size := m.EncodedSize(); size > message.MaxMessageSize {
		errs = append(errs, fail("size", "%d bytes exceeds %d", size, message.MaxMessageSize))
	}
	return errors.Join(errs...)
}

// Command checks a compact-layout command.
func (v *Validator) Command(c *command.Command) error {
	if c == nil {
		return fail("command", "is nil")
	}
	var errs []error
	if c.Magic != command.ProtocolMagic {
		errs = append(errs, fail("magic", "expected 0x%08x, got 0x%08x", command.ProtocolMagic, c.Magic))
	}
	if c.Version != command.Version {
		errs = append(errs, fail("version", "expected %d, got %d", command.Version, c.Version))
	}
	if len(c.Contract) != wire.AddressLength {
		errs = append(errs, fail("contract", "must be %d bytes, got %d", wire.AddressLength, len(c.Contract)))
	}
	if len(c.CallData) > command.MaxCallDataSize {
		errs = append(errs, fail("call_data", "%d bytes exceeds %d", len(c.CallData), command.MaxCallDataSize))
	}
	if size := c.EncodedSize(); size > command.MaxPayloadSize {
		errs = append(errs, fail("size", "%d bytes exceeds %d", size, command.MaxPayloadSize))
	}
	if c.Deadline != nil && c.Nonce == nil {
		errs = append(errs, fail("deadline", "set without nonce"))
	}
	if v.checkDeadline && c.Deadline != nil {
		if now := v.now().Unix(); int64(*c.Deadline) <= now {
			errs = append(errs, fail("deadline", "expired at %d, now %d", *c.Deadline, now))
		}
	}
	return errors.Join(errs...)
}

// AddressHex checks the textual address form: a 0x prefix and 40 hex digits.
func AddressHex(s string) error {
	if !strings.HasPrefix(s, "0x") && !strings.HasPrefix(s, "0X") {
		return fail("address", "missing 0x prefix")
	}
	if !common.IsHexAddress(s) {
		return fail("address", "must be 40 hex digits, got %q", s[2:])
	}
	return nil
}

var defaultValidator = New()

// ValidMessage reports whether m passes every message check.
func ValidMessage(m *message.Message) bool { return defaultValidator.Message(m) == nil }

// ValidCommand reports whether c passes every command check.
func ValidCommand(c *command.Command) bool { return defaultValidator.Command(c) == nil }

// ValidAddressHex reports whether s is a 0x-prefixed 40-digit hex address.
func ValidAddressHex(s string) bool { return AddressHex(s) == nil }
