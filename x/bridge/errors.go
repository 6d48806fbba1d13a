package bridge

import (
	"errors"

	"github.com/compose-network/bmcp/x/chains"
	"github.com/compose-network/bmcp/x/wire"
)

// ErrorKind classifies a pipeline error for metrics and API responses.
func ErrorKind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, chains.ErrUnknownChain):
		return "unknown_chain"
	case errors.Is(err, ErrInvalidPayload):
		return "invalid_payload"
	}
	return wire.KindOf(err).String()
}
