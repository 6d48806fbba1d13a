package validate

import (
	"errors"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/compose-network/bmcp/x/calldata"
)

// ContractCall checks the EVM-side command handed to a receiver contract:
// a non-zero target, call data carrying at least a selector, a non-negative
// value and a deadline in the future.
func (v *Validator) ContractCall(c calldata.Command) error {
	var errs []error
	if c.Target == (common.Address{}) {
		errs = append(errs, fail("target", "is the zero address"))
	}
	if len(c.Data) < 4 {
		errs = append(errs, fail("data", "must hold a 4-byte selector, got %d bytes", len(c.Data)))
	}
	if c.Value != nil && c.Value.Sign() < 0 {
		errs = append(errs, fail("value", "is negative"))
	}
	switch {
	case c.Deadline == nil:
		errs = append(errs, fail("deadline", "is missing"))
	case c.Deadline.Cmp(big.NewInt(v.now().Unix())) <= 0:
		errs = append(errs, fail("deadline", "expired at %s", c.Deadline))
	}
	return errors.Join(errs...)
}
