package state

import (
	"errors"
	"fmt"
)

// ErrChainEmpty is returned when the chain has no block to build on.
var ErrChainEmpty = errors.New("chain has no blocks")

// ErrValidation is matched by errors.Is for every ValidationError.
var ErrValidation = errors.New("block validation failed")

// Reason identifies the rule a candidate block failed.
type Reason int

// Set of reasons a block can be rejected, in the order they are checked.
// ReasonNotGenesis is only reported when a whole chain is replayed.
const (
	ReasonTimestampBeforeParent Reason = iota + 1
	ReasonTimestampInFuture
	ReasonPrevHashMismatch
	ReasonProofOfWork
	ReasonNotGenesis
)

var reasons = map[Reason]string{
	ReasonTimestampBeforeParent: "timestamp before parent",
	ReasonTimestampInFuture:     "timestamp in future",
	ReasonPrevHashMismatch:      "previous hash mismatch",
	ReasonProofOfWork:           "proof of work",
	ReasonNotGenesis:            "first block is not genesis",
}

// String implements the fmt.Stringer interface.
func (r Reason) String() string {
	if s, exists := reasons[r]; exists {
		return s
	}

	return fmt.Sprintf("reason(%d)", int(r))
}

// ValidationError is returned when a candidate block breaks one of the
// rules for being appended to the chain.
type ValidationError struct {
	Reason Reason
	Msg    string
}

func newValidationError(reason Reason, format string, args ...any) *ValidationError {
	return &ValidationError{
		Reason: reason,
		Msg:    fmt.Sprintf(format, args...),
	}
}

// Error implements the error interface.
func (ve *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s: %s", ErrValidation, ve.Reason, ve.Msg)
}

// Is allows errors.Is(err, ErrValidation) to match any validation error.
func (ve *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// IsValidationError checks if an error of type ValidationError exists and
// returns the reason the block was rejected.
func IsValidationError(err error) (Reason, bool) {
	var ve *ValidationError
	if !errors.As(err, &ve) {
		return 0, false
	}

	return ve.Reason, true
}
