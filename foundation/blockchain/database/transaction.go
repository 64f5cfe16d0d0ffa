package database

import (
	"fmt"
)

// Tx is the transactional information between two parties. A Tx is a value
// and is never changed once it's constructed. Two transactions with the same
// fields are indistinguishable and both are valid to include in a block.
type Tx struct {
	FromID string  `json:"sender_address"`    // Account sending the value.
	ToID   string  `json:"recipient_address"` // Account receiving the value.
	Value  float64 `json:"value"`             // Monetary value transferred.
}

// NewTx constructs a new transaction. No validation is performed on the
// account formats or the sign of the value, that is policy for the caller.
func NewTx(fromID string, toID string, value float64) Tx {
	return Tx{
		FromID: fromID,
		ToID:   toID,
		Value:  value,
	}
}

// String implements the fmt.Stringer interface for logging.
func (tx Tx) String() string {
	return fmt.Sprintf("%s->%s:%v", tx.FromID, tx.ToID, tx.Value)
}
