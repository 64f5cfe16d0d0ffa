// Package database defines the values recorded on the blockchain and the
// canonical serialization and hashing rules for them.
package database

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// GenesisTimeStamp is the fixed time, in milliseconds since the epoch, of
// the genesis block (2023-01-01T00:00:00Z). Every node must use the same
// value or their chains can't be compared.
const GenesisTimeStamp int64 = 1_672_531_200_000

// =============================================================================

// SerializationError is returned when the canonical representation of a
// block can't be produced, for example a transaction value is NaN.
type SerializationError struct {
	Err error
}

// Error implements the error interface.
func (se *SerializationError) Error() string {
	return fmt.Sprintf("block serialization: %s", se.Err)
}

// Unwrap provides access to the underlying encoding error.
func (se *SerializationError) Unwrap() error {
	return se.Err
}

// =============================================================================

// Block represents a group of transactions batched together. The field
// order is the canonical order used for hashing and must not change.
type Block struct {
	TimeStamp     int64  `json:"timestamp"`     // Time the block was assembled in milliseconds.
	Nonce         uint64 `json:"nonce"`         // Value identified to solve the hash solution.
	PrevBlockHash string `json:"previous_hash"` // Hash of the previous block in the chain.
	Trans         []Tx   `json:"transactions"`  // Transactions included in this block.
}

// NewBlock constructs a block. The transactions are copied so the caller's
// slice can't change the block after the fact.
func NewBlock(timeStamp int64, trans []Tx, nonce uint64, prevBlockHash string) Block {
	cpy := make([]Tx, len(trans))
	copy(cpy, trans)

	return Block{
		TimeStamp:     timeStamp,
		Nonce:         nonce,
		PrevBlockHash: prevBlockHash,
		Trans:         cpy,
	}
}

// Genesis returns the first block of every chain.
func Genesis() Block {
	return NewBlock(GenesisTimeStamp, nil, 0, "")
}

// IncrementNonce moves the nonce to the next value. This is only allowed
// while the block is being mined.
func (b *Block) IncrementNonce() {
	b.Nonce++
}

// Serialize returns the canonical JSON for the block. A nil and an empty
// transaction list produce the same bytes.
func (b Block) Serialize() ([]byte, error) {
	if b.Trans == nil {
		b.Trans = []Tx{}
	}

	data, err := json.Marshal(b)
	if err != nil {
		return nil, &SerializationError{Err: err}
	}

	return data, nil
}

// HashBytes returns the SHA-256 of the canonical serialization.
func (b Block) HashBytes() ([sha256.Size]byte, error) {
	data, err := b.Serialize()
	if err != nil {
		return [sha256.Size]byte{}, err
	}

	return sha256.Sum256(data), nil
}

// Hash returns the lowercase hex encoded SHA-256 of the canonical
// serialization.
func (b Block) Hash() (string, error) {
	hash, err := b.HashBytes()
	if err != nil {
		return "", err
	}

	return hex.EncodeToString(hash[:]), nil
}

// Copy returns a deep copy of the block.
func (b Block) Copy() Block {
	return NewBlock(b.TimeStamp, b.Trans, b.Nonce, b.PrevBlockHash)
}

// =============================================================================

// IsHashSolved checks the hash to make sure it complies with the POW rules.
// We need to match a difficulty number of leading 0's.
func IsHashSolved(difficulty uint, hash string) bool {
	if difficulty > uint(len(hash)) {
		return false
	}

	for i := range difficulty {
		if hash[i] != '0' {
			return false
		}
	}

	return true
}
