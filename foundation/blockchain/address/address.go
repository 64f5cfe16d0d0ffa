// Package address derives the Base58Check account addresses used by the
// blockchain from secp256k1 public keys.
package address

import (
	"crypto/ecdsa"
	"crypto/sha256"
	"errors"
	"fmt"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcutil/base58"
	"github.com/ethereum/go-ethereum/crypto"
	"golang.org/x/crypto/ripemd160"
)

// TestnetVersion is the version byte prepended to the public key hash. This
// is the Bitcoin testnet prefix, so addresses start with an 'm' or 'n'.
const TestnetVersion byte = 0x6f

// Length is the number of bytes in a decoded address: version byte,
// 20 byte public key hash and a 4 byte checksum.
const Length = 1 + ripemd160.Size + checksumLength

const checksumLength = 4

// Set of errors returned by the address package.
var (
	ErrInvalidPublicKey = errors.New("invalid public key")
	ErrInvalidAddress   = errors.New("invalid address")
)

// =============================================================================

// FromPublicKey derives the address for the serialized public key. The key
// can be provided in compressed or uncompressed form, it is always hashed
// in its uncompressed form.
func FromPublicKey(publicKey []byte) (string, error) {
	pk, err := btcec.ParsePubKey(publicKey)
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrInvalidPublicKey, err)
	}

	// Stage 1 and 2: SHA-256 of the uncompressed key, then RIPEMD-160.
	h1 := sha256.Sum256(pk.SerializeUncompressed())

	rip := ripemd160.New()
	rip.Write(h1[:])
	h2 := rip.Sum(nil)

	// Stage 3: the version byte goes in front of the public key hash.
	versioned := make([]byte, 0, Length)
	versioned = append(versioned, TestnetVersion)
	versioned = append(versioned, h2...)

	// Stage 4 and 5: append the checksum and encode.
	payload := append(versioned, checksum(versioned)...)

	return base58.Encode(payload), nil
}

// FromECDSA derives the address for the specified public key.
func FromECDSA(publicKey *ecdsa.PublicKey) (string, error) {
	if publicKey == nil {
		return "", ErrInvalidPublicKey
	}

	return FromPublicKey(crypto.FromECDSAPub(publicKey))
}

// Validate checks the address decodes to a testnet version byte, the right
// number of bytes and a matching checksum. The ledger never requires this,
// it's used to catch typing mistakes at the edges of the system.
func Validate(addr string) error {
	payload := base58.Decode(addr)
	if len(payload) != Length {
		return fmt.Errorf("%w: decoded length %d, exp %d", ErrInvalidAddress, len(payload), Length)
	}

	if payload[0] != TestnetVersion {
		return fmt.Errorf("%w: version byte %#x, exp %#x", ErrInvalidAddress, payload[0], TestnetVersion)
	}

	versioned := payload[:Length-checksumLength]
	sum := payload[Length-checksumLength:]
	if string(checksum(versioned)) != string(sum) {
		return fmt.Errorf("%w: checksum mismatch", ErrInvalidAddress)
	}

	return nil
}

// =============================================================================

// checksum returns the first 4 bytes of the double SHA-256 of the data.
func checksum(data []byte) []byte {
	first := sha256.Sum256(data)
	second := sha256.Sum256(first[:])

	return second[:checksumLength]
}
