// Package wallet provides support for creating key pairs and the account
// address derived from them. The ledger never signs with these keys, the
// private key exists so the owner of an address can prove it later.
package wallet

import (
	"crypto/ecdsa"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/blocksmith/blocksmith/foundation/blockchain/address"
	"github.com/ethereum/go-ethereum/crypto"
)

// KeyExtension is the file extension used for stored private keys.
const KeyExtension = ".ecdsa"

// Wallet represents a secp256k1 key pair and the address derived from
// the public key.
type Wallet struct {
	privateKey *ecdsa.PrivateKey
	publicKey  []byte
	address    string
}

// New generates a new key pair using a cryptographically secure source of
// randomness and derives its address.
func New() (Wallet, error) {
	privateKey, err := crypto.GenerateKey()
	if err != nil {
		return Wallet{}, fmt.Errorf("generating key: %w", err)
	}

	return FromPrivateKey(privateKey)
}

// FromPrivateKey constructs a wallet for an existing private key.
func FromPrivateKey(privateKey *ecdsa.PrivateKey) (Wallet, error) {
	if privateKey == nil {
		return Wallet{}, address.ErrInvalidPublicKey
	}

	publicKey := crypto.FromECDSAPub(&privateKey.PublicKey)

	addr, err := address.FromPublicKey(publicKey)
	if err != nil {
		return Wallet{}, err
	}

	w := Wallet{
		privateKey: privateKey,
		publicKey:  publicKey,
		address:    addr,
	}

	return w, nil
}

// Load reads a hex encoded private key from the specified file.
func Load(path string) (Wallet, error) {
	privateKey, err := crypto.LoadECDSA(path)
	if err != nil {
		return Wallet{}, fmt.Errorf("loading key %q: %w", path, err)
	}

	return FromPrivateKey(privateKey)
}

// Save writes the private key hex encoded to the specified file.
func (w Wallet) Save(path string) error {
	if err := crypto.SaveECDSA(path, w.privateKey); err != nil {
		return fmt.Errorf("saving key %q: %w", path, err)
	}

	return nil
}

// Address returns the address derived from the public key.
func (w Wallet) Address() string {
	return w.address
}

// PublicKey returns a copy of the uncompressed public key.
func (w Wallet) PublicKey() []byte {
	cpy := make([]byte, len(w.publicKey))
	copy(cpy, w.publicKey)
	return cpy
}

// PrivateKey returns the private key.
func (w Wallet) PrivateKey() *ecdsa.PrivateKey {
	return w.privateKey
}

// MarshalJSON implements the json.Marshaler interface so a newly generated
// wallet can be handed back to its owner.
func (w Wallet) MarshalJSON() ([]byte, error) {
	var privateKey string
	if w.privateKey != nil {
		privateKey = hex.EncodeToString(crypto.FromECDSA(w.privateKey))
	}

	v := struct {
		PublicKey  string `json:"public_key"`
		PrivateKey string `json:"private_key"`
		Address    string `json:"address"`
	}{
		PublicKey:  hex.EncodeToString(w.publicKey),
		PrivateKey: privateKey,
		Address:    w.address,
	}

	return json.Marshal(v)
}

// String implements the fmt.Stringer interface for logging. The private
// key is never part of this output.
func (w Wallet) String() string {
	return w.address
}
