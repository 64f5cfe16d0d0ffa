package database_test

import (
	"encoding/hex"
	"errors"
	"math"
	"testing"

	"github.com/blocksmith/blocksmith/foundation/blockchain/database"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

// genesisHash is the SHA-256 of
// {"timestamp":1672531200000,"nonce":0,"previous_hash":"","transactions":[]}
const genesisHash = "9144980bbd9f402fc68969d3c1deae391ea262445df0b61ee7e404a4dd8770a8"

// =============================================================================

func Test_CanonicalSerialization(t *testing.T) {
	type table struct {
		name  string
		block database.Block
		json  string
		hash  string
	}

	tt := []table{
		{
			name:  "genesis",
			block: database.Genesis(),
			json:  `{"timestamp":1672531200000,"nonce":0,"previous_hash":"","transactions":[]}`,
			hash:  genesisHash,
		},
		{
			name:  "nil-trans",
			block: database.Block{TimeStamp: database.GenesisTimeStamp},
			json:  `{"timestamp":1672531200000,"nonce":0,"previous_hash":"","transactions":[]}`,
			hash:  genesisHash,
		},
		{
			name:  "one-tx",
			block: database.NewBlock(database.GenesisTimeStamp, []database.Tx{database.NewTx("alice", "bob", 50.5)}, 7, "abc"),
			json:  `{"timestamp":1672531200000,"nonce":7,"previous_hash":"abc","transactions":[{"sender_address":"alice","recipient_address":"bob","value":50.5}]}`,
			hash:  "bde54fafc16ab1a273cdfb43f30ddcabd680d8e171899eb88f930ce6e48c0b59",
		},
	}

	t.Log("Given the need to serialize and hash blocks canonically.")
	{
		for testID, tst := range tt {
			t.Logf("\tTest %d:\tWhen handling a %s block.", testID, tst.name)
			{
				f := func(t *testing.T) {
					data, err := tst.block.Serialize()
					if err != nil {
						t.Fatalf("\t%s\tTest %d:\tShould be able to serialize the block: %v", failed, testID, err)
					}

					if string(data) != tst.json {
						t.Logf("\t%s\tTest %d:\tgot: %s", failed, testID, data)
						t.Logf("\t%s\tTest %d:\texp: %s", failed, testID, tst.json)
						t.Fatalf("\t%s\tTest %d:\tShould get back the canonical field order.", failed, testID)
					}
					t.Logf("\t%s\tTest %d:\tShould get back the canonical field order.", success, testID)

					hash, err := tst.block.Hash()
					if err != nil {
						t.Fatalf("\t%s\tTest %d:\tShould be able to hash the block: %v", failed, testID, err)
					}

					if hash != tst.hash {
						t.Logf("\t%s\tTest %d:\tgot: %s", failed, testID, hash)
						t.Logf("\t%s\tTest %d:\texp: %s", failed, testID, tst.hash)
						t.Fatalf("\t%s\tTest %d:\tShould get back the right hash.", failed, testID)
					}
					t.Logf("\t%s\tTest %d:\tShould get back the right hash.", success, testID)

					raw, err := tst.block.HashBytes()
					if err != nil {
						t.Fatalf("\t%s\tTest %d:\tShould be able to hash the block to bytes: %v", failed, testID, err)
					}

					if hex.EncodeToString(raw[:]) != hash {
						t.Fatalf("\t%s\tTest %d:\tShould get the same hash as bytes and as hex.", failed, testID)
					}
					t.Logf("\t%s\tTest %d:\tShould get the same hash as bytes and as hex.", success, testID)
				}

				t.Run(tst.name, f)
			}
		}
	}
}

func Test_HashChangesWithEveryField(t *testing.T) {
	base := database.NewBlock(1_700_000_000_000, []database.Tx{database.NewTx("alice", "bob", 50)}, 3, "prev")

	baseHash, err := base.Hash()
	if err != nil {
		t.Fatalf("Should be able to hash the block: %s", err)
	}

	again, err := base.Hash()
	if err != nil || again != baseHash {
		t.Fatalf("Should get back the same hash twice.")
	}

	mutations := map[string]func(b *database.Block){
		"timestamp": func(b *database.Block) { b.TimeStamp++ },
		"nonce":     func(b *database.Block) { b.IncrementNonce() },
		"prev-hash": func(b *database.Block) { b.PrevBlockHash = "other" },
		"from":      func(b *database.Block) { b.Trans[0].FromID = "carol" },
		"to":        func(b *database.Block) { b.Trans[0].ToID = "carol" },
		"value":     func(b *database.Block) { b.Trans[0].Value = 50.000001 },
		"extra-tx":  func(b *database.Block) { b.Trans = append(b.Trans, database.NewTx("bob", "alice", 1)) },
	}

	for name, mutate := range mutations {
		f := func(t *testing.T) {
			blk := base.Copy()
			mutate(&blk)

			hash, err := blk.Hash()
			if err != nil {
				t.Fatalf("Should be able to hash the block: %s", err)
			}

			if hash == baseHash {
				t.Fatalf("Should get a different hash when the %s changes.", name)
			}

			if h, _ := base.Hash(); h != baseHash {
				t.Fatalf("Should not change the original block through a copy.")
			}
		}

		t.Run(name, f)
	}
}

func Test_IncrementNonce(t *testing.T) {
	blk := database.NewBlock(1, nil, 0, "")
	for range 5 {
		blk.IncrementNonce()
	}

	if blk.Nonce != 5 {
		t.Fatalf("Should increment the nonce by one each time, got %d", blk.Nonce)
	}
}

func Test_NewBlockCopiesTransactions(t *testing.T) {
	trans := []database.Tx{database.NewTx("alice", "bob", 1)}
	blk := database.NewBlock(1, trans, 0, "")

	trans[0] = database.NewTx("mallory", "mallory", 1000)

	if blk.Trans[0].FromID != "alice" {
		t.Fatalf("Should not be changed through the caller's slice.")
	}
}

func Test_SerializationFailure(t *testing.T) {
	for _, v := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		blk := database.NewBlock(1, []database.Tx{database.NewTx("alice", "bob", v)}, 0, "")

		_, err := blk.Hash()

		var serr *database.SerializationError
		if !errors.As(err, &serr) {
			t.Fatalf("Should get a serialization error for value %v, got %v", v, err)
		}
	}
}

func Test_IsHashSolved(t *testing.T) {
	type table struct {
		name       string
		difficulty uint
		hash       string
		exp        bool
	}

	tt := []table{
		{name: "zero-difficulty", difficulty: 0, hash: "ffff", exp: true},
		{name: "one-zero", difficulty: 1, hash: "0fff", exp: true},
		{name: "more-zeros", difficulty: 1, hash: "000f", exp: true},
		{name: "not-enough", difficulty: 3, hash: "00ff", exp: false},
		{name: "exact", difficulty: 4, hash: "0000", exp: true},
		{name: "too-long", difficulty: 5, hash: "0000", exp: false},
		{name: "no-zero", difficulty: 2, hash: "f000", exp: false},
	}

	for _, tst := range tt {
		f := func(t *testing.T) {
			if got := database.IsHashSolved(tst.difficulty, tst.hash); got != tst.exp {
				t.Fatalf("Should get %v for difficulty %d and hash %s, got %v", tst.exp, tst.difficulty, tst.hash, got)
			}
		}

		t.Run(tst.name, f)
	}
}
