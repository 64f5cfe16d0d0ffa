package public

import (
	"github.com/blocksmith/blocksmith/foundation/blockchain/database"
	"github.com/blocksmith/blocksmith/foundation/nameservice"
)

// The leading fields of tx and block follow the canonical order used for
// hashing. Names, number and hash are informational and come after.

type tx struct {
	FromAddress string  `json:"sender_address"`
	ToAddress   string  `json:"recipient_address"`
	Value       float64 `json:"value"`
	FromName    string  `json:"sender_name,omitempty"`
	ToName      string  `json:"recipient_name,omitempty"`
}

type block struct {
	TimeStamp     int64  `json:"timestamp"`
	Nonce         uint64 `json:"nonce"`
	PrevBlockHash string `json:"previous_hash"`
	Transactions  []tx   `json:"transactions"`
	Number        int    `json:"number"`
	Hash          string `json:"hash,omitempty"`
}

type balance struct {
	Address string  `json:"address"`
	Name    string  `json:"name"`
	Balance float64 `json:"balance"`
}

type balances struct {
	LatestBlock string    `json:"latest_block"`
	Uncommitted int       `json:"uncommitted"`
	Balances    []balance `json:"balances"`
}

// NewTx is the payload used to submit a transaction to the mempool.
type NewTx struct {
	From  string  `json:"from" validate:"required,address"`
	To    string  `json:"to" validate:"required,address"`
	Value float64 `json:"value" validate:"gt=0"`
}

// =============================================================================

func toTxs(ns *nameservice.NameService, trans []database.Tx) []tx {
	out := make([]tx, len(trans))
	for i, tran := range trans {
		out[i] = tx{
			FromAddress: tran.FromID,
			FromName:    ns.Lookup(tran.FromID),
			ToAddress:   tran.ToID,
			ToName:      ns.Lookup(tran.ToID),
			Value:       tran.Value,
		}
	}
	return out
}

func toBlock(ns *nameservice.NameService, number int, hash string, blk database.Block) block {
	return block{
		TimeStamp:     blk.TimeStamp,
		Nonce:         blk.Nonce,
		PrevBlockHash: blk.PrevBlockHash,
		Transactions:  toTxs(ns, blk.Trans),
		Number:        number,
		Hash:          hash,
	}
}

// toDatabaseBlock converts a submitted block back into the value that is
// hashed. The number and the names are ignored.
func toDatabaseBlock(b block) database.Block {
	trans := make([]database.Tx, len(b.Transactions))
	for i, tran := range b.Transactions {
		trans[i] = database.NewTx(tran.FromAddress, tran.ToAddress, tran.Value)
	}

	return database.NewBlock(b.TimeStamp, trans, b.Nonce, b.PrevBlockHash)
}
