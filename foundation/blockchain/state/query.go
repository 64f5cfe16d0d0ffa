package state

import (
	"github.com/blocksmith/blocksmith/foundation/blockchain/database"
)

// Chain returns a copy of every block in the chain, genesis first.
func (s *State) Chain() []database.Block {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]database.Block, len(s.chain))
	for i, block := range s.chain {
		out[i] = block.Copy()
	}

	return out
}

// Mempool returns a copy of the pending transactions in submission order.
func (s *State) Mempool() []database.Tx {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.mempool.Copy()
}

// MempoolCount returns the number of pending transactions.
func (s *State) MempoolCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.mempool.Count()
}

// Height returns the number of the head of the chain. The genesis block is
// block 0.
func (s *State) Height() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.chain) - 1
}

// BlockNumber returns the position in the chain of the block with the
// specified hash. The search starts at the head since callers almost always
// ask about a block that was just appended.
func (s *State) BlockNumber(hash string) (int, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for i := len(s.chain) - 1; i >= 0; i-- {

		// Every block but the head has its hash recorded in its child.
		var blkHash string
		switch {
		case i == len(s.chain)-1:
			h, err := s.chain[i].Hash()
			if err != nil {
				return 0, false
			}
			blkHash = h
		default:
			blkHash = s.chain[i+1].PrevBlockHash
		}

		if blkHash == hash {
			return i, true
		}
	}

	return 0, false
}

// LatestBlock returns a copy of the head of the chain.
func (s *State) LatestBlock() (database.Block, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	block, err := s.latestBlock()
	if err != nil {
		return database.Block{}, err
	}

	return block.Copy(), nil
}

// Difficulty returns the number of leading zeros a block hash needs.
func (s *State) Difficulty() uint {
	return s.difficulty
}

// MinerAddress returns the address credited with the mining reward.
func (s *State) MinerAddress() string {
	return s.minerAddress
}

// Balance replays every confirmed transaction to calculate the balance for
// the specified address. The mempool is not considered. Transactions sent
// by the RewardSender issue new value and don't debit it.
func (s *State) Balance(address string) float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var balance float64
	for _, block := range s.chain {
		for _, tx := range block.Trans {
			if tx.FromID == address && tx.FromID != RewardSender {
				balance -= tx.Value
			}
			if tx.ToID == address {
				balance += tx.Value
			}
		}
	}

	return balance
}

// Balances returns the balance of every address that appears as the
// recipient or a debited sender in a confirmed transaction.
func (s *State) Balances() map[string]float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	balances := make(map[string]float64)
	for _, block := range s.chain {
		for _, tx := range block.Trans {
			if tx.FromID != RewardSender {
				balances[tx.FromID] -= tx.Value
			}
			balances[tx.ToID] += tx.Value
		}
	}

	return balances
}
