package state

import (
	"context"

	"github.com/blocksmith/blocksmith/foundation/blockchain/database"
)

// ProofOfWork assembles a candidate block from the current mempool and the
// head of the chain and searches for the smallest nonce that solves it. The
// chain and the mempool are not changed. The search can be cancelled
// through the context.
func (s *State) ProofOfWork(ctx context.Context) (database.Block, error) {
	s.mu.RLock()
	candidate, err := s.assembleCandidate(s.mempool.Copy())
	s.mu.RUnlock()

	if err != nil {
		return database.Block{}, err
	}

	if err := performPOW(ctx, &candidate, s.difficulty, s.evHandler); err != nil {
		return database.Block{}, err
	}

	return candidate, nil
}

// Mine credits the miner with the reward, searches for a nonce that solves
// the candidate block and appends it to the chain. The whole sequence runs
// under the write lock so two mining operations never interleave. On error
// neither the chain nor the mempool is changed.
func (s *State) Mine(ctx context.Context) (database.Block, error) {
	s.evHandler("state: Mine: MINING: started")
	defer s.evHandler("state: Mine: MINING: completed")

	s.mu.Lock()
	defer s.mu.Unlock()

	s.evHandler("state: Mine: MINING: add reward: miner[%s]: reward[%v]", s.minerAddress, MiningReward)

	// The reward is part of the block being mined so it must be in the
	// transaction list before the nonce search starts.
	reward := database.NewTx(RewardSender, s.minerAddress, MiningReward)
	trans := append(s.mempool.Copy(), reward)

	candidate, err := s.assembleCandidate(trans)
	if err != nil {
		return database.Block{}, err
	}

	s.evHandler("state: Mine: MINING: perform POW")

	if err := performPOW(ctx, &candidate, s.difficulty, s.evHandler); err != nil {
		return database.Block{}, err
	}

	// Just check one more time we were not cancelled.
	if ctx.Err() != nil {
		return database.Block{}, ctx.Err()
	}

	s.evHandler("state: Mine: MINING: validate and append")

	return s.verifyAndAddBlock(candidate)
}

// =============================================================================

// assembleCandidate constructs the next block with a zero nonce on top of
// the current head. The caller must hold the lock.
func (s *State) assembleCandidate(trans []database.Tx) (database.Block, error) {
	head, err := s.latestBlock()
	if err != nil {
		return database.Block{}, err
	}

	prevHash, err := head.Hash()
	if err != nil {
		return database.Block{}, err
	}

	return database.NewBlock(s.timeStamp(), trans, 0, prevHash), nil
}

// performPOW does the work of mining to find a valid hash for the specified
// block. The nonce starts at zero and is incremented by one until the hash
// has the required number of leading zeros, so the smallest solving nonce
// is found.
func performPOW(ctx context.Context, b *database.Block, difficulty uint, ev EventHandler) error {
	ev("state: performPOW: MINING: started: difficulty[%d]", difficulty)
	defer ev("state: performPOW: MINING: completed")

	// Log the transactions that are a part of this potential block.
	for _, tx := range b.Trans {
		ev("state: performPOW: MINING: tx[%s]", tx)
	}

	b.Nonce = 0

	var attempts uint64
	for {
		attempts++
		if attempts%1_000_000 == 0 {
			ev("state: performPOW: MINING: attempts[%d]", attempts)
		}

		// Did we timeout trying to solve the problem.
		if ctx.Err() != nil {
			ev("state: performPOW: MINING: CANCELLED")
			return ctx.Err()
		}

		// Hash the block and check if we have solved the puzzle.
		hash, err := b.Hash()
		if err != nil {
			return err
		}

		if !database.IsHashSolved(difficulty, hash) {
			b.IncrementNonce()
			continue
		}

		ev("state: performPOW: MINING: SOLVED: prevBlk[%s]: newBlk[%s]", b.PrevBlockHash, hash)
		ev("state: performPOW: MINING: attempts[%d]", attempts)

		return nil
	}
}
