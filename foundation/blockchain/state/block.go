package state

import (
	"github.com/blocksmith/blocksmith/foundation/blockchain/database"
)

// VerifyBlock checks the candidate block can be appended to the current
// head of the chain. Neither the chain nor the candidate is changed.
func (s *State) VerifyBlock(candidate database.Block) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	head, err := s.latestBlock()
	if err != nil {
		return err
	}

	_, err = validateBlock(candidate, head, s.difficulty, s.timeStamp(), s.evHandler)
	return err
}

// VerifyAndAddBlock validates the candidate block against the head of the
// chain and, if it passes, appends it and clears the mempool. This is the
// only way a block is added to the chain.
func (s *State) VerifyAndAddBlock(candidate database.Block) (database.Block, error) {
	s.evHandler("state: VerifyAndAddBlock: started")
	defer s.evHandler("state: VerifyAndAddBlock: completed")

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.verifyAndAddBlock(candidate)
}

// IsValidChain replays the link and proof of work rules over a snapshot of
// a chain. The first block must be the genesis block.
func (s *State) IsValidChain(chain []database.Block) error {
	if len(chain) == 0 {
		return ErrChainEmpty
	}

	genesisHash, err := database.Genesis().Hash()
	if err != nil {
		return err
	}

	hash, err := chain[0].Hash()
	if err != nil {
		return err
	}

	if hash != genesisHash {
		return newValidationError(ReasonNotGenesis, "got %s, exp %s", hash, genesisHash)
	}

	now := s.timeStamp()
	for i := 1; i < len(chain); i++ {
		if _, err := validateBlock(chain[i], chain[i-1], s.difficulty, now, s.evHandler); err != nil {
			return err
		}
	}

	return nil
}

// =============================================================================

// verifyAndAddBlock performs the append. The caller must hold the write lock.
func (s *State) verifyAndAddBlock(candidate database.Block) (database.Block, error) {
	head, err := s.latestBlock()
	if err != nil {
		return database.Block{}, err
	}

	hash, err := validateBlock(candidate, head, s.difficulty, s.timeStamp(), s.evHandler)
	if err != nil {
		s.evHandler("state: verifyAndAddBlock: REJECTED: %s", err)
		return database.Block{}, err
	}

	block := candidate.Copy()
	s.chain = append(s.chain, block)
	s.mempool.Truncate()

	s.evHandler("state: verifyAndAddBlock: APPENDED: blk[%d]: hash[%s]: trans[%d]", len(s.chain)-1, hash, len(block.Trans))
	s.evHandler("viewer: block %d appended with hash %s", len(s.chain)-1, hash)

	return block.Copy(), nil
}

// validateBlock runs the ordered set of checks a block must pass to follow
// the previous block and returns the hash of the block. The genesis block
// never goes through this.
func validateBlock(b database.Block, previousBlock database.Block, difficulty uint, now int64, evHandler EventHandler) (string, error) {
	evHandler("state: validateBlock: check: block's timestamp is not before parent block's timestamp")

	if b.TimeStamp < previousBlock.TimeStamp {
		return "", newValidationError(ReasonTimestampBeforeParent, "parent %d, block %d", previousBlock.TimeStamp, b.TimeStamp)
	}

	evHandler("state: validateBlock: check: block's timestamp is not in the future")

	if b.TimeStamp > now {
		return "", newValidationError(ReasonTimestampInFuture, "now %d, block %d", now, b.TimeStamp)
	}

	evHandler("state: validateBlock: check: parent hash does match parent block")

	prevHash, err := previousBlock.Hash()
	if err != nil {
		return "", err
	}

	if b.PrevBlockHash != prevHash {
		return "", newValidationError(ReasonPrevHashMismatch, "got %s, exp %s", b.PrevBlockHash, prevHash)
	}

	evHandler("state: validateBlock: check: block hash has been solved")

	hash, err := b.Hash()
	if err != nil {
		return "", err
	}

	if !database.IsHashSolved(difficulty, hash) {
		return "", newValidationError(ReasonProofOfWork, "%s invalid block hash for difficulty %d", hash, difficulty)
	}

	return hash, nil
}
