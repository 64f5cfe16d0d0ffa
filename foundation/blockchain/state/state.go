// Package state is the core API for the blockchain and implements all the
// business rules and processing.
package state

import (
	"errors"
	"sync"
	"time"

	"github.com/blocksmith/blocksmith/foundation/blockchain/database"
	"github.com/blocksmith/blocksmith/foundation/blockchain/mempool"
)

// Set of values used by the engine when it credits the miner of a block.
const (
	MiningReward = 10.0
	RewardSender = "network"
)

// =============================================================================

// EventHandler defines a function that is called when events
// occur in the processing of blocks.
type EventHandler func(v string, args ...any)

// Worker interface represents the behavior required to be implemented by any
// package providing support for mining blocks in the background.
type Worker interface {
	Shutdown()
	SignalStartMining()
}

// =============================================================================

// Config represents the configuration required to start the blockchain.
type Config struct {
	MinerAddress string
	Difficulty   uint
	EvHandler    EventHandler
	Now          func() time.Time
}

// State manages the blockchain. The chain, the mempool and the difficulty
// are guarded by a single lock.
type State struct {
	minerAddress string
	difficulty   uint
	evHandler    EventHandler
	now          func() time.Time

	mu      sync.RWMutex
	chain   []database.Block
	mempool *mempool.Mempool

	Worker Worker
}

// New constructs a new blockchain seeded with the genesis block.
func New(cfg Config) (*State, error) {
	if cfg.MinerAddress == "" {
		return nil, errors.New("miner address is required")
	}

	// Build a safe event handler function for use.
	ev := func(v string, args ...any) {
		if cfg.EvHandler != nil {
			cfg.EvHandler(v, args...)
		}
	}

	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	state := State{
		minerAddress: cfg.MinerAddress,
		difficulty:   cfg.Difficulty,
		evHandler:    ev,
		now:          now,

		chain:   []database.Block{database.Genesis()},
		mempool: mempool.New(),
	}

	// The Worker is not set here. The call to worker.Run will assign itself
	// and start everything up and running for the node.

	return &state, nil
}

// Shutdown cleanly brings the blockchain down.
func (s *State) Shutdown() error {
	s.evHandler("state: Shutdown: started")
	defer s.evHandler("state: Shutdown: completed")

	// Stop all blockchain writing activity.
	if s.Worker != nil {
		s.Worker.Shutdown()
	}

	return nil
}

// AddTransaction appends a transaction to the mempool. No balance check is
// performed, a transaction is only meaningful once it's confirmed.
func (s *State) AddTransaction(from string, to string, value float64) *State {
	tx := database.NewTx(from, to, value)

	s.mu.Lock()
	n := s.mempool.Add(tx)
	s.mu.Unlock()

	s.evHandler("state: AddTransaction: tx[%s]: mempool[%d]", tx, n)
	s.evHandler("viewer: added tx %s to the mempool", tx)

	// Let the worker know there is work to be done.
	if s.Worker != nil {
		s.Worker.SignalStartMining()
	}

	return s
}

// =============================================================================

// timeStamp returns the current time in milliseconds.
func (s *State) timeStamp() int64 {
	return s.now().UnixMilli()
}

// latestBlock returns the head of the chain. The caller must hold the lock.
func (s *State) latestBlock() (database.Block, error) {
	if len(s.chain) == 0 {
		return database.Block{}, ErrChainEmpty
	}

	return s.chain[len(s.chain)-1], nil
}
