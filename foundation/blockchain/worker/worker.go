// Package worker implements background mining for the blockchain. A single
// goroutine owns every mining operation so they run one at a time.
package worker

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/blocksmith/blocksmith/foundation/blockchain/database"
	"github.com/blocksmith/blocksmith/foundation/blockchain/state"
)

// ErrShutdown is returned when a mining request is made after the worker
// has been shut down.
var ErrShutdown = errors.New("worker is shut down")

// Config represents the configuration for the worker.
type Config struct {
	AutoMine      bool
	MiningTimeout time.Duration
}

// Worker manages the POW workflows for the blockchain.
type Worker struct {
	state         *state.State
	autoMine      bool
	miningTimeout time.Duration
	evHandler     state.EventHandler

	wg          sync.WaitGroup
	shut        chan struct{}
	shutCtx     context.Context
	shutCancel  context.CancelFunc
	shutOnce    sync.Once
	startMining chan bool
	requests    chan request
}

// request is a mining operation asked for by a caller.
type request struct {
	ctx   context.Context
	reply chan result
}

// result is the outcome of a mining operation.
type result struct {
	block database.Block
	err   error
}

// Run creates a worker, registers the worker with the state package, and
// starts up the mining goroutine.
func Run(st *state.State, cfg Config, evHandler state.EventHandler) *Worker {
	ev := func(v string, args ...any) {
		if evHandler != nil {
			evHandler(v, args...)
		}
	}

	shutCtx, shutCancel := context.WithCancel(context.Background())

	w := Worker{
		state:         st,
		autoMine:      cfg.AutoMine,
		miningTimeout: cfg.MiningTimeout,
		evHandler:     ev,
		shut:          make(chan struct{}),
		shutCtx:       shutCtx,
		shutCancel:    shutCancel,
		startMining:   make(chan bool, 1),
		requests:      make(chan request),
	}

	// Register this worker with the state package.
	st.Worker = &w

	w.wg.Add(1)

	// We don't want to return until we know the G is up and running.
	hasStarted := make(chan bool)

	go func() {
		defer w.wg.Done()
		hasStarted <- true
		w.miningOperations()
	}()

	<-hasStarted

	return &w
}

// =============================================================================
// These methods implement the state.Worker interface.

// Shutdown cancels any mining in progress and terminates the goroutine
// performing work. It's safe to call more than once.
func (w *Worker) Shutdown() {
	w.shutOnce.Do(func() {
		w.evHandler("worker: shutdown: started")
		defer w.evHandler("worker: shutdown: completed")

		w.evHandler("worker: shutdown: cancel mining")
		w.shutCancel()

		w.evHandler("worker: shutdown: terminate goroutines")
		close(w.shut)
		w.wg.Wait()
	})
}

// SignalStartMining starts a mining operation when auto mining is turned
// on. If there is already a signal pending in the channel, just return
// since a mining operation will start.
func (w *Worker) SignalStartMining() {
	if !w.autoMine {
		return
	}

	select {
	case w.startMining <- true:
	default:
	}
	w.evHandler("worker: SignalStartMining: mining signaled")
}

// =============================================================================

// Mine asks the mining goroutine to mine the next block and waits for the
// result. The operation is cancelled when the context is cancelled, the
// mining timeout passes, or the worker is shut down.
func (w *Worker) Mine(ctx context.Context) (database.Block, error) {
	req := request{
		ctx:   ctx,
		reply: make(chan result, 1),
	}

	select {
	case w.requests <- req:
	case <-ctx.Done():
		return database.Block{}, ctx.Err()
	case <-w.shut:
		return database.Block{}, ErrShutdown
	}

	// Once accepted, the mining goroutine always replies.
	r := <-req.reply

	return r.block, r.err
}
