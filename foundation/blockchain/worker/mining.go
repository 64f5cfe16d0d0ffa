package worker

import (
	"context"
	"time"

	"github.com/blocksmith/blocksmith/foundation/blockchain/database"
)

// miningOperations handles mining.
func (w *Worker) miningOperations() {
	w.evHandler("worker: miningOperations: G started")
	defer w.evHandler("worker: miningOperations: G completed")

	for {
		select {
		case req := <-w.requests:
			block, err := w.runMiningOperation(req.ctx)
			req.reply <- result{block: block, err: err}

		case <-w.startMining:
			if !w.isShutdown() {
				w.runAutoMining()
			}

		case <-w.shut:
			w.evHandler("worker: miningOperations: received shut signal")
			return
		}
	}
}

// runAutoMining mines the pending transactions after a signal. Errors are
// only reported through the event handler since there is no caller.
func (w *Worker) runAutoMining() {

	// Make sure there are transactions in the mempool.
	if length := w.state.MempoolCount(); length == 0 {
		w.evHandler("worker: runAutoMining: MINING: no transactions to mine: Txs[%d]", length)
		return
	}

	if _, err := w.runMiningOperation(context.Background()); err != nil {

		// The same mempool will fail the same way, so wait for the next
		// transaction or an explicit mine request before trying again.
		w.evHandler("worker: runAutoMining: MINING: ERROR: %s", err)
		return
	}

	// Transactions submitted while mining need another operation.
	if length := w.state.MempoolCount(); length > 0 {
		w.evHandler("worker: runAutoMining: MINING: signal new mining operation: Txs[%d]", length)
		w.SignalStartMining()
	}
}

// runMiningOperation takes all the transactions from the mempool and writes
// a new block to the chain.
func (w *Worker) runMiningOperation(ctx context.Context) (database.Block, error) {
	w.evHandler("worker: runMiningOperation: MINING: started")
	defer w.evHandler("worker: runMiningOperation: MINING: completed")

	// The mining is cancelled by the caller or by a shutdown.
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	stop := context.AfterFunc(w.shutCtx, cancel)
	defer stop()

	if w.miningTimeout > 0 {
		var cancelTimeout context.CancelFunc
		ctx, cancelTimeout = context.WithTimeout(ctx, w.miningTimeout)
		defer cancelTimeout()
	}

	t := time.Now()
	block, err := w.state.Mine(ctx)
	duration := time.Since(t)

	w.evHandler("worker: runMiningOperation: MINING: mining duration[%v]", duration)

	if err != nil {
		if ctx.Err() != nil {
			w.evHandler("worker: runMiningOperation: MINING: CANCEL: complete")
		}
		return database.Block{}, err
	}

	w.evHandler("viewer: mined block with nonce %d in %v", block.Nonce, duration)

	return block, nil
}

// isShutdown is used to test if a shutdown has been signaled.
func (w *Worker) isShutdown() bool {
	select {
	case <-w.shut:
		return true
	default:
		return false
	}
}
