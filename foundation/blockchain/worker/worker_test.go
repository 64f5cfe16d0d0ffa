package worker_test

import (
	"context"
	"errors"
	"math"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/blocksmith/blocksmith/foundation/blockchain/database"
	"github.com/blocksmith/blocksmith/foundation/blockchain/state"
	"github.com/blocksmith/blocksmith/foundation/blockchain/worker"
)

func newState(t *testing.T, difficulty uint) *state.State {
	t.Helper()

	st, err := state.New(state.Config{
		MinerAddress: "miner1",
		Difficulty:   difficulty,
	})
	if err != nil {
		t.Fatalf("Should be able to construct the state: %s", err)
	}

	return st
}

// =============================================================================

func Test_Mine(t *testing.T) {
	st := newState(t, 1)

	w := worker.Run(st, worker.Config{}, nil)
	defer w.Shutdown()

	st.AddTransaction("alice", "bob", 50)

	block, err := w.Mine(context.Background())
	if err != nil {
		t.Fatalf("Should be able to mine through the worker: %s", err)
	}

	if len(block.Trans) != 2 || len(st.Chain()) != 2 {
		t.Fatalf("Should have appended the block with the reward.")
	}

	if len(st.Mempool()) != 0 {
		t.Fatalf("Should not auto mine when it's turned off.")
	}
}

func Test_AutoMine(t *testing.T) {
	st := newState(t, 1)

	w := worker.Run(st, worker.Config{AutoMine: true}, nil)
	defer w.Shutdown()

	st.AddTransaction("alice", "bob", 50)

	deadline := time.Now().Add(5 * time.Second)
	for st.Balance("bob") != 50 {
		if time.Now().After(deadline) {
			t.Fatalf("Should have mined the transaction in the background.")
		}
		time.Sleep(10 * time.Millisecond)
	}

	if len(st.Mempool()) != 0 {
		t.Fatalf("Should have cleared the mempool.")
	}
}

func Test_AutoMineStopsOnError(t *testing.T) {
	st := newState(t, 1)

	var operations atomic.Int64
	ev := func(v string, args ...any) {
		if strings.HasPrefix(v, "worker: runMiningOperation: MINING: started") {
			operations.Add(1)
		}
	}

	w := worker.Run(st, worker.Config{AutoMine: true}, ev)
	defer w.Shutdown()

	// A NaN value can never be serialized so every attempt fails the same way.
	st.AddTransaction("alice", "bob", math.NaN())

	deadline := time.Now().Add(5 * time.Second)
	for operations.Load() == 0 {
		if time.Now().After(deadline) {
			t.Fatalf("Should have started an auto mining operation.")
		}
		time.Sleep(10 * time.Millisecond)
	}

	time.Sleep(200 * time.Millisecond)

	if n := operations.Load(); n != 1 {
		t.Fatalf("Should not keep retrying a failed auto mine, got %d operations", n)
	}

	var serr *database.SerializationError
	if _, err := w.Mine(context.Background()); !errors.As(err, &serr) {
		t.Fatalf("Should still report the failure to an explicit request, got %v", err)
	}

	if len(st.Chain()) != 1 || st.MempoolCount() != 1 {
		t.Fatalf("Should not change the chain or the mempool.")
	}
}

func Test_MiningTimeout(t *testing.T) {
	st := newState(t, 64)

	w := worker.Run(st, worker.Config{MiningTimeout: 20 * time.Millisecond}, nil)
	defer w.Shutdown()

	st.AddTransaction("alice", "bob", 50)

	if _, err := w.Mine(context.Background()); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("Should time out the mining operation, got %v", err)
	}

	if len(st.Chain()) != 1 || len(st.Mempool()) != 1 {
		t.Fatalf("Should not change the chain or the mempool.")
	}
}

func Test_CallerCancel(t *testing.T) {
	st := newState(t, 64)

	w := worker.Run(st, worker.Config{}, nil)
	defer w.Shutdown()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	if _, err := w.Mine(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("Should stop mining when the caller gives up, got %v", err)
	}
}

func Test_Shutdown(t *testing.T) {
	st := newState(t, 64)

	w := worker.Run(st, worker.Config{}, nil)

	errs := make(chan error, 1)
	go func() {
		_, err := w.Mine(context.Background())
		errs <- err
	}()

	time.Sleep(50 * time.Millisecond)

	if err := st.Shutdown(); err != nil {
		t.Fatalf("Should be able to shut down: %s", err)
	}

	select {
	case err := <-errs:
		if !errors.Is(err, context.Canceled) && !errors.Is(err, worker.ErrShutdown) {
			t.Fatalf("Should cancel the mining in progress, got %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("Should not block the caller after a shutdown.")
	}

	if _, err := w.Mine(context.Background()); !errors.Is(err, worker.ErrShutdown) {
		t.Fatalf("Should reject mining after a shutdown, got %v", err)
	}

	w.Shutdown()
}
