// Package public maintains the group of handlers for public access.
package public

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"time"

	"github.com/blocksmith/blocksmith/business/sys/validate"
	"github.com/blocksmith/blocksmith/business/web/errs"
	"github.com/blocksmith/blocksmith/foundation/blockchain/database"
	"github.com/blocksmith/blocksmith/foundation/blockchain/state"
	"github.com/blocksmith/blocksmith/foundation/blockchain/wallet"
	"github.com/blocksmith/blocksmith/foundation/blockchain/worker"
	"github.com/blocksmith/blocksmith/foundation/events"
	"github.com/blocksmith/blocksmith/foundation/nameservice"
	"github.com/blocksmith/blocksmith/foundation/web"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Handlers manages the set of blockchain endpoints.
type Handlers struct {
	Log    *zap.SugaredLogger
	State  *state.State
	Worker *worker.Worker
	NS     *nameservice.NameService
	WS     websocket.Upgrader
	Evts   *events.Events
}

// Chain returns every block in the chain with its hash.
func (h Handlers) Chain(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	chain := h.State.Chain()

	blocks := make([]block, len(chain))
	for i, blk := range chain {
		hash, err := blk.Hash()
		if err != nil {
			return err
		}
		blocks[i] = toBlock(h.NS, i, hash, blk)
	}

	return web.Respond(ctx, w, blocks, http.StatusOK)
}

// LatestBlock returns the head of the chain.
func (h Handlers) LatestBlock(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	blk, err := h.State.LatestBlock()
	if err != nil {
		return err
	}

	b, err := h.numberedBlock(blk)
	if err != nil {
		return err
	}

	return web.Respond(ctx, w, b, http.StatusOK)
}

// Mempool returns the set of uncommitted transactions.
func (h Handlers) Mempool(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	trans := toTxs(h.NS, h.State.Mempool())
	return web.Respond(ctx, w, trans, http.StatusOK)
}

// SubmitTransaction adds a new transaction to the mempool.
func (h Handlers) SubmitTransaction(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v, err := web.GetValues(ctx)
	if err != nil {
		return web.NewShutdownError("web value missing from context")
	}

	var ntx NewTx
	if err := web.Decode(r, &ntx); err != nil {
		return errs.NewTrusted(err, http.StatusBadRequest)
	}

	if err := validate.Check(ntx); err != nil {
		return err
	}

	h.Log.Infow("add tran", "traceid", v.TraceID, "from", ntx.From, "to", ntx.To, "value", ntx.Value)
	h.State.AddTransaction(ntx.From, ntx.To, ntx.Value)

	resp := struct {
		Status string `json:"status"`
	}{
		Status: "transaction added to mempool",
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// Mine asks the worker to mine the next block and waits for the result.
func (h Handlers) Mine(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	blk, err := h.Worker.Mine(ctx)
	if err != nil {
		switch {
		case errors.Is(err, state.ErrValidation):
			return errs.NewTrusted(err, http.StatusConflict)
		case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled), errors.Is(err, worker.ErrShutdown):
			return errs.NewTrusted(fmt.Errorf("mining stopped: %w", err), http.StatusServiceUnavailable)
		}
		return err
	}

	b, err := h.numberedBlock(blk)
	if err != nil {
		return err
	}

	return web.Respond(ctx, w, b, http.StatusOK)
}

// SubmitBlock validates a block mined elsewhere and appends it to the chain.
func (h Handlers) SubmitBlock(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	var sb block
	if err := web.Decode(r, &sb); err != nil {
		return errs.NewTrusted(err, http.StatusBadRequest)
	}
	blk := toDatabaseBlock(sb)

	// A hash sent with the block must describe the block's contents.
	if sb.Hash != "" {
		hash, err := blk.Hash()
		if err != nil {
			return errs.NewTrusted(err, http.StatusBadRequest)
		}
		if hash != sb.Hash {
			return errs.NewTrusted(fmt.Errorf("hash %s does not match block contents %s", sb.Hash, hash), http.StatusBadRequest)
		}
	}

	added, err := h.State.VerifyAndAddBlock(blk)
	if err != nil {
		if errors.Is(err, state.ErrValidation) {
			return errs.NewTrusted(err, http.StatusNotAcceptable)
		}
		return err
	}

	b, err := h.numberedBlock(added)
	if err != nil {
		return err
	}

	return web.Respond(ctx, w, b, http.StatusOK)
}

// Balance returns the confirmed balance for the specified address.
func (h Handlers) Balance(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	addr := web.Param(r, "address")

	bal := balance{
		Address: addr,
		Name:    h.NS.Lookup(addr),
		Balance: h.State.Balance(addr),
	}

	return web.Respond(ctx, w, bal, http.StatusOK)
}

// Balances returns the confirmed balances for every known address.
func (h Handlers) Balances(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	blk, err := h.State.LatestBlock()
	if err != nil {
		return err
	}

	hash, err := blk.Hash()
	if err != nil {
		return err
	}

	bals := h.State.Balances()

	out := make([]balance, 0, len(bals))
	for addr, bal := range bals {
		out = append(out, balance{
			Address: addr,
			Name:    h.NS.Lookup(addr),
			Balance: bal,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Address < out[j].Address })

	resp := balances{
		LatestBlock: hash,
		Uncommitted: h.State.MempoolCount(),
		Balances:    out,
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// NewWallet generates a new key pair and returns it with its address.
func (h Handlers) NewWallet(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	wal, err := wallet.New()
	if err != nil {
		return err
	}

	return web.Respond(ctx, w, wal, http.StatusOK)
}

// Events handles a web socket to provide events to a client.
func (h Handlers) Events(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v, err := web.GetValues(ctx)
	if err != nil {
		return web.NewShutdownError("web value missing from context")
	}

	h.WS.CheckOrigin = func(r *http.Request) bool { return true }

	c, err := h.WS.Upgrade(w, r, nil)
	if err != nil {
		return err
	}
	defer c.Close()

	// The response has been hijacked by the upgrade.
	web.SetStatusCode(ctx, http.StatusSwitchingProtocols)

	ch := h.Evts.Acquire(v.TraceID)
	defer h.Evts.Release(v.TraceID)

	h.Log.Infow("websocket open", "traceid", v.TraceID, "subscribers", h.Evts.Count())

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case msg, wd := <-ch:
			if !wd {
				return nil
			}

			if err := c.WriteMessage(websocket.TextMessage, []byte(msg)); err != nil {
				return nil
			}

		case <-ticker.C:
			if err := c.WriteMessage(websocket.PingMessage, []byte("ping")); err != nil {
				return nil
			}

		case <-ctx.Done():
			return nil
		}
	}
}

// =============================================================================

// numberedBlock looks up the position of the block in the chain by its hash
// so a block appended afterwards can't shift the number.
func (h Handlers) numberedBlock(blk database.Block) (block, error) {
	hash, err := blk.Hash()
	if err != nil {
		return block{}, err
	}

	number, exists := h.State.BlockNumber(hash)
	if !exists {
		return block{}, fmt.Errorf("block %s not found in chain", hash)
	}

	return toBlock(h.NS, number, hash, blk), nil
}
