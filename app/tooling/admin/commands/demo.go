package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/blocksmith/blocksmith/foundation/blockchain/state"
	"go.uber.org/zap"
)

// defaultDemoDifficulty keeps the demo to a few seconds at most.
const defaultDemoDifficulty = 2

// Demo runs a scripted session against an in memory chain and prints the
// resulting chain and balances.
//
//	admin demo [difficulty]
func Demo(ctx context.Context, w io.Writer, log *zap.SugaredLogger, args []string) error {
	difficulty := uint(defaultDemoDifficulty)
	if len(args) > 2 {
		d, err := strconv.ParseUint(args[2], 10, 8)
		if err != nil {
			return fmt.Errorf("parsing difficulty: %w", err)
		}
		difficulty = uint(d)
	}

	ev := func(v string, args ...any) {
		log.Infow(fmt.Sprintf(v, args...), "traceid", "00000000-0000-0000-0000-000000000000")
	}

	st, err := state.New(state.Config{
		MinerAddress: "miner1",
		Difficulty:   difficulty,
		EvHandler:    ev,
	})
	if err != nil {
		return err
	}

	st.AddTransaction("alice", "bob", 100).AddTransaction("bob", "carol", 20)
	if _, err := st.Mine(ctx); err != nil {
		return err
	}

	st.AddTransaction("bob", "carol", 20)
	if _, err := st.Mine(ctx); err != nil {
		return err
	}

	if err := st.IsValidChain(st.Chain()); err != nil {
		return err
	}

	data, err := json.MarshalIndent(st.Chain(), "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(w, string(data))

	bals := st.Balances()

	names := make([]string, 0, len(bals))
	for name := range bals {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Fprintln(w)
	for _, name := range names {
		fmt.Fprintf(w, "%-10s %v\n", name, bals[name])
	}

	return nil
}
