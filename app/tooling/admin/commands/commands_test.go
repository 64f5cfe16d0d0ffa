package commands_test

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/blocksmith/blocksmith/app/tooling/admin/commands"
	"github.com/blocksmith/blocksmith/foundation/nameservice"
	"go.uber.org/zap"
)

func Test_Keys(t *testing.T) {
	folder := filepath.Join(t.TempDir(), "accounts")

	var out bytes.Buffer
	if err := commands.Keys(&out, []string{"admin", "keys", folder, "miner1", "alice"}); err != nil {
		t.Fatalf("Should be able to generate keys: %s", err)
	}

	ns, err := nameservice.New(folder)
	if err != nil {
		t.Fatalf("Should be able to load the generated keys: %s", err)
	}

	addr, exists := ns.Address("miner1")
	if !exists {
		t.Fatalf("Should have a key for miner1.")
	}

	out.Reset()
	if err := commands.Keys(&out, []string{"admin", "keys", folder, "miner1"}); err != nil {
		t.Fatalf("Should be able to run twice: %s", err)
	}

	if !strings.Contains(out.String(), addr) || !strings.Contains(out.String(), "exists") {
		t.Fatalf("Should keep the existing key, got %q", out.String())
	}

	if err := commands.Keys(&out, []string{"admin", "keys"}); err == nil {
		t.Fatalf("Should require a folder and a name.")
	}
}

func Test_Demo(t *testing.T) {
	var out bytes.Buffer
	if err := commands.Demo(context.Background(), &out, zap.NewNop().Sugar(), []string{"admin", "demo", "1"}); err != nil {
		t.Fatalf("Should be able to run the demo: %s", err)
	}

	exp := []string{
		"alice      -100",
		"bob        60",
		"carol      40",
		"miner1     20",
	}

	for _, line := range exp {
		if !strings.Contains(out.String(), line) {
			t.Fatalf("Should print %q, got\n%s", line, out.String())
		}
	}

	if err := commands.Demo(context.Background(), &out, zap.NewNop().Sugar(), []string{"admin", "demo", "x"}); err == nil {
		t.Fatalf("Should reject a bad difficulty.")
	}
}
