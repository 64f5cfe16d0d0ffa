package nameservice_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/blocksmith/blocksmith/foundation/blockchain/wallet"
	"github.com/blocksmith/blocksmith/foundation/nameservice"
)

func Test_Lookup(t *testing.T) {
	root := t.TempDir()

	names := []string{"miner1", "alice"}
	addresses := make(map[string]string)

	for _, name := range names {
		w, err := wallet.New()
		if err != nil {
			t.Fatalf("Should be able to generate a wallet: %s", err)
		}

		if err := w.Save(filepath.Join(root, name+wallet.KeyExtension)); err != nil {
			t.Fatalf("Should be able to save the wallet: %s", err)
		}

		addresses[name] = w.Address()
	}

	if err := os.WriteFile(filepath.Join(root, "README.md"), []byte("keys"), 0600); err != nil {
		t.Fatalf("Should be able to write a non key file: %s", err)
	}

	ns, err := nameservice.New(root)
	if err != nil {
		t.Fatalf("Should be able to construct the name service: %s", err)
	}

	for name, addr := range addresses {
		if got := ns.Lookup(addr); got != name {
			t.Fatalf("Should get back the name for %s, got %s exp %s", addr, got, name)
		}

		if got, exists := ns.Address(name); !exists || got != addr {
			t.Fatalf("Should get back the address for %s, got %s exp %s", name, got, addr)
		}
	}

	if got := ns.Lookup("unknown"); got != "unknown" {
		t.Fatalf("Should get back an unknown address as is, got %s", got)
	}

	if len(ns.Copy()) != len(names) {
		t.Fatalf("Should only load the key files, got %d", len(ns.Copy()))
	}
}

func Test_MissingFolder(t *testing.T) {
	if _, err := nameservice.New(filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Fatalf("Should not be able to load a missing folder.")
	}
}
