// Package commands contains the functionality for the set of commands
// currently supported by the CLI tooling.
package commands

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/blocksmith/blocksmith/foundation/blockchain/wallet"
)

// Keys generates a key file for every name in the folder used by the name
// service. Existing key files are left alone.
//
//	admin keys zblock/accounts/ miner1 alice bob
func Keys(w io.Writer, args []string) error {
	if len(args) < 4 {
		return errors.New("usage: admin keys <folder> <name>...")
	}

	folder := args[2]
	if err := os.MkdirAll(folder, 0700); err != nil {
		return err
	}

	for _, name := range args[3:] {
		path := filepath.Join(folder, name+wallet.KeyExtension)

		if wal, err := wallet.Load(path); err == nil {
			fmt.Fprintf(w, "%-10s %s (exists)\n", name, wal.Address())
			continue
		}

		wal, err := wallet.New()
		if err != nil {
			return err
		}

		if err := wal.Save(path); err != nil {
			return err
		}

		fmt.Fprintf(w, "%-10s %s\n", name, wal.Address())
	}

	return nil
}
