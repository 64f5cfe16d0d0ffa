package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/blocksmith/blocksmith/foundation/blockchain/wallet"
	"github.com/spf13/cobra"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate new key pair",
	RunE:  generateRun,
}

func init() {
	rootCmd.AddCommand(generateCmd)
}

func generateRun(cmd *cobra.Command, args []string) error {
	path := getPrivateKeyPath()

	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("key file %q already exists", path)
	}

	w, err := wallet.New()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}

	if err := w.Save(path); err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), w.Address())

	return nil
}
