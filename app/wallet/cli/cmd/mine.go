package cmd

import (
	"fmt"
	"net/http"

	"github.com/spf13/cobra"
)

var mineCmd = &cobra.Command{
	Use:   "mine",
	Short: "Ask the node to mine the pending transactions",
	RunE:  mineRun,
}

func init() {
	rootCmd.AddCommand(mineCmd)
}

func mineRun(cmd *cobra.Command, args []string) error {
	var blk struct {
		Number int    `json:"number"`
		Hash   string `json:"hash"`
		Nonce  uint64 `json:"nonce"`
	}
	if err := call(http.MethodPost, "/v1/mine", nil, &blk); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "block %d: hash %s: nonce %d\n", blk.Number, blk.Hash, blk.Nonce)

	return nil
}
