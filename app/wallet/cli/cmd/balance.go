package cmd

import (
	"fmt"
	"net/http"

	"github.com/spf13/cobra"
)

type balance struct {
	Address string  `json:"address"`
	Name    string  `json:"name"`
	Balance float64 `json:"balance"`
}

var balanceCmd = &cobra.Command{
	Use:   "balance",
	Short: "Print your balance.",
	RunE:  balanceRun,
}

func init() {
	rootCmd.AddCommand(balanceCmd)
}

func balanceRun(cmd *cobra.Command, args []string) error {
	w, err := loadWallet()
	if err != nil {
		return err
	}

	var bal balance
	if err := call(http.MethodGet, "/v1/balance/"+w.Address(), nil, &bal); err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), "For Address:", bal.Address)
	fmt.Fprintln(cmd.OutOrStdout(), bal.Balance)

	return nil
}
