package cmd

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/blocksmith/blocksmith/foundation/blockchain/address"
	"github.com/spf13/cobra"
)

var (
	to    string
	value float64
)

type newTx struct {
	From  string  `json:"from"`
	To    string  `json:"to"`
	Value float64 `json:"value"`
}

// sendCmd represents the send command
var sendCmd = &cobra.Command{
	Use:   "send",
	Short: "Send transaction",
	RunE:  sendRun,
}

func init() {
	rootCmd.AddCommand(sendCmd)
	sendCmd.Flags().StringVarP(&to, "to", "t", "", "Address of the recipient.")
	sendCmd.Flags().Float64VarP(&value, "value", "v", 0, "Value to send.")
}

func sendRun(cmd *cobra.Command, args []string) error {
	if err := address.Validate(to); err != nil {
		return fmt.Errorf("recipient: %w", err)
	}

	if value <= 0 {
		return errors.New("value must be greater than zero")
	}

	w, err := loadWallet()
	if err != nil {
		return err
	}

	tx := newTx{
		From:  w.Address(),
		To:    to,
		Value: value,
	}

	var resp struct {
		Status string `json:"status"`
	}
	if err := call(http.MethodPost, "/v1/tx/submit", tx, &resp); err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), resp.Status)

	return nil
}
