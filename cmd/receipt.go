package cmd

import (
	"math/big"

	ethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/spf13/cobra"

	"evm-swap/pkg/parser"
	"evm-swap/pkg/types"
)

var receiptCmd = &cobra.Command{
	Use:     "receipt <tx-hash>",
	Aliases: []string{"status"},
	Short:   "Check the status of a submitted swap",
	Long: `Look up a transaction by hash and show whether it is pending, succeeded
or reverted.

Examples:
  evm-swap receipt 0x5c504ed432cb51138bcf09aa5e8a410dd4a1e204ef84bfed1be16dfba1b22060`,
	Args: cobra.ExactArgs(1),
	RunE: runReceipt,
}

func init() {
	rootCmd.AddCommand(receiptCmd)
}

func runReceipt(cmd *cobra.Command, args []string) error {
	hash, err := parser.ParseTxHash(args[0])
	if err != nil {
		return err
	}

	s, err := openSession(cmd, false)
	if err != nil {
		return err
	}
	defer s.Close()

	stop := s.spin("Checking transaction...")
	tx, receipt, pending, err := s.client.LookupReceipt(cmd.Context(), hash)
	stop()
	if err != nil {
		return err
	}

	printReceipt(s.json, receiptView(tx, receipt, pending, big.NewInt(s.cfg.ChainID)))
	return nil
}

// receiptView flattens a transaction and its receipt, if any, for output
func receiptView(tx *ethtypes.Transaction, receipt *ethtypes.Receipt, pending bool, chainID *big.Int) *types.Receipt {
	view := &types.Receipt{
		TxHash:  tx.Hash(),
		Pending: pending,
	}
	if from, err := ethtypes.Sender(ethtypes.LatestSignerForChainID(chainID), tx); err == nil {
		view.From = from
	}
	if to := tx.To(); to != nil {
		view.To = *to
	}
	if receipt != nil {
		view.Status = receipt.Status
		view.GasUsed = receipt.GasUsed
		view.BlockNumber = receipt.BlockNumber
	}
	return view
}
