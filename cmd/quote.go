package cmd

import (
	"github.com/spf13/cobra"

	"evm-swap/pkg/parser"
	"evm-swap/pkg/swap"
)

var quoteCmd = &cobra.Command{
	Use:   "quote <token> <amount> <slippage-pct> <recipient>",
	Short: "Quote a swap without a private key",
	Long: `Price a token-for-ETH swap from the current pair reserves and show the
minimum output the router would accept. No key is loaded and nothing is sent.

Examples:
  evm-swap quote 0x6B175474E89094C44Da98b954EedeAC495271d0F 100 0.5 0xYourWallet
  evm-swap quote 0x6B175474E89094C44Da98b954EedeAC495271d0F 100 0.5 0xYourWallet --json`,
	RunE: runQuote,
}

func init() {
	rootCmd.AddCommand(quoteCmd)
}

func runQuote(cmd *cobra.Command, args []string) error {
	req, err := parser.ParseSwapArgs(args)
	if err != nil {
		return &swap.Error{Kind: swap.KindValidation, Op: "parse arguments", Err: err}
	}

	s, err := openSession(cmd, false)
	if err != nil {
		return err
	}
	defer s.Close()

	executor, err := s.executor(false)
	if err != nil {
		return err
	}

	stop := s.spin("Fetching quote...")
	trade, tx, err := executor.Quote(cmd.Context(), *req)
	stop()
	if err != nil {
		return err
	}

	if s.json {
		return printJSON(map[string]interface{}{
			"trade":       trade,
			"transaction": tx,
			"status":      "quote_generated",
		})
	}
	displayQuote(trade, tx)
	return nil
}
