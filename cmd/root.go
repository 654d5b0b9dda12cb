package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "evm-swap",
	Short: "Swap an ERC-20 token for ETH through a Uniswap V2 router",
	Long: `evm-swap sells an ERC-20 token for the chain's native asset in a single
Uniswap V2 router transaction. It reads the pair reserves, quotes the trade,
applies your slippage tolerance, estimates gas and submits the swap.

Examples:
  evm-swap quote 0x6B175474E89094C44Da98b954EedeAC495271d0F 100 0.5 0xYourWallet
  evm-swap swap 0x6B175474E89094C44Da98b954EedeAC495271d0F 100 0.5 0xYourWallet
  evm-swap pair 0x6B175474E89094C44Da98b954EedeAC495271d0F
  evm-swap receipt <tx-hash>`,
	Version:       "0.1.0",
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	err := rootCmd.ExecuteContext(ctx)
	if err != nil {
		printError(err)
	}
	return err
}

func init() {
	// Add global flags
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "Output in JSON format")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default $HOME/.evm-swap.yaml or ./.evm-swap.yaml)")
}

func printError(err error) {
	fmt.Fprintf(os.Stderr, "\nError: %v\n\n", err)
}

func printSuccess(message string) {
	fmt.Printf("\n%s\n\n", message)
}
