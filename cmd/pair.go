package cmd

import (
	"errors"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"evm-swap/pkg/oracle"
	"evm-swap/pkg/parser"
)

var pairCmd = &cobra.Command{
	Use:     "pair <token>",
	Aliases: []string{"reserves"},
	Short:   "Show the token's Uniswap V2 pair with WETH",
	Long: `Look up the Uniswap V2 pair between a token and WETH and print its
address, both tokens and the current reserves.

Examples:
  evm-swap pair 0x6B175474E89094C44Da98b954EedeAC495271d0F
  evm-swap pair 0x6B175474E89094C44Da98b954EedeAC495271d0F --json`,
	Args: cobra.ExactArgs(1),
	RunE: runPair,
}

func init() {
	rootCmd.AddCommand(pairCmd)
}

func runPair(cmd *cobra.Command, args []string) error {
	address, err := parser.ParseAddress("token", args[0])
	if err != nil {
		return err
	}

	s, err := openSession(cmd, false)
	if err != nil {
		return err
	}
	defer s.Close()

	ctx := cmd.Context()

	stop := s.spin("Fetching pair...")
	defer stop()

	token, err := s.oracle.Token(ctx, address)
	if err != nil {
		return err
	}
	weth, err := s.oracle.Token(ctx, s.cfg.WETH)
	if err != nil {
		return err
	}
	pair, err := s.oracle.Pair(ctx, token, weth)
	stop()
	if err != nil {
		if errors.Is(err, oracle.ErrNoPair) && !s.json {
			color.Yellow("\nNo Uniswap V2 pair exists for %s and %s\n", symbolOf(token), symbolOf(weth))
		}
		return err
	}

	if s.json {
		return printJSON(pair)
	}
	displayPair(pair)
	return nil
}
