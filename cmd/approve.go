package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/fatih/color"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"evm-swap/pkg/parser"
	"evm-swap/pkg/swap"
	"evm-swap/pkg/types"
)

var approveCmd = &cobra.Command{
	Use:   "approve <token> <amount>",
	Short: "Allow the router to spend a token",
	Long: `Approve the Uniswap V2 router to spend up to <amount> of a token from the
signing account. The swap command needs an allowance that covers its input
amount. An amount of 0 revokes the allowance.

Examples:
  evm-swap approve 0x6B175474E89094C44Da98b954EedeAC495271d0F 100
  evm-swap approve 0x6B175474E89094C44Da98b954EedeAC495271d0F 0 --yes`,
	Args: cobra.ExactArgs(2),
	RunE: runApprove,
}

func init() {
	rootCmd.AddCommand(approveCmd)

	approveCmd.Flags().BoolVar(&noWait, "no-wait", false, "Return after submission without waiting for the receipt")
	approveCmd.Flags().BoolVarP(&noConfirm, "yes", "y", false, "Skip confirmation prompt (required with --json)")
}

type approver interface {
	Approve(ctx context.Context, token common.Address, amount decimal.Decimal) (*types.Receipt, error)
}

func runApprove(cmd *cobra.Command, args []string) error {
	token, err := parser.ParseAddress("token", args[0])
	if err != nil {
		return &swap.Error{Kind: swap.KindValidation, Op: "parse arguments", Err: err}
	}
	amount, err := parser.ParseAllowance(args[1])
	if err != nil {
		return &swap.Error{Kind: swap.KindValidation, Op: "parse arguments", Err: err}
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	opts := submitOptions{yes: noConfirm, json: jsonOutput}
	if err := opts.check(); err != nil {
		return err
	}

	s, err := openSession(cmd, true)
	if err != nil {
		return err
	}
	defer s.Close()

	executor, err := s.executor(!noWait)
	if err != nil {
		return err
	}

	return approveFlow(cmd.Context(), executor, token, amount, s.cfg.Router, opts, s.spin)
}

func approveFlow(ctx context.Context, a approver, token common.Address, amount decimal.Decimal, spender common.Address, opts submitOptions, spin func(string) func()) error {
	if err := opts.check(); err != nil {
		return err
	}

	if !opts.json {
		fmt.Printf("\n  Token:    %s\n", color.CyanString(token.Hex()))
		fmt.Printf("  Spender:  %s\n", spender.Hex())
		fmt.Printf("  Amount:   %s\n", amount.String())
	}
	if !opts.yes {
		if !confirm("approval") {
			fmt.Println("\nApproval cancelled.")
			return nil
		}
	}

	stop := spin("Submitting approval...")
	receipt, err := a.Approve(ctx, token, amount)
	stop()
	if err != nil {
		var swapErr *swap.Error
		if errors.As(err, &swapErr) && swapErr.Receipt != nil {
			printReceipt(opts.json, swapErr.Receipt)
		}
		return err
	}

	printReceipt(opts.json, receipt)
	if !opts.json && !receipt.Pending {
		printSuccess(color.GreenString("Approval complete."))
	}
	return nil
}
