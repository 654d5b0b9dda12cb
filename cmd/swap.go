package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"evm-swap/pkg/parser"
	"evm-swap/pkg/swap"
	"evm-swap/pkg/types"
)

var (
	dryRun    bool
	noWait    bool
	noConfirm bool
)

// Prompt input and JSON output, replaced in tests
var (
	stdin  io.Reader = os.Stdin
	stdout io.Writer = os.Stdout
)

var swapCmd = &cobra.Command{
	Use:   "swap <token> <amount> <slippage-pct> <recipient>",
	Short: "Swap an ERC-20 token for ETH",
	Long: `Sell an exact amount of an ERC-20 token for ETH through the Uniswap V2 router.

The signing account must already have approved the router for at least the
input amount. The swap is quoted from the current pair reserves; slippage is a
percentage with at most two decimal places. The transaction sent is exactly
the one shown at the prompt.

Examples:
  # Sell 100 DAI, accept up to 0.5% less than quoted
  evm-swap swap 0x6B175474E89094C44Da98b954EedeAC495271d0F 100 0.5 0xYourWallet

  # Quote and estimate gas without sending anything
  evm-swap swap 0x6B175474E89094C44Da98b954EedeAC495271d0F 100 0.5 0xYourWallet --dry-run

  # Submit without confirmation and return as soon as the node accepts it
  evm-swap swap 0x6B175474E89094C44Da98b954EedeAC495271d0F 100 1% 0xYourWallet --yes --no-wait`,
	RunE: runSwap,
}

func init() {
	rootCmd.AddCommand(swapCmd)

	swapCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Quote and estimate gas without signing or sending")
	swapCmd.Flags().BoolVar(&noWait, "no-wait", false, "Return after submission without waiting for the receipt")
	swapCmd.Flags().BoolVarP(&noConfirm, "yes", "y", false, "Skip confirmation prompt (required with --json)")
}

// swapRunner is the part of the executor the swap command drives
type swapRunner interface {
	Simulate(ctx context.Context, req types.SwapRequest) (*swap.Simulation, error)
	Submit(ctx context.Context, sim *swap.Simulation) (*types.Receipt, error)
}

// submitOptions are the flags shared by commands that send a transaction
type submitOptions struct {
	dryRun bool
	yes    bool
	json   bool
}

// check rejects --json without --yes: JSON mode has no prompt
func (o submitOptions) check() error {
	if o.json && !o.yes && !o.dryRun {
		return &swap.Error{Kind: swap.KindValidation, Op: "parse flags",
			Err: errors.New("--json cannot prompt for confirmation; pass --yes to send the transaction")}
	}
	return nil
}

func runSwap(cmd *cobra.Command, args []string) error {
	// Parse the command before touching the network
	req, err := parser.ParseSwapArgs(args)
	if err != nil {
		return &swap.Error{Kind: swap.KindValidation, Op: "parse arguments", Err: err}
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	opts := submitOptions{dryRun: dryRun, yes: noConfirm, json: jsonOutput}
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

	return swapFlow(cmd.Context(), executor, *req, opts, s.spin)
}

// swapFlow simulates once, shows the result, and submits that same simulation
func swapFlow(ctx context.Context, r swapRunner, req types.SwapRequest, opts submitOptions, spin func(string) func()) error {
	if err := opts.check(); err != nil {
		return err
	}

	stop := spin("Quoting swap...")
	sim, err := r.Simulate(ctx, req)
	stop()
	if err != nil {
		return err
	}

	if opts.json && opts.dryRun {
		return printJSON(map[string]interface{}{
			"trade":       sim.Trade,
			"transaction": sim.Tx,
			"from":        sim.From,
			"gas":         sim.Gas,
			"status":      "simulated",
		})
	}
	if !opts.json {
		displayQuote(sim.Trade, sim.Tx)
		fmt.Printf("  Estimated Gas:     %d\n", sim.Gas)
	}
	if opts.dryRun {
		printSuccess(color.GreenString("Dry run complete. Nothing was sent."))
		return nil
	}

	// Ask for confirmation
	if !opts.yes {
		if !confirm("swap") {
			fmt.Println("\nSwap cancelled.")
			return nil
		}
	}

	stop = spin("Submitting swap...")
	receipt, err := r.Submit(ctx, sim)
	stop()
	if err != nil {
		var swapErr *swap.Error
		if errors.As(err, &swapErr) && swapErr.Receipt != nil {
			printReceipt(opts.json, swapErr.Receipt)
		}
		return err
	}

	printReceipt(opts.json, receipt)
	if !opts.json {
		if receipt.Pending {
			fmt.Println("You can check the swap later using:")
			color.Cyan("  evm-swap receipt %s\n", receipt.TxHash.Hex())
		} else {
			printSuccess(color.GreenString("Swap complete."))
		}
	}
	return nil
}

func printReceipt(jsonOutput bool, r *types.Receipt) {
	if jsonOutput {
		_ = printJSON(r)
		return
	}
	displayReceipt(r)
}

func confirm(action string) bool {
	reader := bufio.NewReader(stdin)
	fmt.Printf("\nProceed with %s? (y/N): ", action)

	response, err := reader.ReadString('\n')
	if err != nil && response == "" {
		return false
	}

	response = strings.TrimSpace(strings.ToLower(response))
	return response == "y" || response == "yes"
}
