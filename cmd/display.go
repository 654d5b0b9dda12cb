package cmd

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/fatih/color"
	"github.com/shopspring/decimal"

	"evm-swap/pkg/quote"
	"evm-swap/pkg/types"
)

func displayQuote(trade *types.QuotedTrade, tx *types.SwapTransaction) {
	fmt.Println("\n" + strings.Repeat("=", 60))
	color.Green("                     SWAP QUOTE")
	fmt.Println(strings.Repeat("=", 60))

	fmt.Printf("\n  From:              %s %s\n", formatAmount(trade.InputAmount, trade.InputToken), color.YellowString(symbolOf(trade.InputToken)))
	fmt.Printf("  To:                ~%s %s\n", formatAmount(trade.QuotedAmountOut, trade.OutputToken), color.YellowString(symbolOf(trade.OutputToken)))
	fmt.Printf("  Minimum Received:  %s %s\n", formatAmount(trade.MinimumAmountOut, trade.OutputToken), color.YellowString(symbolOf(trade.OutputToken)))
	fmt.Printf("  Slippage:          %s%%\n", formatBps(trade.SlippageBps))
	fmt.Printf("  Recipient:         %s\n", color.CyanString(tx.Recipient.Hex()))
	fmt.Printf("  Router:            %s\n", tx.Router.Hex())
	fmt.Printf("  Deadline:          %s\n", tx.Deadline.String())

	fmt.Println("\n" + strings.Repeat("=", 60) + "\n")
}

func displayReceipt(r *types.Receipt) {
	fmt.Println("\n" + strings.Repeat("=", 70))
	color.Green("                        SWAP RECEIPT")
	fmt.Println(strings.Repeat("=", 70))

	fmt.Printf("\n  Tx Hash:         %s\n", color.CyanString(r.TxHash.Hex()))
	fmt.Printf("  Status:          %s\n", getColoredStatus(r))
	if r.BlockNumber != nil {
		fmt.Printf("  Block:           %s\n", r.BlockNumber.String())
	}
	if !r.Pending {
		fmt.Printf("  Gas Used:        %d\n", r.GasUsed)
	}
	fmt.Printf("  From:            %s\n", color.HiBlackString(r.From.Hex()))
	fmt.Printf("  To:              %s\n", color.HiBlackString(r.To.Hex()))

	fmt.Println("\n" + strings.Repeat("=", 70) + "\n")
}

func displayPair(pair *types.Pair) {
	fmt.Println("\n" + strings.Repeat("=", 70))
	color.Green("                        PAIR")
	fmt.Println(strings.Repeat("=", 70))

	fmt.Printf("\n  Address:         %s\n", color.CyanString(pair.Address.Hex()))
	for _, side := range []struct {
		token   types.Token
		reserve string
	}{
		{pair.Token0, formatAmount(pair.Reserve0, pair.Token0)},
		{pair.Token1, formatAmount(pair.Reserve1, pair.Token1)},
	} {
		fmt.Printf("  %-16s %s (%d decimals)\n", color.YellowString(symbolOf(side.token))+":", side.token.Address.Hex(), side.token.Decimals)
		fmt.Printf("  %-16s %s\n", "Reserve:", side.reserve)
	}
	if !pair.IsEmpty() {
		price := quote.FromBaseUnits(pair.Reserve1, pair.Token1.Decimals).
			DivRound(quote.FromBaseUnits(pair.Reserve0, pair.Token0.Decimals), 18)
		fmt.Printf("  Spot Price:      1 %s = %s %s\n", symbolOf(pair.Token0), price.String(), symbolOf(pair.Token1))
	} else {
		color.Red("  Pair has no liquidity")
	}

	fmt.Println("\n" + strings.Repeat("=", 70) + "\n")
}

func getColoredStatus(r *types.Receipt) string {
	switch {
	case r.Pending:
		return color.YellowString("PENDING")
	case r.Succeeded():
		return color.GreenString("SUCCESS")
	default:
		return color.RedString("REVERTED")
	}
}

func formatAmount(amount *big.Int, token types.Token) string {
	if amount == nil {
		return "0"
	}
	return quote.FromBaseUnits(amount, token.Decimals).String()
}

func formatBps(bps uint32) string {
	return decimal.New(int64(bps), -2).String()
}

func symbolOf(token types.Token) string {
	if token.Symbol != "" {
		return token.Symbol
	}
	return token.Address.Hex()
}
