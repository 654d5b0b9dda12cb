package types

import (
	"bytes"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
)

// SwapRequest is a validated request to sell AmountIn of Token for the native asset
type SwapRequest struct {
	Token       common.Address
	AmountIn    decimal.Decimal // human units, scaled by the token's decimals later
	SlippageBps uint32          // 50 = 0.5%
	Recipient   common.Address
}

// Token holds the ERC-20 metadata the quote needs
type Token struct {
	Address  common.Address `json:"address"`
	Decimals uint8          `json:"decimals"`
	Symbol   string         `json:"symbol"`
}

// Pair is a Uniswap V2 liquidity pool. Token0 sorts before Token1.
type Pair struct {
	Address  common.Address `json:"address"`
	Token0   Token          `json:"token0"`
	Token1   Token          `json:"token1"`
	Reserve0 *big.Int       `json:"reserve0"`
	Reserve1 *big.Int       `json:"reserve1"`
}

// ReservesFor returns the reserves ordered as (in, out)
func (p *Pair) ReservesFor(in common.Address) (*big.Int, *big.Int, error) {
	switch in {
	case p.Token0.Address:
		return p.Reserve0, p.Reserve1, nil
	case p.Token1.Address:
		return p.Reserve1, p.Reserve0, nil
	default:
		return nil, nil, fmt.Errorf("token %s is not part of pair %s", in.Hex(), p.Address.Hex())
	}
}

// IsEmpty reports whether either side of the pool has no liquidity
func (p *Pair) IsEmpty() bool {
	return p.Reserve0 == nil || p.Reserve1 == nil || p.Reserve0.Sign() == 0 || p.Reserve1.Sign() == 0
}

// SortTokens orders two tokens the way the V2 factory does
func SortTokens(a, b Token) (Token, Token) {
	if bytes.Compare(a.Address.Bytes(), b.Address.Bytes()) < 0 {
		return a, b
	}
	return b, a
}

// QuotedTrade is the priced single-hop trade for one request
type QuotedTrade struct {
	InputToken       Token    `json:"input_token"`
	OutputToken      Token    `json:"output_token"`
	InputAmount      *big.Int `json:"input_amount"`
	QuotedAmountOut  *big.Int `json:"quoted_amount_out"`
	MinimumAmountOut *big.Int `json:"minimum_amount_out"`
	SlippageBps      uint32   `json:"slippage_bps"`
}

// SwapTransaction holds the router call arguments and their encoded calldata
type SwapTransaction struct {
	Router       common.Address    `json:"router"`
	Path         [2]common.Address `json:"path"`
	Recipient    common.Address    `json:"recipient"`
	Deadline     *big.Int          `json:"deadline"`
	AmountIn     *big.Int          `json:"amount_in"`
	AmountOutMin *big.Int          `json:"amount_out_min"`
	Data         []byte            `json:"-"`
}

// Receipt is the printable view of a mined transaction
type Receipt struct {
	TxHash      common.Hash    `json:"tx_hash"`
	Status      uint64         `json:"status"`
	GasUsed     uint64         `json:"gas_used"`
	BlockNumber *big.Int       `json:"block_number,omitempty"`
	From        common.Address `json:"from"`
	To          common.Address `json:"to"`
	Pending     bool           `json:"pending,omitempty"`
}

// Succeeded reports whether the transaction was mined without reverting
func (r *Receipt) Succeeded() bool {
	return !r.Pending && r.Status == 1
}
