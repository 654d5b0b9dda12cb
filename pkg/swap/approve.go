package swap

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"

	"evm-swap/pkg/quote"
	"evm-swap/pkg/types"
)

// ERC20 approve function ABI
const erc20ApproveABI = `[{"constant":false,"inputs":[{"name":"_spender","type":"address"},{"name":"_value","type":"uint256"}],"name":"approve","outputs":[{"name":"","type":"bool"}],"type":"function"}]`

func parseApproveABI() (abi.ABI, error) {
	parsed, err := abi.JSON(strings.NewReader(erc20ApproveABI))
	if err != nil {
		return abi.ABI{}, fmt.Errorf("failed to parse ERC20 ABI: %w", err)
	}
	return parsed, nil
}

// Approve lets the router spend amount of token from the signer's account.
// A zero amount revokes the allowance.
func (e *Executor) Approve(ctx context.Context, token common.Address, amount decimal.Decimal) (*types.Receipt, error) {
	from := e.signer.Address()
	fields := log.Fields{"token": token.Hex(), "amount": amount.String(), "from": from.Hex(), "router": e.config.Router.Hex()}

	if amount.IsNegative() {
		return nil, buildAndLogError(e.log, KindValidation, "check amount", errors.New("amount must not be negative"), fields)
	}

	meta, err := e.oracle.Token(ctx, token)
	if err != nil {
		return nil, buildAndLogError(e.log, KindMetadataFetch, "fetch token", err, fields)
	}

	value := big.NewInt(0)
	if amount.IsPositive() {
		value, err = quote.ToBaseUnits(amount, meta.Decimals)
		if err != nil {
			return nil, buildAndLogError(e.log, KindValidation, "scale amount", err, fields)
		}
	}

	data, err := e.erc20.Pack("approve", e.config.Router, value)
	if err != nil {
		return nil, buildAndLogError(e.log, KindQuoteComputation, "encode approve call", err, fields)
	}

	gas, err := e.client.EstimateGas(ctx, ethereum.CallMsg{
		From: from,
		To:   &token,
		Data: data,
	})
	if err != nil {
		return nil, buildAndLogError(e.log, KindGasEstimation, "estimate gas", err, fields)
	}
	fields["gas"] = gas

	return e.submit(ctx, from, token, data, gas, "approval", fields)
}
