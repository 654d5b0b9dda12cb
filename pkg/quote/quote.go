// Package quote prices single-hop Uniswap V2 trades and derives the
// slippage-protected minimum output.
package quote

import (
	"errors"
	"fmt"
	"math/big"

	coreEntities "github.com/daoleno/uniswap-sdk-core/entities"
	"github.com/shopspring/decimal"
)

// MaxSlippageBps is 100%
const MaxSlippageBps = 10000

var (
	ErrInsufficientInputAmount = errors.New("insufficient input amount")
	ErrInsufficientLiquidity   = errors.New("insufficient liquidity")
	ErrAmountTooPrecise        = errors.New("amount has more decimal places than the token supports")

	bpsDenominator = big.NewInt(MaxSlippageBps)
	feeNumerator   = big.NewInt(997)
	feeDenominator = big.NewInt(1000)
)

// AmountOut returns the output of the V2 constant-product formula with the 0.3% LP fee:
//
//	out = in*997*reserveOut / (reserveIn*1000 + in*997)
func AmountOut(amountIn, reserveIn, reserveOut *big.Int) (*big.Int, error) {
	if amountIn == nil || amountIn.Sign() <= 0 {
		return nil, ErrInsufficientInputAmount
	}
	if reserveIn == nil || reserveOut == nil || reserveIn.Sign() <= 0 || reserveOut.Sign() <= 0 {
		return nil, ErrInsufficientLiquidity
	}

	amountInWithFee := new(big.Int).Mul(amountIn, feeNumerator)
	numerator := new(big.Int).Mul(amountInWithFee, reserveOut)
	denominator := new(big.Int).Mul(reserveIn, feeDenominator)
	denominator.Add(denominator, amountInWithFee)

	out := numerator.Quo(numerator, denominator)
	if out.Sign() == 0 {
		return nil, fmt.Errorf("%w: output rounds to zero", ErrInsufficientLiquidity)
	}
	return out, nil
}

// SlippagePercent expresses basis points as a Percent over 10000
func SlippagePercent(bps uint32) *coreEntities.Percent {
	return coreEntities.NewPercent(big.NewInt(int64(bps)), bpsDenominator)
}

// MinimumAmountOut is floor(quoted * (1 - slippage))
func MinimumAmountOut(quoted *big.Int, slippage *coreEntities.Percent) *big.Int {
	one := coreEntities.NewFraction(big.NewInt(1), big.NewInt(1))
	keep := one.Subtract(slippage.Fraction)
	return keep.Multiply(coreEntities.NewFraction(quoted, big.NewInt(1))).Quotient()
}

// ToBaseUnits scales a human amount to the token's smallest unit.
// Amounts finer than the token's precision are rejected, not rounded.
func ToBaseUnits(amount decimal.Decimal, decimals uint8) (*big.Int, error) {
	scaled := amount.Shift(int32(decimals))
	if !scaled.IsInteger() {
		return nil, fmt.Errorf("%w: %s with %d decimals", ErrAmountTooPrecise, amount.String(), decimals)
	}
	if !scaled.IsPositive() {
		return nil, ErrInsufficientInputAmount
	}
	return scaled.BigInt(), nil
}

// FromBaseUnits converts a raw amount back to human units for display
func FromBaseUnits(amount *big.Int, decimals uint8) decimal.Decimal {
	if amount == nil {
		return decimal.Zero
	}
	return decimal.NewFromBigInt(amount, -int32(decimals))
}
