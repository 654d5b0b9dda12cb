// Package oracle reads token metadata and Uniswap V2 pair reserves from chain.
package oracle

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/metachris/eth-go-bindings/erc20"

	"evm-swap/pkg/types"
)

// ErrNoPair is returned when the factory has no pool for the two tokens
var ErrNoPair = errors.New("no pair found")

// Oracle is a read-only view of V2 liquidity
type Oracle struct {
	caller  bind.ContractCaller
	factory *bind.BoundContract
	pairABI abi.ABI
}

// New binds the factory at factoryAddress
func New(caller bind.ContractCaller, factoryAddress common.Address) (*Oracle, error) {
	parsedFactory, err := abi.JSON(strings.NewReader(factoryABI))
	if err != nil {
		return nil, fmt.Errorf("failed to parse factory ABI: %w", err)
	}
	parsedPair, err := abi.JSON(strings.NewReader(pairABI))
	if err != nil {
		return nil, fmt.Errorf("failed to parse pair ABI: %w", err)
	}

	return &Oracle{
		caller:  caller,
		factory: bind.NewBoundContract(factoryAddress, parsedFactory, caller, nil, nil),
		pairABI: parsedPair,
	}, nil
}

// Token fetches decimals and symbol. A missing symbol is tolerated; some
// tokens return bytes32 instead of string.
func (o *Oracle) Token(ctx context.Context, address common.Address) (types.Token, error) {
	token, err := erc20.NewErc20Caller(address, o.caller)
	if err != nil {
		return types.Token{}, fmt.Errorf("failed to bind token %s: %w", address.Hex(), err)
	}

	opts := &bind.CallOpts{Context: ctx}

	decimals, err := token.Decimals(opts)
	if err != nil {
		return types.Token{}, fmt.Errorf("failed to call decimals on %s: %w", address.Hex(), err)
	}

	symbol, err := token.Symbol(opts)
	if err != nil {
		symbol = ""
	}

	return types.Token{
		Address:  address,
		Decimals: decimals,
		Symbol:   symbol,
	}, nil
}

// Pair resolves the pool for a and b and reads its current reserves
func (o *Oracle) Pair(ctx context.Context, a, b types.Token) (*types.Pair, error) {
	token0, token1 := types.SortTokens(a, b)
	opts := &bind.CallOpts{Context: ctx}

	var out []interface{}
	if err := o.factory.Call(opts, &out, "getPair", token0.Address, token1.Address); err != nil {
		return nil, fmt.Errorf("failed to call getPair: %w", err)
	}
	if len(out) == 0 {
		return nil, ErrNoPair
	}
	pairAddress, ok := out[0].(common.Address)
	if !ok || pairAddress == (common.Address{}) {
		return nil, fmt.Errorf("%w for %s/%s", ErrNoPair, token0.Address.Hex(), token1.Address.Hex())
	}

	pair := bind.NewBoundContract(pairAddress, o.pairABI, o.caller, nil, nil)

	var reserves []interface{}
	if err := pair.Call(opts, &reserves, "getReserves"); err != nil {
		return nil, fmt.Errorf("failed to call getReserves on %s: %w", pairAddress.Hex(), err)
	}
	if len(reserves) < 2 {
		return nil, fmt.Errorf("unexpected getReserves output from %s", pairAddress.Hex())
	}

	reserve0, ok0 := reserves[0].(*big.Int)
	reserve1, ok1 := reserves[1].(*big.Int)
	if !ok0 || !ok1 {
		return nil, fmt.Errorf("unexpected getReserves types from %s", pairAddress.Hex())
	}

	return &types.Pair{
		Address:  pairAddress,
		Token0:   token0,
		Token1:   token1,
		Reserve0: reserve0,
		Reserve1: reserve1,
	}, nil
}
