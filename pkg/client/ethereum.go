package client

import (
	"context"
	"errors"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/metachris/eth-go-bindings/erc20"
)

// EthereumClient wraps an ethclient connection with the calls a swap needs
type EthereumClient struct {
	*ethclient.Client
}

// Dial connects to the JSON-RPC endpoint
func Dial(ctx context.Context, rpcURL string) (*EthereumClient, error) {
	c, err := ethclient.DialContext(ctx, rpcURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RPC endpoint: %w", err)
	}
	return &EthereumClient{Client: c}, nil
}

// Allowance returns how much of token spender may move on behalf of owner
func (c *EthereumClient) Allowance(ctx context.Context, token, owner, spender common.Address) (*big.Int, error) {
	caller, err := erc20.NewErc20Caller(token, c.Client)
	if err != nil {
		return nil, fmt.Errorf("failed to bind token %s: %w", token.Hex(), err)
	}
	allowance, err := caller.Allowance(&bind.CallOpts{Context: ctx}, owner, spender)
	if err != nil {
		return nil, fmt.Errorf("failed to call allowance: %w", err)
	}
	return allowance, nil
}

// BalanceOf returns the token balance of account
func (c *EthereumClient) BalanceOf(ctx context.Context, token, account common.Address) (*big.Int, error) {
	caller, err := erc20.NewErc20Caller(token, c.Client)
	if err != nil {
		return nil, fmt.Errorf("failed to bind token %s: %w", token.Hex(), err)
	}
	balance, err := caller.BalanceOf(&bind.CallOpts{Context: ctx}, account)
	if err != nil {
		return nil, fmt.Errorf("failed to call balanceOf: %w", err)
	}
	return balance, nil
}

// WaitReceipt blocks until tx is mined or ctx expires
func (c *EthereumClient) WaitReceipt(ctx context.Context, tx *types.Transaction) (*types.Receipt, error) {
	receipt, err := bind.WaitMined(ctx, c.Client, tx)
	if err != nil {
		return nil, fmt.Errorf("failed waiting for %s: %w", tx.Hash().Hex(), err)
	}
	return receipt, nil
}

// LookupReceipt returns the receipt for hash, or pending=true when the
// transaction is known but not yet mined
func (c *EthereumClient) LookupReceipt(ctx context.Context, hash common.Hash) (*types.Transaction, *types.Receipt, bool, error) {
	tx, isPending, err := c.TransactionByHash(ctx, hash)
	if err != nil {
		return nil, nil, false, fmt.Errorf("failed to get transaction: %w", err)
	}
	if isPending {
		return tx, nil, true, nil
	}

	receipt, err := c.TransactionReceipt(ctx, hash)
	if err != nil {
		if errors.Is(err, ethereum.NotFound) {
			return tx, nil, true, nil
		}
		return nil, nil, false, fmt.Errorf("failed to get transaction receipt: %w", err)
	}
	return tx, receipt, false, nil
}
