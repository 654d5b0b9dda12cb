// Package swap sells an ERC-20 token for the native asset through a
// Uniswap V2 router in a single transaction.
package swap

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	ethtypes "github.com/ethereum/go-ethereum/core/types"
	log "github.com/sirupsen/logrus"

	"evm-swap/pkg/oracle"
	"evm-swap/pkg/quote"
	"evm-swap/pkg/types"
)

// Deadline is how long the router accepts the transaction after it is built
const Deadline = 1200 * time.Second

// LiquidityOracle reads token metadata and pair state
type LiquidityOracle interface {
	Token(ctx context.Context, address common.Address) (types.Token, error)
	Pair(ctx context.Context, a, b types.Token) (*types.Pair, error)
}

// ChainClient is the node access a swap needs
type ChainClient interface {
	Allowance(ctx context.Context, token, owner, spender common.Address) (*big.Int, error)
	BalanceOf(ctx context.Context, token, account common.Address) (*big.Int, error)
	EstimateGas(ctx context.Context, msg ethereum.CallMsg) (uint64, error)
	PendingNonceAt(ctx context.Context, account common.Address) (uint64, error)
	SuggestGasPrice(ctx context.Context) (*big.Int, error)
	SendTransaction(ctx context.Context, tx *ethtypes.Transaction) error
	WaitReceipt(ctx context.Context, tx *ethtypes.Transaction) (*ethtypes.Receipt, error)
}

// Signer signs on behalf of a single account
type Signer interface {
	Address() common.Address
	SignTx(tx *ethtypes.Transaction, chainID *big.Int) (*ethtypes.Transaction, error)
}

// Config is the static part of every swap
type Config struct {
	ChainID        *big.Int
	Router         common.Address
	WETH           common.Address
	ReceiptTimeout time.Duration
	Wait           bool
}

// Simulation is a quoted, encoded and gas-estimated swap that has not been signed
type Simulation struct {
	Trade *types.QuotedTrade
	Tx    *types.SwapTransaction
	From  common.Address
	Gas   uint64
}

// Executor performs one swap per call
type Executor struct {
	oracle LiquidityOracle
	client ChainClient
	signer Signer
	config Config
	router abi.ABI
	erc20  abi.ABI
	log    log.FieldLogger
	now    func() time.Time
}

// NewExecutor creates a new executor instance
func NewExecutor(o LiquidityOracle, c ChainClient, s Signer, cfg Config, logger log.FieldLogger) (*Executor, error) {
	if cfg.ChainID == nil || cfg.ChainID.Sign() <= 0 {
		return nil, fmt.Errorf("chain ID is required")
	}

	router, err := parseRouterABI()
	if err != nil {
		return nil, err
	}
	erc20, err := parseApproveABI()
	if err != nil {
		return nil, err
	}

	return &Executor{
		oracle: o,
		client: c,
		signer: s,
		config: cfg,
		router: router,
		erc20:  erc20,
		log:    logger,
		now:    time.Now,
	}, nil
}

// SetClock replaces the time source used for deadlines
func (e *Executor) SetClock(now func() time.Time) {
	e.now = now
}

// Quote prices the trade and encodes the router call without touching the signer's account
func (e *Executor) Quote(ctx context.Context, req types.SwapRequest) (*types.QuotedTrade, *types.SwapTransaction, error) {
	fields := log.Fields{"token": req.Token.Hex(), "amount": req.AmountIn.String(), "slippage_bps": req.SlippageBps}

	if req.Token == e.config.WETH {
		return nil, nil, buildAndLogError(e.log, KindValidation, "check path",
			errors.New("input token is the wrapped native asset"), fields)
	}

	tokenIn, err := e.oracle.Token(ctx, req.Token)
	if err != nil {
		return nil, nil, buildAndLogError(e.log, KindMetadataFetch, "fetch input token", err, fields)
	}
	weth, err := e.oracle.Token(ctx, e.config.WETH)
	if err != nil {
		return nil, nil, buildAndLogError(e.log, KindMetadataFetch, "fetch wrapped native token", err, fields)
	}

	pair, err := e.oracle.Pair(ctx, tokenIn, weth)
	if err != nil {
		if errors.Is(err, oracle.ErrNoPair) {
			return nil, nil, buildAndLogError(e.log, KindPairNotFound, "fetch pair", err, fields)
		}
		return nil, nil, buildAndLogError(e.log, KindMetadataFetch, "fetch pair", err, fields)
	}
	fields["pair"] = pair.Address.Hex()
	if pair.IsEmpty() {
		return nil, nil, buildAndLogError(e.log, KindPairNotFound, "fetch pair",
			fmt.Errorf("pair %s has no reserves", pair.Address.Hex()), fields)
	}

	amountIn, err := quote.ToBaseUnits(req.AmountIn, tokenIn.Decimals)
	if err != nil {
		kind := KindQuoteComputation
		if errors.Is(err, quote.ErrAmountTooPrecise) {
			kind = KindValidation
		}
		return nil, nil, buildAndLogError(e.log, kind, "scale amount", err, fields)
	}

	reserveIn, reserveOut, err := pair.ReservesFor(tokenIn.Address)
	if err != nil {
		return nil, nil, buildAndLogError(e.log, KindQuoteComputation, "order reserves", err, fields)
	}

	quoted, err := quote.AmountOut(amountIn, reserveIn, reserveOut)
	if err != nil {
		return nil, nil, buildAndLogError(e.log, KindQuoteComputation, "compute output", err, fields)
	}

	trade := &types.QuotedTrade{
		InputToken:       tokenIn,
		OutputToken:      weth,
		InputAmount:      amountIn,
		QuotedAmountOut:  quoted,
		MinimumAmountOut: quote.MinimumAmountOut(quoted, quote.SlippagePercent(req.SlippageBps)),
		SlippageBps:      req.SlippageBps,
	}

	tx, err := e.buildTransaction(trade, req.Recipient)
	if err != nil {
		return nil, nil, buildAndLogError(e.log, KindQuoteComputation, "encode router call", err, fields)
	}

	e.log.WithFields(fields).WithFields(log.Fields{
		"amount_in":      trade.InputAmount.String(),
		"quoted_out":     trade.QuotedAmountOut.String(),
		"amount_out_min": trade.MinimumAmountOut.String(),
		"deadline":       tx.Deadline.String(),
	}).Debug("quoted swap")

	return trade, tx, nil
}

// Simulate quotes the swap and asks the node to estimate it from the signer's account
func (e *Executor) Simulate(ctx context.Context, req types.SwapRequest) (*Simulation, error) {
	trade, tx, err := e.Quote(ctx, req)
	if err != nil {
		return nil, err
	}

	from := e.signer.Address()
	fields := log.Fields{"token": req.Token.Hex(), "from": from.Hex(), "router": tx.Router.Hex()}

	// The router pulls the input with transferFrom, so both must cover it
	allowance, err := e.client.Allowance(ctx, tx.Path[0], from, tx.Router)
	if err != nil {
		return nil, buildAndLogError(e.log, KindGasEstimation, "check allowance", err, fields)
	}
	if allowance.Cmp(tx.AmountIn) < 0 {
		return nil, buildAndLogError(e.log, KindGasEstimation, "check allowance",
			fmt.Errorf("router allowance %s is below amount %s; approve the router first", allowance, tx.AmountIn), fields)
	}

	balance, err := e.client.BalanceOf(ctx, tx.Path[0], from)
	if err != nil {
		return nil, buildAndLogError(e.log, KindGasEstimation, "check balance", err, fields)
	}
	if balance.Cmp(tx.AmountIn) < 0 {
		return nil, buildAndLogError(e.log, KindGasEstimation, "check balance",
			fmt.Errorf("insufficient token balance: have %s, need %s", balance, tx.AmountIn), fields)
	}

	router := tx.Router
	gas, err := e.client.EstimateGas(ctx, ethereum.CallMsg{
		From: from,
		To:   &router,
		Data: tx.Data,
	})
	if err != nil {
		return nil, buildAndLogError(e.log, KindGasEstimation, "estimate gas", err, fields)
	}

	e.log.WithFields(fields).WithField("gas", gas).Debug("estimated swap")

	return &Simulation{Trade: trade, Tx: tx, From: from, Gas: gas}, nil
}

// ExecuteSwap quotes, estimates, signs and submits the swap, then waits for
// the receipt when configured to. It makes no retries.
func (e *Executor) ExecuteSwap(ctx context.Context, req types.SwapRequest) (*types.Receipt, error) {
	sim, err := e.Simulate(ctx, req)
	if err != nil {
		return nil, err
	}
	return e.Submit(ctx, sim)
}

// Submit signs and sends exactly the simulated transaction. Nothing is
// re-quoted, so the minimum output and deadline are the ones simulated.
func (e *Executor) Submit(ctx context.Context, sim *Simulation) (*types.Receipt, error) {
	if sim == nil || sim.Tx == nil {
		return nil, buildAndLogError(e.log, KindValidation, "submit swap", errors.New("no simulated swap"), nil)
	}

	fields := log.Fields{"token": sim.Tx.Path[0].Hex(), "from": sim.From.Hex(), "gas": sim.Gas}
	if from := e.signer.Address(); from != sim.From {
		return nil, buildAndLogError(e.log, KindValidation, "submit swap",
			fmt.Errorf("simulation was run from %s, signer is %s", sim.From.Hex(), from.Hex()), fields)
	}
	return e.submit(ctx, sim.From, sim.Tx.Router, sim.Tx.Data, sim.Gas, "swap", fields)
}

// submit signs and sends a zero-value call, then waits for it when configured to
func (e *Executor) submit(ctx context.Context, from, to common.Address, data []byte, gas uint64, what string, fields log.Fields) (*types.Receipt, error) {
	nonce, err := e.client.PendingNonceAt(ctx, from)
	if err != nil {
		return nil, buildAndLogError(e.log, KindSubmission, "get nonce", err, fields)
	}
	gasPrice, err := e.client.SuggestGasPrice(ctx)
	if err != nil {
		return nil, buildAndLogError(e.log, KindSubmission, "get gas price", err, fields)
	}

	unsigned := ethtypes.NewTransaction(nonce, to, big.NewInt(0), gas, gasPrice, data)
	signed, err := e.signer.SignTx(unsigned, e.config.ChainID)
	if err != nil {
		return nil, buildAndLogError(e.log, KindSubmission, "sign transaction", err, fields)
	}

	fields["tx"] = signed.Hash().Hex()
	if err := e.client.SendTransaction(ctx, signed); err != nil {
		return nil, buildAndLogError(e.log, KindSubmission, "send transaction", err, fields)
	}
	e.log.WithFields(fields).Info(what + " submitted")

	pending := &types.Receipt{
		TxHash:  signed.Hash(),
		From:    from,
		To:      to,
		Pending: true,
	}
	if !e.config.Wait {
		return pending, nil
	}

	waitCtx := ctx
	if e.config.ReceiptTimeout > 0 {
		var cancel context.CancelFunc
		waitCtx, cancel = context.WithTimeout(ctx, e.config.ReceiptTimeout)
		defer cancel()
	}

	mined, err := e.client.WaitReceipt(waitCtx, signed)
	if err != nil {
		swapErr := buildAndLogError(e.log, KindSubmission, "wait for receipt", err, fields)
		swapErr.Receipt = pending
		return nil, swapErr
	}

	receipt := &types.Receipt{
		TxHash:      mined.TxHash,
		Status:      mined.Status,
		GasUsed:     mined.GasUsed,
		BlockNumber: mined.BlockNumber,
		From:        from,
		To:          to,
	}
	if mined.Status != ethtypes.ReceiptStatusSuccessful {
		swapErr := buildAndLogError(e.log, KindSubmission, "execute "+what,
			fmt.Errorf("transaction %s reverted", mined.TxHash.Hex()), fields)
		swapErr.Receipt = receipt
		return nil, swapErr
	}

	e.log.WithFields(fields).WithFields(log.Fields{
		"block":    receipt.BlockNumber,
		"gas_used": receipt.GasUsed,
	}).Info(what + " mined")

	return receipt, nil
}

func (e *Executor) buildTransaction(trade *types.QuotedTrade, recipient common.Address) (*types.SwapTransaction, error) {
	path := [2]common.Address{trade.InputToken.Address, trade.OutputToken.Address}
	deadline := big.NewInt(e.now().Add(Deadline).Unix())

	data, err := packSwap(e.router, trade.InputAmount, trade.MinimumAmountOut, path, recipient, deadline)
	if err != nil {
		return nil, err
	}

	return &types.SwapTransaction{
		Router:       e.config.Router,
		Path:         path,
		Recipient:    recipient,
		Deadline:     deadline,
		AmountIn:     trade.InputAmount,
		AmountOutMin: trade.MinimumAmountOut,
		Data:         data,
	}, nil
}
