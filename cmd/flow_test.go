package cmd

import (
	"bytes"
	"context"
	"errors"
	"io"
	"math/big"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"evm-swap/pkg/swap"
	"evm-swap/pkg/types"
)

const (
	daiHex       = "0x6B175474E89094C44Da98b954EedeAC495271d0F"
	recipientHex = "0xab5801a7d398351b8be11c439e05c5b3259aec9b"
)

var (
	daiToken  = types.Token{Address: common.HexToAddress(daiHex), Decimals: 18, Symbol: "DAI"}
	wethToken = types.Token{Address: common.HexToAddress("0xC02aaA39b223FE8D0A0e5C4F27eAD9083C756Cc2"), Decimals: 18, Symbol: "WETH"}
	router    = common.HexToAddress("0x7a250d5630B4cF539739dF2C5dAcb4c659F2488D")
	txHash    = common.HexToHash("0x5c504ed432cb51138bcf09aa5e8a410dd4a1e204ef84bfed1be16dfba1b22060")
)

type fakeRunner struct {
	sim       *swap.Simulation
	simErr    error
	receipt   *types.Receipt
	submitErr error

	simulated int
	submitted []*swap.Simulation
	approved  []decimal.Decimal
}

func newFakeRunner() *fakeRunner {
	return &fakeRunner{
		sim: &swap.Simulation{
			Trade: &types.QuotedTrade{
				InputToken:       daiToken,
				OutputToken:      wethToken,
				InputAmount:      big.NewInt(1_000_000_000_000_000_000),
				QuotedAmountOut:  big.NewInt(498_000_000_000_000),
				MinimumAmountOut: big.NewInt(495_510_000_000_000),
				SlippageBps:      50,
			},
			Tx: &types.SwapTransaction{
				Router:       router,
				Path:         [2]common.Address{daiToken.Address, wethToken.Address},
				Recipient:    common.HexToAddress(recipientHex),
				Deadline:     big.NewInt(1_700_001_200),
				AmountIn:     big.NewInt(1_000_000_000_000_000_000),
				AmountOutMin: big.NewInt(495_510_000_000_000),
			},
			Gas: 142_000,
		},
		receipt: &types.Receipt{TxHash: txHash, Status: 1, GasUsed: 121_000, BlockNumber: big.NewInt(19_000_000)},
	}
}

func (f *fakeRunner) Simulate(ctx context.Context, req types.SwapRequest) (*swap.Simulation, error) {
	f.simulated++
	return f.sim, f.simErr
}

func (f *fakeRunner) Submit(ctx context.Context, sim *swap.Simulation) (*types.Receipt, error) {
	f.submitted = append(f.submitted, sim)
	if f.submitErr != nil {
		return nil, f.submitErr
	}
	return f.receipt, nil
}

func (f *fakeRunner) Approve(ctx context.Context, token common.Address, amount decimal.Decimal) (*types.Receipt, error) {
	f.approved = append(f.approved, amount)
	if f.submitErr != nil {
		return nil, f.submitErr
	}
	return f.receipt, nil
}

func noSpin(string) func() { return func() {} }

// withIO feeds input to the prompt and captures JSON output
func withIO(t *testing.T, input string) *bytes.Buffer {
	t.Helper()
	var out bytes.Buffer
	prevIn, prevOut := stdin, stdout
	stdin, stdout = strings.NewReader(input), io.Writer(&out)
	t.Cleanup(func() { stdin, stdout = prevIn, prevOut })
	return &out
}

func swapRequest() types.SwapRequest {
	return types.SwapRequest{
		Token:       daiToken.Address,
		AmountIn:    decimal.NewFromInt(1),
		SlippageBps: 50,
		Recipient:   common.HexToAddress(recipientHex),
	}
}

func TestSwapFlowDryRunSendsNothing(t *testing.T) {
	out := withIO(t, "")
	r := newFakeRunner()

	err := swapFlow(context.Background(), r, swapRequest(), submitOptions{dryRun: true, json: true}, noSpin)
	require.NoError(t, err)
	assert.Equal(t, 1, r.simulated)
	assert.Empty(t, r.submitted)
	assert.Contains(t, out.String(), `"status": "simulated"`)
	assert.Contains(t, out.String(), `"gas": 142000`)

	err = swapFlow(context.Background(), r, swapRequest(), submitOptions{dryRun: true}, noSpin)
	require.NoError(t, err)
	assert.Empty(t, r.submitted)
}

func TestSwapFlowCancelSendsNothing(t *testing.T) {
	for _, answer := range []string{"n\n", "\n", ""} {
		withIO(t, answer)
		r := newFakeRunner()

		err := swapFlow(context.Background(), r, swapRequest(), submitOptions{}, noSpin)
		require.NoError(t, err)
		assert.Equal(t, 1, r.simulated)
		assert.Empty(t, r.submitted, "answer %q", answer)
	}
}

func TestSwapFlowSubmitsConfirmedSimulation(t *testing.T) {
	withIO(t, "yes\n")
	r := newFakeRunner()

	err := swapFlow(context.Background(), r, swapRequest(), submitOptions{}, noSpin)
	require.NoError(t, err)
	assert.Equal(t, 1, r.simulated)
	require.Len(t, r.submitted, 1)
	assert.Same(t, r.sim, r.submitted[0])
}

func TestSwapFlowPrintsReceiptOnFailure(t *testing.T) {
	out := withIO(t, "")
	r := newFakeRunner()
	r.submitErr = &swap.Error{
		Kind:    swap.KindSubmission,
		Op:      "execute swap",
		Err:     errors.New("transaction reverted"),
		Receipt: &types.Receipt{TxHash: txHash, Status: 0, GasUsed: 90_000},
	}

	err := swapFlow(context.Background(), r, swapRequest(), submitOptions{yes: true, json: true}, noSpin)
	assert.ErrorIs(t, err, swap.ErrSubmission)
	assert.Contains(t, out.String(), txHash.Hex())
	assert.Contains(t, out.String(), `"gas_used": 90000`)
}

func TestSwapFlowSimulationFailure(t *testing.T) {
	withIO(t, "y\n")
	r := newFakeRunner()
	r.simErr = &swap.Error{Kind: swap.KindGasEstimation, Op: "estimate gas", Err: errors.New("execution reverted")}

	err := swapFlow(context.Background(), r, swapRequest(), submitOptions{}, noSpin)
	assert.ErrorIs(t, err, swap.ErrGasEstimation)
	assert.Empty(t, r.submitted)
}

func TestJSONRequiresYes(t *testing.T) {
	assert.ErrorIs(t, submitOptions{json: true}.check(), swap.ErrValidation)
	assert.NoError(t, submitOptions{json: true, yes: true}.check())
	assert.NoError(t, submitOptions{json: true, dryRun: true}.check())
	assert.NoError(t, submitOptions{}.check())

	withIO(t, "y\n")
	r := newFakeRunner()
	err := swapFlow(context.Background(), r, swapRequest(), submitOptions{json: true}, noSpin)
	assert.ErrorIs(t, err, swap.ErrValidation)
	assert.Zero(t, r.simulated)
	assert.Empty(t, r.submitted)

	err = approveFlow(context.Background(), r, daiToken.Address, decimal.NewFromInt(5), router, submitOptions{json: true}, noSpin)
	assert.ErrorIs(t, err, swap.ErrValidation)
	assert.Empty(t, r.approved)
}

func TestCommandsRejectJSONWithoutYes(t *testing.T) {
	t.Cleanup(func() { rootCmd.SetArgs(nil) })

	// Rejected before any config or network access
	rootCmd.SetArgs([]string{"swap", daiHex, "1", "0.5", recipientHex, "--json"})
	assert.ErrorIs(t, rootCmd.Execute(), swap.ErrValidation)

	rootCmd.SetArgs([]string{"approve", daiHex, "5", "--json"})
	assert.ErrorIs(t, rootCmd.Execute(), swap.ErrValidation)
}

func TestApproveFlow(t *testing.T) {
	withIO(t, "n\n")
	r := newFakeRunner()
	err := approveFlow(context.Background(), r, daiToken.Address, decimal.NewFromInt(5), router, submitOptions{}, noSpin)
	require.NoError(t, err)
	assert.Empty(t, r.approved)

	withIO(t, "y\n")
	err = approveFlow(context.Background(), r, daiToken.Address, decimal.NewFromInt(5), router, submitOptions{}, noSpin)
	require.NoError(t, err)
	require.Len(t, r.approved, 1)
	assert.Equal(t, "5", r.approved[0].String())

	out := withIO(t, "")
	r.submitErr = &swap.Error{Kind: swap.KindSubmission, Op: "wait for receipt", Err: context.DeadlineExceeded,
		Receipt: &types.Receipt{TxHash: txHash, Pending: true}}
	err = approveFlow(context.Background(), r, daiToken.Address, decimal.Zero, router, submitOptions{yes: true, json: true}, noSpin)
	assert.ErrorIs(t, err, swap.ErrSubmission)
	assert.Contains(t, out.String(), `"pending": true`)
}
