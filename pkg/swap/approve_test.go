package swap

import (
	"context"
	"errors"
	"math/big"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeApprove(t *testing.T, e *Executor, data []byte) []interface{} {
	t.Helper()
	method := e.erc20.Methods["approve"]
	require.Equal(t, method.ID, data[:4])
	args, err := method.Inputs.Unpack(data[4:])
	require.NoError(t, err)
	return args
}

func TestApprove(t *testing.T) {
	o, c := newFakeOracle(), newFakeClient()
	e, s := newTestExecutor(t, o, c)

	receipt, err := e.Approve(context.Background(), daiAddr, decimal.RequireFromString("250.5"))
	require.NoError(t, err)
	assert.True(t, receipt.Succeeded())

	require.Len(t, c.estimates, 1)
	assert.Equal(t, s.Address(), c.estimates[0].From)
	assert.Equal(t, daiAddr, *c.estimates[0].To)

	require.Len(t, c.sent, 1)
	tx := c.sent[0]
	assert.Equal(t, daiAddr, *tx.To())
	assert.Equal(t, c.gas, tx.Gas())

	args := decodeApprove(t, e, tx.Data())
	assert.Equal(t, routerAddr, args[0])
	want, _ := new(big.Int).SetString("250500000000000000000", 10)
	assert.Equal(t, want, args[1])
}

func TestApproveZeroRevokes(t *testing.T) {
	o, c := newFakeOracle(), newFakeClient()
	e, _ := newTestExecutor(t, o, c)

	_, err := e.Approve(context.Background(), daiAddr, decimal.Zero)
	require.NoError(t, err)

	require.Len(t, c.sent, 1)
	args := decodeApprove(t, e, c.sent[0].Data())
	assert.Equal(t, 0, args[1].(*big.Int).Sign())
}

func TestApproveRejects(t *testing.T) {
	o, c := newFakeOracle(), newFakeClient()
	e, _ := newTestExecutor(t, o, c)
	ctx := context.Background()

	_, err := e.Approve(ctx, daiAddr, decimal.NewFromInt(-1))
	assert.ErrorIs(t, err, ErrValidation)

	_, err = e.Approve(ctx, daiAddr, decimal.RequireFromString("0.0000000000000000001"))
	assert.ErrorIs(t, err, ErrValidation)

	_, err = e.Approve(ctx, recipientAddr, decimal.NewFromInt(1))
	assert.ErrorIs(t, err, ErrMetadataFetch)

	c.estimateErr = errors.New("execution reverted")
	_, err = e.Approve(ctx, daiAddr, decimal.NewFromInt(1))
	assert.ErrorIs(t, err, ErrGasEstimation)

	assert.Empty(t, c.sent)
}
