package client

import (
	"context"
	"encoding/json"
	"math/big"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type rpcRequest struct {
	ID     json.RawMessage   `json:"id"`
	Method string            `json:"method"`
	Params []json.RawMessage `json:"params"`
}

// newRPCServer answers JSON-RPC methods from a static table
func newRPCServer(t *testing.T, results map[string]interface{}) (*httptest.Server, *[]string) {
	t.Helper()
	var seen []string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req rpcRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		seen = append(seen, req.Method)

		resp := map[string]interface{}{"jsonrpc": "2.0", "id": req.ID}
		if result, ok := results[req.Method]; ok {
			resp["result"] = result
		} else {
			resp["error"] = map[string]interface{}{"code": -32601, "message": "method not found"}
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}))
	t.Cleanup(srv.Close)
	return srv, &seen
}

func word(v int64) string {
	b := common.LeftPadBytes(big.NewInt(v).Bytes(), 32)
	return hexutil.Encode(b)
}

var (
	token = common.HexToAddress("0x6B175474E89094C44Da98b954EedeAC495271d0F")
	owner = common.HexToAddress("0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266")
)

func TestAllowance(t *testing.T) {
	srv, seen := newRPCServer(t, map[string]interface{}{"eth_call": word(100)})

	c, err := Dial(context.Background(), srv.URL)
	require.NoError(t, err)
	defer c.Close()

	allowance, err := c.Allowance(context.Background(), token, owner, common.HexToAddress("0x7a250d5630B4cF539739dF2C5dAcb4c659F2488D"))
	require.NoError(t, err)
	assert.Equal(t, int64(100), allowance.Int64())
	assert.Equal(t, []string{"eth_call"}, *seen)
}

func TestBalanceOf(t *testing.T) {
	srv, _ := newRPCServer(t, map[string]interface{}{"eth_call": word(42)})

	c, err := Dial(context.Background(), srv.URL)
	require.NoError(t, err)
	defer c.Close()

	balance, err := c.BalanceOf(context.Background(), token, owner)
	require.NoError(t, err)
	assert.Equal(t, int64(42), balance.Int64())
}

func TestLookupReceiptUnknownTx(t *testing.T) {
	srv, _ := newRPCServer(t, map[string]interface{}{"eth_getTransactionByHash": nil})

	c, err := Dial(context.Background(), srv.URL)
	require.NoError(t, err)
	defer c.Close()

	_, _, _, err = c.LookupReceipt(context.Background(), common.HexToHash("0x01"))
	assert.Error(t, err)
}
