package chain

import (
	"context"
	"encoding/json"
	"math/big"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ---------------------------------------------------------------------------
// helpers
// ---------------------------------------------------------------------------

type capturedCall struct {
	Method string
	Params []json.RawMessage
}

// rpcMock creates a test HTTP server that serves a fixed JSON-RPC response
// per method. Pass method→result pairs; any unknown method returns an RPC error.
// Every request is appended to calls when calls is non-nil.
func rpcMock(t *testing.T, responses map[string]interface{}, calls *[]capturedCall) *httptest.Server {
	t.Helper()
	var mu sync.Mutex
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Method string            `json:"method"`
			Params []json.RawMessage `json:"params"`
			ID     int               `json:"id"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}
		if calls != nil {
			mu.Lock()
			*calls = append(*calls, capturedCall{Method: req.Method, Params: req.Params})
			mu.Unlock()
		}
		w.Header().Set("Content-Type", "application/json")
		if result, ok := responses[req.Method]; ok {
			json.NewEncoder(w).Encode(map[string]interface{}{ //nolint:errcheck
				"jsonrpc": "2.0",
				"id":      req.ID,
				"result":  result,
			})
		} else {
			json.NewEncoder(w).Encode(map[string]interface{}{ //nolint:errcheck
				"jsonrpc": "2.0",
				"id":      req.ID,
				"error":   map[string]interface{}{"code": -32601, "message": "method not found"},
			})
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

// rpcBadJSON creates a server that returns malformed JSON.
func rpcBadJSON(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{not valid json`)) //nolint:errcheck
	}))
	t.Cleanup(srv.Close)
	return srv
}

var ctx = context.Background()

// ---------------------------------------------------------------------------
// simple scalar calls
// ---------------------------------------------------------------------------

func TestChainID(t *testing.T) {
	srv := rpcMock(t, map[string]interface{}{"eth_chainId": "0x2105"}, nil)
	id, err := NewEVMClient(srv.URL).ChainID(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(8453), id.Int64())
}

func TestGasPrice(t *testing.T) {
	srv := rpcMock(t, map[string]interface{}{"eth_gasPrice": "0x3b9aca00"}, nil)
	gp, err := NewEVMClient(srv.URL).GasPrice(ctx)
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(1_000_000_000), gp)
}

func TestPendingNonceUsesPendingTag(t *testing.T) {
	var calls []capturedCall
	srv := rpcMock(t, map[string]interface{}{"eth_getTransactionCount": "0x7"}, &calls)
	addr := common.HexToAddress("0x10B67ae672663907e6A54c33EcB367Ab6e86209b")

	n, err := NewEVMClient(srv.URL).PendingNonce(ctx, addr)
	require.NoError(t, err)
	assert.Equal(t, uint64(7), n)

	require.Len(t, calls, 1)
	require.Len(t, calls[0].Params, 2)
	assert.Equal(t, `"pending"`, string(calls[0].Params[1]))
	assert.True(t, strings.EqualFold(`"`+addr.Hex()+`"`, string(calls[0].Params[0])))
}

func TestEstimateGas(t *testing.T) {
	var calls []capturedCall
	srv := rpcMock(t, map[string]interface{}{"eth_estimateGas": "0xb411"}, &calls)

	gas, err := NewEVMClient(srv.URL).EstimateGas(ctx, common.Address{1}, common.Address{2}, []byte{0x09, 0x5e, 0xa7, 0xb3})
	require.NoError(t, err)
	assert.Equal(t, uint64(46097), gas)

	var params map[string]string
	require.NoError(t, json.Unmarshal(calls[0].Params[0], &params))
	assert.Equal(t, "0x095ea7b3", params["data"])
}

func TestSendRawTransaction(t *testing.T) {
	hash := "0x" + strings.Repeat("ab", 32)
	var calls []capturedCall
	srv := rpcMock(t, map[string]interface{}{"eth_sendRawTransaction": hash}, &calls)

	got, err := NewEVMClient(srv.URL).SendRawTransaction(ctx, []byte{0x02, 0xf8})
	require.NoError(t, err)
	assert.Equal(t, common.HexToHash(hash), got)
	assert.Equal(t, `"0x02f8"`, string(calls[0].Params[0]))
}

func TestPing(t *testing.T) {
	srv := rpcMock(t, map[string]interface{}{"eth_blockNumber": "0x10"}, nil)
	latency, block, err := NewEVMClient(srv.URL).Ping(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(16), block)
	assert.Positive(t, int64(latency))
}

// ---------------------------------------------------------------------------
// error paths
// ---------------------------------------------------------------------------

func TestRPCErrorIsTyped(t *testing.T) {
	srv := rpcMock(t, map[string]interface{}{}, nil)
	_, err := NewEVMClient(srv.URL).ChainID(ctx)
	require.Error(t, err)

	var rpcErr *RPCError
	require.ErrorAs(t, err, &rpcErr)
	assert.Equal(t, -32601, rpcErr.Code)
}

func TestBadJSONResponse(t *testing.T) {
	srv := rpcBadJSON(t)
	_, err := NewEVMClient(srv.URL).GasPrice(ctx)
	assert.ErrorContains(t, err, "parsing response")
}

func TestNullResultIsError(t *testing.T) {
	srv := rpcMock(t, map[string]interface{}{"eth_chainId": nil}, nil)
	_, err := NewEVMClient(srv.URL).ChainID(ctx)
	assert.ErrorContains(t, err, "empty RPC result")
}

func TestConnectionRefused(t *testing.T) {
	_, err := NewEVMClient("http://127.0.0.1:1").ChainID(ctx)
	assert.ErrorContains(t, err, "RPC request failed")
}

func TestCancelledContext(t *testing.T) {
	srv := rpcMock(t, map[string]interface{}{"eth_chainId": "0x1"}, nil)
	cctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewEVMClient(srv.URL).ChainID(cctx)
	assert.Error(t, err)
}

func TestURL(t *testing.T) {
	assert.Equal(t, "http://node:8545", NewEVMClient("http://node:8545").URL())
}
