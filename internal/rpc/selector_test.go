package rpc

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// evmRPCServer creates an httptest server that responds to eth_blockNumber.
func evmRPCServer(t *testing.T, blockNum uint64) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"jsonrpc":"2.0","id":1,"result":"0x%x"}`, blockNum)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestProbeHealthy(t *testing.T) {
	srv := evmRPCServer(t, 1000)

	e := Probe(context.Background(), srv.URL)
	assert.True(t, e.Healthy)
	assert.NoError(t, e.Err)
	assert.Equal(t, uint64(1000), e.BlockNumber)
}

func TestProbeUnreachable(t *testing.T) {
	e := Probe(context.Background(), "http://127.0.0.1:1")
	assert.False(t, e.Healthy)
	assert.Error(t, e.Err)
}

func TestProbeAllKeepsOrder(t *testing.T) {
	a := evmRPCServer(t, 1)
	b := evmRPCServer(t, 2)

	out := ProbeAll(context.Background(), []string{a.URL, "http://127.0.0.1:1", b.URL})
	require.Len(t, out, 3)
	assert.Equal(t, a.URL, out[0].URL)
	assert.False(t, out[1].Healthy)
	assert.Equal(t, uint64(2), out[2].BlockNumber)
}

func TestSelectBestEmpty(t *testing.T) {
	_, err := SelectBest(context.Background(), nil, "")
	assert.ErrorIs(t, err, ErrNoHealthyRPC)
}

func TestSelectBestSingleSkipsProbe(t *testing.T) {
	url, err := SelectBest(context.Background(), []string{"http://127.0.0.1:1"}, "fastest")
	require.NoError(t, err)
	assert.Equal(t, "http://127.0.0.1:1", url)
}

func TestSelectBestFailoverSkipsDeadNode(t *testing.T) {
	live := evmRPCServer(t, 42)

	url, err := SelectBest(context.Background(), []string{"http://127.0.0.1:1", live.URL}, "failover")
	require.NoError(t, err)
	assert.Equal(t, live.URL, url)
}

func TestSelectBestAllDead(t *testing.T) {
	_, err := SelectBest(context.Background(), []string{"http://127.0.0.1:1", "http://127.0.0.1:2"}, "")
	assert.ErrorIs(t, err, ErrNoHealthyRPC)
}
