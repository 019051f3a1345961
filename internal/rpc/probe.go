package rpc

import (
	"context"
	"sync"
	"time"

	"github.com/Mohsinsiddi/w3approve/internal/chain"
)

const probeTimeout = 5 * time.Second

// Probe pings a single EVM RPC with a bounded timeout.
func Probe(ctx context.Context, url string) Endpoint {
	timeoutCtx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	latency, block, err := chain.NewEVMClient(url).Ping(timeoutCtx)
	return Endpoint{
		URL:         url,
		Latency:     latency,
		BlockNumber: block,
		Healthy:     err == nil,
		Err:         err,
	}
}

// ProbeAll pings every URL in parallel. The result keeps the input order.
func ProbeAll(ctx context.Context, urls []string) []Endpoint {
	out := make([]Endpoint, len(urls))
	var wg sync.WaitGroup
	for i, url := range urls {
		wg.Add(1)
		go func(idx int, u string) {
			defer wg.Done()
			out[idx] = Probe(ctx, u)
		}(i, url)
	}
	wg.Wait()
	return out
}
