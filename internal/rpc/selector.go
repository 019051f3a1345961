package rpc

import "context"

// SelectBest picks the RPC URL to use from urls. A single URL is returned
// without probing; otherwise all URLs are probed in parallel and the winner
// is chosen by algorithm ("fastest" or "failover", empty means fastest).
//
// Returns ErrNoHealthyRPC when the list is empty or all endpoints fail.
func SelectBest(ctx context.Context, urls []string, algorithm string) (string, error) {
	if len(urls) == 0 {
		return "", ErrNoHealthyRPC
	}
	if len(urls) == 1 {
		return urls[0], nil
	}
	algo := Algorithm(algorithm)
	if algo == "" {
		algo = AlgorithmFastest
	}
	winner, err := Pick(ProbeAll(ctx, urls), algo)
	if err != nil {
		return "", err
	}
	return winner.URL, nil
}
