// check-allowances: queries allowance(owner, spender) for every token of the
// default approval plan across all chains (mainnet + testnet) in parallel and
// prints a summary table.
//
// Run from the module root:
//
//	go run ./scripts/check-allowances 0xOwner [0xOwner...]
package main

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"
	"text/tabwriter"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/Mohsinsiddi/w3approve/internal/approve"
	"github.com/Mohsinsiddi/w3approve/internal/chain"
	"github.com/Mohsinsiddi/w3approve/internal/contract"
)

const rpcTimeout = 12 * time.Second

type result struct {
	chain     string
	mode      string
	owner     string // short form
	token     string
	allowance string
	err       string
}

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: check-allowances <owner> [owner...]")
		os.Exit(2)
	}
	var owners []common.Address
	for _, a := range os.Args[1:] {
		if !common.IsHexAddress(a) {
			fmt.Fprintf(os.Stderr, "invalid address %q\n", a)
			os.Exit(2)
		}
		owners = append(owners, common.HexToAddress(a))
	}

	plan := approve.DefaultPlan()
	reg := chain.NewRegistry()

	var (
		mu      sync.Mutex
		wg      sync.WaitGroup
		results []result
	)

	for _, c := range reg.All() {
		for _, mode := range []string{"mainnet", "testnet"} {
			rpcs := c.RPCs(mode)
			if len(rpcs) == 0 {
				continue
			}

			for _, owner := range owners {
				wg.Add(1)
				go func(c chain.Chain, mode, rpcURL string, owner common.Address) {
					defer wg.Done()

					ctx, cancel := context.WithTimeout(context.Background(), rpcTimeout)
					defer cancel()

					client := chain.NewEVMClient(rpcURL)
					caller := contract.NewCaller(client, nil)

					// Quick ping first, skip chains that don't respond.
					_, _, pingErr := client.Ping(ctx)

					var rows []result
					for _, a := range plan.Approvals {
						r := result{chain: c.Name, mode: mode, owner: shortAddr(owner.Hex()), token: a.Label, allowance: "-"}
						switch {
						case pingErr != nil:
							r.err = "unreachable"
						default:
							v, err := caller.Allowance(ctx, a.Token, owner, plan.Spender)
							if err != nil {
								r.err = shortErr(err)
							} else {
								r.allowance = v.String()
							}
						}
						rows = append(rows, r)
					}

					mu.Lock()
					results = append(results, rows...)
					mu.Unlock()
				}(c, mode, rpcs[0], owner)
			}
		}
	}

	wg.Wait()

	printTable(results)
}

func printTable(results []result) {
	sort.Slice(results, func(i, j int) bool {
		a, b := results[i], results[j]
		if a.chain != b.chain {
			return a.chain < b.chain
		}
		if a.mode != b.mode {
			return a.mode < b.mode
		}
		if a.owner != b.owner {
			return a.owner < b.owner
		}
		return a.token < b.token
	})

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)

	fmt.Fprintln(w, "CHAIN\tMODE\tOWNER\tTOKEN\tALLOWANCE\tNOTE")
	fmt.Fprintln(w, strings.Repeat("-", 10)+"\t"+
		strings.Repeat("-", 8)+"\t"+
		strings.Repeat("-", 12)+"\t"+
		strings.Repeat("-", 5)+"\t"+
		strings.Repeat("-", 38)+"\t"+
		strings.Repeat("-", 12))

	lastChain := ""
	for _, r := range results {
		if r.chain != lastChain {
			if lastChain != "" {
				fmt.Fprintln(w, "\t\t\t\t\t")
			}
			lastChain = r.chain
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n", r.chain, r.mode, r.owner, r.token, r.allowance, r.err)
	}
	w.Flush()
}

func shortAddr(addr string) string {
	if len(addr) < 10 {
		return addr
	}
	return addr[:6] + "…" + addr[len(addr)-4:]
}

func shortErr(err error) string {
	s := err.Error()
	if len(s) > 30 {
		return s[:30] + "…"
	}
	return s
}
