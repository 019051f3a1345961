// Package ens resolves ENS names so owners can be given as "name.eth".
package ens

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"golang.org/x/crypto/sha3"

	"github.com/Mohsinsiddi/w3approve/internal/contract"
)

// RegistryAddress is the ENS registry, same on Ethereum mainnet and Sepolia.
var RegistryAddress = common.HexToAddress("0x00000000000C2E074eC69A0dFb2997BA6C7d2e1e")

// ErrNoRecord is returned when a name has no resolver or no address record.
var ErrNoRecord = errors.New("no ENS record")

var lookupABI = sync.OnceValue(func() *contract.ABI {
	node := []contract.ABIParam{{Name: "node", Type: "bytes32"}}
	out := []contract.ABIParam{{Name: "", Type: "address"}}
	a, err := contract.NewABI([]contract.ABIEntry{
		{Name: "resolver", Type: "function", Inputs: node, Outputs: out, StateMutability: "view"},
		{Name: "addr", Type: "function", Inputs: node, Outputs: out, StateMutability: "view"},
	})
	if err != nil {
		panic(err)
	}
	return a
})

// IsName reports whether s looks like an ENS name rather than an address.
func IsName(s string) bool {
	return strings.Contains(s, ".") && !strings.HasPrefix(s, "0x")
}

// Resolve looks up the resolver for name in the registry, then asks it for
// the address record.
func Resolve(ctx context.Context, reader contract.Reader, name string) (common.Address, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	node := Namehash(name)
	caller := contract.NewCaller(reader, lookupABI())

	resolver, err := addressCall(ctx, caller, RegistryAddress, "resolver", node)
	if err != nil {
		return common.Address{}, fmt.Errorf("querying ENS registry: %w", err)
	}
	if resolver == (common.Address{}) {
		return common.Address{}, fmt.Errorf("%w: no resolver set for %q", ErrNoRecord, name)
	}

	addr, err := addressCall(ctx, caller, resolver, "addr", node)
	if err != nil {
		return common.Address{}, fmt.Errorf("querying ENS resolver: %w", err)
	}
	if addr == (common.Address{}) {
		return common.Address{}, fmt.Errorf("%w: no address record for %q", ErrNoRecord, name)
	}
	return addr, nil
}

func addressCall(ctx context.Context, c *contract.Caller, to common.Address, method string, node [32]byte) (common.Address, error) {
	out, err := c.Call(ctx, to, method, node)
	if err != nil {
		return common.Address{}, err
	}
	if len(out) == 0 {
		return common.Address{}, fmt.Errorf("%s: empty result", method)
	}
	a, ok := out[0].(common.Address)
	if !ok {
		return common.Address{}, fmt.Errorf("%s: unexpected type %T", method, out[0])
	}
	return a, nil
}

// Namehash implements the EIP-137 namehash algorithm.
//
//	namehash("")    = 0x00...00
//	namehash("eth") = keccak256(namehash("") + keccak256("eth"))
func Namehash(name string) [32]byte {
	var node [32]byte
	if name == "" {
		return node
	}
	labels := strings.Split(name, ".")
	for i := len(labels) - 1; i >= 0; i-- {
		label := keccak256([]byte(labels[i]))
		copy(node[:], keccak256(node[:], label))
	}
	return node
}

func keccak256(data ...[]byte) []byte {
	h := sha3.NewLegacyKeccak256()
	for _, d := range data {
		h.Write(d)
	}
	return h.Sum(nil)
}
