package contract

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// Reader executes read-only calls (eth_call).
type Reader interface {
	CallContract(ctx context.Context, to common.Address, data []byte) ([]byte, error)
}

// Caller calls read-only (view/pure) contract functions.
type Caller struct {
	reader Reader
	abi    *ABI
}

// NewCaller creates a Caller. A nil abi means the built-in ERC-20 ABI.
func NewCaller(reader Reader, abi *ABI) *Caller {
	if abi == nil {
		abi = ERC20()
	}
	return &Caller{reader: reader, abi: abi}
}

// Call calls a read function on a contract and returns the decoded outputs.
func (c *Caller) Call(ctx context.Context, addr common.Address, method string, args ...any) ([]any, error) {
	fn, ok := c.abi.Function(method)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrMethodNotFound, method)
	}
	if !fn.IsReadFunction() {
		return nil, fmt.Errorf("function %q is not a read function (stateMutability: %s)", method, fn.StateMutability)
	}

	data, err := c.abi.Pack(method, args...)
	if err != nil {
		return nil, err
	}
	raw, err := c.reader.CallContract(ctx, addr, data)
	if err != nil {
		return nil, fmt.Errorf("contract call failed: %w", err)
	}
	return c.abi.Unpack(method, raw)
}

// Allowance returns allowance(owner, spender) on token.
func (c *Caller) Allowance(ctx context.Context, token, owner, spender common.Address) (*big.Int, error) {
	out, err := c.Call(ctx, token, "allowance", owner, spender)
	if err != nil {
		return nil, err
	}
	return firstBig(out)
}

// Decimals returns decimals() on token.
func (c *Caller) Decimals(ctx context.Context, token common.Address) (uint8, error) {
	out, err := c.Call(ctx, token, "decimals")
	if err != nil {
		return 0, err
	}
	if len(out) == 0 {
		return 0, fmt.Errorf("decimals: empty result")
	}
	d, ok := out[0].(uint8)
	if !ok {
		return 0, fmt.Errorf("decimals: unexpected type %T", out[0])
	}
	return d, nil
}

// Symbol returns symbol() on token.
func (c *Caller) Symbol(ctx context.Context, token common.Address) (string, error) {
	out, err := c.Call(ctx, token, "symbol")
	if err != nil {
		return "", err
	}
	if len(out) == 0 {
		return "", fmt.Errorf("symbol: empty result")
	}
	s, ok := out[0].(string)
	if !ok {
		return "", fmt.Errorf("symbol: unexpected type %T", out[0])
	}
	return s, nil
}

func firstBig(out []any) (*big.Int, error) {
	if len(out) == 0 {
		return nil, fmt.Errorf("empty result")
	}
	n, ok := out[0].(*big.Int)
	if !ok {
		return nil, fmt.Errorf("unexpected type %T", out[0])
	}
	return n, nil
}
