// Package contract binds contract ABIs to addresses and a transaction signer.
package contract

import (
	"context"
	"errors"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// ApproveSignature is the ERC-20 allowance grant.
const ApproveSignature = "approve(address,uint256)"

// Signer authorizes and submits transactions for one account. Submit must
// not block on the network: it hands the transaction off and returns a
// handle that completes later.
type Signer interface {
	Address() common.Address
	Submit(ctx context.Context, to common.Address, data []byte) *Pending
}

// Contract pairs an address with an ABI and a signer.
type Contract struct {
	address common.Address
	abi     *ABI
	signer  Signer
}

// Bind creates a contract binding.
func Bind(address common.Address, abi *ABI, signer Signer) (*Contract, error) {
	if abi == nil {
		return nil, errors.New("bind: nil ABI")
	}
	if signer == nil {
		return nil, errors.New("bind: nil signer")
	}
	return &Contract{address: address, abi: abi, signer: signer}, nil
}

// Address returns the bound contract address.
func (c *Contract) Address() common.Address {
	return c.address
}

// Transact encodes a call to method and submits it through the signer.
func (c *Contract) Transact(ctx context.Context, method string, args ...any) (*Pending, error) {
	data, err := c.abi.Pack(method, args...)
	if err != nil {
		return nil, err
	}
	return c.signer.Submit(ctx, c.address, data), nil
}

// Approve submits approve(spender, amount). Other approve overloads in the
// ABI are ignored.
func (c *Contract) Approve(ctx context.Context, spender common.Address, amount *big.Int) (*Pending, error) {
	return c.Transact(ctx, ApproveSignature, spender, amount)
}
