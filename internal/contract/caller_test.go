package contract

import (
	"context"
	"errors"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeReader struct {
	out  []byte
	err  error
	to   common.Address
	data []byte
}

func (r *fakeReader) CallContract(_ context.Context, to common.Address, data []byte) ([]byte, error) {
	r.to, r.data = to, data
	return r.out, r.err
}

func TestAllowance(t *testing.T) {
	reader := &fakeReader{out: common.LeftPadBytes(big.NewInt(100).Bytes(), 32)}
	token := common.HexToAddress("0x9746b8825AB2C2eb000A45b39dec588dE1b8752D")
	owner := common.HexToAddress("0x00000000000000000000000000000000000000aa")
	spender := common.HexToAddress("0x10B67ae672663907e6A54c33EcB367Ab6e86209b")

	got, err := NewCaller(reader, nil).Allowance(context.Background(), token, owner, spender)
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(100), got)

	assert.Equal(t, token, reader.to)
	require.Len(t, reader.data, 4+32+32)
	assert.Equal(t, []byte{0xdd, 0x62, 0xed, 0x3e}, reader.data[:4])
	assert.Equal(t, common.LeftPadBytes(owner.Bytes(), 32), reader.data[4:36])
	assert.Equal(t, common.LeftPadBytes(spender.Bytes(), 32), reader.data[36:])
}

func TestSymbolAndDecimals(t *testing.T) {
	erc20 := ERC20()
	sym, err := erc20.parsed.Methods["symbol"].Outputs.Pack("TKA")
	require.NoError(t, err)
	dec, err := erc20.parsed.Methods["decimals"].Outputs.Pack(uint8(18))
	require.NoError(t, err)

	c := NewCaller(&fakeReader{out: sym}, nil)
	s, err := c.Symbol(context.Background(), common.Address{1})
	require.NoError(t, err)
	assert.Equal(t, "TKA", s)

	c = NewCaller(&fakeReader{out: dec}, nil)
	d, err := c.Decimals(context.Background(), common.Address{1})
	require.NoError(t, err)
	assert.Equal(t, uint8(18), d)
}

func TestCallRejectsWriteFunction(t *testing.T) {
	_, err := NewCaller(&fakeReader{}, nil).Call(context.Background(), common.Address{}, "approve", common.Address{}, big.NewInt(1))
	assert.ErrorContains(t, err, "not a read function")
}

func TestCallUnknownMethod(t *testing.T) {
	_, err := NewCaller(&fakeReader{}, nil).Call(context.Background(), common.Address{}, "owner")
	assert.ErrorIs(t, err, ErrMethodNotFound)
}

func TestCallReaderError(t *testing.T) {
	boom := errors.New("execution reverted")
	_, err := NewCaller(&fakeReader{err: boom}, nil).Allowance(context.Background(), common.Address{}, common.Address{}, common.Address{})
	assert.ErrorIs(t, err, boom)
	assert.ErrorContains(t, err, "contract call failed")
}

func TestAllowanceShortResult(t *testing.T) {
	_, err := NewCaller(&fakeReader{out: []byte{0x01}}, nil).Allowance(context.Background(), common.Address{}, common.Address{}, common.Address{})
	assert.ErrorContains(t, err, "decoding allowance")
}
