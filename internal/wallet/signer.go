package wallet

import (
	"crypto/ecdsa"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
)

// TxSigner signs EVM transactions for one signing wallet on one chain.
type TxSigner struct {
	key     *ecdsa.PrivateKey
	address common.Address
	signer  types.Signer
}

// NewTxSigner loads the wallet's private key from ks. The key must derive
// the wallet's recorded address.
func NewTxSigner(w *Wallet, ks KeyStore, chainID *big.Int) (*TxSigner, error) {
	if w.Type != TypeSigning {
		return nil, fmt.Errorf("%w: %q", ErrWatchOnly, w.Name)
	}

	hexKey, err := ks.Retrieve(w.KeyRef)
	if err != nil {
		return nil, fmt.Errorf("retrieving key: %w", err)
	}

	privKey, err := crypto.HexToECDSA(normaliseHexKey(hexKey))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidKey, err)
	}

	addr := crypto.PubkeyToAddress(privKey.PublicKey)
	if !strings.EqualFold(addr.Hex(), w.Address) {
		return nil, fmt.Errorf("%w: key for %q derives %s, wallet records %s",
			ErrInvalidKey, w.Name, addr.Hex(), w.Address)
	}

	return &TxSigner{
		key:     privKey,
		address: addr,
		signer:  types.NewLondonSigner(chainID),
	}, nil
}

// SignTx signs tx and returns the typed-envelope encoding.
func (s *TxSigner) SignTx(tx *types.Transaction) ([]byte, error) {
	signed, err := types.SignTx(tx, s.signer, s.key)
	if err != nil {
		return nil, fmt.Errorf("signing transaction: %w", err)
	}

	raw, err := signed.MarshalBinary()
	if err != nil {
		return nil, fmt.Errorf("marshaling signed tx: %w", err)
	}
	return raw, nil
}

// ChainID returns the chain the signer is bound to.
func (s *TxSigner) ChainID() *big.Int {
	return s.signer.ChainID()
}

// Address returns the signing address.
func (s *TxSigner) Address() common.Address {
	return s.address
}
