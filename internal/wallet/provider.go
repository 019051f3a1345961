package wallet

import (
	"context"
	"errors"
	"fmt"

	"github.com/Mohsinsiddi/w3approve/internal/contract"
	"github.com/Mohsinsiddi/w3approve/internal/logger"
)

// Provider yields a connected, signing Account. It is the wallet layer the
// approval runner asks for a signer.
type Provider struct {
	Client     Client
	Wallets    *Manager
	Keys       KeyStore
	WalletName string // empty selects the default wallet
	Logger     logger.Logger

	account *Account
}

// Signer connects to the node, resolves the signing wallet and unlocks
// its key. Each call returns a fresh Account; the last one is kept for
// Close.
func (p *Provider) Signer(ctx context.Context) (contract.Signer, error) {
	if p.Client == nil {
		return nil, ErrNotConnected
	}
	if p.Wallets == nil {
		return nil, errors.New("wallet provider: no wallet manager")
	}
	if p.Keys == nil {
		return nil, ErrNoKeyStore
	}

	chainID, err := p.Client.ChainID(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotConnected, err)
	}

	w, err := p.Wallets.Resolve(p.WalletName)
	if err != nil {
		return nil, err
	}

	signer, err := NewTxSigner(w, p.Keys, chainID)
	if err != nil {
		return nil, err
	}

	log := p.Logger
	if log == nil {
		log = logger.Nop()
	}
	log.Debug("signer ready", "wallet", w.Name, "address", signer.Address().Hex(), "chain_id", chainID.String())

	p.account = NewAccount(p.Client, signer, log)
	return p.account, nil
}

// Close drains the Account handed out by Signer, if any.
func (p *Provider) Close(ctx context.Context) error {
	if p.account == nil {
		return nil
	}
	return p.account.Close(ctx)
}
