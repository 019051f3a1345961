package wallet

import (
	"context"
	"fmt"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	"github.com/Mohsinsiddi/w3approve/internal/config"
	"github.com/Mohsinsiddi/w3approve/internal/contract"
	"github.com/Mohsinsiddi/w3approve/internal/logger"
)

// Client is the JSON-RPC surface an Account needs.
type Client interface {
	ChainID(ctx context.Context) (*big.Int, error)
	GasPrice(ctx context.Context) (*big.Int, error)
	PendingNonce(ctx context.Context, address common.Address) (uint64, error)
	EstimateGas(ctx context.Context, from, to common.Address, data []byte) (uint64, error)
	SendRawTransaction(ctx context.Context, raw []byte) (common.Hash, error)
}

type submitRequest struct {
	ctx     context.Context
	to      common.Address
	data    []byte
	pending *contract.Pending
}

// Account is a connected signing wallet. It implements contract.Signer:
// Submit queues the transaction and returns at once, and a single worker
// builds, signs and broadcasts queued transactions in submission order
// with ascending nonces.
type Account struct {
	client Client
	signer *TxSigner
	log    logger.Logger

	mu     sync.Mutex
	queue  []submitRequest
	closed bool
	wake   chan struct{}
	done   chan struct{}

	// owned by the worker
	nonce    uint64
	nonceSet bool
}

// NewAccount starts the submission worker for signer.
func NewAccount(client Client, signer *TxSigner, log logger.Logger) *Account {
	if log == nil {
		log = logger.Nop()
	}
	a := &Account{
		client: client,
		signer: signer,
		log:    log,
		wake:   make(chan struct{}, 1),
		done:   make(chan struct{}),
	}
	go a.run()
	return a
}

// Address returns the signing address.
func (a *Account) Address() common.Address {
	return a.signer.Address()
}

// Submit queues a transaction to `to` carrying data. It never blocks on
// the network. After Close the returned handle fails with ErrClosed.
func (a *Account) Submit(ctx context.Context, to common.Address, data []byte) *contract.Pending {
	p := contract.NewPending()

	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		p.Fail(ErrClosed)
		return p
	}
	a.queue = append(a.queue, submitRequest{ctx: ctx, to: to, data: data, pending: p})
	a.mu.Unlock()

	a.signal()
	return p
}

// Close stops accepting submissions and waits until everything already
// queued has been handed to the node, or ctx is done.
func (a *Account) Close(ctx context.Context) error {
	a.mu.Lock()
	a.closed = true
	a.mu.Unlock()
	a.signal()

	select {
	case <-a.done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("draining submissions: %w", ctx.Err())
	}
}

func (a *Account) signal() {
	select {
	case a.wake <- struct{}{}:
	default:
	}
}

func (a *Account) run() {
	defer close(a.done)
	for {
		a.mu.Lock()
		for len(a.queue) == 0 && !a.closed {
			a.mu.Unlock()
			<-a.wake
			a.mu.Lock()
		}
		if len(a.queue) == 0 {
			a.mu.Unlock()
			return
		}
		req := a.queue[0]
		a.queue = a.queue[1:]
		a.mu.Unlock()

		hash, err := a.send(req)
		if err != nil {
			a.log.Error("transaction submission failed", "to", req.to.Hex(), "error", err)
			req.pending.Fail(err)
			continue
		}
		req.pending.Resolve(hash)
	}
}

func (a *Account) send(req submitRequest) (common.Hash, error) {
	ctx := req.ctx
	if err := ctx.Err(); err != nil {
		return common.Hash{}, err
	}

	from := a.signer.Address()
	if !a.nonceSet {
		n, err := a.client.PendingNonce(ctx, from)
		if err != nil {
			return common.Hash{}, fmt.Errorf("fetching nonce: %w", err)
		}
		a.nonce, a.nonceSet = n, true
	}

	gas, err := a.client.EstimateGas(ctx, from, req.to, req.data)
	if err != nil {
		a.log.Debug("gas estimation failed, using fallback", "to", req.to.Hex(), "gas", config.GasLimitApprove, "error", err)
		gas = config.GasLimitApprove
	}

	gasPrice, err := a.client.GasPrice(ctx)
	if err != nil {
		return common.Hash{}, fmt.Errorf("fetching gas price: %w", err)
	}
	tip := big.NewInt(config.DefaultPriorityFeeWei)
	if tip.Cmp(gasPrice) > 0 {
		tip = new(big.Int).Set(gasPrice)
	}
	feeCap := new(big.Int).Add(new(big.Int).Mul(gasPrice, big.NewInt(2)), tip)

	to := req.to
	tx := types.NewTx(&types.DynamicFeeTx{
		ChainID:   a.signer.ChainID(),
		Nonce:     a.nonce,
		GasTipCap: tip,
		GasFeeCap: feeCap,
		Gas:       gas,
		To:        &to,
		Value:     new(big.Int),
		Data:      req.data,
	})

	raw, err := a.signer.SignTx(tx)
	if err != nil {
		return common.Hash{}, err
	}

	hash, err := a.client.SendRawTransaction(ctx, raw)
	if err != nil {
		// The node may or may not have seen this nonce; ask again next time.
		a.nonceSet = false
		return common.Hash{}, fmt.Errorf("broadcasting transaction: %w", err)
	}

	a.log.Info("transaction submitted",
		"to", to.Hex(), "nonce", a.nonce, "gas", gas, "hash", hash.Hex())
	a.nonce++
	return hash, nil
}
