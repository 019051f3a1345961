package contract

import (
	"context"
	"sync"

	"github.com/ethereum/go-ethereum/common"
)

// Pending is the handle of a transaction handed to a Signer. It completes
// once the node has accepted the transaction (hash known) or the submission
// failed. It never tracks confirmation.
type Pending struct {
	done chan struct{}
	once sync.Once
	hash common.Hash
	err  error
}

// NewPending returns an incomplete handle.
func NewPending() *Pending {
	return &Pending{done: make(chan struct{})}
}

// Resolve completes the handle with the accepted transaction hash.
// Only the first Resolve or Fail has an effect.
func (p *Pending) Resolve(hash common.Hash) {
	p.once.Do(func() {
		p.hash = hash
		close(p.done)
	})
}

// Fail completes the handle with an error.
func (p *Pending) Fail(err error) {
	p.once.Do(func() {
		p.err = err
		close(p.done)
	})
}

// Done is closed when the submission has completed.
func (p *Pending) Done() <-chan struct{} {
	return p.done
}

// Hash returns the transaction hash, or the zero hash while incomplete.
func (p *Pending) Hash() common.Hash {
	select {
	case <-p.done:
		return p.hash
	default:
		return common.Hash{}
	}
}

// Err returns the submission error, or nil while incomplete.
func (p *Pending) Err() error {
	select {
	case <-p.done:
		return p.err
	default:
		return nil
	}
}

// Wait blocks until the submission completes or ctx is done.
func (p *Pending) Wait(ctx context.Context) (common.Hash, error) {
	select {
	case <-p.done:
		return p.hash, p.err
	case <-ctx.Done():
		return common.Hash{}, ctx.Err()
	}
}
