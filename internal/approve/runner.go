// Package approve issues the fixed set of ERC-20 approve calls.
package approve

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"sync"

	"github.com/Mohsinsiddi/w3approve/internal/artifact"
	"github.com/Mohsinsiddi/w3approve/internal/contract"
	"github.com/Mohsinsiddi/w3approve/internal/logger"
)

// ArtifactStore reads workspace files.
type ArtifactStore interface {
	GetFile(ctx context.Context, path string) ([]byte, error)
}

// WalletProvider hands out the signer approvals are sent through.
type WalletProvider interface {
	Signer(ctx context.Context) (contract.Signer, error)
}

// Runner loads the token ABI, binds every token in the plan and sends
// approve(spender, amount) to each, in plan order.
type Runner struct {
	store   ArtifactStore
	wallets WalletProvider
	plan    Plan
	log     logger.Logger
	await   bool

	dispatch sync.WaitGroup
}

// Option configures a Runner.
type Option func(*Runner)

// WithPlan replaces DefaultPlan.
func WithPlan(p Plan) Option {
	return func(r *Runner) { r.plan = p }
}

// WithLogger sets the logger. Setup failures are reported through it.
func WithLogger(l logger.Logger) Option {
	return func(r *Runner) {
		if l != nil {
			r.log = l
		}
	}
}

// WithAwait makes Run wait until the node has accepted every approve
// transaction and return their errors. Confirmation is never awaited.
func WithAwait(await bool) Option {
	return func(r *Runner) { r.await = await }
}

// NewRunner creates a Runner for DefaultPlan.
func NewRunner(store ArtifactStore, wallets WalletProvider, opts ...Option) *Runner {
	r := &Runner{
		store:   store,
		wallets: wallets,
		plan:    DefaultPlan(),
		log:     logger.Nop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Plan returns the approvals this runner issues.
func (r *Runner) Plan() Plan {
	return r.plan
}

type call struct {
	approval Approval
	token    *contract.Contract
	amount   *big.Int
}

// Run executes the plan once. Setup failures are logged and returned as
// *SetupError. Unless await mode is on, the approve calls are dispatched
// in the background and Run returns without waiting for them.
func (r *Runner) Run(ctx context.Context) error {
	calls, err := r.setup(ctx)
	if err != nil {
		var se *SetupError
		if errors.As(err, &se) {
			r.log.Error(err.Error(), "stage", string(se.Stage))
		} else {
			r.log.Error(err.Error())
		}
		return err
	}

	if r.await {
		return r.approveAll(ctx, calls, true)
	}

	r.dispatch.Add(1)
	go func() {
		defer r.dispatch.Done()
		r.approveAll(ctx, calls, false) //nolint:errcheck
	}()
	return nil
}

// Drain waits until background dispatches have handed every approve call
// to the signer. It does not wait for the node.
func (r *Runner) Drain(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		r.dispatch.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (r *Runner) setup(ctx context.Context) ([]call, error) {
	if len(r.plan.Approvals) == 0 {
		return nil, setupErr(StagePlan, errors.New("no approvals in plan"))
	}
	amounts := make([]*big.Int, len(r.plan.Approvals))
	for i, a := range r.plan.Approvals {
		v, err := a.Amount.Big()
		if err != nil {
			return nil, setupErr(StagePlan, err)
		}
		amounts[i] = v
	}

	art, err := artifact.Load(ctx, r.store, r.plan.ContractName)
	if err != nil {
		return nil, setupErr(StageArtifact, err)
	}
	abi, err := contract.ParseABI(art.ABI)
	if err != nil {
		return nil, setupErr(StageArtifact, err)
	}
	r.log.Debug("artifact loaded", "contract", art.Name, "entries", len(abi.Entries()))

	signer, err := r.wallets.Signer(ctx)
	if err != nil {
		return nil, setupErr(StageSigner, err)
	}

	if err := abi.Require(contract.ApproveSignature); err != nil {
		return nil, setupErr(StageBind, fmt.Errorf("%s: %w", r.plan.ContractName, err))
	}
	calls := make([]call, len(r.plan.Approvals))
	for i, a := range r.plan.Approvals {
		c, err := contract.Bind(a.Token, abi, signer)
		if err != nil {
			return nil, setupErr(StageBind, fmt.Errorf("token %s: %w", a.Label, err))
		}
		calls[i] = call{approval: a, token: c, amount: amounts[i]}
	}
	return calls, nil
}

// approveAll issues the calls in order. A failing call does not stop the
// ones after it.
func (r *Runner) approveAll(ctx context.Context, calls []call, wait bool) error {
	var errs []error
	for _, c := range calls {
		pending, err := c.token.Approve(ctx, r.plan.Spender, c.amount)
		if err != nil {
			r.log.Error("approve not sent", "token", c.approval.Label, "error", err)
			errs = append(errs, fmt.Errorf("approve %s: %w", c.approval.Label, err))
			continue
		}
		r.log.Debug("approve dispatched",
			"token", c.approval.Label, "address", c.token.Address().Hex(), "amount", c.amount.String())
		if !wait {
			continue
		}

		hash, err := pending.Wait(ctx)
		if err != nil {
			errs = append(errs, fmt.Errorf("approve %s: %w", c.approval.Label, err))
			continue
		}
		r.log.Info("approve submitted", "token", c.approval.Label, "hash", hash.Hex())
	}
	return errors.Join(errs...)
}
