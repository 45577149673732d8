package registry

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"entertablock.io/internal/ids"
)

// Payouts is the native value-transfer primitive. Both calls either fully
// succeed or fully fail.
type Payouts interface {
	Receive(ctx context.Context, from Identity, amount int64) error
	Send(ctx context.Context, to Identity, amount int64) error
}

// ObserveFunc receives the outcome of every mutating operation.
type ObserveFunc func(operation, result string, elapsed time.Duration)

// Engine is the single logical execution engine. Mutations are serialised
// behind one writer lock and applied to a clone of the state, which replaces
// the live state only after the store accepted it.
type Engine struct {
	mu    sync.RWMutex
	state *State

	store    Store
	payouts  Payouts
	emitter  Emitter
	now      func() time.Time
	operator Identity
	observe  ObserveFunc
}

// Option configures an Engine.
type Option func(*Engine)

// WithStore persists every commit. The default keeps state in memory only.
func WithStore(s Store) Option { return func(e *Engine) { e.store = s } }

// WithPayouts sets the value-transfer primitive used by deposits and withdrawals.
func WithPayouts(p Payouts) Option { return func(e *Engine) { e.payouts = p } }

// WithEmitter receives activities of committed operations. Emit is called
// while the writer lock is held and must not block or call back into the engine.
func WithEmitter(em Emitter) Option { return func(e *Engine) { e.emitter = em } }

// WithClock replaces the wall clock.
func WithClock(now func() time.Time) Option { return func(e *Engine) { e.now = now } }

// WithOperator allows id to mint works on behalf of any owner.
func WithOperator(id Identity) Option { return func(e *Engine) { e.operator = id } }

// WithObserver reports operation latency and outcome, e.g. to metrics.
func WithObserver(fn ObserveFunc) Option { return func(e *Engine) { e.observe = fn } }

// New builds an engine and restores the last persisted state, if any.
func New(ctx context.Context, opts ...Option) (*Engine, error) {
	e := &Engine{
		store:   MemoryStore{},
		payouts: nopPayouts{},
		emitter: NoopEmitter{},
		now:     time.Now,
		observe: func(string, string, time.Duration) {},
	}
	for _, opt := range opts {
		opt(e)
	}
	st, err := e.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load registry state: %w", err)
	}
	if st == nil {
		st = NewState()
	}
	st.ensure()
	e.state = st
	return e, nil
}

// Sequence is the number of operations committed so far.
func (e *Engine) Sequence() uint64 {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.state.Sequence
}

// Snapshot returns a deep copy of the whole state graph.
func (e *Engine) Snapshot() *State {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.state.Clone()
}

// errSkip aborts a commit without error; nothing is persisted.
var errSkip = errors.New("registry: nothing to commit")

type mutation func(s *State, now time.Time) ([]Activity, error)

func (e *Engine) commit(ctx context.Context, op string, caller Identity, apply mutation) (err error) {
	start := time.Now()
	defer func() { e.observe(op, resultOf(err), time.Since(start)) }()

	if caller.IsZero() {
		return fail(ErrInvalidIdentity, "caller", "")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	next := e.state.Clone()
	now := e.now().UTC()
	acts, err := apply(next, now)
	if errors.Is(err, errSkip) {
		return errSkip
	}
	if err != nil {
		return err
	}
	next.Sequence++
	entry := JournalEntry{
		ID:         ids.New(),
		Sequence:   next.Sequence,
		Operation:  op,
		Caller:     caller,
		OccurredAt: now,
	}
	if err := e.store.Save(ctx, next, entry); err != nil {
		return fmt.Errorf("persist %s: %w", op, err)
	}
	e.state = next

	for _, a := range acts {
		a.Sequence = next.Sequence
		a.Caller = caller
		a.OccurredAt = now
		e.emitter.Emit(a)
	}
	return nil
}

func resultOf(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, errSkip):
		return "noop"
	}
	if k := KindOf(err); k != "" {
		return string(k)
	}
	return "error"
}

func (e *Engine) read(fn func(s *State)) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	fn(e.state)
}

type nopPayouts struct{}

func (nopPayouts) Receive(context.Context, Identity, int64) error { return nil }
func (nopPayouts) Send(context.Context, Identity, int64) error    { return nil }
