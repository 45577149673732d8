package payout

import (
	"context"
	"sync"
	"time"

	"entertablock.io/internal/ids"
	"entertablock.io/internal/registry"
)

// InMemory is the in-process value-transfer primitive. It keeps an external
// wallet per identity and journals every movement with a monotonic sequence.
type InMemory struct {
	mu      sync.RWMutex
	wallets map[registry.Identity]int64
	enforce bool
	seq     uint64
	txs     []Transfer
}

var _ registry.Payouts = (*InMemory)(nil)

// NewInMemory returns a primitive whose wallets are never short of funds.
func NewInMemory() *InMemory {
	return &InMemory{wallets: make(map[registry.Identity]int64)}
}

// NewFunded returns a primitive that debits wallets and rejects overdrafts.
func NewFunded(initial map[registry.Identity]int64) *InMemory {
	s := NewInMemory()
	s.enforce = true
	for id, amount := range initial {
		s.wallets[id] = amount
	}
	return s
}

// Receive moves amount from the identity's wallet into the registry.
func (s *InMemory) Receive(ctx context.Context, from registry.Identity, amount int64) error {
	if err := validate(from, amount); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.enforce && s.wallets[from] < amount {
		return ErrInsufficientFunds
	}
	s.wallets[from] -= amount
	s.record(DirectionIn, from, amount)
	return nil
}

// Send moves amount from the registry into the identity's wallet.
func (s *InMemory) Send(ctx context.Context, to registry.Identity, amount int64) error {
	if err := validate(to, amount); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.wallets[to] += amount
	s.record(DirectionOut, to, amount)
	return nil
}

// Fund credits a wallet from outside the system, e.g. a development faucet.
func (s *InMemory) Fund(ctx context.Context, to registry.Identity, amount int64) (Transfer, error) {
	if err := validate(to, amount); err != nil {
		return Transfer{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.wallets[to] += amount
	return s.record(DirectionFund, to, amount), nil
}

// Wallet reports the external wallet of id.
func (s *InMemory) Wallet(ctx context.Context, id registry.Identity) int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.wallets[id]
}

// List returns up to limit transfers with a sequence above afterSeq, and the
// last sequence returned.
func (s *InMemory) List(ctx context.Context, limit int, afterSeq uint64) ([]Transfer, uint64, error) {
	if limit <= 0 || limit > 1000 {
		limit = 100
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	var res []Transfer
	var last uint64
	for _, tx := range s.txs {
		if tx.Sequence <= afterSeq {
			continue
		}
		res = append(res, tx)
		last = tx.Sequence
		if len(res) >= limit {
			break
		}
	}
	return res, last, nil
}

func (s *InMemory) record(dir Direction, id registry.Identity, amount int64) Transfer {
	s.seq++
	tx := Transfer{
		ID:        ids.New(),
		Sequence:  s.seq,
		CreatedAt: time.Now().UTC(),
		Direction: dir,
		Identity:  id,
		Amount:    amount,
	}
	s.txs = append(s.txs, tx)
	return tx
}

func validate(id registry.Identity, amount int64) error {
	if id.IsZero() {
		return ErrInvalidIdentity
	}
	if amount <= 0 {
		return ErrInvalidAmount
	}
	return nil
}
