package registry

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"
)

// Balance is the caller-withdrawable amount credited to id.
func (e *Engine) Balance(_ context.Context, id Identity) (int64, error) {
	var v int64
	e.read(func(s *State) { v = s.Balances[id] })
	return v, nil
}

// Credit is id's unspent prepaid market credit.
func (e *Engine) Credit(_ context.Context, id Identity) (int64, error) {
	var v int64
	e.read(func(s *State) { v = s.Credits[id] })
	return v, nil
}

// Withdraw sends the caller's whole balance out. A zero balance is a no-op.
func (e *Engine) Withdraw(ctx context.Context, caller Identity) (Withdrawal, error) {
	return e.pullOut(ctx, "withdraw", caller, func(s *State) map[Identity]int64 { return s.Balances }, ActivityBalanceWithdrawn)
}

// ReclaimCredit sends the caller's unspent prepaid credit back out.
func (e *Engine) ReclaimCredit(ctx context.Context, caller Identity) (Withdrawal, error) {
	return e.pullOut(ctx, "reclaim_credit", caller, func(s *State) map[Identity]int64 { return s.Credits }, ActivityCreditReclaimed)
}

// pullOut zeroes the entry and commits before any value leaves, so a
// re-entrant call from the payout primitive sees nothing left to take. A
// failed send is compensated by a second commit restoring the entry.
func (e *Engine) pullOut(ctx context.Context, op string, caller Identity, entries func(*State) map[Identity]int64, kind string) (Withdrawal, error) {
	out := Withdrawal{Identity: caller}
	err := e.commit(ctx, op, caller, func(s *State, _ time.Time) ([]Activity, error) {
		m := entries(s)
		amount := m[caller]
		if amount == 0 {
			return nil, errSkip
		}
		if amount > s.Deposited-s.PaidOut {
			return nil, fmt.Errorf("registry: %s of %d exceeds held funds", op, amount)
		}
		delete(m, caller)
		s.PaidOut += amount
		out.Amount = amount
		return []Activity{activity(kind, map[string]string{
			"identity": caller.String(),
			"amount":   strconv.FormatInt(amount, 10),
		})}, nil
	})
	if errors.Is(err, errSkip) {
		return out, nil
	}
	if err != nil {
		return Withdrawal{}, err
	}

	sendErr := e.payouts.Send(ctx, caller, out.Amount)
	if sendErr == nil {
		return out, nil
	}
	failed := fmt.Errorf("%w: %v", fail(ErrTransferFailed, "amount", out.Amount), sendErr)
	revert := e.commit(context.WithoutCancel(ctx), op+"_revert", caller, func(s *State, _ time.Time) ([]Activity, error) {
		if err := creditTo(entries(s), caller, out.Amount); err != nil {
			return nil, err
		}
		s.PaidOut -= out.Amount
		return []Activity{activity(ActivityPayoutReverted, map[string]string{
			"identity":  caller.String(),
			"amount":    strconv.FormatInt(out.Amount, 10),
			"operation": op,
		})}, nil
	})
	if revert != nil {
		return Withdrawal{}, errors.Join(failed, fmt.Errorf("restore %s: %w", op, revert))
	}
	return Withdrawal{}, failed
}
