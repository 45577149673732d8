package registry

import (
	"context"
	"strconv"
	"time"
)

// CreateUsageAgreement proposes a licence for the caller against owner's
// work. The payment is only earmarked here.
func (e *Engine) CreateUsageAgreement(ctx context.Context, caller Identity, workName string, owner Identity, payment int64) (UsageAgreement, error) {
	var out UsageAgreement
	err := e.commit(ctx, "create_usage_agreement", caller, func(s *State, now time.Time) ([]Activity, error) {
		w, ok := s.work(owner, workName)
		if !ok {
			return nil, fail(ErrWorkNotFound, "work_name", workName)
		}
		if payment <= 0 {
			return nil, fail(ErrNonPositivePayment, "payment_amount", payment)
		}
		key := agreementKey(workName, caller)
		if _, exists := s.Agreements[key]; exists {
			return nil, fail(ErrDuplicateAgreement, "work_name", workName)
		}
		a := UsageAgreement{
			WorkName:      workName,
			WorkOwner:     owner,
			WorkTokenID:   w.TokenID,
			Requester:     caller,
			PaymentAmount: payment,
			CreatedAt:     now,
		}
		s.Agreements[key] = a
		out = a
		return []Activity{activity(ActivityAgreementCreated, map[string]string{
			"work_name":      workName,
			"token_id":       strconv.FormatUint(w.TokenID, 10),
			"requester":      caller.String(),
			"payment_amount": strconv.FormatInt(payment, 10),
		})}, nil
	})
	return out, err
}

// ApproveUsageAgreement lets the work's current owner accept a proposal.
// The requester's prepaid credit funds the payment, which lands in the
// royalty pool while the work's collaboration awaits distribution and in
// the owner's balance otherwise.
func (e *Engine) ApproveUsageAgreement(ctx context.Context, caller Identity, workName string, requester Identity) (UsageAgreement, error) {
	var out UsageAgreement
	err := e.commit(ctx, "approve_usage_agreement", caller, func(s *State, now time.Time) ([]Activity, error) {
		key := agreementKey(workName, requester)
		a, ok := s.Agreements[key]
		if !ok {
			return nil, fail(ErrAgreementNotFound, "work_name", workName)
		}
		w, ok := s.Works[a.WorkTokenID]
		if !ok {
			return nil, fail(ErrWorkNotFound, "work_name", workName)
		}
		if w.Owner != caller {
			return nil, fail(ErrNotOwner, "identity", caller)
		}
		if a.IsApproved {
			return nil, fail(ErrAlreadyApproved, "work_name", workName)
		}
		if s.Credits[requester] < a.PaymentAmount {
			return nil, fail(ErrInsufficientCredit, "payment_amount", a.PaymentAmount)
		}

		destination := "balance"
		if pooled(s, w) {
			next, err := addAmount(s.Pools[w.TokenID], a.PaymentAmount)
			if err != nil {
				return nil, err
			}
			s.Pools[w.TokenID] = next
			destination = "pool"
		} else if err := creditTo(s.Balances, w.Owner, a.PaymentAmount); err != nil {
			return nil, err
		}
		s.Credits[requester] -= a.PaymentAmount
		if s.Credits[requester] == 0 {
			delete(s.Credits, requester)
		}

		at := now
		a.IsApproved = true
		a.ApprovedAt = &at
		s.Agreements[key] = a
		out = a.clone()
		return []Activity{activity(ActivityAgreementApproved, map[string]string{
			"work_name":      workName,
			"token_id":       strconv.FormatUint(w.TokenID, 10),
			"requester":      requester.String(),
			"payment_amount": strconv.FormatInt(a.PaymentAmount, 10),
			"destination":    destination,
		})}, nil
	})
	return out, err
}

func pooled(s *State, w Work) bool {
	if w.CollaborationID == nil {
		return false
	}
	c, ok := s.Collaborations[*w.CollaborationID]
	return ok && c.Status == CollaborationFinalized
}

// UsageAgreement reads the agreement keyed by (workName, requester).
func (e *Engine) UsageAgreement(_ context.Context, workName string, requester Identity) (UsageAgreement, error) {
	var (
		a  UsageAgreement
		ok bool
	)
	e.read(func(s *State) {
		a, ok = s.Agreements[agreementKey(workName, requester)]
		a = a.clone()
	})
	if !ok {
		return UsageAgreement{}, fail(ErrAgreementNotFound, "work_name", workName)
	}
	return a, nil
}
