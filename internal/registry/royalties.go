package registry

import (
	"context"
	"strconv"
	"strings"
	"time"
)

// DistributeRoyalties splits the pool of the caller's collaboration work
// called label across participants by contribution. Flooring remainders go
// to the initiator so the shares always sum to the pool. A collaboration is
// distributed exactly once.
func (e *Engine) DistributeRoyalties(ctx context.Context, caller Identity, label string) (Distribution, error) {
	var out Distribution
	err := e.commit(ctx, "distribute_royalties", caller, func(s *State, _ time.Time) ([]Activity, error) {
		label = strings.TrimSpace(label)
		if label == "" {
			label = DefaultCollaborationLabel
		}
		w, ok := s.work(caller, label)
		if !ok {
			return nil, fail(ErrWorkNotFound, "label", label)
		}
		if w.CollaborationID == nil {
			return nil, fail(ErrNotCollaborationWork, "label", label)
		}
		c, ok := s.Collaborations[*w.CollaborationID]
		if !ok {
			return nil, fail(ErrNotCollaborationWork, "label", label)
		}
		switch c.Status {
		case CollaborationRoyaltiesDistributed:
			return nil, fail(ErrAlreadyDistributed, "collaboration_id", c.ID)
		case CollaborationFinalized:
		default:
			return nil, fail(ErrNotFinalized, "status", c.Status)
		}

		pool := s.Pools[w.TokenID]
		shares, err := splitProRata(pool, c.Participants, c.Contributions, c.Initiator)
		if err != nil {
			return nil, err
		}
		for id, amount := range shares {
			if amount == 0 {
				continue
			}
			if err := creditTo(s.Balances, id, amount); err != nil {
				return nil, err
			}
		}
		delete(s.Pools, w.TokenID)
		c.Status = CollaborationRoyaltiesDistributed
		s.Collaborations[c.ID] = c

		out = Distribution{
			CollaborationID: c.ID,
			WorkTokenID:     w.TokenID,
			Pool:            pool,
			Shares:          shares,
		}
		return []Activity{activity(ActivityRoyaltiesDistributed, map[string]string{
			"collaboration_id": strconv.FormatUint(c.ID, 10),
			"token_id":         strconv.FormatUint(w.TokenID, 10),
			"pool":             strconv.FormatInt(pool, 10),
		})}, nil
	})
	return out, err
}

// RoyaltyPool is the undistributed amount collected for a token.
func (e *Engine) RoyaltyPool(_ context.Context, tokenID uint64) (int64, error) {
	var (
		pool int64
		ok   bool
	)
	e.read(func(s *State) {
		_, ok = s.Works[tokenID]
		pool = s.Pools[tokenID]
	})
	if !ok {
		return 0, fail(ErrTokenNotFound, "token_id", tokenID)
	}
	return pool, nil
}
