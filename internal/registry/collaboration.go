package registry

import (
	"context"
	"strconv"
	"strings"
	"time"
)

// DefaultCollaborationLabel names the work minted when finalize gets no label.
const DefaultCollaborationLabel = "Collaboration"

// CreateCollaboration opens a joint project. The caller becomes its
// initiator and need not be a participant.
func (e *Engine) CreateCollaboration(ctx context.Context, caller Identity, participants []Identity) (Collaboration, error) {
	var out Collaboration
	err := e.commit(ctx, "create_collaboration", caller, func(s *State, now time.Time) ([]Activity, error) {
		if len(participants) == 0 {
			return nil, fail(ErrEmptyParticipantSet, "participants", 0)
		}
		if err := checkIdentitySet("participants", participants); err != nil {
			return nil, err
		}
		c := Collaboration{
			ID:            s.NextCollaborationID,
			Initiator:     caller,
			Participants:  append([]Identity(nil), participants...),
			Contributions: make(map[Identity]int64, len(participants)),
			Status:        CollaborationOpen,
			CreatedAt:     now,
		}
		for _, p := range participants {
			c.Contributions[p] = 0
		}
		s.NextCollaborationID++
		s.Collaborations[c.ID] = c
		s.CollaborationIDs = append(s.CollaborationIDs, c.ID)
		out = c.clone()
		return []Activity{activity(ActivityCollaborationCreated, map[string]string{
			"collaboration_id": strconv.FormatUint(c.ID, 10),
			"initiator":        caller.String(),
			"participants":     strconv.Itoa(len(participants)),
		})}, nil
	})
	return out, err
}

func checkIdentitySet(field string, ids []Identity) error {
	seen := make(map[Identity]struct{}, len(ids))
	for _, id := range ids {
		if id.IsZero() {
			return fail(ErrInvalidIdentity, field, "")
		}
		if _, dup := seen[id]; dup {
			return fail(ErrDuplicateParticipant, field, id)
		}
		seen[id] = struct{}{}
	}
	return nil
}

// AddContribution accumulates amount onto the caller's weight.
func (e *Engine) AddContribution(ctx context.Context, caller Identity, id uint64, amount int64) (Collaboration, error) {
	var out Collaboration
	err := e.commit(ctx, "add_contribution", caller, func(s *State, _ time.Time) ([]Activity, error) {
		c, ok := s.Collaborations[id]
		if !ok {
			return nil, fail(ErrCollaborationNotFound, "collaboration_id", id)
		}
		if c.Status != CollaborationOpen {
			return nil, fail(ErrNotOpen, "status", c.Status)
		}
		if !c.isParticipant(caller) {
			return nil, fail(ErrNotParticipant, "identity", caller)
		}
		if amount <= 0 {
			return nil, fail(ErrNonPositiveAmount, "amount", amount)
		}
		// Bounding the total bounds every weight and the pro-rata denominator.
		if _, err := addAmount(c.TotalContribution(), amount); err != nil {
			return nil, err
		}
		c.Contributions[caller] += amount
		s.Collaborations[id] = c
		out = c.clone()
		return []Activity{activity(ActivityContributionAdded, map[string]string{
			"collaboration_id": strconv.FormatUint(id, 10),
			"participant":      caller.String(),
			"amount":           strconv.FormatInt(amount, 10),
		})}, nil
	})
	return out, err
}

// FinalizeCollaboration closes contributions and mints the joint work to
// the initiator under label.
func (e *Engine) FinalizeCollaboration(ctx context.Context, caller Identity, id uint64, label string) (Work, error) {
	var out Work
	err := e.commit(ctx, "finalize_collaboration", caller, func(s *State, now time.Time) ([]Activity, error) {
		c, ok := s.Collaborations[id]
		if !ok {
			return nil, fail(ErrCollaborationNotFound, "collaboration_id", id)
		}
		if c.Status != CollaborationOpen {
			return nil, fail(ErrNotOpen, "status", c.Status)
		}
		if c.Initiator != caller {
			return nil, fail(ErrNotInitiator, "identity", caller)
		}
		if c.TotalContribution() == 0 {
			return nil, fail(ErrNoContributions, "collaboration_id", id)
		}
		label = strings.TrimSpace(label)
		if label == "" {
			label = DefaultCollaborationLabel
		}
		cid := c.ID
		w, err := s.mint(c.Initiator, label, "", &cid, now)
		if err != nil {
			return nil, err
		}
		tid := w.TokenID
		c.Status = CollaborationFinalized
		c.WorkLabel = label
		c.WorkTokenID = &tid
		s.Collaborations[id] = c
		out = w.clone()
		return []Activity{
			activity(ActivityCollaborationFinalized, map[string]string{
				"collaboration_id": strconv.FormatUint(id, 10),
				"token_id":         strconv.FormatUint(tid, 10),
				"label":            label,
			}),
			mintedActivity(w),
		}, nil
	})
	return out, err
}

// Collaboration reads a collaboration by id.
func (e *Engine) Collaboration(_ context.Context, id uint64) (Collaboration, error) {
	var (
		c  Collaboration
		ok bool
	)
	e.read(func(s *State) {
		c, ok = s.Collaborations[id]
		c = c.clone()
	})
	if !ok {
		return Collaboration{}, fail(ErrCollaborationNotFound, "collaboration_id", id)
	}
	return c, nil
}

// CollaborationID returns the id created at position index.
func (e *Engine) CollaborationID(_ context.Context, index int) (uint64, error) {
	var (
		id uint64
		ok bool
	)
	e.read(func(s *State) {
		if index >= 0 && index < len(s.CollaborationIDs) {
			id, ok = s.CollaborationIDs[index], true
		}
	})
	if !ok {
		return 0, fail(ErrCollaborationNotFound, "index", index)
	}
	return id, nil
}
