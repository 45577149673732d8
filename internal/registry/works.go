package registry

import (
	"context"
	"strconv"
	"strings"
	"time"
)

// MintWork issues a new token for (owner, name). Only the owner or the
// configured operator may mint.
func (e *Engine) MintWork(ctx context.Context, caller, owner Identity, name, metadataURI string) (Work, error) {
	var out Work
	err := e.commit(ctx, "mint_work", caller, func(s *State, now time.Time) ([]Activity, error) {
		if owner.IsZero() {
			return nil, fail(ErrInvalidIdentity, "owner", "")
		}
		if caller != owner && (e.operator.IsZero() || caller != e.operator) {
			return nil, fail(ErrNotOwner, "owner", owner)
		}
		name = strings.TrimSpace(name)
		if name == "" {
			return nil, fail(ErrEmptyName, "name", name)
		}
		w, err := s.mint(owner, name, metadataURI, nil, now)
		if err != nil {
			return nil, err
		}
		out = w
		return []Activity{mintedActivity(w)}, nil
	})
	return out, err
}

func mintedActivity(w Work) Activity {
	attrs := map[string]string{
		"token_id": strconv.FormatUint(w.TokenID, 10),
		"owner":    w.Owner.String(),
		"name":     w.Name,
	}
	if w.CollaborationID != nil {
		attrs["collaboration_id"] = strconv.FormatUint(*w.CollaborationID, 10)
	}
	return activity(ActivityWorkMinted, attrs)
}

// UpdateWorkMetadata replaces all metadata of the caller's work called name.
func (e *Engine) UpdateWorkMetadata(ctx context.Context, caller Identity, name string, md WorkMetadata) (Work, error) {
	var out Work
	err := e.commit(ctx, "update_work_metadata", caller, func(s *State, _ time.Time) ([]Activity, error) {
		w, ok := s.work(caller, name)
		if !ok {
			if s.workNamedByOther(caller, name) {
				return nil, fail(ErrNotOwner, "name", name)
			}
			return nil, fail(ErrWorkNotFound, "name", name)
		}
		out = setMetadata(s, w, md)
		return []Activity{metadataActivity(out)}, nil
	})
	return out, err
}

// UpdateTokenMetadata is UpdateWorkMetadata addressed by token id.
func (e *Engine) UpdateTokenMetadata(ctx context.Context, caller Identity, tokenID uint64, md WorkMetadata) (Work, error) {
	var out Work
	err := e.commit(ctx, "update_token_metadata", caller, func(s *State, _ time.Time) ([]Activity, error) {
		w, ok := s.Works[tokenID]
		if !ok {
			return nil, fail(ErrTokenNotFound, "token_id", tokenID)
		}
		if w.Owner != caller {
			return nil, fail(ErrNotOwner, "token_id", tokenID)
		}
		out = setMetadata(s, w, md)
		return []Activity{metadataActivity(out)}, nil
	})
	return out, err
}

func setMetadata(s *State, w Work, md WorkMetadata) Work {
	w.Metadata = md
	s.Works[w.TokenID] = w
	return w.clone()
}

func metadataActivity(w Work) Activity {
	return activity(ActivityWorkMetadataUpdated, map[string]string{
		"token_id": strconv.FormatUint(w.TokenID, 10),
		"owner":    w.Owner.String(),
	})
}

// TransferWork hands a token to a new owner. The (owner, name) index moves
// with it; an undistributed royalty pool stays attached to the token.
func (e *Engine) TransferWork(ctx context.Context, caller, to Identity, tokenID uint64) (Work, error) {
	var out Work
	err := e.commit(ctx, "transfer_work", caller, func(s *State, _ time.Time) ([]Activity, error) {
		w, ok := s.Works[tokenID]
		if !ok {
			return nil, fail(ErrTokenNotFound, "token_id", tokenID)
		}
		if w.Owner != caller {
			return nil, fail(ErrNotOwner, "token_id", tokenID)
		}
		if to.IsZero() || to == w.Owner {
			return nil, fail(ErrInvalidIdentity, "to", to)
		}
		if _, taken := s.WorkIndex[workKey(to, w.Name)]; taken {
			return nil, fail(ErrDuplicateWork, "name", w.Name)
		}
		from := w.Owner
		delete(s.WorkIndex, workKey(from, w.Name))
		w.Owner = to
		s.Works[tokenID] = w
		s.WorkIndex[workKey(to, w.Name)] = tokenID
		out = w.clone()
		return []Activity{activity(ActivityWorkTransferred, map[string]string{
			"token_id": strconv.FormatUint(tokenID, 10),
			"from":     from.String(),
			"to":       to.String(),
		})}, nil
	})
	return out, err
}

// WorkMetadata reads the metadata of (owner, name).
func (e *Engine) WorkMetadata(_ context.Context, owner Identity, name string) (WorkMetadata, error) {
	w, err := e.workByName(owner, name)
	return w.Metadata, err
}

// WorkTokenID resolves (owner, name) to its token id.
func (e *Engine) WorkTokenID(_ context.Context, owner Identity, name string) (uint64, error) {
	w, err := e.workByName(owner, name)
	return w.TokenID, err
}

func (e *Engine) workByName(owner Identity, name string) (Work, error) {
	var (
		w  Work
		ok bool
	)
	e.read(func(s *State) {
		w, ok = s.work(owner, name)
		w = w.clone()
	})
	if !ok {
		return Work{}, fail(ErrWorkNotFound, "name", name)
	}
	return w, nil
}

// Work reads a token by id.
func (e *Engine) Work(_ context.Context, tokenID uint64) (Work, error) {
	var (
		w  Work
		ok bool
	)
	e.read(func(s *State) {
		w, ok = s.Works[tokenID]
		w = w.clone()
	})
	if !ok {
		return Work{}, fail(ErrTokenNotFound, "token_id", tokenID)
	}
	return w, nil
}

// OwnerOf returns the single current owner of a token.
func (e *Engine) OwnerOf(ctx context.Context, tokenID uint64) (Identity, error) {
	w, err := e.Work(ctx, tokenID)
	return w.Owner, err
}
