package registry

import (
	"context"
	"time"
)

// RegisterArtist binds a profile to the caller. It fails if the caller is
// already registered.
func (e *Engine) RegisterArtist(ctx context.Context, caller Identity, p ArtistProfile) (Artist, error) {
	var out Artist
	err := e.commit(ctx, "register_artist", caller, func(s *State, now time.Time) ([]Activity, error) {
		if s.Artists[caller].IsRegistered {
			return nil, fail(ErrAlreadyRegistered, "identity", caller)
		}
		out = Artist{
			Identity:     caller,
			IsRegistered: true,
			EmailAddress: p.EmailAddress,
			Password:     p.Password,
			FirstName:    p.FirstName,
			LastName:     p.LastName,
			StageName:    p.StageName,
			RegisteredAt: now,
		}
		s.Artists[caller] = out
		return []Activity{activity(ActivityArtistRegistered, map[string]string{
			"identity":   caller.String(),
			"stage_name": p.StageName,
		})}, nil
	})
	return out, err
}

// UpdateArtist overwrites the caller's first and last name only.
func (e *Engine) UpdateArtist(ctx context.Context, caller Identity, firstName, lastName string) (Artist, error) {
	var out Artist
	err := e.commit(ctx, "update_artist", caller, func(s *State, _ time.Time) ([]Activity, error) {
		a, ok := s.Artists[caller]
		if !ok || !a.IsRegistered {
			return nil, fail(ErrNotRegistered, "identity", caller)
		}
		a.FirstName = firstName
		a.LastName = lastName
		s.Artists[caller] = a
		out = a
		return []Activity{activity(ActivityArtistUpdated, map[string]string{"identity": caller.String()})}, nil
	})
	return out, err
}

// Artist never fails: unknown identities read as an unregistered zero record.
func (e *Engine) Artist(_ context.Context, id Identity) (Artist, error) {
	var out Artist
	e.read(func(s *State) {
		out = s.Artists[id]
	})
	if out.Identity.IsZero() {
		out.Identity = id
	}
	return out, nil
}
