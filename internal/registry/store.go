package registry

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"lukechampine.com/blake3"
)

var (
	// ErrConflict is returned by stores when another writer advanced the state first.
	ErrConflict = errors.New("registry store: sequence conflict")
	// ErrCorruptSnapshot means a stored snapshot does not match its digest.
	ErrCorruptSnapshot = errors.New("registry store: snapshot digest mismatch")
)

// JournalEntry records one committed operation.
type JournalEntry struct {
	ID         string    `json:"id"`
	Sequence   uint64    `json:"sequence"`
	Operation  string    `json:"operation"`
	Caller     Identity  `json:"caller"`
	OccurredAt time.Time `json:"occurred_at"`
}

// Store persists the state graph. Save must write the snapshot and journal
// entry atomically, and fail with ErrConflict unless the stored sequence is
// exactly entry.Sequence-1.
type Store interface {
	Load(ctx context.Context) (*State, error)
	Save(ctx context.Context, state *State, entry JournalEntry) error
}

// MemoryStore keeps nothing outside the process.
type MemoryStore struct{}

func (MemoryStore) Load(context.Context) (*State, error) { return nil, nil }

func (MemoryStore) Save(context.Context, *State, JournalEntry) error { return nil }

// EncodeSnapshot serialises state and returns it with its hex blake3 digest.
func EncodeSnapshot(s *State) ([]byte, string, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return nil, "", fmt.Errorf("encode snapshot: %w", err)
	}
	sum := blake3.Sum256(data)
	return data, hex.EncodeToString(sum[:]), nil
}

// DecodeSnapshot verifies the digest and restores state.
func DecodeSnapshot(data []byte, digest string) (*State, error) {
	sum := blake3.Sum256(data)
	if hex.EncodeToString(sum[:]) != digest {
		return nil, ErrCorruptSnapshot
	}
	var s State
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	s.ensure()
	return &s, nil
}
