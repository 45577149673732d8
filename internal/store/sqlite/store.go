package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"entertablock.io/internal/migrate"
	"entertablock.io/internal/registry"
)

//go:embed migrations/*.sql
var migrations embed.FS

// Store provides SQLite-backed persistence for single-node deployments.
type Store struct {
	sqlDB *sql.DB
}

var _ registry.Store = (*Store)(nil)

// Open opens and migrates a registry SQLite store.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	dsn := filepath.Clean(path) + "?_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	// One writer keeps commits serialised without SQLITE_BUSY retries.
	sqlDB.SetMaxOpenConns(1)

	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	mgr := migrate.NewManager(sqlDB, migrations, migrate.WithDir("migrations"), migrate.WithDialect(migrate.SQLite))
	if _, err := mgr.Up(context.Background()); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &Store{sqlDB: sqlDB}, nil
}

// Close releases the underlying SQLite connection.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

func (s *Store) Ping(ctx context.Context) error { return s.sqlDB.PingContext(ctx) }

func (s *Store) Load(ctx context.Context) (*registry.State, error) {
	var (
		seq    int64
		data   []byte
		digest string
	)
	err := s.sqlDB.QueryRowContext(ctx, `SELECT sequence, snapshot, digest FROM registry_state WHERE id = 1`).
		Scan(&seq, &data, &digest)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load registry state: %w", err)
	}
	st, err := registry.DecodeSnapshot(data, digest)
	if err != nil {
		return nil, err
	}
	if st.Sequence != uint64(seq) {
		return nil, registry.ErrCorruptSnapshot
	}
	return st, nil
}

func (s *Store) Save(ctx context.Context, st *registry.State, entry registry.JournalEntry) error {
	data, digest, err := registry.EncodeSnapshot(st)
	if err != nil {
		return err
	}
	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	at := entry.OccurredAt.UTC().UnixNano()
	var res sql.Result
	if entry.Sequence == 1 {
		res, err = tx.ExecContext(ctx,
			`INSERT INTO registry_state (id, sequence, snapshot, digest, updated_at) VALUES (1, ?, ?, ?, ?)
			 ON CONFLICT (id) DO NOTHING`,
			int64(entry.Sequence), data, digest, at)
	} else {
		res, err = tx.ExecContext(ctx,
			`UPDATE registry_state SET sequence = ?, snapshot = ?, digest = ?, updated_at = ?
			 WHERE id = 1 AND sequence = ?`,
			int64(entry.Sequence), data, digest, at, int64(entry.Sequence-1))
	}
	if err != nil {
		return fmt.Errorf("write registry state: %w", err)
	}
	if n, err := res.RowsAffected(); err != nil {
		return err
	} else if n != 1 {
		return registry.ErrConflict
	}

	res, err = tx.ExecContext(ctx,
		`INSERT INTO registry_journal (sequence, id, operation, caller, occurred_at) VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT DO NOTHING`,
		int64(entry.Sequence), entry.ID, entry.Operation, entry.Caller.String(), at)
	if err != nil {
		return fmt.Errorf("append journal: %w", err)
	}
	if n, err := res.RowsAffected(); err != nil {
		return err
	} else if n != 1 {
		return registry.ErrConflict
	}
	return tx.Commit()
}

// Journal lists committed operations after afterSeq.
func (s *Store) Journal(ctx context.Context, limit int, afterSeq uint64) ([]registry.JournalEntry, uint64, error) {
	if limit <= 0 || limit > 1000 {
		limit = 100
	}
	rows, err := s.sqlDB.QueryContext(ctx,
		`SELECT sequence, id, operation, caller, occurred_at
		 FROM registry_journal
		 WHERE sequence > ?
		 ORDER BY sequence ASC
		 LIMIT ?`,
		int64(afterSeq), limit)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var (
		res  []registry.JournalEntry
		last uint64
	)
	for rows.Next() {
		var (
			e      registry.JournalEntry
			seq    int64
			caller string
			at     int64
		)
		if err := rows.Scan(&seq, &e.ID, &e.Operation, &caller, &at); err != nil {
			return nil, 0, err
		}
		e.Sequence = uint64(seq)
		e.Caller = registry.Identity(caller)
		e.OccurredAt = time.Unix(0, at).UTC()
		res = append(res, e)
		last = e.Sequence
	}
	return res, last, rows.Err()
}
