package pg

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"

	"entertablock.io/internal/migrate"
	"entertablock.io/internal/registry"
)

//go:embed migrations/*.sql
var Migrations embed.FS

const uniqueViolation = "23505"

// Store persists registry snapshots and the operation journal in PostgreSQL.
type Store struct {
	db *sql.DB
}

var _ registry.Store = (*Store)(nil)

func Open(dsn string) (*Store, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	// Tuned pool defaults; adjust under load tests
	db.SetMaxOpenConns(50)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(15 * time.Minute)
	db.SetConnMaxIdleTime(5 * time.Minute)
	return &Store{db: db}, nil
}

// New wraps an existing handle.
func New(db *sql.DB) *Store { return &Store{db: db} }

func (s *Store) Close() error { return s.db.Close() }

func (s *Store) DB() *sql.DB { return s.db }

// Migrate applies the embedded schema.
func (s *Store) Migrate(ctx context.Context) ([]string, error) {
	return migrate.NewManager(s.db, Migrations, migrate.WithDir("migrations")).Up(ctx)
}

func (s *Store) Ping(ctx context.Context) error { return s.db.PingContext(ctx) }

func (s *Store) Load(ctx context.Context) (*registry.State, error) {
	var (
		seq    uint64
		data   []byte
		digest string
	)
	err := s.db.QueryRowContext(ctx, `select sequence, snapshot, digest from registry_state where id = 1`).
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
	if st.Sequence != seq {
		return nil, registry.ErrCorruptSnapshot
	}
	return st, nil
}

func (s *Store) Save(ctx context.Context, st *registry.State, entry registry.JournalEntry) error {
	data, digest, err := registry.EncodeSnapshot(st)
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	var res sql.Result
	if entry.Sequence == 1 {
		res, err = tx.ExecContext(ctx, `
			insert into registry_state(id, sequence, snapshot, digest, updated_at)
			values (1, $1, $2, $3, $4)
			on conflict (id) do nothing
		`, entry.Sequence, data, digest, entry.OccurredAt)
	} else {
		res, err = tx.ExecContext(ctx, `
			update registry_state
			set sequence = $1, snapshot = $2, digest = $3, updated_at = $4
			where id = 1 and sequence = $5
		`, entry.Sequence, data, digest, entry.OccurredAt, entry.Sequence-1)
	}
	if err != nil {
		return fmt.Errorf("write registry state: %w", err)
	}
	if n, err := res.RowsAffected(); err != nil {
		return err
	} else if n != 1 {
		return registry.ErrConflict
	}

	if _, err := tx.ExecContext(ctx, `
		insert into registry_journal(sequence, id, operation, caller, occurred_at)
		values ($1, $2, $3, $4, $5)
	`, entry.Sequence, entry.ID, entry.Operation, entry.Caller.String(), entry.OccurredAt); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return registry.ErrConflict
		}
		return fmt.Errorf("append journal: %w", err)
	}
	return tx.Commit()
}

// Journal lists committed operations after afterSeq.
func (s *Store) Journal(ctx context.Context, limit int, afterSeq uint64) ([]registry.JournalEntry, uint64, error) {
	if limit <= 0 || limit > 1000 {
		limit = 100
	}
	rows, err := s.db.QueryContext(ctx, `
		select sequence, id, operation, caller, occurred_at
		from registry_journal
		where sequence > $1
		order by sequence asc
		limit $2
	`, afterSeq, limit)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var res []registry.JournalEntry
	var last uint64
	for rows.Next() {
		var e registry.JournalEntry
		var caller string
		if err := rows.Scan(&e.Sequence, &e.ID, &e.Operation, &caller, &e.OccurredAt); err != nil {
			return nil, 0, err
		}
		e.Caller = registry.Identity(caller)
		res = append(res, e)
		last = e.Sequence
	}
	return res, last, rows.Err()
}
