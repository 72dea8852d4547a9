package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PGStore stores audit records in the audit_records table.
type PGStore struct {
	pool *pgxpool.Pool
}

// NewPGStore constructs a PostgreSQL audit store.
func NewPGStore(pool *pgxpool.Pool) *PGStore {
	return &PGStore{pool: pool}
}

// Insert writes a record. Snapshots are stored as JSONB and a nil snapshot as
// NULL. A record whose id already exists is left as is, so a retried queue
// task does not fail on the primary key.
func (s *PGStore) Insert(ctx context.Context, rec Record) error {
	before, err := encodeSnapshot(rec.Before)
	if err != nil {
		return err
	}
	after, err := encodeSnapshot(rec.After)
	if err != nil {
		return err
	}
	_, err = s.pool.Exec(ctx, `INSERT INTO audit_records
		(id, actor_id, action, entity_type, entity_id, before, after, ip, user_agent, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (id) DO NOTHING`,
		rec.ID, rec.ActorID, string(rec.Action), rec.EntityType, rec.EntityID,
		before, after, rec.IP, rec.UserAgent, rec.CreatedAt)
	if err != nil {
		return fmt.Errorf("audit: insert %s %s: %w", rec.EntityType, rec.EntityID, err)
	}
	return nil
}

// List returns records matching f, newest first.
func (s *PGStore) List(ctx context.Context, f Filters, limit, offset int) ([]Record, error) {
	where, args := filterClause(f)
	args = append(args, limit, offset)
	query := fmt.Sprintf(`SELECT %s FROM audit_records%s ORDER BY created_at DESC, id DESC LIMIT $%d OFFSET $%d`,
		recordColumns, where, len(args)-1, len(args))
	return s.query(ctx, query, args...)
}

// ListAll returns every record matching f, newest first.
func (s *PGStore) ListAll(ctx context.Context, f Filters) ([]Record, error) {
	where, args := filterClause(f)
	query := fmt.Sprintf(`SELECT %s FROM audit_records%s ORDER BY created_at DESC, id DESC`, recordColumns, where)
	return s.query(ctx, query, args...)
}

const recordColumns = `id, actor_id, action, entity_type, entity_id, before, after, ip, user_agent, created_at`

func (s *PGStore) query(ctx context.Context, query string, args ...any) ([]Record, error) {
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("audit: query: %w", err)
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func scanRecord(row pgx.Row) (Record, error) {
	var (
		rec           Record
		action        string
		before, after []byte
		createdAt     pgtype.Timestamptz
	)
	if err := row.Scan(&rec.ID, &rec.ActorID, &action, &rec.EntityType, &rec.EntityID,
		&before, &after, &rec.IP, &rec.UserAgent, &createdAt); err != nil {
		return Record{}, fmt.Errorf("audit: scan: %w", err)
	}
	rec.Action = Action(action)
	rec.CreatedAt = createdAt.Time
	var err error
	if rec.Before, err = decodeSnapshot(before); err != nil {
		return Record{}, err
	}
	if rec.After, err = decodeSnapshot(after); err != nil {
		return Record{}, err
	}
	return rec, nil
}

func filterClause(f Filters) (string, []any) {
	var (
		conds []string
		args  []any
	)
	add := func(cond string, v any) {
		args = append(args, v)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}
	if v := strings.TrimSpace(f.ActorID); v != "" {
		add("actor_id = $%d", v)
	}
	if v := strings.TrimSpace(f.EntityType); v != "" {
		add("entity_type = $%d", v)
	}
	if v := strings.TrimSpace(f.EntityID); v != "" {
		add("entity_id = $%d", v)
	}
	if f.Action != "" {
		add("action = $%d", string(f.Action))
	}
	if !f.From.IsZero() {
		add("created_at >= $%d", f.From)
	}
	if !f.To.IsZero() {
		add("created_at < $%d", f.To)
	}
	if len(conds) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func encodeSnapshot(m map[string]any) ([]byte, error) {
	if m == nil {
		return nil, nil
	}
	raw, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("audit: encode snapshot: %w", err)
	}
	return raw, nil
}

func decodeSnapshot(raw []byte) (map[string]any, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("audit: decode snapshot: %w", err)
	}
	return m, nil
}

var (
	_ Store      = (*PGStore)(nil)
	_ Repository = (*PGStore)(nil)
)
