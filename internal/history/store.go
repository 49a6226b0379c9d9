// Package history persists reconciliation run summaries in PostgreSQL.
//
// The store is optional: the shells only create one when a database URL is
// configured, and the service treats recording failures as warnings.
package history

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/JonMunkholm/bdcrecon/internal/core"
)

// ErrNotConfigured is returned by shells asked for history without a database.
var ErrNotConfigured = errors.New("history not configured")

// DefaultListLimit caps ListRuns when no limit is given.
const DefaultListLimit = 50

// MaxListLimit is the largest page ListRuns returns.
const MaxListLimit = 500

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS reconcile_runs (
		id          UUID PRIMARY KEY,
		started_at  TIMESTAMPTZ NOT NULL,
		duration_ms BIGINT NOT NULL,
		output      TEXT NOT NULL,
		source_rows JSONB NOT NULL DEFAULT '{}',
		skipped     TEXT[] NOT NULL DEFAULT '{}',
		global_rows INTEGER NOT NULL,
		error       TEXT,
		client_ip   TEXT,
		user_agent  TEXT,
		created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS reconcile_runs_started_at_idx ON reconcile_runs (started_at DESC)`,
}

const insertRunSQL = `INSERT INTO reconcile_runs
	(id, started_at, duration_ms, output, source_rows, skipped, global_rows, error, client_ip, user_agent)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

const listRunsSQL = `SELECT id::text, started_at, duration_ms, output, source_rows, skipped,
	global_rows, error, client_ip, user_agent
	FROM reconcile_runs ORDER BY started_at DESC LIMIT $1`

// DB is the subset of *pgxpool.Pool the store needs.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// Store records and lists reconciliation runs.
type Store struct {
	db DB
}

// NewStore creates a Store on db.
func NewStore(db DB) *Store {
	return &Store{db: db}
}

// EnsureSchema creates the reconcile_runs table when it does not exist.
func (s *Store) EnsureSchema(ctx context.Context) error {
	for _, stmt := range schemaStatements {
		if _, err := s.db.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("ensure history schema: %w", err)
		}
	}
	return nil
}

// RecordRun inserts one run summary. It implements core.RunRecorder.
func (s *Store) RecordRun(ctx context.Context, run core.RunResult) error {
	sourceRows := run.SourceRows
	if sourceRows == nil {
		sourceRows = map[string]int{}
	}
	rowsJSON, err := json.Marshal(sourceRows)
	if err != nil {
		return fmt.Errorf("encode source rows: %w", err)
	}
	skipped := run.Skipped
	if skipped == nil {
		skipped = []string{}
	}

	_, err = s.db.Exec(ctx, insertRunSQL,
		toPgUUID(run.RunID),
		pgtype.Timestamptz{Time: run.StartedAt, Valid: true},
		run.Duration.Milliseconds(),
		run.Output,
		rowsJSON,
		skipped,
		int32(run.GlobalRows),
		toPgText(run.Error),
		toPgText(run.ClientIP),
		toPgText(run.UserAgent),
	)
	if err != nil {
		return fmt.Errorf("record run %s: %w", run.RunID, err)
	}
	return nil
}

// ListRuns returns the most recent runs, newest first.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]core.RunResult, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	if limit > MaxListLimit {
		limit = MaxListLimit
	}

	rows, err := s.db.Query(ctx, listRunsSQL, limit)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	runs := make([]core.RunResult, 0)
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	return runs, nil
}

func scanRun(rows pgx.Rows) (core.RunResult, error) {
	var (
		id         string
		startedAt  time.Time
		durationMS int64
		output     string
		sourceRows []byte
		skipped    []string
		globalRows int32
		runErr     pgtype.Text
		clientIP   pgtype.Text
		userAgent  pgtype.Text
	)
	if err := rows.Scan(&id, &startedAt, &durationMS, &output, &sourceRows, &skipped,
		&globalRows, &runErr, &clientIP, &userAgent); err != nil {
		return core.RunResult{}, fmt.Errorf("scan run: %w", err)
	}

	run := core.RunResult{
		RunID:      id,
		StartedAt:  startedAt,
		Duration:   time.Duration(durationMS) * time.Millisecond,
		Output:     output,
		Skipped:    skipped,
		GlobalRows: int(globalRows),
		Error:      runErr.String,
		ClientIP:   clientIP.String,
		UserAgent:  userAgent.String,
	}
	if len(sourceRows) > 0 {
		if err := json.Unmarshal(sourceRows, &run.SourceRows); err != nil {
			return core.RunResult{}, fmt.Errorf("decode source rows of run %s: %w", id, err)
		}
	}
	return run, nil
}

func toPgText(s string) pgtype.Text {
	if s == "" {
		return pgtype.Text{Valid: false}
	}
	return pgtype.Text{String: s, Valid: true}
}

func toPgUUID(s string) pgtype.UUID {
	parsed, err := uuid.Parse(s)
	if err != nil {
		return pgtype.UUID{Valid: false}
	}
	return pgtype.UUID{Bytes: parsed, Valid: true}
}
