package history

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JonMunkholm/bdcrecon/internal/core"
)

// ----- Fakes -----

type execCall struct {
	sql  string
	args []any
}

type fakeDB struct {
	execs    []execCall
	execErr  error
	rows     [][]any
	queryErr error
	limit    any
}

func (d *fakeDB) Exec(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	d.execs = append(d.execs, execCall{sql: sql, args: args})
	return pgconn.NewCommandTag("INSERT 0 1"), d.execErr
}

func (d *fakeDB) Query(_ context.Context, _ string, args ...any) (pgx.Rows, error) {
	if d.queryErr != nil {
		return nil, d.queryErr
	}
	if len(args) > 0 {
		d.limit = args[0]
	}
	return &fakeRows{values: d.rows, pos: -1}, nil
}

// fakeRows serves prepared values; Scan assigns them by reflection.
type fakeRows struct {
	pgx.Rows
	values [][]any
	pos    int
}

func (r *fakeRows) Close()     {}
func (r *fakeRows) Err() error { return nil }

func (r *fakeRows) Next() bool {
	r.pos++
	return r.pos < len(r.values)
}

func (r *fakeRows) Scan(dest ...any) error {
	row := r.values[r.pos]
	if len(dest) != len(row) {
		return errors.New("column count mismatch")
	}
	for i, v := range row {
		reflect.ValueOf(dest[i]).Elem().Set(reflect.ValueOf(v))
	}
	return nil
}

// ----- Store Tests -----

func TestStore_EnsureSchema(t *testing.T) {
	db := &fakeDB{}
	require.NoError(t, NewStore(db).EnsureSchema(context.Background()))

	require.Len(t, db.execs, len(schemaStatements))
	assert.Contains(t, db.execs[0].sql, "CREATE TABLE IF NOT EXISTS reconcile_runs")

	db.execErr = errors.New("permission denied for schema public")
	err := NewStore(db).EnsureSchema(context.Background())
	assert.ErrorContains(t, err, "ensure history schema")
}

func TestStore_RecordRun(t *testing.T) {
	db := &fakeDB{}
	runID := uuid.New()
	started := time.Date(2024, 2, 1, 9, 30, 0, 0, time.UTC)

	err := NewStore(db).RecordRun(context.Background(), core.RunResult{
		RunID:      runID.String(),
		StartedAt:  started,
		Duration:   1500 * time.Millisecond,
		Output:     "rapport.xlsx",
		SourceRows: map[string]int{"orders": 12},
		GlobalRows: 10,
		ClientIP:   "10.0.0.1",
	})
	require.NoError(t, err)
	require.Len(t, db.execs, 1)

	args := db.execs[0].args
	require.Len(t, args, 10)
	assert.Equal(t, pgtype.UUID{Bytes: runID, Valid: true}, args[0])
	assert.Equal(t, pgtype.Timestamptz{Time: started, Valid: true}, args[1])
	assert.Equal(t, int64(1500), args[2])
	assert.Equal(t, "rapport.xlsx", args[3])
	assert.JSONEq(t, `{"orders":12}`, string(args[4].([]byte)))
	assert.Equal(t, []string{}, args[5], "skipped is never NULL")
	assert.Equal(t, int32(10), args[6])
	assert.Equal(t, pgtype.Text{}, args[7], "no error is stored as NULL")
	assert.Equal(t, pgtype.Text{String: "10.0.0.1", Valid: true}, args[8])
}

func TestStore_RecordRun_Error(t *testing.T) {
	db := &fakeDB{execErr: errors.New("dial tcp: connection refused")}

	err := NewStore(db).RecordRun(context.Background(), core.RunResult{RunID: uuid.NewString()})
	require.Error(t, err)
	assert.Equal(t, "HIS002", core.MapError(err).Code)
}

func TestStore_ListRuns(t *testing.T) {
	started := time.Date(2024, 2, 1, 9, 30, 0, 0, time.UTC)
	rowsJSON, err := json.Marshal(map[string]int{"orders": 3, "invoices": 5})
	require.NoError(t, err)

	db := &fakeDB{rows: [][]any{
		{
			"6f1c1f40-8c1e-4f6b-9d55-1f1d2b3c4d5e", started, int64(2500), "out.xlsx", rowsJSON,
			[]string{"workflow"}, int32(3), pgtype.Text{}, pgtype.Text{String: "10.0.0.1", Valid: true}, pgtype.Text{},
		},
		{
			"0b9a0f0e-1111-4222-8333-444455556666", started.Add(-time.Hour), int64(10), "", []byte(nil),
			[]string{}, int32(0), pgtype.Text{String: "missing required source: Commande", Valid: true}, pgtype.Text{}, pgtype.Text{},
		},
	}}

	runs, err := NewStore(db).ListRuns(context.Background(), 0)
	require.NoError(t, err)
	assert.Equal(t, DefaultListLimit, db.limit)
	require.Len(t, runs, 2)

	assert.Equal(t, 2500*time.Millisecond, runs[0].Duration)
	assert.Equal(t, map[string]int{"orders": 3, "invoices": 5}, runs[0].SourceRows)
	assert.Equal(t, []string{"workflow"}, runs[0].Skipped)
	assert.Equal(t, "10.0.0.1", runs[0].ClientIP)
	assert.Empty(t, runs[0].Error)

	assert.Nil(t, runs[1].SourceRows)
	assert.True(t, strings.HasPrefix(runs[1].Error, "missing required source"))
}

func TestStore_ListRuns_Limit(t *testing.T) {
	db := &fakeDB{}

	_, err := NewStore(db).ListRuns(context.Background(), 10_000)
	require.NoError(t, err)
	assert.Equal(t, MaxListLimit, db.limit)

	db.queryErr = errors.New("connection refused")
	_, err = NewStore(db).ListRuns(context.Background(), 5)
	assert.ErrorContains(t, err, "list runs")
}

// TestStore_Postgres runs against a real database when
// BDCRECON_TEST_DATABASE_URL is set.
func TestStore_Postgres(t *testing.T) {
	url := os.Getenv("BDCRECON_TEST_DATABASE_URL")
	if url == "" {
		t.Skip("BDCRECON_TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, url)
	require.NoError(t, err)
	defer pool.Close()

	store := NewStore(pool)
	require.NoError(t, store.EnsureSchema(ctx))

	run := core.RunResult{
		RunID:      uuid.NewString(),
		StartedAt:  time.Now().Add(time.Hour).UTC().Truncate(time.Millisecond),
		Duration:   time.Second,
		Output:     "integration.xlsx",
		SourceRows: map[string]int{"orders": 1},
		GlobalRows: 1,
	}
	require.NoError(t, store.RecordRun(ctx, run))

	runs, err := store.ListRuns(ctx, 1)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, run.RunID, runs[0].RunID)
	assert.Equal(t, run.SourceRows, runs[0].SourceRows)

	_, err = pool.Exec(ctx, "DELETE FROM reconcile_runs WHERE id = $1", run.RunID)
	require.NoError(t, err)
}
