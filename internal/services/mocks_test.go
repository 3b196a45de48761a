package services

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/vvka-141/sparkload/pkg/sparkload"
)

type mockLogger struct {
	mu      sync.Mutex
	infos   []string
	errors  []string
	verbose []string
}

func (m *mockLogger) Verbose(format string, args ...interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.verbose = append(m.verbose, fmt.Sprintf(format, args...))
}

func (m *mockLogger) Info(format string, args ...interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.infos = append(m.infos, fmt.Sprintf(format, args...))
}

func (m *mockLogger) Error(format string, args ...interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errors = append(m.errors, fmt.Sprintf(format, args...))
}

// mockDB hands out mockTx values and counts their outcomes.
type mockDB struct {
	beginErr  error
	commitErr error
	execErr   error

	// songs maps "title|artist" to catalog ids for lookups.
	songs map[string][2]string

	begins     int
	commits    int
	rollbacks  int
	statements []string
	closed     int
}

func (m *mockDB) Begin(_ context.Context) (pgx.Tx, error) {
	if m.beginErr != nil {
		return nil, m.beginErr
	}
	m.begins++
	return &mockTx{db: m}, nil
}

func (m *mockDB) Exec(_ context.Context, sql string, _ ...any) (pgconn.CommandTag, error) {
	m.statements = append(m.statements, sql)
	return pgconn.CommandTag{}, m.execErr
}

func (m *mockDB) Close() { m.closed++ }

var _ Session = (*mockDB)(nil)

type mockTx struct {
	pgx.Tx
	db   *mockDB
	done bool
}

func (t *mockTx) Commit(_ context.Context) error {
	if t.done {
		return pgx.ErrTxClosed
	}
	t.done = true
	if t.db.commitErr != nil {
		return t.db.commitErr
	}
	t.db.commits++
	return nil
}

func (t *mockTx) Rollback(_ context.Context) error {
	if t.done {
		return pgx.ErrTxClosed
	}
	t.done = true
	t.db.rollbacks++
	return nil
}

func (t *mockTx) SendBatch(_ context.Context, b *pgx.Batch) pgx.BatchResults {
	for _, q := range b.QueuedQueries {
		t.db.statements = append(t.db.statements, q.SQL)
	}
	return &mockResults{}
}

func (t *mockTx) QueryRow(_ context.Context, _ string, args ...any) pgx.Row {
	key := fmt.Sprintf("%v|%v", args[0], args[1])
	if ids, ok := t.db.songs[key]; ok {
		return mockRow{ids: ids}
	}
	return mockRow{err: pgx.ErrNoRows}
}

type mockResults struct{}

func (r *mockResults) Exec() (pgconn.CommandTag, error) { return pgconn.NewCommandTag("INSERT 0 1"), nil }
func (r *mockResults) Query() (pgx.Rows, error)         { return nil, errors.New("not supported") }
func (r *mockResults) QueryRow() pgx.Row                { return nil }
func (r *mockResults) Close() error                     { return nil }

type mockRow struct {
	ids [2]string
	err error
}

func (r mockRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	*(dest[0].(*string)) = r.ids[0]
	*(dest[1].(*string)) = r.ids[1]
	return nil
}

type mockOpener struct {
	session Session
	err     error
	opened  []*sparkload.ConnectionConfig
}

func (m *mockOpener) Open(_ context.Context, cfg *sparkload.ConnectionConfig) (Session, error) {
	m.opened = append(m.opened, cfg)
	if m.err != nil {
		return nil, m.err
	}
	return m.session, nil
}

type mockConnector struct {
	pool   *pgxpool.Pool
	err    error
	closed bool
}

func (m *mockConnector) Connect(_ context.Context) (*pgxpool.Pool, error) {
	return m.pool, m.err
}

func (m *mockConnector) Close() error {
	m.closed = true
	return nil
}

type mockDatabaseManager struct {
	resetErr error
	reset    []string
}

func (m *mockDatabaseManager) Exists(_ context.Context, _ sparkload.DBConnection, _ string) (bool, error) {
	return false, nil
}

func (m *mockDatabaseManager) Create(_ context.Context, _ sparkload.DBConnection, _ string) error {
	return nil
}

func (m *mockDatabaseManager) Drop(_ context.Context, _ sparkload.DBConnection, _ string) error {
	return nil
}

func (m *mockDatabaseManager) TerminateConnections(_ context.Context, _ sparkload.DBConnection, _ string) error {
	return nil
}

func (m *mockDatabaseManager) Reset(_ context.Context, _ sparkload.DBConnection, dbName string) error {
	m.reset = append(m.reset, dbName)
	return m.resetErr
}
