package services

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/vvka-141/sparkload/pkg/sparkload"
)

// Session is the scope-owned database handle of one run: a pool holding one
// acquired connection. Every transaction of the run begins on that connection.
type Session interface {
	sparkload.Transactor
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	// Close releases the connection, closes the pool and any connector
	// resources. It is safe to call more than once.
	Close()
}

// SessionOpener opens a Session on a resolved connection.
type SessionOpener interface {
	Open(ctx context.Context, connConfig *sparkload.ConnectionConfig) (Session, error)
}

// SessionManager connects through the configured ConnectorFactory.
//
// Panics if any dependency is nil. Panics indicate programmer error
// (incorrect dependency injection setup).
type SessionManager struct {
	connectorFactory sparkload.ConnectorFactory
	logger           sparkload.Logger
}

func NewSessionManager(connectorFactory sparkload.ConnectorFactory, logger sparkload.Logger) *SessionManager {
	if connectorFactory == nil {
		panic("connectorFactory cannot be nil")
	}
	if logger == nil {
		panic("logger cannot be nil")
	}
	return &SessionManager{connectorFactory: connectorFactory, logger: logger}
}

// Open connects to connConfig.Database and acquires the run's connection.
// The caller must Close the returned Session.
func (sm *SessionManager) Open(ctx context.Context, connConfig *sparkload.ConnectionConfig) (Session, error) {
	if connConfig == nil {
		return nil, fmt.Errorf("connection config is required: %w", sparkload.ErrInvalidConfig)
	}

	sm.logger.Verbose("Connecting to database '%s' on %s:%d (%s)", connConfig.Database, connConfig.Host, connConfig.Port, connConfig.AuthMethod)

	connector, err := sm.connectorFactory(connConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create connector: %w", err)
	}

	pool, err := connector.Connect(ctx)
	if err != nil {
		closeConnector(connector)
		return nil, fmt.Errorf("failed to connect to database %q: %w", connConfig.Database, err)
	}

	conn, err := pool.Acquire(ctx)
	if err != nil {
		pool.Close()
		closeConnector(connector)
		return nil, fmt.Errorf("failed to acquire connection: %w", err)
	}

	return &poolSession{pool: pool, conn: conn, connector: connector}, nil
}

// closeConnector releases dialers held by connectors such as Cloud SQL.
func closeConnector(c sparkload.Connector) {
	if closer, ok := c.(io.Closer); ok {
		closer.Close() //nolint:errcheck
	}
}

type poolSession struct {
	pool      *pgxpool.Pool
	conn      *pgxpool.Conn
	connector sparkload.Connector
	once      sync.Once
}

func (s *poolSession) Begin(ctx context.Context) (pgx.Tx, error) {
	return s.conn.Begin(ctx)
}

func (s *poolSession) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	return s.conn.Exec(ctx, sql, args...)
}

func (s *poolSession) Close() {
	s.once.Do(func() {
		s.conn.Release()
		s.pool.Close()
		closeConnector(s.connector)
	})
}
