package db

import (
	"context"
	"fmt"
	"net"

	"cloud.google.com/go/cloudsqlconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/vvka-141/sparkload/pkg/sparkload"
)

// CloudSQLConnector connects to Google Cloud SQL with IAM database
// authentication through the Cloud SQL Go connector.
//
// It implements io.Closer. Call Close after the pool is closed to release the dialer.
type CloudSQLConnector struct {
	config *sparkload.ConnectionConfig
	logger sparkload.Logger
	dialer *cloudsqlconn.Dialer
}

func NewCloudSQLConnector(config *sparkload.ConnectionConfig, logger sparkload.Logger) *CloudSQLConnector {
	return &CloudSQLConnector{config: config, logger: logger}
}

func (c *CloudSQLConnector) Connect(ctx context.Context) (*pgxpool.Pool, error) {
	dialer, err := cloudsqlconn.NewDialer(ctx, cloudsqlconn.WithIAMAuthN())
	if err != nil {
		return nil, fmt.Errorf("failed to create Cloud SQL dialer: %w", err)
	}

	// TLS is handled by the dialer.
	dsn := fmt.Sprintf("host=%s user=%s dbname=%s sslmode=disable", c.config.GoogleInstance, c.config.Username, c.config.Database)
	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		dialer.Close()
		return nil, fmt.Errorf("failed to parse connection config: %w", err)
	}

	instance := c.config.GoogleInstance
	poolConfig.ConnConfig.DialFunc = func(ctx context.Context, _, _ string) (net.Conn, error) {
		return dialer.Dial(ctx, instance)
	}
	configurePool(poolConfig, c.logger)

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		dialer.Close()
		return nil, fmt.Errorf("%w: %w", sparkload.ErrConnectionFailed, err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		dialer.Close()
		return nil, fmt.Errorf("%w: ping %s: %w", sparkload.ErrConnectionFailed, instance, err)
	}

	c.dialer = dialer
	return pool, nil
}

func (c *CloudSQLConnector) Close() error {
	if c.dialer != nil {
		err := c.dialer.Close()
		c.dialer = nil
		return err
	}
	return nil
}

var _ sparkload.Connector = (*CloudSQLConnector)(nil)
