package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/vvka-141/sparkload/internal/retry"
	"github.com/vvka-141/sparkload/pkg/sparkload"
)

// Pool sizing. A load holds one dedicated connection for its whole run;
// the second slot serves the maintenance queries of `schema reset`.
const (
	DefaultMaxConns        = 2
	DefaultMinConns        = 1
	DefaultMaxConnIdleTime = 30 * time.Minute
)

func configurePool(poolConfig *pgxpool.Config, logger sparkload.Logger) {
	poolConfig.MaxConns = DefaultMaxConns
	poolConfig.MinConns = DefaultMinConns
	poolConfig.MaxConnIdleTime = DefaultMaxConnIdleTime
	poolConfig.ConnConfig.OnNotice = func(_ *pgconn.PgConn, notice *pgconn.Notice) {
		logger.Verbose("postgres %s: %s", notice.Severity, notice.Message)
	}
}

// newRetryExecutor builds the connect-time retry policy shared by all connectors.
func newRetryExecutor(logger sparkload.Logger) *retry.Executor {
	strategy := retry.NewExponentialBackoff(sparkload.DefaultRetryMaxAttempts,
		retry.WithInitialDelay(sparkload.DefaultRetryInitialDelay),
		retry.WithMaxDelay(sparkload.DefaultRetryMaxDelay),
	)
	return retry.NewExecutor(retry.NewPostgreSQLErrorClassifier(), strategy).
		WithOnRetry(func(attempt int, err error, delay time.Duration) {
			logger.Verbose("connection attempt %d failed, retrying in %v: %v", attempt+1, delay, err)
		})
}

// PasswordConnector opens a pool with a password. The password is either
// static (Standard, Certificate) or minted per attempt by a TokenProvider
// (AWS IAM, Azure Entra ID).
type PasswordConnector struct {
	config   *sparkload.ConnectionConfig
	tokens   TokenProvider
	executor *retry.Executor
	logger   sparkload.Logger
}

// NewStandardConnector connects with the configured username and password.
func NewStandardConnector(config *sparkload.ConnectionConfig, logger sparkload.Logger) *PasswordConnector {
	return &PasswordConnector{config: config, executor: newRetryExecutor(logger), logger: logger}
}

// NewTokenConnector connects with a fresh token from tokens as the password.
func NewTokenConnector(config *sparkload.ConnectionConfig, tokens TokenProvider, logger sparkload.Logger) *PasswordConnector {
	return &PasswordConnector{config: config, tokens: tokens, executor: newRetryExecutor(logger), logger: logger}
}

// Connect opens and pings a pool, retrying transient failures.
func (c *PasswordConnector) Connect(ctx context.Context) (*pgxpool.Pool, error) {
	var pool *pgxpool.Pool

	err := c.executor.Execute(ctx, func(ctx context.Context) error {
		cfg := *c.config
		if c.tokens != nil {
			token, expiresOn, err := c.tokens.GetToken(ctx)
			if err != nil {
				return fmt.Errorf("failed to acquire token from %s: %w", c.tokens, err)
			}
			if remaining := time.Until(expiresOn); remaining < 5*time.Minute {
				c.logger.Info("%s token expires in %v", c.tokens, remaining.Round(time.Second))
			}
			cfg.Password = token
		}

		poolConfig, err := pgxpool.ParseConfig(BuildConnectionString(&cfg))
		if err != nil {
			return fmt.Errorf("failed to parse connection config: %w", err)
		}
		configurePool(poolConfig, c.logger)

		p, err := pgxpool.NewWithConfig(ctx, poolConfig)
		if err != nil {
			return wrapConnectionError(err, cfg.Host, cfg.Port, cfg.Database)
		}
		if err := p.Ping(ctx); err != nil {
			p.Close()
			return wrapConnectionError(err, cfg.Host, cfg.Port, cfg.Database)
		}
		pool = p
		return nil
	})
	if err != nil {
		return nil, err
	}

	c.logger.Verbose("connected to %s:%d/%s as %s", c.config.Host, c.config.Port, c.config.Database, c.config.Username)
	return pool, nil
}

// NewConnector picks the connector for config.AuthMethod.
// It has the sparkload.ConnectorFactory shape once bound to a logger.
func NewConnector(config *sparkload.ConnectionConfig, logger sparkload.Logger) (sparkload.Connector, error) {
	if config == nil {
		return nil, fmt.Errorf("connection config is required: %w", sparkload.ErrInvalidConfig)
	}

	switch config.AuthMethod {
	case sparkload.AuthMethodStandard, sparkload.AuthMethodCertificate:
		return NewStandardConnector(config, logger), nil

	case sparkload.AuthMethodAWSIAM:
		tokens, err := NewAWSIAMTokenProvider(fmt.Sprintf("%s:%d", config.Host, config.Port), config.AWSRegion, config.Username)
		if err != nil {
			return nil, err
		}
		return NewTokenConnector(config, tokens, logger), nil

	case sparkload.AuthMethodAzureEntraID:
		tokens, err := newAzureTokenProvider(config)
		if err != nil {
			return nil, err
		}
		return NewTokenConnector(config, tokens, logger), nil

	case sparkload.AuthMethodGoogleIAM:
		if config.GoogleInstance == "" {
			return nil, fmt.Errorf("Google Cloud SQL IAM auth requires --google-instance (project:region:instance): %w", sparkload.ErrInvalidConfig)
		}
		if config.Username == "" {
			return nil, fmt.Errorf("Google Cloud SQL IAM auth requires a username (-U): %w", sparkload.ErrInvalidConfig)
		}
		return NewCloudSQLConnector(config, logger), nil

	default:
		return nil, fmt.Errorf("auth method %v: %w", config.AuthMethod, sparkload.ErrUnsupportedAuthMethod)
	}
}

// Factory binds logger into a sparkload.ConnectorFactory.
func Factory(logger sparkload.Logger) sparkload.ConnectorFactory {
	return func(config *sparkload.ConnectionConfig) (sparkload.Connector, error) {
		return NewConnector(config, logger)
	}
}

var _ sparkload.Connector = (*PasswordConnector)(nil)
