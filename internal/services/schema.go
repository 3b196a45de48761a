package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/vvka-141/sparkload/internal/db"
	"github.com/vvka-141/sparkload/internal/store"
	"github.com/vvka-141/sparkload/pkg/sparkload"
)

type managementDBConnFunc func(ctx context.Context, connConfig *sparkload.ConnectionConfig, dbName string) (sparkload.DBConnection, func(), error)

// SchemaService creates the tables, and drops and recreates the target
// database through the maintenance database.
type SchemaService struct {
	connectorFactory sparkload.ConnectorFactory
	sessions         SessionOpener
	dbManager        sparkload.DatabaseManager
	schema           *store.Schema
	logger           sparkload.Logger
	mgmtConnector    managementDBConnFunc
}

func NewSchemaService(connectorFactory sparkload.ConnectorFactory, sessions SessionOpener, dbManager sparkload.DatabaseManager, logger sparkload.Logger) *SchemaService {
	if connectorFactory == nil {
		panic("connectorFactory cannot be nil")
	}
	if sessions == nil {
		panic("sessions cannot be nil")
	}
	if dbManager == nil {
		panic("dbManager cannot be nil")
	}
	if logger == nil {
		panic("logger cannot be nil")
	}

	svc := &SchemaService{
		connectorFactory: connectorFactory,
		sessions:         sessions,
		dbManager:        dbManager,
		schema:           store.NewSchema(),
		logger:           logger,
	}
	svc.mgmtConnector = svc.defaultMgmtConnector
	return svc
}

func (s *SchemaService) defaultMgmtConnector(ctx context.Context, connConfig *sparkload.ConnectionConfig, dbName string) (sparkload.DBConnection, func(), error) {
	mgmtConfig := *connConfig
	mgmtConfig.Database = dbName

	connector, err := s.connectorFactory(&mgmtConfig)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create connector: %w", err)
	}

	pool, err := connector.Connect(ctx)
	if err != nil {
		closeConnector(connector)
		return nil, nil, fmt.Errorf("failed to connect to management database: %w", err)
	}

	cleanup := func() {
		pool.Close()
		closeConnector(connector)
	}
	return db.NewPoolAdapter(pool), cleanup, nil
}

// Create creates the tables in connConfig.Database, dropping them first when drop is set.
func (s *SchemaService) Create(ctx context.Context, connConfig *sparkload.ConnectionConfig, drop bool) error {
	session, err := s.sessions.Open(ctx, connConfig)
	if err != nil {
		return err
	}
	defer session.Close()

	if drop {
		s.logger.Verbose("Dropping tables in '%s'", connConfig.Database)
		if err := s.schema.Drop(ctx, session); err != nil {
			return err
		}
	}

	if err := s.schema.Create(ctx, session); err != nil {
		return err
	}
	s.logger.Info("✓ Tables ready in database '%s'", connConfig.Database)
	return nil
}

func validateResetTarget(targetDB, managementDB string) error {
	if strings.EqualFold(targetDB, managementDB) {
		return fmt.Errorf(
			"cannot reset database %q: it is the maintenance database used to drop and create it: %w",
			targetDB, sparkload.ErrInvalidConfig,
		)
	}
	switch strings.ToLower(targetDB) {
	case "template0", "template1":
		return fmt.Errorf("cannot reset template database %q: %w", targetDB, sparkload.ErrInvalidConfig)
	}
	return nil
}

// Reset drops connConfig.Database if it exists, creates it empty through
// managementDB, and creates the tables.
func (s *SchemaService) Reset(ctx context.Context, connConfig *sparkload.ConnectionConfig, managementDB string) error {
	if managementDB == "" {
		managementDB = sparkload.DefaultManagementDB
	}
	if err := validateResetTarget(connConfig.Database, managementDB); err != nil {
		return err
	}

	s.logger.Verbose("Connecting to maintenance database '%s'", managementDB)
	dbConn, cleanup, err := s.mgmtConnector(ctx, connConfig, managementDB)
	if err != nil {
		return err
	}
	defer cleanup()

	if err := s.dbManager.Reset(ctx, dbConn, connConfig.Database); err != nil {
		return fmt.Errorf("failed to reset database %q: %w", connConfig.Database, err)
	}
	s.logger.Info("✓ Database '%s' recreated", connConfig.Database)

	return s.Create(ctx, connConfig, false)
}
