package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vvka-141/sparkload/internal/db"
	"github.com/vvka-141/sparkload/internal/db/manager"
	"github.com/vvka-141/sparkload/internal/services"
	"github.com/vvka-141/sparkload/internal/ui"
	"github.com/vvka-141/sparkload/pkg/sparkload"
)

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Manage the target tables and database",
}

var schemaCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create the five tables if they do not exist",
	Long: `Create runs CREATE TABLE IF NOT EXISTS for songs, artists, users, time and
songplays in the target database. With --drop, the tables and all their rows
are dropped first.`,
	Args: cobra.NoArgs,
	RunE: runSchemaCreate,
}

var schemaResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Drop and recreate the target database, then create the tables",
	Long: `Reset connects to the maintenance database (management_database in the config
file, default postgres), terminates other sessions on the target database,
drops it, creates it empty and creates the tables.

All data in the target database is lost. You are asked to type the database
name to confirm; --force replaces the prompt with a short countdown.`,
	Args: cobra.NoArgs,
	RunE: runSchemaReset,
}

type schemaFlagValues struct {
	conn  connectionFlags
	drop  bool
	force bool
}

var schemaFlags schemaFlagValues

func init() {
	rootCmd.AddCommand(schemaCmd)
	schemaCmd.AddCommand(schemaCreateCmd, schemaResetCmd)

	addConnectionFlags(schemaCreateCmd, &schemaFlags.conn)
	addConnectionFlags(schemaResetCmd, &schemaFlags.conn)

	schemaCreateCmd.Flags().BoolVar(&schemaFlags.drop, "drop", false,
		"Drop the tables before creating them (all rows are lost)")
	for _, cmd := range []*cobra.Command{schemaCreateCmd, schemaResetCmd} {
		cmd.Flags().BoolVar(&schemaFlags.force, "force", false,
			"Skip the confirmation prompt for destructive operations (5 second countdown instead)")
	}
}

// confirm asks before a destructive operation on dbName.
func confirm(ctx context.Context, dbName, action string, verbose bool) error {
	approver, err := ui.NewApprover(schemaFlags.force, verbose)
	if err != nil {
		return err
	}
	approved, err := approver.RequestApproval(ctx, dbName, action)
	if err != nil {
		return err
	}
	if !approved {
		return fmt.Errorf("%s in %q: %w", action, dbName, sparkload.ErrNotApproved)
	}
	return nil
}

func newSchemaService(logger sparkload.Logger) *services.SchemaService {
	factory := db.Factory(logger)
	return services.NewSchemaService(factory, services.NewSessionManager(factory, logger), manager.New(), logger)
}

func runSchemaCreate(cmd *cobra.Command, args []string) error {
	fileCfg, err := loadFileConfig(cmd)
	if err != nil {
		return err
	}
	logger, err := newLogger(cmd, fileCfg)
	if err != nil {
		return err
	}

	connConfig, maintenanceDB, err := resolveConnection(schemaFlags.conn, fileCfg, db.LoadFromEnvironment())
	if err != nil {
		return err
	}
	logConnectionVerbose(logger, connConfig, maintenanceDB)

	ctx, cancel := runContext(sparkload.DefaultTimeout, logger)
	defer cancel()

	if schemaFlags.drop {
		if err := confirm(ctx, connConfig.Database, "drop all tables", getVerboseFlag(cmd)); err != nil {
			return err
		}
	}

	if err := newSchemaService(logger).Create(ctx, connConfig, schemaFlags.drop); err != nil {
		return fmt.Errorf("schema create failed: %w", err)
	}
	return nil
}

func runSchemaReset(cmd *cobra.Command, args []string) error {
	fileCfg, err := loadFileConfig(cmd)
	if err != nil {
		return err
	}
	logger, err := newLogger(cmd, fileCfg)
	if err != nil {
		return err
	}

	connConfig, maintenanceDB, err := resolveConnection(schemaFlags.conn, fileCfg, db.LoadFromEnvironment())
	if err != nil {
		return err
	}
	logConnectionVerbose(logger, connConfig, maintenanceDB)

	ctx, cancel := runContext(sparkload.DefaultTimeout, logger)
	defer cancel()

	if err := confirm(ctx, connConfig.Database, "drop and recreate the database", getVerboseFlag(cmd)); err != nil {
		return err
	}

	if err := newSchemaService(logger).Reset(ctx, connConfig, maintenanceDB); err != nil {
		return fmt.Errorf("schema reset failed: %w", err)
	}
	return nil
}
