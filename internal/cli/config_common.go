package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/vvka-141/sparkload/internal/config"
	"github.com/vvka-141/sparkload/internal/db"
	"github.com/vvka-141/sparkload/internal/logging"
	"github.com/vvka-141/sparkload/pkg/sparkload"
)

const defaultConfigName = config.DefaultFileName

// connectionFlags holds the common connection-related flag values.
type connectionFlags struct {
	connection     string
	host           string
	port           int
	username       string
	database       string
	sslMode        string
	aws            bool
	awsRegion      string
	azure          bool
	azureTenantID  string
	azureClientID  string
	googleInstance string
}

// addConnectionFlags registers the connection flags shared by load and schema.
func addConnectionFlags(cmd *cobra.Command, f *connectionFlags) {
	flags := cmd.Flags()

	flags.StringVar(&f.connection, "connection", "",
		"PostgreSQL connection string (URI, libpq key=value or ADO.NET format).\n"+
			"Mutually exclusive with -h, -p, -U and --sslmode.\n"+
			"Alternative: SPARKLOAD_CONNECTION_STRING or DATABASE_URL environment variable.\n"+
			"Example: postgresql://student@localhost:5432/sparkifydb")

	// Precedence: flag > environment variable > config file > default
	flags.StringVarP(&f.host, "host", "h", "",
		"PostgreSQL server host\n"+
			"Precedence: --host > $PGHOST > config > "+sparkload.DefaultHost)
	flags.IntVarP(&f.port, "port", "p", 0,
		"PostgreSQL server port\n"+
			"Precedence: --port > $PGPORT > config > 5432")
	flags.StringVarP(&f.username, "username", "U", "",
		"PostgreSQL user (default: $PGUSER, config, or "+sparkload.DefaultUser+")")
	flags.StringVarP(&f.database, "database", "d", "",
		"Target database (default: $PGDATABASE, config, or "+sparkload.DefaultDatabase+")\n"+
			"Also overrides the database of --connection")
	flags.StringVar(&f.sslMode, "sslmode", "",
		"SSL mode: disable|allow|prefer|require|verify-ca|verify-full\n"+
			"(default: prefer, or $PGSSLMODE)")

	flags.BoolVar(&f.aws, "aws", false,
		"Authenticate with an AWS RDS IAM token (region from --aws-region or $AWS_REGION)")
	flags.StringVar(&f.awsRegion, "aws-region", "", "AWS region of the RDS instance; implies --aws")
	flags.BoolVar(&f.azure, "azure", false,
		"Authenticate with Azure Entra ID\n"+
			"Uses DefaultAzureCredential unless a service principal is configured via $AZURE_*")
	flags.StringVar(&f.azureTenantID, "azure-tenant-id", "", "Azure AD tenant ID (overrides $AZURE_TENANT_ID)")
	flags.StringVar(&f.azureClientID, "azure-client-id", "", "Azure AD client ID (overrides $AZURE_CLIENT_ID)")
	flags.StringVar(&f.googleInstance, "google-instance", "",
		"Cloud SQL instance connection name (project:region:instance); enables Google IAM auth")

	cmd.RegisterFlagCompletionFunc("sslmode", completeSSLModes) //nolint:errcheck
}

// resolveConnection merges flags, environment and the config file into a connection config.
func resolveConnection(f connectionFlags, fileCfg *config.FileConfig, env *db.EnvVars) (*sparkload.ConnectionConfig, string, error) {
	var file *config.ConnectionConfig
	if fileCfg != nil {
		file = &fileCfg.Connection
	}
	return db.ResolveConnectionParams(db.ResolveInput{
		ConnectionString: f.connection,
		Flags: &db.GranularConnFlags{
			Host:     f.host,
			Port:     f.port,
			Username: f.username,
			Database: f.database,
			SSLMode:  f.sslMode,
		},
		Cloud: &db.CloudFlags{
			AWS:            f.aws,
			AWSRegion:      f.awsRegion,
			Azure:          f.azure,
			AzureTenantID:  f.azureTenantID,
			AzureClientID:  f.azureClientID,
			GoogleInstance: f.googleInstance,
		},
		Env:  env,
		File: file,
	})
}

// loadFileConfig loads .env and the YAML config. A missing default config
// file is not an error; a missing file named by --config is.
func loadFileConfig(cmd *cobra.Command) (*config.FileConfig, error) {
	if err := config.LoadDotEnv(); err != nil {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	path, explicit := configPath(cmd)
	fileCfg, err := config.Load(path)
	if err != nil {
		if errors.Is(err, config.ErrConfigNotFound) && !explicit {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load %s: %w: %w", path, sparkload.ErrInvalidConfig, err)
	}
	return fileCfg, nil
}

func configPath(cmd *cobra.Command) (string, bool) {
	if p, err := cmd.Flags().GetString("config"); err == nil && p != "" {
		return p, true
	}
	return defaultConfigName, false
}

// newLogger picks the log format: --log-format > config file > console.
func newLogger(cmd *cobra.Command, fileCfg *config.FileConfig) (sparkload.Logger, error) {
	format, _ := cmd.Flags().GetString("log-format")
	if format == "" && fileCfg != nil {
		format = fileCfg.Log.Format
	}
	return logging.New(format, getVerboseFlag(cmd))
}

// runContext bounds a command by timeout (zero means none) and cancels it on
// SIGINT or SIGTERM. The returned cancel func also stops signal delivery.
func runContext(timeout time.Duration, logger sparkload.Logger) (context.Context, context.CancelFunc) {
	var (
		ctx    context.Context
		cancel context.CancelFunc
	)
	if timeout > 0 {
		ctx, cancel = context.WithTimeout(context.Background(), timeout)
	} else {
		ctx, cancel = context.WithCancel(context.Background())
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		select {
		case <-sigChan:
			logger.Error("Received interrupt signal, rolling back the current file...")
			cancel()
		case <-ctx.Done():
		}
	}()

	return ctx, func() {
		signal.Stop(sigChan)
		cancel()
	}
}

// logConnectionVerbose logs connection details when verbose mode is enabled.
func logConnectionVerbose(logger sparkload.Logger, connConfig *sparkload.ConnectionConfig, maintenanceDB string) {
	logger.Verbose("Connection resolved: host=%s port=%d user=%s database=%s maintenance=%s sslmode=%s auth=%s",
		connConfig.Host, connConfig.Port, connConfig.Username, connConfig.Database,
		maintenanceDB, connConfig.SSLMode, connConfig.AuthMethod)
}
