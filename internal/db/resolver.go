package db

import (
	"fmt"
	"os"
	"strconv"

	"github.com/vvka-141/sparkload/internal/config"
	"github.com/vvka-141/sparkload/pkg/sparkload"
)

// GranularConnFlags are the libpq-style connection flags (-h, -p, -U, -d).
// There is deliberately no password flag: use $PGPASSWORD, ~/.pgpass or a
// connection string.
type GranularConnFlags struct {
	Host     string
	Port     int
	Username string
	Database string
	SSLMode  string
}

// IsEmpty reports whether no server-identifying flag was given.
// Database is excluded because it may override the database of a connection string.
func (g *GranularConnFlags) IsEmpty() bool {
	return g == nil || (g.Host == "" && g.Port == 0 && g.Username == "" && g.SSLMode == "")
}

// CloudFlags select a cloud IAM authentication method.
type CloudFlags struct {
	AWS            bool
	AWSRegion      string
	Azure          bool
	AzureTenantID  string
	AzureClientID  string
	GoogleInstance string
}

// EnvVars is a snapshot of the environment variables the resolver reads.
type EnvVars struct {
	ConnectionString string // SPARKLOAD_CONNECTION_STRING
	DatabaseURL      string // DATABASE_URL

	PGHost     string
	PGPort     string
	PGUser     string
	PGPassword string
	PGDatabase string
	PGSSLMode  string

	AWSRegion string // AWS_REGION, then AWS_DEFAULT_REGION

	AzureTenantID     string
	AzureClientID     string
	AzureClientSecret string
}

// LoadFromEnvironment captures the process environment.
func LoadFromEnvironment() *EnvVars {
	region := os.Getenv("AWS_REGION")
	if region == "" {
		region = os.Getenv("AWS_DEFAULT_REGION")
	}
	return &EnvVars{
		ConnectionString:  os.Getenv("SPARKLOAD_CONNECTION_STRING"),
		DatabaseURL:       os.Getenv("DATABASE_URL"),
		PGHost:            os.Getenv("PGHOST"),
		PGPort:            os.Getenv("PGPORT"),
		PGUser:            os.Getenv("PGUSER"),
		PGPassword:        os.Getenv("PGPASSWORD"),
		PGDatabase:        os.Getenv("PGDATABASE"),
		PGSSLMode:         os.Getenv("PGSSLMODE"),
		AWSRegion:         region,
		AzureTenantID:     os.Getenv("AZURE_TENANT_ID"),
		AzureClientID:     os.Getenv("AZURE_CLIENT_ID"),
		AzureClientSecret: os.Getenv("AZURE_CLIENT_SECRET"),
	}
}

// ResolveInput gathers every source of connection settings.
// Nil pointers are treated as empty.
type ResolveInput struct {
	ConnectionString string
	Flags            *GranularConnFlags
	Cloud            *CloudFlags
	Env              *EnvVars
	File             *config.ConnectionConfig
}

// ResolveConnectionParams merges connection settings with this precedence:
//
//  1. --connection
//  2. granular flags (-h, -p, -U, -d, --sslmode)
//  3. SPARKLOAD_CONNECTION_STRING, then DATABASE_URL, when no granular flag is set
//  4. PG* environment variables
//  5. sparkload.yaml
//  6. built-in defaults (127.0.0.1:5432/sparkifydb as student)
//
// It also returns the maintenance database used by `schema reset`.
func ResolveConnectionParams(in ResolveInput) (*sparkload.ConnectionConfig, string, error) {
	flags := in.Flags
	if flags == nil {
		flags = &GranularConnFlags{}
	}
	env := in.Env
	if env == nil {
		env = &EnvVars{}
	}
	file := in.File
	if file == nil {
		file = &config.ConnectionConfig{}
	}

	if in.ConnectionString != "" && !flags.IsEmpty() {
		return nil, "", fmt.Errorf("cannot combine --connection with -h, -p, -U or --sslmode: %w", sparkload.ErrInvalidConfig)
	}

	var (
		cfg *sparkload.ConnectionConfig
		err error
	)
	switch {
	case in.ConnectionString != "":
		cfg, err = resolveFromConnectionString(in.ConnectionString, env)
	case flags.IsEmpty() && env.ConnectionString != "":
		cfg, err = resolveFromConnectionString(env.ConnectionString, env)
	case flags.IsEmpty() && env.DatabaseURL != "":
		cfg, err = resolveFromConnectionString(env.DatabaseURL, env)
	default:
		cfg, err = resolveFromGranularParams(flags, env, file)
	}
	if err != nil {
		return nil, "", err
	}

	if flags.Database != "" {
		cfg.Database = flags.Database
	}

	if err := applyCloudAuth(cfg, in.Cloud, env, file); err != nil {
		return nil, "", err
	}

	maintenanceDB := file.ManagementDatabase
	if maintenanceDB == "" {
		maintenanceDB = sparkload.DefaultManagementDB
	}
	return cfg, maintenanceDB, nil
}

func resolveFromConnectionString(connStr string, env *EnvVars) (*sparkload.ConnectionConfig, error) {
	cfg, err := ParseConnectionString(connStr)
	if err != nil {
		return nil, fmt.Errorf("invalid connection string: %w", err)
	}
	if cfg.Password == "" {
		cfg.Password = env.PGPassword
	}
	return cfg, nil
}

func resolveFromGranularParams(flags *GranularConnFlags, env *EnvVars, file *config.ConnectionConfig) (*sparkload.ConnectionConfig, error) {
	cfg := &sparkload.ConnectionConfig{
		AuthMethod:       sparkload.AuthMethodStandard,
		AdditionalParams: make(map[string]string),
	}

	cfg.Host = firstNonEmpty(flags.Host, env.PGHost, file.Host, sparkload.DefaultHost)

	switch {
	case flags.Port != 0:
		cfg.Port = flags.Port
	case env.PGPort != "":
		port, err := strconv.Atoi(env.PGPort)
		if err != nil {
			return nil, fmt.Errorf("invalid $PGPORT value %q: must be an integer: %w", env.PGPort, sparkload.ErrInvalidConfig)
		}
		cfg.Port = port
	case file.Port != 0:
		cfg.Port = file.Port
	default:
		cfg.Port = sparkload.DefaultPort
	}

	cfg.Username = firstNonEmpty(flags.Username, env.PGUser, file.Username, sparkload.DefaultUser)
	cfg.Database = firstNonEmpty(flags.Database, env.PGDatabase, file.Database, sparkload.DefaultDatabase)
	cfg.SSLMode = firstNonEmpty(flags.SSLMode, env.PGSSLMode, file.SSLMode, "prefer")

	cfg.Password = env.PGPassword
	if cfg.Password == "" && cfg.Username == sparkload.DefaultUser {
		cfg.Password = sparkload.DefaultPassword
	}

	return cfg, nil
}

// applyCloudAuth switches the auth method when a cloud flag, Azure
// environment variable or yaml setting asks for it. Flags win over env,
// env wins over the file.
func applyCloudAuth(cfg *sparkload.ConnectionConfig, cloud *CloudFlags, env *EnvVars, file *config.ConnectionConfig) error {
	if cloud == nil {
		cloud = &CloudFlags{}
	}

	tenantID := firstNonEmpty(cloud.AzureTenantID, env.AzureTenantID, file.AzureTenantID)
	clientID := firstNonEmpty(cloud.AzureClientID, env.AzureClientID, file.AzureClientID)
	googleInstance := firstNonEmpty(cloud.GoogleInstance, file.GoogleInstance)
	useAzure := cloud.Azure || tenantID != "" || clientID != ""
	useAWS := cloud.AWS || cloud.AWSRegion != "" || file.AWSRegion != ""

	selected := 0
	for _, on := range []bool{useAWS, useAzure, googleInstance != ""} {
		if on {
			selected++
		}
	}
	if selected > 1 {
		return fmt.Errorf("choose only one of --aws, --azure and --google-instance: %w", sparkload.ErrInvalidConfig)
	}

	switch {
	case useAWS:
		cfg.AuthMethod = sparkload.AuthMethodAWSIAM
		cfg.AWSRegion = firstNonEmpty(cloud.AWSRegion, env.AWSRegion, file.AWSRegion)
		cfg.Password = ""
	case useAzure:
		cfg.AuthMethod = sparkload.AuthMethodAzureEntraID
		cfg.AzureTenantID = tenantID
		cfg.AzureClientID = clientID
		cfg.AzureClientSecret = env.AzureClientSecret
		cfg.Password = ""
	case googleInstance != "":
		cfg.AuthMethod = sparkload.AuthMethodGoogleIAM
		cfg.GoogleInstance = googleInstance
		cfg.Password = ""
	}
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
