package sparkload

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrorPolicy decides what the batch driver does when one file fails.
// The failing file's transaction is rolled back under every policy.
type ErrorPolicy int

const (
	// ErrorPolicyAbort stops the run at the first failing file.
	ErrorPolicyAbort ErrorPolicy = iota
	// ErrorPolicyContinue records the failure and moves on to the next file.
	ErrorPolicyContinue
)

// String returns the flag spelling of the policy.
func (p ErrorPolicy) String() string {
	switch p {
	case ErrorPolicyAbort:
		return "abort"
	case ErrorPolicyContinue:
		return "continue"
	default:
		return fmt.Sprintf("Unknown(%d)", p)
	}
}

// ParseErrorPolicy converts "abort" or "continue" into an ErrorPolicy.
// An empty string yields the default, ErrorPolicyAbort.
func ParseErrorPolicy(s string) (ErrorPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "abort":
		return ErrorPolicyAbort, nil
	case "continue":
		return ErrorPolicyContinue, nil
	default:
		return ErrorPolicyAbort, fmt.Errorf("unknown error policy %q (want abort or continue): %w", s, ErrInvalidConfig)
	}
}

// DatasetKind distinguishes the two input datasets.
type DatasetKind int

const (
	DatasetCatalog DatasetKind = iota // song_data: one song + artist per file
	DatasetEvents                     // log_data: newline-delimited listening events
)

// String returns a human-readable name for the dataset kind.
func (k DatasetKind) String() string {
	switch k {
	case DatasetCatalog:
		return "catalog"
	case DatasetEvents:
		return "events"
	default:
		return fmt.Sprintf("Unknown(%d)", k)
	}
}

// Dataset names one input tree.
type Dataset struct {
	Kind DatasetKind
	// Root is a local directory or an s3://bucket/prefix URL.
	Root string
}

// LoadConfig contains all parameters needed for a load run.
type LoadConfig struct {
	// Connection is the resolved target database connection.
	Connection *ConnectionConfig

	// SongDataPath is the catalog dataset root.
	SongDataPath string

	// LogDataPath is the event-log dataset root.
	LogDataPath string

	// Extension is the file extension matched during discovery (".json").
	Extension string

	// OnError selects per-file failure handling.
	OnError ErrorPolicy

	// CreateSchema runs CREATE TABLE IF NOT EXISTS before loading.
	CreateSchema bool

	// Timeout bounds the entire run.
	Timeout time.Duration

	// Verbose enables detailed logging
	Verbose bool
}

// Datasets returns the two datasets in the order they must be loaded.
// The event pass resolves songs against the catalog, so the catalog goes first.
func (c *LoadConfig) Datasets() []Dataset {
	return []Dataset{
		{Kind: DatasetCatalog, Root: c.SongDataPath},
		{Kind: DatasetEvents, Root: c.LogDataPath},
	}
}

// Validate checks if the LoadConfig has all required fields and valid values.
// It returns a multi-error if multiple validation failures occur.
func (c *LoadConfig) Validate() error {
	var errs []error

	if c.Connection == nil {
		errs = append(errs, fmt.Errorf("Connection is required: %w", ErrInvalidConfig))
	}
	if c.SongDataPath == "" {
		errs = append(errs, fmt.Errorf("SongDataPath is required: %w", ErrInvalidConfig))
	}
	if c.LogDataPath == "" {
		errs = append(errs, fmt.Errorf("LogDataPath is required: %w", ErrInvalidConfig))
	}
	if c.Extension != "" && !strings.HasPrefix(c.Extension, ".") {
		errs = append(errs, fmt.Errorf("extension %q must start with a dot: %w", c.Extension, ErrInvalidConfig))
	}
	if c.Timeout < 0 {
		errs = append(errs, fmt.Errorf("timeout cannot be negative: %w", ErrInvalidConfig))
	}

	return errors.Join(errs...)
}

// ConnectionConfig represents parsed connection parameters.
type ConnectionConfig struct {
	Host     string
	Port     int
	Database string
	Username string
	Password string
	SSLMode  string

	// AuthMethod indicates the authentication mechanism to use
	AuthMethod AuthMethod

	// Client certificate settings for mTLS
	SSLCert     string
	SSLKey      string
	SSLRootCert string

	AppName          string
	ConnectTimeout   time.Duration
	AdditionalParams map[string]string

	// AWSRegion is required for AuthMethodAWSIAM.
	AWSRegion string

	// GoogleInstance is the Cloud SQL instance connection name (project:region:instance).
	GoogleInstance string

	// Azure Entra ID parameters. If all three are set a Service Principal is used,
	// otherwise the DefaultAzureCredential chain.
	AzureTenantID     string
	AzureClientID     string
	AzureClientSecret string
}

// AuthMethod represents the type of authentication to use.
type AuthMethod int

const (
	AuthMethodStandard     AuthMethod = iota // Username/Password
	AuthMethodCertificate                    // mTLS
	AuthMethodAWSIAM                         // AWS IAM Database Authentication
	AuthMethodGoogleIAM                      // Google Cloud SQL IAM
	AuthMethodAzureEntraID                   // Azure Active Directory (Entra ID)
)

// String returns a human-readable string representation of the AuthMethod.
func (a AuthMethod) String() string {
	switch a {
	case AuthMethodStandard:
		return "Standard"
	case AuthMethodCertificate:
		return "Certificate"
	case AuthMethodAWSIAM:
		return "AWS IAM"
	case AuthMethodGoogleIAM:
		return "Google IAM"
	case AuthMethodAzureEntraID:
		return "Azure Entra ID"
	default:
		return fmt.Sprintf("Unknown(%d)", a)
	}
}
