package sparkload

import (
	"errors"
	"strings"
)

// Sentinel errors for common failure scenarios.
// These enable callers to distinguish error types using errors.Is().
//
// Example usage:
//
//	_, err := pipeline.Run(ctx, cfg)
//	if errors.Is(err, sparkload.ErrPartialLoad) {
//	    // Some files were rolled back, the rest committed
//	}
var (
	// ErrInvalidConfig indicates the provided configuration is invalid.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrConnectionFailed indicates database connection failed.
	ErrConnectionFailed = errors.New("connection failed")

	// ErrUnsupportedAuthMethod indicates the requested authentication method is not supported.
	ErrUnsupportedAuthMethod = errors.New("unsupported authentication method")

	// ErrSourceNotFound indicates a dataset root does not exist.
	// An existing root with zero matching files is not an error.
	ErrSourceNotFound = errors.New("source not found")

	// ErrMalformedRecord indicates a file could not be decoded as JSON records.
	ErrMalformedRecord = errors.New("malformed record")

	// ErrMissingField indicates a record lacks a required field.
	ErrMissingField = errors.New("missing required field")

	// ErrFileFailed indicates a file failed and the batch stopped.
	ErrFileFailed = errors.New("file failed")

	// ErrNotApproved indicates a destructive operation was declined at the confirmation prompt.
	ErrNotApproved = errors.New("operation not approved")

	// ErrPartialLoad indicates one or more files failed while the rest were committed.
	ErrPartialLoad = errors.New("partial load")
)

// usageErrorPatterns are the message prefixes cobra uses for argument and flag misuse.
var usageErrorPatterns = []string{
	"unknown flag",
	"unknown shorthand flag",
	"unknown command",
	"accepts ",
	"requires at least",
	"required flag",
	"invalid argument",
	"flag needs an argument",
}

// ExitCodeForError returns the appropriate exit code for an error.
// Returns ExitSuccess (0) for nil errors, semantic codes for known errors,
// and ExitGeneralError (1) for unclassified errors.
func ExitCodeForError(err error) int {
	if err == nil {
		return ExitSuccess
	}

	switch {
	case errors.Is(err, ErrInvalidConfig), errors.Is(err, ErrUnsupportedAuthMethod):
		return ExitConfigError
	case errors.Is(err, ErrConnectionFailed):
		return ExitConnectionError
	case errors.Is(err, ErrSourceNotFound):
		return ExitSourceMissing
	case errors.Is(err, ErrPartialLoad):
		return ExitPartialLoad
	case errors.Is(err, ErrFileFailed):
		return ExitFileFailed
	}

	errStr := err.Error()
	for _, p := range usageErrorPatterns {
		if strings.HasPrefix(errStr, p) {
			return ExitUsageError
		}
	}

	if strings.Contains(errStr, "failed to connect") ||
		strings.Contains(errStr, "connection refused") ||
		strings.Contains(errStr, "no such host") {
		return ExitConnectionError
	}

	return ExitGeneralError
}
