package sparkload

import "time"

// Exit codes for semantic error classification.
// These follow Unix/GNU conventions:
//   - 0: Success
//   - 1: General error
//   - 2: CLI usage error (misuse of command line)
//   - 3+: Application-specific errors
const (
	ExitSuccess         = 0  // Load completed successfully
	ExitGeneralError    = 1  // Unknown or unclassified error
	ExitUsageError      = 2  // CLI usage error (invalid args, invalid flags)
	ExitPanic           = 3  // Internal panic (unexpected crash)
	ExitConfigError     = 10 // Invalid configuration
	ExitConnectionError = 11 // Failed to connect to database
	ExitSourceMissing   = 12 // Dataset root does not exist
	ExitFileFailed      = 13 // A file failed and the batch was aborted
	ExitPartialLoad     = 14 // Some files failed under the continue policy
)

const (
	// DefaultSongDataPath is the catalog dataset root used when none is configured.
	DefaultSongDataPath = "data/song_data"

	// DefaultLogDataPath is the event-log dataset root used when none is configured.
	DefaultLogDataPath = "data/log_data"

	// DefaultExtension is the file extension matched by discovery.
	DefaultExtension = ".json"

	// NextSongPage is the page value that marks a song-play event.
	NextSongPage = "NextSong"

	// DefaultTimeout bounds the whole run.
	DefaultTimeout = 30 * time.Minute

	// DefaultRetryInitialDelay is the default initial delay before the first retry attempt.
	DefaultRetryInitialDelay = 100 * time.Millisecond

	// DefaultRetryMaxDelay is the default maximum delay between retry attempts.
	DefaultRetryMaxDelay = 1 * time.Minute

	// DefaultRetryMaxAttempts is the default maximum number of connection retries.
	DefaultRetryMaxAttempts = 3

	// DefaultManagementDB is the database used to drop and create the target database.
	DefaultManagementDB = "postgres"

	// DefaultForceApprovalCountdown is how long --force waits before a destructive schema operation.
	DefaultForceApprovalCountdown = 5 * time.Second
)

// Connection defaults. They match the course database the dataset ships with,
// so a bare `sparkload` run needs no configuration.
const (
	DefaultHost     = "127.0.0.1"
	DefaultPort     = 5432
	DefaultDatabase = "sparkifydb"
	DefaultUser     = "student"
	DefaultPassword = "student"
)
