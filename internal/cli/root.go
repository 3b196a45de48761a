package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "sparkload",
	Short: "Load Sparkify song and listening-event JSON into PostgreSQL",
	Long: `sparkload extracts the Sparkify song catalog and listening-event logs from
JSON files, reshapes them into a star schema (songplays fact table with songs,
artists, users and time dimensions) and loads them into PostgreSQL.

Run without a subcommand to load data/song_data and data/log_data into
sparkifydb on 127.0.0.1 with the default configuration.

Each source file is committed in its own transaction. The song catalog is
loaded before the event logs so song plays can be matched to it.

Exit Codes:
  0  - Success
  1  - General error
  2  - CLI usage error (invalid arguments or flags)
  3  - Panic or unexpected system error
  10 - Invalid configuration
  11 - Database connection failed
  12 - Dataset root not found
  13 - A file failed and the load stopped (--on-error=abort)
  14 - Some files failed and were skipped (--on-error=continue)`,
	Args:         cobra.NoArgs,
	SilenceUsage: true,
	RunE:         runLoad,
}

// Execute runs the root command
func Execute() error {
	if len(os.Args) > 1 && os.Args[1] == "--version" {
		printVersionInfo(os.Stdout)
		return nil
	}
	return rootCmd.Execute()
}

func init() {
	// -h is --host, as in psql.
	rootCmd.PersistentFlags().Bool("help", false, "Help for sparkload")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose output for all commands")
	rootCmd.PersistentFlags().String("log-format", "", "Diagnostic log format: console|json (default console, or log.format in the config file)")
	rootCmd.PersistentFlags().String("config", "", "Path to the YAML config file (default ./"+defaultConfigName+" if present)")

	rootCmd.RegisterFlagCompletionFunc("log-format", completeLogFormats) //nolint:errcheck
}

// getVerboseFlag safely retrieves the verbose flag value
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Failed to get verbose flag: %v\n", err)
		return false
	}
	return verbose
}
