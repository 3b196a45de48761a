package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/vvka-141/sparkload/internal/config"
	"github.com/vvka-141/sparkload/internal/db"
	"github.com/vvka-141/sparkload/internal/files/discovery"
	"github.com/vvka-141/sparkload/internal/files/filesystem"
	"github.com/vvka-141/sparkload/internal/metrics"
	"github.com/vvka-141/sparkload/internal/services"
	"github.com/vvka-141/sparkload/pkg/sparkload"
)

var loadCmd = &cobra.Command{
	Use:   "load",
	Short: "Load the song and event datasets",
	Long: `Load walks the song dataset, then the event-log dataset, and loads every
matching file into PostgreSQL in its own transaction.

Dataset roots may be local directories or s3://bucket/prefix URLs. S3 access
uses the standard AWS credential chain; set AWS_ENDPOINT_URL_S3 for
S3-compatible stores.

Password Authentication:
  There is no password flag. Use $PGPASSWORD, ~/.pgpass or a connection string.

Examples:
  # Defaults: data/song_data and data/log_data into sparkifydb on 127.0.0.1
  sparkload load

  # Explicit server, create tables first, keep going past bad files
  sparkload load -h db.internal -U etl -d sparkify --create-schema --on-error=continue

  # Read from S3 and push run metrics
  sparkload load --song-data s3://udacity-dend/song_data --log-data s3://udacity-dend/log_data \
    --pushgateway http://pushgateway:9091`,
	Args: cobra.NoArgs,
	RunE: runLoad,
}

type loadFlagValues struct {
	conn         connectionFlags
	songData     string
	logData      string
	extension    string
	onError      string
	createSchema bool
	timeout      time.Duration
	pushgateway  string
}

var loadFlags loadFlagValues

func init() {
	rootCmd.AddCommand(loadCmd)

	addConnectionFlags(loadCmd, &loadFlags.conn)

	loadCmd.Flags().StringVar(&loadFlags.songData, "song-data", "",
		"Song catalog dataset root (default: sources.song_data in config, or "+sparkload.DefaultSongDataPath+")")
	loadCmd.Flags().StringVar(&loadFlags.logData, "log-data", "",
		"Event-log dataset root (default: sources.log_data in config, or "+sparkload.DefaultLogDataPath+")")
	loadCmd.Flags().StringVar(&loadFlags.extension, "extension", "",
		"File extension to load, matched case-insensitively (default "+sparkload.DefaultExtension+")")
	loadCmd.Flags().StringVar(&loadFlags.onError, "on-error", "",
		"What to do when a file fails: abort|continue (default abort)\n"+
			"The failing file is rolled back either way")
	loadCmd.Flags().BoolVar(&loadFlags.createSchema, "create-schema", false,
		"Create missing tables before loading")
	loadCmd.Flags().DurationVar(&loadFlags.timeout, "timeout", sparkload.DefaultTimeout,
		"Upper bound for the whole run; 0 disables it\n"+
			"Examples: 30s, 5m, 1h30m")
	loadCmd.Flags().StringVar(&loadFlags.pushgateway, "pushgateway", "",
		"Prometheus Pushgateway URL; run metrics are pushed when the load ends")

	loadCmd.RegisterFlagCompletionFunc("song-data", completeDirectories)  //nolint:errcheck
	loadCmd.RegisterFlagCompletionFunc("log-data", completeDirectories)   //nolint:errcheck
	loadCmd.RegisterFlagCompletionFunc("on-error", completeErrorPolicies) //nolint:errcheck
}

// loadOptions are settings of a load that live outside LoadConfig.
type loadOptions struct {
	maintenanceDB string
	pushgateway   string
	metricsJob    string
}

// buildLoadConfig merges flags, environment and the config file.
// timeoutSet reports whether --timeout was given explicitly.
func buildLoadConfig(f loadFlagValues, timeoutSet bool, fileCfg *config.FileConfig, env *db.EnvVars) (sparkload.LoadConfig, loadOptions, error) {
	if fileCfg == nil {
		fileCfg = &config.FileConfig{}
	}

	connConfig, maintenanceDB, err := resolveConnection(f.conn, fileCfg, env)
	if err != nil {
		return sparkload.LoadConfig{}, loadOptions{}, err
	}

	policy, err := sparkload.ParseErrorPolicy(firstNonEmpty(f.onError, fileCfg.OnError))
	if err != nil {
		return sparkload.LoadConfig{}, loadOptions{}, err
	}

	timeout := f.timeout
	if !timeoutSet && fileCfg.Timeout != "" {
		parsed, err := fileCfg.TimeoutDuration()
		if err != nil {
			return sparkload.LoadConfig{}, loadOptions{}, fmt.Errorf("config file: %w: %w", sparkload.ErrInvalidConfig, err)
		}
		timeout = parsed
	}

	cfg := sparkload.LoadConfig{
		Connection:   connConfig,
		SongDataPath: firstNonEmpty(f.songData, fileCfg.Sources.SongData, sparkload.DefaultSongDataPath),
		LogDataPath:  firstNonEmpty(f.logData, fileCfg.Sources.LogData, sparkload.DefaultLogDataPath),
		Extension:    firstNonEmpty(f.extension, fileCfg.Sources.Extension, sparkload.DefaultExtension),
		OnError:      policy,
		CreateSchema: f.createSchema,
		Timeout:      timeout,
	}
	if err := cfg.Validate(); err != nil {
		return sparkload.LoadConfig{}, loadOptions{}, err
	}

	return cfg, loadOptions{
		maintenanceDB: maintenanceDB,
		pushgateway:   firstNonEmpty(f.pushgateway, fileCfg.Metrics.Pushgateway),
		metricsJob:    fileCfg.Metrics.Job,
	}, nil
}

func runLoad(cmd *cobra.Command, args []string) error {
	fileCfg, err := loadFileConfig(cmd)
	if err != nil {
		return err
	}

	logger, err := newLogger(cmd, fileCfg)
	if err != nil {
		return err
	}

	cfg, opts, err := buildLoadConfig(loadFlags, cmd.Flags().Changed("timeout"), fileCfg, db.LoadFromEnvironment())
	if err != nil {
		return err
	}
	cfg.Verbose = getVerboseFlag(cmd)
	logConnectionVerbose(logger, cfg.Connection, opts.maintenanceDB)

	pipeline := services.NewPipeline(
		services.NewSessionManager(db.Factory(logger), logger),
		discovery.New(filesystem.NewDefaultRouter(), cfg.Extension),
		cmd.OutOrStdout(),
		logger,
	)
	if pusher := metrics.NewPusher(opts.pushgateway, opts.metricsJob); pusher != nil {
		pipeline.WithMetrics(metrics.NewRecorder(), pusher)
	}

	ctx, cancel := runContext(cfg.Timeout, logger)
	defer cancel()

	if _, err := pipeline.Run(ctx, cfg); err != nil {
		return fmt.Errorf("load failed: %w", err)
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
