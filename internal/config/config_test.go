package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_AllFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultFileName)
	content := `connection:
  host: db.internal
  port: 5433
  username: loader
  database: sparkifydb
  sslmode: require
  aws_region: eu-west-1

sources:
  song_data: s3://udacity-dend/song_data
  log_data: data/log_data
  extension: .json

on_error: continue
timeout: 10m

metrics:
  pushgateway: http://pushgateway:9091
  job: sparkload

log:
  format: json
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "db.internal", cfg.Connection.Host)
	assert.Equal(t, 5433, cfg.Connection.Port)
	assert.Equal(t, "loader", cfg.Connection.Username)
	assert.Equal(t, "require", cfg.Connection.SSLMode)
	assert.Equal(t, "eu-west-1", cfg.Connection.AWSRegion)
	assert.Equal(t, "s3://udacity-dend/song_data", cfg.Sources.SongData)
	assert.Equal(t, "data/log_data", cfg.Sources.LogData)
	assert.Equal(t, "continue", cfg.OnError)
	assert.Equal(t, "http://pushgateway:9091", cfg.Metrics.Pushgateway)
	assert.Equal(t, "json", cfg.Log.Format)

	timeout, err := cfg.TimeoutDuration()
	require.NoError(t, err)
	assert.Equal(t, 10*time.Minute, timeout)
}

func TestLoad_Missing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.True(t, errors.Is(err, ErrConfigNotFound))
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultFileName)
	require.NoError(t, os.WriteFile(path, []byte("connection: [unclosed"), 0644))

	_, err := Load(path)
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrConfigNotFound))
}

func TestTimeoutDuration(t *testing.T) {
	var nilCfg *FileConfig
	d, err := nilCfg.TimeoutDuration()
	require.NoError(t, err)
	assert.Zero(t, d)

	_, err = (&FileConfig{Timeout: "soon"}).TimeoutDuration()
	assert.Error(t, err)
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	envPath := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(envPath, []byte("SPARKLOAD_DOTENV_PROBE=from-file\n"), 0644))

	t.Setenv("SPARKLOAD_DOTENV_PROBE", "")
	os.Unsetenv("SPARKLOAD_DOTENV_PROBE")

	require.NoError(t, LoadDotEnv(envPath))
	assert.Equal(t, "from-file", os.Getenv("SPARKLOAD_DOTENV_PROBE"))

	assert.NoError(t, LoadDotEnv(filepath.Join(dir, "missing.env")))
}
