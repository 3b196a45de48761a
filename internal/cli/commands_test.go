package cli

import (
	"bytes"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vvka-141/sparkload/pkg/sparkload"
)

func findCommand(t *testing.T, path ...string) *cobra.Command {
	t.Helper()
	cmd, _, err := rootCmd.Find(path)
	require.NoError(t, err)
	return cmd
}

func TestCommandTree(t *testing.T) {
	tests := []struct {
		path []string
		use  string
	}{
		{[]string{"load"}, "load"},
		{[]string{"schema"}, "schema"},
		{[]string{"schema", "create"}, "create"},
		{[]string{"schema", "reset"}, "reset"},
		{[]string{"version"}, "version"},
	}

	for _, tt := range tests {
		t.Run(tt.use, func(t *testing.T) {
			assert.Equal(t, tt.use, findCommand(t, tt.path...).Name())
		})
	}
}

func TestRootRunsLoad(t *testing.T) {
	assert.NotNil(t, rootCmd.RunE, "sparkload without a subcommand loads with defaults")
}

func TestHostShorthand(t *testing.T) {
	for _, path := range [][]string{{"load"}, {"schema", "create"}, {"schema", "reset"}} {
		cmd := findCommand(t, path...)
		flag := cmd.Flags().ShorthandLookup("h")
		require.NotNil(t, flag, "%v should define -h", path)
		assert.Equal(t, "host", flag.Name)
	}

	help := rootCmd.PersistentFlags().Lookup("help")
	require.NotNil(t, help)
	assert.Empty(t, help.Shorthand)
}

func TestLoadFlags(t *testing.T) {
	flags := loadCmd.Flags()
	for _, name := range []string{
		"song-data", "log-data", "extension", "on-error", "create-schema", "timeout", "pushgateway",
		"connection", "host", "port", "username", "database", "sslmode",
		"aws", "aws-region", "azure", "azure-tenant-id", "azure-client-id", "google-instance",
	} {
		assert.NotNil(t, flags.Lookup(name), "load should define --%s", name)
	}

	assert.Nil(t, flags.Lookup("password"), "passwords come from the environment, .pgpass or a connection string")
	assert.Equal(t, sparkload.DefaultTimeout.String(), flags.Lookup("timeout").DefValue)
}

func TestSchemaCreateDropFlag(t *testing.T) {
	assert.NotNil(t, schemaCreateCmd.Flags().Lookup("drop"))
	assert.Nil(t, schemaResetCmd.Flags().Lookup("drop"))
	assert.NotNil(t, schemaCreateCmd.Flags().Lookup("force"))
	assert.NotNil(t, schemaResetCmd.Flags().Lookup("force"))
}

func TestUsageErrorsExitCode(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"unknown flag", []string{"load", "--no-such-flag"}},
		{"unexpected argument", []string{"load", "extra"}},
		{"bad duration", []string{"load", "--timeout", "soon"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			rootCmd.SetOut(&out)
			rootCmd.SetErr(&out)
			rootCmd.SetArgs(tt.args)
			t.Cleanup(func() {
				rootCmd.SetOut(nil)
				rootCmd.SetErr(nil)
				rootCmd.SetArgs(nil)
			})

			err := rootCmd.Execute()
			require.Error(t, err)
			assert.Equal(t, sparkload.ExitUsageError, sparkload.ExitCodeForError(err))
		})
	}
}
