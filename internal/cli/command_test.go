package cli

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateRootCommand(t *testing.T) {
	viper.Reset()
	flags := NewFlags()
	cmd := CreateRootCommand(flags)

	assert.Equal(t, "linguist", cmd.Use)
	assert.Contains(t, cmd.Short, "Qt Linguist")
	for _, name := range []string{"config", "log-level", "db", "project", "jobs", "json", "no-color", "timeout", "item-timeout"} {
		assert.NotNil(t, cmd.PersistentFlags().Lookup(name), name)
	}
	assert.Equal(t, "p", cmd.PersistentFlags().Lookup("project").Shorthand)
}

func TestApplyPrefersFlags(t *testing.T) {
	viper.Reset()
	flags := NewFlags()
	cmd := CreateRootCommand(flags)
	require.NoError(t, cmd.PersistentFlags().Parse([]string{"--project", "citra", "--jobs", "3", "--log-level", "debug"}))
	viper.Set("db.path", "/tmp/other.db")

	require.NoError(t, Apply(flags))
	assert.Equal(t, "citra", flags.Project)
	assert.Equal(t, 3, flags.Jobs)
	assert.Equal(t, "debug", flags.LogLevel)
	assert.Equal(t, "/tmp/other.db", flags.DBPath)
}

func TestApplyRejectsBadLevel(t *testing.T) {
	viper.Reset()
	flags := NewFlags()
	cmd := CreateRootCommand(flags)
	require.NoError(t, cmd.PersistentFlags().Parse([]string{"--log-level", "loud"}))
	require.Error(t, Apply(flags))
}

func TestInitConfigFile(t *testing.T) {
	viper.Reset()
	dir := t.TempDir()
	cfg := filepath.Join(dir, "linguist.yaml")
	require.NoError(t, os.WriteFile(cfg, []byte("project: yuzu\njobs: 0\nprovider:\n  timeout: 5s\n"), 0o644))

	flags := NewFlags()
	CreateRootCommand(flags)
	InitConfig(cfg)
	require.NoError(t, Apply(flags))
	assert.Equal(t, "yuzu", flags.Project)
	assert.Equal(t, 1, flags.Jobs)
	assert.Equal(t, 5*time.Second, flags.Timeout)
	assert.Equal(t, "warn", flags.LogLevel)
}

func TestEnvOverridesDefault(t *testing.T) {
	viper.Reset()
	t.Setenv("LINGUIST_PROJECT", "from-env")
	flags := NewFlags()
	CreateRootCommand(flags)
	InitConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, Apply(flags))
	assert.Equal(t, "from-env", flags.Project)
}
