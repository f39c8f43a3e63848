package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	flupdo "github.com/biyonik/go-flupdo"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func testFlags() *pflag.FlagSet {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.String("driver", "", "")
	fs.String("dsn", "", "")
	fs.String("host", "", "")
	fs.Int("port", 0, "")
	fs.String("database", "", "")
	fs.Bool("log-query", false, "")
	fs.Int("max-open-conns", 0, "")
	return fs
}

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load("", nil)
	require.NoError(t, err)

	def := flupdo.DefaultConfig()
	assert.Equal(t, def.Driver, cfg.Driver)
	assert.Equal(t, def.Host, cfg.Host)
	assert.Equal(t, def.Charset, cfg.Charset)
	assert.Equal(t, def.MaxOpenConns, cfg.MaxOpenConns)
	assert.Equal(t, 5*time.Minute, cfg.ConnMaxLife)
}

func TestLoadConfigFile(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	writeFile(t, dir, "flupdo.yaml", `
driver: sqlite
database: app.db
log_query: true
conn_max_lifetime: 90s
`)

	cfg, err := Load("", nil)
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.Driver)
	assert.Equal(t, "app.db", cfg.Database)
	assert.True(t, cfg.LogQuery)
	assert.Equal(t, 90*time.Second, cfg.ConnMaxLife)

	dsn, err := cfg.DSN()
	require.NoError(t, err)
	assert.Equal(t, "app.db", dsn)
}

func TestLoadExplicitFileMissing(t *testing.T) {
	t.Chdir(t.TempDir())

	_, err := Load("nope.yaml", nil)
	assert.Error(t, err)
}

func TestLoadPrecedence(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	writeFile(t, dir, "flupdo.yaml", "host: file-host\nport: 3310\ndatabase: file_db\n")

	t.Setenv("FLUPDO_PORT", "3320")
	t.Setenv("FLUPDO_DATABASE", "env_db")

	fs := testFlags()
	require.NoError(t, fs.Parse([]string{"--database", "flag_db", "--max-open-conns", "3"}))

	cfg, err := Load("", fs)
	require.NoError(t, err)

	assert.Equal(t, "file-host", cfg.Host)
	assert.Equal(t, 3320, cfg.Port)
	assert.Equal(t, "flag_db", cfg.Database)
	assert.Equal(t, 3, cfg.MaxOpenConns)
}

func TestLoadUnsetFlagsDoNotOverride(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	writeFile(t, dir, "flupdo.yml", "driver: sphinx\nhost: search\n")

	fs := testFlags()
	require.NoError(t, fs.Parse(nil))

	cfg, err := Load("", fs)
	require.NoError(t, err)

	assert.Equal(t, "sphinx", cfg.Driver)
	assert.Equal(t, "search", cfg.Host)
}

func TestLoadDotEnvLocal(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	// Registered so the value written by .env.local is restored afterwards.
	t.Setenv("FLUPDO_USERNAME", "")
	writeFile(t, dir, ".env.local", "FLUPDO_USERNAME=deploy\n")

	cfg, err := Load("", nil)
	require.NoError(t, err)
	assert.Equal(t, "deploy", cfg.Username)
}

func TestLoadUnknownDriver(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("FLUPDO_DRIVER", "oracle")

	_, err := Load("", nil)
	assert.ErrorIs(t, err, flupdo.ErrUnknownDriver)
}
