package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate points the user config dir and the working directory at empty
// temp dirs so no real afteryou.yaml is picked up.
func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", home)
	t.Setenv("HOME", home)
	t.Chdir(t.TempDir())
	return home
}

func newFlags(t *testing.T, args ...string) *pflag.FlagSet {
	t.Helper()
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	RegisterFlags(fs)
	require.NoError(t, fs.Parse(args))
	return fs
}

func TestLoadDefaults(t *testing.T) {
	home := isolate(t)

	var c Config
	c.LoadDefaults()

	assert.Equal(t, "http://localhost:8000", c.ServerURL)
	assert.Equal(t, "http://localhost:3000", c.WebURL)
	assert.Equal(t, filepath.Join(home, "afteryou", "session.db"), c.DBPath)
	assert.Equal(t, 15*time.Second, c.RequestTimeout)
	assert.Equal(t, 10*time.Second, c.JobPollInterval)
	assert.Equal(t, 30*time.Second, c.SystemPollInterval)
	assert.Equal(t, time.Minute, c.AccessCountdownInterval)
	assert.Equal(t, "info", c.LogLevel)
	assert.Equal(t, "text", c.LogFormat)
	assert.Equal(t, ".", c.ExportDir)
	assert.Equal(t, "us-east-1", c.S3.Region)
}

func TestLoadConfig_DefaultsOnly(t *testing.T) {
	isolate(t)

	cfg, err := LoadConfig(nil)
	require.NoError(t, err)

	var want Config
	want.LoadDefaults()
	assert.Equal(t, &want, cfg)
}

func TestLoadConfig_Precedence(t *testing.T) {
	home := isolate(t)

	dir := filepath.Join(home, "afteryou")
	require.NoError(t, os.MkdirAll(dir, 0o700))
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte(`
server_url: https://file.example
web_url: https://web.example
request_timeout: 5s
log_level: debug
s3:
  bucket: from-file
`), 0o600))

	t.Setenv("AFTERYOU_LOG_LEVEL", "warn")
	t.Setenv("AFTERYOU_S3_BUCKET", "from-env")

	fs := newFlags(t, "--server", "https://flag.example", "--timeout", "2s")
	cfg, err := LoadConfig(fs)
	require.NoError(t, err)

	assert.Equal(t, "https://flag.example", cfg.ServerURL)
	assert.Equal(t, "https://web.example", cfg.WebURL)
	assert.Equal(t, 2*time.Second, cfg.RequestTimeout)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, "from-env", cfg.S3.Bucket)
	assert.Equal(t, 10*time.Second, cfg.JobPollInterval)
}

func TestLoadConfig_UnsetFlagsDoNotOverride(t *testing.T) {
	isolate(t)
	require.NoError(t, os.WriteFile(FileName, []byte("server_url: https://cwd.example\n"), 0o600))

	cfg, err := LoadConfig(newFlags(t))
	require.NoError(t, err)
	assert.Equal(t, "https://cwd.example", cfg.ServerURL)
}

func TestLoadConfig_ExplicitFile(t *testing.T) {
	isolate(t)

	t.Run("missing file is an error", func(t *testing.T) {
		_, err := LoadConfig(newFlags(t, "--config", filepath.Join(t.TempDir(), "nope.yaml")))
		require.Error(t, err)
	})

	t.Run("reads the named file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "custom.yaml")
		require.NoError(t, os.WriteFile(path, []byte("export_dir: /tmp/exports\n"), 0o600))

		cfg, err := LoadConfig(newFlags(t, "--config", path))
		require.NoError(t, err)
		assert.Equal(t, "/tmp/exports", cfg.ExportDir)
	})

	t.Run("missing file is fine when writing", func(t *testing.T) {
		fs := newFlags(t, "--config", filepath.Join(t.TempDir(), "new.yaml"), "--server", "https://new.example")
		cfg, err := LoadConfigForWrite(fs)
		require.NoError(t, err)
		assert.Equal(t, "https://new.example", cfg.ServerURL)
		assert.Equal(t, "info", cfg.LogLevel)
	})
}

func TestLoadConfig_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{name: "bad server url", env: map[string]string{"AFTERYOU_SERVER_URL": "localhost:8000"}},
		{name: "zero poll interval", env: map[string]string{"AFTERYOU_JOB_POLL_INTERVAL": "0s"}},
		{name: "unparseable duration", env: map[string]string{"AFTERYOU_REQUEST_TIMEOUT": "soon"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolate(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := LoadConfig(nil)
			require.Error(t, err)
		})
	}
}

func TestWriteFile_RoundTrip(t *testing.T) {
	isolate(t)

	var c Config
	c.LoadDefaults()
	c.ServerURL = "https://afteryou.example"
	c.RequestTimeout = 90 * time.Second
	c.S3.Bucket = "exports"

	path := filepath.Join(t.TempDir(), "nested", FileName)
	written, err := WriteFile(path, &c)
	require.NoError(t, err)

	st, err := os.Stat(written)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), st.Mode().Perm())

	data, err := os.ReadFile(written)
	require.NoError(t, err)
	assert.Contains(t, string(data), "request_timeout: 1m30s")

	got, err := LoadConfig(newFlags(t, "--config", written))
	require.NoError(t, err)
	assert.Equal(t, &c, got)
}
