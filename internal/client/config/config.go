package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	appName    = "afteryou"
	envPrefix  = "AFTERYOU"
	configName = "afteryou"
	// FileName is the name of the config file looked up in the search path.
	FileName = configName + ".yaml"
)

// S3 configures the remote export sink. An empty Bucket disables it.
type S3 struct {
	Bucket    string `mapstructure:"bucket"`
	Region    string `mapstructure:"region"`
	Endpoint  string `mapstructure:"endpoint"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
	Prefix    string `mapstructure:"prefix"`
}

// Config holds runtime settings for the AfterYou CLI.
type Config struct {
	// ServerURL is the base URL of the REST backend.
	ServerURL string `mapstructure:"server_url"`
	// WebURL is the base of shareable links such as chain links.
	WebURL string `mapstructure:"web_url"`
	// DBPath is the SQLite file holding the session tokens.
	DBPath string `mapstructure:"db_path"`

	RequestTimeout          time.Duration `mapstructure:"request_timeout"`
	JobPollInterval         time.Duration `mapstructure:"job_poll_interval"`
	SystemPollInterval      time.Duration `mapstructure:"system_poll_interval"`
	AccessCountdownInterval time.Duration `mapstructure:"access_countdown_interval"`

	LogLevel  string `mapstructure:"log_level"`
	LogFormat string `mapstructure:"log_format"`

	ExportDir string `mapstructure:"export_dir"`
	S3        S3     `mapstructure:"s3"`
}

// LoadDefaults populates c with the built-in defaults.
func (c *Config) LoadDefaults() {
	c.ServerURL = "http://localhost:8000"
	c.WebURL = "http://localhost:3000"
	c.DBPath = filepath.Join(userDir(), "session.db")
	c.RequestTimeout = 15 * time.Second
	c.JobPollInterval = 10 * time.Second
	c.SystemPollInterval = 30 * time.Second
	c.AccessCountdownInterval = time.Minute
	c.LogLevel = "info"
	c.LogFormat = "text"
	c.ExportDir = "."
	c.S3 = S3{Region: "us-east-1"}
}

// userDir is the per-user afteryou directory, or .afteryou when the
// platform has no user config directory.
func userDir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "." + appName
	}
	return filepath.Join(dir, appName)
}

// DefaultPath is where config init writes when no --config is given.
func DefaultPath() string {
	return filepath.Join(userDir(), FileName)
}

// defaults flattens LoadDefaults into viper keys. Every key must be present
// so that AutomaticEnv can see it during Unmarshal.
func defaults() map[string]any {
	var c Config
	c.LoadDefaults()
	return map[string]any{
		"server_url":                c.ServerURL,
		"web_url":                   c.WebURL,
		"db_path":                   c.DBPath,
		"request_timeout":           c.RequestTimeout,
		"job_poll_interval":         c.JobPollInterval,
		"system_poll_interval":      c.SystemPollInterval,
		"access_countdown_interval": c.AccessCountdownInterval,
		"log_level":                 c.LogLevel,
		"log_format":                c.LogFormat,
		"export_dir":                c.ExportDir,
		"s3.bucket":                 c.S3.Bucket,
		"s3.region":                 c.S3.Region,
		"s3.endpoint":               c.S3.Endpoint,
		"s3.access_key":             c.S3.AccessKey,
		"s3.secret_key":             c.S3.SecretKey,
		"s3.prefix":                 c.S3.Prefix,
	}
}

// LoadConfig builds a Config from defaults, the yaml file, the environment
// and fs, in that order. fs may be nil. A missing config file is not an
// error unless it was named explicitly with --config.
func LoadConfig(fs *pflag.FlagSet) (*Config, error) {
	return load(fs, true)
}

// LoadConfigForWrite is LoadConfig for commands that create the file named
// by --config: a missing file there is skipped.
func LoadConfigForWrite(fs *pflag.FlagSet) (*Config, error) {
	return load(fs, false)
}

func load(fs *pflag.FlagSet, strict bool) (*Config, error) {
	v := viper.New()
	for key, value := range defaults() {
		v.SetDefault(key, value)
	}

	v.SetConfigName(configName)
	v.SetConfigType("yaml")
	path := configFlag(fs)
	if path != "" && !strict {
		if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
			path = ""
		}
	}
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath(userDir())
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if fs != nil {
		for name, key := range flagKeys {
			if f := fs.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("bind flag %s: %w", name, err)
				}
			}
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate reports the first setting that cannot work.
func (c *Config) Validate() error {
	for name, raw := range map[string]string{"server_url": c.ServerURL, "web_url": c.WebURL} {
		u, err := url.Parse(raw)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Errorf("config: %s must be an http(s) URL, got %q", name, raw)
		}
	}

	for name, d := range map[string]time.Duration{
		"request_timeout":           c.RequestTimeout,
		"job_poll_interval":         c.JobPollInterval,
		"system_poll_interval":      c.SystemPollInterval,
		"access_countdown_interval": c.AccessCountdownInterval,
	} {
		if d <= 0 {
			return fmt.Errorf("config: %s must be positive, got %s", name, d)
		}
	}

	if c.DBPath == "" {
		return errors.New("config: db_path is empty")
	}
	return nil
}
