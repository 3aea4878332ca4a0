package config

import (
	"fmt"
	"path/filepath"

	"github.com/goccy/go-yaml"

	"github.com/dmitrijs2005/afteryou/internal/filex"
)

// fileConfig is the on-disk yaml shape. Durations are kept as strings so
// the file reads "15s" rather than nanoseconds.
type fileConfig struct {
	ServerURL               string `yaml:"server_url"`
	WebURL                  string `yaml:"web_url"`
	DBPath                  string `yaml:"db_path"`
	RequestTimeout          string `yaml:"request_timeout"`
	JobPollInterval         string `yaml:"job_poll_interval"`
	SystemPollInterval      string `yaml:"system_poll_interval"`
	AccessCountdownInterval string `yaml:"access_countdown_interval"`
	LogLevel                string `yaml:"log_level"`
	LogFormat               string `yaml:"log_format"`
	ExportDir               string `yaml:"export_dir"`
	S3                      fileS3 `yaml:"s3"`
}

type fileS3 struct {
	Bucket    string `yaml:"bucket,omitempty"`
	Region    string `yaml:"region,omitempty"`
	Endpoint  string `yaml:"endpoint,omitempty"`
	AccessKey string `yaml:"access_key,omitempty"`
	SecretKey string `yaml:"secret_key,omitempty"`
	Prefix    string `yaml:"prefix,omitempty"`
}

// Marshal renders c as yaml.
func (c *Config) Marshal() ([]byte, error) {
	return yaml.Marshal(fileConfig{
		ServerURL:               c.ServerURL,
		WebURL:                  c.WebURL,
		DBPath:                  c.DBPath,
		RequestTimeout:          c.RequestTimeout.String(),
		JobPollInterval:         c.JobPollInterval.String(),
		SystemPollInterval:      c.SystemPollInterval.String(),
		AccessCountdownInterval: c.AccessCountdownInterval.String(),
		LogLevel:                c.LogLevel,
		LogFormat:               c.LogFormat,
		ExportDir:               c.ExportDir,
		S3: fileS3{
			Bucket:    c.S3.Bucket,
			Region:    c.S3.Region,
			Endpoint:  c.S3.Endpoint,
			AccessKey: c.S3.AccessKey,
			SecretKey: c.S3.SecretKey,
			Prefix:    c.S3.Prefix,
		},
	})
}

// WriteFile writes c to path with mode 0600, creating the directory. The
// file may hold S3 secrets.
func WriteFile(path string, c *Config) (string, error) {
	data, err := c.Marshal()
	if err != nil {
		return "", fmt.Errorf("encode config: %w", err)
	}

	dir, err := filex.EnsureDir(filepath.Dir(path))
	if err != nil {
		return "", err
	}
	return filex.WriteFileAtomic(dir, filepath.Base(path), data)
}
