package config

import "github.com/spf13/pflag"

// ConfigFlag names the flag that points at an explicit config file.
const ConfigFlag = "config"

// flagKeys maps flag names to config keys.
var flagKeys = map[string]string{
	"server":     "server_url",
	"web-url":    "web_url",
	"db":         "db_path",
	"timeout":    "request_timeout",
	"log-level":  "log_level",
	"log-format": "log_format",
	"export-dir": "export_dir",
	"s3-bucket":  "s3.bucket",
}

// RegisterFlags adds the config flags to fs. Their defaults are left empty
// so an unset flag never hides a file or environment value.
func RegisterFlags(fs *pflag.FlagSet) {
	fs.String(ConfigFlag, "", "config file (default is "+DefaultPath()+" or ./"+FileName+")")
	fs.StringP("server", "s", "", "backend base URL")
	fs.String("web-url", "", "web app base URL used in shareable links")
	fs.String("db", "", "session database path")
	fs.Duration("timeout", 0, "per-request timeout")
	fs.String("log-level", "", "log level (debug, info, warn, error)")
	fs.String("log-format", "", "log format (text, json)")
	fs.String("export-dir", "", "directory for exported files")
	fs.String("s3-bucket", "", "S3 bucket for sealed exports")
}

func configFlag(fs *pflag.FlagSet) string {
	if fs == nil {
		return ""
	}
	path, err := fs.GetString(ConfigFlag)
	if err != nil {
		return ""
	}
	return path
}
