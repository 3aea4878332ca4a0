// Package config loads runtime configuration for the AfterYou CLI.
//
// Sources, lowest to highest precedence:
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. afteryou.yaml from the user config directory or the working
//     directory, or the file named by --config.
//  3. Environment variables prefixed with AFTERYOU_, with dots in keys
//     replaced by underscores (AFTERYOU_S3_BUCKET).
//  4. Command-line flags registered by RegisterFlags.
//
// Durations accept Go duration strings such as "15s" or "1m30s":
//
//	server_url: https://afteryou.example
//	request_timeout: 15s
//	s3:
//	  bucket: legacy-exports
package config
