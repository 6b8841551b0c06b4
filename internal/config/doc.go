// Package config loads runtime configuration for the licai CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file selected via -c or -config.
//  3. Command-line flags, which override earlier values.
//
// Supported flags
//
//	-d string   record store file
//	-s string   session area file
//	-t int      highlight delay (seconds)
//	-l string   log level: debug, info, warn, error
//	-m string   ISO 4217 currency used to display amounts
//
// # JSON schema
//
//	{
//	  "database_path": "licai.db",
//	  "session_path": "licai-session.db",
//	  "highlight_delay": "10s",
//	  "log_level": "info",
//	  "currency": "CNY"
//	}
//
// Keys missing from the file keep their default.
package config
