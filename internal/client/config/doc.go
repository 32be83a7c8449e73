// Package config loads runtime configuration for the notification CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file selected via -c or -config.
//  3. Environment variables (NOTIFY_HOST, NOTIFY_DB, NOTIFY_LOG_LEVEL,
//     NOTIFY_LOG_FILE).
//  4. Command-line flags, which override everything else.
//
// Supported flags
//
//	-a string   initial service host, used only when none is stored yet
//	-t int      request timeout (seconds)
//	-d string   path of the local settings database
//	-l string   log level (debug|info|warn|error)
//	-f string   log file
//
// # JSON schema
//
//	{
//	  "host": "192.168.69.112:8085",
//	  "request_timeout": "10s",
//	  "database_path": "notify.db",
//	  "log_level": "info",
//	  "log_file": "notify.log"
//	}
package config
