// Package config loads runtime configuration for the propkeeper CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJson) selected via -c/-config or $PROPKEEPER_CONFIG.
//  3. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-a string   API base URL
//	-d string   path of the local SQLite database
//	-t int      request timeout (seconds)
//	-i int      online status check interval (seconds)
//	-v          verbose logging
//
// # JSON schema
//
// Timeouts use timex.Duration, so values can be either strings like "30s"
// or integer nanoseconds. Absent keys keep the previous value:
//
//	{
//	  "api_base_url": "https://pm.example.com/api",
//	  "database_path": "/var/lib/propkeeper/client.db",
//	  "request_timeout": "30s",
//	  "online_check_interval": "3s",
//	  "verbose": true
//	}
package config
