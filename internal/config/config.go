// Package config provides centralized configuration management for the tool.
// It loads configuration from environment variables with sensible defaults and
// validates all settings on startup to fail fast on misconfiguration.
package config

// Config holds all tool configuration.
// All settings can be configured via environment variables.
type Config struct {
	Input    InputConfig
	Convert  ConvertConfig
	Profiles ProfilesConfig
	Logging  LoggingConfig
}

// InputConfig holds input file reading settings.
type InputConfig struct {
	// MaxFileSize is the maximum allowed input size in bytes (default: 100MB)
	MaxFileSize int64 `env:"COLLARCSV_MAX_FILE_SIZE" default:"104857600"`

	// SniffLines is how many sample lines the delimiter sniffer checks (default: 5)
	SniffLines int `env:"COLLARCSV_SNIFF_LINES" default:"5"`
}

// ConvertConfig holds conversion settings.
type ConvertConfig struct {
	// PreviewRows is how many data rows a preview run converts (default: 500)
	PreviewRows int `env:"COLLARCSV_PREVIEW_ROWS" default:"500"`

	// Dedupe is whether duplicate-timestamp nudging defaults on (default: true)
	Dedupe bool `env:"COLLARCSV_DEDUPE" default:"true"`
}

// ProfilesConfig holds mapping profile settings.
type ProfilesConfig struct {
	// Dir is an optional directory of user profile YAML files
	// Supports both COLLARCSV_PROFILE_DIR and COLLARCSV_PROFILES for compatibility
	Dir string `env:"COLLARCSV_PROFILE_DIR" envAlt:"COLLARCSV_PROFILES"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn, error (default: info)
	Level string `env:"COLLARCSV_LOG_LEVEL" envAlt:"LOG_LEVEL" default:"info"`

	// Format is the log format: text or json (default: text)
	Format string `env:"COLLARCSV_LOG_FORMAT" envAlt:"LOG_FORMAT" default:"text"`
}
