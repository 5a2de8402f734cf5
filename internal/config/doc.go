// Package config provides configuration management for music-manager.
//
// This package handles:
//   - Loading and saving settings from JSON or TOML files
//   - Default configuration values
//   - Path expansion and validation
//
// # Default Settings
//
//	settings := config.DefaultSettings()
//	// Library at ~/Music
//	// Tags are written back after cleaning
//	// Four files processed concurrently
//
// # Loading from File
//
//	settings, err := config.Load(config.DefaultPath())
//	if err != nil {
//	    return err // a missing file is not an error
//	}
//
// The settings file lives in the per-user data directory returned by
// DataDir, next to the log file.
package config
