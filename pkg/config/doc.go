// Package config provides configuration management for Ganymede.
//
// Configuration is loaded from a YAML file, filled with defaults, overridden
// by GANYMEDE_* environment variables and validated. A thread-safe singleton
// holds the active configuration; an optional fsnotify-based watcher reloads
// the file on change for settings that can take effect without a restart.
package config
