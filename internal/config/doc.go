// Package config loads, normalizes, and validates the TOML configuration
// shared by the shelf CLI and daemon.
package config
