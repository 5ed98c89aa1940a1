// Package config manages dotsync configuration.
//
// It handles:
//   - The YAML configuration file under the XDG config directory
//   - Environment variable overrides
//   - Defaults for the repository path and host name
package config
