// Package config provides configuration loading, defaults, and validation
// for the Beacon control plane.
//
// Configuration is read from a YAML file, defaults are applied, and BEACON_*
// environment variables override individual fields. The final configuration
// is validated before use.
//
// Sections:
//
//   - server: listen address, timeouts, graceful shutdown
//   - signals: rolling window, per-key buffer cap, background sweep schedule
//   - policy: optional policy file path and hot-reload flag
//   - logging: level and format
//   - metrics: prometheus exposition toggle and namespace
package config
