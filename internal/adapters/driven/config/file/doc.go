// Package file provides file-based implementations of driven port interfaces.
// These adapters read their data from the local filesystem.
//
// Adapters:
//   - ConfigStore: TOML-based configuration with environment overrides
//   - WhitelistLoader: JSON list of decision identifiers
package file
