// Package paths provides centralized path handling for rodeo.
//
// It resolves the user-facing path notations found in the configuration
// file into absolute, clean filesystem paths:
//
//   - "~" and "~/..." expand to the invoking user's home directory
//   - relative paths are joined against a caller-supplied base
//   - "." and ".." segments are collapsed
//
// Symbolic links are never evaluated, so a target that is itself a link
// about to be replaced is reported as what it is.
//
// # Default locations
//
// Following the XDG Base Directory specification:
//
//   - Config: $XDG_CONFIG_HOME/rodeo/rodeo.toml (override with RODEO_CONFIG)
//   - Log:    $XDG_STATE_HOME/rodeo/rodeo.log
package paths
