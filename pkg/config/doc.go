// Package config loads and validates the rodeo configuration file.
//
// Values are layered with koanf: the embedded defaults first, then the
// user's TOML (or YAML) file, then RODEO_* environment variables. The
// decoded Config is validated and converted into the absolute, deduplicated
// model the planner works on with ToModel.
package config
