package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/arthur-debert/rodeo/pkg/errors"
	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix is the prefix of environment overrides
const EnvPrefix = "RODEO_"

// envKeys maps environment variables (without prefix, lowercased) to
// configuration keys. Anything else with the prefix is ignored.
var envKeys = map[string]string{
	"dotfiles_directory": "dotfiles_directory",
	"jobs":               "settings.jobs",
	"hook_timeout":       "settings.hook_timeout",
	"shell":              "settings.shell",
}

// Load reads the configuration file at path, layered over the embedded
// defaults and under RODEO_* environment overrides, then validates it
func Load(path string) (*Config, error) {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Newf(errors.ErrConfigLoad, "configuration file %s not found (run `rodeo init` to create one)", path).
				WithDetail("path", path)
		}
		return nil, errors.Wrapf(err, errors.ErrConfigLoad, "cannot access configuration file %s", path)
	}

	k := koanf.New(".")

	// 1. Load defaults
	if err := k.Load(&rawBytesProvider{bytes: defaultConfig}, toml.Parser()); err != nil {
		return nil, errors.Wrap(err, errors.ErrInternal, "failed to load defaults")
	}

	// 2. Load the user's file
	if err := k.Load(file.Provider(path), parserFor(path)); err != nil {
		return nil, errors.Wrapf(err, errors.ErrConfigParse, "failed to parse %s", path).
			WithDetail("path", path)
	}

	// 3. Load env vars
	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load environment overrides")
	}

	// 4. Unmarshal
	cfg, err := unmarshal(k)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrConfigParse, "invalid value in %s", path)
	}
	cfg.Path = path

	// 5. Validate
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrapf(err, errors.ErrConfigValid, "invalid configuration in %s", path).
			WithDetail("path", path)
	}

	return cfg, nil
}

func unmarshal(k *koanf.Koanf) (*Config, error) {
	var cfg Config
	unmarshalConf := koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           &cfg,
			WeaklyTypedInput: true,
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToTimeDurationHookFunc(),
				mapstructure.StringToSliceHookFunc(","),
			),
		},
	}
	if err := k.UnmarshalWithConf("", &cfg, unmarshalConf); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// parserFor picks the koanf parser from the file extension; TOML unless
// the file ends in .yaml or .yml
func parserFor(path string) koanf.Parser {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return yaml.Parser()
	default:
		return toml.Parser()
	}
}

// envKey turns RODEO_DOTFILES_DIRECTORY into dotfiles_directory. Returning
// an empty key makes koanf skip the variable.
func envKey(s string) string {
	return envKeys[strings.ToLower(strings.TrimPrefix(s, EnvPrefix))]
}
