package config

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Config is the decoded configuration file
type Config struct {
	DotfilesDirectory string          `koanf:"dotfiles_directory" toml:"dotfiles_directory"`
	Programs          []ProgramConfig `koanf:"program" toml:"program"`
	Settings          Settings        `koanf:"settings" toml:"settings"`

	// Path is the file the configuration was read from
	Path string `koanf:"-" toml:"-"`
}

// ProgramConfig declares one program as written in the file
type ProgramConfig struct {
	Name          string   `koanf:"name" toml:"name"`
	Root          string   `koanf:"root" toml:"root"`
	Paths         []string `koanf:"paths" toml:"paths"`
	PostDeployCmd string   `koanf:"post_deploy_cmd" toml:"post_deploy_cmd,omitempty"`
}

// Settings tunes how a run is carried out
type Settings struct {
	Jobs        int           `koanf:"jobs" toml:"jobs"`
	HookTimeout time.Duration `koanf:"hook_timeout" toml:"hook_timeout"`
	Shell       string        `koanf:"shell" toml:"shell"`
}

// MaxJobs bounds the worker pool
const MaxJobs = 64

// Validate validates the configuration
func (c *Config) Validate() error {
	if err := validation.ValidateStruct(c,
		validation.Field(&c.DotfilesDirectory, validation.Required),
		validation.Field(&c.Programs),
		validation.Field(&c.Settings),
	); err != nil {
		return err
	}

	seen := make(map[string]int, len(c.Programs))
	for i, p := range c.Programs {
		if first, ok := seen[p.Name]; ok {
			return fmt.Errorf("program: %d: name %q is already used by program %d", i, p.Name, first)
		}
		seen[p.Name] = i
	}
	return nil
}

// Validate validates a single program declaration
func (p ProgramConfig) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Name, validation.Required, validation.By(programName)),
		validation.Field(&p.Root, validation.Required),
		// Individual entries are checked per task by the planner
		validation.Field(&p.Paths, validation.Required),
	)
}

// Validate validates the settings
func (s Settings) Validate() error {
	return validation.ValidateStruct(&s,
		validation.Field(&s.Jobs, validation.Min(1), validation.Max(MaxJobs)),
		validation.Field(&s.HookTimeout, validation.Min(time.Second)),
		validation.Field(&s.Shell, validation.Required),
	)
}

// programName rejects names that would not map to exactly one directory
// inside the repository
func programName(value interface{}) error {
	name, _ := value.(string)
	if name == "." || name == ".." {
		return fmt.Errorf("must not be %q", name)
	}
	if strings.ContainsRune(name, filepath.Separator) || strings.ContainsRune(name, '/') {
		return fmt.Errorf("must not contain a path separator")
	}
	if strings.ContainsRune(name, 0) {
		return fmt.Errorf("must not contain a null byte")
	}
	return nil
}

// ProgramNames lists program names in declaration order
func (c *Config) ProgramNames() []string {
	names := make([]string, 0, len(c.Programs))
	for _, p := range c.Programs {
		names = append(names, p.Name)
	}
	return names
}
