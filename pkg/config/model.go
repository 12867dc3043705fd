package config

import (
	"path/filepath"
	"strings"

	"github.com/arthur-debert/rodeo/pkg/errors"
	"github.com/arthur-debert/rodeo/pkg/paths"
	"github.com/arthur-debert/rodeo/pkg/types"
)

// ToModel resolves the configuration into the repository and programs the
// planner consumes.
//
// The dotfiles directory is resolved against the directory holding the
// configuration file when relative. Program roots are resolved against the
// home directory when relative. Declared paths are deduplicated per program,
// keeping the first occurrence; they are otherwise passed through untouched
// so that invalid entries are reported per task by the planner.
func ToModel(cfg *Config) (types.Repository, []types.Program, error) {
	base := ""
	if cfg.Path != "" {
		if abs, err := filepath.Abs(filepath.Dir(cfg.Path)); err == nil {
			base = abs
		}
	}

	repoPath, err := paths.Resolve(cfg.DotfilesDirectory, base)
	if err != nil {
		return types.Repository{}, nil, errors.Wrapf(err, errors.ErrConfigValid, "invalid dotfiles_directory %q", cfg.DotfilesDirectory)
	}

	home, err := paths.GetHomeDirectory()
	if err != nil {
		return types.Repository{}, nil, err
	}

	programs := make([]types.Program, 0, len(cfg.Programs))
	for _, pc := range cfg.Programs {
		root, err := paths.Resolve(pc.Root, home)
		if err != nil {
			return types.Repository{}, nil, errors.Wrapf(err, errors.ErrConfigValid, "invalid root for program %s", pc.Name).
				WithDetail("program", pc.Name)
		}
		programs = append(programs, types.Program{
			Name:          pc.Name,
			Root:          root,
			Paths:         dedupe(pc.Paths),
			PostDeployCmd: strings.TrimSpace(pc.PostDeployCmd),
		})
	}

	return types.Repository{Path: repoPath}, programs, nil
}

// dedupe drops repeated paths, comparing cleaned forms and keeping the
// first occurrence
func dedupe(in []string) []string {
	seen := make(map[string]bool, len(in))
	out := make([]string, 0, len(in))
	for _, p := range in {
		key := p
		if p != "" {
			key = filepath.Clean(p)
		}
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, p)
	}
	return out
}

// FilterPrograms keeps the named programs, in declaration order. No names
// selects every program. Unknown names are an error.
func FilterPrograms(programs []types.Program, names []string) ([]types.Program, error) {
	if len(names) == 0 {
		return programs, nil
	}

	wanted := make(map[string]bool, len(names))
	for _, n := range names {
		wanted[n] = true
	}

	var out []types.Program
	for _, p := range programs {
		if wanted[p.Name] {
			out = append(out, p)
			delete(wanted, p.Name)
		}
	}

	if len(wanted) > 0 {
		var unknown []string
		for _, n := range names {
			if wanted[n] {
				unknown = append(unknown, n)
				delete(wanted, n)
			}
		}
		return nil, errors.Newf(errors.ErrConfigValid, "unknown program(s): %s", strings.Join(unknown, ", ")).
			WithDetail("unknown", unknown)
	}
	return out, nil
}
