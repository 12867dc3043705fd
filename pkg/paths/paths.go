package paths

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/arthur-debert/rodeo/pkg/errors"
)

// Environment variable names
const (
	// EnvConfig overrides the configuration file location
	EnvConfig = "RODEO_CONFIG"

	// EnvHome is the standard home directory variable
	EnvHome = "HOME"
)

// GetHomeDirectory returns the user's home directory.
// It first tries os.UserHomeDir(), then falls back to the HOME environment variable.
func GetHomeDirectory() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err == nil && homeDir != "" {
		return homeDir, nil
	}

	homeDir = os.Getenv(EnvHome)
	if homeDir != "" {
		return homeDir, nil
	}

	return "", errors.New(errors.ErrHomeDir, "unable to determine home directory: neither os.UserHomeDir() nor HOME are available")
}

// ExpandHome expands a leading "~" or "~/" to the home directory.
// "~user" forms are returned unchanged.
func ExpandHome(path string) (string, error) {
	if path == "~" {
		return GetHomeDirectory()
	}

	if isHomeRelative(path) {
		homeDir, err := GetHomeDirectory()
		if err != nil {
			return "", err
		}
		return filepath.Join(homeDir, path[2:]), nil
	}

	return path, nil
}

// isHomeRelative reports whether path is "~" or starts with "~/".
// Names such as "~backup" are ordinary relative paths.
func isHomeRelative(path string) bool {
	return path == "~" || strings.HasPrefix(path, "~/") || strings.HasPrefix(path, "~"+string(filepath.Separator))
}

// Validate rejects path strings the filesystem cannot represent
func Validate(raw string) error {
	if raw == "" {
		return errors.New(errors.ErrInvalidPath, "empty path")
	}
	if strings.ContainsRune(raw, 0) {
		return errors.Newf(errors.ErrInvalidPath, "path contains a null byte: %q", raw)
	}
	return nil
}

// Resolve expands raw into an absolute, clean path.
// Relative results are joined against base; an empty base means the current
// working directory. Symlinks are not evaluated.
func Resolve(raw, base string) (string, error) {
	if err := Validate(raw); err != nil {
		return "", err
	}

	expanded, err := ExpandHome(raw)
	if err != nil {
		return "", errors.Wrapf(err, errors.ErrInvalidPath, "cannot expand %q", raw)
	}

	if filepath.IsAbs(expanded) {
		return filepath.Clean(expanded), nil
	}

	if base == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return "", errors.Wrapf(err, errors.ErrInvalidPath, "cannot resolve %q: no working directory", raw)
		}
		base = cwd
	} else if !filepath.IsAbs(base) {
		return "", errors.Newf(errors.ErrInvalidPath, "base %q is not absolute", base)
	}

	return filepath.Join(base, expanded), nil
}

// Relative validates a declared program path and returns its clean form.
// The path must be relative and must stay inside its base after cleaning.
func Relative(raw string) (string, error) {
	if err := Validate(raw); err != nil {
		return "", err
	}
	if filepath.IsAbs(raw) || isHomeRelative(raw) {
		return "", errors.Newf(errors.ErrInvalidPath, "path %q must be relative to the program root", raw)
	}

	clean := filepath.Clean(raw)
	if clean == "." {
		return "", errors.Newf(errors.ErrInvalidPath, "path %q names the program root itself", raw)
	}
	if clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return "", errors.Newf(errors.ErrInvalidPath, "path %q escapes the program root", raw)
	}
	return clean, nil
}

// IsWithin reports whether path lies inside dir (or is dir itself)
func IsWithin(dir, path string) bool {
	rel, err := filepath.Rel(dir, path)
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}
