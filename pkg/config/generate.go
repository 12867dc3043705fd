package config

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"

	"github.com/arthur-debert/rodeo/pkg/errors"
	"github.com/pelletier/go-toml/v2"
)

// starterFile is the subset of Config written by `rodeo init`
type starterFile struct {
	DotfilesDirectory string          `toml:"dotfiles_directory"`
	Programs          []ProgramConfig `toml:"program"`
}

const starterHeader = `# rodeo configuration
#
# Every [[program]] links root/<path> to <dotfiles_directory>/<name>/<path>
# for each entry in paths. Run "rodeo preview" to see what would change.

`

// GenerateStarter renders a starter configuration pointing at repoDir
func GenerateStarter(repoDir string) ([]byte, error) {
	if repoDir == "" {
		repoDir = "~/dotfiles"
	}
	starter := starterFile{
		DotfilesDirectory: repoDir,
		Programs: []ProgramConfig{
			{
				Name:  "git",
				Root:  "~",
				Paths: []string{".gitconfig"},
			},
			{
				Name:          "nvim",
				Root:          "~/.config/nvim",
				Paths:         []string{"init.vim"},
				PostDeployCmd: "nvim --headless +PlugInstall +qa",
			},
		},
	}

	body, err := toml.Marshal(starter)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrInternal, "failed to render starter configuration")
	}

	var buf bytes.Buffer
	buf.WriteString(starterHeader)
	buf.Write(body)
	buf.WriteString("\n")
	buf.WriteString(commentOutConfigValues(settingsSection()))
	return buf.Bytes(), nil
}

// WriteStarter writes a starter configuration to path. An existing file is
// never overwritten.
func WriteStarter(path, repoDir string) error {
	content, err := GenerateStarter(repoDir)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.WrapFS(err, errors.ErrConfigWrite, "cannot create configuration directory")
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		if os.IsExist(err) {
			return errors.Newf(errors.ErrConfigWrite, "%s already exists", path).WithDetail("path", path)
		}
		return errors.WrapFS(err, errors.ErrConfigWrite, "cannot create configuration file")
	}
	defer func() { _ = f.Close() }()

	if _, err := f.Write(content); err != nil {
		return errors.Wrapf(err, errors.ErrConfigWrite, "failed to write %s", path)
	}
	return nil
}

// settingsSection extracts the [settings] table of the embedded defaults
func settingsSection() string {
	content := DefaultsContent()
	if i := strings.Index(content, "[settings]"); i >= 0 {
		return content[i:]
	}
	return ""
}

// commentOutConfigValues takes the TOML content and comments out all non-comment, non-blank lines
// that contain configuration values (assignments)
func commentOutConfigValues(content string) string {
	lines := strings.Split(content, "\n")
	var result []string

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)

		// Keep blank lines and comments as-is
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			result = append(result, line)
			continue
		}

		// Comment out section headers and configuration value lines alike,
		// so the block stays inert until the user opts in
		result = append(result, "# "+line)
	}

	return strings.Join(result, "\n")
}
