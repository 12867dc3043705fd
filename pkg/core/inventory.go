package core

import (
	"github.com/arthur-debert/rodeo/pkg/config"
	"github.com/arthur-debert/rodeo/pkg/logging"
	"github.com/arthur-debert/rodeo/pkg/types"
)

// Inventory describes what a configuration manages
type Inventory struct {
	ConfigPath string
	Repository types.Repository
	Programs   []types.Program
}

// List resolves the configuration without touching the filesystem
func List(cfg *config.Config) (*Inventory, error) {
	logger := logging.GetLogger("core.list")

	repo, programs, err := Resolve(cfg, nil)
	if err != nil {
		return nil, err
	}

	logger.Debug().
		Str("config", cfg.Path).
		Int("programs", len(programs)).
		Msg("Listing programs")

	return &Inventory{
		ConfigPath: cfg.Path,
		Repository: repo,
		Programs:   programs,
	}, nil
}

// Init writes a starter configuration at path pointing at repoDir.
// It never overwrites an existing file.
func Init(path, repoDir string) error {
	logger := logging.GetLogger("core.init")
	if err := config.WriteStarter(path, repoDir); err != nil {
		return err
	}
	logger.Info().Str("path", path).Str("repository", repoDir).Msg("Starter configuration written")
	return nil
}
