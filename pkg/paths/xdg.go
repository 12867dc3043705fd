package paths

import (
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
)

// Default directories and files
const (
	// AppDirName is the directory name used under the XDG base directories
	AppDirName = "rodeo"

	// ConfigFileName is the default configuration file name
	ConfigFileName = "rodeo.toml"

	// LogFileName is the name of the log file
	LogFileName = "rodeo.log"
)

// DefaultConfigPath returns the configuration file location, honouring
// RODEO_CONFIG before falling back to $XDG_CONFIG_HOME/rodeo/rodeo.toml
func DefaultConfigPath() string {
	if p := os.Getenv(EnvConfig); p != "" {
		if resolved, err := Resolve(p, ""); err == nil {
			return resolved
		}
		return p
	}
	return filepath.Join(xdg.ConfigHome, AppDirName, ConfigFileName)
}

// LogFilePath returns $XDG_STATE_HOME/rodeo/rodeo.log
func LogFilePath() string {
	return filepath.Join(xdg.StateHome, AppDirName, LogFileName)
}
