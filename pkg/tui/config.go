package tui

import (
	"github.com/go-logr/logr"

	"github.com/oakwood-commons/keytips/internal/config"
)

// Config holds host-provided settings for running the key tip grid.
type Config struct {
	// Settings is the merged configuration. DefaultConfig fills it from the
	// embedded defaults.
	Settings config.Config
	// SettingsPath, when set, is watched and reloaded while Run is active.
	SettingsPath string
	Rows         [][]any
	Modifier     string // "auto", "alt" or "meta"; empty uses Settings
	Width        int
	Height       int
	NoColor      bool
	Debug        bool     // show the transition log panel
	StartKeys    []string // simulated keys applied before the first frame
	Logger       logr.Logger
}

// DefaultConfig returns a config built from the embedded defaults, the same
// baseline the CLI starts from.
func DefaultConfig() (Config, error) {
	settings, err := config.Default()
	if err != nil {
		return Config{}, err
	}
	return Config{Settings: settings}, nil
}

// LoadConfig merges the file at path over the embedded defaults. An empty
// path returns the defaults.
func LoadConfig(path string) (Config, error) {
	if path == "" {
		return DefaultConfig()
	}
	settings, err := config.Load(path)
	if err != nil {
		return Config{}, err
	}
	return Config{Settings: settings, SettingsPath: path}, nil
}
