// Package config loads keytips configuration: an embedded default document
// merged with an optional user file.
package config

import (
	"github.com/oakwood-commons/keytips/pkg/commands"
)

// Config is the merged configuration.
type Config struct {
	App     AppConfig     `yaml:"app" json:"app" toml:"app"`
	KeyTips KeyTipsConfig `yaml:"keytips" json:"keytips" toml:"keytips"`
	UI      UIConfig      `yaml:"ui" json:"ui" toml:"ui"`
}

// AppConfig holds application metadata.
type AppConfig struct {
	About AboutConfig `yaml:"about" json:"about" toml:"about"`
	Debug DebugConfig `yaml:"debug" json:"debug" toml:"debug"`
}

// AboutConfig is shown in the footer and by the version command.
type AboutConfig struct {
	Name        string `yaml:"name" json:"name" toml:"name"`
	Description string `yaml:"description,omitempty" json:"description,omitempty" toml:"description,omitempty"`
}

// DebugConfig controls the in-app event log.
type DebugConfig struct {
	MaxEvents *int `yaml:"max_events,omitempty" json:"max_events,omitempty" toml:"max_events,omitempty"`
}

// KeyTipsConfig configures activation and the command registry.
type KeyTipsConfig struct {
	// Modifier is auto, alt or meta.
	Modifier string                 `yaml:"modifier" json:"modifier" toml:"modifier"`
	Builtins *bool                  `yaml:"builtins,omitempty" json:"builtins,omitempty" toml:"builtins,omitempty"`
	Disabled []string               `yaml:"disabled,omitempty" json:"disabled,omitempty" toml:"disabled,omitempty"`
	Commands []commands.ExprCommand `yaml:"commands,omitempty" json:"commands,omitempty" toml:"commands,omitempty"`
	// FallbackKey toggles the mode on terminals that cannot report key
	// releases.
	FallbackKey string `yaml:"fallback_key,omitempty" json:"fallback_key,omitempty" toml:"fallback_key,omitempty"`
}

// BuiltinsEnabled reports whether the default catalog is registered.
func (k KeyTipsConfig) BuiltinsEnabled() bool {
	return k.Builtins == nil || *k.Builtins
}

// UIConfig configures the terminal grid.
type UIConfig struct {
	Grid    GridConfig  `yaml:"grid" json:"grid" toml:"grid"`
	Theme   ThemeConfig `yaml:"theme" json:"theme" toml:"theme"`
	NoColor *bool       `yaml:"no_color,omitempty" json:"no_color,omitempty" toml:"no_color,omitempty"`
}

// GridConfig sets the minimum grid size and the starting column width.
type GridConfig struct {
	Rows        int `yaml:"rows" json:"rows" toml:"rows"`
	Cols        int `yaml:"cols" json:"cols" toml:"cols"`
	ColumnWidth int `yaml:"column_width" json:"column_width" toml:"column_width"`
}

// ThemeConfig holds colors as hex strings or ANSI numbers.
type ThemeConfig struct {
	Header    string `yaml:"header" json:"header" toml:"header"`
	Cursor    string `yaml:"cursor" json:"cursor" toml:"cursor"`
	Selection string `yaml:"selection" json:"selection" toml:"selection"`
	Border    string `yaml:"border" json:"border" toml:"border"`
	Overlay   string `yaml:"overlay" json:"overlay" toml:"overlay"`
	Key       string `yaml:"key" json:"key" toml:"key"`
	Muted     string `yaml:"muted" json:"muted" toml:"muted"`
}

// MaxDebugEvents returns the configured debug log size.
func (c Config) MaxDebugEvents() int {
	if c.App.Debug.MaxEvents == nil {
		return 0
	}
	return *c.App.Debug.MaxEvents
}

// NoColor reports whether styling is disabled.
func (c Config) NoColor() bool {
	return c.UI.NoColor != nil && *c.UI.NoColor
}

// RegistryOptions maps the keytips section onto registry options.
func (c Config) RegistryOptions() commands.Options {
	return commands.Options{
		Builtins: c.KeyTips.BuiltinsEnabled(),
		Disabled: c.KeyTips.Disabled,
		Exprs:    c.KeyTips.Commands,
	}
}
