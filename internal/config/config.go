package config

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed default_config.yaml
var embeddedDefaultConfig []byte

var (
	embeddedConfigOnce sync.Once
	embeddedConfig     Config
	embeddedConfigErr  error
)

// Modifiers lists the values accepted in keytips.modifier.
var Modifiers = []string{"auto", "alt", "meta"}

// DefaultConfigYAML returns a copy of the embedded default config YAML bytes.
func DefaultConfigYAML() []byte {
	return append([]byte(nil), embeddedDefaultConfig...)
}

// Default parses and returns the embedded default configuration.
func Default() (Config, error) {
	embeddedConfigOnce.Do(func() {
		if len(embeddedDefaultConfig) == 0 {
			embeddedConfigErr = fmt.Errorf("embedded default config is empty")
			return
		}
		if err := decodeInto(embeddedDefaultConfig, &embeddedConfig); err != nil {
			embeddedConfigErr = fmt.Errorf("decode embedded default config: %w", err)
		}
	})
	return clone(embeddedConfig), embeddedConfigErr
}

// Load returns the defaults merged with the file at path. An empty path
// yields the defaults. Keys present in the file replace the defaults; lists
// are replaced, not appended.
func Load(path string) (Config, error) {
	cfg, err := Default()
	if err != nil {
		return cfg, err
	}
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := decodeInto(data, &cfg); err != nil {
		return cfg, fmt.Errorf("decode config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

func decodeInto(data []byte, cfg *Config) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// Validate checks values yaml tags cannot express.
func (c Config) Validate() error {
	var errs []error
	mod := strings.ToLower(strings.TrimSpace(c.KeyTips.Modifier))
	valid := mod == ""
	for _, m := range Modifiers {
		valid = valid || mod == m
	}
	if !valid {
		errs = append(errs, fmt.Errorf("keytips.modifier %q: want one of %s", c.KeyTips.Modifier, strings.Join(Modifiers, ", ")))
	}
	if c.UI.Grid.Rows < 0 || c.UI.Grid.Cols < 0 {
		errs = append(errs, fmt.Errorf("ui.grid size must not be negative"))
	}
	for i, cmd := range c.KeyTips.Commands {
		if strings.TrimSpace(cmd.Keys) == "" {
			errs = append(errs, fmt.Errorf("keytips.commands[%d]: keys are required", i))
		}
	}
	return errors.Join(errs...)
}

// Marshal renders cfg as YAML.
func Marshal(cfg Config) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(cfg); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// clone deep copies the fields a later decode could write through.
func clone(cfg Config) Config {
	out := cfg
	out.App.Debug.MaxEvents = clonePtr(cfg.App.Debug.MaxEvents)
	out.KeyTips.Builtins = clonePtr(cfg.KeyTips.Builtins)
	out.UI.NoColor = clonePtr(cfg.UI.NoColor)
	out.KeyTips.Disabled = append([]string(nil), cfg.KeyTips.Disabled...)
	out.KeyTips.Commands = append(cfg.KeyTips.Commands[:0:0], cfg.KeyTips.Commands...)
	return out
}

// ResolvePath returns explicit when set, otherwise the XDG location of the
// user config file if it exists, otherwise "".
func ResolvePath(explicit string) string {
	if explicit != "" {
		return explicit
	}
	for _, p := range candidatePaths() {
		if info, err := os.Stat(p); err == nil && !info.IsDir() {
			return p
		}
	}
	return ""
}

func candidatePaths() []string {
	var out []string
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		out = append(out, filepath.Join(xdg, "keytips", "config.yaml"))
	}
	if home, err := os.UserHomeDir(); err == nil {
		out = append(out, filepath.Join(home, ".config", "keytips", "config.yaml"))
	}
	return out
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
