package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"

	"github.com/oakwood-commons/keytips/internal/config"
)

// modifierValue is a pflag.Value restricted to the activation modifiers.
// The zero value defers to the config file.
type modifierValue string

var _ pflag.Value = (*modifierValue)(nil)

func (m *modifierValue) String() string { return string(*m) }

func (m *modifierValue) Set(s string) error {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, valid := range config.Modifiers {
		if s == valid {
			*m = modifierValue(s)
			return nil
		}
	}
	return fmt.Errorf("must be one of %s", strings.Join(config.Modifiers, ", "))
}

func (m *modifierValue) Type() string { return "modifier" }
