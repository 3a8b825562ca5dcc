// Package keytip implements a modal command-sequence engine: tapping a
// modifier key alone arms a mode in which single keystrokes walk a tree of
// labeled shortcuts until a terminal command runs against the host surface.
package keytip

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

// Effect is the terminal action of a command. It runs synchronously against
// the bound host surface.
type Effect interface {
	Apply(host Surface)
}

// EffectFunc adapts a plain function to the Effect interface.
type EffectFunc func(host Surface)

// Apply calls f(host).
func (f EffectFunc) Apply(host Surface) { f(host) }

// Command describes one registered key sequence.
//
// Labels run parallel to Keys and may be shorter; a missing or empty label
// falls back to the key symbol.
type Command struct {
	Keys        []string
	Labels      []string
	Description string
	Effect      Effect
}

// Sequence returns the normalized keys joined by spaces, e.g. "H V V".
func (c Command) Sequence() string {
	norm := make([]string, len(c.Keys))
	for i, k := range c.Keys {
		norm[i] = NormalizeKey(k)
	}
	return strings.Join(norm, " ")
}

// ParseSequence splits a space or comma separated sequence such as "h,v,v"
// into its keys.
func ParseSequence(s string) []string {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ' ' || r == ','
	})
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}

var (
	// ErrEmptySequence is reported for a command with no keys.
	ErrEmptySequence = errors.New("key sequence is empty")
	// ErrInvalidKey is reported for a key that is not exactly one character.
	ErrInvalidKey = errors.New("key must be a single character")
	// ErrNilEffect is reported for a command without a terminal effect.
	ErrNilEffect = errors.New("command has no effect")
	// ErrPrefixConflict is reported when a sequence is a strict prefix of another.
	ErrPrefixConflict = errors.New("sequence is a prefix of another sequence")
)

// RegistrationError ties a validation failure to the offending command.
type RegistrationError struct {
	Index int
	Keys  []string
	Err   error
}

func (e *RegistrationError) Error() string {
	return fmt.Sprintf("command %d (%s): %v", e.Index, strings.Join(e.Keys, " "), e.Err)
}

func (e *RegistrationError) Unwrap() error { return e.Err }

// Validate checks a registry and returns every problem found, joined.
// Identical duplicate sequences are allowed; the later command wins.
func Validate(cmds []Command) error {
	var errs []error
	seqs := make(map[string]struct{}, len(cmds))
	for i, c := range cmds {
		if len(c.Keys) == 0 {
			errs = append(errs, &RegistrationError{Index: i, Keys: c.Keys, Err: ErrEmptySequence})
			continue
		}
		for _, k := range c.Keys {
			if utf8.RuneCountInString(strings.TrimSpace(k)) != 1 {
				errs = append(errs, &RegistrationError{Index: i, Keys: c.Keys, Err: fmt.Errorf("%w: %q", ErrInvalidKey, k)})
				break
			}
		}
		if c.Effect == nil {
			errs = append(errs, &RegistrationError{Index: i, Keys: c.Keys, Err: ErrNilEffect})
		}
		seqs[c.Sequence()] = struct{}{}
	}
	for i, c := range cmds {
		if len(c.Keys) == 0 {
			continue
		}
		seq := c.Sequence()
		for other := range seqs {
			if strings.HasPrefix(other, seq+" ") {
				errs = append(errs, &RegistrationError{Index: i, Keys: c.Keys, Err: fmt.Errorf("%w: %q", ErrPrefixConflict, other)})
				break
			}
		}
	}
	return errors.Join(errs...)
}

// Compile validates cmds and builds the lookup tree.
func Compile(cmds []Command) (*Node, error) {
	if err := Validate(cmds); err != nil {
		return nil, err
	}
	return Build(cmds), nil
}
