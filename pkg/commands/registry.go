package commands

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-logr/logr"

	"github.com/oakwood-commons/keytips/internal/cel"
	"github.com/oakwood-commons/keytips/pkg/keytip"
	"github.com/oakwood-commons/keytips/pkg/sheet"
)

// ExprCommand is a user-defined command that rewrites every selected cell
// with a CEL expression. The expression sees value, text, row and col.
type ExprCommand struct {
	Keys        string   `yaml:"keys" json:"keys" toml:"keys"`
	Labels      []string `yaml:"labels,omitempty" json:"labels,omitempty" toml:"labels,omitempty"`
	Description string   `yaml:"description,omitempty" json:"description,omitempty" toml:"description,omitempty"`
	Expr        string   `yaml:"expr" json:"expr" toml:"expr"`
}

// Options selects what goes into a registry.
type Options struct {
	Builtins bool
	// Disabled lists built-in sequences to drop, e.g. "H B T".
	Disabled []string
	Exprs    []ExprCommand
	Logger   logr.Logger
}

// ErrInvalidExpr wraps expression compilation failures.
var ErrInvalidExpr = errors.New("invalid expression command")

// Build assembles and validates the command list.
func Build(capture *Capture, opts Options) ([]keytip.Command, error) {
	log := opts.Logger
	if log.GetSink() == nil {
		log = logr.Discard()
	}
	disabled := make(map[string]bool, len(opts.Disabled))
	for _, d := range opts.Disabled {
		disabled[keytip.Command{Keys: keytip.ParseSequence(d)}.Sequence()] = true
	}

	var cmds []keytip.Command
	if opts.Builtins {
		for _, c := range Default(capture) {
			if disabled[c.Sequence()] {
				log.V(1).Info("built-in command disabled", "keys", c.Sequence())
				continue
			}
			cmds = append(cmds, c)
		}
	}

	if len(opts.Exprs) > 0 {
		ev, err := cel.NewEvaluator()
		if err != nil {
			return nil, err
		}
		var errs []error
		for i, ec := range opts.Exprs {
			cmd, vars, err := compileExpr(ev, ec)
			if err != nil {
				errs = append(errs, fmt.Errorf("%w %d (%s): %w", ErrInvalidExpr, i, ec.Keys, err))
				continue
			}
			if len(vars) == 0 {
				log.Info("expression does not read the cell, every selected cell gets the same value", "keys", ec.Keys, "expr", ec.Expr)
			}
			cmds = append(cmds, cmd)
		}
		if err := errors.Join(errs...); err != nil {
			return nil, err
		}
	}

	if err := keytip.Validate(cmds); err != nil {
		return nil, err
	}
	return cmds, nil
}

func compileExpr(ev *cel.Evaluator, ec ExprCommand) (keytip.Command, []string, error) {
	if strings.TrimSpace(ec.Expr) == "" {
		return keytip.Command{}, nil, errors.New("expr is empty")
	}
	prg, err := ev.Compile(ec.Expr)
	if err != nil {
		return keytip.Command{}, nil, err
	}
	desc := ec.Description
	if desc == "" {
		desc = ec.Expr
	}
	return keytip.Command{
		Keys:        keytip.ParseSequence(ec.Keys),
		Labels:      ec.Labels,
		Description: desc,
		Effect:      ApplyExpr(prg),
	}, prg.Vars(), nil
}

// ApplyExpr rewrites each selected cell with the program's result. Cells
// whose evaluation fails keep their value.
func ApplyExpr(prg *cel.Program) keytip.Effect {
	return SheetEffect(func(s *sheet.Sheet) {
		sel := s.ActiveSelection()
		s.SuspendPaint()
		defer s.ResumePaint()
		for r := sel.Row; r < sel.Row+sel.Rows; r++ {
			for c := sel.Col; c < sel.Col+sel.Cols; c++ {
				out, err := prg.Eval(s.Value(r, c), s.Text(r, c), r, c)
				if err != nil {
					continue
				}
				_ = s.SetValue(r, c, out)
			}
		}
	})
}
