package cel

import (
	"fmt"

	"github.com/google/cel-go/cel"
	"github.com/google/cel-go/common/types"
	"github.com/google/cel-go/common/types/ref"
	celext "github.com/google/cel-go/ext"
)

// Variables available to a cell expression.
const (
	VarValue = "value" // current cell value: null, double or string
	VarText  = "text"  // current cell display text
	VarRow   = "row"   // zero-based row index
	VarCol   = "col"   // zero-based column index
)

// CellVars lists every variable a cell expression may reference.
var CellVars = []string{VarValue, VarText, VarRow, VarCol}

// Program is a compiled cell expression.
type Program struct {
	expr string
	vars []string
	prg  cel.Program
}

// Evaluator compiles cell expressions against a shared environment.
type Evaluator struct {
	env *cel.Env
}

// NewEvaluator creates an evaluator with the standard extension libraries.
func NewEvaluator() (*Evaluator, error) {
	env, err := newCellEnv()
	if err != nil {
		return nil, fmt.Errorf("failed to create CEL environment: %w", err)
	}
	return &Evaluator{env: env}, nil
}

// GetEnvironment returns the CEL environment for introspection
func (e *Evaluator) GetEnvironment() *cel.Env {
	return e.env
}

func newCellEnv(opts ...cel.EnvOption) (*cel.Env, error) {
	allOpts := make([]cel.EnvOption, 0, 8+len(opts))
	allOpts = append(allOpts,
		cel.Variable(VarValue, cel.DynType),
		cel.Variable(VarText, cel.StringType),
		cel.Variable(VarRow, cel.IntType),
		cel.Variable(VarCol, cel.IntType),
		celext.Strings(),
		celext.Encoders(),
		celext.Lists(),
		celext.Math(),
	)
	allOpts = append(allOpts, opts...)
	return cel.NewEnv(allOpts...)
}

// Compile parses and type checks expr. Undeclared identifiers are
// compilation errors, so a registry holding a bad expression fails early.
func (e *Evaluator) Compile(expr string) (*Program, error) {
	parsed, issues := e.env.Parse(expr)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("parse error: %w", issues.Err())
	}
	vars, err := ReferencedVars(parsed)
	if err != nil {
		return nil, err
	}
	checked, issues := e.env.Check(parsed)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("compilation error: %w", issues.Err())
	}
	prg, err := e.env.Program(checked)
	if err != nil {
		return nil, fmt.Errorf("program error: %w", err)
	}
	return &Program{expr: expr, vars: vars, prg: prg}, nil
}

// Expr returns the source text.
func (p *Program) Expr() string { return p.expr }

// Vars returns the cell variables the expression reads, in CellVars order.
func (p *Program) Vars() []string { return append([]string(nil), p.vars...) }

// Eval runs the program for one cell and returns a value suitable for
// storing in a sheet: nil, float64 or string.
func (p *Program) Eval(value any, text string, row, col int) (any, error) {
	out, _, err := p.prg.Eval(map[string]any{
		VarValue: value,
		VarText:  text,
		VarRow:   int64(row),
		VarCol:   int64(col),
	})
	if err != nil {
		return nil, fmt.Errorf("eval error: %w", err)
	}
	return ToCell(out), nil
}

// ToCell converts a CEL result to a cell value. Numbers become float64,
// null stays nil and everything else is rendered as text.
func ToCell(val ref.Val) any {
	if val == nil {
		return nil
	}
	switch v := val.(type) {
	case types.Null:
		return nil
	case types.Int:
		return float64(v)
	case types.Uint:
		return float64(v)
	case types.Double:
		return float64(v)
	case types.String:
		return string(v)
	case types.Bool:
		if v {
			return "TRUE"
		}
		return "FALSE"
	}
	return fmt.Sprint(val.Value())
}
