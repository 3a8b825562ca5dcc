package cel

import (
	"fmt"

	"github.com/google/cel-go/cel"
	exprpb "google.golang.org/genproto/googleapis/api/expr/v1alpha1"
)

// ReferencedVars walks a parsed expression and returns the cell variables it
// reads, in CellVars order. Comprehension variables are not reported.
func ReferencedVars(ast *cel.Ast) ([]string, error) {
	parsed, err := cel.AstToParsedExpr(ast)
	if err != nil {
		return nil, fmt.Errorf("inspect expression: %w", err)
	}
	seen := map[string]bool{}
	collectIdents(parsed.GetExpr(), map[string]bool{}, seen)
	var out []string
	for _, v := range CellVars {
		if seen[v] {
			out = append(out, v)
		}
	}
	return out, nil
}

func collectIdents(e *exprpb.Expr, bound, seen map[string]bool) {
	if e == nil {
		return
	}
	switch e.ExprKind.(type) {
	case *exprpb.Expr_IdentExpr:
		if name := e.GetIdentExpr().GetName(); !bound[name] {
			seen[name] = true
		}
	case *exprpb.Expr_SelectExpr:
		collectIdents(e.GetSelectExpr().GetOperand(), bound, seen)
	case *exprpb.Expr_CallExpr:
		call := e.GetCallExpr()
		collectIdents(call.GetTarget(), bound, seen)
		for _, arg := range call.GetArgs() {
			collectIdents(arg, bound, seen)
		}
	case *exprpb.Expr_ListExpr:
		for _, elem := range e.GetListExpr().GetElements() {
			collectIdents(elem, bound, seen)
		}
	case *exprpb.Expr_StructExpr:
		for _, entry := range e.GetStructExpr().GetEntries() {
			collectIdents(entry.GetMapKey(), bound, seen)
			collectIdents(entry.GetValue(), bound, seen)
		}
	case *exprpb.Expr_ComprehensionExpr:
		comp := e.GetComprehensionExpr()
		collectIdents(comp.GetIterRange(), bound, seen)
		inner := make(map[string]bool, len(bound)+2)
		for k := range bound {
			inner[k] = true
		}
		inner[comp.GetIterVar()] = true
		inner[comp.GetAccuVar()] = true
		collectIdents(comp.GetAccuInit(), inner, seen)
		collectIdents(comp.GetLoopCondition(), inner, seen)
		collectIdents(comp.GetLoopStep(), inner, seen)
		collectIdents(comp.GetResult(), inner, seen)
	}
}
