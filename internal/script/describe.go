package script

import (
	"errors"
	"fmt"
	"strings"

	luaast "github.com/yuin/gopher-lua/ast"

	"github.com/voxkit/voxdoc/internal/entry"
)

// ActionResolver resolves an action name to the docstring of its
// documentation default. A false return means no declaration (or always-on
// override) with a docstring exists.
type ActionResolver interface {
	ActionDocstring(name string) (string, bool)
}

// errMissingDocstring aborts a fold when an action has no resolvable
// docstring; the describer then yields no description and the caller falls
// back to the raw script text.
var errMissingDocstring = errors.New("missing docstring")

// Describer folds script ASTs into descriptions. It is stateless apart from
// the action resolver; folding is a pure function of the AST and the
// registry snapshot behind the resolver.
type Describer struct {
	actions ActionResolver
}

func NewDescriber(actions ActionResolver) *Describer {
	return &Describer{actions: actions}
}

// DescribeScript folds a parsed script into a description. It returns nil
// when the script has nothing describable (or calls an undocumented action),
// and an InvalidInterpolation error when a multi-line description was used
// where a single-line fragment is required.
func (d *Describer) DescribeScript(stmts []luaast.Stmt) (Desc, error) {
	var descs []Desc
	for _, stmt := range stmts {
		desc, err := d.describeStmt(stmt)
		if err != nil {
			if errors.Is(err, errMissingDocstring) {
				return nil, nil
			}
			return nil, err
		}
		descs = append(descs, desc)
	}
	return Concat(descs...), nil
}

func (d *Describer) describeStmt(stmt luaast.Stmt) (Desc, error) {
	switch stmt := stmt.(type) {
	case *luaast.FuncCallStmt:
		return d.describeExpr(stmt.Expr)
	case *luaast.AssignStmt:
		if len(stmt.Lhs) != 1 || len(stmt.Rhs) != 1 {
			return nil, nil
		}
		return d.describeAssignment(exprText(stmt.Lhs[0]), stmt.Rhs[0])
	case *luaast.LocalAssignStmt:
		if len(stmt.Names) != 1 || len(stmt.Exprs) != 1 {
			return nil, nil
		}
		return d.describeAssignment(stmt.Names[0], stmt.Exprs[0])
	case *luaast.ReturnStmt:
		var descs []Desc
		for _, expr := range stmt.Exprs {
			desc, err := d.describeExpr(expr)
			if err != nil {
				return nil, err
			}
			descs = append(descs, desc)
		}
		return Concat(descs...), nil
	default:
		return nil, nil
	}
}

func (d *Describer) describeAssignment(name string, rhs luaast.Expr) (Desc, error) {
	desc, err := d.describeExpr(rhs)
	if err != nil {
		return nil, err
	}
	text, err := Inline(desc)
	if err != nil {
		return nil, err
	}
	return &Step{Text: fmt.Sprintf("Let <%s> be %s", name, text)}, nil
}

func (d *Describer) describeExpr(expr luaast.Expr) (Desc, error) {
	switch expr := expr.(type) {
	case *luaast.FuncCallExpr:
		return d.describeCall(expr)
	case *luaast.StringExpr:
		return &Value{Text: expr.Value}, nil
	case *luaast.NumberExpr:
		return &Value{Text: expr.Value}, nil
	case *luaast.TrueExpr:
		return &Value{Text: "true"}, nil
	case *luaast.FalseExpr:
		return &Value{Text: "false"}, nil
	case *luaast.NilExpr:
		return &Value{Text: "nil"}, nil
	case *luaast.IdentExpr:
		return &Value{Text: expr.Value}, nil
	case *luaast.AttrGetExpr:
		return &Value{Text: exprText(expr)}, nil
	case *luaast.ArithmeticOpExpr:
		return d.describeBinary(expr.Lhs, expr.Operator, expr.Rhs)
	case *luaast.RelationalOpExpr:
		return d.describeBinary(expr.Lhs, expr.Operator, expr.Rhs)
	case *luaast.LogicalOpExpr:
		return d.describeBinary(expr.Lhs, expr.Operator, expr.Rhs)
	case *luaast.StringConcatOpExpr:
		return d.describeBinary(expr.Lhs, "..", expr.Rhs)
	case *luaast.UnaryMinusOpExpr:
		inner, err := d.describeExpr(expr.Expr)
		if err != nil {
			return nil, err
		}
		text, err := Inline(inner)
		if err != nil {
			return nil, err
		}
		return &Value{Text: "-" + text}, nil
	default:
		return nil, nil
	}
}

func (d *Describer) describeBinary(lhs luaast.Expr, op string, rhs luaast.Expr) (Desc, error) {
	left, err := d.describeExpr(lhs)
	if err != nil {
		return nil, err
	}
	right, err := d.describeExpr(rhs)
	if err != nil {
		return nil, err
	}
	leftText, err := Inline(left)
	if err != nil {
		return nil, err
	}
	rightText, err := Inline(right)
	if err != nil {
		return nil, err
	}
	return &Value{Text: fmt.Sprintf("%s %s %s", leftText, op, rightText)}, nil
}

func (d *Describer) describeCall(call *luaast.FuncCallExpr) (Desc, error) {
	name := callName(call)
	switch name {
	case "key":
		texts := make([]string, 0, len(call.Args))
		for _, arg := range call.Args {
			texts = append(texts, strings.TrimSpace(exprText(arg)))
		}
		return &Step{Text: fmt.Sprintf("Press %s.", strings.Join(texts, " "))}, nil
	case "sleep":
		return nil, nil
	}

	doc, ok := d.actions.ActionDocstring(name)
	if !ok {
		return nil, errMissingDocstring
	}
	desc := FromDocstring(doc)
	if desc == nil {
		return nil, errMissingDocstring
	}

	if template, ok := desc.(*Template); ok {
		args := make([]Desc, 0, len(call.Args))
		for _, arg := range call.Args {
			folded, err := d.describeExpr(arg)
			if err != nil {
				return nil, err
			}
			args = append(args, folded)
		}
		return template.Apply(args)
	}
	return desc, nil
}

// callName renders the called expression as a dotted action name.
func callName(call *luaast.FuncCallExpr) string {
	if call.Func != nil {
		return exprText(call.Func)
	}
	// Method-call syntax never names an action, but render it anyway.
	return exprText(call.Receiver) + ":" + call.Method
}

// exprText renders simple expressions (names, attribute chains, literals)
// as surface text.
func exprText(expr luaast.Expr) string {
	switch expr := expr.(type) {
	case *luaast.IdentExpr:
		return expr.Value
	case *luaast.StringExpr:
		return expr.Value
	case *luaast.NumberExpr:
		return expr.Value
	case *luaast.TrueExpr:
		return "true"
	case *luaast.FalseExpr:
		return "false"
	case *luaast.NilExpr:
		return "nil"
	case *luaast.AttrGetExpr:
		if key, ok := expr.Key.(*luaast.StringExpr); ok {
			return exprText(expr.Object) + "." + key.Value
		}
		return exprText(expr.Object)
	default:
		return ""
	}
}

// DescribeCommand produces the display description of a command: the
// explicit description when the binding file supplied one, otherwise the
// folded action docstrings, otherwise the raw script text. Interpolation
// failures fall back to the raw script as well.
func DescribeCommand(cmd *entry.Command, actions ActionResolver) string {
	if cmd.Description != "" {
		return cmd.Description
	}
	describer := NewDescriber(actions)
	desc, err := describer.DescribeScript(cmd.Script)
	if err != nil || desc == nil {
		// Interpolation failures and undocumented actions both fall back to
		// the raw script.
		return strings.TrimSpace(cmd.ScriptSource)
	}
	return strings.Join(desc.Lines(), "\n")
}
