// builders.go — AST node constructors for the generated code shapes.
//
// Every node the transformers emit is built here, so the handful of shapes
// the rewrite needs (identifiers, blocks, `x.apply(this, arguments)` calls,
// wrapper invocations, IIFEs) read as one line at the call sites. Positions
// are left zero: generated nodes have no source location.
package ngasync

import (
	"github.com/t14raptor/go-fast/ast"
	"github.com/t14raptor/go-fast/token"
)

// ident returns a bare identifier node.
func ident(name string) *ast.Identifier {
	return &ast.Identifier{Name: name}
}

// expr wraps a concrete node in the polymorphic expression holder.
func expr(e ast.Expr) ast.Expression {
	return ast.Expression{Expr: e}
}

func exprPtr(e ast.Expr) *ast.Expression {
	w := expr(e)
	return &w
}

// block builds a block statement from the given statements.
func block(stmts ...ast.Statement) *ast.BlockStatement {
	return &ast.BlockStatement{List: stmts}
}

// returnStmt builds `return e;`.
func returnStmt(e ast.Expr) ast.Statement {
	return ast.Statement{Stmt: &ast.ReturnStatement{Argument: exprPtr(e)}}
}

// exprStmt builds `e;`.
func exprStmt(e ast.Expr) ast.Statement {
	return ast.Statement{Stmt: &ast.ExpressionStatement{Expression: exprPtr(e)}}
}

// varDecl builds `var name = init;`.
func varDecl(name string, init ast.Expr) ast.Statement {
	return ast.Statement{Stmt: &ast.VariableDeclaration{
		Token: token.Var,
		List: ast.VariableDeclarators{{
			Target:      &ast.BindingTarget{Target: ident(name)},
			Initializer: exprPtr(init),
		}},
	}}
}

// thisCaptureDecl builds `var _this = this;`.
func thisCaptureDecl() ast.Statement {
	return varDecl(capturedThisName, &ast.ThisExpression{})
}

// member builds the non-computed access `obj.name`.
func member(obj ast.Expr, name string) *ast.MemberExpression {
	return &ast.MemberExpression{
		Object:   exprPtr(obj),
		Property: &ast.MemberProperty{Prop: ident(name)},
	}
}

// call builds `callee(args...)`.
func call(callee ast.Expr, args ...ast.Expr) *ast.CallExpression {
	list := make([]ast.Expression, 0, len(args))
	for _, a := range args {
		list = append(list, expr(a))
	}
	return &ast.CallExpression{
		Callee:       exprPtr(callee),
		ArgumentList: list,
	}
}

// applyCall builds `callee.apply(this, arguments)` — the forwarding call
// that relays the call-time context and argument list unchanged.
func applyCall(callee ast.Expr) *ast.CallExpression {
	return call(member(callee, "apply"), &ast.ThisExpression{}, ident("arguments"))
}

// applyCallCaptured builds `callee.apply(_this, arguments)`. Used by the
// arrow transformer, where the context must be the one captured at rewrite
// time rather than whatever `this` is at call time.
func applyCallCaptured(callee ast.Expr) *ast.CallExpression {
	return call(member(callee, "apply"), ident(capturedThisName), ident("arguments"))
}

// wrapperCall builds `_ngAsyncToGenerator(generatorFn)`.
func wrapperCall(generatorFn ast.Expr) *ast.CallExpression {
	return call(ident(WrapperName), generatorFn)
}

// assign builds the plain assignment `name = rhs`.
func assign(name string, rhs ast.Expr) *ast.AssignExpression {
	return &ast.AssignExpression{
		Operator: token.Assign,
		Left:     exprPtr(ident(name)),
		Right:    exprPtr(rhs),
	}
}

// fnExpr builds a function expression. name may be nil for an anonymous
// function; generated functions carry no async flag by construction.
func fnExpr(name *ast.Identifier, params ast.ParameterList, body *ast.BlockStatement, generator bool) *ast.FunctionLiteral {
	return &ast.FunctionLiteral{
		Name:          name,
		ParameterList: params,
		Body:          body,
		Generator:     generator,
	}
}

// fnDecl builds a parameterless function declaration `function name() body`.
func fnDecl(name string, body *ast.BlockStatement) *ast.FunctionDeclaration {
	return &ast.FunctionDeclaration{
		Function: fnExpr(ident(name), ast.ParameterList{}, body, false),
	}
}

// iife builds `(function () { stmts })()`.
func iife(stmts ...ast.Statement) *ast.CallExpression {
	return call(fnExpr(nil, ast.ParameterList{}, block(stmts...), false))
}

// iifeWithThisParam builds `(function (_this) { stmts })(this)`. The
// enclosing context is passed in as an explicit argument, which is what lets
// the generated forwarding function see the arrow's lexical `this`.
func iifeWithThisParam(stmts ...ast.Statement) *ast.CallExpression {
	params := ast.ParameterList{
		List: ast.VariableDeclarators{{
			Target: &ast.BindingTarget{Target: ident(capturedThisName)},
		}},
	}
	return call(fnExpr(nil, params, block(stmts...), false), &ast.ThisExpression{})
}
