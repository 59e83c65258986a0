// walker.go — the single traversal that drives one rewrite pass.
//
// OVERVIEW
// --------
// The walker visits the whole tree once. At every relevant node kind it
// recurses into the children first and only then applies the matching
// transformer, so nested async constructs are resolved innermost-first and a
// transformer never observes a not-yet-rewritten inner construct.
//
// Construct dispatch:
//
//   - function declarations  → VisitFunctionDeclaration; the produced helper
//     is recorded on the scope stack for hoisting.
//   - arrow functions and function expressions → VisitExpression; the node
//     is replaced inside its expression holder.
//   - class methods          → VisitMethodDefinition; rewritten in place.
//   - object-literal methods → VisitPropertyKeyed; rewritten in place. The
//     method's function deliberately bypasses the generic expression path so
//     it is not mistaken for a function expression.
//
// Scope handling: a frame is pushed around every statement list — exactly
// the lexical positions where a function declaration may legally appear —
// and flushed through insertHoisted when the list has been walked. This is
// what pins each generated helper to the level of its originating
// declaration.
package ngasync

import "github.com/t14raptor/go-fast/ast"

// walker is the pass state: the visitor itself plus the pass-scoped name
// counter and scope stack. One walker serves exactly one Transform call.
type walker struct {
	ast.NoopVisitor
	cfg    Config
	scopes scopeStack
	refs   refCounter
}

func newWalker(cfg Config) *walker {
	w := &walker{
		cfg:    cfg,
		scopes: newScopeStack(),
	}
	w.V = w
	return w
}

// VisitStatements brackets every statement list (module body, block bodies,
// switch-case consequents) with a scope frame.
func (w *walker) VisitStatements(n *ast.Statements) {
	w.scopes.enter()

	for i := range *n {
		(*n)[i].VisitWith(w)
	}

	insertHoisted(n, w.scopes.exit())
}

// VisitFunctionDeclaration resolves nested constructs, then transforms the
// declaration itself. The helper, if one was produced, is hoisted at the
// current scope level.
func (w *walker) VisitFunctionDeclaration(n *ast.FunctionDeclaration) {
	n.VisitChildrenWith(w)

	if helper, ok := transformFunctionDeclaration(n); ok {
		w.scopes.add(ast.Statement{Stmt: helper})
	}
}

// VisitExpression transforms async arrow functions and async function
// expressions, replacing the node inside its holder.
func (w *walker) VisitExpression(n *ast.Expression) {
	n.VisitChildrenWith(w)

	switch e := n.Expr.(type) {
	case *ast.ArrowFunctionLiteral:
		if e.Async {
			if out, ok := transformArrowFunction(e, w.refs.next()); ok {
				n.Expr = out
			}
		}
	case *ast.FunctionLiteral:
		if e.Async {
			if out, ok := transformFunctionExpression(e, w.refs.next()); ok {
				n.Expr = out
			}
		}
	}
}

// VisitMethodDefinition transforms async class methods. Getters and setters
// cannot be async; only plain methods take the method path.
func (w *walker) VisitMethodDefinition(n *ast.MethodDefinition) {
	n.VisitChildrenWith(w)

	if n.Kind == ast.PropertyKindMethod {
		transformMethodFunction(n.Body)
	}
}

// VisitPropertyKeyed transforms async object-literal methods. The method's
// function is visited directly (children only) so the generic expression
// path never sees it — `{ async m() {} }` is a method, not a function
// expression, and must keep the method rewrite shape. The key is visited
// separately: a computed key is an arbitrary expression and may itself hold
// async constructs.
func (w *walker) VisitPropertyKeyed(n *ast.PropertyKeyed) {
	if n.Kind == ast.PropertyKindMethod && n.Value != nil {
		if fn, ok := n.Value.Expr.(*ast.FunctionLiteral); ok {
			if n.Key != nil {
				n.Key.VisitWith(w)
			}
			fn.VisitChildrenWith(w)
			transformMethodFunction(fn)
			return
		}
	}

	n.VisitChildrenWith(w)
}
