// probes.go — read-only traversals that answer two questions about a body.
//
// containsAwait: does this body suspend? Decides between the full structural
// rewrite and the trivial reduction (drop the async flag, touch nothing).
//
// usesThis: does this body reference the enclosing `this`? Decides whether
// an arrow function's wrapper must capture the lexical context explicitly.
//
// Both probes share one discipline: they never descend into a construct that
// opens its own scope for the thing being probed. Nested ordinary functions
// are always opaque. Arrow bodies are opaque to the await probe (an async
// arrow is its own suspension scope) but transparent to the `this` probe,
// because arrows inherit the enclosing context lexically.
package ngasync

import "github.com/t14raptor/go-fast/ast"

// containsAwait reports whether body contains at least one await expression,
// not counting nested function or arrow bodies.
func containsAwait(body *ast.BlockStatement) bool {
	if body == nil {
		return false
	}
	p := &awaitProbe{}
	p.V = p
	body.VisitWith(p)
	return p.found
}

// containsAwaitExpr is containsAwait for a bare expression — the body form
// of an unbraced arrow function.
func containsAwaitExpr(e *ast.Expression) bool {
	if e == nil {
		return false
	}
	p := &awaitProbe{}
	p.V = p
	e.VisitWith(p)
	return p.found
}

type awaitProbe struct {
	ast.NoopVisitor
	found bool
}

func (p *awaitProbe) VisitExpression(n *ast.Expression) {
	if p.found {
		return
	}
	if _, ok := n.Expr.(*ast.AwaitExpression); ok {
		p.found = true
		return
	}
	n.VisitChildrenWith(p)
}

// Nested functions and arrows have their own await scope.
func (p *awaitProbe) VisitFunctionLiteral(n *ast.FunctionLiteral)           {}
func (p *awaitProbe) VisitArrowFunctionLiteral(n *ast.ArrowFunctionLiteral) {}

// usesThis reports whether body references the enclosing `this` binding.
// Arrow sub-expressions are searched (they share the context); nested
// ordinary functions are not (they rebind it).
func usesThis(body *ast.BlockStatement) bool {
	if body == nil {
		return false
	}
	p := &thisProbe{}
	p.V = p
	body.VisitWith(p)
	return p.found
}

type thisProbe struct {
	ast.NoopVisitor
	found bool
}

func (p *thisProbe) VisitExpression(n *ast.Expression) {
	if p.found {
		return
	}
	if _, ok := n.Expr.(*ast.ThisExpression); ok {
		p.found = true
		return
	}
	n.VisitChildrenWith(p)
}

// Ordinary functions introduce their own `this`; do not look inside.
func (p *thisProbe) VisitFunctionLiteral(n *ast.FunctionLiteral) {}
