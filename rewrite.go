// rewrite.go — the two mutating traversals behind the generator builder.
//
// rewriteAwaits turns every `await x` into `yield x` so the body can live
// inside a generator function. rewriteThis swaps every direct `this`
// reference for the captured `_this` local. Descent rules mirror the probes
// in probes.go: nested functions are never entered; arrows are entered only
// by the `this` rewriter.
package ngasync

import "github.com/t14raptor/go-fast/ast"

// rewriteAwaits replaces each await expression in body with a non-delegating
// yield of the same operand, in place. Applying it to a body with no awaits
// left is a no-op.
func rewriteAwaits(body *ast.BlockStatement) {
	r := &awaitRewriter{}
	r.V = r
	body.VisitWith(r)
}

type awaitRewriter struct {
	ast.NoopVisitor
}

func (r *awaitRewriter) VisitExpression(n *ast.Expression) {
	// Children first, so `await f(await x)` rewrites inside-out.
	n.VisitChildrenWith(r)

	if aw, ok := n.Expr.(*ast.AwaitExpression); ok {
		n.Expr = &ast.YieldExpression{
			Argument: aw.Argument,
			Delegate: false,
		}
	}
}

func (r *awaitRewriter) VisitFunctionLiteral(n *ast.FunctionLiteral)           {}
func (r *awaitRewriter) VisitArrowFunctionLiteral(n *ast.ArrowFunctionLiteral) {}

// rewriteThis replaces every direct `this` reference in body with the
// captured-context local and reports whether it replaced anything. Callers
// use the report to decide whether the `var _this = this;` declaration needs
// to be emitted at all.
func rewriteThis(body *ast.BlockStatement) bool {
	r := &thisRewriter{}
	r.V = r
	body.VisitWith(r)
	return r.replaced
}

type thisRewriter struct {
	ast.NoopVisitor
	replaced bool
}

func (r *thisRewriter) VisitExpression(n *ast.Expression) {
	if _, ok := n.Expr.(*ast.ThisExpression); ok {
		r.replaced = true
		n.Expr = ident(capturedThisName)
		return
	}
	n.VisitChildrenWith(r)
}

func (r *thisRewriter) VisitFunctionLiteral(n *ast.FunctionLiteral) {}
