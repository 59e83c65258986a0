// genfunc.go — the single choke point that turns an async body into a
// generator function. All four construct transformers funnel through
// buildGenerator, which is what keeps suspension and context handling
// consistent across them.
package ngasync

import "github.com/t14raptor/go-fast/ast"

// buildGenerator rewrites body into generator form and assembles it with
// params into a generator function literal.
//
// Awaits are always rewritten to yields. When captureContext is set, direct
// `this` references are additionally redirected to the `_this` local; the
// second result reports whether any such reference actually existed, so the
// caller knows whether to emit the capture declaration.
//
// body is taken over: the returned function owns it.
func buildGenerator(params ast.ParameterList, body *ast.BlockStatement, captureContext bool) (*ast.FunctionLiteral, bool) {
	rewriteAwaits(body)

	captured := false
	if captureContext {
		captured = rewriteThis(body)
	}

	return fnExpr(nil, params, body, true), captured
}
