// arrow.go — rewrite of async arrow functions.
//
// Arrows never rebind `this`, so the rewritten form must carry the enclosing
// context through explicitly instead of relying on whatever `this` is when
// the result gets called. When the body references the context:
//
//	const f = async () => { return await this.x(); };
//
// becomes
//
//	const f = (function (_this) {
//	    var _ref = _ngAsyncToGenerator(function* () {
//	        return yield _this.x();
//	    });
//	    return function () {
//	        return _ref.apply(_this, arguments);
//	    };
//	})(this);
//
// The IIFE takes the enclosing `this` as an argument at its invocation site
// — the one place where it still resolves lexically — and the forwarding
// function applies the captured value, not its own call-time context. An
// arrow whose body never touches `this` takes the same shape as a function
// expression (see fnexpr.go).
package ngasync

import "github.com/t14raptor/go-fast/ast"

// transformArrowFunction returns the IIFE replacing arrow, under the unique
// local refName. (nil, false) when no structural rewrite happened.
func transformArrowFunction(arrow *ast.ArrowFunctionLiteral, refName string) (ast.Expr, bool) {
	if !arrow.Async {
		return nil, false
	}

	blockBody, exprBody := arrowBody(arrow)
	if blockBody == nil && exprBody == nil {
		return nil, false
	}

	// No suspension point: drop the async flag and leave the body as it is,
	// expression form included.
	hasAwait := containsAwait(blockBody)
	if blockBody == nil {
		hasAwait = containsAwaitExpr(exprBody)
	}
	if !hasAwait {
		arrow.Async = false
		return nil, false
	}

	// Normalize an expression body into a one-statement block returning it.
	body := blockBody
	if body == nil {
		body = block(returnStmt(exprBody.Expr))
	}

	captureContext := usesThis(body)

	genFn, _ := buildGenerator(arrow.ParameterList, body, captureContext)

	if captureContext {
		return iifeWithThisParam(
			varDecl(refName, wrapperCall(genFn)),
			returnStmt(fnExpr(nil, ast.ParameterList{}, block(
				returnStmt(applyCallCaptured(ident(refName))),
			), false)),
		), true
	}

	return iife(
		varDecl(refName, wrapperCall(genFn)),
		returnStmt(fnExpr(nil, ast.ParameterList{}, block(
			returnStmt(applyCall(ident(refName))),
		), false)),
	), true
}

// arrowBody splits the two body forms of an arrow function. Exactly one of
// the results is non-nil for a well-formed arrow.
func arrowBody(arrow *ast.ArrowFunctionLiteral) (*ast.BlockStatement, *ast.Expression) {
	if arrow.Body == nil {
		return nil, nil
	}
	switch b := arrow.Body.Body.(type) {
	case *ast.BlockStatement:
		return b, nil
	case *ast.Expression:
		return nil, b
	}
	return nil, nil
}
