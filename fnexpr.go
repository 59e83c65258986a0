// fnexpr.go — rewrite of async function expressions.
//
// Input:
//
//	var f = async function fetchData(url) {
//	    return await fetch(url);
//	};
//
// Output:
//
//	var f = (function () {
//	    var _ref = _ngAsyncToGenerator(function* (url) {
//	        return yield fetch(url);
//	    });
//	    return function fetchData() {
//	        return _ref.apply(this, arguments);
//	    };
//	})();
//
// The original name, if any, moves onto the inner forwarding function. That
// preserves the named-function-expression scoping rule: the name stays
// visible inside the function itself and nowhere else.
package ngasync

import "github.com/t14raptor/go-fast/ast"

// transformFunctionExpression returns the IIFE replacing fn, under the
// unique local refName. (nil, false) means no structural rewrite happened:
// the expression was not async, had no body, or was reduced to a plain
// function by clearing the async flag.
func transformFunctionExpression(fn *ast.FunctionLiteral, refName string) (ast.Expr, bool) {
	if !fn.Async {
		return nil, false
	}
	if fn.Body == nil {
		return nil, false
	}

	if !containsAwait(fn.Body) {
		fn.Async = false
		return nil, false
	}

	name := fn.Name

	// Function expressions establish their own context; no capture.
	genFn, _ := buildGenerator(fn.ParameterList, fn.Body, false)

	return iife(
		varDecl(refName, wrapperCall(genFn)),
		returnStmt(fnExpr(name, ast.ParameterList{}, block(
			returnStmt(applyCall(ident(refName))),
		), false)),
	), true
}
