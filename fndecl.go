// fndecl.go — rewrite of async function declarations.
//
// Input:
//
//	async function foo(a, b) {
//	    return await bar(a, b);
//	}
//
// Output:
//
//	function foo() {
//	    return _foo.apply(this, arguments);
//	}
//	function _foo() {
//	    _foo = _ngAsyncToGenerator(function* (a, b) {
//	        return yield bar(a, b);
//	    });
//	    return _foo.apply(this, arguments);
//	}
//
// The helper overwrites itself on first call, so the wrapper is constructed
// lazily and exactly once; every later call hits the memoized wrapper
// directly. `foo` keeps its original binding and arity-independent
// forwarding via apply(this, arguments). The helper declaration is returned
// to the walker for hoisting at the declaration's own scope level.
package ngasync

import "github.com/t14raptor/go-fast/ast"

// helperName derives the hoisted helper's name from the declaration name.
func helperName(name string) string {
	return "_" + name
}

// transformFunctionDeclaration rewrites decl in place when it is an async
// declaration with at least one suspension point, and returns the helper
// declaration to hoist.
//
// Tri-state outcome: (helper, true) when structurally transformed;
// (nil, false) either when nothing needed doing, or — for an async
// declaration without awaits — after the trivial reduction that only clears
// the async flag. A declaration without a body (or without a name) is left
// entirely untouched.
func transformFunctionDeclaration(decl *ast.FunctionDeclaration) (*ast.FunctionDeclaration, bool) {
	fn := decl.Function
	if fn == nil || !fn.Async {
		return nil, false
	}
	if fn.Body == nil || fn.Name == nil {
		return nil, false
	}

	if !containsAwait(fn.Body) {
		fn.Async = false
		return nil, false
	}

	helper := helperName(fn.Name.Name)

	// Declarations establish their own context; no capture.
	genFn, _ := buildGenerator(fn.ParameterList, fn.Body, false)

	helperDecl := fnDecl(helper, block(
		exprStmt(assign(helper, wrapperCall(genFn))),
		returnStmt(applyCall(ident(helper))),
	))

	fn.Async = false
	fn.Generator = false
	fn.ParameterList = ast.ParameterList{}
	fn.Body = block(returnStmt(applyCall(ident(helper))))

	return helperDecl, true
}
