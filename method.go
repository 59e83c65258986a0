// method.go — rewrite of async class methods and object-literal methods.
//
// Input:
//
//	class Service {
//	    async load() {
//	        const data = await this.fetch();
//	        return data;
//	    }
//	}
//
// Output:
//
//	class Service {
//	    load() {
//	        var _this = this;
//	        return _ngAsyncToGenerator(function* () {
//	            const data = yield _this.fetch();
//	            return data;
//	        })();
//	    }
//	}
//
// The generator function has its own `this`, so the method body cannot keep
// using the keyword implicitly: context capture runs unconditionally, and
// the `var _this = this;` declaration is emitted only when a reference was
// actually replaced. The wrapper is invoked immediately — the outer method
// signature is still the synchronous entry point, and by the time the body
// runs, context and arguments are already bound by the ordinary call.
package ngasync

import "github.com/t14raptor/go-fast/ast"

// transformMethodFunction rewrites an async method's function in place.
// Shared by class methods and object-literal methods, whose bodies behave
// identically. A method without a body (ambient/abstract forms) is left
// untouched; one without awaits is reduced to a plain method.
func transformMethodFunction(fn *ast.FunctionLiteral) {
	if fn == nil || !fn.Async {
		return
	}
	if fn.Body == nil {
		return
	}

	if !containsAwait(fn.Body) {
		fn.Async = false
		return
	}

	// Methods rely on call-time context; capture unconditionally.
	genFn, captured := buildGenerator(ast.ParameterList{}, fn.Body, true)

	var stmts []ast.Statement
	if captured {
		stmts = append(stmts, thisCaptureDecl())
	}
	stmts = append(stmts, returnStmt(call(wrapperCall(genFn))))

	fn.Async = false
	fn.ParameterList = ast.ParameterList{}
	fn.Body = block(stmts...)
}
