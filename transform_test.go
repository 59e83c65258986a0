// transform_test.go
package ngasync

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/t14raptor/go-fast/ast"
	"github.com/t14raptor/go-fast/generator"
	"github.com/t14raptor/go-fast/parser"
)

// --- helpers ---------------------------------------------------------------

func mustParse(t *testing.T, src string) *ast.Program {
	t.Helper()
	p, err := parser.ParseFile(src)
	if err != nil {
		t.Fatalf("parse error: %v\nsource:\n%s", err, src)
	}
	return p
}

// norm round-trips src through the host parser and generator, yielding the
// generator's canonical formatting. Expected outputs in these tests are
// normalized the same way, so comparisons never depend on whitespace.
func norm(t *testing.T, src string) string {
	t.Helper()
	return strings.TrimSpace(generator.Generate(mustParse(t, src)))
}

// rewrite parses src, runs the transform, and prints the result.
func rewrite(t *testing.T, src string) string {
	t.Helper()
	p := mustParse(t, src)
	Transform(p)
	return strings.TrimSpace(generator.Generate(p))
}

func expectRewrite(t *testing.T, src, want string) {
	t.Helper()
	got := rewrite(t, src)
	if diff := cmp.Diff(norm(t, want), got); diff != "" {
		t.Errorf("rewrite mismatch (-want +got):\n%s\nsource:\n%s", diff, src)
	}
}

// mustDecl returns the i-th top-level statement as a function declaration.
func mustDecl(t *testing.T, p *ast.Program, i int) *ast.FunctionDeclaration {
	t.Helper()
	fd, ok := p.Body[i].Stmt.(*ast.FunctionDeclaration)
	if !ok {
		t.Fatalf("stmt[%d] is %T, want *ast.FunctionDeclaration", i, p.Body[i].Stmt)
	}
	return fd
}

// declBody returns the body of the i-th top-level statement, which must be a
// function declaration.
func declBody(t *testing.T, p *ast.Program, i int) *ast.BlockStatement {
	t.Helper()
	return mustDecl(t, p, i).Function.Body
}

// declName returns the name of the i-th top-level function declaration.
func declName(t *testing.T, p *ast.Program, i int) string {
	t.Helper()
	return mustDecl(t, p, i).Function.Name.Name
}

// --- config ----------------------------------------------------------------

func Test_Config_EmptyAndUnknown(t *testing.T) {
	if _, err := ParseConfig(nil); err != nil {
		t.Fatalf("empty config: %v", err)
	}
	if _, err := ParseConfig([]byte(`{}`)); err != nil {
		t.Fatalf("empty object: %v", err)
	}
	if _, err := ParseConfig([]byte(`{"wrapperName": "x"}`)); err == nil {
		t.Fatalf("unknown option accepted; want error")
	}
}

// --- no-await fast path, all four construct kinds --------------------------

func Test_Transform_NoAwait_FunctionDeclaration(t *testing.T) {
	expectRewrite(t,
		`async function f(a) { return a; }`,
		`function f(a) { return a; }`)
}

func Test_Transform_NoAwait_FunctionExpression(t *testing.T) {
	expectRewrite(t,
		`var f = async function (a) { return a; };`,
		`var f = function (a) { return a; };`)
}

func Test_Transform_NoAwait_ArrowFunction(t *testing.T) {
	expectRewrite(t,
		`var f = async (a) => a + 1;`,
		`var f = (a) => a + 1;`)
}

func Test_Transform_NoAwait_ClassMethod(t *testing.T) {
	expectRewrite(t,
		`class S { async m(x) { return x; } }`,
		`class S { m(x) { return x; } }`)
}

func Test_Transform_NoAwait_ObjectMethod(t *testing.T) {
	expectRewrite(t,
		`var o = { async m(x) { return x; } };`,
		`var o = { m(x) { return x; } };`)
}

// --- missing bodies ----------------------------------------------------------
//
// The parser never produces a body-less function, so these branches are
// exercised on constructed nodes. The skip must be total: no rewrite, and
// the async flag stays set.

func Test_Transform_MissingBody_FunctionDeclaration_Skipped(t *testing.T) {
	decl := &ast.FunctionDeclaration{
		Function: &ast.FunctionLiteral{Name: ident("f"), Async: true},
	}

	helper, ok := transformFunctionDeclaration(decl)
	if helper != nil || ok {
		t.Fatalf("transform = (%v, %v); want (nil, false)", helper, ok)
	}
	if !decl.Function.Async {
		t.Error("async flag cleared; want left untouched")
	}
}

func Test_Transform_MissingName_FunctionDeclaration_Skipped(t *testing.T) {
	decl := &ast.FunctionDeclaration{
		Function: &ast.FunctionLiteral{Async: true, Body: block()},
	}

	helper, ok := transformFunctionDeclaration(decl)
	if helper != nil || ok {
		t.Fatalf("transform = (%v, %v); want (nil, false)", helper, ok)
	}
	if !decl.Function.Async {
		t.Error("async flag cleared; want left untouched")
	}
}

func Test_Transform_MissingBody_FunctionExpression_Skipped(t *testing.T) {
	fn := &ast.FunctionLiteral{Async: true}

	out, ok := transformFunctionExpression(fn, "_ref")
	if out != nil || ok {
		t.Fatalf("transform = (%v, %v); want (nil, false)", out, ok)
	}
	if !fn.Async {
		t.Error("async flag cleared; want left untouched")
	}
}

func Test_Transform_MissingBody_Arrow_Skipped(t *testing.T) {
	arrow := &ast.ArrowFunctionLiteral{Async: true}

	out, ok := transformArrowFunction(arrow, "_ref")
	if out != nil || ok {
		t.Fatalf("transform = (%v, %v); want (nil, false)", out, ok)
	}
	if !arrow.Async {
		t.Error("async flag cleared; want left untouched")
	}
}

func Test_Transform_MissingBody_Method_Skipped(t *testing.T) {
	fn := &ast.FunctionLiteral{Async: true}

	transformMethodFunction(fn)

	if !fn.Async {
		t.Error("async flag cleared; want left untouched")
	}
	if fn.Body != nil {
		t.Errorf("body = %v; want nil", fn.Body)
	}
}

// --- idempotence on non-async input ----------------------------------------

func Test_Transform_Idempotent_On_NonAsync(t *testing.T) {
	src := `
		function f(a) { return a * 2; }
		var g = (x) => x + 1;
		class C { m() { return this.v; } }
	`
	once := rewrite(t, src)
	twice := rewrite(t, once)
	if diff := cmp.Diff(once, twice); diff != "" {
		t.Errorf("second pass changed output (-once +twice):\n%s", diff)
	}
}

// --- generated name uniqueness ----------------------------------------------

func Test_Transform_RefNames_Unique_And_Sequential(t *testing.T) {
	out := rewrite(t, `
		var a = async () => { await f(); };
		var b = async () => { await g(); };
		var c = async function () { await h(); };
	`)

	for _, name := range []string{"_ref ", "_ref1 ", "_ref2 "} {
		if !strings.Contains(out, "var "+name) {
			t.Errorf("output missing %q:\n%s", "var "+name, out)
		}
	}
	if strings.Contains(out, "_ref3") {
		t.Errorf("unexpected fourth ref name in:\n%s", out)
	}
}

// --- hoist placement --------------------------------------------------------

func Test_Transform_Hoist_HelperFollowsDeclaration(t *testing.T) {
	p := mustParse(t, `async function foo() { return await bar(); }`)
	Transform(p)

	if got := len(p.Body); got != 2 {
		t.Fatalf("top-level statements = %d; want 2", got)
	}
	if name := declName(t, p, 0); name != "foo" {
		t.Errorf("stmt[0] name = %q; want \"foo\"", name)
	}
	if name := declName(t, p, 1); name != "_foo" {
		t.Errorf("stmt[1] name = %q; want \"_foo\"", name)
	}
}

func Test_Transform_Hoist_AfterLastFunctionDeclaration(t *testing.T) {
	p := mustParse(t, `
		async function a() { await x(); }
		var k = 1;
		async function b() { await y(); }
	`)
	Transform(p)

	// Helpers land after the last function declaration at this level, past
	// the intervening var statement: a, k, b, _a, _b.
	if got := len(p.Body); got != 5 {
		t.Fatalf("top-level statements = %d; want 5", got)
	}
	if name := declName(t, p, 3); name != "_a" {
		t.Errorf("stmt[3] name = %q; want \"_a\"", name)
	}
	if name := declName(t, p, 4); name != "_b" {
		t.Errorf("stmt[4] name = %q; want \"_b\"", name)
	}
}

func Test_Transform_Hoist_StaysInNestedScope(t *testing.T) {
	expectRewrite(t, `
		function outer() {
			async function inner() { await f(); }
		}
	`, `
		function outer() {
			function inner() {
				return _inner.apply(this, arguments);
			}
			function _inner() {
				_inner = _ngAsyncToGenerator(function* () {
					yield f();
				});
				return _inner.apply(this, arguments);
			}
		}
	`)
}

// --- end-to-end shapes ------------------------------------------------------

func Test_Transform_FunctionDeclaration_EndToEnd(t *testing.T) {
	expectRewrite(t, `
		async function foo(a, b) {
			return await bar(a, b);
		}
	`, `
		function foo() {
			return _foo.apply(this, arguments);
		}
		function _foo() {
			_foo = _ngAsyncToGenerator(function* (a, b) {
				return yield bar(a, b);
			});
			return _foo.apply(this, arguments);
		}
	`)
}

func Test_Transform_ClassMethod_CapturesContext(t *testing.T) {
	expectRewrite(t, `
		class Service {
			async load() {
				return await this.fetch();
			}
		}
	`, `
		class Service {
			load() {
				var _this = this;
				return _ngAsyncToGenerator(function* () {
					return yield _this.fetch();
				})();
			}
		}
	`)
}

func Test_Transform_ClassMethod_NoContext_NoCapture(t *testing.T) {
	expectRewrite(t, `
		class S {
			async tick() {
				await sleep(1);
			}
		}
	`, `
		class S {
			tick() {
				return _ngAsyncToGenerator(function* () {
					yield sleep(1);
				})();
			}
		}
	`)
}

func Test_Transform_Arrow_InheritedContext_Forwarded(t *testing.T) {
	expectRewrite(t,
		`var f = async () => { return await this.x(); };`,
		`var f = (function (_this) {
			var _ref = _ngAsyncToGenerator(function* () {
				return yield _this.x();
			});
			return function () {
				return _ref.apply(_this, arguments);
			};
		})(this);`)
}

func Test_Transform_Arrow_ExpressionBody_DeepAwait(t *testing.T) {
	expectRewrite(t,
		`var f = async (u) => g(await h(u));`,
		`var f = (function () {
			var _ref = _ngAsyncToGenerator(function* (u) {
				return g(yield h(u));
			});
			return function () {
				return _ref.apply(this, arguments);
			};
		})();`)
}

func Test_Transform_NamedFunctionExpression_KeepsInnerName(t *testing.T) {
	expectRewrite(t,
		`var f = async function fetchData(url) { return await fetch(url); };`,
		`var f = (function () {
			var _ref = _ngAsyncToGenerator(function* (url) {
				return yield fetch(url);
			});
			return function fetchData() {
				return _ref.apply(this, arguments);
			};
		})();`)
}

func Test_Transform_Nested_InnermostFirst(t *testing.T) {
	expectRewrite(t, `
		async function outer() {
			async function inner() { await a(); }
			await inner();
		}
	`, `
		function outer() {
			return _outer.apply(this, arguments);
		}
		function _outer() {
			_outer = _ngAsyncToGenerator(function* () {
				function inner() {
					return _inner.apply(this, arguments);
				}
				function _inner() {
					_inner = _ngAsyncToGenerator(function* () {
						yield a();
					});
					return _inner.apply(this, arguments);
				}
				yield inner();
			});
			return _outer.apply(this, arguments);
		}
	`)
}

func Test_Transform_ObjectMethod_CapturesContext(t *testing.T) {
	expectRewrite(t, `
		var o = {
			async load() {
				return await this.fetch();
			}
		};
	`, `
		var o = {
			load() {
				var _this = this;
				return _ngAsyncToGenerator(function* () {
					return yield _this.fetch();
				})();
			}
		};
	`)
}

// A computed method key is an arbitrary expression; async constructs inside
// it are rewritten like any other, independently of the method body.
func Test_Transform_ObjectMethod_ComputedKey_AsyncInKey(t *testing.T) {
	expectRewrite(t,
		`var o = { async [tag(async () => { await x(); })]() { await y(); } };`,
		`var o = { [tag((function () {
			var _ref = _ngAsyncToGenerator(function* () {
				yield x();
			});
			return function () {
				return _ref.apply(this, arguments);
			};
		})())]() {
			return _ngAsyncToGenerator(function* () {
				yield y();
			})();
		} };`)
}

// Object properties holding async function expressions are expressions, not
// methods: they get the IIFE shape, never the method shape.
func Test_Transform_ObjectProperty_FunctionExpression_NotMethod(t *testing.T) {
	expectRewrite(t,
		`var o = { load: async function () { return await f(); } };`,
		`var o = { load: (function () {
			var _ref = _ngAsyncToGenerator(function* () {
				return yield f();
			});
			return function () {
				return _ref.apply(this, arguments);
			};
		})() };`)
}
