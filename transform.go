// transform.go — public entry point for the async→generator rewrite.
//
// OVERVIEW
// --------
// ngasync rewrites `async`/`await` syntax in a parsed JavaScript tree into
// generator functions wrapped by the `_ngAsyncToGenerator` runtime helper, so
// that asynchronous control flow runs through an AngularJS-style `$q`
// scheduler instead of native promises. Native async functions return native
// Promises, and those never trigger the digest cycle; routing every
// suspension point through the wrapper keeps legacy schedulers in the loop.
//
// The package operates on the AST of github.com/t14raptor/go-fast. Parsing
// source text into that tree and printing it back (parser.ParseFile and
// generator.Generate) are the host toolchain's job — the engine's only
// contract with its surroundings is the shared `ast` package plus one free
// identifier, WrapperName, that must exist at run time.
//
// Four construct kinds are rewritten, each through its own transformer:
//
//	async function foo() {}      → forwarding decl + hoisted `_foo` helper
//	async function () {}         → IIFE returning a forwarding function
//	async () => {}               → IIFE, with explicit `this` capture when
//	                               the body references the enclosing context
//	async method() {}            → body replaced with an immediate wrapper
//	                               invocation, `this` captured as `_this`
//
// The pass is single-threaded and purely synchronous: one walker instance
// owns the tree, the name counter and the scope stack for the duration of
// one Transform call, and nothing survives the call.
//
// Dependencies (other files)
// --------------------------
//   - walker.go:  the tree walker that drives the whole pass.
//   - fndecl.go, fnexpr.go, arrow.go, method.go: per-construct transformers.
package ngasync

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/t14raptor/go-fast/ast"
)

// Version of the ngasync rewrite engine.
const Version = "0.3.0"

// WrapperName is the free identifier the generated code calls to turn a
// generator function into a scheduler-driven async function. The engine
// neither defines nor validates it; providing it is the embedding runtime's
// contract.
const WrapperName = "_ngAsyncToGenerator"

// capturedThisName is the synthetic local that snapshots the enclosing
// `this` binding wherever the rewritten form loses implicit access to it.
const capturedThisName = "_this"

// Config carries the plugin options. It is deliberately empty: every field
// ever proposed (custom wrapper name, opting arrow functions out, disabling
// context capture) is reserved until something actually needs it. It still
// round-trips through JSON so hosts can pass an options object today without
// a migration later.
type Config struct{}

// ParseConfig decodes a JSON options object into a Config. Unknown fields
// are rejected so a typo in a build config fails loudly instead of silently
// doing nothing.
func ParseConfig(data []byte) (Config, error) {
	var cfg Config
	if len(data) == 0 {
		return cfg, nil
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		return Config{}, fmt.Errorf("ngasync: bad config: %w", err)
	}
	return cfg, nil
}

// Transform rewrites every async construct in program, in place, and returns
// the same program for convenience. The walk is children-first, so nested
// async constructs are resolved before the construct that encloses them.
//
// Transform takes ownership of the tree for the duration of the call and has
// no side effects beyond mutating it.
func Transform(program *ast.Program) *ast.Program {
	return TransformWithConfig(program, Config{})
}

// TransformWithConfig is Transform with an explicit options object. No
// recognized option currently changes behavior.
func TransformWithConfig(program *ast.Program, cfg Config) *ast.Program {
	w := newWalker(cfg)
	program.VisitWith(w)
	return program
}
