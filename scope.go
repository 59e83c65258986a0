// scope.go — pending-hoist bookkeeping and placement.
//
// The function-declaration transformer produces helper declarations that
// must surface at the lexical level where the original declaration lives —
// never in a parent or child block, or the helper becomes visible in the
// wrong scope. The walker pushes one frame per statement list it enters;
// the transformer records helpers into the current frame; on the way out the
// frame is flushed into that same list.
//
// Placement rule: helpers are spliced in immediately after the last function
// declaration already present at that level (at index 0 if there is none).
// That keeps generated helpers grouped with the other function declarations
// instead of interleaved with executable statements. Deliberately kept even
// for the corner where non-function statements separate two async
// declarations — see DESIGN.md.
package ngasync

import "github.com/t14raptor/go-fast/ast"

// scopeStack tracks, per enclosing statement list, the helper declarations
// waiting to be hoisted into it. Owned by one walker for one pass.
type scopeStack struct {
	frames [][]ast.Statement
}

func newScopeStack() scopeStack {
	// One frame from the start, as a floor for the program level.
	return scopeStack{frames: make([][]ast.Statement, 1)}
}

// enter opens a frame for a statement list about to be walked.
func (s *scopeStack) enter() {
	s.frames = append(s.frames, nil)
}

// exit closes the current frame and returns its pending declarations.
func (s *scopeStack) exit() []ast.Statement {
	if len(s.frames) == 0 {
		return nil
	}
	last := len(s.frames) - 1
	pending := s.frames[last]
	s.frames = s.frames[:last]
	return pending
}

// add records a declaration to hoist at the current level.
func (s *scopeStack) add(stmt ast.Statement) {
	if len(s.frames) == 0 {
		return
	}
	s.frames[len(s.frames)-1] = append(s.frames[len(s.frames)-1], stmt)
}

// hoistIndex returns the insertion point for pending helpers in stmts: one
// past the last top-level function declaration, or 0 when there is none.
func hoistIndex(stmts []ast.Statement) int {
	idx := 0
	for i, s := range stmts {
		if _, ok := s.Stmt.(*ast.FunctionDeclaration); ok {
			idx = i + 1
		}
	}
	return idx
}

// insertHoisted splices pending into stmts at the hoist index, preserving
// the pending order.
func insertHoisted(stmts *ast.Statements, pending []ast.Statement) {
	if len(pending) == 0 {
		return
	}
	idx := hoistIndex(*stmts)

	out := make([]ast.Statement, 0, len(*stmts)+len(pending))
	out = append(out, (*stmts)[:idx]...)
	out = append(out, pending...)
	out = append(out, (*stmts)[idx:]...)
	*stmts = out
}
