package vm

import "github.com/ebonhawk/ncsvm/src/bytecode"

// ExecutionContext carries the engine arguments of a script run, the
// routine table to dispatch native calls against, and optionally a saved
// state to resume from.
type ExecutionContext struct {
	Routines   Routines
	SavedState *ExecutionState
	Args       []Argument
}

// FindArg returns the variable of the first argument of the given kind,
// or nil when absent. Absence is not an error: routine implementations
// treat a missing argument as object-invalid / zero.
func (ctx *ExecutionContext) FindArg(kind ArgKind) *Variable {
	for i := range ctx.Args {
		if ctx.Args[i].Kind == kind {
			return &ctx.Args[i].Var
		}
	}
	return nil
}

// Copy returns an independent context: the argument list is copied so
// that a captured continuation cannot observe later mutations, and the
// saved state is snapshotted. Engine handles inside argument variables
// remain shared, matching their shared-ownership semantics.
func (ctx *ExecutionContext) Copy() *ExecutionContext {
	dup := &ExecutionContext{
		Routines:   ctx.Routines,
		SavedState: ctx.SavedState.Copy(),
		Args:       make([]Argument, len(ctx.Args)),
	}
	copy(dup.Args, ctx.Args)
	return dup
}

// ExecutionState is a resumable snapshot taken by STORE_STATE: copies of
// the global and local variable regions, the program they belong to, and
// the offset to resume at. It is immutable once captured; the capturing
// machine's stack continues independently.
type ExecutionState struct {
	Globals      []Variable
	Locals       []Variable
	Program      *bytecode.Program
	ResumeOffset uint32
}

// Copy returns an independent snapshot of the state. Copy of nil is nil.
func (s *ExecutionState) Copy() *ExecutionState {
	if s == nil {
		return nil
	}
	dup := &ExecutionState{
		Globals:      make([]Variable, len(s.Globals)),
		Locals:       make([]Variable, len(s.Locals)),
		Program:      s.Program,
		ResumeOffset: s.ResumeOffset,
	}
	copy(dup.Globals, s.Globals)
	copy(dup.Locals, s.Locals)
	return dup
}
