package vm

import "github.com/ebonhawk/ncsvm/src/serrors"

// Routine is a native engine function invokable from scripted bytecode,
// with declared argument and return types. The machine validates argument
// counts and marshals stack values against these declarations before
// calling Invoke.
type Routine interface {
	Name() string
	ReturnType() Type
	ArgumentCount() int
	ArgumentType(i int) Type
	Invoke(args []Variable, ctx *ExecutionContext) (Variable, error)
}

// Routines is the engine-provided dispatch table mapping routine ids to
// implementations. Get fails for ids outside the table.
type Routines interface {
	Get(id int) (Routine, error)
}

type routineFunc struct {
	name     string
	ret      Type
	argTypes []Type
	fn       func(args []Variable, ctx *ExecutionContext) (Variable, error)
}

// NewRoutine builds a Routine from a function and its declared types.
func NewRoutine(name string, ret Type, argTypes []Type, fn func(args []Variable, ctx *ExecutionContext) (Variable, error)) Routine {
	return &routineFunc{name: name, ret: ret, argTypes: argTypes, fn: fn}
}

func (r *routineFunc) Name() string          { return r.name }
func (r *routineFunc) ReturnType() Type      { return r.ret }
func (r *routineFunc) ArgumentCount() int    { return len(r.argTypes) }
func (r *routineFunc) ArgumentType(i int) Type {
	return r.argTypes[i]
}

func (r *routineFunc) Invoke(args []Variable, ctx *ExecutionContext) (Variable, error) {
	return r.fn(args, ctx)
}

// Registry is a slice-backed routine table. Ids are assigned in
// registration order, matching how the scripting language numbers its
// routines. Register everything before sharing the registry between
// machines; Get is read-only.
type Registry struct {
	routines []Routine
}

// Register appends a routine and returns its id.
func (reg *Registry) Register(r Routine) int {
	reg.routines = append(reg.routines, r)
	return len(reg.routines) - 1
}

// Get returns the routine for an id.
func (reg *Registry) Get(id int) (Routine, error) {
	if id < 0 || id >= len(reg.routines) {
		return nil, serrors.New(serrors.RoutineOutOfRange, "routine id %d out of range 0..%d", id, len(reg.routines)-1)
	}
	return reg.routines[id], nil
}
