package vm

import "github.com/ebonhawk/ncsvm/src/serrors"

// Typed accessors for routine argument lists. Routine implementations
// receive a []Variable already marshalled by the machine; these helpers
// re-check the tag at the access site so that a routine wired with the
// wrong declaration fails loudly instead of reading a stale payload.

func argAt(args []Variable, index int, t Type) (Variable, error) {
	if index < 0 || index >= len(args) {
		return Variable{}, serrors.New(serrors.InvalidArgument, "argument %d out of range 0..%d", index, len(args)-1)
	}
	if args[index].Type != t {
		return Variable{}, serrors.New(serrors.InvalidArgument, "argument %d: expected=%v, actual=%v", index, t, args[index].Type)
	}
	return args[index], nil
}

// IntArg returns the int argument at index.
func IntArg(args []Variable, index int) (int32, error) {
	v, err := argAt(args, index, Int)
	return v.Int, err
}

// IntArgOrElse returns the int argument at index, or a default when the
// argument list is shorter.
func IntArgOrElse(args []Variable, index int, def int32) (int32, error) {
	if index >= len(args) {
		return def, nil
	}
	return IntArg(args, index)
}

// BoolArg returns the int argument at index as a boolean.
func BoolArg(args []Variable, index int) (bool, error) {
	v, err := IntArg(args, index)
	return v != 0, err
}

// FloatArg returns the float argument at index.
func FloatArg(args []Variable, index int) (float32, error) {
	v, err := argAt(args, index, Float)
	return v.Float, err
}

// FloatArgOrElse returns the float argument at index, or a default when
// the argument list is shorter.
func FloatArgOrElse(args []Variable, index int, def float32) (float32, error) {
	if index >= len(args) {
		return def, nil
	}
	return FloatArg(args, index)
}

// StringArg returns the string argument at index.
func StringArg(args []Variable, index int) (string, error) {
	v, err := argAt(args, index, String)
	return v.Str, err
}

// StringArgOrElse returns the string argument at index, or a default
// when the argument list is shorter.
func StringArgOrElse(args []Variable, index int, def string) (string, error) {
	if index >= len(args) {
		return def, nil
	}
	return StringArg(args, index)
}

// VectorArg returns the vector argument at index.
func VectorArg(args []Variable, index int) (Vec3, error) {
	v, err := argAt(args, index, Vector)
	return v.Vec, err
}

// VectorArgOrElse returns the vector argument at index, or a default
// when the argument list is shorter.
func VectorArgOrElse(args []Variable, index int, def Vec3) (Vec3, error) {
	if index >= len(args) {
		return def, nil
	}
	return VectorArg(args, index)
}

// ObjectArg returns the object argument at index, resolving the self
// sentinel through the context's Caller argument.
func ObjectArg(args []Variable, index int, ctx *ExecutionContext) (ObjectID, error) {
	v, err := argAt(args, index, Object)
	if err != nil {
		return ObjectInvalid, err
	}
	return resolveObject(v.Object, ctx), nil
}

// ObjectArgOrCaller returns the object argument at index, falling back
// to the Caller argument when the argument list is shorter.
func ObjectArgOrCaller(args []Variable, index int, ctx *ExecutionContext) (ObjectID, error) {
	if index >= len(args) {
		return resolveObject(ObjectSelf, ctx), nil
	}
	return ObjectArg(args, index, ctx)
}

func resolveObject(id ObjectID, ctx *ExecutionContext) ObjectID {
	if id != ObjectSelf {
		return id
	}
	if caller := ctx.FindArg(ArgCaller); caller != nil && caller.Type == Object {
		return caller.Object
	}
	return ObjectInvalid
}

// EffectArg returns the effect argument at index.
func EffectArg(args []Variable, index int) (EngineType, error) {
	v, err := argAt(args, index, Effect)
	return v.Engine, err
}

// EventArg returns the event argument at index.
func EventArg(args []Variable, index int) (EngineType, error) {
	v, err := argAt(args, index, Event)
	return v.Engine, err
}

// LocationArg returns the location argument at index.
func LocationArg(args []Variable, index int) (EngineType, error) {
	v, err := argAt(args, index, Location)
	return v.Engine, err
}

// TalentArg returns the talent argument at index.
func TalentArg(args []Variable, index int) (EngineType, error) {
	v, err := argAt(args, index, Talent)
	return v.Engine, err
}

// ActionArg returns the captured context of the action argument at
// index.
func ActionArg(args []Variable, index int) (*ExecutionContext, error) {
	v, err := argAt(args, index, Action)
	return v.Ctx, err
}
