// Package vm implements the interpreter for compiled scripts: tagged
// variables, engine arguments, execution contexts with resumable saved
// state, routine dispatch and the machine itself.
package vm

import (
	"fmt"
	"sync/atomic"
)

// Type tags a Variable payload. Exactly one payload field is meaningful
// per tag.
type Type int

const (
	// Void carries no payload.
	Void Type = iota
	// Int is a 32-bit signed integer.
	Int
	// Float is a 32-bit float.
	Float
	// String is owned text.
	String
	// Object is a 32-bit object handle.
	Object
	// Vector is three floats.
	Vector
	// Effect is an opaque shared engine handle.
	Effect
	// Event is an opaque shared engine handle.
	Event
	// Location is an opaque shared engine handle.
	Location
	// Talent is an opaque shared engine handle.
	Talent
	// Action is a captured execution context used as a deferred command.
	Action
)

func (t Type) String() string {
	switch t {
	case Void:
		return "void"
	case Int:
		return "int"
	case Float:
		return "float"
	case String:
		return "string"
	case Object:
		return "object"
	case Vector:
		return "vector"
	case Effect:
		return "effect"
	case Event:
		return "event"
	case Location:
		return "location"
	case Talent:
		return "talent"
	case Action:
		return "action"
	default:
		return fmt.Sprintf("Type(%d)", int(t))
	}
}

// ObjectID is a 32-bit handle into the engine's object table.
type ObjectID uint32

const (
	// ObjectInvalid is the null object handle.
	ObjectInvalid ObjectID = 0
	// ObjectSelf is resolved at push time to the Caller argument.
	ObjectSelf ObjectID = 0x7f000000
)

// EngineType is an opaque engine-managed value (an effect, event,
// location or talent). Implementations must be pointer types: ownership
// is shared and equality compares handle identity, never contents.
type EngineType any

// Vec3 is the vector payload of a Variable.
type Vec3 struct {
	X, Y, Z float32
}

// Add returns the component-wise sum.
func (v Vec3) Add(o Vec3) Vec3 { return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z} }

// Sub returns the component-wise difference.
func (v Vec3) Sub(o Vec3) Vec3 { return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z} }

// Mul returns the vector scaled by s.
func (v Vec3) Mul(s float32) Vec3 { return Vec3{v.X * s, v.Y * s, v.Z * s} }

// Div returns the vector divided by s.
func (v Vec3) Div(s float32) Vec3 { return Vec3{v.X / s, v.Y / s, v.Z / s} }

var varID atomic.Uint64

// Variable is a tagged script value. ID is a monotonically increasing
// counter used only for diagnostic tracing; it never participates in
// equality.
type Variable struct {
	Type   Type
	Str    string
	Vec    Vec3
	Engine EngineType
	Ctx    *ExecutionContext
	Int    int32
	Float  float32
	Object ObjectID
	ID     uint64
}

// OfNull returns a void variable.
func OfNull() Variable {
	return Variable{Type: Void}
}

// OfInt returns an int variable.
func OfInt(v int32) Variable {
	return Variable{Type: Int, Int: v, ID: varID.Add(1)}
}

// OfFloat returns a float variable.
func OfFloat(v float32) Variable {
	return Variable{Type: Float, Float: v, ID: varID.Add(1)}
}

// OfString returns a string variable.
func OfString(v string) Variable {
	return Variable{Type: String, Str: v, ID: varID.Add(1)}
}

// OfVector returns a vector variable.
func OfVector(v Vec3) Variable {
	return Variable{Type: Vector, Vec: v, ID: varID.Add(1)}
}

// OfObject returns an object variable.
func OfObject(id ObjectID) Variable {
	return Variable{Type: Object, Object: id, ID: varID.Add(1)}
}

// OfEffect returns an effect variable sharing the given handle.
func OfEffect(engine EngineType) Variable {
	return Variable{Type: Effect, Engine: engine, ID: varID.Add(1)}
}

// OfEvent returns an event variable sharing the given handle.
func OfEvent(engine EngineType) Variable {
	return Variable{Type: Event, Engine: engine, ID: varID.Add(1)}
}

// OfLocation returns a location variable sharing the given handle.
func OfLocation(engine EngineType) Variable {
	return Variable{Type: Location, Engine: engine, ID: varID.Add(1)}
}

// OfTalent returns a talent variable sharing the given handle.
func OfTalent(engine EngineType) Variable {
	return Variable{Type: Talent, Engine: engine, ID: varID.Add(1)}
}

// OfAction returns an action variable owning the captured context.
func OfAction(ctx *ExecutionContext) Variable {
	return Variable{Type: Action, Ctx: ctx, ID: varID.Add(1)}
}

// Equal compares type tag plus payload. Engine handles and captured
// contexts compare by identity.
func (v Variable) Equal(o Variable) bool {
	if v.Type != o.Type {
		return false
	}
	switch v.Type {
	case Void:
		return true
	case Int:
		return v.Int == o.Int
	case Float:
		return v.Float == o.Float
	case String:
		return v.Str == o.Str
	case Object:
		return v.Object == o.Object
	case Vector:
		return v.Vec == o.Vec
	case Effect, Event, Location, Talent:
		return v.Engine == o.Engine
	case Action:
		return v.Ctx == o.Ctx
	default:
		return false
	}
}

func (v Variable) String() string {
	switch v.Type {
	case Void:
		return "void"
	case Int:
		return fmt.Sprintf("%%%d:%d", v.ID, v.Int)
	case Float:
		return fmt.Sprintf("%%%d:%f", v.ID, v.Float)
	case String:
		return fmt.Sprintf("%%%d:%q", v.ID, v.Str)
	case Object:
		return fmt.Sprintf("%%%d:%d", v.ID, uint32(v.Object))
	case Vector:
		return fmt.Sprintf("%%%d:[%f,%f,%f]", v.ID, v.Vec.X, v.Vec.Y, v.Vec.Z)
	case Effect, Event, Location, Talent, Action:
		return fmt.Sprintf("%%%d:%v", v.ID, v.Type)
	default:
		return fmt.Sprintf("%%%d:?", v.ID)
	}
}
