package vm

import (
	"github.com/fxamacker/cbor/v2"

	"github.com/ebonhawk/ncsvm/src/bytecode"
	"github.com/ebonhawk/ncsvm/src/serrors"
)

// Saved states cross process boundaries when a game session is persisted
// mid-script. The wire form is canonical CBOR keyed by small ints so that
// identical states encode to identical bytes. Engine handles and captured
// contexts are process-local pointers and refuse to encode.

var encMode cbor.EncMode

func init() {
	var err error
	encMode, err = cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(err)
	}
}

type wireVariable struct {
	Type   int        `cbor:"1,keyasint"`
	Int    int32      `cbor:"2,keyasint,omitempty"`
	Float  float32    `cbor:"3,keyasint,omitempty"`
	Str    string     `cbor:"4,keyasint,omitempty"`
	Vec    [3]float32 `cbor:"5,keyasint,omitempty"`
	Object uint32     `cbor:"6,keyasint,omitempty"`
}

type wireState struct {
	Program      string         `cbor:"1,keyasint"`
	ResumeOffset uint32         `cbor:"2,keyasint"`
	Globals      []wireVariable `cbor:"3,keyasint"`
	Locals       []wireVariable `cbor:"4,keyasint"`
}

// EncodeState serializes a saved state to canonical CBOR. The program is
// recorded by name only; DecodeState re-binds it.
func EncodeState(s *ExecutionState) ([]byte, error) {
	if s == nil {
		return nil, serrors.New(serrors.InvalidArgument, "no state to encode")
	}
	ws := wireState{
		Program:      s.Program.Name(),
		ResumeOffset: s.ResumeOffset,
		Globals:      make([]wireVariable, 0, len(s.Globals)),
		Locals:       make([]wireVariable, 0, len(s.Locals)),
	}
	for _, v := range s.Globals {
		wv, err := encodeVariable(v)
		if err != nil {
			return nil, err
		}
		ws.Globals = append(ws.Globals, wv)
	}
	for _, v := range s.Locals {
		wv, err := encodeVariable(v)
		if err != nil {
			return nil, err
		}
		ws.Locals = append(ws.Locals, wv)
	}
	return encMode.Marshal(ws)
}

// DecodeState deserializes a saved state and binds it to program, which
// must carry the name the state was captured from.
func DecodeState(data []byte, program *bytecode.Program) (*ExecutionState, error) {
	var ws wireState
	if err := cbor.Unmarshal(data, &ws); err != nil {
		return nil, err
	}
	if program.Name() != ws.Program {
		return nil, serrors.New(serrors.InvalidArgument, "state belongs to program %q, got %q", ws.Program, program.Name())
	}
	s := &ExecutionState{
		Globals:      make([]Variable, 0, len(ws.Globals)),
		Locals:       make([]Variable, 0, len(ws.Locals)),
		Program:      program,
		ResumeOffset: ws.ResumeOffset,
	}
	for _, wv := range ws.Globals {
		v, err := decodeVariable(wv)
		if err != nil {
			return nil, err
		}
		s.Globals = append(s.Globals, v)
	}
	for _, wv := range ws.Locals {
		v, err := decodeVariable(wv)
		if err != nil {
			return nil, err
		}
		s.Locals = append(s.Locals, v)
	}
	return s, nil
}

func encodeVariable(v Variable) (wireVariable, error) {
	switch v.Type {
	case Void:
		return wireVariable{Type: int(Void)}, nil
	case Int:
		return wireVariable{Type: int(Int), Int: v.Int}, nil
	case Float:
		return wireVariable{Type: int(Float), Float: v.Float}, nil
	case String:
		return wireVariable{Type: int(String), Str: v.Str}, nil
	case Object:
		return wireVariable{Type: int(Object), Object: uint32(v.Object)}, nil
	case Vector:
		return wireVariable{Type: int(Vector), Vec: [3]float32{v.Vec.X, v.Vec.Y, v.Vec.Z}}, nil
	default:
		return wireVariable{}, serrors.New(serrors.InvalidArgument, "%v variables are process-local and cannot be encoded", v.Type)
	}
}

func decodeVariable(wv wireVariable) (Variable, error) {
	switch Type(wv.Type) {
	case Void:
		return OfNull(), nil
	case Int:
		return OfInt(wv.Int), nil
	case Float:
		return OfFloat(wv.Float), nil
	case String:
		return OfString(wv.Str), nil
	case Object:
		return OfObject(ObjectID(wv.Object)), nil
	case Vector:
		return OfVector(Vec3{X: wv.Vec[0], Y: wv.Vec[1], Z: wv.Vec[2]}), nil
	default:
		return Variable{}, serrors.New(serrors.InvalidArgument, "unsupported variable tag %d", wv.Type)
	}
}
