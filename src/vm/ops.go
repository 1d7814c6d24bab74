package vm

import (
	"math"

	"go.uber.org/zap"

	"github.com/ebonhawk/ncsvm/src/bytecode"
	"github.com/ebonhawk/ncsvm/src/serrors"
)

type handler func(m *Machine, ins *bytecode.Instruction) error

// dispatch is the per-process opcode table. It is built once and shared
// by reference between all machine instances; machines never mutate it.
var dispatch = map[bytecode.Op]handler{
	bytecode.CPDOWNSP: execCPDOWNSP,
	bytecode.CPTOPSP:  execCPTOPSP,
	bytecode.CPDOWNBP: execCPDOWNBP,
	bytecode.CPTOPBP:  execCPTOPBP,

	bytecode.RSADDI:   reserve(func() Variable { return OfInt(0) }),
	bytecode.RSADDF:   reserve(func() Variable { return OfFloat(0) }),
	bytecode.RSADDS:   reserve(func() Variable { return OfString("") }),
	bytecode.RSADDO:   reserve(func() Variable { return OfObject(ObjectInvalid) }),
	bytecode.RSADDEFF: reserve(func() Variable { return OfEffect(nil) }),
	bytecode.RSADDEVT: reserve(func() Variable { return OfEvent(nil) }),
	bytecode.RSADDLOC: reserve(func() Variable { return OfLocation(nil) }),
	bytecode.RSADDTAL: reserve(func() Variable { return OfTalent(nil) }),

	bytecode.CONSTI: execCONSTI,
	bytecode.CONSTF: execCONSTF,
	bytecode.CONSTS: execCONSTS,
	bytecode.CONSTO: execCONSTO,
	bytecode.ACTION: execACTION,

	bytecode.LOGANDII:  intOp(func(l, r int32) Variable { return boolInt(l != 0 && r != 0) }),
	bytecode.LOGORII:   intOp(func(l, r int32) Variable { return boolInt(l != 0 || r != 0) }),
	bytecode.INCORII:   intOp(func(l, r int32) Variable { return OfInt(l | r) }),
	bytecode.EXCORII:   intOp(func(l, r int32) Variable { return OfInt(l ^ r) }),
	bytecode.BOOLANDII: intOp(func(l, r int32) Variable { return OfInt(l & r) }),

	bytecode.EQUALII: intOp(func(l, r int32) Variable { return boolInt(l == r) }),
	bytecode.EQUALFF: floatOp(func(l, r float32) Variable {
		return boolInt(math.Abs(float64(l-r)) < floatEpsilon)
	}),
	bytecode.EQUALSS:     stringOp(func(l, r string) Variable { return boolInt(l == r) }),
	bytecode.EQUALOO:     objectOp(func(l, r ObjectID) Variable { return boolInt(l == r) }),
	bytecode.EQUALTT:     tupleOp(true),
	bytecode.EQUALEFFEFF: engineOp(Effect, func(l, r EngineType) Variable { return boolInt(l == r) }),
	bytecode.EQUALEVTEVT: engineOp(Event, func(l, r EngineType) Variable { return boolInt(l == r) }),
	bytecode.EQUALLOCLOC: engineOp(Location, func(l, r EngineType) Variable { return boolInt(l == r) }),
	bytecode.EQUALTALTAL: engineOp(Talent, func(l, r EngineType) Variable { return boolInt(l == r) }),

	bytecode.NEQUALII:     intOp(func(l, r int32) Variable { return boolInt(l != r) }),
	bytecode.NEQUALFF:     floatOp(func(l, r float32) Variable { return boolInt(l != r) }),
	bytecode.NEQUALSS:     stringOp(func(l, r string) Variable { return boolInt(l != r) }),
	bytecode.NEQUALOO:     objectOp(func(l, r ObjectID) Variable { return boolInt(l != r) }),
	bytecode.NEQUALTT:     tupleOp(false),
	bytecode.NEQUALEFFEFF: engineOp(Effect, func(l, r EngineType) Variable { return boolInt(l != r) }),
	bytecode.NEQUALEVTEVT: engineOp(Event, func(l, r EngineType) Variable { return boolInt(l != r) }),
	bytecode.NEQUALLOCLOC: engineOp(Location, func(l, r EngineType) Variable { return boolInt(l != r) }),
	bytecode.NEQUALTALTAL: engineOp(Talent, func(l, r EngineType) Variable { return boolInt(l != r) }),

	bytecode.GEQII: intOp(func(l, r int32) Variable { return boolInt(l >= r) }),
	bytecode.GEQFF: floatOp(func(l, r float32) Variable { return boolInt(l >= r) }),
	bytecode.GTII:  intOp(func(l, r int32) Variable { return boolInt(l > r) }),
	bytecode.GTFF:  floatOp(func(l, r float32) Variable { return boolInt(l > r) }),
	bytecode.LTII:  intOp(func(l, r int32) Variable { return boolInt(l < r) }),
	bytecode.LTFF:  floatOp(func(l, r float32) Variable { return boolInt(l < r) }),
	bytecode.LEQII: intOp(func(l, r int32) Variable { return boolInt(l <= r) }),
	bytecode.LEQFF: floatOp(func(l, r float32) Variable { return boolInt(l <= r) }),

	bytecode.SHLEFTII: intOp(func(l, r int32) Variable { return OfInt(l << uint32(r)) }),
	bytecode.SHRIGHTII: intOp(func(l, r int32) Variable {
		// Arithmetic shift: negate-shift-negate preserves the sign the way
		// the original scripting runtime does.
		if l < 0 {
			return OfInt(-((-l) >> uint32(r)))
		}
		return OfInt(l >> uint32(r))
	}),
	bytecode.USHRIGHTII: intOp(func(l, r int32) Variable { return OfInt(int32(uint32(l) >> uint32(r))) }),

	bytecode.ADDII: intOp(func(l, r int32) Variable { return OfInt(l + r) }),
	bytecode.ADDIF: intFloatOp(func(l int32, r float32) Variable { return OfFloat(float32(l) + r) }),
	bytecode.ADDFI: floatIntOp(func(l float32, r int32) Variable { return OfFloat(l + float32(r)) }),
	bytecode.ADDFF: floatOp(func(l, r float32) Variable { return OfFloat(l + r) }),
	bytecode.ADDSS: stringOp(func(l, r string) Variable { return OfString(l + r) }),
	bytecode.ADDVV: vectorOp(func(l, r Vec3) Vec3 { return l.Add(r) }),

	bytecode.SUBII: intOp(func(l, r int32) Variable { return OfInt(l - r) }),
	bytecode.SUBIF: intFloatOp(func(l int32, r float32) Variable { return OfFloat(float32(l) - r) }),
	bytecode.SUBFI: floatIntOp(func(l float32, r int32) Variable { return OfFloat(l - float32(r)) }),
	bytecode.SUBFF: floatOp(func(l, r float32) Variable { return OfFloat(l - r) }),
	bytecode.SUBVV: vectorOp(func(l, r Vec3) Vec3 { return l.Sub(r) }),

	bytecode.MULII: intOp(func(l, r int32) Variable { return OfInt(l * r) }),
	bytecode.MULIF: intFloatOp(func(l int32, r float32) Variable { return OfFloat(float32(l) * r) }),
	bytecode.MULFI: floatIntOp(func(l float32, r int32) Variable { return OfFloat(l * float32(r)) }),
	bytecode.MULFF: floatOp(func(l, r float32) Variable { return OfFloat(l * r) }),
	bytecode.MULVF: vectorFloatOp(func(l Vec3, r float32) Vec3 { return l.Mul(r) }),
	bytecode.MULFV: floatVectorOp(func(l float32, r Vec3) Vec3 { return r.Mul(l) }),

	bytecode.DIVII: execDIVII,
	bytecode.DIVIF: intFloatOp(func(l int32, r float32) Variable {
		return OfFloat(float32(l) / max(floatEpsilon, r))
	}),
	bytecode.DIVFI: floatIntOp(func(l float32, r int32) Variable { return OfFloat(l / float32(r)) }),
	bytecode.DIVFF: floatOp(func(l, r float32) Variable { return OfFloat(l / max(floatEpsilon, r)) }),
	bytecode.DIVVF: vectorFloatOp(func(l Vec3, r float32) Vec3 { return l.Div(r) }),
	bytecode.DIVFV: floatVectorOp(func(l float32, r Vec3) Vec3 { return Vec3{l / r.X, l / r.Y, l / r.Z} }),
	bytecode.MODII: execMODII,

	bytecode.NEGI: execNEGI,
	bytecode.NEGF: execNEGF,
	bytecode.NOTI: execNOTI,

	bytecode.MOVSP:    execMOVSP,
	bytecode.JMP:      execJMP,
	bytecode.JSR:      execJSR,
	bytecode.JZ:       execJZ,
	bytecode.JNZ:      execJNZ,
	bytecode.RETN:     execRETN,
	bytecode.DESTRUCT: execDESTRUCT,

	bytecode.DECISP: adjustSP(-1),
	bytecode.INCISP: adjustSP(1),
	bytecode.DECIBP: adjustBP(-1),
	bytecode.INCIBP: adjustBP(1),

	bytecode.SAVEBP:      execSAVEBP,
	bytecode.RESTOREBP:   execRESTOREBP,
	bytecode.STORE_STATE: execSTORE_STATE,

	bytecode.NOP:  execNOP,
	bytecode.NOP2: execNOP,
}

func boolInt(b bool) Variable {
	if b {
		return OfInt(1)
	}
	return OfInt(0)
}

func reserve(newVar func() Variable) handler {
	return func(m *Machine, _ *bytecode.Instruction) error {
		m.push(newVar())
		m.logResults(1)
		return nil
	}
}

func intOp(fn func(l, r int32) Variable) handler {
	return func(m *Machine, _ *bytecode.Instruction) error {
		m.logOperands(2)
		l, r, err := m.popInts()
		if err != nil {
			return err
		}
		m.push(fn(l, r))
		m.logResults(1)
		return nil
	}
}

func floatOp(fn func(l, r float32) Variable) handler {
	return func(m *Machine, _ *bytecode.Instruction) error {
		m.logOperands(2)
		l, r, err := m.popFloats()
		if err != nil {
			return err
		}
		m.push(fn(l, r))
		m.logResults(1)
		return nil
	}
}

func intFloatOp(fn func(l int32, r float32) Variable) handler {
	return func(m *Machine, _ *bytecode.Instruction) error {
		m.logOperands(2)
		l, r, err := m.popIntFloat()
		if err != nil {
			return err
		}
		m.push(fn(l, r))
		m.logResults(1)
		return nil
	}
}

func floatIntOp(fn func(l float32, r int32) Variable) handler {
	return func(m *Machine, _ *bytecode.Instruction) error {
		m.logOperands(2)
		l, r, err := m.popFloatInt()
		if err != nil {
			return err
		}
		m.push(fn(l, r))
		m.logResults(1)
		return nil
	}
}

func stringOp(fn func(l, r string) Variable) handler {
	return func(m *Machine, _ *bytecode.Instruction) error {
		m.logOperands(2)
		left, right, err := m.popPair(String)
		if err != nil {
			return err
		}
		m.push(fn(left.Str, right.Str))
		m.logResults(1)
		return nil
	}
}

func objectOp(fn func(l, r ObjectID) Variable) handler {
	return func(m *Machine, _ *bytecode.Instruction) error {
		m.logOperands(2)
		left, right, err := m.popPair(Object)
		if err != nil {
			return err
		}
		m.push(fn(left.Object, right.Object))
		m.logResults(1)
		return nil
	}
}

func engineOp(t Type, fn func(l, r EngineType) Variable) handler {
	return func(m *Machine, _ *bytecode.Instruction) error {
		m.logOperands(2)
		left, right, err := m.popPair(t)
		if err != nil {
			return err
		}
		m.push(fn(left.Engine, right.Engine))
		m.logResults(1)
		return nil
	}
}

func vectorOp(fn func(l, r Vec3) Vec3) handler {
	return func(m *Machine, _ *bytecode.Instruction) error {
		m.logOperands(6)
		l, r, err := m.popVectors()
		if err != nil {
			return err
		}
		m.pushVector(fn(l, r))
		m.logResults(3)
		return nil
	}
}

func vectorFloatOp(fn func(l Vec3, r float32) Vec3) handler {
	return func(m *Machine, _ *bytecode.Instruction) error {
		m.logOperands(4)
		l, r, err := m.popVectorFloat()
		if err != nil {
			return err
		}
		m.pushVector(fn(l, r))
		m.logResults(3)
		return nil
	}
}

func floatVectorOp(fn func(l float32, r Vec3) Vec3) handler {
	return func(m *Machine, _ *bytecode.Instruction) error {
		m.logOperands(4)
		l, r, err := m.popFloatVector()
		if err != nil {
			return err
		}
		m.pushVector(fn(l, r))
		m.logResults(3)
		return nil
	}
}

// tupleOp compares two groups of size/4 variables element-wise in
// encounter order and pushes a single int boolean.
func tupleOp(wantEqual bool) handler {
	return func(m *Machine, ins *bytecode.Instruction) error {
		n := ins.Size / 4
		m.logOperands(2 * n)
		first := make([]Variable, 0, n)
		for j := 0; j < n; j++ {
			v, err := m.popVariable()
			if err != nil {
				return err
			}
			first = append(first, v)
		}
		second := make([]Variable, 0, n)
		for j := 0; j < n; j++ {
			v, err := m.popVariable()
			if err != nil {
				return err
			}
			second = append(second, v)
		}
		equal := true
		for i := range first {
			if !first[i].Equal(second[i]) {
				equal = false
				break
			}
		}
		m.push(boolInt(equal == wantEqual))
		m.logResults(1)
		return nil
	}
}

func execCPDOWNSP(m *Machine, ins *bytecode.Instruction) error {
	count := ins.Size / 4
	src := len(m.stack) - count
	dst := len(m.stack) + ins.StackOffset/4
	if src < 0 || dst < 0 || dst+count > len(m.stack) {
		return serrors.New(serrors.InvalidOperand, "copy-down range out of bounds: offset=%d size=%d", ins.StackOffset, ins.Size)
	}
	copy(m.stack[dst:dst+count], m.stack[src:src+count])
	return nil
}

func execCPTOPSP(m *Machine, ins *bytecode.Instruction) error {
	count := ins.Size / 4
	src := len(m.stack) + ins.StackOffset/4
	if src < 0 || src >= len(m.stack) {
		return serrors.New(serrors.InvalidOperand, "copy-up range out of bounds: offset=%d size=%d", ins.StackOffset, ins.Size)
	}
	for i := 0; i < count; i++ {
		m.push(m.stack[src+i])
	}
	return nil
}

func execCPDOWNBP(m *Machine, ins *bytecode.Instruction) error {
	count := ins.Size / 4
	src := len(m.stack) - count
	dst := m.globalCount + ins.StackOffset/4
	if src < 0 || dst < 0 || dst+count > len(m.stack) {
		return serrors.New(serrors.InvalidOperand, "copy-down range out of bounds: offset=%d size=%d", ins.StackOffset, ins.Size)
	}
	copy(m.stack[dst:dst+count], m.stack[src:src+count])
	return nil
}

func execCPTOPBP(m *Machine, ins *bytecode.Instruction) error {
	count := ins.Size / 4
	src := m.globalCount + ins.StackOffset/4
	if src < 0 || src >= len(m.stack) {
		return serrors.New(serrors.InvalidOperand, "copy-up range out of bounds: offset=%d size=%d", ins.StackOffset, ins.Size)
	}
	for i := 0; i < count; i++ {
		m.push(m.stack[src+i])
	}
	return nil
}

func execCONSTI(m *Machine, ins *bytecode.Instruction) error {
	m.push(OfInt(ins.IntValue))
	m.logResults(1)
	return nil
}

func execCONSTF(m *Machine, ins *bytecode.Instruction) error {
	m.push(OfFloat(ins.FloatValue))
	m.logResults(1)
	return nil
}

func execCONSTS(m *Machine, ins *bytecode.Instruction) error {
	m.push(OfString(ins.StrValue))
	m.logResults(1)
	return nil
}

// execCONSTO pushes an object literal. The self sentinel is resolved at
// push time through the Caller argument; without one it degrades to the
// invalid object.
func execCONSTO(m *Machine, ins *bytecode.Instruction) error {
	id := ObjectID(ins.ObjectID)
	switch {
	case id != ObjectSelf:
		m.push(OfObject(id))
	default:
		if caller := m.ctx.FindArg(ArgCaller); caller != nil {
			m.push(*caller)
		} else {
			m.push(OfObject(ObjectInvalid))
		}
	}
	m.logResults(1)
	return nil
}

func execACTION(m *Machine, ins *bytecode.Instruction) error {
	routine, err := m.ctx.Routines.Get(ins.Routine)
	if err != nil {
		return err
	}
	if ins.ArgCount > routine.ArgumentCount() {
		return serrors.New(serrors.TooManyArguments, "routine %s declares %d arguments, requested %d",
			routine.Name(), routine.ArgumentCount(), ins.ArgCount)
	}

	args := make([]Variable, 0, ins.ArgCount)
	for i := 0; i < ins.ArgCount; i++ {
		switch t := routine.ArgumentType(i); t {
		case Vector:
			m.logOperands(3)
			vec, err := m.popVector()
			if err != nil {
				return err
			}
			args = append(args, OfVector(vec))
		case Action:
			// An action parameter pops nothing: the current context is
			// captured as an independent continuation, stamped with
			// whatever saved state exists right now.
			ctx := m.ctx.Copy()
			ctx.SavedState = m.savedState.Copy()
			args = append(args, OfAction(ctx))
		default:
			m.logOperands(1)
			v, err := m.popVariable()
			if err != nil {
				return err
			}
			if v.Type != t {
				return serrors.New(serrors.InvalidOperand, "invalid argument variable type: expected=%v, actual=%v", t, v.Type)
			}
			args = append(args, v)
		}
	}

	ret, err := routine.Invoke(args, m.ctx)
	if err != nil {
		return err
	}
	if m.log != nil {
		m.log.Debug("action",
			zap.Uint32("offset", ins.Offset),
			zap.String("routine", routine.Name()),
			zap.Stringers("args", args),
			zap.Stringer("result", ret))
	}

	switch routine.ReturnType() {
	case Void:
		m.logResults(0)
	case Vector:
		m.push(OfFloat(ret.Vec.Z))
		m.push(OfFloat(ret.Vec.Y))
		m.push(OfFloat(ret.Vec.X))
		m.logResults(3)
	default:
		m.push(ret)
		m.logResults(1)
	}
	return nil
}

func execDIVII(m *Machine, _ *bytecode.Instruction) error {
	m.logOperands(2)
	l, r, err := m.popInts()
	if err != nil {
		return err
	}
	if r == 0 {
		return serrors.New(serrors.InvalidOperand, "integer division by zero")
	}
	m.push(OfInt(l / r))
	m.logResults(1)
	return nil
}

func execMODII(m *Machine, _ *bytecode.Instruction) error {
	m.logOperands(2)
	l, r, err := m.popInts()
	if err != nil {
		return err
	}
	if r == 0 {
		return serrors.New(serrors.InvalidOperand, "integer modulo by zero")
	}
	m.push(OfInt(l % r))
	m.logResults(1)
	return nil
}

func execNEGI(m *Machine, _ *bytecode.Instruction) error {
	m.logOperands(1)
	v, err := m.popInt()
	if err != nil {
		return err
	}
	m.push(OfInt(-v))
	m.logResults(1)
	return nil
}

func execNEGF(m *Machine, _ *bytecode.Instruction) error {
	m.logOperands(1)
	v, err := m.popFloat()
	if err != nil {
		return err
	}
	m.push(OfFloat(-v))
	m.logResults(1)
	return nil
}

func execNOTI(m *Machine, _ *bytecode.Instruction) error {
	m.logOperands(1)
	v, err := m.popInt()
	if err != nil {
		return err
	}
	m.push(boolInt(v == 0))
	m.logResults(1)
	return nil
}

func execMOVSP(m *Machine, ins *bytecode.Instruction) error {
	count := -ins.StackOffset / 4
	if count < 0 || count > len(m.stack) {
		return serrors.New(serrors.InvalidOperand, "stack adjustment %d out of range", ins.StackOffset)
	}
	m.stack = m.stack[:len(m.stack)-count]
	return nil
}

func execJMP(m *Machine, ins *bytecode.Instruction) error {
	m.nextInstruction = uint32(int(ins.Offset) + ins.JumpOffset)
	return nil
}

func execJSR(m *Machine, ins *bytecode.Instruction) error {
	m.returnOffsets = append(m.returnOffsets, ins.NextOffset)
	m.nextInstruction = uint32(int(ins.Offset) + ins.JumpOffset)
	return nil
}

func execJZ(m *Machine, ins *bytecode.Instruction) error {
	m.logOperands(1)
	v, err := m.popInt()
	if err != nil {
		return err
	}
	if v == 0 {
		m.nextInstruction = uint32(int(ins.Offset) + ins.JumpOffset)
	}
	m.logJump(v == 0)
	return nil
}

func execJNZ(m *Machine, ins *bytecode.Instruction) error {
	m.logOperands(1)
	v, err := m.popInt()
	if err != nil {
		return err
	}
	if v != 0 {
		m.nextInstruction = uint32(int(ins.Offset) + ins.JumpOffset)
	}
	m.logJump(v != 0)
	return nil
}

func execRETN(m *Machine, _ *bytecode.Instruction) error {
	if n := len(m.returnOffsets); n > 0 {
		m.nextInstruction = m.returnOffsets[n-1]
		m.returnOffsets = m.returnOffsets[:n-1]
	} else {
		m.nextInstruction = m.program.Length()
	}
	return nil
}

// execDESTRUCT discards a stack range except for a preserved subrange,
// which moves down to the truncation point. Used when a block-scoped
// local has to outlive the rest of its block.
func execDESTRUCT(m *Machine, ins *bytecode.Instruction) error {
	start := len(m.stack) - ins.Size/4
	keepStart := start + ins.StackOffset/4
	keepCount := ins.SizeNoDestroy / 4
	if start < 0 || keepStart < 0 || keepStart+keepCount > len(m.stack) {
		return serrors.New(serrors.InvalidOperand, "destruct range out of bounds: size=%d offset=%d keep=%d",
			ins.Size, ins.StackOffset, ins.SizeNoDestroy)
	}
	copy(m.stack[start:start+keepCount], m.stack[keepStart:keepStart+keepCount])
	m.stack = m.stack[:start+keepCount]
	return nil
}

func adjustSP(delta int32) handler {
	return func(m *Machine, ins *bytecode.Instruction) error {
		idx, err := m.stackIndex(ins.StackOffset)
		if err != nil {
			return err
		}
		return m.adjustAt(idx, delta)
	}
}

func adjustBP(delta int32) handler {
	return func(m *Machine, ins *bytecode.Instruction) error {
		idx, err := m.baseIndex(ins.StackOffset)
		if err != nil {
			return err
		}
		return m.adjustAt(idx, delta)
	}
}

func (m *Machine) adjustAt(idx int, delta int32) error {
	if m.stack[idx].Type != Int {
		return serrors.New(serrors.InvalidOperand, "invalid variable type: expected=%v, actual=%v", Int, m.stack[idx].Type)
	}
	m.logValueAt(idx)
	m.stack[idx] = OfInt(m.stack[idx].Int + delta)
	m.logResultAt(idx)
	return nil
}

// execSAVEBP records the current stack size as the new global/local
// boundary and pushes it as a bookkeeping int, so that a later RESTOREBP
// can re-enter the frame.
func execSAVEBP(m *Machine, _ *bytecode.Instruction) error {
	m.globalCount = len(m.stack)
	m.push(OfInt(int32(m.globalCount)))
	m.logResults(1)
	return nil
}

func execRESTOREBP(m *Machine, _ *bytecode.Instruction) error {
	m.logOperands(1)
	v, err := m.popInt()
	if err != nil {
		return err
	}
	m.globalCount = int(v)
	return nil
}

// execSTORE_STATE snapshots the globals below the base pointer and the
// encoded amount of locals from the top of stack. The resume offset skips
// this instruction plus the jump that follows it in compiled scripts,
// landing on the stored block.
func execSTORE_STATE(m *Machine, ins *bytecode.Instruction) error {
	count := ins.Size / 4
	src := m.globalCount - count
	if src < 0 || count > len(m.stack) {
		return serrors.New(serrors.InvalidOperand, "global capture size %d out of range", ins.Size)
	}
	countLocals := ins.SizeLocals / 4
	srcLocals := len(m.stack) - countLocals
	if srcLocals < 0 {
		return serrors.New(serrors.InvalidOperand, "local capture size %d out of range", ins.SizeLocals)
	}

	state := &ExecutionState{
		Globals:      make([]Variable, count),
		Locals:       make([]Variable, countLocals),
		Program:      m.program,
		ResumeOffset: ins.Offset + 0x10,
	}
	copy(state.Globals, m.stack[src:src+count])
	copy(state.Locals, m.stack[srcLocals:])
	m.savedState = state
	return nil
}

func execNOP(_ *Machine, _ *bytecode.Instruction) error {
	return nil
}
