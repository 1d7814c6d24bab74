package vm

import (
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/ebonhawk/ncsvm/src/bytecode"
	"github.com/ebonhawk/ncsvm/src/conf"
	"github.com/ebonhawk/ncsvm/src/serrors"
)

// floatEpsilon is the tolerance for float equality and the floor that
// float divisors are clamped to.
const floatEpsilon = 1e-5

// RunFailure is returned by Run when execution halts on an error or when
// the final stack top is not an int.
const RunFailure = -1

// Machine interprets one program against one execution context. Each
// machine owns its operand and return stacks exclusively; concurrently
// running scripts are separate machines. A machine runs synchronously to
// completion: saved state captured mid-run is consumed by a future,
// separately constructed machine, it never suspends this one.
type Machine struct {
	program *bytecode.Program
	ctx     *ExecutionContext

	stack           []Variable
	returnOffsets   []uint32
	globalCount     int
	nextInstruction uint32
	savedState      *ExecutionState

	log          *zap.Logger
	traceEnabled bool
	traceBuf     strings.Builder
}

// Option configures a Machine.
type Option func(*Machine)

// WithLogger attaches a logger. Instruction-level traces are emitted at
// debug level; they are observational only and never affect execution.
func WithLogger(log *zap.Logger) Option {
	return func(m *Machine) {
		m.log = log
		m.traceEnabled = log.Core().Enabled(zapcore.DebugLevel)
	}
}

// New builds a machine over a program and an owned context.
func New(program *bytecode.Program, ctx *ExecutionContext, opts ...Option) *Machine {
	m := &Machine{
		program:       program,
		ctx:           ctx,
		stack:         make([]Variable, 0, conf.INITIALSTACKCAP),
		returnOffsets: make([]uint32, 0, conf.INITIALRETURNCAP),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Run executes until a RETN with an empty return stack, fallthrough past
// the last instruction, or an unrecoverable error. The result is the int
// on top of the final stack, or RunFailure. Handler errors are contained
// here: they are logged and converted, never propagated to the caller.
func (m *Machine) Run() int {
	insOff := bytecode.StartOffset

	if ss := m.ctx.SavedState; ss != nil {
		m.stack = append(m.stack, ss.Globals...)
		m.globalCount = len(m.stack)
		m.stack = append(m.stack, ss.Locals...)
		insOff = ss.ResumeOffset
	}

	if m.log != nil {
		m.log.Debug("run",
			zap.String("program", m.program.Name()),
			zap.Uint32("offset", insOff),
			zap.Stringers("args", m.ctx.Args))
	}

	for insOff < m.program.Length() {
		ins, ok := m.program.Instruction(insOff)
		if !ok {
			m.halt(serrors.New(serrors.InvalidOperand, "no instruction at offset %04x", insOff))
			return RunFailure
		}
		handle, ok := dispatch[ins.Op]
		if !ok {
			m.halt(serrors.At(
				serrors.New(serrors.UnimplementedOpcode, "instruction not implemented: %v", ins.Op),
				m.program.Name(), ins.Offset, ins.Op.String()))
			return RunFailure
		}
		m.nextInstruction = ins.NextOffset

		err := handle(m, &ins)
		m.flushTrace(&ins)
		if err != nil {
			m.halt(serrors.At(err, m.program.Name(), ins.Offset, ins.Op.String()))
			return RunFailure
		}

		insOff = m.nextInstruction
	}

	if n := len(m.stack); n > 0 && m.stack[n-1].Type == Int {
		return int(m.stack[n-1].Int)
	}
	return RunFailure
}

func (m *Machine) halt(err error) {
	if m.log != nil {
		m.log.Warn("halt", zap.String("program", m.program.Name()), zap.Error(err))
	}
}

// StackSize reports the operand stack depth.
func (m *Machine) StackSize() int { return len(m.stack) }

// StackVariable returns the variable at a stack index, bottom first.
func (m *Machine) StackVariable(index int) Variable { return m.stack[index] }

// Dump writes the program disassembly through the logger.
func (m *Machine) Dump() {
	if m.log == nil {
		return
	}
	for _, ins := range m.program.Instructions() {
		m.log.Info("ins", zap.String("program", m.program.Name()), zap.String("text", bytecode.Describe(ins)))
	}
}

func (m *Machine) push(v Variable) {
	m.stack = append(m.stack, v)
}

func (m *Machine) popVariable() (Variable, error) {
	n := len(m.stack)
	if n == 0 {
		return Variable{}, serrors.New(serrors.InvalidOperand, "stack underflow")
	}
	v := m.stack[n-1]
	m.stack = m.stack[:n-1]
	return v, nil
}

func (m *Machine) popTyped(t Type) (Variable, error) {
	v, err := m.popVariable()
	if err != nil {
		return Variable{}, err
	}
	if v.Type != t {
		return Variable{}, serrors.New(serrors.InvalidOperand, "invalid variable type: expected=%v, actual=%v", t, v.Type)
	}
	return v, nil
}

func (m *Machine) popInt() (int32, error) {
	v, err := m.popTyped(Int)
	return v.Int, err
}

func (m *Machine) popFloat() (float32, error) {
	v, err := m.popTyped(Float)
	return v.Float, err
}

// popVector pops three floats in z, y, x order and reassembles the
// vector as (x, y, z).
func (m *Machine) popVector() (Vec3, error) {
	z, err := m.popFloat()
	if err != nil {
		return Vec3{}, err
	}
	y, err := m.popFloat()
	if err != nil {
		return Vec3{}, err
	}
	x, err := m.popFloat()
	if err != nil {
		return Vec3{}, err
	}
	return Vec3{X: x, Y: y, Z: z}, nil
}

// pushVector pushes a vector as three floats with z ending on top, the
// mirror of popVector.
func (m *Machine) pushVector(v Vec3) {
	m.push(OfFloat(v.X))
	m.push(OfFloat(v.Y))
	m.push(OfFloat(v.Z))
}

func (m *Machine) popPair(t Type) (Variable, Variable, error) {
	right, err := m.popTyped(t)
	if err != nil {
		return Variable{}, Variable{}, err
	}
	left, err := m.popTyped(t)
	if err != nil {
		return Variable{}, Variable{}, err
	}
	return left, right, nil
}

func (m *Machine) popInts() (int32, int32, error) {
	left, right, err := m.popPair(Int)
	return left.Int, right.Int, err
}

func (m *Machine) popFloats() (float32, float32, error) {
	left, right, err := m.popPair(Float)
	return left.Float, right.Float, err
}

func (m *Machine) popIntFloat() (int32, float32, error) {
	right, err := m.popFloat()
	if err != nil {
		return 0, 0, err
	}
	left, err := m.popInt()
	return left, right, err
}

func (m *Machine) popFloatInt() (float32, int32, error) {
	right, err := m.popInt()
	if err != nil {
		return 0, 0, err
	}
	left, err := m.popFloat()
	return left, right, err
}

func (m *Machine) popVectors() (Vec3, Vec3, error) {
	right, err := m.popVector()
	if err != nil {
		return Vec3{}, Vec3{}, err
	}
	left, err := m.popVector()
	return left, right, err
}

func (m *Machine) popVectorFloat() (Vec3, float32, error) {
	right, err := m.popFloat()
	if err != nil {
		return Vec3{}, 0, err
	}
	left, err := m.popVector()
	return left, right, err
}

func (m *Machine) popFloatVector() (float32, Vec3, error) {
	right, err := m.popVector()
	if err != nil {
		return 0, Vec3{}, err
	}
	left, err := m.popFloat()
	return left, right, err
}

// stackIndex converts a signed byte offset relative to the stack top into
// a slice index, 4 bytes per variable.
func (m *Machine) stackIndex(byteOffset int) (int, error) {
	idx := len(m.stack) + byteOffset/4
	if idx < 0 || idx >= len(m.stack) {
		return 0, serrors.New(serrors.InvalidOperand, "stack offset %d out of range", byteOffset)
	}
	return idx, nil
}

// baseIndex converts a signed byte offset relative to the global/local
// boundary into a slice index.
func (m *Machine) baseIndex(byteOffset int) (int, error) {
	idx := m.globalCount + byteOffset/4
	if idx < 0 || idx >= len(m.stack) {
		return 0, serrors.New(serrors.InvalidOperand, "base pointer offset %d out of range", byteOffset)
	}
	return idx, nil
}

func (m *Machine) logOperands(n int) {
	if !m.traceEnabled {
		return
	}
	m.traceBuf.WriteString("(")
	m.logValues(len(m.stack)-n, n)
	m.traceBuf.WriteString(")")
}

func (m *Machine) logResults(n int) {
	if !m.traceEnabled {
		return
	}
	m.traceBuf.WriteString(" -> (")
	m.logValues(len(m.stack)-n, n)
	m.traceBuf.WriteString(")")
}

func (m *Machine) logValueAt(idx int) {
	if !m.traceEnabled {
		return
	}
	m.traceBuf.WriteString("(")
	m.logValues(idx, 1)
	m.traceBuf.WriteString(")")
}

func (m *Machine) logResultAt(idx int) {
	if !m.traceEnabled {
		return
	}
	m.traceBuf.WriteString(" -> (")
	m.logValues(idx, 1)
	m.traceBuf.WriteString(")")
}

func (m *Machine) logValues(start, n int) {
	for i := 0; i < n; i++ {
		if i > 0 {
			m.traceBuf.WriteString(", ")
		}
		m.traceBuf.WriteString(m.stack[start+i].String())
	}
}

func (m *Machine) logJump(taken bool) {
	if !m.traceEnabled {
		return
	}
	if taken {
		m.traceBuf.WriteString(" -> jump")
	} else {
		m.traceBuf.WriteString(" -> fallthrough")
	}
}

func (m *Machine) flushTrace(ins *bytecode.Instruction) {
	if !m.traceEnabled {
		return
	}
	m.log.Debug("instruction",
		zap.String("program", m.program.Name()),
		zap.String("ins", bytecode.Describe(*ins)),
		zap.String("effect", m.traceBuf.String()))
	m.traceBuf.Reset()
}
