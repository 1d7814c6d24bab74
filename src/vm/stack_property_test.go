package vm

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/ebonhawk/ncsvm/src/bytecode"
)

func runBinaryIntOp(op bytecode.Op, a, b int32) (*Machine, int) {
	prog := bytecode.NewBuilder("prop").
		ConstInt(a).ConstInt(b).Op(op).Op(bytecode.RETN).
		MustBuild()
	m := New(prog, &ExecutionContext{})
	return m, m.Run()
}

func TestProperty_BinaryIntOps(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200

	properties := gopter.NewProperties(parameters)

	properties.Property("ADDII leaves exactly one slot holding the wrapped sum", prop.ForAll(
		func(a, b int32) bool {
			m, result := runBinaryIntOp(bytecode.ADDII, a, b)
			return result == int(a+b) && m.StackSize() == 1
		},
		gen.Int32(), gen.Int32(),
	))

	properties.Property("SUBII matches native int32 subtraction", prop.ForAll(
		func(a, b int32) bool {
			_, result := runBinaryIntOp(bytecode.SUBII, a, b)
			return result == int(a-b)
		},
		gen.Int32(), gen.Int32(),
	))

	properties.Property("MULII matches native int32 multiplication", prop.ForAll(
		func(a, b int32) bool {
			_, result := runBinaryIntOp(bytecode.MULII, a, b)
			return result == int(a*b)
		},
		gen.Int32(), gen.Int32(),
	))

	properties.Property("comparison ops always push a 0/1 int", prop.ForAll(
		func(a, b int32, pick uint8) bool {
			ops := []bytecode.Op{
				bytecode.EQUALII, bytecode.NEQUALII,
				bytecode.GEQII, bytecode.GTII, bytecode.LTII, bytecode.LEQII,
			}
			m, result := runBinaryIntOp(ops[int(pick)%len(ops)], a, b)
			return (result == 0 || result == 1) && m.StackSize() == 1
		},
		gen.Int32(), gen.Int32(), gen.UInt8(),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestProperty_StackDiscipline(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100

	properties := gopter.NewProperties(parameters)

	properties.Property("pushing n constants then MOVSP -4n empties the stack", prop.ForAll(
		func(values []int32) bool {
			b := bytecode.NewBuilder("movsp")
			for _, v := range values {
				b.ConstInt(v)
			}
			b.MoveSP(-4 * len(values))
			m := New(b.MustBuild(), &ExecutionContext{})
			m.Run()
			return m.StackSize() == 0
		},
		gen.SliceOf(gen.Int32()),
	))

	properties.Property("CPTOPSP duplicate compares equal to its source", prop.ForAll(
		func(v int32) bool {
			prog := bytecode.NewBuilder("dup").
				ConstInt(v).
				Copy(bytecode.CPTOPSP, -4, 4).
				Op(bytecode.EQUALII).
				Op(bytecode.RETN).
				MustBuild()
			m := New(prog, &ExecutionContext{})
			return m.Run() == 1
		},
		gen.Int32(),
	))

	properties.Property("SHRIGHTII divides by a power of two truncating toward zero", prop.ForAll(
		func(v int32, shift uint8) bool {
			s := int32(shift % 31)
			_, result := runBinaryIntOp(bytecode.SHRIGHTII, v, s)
			return result == int(v/(1<<s))
		},
		gen.Int32Range(-1<<30, 1<<30), gen.UInt8(),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}
