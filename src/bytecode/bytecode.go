// Package bytecode defines the decoded form of a compiled script: the
// opcode set, instructions keyed by absolute byte offset, and an immutable
// Program container that the vm executes. Decoding the on-disk binary
// format is a resource-layer concern; this package only models the result.
package bytecode

import "fmt"

// Op is the descriptor of which kind of instruction each decoded
// instruction is.
type Op uint8

const (
	// CPDOWNSP copies the top of stack down to a stack-relative offset.
	CPDOWNSP Op = iota
	// RSADDI reserves a stack slot holding int 0.
	RSADDI
	// RSADDF reserves a stack slot holding float 0.
	RSADDF
	// RSADDS reserves a stack slot holding an empty string.
	RSADDS
	// RSADDO reserves a stack slot holding the invalid object.
	RSADDO
	// RSADDEFF reserves a stack slot holding a null effect.
	RSADDEFF
	// RSADDEVT reserves a stack slot holding a null event.
	RSADDEVT
	// RSADDLOC reserves a stack slot holding a null location.
	RSADDLOC
	// RSADDTAL reserves a stack slot holding a null talent.
	RSADDTAL
	// CPTOPSP copies a stack-relative region onto the top of stack.
	CPTOPSP
	// CONSTI pushes an int literal.
	CONSTI
	// CONSTF pushes a float literal.
	CONSTF
	// CONSTS pushes a string literal.
	CONSTS
	// CONSTO pushes an object id literal, resolving the self sentinel.
	CONSTO
	// ACTION invokes a native routine by id.
	ACTION
	// LOGANDII logical AND of two ints.
	LOGANDII
	// LOGORII logical OR of two ints.
	LOGORII
	// INCORII bitwise inclusive OR of two ints.
	INCORII
	// EXCORII bitwise exclusive OR of two ints.
	EXCORII
	// BOOLANDII bitwise AND of two ints.
	BOOLANDII
	// EQUALII equality test of two ints.
	EQUALII
	// EQUALFF equality test of two floats within tolerance.
	EQUALFF
	// EQUALSS equality test of two strings.
	EQUALSS
	// EQUALOO equality test of two object ids.
	EQUALOO
	// EQUALTT element-wise equality test of two variable tuples.
	EQUALTT
	// EQUALEFFEFF identity test of two effects.
	EQUALEFFEFF
	// EQUALEVTEVT identity test of two events.
	EQUALEVTEVT
	// EQUALLOCLOC identity test of two locations.
	EQUALLOCLOC
	// EQUALTALTAL identity test of two talents.
	EQUALTALTAL
	// NEQUALII inequality test of two ints.
	NEQUALII
	// NEQUALFF inequality test of two floats.
	NEQUALFF
	// NEQUALSS inequality test of two strings.
	NEQUALSS
	// NEQUALOO inequality test of two object ids.
	NEQUALOO
	// NEQUALTT element-wise inequality test of two variable tuples.
	NEQUALTT
	// NEQUALEFFEFF identity inequality of two effects.
	NEQUALEFFEFF
	// NEQUALEVTEVT identity inequality of two events.
	NEQUALEVTEVT
	// NEQUALLOCLOC identity inequality of two locations.
	NEQUALLOCLOC
	// NEQUALTALTAL identity inequality of two talents.
	NEQUALTALTAL
	// GEQII greater-or-equal test of two ints.
	GEQII
	// GEQFF greater-or-equal test of two floats.
	GEQFF
	// GTII greater-than test of two ints.
	GTII
	// GTFF greater-than test of two floats.
	GTFF
	// LTII less-than test of two ints.
	LTII
	// LTFF less-than test of two floats.
	LTFF
	// LEQII less-or-equal test of two ints.
	LEQII
	// LEQFF less-or-equal test of two floats.
	LEQFF
	// SHLEFTII shift left.
	SHLEFTII
	// SHRIGHTII arithmetic (sign-preserving) shift right.
	SHRIGHTII
	// USHRIGHTII unsigned shift right.
	USHRIGHTII
	// ADDII int addition.
	ADDII
	// ADDIF int + float addition.
	ADDIF
	// ADDFI float + int addition.
	ADDFI
	// ADDFF float addition.
	ADDFF
	// ADDSS string concatenation.
	ADDSS
	// ADDVV vector addition.
	ADDVV
	// SUBII int subtraction.
	SUBII
	// SUBIF int - float subtraction.
	SUBIF
	// SUBFI float - int subtraction.
	SUBFI
	// SUBFF float subtraction.
	SUBFF
	// SUBVV vector subtraction.
	SUBVV
	// MULII int multiplication.
	MULII
	// MULIF int * float multiplication.
	MULIF
	// MULFI float * int multiplication.
	MULFI
	// MULFF float multiplication.
	MULFF
	// MULVF vector * float multiplication.
	MULVF
	// MULFV float * vector multiplication.
	MULFV
	// DIVII int division.
	DIVII
	// DIVIF int / float division, divisor clamped to epsilon.
	DIVIF
	// DIVFI float / int division.
	DIVFI
	// DIVFF float division, divisor clamped to epsilon.
	DIVFF
	// DIVVF vector / float division.
	DIVVF
	// DIVFV float / vector division.
	DIVFV
	// MODII int modulo.
	MODII
	// NEGI int negation.
	NEGI
	// NEGF float negation.
	NEGF
	// MOVSP discards stack slots.
	MOVSP
	// JMP unconditional jump.
	JMP
	// JSR subroutine call.
	JSR
	// JZ jump if the popped int is zero.
	JZ
	// JNZ jump if the popped int is not zero.
	JNZ
	// RETN return from subroutine, or end the run.
	RETN
	// DESTRUCT tears down a stack range, preserving a subrange.
	DESTRUCT
	// NOTI logical NOT of an int.
	NOTI
	// DECISP decrements an int at a stack-relative offset.
	DECISP
	// INCISP increments an int at a stack-relative offset.
	INCISP
	// CPDOWNBP copies the top of stack down to a base-pointer offset.
	CPDOWNBP
	// CPTOPBP copies a base-pointer region onto the top of stack.
	CPTOPBP
	// DECIBP decrements an int at a base-pointer offset.
	DECIBP
	// INCIBP increments an int at a base-pointer offset.
	INCIBP
	// SAVEBP marks the global/local stack boundary.
	SAVEBP
	// RESTOREBP restores a previously saved boundary.
	RESTOREBP
	// STORE_STATE captures a resumable execution snapshot.
	STORE_STATE
	// NOP does nothing.
	NOP
	// NOP2 does nothing.
	NOP2
)

// StartOffset is the offset of the first instruction in a compiled
// script, skipping the fixed-size file header.
const StartOffset uint32 = 13

var opNames = [...]string{
	CPDOWNSP: "CPDOWNSP", RSADDI: "RSADDI", RSADDF: "RSADDF", RSADDS: "RSADDS",
	RSADDO: "RSADDO", RSADDEFF: "RSADDEFF", RSADDEVT: "RSADDEVT", RSADDLOC: "RSADDLOC",
	RSADDTAL: "RSADDTAL", CPTOPSP: "CPTOPSP", CONSTI: "CONSTI", CONSTF: "CONSTF",
	CONSTS: "CONSTS", CONSTO: "CONSTO", ACTION: "ACTION", LOGANDII: "LOGANDII",
	LOGORII: "LOGORII", INCORII: "INCORII", EXCORII: "EXCORII", BOOLANDII: "BOOLANDII",
	EQUALII: "EQUALII", EQUALFF: "EQUALFF", EQUALSS: "EQUALSS", EQUALOO: "EQUALOO",
	EQUALTT: "EQUALTT", EQUALEFFEFF: "EQUALEFFEFF", EQUALEVTEVT: "EQUALEVTEVT",
	EQUALLOCLOC: "EQUALLOCLOC", EQUALTALTAL: "EQUALTALTAL", NEQUALII: "NEQUALII",
	NEQUALFF: "NEQUALFF", NEQUALSS: "NEQUALSS", NEQUALOO: "NEQUALOO", NEQUALTT: "NEQUALTT",
	NEQUALEFFEFF: "NEQUALEFFEFF", NEQUALEVTEVT: "NEQUALEVTEVT", NEQUALLOCLOC: "NEQUALLOCLOC",
	NEQUALTALTAL: "NEQUALTALTAL", GEQII: "GEQII", GEQFF: "GEQFF", GTII: "GTII",
	GTFF: "GTFF", LTII: "LTII", LTFF: "LTFF", LEQII: "LEQII", LEQFF: "LEQFF",
	SHLEFTII: "SHLEFTII", SHRIGHTII: "SHRIGHTII", USHRIGHTII: "USHRIGHTII",
	ADDII: "ADDII", ADDIF: "ADDIF", ADDFI: "ADDFI", ADDFF: "ADDFF", ADDSS: "ADDSS",
	ADDVV: "ADDVV", SUBII: "SUBII", SUBIF: "SUBIF", SUBFI: "SUBFI", SUBFF: "SUBFF",
	SUBVV: "SUBVV", MULII: "MULII", MULIF: "MULIF", MULFI: "MULFI", MULFF: "MULFF",
	MULVF: "MULVF", MULFV: "MULFV", DIVII: "DIVII", DIVIF: "DIVIF", DIVFI: "DIVFI",
	DIVFF: "DIVFF", DIVVF: "DIVVF", DIVFV: "DIVFV", MODII: "MODII", NEGI: "NEGI",
	NEGF: "NEGF", MOVSP: "MOVSP", JMP: "JMP", JSR: "JSR", JZ: "JZ", JNZ: "JNZ",
	RETN: "RETN", DESTRUCT: "DESTRUCT", NOTI: "NOTI", DECISP: "DECISP",
	INCISP: "INCISP", CPDOWNBP: "CPDOWNBP", CPTOPBP: "CPTOPBP", DECIBP: "DECIBP",
	INCIBP: "INCIBP", SAVEBP: "SAVEBP", RESTOREBP: "RESTOREBP",
	STORE_STATE: "STORE_STATE", NOP: "NOP", NOP2: "NOP2",
}

var opsByName = func() map[string]Op {
	byName := make(map[string]Op, len(opNames))
	for op, name := range opNames {
		byName[name] = Op(op)
	}
	return byName
}()

func (op Op) String() string {
	if int(op) < len(opNames) {
		return opNames[op]
	}
	return fmt.Sprintf("Op(%d)", uint8(op))
}

// OpByName resolves a mnemonic back to its opcode.
func OpByName(name string) (Op, bool) {
	op, ok := opsByName[name]
	return op, ok
}

// Instruction is a single decoded instruction. Offset is the absolute byte
// offset of the instruction in the program; NextOffset is the offset of
// its natural successor. The remaining fields are opcode-specific encoded
// operands and are zero when an opcode does not use them.
type Instruction struct {
	Op         Op
	Offset     uint32
	NextOffset uint32

	Size          int     // byte size of a stack region, 4 bytes per variable
	StackOffset   int     // signed byte offset relative to stack top or base pointer
	JumpOffset    int     // signed byte delta relative to Offset
	SizeLocals    int     // STORE_STATE: byte size of locals to capture
	SizeNoDestroy int     // DESTRUCT: byte size of the preserved subrange
	IntValue      int32   // CONSTI literal
	FloatValue    float32 // CONSTF literal
	StrValue      string  // CONSTS literal
	ObjectID      uint32  // CONSTO literal
	Routine       int     // ACTION routine id
	ArgCount      int     // ACTION requested argument count
}

// Program is an immutable, addressable sequence of decoded instructions.
type Program struct {
	name         string
	length       uint32
	instructions map[uint32]Instruction
	order        []uint32
}

// Name identifies the program for diagnostics.
func (p *Program) Name() string { return p.name }

// Length is the total byte length of the program. Execution ends when the
// instruction cursor reaches it.
func (p *Program) Length() uint32 { return p.length }

// Instruction returns the instruction at an absolute byte offset.
func (p *Program) Instruction(offset uint32) (Instruction, bool) {
	ins, ok := p.instructions[offset]
	return ins, ok
}

// Instructions returns all instructions in offset order.
func (p *Program) Instructions() []Instruction {
	out := make([]Instruction, 0, len(p.order))
	for _, offset := range p.order {
		out = append(out, p.instructions[offset])
	}
	return out
}
