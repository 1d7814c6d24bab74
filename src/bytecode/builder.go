package bytecode

import (
	"fmt"
	"strings"
)

// widths are the encoded byte widths per opcode: 2 bytes of opcode +
// qualifier, plus opcode-specific operands. CONSTS adds the string length
// on top of its 4 byte prefix.
func width(ins Instruction) uint32 {
	switch ins.Op {
	case CPDOWNSP, CPTOPSP, CPDOWNBP, CPTOPBP, DESTRUCT:
		return 8
	case CONSTI, CONSTF, CONSTO, MOVSP, JMP, JSR, JZ, JNZ, DECISP, INCISP, DECIBP, INCIBP:
		return 6
	case CONSTS:
		return 4 + uint32(len(ins.StrValue))
	case ACTION:
		return 5
	case EQUALTT, NEQUALTT:
		return 4
	case STORE_STATE:
		return 10
	default:
		return 2
	}
}

type fixup struct {
	index int
	label string
}

// Builder assembles a Program in memory, computing instruction offsets
// from the real encoded widths so that offset-sensitive behaviour (jump
// deltas, saved-state resume offsets) matches compiled scripts.
type Builder struct {
	name         string
	offset       uint32
	instructions []Instruction
	labels       map[string]uint32
	fixups       []fixup
}

// NewBuilder starts an empty program positioned past the file header.
func NewBuilder(name string) *Builder {
	return &Builder{
		name:   name,
		offset: StartOffset,
		labels: map[string]uint32{},
	}
}

func (b *Builder) add(ins Instruction) *Builder {
	ins.Offset = b.offset
	ins.NextOffset = b.offset + width(ins)
	b.instructions = append(b.instructions, ins)
	b.offset = ins.NextOffset
	return b
}

// Label marks the current offset as a jump target.
func (b *Builder) Label(name string) *Builder {
	b.labels[name] = b.offset
	return b
}

// Op emits an instruction with no encoded operands (arithmetic,
// comparison, RSADD*, RETN, SAVEBP, RESTOREBP, NOP).
func (b *Builder) Op(op Op) *Builder {
	return b.add(Instruction{Op: op})
}

// ConstInt emits CONSTI with an int literal.
func (b *Builder) ConstInt(v int32) *Builder {
	return b.add(Instruction{Op: CONSTI, IntValue: v})
}

// ConstFloat emits CONSTF with a float literal.
func (b *Builder) ConstFloat(v float32) *Builder {
	return b.add(Instruction{Op: CONSTF, FloatValue: v})
}

// ConstString emits CONSTS with a string literal.
func (b *Builder) ConstString(s string) *Builder {
	return b.add(Instruction{Op: CONSTS, StrValue: s})
}

// ConstObject emits CONSTO with an object id literal.
func (b *Builder) ConstObject(id uint32) *Builder {
	return b.add(Instruction{Op: CONSTO, ObjectID: id})
}

// Copy emits one of the stack-region copy opcodes (CPDOWNSP, CPTOPSP,
// CPDOWNBP, CPTOPBP) with a signed byte offset and a byte size.
func (b *Builder) Copy(op Op, stackOffset, size int) *Builder {
	return b.add(Instruction{Op: op, StackOffset: stackOffset, Size: size})
}

// MoveSP emits MOVSP with a signed byte offset.
func (b *Builder) MoveSP(stackOffset int) *Builder {
	return b.add(Instruction{Op: MOVSP, StackOffset: stackOffset})
}

// Jump emits one of JMP, JSR, JZ, JNZ targeting a label resolved at
// Build time.
func (b *Builder) Jump(op Op, label string) *Builder {
	b.fixups = append(b.fixups, fixup{index: len(b.instructions), label: label})
	return b.add(Instruction{Op: op})
}

// Adjust emits one of DECISP, INCISP, DECIBP, INCIBP with a signed byte
// offset.
func (b *Builder) Adjust(op Op, stackOffset int) *Builder {
	return b.add(Instruction{Op: op, StackOffset: stackOffset})
}

// Action emits ACTION with a routine id and requested argument count.
func (b *Builder) Action(routine, argCount int) *Builder {
	return b.add(Instruction{Op: ACTION, Routine: routine, ArgCount: argCount})
}

// Destruct emits DESTRUCT over size bytes, preserving sizeNoDestroy bytes
// starting at stackOffset within the range.
func (b *Builder) Destruct(size, stackOffset, sizeNoDestroy int) *Builder {
	return b.add(Instruction{Op: DESTRUCT, Size: size, StackOffset: stackOffset, SizeNoDestroy: sizeNoDestroy})
}

// StoreState emits STORE_STATE capturing sizeGlobals bytes below the base
// pointer and sizeLocals bytes from the top of stack.
func (b *Builder) StoreState(sizeGlobals, sizeLocals int) *Builder {
	return b.add(Instruction{Op: STORE_STATE, Size: sizeGlobals, SizeLocals: sizeLocals})
}

// Tuple emits EQUALTT or NEQUALTT comparing size bytes worth of variables
// per side.
func (b *Builder) Tuple(op Op, size int) *Builder {
	return b.add(Instruction{Op: op, Size: size})
}

// Build resolves labels and returns the immutable program.
func (b *Builder) Build() (*Program, error) {
	for _, fix := range b.fixups {
		target, ok := b.labels[fix.label]
		if !ok {
			return nil, fmt.Errorf("bytecode: undefined label %q", fix.label)
		}
		ins := &b.instructions[fix.index]
		ins.JumpOffset = int(target) - int(ins.Offset)
	}
	prog := &Program{
		name:         b.name,
		length:       b.offset,
		instructions: make(map[uint32]Instruction, len(b.instructions)),
		order:        make([]uint32, 0, len(b.instructions)),
	}
	for _, ins := range b.instructions {
		prog.instructions[ins.Offset] = ins
		prog.order = append(prog.order, ins.Offset)
	}
	return prog, nil
}

// MustBuild is Build for static programs in tests and tools.
func (b *Builder) MustBuild() *Program {
	prog, err := b.Build()
	if err != nil {
		panic(err)
	}
	return prog
}

// Describe renders an instruction as a human-readable line.
func Describe(ins Instruction) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%04x %s", ins.Offset, ins.Op)
	switch ins.Op {
	case CPDOWNSP, CPTOPSP, CPDOWNBP, CPTOPBP:
		fmt.Fprintf(&sb, " %d, %d", ins.StackOffset, ins.Size)
	case CONSTI:
		fmt.Fprintf(&sb, " %d", ins.IntValue)
	case CONSTF:
		fmt.Fprintf(&sb, " %g", ins.FloatValue)
	case CONSTS:
		fmt.Fprintf(&sb, " %q", ins.StrValue)
	case CONSTO:
		fmt.Fprintf(&sb, " %d", ins.ObjectID)
	case ACTION:
		fmt.Fprintf(&sb, " %d, %d", ins.Routine, ins.ArgCount)
	case MOVSP, DECISP, INCISP, DECIBP, INCIBP:
		fmt.Fprintf(&sb, " %d", ins.StackOffset)
	case JMP, JSR, JZ, JNZ:
		fmt.Fprintf(&sb, " %04x", uint32(int(ins.Offset)+ins.JumpOffset))
	case EQUALTT, NEQUALTT:
		fmt.Fprintf(&sb, " %d", ins.Size)
	case DESTRUCT:
		fmt.Fprintf(&sb, " %d, %d, %d", ins.Size, ins.StackOffset, ins.SizeNoDestroy)
	case STORE_STATE:
		fmt.Fprintf(&sb, " %d, %d", ins.Size, ins.SizeLocals)
	}
	return sb.String()
}
