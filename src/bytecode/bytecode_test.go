package bytecode

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpNames(t *testing.T) {
	t.Parallel()

	for op := CPDOWNSP; op <= NOP2; op++ {
		name := op.String()
		require.NotContains(t, name, "Op(", "missing name for opcode %d", uint8(op))
		resolved, ok := OpByName(name)
		require.True(t, ok, name)
		assert.Equal(t, op, resolved)
	}

	_, ok := OpByName("BOGUS")
	assert.False(t, ok)
}

func TestBuilder_Offsets(t *testing.T) {
	t.Parallel()

	testcases := []struct {
		desc   string
		build  func(*Builder) *Builder
		widths []uint32
	}{
		{
			desc: "bare ops",
			build: func(b *Builder) *Builder {
				return b.Op(ADDII).Op(RETN).Op(SAVEBP).Op(NOP)
			},
			widths: []uint32{2, 2, 2, 2},
		},
		{
			desc: "constants",
			build: func(b *Builder) *Builder {
				return b.ConstInt(1).ConstFloat(2).ConstObject(3).ConstString("abcde")
			},
			widths: []uint32{6, 6, 6, 9},
		},
		{
			desc: "copies and adjusts",
			build: func(b *Builder) *Builder {
				return b.Copy(CPDOWNSP, -4, 4).Copy(CPTOPBP, -8, 8).
					MoveSP(-4).Adjust(INCISP, -4).
					Destruct(12, 4, 4)
			},
			widths: []uint32{8, 8, 6, 6, 8},
		},
		{
			desc: "calls and state",
			build: func(b *Builder) *Builder {
				return b.Action(4, 2).StoreState(8, 4).Tuple(EQUALTT, 8)
			},
			widths: []uint32{5, 10, 4},
		},
	}

	for _, tc := range testcases {
		tc := tc
		t.Run(tc.desc, func(t *testing.T) {
			t.Parallel()
			prog, err := tc.build(NewBuilder("t")).Build()
			require.NoError(t, err)

			offset := StartOffset
			instructions := prog.Instructions()
			require.Len(t, instructions, len(tc.widths))
			for i, w := range tc.widths {
				ins, ok := prog.Instruction(offset)
				require.True(t, ok, "instruction %d at %04x", i, offset)
				assert.Equal(t, ins, instructions[i])
				assert.Equal(t, offset, ins.Offset)
				assert.Equal(t, offset+w, ins.NextOffset, "width of %v", ins.Op)
				offset = ins.NextOffset
			}
			assert.Equal(t, offset, prog.Length())
		})
	}
}

func TestBuilder_Labels(t *testing.T) {
	t.Parallel()

	t.Run("jump deltas are target minus instruction offset", func(t *testing.T) {
		t.Parallel()
		prog, err := NewBuilder("t").
			Label("top").
			ConstInt(1).
			Jump(JZ, "end").
			Jump(JMP, "top").
			Label("end").
			Op(RETN).
			Build()
		require.NoError(t, err)

		// CONSTI@13 JZ@19 JMP@25 RETN@31
		jz, ok := prog.Instruction(19)
		require.True(t, ok)
		assert.Equal(t, 12, jz.JumpOffset)

		jmp, ok := prog.Instruction(25)
		require.True(t, ok)
		assert.Equal(t, -12, jmp.JumpOffset)
	})

	t.Run("undefined label fails", func(t *testing.T) {
		t.Parallel()
		_, err := NewBuilder("t").Jump(JMP, "nowhere").Build()
		assert.Error(t, err)
	})

	t.Run("backward and forward labels may share a site", func(t *testing.T) {
		t.Parallel()
		prog, err := NewBuilder("t").
			Jump(JSR, "sub").
			Op(RETN).
			Label("sub").
			Op(RETN).
			Build()
		require.NoError(t, err)
		jsr, ok := prog.Instruction(StartOffset)
		require.True(t, ok)
		assert.Equal(t, 8, jsr.JumpOffset)
	})
}

func TestDescribe(t *testing.T) {
	t.Parallel()

	prog := NewBuilder("t").
		ConstInt(-3).
		ConstString("hi").
		Copy(CPDOWNSP, -8, 4).
		Action(12, 2).
		Jump(JMP, "end").
		Label("end").
		Op(RETN).
		MustBuild()

	instructions := prog.Instructions()
	require.Len(t, instructions, 6)
	assert.Equal(t, "000d CONSTI -3", Describe(instructions[0]))
	assert.Equal(t, `0013 CONSTS "hi"`, Describe(instructions[1]))
	assert.Equal(t, "0019 CPDOWNSP -8, 4", Describe(instructions[2]))
	assert.Equal(t, "0021 ACTION 12, 2", Describe(instructions[3]))
	assert.Equal(t, "0026 JMP 002c", Describe(instructions[4]))
	assert.Equal(t, "002c RETN", Describe(instructions[5]))
}
