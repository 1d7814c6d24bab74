package vm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ebonhawk/ncsvm/src/bytecode"
)

func TestSnapshotRoundTrip(t *testing.T) {
	t.Parallel()

	prog := bytecode.NewBuilder("onenter").ConstInt(1).Op(bytecode.RETN).MustBuild()
	state := &ExecutionState{
		Globals: []Variable{
			OfInt(-7),
			OfFloat(2.5),
			OfString("resref"),
			OfObject(42),
			OfVector(Vec3{1, 2, 3}),
			OfNull(),
		},
		Locals:       []Variable{OfInt(1), OfString("")},
		Program:      prog,
		ResumeOffset: 37,
	}

	data, err := EncodeState(state)
	require.NoError(t, err)

	decoded, err := DecodeState(data, prog)
	require.NoError(t, err)
	assert.Equal(t, state.ResumeOffset, decoded.ResumeOffset)
	assert.Equal(t, prog, decoded.Program)
	require.Len(t, decoded.Globals, len(state.Globals))
	for i := range state.Globals {
		assert.True(t, state.Globals[i].Equal(decoded.Globals[i]), "global %d", i)
	}
	require.Len(t, decoded.Locals, len(state.Locals))
	for i := range state.Locals {
		assert.True(t, state.Locals[i].Equal(decoded.Locals[i]), "local %d", i)
	}
}

func TestSnapshotIsCanonical(t *testing.T) {
	t.Parallel()

	prog := bytecode.NewBuilder("canon").ConstInt(1).Op(bytecode.RETN).MustBuild()
	state := &ExecutionState{
		Globals:      []Variable{OfInt(5), OfString("x")},
		Program:      prog,
		ResumeOffset: 21,
	}
	first, err := EncodeState(state)
	require.NoError(t, err)
	second, err := EncodeState(state.Copy())
	require.NoError(t, err)
	assert.Equal(t, first, second, "identical states encode to identical bytes")
}

func TestSnapshotRejectsProcessLocalVariables(t *testing.T) {
	t.Parallel()

	prog := bytecode.NewBuilder("local").ConstInt(1).Op(bytecode.RETN).MustBuild()

	for _, v := range []Variable{
		OfEffect(&testEffect{}),
		OfEvent(&testEffect{}),
		OfLocation(&testEffect{}),
		OfTalent(&testEffect{}),
		OfAction(&ExecutionContext{}),
	} {
		state := &ExecutionState{Globals: []Variable{v}, Program: prog}
		_, err := EncodeState(state)
		assert.Error(t, err, v.Type.String())
	}

	_, err := EncodeState(nil)
	assert.Error(t, err)
}

func TestSnapshotRejectsProgramMismatch(t *testing.T) {
	t.Parallel()

	prog := bytecode.NewBuilder("first").ConstInt(1).Op(bytecode.RETN).MustBuild()
	other := bytecode.NewBuilder("second").ConstInt(1).Op(bytecode.RETN).MustBuild()

	data, err := EncodeState(&ExecutionState{Program: prog, ResumeOffset: 13})
	require.NoError(t, err)

	_, err = DecodeState(data, other)
	assert.Error(t, err)
}
