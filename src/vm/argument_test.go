package vm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ebonhawk/ncsvm/src/serrors"
)

func TestNewArgument(t *testing.T) {
	t.Parallel()

	testcases := []struct {
		desc string
		kind ArgKind
		v    Variable
		err  bool
	}{
		{desc: "caller", kind: ArgCaller, v: OfObject(5)},
		{desc: "entering object", kind: ArgEnteringObject, v: OfObject(12)},
		{desc: "script var", kind: ArgScriptVar, v: OfInt(3)},
		{desc: "perception flag", kind: ArgLastPerceptionSeen, v: OfInt(1)},
		{desc: "caller as int", kind: ArgCaller, v: OfInt(5), err: true},
		{desc: "caller as self sentinel", kind: ArgCaller, v: OfObject(ObjectSelf), err: true},
		{desc: "script var as string", kind: ArgScriptVar, v: OfString("3"), err: true},
		{desc: "event number as float", kind: ArgUserDefinedEventNumber, v: OfFloat(1), err: true},
	}

	for _, tc := range testcases {
		tc := tc
		t.Run(tc.desc, func(t *testing.T) {
			t.Parallel()
			arg, err := NewArgument(tc.kind, tc.v)
			if tc.err {
				require.Error(t, err)
				var serr *serrors.Error
				require.ErrorAs(t, err, &serr)
				assert.Equal(t, serrors.InvalidArgument, serr.Kind)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.kind, arg.Kind)
			assert.True(t, tc.v.Equal(arg.Var))
		})
	}
}

func TestParseArgument(t *testing.T) {
	t.Parallel()

	testcases := []struct {
		desc string
		in   string
		kind ArgKind
		v    Variable
		err  bool
	}{
		{desc: "caller", in: "Caller:5", kind: ArgCaller, v: OfObject(5)},
		{desc: "script var", in: "ScriptVar:-3", kind: ArgScriptVar, v: OfInt(-3)},
		{desc: "last opened by", in: "LastOpenedBy:77", kind: ArgLastOpenedBy, v: OfObject(77)},
		{desc: "no separator", in: "Caller", err: true},
		{desc: "unknown kind", in: "Nope:1", err: true},
		{desc: "object kind with text", in: "Caller:abc", err: true},
		{desc: "numeric kind with float", in: "ScriptVar:1.5", err: true},
	}

	for _, tc := range testcases {
		tc := tc
		t.Run(tc.desc, func(t *testing.T) {
			t.Parallel()
			arg, err := ParseArgument(tc.in)
			if tc.err {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.kind, arg.Kind)
			assert.True(t, tc.v.Equal(arg.Var))
		})
	}
}

func TestFindArg(t *testing.T) {
	t.Parallel()
	ctx := &ExecutionContext{Args: []Argument{
		mustArg(ArgCaller, OfObject(1)),
		mustArg(ArgScriptVar, OfInt(10)),
		mustArg(ArgScriptVar, OfInt(20)),
	}}

	caller := ctx.FindArg(ArgCaller)
	require.NotNil(t, caller)
	assert.Equal(t, ObjectID(1), caller.Object)

	scriptVar := ctx.FindArg(ArgScriptVar)
	require.NotNil(t, scriptVar)
	assert.Equal(t, int32(10), scriptVar.Int, "first match wins")

	assert.Nil(t, ctx.FindArg(ArgExitingObject))
}

func TestArgHelpers(t *testing.T) {
	t.Parallel()

	args := []Variable{
		OfInt(4),
		OfFloat(1.5),
		OfString("hi"),
		OfVector(Vec3{1, 2, 3}),
		OfObject(ObjectSelf),
	}
	ctx := &ExecutionContext{Args: []Argument{mustArg(ArgCaller, OfObject(42))}}

	n, err := IntArg(args, 0)
	require.NoError(t, err)
	assert.Equal(t, int32(4), n)

	f, err := FloatArg(args, 1)
	require.NoError(t, err)
	assert.Equal(t, float32(1.5), f)

	str, err := StringArg(args, 2)
	require.NoError(t, err)
	assert.Equal(t, "hi", str)

	v, err := VectorArg(args, 3)
	require.NoError(t, err)
	assert.Equal(t, Vec3{1, 2, 3}, v)

	id, err := ObjectArg(args, 4, ctx)
	require.NoError(t, err)
	assert.Equal(t, ObjectID(42), id, "self resolves to the caller")

	id, err = ObjectArgOrCaller(args, 9, ctx)
	require.NoError(t, err)
	assert.Equal(t, ObjectID(42), id)

	n, err = IntArgOrElse(args, 9, 99)
	require.NoError(t, err)
	assert.Equal(t, int32(99), n)

	_, err = IntArg(args, 1)
	assert.Error(t, err, "tag mismatch")
	_, err = IntArg(args, 10)
	assert.Error(t, err, "out of range")
}
