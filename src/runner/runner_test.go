package runner

import (
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ebonhawk/ncsvm/src/bytecode"
	"github.com/ebonhawk/ncsvm/src/vm"
)

func mustArg(kind vm.ArgKind, v vm.Variable) vm.Argument {
	arg, err := vm.NewArgument(kind, v)
	if err != nil {
		panic(err)
	}
	return arg
}

func TestRunner_Run(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	provider := ProviderFunc(func(name string) (*bytecode.Program, error) {
		calls.Add(1)
		switch name {
		case "five":
			return bytecode.NewBuilder(name).
				ConstInt(2).ConstInt(3).Op(bytecode.ADDII).Op(bytecode.RETN).
				MustBuild(), nil
		default:
			return nil, fmt.Errorf("no such resource %q", name)
		}
	})
	r, err := New(provider, &vm.Registry{})
	require.NoError(t, err)

	result, err := r.Run("five", nil)
	require.NoError(t, err)
	assert.Equal(t, 5, result)

	result, err = r.Run("five", nil)
	require.NoError(t, err)
	assert.Equal(t, 5, result)
	assert.Equal(t, int32(1), calls.Load(), "second run is served from the cache")

	_, err = r.Run("missing", nil)
	assert.Error(t, err)
}

func TestRunner_RunCaller(t *testing.T) {
	t.Parallel()

	reg := &vm.Registry{}
	var seenCaller vm.ObjectID
	id := reg.Register(vm.NewRoutine("GetCaller", vm.Object, nil,
		func(_ []vm.Variable, ctx *vm.ExecutionContext) (vm.Variable, error) {
			caller := ctx.FindArg(vm.ArgCaller)
			if caller == nil {
				return vm.OfObject(vm.ObjectInvalid), nil
			}
			seenCaller = caller.Object
			return *caller, nil
		}))
	provider := ProviderFunc(func(name string) (*bytecode.Program, error) {
		return bytecode.NewBuilder(name).
			Action(id, 0).
			MoveSP(-4).
			ConstInt(1).
			Op(bytecode.RETN).
			MustBuild(), nil
	})
	r, err := New(provider, reg)
	require.NoError(t, err)

	result, err := r.RunCaller("onused", 17)
	require.NoError(t, err)
	assert.Equal(t, 1, result)
	assert.Equal(t, vm.ObjectID(17), seenCaller)

	_, err = r.RunCaller("onused", vm.ObjectSelf)
	assert.Error(t, err, "the self sentinel is not a valid caller")
}

// deferredProgram stores state, jumps over the deferred block to an
// ACTION that captures it, and returns. The deferred block itself pushes
// the current caller's id through a routine.
func deferredProgram(t *testing.T, reg *vm.Registry, captured **vm.ExecutionContext) *bytecode.Program {
	t.Helper()
	captureID := reg.Register(vm.NewRoutine("Defer", vm.Void, []vm.Type{vm.Action},
		func(args []vm.Variable, _ *vm.ExecutionContext) (vm.Variable, error) {
			ctx, err := vm.ActionArg(args, 0)
			if err != nil {
				return vm.OfNull(), err
			}
			*captured = ctx
			return vm.OfNull(), nil
		}))
	callerID := reg.Register(vm.NewRoutine("CallerID", vm.Int, nil,
		func(_ []vm.Variable, ctx *vm.ExecutionContext) (vm.Variable, error) {
			caller := ctx.FindArg(vm.ArgCaller)
			if caller == nil {
				return vm.OfInt(-1), nil
			}
			return vm.OfInt(int32(caller.Object)), nil
		}))
	return bytecode.NewBuilder("deferred").
		Op(bytecode.SAVEBP).
		StoreState(0, 0).
		Jump(bytecode.JMP, "after").
		Action(callerID, 0).
		Op(bytecode.RETN).
		Label("after").
		Action(captureID, 1).
		Op(bytecode.RETN).
		MustBuild()
}

func TestRunner_DoCommand(t *testing.T) {
	t.Parallel()

	t.Run("rebinds the caller argument", func(t *testing.T) {
		t.Parallel()
		reg := &vm.Registry{}
		var captured *vm.ExecutionContext
		prog := deferredProgram(t, reg, &captured)
		provider := ProviderFunc(func(string) (*bytecode.Program, error) { return prog, nil })
		r, err := New(provider, reg)
		require.NoError(t, err)

		_, err = r.Run("deferred", []vm.Argument{mustArg(vm.ArgCaller, vm.OfObject(5))})
		require.NoError(t, err)
		require.NotNil(t, captured)
		require.NotNil(t, captured.SavedState)

		result, err := r.DoCommand(captured, 9)
		require.NoError(t, err)
		assert.Equal(t, 9, result, "the deferred block sees the new actor as caller")
	})

	t.Run("inserts a caller when the capture had none", func(t *testing.T) {
		t.Parallel()
		reg := &vm.Registry{}
		var captured *vm.ExecutionContext
		prog := deferredProgram(t, reg, &captured)
		provider := ProviderFunc(func(string) (*bytecode.Program, error) { return prog, nil })
		r, err := New(provider, reg)
		require.NoError(t, err)

		_, err = r.Run("deferred", nil)
		require.NoError(t, err)
		require.NotNil(t, captured)

		result, err := r.DoCommand(captured, 3)
		require.NoError(t, err)
		assert.Equal(t, 3, result)
	})

	t.Run("other arguments pass through unchanged", func(t *testing.T) {
		t.Parallel()
		reg := &vm.Registry{}
		var captured *vm.ExecutionContext
		prog := deferredProgram(t, reg, &captured)
		provider := ProviderFunc(func(string) (*bytecode.Program, error) { return prog, nil })
		r, err := New(provider, reg)
		require.NoError(t, err)

		args := []vm.Argument{
			mustArg(vm.ArgCaller, vm.OfObject(5)),
			mustArg(vm.ArgScriptVar, vm.OfInt(33)),
		}
		_, err = r.Run("deferred", args)
		require.NoError(t, err)
		require.NotNil(t, captured)

		_, err = r.DoCommand(captured, 9)
		require.NoError(t, err)
		scriptVar := captured.FindArg(vm.ArgScriptVar)
		require.NotNil(t, scriptVar)
		assert.Equal(t, int32(33), scriptVar.Int)
	})

	t.Run("action without saved state is rejected", func(t *testing.T) {
		t.Parallel()
		provider := ProviderFunc(func(string) (*bytecode.Program, error) { return nil, fmt.Errorf("unused") })
		r, err := New(provider, &vm.Registry{})
		require.NoError(t, err)

		_, err = r.DoCommand(nil, 1)
		assert.Error(t, err)
		_, err = r.DoCommand(&vm.ExecutionContext{}, 1)
		assert.Error(t, err)
	})
}
