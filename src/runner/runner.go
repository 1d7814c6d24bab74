// Package runner is the engine-facing surface for executing scripts by
// resource name: it resolves programs through a provider, caches them,
// seeds execution contexts and dispatches captured continuations.
package runner

import (
	"sync"

	"github.com/hashicorp/golang-lru/v2/simplelru"
	"go.uber.org/zap"

	"github.com/ebonhawk/ncsvm/src/bytecode"
	"github.com/ebonhawk/ncsvm/src/conf"
	"github.com/ebonhawk/ncsvm/src/serrors"
	"github.com/ebonhawk/ncsvm/src/vm"
)

// ProgramProvider resolves a resource name to a compiled program.
type ProgramProvider interface {
	Program(name string) (*bytecode.Program, error)
}

// ProviderFunc adapts a function to the ProgramProvider interface.
type ProviderFunc func(name string) (*bytecode.Program, error)

// Program implements ProgramProvider.
func (fn ProviderFunc) Program(name string) (*bytecode.Program, error) { return fn(name) }

// Runner executes scripts by name on behalf of the engine. Programs are
// immutable once built, so resolved programs are kept in a small LRU
// keyed by resource name. Safe for concurrent use; each run gets its own
// machine.
type Runner struct {
	provider ProgramProvider
	routines vm.Routines
	log      *zap.Logger

	mu    sync.Mutex
	cache *simplelru.LRU[string, *bytecode.Program]
}

// Option configures a Runner.
type Option func(*Runner)

// WithLogger attaches a logger passed through to every machine.
func WithLogger(log *zap.Logger) Option {
	return func(r *Runner) { r.log = log }
}

// New builds a Runner over a program provider and a routine table.
func New(provider ProgramProvider, routines vm.Routines, opts ...Option) (*Runner, error) {
	cache, err := simplelru.NewLRU[string, *bytecode.Program](conf.PROGRAMCACHESIZE, nil)
	if err != nil {
		return nil, err
	}
	r := &Runner{provider: provider, routines: routines, cache: cache}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// Run executes the named script with the given engine arguments and
// returns its result value.
func (r *Runner) Run(name string, args []vm.Argument) (int, error) {
	program, err := r.program(name)
	if err != nil {
		return vm.RunFailure, err
	}
	ctx := &vm.ExecutionContext{Routines: r.routines, Args: args}
	return r.exec(program, ctx), nil
}

// RunCaller executes the named script with only a Caller argument.
func (r *Runner) RunCaller(name string, caller vm.ObjectID) (int, error) {
	arg, err := vm.NewArgument(vm.ArgCaller, vm.OfObject(caller))
	if err != nil {
		return vm.RunFailure, err
	}
	return r.Run(name, []vm.Argument{arg})
}

// DoCommand dispatches a captured continuation on behalf of a new actor:
// the captured arguments are kept except for Caller, which is rebound to
// the actor, and the saved state's program resumes on a fresh machine.
func (r *Runner) DoCommand(action *vm.ExecutionContext, actor vm.ObjectID) (int, error) {
	if action == nil || action.SavedState == nil {
		return vm.RunFailure, serrors.New(serrors.InvalidArgument, "action carries no saved state")
	}
	callerArg, err := vm.NewArgument(vm.ArgCaller, vm.OfObject(actor))
	if err != nil {
		return vm.RunFailure, err
	}

	ctx := action.Copy()
	rebound := false
	for i := range ctx.Args {
		if ctx.Args[i].Kind == vm.ArgCaller {
			ctx.Args[i] = callerArg
			rebound = true
			break
		}
	}
	if !rebound {
		ctx.Args = append([]vm.Argument{callerArg}, ctx.Args...)
	}
	return r.exec(ctx.SavedState.Program, ctx), nil
}

func (r *Runner) exec(program *bytecode.Program, ctx *vm.ExecutionContext) int {
	var opts []vm.Option
	if r.log != nil {
		opts = append(opts, vm.WithLogger(r.log))
	}
	return vm.New(program, ctx, opts...).Run()
}

func (r *Runner) program(name string) (*bytecode.Program, error) {
	r.mu.Lock()
	if program, ok := r.cache.Get(name); ok {
		r.mu.Unlock()
		return program, nil
	}
	r.mu.Unlock()

	program, err := r.provider.Program(name)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	r.cache.Add(name, program)
	r.mu.Unlock()
	return program, nil
}
