package main

import (
	"errors"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/chzyer/readline"
	"go.uber.org/zap"

	"github.com/ebonhawk/ncsvm/src/bytecode"
	"github.com/ebonhawk/ncsvm/src/runner"
	"github.com/ebonhawk/ncsvm/src/serrors"
	"github.com/ebonhawk/ncsvm/src/vm"
)

// actor used for deferred commands that were queued without an explicit
// assignee.
const defaultActor vm.ObjectID = 1

type pendingCommand struct {
	actor vm.ObjectID
	ctx   *vm.ExecutionContext
}

type session struct {
	log      *zap.Logger
	builder  *bytecode.Builder
	registry *vm.Registry
	disp     *runner.Runner
	args     []vm.Argument
	pending  []pendingCommand
}

func newSession(log *zap.Logger) *session {
	s := &session{
		log:     log,
		builder: bytecode.NewBuilder("<sandbox>"),
	}
	s.registry = demoRoutines(s)
	provider := runner.ProviderFunc(func(name string) (*bytecode.Program, error) {
		return nil, serrors.New(serrors.InvalidArgument, "no program source for %q in the sandbox", name)
	})
	disp, err := runner.New(provider, s.registry, runner.WithLogger(log))
	checkErr(err)
	s.disp = disp
	return s
}

func (s *session) repl() error {
	rl, err := readline.New("ncs> ")
	if err != nil {
		return err
	}
	for {
		line, err := rl.Readline()
		if err != nil {
			if errors.Is(err, readline.ErrInterrupt) {
				break
			}
			fmt.Fprintln(os.Stderr, err)
			continue
		}
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, ";") {
			continue
		}
		if strings.HasPrefix(line, ".") {
			err = s.command(line)
		} else {
			err = s.assemble(line)
		}
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
		}
	}
	return nil
}

func (s *session) command(line string) error {
	parts := strings.Fields(line)
	switch parts[0] {
	case ".help":
		s.printHelp()
	case ".list":
		prog, err := s.builder.Build()
		if err != nil {
			return err
		}
		for _, ins := range prog.Instructions() {
			fmt.Fprintln(os.Stderr, bytecode.Describe(ins))
		}
	case ".run":
		return s.run()
	case ".flush":
		return s.flush()
	case ".reset":
		s.builder = bytecode.NewBuilder("<sandbox>")
		s.args = nil
		s.pending = nil
	case ".arg":
		if len(parts) != 2 {
			return fmt.Errorf("usage: .arg Kind:value")
		}
		arg, err := vm.ParseArgument(parts[1])
		if err != nil {
			return err
		}
		s.args = append(s.args, arg)
	case ".args":
		for _, arg := range s.args {
			fmt.Fprintln(os.Stderr, arg)
		}
	case ".routines":
		s.printRoutines()
	default:
		return fmt.Errorf("unknown command %s, try .help", parts[0])
	}
	return nil
}

func (s *session) run() error {
	prog, err := s.builder.Build()
	if err != nil {
		return err
	}
	ctx := &vm.ExecutionContext{Routines: s.registry, Args: s.args}
	result := vm.New(prog, ctx, vm.WithLogger(s.log)).Run()
	fmt.Fprintf(os.Stderr, "=> %d\n", result)
	return nil
}

// flush dispatches the deferred commands queued by DelayCommand and
// AssignCommand during previous runs.
func (s *session) flush() error {
	queued := s.pending
	s.pending = nil
	for _, cmd := range queued {
		result, err := s.disp.DoCommand(cmd.ctx, cmd.actor)
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "=> %d (actor %d)\n", result, uint32(cmd.actor))
	}
	fmt.Fprintf(os.Stderr, "dispatched %d command(s)\n", len(queued))
	return nil
}

func (s *session) printHelp() {
	fmt.Fprint(os.Stderr, `Enter instructions one per line, e.g.:
  CONSTI 2
  CONSTI 3
  ADDII
  RETN
A token ending with ':' defines a jump label; JMP/JSR/JZ/JNZ take a
label name. Lines starting with ';' are comments.

Commands:
  .help       show this help
  .list       disassemble the current program
  .run        run the current program
  .flush      dispatch deferred commands queued by the last run
  .reset      discard program, arguments and deferred commands
  .arg K:v    append an engine argument, e.g. .arg Caller:5
  .args       show seeded arguments
  .routines   list the demo routine table
`)
}

func (s *session) printRoutines() {
	for id := 0; ; id++ {
		r, err := s.registry.Get(id)
		if err != nil {
			return
		}
		types := make([]string, r.ArgumentCount())
		for i := range types {
			types[i] = r.ArgumentType(i).String()
		}
		fmt.Fprintf(os.Stderr, "%3d %s %s(%s)\n", id, r.ReturnType(), r.Name(), strings.Join(types, ", "))
	}
}

func (s *session) assemble(line string) error {
	parts := strings.FieldsFunc(line, func(r rune) bool {
		return r == ' ' || r == '\t' || r == ','
	})
	mnemonic := strings.ToUpper(parts[0])
	if strings.HasSuffix(mnemonic, ":") {
		s.builder.Label(strings.TrimSuffix(parts[0], ":"))
		return nil
	}
	op, ok := bytecode.OpByName(mnemonic)
	if !ok {
		return fmt.Errorf("unknown mnemonic %s", parts[0])
	}

	operands := parts[1:]
	switch op {
	case bytecode.CONSTI:
		v, err := intOperand(operands, 0)
		if err != nil {
			return err
		}
		s.builder.ConstInt(int32(v))
	case bytecode.CONSTF:
		if len(operands) < 1 {
			return fmt.Errorf("%s requires a float operand", op)
		}
		f, err := strconv.ParseFloat(operands[0], 32)
		if err != nil {
			return err
		}
		s.builder.ConstFloat(float32(f))
	case bytecode.CONSTS:
		rest := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(line), parts[0]))
		if unquoted, err := strconv.Unquote(rest); err == nil {
			rest = unquoted
		}
		s.builder.ConstString(rest)
	case bytecode.CONSTO:
		v, err := intOperand(operands, 0)
		if err != nil {
			return err
		}
		s.builder.ConstObject(uint32(v))
	case bytecode.CPDOWNSP, bytecode.CPTOPSP, bytecode.CPDOWNBP, bytecode.CPTOPBP:
		off, err := intOperand(operands, 0)
		if err != nil {
			return err
		}
		size, err := intOperand(operands, 1)
		if err != nil {
			return err
		}
		s.builder.Copy(op, off, size)
	case bytecode.MOVSP:
		off, err := intOperand(operands, 0)
		if err != nil {
			return err
		}
		s.builder.MoveSP(off)
	case bytecode.DECISP, bytecode.INCISP, bytecode.DECIBP, bytecode.INCIBP:
		off, err := intOperand(operands, 0)
		if err != nil {
			return err
		}
		s.builder.Adjust(op, off)
	case bytecode.JMP, bytecode.JSR, bytecode.JZ, bytecode.JNZ:
		if len(operands) < 1 {
			return fmt.Errorf("%s requires a label", op)
		}
		s.builder.Jump(op, operands[0])
	case bytecode.ACTION:
		id, err := intOperand(operands, 0)
		if err != nil {
			return err
		}
		argc, err := intOperand(operands, 1)
		if err != nil {
			return err
		}
		s.builder.Action(id, argc)
	case bytecode.DESTRUCT:
		size, err := intOperand(operands, 0)
		if err != nil {
			return err
		}
		off, err := intOperand(operands, 1)
		if err != nil {
			return err
		}
		keep, err := intOperand(operands, 2)
		if err != nil {
			return err
		}
		s.builder.Destruct(size, off, keep)
	case bytecode.STORE_STATE:
		globals, err := intOperand(operands, 0)
		if err != nil {
			return err
		}
		locals, err := intOperand(operands, 1)
		if err != nil {
			return err
		}
		s.builder.StoreState(globals, locals)
	case bytecode.EQUALTT, bytecode.NEQUALTT:
		size, err := intOperand(operands, 0)
		if err != nil {
			return err
		}
		s.builder.Tuple(op, size)
	default:
		s.builder.Op(op)
	}
	return nil
}

func intOperand(operands []string, index int) (int, error) {
	if index >= len(operands) {
		return 0, fmt.Errorf("missing operand %d", index+1)
	}
	return strconv.Atoi(operands[index])
}

// demoRoutines builds a routine table large enough to exercise every
// argument marshalling path: plain values, vectors, objects with self
// resolution and deferred actions.
func demoRoutines(s *session) *vm.Registry {
	reg := &vm.Registry{}

	reg.Register(vm.NewRoutine("PrintString", vm.Void, []vm.Type{vm.String},
		func(args []vm.Variable, _ *vm.ExecutionContext) (vm.Variable, error) {
			str, err := vm.StringArg(args, 0)
			if err != nil {
				return vm.OfNull(), err
			}
			fmt.Fprintln(os.Stderr, str)
			return vm.OfNull(), nil
		}))

	reg.Register(vm.NewRoutine("PrintInteger", vm.Void, []vm.Type{vm.Int},
		func(args []vm.Variable, _ *vm.ExecutionContext) (vm.Variable, error) {
			n, err := vm.IntArg(args, 0)
			if err != nil {
				return vm.OfNull(), err
			}
			fmt.Fprintln(os.Stderr, n)
			return vm.OfNull(), nil
		}))

	reg.Register(vm.NewRoutine("PrintFloat", vm.Void, []vm.Type{vm.Float},
		func(args []vm.Variable, _ *vm.ExecutionContext) (vm.Variable, error) {
			f, err := vm.FloatArg(args, 0)
			if err != nil {
				return vm.OfNull(), err
			}
			fmt.Fprintf(os.Stderr, "%g\n", f)
			return vm.OfNull(), nil
		}))

	reg.Register(vm.NewRoutine("PrintObject", vm.Void, []vm.Type{vm.Object},
		func(args []vm.Variable, ctx *vm.ExecutionContext) (vm.Variable, error) {
			id, err := vm.ObjectArg(args, 0, ctx)
			if err != nil {
				return vm.OfNull(), err
			}
			fmt.Fprintln(os.Stderr, uint32(id))
			return vm.OfNull(), nil
		}))

	reg.Register(vm.NewRoutine("IntToString", vm.String, []vm.Type{vm.Int},
		func(args []vm.Variable, _ *vm.ExecutionContext) (vm.Variable, error) {
			n, err := vm.IntArg(args, 0)
			if err != nil {
				return vm.OfNull(), err
			}
			return vm.OfString(strconv.Itoa(int(n))), nil
		}))

	reg.Register(vm.NewRoutine("Vector", vm.Vector, []vm.Type{vm.Float, vm.Float, vm.Float},
		func(args []vm.Variable, _ *vm.ExecutionContext) (vm.Variable, error) {
			x, err := vm.FloatArgOrElse(args, 0, 0)
			if err != nil {
				return vm.OfNull(), err
			}
			y, err := vm.FloatArgOrElse(args, 1, 0)
			if err != nil {
				return vm.OfNull(), err
			}
			z, err := vm.FloatArgOrElse(args, 2, 0)
			if err != nil {
				return vm.OfNull(), err
			}
			return vm.OfVector(vm.Vec3{X: x, Y: y, Z: z}), nil
		}))

	reg.Register(vm.NewRoutine("VectorMagnitude", vm.Float, []vm.Type{vm.Vector},
		func(args []vm.Variable, _ *vm.ExecutionContext) (vm.Variable, error) {
			v, err := vm.VectorArg(args, 0)
			if err != nil {
				return vm.OfNull(), err
			}
			mag := math.Sqrt(float64(v.X*v.X + v.Y*v.Y + v.Z*v.Z))
			return vm.OfFloat(float32(mag)), nil
		}))

	reg.Register(vm.NewRoutine("DelayCommand", vm.Void, []vm.Type{vm.Float, vm.Action},
		func(args []vm.Variable, _ *vm.ExecutionContext) (vm.Variable, error) {
			ctx, err := vm.ActionArg(args, 1)
			if err != nil {
				return vm.OfNull(), err
			}
			s.pending = append(s.pending, pendingCommand{actor: defaultActor, ctx: ctx})
			return vm.OfNull(), nil
		}))

	reg.Register(vm.NewRoutine("AssignCommand", vm.Void, []vm.Type{vm.Object, vm.Action},
		func(args []vm.Variable, ctx *vm.ExecutionContext) (vm.Variable, error) {
			actor, err := vm.ObjectArg(args, 0, ctx)
			if err != nil {
				return vm.OfNull(), err
			}
			captured, err := vm.ActionArg(args, 1)
			if err != nil {
				return vm.OfNull(), err
			}
			s.pending = append(s.pending, pendingCommand{actor: actor, ctx: captured})
			return vm.OfNull(), nil
		}))

	return reg
}
