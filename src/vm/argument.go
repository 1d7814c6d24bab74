package vm

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ebonhawk/ncsvm/src/serrors"
)

// ArgKind names an engine argument attached to a script run. Arguments
// are specific to a run: for example, the LastOpenedBy argument is passed
// to a door's onOpen script, and the script reads it back through the
// GetLastOpenedBy routine.
type ArgKind int

const (
	// ArgCaller is the object the script acts as.
	ArgCaller ArgKind = iota
	// ArgScriptVar is a numeric variable attached to the run.
	ArgScriptVar
	// ArgUserDefinedEventNumber is the payload of a user-defined event.
	ArgUserDefinedEventNumber
	// ArgClickingObject is the object that clicked a trigger.
	ArgClickingObject
	// ArgEnteringObject is the object that entered a trigger.
	ArgEnteringObject
	// ArgExitingObject is the object that left a trigger.
	ArgExitingObject
	// ArgLastClosedBy is the object that last closed the caller.
	ArgLastClosedBy
	// ArgLastOpenedBy is the object that last opened the caller.
	ArgLastOpenedBy
	// ArgLastPerceived is the object last noticed by the caller.
	ArgLastPerceived
	// ArgLastPerceptionHeard flags whether the perception was heard.
	ArgLastPerceptionHeard
	// ArgLastPerceptionInaudible flags whether the perception went quiet.
	ArgLastPerceptionInaudible
	// ArgLastPerceptionSeen flags whether the perception was seen.
	ArgLastPerceptionSeen
	// ArgLastPerceptionVanished flags whether the perception vanished.
	ArgLastPerceptionVanished
)

var argKindNames = [...]string{
	ArgCaller:                  "Caller",
	ArgScriptVar:               "ScriptVar",
	ArgUserDefinedEventNumber:  "UserDefinedEventNumber",
	ArgClickingObject:          "ClickingObject",
	ArgEnteringObject:          "EnteringObject",
	ArgExitingObject:           "ExitingObject",
	ArgLastClosedBy:            "LastClosedBy",
	ArgLastOpenedBy:            "LastOpenedBy",
	ArgLastPerceived:           "LastPerceived",
	ArgLastPerceptionHeard:     "LastPerceptionHeard",
	ArgLastPerceptionInaudible: "LastPerceptionInaudible",
	ArgLastPerceptionSeen:      "LastPerceptionSeen",
	ArgLastPerceptionVanished:  "LastPerceptionVanished",
}

func (kind ArgKind) String() string {
	if int(kind) < len(argKindNames) {
		return argKindNames[kind]
	}
	return fmt.Sprintf("ArgKind(%d)", int(kind))
}

func (kind ArgKind) objectKind() bool {
	switch kind {
	case ArgCaller, ArgClickingObject, ArgEnteringObject, ArgExitingObject,
		ArgLastClosedBy, ArgLastOpenedBy, ArgLastPerceived:
		return true
	default:
		return false
	}
}

// Argument is a (kind, variable) pair seeding the engine context of a
// run. Construct through NewArgument so that the kind/type pairing is
// verified up front; a malformed argument is a content error that must
// surface to the constructing code, never into a running machine.
type Argument struct {
	Kind ArgKind
	Var  Variable
}

// NewArgument verifies and builds an Argument. Object kinds require an
// Object variable that does not reference the self sentinel; numeric
// kinds require an Int variable.
func NewArgument(kind ArgKind, v Variable) (Argument, error) {
	arg := Argument{Kind: kind, Var: v}
	if err := arg.verify(); err != nil {
		return Argument{}, err
	}
	return arg, nil
}

func (arg Argument) verify() error {
	if arg.Kind.objectKind() {
		if arg.Var.Type != Object || arg.Var.Object == ObjectSelf {
			return serrors.New(serrors.InvalidArgument, "%v: expected an object != self", arg)
		}
		return nil
	}
	if arg.Var.Type != Int {
		return serrors.New(serrors.InvalidArgument, "%v: expected an integer", arg)
	}
	return nil
}

func (arg Argument) String() string {
	return fmt.Sprintf("%v:%v", arg.Kind, arg.Var)
}

// ParseArgument parses the textual "Kind:value" form back into an
// Argument. Object kinds take an object id, numeric kinds an integer.
func ParseArgument(s string) (Argument, error) {
	kindStr, valueStr, found := strings.Cut(s, ":")
	if !found {
		return Argument{}, serrors.New(serrors.InvalidArgument, "%q: expected format kind:value", s)
	}
	var kind ArgKind
	var known bool
	for i, name := range argKindNames {
		if name == kindStr {
			kind, known = ArgKind(i), true
			break
		}
	}
	if !known {
		return Argument{}, serrors.New(serrors.InvalidArgument, "unsupported arg kind %q", kindStr)
	}
	if kind.objectKind() {
		id, err := strconv.ParseUint(valueStr, 10, 32)
		if err != nil {
			return Argument{}, serrors.New(serrors.InvalidArgument, "%q: %v", s, err)
		}
		return NewArgument(kind, OfObject(ObjectID(id)))
	}
	n, err := strconv.ParseInt(valueStr, 10, 32)
	if err != nil {
		return Argument{}, serrors.New(serrors.InvalidArgument, "%q: %v", s, err)
	}
	return NewArgument(kind, OfInt(int32(n)))
}
