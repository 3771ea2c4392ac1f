package vm

import "github.com/greenhat/unison-go/ir"

// RetTag discriminates the shapes an instruction's evaluation can
// signal back to the dispatcher.
type RetTag int

const (
	// RetNothing: ordinary effect-free instruction, idx already advanced.
	RetNothing RetTag = iota
	// RetHandle: install an effect handler on the current frame.
	RetHandle
	// RetValue: inline a top-level term's body by hash.
	RetValue
	// RetFnCall: invoke an anonymous function with bindings and one argument.
	RetFnCall
	// RetRequest: perform an effect, unwinding to find a handler.
	RetRequest
	// RetReRequest: a handler declined a request; keep unwinding outward.
	RetReRequest
	// RetContinue: resume a previously captured continuation.
	RetContinue
	// RetHandlePure: a handler body finished without invoking its continuation.
	RetHandlePure
)

// Ret is the signal an IR instruction's Eval returns to the
// dispatcher. Only the fields relevant to Tag are meaningful; this
// mirrors the teacher's types.Result, which likewise overloads a
// handful of fields across several Flow variants rather than branching
// through a separate type per case.
type Ret struct {
	Tag RetTag

	// RetHandle
	MarkIdx int

	// RetValue
	Hash ir.Hash

	// RetFnCall
	FnID     int
	Bindings []ir.Value

	// Arg carries the pending Call argument into the new frame RetValue
	// or RetFnCall pushes, and the resume value for RetContinue; it's
	// irrelevant to every other tag.
	Arg ir.Value

	// RetRequest / RetReRequest
	Kind       string
	Number     int
	Args       []ir.Value
	FinalIndex int
	Frames     []*Frame
	FrameIndex int

	// RetContinue
	ContinueIdx int
}

// Nothing signals an ordinary, non-control-flow-affecting instruction.
func Nothing() Ret { return Ret{Tag: RetNothing} }

// HandleRet signals that a handler should be installed at markIdx on
// the current frame.
func HandleRet(markIdx int) Ret {
	return Ret{Tag: RetHandle, MarkIdx: markIdx}
}

// ValueRet signals that a top-level term named by hash should be
// inlined as a new frame, with arg (the pending Call argument, if any)
// pushed onto that new frame's operand stack for its own cmds to
// consume. A bare term reference not reached through Call passes a nil
// arg, and the dispatcher then pushes nothing onto the new frame.
func ValueRet(h ir.Hash, arg ir.Value) Ret {
	return Ret{Tag: RetValue, Hash: h, Arg: arg}
}

// FnCallRet signals that an anonymous function should be invoked with
// bindings installed and arg pushed onto its new frame's stack.
func FnCallRet(fnID int, bindings []ir.Value, arg ir.Value) Ret {
	return Ret{Tag: RetFnCall, FnID: fnID, Bindings: bindings, Arg: arg}
}

// RequestRet signals that an effect of the given kind/number is being
// performed with args, and a handler must be found by unwinding.
func RequestRet(kind string, number int, args []ir.Value) Ret {
	return Ret{Tag: RetRequest, Kind: kind, Number: number, Args: args}
}

// ReRequestRet signals that a handler declined a request it was
// offered and the search for a matching handler should continue
// outward from the frame beneath the declining handler. frameIndex is
// carried in the Ret but the dispatcher does not consult it.
func ReRequestRet(kind string, number int, args []ir.Value, finalIndex int, frames []*Frame, frameIndex int) Ret {
	return Ret{
		Tag: RetReRequest, Kind: kind, Number: number, Args: args,
		FinalIndex: finalIndex, Frames: frames, FrameIndex: frameIndex,
	}
}

// ContinueRet signals that a previously captured continuation should
// be resumed: splice frames back onto the stack and resume at kidx
// with arg as the resume value.
func ContinueRet(kidx int, frames []*Frame, arg ir.Value) Ret {
	return Ret{Tag: RetContinue, ContinueIdx: kidx, Frames: frames, Arg: arg}
}

// HandlePureRet signals that a handler body completed without ever
// resuming its continuation.
func HandlePureRet() Ret { return Ret{Tag: RetHandlePure} }
