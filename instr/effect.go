package instr

import (
	"github.com/greenhat/unison-go/ir"
	"github.com/greenhat/unison-go/vm"
)

// Handle installs an effect handler at MarkIdx on the current frame.
// The dispatcher advances idx itself for RetHandle, so this
// instruction leaves idx untouched.
type Handle struct {
	MarkIdx int
}

func (h Handle) Eval(_ *vm.Frame, _ *int, _ ir.Reference) vm.Ret {
	return vm.HandleRet(h.MarkIdx)
}

// Perform pops Argc values off the operand stack (in reverse push
// order) and performs an effect identified by Kind/Number, unwinding
// the stack to find a handler. It advances idx by one before
// returning, so a continuation captured for this request resumes
// execution at the instruction right after Perform.
type Perform struct {
	Kind  string
	Number int
	Argc  int
}

func (p Perform) Eval(frame *vm.Frame, idx *int, _ ir.Reference) vm.Ret {
	args := make([]ir.Value, p.Argc)
	for i := p.Argc - 1; i >= 0; i-- {
		args[i] = frame.Pop()
	}
	*idx++
	return vm.RequestRet(p.Kind, p.Number, args)
}

// ReRequest pops the Continuation value a handler was offered and
// declined, and re-emits it for the dispatcher to keep searching
// outward for a matching handler.
type ReRequest struct{}

func (ReRequest) Eval(frame *vm.Frame, idx *int, _ ir.Reference) vm.Ret {
	popped := frame.Pop()
	c, ok := popped.(vm.Continuation)
	if !ok {
		invariant("ReRequest: expected a Continuation on the stack, got %T", popped)
	}
	return vm.ReRequestRet(c.EffectKind, c.Number, c.Args, c.FinalIndex, c.Frames, c.FrameIndex)
}

// Resume pops a resume-value argument and the Continuation it applies
// to, in that push order (argument pushed last), and resumes it: the
// continuation's saved frames are spliced back onto the live stack and
// execution continues at its recorded final index.
type Resume struct{}

func (Resume) Eval(frame *vm.Frame, idx *int, _ ir.Reference) vm.Ret {
	arg := frame.Pop()
	popped := frame.Pop()
	c, ok := popped.(vm.Continuation)
	if !ok {
		invariant("Resume: expected a Continuation on the stack, got %T", popped)
	}
	return vm.ContinueRet(c.FinalIndex, c.Frames, arg)
}

// HandlePure signals that a handler body finished without ever
// resuming its continuation: its value should simply propagate to the
// caller, exactly as an ordinary fall-off-the-end tail fold would.
type HandlePure struct{}

func (HandlePure) Eval(_ *vm.Frame, _ *int, _ ir.Reference) vm.Ret {
	return vm.HandlePureRet()
}
