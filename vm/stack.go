package vm

import "github.com/greenhat/unison-go/ir"

// Stack is the call stack: a sequence of activation Frames, innermost
// first. Only the innermost frame's operand stack is live at any
// point; the rest are either inert (parked beneath a handler
// installation) or have already been captured into a continuation
// snapshot.
type Stack struct {
	Frames []*Frame
}

// NewStack starts a fresh call stack for top-level evaluation of source.
func NewStack(source Source) *Stack {
	return &Stack{Frames: []*Frame{NewFrame(source, nil, 0)}}
}

// Push places v on the innermost frame's operand stack.
func (s *Stack) Push(v ir.Value) {
	s.top().Push(v)
}

// Pop removes and returns the top of the innermost frame's operand stack.
func (s *Stack) Pop() ir.Value {
	return s.top().Pop()
}

func (s *Stack) top() *Frame {
	if len(s.Frames) == 0 {
		invariant("operand stack access with no active frame")
	}
	return s.Frames[0]
}

// NewFrameFor pushes a new innermost frame for source, with bindings
// installed and returnIndex recorded as where to resume the caller
// once this frame completes.
func (s *Stack) NewFrameFor(source Source, bindings []ir.Value, returnIndex int) {
	s.Frames = append([]*Frame{NewFrame(source, bindings, returnIndex)}, s.Frames...)
}

// PopFrame removes the innermost frame and reports where the caller
// should resume (its ReturnIndex) and the value to fold back onto the
// new innermost frame's operand stack (the top of the popped frame's
// own stack). Popping the last remaining frame is allowed and leaves
// the stack empty; popping an already empty stack, or a frame whose
// operand stack is empty, is an invariant violation.
func (s *Stack) PopFrame() (returnIndex int, value ir.Value) {
	if len(s.Frames) == 0 {
		invariant("pop_frame on an empty stack")
	}
	popped := s.Frames[0]
	value = popped.Top()
	s.Frames = s.Frames[1:]
	return popped.ReturnIndex, value
}

// Len reports how many frames remain on the stack.
func (s *Stack) Len() int {
	return len(s.Frames)
}

// InstallHandler marks the innermost frame as an effect handler at
// markIdx, then clones it: the clone becomes the new innermost frame
// (handler cleared) and continues running the protected computation;
// the original, now carrying the handler, is parked beneath it.
// Installing a handler over one already installed is an invariant
// violation.
//
// The clone's ReturnIndex is set to cmdsLen (the end of the shared
// instruction stream), not copied from the original frame: the
// protected computation and the handler body it may jump to both live
// in the same cmds array, so once the protected computation (or
// whatever is later spliced in to resume it) completes, it must
// immediately be treated as exhausted and cascade into popping the
// frame beneath it, rather than resuming some arbitrary earlier offset
// in a term it has already finished with.
func (s *Stack) InstallHandler(markIdx, cmdsLen int) {
	original := s.top()
	if original.Handler != nil {
		invariant("handler already installed on this frame")
	}
	m := markIdx
	original.Handler = &m
	clone := original.clone()
	clone.Handler = nil
	clone.ReturnIndex = cmdsLen
	s.Frames = append([]*Frame{clone}, s.Frames...)
}

// BackToHandler unwinds from the innermost frame outward looking for
// the nearest frame with an installed handler. It clones every frame
// it skips (for the continuation snapshot the caller builds), clears
// the handler it found so the handler body runs only once per request,
// truncates the live stack down to [handlerFrame, ...outerFrames], and
// reports the instruction offset the handler should resume at plus the
// cloned skipped frames, innermost first. ok is false if no handler exists anywhere
// on the stack (an unhandled request).
func (s *Stack) BackToHandler() (handlerIdx int, skipped []*Frame, ok bool) {
	return s.unwindToHandler(0)
}

// BackAgainToHandler continues the outward search for a handler after
// the one found by a prior BackToHandler/BackAgainToHandler declined
// the request (a ReRequest). declining is a clone of the frame that
// just declined, appended to the continuation's growing snapshot.
func (s *Stack) BackAgainToHandler(declining *Frame) (handlerIdx int, skipped []*Frame, ok bool) {
	handlerIdx, rest, ok := s.unwindToHandler(1)
	if !ok {
		return 0, nil, false
	}
	skipped = append([]*Frame{declining}, rest...)
	return handlerIdx, skipped, true
}

func (s *Stack) unwindToHandler(from int) (handlerIdx int, skipped []*Frame, ok bool) {
	for i := from; i < len(s.Frames); i++ {
		if s.Frames[i].Handler != nil {
			skipped = make([]*Frame, i-from)
			for j := from; j < i; j++ {
				skipped[j-from] = s.Frames[j].clone()
			}
			handlerIdx = *s.Frames[i].Handler
			s.Frames[i].Handler = nil
			s.Frames = s.Frames[i:]
			return handlerIdx, skipped, true
		}
	}
	return 0, nil, false
}

// SpliceContinuation resumes a captured continuation: the saved frame
// snapshots are pushed back onto the live stack, innermost first, atop
// whatever is currently running, and arg is pushed onto the new
// innermost frame's operand stack as the resume value.
//
// The outermost spliced frame - the one adjacent to the handler, which
// originally called down into the request - has its ReturnIndex
// overwritten with resumeIdx, the instruction right after the Resume
// call that is reviving it. Without this, that frame would still carry
// the ReturnIndex InstallHandler gave it (the end of the shared cmds
// array), and once the resumed region finished it would fold straight
// past the handler instead of returning control to whatever the
// handler body does after Resume.
func (s *Stack) SpliceContinuation(frames []*Frame, resumeIdx int, arg ir.Value) {
	fresh := make([]*Frame, len(frames))
	for i, f := range frames {
		fresh[i] = f.clone()
	}
	if len(fresh) > 0 {
		fresh[len(fresh)-1].ReturnIndex = resumeIdx
	}
	s.Frames = append(fresh, s.Frames...)
	s.top().Push(arg)
}
