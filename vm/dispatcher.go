package vm

import (
	"time"

	"github.com/greenhat/unison-go/ir"
	"github.com/greenhat/unison-go/trace"
)

// DefaultBudget mirrors the 90-second wall-clock budget the original
// runtime checks every 100 instructions.
const DefaultBudget = 90 * time.Second

// DefaultPollEvery is how many instructions run between budget checks.
const DefaultPollEvery = 100

// State is one evaluation of a program: the instruction stream
// currently in scope, the call stack, the program counter, and the
// cooperative resource limits governing it.
type State struct {
	Env       Environment
	Stack     *Stack
	Budget    time.Duration
	PollEvery int
	Tracer    *trace.Tracer

	idx       int
	cmds      []IR
	optionRef ir.Reference
}

// NewState starts evaluation of source within env, with the default
// budget and poll interval.
func NewState(env Environment, source Source) *State {
	return &State{
		Env:       env,
		Stack:     NewStack(source),
		Budget:    DefaultBudget,
		PollEvery: DefaultPollEvery,
		cmds:      env.Cmds(source),
		optionRef: ir.DerivedRef(ir.OptionHash, 0, 0),
	}
}

// Idx reports the dispatcher's current instruction index, for tests
// and diagnostics.
func (s *State) Idx() int { return s.idx }

// Run drives the dispatcher to completion: fetch, evaluate, interpret
// the Ret, tail-fold when a frame's instructions are exhausted, repeat
// until the stack empties or an error/budget/unhandled-request
// terminates evaluation early.
func (s *State) Run() (ir.Value, error) {
	start := time.Now()
	var ticks int64
	for {
		for s.idx < len(s.cmds) {
			if s.PollEvery > 0 && ticks%int64(s.PollEvery) == 0 && s.Budget > 0 {
				if time.Since(start) > s.Budget {
					if s.Tracer != nil {
						s.Tracer.Event("ran out of time after %d ticks", ticks)
					}
					return nil, &BudgetExceeded{Ticks: ticks}
				}
			}
			ticks++

			frame := s.Stack.top()
			source := frame.Source.String()
			preIdx := s.idx
			instrn := s.cmds[s.idx]

			s.Tracer.Open(source, preIdx)
			ret := instrn.Eval(frame, &s.idx, s.optionRef)
			s.Tracer.Close(source, preIdx, s.idx)

			value, finished, err := s.handleRet(ret)
			if err != nil {
				return nil, err
			}
			if finished {
				return value, nil
			}
		}
		value, finished := s.popAndFold()
		if finished {
			return value, nil
		}
	}
}

func (s *State) handleRet(ret Ret) (ir.Value, bool, error) {
	switch ret.Tag {
	case RetNothing:
		return nil, false, nil

	case RetHandle:
		s.Stack.InstallHandler(ret.MarkIdx, len(s.cmds))
		s.idx++
		return nil, false, nil

	case RetValue:
		source := ValueSource(ret.Hash)
		s.Stack.NewFrameFor(source, nil, s.idx)
		s.cmds = s.Env.Cmds(source)
		s.idx = 0
		if ret.Arg != nil {
			s.Stack.top().Push(ret.Arg)
		}
		return nil, false, nil

	case RetFnCall:
		source := FnSource(ret.FnID, nil)
		s.Stack.NewFrameFor(source, ret.Bindings, s.idx)
		s.cmds = s.Env.Cmds(source)
		s.idx = 0
		s.Stack.top().Push(ret.Arg)
		return nil, false, nil

	case RetRequest:
		return s.handleRequest(ret.Kind, ret.Number, ret.Args, s.idx)

	case RetReRequest:
		return s.handleReRequest(ret)

	case RetContinue:
		// Resume doesn't self-advance *idx the way most instructions do,
		// so s.idx still names the Resume instruction itself; the frame
		// that called it resumes one past it.
		s.Stack.SpliceContinuation(ret.Frames, s.idx+1, ret.Arg)
		s.idx = ret.ContinueIdx
		s.cmds = s.Env.Cmds(s.Stack.top().Source)
		return nil, false, nil

	case RetHandlePure:
		value, finished := s.popAndFold()
		return value, finished, nil
	}
	invariant("unknown Ret tag %d", ret.Tag)
	return nil, false, nil
}

// handleRequest unwinds to the nearest handler, capturing the skipped
// frames as a continuation and handing the handler the opportunity to
// either resume it (Continue), decline it (ReRequest), or simply
// finish without ever resuming it (HandlePure).
func (s *State) handleRequest(kind string, number int, args []ir.Value, finalIndex int) (ir.Value, bool, error) {
	handlerIdx, skipped, ok := s.Stack.BackToHandler()
	if !ok {
		if s.Tracer != nil {
			s.Tracer.Event("unhandled request %s#%d", kind, number)
		}
		return nil, false, &UnhandledRequest{Kind: kind, Number: number, Args: args}
	}
	cont := Continuation{
		EffectKind: kind, Number: number, Args: args,
		FinalIndex: finalIndex, Frames: skipped, FrameIndex: len(skipped),
	}
	s.Stack.top().Push(cont)
	s.idx = handlerIdx
	s.cmds = s.Env.Cmds(s.Stack.top().Source)
	return nil, false, nil
}

// handleReRequest folds the currently-live (declining) handler frame
// into the continuation's growing snapshot and keeps searching
// outward for the next handler.
func (s *State) handleReRequest(ret Ret) (ir.Value, bool, error) {
	declining := s.Stack.top().clone()
	handlerIdx, skipped, ok := s.Stack.BackAgainToHandler(declining)
	if !ok {
		return nil, false, &UnhandledRequest{Kind: ret.Kind, Number: ret.Number, Args: ret.Args}
	}
	allSkipped := append(append([]*Frame(nil), ret.Frames...), skipped...)
	cont := Continuation{
		EffectKind: ret.Kind, Number: ret.Number, Args: ret.Args,
		FinalIndex: ret.FinalIndex, Frames: allSkipped, FrameIndex: len(allSkipped),
	}
	s.Stack.top().Push(cont)
	s.idx = handlerIdx
	s.cmds = s.Env.Cmds(s.Stack.top().Source)
	return nil, false, nil
}

// popAndFold is the tail-fold: pop the exhausted innermost frame and
// either finish (if it was the last one) or splice its value onto the
// next frame's operand stack and resume the caller where it left off.
func (s *State) popAndFold() (ir.Value, bool) {
	returnIdx, value := s.Stack.PopFrame()
	if s.Stack.Len() == 0 {
		return value, true
	}
	s.Stack.top().Push(value)
	s.idx = returnIdx
	s.cmds = s.Env.Cmds(s.Stack.top().Source)
	return nil, false
}

// Run evaluates source within env to completion using the default
// budget, the package-level convenience form of NewState(...).Run().
func Run(env Environment, source Source) (ir.Value, error) {
	return NewState(env, source).Run()
}

// RunWithTracer is Run with instruction-level tracing attached.
func RunWithTracer(env Environment, source Source, tracer *trace.Tracer) (ir.Value, error) {
	st := NewState(env, source)
	st.Tracer = tracer
	return st.Run()
}
