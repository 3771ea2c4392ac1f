package instr

import (
	"fmt"

	"github.com/greenhat/unison-go/ir"
	"github.com/greenhat/unison-go/vm"
)

// Call pops an argument and a callee off the operand stack and applies
// one to the other.
//
// Two callee shapes are fully specified by the dispatcher's own Ret
// contract and handled here: a Closure, which is always fully
// saturated by exactly one more argument (yielding Ret::FnCall with
// its already-captured bindings), and a Ref naming a term by hash,
// which this runtime treats as "dereference the term and let its own
// compiled body consume the pending argument" (yielding Ret::Value).
// The latter carries arg along into the new frame Ret::Value pushes,
// the same way Ret::FnCall carries its argument, so the referenced
// term's own cmds - out of this core's scope per its non-goals - can
// pick it back up directly off their own stack; multi-argument
// currying through a bare hash reference beyond that single inlining
// step is therefore compiler-contract territory this instruction does
// not re-derive.
type Call struct{}

func (Call) Eval(frame *vm.Frame, idx *int, _ ir.Reference) vm.Ret {
	arg := frame.Pop()
	callee := frame.Pop()
	*idx++

	switch c := callee.(type) {
	case ir.Closure:
		return vm.FnCallRet(c.FnID, c.Bindings, arg)
	case ir.RefValue:
		if c.Ref.Kind() != ir.DerivedKind {
			invariant("Call: builtin reference %s is not directly callable", c.Ref)
		}
		return vm.ValueRet(c.Ref.Hash(), arg)
	default:
		invariant("Call: callee is not callable: %T", callee)
		panic("unreachable")
	}
}

func invariant(format string, args ...any) {
	panic(vm.InvariantViolation{Message: fmt.Sprintf(format, args...)})
}
