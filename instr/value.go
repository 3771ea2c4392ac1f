// Package instr implements the minimal instruction set needed to
// exercise the dispatcher end to end: literal pushes, calling, a
// handful of arithmetic ops, constructor building, and the effect
// opcodes (Handle/Perform/Resume/ReRequest/HandlePure).
package instr

import (
	"github.com/greenhat/unison-go/ir"
	"github.com/greenhat/unison-go/vm"
)

// PushValue pushes a literal onto the current frame's operand stack.
// It is the instruction add_eval uses to push both the callee
// reference and each argument value.
type PushValue struct {
	Value ir.Value
}

func (p PushValue) Eval(frame *vm.Frame, idx *int, _ ir.Reference) vm.Ret {
	frame.Push(p.Value)
	*idx++
	return vm.Nothing()
}
