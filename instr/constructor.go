package instr

import (
	"github.com/greenhat/unison-go/ir"
	"github.com/greenhat/unison-go/vm"
)

// MakeConstructor pops Arity values off the operand stack, in reverse
// push order, and pushes the resulting PartialConstructor naming Ctor
// and CtorIndex. Whether that constructor is "fully applied" is a
// matter for surrounding opcodes (pattern-match tests, out of scope
// here) to recognize by comparing len(Fields) against the
// constructor's declared arity; this instruction only builds the value.
type MakeConstructor struct {
	Ctor      ir.Reference
	CtorIndex int
	Arity     int
}

func (m MakeConstructor) Eval(frame *vm.Frame, idx *int, _ ir.Reference) vm.Ret {
	fields := make([]ir.Value, m.Arity)
	for i := m.Arity - 1; i >= 0; i-- {
		fields[i] = frame.Pop()
	}
	frame.Push(ir.PartialConstructor{Ctor: m.Ctor, CtorIndex: m.CtorIndex, Fields: fields})
	*idx++
	return vm.Nothing()
}
