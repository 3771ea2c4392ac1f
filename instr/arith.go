package instr

import (
	"github.com/greenhat/unison-go/ir"
	"github.com/greenhat/unison-go/vm"
)

// AddNat pops two Nat operands and pushes their sum. Mis-typed
// operands are an invariant violation: the compiler is assumed to
// have already type-checked the program.
type AddNat struct{}

func (AddNat) Eval(frame *vm.Frame, idx *int, _ ir.Reference) vm.Ret {
	b := popNat(frame)
	a := popNat(frame)
	frame.Push(ir.NewNat(a + b))
	*idx++
	return vm.Nothing()
}

// SubNat pops two Nat operands and pushes their difference (a - b,
// where b was pushed last). It is an invariant violation for the
// result to underflow; the compiler is assumed to have already ruled
// that out.
type SubNat struct{}

func (SubNat) Eval(frame *vm.Frame, idx *int, _ ir.Reference) vm.Ret {
	b := popNat(frame)
	a := popNat(frame)
	if b > a {
		invariant("SubNat: %d - %d underflows Nat", a, b)
	}
	frame.Push(ir.NewNat(a - b))
	*idx++
	return vm.Nothing()
}

// AddInt pops two Int operands and pushes their sum.
type AddInt struct{}

func (AddInt) Eval(frame *vm.Frame, idx *int, _ ir.Reference) vm.Ret {
	b := popInt(frame)
	a := popInt(frame)
	frame.Push(ir.NewInt(a + b))
	*idx++
	return vm.Nothing()
}

// AddFloat pops two Float operands and pushes their sum.
type AddFloat struct{}

func (AddFloat) Eval(frame *vm.Frame, idx *int, _ ir.Reference) vm.Ret {
	b := popFloat(frame)
	a := popFloat(frame)
	frame.Push(ir.NewFloat(a + b))
	*idx++
	return vm.Nothing()
}

func popNat(frame *vm.Frame) uint64 {
	popped := frame.Pop()
	v, ok := popped.(ir.Nat)
	if !ok {
		invariant("expected a Nat operand, got %T", popped)
	}
	return v.Val
}

func popInt(frame *vm.Frame) int64 {
	popped := frame.Pop()
	v, ok := popped.(ir.Int)
	if !ok {
		invariant("expected an Int operand, got %T", popped)
	}
	return v.Val
}

func popFloat(frame *vm.Frame) float64 {
	popped := frame.Pop()
	v, ok := popped.(ir.Float)
	if !ok {
		invariant("expected a Float operand, got %T", popped)
	}
	return v.Val
}
