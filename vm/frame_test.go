package vm

import (
	"testing"

	"github.com/greenhat/unison-go/ir"
)

func TestFramePushPop(t *testing.T) {
	f := NewFrame(ValueSource(ir.HashOf("t")), nil, 0)
	f.Push(ir.NewNat(1))
	f.Push(ir.NewNat(2))
	if got := f.Pop(); got != ir.NewNat(2) {
		t.Fatalf("Pop() = %v, want Nat(2)", got)
	}
	if got := f.Top(); got != ir.NewNat(1) {
		t.Fatalf("Top() = %v, want Nat(1)", got)
	}
	if got := f.Pop(); got != ir.NewNat(1) {
		t.Fatalf("Pop() = %v, want Nat(1)", got)
	}
}

func TestFramePopEmptyPanics(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Fatal("expected a panic popping an empty frame")
		} else if _, ok := r.(InvariantViolation); !ok {
			t.Fatalf("expected InvariantViolation, got %T", r)
		}
	}()
	f := NewFrame(ValueSource(ir.HashOf("t")), nil, 0)
	f.Pop()
}

func TestFrameTopEmptyPanics(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Fatal("expected a panic peeking an empty frame")
		}
	}()
	f := NewFrame(ValueSource(ir.HashOf("t")), nil, 0)
	f.Top()
}

func TestFrameCloneIsIndependent(t *testing.T) {
	f := NewFrame(ValueSource(ir.HashOf("t")), []ir.Value{ir.NewNat(9)}, 3)
	f.Push(ir.NewNat(1))
	mark := 7
	f.Handler = &mark

	cp := f.clone()
	cp.Push(ir.NewNat(2))
	*cp.Handler = 99

	if got := f.Top(); got != ir.NewNat(1) {
		t.Fatalf("original frame's stack mutated by clone: top = %v", got)
	}
	if *f.Handler != 7 {
		t.Fatalf("original frame's Handler mutated by clone: %d", *f.Handler)
	}
	if cp.ReturnIndex != 3 {
		t.Fatalf("clone.ReturnIndex = %d, want 3", cp.ReturnIndex)
	}
	if len(cp.Bindings) != 1 || cp.Bindings[0] != ir.NewNat(9) {
		t.Fatalf("clone.Bindings = %v, want [Nat(9)]", cp.Bindings)
	}
}

func TestSourceString(t *testing.T) {
	h := ir.HashOf("hello")
	if got, want := ValueSource(h).String(), h.String(); got != want {
		t.Fatalf("ValueSource.String() = %q, want %q", got, want)
	}
	if got, want := FnSource(4, nil).String(), "fn#4"; got != want {
		t.Fatalf("FnSource.String() = %q, want %q", got, want)
	}
}
