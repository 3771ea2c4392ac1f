package ir

import (
	"fmt"
	"strconv"
)

// ValueKind tags the closed set of runtime value shapes.
type ValueKind int

const (
	NatKind ValueKind = iota
	IntKind
	FloatKind
	TextKind
	BoolKind
	CharKind
	RefKind
	PartialCtorKind
	ClosureKind
	// ContinuationKind is reserved for vm.Continuation, which lives
	// outside this package (it embeds frame snapshots) but implements
	// Value by exposing Kind()/String() like every other variant.
	ContinuationKind
)

var valueKindNames = map[ValueKind]string{
	NatKind:          "Nat",
	IntKind:          "Int",
	FloatKind:        "Float",
	TextKind:         "Text",
	BoolKind:         "Bool",
	CharKind:         "Char",
	RefKind:          "Ref",
	PartialCtorKind:  "PartialCtor",
	ClosureKind:      "Closure",
	ContinuationKind: "Continuation",
}

func (k ValueKind) String() string {
	if name, ok := valueKindNames[k]; ok {
		return name
	}
	return "ValueKind(" + strconv.Itoa(int(k)) + ")"
}

// Value is the closed set of runtime values. Nat/Int/Float/Text/Bool/
// Char/Ref/PartialConstructor/Closure are defined in this package;
// vm.Continuation is the one variant defined outside it, to avoid a
// package cycle with the frame snapshots a continuation carries.
type Value interface {
	Kind() ValueKind
	String() string
}

// Nat is an unsigned 64-bit natural number.
type Nat struct {
	Val uint64
}

func (Nat) Kind() ValueKind    { return NatKind }
func (n Nat) String() string   { return strconv.FormatUint(n.Val, 10) }
func NewNat(v uint64) Nat      { return Nat{Val: v} }

// Int is a signed 64-bit integer.
type Int struct {
	Val int64
}

func (Int) Kind() ValueKind   { return IntKind }
func (i Int) String() string  { return strconv.FormatInt(i.Val, 10) }
func NewInt(v int64) Int      { return Int{Val: v} }

// Float is a 64-bit IEEE-754 float.
type Float struct {
	Val float64
}

func (Float) Kind() ValueKind  { return FloatKind }
func (f Float) String() string { return strconv.FormatFloat(f.Val, 'g', -1, 64) }
func NewFloat(v float64) Float { return Float{Val: v} }

// Text is an immutable UTF-8 string value.
type Text struct {
	Val string
}

func (Text) Kind() ValueKind  { return TextKind }
func (t Text) String() string { return t.Val }
func NewText(v string) Text   { return Text{Val: v} }

// Boolean is a two-valued logical value.
type Boolean struct {
	Val bool
}

func (Boolean) Kind() ValueKind   { return BoolKind }
func (b Boolean) String() string  { return strconv.FormatBool(b.Val) }
func NewBoolean(v bool) Boolean   { return Boolean{Val: v} }

// Char is a single Unicode code point.
type Char struct {
	Val rune
}

func (Char) Kind() ValueKind  { return CharKind }
func (c Char) String() string { return string(c.Val) }
func NewChar(v rune) Char     { return Char{Val: v} }

// RefValue wraps a Reference as a first-class value, denoting an
// unevaluated reference to a builtin or a term/constructor by hash.
type RefValue struct {
	Ref Reference
}

func (RefValue) Kind() ValueKind  { return RefKind }
func (r RefValue) String() string { return r.Ref.String() }
func NewRef(ref Reference) RefValue {
	return RefValue{Ref: ref}
}

// PartialConstructor is an accumulated data constructor application.
// It becomes "fully applied" once len(Fields) equals the constructor's
// declared arity; that recognition is the instruction set's job, not
// this type's.
type PartialConstructor struct {
	Ctor      Reference
	CtorIndex int
	Fields    []Value
}

func (PartialConstructor) Kind() ValueKind { return PartialCtorKind }

func (p PartialConstructor) String() string {
	s := fmt.Sprintf("%s(", p.Ctor.String())
	for i, f := range p.Fields {
		if i > 0 {
			s += ", "
		}
		s += f.String()
	}
	return s + ")"
}

// NewPartialConstructor builds a constructor application with the
// given fields already bound.
func NewPartialConstructor(ctor Reference, ctorIndex int, fields ...Value) PartialConstructor {
	return PartialConstructor{Ctor: ctor, CtorIndex: ctorIndex, Fields: fields}
}

// Closure is a function value: an index into the environment's
// anonymous-function table plus whatever bindings have already been
// captured for it. Calling a Closure supplies the one remaining
// argument the compiler did not already bind.
type Closure struct {
	FnID     int
	Bindings []Value
}

func (Closure) Kind() ValueKind { return ClosureKind }

func (c Closure) String() string {
	return fmt.Sprintf("<closure fn=%d bindings=%d>", c.FnID, len(c.Bindings))
}

// NewClosure builds a Closure over the given captured bindings.
func NewClosure(fnID int, bindings ...Value) Closure {
	return Closure{FnID: fnID, Bindings: bindings}
}
