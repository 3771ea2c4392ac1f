package vm

import "github.com/greenhat/unison-go/ir"

// IR is one instruction. Eval is given the currently-live frame (its
// operand stack and bindings), a pointer to the dispatcher's
// instruction index so the instruction can advance it, and the
// Reference the dispatcher uses to recognize the built-in Option type.
// Eval is responsible for advancing *idx itself when it returns
// Nothing. For the other Ret tags the dispatcher sets idx afterwards,
// but it first reads the value Eval left: as the caller's return index
// (Value, FnCall), as the continuation's final index (Request), as the
// Handle instruction to step past (Handle), or as the Resume
// instruction the resumed frame returns just after (Continue).
type IR interface {
	Eval(frame *Frame, idx *int, optionRef ir.Reference) Ret
}

// Environment supplies the instruction stream for a given Source. It
// is declared here, narrowly, rather than imported from a concrete
// store type, so this package never has to import its implementation
// (package env depends on vm, not the other way around).
type Environment interface {
	Cmds(source Source) []IR
}
