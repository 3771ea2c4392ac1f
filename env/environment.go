// Package env implements the concrete Environment: the map from
// content hash to a top-level term's compiled instructions and type,
// the table of anonymous functions compiled terms reference by index,
// and AddEval, which synthesizes a fresh entry-point term for invoking
// an existing term with host-supplied arguments.
package env

import (
	"fmt"
	"sync"

	"github.com/greenhat/unison-go/coerce"
	"github.com/greenhat/unison-go/instr"
	"github.com/greenhat/unison-go/ir"
	"github.com/greenhat/unison-go/vm"
)

func invariant(format string, args ...any) {
	panic(vm.InvariantViolation{Message: fmt.Sprintf(format, args...)})
}

// EvalHash is the fixed sentinel hash AddEval publishes its
// synthesized entry-point term under. Re-running AddEval replaces
// whatever was there before; callers must not define a real term
// under this hash.
var EvalHash = ir.HashOf("<eval>")

type termEntry struct {
	cmds []vm.IR
	typ  ir.ABT
}

type fnEntry struct {
	cmds []vm.IR
	typ  ir.ABT
}

// Environment is the concrete store of compiled terms and anonymous
// functions, safe for concurrent reads and writes.
type Environment struct {
	mu      sync.RWMutex
	terms   map[ir.Hash]termEntry
	anonFns []fnEntry
}

// New returns an empty Environment.
func New() *Environment {
	return &Environment{terms: make(map[ir.Hash]termEntry)}
}

// DefineTerm installs (or replaces) the compiled body and type of the
// top-level term named by hash.
func (e *Environment) DefineTerm(h ir.Hash, cmds []vm.IR, typ ir.ABT) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.terms[h] = termEntry{cmds: cmds, typ: typ}
}

// DefineAnonFn appends a new anonymous function and returns the fn ID
// a Closure value would reference it by.
func (e *Environment) DefineAnonFn(cmds []vm.IR, typ ir.ABT) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.anonFns = append(e.anonFns, fnEntry{cmds: cmds, typ: typ})
	return len(e.anonFns) - 1
}

// TypeOf returns the declared type of the term named by hash.
func (e *Environment) TypeOf(h ir.Hash) (ir.ABT, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	t, ok := e.terms[h]
	return t.typ, ok
}

// Cmds implements vm.Environment: it resolves a dispatcher Source to
// the instruction stream backing it. Looking up a Source naming a term
// or function this environment does not know about is an invariant
// violation, matching the rest of the dispatcher's "compiler already
// validated this" assumptions.
func (e *Environment) Cmds(source vm.Source) []vm.IR {
	e.mu.RLock()
	defer e.mu.RUnlock()
	switch source.Kind {
	case vm.SourceValue:
		t, ok := e.terms[source.Hash]
		if !ok {
			invariant("env: unknown term %s", source.Hash)
		}
		return t.cmds
	case vm.SourceFn:
		if source.FnID < 0 || source.FnID >= len(e.anonFns) {
			invariant("env: unknown fn #%d", source.FnID)
		}
		return e.anonFns[source.FnID].cmds
	default:
		invariant("env: unknown source kind %d", source.Kind)
		return nil
	}
}

// AddEval synthesizes an entry-point term that calls the term named by
// hash with args applied left to right, storing it under EvalHash and
// returning EvalHash. It mirrors the instruction shape
// [Value(Ref(hash)), Value(arg0), Call, Value(arg1), Call, ...]; the
// resulting term's declared type is whatever extracting hash's
// argument types leaves as the final result type.
func (e *Environment) AddEval(hash ir.Hash, args []ir.Value) (ir.Hash, error) {
	typ, ok := e.TypeOf(hash)
	if !ok {
		return ir.Hash{}, fmt.Errorf("env: unknown term %s", hash)
	}
	_, _, resultType := coerce.ExtractArgs(typ)

	cmds := []vm.IR{instr.PushValue{Value: ir.NewRef(ir.DerivedRef(hash, 0, 0))}}
	for _, arg := range args {
		cmds = append(cmds, instr.PushValue{Value: arg}, instr.Call{})
	}

	e.DefineTerm(EvalHash, cmds, resultType)
	return EvalHash, nil
}
