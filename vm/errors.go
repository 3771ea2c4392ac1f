package vm

import (
	"fmt"

	"github.com/greenhat/unison-go/ir"
)

// UnhandledRequest is returned when a request walked off the bottom of
// the stack without finding a matching handler.
type UnhandledRequest struct {
	Kind   string
	Number int
	Args   []ir.Value
}

func (e *UnhandledRequest) Error() string {
	return fmt.Sprintf("unhandled request %s#%d (%d args)", e.Kind, e.Number, len(e.Args))
}

// BudgetExceeded is returned when evaluation is abandoned after
// running past its wall-clock budget.
type BudgetExceeded struct {
	Ticks int64
}

func (e *BudgetExceeded) Error() string {
	return fmt.Sprintf("ran out of time after %d ticks", e.Ticks)
}

// InvariantViolation is the panic value raised for conditions the
// compiler is assumed to have already ruled out: installing a handler
// over one already installed, popping an empty stack, looking up an
// unknown cmds source, and similar "this cannot happen" states.
type InvariantViolation struct {
	Message string
}

func (e InvariantViolation) String() string { return e.Message }

func invariant(format string, args ...any) {
	panic(InvariantViolation{Message: fmt.Sprintf(format, args...)})
}
