package vm

import (
	"fmt"

	"github.com/greenhat/unison-go/ir"
)

// Continuation is the one ir.Value variant defined outside package ir:
// it carries cloned frame snapshots, which only this package knows how
// to produce and splice back onto a live stack. It is what an
// unhandled-at-this-level request pushes onto the handler's operand
// stack (component F), and what Resume/ReRequest read back out.
type Continuation struct {
	EffectKind string
	Number     int
	Args       []ir.Value
	FinalIndex int
	Frames     []*Frame
	FrameIndex int
}

func (Continuation) Kind() ir.ValueKind { return ir.ContinuationKind }

func (c Continuation) String() string {
	return fmt.Sprintf("<continuation %s#%d, %d frames>", c.EffectKind, c.Number, len(c.Frames))
}
