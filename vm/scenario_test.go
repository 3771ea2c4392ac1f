package vm_test

import (
	_ "embed"
	"testing"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/greenhat/unison-go/env"
	"github.com/greenhat/unison-go/instr"
	"github.com/greenhat/unison-go/ir"
	"github.com/greenhat/unison-go/vm"
)

//go:embed testdata/scenarios.yaml
var scenariosYAML []byte

type scenarioExpect struct {
	Kind string `yaml:"kind"`
	Text string `yaml:"text"`
}

type scenario struct {
	Name         string          `yaml:"name"`
	Description  string          `yaml:"description"`
	Expect       *scenarioExpect `yaml:"expect"`
	ExpectErrorr string          `yaml:"expect_error"`
}

type scenarioFixture struct {
	Scenarios []scenario `yaml:"scenarios"`
}

// build returns the cmds for the named scenario plus the Environment
// and Source to run it under. Each scenario's instruction sequence
// isn't YAML-serializable, so it's built here in Go and matched
// against the fixture by name; testdata/scenarios.yaml pins down only
// the expected outcome.
func build(t *testing.T, name string) (vm.Environment, vm.Source, func(*vm.State)) {
	t.Helper()
	e := env.New()
	noop := func(*vm.State) {}

	switch name {
	case "arithmetic":
		h := ir.HashOf("two-plus-three")
		e.DefineTerm(h, []vm.IR{
			instr.PushValue{Value: ir.NewNat(2)},
			instr.PushValue{Value: ir.NewNat(3)},
			instr.AddNat{},
		}, nil)
		return e, vm.ValueSource(h), noop

	case "add_eval_round_trip":
		h := ir.HashOf("add-three")
		argType := ir.ArrowNode{Dom: ir.RefNode{Ref: ir.BuiltinRef("Nat")}, Cod: ir.RefNode{Ref: ir.BuiltinRef("Nat")}}
		// h's own cmds are the function body, consuming AddEval's pending
		// argument directly off the stack; Call dereferences h and runs
		// these cmds in place rather than applying a Closure value to it.
		e.DefineTerm(h, []vm.IR{
			instr.PushValue{Value: ir.NewNat(3)},
			instr.AddNat{},
		}, argType)
		evalHash, err := e.AddEval(h, []ir.Value{ir.NewNat(4)})
		if err != nil {
			t.Fatalf("AddEval() error = %v", err)
		}
		return e, vm.ValueSource(evalHash), noop

	case "effect_handled":
		h := ir.HashOf("handled-effect")
		// 0: Handle(markIdx=3); 1: Perform (protected code); 2: HandlePure
		// (where the resumed protected frame continues after Perform; it
		// pops that frame and folds its value into the handler frame);
		// 3: PushValue(Nat(1)) (handler body); 4: Resume.
		e.DefineTerm(h, []vm.IR{
			instr.Handle{MarkIdx: 3},
			instr.Perform{Kind: "ask", Number: 0, Argc: 0},
			instr.HandlePure{},
			instr.PushValue{Value: ir.NewNat(1)},
			instr.Resume{},
		}, nil)
		return e, vm.ValueSource(h), noop

	case "effect_unhandled":
		h := ir.HashOf("unhandled-effect")
		e.DefineTerm(h, []vm.IR{
			instr.Perform{Kind: "ask", Number: 0, Argc: 0},
		}, nil)
		return e, vm.ValueSource(h), noop

	case "effect_rerequest":
		h := ir.HashOf("rerequest-effect")
		// Outer handler at 8, inner handler at 5; the inner handler body
		// declines via ReRequest, bubbling the request out to the outer
		// handler, which resumes it with Nat(9).
		e.DefineTerm(h, []vm.IR{
			instr.Handle{MarkIdx: 8},
			instr.Handle{MarkIdx: 5},
			instr.Perform{Kind: "ask", Number: 0, Argc: 0},
			instr.HandlePure{},
			instr.HandlePure{},
			instr.ReRequest{},
			instr.HandlePure{},
			instr.HandlePure{},
			instr.PushValue{Value: ir.NewNat(9)},
			instr.Resume{},
		}, nil)
		return e, vm.ValueSource(h), noop

	case "effect_resume_then_continues":
		h2 := ir.HashOf("resume-then-continues")
		// 0: Handle(markIdx=3); 1: Perform (protected code); 2: HandlePure
		// (ends the resumed protected frame, returning to 5);
		// 3: PushValue(Nat(1)) + 4: Resume make up the handler
		// body, which keeps going afterward at 5-6 instead of ending at
		// Resume - proving the resumed frame returns control there rather
		// than cascading straight past the handler.
		e.DefineTerm(h2, []vm.IR{
			instr.Handle{MarkIdx: 3},
			instr.Perform{Kind: "ask", Number: 0, Argc: 0},
			instr.HandlePure{},
			instr.PushValue{Value: ir.NewNat(1)},
			instr.Resume{},
			instr.PushValue{Value: ir.NewNat(10)},
			instr.AddNat{},
		}, nil)
		return e, vm.ValueSource(h2), noop

	case "budget_exceeded":
		h := ir.HashOf("spins")
		e.DefineTerm(h, []vm.IR{
			instr.PushValue{Value: ir.NewNat(1)},
		}, nil)
		return e, vm.ValueSource(h), func(st *vm.State) {
			st.Budget = time.Nanosecond
			st.PollEvery = 1
		}

	default:
		t.Fatalf("no instruction sequence built for scenario %q", name)
		return nil, vm.Source{}, nil
	}
}

// TestScenarios drives each end-to-end scenario listed in the YAML
// fixture, the same "describe cases in YAML, run them
// from a Go table test" shape the teacher's conformance suite uses.
func TestScenarios(t *testing.T) {
	var fixture scenarioFixture
	if err := yaml.Unmarshal(scenariosYAML, &fixture); err != nil {
		t.Fatalf("unmarshal testdata/scenarios.yaml: %v", err)
	}
	if len(fixture.Scenarios) == 0 {
		t.Fatal("testdata/scenarios.yaml declared no scenarios")
	}

	for _, sc := range fixture.Scenarios {
		sc := sc
		t.Run(sc.Name, func(t *testing.T) {
			e, source, configure := build(t, sc.Name)
			st := vm.NewState(e, source)
			configure(st)

			got, err := st.Run()

			if sc.ExpectErrorr != "" {
				if err == nil {
					t.Fatalf("Run() error = nil, want one matching %q", sc.ExpectErrorr)
				}
				switch sc.ExpectErrorr {
				case "unhandled_request":
					if _, ok := err.(*vm.UnhandledRequest); !ok {
						t.Fatalf("Run() error type = %T, want *vm.UnhandledRequest", err)
					}
				case "budget_exceeded":
					if _, ok := err.(*vm.BudgetExceeded); !ok {
						t.Fatalf("Run() error type = %T, want *vm.BudgetExceeded", err)
					}
				default:
					t.Fatalf("fixture names an error kind this test doesn't know: %q", sc.ExpectErrorr)
				}
				return
			}

			if err != nil {
				t.Fatalf("Run() error = %v", err)
			}
			if sc.Expect == nil {
				t.Fatal("fixture scenario has neither expect nor expect_error")
			}
			if got.Kind().String() != sc.Expect.Kind {
				t.Fatalf("Run() kind = %s, want %s", got.Kind().String(), sc.Expect.Kind)
			}
			if got.String() != sc.Expect.Text {
				t.Fatalf("Run() = %s, want %s", got.String(), sc.Expect.Text)
			}
		})
	}
}
