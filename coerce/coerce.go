package coerce

import (
	"fmt"
	"math"

	"github.com/greenhat/unison-go/ir"
)

// ConvertArg coerces a single host argument into an ir.Value, guided
// by typ. args accumulates App-node type arguments seen on the way
// down (e.g. the `a` in `Option a`): each App prepends its argument,
// so the innermost application's argument ends up first.
func ConvertArg(arg Arg, typ ir.ABT, args []ir.ABT) (ir.Value, *Error) {
	switch t := typ.(type) {
	case ir.ArrowNode:
		return nil, argErr("functions aren't yet supported")
	case ir.AnnNode:
		return ConvertArg(arg, t.Inner, args)
	case ir.AppNode:
		return ConvertArg(arg, t.Ctor, append([]ir.ABT{t.Arg}, args...))
	case ir.EffectNode:
		return nil, argErr("effect types not yet supported")
	case ir.EffectsNode:
		return nil, argErr("effects not supported")
	case ir.ForallNode:
		return ConvertArg(arg, t.Inner, args)
	case ir.IntroOuterNode:
		return ConvertArg(arg, t.Inner, args)
	case ir.RefNode:
		return convertRef(arg, t.Ref, args)
	default:
		return nil, argErr("unexpected type node %T", typ)
	}
}

func convertRef(arg Arg, ref ir.Reference, targs []ir.ABT) (ir.Value, *Error) {
	if ref.Kind() == ir.BuiltinKind {
		switch ref.Name() {
		case "Nat":
			return convertNat(arg)
		case "Int":
			return convertInt(arg)
		case "Float":
			return convertFloat(arg)
		case "Text":
			return convertText(arg)
		default:
			return nil, argErr("unsupported builtin %s", ref.Name())
		}
	}
	if ref.Hash() == ir.OptionHash {
		return convertOption(arg, targs)
	}
	return nil, argErr("custom types not yet supported: %s", ref.Hash())
}

const fractionalTolerance = 1.0e-10

func convertNat(arg Arg) (ir.Value, *Error) {
	n, ok := arg.AsFloat64()
	if !ok {
		return nil, argErr("expected an unsigned int, got an unconvertible value")
	}
	if n < 0.0 {
		return nil, argErr("expected an unsigned int, got a negative %v", n)
	}
	if fract(n) > fractionalTolerance {
		return nil, argErr("expected an unsigned int, got a float %v", n)
	}
	return ir.NewNat(uint64(n)), nil
}

func convertInt(arg Arg) (ir.Value, *Error) {
	n, ok := arg.AsFloat64()
	if !ok {
		return nil, argErr("expected an int, got an unconvertible value")
	}
	if fract(n) > fractionalTolerance {
		return nil, argErr("expected an int, got a float %v", n)
	}
	return ir.NewInt(int64(n)), nil
}

func convertFloat(arg Arg) (ir.Value, *Error) {
	n, ok := arg.AsFloat64()
	if !ok {
		return nil, argErr("expected a float, got an unconvertible value")
	}
	return ir.NewFloat(n), nil
}

func convertText(arg Arg) (ir.Value, *Error) {
	s, ok := arg.AsString()
	if !ok {
		return nil, argErr("expected a string, got an unconvertible value")
	}
	return ir.NewText(s), nil
}

func convertOption(arg Arg, targs []ir.ABT) (ir.Value, *Error) {
	if len(targs) != 1 {
		return nil, argErr("option type can only have one argument")
	}
	if arg.IsEmpty() {
		return ir.Nothing(), nil
	}
	return ConvertArg(arg, targs[0], nil)
}

func fract(n float64) float64 {
	return math.Abs(n - math.Trunc(n))
}

// ConvertArgs coerces a slice of host arguments against a matching
// slice of declared parameter types, failing closed on the first
// conversion error and annotating it with the offending index.
func ConvertArgs(args []Arg, typs []ir.ABT) ([]ir.Value, *Error) {
	if len(args) > len(typs) {
		return nil, argErr("too many arguments provided: %d vs %d", len(args), len(typs))
	}
	out := make([]ir.Value, 0, len(args))
	for i, a := range args {
		v, err := ConvertArg(a, typs[i], nil)
		if err != nil {
			return nil, &Error{ArgIndex: i, Reason: err.Reason}
		}
		out = append(out, v)
	}
	return out, nil
}

// ExtractArgs walks the Abs/Forall/Effect/Arrow/Ann prefix of a term's
// type, collecting the declared parameter types left to right and the
// effect types encountered along the way, and returns the final
// (non-function) result type.
func ExtractArgs(typ ir.ABT) (argTypes []ir.ABT, effects []ir.ABT, result ir.ABT) {
	switch t := typ.(type) {
	case ir.AbsNode:
		return ExtractArgs(t.Body)
	case ir.ForallNode:
		return ExtractArgs(t.Inner)
	case ir.EffectNode:
		a, b, c := ExtractArgs(t.Inner)
		eff, ok := t.Effects.(ir.EffectsNode)
		if !ok {
			panic(fmt.Sprintf("coerce: EffectNode.Effects is not an EffectsNode: %T", t.Effects))
		}
		b = append(b, eff.List...)
		return a, b, c
	case ir.ArrowNode:
		a, b, c := ExtractArgs(t.Cod)
		a = append([]ir.ABT{t.Dom}, a...)
		return a, b, c
	case ir.AnnNode:
		return ExtractArgs(t.Inner)
	default:
		return nil, nil, typ
	}
}
