// Copyright 2024 Richard Kelsey. All rights reserved.
// See file LICENSE for notices and license.

// The builtin functions a ket program can call, plus the '$'
// intrinsics that only the rewrite pass can name ('$' is not lexable
// in user source).  Builtins validate their arguments and return
// errors; intrinsics panic instead, because a bad intrinsic call means
// the rewrite pass itself emitted a malformed tree.

package eval

import (
	"fmt"
	"math"
	"strings"

	"github.com/s48/ket/ir"
	"github.com/s48/ket/rt"
)

func registerBuiltins(ev *EvaluatorT) {
	ev.Register("quant", quantBuiltin)
	ev.Register("measure", measureBuiltin)
	ev.Register("future", futureBuiltin)
	ev.Register("set", setBuiltin)
	ev.Register("print", printBuiltin)
	ev.Register("at", atBuiltin)
	ev.Register("join", joinBuiltin)

	ev.Register("x", gateBuiltin(ir.PauliX, 0))
	ev.Register("y", gateBuiltin(ir.PauliY, 0))
	ev.Register("z", gateBuiltin(ir.PauliZ, 0))
	ev.Register("h", gateBuiltin(ir.Hadamard, 0))
	ev.Register("s", gateBuiltin(ir.Phase, math.Pi/2))
	ev.Register("sd", gateBuiltin(ir.Phase, -math.Pi/2))
	ev.Register("t", gateBuiltin(ir.Phase, math.Pi/4))
	ev.Register("td", gateBuiltin(ir.Phase, -math.Pi/4))
	ev.Register("phase", paramGateBuiltin(ir.Phase))
	ev.Register("rx", paramGateBuiltin(ir.RotationX))
	ev.Register("ry", paramGateBuiltin(ir.RotationY))
	ev.Register("rz", paramGateBuiltin(ir.RotationZ))
}

func quantBuiltin(ev *EvaluatorT, args []any) (any, error) {
	numQubits := int64(1)
	switch len(args) {
	case 0:
	case 1:
		n, isInt := args[0].(int64)
		if !isInt {
			return nil, ev.errorf("quant() takes an int, not %s", typeName(args[0]))
		}
		numQubits = n
	default:
		return nil, ev.errorf("quant() takes at most one argument")
	}
	quant, err := ev.process.Alloc(int(numQubits))
	if err != nil {
		return nil, ev.errorf("%s", err)
	}
	return quant, nil
}

// measure(q) or measure(q0, q1, ...); several quants measure together
// as a single outcome over the combined qubit list.  How the outcome's
// bits map onto the qubits is up to the measurement source.
func measureBuiltin(ev *EvaluatorT, args []any) (any, error) {
	if len(args) == 0 {
		return nil, ev.errorf("measure() needs at least one quant")
	}
	var all *ir.QuantT
	for _, arg := range args {
		quant, isQuant := arg.(*ir.QuantT)
		if !isQuant {
			return nil, ev.errorf("measure() takes quants, not %s", typeName(arg))
		}
		if all == nil {
			all = quant
		} else {
			all = all.Concat(quant)
		}
	}
	return ev.process.Measure(all), nil
}

// future(v) injects a classical constant into the deferred world.
func futureBuiltin(ev *EvaluatorT, args []any) (any, error) {
	if len(args) != 1 {
		return nil, ev.errorf("future() takes one argument")
	}
	switch value := args[0].(type) {
	case int64:
		return ev.process.Lit(value), nil
	case bool:
		if value {
			return ev.process.Lit(1), nil
		}
		return ev.process.Lit(0), nil
	case *ir.FutureT:
		return value, nil
	default:
		return nil, ev.errorf("future() takes an int or a bool, not %s", typeName(args[0]))
	}
}

// set(target, value) emits a deferred assignment.  It is how a
// deferred loop updates its own condition.
func setBuiltin(ev *EvaluatorT, args []any) (any, error) {
	if len(args) != 2 {
		return nil, ev.errorf("set() takes two arguments")
	}
	target, isFuture := args[0].(*ir.FutureT)
	if !isFuture {
		return nil, ev.errorf("set() target must be a future, not %s", typeName(args[0]))
	}
	var value *ir.FutureT
	switch raw := args[1].(type) {
	case *ir.FutureT:
		value = raw
	case int64:
		value = ev.process.Lit(raw)
	case bool:
		if raw {
			value = ev.process.Lit(1)
		} else {
			value = ev.process.Lit(0)
		}
	default:
		return nil, ev.errorf("set() value must be a future or an int, not %s", typeName(args[1]))
	}
	ev.process.Set(target, value)
	return nil, nil
}

func printBuiltin(ev *EvaluatorT, args []any) (any, error) {
	parts := make([]string, len(args))
	for i, arg := range args {
		parts[i] = displayString(arg)
	}
	fmt.Fprintln(ev.out, strings.Join(parts, " "))
	return nil, nil
}

func displayString(value any) string {
	switch value := value.(type) {
	case nil:
		return "nil"
	case bool:
		if value {
			return "true"
		}
		return "false"
	case string:
		return value
	case *ir.FutureT:
		return value.Expr()
	default:
		return fmt.Sprintf("%v", value)
	}
}

// at(q, i) picks a single qubit out of a quant.
func atBuiltin(ev *EvaluatorT, args []any) (any, error) {
	if len(args) != 2 {
		return nil, ev.errorf("at() takes a quant and an index")
	}
	quant, isQuant := args[0].(*ir.QuantT)
	index, isInt := args[1].(int64)
	if !isQuant || !isInt {
		return nil, ev.errorf("at() takes a quant and an index")
	}
	if index < 0 || int64(quant.Len()) <= index {
		return nil, ev.errorf("qubit index %d out of range for a %d-qubit quant",
			index, quant.Len())
	}
	return quant.At(int(index)), nil
}

func joinBuiltin(ev *EvaluatorT, args []any) (any, error) {
	if len(args) == 0 {
		return nil, ev.errorf("join() needs at least one quant")
	}
	var all *ir.QuantT
	for _, arg := range args {
		quant, isQuant := arg.(*ir.QuantT)
		if !isQuant {
			return nil, ev.errorf("join() takes quants, not %s", typeName(arg))
		}
		if all == nil {
			all = quant
		} else {
			all = all.Concat(quant)
		}
	}
	return all, nil
}

func gateBuiltin(gate ir.GateT, param float64) BuiltinT {
	return func(ev *EvaluatorT, args []any) (any, error) {
		for _, arg := range args {
			quant, isQuant := arg.(*ir.QuantT)
			if !isQuant {
				return nil, ev.errorf("gate %s takes quants, not %s", gate, typeName(arg))
			}
			ev.process.Gate(gate, quant, param)
		}
		return nil, nil
	}
}

func paramGateBuiltin(gate ir.GateT) BuiltinT {
	return func(ev *EvaluatorT, args []any) (any, error) {
		if len(args) < 2 {
			return nil, ev.errorf("gate %s takes an angle and a quant", gate)
		}
		angle, isNum := toFloat(args[0])
		if !isNum {
			return nil, ev.errorf("gate %s angle must be a number, not %s",
				gate, typeName(args[0]))
		}
		for _, arg := range args[1:] {
			quant, isQuant := arg.(*ir.QuantT)
			if !isQuant {
				return nil, ev.errorf("gate %s takes quants, not %s", gate, typeName(arg))
			}
			ev.process.Gate(gate, quant, angle)
		}
		return nil, nil
	}
}

//----------------------------------------------------------------
// Intrinsics.  The names match what pp.Transform emits.  Labels flow
// back to later intrinsic calls through the generated '$' variables;
// multi-label helpers return []any and the generated multi-target
// assignment spreads it.

func registerIntrinsics(ev *EvaluatorT) {
	ev.Register("$is_future", func(ev *EvaluatorT, args []any) (any, error) {
		return rt.IsFuture(args[0]), nil
	})
	ev.Register("$if", func(ev *EvaluatorT, args []any) (any, error) {
		return rt.IfBegin(intrinsicFuture(args[0])), nil
	})
	ev.Register("$if_else", func(ev *EvaluatorT, args []any) (any, error) {
		ifElse, ifEnd := rt.IfElseBegin(intrinsicFuture(args[0]))
		return []any{ifElse, ifEnd}, nil
	})
	ev.Register("$else", func(ev *EvaluatorT, args []any) (any, error) {
		rt.IfCloseElse(intrinsicLabel(args[0]), intrinsicLabel(args[1]))
		return nil, nil
	})
	ev.Register("$next", func(ev *EvaluatorT, args []any) (any, error) {
		rt.IfEnd(intrinsicLabel(args[0]))
		return nil, nil
	})
	ev.Register("$while", func(ev *EvaluatorT, args []any) (any, error) {
		whileBegin, whileLoop, whileEnd := rt.WhileBegin()
		return []any{whileBegin, whileLoop, whileEnd}, nil
	})
	ev.Register("$while_else", func(ev *EvaluatorT, args []any) (any, error) {
		whileBegin, whileLoop, whileElse, whileEnd := rt.WhileBeginWithElse()
		return []any{whileBegin, whileLoop, whileElse, whileEnd}, nil
	})
	ev.Register("$while_test", func(ev *EvaluatorT, args []any) (any, error) {
		rt.WhileTestBranch(intrinsicFuture(args[0]),
			intrinsicLabel(args[1]),
			intrinsicLabel(args[2]))
		return nil, nil
	})
	ev.Register("$loop", func(ev *EvaluatorT, args []any) (any, error) {
		rt.WhileLoopBack(intrinsicLabel(args[0]), intrinsicLabel(args[1]))
		return nil, nil
	})
	ev.Register("$goto", func(ev *EvaluatorT, args []any) (any, error) {
		rt.Goto(intrinsicLabel(args[0]))
		return nil, nil
	})
}

func intrinsicFuture(value any) *ir.FutureT {
	future, isFuture := value.(*ir.FutureT)
	if !isFuture {
		panic(fmt.Sprintf("intrinsic wanted a future, got %s", typeName(value)))
	}
	return future
}

func intrinsicLabel(value any) *ir.LabelT {
	label, isLabel := value.(*ir.LabelT)
	if !isLabel {
		panic(fmt.Sprintf("intrinsic wanted a label, got %s", typeName(value)))
	}
	return label
}
