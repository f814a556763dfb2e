// Copyright 2024 Richard Kelsey. All rights reserved.
// See file LICENSE for notices and license.

// A tree-walking evaluator for ket programs, transformed or not.
// Values are dynamically typed: int64, float64, bool, string,
// *ir.FutureT, *ir.QuantT, and *ir.LabelT (labels appear only in
// transformed trees).  Native if and while keep exact host semantics,
// including while...else; the transformed tree's deferred paths reach
// the instruction stream through the intrinsic builtins.

package eval

import (
	"fmt"
	"io"

	"github.com/s48/ket/front"
	"github.com/s48/ket/ir"
)

type BuiltinT func(ev *EvaluatorT, args []any) (any, error)

type EvaluatorT struct {
	process  *ir.ProcessT
	out      io.Writer
	globals  map[string]any
	builtins map[string]BuiltinT
	line     int // line of the statement being run, for errors
}

func MakeEvaluator(process *ir.ProcessT, out io.Writer) *EvaluatorT {
	ev := &EvaluatorT{
		process:  process,
		out:      out,
		globals:  map[string]any{},
		builtins: map[string]BuiltinT{},
	}
	registerBuiltins(ev)
	registerIntrinsics(ev)
	return ev
}

func (ev *EvaluatorT) Process() *ir.ProcessT { return ev.process }

// Register adds or replaces a builtin.  Tests use this to install
// side-effect probes.
func (ev *EvaluatorT) Register(name string, builtin BuiltinT) {
	ev.builtins[name] = builtin
}

// Global reads a program variable after a run.
func (ev *EvaluatorT) Global(name string) (any, bool) {
	value, found := ev.globals[name]
	return value, found
}

func (ev *EvaluatorT) Run(prog *front.ProgramT) error {
	signal, err := ev.runStmts(prog.Body)
	if err != nil {
		return err
	}
	if signal != signalNone {
		return ev.errorf("break or continue outside a loop")
	}
	return nil
}

//----------------------------------------------------------------
// Statements.  Break and continue unwind as signals.

type signalT int

const (
	signalNone signalT = iota
	signalBreak
	signalContinue
)

func (ev *EvaluatorT) errorf(format string, args ...any) error {
	return fmt.Errorf("line %d: %s", ev.line, fmt.Sprintf(format, args...))
}

func (ev *EvaluatorT) runStmts(stmts []front.StmtT) (signalT, error) {
	for _, stmt := range stmts {
		signal, err := ev.runStmt(stmt)
		if err != nil || signal != signalNone {
			return signal, err
		}
	}
	return signalNone, nil
}

func (ev *EvaluatorT) runStmt(rawStmt front.StmtT) (signalT, error) {
	ev.line = rawStmt.StmtLine()
	switch stmt := rawStmt.(type) {
	case *front.AssignStmtT:
		return signalNone, ev.runAssign(stmt)
	case *front.ExprStmtT:
		_, err := ev.evalExpr(stmt.X)
		return signalNone, err
	case *front.IfStmtT:
		return ev.runIf(stmt)
	case *front.WhileStmtT:
		return ev.runWhile(stmt)
	case *front.BreakStmtT:
		return signalBreak, nil
	case *front.ContinueStmtT:
		return signalContinue, nil
	default:
		panic(fmt.Sprintf("unrecognized statement %T", rawStmt))
	}
}

func (ev *EvaluatorT) runAssign(stmt *front.AssignStmtT) error {
	value, err := ev.evalExpr(stmt.Value)
	if err != nil {
		return err
	}
	if len(stmt.Targets) == 1 {
		ev.globals[stmt.Targets[0]] = value
		return nil
	}
	values, isMulti := value.([]any)
	if !isMulti || len(values) != len(stmt.Targets) {
		// Multi-target assignments come only from the rewrite pass.
		panic("multiple-assignment value count mismatch")
	}
	for i, target := range stmt.Targets {
		ev.globals[target] = values[i]
	}
	return nil
}

func (ev *EvaluatorT) runIf(stmt *front.IfStmtT) (signalT, error) {
	test, err := ev.evalExpr(stmt.Test)
	if err != nil {
		return signalNone, err
	}
	b, err := ev.truth(test)
	if err != nil {
		return signalNone, err
	}
	if b {
		return ev.runStmts(stmt.Body)
	}
	return ev.runStmts(stmt.Orelse)
}

// The else clause runs iff the loop ends with the condition false,
// not via break.
func (ev *EvaluatorT) runWhile(stmt *front.WhileStmtT) (signalT, error) {
	for {
		test, err := ev.evalExpr(stmt.Test)
		if err != nil {
			return signalNone, err
		}
		b, err := ev.truth(test)
		if err != nil {
			return signalNone, err
		}
		if !b {
			signal, err := ev.runStmts(stmt.Orelse)
			return signal, err
		}
		signal, err := ev.runStmts(stmt.Body)
		if err != nil {
			return signalNone, err
		}
		if signal == signalBreak {
			return signalNone, nil
		}
	}
}

//----------------------------------------------------------------
// Expressions.

func (ev *EvaluatorT) evalExpr(rawExpr front.ExprT) (any, error) {
	switch expr := rawExpr.(type) {
	case *front.NameT:
		value, found := ev.globals[expr.Name]
		if !found {
			return nil, ev.errorf("name '%s' is not defined", expr.Name)
		}
		return value, nil
	case *front.IntLitT:
		return expr.Value, nil
	case *front.FloatLitT:
		return expr.Value, nil
	case *front.BoolLitT:
		return expr.Value, nil
	case *front.StrLitT:
		return expr.Value, nil
	case *front.CallExprT:
		return ev.evalCall(expr)
	case *front.UnaryExprT:
		return ev.evalUnary(expr)
	case *front.BinaryExprT:
		return ev.evalBinary(expr)
	default:
		panic(fmt.Sprintf("unrecognized expression %T", rawExpr))
	}
}

func (ev *EvaluatorT) evalCall(expr *front.CallExprT) (any, error) {
	builtin, found := ev.builtins[expr.Func]
	if !found {
		return nil, ev.errorf("unknown function '%s'", expr.Func)
	}
	args := make([]any, len(expr.Args))
	for i, argExpr := range expr.Args {
		arg, err := ev.evalExpr(argExpr)
		if err != nil {
			return nil, err
		}
		args[i] = arg
	}
	return builtin(ev, args)
}

func (ev *EvaluatorT) evalUnary(expr *front.UnaryExprT) (any, error) {
	value, err := ev.evalExpr(expr.X)
	if err != nil {
		return nil, err
	}
	switch expr.Op {
	case "not":
		b, err := ev.truth(value)
		if err != nil {
			return nil, err
		}
		return !b, nil
	case "-":
		switch value := value.(type) {
		case int64:
			return -value, nil
		case float64:
			return -value, nil
		case *ir.FutureT:
			return value.RevOp("-", int64(0)), nil
		default:
			return nil, ev.errorf("cannot negate %s", typeName(value))
		}
	default:
		panic("unrecognized unary operator " + expr.Op)
	}
}

func (ev *EvaluatorT) evalBinary(expr *front.BinaryExprT) (any, error) {
	if expr.Op == "and" || expr.Op == "or" {
		return ev.evalAndOr(expr)
	}
	x, err := ev.evalExpr(expr.X)
	if err != nil {
		return nil, err
	}
	y, err := ev.evalExpr(expr.Y)
	if err != nil {
		return nil, err
	}
	return ev.applyOp(expr.Op, x, y)
}

// 'and' and 'or' short-circuit and yield the deciding operand, so
// '0 or x' is x and '0 and x' is 0.  The left operand has to be
// classical; there is no way to defer the decision to evaluate the
// right one.
func (ev *EvaluatorT) evalAndOr(expr *front.BinaryExprT) (any, error) {
	x, err := ev.evalExpr(expr.X)
	if err != nil {
		return nil, err
	}
	b, err := ev.truth(x)
	if err != nil {
		return nil, err
	}
	if (expr.Op == "and" && !b) || (expr.Op == "or" && b) {
		return x, nil
	}
	return ev.evalExpr(expr.Y)
}

func (ev *EvaluatorT) applyOp(op string, x any, y any) (any, error) {
	if xFuture, isFuture := x.(*ir.FutureT); isFuture {
		return xFuture.Op(op, y), nil
	}
	if yFuture, isFuture := y.(*ir.FutureT); isFuture {
		return yFuture.RevOp(op, x), nil
	}
	xInt, xIsInt := x.(int64)
	yInt, yIsInt := y.(int64)
	if xIsInt && yIsInt {
		return ev.intOp(op, xInt, yInt)
	}
	xFloat, xIsNum := toFloat(x)
	yFloat, yIsNum := toFloat(y)
	if xIsNum && yIsNum {
		return ev.floatOp(op, xFloat, yFloat)
	}
	switch op {
	case "==":
		return x == y, nil
	case "!=":
		return x != y, nil
	default:
		return nil, ev.errorf("operator '%s' cannot take %s and %s",
			op, typeName(x), typeName(y))
	}
}

func (ev *EvaluatorT) intOp(op string, x int64, y int64) (any, error) {
	switch op {
	case "+":
		return x + y, nil
	case "-":
		return x - y, nil
	case "*":
		return x * y, nil
	case "/":
		if y == 0 {
			return nil, ev.errorf("division by zero")
		}
		return x / y, nil
	case "%":
		if y == 0 {
			return nil, ev.errorf("division by zero")
		}
		return x % y, nil
	case "<<":
		return x << uint(y), nil
	case ">>":
		return x >> uint(y), nil
	case "&":
		return x & y, nil
	case "|":
		return x | y, nil
	case "^":
		return x ^ y, nil
	case "==":
		return x == y, nil
	case "!=":
		return x != y, nil
	case "<":
		return x < y, nil
	case "<=":
		return x <= y, nil
	case ">":
		return x > y, nil
	case ">=":
		return x >= y, nil
	default:
		panic("unrecognized operator " + op)
	}
}

func (ev *EvaluatorT) floatOp(op string, x float64, y float64) (any, error) {
	switch op {
	case "+":
		return x + y, nil
	case "-":
		return x - y, nil
	case "*":
		return x * y, nil
	case "/":
		if y == 0 {
			return nil, ev.errorf("division by zero")
		}
		return x / y, nil
	case "==":
		return x == y, nil
	case "!=":
		return x != y, nil
	case "<":
		return x < y, nil
	case "<=":
		return x <= y, nil
	case ">":
		return x > y, nil
	case ">=":
		return x >= y, nil
	default:
		return nil, ev.errorf("operator '%s' cannot take floats", op)
	}
}

func toFloat(value any) (float64, bool) {
	switch value := value.(type) {
	case int64:
		return float64(value), true
	case float64:
		return value, true
	default:
		return 0, false
	}
}

func (ev *EvaluatorT) truth(value any) (bool, error) {
	switch value := value.(type) {
	case bool:
		return value, nil
	case int64:
		return value != 0, nil
	case float64:
		return value != 0, nil
	case string:
		return len(value) != 0, nil
	case *ir.FutureT:
		return false, ev.errorf("deferred value used in a classical condition")
	default:
		return false, ev.errorf("%s is not usable as a condition", typeName(value))
	}
}

func typeName(value any) string {
	switch value.(type) {
	case int64:
		return "an int"
	case float64:
		return "a float"
	case bool:
		return "a bool"
	case string:
		return "a string"
	case *ir.FutureT:
		return "a future"
	case *ir.QuantT:
		return "a quant"
	case *ir.LabelT:
		return "a label"
	case nil:
		return "nil"
	default:
		return fmt.Sprintf("%T", value)
	}
}
