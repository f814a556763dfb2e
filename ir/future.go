// Copyright 2024 Richard Kelsey. All rights reserved.
// See file LICENSE for notices and license.

// Futures are the deferred values: 64-bit integers that exist only on
// the quantum side.  A future is either a literal, the result of a
// measurement, or an operator applied to other futures.  Operators
// build expression trees; the execution engine evaluates them when a
// branch or set instruction needs the value.

package ir

import (
	"fmt"
)

type FutureT struct {
	process *ProcessT
	index   int
	expr    exprT
}

type exprT interface {
	exprString(future *FutureT) string
}

type litExprT struct {
	value int64
}

type measureExprT struct{}

type binExprT struct {
	op string
	x  *FutureT
	y  *FutureT
}

func (process *ProcessT) newFuture(expr exprT) *FutureT {
	future := &FutureT{process: process, index: process.futureCount, expr: expr}
	process.futureCount += 1
	return future
}

// Lit makes a future holding a classical constant, for seeding
// quantum-side loop flags ('done = future(false)').
func (process *ProcessT) Lit(value int64) *FutureT {
	return process.newFuture(&litExprT{value: value})
}

func (future *FutureT) Process() *ProcessT { return future.process }
func (future *FutureT) Index() int         { return future.index }

func (future *FutureT) String() string {
	return fmt.Sprintf("f%d", future.index)
}

// Expr renders the future's defining expression, for dumps.
func (future *FutureT) Expr() string {
	return future.expr.exprString(future)
}

func (expr *litExprT) exprString(future *FutureT) string {
	return fmt.Sprintf("%d", expr.value)
}

func (expr *measureExprT) exprString(future *FutureT) string {
	return future.String()
}

func (expr *binExprT) exprString(future *FutureT) string {
	return fmt.Sprintf("(%s %s %s)", expr.x.Expr(), expr.op, expr.y.Expr())
}

//----------------------------------------------------------------
// The operator algebra.  Operands may be futures or ints; ints are
// promoted.  Comparisons produce 0/1 futures.

func (future *FutureT) promote(rawOther any) *FutureT {
	switch other := rawOther.(type) {
	case *FutureT:
		if other.process != future.process {
			panic("future operands from different processes")
		}
		return other
	case int64:
		return future.process.Lit(other)
	case int:
		return future.process.Lit(int64(other))
	case bool:
		if other {
			return future.process.Lit(1)
		}
		return future.process.Lit(0)
	default:
		panic(fmt.Sprintf("cannot combine a future with %T", rawOther))
	}
}

func (future *FutureT) op(op string, other any, reversed bool) *FutureT {
	x, y := future, future.promote(other)
	if reversed {
		x, y = y, x
	}
	return future.process.newFuture(&binExprT{op: op, x: x, y: y})
}

func (future *FutureT) Add(other any) *FutureT { return future.op("+", other, false) }
func (future *FutureT) Sub(other any) *FutureT { return future.op("-", other, false) }
func (future *FutureT) Mul(other any) *FutureT { return future.op("*", other, false) }
func (future *FutureT) Div(other any) *FutureT { return future.op("/", other, false) }
func (future *FutureT) Rem(other any) *FutureT { return future.op("%", other, false) }
func (future *FutureT) Lsh(other any) *FutureT { return future.op("<<", other, false) }
func (future *FutureT) Rsh(other any) *FutureT { return future.op(">>", other, false) }
func (future *FutureT) And(other any) *FutureT { return future.op("&", other, false) }
func (future *FutureT) Or(other any) *FutureT  { return future.op("|", other, false) }
func (future *FutureT) Xor(other any) *FutureT { return future.op("^", other, false) }
func (future *FutureT) Eq(other any) *FutureT  { return future.op("==", other, false) }
func (future *FutureT) Neq(other any) *FutureT { return future.op("!=", other, false) }
func (future *FutureT) Lt(other any) *FutureT  { return future.op("<", other, false) }
func (future *FutureT) Leq(other any) *FutureT { return future.op("<=", other, false) }
func (future *FutureT) Gt(other any) *FutureT  { return future.op(">", other, false) }
func (future *FutureT) Geq(other any) *FutureT { return future.op(">=", other, false) }

// RevOp applies 'op' with the future on the right-hand side, for
// expressions like '3 - m'.
func (future *FutureT) RevOp(op string, other any) *FutureT {
	return future.op(op, other, true)
}

// Op applies 'op' with the future on the left-hand side.
func (future *FutureT) Op(op string, other any) *FutureT {
	return future.op(op, other, false)
}
