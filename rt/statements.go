// Copyright 2024 Richard Kelsey. All rights reserved.
// See file LICENSE for notices and license.

// The run-time half of the control-flow rewrite: one helper per piece
// of an 'if' or 'while' construct.  Each helper is a thin sequence of
// calls to the current process's label/jump/branch primitives.  None
// of them ask whether a value is deferred; the rewritten program made
// that decision before calling in here.

package rt

import (
	"github.com/s48/ket/ir"
)

// IsFuture is the deferred-value predicate.  Every dispatch the
// rewrite pass inserts routes through this one function; nothing else
// may inspect condition types.
func IsFuture(value any) bool {
	_, isFuture := value.(*ir.FutureT)
	return isFuture
}

// IfBegin opens the then-block of an if with no else clause and
// returns the end label, which doubles as the branch's false target.
func IfBegin(test *ir.FutureT) *ir.LabelT {
	ifThen := ir.NewLabel()
	ifEnd := ir.NewLabel()
	ir.Branch(test, ifThen, ifEnd)
	ifThen.Begin()
	return ifEnd
}

// IfElseBegin is the three-label variant for an if with an else
// clause.
func IfElseBegin(test *ir.FutureT) (*ir.LabelT, *ir.LabelT) {
	ifThen := ir.NewLabel()
	ifElse := ir.NewLabel()
	ifEnd := ir.NewLabel()
	ir.Branch(test, ifThen, ifElse)
	ifThen.Begin()
	return ifElse, ifEnd
}

// IfCloseElse ends the then-block and opens the else-block.
func IfCloseElse(ifElse *ir.LabelT, ifEnd *ir.LabelT) {
	ir.Jump(ifEnd)
	ifElse.Begin()
}

// IfEnd ends the current block and opens the fall-through block.
// Also used to close a while's else clause.
func IfEnd(ifEnd *ir.LabelT) {
	ir.Jump(ifEnd)
	ifEnd.Begin()
}

// WhileBegin allocates a loop's label set and opens the begin block,
// where the per-iteration test is evaluated.
func WhileBegin() (*ir.LabelT, *ir.LabelT, *ir.LabelT) {
	whileBegin := ir.NewLabel()
	whileLoop := ir.NewLabel()
	whileEnd := ir.NewLabel()
	ir.Jump(whileBegin)
	whileBegin.Begin()
	return whileBegin, whileLoop, whileEnd
}

// WhileBeginWithElse is the four-label variant for while ... else.
func WhileBeginWithElse() (*ir.LabelT, *ir.LabelT, *ir.LabelT, *ir.LabelT) {
	whileBegin := ir.NewLabel()
	whileLoop := ir.NewLabel()
	whileElse := ir.NewLabel()
	whileEnd := ir.NewLabel()
	ir.Jump(whileBegin)
	whileBegin.Begin()
	return whileBegin, whileLoop, whileElse, whileEnd
}

// WhileTestBranch emits the per-iteration branch and opens the loop
// body's block.  'exit' is the else label when the loop has an else
// clause and the end label otherwise.
func WhileTestBranch(test *ir.FutureT, whileLoop *ir.LabelT, exit *ir.LabelT) {
	ir.Branch(test, whileLoop, exit)
	whileLoop.Begin()
}

// WhileLoopBack emits the back edge and opens the exit block.
func WhileLoopBack(whileBegin *ir.LabelT, exit *ir.LabelT) {
	ir.Jump(whileBegin)
	exit.Begin()
}

// Goto jumps unconditionally and then opens a fresh dead label, so
// that whatever trailing statements the tree still holds have a block
// to land in.  The dead block is never entered.
func Goto(where *ir.LabelT) {
	deadCode := ir.NewLabel()
	ir.Jump(where)
	deadCode.Begin()
}
