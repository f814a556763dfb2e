// Copyright 2024 Richard Kelsey. All rights reserved.
// See file LICENSE for notices and license.

// The statement tree.  The rewrite pass consumes and replaces If,
// While, Break, and Continue nodes; everything else passes through
// untouched.

package front

type StmtT interface {
	stmtNode()
	StmtLine() int
}

type ExprT interface {
	exprNode()
}

type ProgramT struct {
	Name string
	Body []StmtT
}

//----------------------------------------------------------------
// Statements.

type StmtBaseT struct {
	Line int
}

func (stmt *StmtBaseT) StmtLine() int { return stmt.Line }

// Targets has one name for user assignments.  The rewrite pass
// generates multi-target assignments for helper calls that return
// several labels.
type AssignStmtT struct {
	StmtBaseT
	Targets []string
	Value   ExprT
}

type ExprStmtT struct {
	StmtBaseT
	X ExprT
}

type IfStmtT struct {
	StmtBaseT
	Test   ExprT
	Body   []StmtT
	Orelse []StmtT
}

// Orelse is the 'loop finished without break' clause.
type WhileStmtT struct {
	StmtBaseT
	Test   ExprT
	Body   []StmtT
	Orelse []StmtT
}

type BreakStmtT struct {
	StmtBaseT
}

type ContinueStmtT struct {
	StmtBaseT
}

func (*AssignStmtT) stmtNode()   {}
func (*ExprStmtT) stmtNode()     {}
func (*IfStmtT) stmtNode()       {}
func (*WhileStmtT) stmtNode()    {}
func (*BreakStmtT) stmtNode()    {}
func (*ContinueStmtT) stmtNode() {}

//----------------------------------------------------------------
// Expressions.

type NameT struct {
	Name string
}

type IntLitT struct {
	Value int64
}

type FloatLitT struct {
	Value float64
}

type BoolLitT struct {
	Value bool
}

type StrLitT struct {
	Value string
}

type CallExprT struct {
	Func string
	Args []ExprT
	Line int
}

type BinaryExprT struct {
	Op string
	X  ExprT
	Y  ExprT
}

type UnaryExprT struct {
	Op string // "-" or "not"
	X  ExprT
}

func (*NameT) exprNode()       {}
func (*IntLitT) exprNode()     {}
func (*FloatLitT) exprNode()   {}
func (*BoolLitT) exprNode()    {}
func (*StrLitT) exprNode()     {}
func (*CallExprT) exprNode()   {}
func (*BinaryExprT) exprNode() {}
func (*UnaryExprT) exprNode()  {}
