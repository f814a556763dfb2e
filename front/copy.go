// Copyright 2024 Richard Kelsey. All rights reserved.
// See file LICENSE for notices and license.

// Deep copies.  The rewrite pass reuses the same test and body content
// on two different paths, so it must copy before either path re-parents
// or replaces anything.

package front

import (
	"fmt"
)

func CopyStmts(stmts []StmtT) []StmtT {
	if stmts == nil {
		return nil
	}
	result := make([]StmtT, len(stmts))
	for i, stmt := range stmts {
		result[i] = CopyStmt(stmt)
	}
	return result
}

func CopyStmt(rawStmt StmtT) StmtT {
	switch stmt := rawStmt.(type) {
	case *AssignStmtT:
		targets := make([]string, len(stmt.Targets))
		copy(targets, stmt.Targets)
		return &AssignStmtT{StmtBaseT: stmt.StmtBaseT, Targets: targets, Value: CopyExpr(stmt.Value)}
	case *ExprStmtT:
		return &ExprStmtT{StmtBaseT: stmt.StmtBaseT, X: CopyExpr(stmt.X)}
	case *IfStmtT:
		return &IfStmtT{StmtBaseT: stmt.StmtBaseT,
			Test:   CopyExpr(stmt.Test),
			Body:   CopyStmts(stmt.Body),
			Orelse: CopyStmts(stmt.Orelse)}
	case *WhileStmtT:
		return &WhileStmtT{StmtBaseT: stmt.StmtBaseT,
			Test:   CopyExpr(stmt.Test),
			Body:   CopyStmts(stmt.Body),
			Orelse: CopyStmts(stmt.Orelse)}
	case *BreakStmtT:
		return &BreakStmtT{StmtBaseT: stmt.StmtBaseT}
	case *ContinueStmtT:
		return &ContinueStmtT{StmtBaseT: stmt.StmtBaseT}
	default:
		panic(fmt.Sprintf("unrecognized statement %T", rawStmt))
	}
}

func CopyExpr(rawExpr ExprT) ExprT {
	switch expr := rawExpr.(type) {
	case *NameT:
		return &NameT{Name: expr.Name}
	case *IntLitT:
		return &IntLitT{Value: expr.Value}
	case *FloatLitT:
		return &FloatLitT{Value: expr.Value}
	case *BoolLitT:
		return &BoolLitT{Value: expr.Value}
	case *StrLitT:
		return &StrLitT{Value: expr.Value}
	case *CallExprT:
		args := make([]ExprT, len(expr.Args))
		for i, arg := range expr.Args {
			args[i] = CopyExpr(arg)
		}
		return &CallExprT{Func: expr.Func, Args: args, Line: expr.Line}
	case *BinaryExprT:
		return &BinaryExprT{Op: expr.Op, X: CopyExpr(expr.X), Y: CopyExpr(expr.Y)}
	case *UnaryExprT:
		return &UnaryExprT{Op: expr.Op, X: CopyExpr(expr.X)}
	default:
		panic(fmt.Sprintf("unrecognized expression %T", rawExpr))
	}
}
