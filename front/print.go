// Copyright 2024 Richard Kelsey. All rights reserved.
// See file LICENSE for notices and license.

// Rendering a statement tree back into source.  Used by the driver's
// -pp flag and by tests.  Binary expressions come out fully
// parenthesized; compiler-generated '$' names print as-is, so printed
// output of a transformed tree is for reading, not re-parsing.

package front

import (
	"fmt"
	"strings"
)

func Print(prog *ProgramT) string {
	var out strings.Builder
	printStmts(&out, prog.Body, 0)
	return out.String()
}

func printStmts(out *strings.Builder, stmts []StmtT, depth int) {
	for _, stmt := range stmts {
		printStmt(out, stmt, depth)
	}
}

func indent(out *strings.Builder, depth int) {
	out.WriteString(strings.Repeat("    ", depth))
}

func printStmt(out *strings.Builder, rawStmt StmtT, depth int) {
	indent(out, depth)
	switch stmt := rawStmt.(type) {
	case *AssignStmtT:
		fmt.Fprintf(out, "%s = %s\n", strings.Join(stmt.Targets, ", "), ExprString(stmt.Value))
	case *ExprStmtT:
		fmt.Fprintf(out, "%s\n", ExprString(stmt.X))
	case *IfStmtT:
		fmt.Fprintf(out, "if %s {\n", ExprString(stmt.Test))
		printStmts(out, stmt.Body, depth+1)
		printElse(out, stmt.Orelse, depth)
	case *WhileStmtT:
		fmt.Fprintf(out, "while %s {\n", ExprString(stmt.Test))
		printStmts(out, stmt.Body, depth+1)
		printElse(out, stmt.Orelse, depth)
	case *BreakStmtT:
		out.WriteString("break\n")
	case *ContinueStmtT:
		out.WriteString("continue\n")
	default:
		panic(fmt.Sprintf("unrecognized statement %T", rawStmt))
	}
}

func printElse(out *strings.Builder, orelse []StmtT, depth int) {
	indent(out, depth)
	if len(orelse) == 0 {
		out.WriteString("}\n")
		return
	}
	out.WriteString("} else {\n")
	printStmts(out, orelse, depth+1)
	indent(out, depth)
	out.WriteString("}\n")
}

func ExprString(rawExpr ExprT) string {
	switch expr := rawExpr.(type) {
	case *NameT:
		return expr.Name
	case *IntLitT:
		return fmt.Sprintf("%d", expr.Value)
	case *FloatLitT:
		return fmt.Sprintf("%g", expr.Value)
	case *BoolLitT:
		if expr.Value {
			return "true"
		}
		return "false"
	case *StrLitT:
		return fmt.Sprintf("%q", expr.Value)
	case *CallExprT:
		args := make([]string, len(expr.Args))
		for i, arg := range expr.Args {
			args[i] = ExprString(arg)
		}
		return fmt.Sprintf("%s(%s)", expr.Func, strings.Join(args, ", "))
	case *BinaryExprT:
		return fmt.Sprintf("(%s %s %s)", ExprString(expr.X), expr.Op, ExprString(expr.Y))
	case *UnaryExprT:
		if expr.Op == "not" {
			return fmt.Sprintf("(not %s)", ExprString(expr.X))
		}
		return fmt.Sprintf("(%s%s)", expr.Op, ExprString(expr.X))
	default:
		panic(fmt.Sprintf("unrecognized expression %T", rawExpr))
	}
}
