// Copyright 2024 Richard Kelsey. All rights reserved.
// See file LICENSE for notices and license.

// The preprocessor: rewrites every if, while, break, and continue so
// that at run time the statement dispatches on whether its condition
// is deferred.  On the classical path the original semantics are kept
// exactly; on the deferred path the statement drives the current
// process's label/branch/jump builder through the rt helpers.
//
// Generated names carry the '$' sigil (unlexable in user source) plus
// a counter value that is unique per transformed node, so labels and
// temporaries never collide however deeply constructs nest or repeat.
//
// The tree is rewritten bottom-up.  Because the same body appears on
// both the classical and the deferred path, nodes are deep-copied
// before either path takes ownership.

package pp

import (
	"fmt"

	"github.com/s48/ket/front"
)

type TransformerT struct {
	idCount int

	// The innermost enclosing rewritten while, for break/continue.
	// Save/restore discipline, not a stack structure.
	whileBegin string
	whileEnd   string
	inWhile    bool
}

// Transform rewrites a program in place and returns it.  Each call
// uses a fresh transformer, so ids restart at zero for every program.
func Transform(prog *front.ProgramT) *front.ProgramT {
	transformer := &TransformerT{}
	prog.Body = transformer.transformStmts(prog.Body)
	return prog
}

func (t *TransformerT) transformStmts(stmts []front.StmtT) []front.StmtT {
	result := []front.StmtT{}
	for _, stmt := range stmts {
		result = append(result, t.transformStmt(stmt)...)
	}
	return result
}

func (t *TransformerT) transformStmt(rawStmt front.StmtT) []front.StmtT {
	switch stmt := rawStmt.(type) {
	case *front.IfStmtT:
		return t.transformIf(stmt)
	case *front.WhileStmtT:
		return t.transformWhile(stmt)
	case *front.BreakStmtT:
		if !t.inWhile {
			return []front.StmtT{stmt}
		}
		return []front.StmtT{gotoStmt(stmt.Line, t.whileEnd)}
	case *front.ContinueStmtT:
		if !t.inWhile {
			return []front.StmtT{stmt}
		}
		return []front.StmtT{gotoStmt(stmt.Line, t.whileBegin)}
	default:
		return []front.StmtT{stmt}
	}
}

//----------------------------------------------------------------
// if lowering.
//
//	$if_test0 = <test>
//	if $is_future($if_test0) {
//	    $if_else0, $if_end0 = $if_else($if_test0)   # or $if_end0 = $if($if_test0)
//	    <body>
//	    $else($if_else0, $if_end0)                  # only with an else clause
//	    <orelse>
//	    $next($if_end0)
//	} else {
//	    if $if_test0 { <body> } else { <orelse> }
//	}

func (t *TransformerT) transformIf(node *front.IfStmtT) []front.StmtT {
	id := t.idCount
	t.idCount += 1

	// Children first, then copy the rewritten node for the classical
	// fallback.
	node.Body = t.transformStmts(node.Body)
	node.Orelse = t.transformStmts(node.Orelse)
	nodeCp := front.CopyStmt(node).(*front.IfStmtT)

	testName := fmt.Sprintf("$if_test%d", id)
	endName := fmt.Sprintf("$if_end%d", id)

	deferred := []front.StmtT{}
	if len(node.Orelse) == 0 {
		deferred = append(deferred,
			assignStmt(node.Line, []string{endName}, callExpr("$if", name(testName))))
		deferred = append(deferred, node.Body...)
	} else {
		elseName := fmt.Sprintf("$if_else%d", id)
		deferred = append(deferred,
			assignStmt(node.Line, []string{elseName, endName},
				callExpr("$if_else", name(testName))))
		deferred = append(deferred, node.Body...)
		deferred = append(deferred,
			exprStmt(node.Line, callExpr("$else", name(elseName), name(endName))))
		deferred = append(deferred, node.Orelse...)
	}
	deferred = append(deferred, exprStmt(node.Line, callExpr("$next", name(endName))))

	// The classical fallback reads the cached test value; the
	// condition expression itself runs exactly once either way.
	nodeCp.Test = name(testName)

	dispatch := &front.IfStmtT{
		StmtBaseT: front.StmtBaseT{Line: node.Line},
		Test:      callExpr("$is_future", name(testName)),
		Body:      deferred,
		Orelse:    []front.StmtT{nodeCp},
	}
	return []front.StmtT{
		assignStmt(node.Line, []string{testName}, node.Test),
		dispatch,
	}
}

//----------------------------------------------------------------
// while lowering.
//
//	$while_test0 = <test>
//	if $is_future($while_test0) {
//	    $while_begin0, $while_loop0, $while_end0 = $while()   # $while_else()
//	    $while_test0 = <test>           # re-read inside the begin block
//	    $while_test($while_test0, $while_loop0, <exit>)
//	    <body>
//	    $loop($while_begin0, <exit>)
//	    <orelse>                        # only with an else clause
//	    $next($while_end0)              # only with an else clause
//	} else {
//	    if $while_test0 {
//	        $while_first0 = true
//	        while $while_first0 or <test'> {
//	            $while_first0 = false
//	            <body'>
//	        } else {
//	            <orelse'>
//	        }
//	    } else {
//	        <orelse''>
//	    }
//	}
//
// The classical fallback is a native loop, so its break/continue stay
// native: they are rewritten with the loop context cleared.  The
// first-iteration flag keeps the condition at one evaluation per
// decision: the dispatch already consumed the first decision, so the
// loop head must not re-test until the second, and 'or' short-circuits
// past the test while the flag is up.

func (t *TransformerT) transformWhile(node *front.WhileStmtT) []front.StmtT {
	beginSave, endSave, inSave := t.whileBegin, t.whileEnd, t.inWhile

	id := t.idCount
	t.idCount += 1

	beginName := fmt.Sprintf("$while_begin%d", id)
	loopName := fmt.Sprintf("$while_loop%d", id)
	endName := fmt.Sprintf("$while_end%d", id)
	elseName := fmt.Sprintf("$while_else%d", id)
	testName := fmt.Sprintf("$while_test%d", id)
	firstName := fmt.Sprintf("$while_first%d", id)
	hasElse := len(node.Orelse) != 0

	// Copy before the body rewrite below mutates the node.  The copy
	// becomes the classical fallback and must stay a working loop on
	// its own.
	nodeCp := front.CopyStmt(node).(*front.WhileStmtT)

	// Deferred-path body: break/continue inside it target this
	// loop's labels.  A nested while saves and restores around its
	// own body, so inner break/continue bind to the inner loop.
	t.whileBegin, t.whileEnd, t.inWhile = beginName, endName, true
	node.Body = t.transformStmts(node.Body)
	t.whileBegin, t.whileEnd, t.inWhile = beginSave, endSave, inSave

	// The else clause is outside the loop; break/continue there
	// belong to whatever encloses this statement.
	node.Orelse = t.transformStmts(node.Orelse)

	// Classical copy: its break/continue stay native so that they
	// control the flag loop.
	t.whileBegin, t.whileEnd, t.inWhile = "", "", false
	nodeCp.Body = t.transformStmts(nodeCp.Body)
	t.whileBegin, t.whileEnd, t.inWhile = beginSave, endSave, inSave
	nodeCp.Orelse = t.transformStmts(nodeCp.Orelse)

	exit := endName
	if hasElse {
		exit = elseName
	}

	deferred := []front.StmtT{}
	if hasElse {
		deferred = append(deferred,
			assignStmt(node.Line, []string{beginName, loopName, elseName, endName},
				callExpr("$while_else")))
	} else {
		deferred = append(deferred,
			assignStmt(node.Line, []string{beginName, loopName, endName},
				callExpr("$while")))
	}
	deferred = append(deferred,
		// Re-read the condition inside the begin block so the engine
		// re-evaluates it every iteration.
		assignStmt(node.Line, []string{testName}, front.CopyExpr(nodeCp.Test)),
		exprStmt(node.Line, callExpr("$while_test", name(testName), name(loopName), name(exit))))
	deferred = append(deferred, node.Body...)
	deferred = append(deferred,
		exprStmt(node.Line, callExpr("$loop", name(beginName), name(exit))))
	if hasElse {
		deferred = append(deferred, node.Orelse...)
		deferred = append(deferred, exprStmt(node.Line, callExpr("$next", name(endName))))
	}

	classical := t.classicalWhile(node.Line, testName, firstName, nodeCp)

	dispatch := &front.IfStmtT{
		StmtBaseT: front.StmtBaseT{Line: node.Line},
		Test:      callExpr("$is_future", name(testName)),
		Body:      deferred,
		Orelse:    []front.StmtT{classical},
	}
	return []front.StmtT{
		assignStmt(node.Line, []string{testName}, node.Test),
		dispatch,
	}
}

// The native classical reconstruction.  'nodeCp' holds the rewritten
// body, the original test expression, and the rewritten else clause.
func (t *TransformerT) classicalWhile(line int,
	testName string,
	firstName string,
	nodeCp *front.WhileStmtT) front.StmtT {

	loop := &front.WhileStmtT{
		StmtBaseT: front.StmtBaseT{Line: line},
		Test: &front.BinaryExprT{
			Op: "or",
			X:  name(firstName),
			Y:  nodeCp.Test,
		},
		Body: append([]front.StmtT{
			assignStmt(line, []string{firstName}, &front.BoolLitT{Value: false}),
		}, nodeCp.Body...),
		Orelse: nodeCp.Orelse,
	}
	return &front.IfStmtT{
		StmtBaseT: front.StmtBaseT{Line: line},
		Test:      name(testName),
		Body: []front.StmtT{
			assignStmt(line, []string{firstName}, &front.BoolLitT{Value: true}),
			loop,
		},
		// A first test that is already false skips the loop and runs
		// the else clause directly.
		Orelse: front.CopyStmts(nodeCp.Orelse),
	}
}

//----------------------------------------------------------------
// Node building shorthands.

func name(text string) front.ExprT {
	return &front.NameT{Name: text}
}

func callExpr(funcName string, args ...front.ExprT) front.ExprT {
	return &front.CallExprT{Func: funcName, Args: args}
}

func assignStmt(line int, targets []string, value front.ExprT) front.StmtT {
	return &front.AssignStmtT{
		StmtBaseT: front.StmtBaseT{Line: line},
		Targets:   targets,
		Value:     value,
	}
}

func exprStmt(line int, x front.ExprT) front.StmtT {
	return &front.ExprStmtT{StmtBaseT: front.StmtBaseT{Line: line}, X: x}
}

func gotoStmt(line int, labelName string) front.StmtT {
	return exprStmt(line, callExpr("$goto", name(labelName)))
}
