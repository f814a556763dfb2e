// Copyright 2024 Richard Kelsey. All rights reserved.
// See file LICENSE for notices and license.

// Recursive-descent parser for ket source.  Statements are separated
// by newlines or semicolons; blocks use braces.  Expression parsing is
// precedence climbing with Python's operator levels.

package front

import (
	"fmt"
	"strconv"
)

type parserT struct {
	name    string
	lexer   *LexerT
	token   TokenT // one token of lookahead
	peeked  bool
	peekTok TokenT
}

type ParseErrorT struct {
	Name    string
	Line    int
	Col     int
	Message string
}

func (err *ParseErrorT) Error() string {
	return fmt.Sprintf("%s:%d:%d: %s", err.Name, err.Line, err.Col, err.Message)
}

func ParseProgram(name string, source string) (prog *ProgramT, err error) {
	parser := &parserT{name: name, lexer: MakeLexer(source)}
	defer func() {
		if raised := recover(); raised != nil {
			parseErr, isParseErr := raised.(*ParseErrorT)
			if !isParseErr {
				panic(raised)
			}
			prog = nil
			err = parseErr
		}
	}()
	parser.next()
	body := []StmtT{}
	parser.skipSeparators()
	for parser.token.Kind != EofToken {
		body = append(body, parser.parseStmt())
		parser.endOfStmt()
	}
	return &ProgramT{Name: name, Body: body}, nil
}

func (parser *parserT) fail(format string, args ...any) {
	panic(&ParseErrorT{
		Name:    parser.name,
		Line:    parser.token.Line,
		Col:     parser.token.Col,
		Message: fmt.Sprintf(format, args...),
	})
}

func (parser *parserT) next() {
	if parser.peeked {
		parser.token = parser.peekTok
		parser.peeked = false
	} else {
		parser.token = parser.lexer.Next()
	}
	if parser.token.Kind == IllegalToken {
		parser.fail("illegal token %s", parser.token)
	}
}

func (parser *parserT) peek() TokenT {
	if !parser.peeked {
		parser.peekTok = parser.lexer.Next()
		parser.peeked = true
	}
	return parser.peekTok
}

func (parser *parserT) expectOperator(text string) {
	if !parser.token.Is(OperatorToken, text) {
		parser.fail("expected '%s', got %s", text, parser.token)
	}
	parser.next()
}

func (parser *parserT) skipSeparators() {
	for parser.token.Kind == NewlineToken || parser.token.Is(OperatorToken, ";") {
		parser.next()
	}
}

// A statement ends at a newline, a semicolon, a closing brace, or the
// end of input.
func (parser *parserT) endOfStmt() {
	switch {
	case parser.token.Kind == NewlineToken, parser.token.Is(OperatorToken, ";"):
		parser.next()
		parser.skipSeparators()
	case parser.token.Kind == EofToken, parser.token.Is(OperatorToken, "}"):
	default:
		parser.fail("unexpected %s after statement", parser.token)
	}
}

//----------------------------------------------------------------
// Statements.

func (parser *parserT) parseStmt() StmtT {
	line := parser.token.Line
	switch {
	case parser.token.Is(KeywordToken, "if"):
		return parser.parseIf()
	case parser.token.Is(KeywordToken, "while"):
		return parser.parseWhile()
	case parser.token.Is(KeywordToken, "break"):
		parser.next()
		return &BreakStmtT{StmtBaseT{Line: line}}
	case parser.token.Is(KeywordToken, "continue"):
		parser.next()
		return &ContinueStmtT{StmtBaseT{Line: line}}
	case parser.token.Kind == IdentToken && parser.peek().Is(OperatorToken, "="):
		name := parser.token.Text
		parser.next() // name
		parser.next() // '='
		value := parser.parseExpr()
		return &AssignStmtT{StmtBaseT{Line: line}, []string{name}, value}
	default:
		return &ExprStmtT{StmtBaseT{Line: line}, parser.parseExpr()}
	}
}

func (parser *parserT) parseIf() StmtT {
	line := parser.token.Line
	parser.next() // 'if'
	test := parser.parseExpr()
	body := parser.parseBlock()
	orelse := []StmtT{}
	if parser.token.Is(KeywordToken, "else") {
		parser.next()
		if parser.token.Is(KeywordToken, "if") {
			orelse = []StmtT{parser.parseIf()}
		} else {
			orelse = parser.parseBlock()
		}
	}
	return &IfStmtT{StmtBaseT{Line: line}, test, body, orelse}
}

func (parser *parserT) parseWhile() StmtT {
	line := parser.token.Line
	parser.next() // 'while'
	test := parser.parseExpr()
	body := parser.parseBlock()
	orelse := []StmtT{}
	if parser.token.Is(KeywordToken, "else") {
		parser.next()
		orelse = parser.parseBlock()
	}
	return &WhileStmtT{StmtBaseT{Line: line}, test, body, orelse}
}

func (parser *parserT) parseBlock() []StmtT {
	parser.expectOperator("{")
	parser.skipSeparators()
	body := []StmtT{}
	for !parser.token.Is(OperatorToken, "}") {
		if parser.token.Kind == EofToken {
			parser.fail("unexpected end of input in block")
		}
		body = append(body, parser.parseStmt())
		parser.endOfStmt()
	}
	parser.next() // '}'
	return body
}

//----------------------------------------------------------------
// Expressions, one function per precedence level.

func (parser *parserT) parseExpr() ExprT {
	return parser.parseOr()
}

func (parser *parserT) parseOr() ExprT {
	expr := parser.parseAnd()
	for parser.token.Is(KeywordToken, "or") {
		parser.next()
		expr = &BinaryExprT{Op: "or", X: expr, Y: parser.parseAnd()}
	}
	return expr
}

func (parser *parserT) parseAnd() ExprT {
	expr := parser.parseNot()
	for parser.token.Is(KeywordToken, "and") {
		parser.next()
		expr = &BinaryExprT{Op: "and", X: expr, Y: parser.parseNot()}
	}
	return expr
}

func (parser *parserT) parseNot() ExprT {
	if parser.token.Is(KeywordToken, "not") {
		parser.next()
		return &UnaryExprT{Op: "not", X: parser.parseNot()}
	}
	return parser.parseComparison()
}

var comparisonOps = map[string]bool{
	"==": true, "!=": true, "<": true, "<=": true, ">": true, ">=": true,
}

func (parser *parserT) parseComparison() ExprT {
	expr := parser.parseBitOr()
	for parser.token.Kind == OperatorToken && comparisonOps[parser.token.Text] {
		op := parser.token.Text
		parser.next()
		expr = &BinaryExprT{Op: op, X: expr, Y: parser.parseBitOr()}
	}
	return expr
}

func (parser *parserT) parseBitOr() ExprT {
	expr := parser.parseBitXor()
	for parser.token.Is(OperatorToken, "|") {
		parser.next()
		expr = &BinaryExprT{Op: "|", X: expr, Y: parser.parseBitXor()}
	}
	return expr
}

func (parser *parserT) parseBitXor() ExprT {
	expr := parser.parseBitAnd()
	for parser.token.Is(OperatorToken, "^") {
		parser.next()
		expr = &BinaryExprT{Op: "^", X: expr, Y: parser.parseBitAnd()}
	}
	return expr
}

func (parser *parserT) parseBitAnd() ExprT {
	expr := parser.parseShift()
	for parser.token.Is(OperatorToken, "&") {
		parser.next()
		expr = &BinaryExprT{Op: "&", X: expr, Y: parser.parseShift()}
	}
	return expr
}

func (parser *parserT) parseShift() ExprT {
	expr := parser.parseAdditive()
	for parser.token.Is(OperatorToken, "<<") || parser.token.Is(OperatorToken, ">>") {
		op := parser.token.Text
		parser.next()
		expr = &BinaryExprT{Op: op, X: expr, Y: parser.parseAdditive()}
	}
	return expr
}

func (parser *parserT) parseAdditive() ExprT {
	expr := parser.parseMultiplicative()
	for parser.token.Is(OperatorToken, "+") || parser.token.Is(OperatorToken, "-") {
		op := parser.token.Text
		parser.next()
		expr = &BinaryExprT{Op: op, X: expr, Y: parser.parseMultiplicative()}
	}
	return expr
}

func (parser *parserT) parseMultiplicative() ExprT {
	expr := parser.parseUnary()
	for parser.token.Is(OperatorToken, "*") ||
		parser.token.Is(OperatorToken, "/") ||
		parser.token.Is(OperatorToken, "%") {
		op := parser.token.Text
		parser.next()
		expr = &BinaryExprT{Op: op, X: expr, Y: parser.parseUnary()}
	}
	return expr
}

func (parser *parserT) parseUnary() ExprT {
	if parser.token.Is(OperatorToken, "-") {
		parser.next()
		return &UnaryExprT{Op: "-", X: parser.parseUnary()}
	}
	return parser.parsePrimary()
}

func (parser *parserT) parsePrimary() ExprT {
	token := parser.token
	switch {
	case token.Kind == IntToken:
		value, err := strconv.ParseInt(token.Text, 10, 64)
		if err != nil {
			parser.fail("bad integer literal '%s'", token.Text)
		}
		parser.next()
		return &IntLitT{Value: value}
	case token.Kind == FloatToken:
		value, err := strconv.ParseFloat(token.Text, 64)
		if err != nil {
			parser.fail("bad float literal '%s'", token.Text)
		}
		parser.next()
		return &FloatLitT{Value: value}
	case token.Kind == StringToken:
		parser.next()
		return &StrLitT{Value: token.Text}
	case token.Is(KeywordToken, "true"):
		parser.next()
		return &BoolLitT{Value: true}
	case token.Is(KeywordToken, "false"):
		parser.next()
		return &BoolLitT{Value: false}
	case token.Kind == IdentToken:
		parser.next()
		if parser.token.Is(OperatorToken, "(") {
			return parser.parseCall(token)
		}
		return &NameT{Name: token.Text}
	case token.Is(OperatorToken, "("):
		parser.next()
		expr := parser.parseExpr()
		parser.expectOperator(")")
		return expr
	default:
		parser.fail("unexpected %s in expression", token)
		return nil
	}
}

func (parser *parserT) parseCall(funcToken TokenT) ExprT {
	parser.expectOperator("(")
	args := []ExprT{}
	if !parser.token.Is(OperatorToken, ")") {
		for {
			args = append(args, parser.parseExpr())
			if !parser.token.Is(OperatorToken, ",") {
				break
			}
			parser.next()
		}
	}
	parser.expectOperator(")")
	return &CallExprT{Func: funcToken.Text, Args: args, Line: funcToken.Line}
}
