// Copyright 2024 Richard Kelsey. All rights reserved.
// See file LICENSE for notices and license.

// Tokenizing ket source.  '#' starts a comment that runs to the end
// of the line.  Newlines are tokens; the parser uses them as statement
// separators.  '$' is reserved for compiler-generated names and is an
// illegal character in source text.

package front

type LexerT struct {
	input string
	pos   int
	line  int
	col   int
}

func MakeLexer(input string) *LexerT {
	return &LexerT{input: input, line: 1, col: 1}
}

func (lexer *LexerT) peek() byte {
	if len(lexer.input) <= lexer.pos {
		return 0
	}
	return lexer.input[lexer.pos]
}

func (lexer *LexerT) peekAt(offset int) byte {
	if len(lexer.input) <= lexer.pos+offset {
		return 0
	}
	return lexer.input[lexer.pos+offset]
}

func (lexer *LexerT) advance() byte {
	ch := lexer.input[lexer.pos]
	lexer.pos += 1
	if ch == '\n' {
		lexer.line += 1
		lexer.col = 1
	} else {
		lexer.col += 1
	}
	return ch
}

func isDigit(ch byte) bool { return '0' <= ch && ch <= '9' }

func isIdentStart(ch byte) bool {
	return 'a' <= ch && ch <= 'z' || 'A' <= ch && ch <= 'Z' || ch == '_'
}

func isIdentChar(ch byte) bool { return isIdentStart(ch) || isDigit(ch) }

// The two- and one-character operators, longest match first.
var twoCharOperators = map[string]bool{
	"==": true, "!=": true, "<=": true, ">=": true, "<<": true, ">>": true,
}

const oneCharOperators = "=<>+-*/%&|^,(){};"

func (lexer *LexerT) Next() TokenT {
	for lexer.pos < len(lexer.input) {
		ch := lexer.peek()
		if ch == ' ' || ch == '\t' || ch == '\r' {
			lexer.advance()
		} else if ch == '#' {
			for lexer.pos < len(lexer.input) && lexer.peek() != '\n' {
				lexer.advance()
			}
		} else {
			break
		}
	}
	line, col := lexer.line, lexer.col
	if len(lexer.input) <= lexer.pos {
		return TokenT{Kind: EofToken, Line: line, Col: col}
	}
	ch := lexer.peek()
	switch {
	case ch == '\n':
		lexer.advance()
		return TokenT{Kind: NewlineToken, Text: "\n", Line: line, Col: col}
	case isDigit(ch):
		return lexer.lexNumber(line, col)
	case isIdentStart(ch):
		start := lexer.pos
		for lexer.pos < len(lexer.input) && isIdentChar(lexer.peek()) {
			lexer.advance()
		}
		text := lexer.input[start:lexer.pos]
		kind := IdentToken
		if keywords[text] {
			kind = KeywordToken
		}
		return TokenT{Kind: kind, Text: text, Line: line, Col: col}
	case ch == '"':
		return lexer.lexString(line, col)
	default:
		two := string(ch) + string(lexer.peekAt(1))
		if twoCharOperators[two] {
			lexer.advance()
			lexer.advance()
			return TokenT{Kind: OperatorToken, Text: two, Line: line, Col: col}
		}
		for i := 0; i < len(oneCharOperators); i++ {
			if ch == oneCharOperators[i] {
				lexer.advance()
				return TokenT{Kind: OperatorToken, Text: string(ch), Line: line, Col: col}
			}
		}
		lexer.advance()
		return TokenT{Kind: IllegalToken, Text: string(ch), Line: line, Col: col}
	}
}

func (lexer *LexerT) lexNumber(line int, col int) TokenT {
	start := lexer.pos
	for lexer.pos < len(lexer.input) && isDigit(lexer.peek()) {
		lexer.advance()
	}
	kind := IntToken
	if lexer.peek() == '.' && isDigit(lexer.peekAt(1)) {
		kind = FloatToken
		lexer.advance()
		for lexer.pos < len(lexer.input) && isDigit(lexer.peek()) {
			lexer.advance()
		}
	}
	return TokenT{Kind: kind, Text: lexer.input[start:lexer.pos], Line: line, Col: col}
}

func (lexer *LexerT) lexString(line int, col int) TokenT {
	lexer.advance() // opening quote
	start := lexer.pos
	for lexer.pos < len(lexer.input) && lexer.peek() != '"' && lexer.peek() != '\n' {
		lexer.advance()
	}
	if lexer.peek() != '"' {
		return TokenT{Kind: IllegalToken, Text: "unterminated string", Line: line, Col: col}
	}
	text := lexer.input[start:lexer.pos]
	lexer.advance() // closing quote
	return TokenT{Kind: StringToken, Text: text, Line: line, Col: col}
}
