// Copyright 2024 Richard Kelsey. All rights reserved.
// See file LICENSE for notices and license.

package front

import (
	"fmt"
)

type TokenKindT int

const (
	EofToken TokenKindT = iota
	NewlineToken
	IdentToken
	IntToken
	FloatToken
	StringToken
	OperatorToken // punctuation and operators, Text says which
	KeywordToken  // if else while break continue true false and or not
	IllegalToken
)

type TokenT struct {
	Kind TokenKindT
	Text string
	Line int
	Col  int
}

func (token TokenT) Is(kind TokenKindT, text string) bool {
	return token.Kind == kind && token.Text == text
}

func (token TokenT) String() string {
	switch token.Kind {
	case EofToken:
		return "end of input"
	case NewlineToken:
		return "newline"
	default:
		return fmt.Sprintf("'%s'", token.Text)
	}
}

var keywords = map[string]bool{
	"if":       true,
	"else":     true,
	"while":    true,
	"break":    true,
	"continue": true,
	"true":     true,
	"false":    true,
	"and":      true,
	"or":       true,
	"not":      true,
}
