package lexer

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"quill/internal/token"
)

func TestNextToken(t *testing.T) {
	input := `var x = 5;
fun add(a, b) { return a + b; }
"hi there"
3.14
== != <= >= // a comment
and or nil true false
`

	tests := []struct {
		expectedType   token.Type
		expectedLexeme string
	}{
		{token.VAR, "var"},
		{token.IDENTIFIER, "x"},
		{token.EQUAL, "="},
		{token.NUMBER, "5"},
		{token.SEMICOLON, ";"},
		{token.FUN, "fun"},
		{token.IDENTIFIER, "add"},
		{token.LEFT_PAREN, "("},
		{token.IDENTIFIER, "a"},
		{token.COMMA, ","},
		{token.IDENTIFIER, "b"},
		{token.RIGHT_PAREN, ")"},
		{token.LEFT_BRACE, "{"},
		{token.RETURN, "return"},
		{token.IDENTIFIER, "a"},
		{token.PLUS, "+"},
		{token.IDENTIFIER, "b"},
		{token.SEMICOLON, ";"},
		{token.RIGHT_BRACE, "}"},
		{token.STRING, "hi there"},
		{token.NUMBER, "3.14"},
		{token.EQUAL_EQUAL, "=="},
		{token.BANG_EQUAL, "!="},
		{token.LESS_EQUAL, "<="},
		{token.GREATER_EQUAL, ">="},
		{token.AND, "and"},
		{token.OR, "or"},
		{token.NIL, "nil"},
		{token.TRUE, "true"},
		{token.FALSE, "false"},
		{token.EOF, ""},
	}

	l := New(input)
	for i, tt := range tests {
		tok := l.NextToken()
		assert.Equalf(t, tt.expectedType, tok.Type, "token %d: type", i)
		assert.Equalf(t, tt.expectedLexeme, tok.Lexeme, "token %d: lexeme", i)
	}
}

func TestUnterminatedString(t *testing.T) {
	l := New(`"abc`)
	tok := l.NextToken()
	assert.Equal(t, token.ERROR, tok.Type)
	assert.Contains(t, tok.Lexeme, "Unterminated")
}

func TestLineTracking(t *testing.T) {
	l := New("var a = 1;\nvar b = 2;\n")
	var last token.Token
	for {
		tok := l.NextToken()
		if tok.Type == token.EOF {
			break
		}
		last = tok
	}
	assert.Equal(t, 2, last.Line)
}
