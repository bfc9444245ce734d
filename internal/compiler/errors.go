package compiler

import (
	"fmt"

	"quill/internal/token"
)

func (c *cc) errorAtCurrent(message string) {
	c.errorAt(c.p.current, message)
}

func (c *cc) error(message string) {
	c.errorAt(c.p.previous, message)
}

// errorAt reports message at tok, formatted as
// "[line L] Error at '<lexeme>': <message>". Once panicMode is set,
// further errors are swallowed until synchronize finds a recovery point,
// so one bad token doesn't cascade into a wall of noise.
func (c *cc) errorAt(tok token.Token, message string) {
	if c.p.panicMode {
		return
	}
	c.p.panicMode = true
	c.p.hadError = true

	fmt.Fprintf(c.p.errOut, "[line %d] Error", tok.Line)
	switch tok.Type {
	case token.EOF:
		fmt.Fprint(c.p.errOut, " at end")
	case token.ERROR:
		// the message IS the lexical error; don't also print it as a lexeme
	default:
		fmt.Fprintf(c.p.errOut, " at '%s'", tok.Lexeme)
	}
	fmt.Fprintf(c.p.errOut, ": %s\n", message)
}

// synchronize discards tokens after a syntax error until it finds a
// plausible statement boundary: a semicolon, or a keyword that starts a
// new declaration or statement.
func (c *cc) synchronize() {
	c.p.panicMode = false

	for c.p.current.Type != token.EOF {
		if c.p.previous.Type == token.SEMICOLON {
			return
		}
		switch c.p.current.Type {
		case token.CLASS, token.FUN, token.VAR, token.FOR, token.IF,
			token.WHILE, token.PRINT, token.RETURN, token.SWITCH:
			return
		}
		c.advance()
	}
}
