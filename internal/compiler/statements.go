package compiler

import (
	"quill/internal/token"
	"quill/internal/vm"
)

func (c *cc) declaration() {
	switch {
	case c.match(token.VAR):
		c.varDeclaration()
	case c.match(token.FUN):
		c.funDeclaration()
	default:
		c.statement()
	}

	if c.p.panicMode {
		c.synchronize()
	}
}

func (c *cc) varDeclaration() {
	global := c.parseVariable("Expect variable name.")

	if c.match(token.EQUAL) {
		c.expression()
	} else {
		c.emitOp(vm.OP_NIL)
	}
	c.consume(token.SEMICOLON, "Expect ';' after variable declaration.")

	c.defineVariable(global)
}

// funDeclaration compiles `fun name(params) { body }`. The name is
// declared and marked initialized before the body is compiled so that a
// function already visible in the enclosing scope can reference its own
// name in a sibling statement (and, for a top-level function, inside its
// own body too, since top-level references always resolve as globals).
func (c *cc) funDeclaration() {
	global := c.parseVariable("Expect function name.")
	c.markInitialized()
	c.function(typeFunction)
	c.defineVariable(global)
}

// function compiles a function's parameter list and body in a fresh
// frame, then emits the finished Function as a constant back into the
// enclosing frame's chunk.
func (c *cc) function(typ funcType) {
	enclosing := c.f
	c.f = newFrame(enclosing, typ, c.p.heap, c.p.previous.Lexeme)
	c.beginScope()

	c.consume(token.LEFT_PAREN, "Expect '(' after function name.")
	if !c.check(token.RIGHT_PAREN) {
		for {
			c.f.function.Arity++
			if c.f.function.Arity > maxArgs {
				c.error("Can't have more than 255 parameters.")
			}
			paramConst := c.parseVariable("Expect parameter name.")
			c.defineVariable(paramConst)
			if !c.match(token.COMMA) {
				break
			}
		}
	}
	c.consume(token.RIGHT_PAREN, "Expect ')' after parameters.")
	c.consume(token.LEFT_BRACE, "Expect '{' before function body.")
	c.block()

	fn := c.endCompiler()
	c.emitConstant(vm.FromObj(fn))
}

func (c *cc) statement() {
	switch {
	case c.match(token.PRINT):
		c.printStatement()
	case c.match(token.IF):
		c.ifStatement()
	case c.match(token.WHILE):
		c.whileStatement()
	case c.match(token.FOR):
		c.forStatement()
	case c.match(token.SWITCH):
		c.switchStatement()
	case c.match(token.CONTINUE):
		c.continueStatement()
	case c.match(token.RETURN):
		c.returnStatement()
	case c.match(token.LEFT_BRACE):
		c.beginScope()
		c.block()
		c.endScope()
	default:
		c.expressionStatement()
	}
}

// block parses declarations up to a closing brace. The opening '{' has
// already been consumed by the caller.
func (c *cc) block() {
	for !c.check(token.RIGHT_BRACE) && !c.check(token.EOF) {
		c.declaration()
	}
	c.consume(token.RIGHT_BRACE, "Expect '}' after block.")
}

func (c *cc) printStatement() {
	c.expression()
	c.consume(token.SEMICOLON, "Expect ';' after value.")
	c.emitOp(vm.OP_PRINT)
}

func (c *cc) expressionStatement() {
	c.expression()
	c.consume(token.SEMICOLON, "Expect ';' after expression.")
	c.emitOp(vm.OP_POP)
}

func (c *cc) ifStatement() {
	c.consume(token.LEFT_PAREN, "Expect '(' after 'if'.")
	c.expression()
	c.consume(token.RIGHT_PAREN, "Expect ')' after condition.")

	thenJump := c.emitJump(vm.OP_JUMP_IF_FALSE)
	c.emitOp(vm.OP_POP)
	c.statement()

	elseJump := c.emitJump(vm.OP_JUMP)
	c.patchJump(thenJump)
	c.emitOp(vm.OP_POP)

	if c.match(token.ELSE) {
		c.statement()
	}
	c.patchJump(elseJump)
}

func (c *cc) whileStatement() {
	loopStart := c.chunk().Count()
	loop := &loopScope{enclosing: c.f.loop, start: loopStart, scopeDepth: c.f.scopeDepth}
	c.f.loop = loop

	c.consume(token.LEFT_PAREN, "Expect '(' after 'while'.")
	c.expression()
	c.consume(token.RIGHT_PAREN, "Expect ')' after condition.")

	exitJump := c.emitJump(vm.OP_JUMP_IF_FALSE)
	c.emitOp(vm.OP_POP)
	c.statement()
	c.emitLoop(loopStart)

	c.patchJump(exitJump)
	c.emitOp(vm.OP_POP)

	c.f.loop = loop.enclosing
}

// forStatement compiles a classic C-style for(init; cond; incr) loop. The
// increment is emitted where it appears lexically, between the condition
// and the body, with a jump over it on the first pass into the loop; the
// body ends by jumping back to it, so the natural order
// init -> cond -> body -> incr -> cond -> ... holds without duplicating
// the condition's bytecode.
func (c *cc) forStatement() {
	c.beginScope()
	c.consume(token.LEFT_PAREN, "Expect '(' after 'for'.")

	switch {
	case c.match(token.SEMICOLON):
		// no initializer
	case c.match(token.VAR):
		c.varDeclaration()
	default:
		c.expressionStatement()
	}

	loopStart := c.chunk().Count()
	exitJump := -1
	if !c.match(token.SEMICOLON) {
		c.expression()
		c.consume(token.SEMICOLON, "Expect ';' after loop condition.")

		exitJump = c.emitJump(vm.OP_JUMP_IF_FALSE)
		c.emitOp(vm.OP_POP)
	}

	if !c.check(token.RIGHT_PAREN) {
		bodyJump := c.emitJump(vm.OP_JUMP)
		incrementStart := c.chunk().Count()
		c.expression()
		c.emitOp(vm.OP_POP)
		c.consume(token.RIGHT_PAREN, "Expect ')' after for clauses.")

		c.emitLoop(loopStart)
		loopStart = incrementStart
		c.patchJump(bodyJump)
	}

	loop := &loopScope{enclosing: c.f.loop, start: loopStart, scopeDepth: c.f.scopeDepth}
	c.f.loop = loop

	c.statement()
	c.emitLoop(loopStart)

	if exitJump != -1 {
		c.patchJump(exitJump)
		c.emitOp(vm.OP_POP)
	}

	c.f.loop = loop.enclosing
	c.endScope()
}

// switchStatement lowers to a chain of equality tests against the
// switched value, which is left sitting on the stack for the whole
// construct rather than copied into a synthetic local: OP_EQUAL_SWITCH
// compares it against each case's value while leaving it in place, so no
// slot bookkeeping is needed between cases.
func (c *cc) switchStatement() {
	c.consume(token.LEFT_PAREN, "Expect '(' after 'switch'.")
	c.expression()
	c.consume(token.RIGHT_PAREN, "Expect ')' after switch value.")
	c.consume(token.LEFT_BRACE, "Expect '{' before switch body.")

	var endJumps []int
	nextCase := -1
	hasCase := false

	for !c.check(token.RIGHT_BRACE) && !c.check(token.EOF) {
		switch {
		case c.match(token.CASE):
			if nextCase != -1 {
				c.patchJump(nextCase)
				c.emitOp(vm.OP_POP)
			}
			hasCase = true

			c.expression()
			c.consume(token.COLON, "Expect ':' after case value.")
			c.emitOp(vm.OP_EQUAL_SWITCH)
			nextCase = c.emitJump(vm.OP_JUMP_IF_FALSE)
			c.emitOp(vm.OP_POP)

			for !c.check(token.CASE) && !c.check(token.DEFAULT) && !c.check(token.RIGHT_BRACE) && !c.check(token.EOF) {
				c.statement()
			}
			endJumps = append(endJumps, c.emitJump(vm.OP_JUMP))

		case c.match(token.DEFAULT):
			if nextCase != -1 {
				c.patchJump(nextCase)
				c.emitOp(vm.OP_POP)
				nextCase = -1
			}
			c.consume(token.COLON, "Expect ':' after 'default'.")
			for !c.check(token.CASE) && !c.check(token.RIGHT_BRACE) && !c.check(token.EOF) {
				c.statement()
			}

		default:
			c.error("Expect 'case' or 'default'.")
			c.advance()
		}
	}

	if !hasCase {
		c.error("Switch must have at least one case.")
	}

	if nextCase != -1 {
		c.patchJump(nextCase)
		c.emitOp(vm.OP_POP)
	}
	for _, j := range endJumps {
		c.patchJump(j)
	}
	c.consume(token.RIGHT_BRACE, "Expect '}' after switch body.")
	c.emitOp(vm.OP_POP) // discard the switched-on value
}

// continueStatement pops any locals declared inside the loop body (they
// are above the loop's own scope depth) before jumping back to the
// loop's re-test point.
func (c *cc) continueStatement() {
	if c.f.loop == nil {
		c.error("Can't use 'continue' outside of a loop.")
		c.consume(token.SEMICOLON, "Expect ';' after 'continue'.")
		return
	}

	n := 0
	for i := len(c.f.locals) - 1; i >= 0 && c.f.locals[i].depth > c.f.loop.scopeDepth; i-- {
		n++
	}
	if n > 0 {
		c.emitOp(vm.OP_POPN)
		c.emitByte(byte(n))
	}

	c.emitLoop(c.f.loop.start)
	c.consume(token.SEMICOLON, "Expect ';' after 'continue'.")
}

func (c *cc) returnStatement() {
	if c.f.typ == typeScript {
		c.error("Can't return from top-level code.")
	}

	if c.match(token.SEMICOLON) {
		c.emitReturn()
		return
	}
	c.expression()
	c.consume(token.SEMICOLON, "Expect ';' after return value.")
	c.emitOp(vm.OP_RETURN)
}
