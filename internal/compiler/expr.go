package compiler

import (
	"quill/internal/token"
	"quill/internal/vm"
)

type precedence int

const (
	precNone       precedence = iota
	precAssignment            // =
	precOr                    // or
	precAnd                   // and
	precEquality              // == !=
	precComparison            // < > <= >=
	precTerm                  // + -
	precFactor                // * /
	precUnary                 // ! -
	precCall                  // . ()
	precPrimary
)

type parseFn func(c *cc, canAssign bool)

type parseRule struct {
	prefix     parseFn
	infix      parseFn
	precedence precedence
}

// rules is the Pratt table: one (prefix, infix, precedence) triple per
// token type that can appear in expression position. LESS_EQUAL is
// deliberately {nil, binary, precComparison}, an infix-only rule: an
// earlier revision of this table had it backwards as a prefix rule, which
// made "<=" unparsable as a comparison operator.
var rules map[token.Type]parseRule

func init() {
	rules = map[token.Type]parseRule{
		token.LEFT_PAREN:    {grouping, call, precCall},
		token.MINUS:         {unary, binary, precTerm},
		token.PLUS:          {nil, binary, precTerm},
		token.SLASH:         {nil, binary, precFactor},
		token.STAR:          {nil, binary, precFactor},
		token.BANG:          {unary, nil, precNone},
		token.BANG_EQUAL:    {nil, binary, precEquality},
		token.EQUAL_EQUAL:   {nil, binary, precEquality},
		token.GREATER:       {nil, binary, precComparison},
		token.GREATER_EQUAL: {nil, binary, precComparison},
		token.LESS:          {nil, binary, precComparison},
		token.LESS_EQUAL:    {nil, binary, precComparison},
		token.IDENTIFIER:    {variable, nil, precNone},
		token.STRING:        {string_, nil, precNone},
		token.NUMBER:        {number, nil, precNone},
		token.AND:           {nil, and_, precAnd},
		token.OR:            {nil, or_, precOr},
		token.FALSE:         {literal, nil, precNone},
		token.TRUE:          {literal, nil, precNone},
		token.NIL:           {literal, nil, precNone},
	}
}

func ruleFor(t token.Type) parseRule {
	if r, ok := rules[t]; ok {
		return r
	}
	return parseRule{}
}

// parsePrecedence drives the whole expression grammar: it consumes a
// prefix token, then keeps folding in infix operators as long as their
// precedence meets the requested floor.
func (c *cc) parsePrecedence(prec precedence) {
	c.advance()
	prefix := ruleFor(c.p.previous.Type).prefix
	if prefix == nil {
		c.error("Expect expression.")
		return
	}

	canAssign := prec <= precAssignment
	prefix(c, canAssign)

	for prec <= ruleFor(c.p.current.Type).precedence {
		c.advance()
		infix := ruleFor(c.p.previous.Type).infix
		infix(c, canAssign)
	}

	if canAssign && c.match(token.EQUAL) {
		c.error("Invalid assignment target.")
	}
}

func (c *cc) expression() {
	c.parsePrecedence(precAssignment)
}

// ============================================================================
// Prefix rules
// ============================================================================

func number(c *cc, _ bool) {
	c.emitConstant(vm.Number(parseNumber(c.p.previous.Lexeme)))
}

func string_(c *cc, _ bool) {
	c.emitConstant(vm.FromObj(c.p.heap.CopyString(c.p.previous.Lexeme)))
}

func literal(c *cc, _ bool) {
	switch c.p.previous.Type {
	case token.FALSE:
		c.emitOp(vm.OP_FALSE)
	case token.TRUE:
		c.emitOp(vm.OP_TRUE)
	case token.NIL:
		c.emitOp(vm.OP_NIL)
	}
}

func grouping(c *cc, _ bool) {
	c.expression()
	c.consume(token.RIGHT_PAREN, "Expect ')' after expression.")
}

func unary(c *cc, _ bool) {
	opType := c.p.previous.Type
	c.parsePrecedence(precUnary)
	switch opType {
	case token.MINUS:
		c.emitOp(vm.OP_NEGATE)
	case token.BANG:
		c.emitOp(vm.OP_NOT)
	}
}

var binaryOps = map[token.Type]vm.OpCode{
	token.PLUS:          vm.OP_ADD,
	token.MINUS:         vm.OP_SUB,
	token.STAR:          vm.OP_MUL,
	token.SLASH:         vm.OP_DIV,
	token.BANG_EQUAL:    vm.OP_NOT_EQUAL,
	token.EQUAL_EQUAL:   vm.OP_EQUAL,
	token.GREATER:       vm.OP_GREATER,
	token.GREATER_EQUAL: vm.OP_GREATER_EQUAL,
	token.LESS:          vm.OP_LESS,
	token.LESS_EQUAL:    vm.OP_LESS_EQUAL,
}

func binary(c *cc, _ bool) {
	opType := c.p.previous.Type
	rule := ruleFor(opType)
	c.parsePrecedence(rule.precedence + 1)
	c.emitOp(binaryOps[opType])
}

func and_(c *cc, _ bool) {
	endJump := c.emitJump(vm.OP_JUMP_IF_FALSE)
	c.emitOp(vm.OP_POP)
	c.parsePrecedence(precAnd)
	c.patchJump(endJump)
}

func or_(c *cc, _ bool) {
	endJump := c.emitJump(vm.OP_JUMP_IF_TRUE)
	c.emitOp(vm.OP_POP)
	c.parsePrecedence(precOr)
	c.patchJump(endJump)
}

func call(c *cc, _ bool) {
	argCount := c.argumentList()
	c.emitOp(vm.OP_CALL)
	c.emitByte(byte(argCount))
}

func (c *cc) argumentList() int {
	count := 0
	if !c.check(token.RIGHT_PAREN) {
		for {
			c.expression()
			if count == maxArgs {
				c.error("Can't have more than 255 arguments.")
			}
			count++
			if !c.match(token.COMMA) {
				break
			}
		}
	}
	c.consume(token.RIGHT_PAREN, "Expect ')' after arguments.")
	return count
}

func variable(c *cc, canAssign bool) {
	c.namedVariable(c.p.previous.Lexeme, canAssign)
}
