package compiler

import (
	"quill/internal/token"
	"quill/internal/vm"
)

func (c *cc) beginScope() {
	c.f.scopeDepth++
}

// endScope drops every local declared at the scope being closed, emitting
// a single POPN for all of them rather than one POP per local.
func (c *cc) endScope() {
	c.f.scopeDepth--

	n := 0
	for len(c.f.locals) > 0 && c.f.locals[len(c.f.locals)-1].depth > c.f.scopeDepth {
		c.f.locals = c.f.locals[:len(c.f.locals)-1]
		n++
	}
	if n > 0 {
		c.emitOp(vm.OP_POPN)
		c.emitByte(byte(n))
	}
}

// identifierConstant interns name as a string constant and returns its
// pool index, the representation used for every global reference.
func (c *cc) identifierConstant(name string) int {
	return c.chunk().AddConstant(vm.FromObj(c.p.heap.CopyString(name)))
}

// declareLocal registers the variable named by the previous token as a
// new local in the current scope. A duplicate name at the same depth is
// an error; shadowing a name from an enclosing scope is fine.
func (c *cc) declareLocal() {
	if c.f.scopeDepth == 0 {
		return
	}
	name := c.p.previous.Lexeme

	for i := len(c.f.locals) - 1; i >= 0; i-- {
		l := c.f.locals[i]
		if l.depth != -1 && l.depth < c.f.scopeDepth {
			break
		}
		if l.name == name {
			c.error("Already a variable with this name in this scope.")
		}
	}

	c.addLocal(name)
}

func (c *cc) addLocal(name string) {
	if len(c.f.locals) >= maxLocals {
		c.error("Too many local variables in function.")
		return
	}
	c.f.locals = append(c.f.locals, local{name: name, depth: -1})
}

// resolveLocal scans from the innermost local outward so shadowing
// resolves to the nearest declaration. A depth of -1 on a match means the
// variable is being referenced inside its own initializer.
func (c *cc) resolveLocal(name string) int {
	for i := len(c.f.locals) - 1; i >= 0; i-- {
		if c.f.locals[i].name == name {
			if c.f.locals[i].depth == -1 {
				c.error("Can't read local variable in its own initializer.")
			}
			return i
		}
	}
	return -1
}

// parseVariable consumes an identifier and, for a global (scope depth 0),
// returns its constant-pool index. For a local it declares the local and
// returns a sentinel, since locals are addressed by slot, not constant.
func (c *cc) parseVariable(errMsg string) int {
	c.consume(token.IDENTIFIER, errMsg)

	c.declareLocal()
	if c.f.scopeDepth > 0 {
		return 0
	}
	return c.identifierConstant(c.p.previous.Lexeme)
}

func (c *cc) markInitialized() {
	if c.f.scopeDepth == 0 {
		return
	}
	c.f.locals[len(c.f.locals)-1].depth = c.f.scopeDepth
}

// defineVariable finalizes a variable declaration: a local is simply
// marked initialized (its value is already sitting in its stack slot); a
// global emits the opcode that stores it under its interned name.
func (c *cc) defineVariable(global int) {
	if c.f.scopeDepth > 0 {
		c.markInitialized()
		return
	}
	c.chunk().WriteIndexOp(global, c.p.previous.Line, vm.OP_DEFINE_GLOBAL, vm.OP_DEFINE_GLOBAL_LONG)
}

// namedVariable resolves name to a local slot or a global constant and
// emits the matching get, or (when an assignment is both allowed by
// context and present) compiles the right-hand side and emits the
// matching set.
func (c *cc) namedVariable(name string, canAssign bool) {
	var getOp, setOp vm.OpCode
	var getLongOp, setLongOp vm.OpCode
	arg := c.resolveLocal(name)
	if arg != -1 {
		getOp, getLongOp = vm.OP_GET_LOCAL, vm.OP_GET_LOCAL_LONG
		setOp, setLongOp = vm.OP_SET_LOCAL, vm.OP_SET_LOCAL_LONG
	} else {
		arg = c.identifierConstant(name)
		getOp, getLongOp = vm.OP_GET_GLOBAL, vm.OP_GET_GLOBAL_LONG
		setOp, setLongOp = vm.OP_SET_GLOBAL, vm.OP_SET_GLOBAL_LONG
	}

	if canAssign && c.match(token.EQUAL) {
		c.expression()
		c.chunk().WriteIndexOp(arg, c.p.previous.Line, setOp, setLongOp)
		return
	}
	c.chunk().WriteIndexOp(arg, c.p.previous.Line, getOp, getLongOp)
}
