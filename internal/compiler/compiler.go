// Package compiler implements the single-pass Pratt parser that fuses
// parsing and code generation: it consumes the token stream produced by
// internal/lexer and emits bytecode directly into a vm.Chunk, with no
// intermediate syntax tree.
package compiler

import (
	"io"
	"os"
	"strconv"

	"quill/internal/lexer"
	"quill/internal/token"
	"quill/internal/vm"
)

// maxLocals exceeds 255 so that the long-index opcode families are
// actually exercised by a function with many locals.
const maxLocals = 512

// maxArgs bounds both parameter count and call-site argument count, since
// CALL's operand is a single byte.
const maxArgs = 255

type funcType int

const (
	typeFunction funcType = iota
	typeScript
)

type local struct {
	name  string
	depth int // -1 means declared but not yet initialized
}

// loopScope is one entry in the stack of enclosing loops, threaded through
// nested loop compilation to support continue.
type loopScope struct {
	enclosing  *loopScope
	start      int // jump target for continue
	scopeDepth int // locals deeper than this are popped by continue
}

// frame is one compiler activation: the function being built and its
// locals. Nested function declarations push a new frame linked to the
// enclosing one via `enclosing`, mirroring the call stack of the source
// being compiled.
type frame struct {
	enclosing *frame
	function  *vm.ObjFunction
	typ       funcType
	locals    []local
	scopeDepth int
	loop      *loopScope
}

// parser holds state shared across an entire compilation: the token
// stream, error/recovery flags, and the heap used to intern literals.
type parser struct {
	lex *lexer.Lexer

	current  token.Token
	previous token.Token

	hadError  bool
	panicMode bool

	heap   *vm.Heap
	errOut io.Writer
}

// cc ("compiler context") bundles the shared parser with whichever
// function frame is currently being compiled. Parsing functions take *cc
// rather than separate parser/frame arguments since the two are almost
// always needed together.
type cc struct {
	p *parser
	f *frame
}

func newFrame(enclosing *frame, typ funcType, heap *vm.Heap, name string) *frame {
	fn := heap.NewFunction()
	if name != "" {
		fn.Name = heap.CopyString(name)
	}
	fr := &frame{
		enclosing: enclosing,
		function:  fn,
		typ:       typ,
	}
	// Slot 0 is reserved for the called function itself (or, for methods
	// in a future revision, the receiver); it is never addressable by
	// name from user code.
	fr.locals = append(fr.locals, local{name: "", depth: 0})
	return fr
}

// Compile compiles source into a top-level Function. ok is false if any
// lexical, syntactic, or semantic compile-time error occurred; the
// returned function's bytecode should then be discarded rather than run.
func Compile(heap *vm.Heap, source string, errOut io.Writer) (fn *vm.ObjFunction, ok bool) {
	if errOut == nil {
		errOut = os.Stderr
	}
	p := &parser{lex: lexer.New(source), heap: heap, errOut: errOut}
	c := &cc{p: p, f: newFrame(nil, typeScript, heap, "")}

	c.advance()
	for !c.match(token.EOF) {
		c.declaration()
	}

	function := c.endCompiler()
	return function, !p.hadError
}

// Interpret is the engine's literal external entry point: it compiles
// source against v's heap and, if compilation succeeds, runs the result
// on v. Compile errors short-circuit before Run is ever entered.
func Interpret(v *vm.VM, source string) vm.InterpretResult {
	fn, ok := Compile(v.Heap, source, v.ErrorOutput())
	if !ok {
		return vm.InterpretCompileError
	}
	return v.Run(fn)
}

// ============================================================================
// Token stream plumbing
// ============================================================================

func (c *cc) advance() {
	c.p.previous = c.p.current
	for {
		c.p.current = c.p.lex.NextToken()
		if c.p.current.Type != token.ERROR {
			break
		}
		c.errorAtCurrent(c.p.current.Lexeme)
	}
}

func (c *cc) check(t token.Type) bool {
	return c.p.current.Type == t
}

func (c *cc) match(t token.Type) bool {
	if !c.check(t) {
		return false
	}
	c.advance()
	return true
}

func (c *cc) consume(t token.Type, message string) {
	if c.p.current.Type == t {
		c.advance()
		return
	}
	c.errorAtCurrent(message)
}

// ============================================================================
// Bytecode emission
// ============================================================================

func (c *cc) chunk() *vm.Chunk { return c.f.function.Chunk }

func (c *cc) emitByte(b byte) {
	c.chunk().WriteByte(b, c.p.previous.Line)
}

func (c *cc) emitOp(op vm.OpCode) {
	c.chunk().WriteOpcode(op, c.p.previous.Line)
}

func (c *cc) emitOps(a, b vm.OpCode) {
	c.emitOp(a)
	c.emitOp(b)
}

func (c *cc) emitConstant(v vm.Value) {
	c.chunk().WriteConstant(v, c.p.previous.Line)
}

// emitJump writes op followed by a placeholder 3-byte operand and returns
// the offset of that operand, to be patched once the target is known.
func (c *cc) emitJump(op vm.OpCode) int {
	c.emitOp(op)
	c.emitByte(0xff)
	c.emitByte(0xff)
	c.emitByte(0xff)
	return c.chunk().Count() - 3
}

// patchJump backpatches the 3-byte operand at offset so it jumps to the
// current code position.
func (c *cc) patchJump(offset int) {
	jump := c.chunk().Count() - offset - 3
	if jump > 0xFFFFFF {
		c.error("Too much code to jump over.")
	}
	code := c.chunk().Code
	code[offset] = byte(jump)
	code[offset+1] = byte(jump >> 8)
	code[offset+2] = byte(jump >> 16)
}

// emitLoop emits a backward JUMP_BACK to loopStart.
func (c *cc) emitLoop(loopStart int) {
	c.emitOp(vm.OP_JUMP_BACK)
	offset := c.chunk().Count() - loopStart + 3
	if offset > 0xFFFFFF {
		c.error("Loop body too large.")
	}
	c.emitByte(byte(offset))
	c.emitByte(byte(offset >> 8))
	c.emitByte(byte(offset >> 16))
}

func (c *cc) emitReturn() {
	c.emitOp(vm.OP_NIL)
	c.emitOp(vm.OP_RETURN)
}

// endCompiler finishes the current frame's function: an implicit return
// is appended to cover a body that falls off the end without one, and the
// frame is popped back to its enclosing one.
func (c *cc) endCompiler() *vm.ObjFunction {
	c.emitReturn()
	fn := c.f.function
	c.f = c.f.enclosing
	return fn
}

// ============================================================================
// Literal parsing helpers
// ============================================================================

func parseNumber(lexeme string) float64 {
	n, _ := strconv.ParseFloat(lexeme, 64)
	return n
}
