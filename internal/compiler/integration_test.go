package compiler

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quill/internal/vm"
)

// run compiles and executes source against a fresh VM, returning stdout,
// stderr, and the interpret result.
func run(t *testing.T, source string) (string, string, vm.InterpretResult) {
	t.Helper()
	v := vm.New()
	var out, errOut bytes.Buffer
	v.SetOutput(&out)
	v.SetErrorOutput(&errOut)

	result := Interpret(v, source)
	return out.String(), errOut.String(), result
}

func TestConcreteScenarios(t *testing.T) {
	tests := []struct {
		name   string
		source string
		stdout string
	}{
		{
			"operator precedence",
			`print 1 + 2 * 3;`,
			"7\n",
		},
		{
			"string interning identity",
			`var a = "hi"; var b = "hi"; print a == b;`,
			"true\n",
		},
		{
			"classic for loop",
			`var x = 0; for (var i = 0; i < 3; i = i + 1) { x = x + i; } print x;`,
			"3\n",
		},
		{
			"recursive fibonacci",
			`fun fib(n) { if (n < 2) return n; return fib(n-1) + fib(n-2); } print fib(10);`,
			"55\n",
		},
		{
			"continue inside while",
			`var s = 0; var i = 0; while (i < 5) { if (i == 3) { i = i + 1; continue; } s = s + i; i = i + 1; } print s;`,
			"7\n",
		},
		{
			"string concatenation",
			`print "foo" + "bar";`,
			"foobar\n",
		},
		{
			"switch statement",
			`var n = 2; switch (n) { case 1: print "one"; case 2: print "two"; default: print "many"; }`,
			"two\n",
		},
		{
			"switch falls to default",
			`var n = 9; switch (n) { case 1: print "one"; default: print "many"; }`,
			"many\n",
		},
		{
			"logical short circuit",
			`print false and (1/0 == 1);`,
			"false\n",
		},
		{
			"nested function calls as call arguments",
			`var total = 0; fun add(a, b) { return a + b; } total = add(add(1, 2), 3); print total;`,
			"6\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, errOut, result := run(t, tt.source)
			require.Equal(t, vm.InterpretOK, result, "stderr: %s", errOut)
			assert.Equal(t, tt.stdout, out)
		})
	}
}

func TestUndefinedVariableRuntimeError(t *testing.T) {
	out, errOut, result := run(t, `print undefined_var;`)
	assert.Equal(t, vm.InterpretRuntimeError, result)
	assert.Empty(t, out)
	assert.Contains(t, errOut, "Undefined variable 'undefined_var'")
}

func TestVMUsableAfterRuntimeError(t *testing.T) {
	v := vm.New()
	var out, errOut bytes.Buffer
	v.SetOutput(&out)
	v.SetErrorOutput(&errOut)

	result := Interpret(v, `print nope;`)
	assert.Equal(t, vm.InterpretRuntimeError, result)

	out.Reset()
	result = Interpret(v, `print 1 + 1;`)
	assert.Equal(t, vm.InterpretOK, result)
	assert.Equal(t, "2\n", out.String())
}

func TestSetGlobalOnUndefinedNameErrorsWithoutCreating(t *testing.T) {
	v := vm.New()
	var out, errOut bytes.Buffer
	v.SetOutput(&out)
	v.SetErrorOutput(&errOut)

	result := Interpret(v, `x = 1;`)
	assert.Equal(t, vm.InterpretRuntimeError, result)
	assert.Contains(t, errOut.String(), "Undefined variable 'x'")

	// The failed assignment must not have defined x.
	errOut.Reset()
	result = Interpret(v, `print x;`)
	assert.Equal(t, vm.InterpretRuntimeError, result)
	assert.Empty(t, out.String())
	assert.Contains(t, errOut.String(), "Undefined variable 'x'")
}

func TestSelfReferentialInitializerIsCompileError(t *testing.T) {
	_, errOut, result := run(t, `{ var x = x; }`)
	assert.Equal(t, vm.InterpretCompileError, result)
	assert.Contains(t, errOut, "own initializer")
}

func TestContinueOutsideLoopIsCompileError(t *testing.T) {
	_, errOut, result := run(t, `continue;`)
	assert.Equal(t, vm.InterpretCompileError, result)
	assert.Contains(t, errOut, "outside of a loop")
}

func TestReturnAtTopLevelIsCompileError(t *testing.T) {
	_, errOut, result := run(t, `return 1;`)
	assert.Equal(t, vm.InterpretCompileError, result)
	assert.Contains(t, errOut, "top-level")
}

func TestArityMismatchRuntimeError(t *testing.T) {
	_, errOut, result := run(t, `fun f(a, b) { return a + b; } f(1);`)
	assert.Equal(t, vm.InterpretRuntimeError, result)
	assert.Contains(t, errOut, "Expected 2 arguments but got 1")
}

func TestDuplicateLocalDeclarationIsCompileError(t *testing.T) {
	_, errOut, result := run(t, `{ var a = 1; var a = 2; }`)
	assert.Equal(t, vm.InterpretCompileError, result)
	assert.True(t, strings.Contains(errOut, "Already a variable"))
}

func TestRuntimeErrorReportsCallStack(t *testing.T) {
	_, errOut, result := run(t, `fun inner() { return 1 + "x"; } fun outer() { return inner(); } outer();`)
	assert.Equal(t, vm.InterpretRuntimeError, result)
	assert.Contains(t, errOut, "in inner")
	assert.Contains(t, errOut, "in outer")
	assert.Contains(t, errOut, "in script")
}
