package vm

import (
	"fmt"
	"math"
	"strconv"
)

// ValueKind discriminates the variants of Value.
type ValueKind byte

const (
	ValNil ValueKind = iota
	ValBool
	ValNumber
	ValObj
)

// Value is the engine's tagged union: nil, boolean, double, or a reference
// to a heap Object. Equality is type-first (see Equals); truthiness treats
// only nil and false as falsey.
type Value struct {
	Kind   ValueKind
	Bool   bool
	Number float64
	Obj    Object
}

// NilValue, True and False are the three non-numeric, non-object constants
// the compiler emits for the NIL/TRUE/FALSE opcodes.
var (
	NilValue = Value{Kind: ValNil}
	True     = Value{Kind: ValBool, Bool: true}
	False    = Value{Kind: ValBool, Bool: false}
)

// Number wraps a float64 as a Value.
func Number(n float64) Value { return Value{Kind: ValNumber, Number: n} }

// Bool wraps a bool as a Value.
func Bool(b bool) Value {
	if b {
		return True
	}
	return False
}

// FromObj wraps a heap Object as a Value.
func FromObj(o Object) Value { return Value{Kind: ValObj, Obj: o} }

// IsNil, IsBool, IsNumber, IsObj report the Value's variant.
func (v Value) IsNil() bool    { return v.Kind == ValNil }
func (v Value) IsBool() bool   { return v.Kind == ValBool }
func (v Value) IsNumber() bool { return v.Kind == ValNumber }
func (v Value) IsObj() bool    { return v.Kind == ValObj }

// IsString, IsFunction, IsNative report whether an ValObj Value wraps that
// particular Object variant.
func (v Value) IsString() bool {
	if v.Kind != ValObj {
		return false
	}
	_, ok := v.Obj.(*ObjString)
	return ok
}

func (v Value) IsFunction() bool {
	if v.Kind != ValObj {
		return false
	}
	_, ok := v.Obj.(*ObjFunction)
	return ok
}

func (v Value) IsNative() bool {
	if v.Kind != ValObj {
		return false
	}
	_, ok := v.Obj.(*ObjNative)
	return ok
}

// AsString, AsFunction, AsNative assume the caller already checked the Is*
// predicate; they panic on a mismatched variant, which would indicate a
// compiler bug rather than a user-reachable condition.
func (v Value) AsString() *ObjString     { return v.Obj.(*ObjString) }
func (v Value) AsFunction() *ObjFunction { return v.Obj.(*ObjFunction) }
func (v Value) AsNative() *ObjNative     { return v.Obj.(*ObjNative) }

// IsFalsey reports whether v is falsey: nil or boolean false. Everything
// else -- including 0 and the empty string -- is truthy.
func (v Value) IsFalsey() bool {
	switch v.Kind {
	case ValNil:
		return true
	case ValBool:
		return !v.Bool
	default:
		return false
	}
}

// Equals implements the language's value-equality: different variants are
// never equal, numbers compare with IEEE ==, and object equality is
// reference identity (sound because strings are interned).
func (v Value) Equals(other Value) bool {
	if v.Kind != other.Kind {
		return false
	}
	switch v.Kind {
	case ValNil:
		return true
	case ValBool:
		return v.Bool == other.Bool
	case ValNumber:
		return v.Number == other.Number
	case ValObj:
		return v.Obj == other.Obj
	default:
		return false
	}
}

// String renders v the way the `print` statement and the disassembler do.
func (v Value) String() string {
	switch v.Kind {
	case ValNil:
		return "nil"
	case ValBool:
		if v.Bool {
			return "true"
		}
		return "false"
	case ValNumber:
		return formatNumber(v.Number)
	case ValObj:
		return v.Obj.String()
	default:
		return "<invalid value>"
	}
}

func formatNumber(n float64) string {
	if math.IsInf(n, 1) {
		return "inf"
	}
	if math.IsInf(n, -1) {
		return "-inf"
	}
	if math.IsNaN(n) {
		return "nan"
	}
	return strconv.FormatFloat(n, 'g', -1, 64)
}

// TypeName returns a human-readable name for v's type.
func (v Value) TypeName() string {
	switch v.Kind {
	case ValNil:
		return "nil"
	case ValBool:
		return "boolean"
	case ValNumber:
		return "number"
	case ValObj:
		switch v.Obj.(type) {
		case *ObjString:
			return "string"
		case *ObjFunction:
			return "function"
		case *ObjNative:
			return "native function"
		default:
			return "object"
		}
	default:
		return "unknown"
	}
}

// ============================================================================
// Heap objects
// ============================================================================

// ObjType tags the variant of a heap Object.
type ObjType byte

const (
	ObjTypeString ObjType = iota
	ObjTypeFunction
	ObjTypeNative
)

// Object is the common interface every heap-allocated value satisfies.
// Header embeds the intrusive-list link that chains every allocated object
// into the Heap's object list (see Heap.objects and Heap.Sweep).
type Object interface {
	Type() ObjType
	String() string
	header() *Header
}

// Header is embedded by every Object variant. Next chains every allocated
// object into the Heap's object list, insert-at-head, so a shutdown sweep can
// walk them all without a separate allocator.
type Header struct {
	Next Object
}

func (h *Header) header() *Header { return h }

// ObjString is an immutable, interned byte sequence with a precomputed
// FNV-1a hash. Two ObjStrings with equal Chars are always pointer-identical
// once interned (see Heap.CopyString / Heap.TakeString).
type ObjString struct {
	Header
	Chars string
	Hash  uint32
}

func (s *ObjString) Type() ObjType { return ObjTypeString }
func (s *ObjString) String() string {
	return s.Chars
}

// FNV1a32 computes the 32-bit FNV-1a hash of s, used both for interning and
// as the hash-table probe key.
func FNV1a32(s string) uint32 {
	const offsetBasis uint32 = 2166136261
	const prime uint32 = 16777619
	hash := offsetBasis
	for i := 0; i < len(s); i++ {
		hash ^= uint32(s[i])
		hash *= prime
	}
	return hash
}

// ObjFunction is a compiled function: its arity, its own Chunk, and an
// optional name (nil for the top-level script).
type ObjFunction struct {
	Header
	Arity int
	Chunk *Chunk
	Name  *ObjString
}

func (f *ObjFunction) Type() ObjType { return ObjTypeFunction }
func (f *ObjFunction) String() string {
	if f.Name == nil {
		return "<script>"
	}
	return fmt.Sprintf("<fn %s>", f.Name.Chars)
}

// NativeFn is a builtin implemented in Go: given the argument slice, it
// returns a Value or a runtime error message.
type NativeFn func(args []Value) (Value, error)

// ObjNative wraps a NativeFn so it can be stored as a Value and called
// through the same OP_CALL path as a compiled function.
type ObjNative struct {
	Header
	Name string
	Fn   NativeFn
}

func (n *ObjNative) Type() ObjType { return ObjTypeNative }
func (n *ObjNative) String() string {
	return fmt.Sprintf("<native fn %s>", n.Name)
}
