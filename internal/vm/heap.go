package vm

// Heap tracks every object the VM has allocated (for the shutdown sweep)
// and the intern table all live strings are registered in. It is shared by
// the compiler (which interns string literals and identifier names as
// constants) and the running VM, so compiling and running against the same VM instance never
// produces two ObjStrings with equal content.
type Heap struct {
	objects Object // intrusive singly-linked list, insert-at-head
	strings *Table // intern set: ObjString -> NilValue, used as a set
}

// NewHeap returns an empty Heap with its own intern table.
func NewHeap() *Heap {
	return &Heap{strings: NewTable()}
}

func (h *Heap) track(o Object) {
	hdr := o.header()
	hdr.Next = h.objects
	h.objects = o
}

// CopyString interns chars, copying it if not already present. Use this
// when the caller doesn't own a private buffer (e.g. a lexeme slice into
// the source text, which must not be mutated or reused as a heap object).
func (h *Heap) CopyString(chars string) *ObjString {
	hash := FNV1a32(chars)
	if existing := h.strings.FindString(chars, hash); existing != nil {
		return existing
	}
	str := &ObjString{Chars: chars, Hash: hash}
	h.track(str)
	h.strings.Set(str, NilValue)
	return str
}

// TakeString interns chars, where the caller has just built chars (e.g. by
// concatenation) and has no other reference to keep around. If an
// equal-content string is already interned, the freshly-built one is
// simply discarded (Go's GC reclaims it; there is no manual free here).
func (h *Heap) TakeString(chars string) *ObjString {
	hash := FNV1a32(chars)
	if existing := h.strings.FindString(chars, hash); existing != nil {
		return existing
	}
	str := &ObjString{Chars: chars, Hash: hash}
	h.track(str)
	h.strings.Set(str, NilValue)
	return str
}

// NewFunction allocates an (initially empty) ObjFunction with a fresh
// Chunk, tracked on the object list.
func (h *Heap) NewFunction() *ObjFunction {
	fn := &ObjFunction{Chunk: NewChunk()}
	h.track(fn)
	return fn
}

// NewNative wraps fn as a tracked ObjNative under the given name.
func (h *Heap) NewNative(name string, fn NativeFn) *ObjNative {
	native := &ObjNative{Name: name, Fn: fn}
	h.track(native)
	return native
}

// Sweep walks (conceptually) the intrusive object list at VM shutdown and
// drops it along with the intern table. Go's own garbage collector
// reclaims the memory; this exists so the object graph has an explicit
// allocation-to-shutdown-sweep lifecycle rather than an implicit one, and
// so a future manual-memory port has a single, already-correct place to
// free from.
func (h *Heap) Sweep() {
	h.objects = nil
	h.strings = NewTable()
}
