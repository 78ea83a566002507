package ir

import (
	"fmt"

	"github.com/bytecodealliance/waffle/entity"
)

// Each of the handle types below wraps a dense, non-negative 32-bit index
// minted by the entity.Pool that owns it (see entity.Pool). They are kept
// as distinct named types, never aliases of one another or of a bare
// integer, precisely so the compiler rejects code that accidentally passes
// a Block where a Value is expected: a handle is only meaningful relative
// to the pool that produced it.

// Value is an SSA name: it identifies a ValueDef in a FunctionBody's value
// pool and is defined exactly once (modulo Alias chains).
type Value entity.ID

// ValueInvalid is the sentinel for "no value".
const ValueInvalid Value = Value(entity.Invalid)

// IsValid reports whether v refers to an actual slot.
func (v Value) IsValid() bool { return v != ValueInvalid }

// Index returns the underlying dense index.
func (v Value) Index() uint32 { return uint32(v) }

// String implements fmt.Stringer.
func (v Value) String() string {
	if !v.IsValid() {
		return "v_invalid"
	}
	return fmt.Sprintf("v%d", uint32(v))
}

// Block identifies a basic block within a FunctionBody's block pool.
type Block entity.ID

// BlockInvalid is the sentinel for "no block".
const BlockInvalid Block = Block(entity.Invalid)

// IsValid reports whether b refers to an actual slot.
func (b Block) IsValid() bool { return b != BlockInvalid }

// Index returns the underlying dense index.
func (b Block) Index() uint32 { return uint32(b) }

// String implements fmt.Stringer.
func (b Block) String() string {
	if !b.IsValid() {
		return "block_invalid"
	}
	return fmt.Sprintf("block%d", uint32(b))
}

// Local identifies a pre-SSA local slot, used only to round-trip Wasm
// locals (the first n_params locals mirror the signature's parameters).
type Local entity.ID

// LocalInvalid is the sentinel for "no local".
const LocalInvalid Local = Local(entity.Invalid)

// IsValid reports whether l refers to an actual slot.
func (l Local) IsValid() bool { return l != LocalInvalid }

// Index returns the underlying dense index.
func (l Local) Index() uint32 { return uint32(l) }

// String implements fmt.Stringer.
func (l Local) String() string {
	if !l.IsValid() {
		return "local_invalid"
	}
	return fmt.Sprintf("local%d", uint32(l))
}

// Func identifies a function slot in a Module.
type Func entity.ID

// FuncInvalid is the sentinel for "no function".
const FuncInvalid Func = Func(entity.Invalid)

// IsValid reports whether f refers to an actual slot.
func (f Func) IsValid() bool { return f != FuncInvalid }

// Index returns the underlying dense index.
func (f Func) Index() uint32 { return uint32(f) }

// String implements fmt.Stringer.
func (f Func) String() string {
	if !f.IsValid() {
		return "func_invalid"
	}
	return fmt.Sprintf("func%d", uint32(f))
}

// Signature identifies a function type (params -> returns) in a Module.
type Signature entity.ID

// SignatureInvalid is the sentinel for "no signature".
const SignatureInvalid Signature = Signature(entity.Invalid)

// IsValid reports whether s refers to an actual slot.
func (s Signature) IsValid() bool { return s != SignatureInvalid }

// Index returns the underlying dense index.
func (s Signature) Index() uint32 { return uint32(s) }

// String implements fmt.Stringer.
func (s Signature) String() string {
	if !s.IsValid() {
		return "sig_invalid"
	}
	return fmt.Sprintf("sig%d", uint32(s))
}

// Global identifies a Wasm global in a Module.
type Global entity.ID

// GlobalInvalid is the sentinel for "no global".
const GlobalInvalid Global = Global(entity.Invalid)

// IsValid reports whether g refers to an actual slot.
func (g Global) IsValid() bool { return g != GlobalInvalid }

// String implements fmt.Stringer.
func (g Global) String() string {
	if !g.IsValid() {
		return "global_invalid"
	}
	return fmt.Sprintf("global%d", uint32(g))
}

// Table identifies a Wasm table in a Module.
type Table entity.ID

// TableInvalid is the sentinel for "no table".
const TableInvalid Table = Table(entity.Invalid)

// IsValid reports whether t refers to an actual slot.
func (t Table) IsValid() bool { return t != TableInvalid }

// String implements fmt.Stringer.
func (t Table) String() string {
	if !t.IsValid() {
		return "table_invalid"
	}
	return fmt.Sprintf("table%d", uint32(t))
}

// Memory identifies a Wasm linear memory in a Module.
type Memory entity.ID

// MemoryInvalid is the sentinel for "no memory".
const MemoryInvalid Memory = Memory(entity.Invalid)

// IsValid reports whether m refers to an actual slot.
func (m Memory) IsValid() bool { return m != MemoryInvalid }

// String implements fmt.Stringer.
func (m Memory) String() string {
	if !m.IsValid() {
		return "memory_invalid"
	}
	return fmt.Sprintf("memory%d", uint32(m))
}

// SourceFile identifies a debug-info source file name in a Module.
type SourceFile entity.ID

// SourceFileInvalid is the sentinel for "no source file".
const SourceFileInvalid SourceFile = SourceFile(entity.Invalid)

// IsValid reports whether f refers to an actual slot.
func (f SourceFile) IsValid() bool { return f != SourceFileInvalid }

// String implements fmt.Stringer.
func (f SourceFile) String() string {
	if !f.IsValid() {
		return "sourcefile_invalid"
	}
	return fmt.Sprintf("sourcefile%d", uint32(f))
}

// SourceLoc identifies a debug-info (file, line, col) record in a Module.
type SourceLoc entity.ID

// SourceLocInvalid is the sentinel for "no source location".
const SourceLocInvalid SourceLoc = SourceLoc(entity.Invalid)

// IsValid reports whether l refers to an actual slot.
func (l SourceLoc) IsValid() bool { return l != SourceLocInvalid }

// String implements fmt.Stringer.
func (l SourceLoc) String() string {
	if !l.IsValid() {
		return "sourceloc_invalid"
	}
	return fmt.Sprintf("sourceloc%d", uint32(l))
}
