package ir

import (
	"github.com/bytecodealliance/waffle/entity"
)

// SignatureData is a function type: parameter types mapped to return
// types.
type SignatureData struct {
	Params  []Type
	Returns []Type
}

// GlobalData is a Wasm global variable.
type GlobalData struct {
	Type     Type
	Mutable  bool
	InitExpr []byte // opaque initializer expression, preserved verbatim
}

// TableData is a Wasm table. FuncElements is non-nil only when the table
// was decoded with a known, fully-constant element segment; otherwise
// elements are left for the runtime to populate and the printer shows an
// empty table.
type TableData struct {
	ElemType     Type
	Minimum      uint32
	Maximum      uint32 // valid only if HasMaximum
	HasMaximum   bool
	FuncElements []Func
}

// MemorySegment is a single active data segment of a Memory.
type MemorySegment struct {
	Offset uint32
	Data   []byte
}

// MemoryData is a Wasm linear memory.
type MemoryData struct {
	InitialPages uint32
	MaximumPages uint32 // valid only if HasMaximum
	HasMaximum   bool
	Segments     []MemorySegment
}

// ImportKind tags what an Import refers to.
type ImportKind byte

const (
	ImportFunc ImportKind = iota
	ImportGlobal
	ImportTable
	ImportMemory
)

// String implements fmt.Stringer.
func (k ImportKind) String() string {
	switch k {
	case ImportFunc:
		return "func"
	case ImportGlobal:
		return "global"
	case ImportTable:
		return "table"
	case ImportMemory:
		return "memory"
	default:
		return "unknown"
	}
}

// Import is one entry of a Module's import section.
type Import struct {
	Module string
	Name   string
	Kind   ImportKind
	Index  uint32 // index into the corresponding entity pool (Func/Global/Table/Memory)
}

// ExportKind tags what an Export refers to.
type ExportKind byte

const (
	ExportFunc ExportKind = iota
	ExportGlobal
	ExportTable
	ExportMemory
)

// String implements fmt.Stringer.
func (k ExportKind) String() string {
	switch k {
	case ExportFunc:
		return "func"
	case ExportGlobal:
		return "global"
	case ExportTable:
		return "table"
	case ExportMemory:
		return "memory"
	default:
		return "unknown"
	}
}

// Export is one entry of a Module's export section.
type Export struct {
	Name  string
	Kind  ExportKind
	Index uint32
}

// SourceLocData is one debug-info (file, line, col) record.
type SourceLocData struct {
	File SourceFile
	Line uint32
	Col  uint32
}

// DebugTables holds the module-wide debug-info pools. They are left empty
// when FrontendOptions.Debug is false at decode time (spec.md §4.4).
type DebugTables struct {
	SourceLocs  *entity.Pool[SourceLocData]
	SourceFiles *entity.Pool[string]
}

// LazyBody is the unparsed byte range of a function whose body has not
// been expanded yet. It retains the original bytes so an un-expanded
// function round-trips bit for bit.
type LazyBody struct {
	Bytes []byte
}

// Len returns the number of raw bytes retained for this lazy body.
func (l *LazyBody) Len() int { return len(l.Bytes) }

// FuncState tags which state a Func slot is in: an empty slot or one of
// the four materialization states Import/Lazy/Body/Compiled (spec.md
// §3.7).
type FuncState byte

const (
	// FuncStateNone is an empty slot.
	FuncStateNone FuncState = iota
	// FuncStateImport is an external function with no body.
	FuncStateImport
	// FuncStateLazy has a body retained as unparsed bytes.
	FuncStateLazy
	// FuncStateBody is a fully materialized SSA body.
	FuncStateBody
	// FuncStateCompiled has been lowered to an opaque downstream form.
	FuncStateCompiled
)

// String implements fmt.Stringer.
func (s FuncState) String() string {
	switch s {
	case FuncStateNone:
		return "none"
	case FuncStateImport:
		return "import"
	case FuncStateLazy:
		return "lazy"
	case FuncStateBody:
		return "body"
	case FuncStateCompiled:
		return "compiled"
	default:
		return "unknown"
	}
}

// FuncDecl is a function slot in a Module. Like ValueDef and Terminator
// it is a flattened struct dispatched on State.
type FuncDecl struct {
	State    FuncState
	Sig      Signature
	Name     string
	Body     *FunctionBody // FuncStateBody
	Lazy     *LazyBody     // FuncStateLazy
	Compiled any           // FuncStateCompiled: opaque to the IR
}

// ImportDecl constructs an Import function slot.
func ImportDecl(sig Signature, name string) FuncDecl {
	return FuncDecl{State: FuncStateImport, Sig: sig, Name: name}
}

// LazyDecl constructs a Lazy function slot.
func LazyDecl(sig Signature, name string, body *LazyBody) FuncDecl {
	return FuncDecl{State: FuncStateLazy, Sig: sig, Name: name, Lazy: body}
}

// BodyDecl constructs a fully materialized Body function slot.
func BodyDecl(sig Signature, name string, body *FunctionBody) FuncDecl {
	return FuncDecl{State: FuncStateBody, Sig: sig, Name: name, Body: body}
}

// CompiledDecl constructs a Compiled function slot.
func CompiledDecl(sig Signature, name string, opaque any) FuncDecl {
	return FuncDecl{State: FuncStateCompiled, Sig: sig, Name: name, Compiled: opaque}
}

// Module is the top-level aggregate of signatures, functions, globals,
// tables, memories, imports, exports, the optional start function, and
// debug tables (spec.md §4.4).
type Module struct {
	Signatures *entity.Pool[SignatureData]
	Funcs      *entity.Pool[FuncDecl]
	Globals    *entity.Pool[GlobalData]
	Tables     *entity.Pool[TableData]
	Memories   *entity.Pool[MemoryData]

	Imports []Import
	Exports []Export

	StartFunc      Func
	HasStartFunc   bool
	Debug          DebugTables
	FrontendConfig FrontendOptions

	// decoder/encoder are the external codec collaborators used to
	// materialize Lazy bodies and to re-serialize, respectively. They are
	// set by whatever constructed this Module (normally a Decoder
	// implementation) via SetCollaborators; the IR core never implements
	// them itself (spec.md §1 Out of scope).
	decoder Decoder
	encoder Encoder
}

// NewModule returns an empty Module with all pools initialized.
func NewModule() *Module {
	return &Module{
		Signatures: entity.NewPool[SignatureData](),
		Funcs:      entity.NewPool[FuncDecl](),
		Globals:    entity.NewPool[GlobalData](),
		Tables:     entity.NewPool[TableData](),
		Memories:   entity.NewPool[MemoryData](),
		Debug: DebugTables{
			SourceLocs:  entity.NewPool[SourceLocData](),
			SourceFiles: entity.NewPool[string](),
		},
	}
}

// SetCollaborators installs the decoder/encoder used to service
// ExpandAllFuncs and ToWasmBytes. A Decoder implementation normally calls
// this on the Module it returns from DecodeModule.
func (m *Module) SetCollaborators(d Decoder, e Encoder) {
	m.decoder = d
	m.encoder = e
}

// PerFuncBody applies fn to every function currently in the Body state, in
// pool (declaration) order; functions in any other state are skipped
// (spec.md §4.4).
func (m *Module) PerFuncBody(fn func(*FunctionBody)) {
	m.Funcs.ForEach(func(_ entity.ID, decl *FuncDecl) bool {
		if decl.State == FuncStateBody {
			fn(decl.Body)
		}
		return true
	})
}
