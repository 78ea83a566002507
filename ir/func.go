package ir

import (
	"fmt"

	"github.com/bytecodealliance/waffle/entity"
)

// FunctionBody aggregates everything that makes up one function's SSA
// graph (spec.md §3.6): the pre-SSA locals (for Wasm round-tripping), the
// value and block pools, the ArgPool/TypePool interning tables, and the
// auxiliary value->local and value->source-location maps.
//
// The entry block is always the first block CreateBlock minted, i.e.
// Block(0). A block whose Terminator.Kind is TerminatorReturn or
// TerminatorUnreachable is a terminal block.
type FunctionBody struct {
	// NumParams is the number of leading Locals that are the function's
	// formal parameters.
	NumParams int
	// Locals is the ordered list of pre-SSA local slots; Locals[:NumParams]
	// mirror the owning signature's parameter types.
	Locals []Type
	// Rets is the function's declared return types.
	Rets []Type

	values *entity.Pool[ValueDef]
	blocks *entity.Pool[BlockData]

	argPool  *entity.ListPool[Value]
	typePool *entity.ListPool[Type]

	// valueLocals maps a Value to the Local it was materialized from, or
	// LocalInvalid if the value has no corresponding pre-SSA local.
	valueLocals []Local
	// sourceLocs maps a Value to its debug SourceLoc, or
	// SourceLocInvalid if none was recorded (e.g. FrontendOptions.Debug
	// was false at decode time).
	sourceLocs []SourceLoc
	// annotations holds debug text keyed by Value, read back through
	// Annotation; no semantic pass consults it and the printer does not
	// print it.
	annotations map[Value]string
	// constPool records the bit pattern carried by every *Const Operator
	// value, keyed by Value identity. It exists alongside ValueDef (rather
	// than folded into it) because ValueDef's Operator shape is generic
	// over every opcode; only *Const opcodes need a payload, and most
	// functions have few of them.
	constPool map[Value]uint64
}

// NewFunctionBody allocates an empty body for a function with the given
// parameter types and return types. The entry block is not created
// automatically; callers call CreateBlock for it as the first block.
func NewFunctionBody(paramTypes []Type, rets []Type) *FunctionBody {
	locals := make([]Type, len(paramTypes))
	copy(locals, paramTypes)
	retsCopy := make([]Type, len(rets))
	copy(retsCopy, rets)
	return &FunctionBody{
		NumParams:   len(paramTypes),
		Locals:      locals,
		Rets:        retsCopy,
		values:      entity.NewPool[ValueDef](),
		blocks:      entity.NewPool[BlockData](),
		argPool:     entity.NewListPool[Value](),
		typePool:    entity.NewListPool[Type](),
		annotations: make(map[Value]string),
	}
}

// ArgPool returns the interning pool backing Operator/Trace argument
// lists.
func (fb *FunctionBody) ArgPool() *entity.ListPool[Value] { return fb.argPool }

// TypePool returns the interning pool backing Operator result-type lists.
func (fb *FunctionBody) TypePool() *entity.ListPool[Type] { return fb.typePool }

// EntryBlock returns the function's entry block, i.e. Block(0). It panics
// if no block has been created yet.
func (fb *FunctionBody) EntryBlock() Block {
	if fb.blocks.Len() == 0 {
		panic("ir: EntryBlock called before any block was created")
	}
	return Block(0)
}

// NumBlocks returns the number of blocks created so far, including any
// marked invalid by a pass.
func (fb *FunctionBody) NumBlocks() int { return fb.blocks.Len() }

// NumValues returns the number of values allocated so far.
func (fb *FunctionBody) NumValues() int { return fb.values.Len() }

// Block returns a pointer to the data for block b, allowing in-place
// mutation (e.g. by a pass rewriting the terminator).
func (fb *FunctionBody) Block(b Block) *BlockData {
	return fb.blocks.Get(entity.ID(b))
}

// ForEachBlock visits every block in insertion order. Returning false from
// fn stops iteration early.
func (fb *FunctionBody) ForEachBlock(fn func(Block, *BlockData) bool) {
	fb.blocks.ForEach(func(id entity.ID, data *BlockData) bool {
		return fn(Block(id), data)
	})
}

// ValueDef returns the definition bound to v.
func (fb *FunctionBody) ValueDef(v Value) ValueDef {
	return *fb.values.Get(entity.ID(v))
}

// SetValueDef overwrites the definition bound to v in place; the handle v
// itself is preserved. This is how ResolvePlaceholder and alias rewrites
// are implemented, and how a pass deletes an instruction (by writing
// NoneDef after checking for no live uses).
func (fb *FunctionBody) SetValueDef(v Value, def ValueDef) {
	fb.values.Set(entity.ID(v), def)
}

// ForEachValue visits every value in insertion order. Returning false from
// fn stops iteration early.
func (fb *FunctionBody) ForEachValue(fn func(Value, ValueDef) bool) {
	fb.values.ForEach(func(id entity.ID, def *ValueDef) bool {
		return fn(Value(id), *def)
	})
}

// growAux extends valueLocals/sourceLocs up to and including index v,
// filling new slots with their respective invalid sentinels.
func (fb *FunctionBody) growAux(v Value) {
	for Value(len(fb.valueLocals)) <= v {
		fb.valueLocals = append(fb.valueLocals, LocalInvalid)
	}
	for Value(len(fb.sourceLocs)) <= v {
		fb.sourceLocs = append(fb.sourceLocs, SourceLocInvalid)
	}
}

// allocValue pushes def as a fresh Value and grows the auxiliary maps to
// cover it.
func (fb *FunctionBody) allocValue(def ValueDef) Value {
	v := Value(fb.values.Push(def))
	fb.growAux(v)
	return v
}

// ValueLocal returns the pre-SSA Local that v was materialized from, if
// any.
func (fb *FunctionBody) ValueLocal(v Value) (Local, bool) {
	if int(v) >= len(fb.valueLocals) {
		return LocalInvalid, false
	}
	l := fb.valueLocals[v]
	return l, l.IsValid()
}

// SetValueLocal records that v corresponds to Wasm local l.
func (fb *FunctionBody) SetValueLocal(v Value, l Local) {
	fb.growAux(v)
	fb.valueLocals[v] = l
}

// SourceLoc returns the debug location recorded for v, if any.
func (fb *FunctionBody) SourceLoc(v Value) (SourceLoc, bool) {
	if int(v) >= len(fb.sourceLocs) {
		return SourceLocInvalid, false
	}
	l := fb.sourceLocs[v]
	return l, l.IsValid()
}

// SetSourceLoc records loc as the debug location of v.
func (fb *FunctionBody) SetSourceLoc(v Value, loc SourceLoc) {
	fb.growAux(v)
	fb.sourceLocs[v] = loc
}

// Annotate attaches debug text to v, which Annotation returns; it has no
// effect on any semantic pass and is not printed by Display or
// DisplayVerbose. Mirrors the reference
// engine's value annotation facility (ssa/vs.go valueAnnotations).
func (fb *FunctionBody) Annotate(v Value, text string) {
	fb.annotations[v] = text
}

// Annotation returns the debug text attached to v, if any.
func (fb *FunctionBody) Annotation(v Value) (string, bool) {
	t, ok := fb.annotations[v]
	return t, ok
}

// CreateBlock allocates a new, empty block and returns its handle. The
// first call establishes the entry block.
func (fb *FunctionBody) CreateBlock() Block {
	return Block(fb.blocks.Push(BlockData{}))
}

// AppendParamToBlock appends a parameter of type typ to block and returns
// the fresh Value bound to it via a BlockParam definition.
func (fb *FunctionBody) AppendParamToBlock(block Block, typ Type) Value {
	data := fb.Block(block)
	index := len(data.Params)
	v := fb.allocValue(BlockParamDef(block, index, typ))
	data.Params = append(data.Params, BlockParamEntry{Type: typ, Value: v})
	return v
}

// AppendInstruction appends one Operator application to the tail of
// block's instruction list (before its terminator) and returns the Value
// bound to it. args and tys must already be interned into fb's
// ArgPool/TypePool. If len(tys) == 0 the instruction is an effectful
// statement with no result; if len(tys) > 1 individual results are
// obtained via PickOutput.
func (fb *FunctionBody) AppendInstruction(block Block, op Operator, args ArgHandle, tys TypeHandle) Value {
	v := fb.allocValue(OperatorDef(op, args, tys))
	fb.Block(block).Insts = append(fb.Block(block).Insts, v)
	return v
}

// AppendConst appends a *Const Operator producing typ with the given bit
// pattern (reinterpreted according to typ by the eventual consumer: the
// low 32 bits for i32/f32, all 64 for i64/f64) and records it for constant
// folding/GVN. It is a thin convenience wrapper around AppendInstruction
// for the common case of materializing a literal.
func (fb *FunctionBody) AppendConst(block Block, typ Type, bits uint64) Value {
	args := fb.argPool.Intern(nil)
	tys := fb.typePool.Intern([]Type{typ})
	v := fb.AppendInstruction(block, constOpcodeFor(typ), args, tys)
	fb.SetConstValue(v, bits)
	return v
}

// AppendPickOutput allocates a PickOutput value projecting the index-th
// result of source and appends it to block's instruction list.
func (fb *FunctionBody) AppendPickOutput(block Block, source Value, index int, typ Type) Value {
	v := fb.allocValue(PickOutputDef(source, index, typ))
	fb.Block(block).Insts = append(fb.Block(block).Insts, v)
	return v
}

// AppendTrace allocates a Trace diagnostic value and appends it to
// block's instruction list.
func (fb *FunctionBody) AppendTrace(block Block, id int, args ArgHandle) Value {
	v := fb.allocValue(TraceDef(id, args))
	fb.Block(block).Insts = append(fb.Block(block).Insts, v)
	return v
}

// AllocatePlaceholder allocates a Placeholder value of type typ, used as a
// forward declaration during graph construction. It must be resolved via
// ResolvePlaceholder before the body is finalized; a surviving Placeholder
// is an invariant violation (spec.md §3.4).
func (fb *FunctionBody) AllocatePlaceholder(typ Type) Value {
	return fb.allocValue(PlaceholderDef(typ))
}

// ResolvePlaceholder replaces v's Placeholder definition with def in
// place; v's identity is preserved so existing references to v do not
// need to be patched. It panics if v is not currently a Placeholder.
func (fb *FunctionBody) ResolvePlaceholder(v Value, def ValueDef) {
	if fb.ValueDef(v).Kind() != ValueKindPlaceholder {
		panic(fmt.Sprintf("ir: ResolvePlaceholder called on non-Placeholder value %s", v))
	}
	fb.SetValueDef(v, def)
}

// SetTerminator installs term as block's terminator and wires
// predecessor/successor edges to every target (spec.md §3.8 pred/succ
// symmetry). Calling this more than once on the same block replaces the
// previous terminator and its edges are not automatically un-wired from
// targets; callers that rewrite a terminator must use RemoveEdges first if
// the old targets should lose this predecessor.
func (fb *FunctionBody) SetTerminator(block Block, term Terminator) {
	fb.Block(block).Terminator = term
	term.VisitEdges(func(e Edge) {
		fb.addEdge(block, e.Target)
	})
}

// RemoveEdges un-wires block's current terminator's successor edges from
// their targets' predecessor lists, without altering the terminator
// itself. Call before replacing a terminator with SetTerminator to keep
// pred/succ symmetry intact.
func (fb *FunctionBody) RemoveEdges(block Block) {
	term := fb.Block(block).Terminator
	term.VisitEdges(func(e Edge) {
		fb.removeEdge(block, e.Target)
	})
}

func (fb *FunctionBody) addEdge(from, to Block) {
	fb.Block(from).Succs = append(fb.Block(from).Succs, to)
	fb.Block(to).Preds = append(fb.Block(to).Preds, from)
}

func (fb *FunctionBody) removeEdge(from, to Block) {
	fb.Block(from).Succs = removeOne(fb.Block(from).Succs, to)
	fb.Block(to).Preds = removeOne(fb.Block(to).Preds, from)
}

func removeOne(blocks []Block, target Block) []Block {
	for i, b := range blocks {
		if b == target {
			return append(blocks[:i:i], blocks[i+1:]...)
		}
	}
	return blocks
}

// ResolveAlias follows a (possibly empty) chain of Alias definitions
// starting at v and returns the first non-Alias Value reached. It panics
// if the chain does not terminate within NumValues()+1 steps, which can
// only happen if an Alias cycle was introduced (an invariant violation
// per spec.md §3.8).
func (fb *FunctionBody) ResolveAlias(v Value) Value {
	limit := fb.NumValues() + 1
	for i := 0; i < limit; i++ {
		def := fb.ValueDef(v)
		if def.Kind() != ValueKindAlias {
			return v
		}
		v = def.AliasTarget()
	}
	panic("ir: Alias cycle detected resolving " + v.String())
}

// Ty returns the result type of v's definition, resolving through a
// single level is not performed for Alias (callers must ResolveAlias
// first); per spec.md §4.3: Some(t) for single-result Operator,
// BlockParam, PickOutput, Placeholder; none for zero/multi-result
// Operator, Trace, Alias, and None.
func (fb *FunctionBody) Ty(v Value) (Type, bool) {
	def := fb.ValueDef(v)
	switch def.Kind() {
	case ValueKindBlockParam:
		_, _, typ := def.BlockParam()
		return typ, true
	case ValueKindPickOutput:
		_, _, typ := def.PickOutput()
		return typ, true
	case ValueKindPlaceholder:
		return def.PlaceholderType(), true
	case ValueKindOperator:
		_, _, tys := def.Operator()
		list := fb.typePool.Get(tys)
		if len(list) == 1 {
			return list[0], true
		}
		return typeInvalid, false
	default:
		return typeInvalid, false
	}
}

// Tys returns the full result-type slice of v's definition: the complete
// list for Operator, a one-element slice for BlockParam/PickOutput/
// Placeholder, and empty otherwise (per spec.md §4.3).
func (fb *FunctionBody) Tys(v Value) []Type {
	def := fb.ValueDef(v)
	switch def.Kind() {
	case ValueKindBlockParam:
		_, _, typ := def.BlockParam()
		return []Type{typ}
	case ValueKindPickOutput:
		_, _, typ := def.PickOutput()
		return []Type{typ}
	case ValueKindPlaceholder:
		return []Type{def.PlaceholderType()}
	case ValueKindOperator:
		_, _, tys := def.Operator()
		return fb.typePool.Get(tys)
	default:
		return nil
	}
}

// VisitUses invokes fn once per operand of v's definition, left to right:
// every arg for Operator/Trace, the one source for PickOutput/Alias,
// nothing for BlockParam/Placeholder. It panics if v's definition is None,
// since visiting the uses of an undefined value is a programming error
// (spec.md §3.4).
func (fb *FunctionBody) VisitUses(v Value, fn func(Value)) {
	def := fb.ValueDef(v)
	switch def.Kind() {
	case ValueKindOperator:
		_, args, _ := def.Operator()
		for _, arg := range fb.argPool.Get(args) {
			fn(arg)
		}
	case ValueKindPickOutput:
		source, _, _ := def.PickOutput()
		fn(source)
	case ValueKindAlias:
		fn(def.AliasTarget())
	case ValueKindTrace:
		_, args := def.Trace()
		for _, arg := range fb.argPool.Get(args) {
			fn(arg)
		}
	case ValueKindBlockParam, ValueKindPlaceholder:
		// no operands
	case ValueKindNone:
		panic("ir: VisitUses called on a None value: " + v.String())
	}
}

// UpdateUses is the mutable counterpart to VisitUses: fn may replace each
// operand of v's definition in place, in the same left-to-right order
// VisitUses would visit them (spec.md §8: VisitUses/UpdateUses bijection).
func (fb *FunctionBody) UpdateUses(v Value, fn func(*Value)) {
	def := fb.ValueDef(v)
	switch def.Kind() {
	case ValueKindOperator:
		op, args, tys := def.Operator()
		list := fb.argPool.Get(args)
		changed := make([]Value, len(list))
		copy(changed, list)
		for i := range changed {
			fn(&changed[i])
		}
		newArgs := fb.argPool.Intern(changed)
		fb.SetValueDef(v, OperatorDef(op, newArgs, tys))
	case ValueKindPickOutput:
		source, index, typ := def.PickOutput()
		fn(&source)
		fb.SetValueDef(v, PickOutputDef(source, index, typ))
	case ValueKindAlias:
		target := def.AliasTarget()
		fn(&target)
		fb.SetValueDef(v, AliasDef(target))
	case ValueKindTrace:
		id, args := def.Trace()
		list := fb.argPool.Get(args)
		changed := make([]Value, len(list))
		copy(changed, list)
		for i := range changed {
			fn(&changed[i])
		}
		newArgs := fb.argPool.Intern(changed)
		fb.SetValueDef(v, TraceDef(id, newArgs))
	case ValueKindBlockParam, ValueKindPlaceholder:
		// no operands
	case ValueKindNone:
		panic("ir: UpdateUses called on a None value: " + v.String())
	}
}
