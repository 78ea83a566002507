package ir

import "github.com/bytecodealliance/waffle/entity"

// ValueKind tags which of ValueDef's seven disjoint shapes is populated.
// Since Go has no tagged-union type, ValueDef is a flattened struct (the
// same technique the reference engine uses for its Instruction type) where
// only the fields relevant to Kind are meaningful; dispatch is always by
// Kind, never by probing fields.
type ValueKind byte

const (
	// ValueKindNone is an uninitialized slot: freshly allocated but not yet
	// defined. Visiting uses of a None value is a programming error.
	ValueKindNone ValueKind = iota
	// ValueKindBlockParam is the index-th parameter of a block.
	ValueKindBlockParam
	// ValueKindOperator applies an Operator to interned argument/result
	// lists.
	ValueKindOperator
	// ValueKindPickOutput projects the index-th result of a multi-result
	// Operator (possibly through aliases).
	ValueKindPickOutput
	// ValueKindAlias is a rename: uses of this value are uses of Target.
	ValueKindAlias
	// ValueKindPlaceholder is a forward declaration resolved before the
	// body is finalized. Surviving finalization is an invariant violation.
	ValueKindPlaceholder
	// ValueKindTrace is a side-effect-free diagnostic annotation, ignored
	// by semantics and preserved by passes.
	ValueKindTrace
)

// String implements fmt.Stringer.
func (k ValueKind) String() string {
	switch k {
	case ValueKindNone:
		return "none"
	case ValueKindBlockParam:
		return "blockparam"
	case ValueKindOperator:
		return "operator"
	case ValueKindPickOutput:
		return "pickoutput"
	case ValueKindAlias:
		return "alias"
	case ValueKindPlaceholder:
		return "placeholder"
	case ValueKindTrace:
		return "trace"
	default:
		return "unknown"
	}
}

// ValueDef is the definition bound to exactly one Value. See ValueKind for
// the seven shapes it can take; field meaning depends on Kind:
//
//	BlockParam:  block, index, typ
//	Operator:    op, args (ArgHandle), tys (TypeHandle)
//	PickOutput:  source, index, typ
//	Alias:       source (the alias target)
//	Placeholder: typ
//	Trace:       traceID, args (ArgHandle)
//	None:        (no fields meaningful)
type ValueDef struct {
	kind    ValueKind
	block   Block
	source  Value
	index   int
	typ     Type
	op      Operator
	args    ArgHandle
	tys     TypeHandle
	traceID int
}

// ArgHandle references an argument-list interned in a FunctionBody's
// ArgPool.
type ArgHandle = entity.ListHandle

// TypeHandle references a type-list interned in a FunctionBody's TypePool.
type TypeHandle = entity.ListHandle

// NoneDef is the definition of a freshly allocated, not-yet-defined slot.
var NoneDef = ValueDef{kind: ValueKindNone}

// BlockParamDef constructs a BlockParam definition.
func BlockParamDef(block Block, index int, typ Type) ValueDef {
	return ValueDef{kind: ValueKindBlockParam, block: block, index: index, typ: typ}
}

// OperatorDef constructs an Operator definition. args/tys must have been
// interned into the owning FunctionBody's ArgPool/TypePool.
func OperatorDef(op Operator, args ArgHandle, tys TypeHandle) ValueDef {
	return ValueDef{kind: ValueKindOperator, op: op, args: args, tys: tys}
}

// PickOutputDef constructs a PickOutput definition projecting the index-th
// result of source, which must itself resolve (through aliases) to an
// Operator with sufficient arity.
func PickOutputDef(source Value, index int, typ Type) ValueDef {
	return ValueDef{kind: ValueKindPickOutput, source: source, index: index, typ: typ}
}

// AliasDef constructs an Alias definition redirecting uses to target.
func AliasDef(target Value) ValueDef {
	return ValueDef{kind: ValueKindAlias, source: target}
}

// PlaceholderDef constructs a Placeholder definition of the given type,
// awaiting resolution via FunctionBody.ResolvePlaceholder.
func PlaceholderDef(typ Type) ValueDef {
	return ValueDef{kind: ValueKindPlaceholder, typ: typ}
}

// TraceDef constructs a Trace diagnostic annotation.
func TraceDef(id int, args ArgHandle) ValueDef {
	return ValueDef{kind: ValueKindTrace, traceID: id, args: args}
}

// Kind returns which of the seven shapes this definition has.
func (d ValueDef) Kind() ValueKind { return d.kind }

// IsNone reports whether d is an uninitialized slot.
func (d ValueDef) IsNone() bool { return d.kind == ValueKindNone }

// BlockParam returns the fields of a BlockParam definition. It panics if
// Kind() != ValueKindBlockParam.
func (d ValueDef) BlockParam() (block Block, index int, typ Type) {
	if d.kind != ValueKindBlockParam {
		panic("ir: BlockParam called on non-BlockParam ValueDef")
	}
	return d.block, d.index, d.typ
}

// Operator returns the fields of an Operator definition. It panics if
// Kind() != ValueKindOperator.
func (d ValueDef) Operator() (op Operator, args ArgHandle, tys TypeHandle) {
	if d.kind != ValueKindOperator {
		panic("ir: Operator called on non-Operator ValueDef")
	}
	return d.op, d.args, d.tys
}

// PickOutput returns the fields of a PickOutput definition. It panics if
// Kind() != ValueKindPickOutput.
func (d ValueDef) PickOutput() (source Value, index int, typ Type) {
	if d.kind != ValueKindPickOutput {
		panic("ir: PickOutput called on non-PickOutput ValueDef")
	}
	return d.source, d.index, d.typ
}

// AliasTarget returns the target of an Alias definition. It panics if
// Kind() != ValueKindAlias.
func (d ValueDef) AliasTarget() Value {
	if d.kind != ValueKindAlias {
		panic("ir: AliasTarget called on non-Alias ValueDef")
	}
	return d.source
}

// PlaceholderType returns the declared type of a Placeholder definition.
// It panics if Kind() != ValueKindPlaceholder.
func (d ValueDef) PlaceholderType() Type {
	if d.kind != ValueKindPlaceholder {
		panic("ir: PlaceholderType called on non-Placeholder ValueDef")
	}
	return d.typ
}

// Trace returns the fields of a Trace definition. It panics if
// Kind() != ValueKindTrace.
func (d ValueDef) Trace() (id int, args ArgHandle) {
	if d.kind != ValueKindTrace {
		panic("ir: Trace called on non-Trace ValueDef")
	}
	return d.traceID, d.args
}
