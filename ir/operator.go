package ir

// Operator tags the Wasm instruction an Operator ValueDef applies. The IR
// treats every Operator uniformly: its operands and result types travel as
// separate interned lists (ArgHandle/TypeHandle) rather than being baked
// into per-opcode structs, so adding an opcode here never changes
// ValueDef's shape. This mirrors the reference engine's own flat Opcode
// enum (internal/engine/wazevo/ssa Opcode), trimmed to the subset the IR
// core needs to exercise end to end; the front-end/back-end collaborators
// are expected to extend it as they gain opcodes.
type Operator uint16

const (
	OpInvalid Operator = iota

	// Constants.
	OpI32Const
	OpI64Const
	OpF32Const
	OpF64Const

	// Integer arithmetic.
	OpI32Add
	OpI32Sub
	OpI32Mul
	OpI32DivS
	OpI32DivU
	OpI32RemS
	OpI32RemU
	OpI64Add
	OpI64Sub
	OpI64Mul
	OpI64DivS
	OpI64DivU
	OpI64RemS
	OpI64RemU

	// Integer bitwise/shift.
	OpI32And
	OpI32Or
	OpI32Xor
	OpI32Shl
	OpI32ShrS
	OpI32ShrU
	OpI64And
	OpI64Or
	OpI64Xor
	OpI64Shl
	OpI64ShrS
	OpI64ShrU

	// Integer comparisons.
	OpI32Eq
	OpI32Ne
	OpI32LtS
	OpI32LtU
	OpI32GtS
	OpI32GtU
	OpI64Eq
	OpI64Ne
	OpI64LtS
	OpI64LtU
	OpI64GtS
	OpI64GtU

	// Floating-point arithmetic.
	OpF32Add
	OpF32Sub
	OpF32Mul
	OpF32Div
	OpF64Add
	OpF64Sub
	OpF64Mul
	OpF64Div

	// Conversions.
	OpI32WrapI64
	OpI64ExtendI32S
	OpI64ExtendI32U
	OpF32DemoteF64
	OpF64PromoteF32

	// Memory.
	OpLoad
	OpStore

	// Globals.
	OpGlobalGet
	OpGlobalSet

	// Calls.
	OpCall
	OpCallIndirect

	// Control/misc.
	OpSelect
	OpUnreachable
	OpNop
)

var operatorNames = map[Operator]string{
	OpI32Const:      "i32.const",
	OpI64Const:      "i64.const",
	OpF32Const:      "f32.const",
	OpF64Const:      "f64.const",
	OpI32Add:        "i32.add",
	OpI32Sub:        "i32.sub",
	OpI32Mul:        "i32.mul",
	OpI32DivS:       "i32.div_s",
	OpI32DivU:       "i32.div_u",
	OpI32RemS:       "i32.rem_s",
	OpI32RemU:       "i32.rem_u",
	OpI64Add:        "i64.add",
	OpI64Sub:        "i64.sub",
	OpI64Mul:        "i64.mul",
	OpI64DivS:       "i64.div_s",
	OpI64DivU:       "i64.div_u",
	OpI64RemS:       "i64.rem_s",
	OpI64RemU:       "i64.rem_u",
	OpI32And:        "i32.and",
	OpI32Or:         "i32.or",
	OpI32Xor:        "i32.xor",
	OpI32Shl:        "i32.shl",
	OpI32ShrS:       "i32.shr_s",
	OpI32ShrU:       "i32.shr_u",
	OpI64And:        "i64.and",
	OpI64Or:         "i64.or",
	OpI64Xor:        "i64.xor",
	OpI64Shl:        "i64.shl",
	OpI64ShrS:       "i64.shr_s",
	OpI64ShrU:       "i64.shr_u",
	OpI32Eq:         "i32.eq",
	OpI32Ne:         "i32.ne",
	OpI32LtS:        "i32.lt_s",
	OpI32LtU:        "i32.lt_u",
	OpI32GtS:        "i32.gt_s",
	OpI32GtU:        "i32.gt_u",
	OpI64Eq:         "i64.eq",
	OpI64Ne:         "i64.ne",
	OpI64LtS:        "i64.lt_s",
	OpI64LtU:        "i64.lt_u",
	OpI64GtS:        "i64.gt_s",
	OpI64GtU:        "i64.gt_u",
	OpF32Add:        "f32.add",
	OpF32Sub:        "f32.sub",
	OpF32Mul:        "f32.mul",
	OpF32Div:        "f32.div",
	OpF64Add:        "f64.add",
	OpF64Sub:        "f64.sub",
	OpF64Mul:        "f64.mul",
	OpF64Div:        "f64.div",
	OpI32WrapI64:    "i32.wrap_i64",
	OpI64ExtendI32S: "i64.extend_i32_s",
	OpI64ExtendI32U: "i64.extend_i32_u",
	OpF32DemoteF64:  "f32.demote_f64",
	OpF64PromoteF32: "f64.promote_f32",
	OpLoad:          "load",
	OpStore:         "store",
	OpGlobalGet:     "global.get",
	OpGlobalSet:     "global.set",
	OpCall:          "call",
	OpCallIndirect:  "call_indirect",
	OpSelect:        "select",
	OpUnreachable:   "unreachable",
	OpNop:           "nop",
}

// String implements fmt.Stringer.
func (o Operator) String() string {
	if name, ok := operatorNames[o]; ok {
		return name
	}
	return "invalid"
}

// IsCommutative reports whether swapping the operator's two arguments
// yields an equal value. Used by GVN-style passes to normalize the
// argument order before hashing.
func (o Operator) IsCommutative() bool {
	switch o {
	case OpI32Add, OpI32Mul, OpI32And, OpI32Or, OpI32Xor, OpI32Eq, OpI32Ne,
		OpI64Add, OpI64Mul, OpI64And, OpI64Or, OpI64Xor, OpI64Eq, OpI64Ne,
		OpF32Add, OpF32Mul, OpF64Add, OpF64Mul:
		return true
	default:
		return false
	}
}

// IsConst reports whether o is one of the *Const opcodes.
func (o Operator) IsConst() bool {
	switch o {
	case OpI32Const, OpI64Const, OpF32Const, OpF64Const:
		return true
	default:
		return false
	}
}

// HasSideEffects reports whether o's application cannot be eliminated even
// if its result is unused (stores, calls, global.set, traps).
func (o Operator) HasSideEffects() bool {
	switch o {
	case OpStore, OpCall, OpCallIndirect, OpGlobalSet, OpUnreachable:
		return true
	default:
		return false
	}
}
