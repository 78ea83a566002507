package ir

// BlockParamEntry is one (type, Value) entry in a Block's ordered
// parameter list. The Value itself carries a BlockParam ValueDef; this
// entry exists so the block can answer "how many params, what types"
// without dereferencing into the value pool.
type BlockParamEntry struct {
	Type  Type
	Value Value
}

// BlockData is a basic block's payload, held in a FunctionBody's block
// pool and referenced by the Block handle: an ordered parameter list (the
// phi mechanism, spec.md §3.4/§3.5), an ordered instruction list
// (excluding params and terminator), a terminator, cached
// predecessor/successor lists, and a free-form debug description.
//
// Blocks are emitted and iterated in insertion order (the order
// CreateBlock was called), never CFG order, so the textual dump stays
// stable under editing (spec.md §4.7).
type BlockData struct {
	Params     []BlockParamEntry
	Insts      []Value
	Terminator Terminator
	Preds      []Block
	Succs      []Block
	Desc       string
}

// ParamTypes returns the declared type of each parameter, in order.
func (b *BlockData) ParamTypes() []Type {
	out := make([]Type, len(b.Params))
	for i, p := range b.Params {
		out[i] = p.Type
	}
	return out
}

// ParamValue returns the Value bound to the i-th parameter.
func (b *BlockData) ParamValue(i int) Value {
	return b.Params[i].Value
}
