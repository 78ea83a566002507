package ir

import "sort"

// ConvertToMaxSSA rewrites fb so that every value live across a block
// boundary is passed explicitly as a block parameter (spec.md §4.6). With
// cut == nil it applies globally; otherwise only blocks in cut gain
// parameters, and only for values whose defining block is also in cut.
// Liveness is still computed over the whole function; values that cross
// the cut's boundary are left as-is
// (this is the "Option<BlockSet>" cut described in spec.md §4.6,
// interpreted as "only touch blocks in the cut").
//
// The algorithm is a direct global-liveness formulation rather than
// dominance-frontier phi placement, which is the right tool for *maximal*
// SSA: every block on a path between a value's definition and a use gets
// a parameter for it, not just the minimal set of merge points a minimal
// (non-maximal) SSA form would need.
//
// Contract preserved: observable behavior is unchanged; on return, for
// every value v and block b with b != defBlock(v) where v is (still,
// post-rewrite) used, v's use has been replaced by a BlockParam of b
// (spec.md §4.6, §8 scenario 5).
func (fb *FunctionBody) ConvertToMaxSSA(cut map[Block]bool) {
	inCut := func(b Block) bool {
		return cut == nil || cut[b]
	}

	defBlock := make(map[Value]Block)
	fb.ForEachBlock(func(b Block, blk *BlockData) bool {
		for _, p := range blk.Params {
			defBlock[p.Value] = b
		}
		for _, v := range blk.Insts {
			if fb.ValueDef(v).Kind() != ValueKindNone {
				defBlock[v] = b
			}
		}
		return true
	})

	use := make(map[Block]map[Value]bool)
	def := make(map[Block]map[Value]bool)
	var blocks []Block
	fb.ForEachBlock(func(b Block, blk *BlockData) bool {
		blocks = append(blocks, b)
		use[b] = map[Value]bool{}
		def[b] = map[Value]bool{}
		for _, p := range blk.Params {
			def[b][p.Value] = true
		}
		record := func(v Value) {
			root := fb.ResolveAlias(v)
			if db, ok := defBlock[root]; ok && db != b {
				use[b][root] = true
			}
		}
		for _, v := range blk.Insts {
			def[b][v] = true
			fb.VisitUses(v, record)
		}
		if blk.Terminator.Kind == TerminatorCondBr {
			record(blk.Terminator.Cond)
		}
		if blk.Terminator.Kind == TerminatorBrTable {
			record(blk.Terminator.Index)
		}
		blk.Terminator.VisitEdges(func(e Edge) {
			for _, a := range e.Args {
				record(a)
			}
		})
		if blk.Terminator.Kind == TerminatorReturn {
			for _, a := range blk.Terminator.Args {
				record(a)
			}
		}
		return true
	})

	liveIn := make(map[Block]map[Value]bool)
	liveOut := make(map[Block]map[Value]bool)
	for _, b := range blocks {
		liveIn[b] = map[Value]bool{}
		liveOut[b] = map[Value]bool{}
	}

	changed := true
	for changed {
		changed = false
		for _, b := range blocks {
			out := map[Value]bool{}
			for _, s := range fb.Block(b).Succs {
				for v := range liveIn[s] {
					out[v] = true
				}
			}
			in := map[Value]bool{}
			for v := range use[b] {
				in[v] = true
			}
			for v := range out {
				if !def[b][v] {
					in[v] = true
				}
			}
			if !setsEqual(in, liveIn[b]) || !setsEqual(out, liveOut[b]) {
				liveIn[b], liveOut[b] = in, out
				changed = true
			}
		}
	}

	// paramOrder[b] is the deterministic, block-local order in which the
	// values crossing into b gain a parameter: sorted by Value identity so
	// that the parameter-creation pass below and the edge-argument-
	// threading pass that follows it walk every block's crossing values in
	// lockstep. Using two independent map range orders here previously
	// risked binding block b's Params[i] to one value while edges supplied
	// their i-th argument for a different one whenever two or more values
	// crossed into the same block.
	paramOrder := make(map[Block][]Value)
	for _, b := range blocks {
		if !inCut(b) {
			continue
		}
		var crossing []Value
		for v := range liveIn[b] {
			if defBlock[v] == b {
				continue
			}
			if !inCut(defBlock[v]) {
				continue
			}
			crossing = append(crossing, v)
		}
		sort.Slice(crossing, func(i, j int) bool { return crossing[i] < crossing[j] })
		paramOrder[b] = crossing
	}

	paramFor := make(map[Value]map[Block]Value)
	for _, b := range blocks {
		for _, v := range paramOrder[b] {
			ty, ok := fb.Ty(v)
			if !ok {
				ty = fb.Tys(v)[0]
			}
			if paramFor[v] == nil {
				paramFor[v] = map[Block]Value{}
			}
			paramFor[v][b] = fb.AppendParamToBlock(b, ty)
		}
	}

	// valueAt resolves what v should be read as when observed at the
	// entry of block b: its own param there if b needed one, else the
	// original value (true at defBlock(v), and a safe fallback anywhere
	// liveness proved it is not needed).
	valueAt := func(v Value, b Block) Value {
		if m, ok := paramFor[v]; ok {
			if p, ok := m[b]; ok {
				return p
			}
		}
		return v
	}

	// Rewrite every use site to read through the per-block parameter.
	for _, b := range blocks {
		blk := fb.Block(b)
		for _, inst := range blk.Insts {
			fb.UpdateUses(inst, func(operand *Value) {
				root := fb.ResolveAlias(*operand)
				*operand = valueAt(root, b)
			})
		}
		switch blk.Terminator.Kind {
		case TerminatorCondBr:
			blk.Terminator.Cond = valueAt(fb.ResolveAlias(blk.Terminator.Cond), b)
		case TerminatorBrTable:
			blk.Terminator.Index = valueAt(fb.ResolveAlias(blk.Terminator.Index), b)
		}
		for i := range blk.Terminator.Edges {
			for j, a := range blk.Terminator.Edges[i].Args {
				blk.Terminator.Edges[i].Args[j] = valueAt(fb.ResolveAlias(a), b)
			}
		}
		if blk.Terminator.Kind == TerminatorReturn {
			for i, a := range blk.Terminator.Args {
				blk.Terminator.Args[i] = valueAt(fb.ResolveAlias(a), b)
			}
		}
	}

	// Thread the correct argument onto every edge into a block that
	// gained a parameter: an edge from pred to b must supply
	// valueAt(v, pred), which is either v itself (pred is v's def block),
	// pred's own parameter for v (pred also needed one), or v again if
	// pred never needed it because no live path through pred required it.
	// Walking paramOrder[b] here, the same slice (and order) used to create
	// b's Params above, keeps each edge's Args[i] bound to the same value
	// as Params[i].
	for _, b := range blocks {
		for _, v := range paramOrder[b] {
			for _, pred := range fb.Block(b).Preds {
				term := &fb.Block(pred).Terminator
				for i := range term.Edges {
					if term.Edges[i].Target != b {
						continue
					}
					term.Edges[i].Args = append(term.Edges[i].Args, valueAt(v, pred))
				}
			}
		}
	}
}

func setsEqual(a, b map[Value]bool) bool {
	if len(a) != len(b) {
		return false
	}
	for v := range a {
		if !b[v] {
			return false
		}
	}
	return true
}
