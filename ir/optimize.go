package ir

// Optimize applies the basic optimizations selected by opts — currently
// global value numbering (duplicate-Operator elimination via Alias) and
// constant folding/propagation — to fb in place, per the optimization
// driver contract (spec.md §4.6). The concrete algorithms for GVN and
// constant propagation are external-collaborator territory per spec.md
// §1; what lives in core is the contract every implementation (this one
// included) must uphold:
//
//   - SSA invariants (§3.8) are preserved.
//   - Observable behavior is preserved.
//   - Duplicate computations are redirected via Alias, never by rewriting
//     uses directly, so every other Value referencing the original
//     computation keeps working through ResolveAlias.
//   - Edge arity is never broken.
//   - An instruction is only ever deleted (ValueDef set to None) after
//     confirming it has no remaining uses.
//   - source_locs on every surviving value is left untouched.
func (fb *FunctionBody) Optimize(opts OptOptions) {
	if !opts.DisableConstProp {
		constFold(fb)
	}
	if !opts.DisableGVN {
		gvn(fb)
	}
	deadCodeEliminate(fb)
}

// constFold rewrites any Operator whose every argument resolves (through
// aliases) to a *Const Operator with a matching opcode into its own
// *Const definition, reusing the same Value identity. Non-foldable
// operators (anything with a non-constant argument, or with side effects)
// are left untouched.
func constFold(fb *FunctionBody) {
	fb.ForEachValue(func(v Value, def ValueDef) bool {
		if def.Kind() != ValueKindOperator {
			return true
		}
		op, args, tys := def.Operator()
		if op.HasSideEffects() || op.IsConst() {
			return true
		}
		argVals := fb.argPool.Get(args)
		folded, ok := tryFold(fb, op, argVals)
		if !ok {
			return true
		}
		list := fb.typePool.Get(tys)
		if len(list) != 1 {
			return true
		}
		newArgs := fb.argPool.Intern([]Value{})
		fb.SetValueDef(v, OperatorDef(constOpcodeFor(list[0]), newArgs, tys))
		fb.constPool[v] = folded
		return true
	})
}

// constOpcodeFor returns the *Const opcode producing a value of type t.
func constOpcodeFor(t Type) Operator {
	switch t {
	case TypeI32:
		return OpI32Const
	case TypeI64:
		return OpI64Const
	case TypeF32:
		return OpF32Const
	case TypeF64:
		return OpF64Const
	default:
		panic("ir: constOpcodeFor of non-numeric type " + t.String())
	}
}

// tryFold evaluates op over argVals if every argument resolves to a known
// constant, returning the resulting bit pattern (reinterpreted per the
// result type) and true; otherwise it returns (0, false).
func tryFold(fb *FunctionBody, op Operator, argVals []Value) (uint64, bool) {
	consts := make([]uint64, len(argVals))
	for i, a := range argVals {
		root := fb.ResolveAlias(a)
		c, ok := fb.ConstValue(root)
		if !ok {
			return 0, false
		}
		consts[i] = c
	}
	switch len(consts) {
	case 2:
		return evalBinary(op, consts[0], consts[1])
	default:
		return 0, false
	}
}

func evalBinary(op Operator, x, y uint64) (uint64, bool) {
	switch op {
	case OpI32Add:
		return uint64(uint32(x) + uint32(y)), true
	case OpI32Sub:
		return uint64(uint32(x) - uint32(y)), true
	case OpI32Mul:
		return uint64(uint32(x) * uint32(y)), true
	case OpI64Add:
		return x + y, true
	case OpI64Sub:
		return x - y, true
	case OpI64Mul:
		return x * y, true
	default:
		return 0, false
	}
}

// ConstValue returns the constant bit pattern represented by v's
// definition if v (after alias resolution) is a *Const Operator, and
// whether such a value was found.
func (fb *FunctionBody) ConstValue(v Value) (uint64, bool) {
	v = fb.ResolveAlias(v)
	def := fb.ValueDef(v)
	if def.Kind() != ValueKindOperator {
		return 0, false
	}
	op, _, _ := def.Operator()
	if !op.IsConst() {
		return 0, false
	}
	c, ok := fb.constPool[v]
	return c, ok
}

// SetConstValue records the constant bit pattern carried by a *Const
// Operator value v. AppendConst calls this immediately after allocating
// v; a caller that creates a *Const value through AppendInstruction
// directly calls it itself.
func (fb *FunctionBody) SetConstValue(v Value, bits uint64) {
	if fb.constPool == nil {
		fb.constPool = make(map[Value]uint64)
	}
	fb.constPool[v] = bits
}

// gvnKey identifies an Operator application for deduplication purposes:
// opcode plus the (alias-resolved) argument Values. Commutative operators
// have their two arguments sorted so `a+b` and `b+a` hash identically.
type gvnKey struct {
	block  Block
	op     Operator
	a, b   Value
	n      int
	isConst bool
	bits   uint64
}

// gvn performs block-local (single-pass) common-subexpression
// elimination: whenever two Operator values in the same block compute the
// same opcode over the same alias-resolved arguments, the later one is
// rewritten to Alias(earlier) rather than deleted outright, so any
// existing reference to it keeps working transparently through
// ResolveAlias (spec.md §8 scenario 3). Computations in different blocks
// are never merged, and Operator values that are in no block's
// instruction list are skipped.
func gvn(fb *FunctionBody) {
	instBlock := make(map[Value]Block)
	fb.ForEachBlock(func(b Block, blk *BlockData) bool {
		for _, v := range blk.Insts {
			instBlock[v] = b
		}
		return true
	})
	seen := make(map[gvnKey]Value)
	fb.ForEachValue(func(v Value, def ValueDef) bool {
		if def.Kind() != ValueKindOperator {
			return true
		}
		blk, inBlock := instBlock[v]
		if !inBlock {
			return true
		}
		op, args, tys := def.Operator()
		if op.HasSideEffects() {
			return true
		}
		list := fb.typePool.Get(tys)
		if len(list) != 1 {
			return true
		}
		argVals := fb.argPool.Get(args)
		if len(argVals) > 2 {
			return true
		}
		key := gvnKey{block: blk, op: op, n: len(argVals)}
		switch len(argVals) {
		case 1:
			key.a = fb.ResolveAlias(argVals[0])
		case 2:
			x, y := fb.ResolveAlias(argVals[0]), fb.ResolveAlias(argVals[1])
			if op.IsCommutative() && y < x {
				x, y = y, x
			}
			key.a, key.b = x, y
		}
		if op.IsConst() {
			c, _ := fb.ConstValue(v)
			key.isConst, key.bits = true, c
		}
		if existing, ok := seen[key]; ok {
			fb.SetValueDef(v, AliasDef(existing))
			return true
		}
		seen[key] = v
		return true
	})
}

// deadCodeEliminate sets the definition of any instruction-list Value with
// zero remaining uses (and without side effects) to None, per the
// "delete by setting ValueDef to None only after confirming no live uses"
// contract. Block params, the entry of an Alias chain another live value
// still points to, and anything with side effects are never removed.
// Trace arguments are conservatively treated as uses (spec.md §9 open
// question (a)), so a Trace can keep an otherwise-dead value alive.
func deadCodeEliminate(fb *FunctionBody) {
	refs := make(map[Value]int)
	fb.ForEachValue(func(v Value, def ValueDef) bool {
		if def.Kind() == ValueKindNone {
			return true
		}
		fb.VisitUses(v, func(used Value) {
			refs[fb.ResolveAlias(used)]++
		})
		return true
	})
	fb.ForEachBlock(func(_ Block, blk *BlockData) bool {
		blk.Terminator.VisitEdges(func(e Edge) {
			for _, a := range e.Args {
				refs[fb.ResolveAlias(a)]++
			}
		})
		switch blk.Terminator.Kind {
		case TerminatorCondBr:
			refs[fb.ResolveAlias(blk.Terminator.Cond)]++
		case TerminatorBrTable:
			refs[fb.ResolveAlias(blk.Terminator.Index)]++
		}
		if blk.Terminator.Kind == TerminatorReturn {
			for _, a := range blk.Terminator.Args {
				refs[fb.ResolveAlias(a)]++
			}
		}
		return true
	})

	fb.ForEachBlock(func(_ Block, blk *BlockData) bool {
		kept := blk.Insts[:0]
		for _, v := range blk.Insts {
			def := fb.ValueDef(v)
			if def.Kind() == ValueKindOperator {
				op, _, _ := def.Operator()
				if !op.HasSideEffects() && refs[v] == 0 {
					fb.SetValueDef(v, NoneDef)
					continue
				}
			}
			kept = append(kept, v)
		}
		blk.Insts = kept
		return true
	})
}
