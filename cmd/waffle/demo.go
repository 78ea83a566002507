package main

import "github.com/bytecodealliance/waffle/ir"

// buildDemoModule constructs a small in-memory Module by hand, using only
// the public construction API: one imported function, one lazily-retained
// function (so ExpandAllFuncs has something to report on if no Decoder is
// registered), and one fully materialized function computing
// max(a, b) = a > b ? a : b, which exercises CondBr, the same
// sub-expression computed in both branches, and a value that crosses a block
// boundary for ConvertToMaxSSA to thread.
//
// This stands in for DecodeModule: the CLI has no binary Wasm codec
// (spec.md §1 names that out of scope), so -demo is the only way to get a
// Module into the driver without an external collaborator plugged in.
func buildDemoModule() *ir.Module {
	m := ir.NewModule()

	maxSig := m.Signatures.Push(ir.SignatureData{
		Params:  []ir.Type{ir.TypeI32, ir.TypeI32},
		Returns: []ir.Type{ir.TypeI32},
	})

	importSig := m.Signatures.Push(ir.SignatureData{
		Params:  []ir.Type{ir.TypeI32},
		Returns: nil,
	})
	m.Funcs.Push(ir.ImportDecl(ir.Signature(importSig), "log"))

	m.Funcs.Push(ir.LazyDecl(ir.Signature(maxSig), "unexpanded", &ir.LazyBody{Bytes: []byte{0x00}}))

	body := ir.NewFunctionBody(
		[]ir.Type{ir.TypeI32, ir.TypeI32},
		[]ir.Type{ir.TypeI32},
	)

	entry := body.CreateBlock()
	thenBlock := body.CreateBlock()
	elseBlock := body.CreateBlock()
	join := body.CreateBlock()

	a := body.AppendParamToBlock(entry, ir.TypeI32)
	b := body.AppendParamToBlock(entry, ir.TypeI32)

	args := body.ArgPool().Intern([]ir.Value{a, b})
	i32 := body.TypePool().Intern([]ir.Type{ir.TypeI32})
	boolTy := body.TypePool().Intern([]ir.Type{ir.TypeI32})
	cmp := body.AppendInstruction(entry, ir.OpI32GtS, args, boolTy)
	body.SetTerminator(entry, ir.CondBr(cmp,
		ir.Edge{Target: thenBlock},
		ir.Edge{Target: elseBlock}))

	// then: a+b, computed again in else, threaded into join purely for
	// exercise; the value join returns from this branch is a.
	sumArgs := body.ArgPool().Intern([]ir.Value{a, b})
	sum := body.AppendInstruction(thenBlock, ir.OpI32Add, sumArgs, i32)
	body.Annotate(sum, "same a+b as the else branch's copy; GVN keeps both, as they are in different blocks")
	body.SetTerminator(thenBlock, ir.Br(join, []ir.Value{a, sum}))

	sumArgs2 := body.ArgPool().Intern([]ir.Value{a, b})
	sum2 := body.AppendInstruction(elseBlock, ir.OpI32Add, sumArgs2, i32)
	body.SetTerminator(elseBlock, ir.Br(join, []ir.Value{b, sum2}))

	winner := body.AppendParamToBlock(join, ir.TypeI32)
	_ = body.AppendParamToBlock(join, ir.TypeI32) // unused sum passthrough
	body.SetTerminator(join, ir.Return([]ir.Value{winner}))

	m.Funcs.Push(ir.BodyDecl(ir.Signature(maxSig), "max", body))

	m.Exports = append(m.Exports, ir.Export{Name: "max", Kind: ir.ExportFunc, Index: 2})
	return m
}
