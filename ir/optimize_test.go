package ir_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bytecodealliance/waffle/ir"
)

func TestConstFoldsBinaryAdd(t *testing.T) {
	fb := ir.NewFunctionBody(nil, []ir.Type{ir.TypeI32})
	b := fb.CreateBlock()
	x := fb.AppendConst(b, ir.TypeI32, 2)
	y := fb.AppendConst(b, ir.TypeI32, 3)
	args := fb.ArgPool().Intern([]ir.Value{x, y})
	tys := fb.TypePool().Intern([]ir.Type{ir.TypeI32})
	sum := fb.AppendInstruction(b, ir.OpI32Add, args, tys)
	fb.SetTerminator(b, ir.Return([]ir.Value{sum}))

	fb.Optimize(ir.OptOptions{DisableGVN: true})

	bits, ok := fb.ConstValue(sum)
	require.True(t, ok)
	require.Equal(t, uint64(5), bits)
}

func TestGVNAliasesDuplicateComputation(t *testing.T) {
	fb := ir.NewFunctionBody([]ir.Type{ir.TypeI32, ir.TypeI32}, []ir.Type{ir.TypeI32, ir.TypeI32})
	b := fb.CreateBlock()
	p0 := fb.AppendParamToBlock(b, ir.TypeI32)
	p1 := fb.AppendParamToBlock(b, ir.TypeI32)
	tys := fb.TypePool().Intern([]ir.Type{ir.TypeI32})

	args1 := fb.ArgPool().Intern([]ir.Value{p0, p1})
	first := fb.AppendInstruction(b, ir.OpI32Add, args1, tys)

	args2 := fb.ArgPool().Intern([]ir.Value{p0, p1})
	second := fb.AppendInstruction(b, ir.OpI32Add, args2, tys)

	fb.SetTerminator(b, ir.Return([]ir.Value{first, second}))

	fb.Optimize(ir.OptOptions{DisableConstProp: true})

	require.Equal(t, first, fb.ResolveAlias(second))
}

func TestGVNNormalizesCommutativeArgOrder(t *testing.T) {
	fb := ir.NewFunctionBody([]ir.Type{ir.TypeI32, ir.TypeI32}, []ir.Type{ir.TypeI32, ir.TypeI32})
	b := fb.CreateBlock()
	p0 := fb.AppendParamToBlock(b, ir.TypeI32)
	p1 := fb.AppendParamToBlock(b, ir.TypeI32)
	tys := fb.TypePool().Intern([]ir.Type{ir.TypeI32})

	forward := fb.ArgPool().Intern([]ir.Value{p0, p1})
	first := fb.AppendInstruction(b, ir.OpI32Add, forward, tys)

	reversed := fb.ArgPool().Intern([]ir.Value{p1, p0})
	second := fb.AppendInstruction(b, ir.OpI32Add, reversed, tys)

	fb.SetTerminator(b, ir.Return([]ir.Value{first, second}))
	fb.Optimize(ir.OptOptions{DisableConstProp: true})

	require.Equal(t, first, fb.ResolveAlias(second))
}

func TestDeadCodeEliminationRemovesUnreferencedPureValue(t *testing.T) {
	fb := ir.NewFunctionBody(nil, []ir.Type{ir.TypeI32})
	b := fb.CreateBlock()
	live := fb.AppendConst(b, ir.TypeI32, 1)
	dead := fb.AppendConst(b, ir.TypeI32, 2)
	_ = dead
	fb.SetTerminator(b, ir.Return([]ir.Value{live}))

	fb.Optimize(ir.DefaultOptOptions())

	require.True(t, fb.ValueDef(dead).IsNone())
	require.False(t, fb.ValueDef(live).IsNone())
}

func TestDeadCodeEliminationKeepsValueReferencedOnlyByTrace(t *testing.T) {
	fb := ir.NewFunctionBody(nil, nil)
	b := fb.CreateBlock()
	traced := fb.AppendConst(b, ir.TypeI32, 42)
	traceArgs := fb.ArgPool().Intern([]ir.Value{traced})
	fb.AppendTrace(b, 1, traceArgs)
	fb.SetTerminator(b, ir.Return(nil))

	fb.Optimize(ir.DefaultOptOptions())

	require.False(t, fb.ValueDef(traced).IsNone())
}

func TestDeadCodeEliminationKeepsSideEffects(t *testing.T) {
	fb := ir.NewFunctionBody(nil, nil)
	b := fb.CreateBlock()
	noArgs := fb.ArgPool().Intern(nil)
	noTys := fb.TypePool().Intern(nil)
	call := fb.AppendInstruction(b, ir.OpCall, noArgs, noTys)
	fb.SetTerminator(b, ir.Return(nil))

	fb.Optimize(ir.DefaultOptOptions())

	require.False(t, fb.ValueDef(call).IsNone())
}
