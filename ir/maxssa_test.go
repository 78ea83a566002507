package ir_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bytecodealliance/waffle/ir"
)

// buildDiamond builds:
//
//	entry(a, b): cond = a > b; condbr cond, then, else
//	then: br join
//	else: br join
//	join: return a
//
// join's return reads `a` (defined in entry) directly, giving
// ConvertToMaxSSA a value that crosses a block boundary without ever being
// an edge argument beforehand.
func buildDiamond(t *testing.T) (*ir.FunctionBody, ir.Block, ir.Block, ir.Block, ir.Block, ir.Value) {
	t.Helper()
	fb := ir.NewFunctionBody([]ir.Type{ir.TypeI32, ir.TypeI32}, []ir.Type{ir.TypeI32})
	entry := fb.CreateBlock()
	thenB := fb.CreateBlock()
	elseB := fb.CreateBlock()
	join := fb.CreateBlock()

	a := fb.AppendParamToBlock(entry, ir.TypeI32)
	b := fb.AppendParamToBlock(entry, ir.TypeI32)
	args := fb.ArgPool().Intern([]ir.Value{a, b})
	tys := fb.TypePool().Intern([]ir.Type{ir.TypeI32})
	cond := fb.AppendInstruction(entry, ir.OpI32GtS, args, tys)
	fb.SetTerminator(entry, ir.CondBr(cond, ir.Edge{Target: thenB}, ir.Edge{Target: elseB}))

	fb.SetTerminator(thenB, ir.Br(join, nil))
	fb.SetTerminator(elseB, ir.Br(join, nil))
	fb.SetTerminator(join, ir.Return([]ir.Value{a}))

	return fb, entry, thenB, elseB, join, a
}

func TestConvertToMaxSSAThreadsCrossBlockValue(t *testing.T) {
	fb, entry, thenB, elseB, join, a := buildDiamond(t)
	_ = thenB
	_ = elseB

	fb.ConvertToMaxSSA(nil)

	// join must now read a's successor-crossing value through a fresh
	// block parameter, not the original entry-block value directly.
	ret := fb.Block(join).Terminator
	require.Equal(t, ir.TerminatorReturn, ret.Kind)
	require.Len(t, ret.Args, 1)
	require.NotEqual(t, a, ret.Args[0])

	_, _, typ := fb.ValueDef(ret.Args[0]).BlockParam()
	require.Equal(t, ir.TypeI32, typ)

	// thenB/elseB themselves gained a parameter for a (they are also on a
	// live path between entry and join), and their own edge into join
	// carries that local parameter rather than a directly.
	for _, pred := range fb.Block(join).Preds {
		term := fb.Block(pred).Terminator
		require.Len(t, term.Edges, 1)
		predParam := fb.Block(pred).Params[0].Value
		require.Equal(t, predParam, term.Edges[0].Args[0])
	}

	// entry's own condbr edges (into thenB and elseB) carry a directly,
	// since entry is a's own definition block.
	condbr := fb.Block(entry).Terminator
	require.Equal(t, a, condbr.Edges[0].Args[0])
	require.Equal(t, a, condbr.Edges[1].Args[0])
}

func TestConvertToMaxSSALeavesLocalValuesAlone(t *testing.T) {
	fb, entry, _, _, _, _ := buildDiamond(t)
	fb.ConvertToMaxSSA(nil)
	// the comparison computed and consumed entirely within entry must be
	// untouched: entry's own terminator still conditions on the original
	// value, not a block parameter of entry.
	term := fb.Block(entry).Terminator
	require.Equal(t, ir.TerminatorCondBr, term.Kind)
	require.Equal(t, ir.ValueKindOperator, fb.ValueDef(term.Cond).Kind())
}

// TestConvertToMaxSSAOrdersMultipleParamsConsistently builds two distinct
// live-crossing values (given different types so a mix-up can't hide behind
// a shared type) that both need a parameter on the same intermediate block.
// Params[i] on every block along the path must line up with Args[i] on
// every edge into it, for every block, not just by chance.
func TestConvertToMaxSSAOrdersMultipleParamsConsistently(t *testing.T) {
	fb := ir.NewFunctionBody([]ir.Type{ir.TypeI32, ir.TypeI64}, []ir.Type{ir.TypeI32, ir.TypeI64})
	entry := fb.CreateBlock()
	mid := fb.CreateBlock()
	join := fb.CreateBlock()

	p := fb.AppendParamToBlock(entry, ir.TypeI32)
	q := fb.AppendParamToBlock(entry, ir.TypeI64)
	fb.SetTerminator(entry, ir.Br(mid, nil))
	fb.SetTerminator(mid, ir.Br(join, nil))
	fb.SetTerminator(join, ir.Return([]ir.Value{p, q}))

	fb.ConvertToMaxSSA(nil)

	midParams := fb.Block(mid).Params
	require.Len(t, midParams, 2)
	require.Equal(t, ir.TypeI32, midParams[0].Type)
	require.Equal(t, ir.TypeI64, midParams[1].Type)

	joinParams := fb.Block(join).Params
	require.Len(t, joinParams, 2)
	require.Equal(t, ir.TypeI32, joinParams[0].Type)
	require.Equal(t, ir.TypeI64, joinParams[1].Type)

	// entry is p and q's own definition block, so its edge into mid must
	// carry them directly, in the same order as mid's Params.
	entryEdge := fb.Block(entry).Terminator.Edges[0]
	require.Equal(t, []ir.Value{p, q}, entryEdge.Args)

	// mid gained its own params for p and q; its edge into join must carry
	// those local params, again in the same order as join's Params.
	midEdge := fb.Block(mid).Terminator.Edges[0]
	require.Equal(t, []ir.Value{midParams[0].Value, midParams[1].Value}, midEdge.Args)

	// join reads both values through its own fresh params, in order.
	ret := fb.Block(join).Terminator
	require.Equal(t, []ir.Value{joinParams[0].Value, joinParams[1].Value}, ret.Args)
}

func TestConvertToMaxSSACutRestrictsScope(t *testing.T) {
	fb, entry, thenB, elseB, join, a := buildDiamond(t)
	_ = a
	// cut excludes every block, so nothing should be rethreaded.
	cut := map[ir.Block]bool{}
	fb.ConvertToMaxSSA(cut)
	ret := fb.Block(join).Terminator
	require.Equal(t, []ir.Value{a}, ret.Args)
	_ = entry
	_ = thenB
	_ = elseB
}
