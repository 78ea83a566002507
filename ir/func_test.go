package ir_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bytecodealliance/waffle/ir"
)

func newAddFunc(t *testing.T) (*ir.FunctionBody, ir.Value) {
	t.Helper()
	fb := ir.NewFunctionBody([]ir.Type{ir.TypeI32, ir.TypeI32}, []ir.Type{ir.TypeI32})
	entry := fb.CreateBlock()
	a := fb.AppendParamToBlock(entry, ir.TypeI32)
	b := fb.AppendParamToBlock(entry, ir.TypeI32)
	args := fb.ArgPool().Intern([]ir.Value{a, b})
	tys := fb.TypePool().Intern([]ir.Type{ir.TypeI32})
	sum := fb.AppendInstruction(entry, ir.OpI32Add, args, tys)
	fb.SetTerminator(entry, ir.Return([]ir.Value{sum}))
	return fb, sum
}

func TestEntryBlockIsFirstCreated(t *testing.T) {
	fb, _ := newAddFunc(t)
	require.Equal(t, ir.Block(0), fb.EntryBlock())
}

func TestAppendParamToBlockAssignsSequentialIndex(t *testing.T) {
	fb := ir.NewFunctionBody(nil, nil)
	b := fb.CreateBlock()
	p0 := fb.AppendParamToBlock(b, ir.TypeI32)
	p1 := fb.AppendParamToBlock(b, ir.TypeI64)
	_, idx0, _ := fb.ValueDef(p0).BlockParam()
	_, idx1, _ := fb.ValueDef(p1).BlockParam()
	require.Equal(t, 0, idx0)
	require.Equal(t, 1, idx1)
}

func TestSetTerminatorWiresPredSucc(t *testing.T) {
	fb := ir.NewFunctionBody(nil, nil)
	from := fb.CreateBlock()
	to := fb.CreateBlock()
	fb.SetTerminator(from, ir.Br(to, nil))
	require.Equal(t, []ir.Block{to}, fb.Block(from).Succs)
	require.Equal(t, []ir.Block{from}, fb.Block(to).Preds)
}

func TestRemoveEdgesUnwiresPredSucc(t *testing.T) {
	fb := ir.NewFunctionBody(nil, nil)
	from := fb.CreateBlock()
	to := fb.CreateBlock()
	fb.SetTerminator(from, ir.Br(to, nil))
	fb.RemoveEdges(from)
	require.Empty(t, fb.Block(from).Succs)
	require.Empty(t, fb.Block(to).Preds)
}

func TestResolveAliasFollowsChain(t *testing.T) {
	fb, sum := newAddFunc(t)
	v1 := fb.AllocatePlaceholder(ir.TypeI32)
	fb.ResolvePlaceholder(v1, ir.AliasDef(sum))
	v2 := fb.AllocatePlaceholder(ir.TypeI32)
	fb.ResolvePlaceholder(v2, ir.AliasDef(v1))
	require.Equal(t, sum, fb.ResolveAlias(v2))
}

func TestResolveAliasDetectsCycle(t *testing.T) {
	fb := ir.NewFunctionBody(nil, nil)
	v1 := fb.AllocatePlaceholder(ir.TypeI32)
	v2 := fb.AllocatePlaceholder(ir.TypeI32)
	fb.ResolvePlaceholder(v1, ir.AliasDef(v2))
	fb.ResolvePlaceholder(v2, ir.AliasDef(v1))
	require.Panics(t, func() { fb.ResolveAlias(v1) })
}

func TestTyReturnsSingleResultTypes(t *testing.T) {
	fb, sum := newAddFunc(t)
	typ, ok := fb.Ty(sum)
	require.True(t, ok)
	require.Equal(t, ir.TypeI32, typ)
}

func TestVisitUsesOperator(t *testing.T) {
	fb, sum := newAddFunc(t)
	var uses []ir.Value
	fb.VisitUses(sum, func(v ir.Value) { uses = append(uses, v) })
	require.Len(t, uses, 2)
}

func TestUpdateUsesRewritesOperands(t *testing.T) {
	fb, sum := newAddFunc(t)
	replacement := fb.AppendConst(fb.EntryBlock(), ir.TypeI32, 7)
	fb.UpdateUses(sum, func(v *ir.Value) { *v = replacement })
	var uses []ir.Value
	fb.VisitUses(sum, func(v ir.Value) { uses = append(uses, v) })
	require.Equal(t, []ir.Value{replacement, replacement}, uses)
}

func TestAnnotateRoundTrips(t *testing.T) {
	fb, sum := newAddFunc(t)
	_, ok := fb.Annotation(sum)
	require.False(t, ok)
	fb.Annotate(sum, "hot path")
	text, ok := fb.Annotation(sum)
	require.True(t, ok)
	require.Equal(t, "hot path", text)
}

func TestAppendPickOutputProjectsMultiResultOperator(t *testing.T) {
	fb := ir.NewFunctionBody(nil, []ir.Type{ir.TypeI32, ir.TypeI32})
	b := fb.CreateBlock()
	args := fb.ArgPool().Intern(nil)
	tys := fb.TypePool().Intern([]ir.Type{ir.TypeI32, ir.TypeI32})
	call := fb.AppendInstruction(b, ir.OpCallIndirect, args, tys)
	out0 := fb.AppendPickOutput(b, call, 0, ir.TypeI32)
	out1 := fb.AppendPickOutput(b, call, 1, ir.TypeI32)
	fb.SetTerminator(b, ir.Return([]ir.Value{out0, out1}))

	require.Equal(t, []ir.Type{ir.TypeI32, ir.TypeI32}, fb.Tys(call))
	_, ok := fb.Ty(call)
	require.False(t, ok, "Ty must report false for a multi-result Operator")

	typ0, ok := fb.Ty(out0)
	require.True(t, ok)
	require.Equal(t, ir.TypeI32, typ0)

	src, idx, typ := fb.ValueDef(out1).PickOutput()
	require.Equal(t, call, src)
	require.Equal(t, 1, idx)
	require.Equal(t, ir.TypeI32, typ)

	var uses []ir.Value
	fb.VisitUses(out0, func(v ir.Value) { uses = append(uses, v) })
	require.Equal(t, []ir.Value{call}, uses)
}

func TestAppendConstRecordsBits(t *testing.T) {
	fb := ir.NewFunctionBody(nil, nil)
	b := fb.CreateBlock()
	v := fb.AppendConst(b, ir.TypeI64, 0xdeadbeef)
	bits, ok := fb.ConstValue(v)
	require.True(t, ok)
	require.Equal(t, uint64(0xdeadbeef), bits)
}
