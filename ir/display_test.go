package ir_test

import (
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bytecodealliance/waffle/ir"
)

func TestFunctionBodyDisplayIsIdempotent(t *testing.T) {
	fb, _ := newAddFunc(t)
	first := fb.Display("", nil).String()
	second := fb.Display("", nil).String()
	require.Equal(t, first, second)
}

func TestFunctionBodyDisplayContainsSignature(t *testing.T) {
	fb, _ := newAddFunc(t)
	out := fb.Display("", nil).String()
	require.True(t, strings.HasPrefix(out, "function(i32, i32) -> i32 {"))
}

func TestFunctionBodyDisplayVerboseListsEveryValue(t *testing.T) {
	fb, sum := newAddFunc(t)
	out := fb.DisplayVerbose("", nil, nil).String()
	require.Contains(t, out, sum.String()+" = i32.add")
	require.Contains(t, out, "v0 = blockparam block0, 0 # i32")
	require.Contains(t, out, "v1 = blockparam block0, 1 # i32")
}

func TestFunctionBodyDisplayNonVerboseSkipsValuePrepass(t *testing.T) {
	fb, _ := newAddFunc(t)
	out := fb.Display("", nil).String()
	require.NotContains(t, out, "= blockparam")
}

func TestModuleDisplayListsFunctionsAndSignatures(t *testing.T) {
	m := ir.NewModule()
	sig := m.Signatures.Push(ir.SignatureData{Params: []ir.Type{ir.TypeI32}, Returns: []ir.Type{ir.TypeI32}})
	fb, _ := newAddFunc(t)
	m.Funcs.Push(ir.BodyDecl(ir.Signature(sig), "identity", fb))

	out := m.Display(nil).String()
	require.True(t, strings.HasPrefix(out, "module {"))
	require.Contains(t, out, `"identity"`)
}

func TestDecoratorAnchorsInvoked(t *testing.T) {
	fb, sum := newAddFunc(t)
	dec := &countingDecorator{}
	_ = fb.DisplayVerbose("", nil, dec).String()
	require.Equal(t, 1, dec.beforeBody)
	require.Equal(t, 1, dec.afterBody)
	require.Equal(t, 1, dec.beforeBlock)
	require.Equal(t, 1, dec.afterBlock)
	require.Equal(t, 1, dec.afterInst[sum])
}

type countingDecorator struct {
	beforeBody, afterBody, beforeBlock, afterBlock int
	afterInst                                      map[ir.Value]int
}

func (d *countingDecorator) AfterInst(v ir.Value, w io.Writer) error {
	if d.afterInst == nil {
		d.afterInst = map[ir.Value]int{}
	}
	d.afterInst[v]++
	return nil
}
func (d *countingDecorator) BeforeBlock(ir.Block, io.Writer) error {
	d.beforeBlock++
	return nil
}
func (d *countingDecorator) AfterBlock(ir.Block, io.Writer) error {
	d.afterBlock++
	return nil
}
func (d *countingDecorator) BeforeFunctionBody(io.Writer) error {
	d.beforeBody++
	return nil
}
func (d *countingDecorator) AfterFunctionBody(io.Writer) error {
	d.afterBody++
	return nil
}
