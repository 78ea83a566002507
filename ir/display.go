package ir

import (
	"fmt"
	"io"
	"strings"

	"github.com/bytecodealliance/waffle/entity"
)

// Decorator lets a pass annotate the printer's output at fixed anchors
// without the printer itself knowing anything about that pass. Every
// method is invoked at the named anchor with write access to the output;
// a zero-value NopDecorator implements every method as a no-op (spec.md
// §4.7).
type Decorator interface {
	// AfterInst is invoked after an Operator instruction's line has been
	// printed, before its newline is written, so it may append further
	// content to that line. PickOutput, Alias and Trace lines do not
	// invoke it.
	AfterInst(v Value, w io.Writer) error
	// BeforeBlock is invoked right after a block's header line.
	BeforeBlock(b Block, w io.Writer) error
	// AfterBlock is invoked after a block's body, before its terminator.
	AfterBlock(b Block, w io.Writer) error
	// BeforeFunctionBody is invoked after the function signature line.
	BeforeFunctionBody(w io.Writer) error
	// AfterFunctionBody is invoked after the function body, before the
	// closing brace.
	AfterFunctionBody(w io.Writer) error
}

// NopDecorator implements Decorator with every method a no-op. It is the
// default when a caller does not care about decoration.
type NopDecorator struct{}

func (NopDecorator) AfterInst(Value, io.Writer) error        { return nil }
func (NopDecorator) BeforeBlock(Block, io.Writer) error       { return nil }
func (NopDecorator) AfterBlock(Block, io.Writer) error        { return nil }
func (NopDecorator) BeforeFunctionBody(io.Writer) error       { return nil }
func (NopDecorator) AfterFunctionBody(io.Writer) error        { return nil }

// FunctionBodyDisplay renders a FunctionBody as WAFFLE's textual dump
// format (spec.md §4.7, §6.3). Construct one via FunctionBody.Display or
// FunctionBody.DisplayVerbose; String() is a pure function of Body's
// current state plus the supplied Module/Decorator, so two successive
// calls produce byte-identical output (spec.md §8 "display(display(B)) ==
// display(B)").
type FunctionBodyDisplay struct {
	Body      *FunctionBody
	Indent    string
	Verbose   bool
	Module    *Module
	Decorator Decorator
}

// Display returns a non-verbose renderer for fb: it skips the per-value
// definition pre-pass and only prints block bodies.
func (fb *FunctionBody) Display(indent string, module *Module) FunctionBodyDisplay {
	return FunctionBodyDisplay{Body: fb, Indent: indent, Module: module, Decorator: NopDecorator{}}
}

// DisplayVerbose returns a verbose renderer for fb: every value in the
// pool (including Alias/Placeholder/None slots) is listed before the
// per-block dump, and dec is invoked at every anchor.
func (fb *FunctionBody) DisplayVerbose(indent string, module *Module, dec Decorator) FunctionBodyDisplay {
	if dec == nil {
		dec = NopDecorator{}
	}
	return FunctionBodyDisplay{Body: fb, Indent: indent, Verbose: true, Module: module, Decorator: dec}
}

func joinTypes(tys []Type) string {
	parts := make([]string, len(tys))
	for i, t := range tys {
		parts[i] = t.String()
	}
	return strings.Join(parts, ", ")
}

func joinValues(vs []Value) string {
	parts := make([]string, len(vs))
	for i, v := range vs {
		parts[i] = v.String()
	}
	return strings.Join(parts, ", ")
}

func joinBlocks(bs []Block) string {
	parts := make([]string, len(bs))
	for i, b := range bs {
		parts[i] = b.String()
	}
	return strings.Join(parts, ", ")
}

// String implements fmt.Stringer.
func (d FunctionBodyDisplay) String() string {
	var w strings.Builder
	b := d.Body

	argTys := make([]string, b.NumParams)
	for i := 0; i < b.NumParams; i++ {
		argTys[i] = b.Locals[i].String()
	}
	fmt.Fprintf(&w, "%sfunction(%s) -> %s {\n", d.Indent, strings.Join(argTys, ", "), joinTypes(b.Rets))

	if d.Decorator != nil {
		_ = d.Decorator.BeforeFunctionBody(&w)
	}

	if d.Verbose {
		b.ForEachValue(func(v Value, def ValueDef) bool {
			switch def.Kind() {
			case ValueKindOperator:
				op, args, tys := def.Operator()
				fmt.Fprintf(&w, "%s    %s = %s %s # %s\n",
					d.Indent, v, op, joinValues(b.argPool.Get(args)), joinTypes(b.typePool.Get(tys)))
			case ValueKindBlockParam:
				blk, idx, typ := def.BlockParam()
				fmt.Fprintf(&w, "%s    %s = blockparam %s, %d # %s\n", d.Indent, v, blk, idx, typ)
			case ValueKindAlias:
				fmt.Fprintf(&w, "%s    %s = %s\n", d.Indent, v, def.AliasTarget())
			case ValueKindPickOutput:
				src, idx, typ := def.PickOutput()
				fmt.Fprintf(&w, "%s    %s = %s.%d # %s\n", d.Indent, v, src, idx, typ)
			case ValueKindPlaceholder:
				fmt.Fprintf(&w, "%s    %s = placeholder # %s\n", d.Indent, v, def.PlaceholderType())
			case ValueKindTrace:
				id, args := def.Trace()
				fmt.Fprintf(&w, "%s    %s = trace %d %s\n", d.Indent, v, id, joinValues(b.argPool.Get(args)))
			case ValueKindNone:
				fmt.Fprintf(&w, "%s    %s = none\n", d.Indent, v)
			}
			return true
		})
	}

	b.ForEachBlock(func(blockID Block, blk *BlockData) bool {
		params := make([]string, len(blk.Params))
		for i, p := range blk.Params {
			params[i] = fmt.Sprintf("%s: %s", p.Value, p.Type)
		}
		fmt.Fprintf(&w, "%s  %s(%s): # %s\n", d.Indent, blockID, strings.Join(params, ", "), blk.Desc)

		if d.Decorator != nil {
			_ = d.Decorator.BeforeBlock(blockID, &w)
		}

		predDescs := make([]string, len(blk.Preds))
		for i, p := range blk.Preds {
			predDescs[i] = fmt.Sprintf("%s (%s)", p, b.Block(p).Desc)
		}
		fmt.Fprintf(&w, "%s    # preds: %s\n", d.Indent, strings.Join(predDescs, ", "))

		succDescs := make([]string, len(blk.Succs))
		for i, s := range blk.Succs {
			succDescs[i] = fmt.Sprintf("%s (%s)", s, b.Block(s).Desc)
		}
		fmt.Fprintf(&w, "%s    # succs: %s\n", d.Indent, strings.Join(succDescs, ", "))

		for _, p := range blk.Params {
			if local, ok := b.ValueLocal(p.Value); ok {
				fmt.Fprintf(&w, "%s    # %s: %s\n", d.Indent, p.Value, local)
			}
		}

		for _, inst := range blk.Insts {
			if local, ok := b.ValueLocal(inst); ok {
				fmt.Fprintf(&w, "%s    # %s: %s\n", d.Indent, inst, local)
			}
			def := b.ValueDef(inst)
			switch def.Kind() {
			case ValueKindOperator:
				op, args, tys := def.Operator()
				loc := ""
				if sl, ok := b.SourceLoc(inst); ok && d.Module != nil {
					data := d.Module.Debug.SourceLocs.Get(entity.ID(sl))
					filename := *d.Module.Debug.SourceFiles.Get(entity.ID(data.File))
					loc = fmt.Sprintf("@%s %s:%d:%d", sl, filename, data.Line, data.Col)
				}
				fmt.Fprintf(&w, "%s    %s = %s %s # %s %s", d.Indent, inst, op,
					joinValues(b.argPool.Get(args)), joinTypes(b.typePool.Get(tys)), loc)
				if d.Decorator != nil {
					_ = d.Decorator.AfterInst(inst, &w)
				}
				w.WriteString("\n")
			case ValueKindPickOutput:
				src, idx, typ := def.PickOutput()
				fmt.Fprintf(&w, "%s    %s = %s.%d # %s\n", d.Indent, inst, src, idx, typ)
			case ValueKindAlias:
				fmt.Fprintf(&w, "%s    %s = %s\n", d.Indent, inst, def.AliasTarget())
			case ValueKindTrace:
				id, args := def.Trace()
				fmt.Fprintf(&w, "%s    %s = trace %d %s\n", d.Indent, inst, id, joinValues(b.argPool.Get(args)))
			case ValueKindNone:
				// A None value reachable from a block's instruction list is
				// an invariant violation (spec.md §4.7); print it rather
				// than panic so a dump can still be produced for debugging.
				fmt.Fprintf(&w, "%s    %s = <INVALID: none in inst list>\n", d.Indent, inst)
			default:
				fmt.Fprintf(&w, "%s    %s = <INVALID: %s in inst list>\n", d.Indent, inst, def.Kind())
			}
		}

		if d.Decorator != nil {
			_ = d.Decorator.AfterBlock(blockID, &w)
		}
		fmt.Fprintf(&w, "%s    %s\n", d.Indent, formatTerminator(blk.Terminator))
		return true
	})

	if d.Decorator != nil {
		_ = d.Decorator.AfterFunctionBody(&w)
	}
	fmt.Fprintf(&w, "%s}\n", d.Indent)
	return w.String()
}

func formatTerminator(t Terminator) string {
	switch t.Kind {
	case TerminatorBr:
		return fmt.Sprintf("br %s(%s)", t.Edges[0].Target, joinValues(t.Edges[0].Args))
	case TerminatorCondBr:
		return fmt.Sprintf("condbr %s, %s(%s), %s(%s)", t.Cond,
			t.Edges[0].Target, joinValues(t.Edges[0].Args),
			t.Edges[1].Target, joinValues(t.Edges[1].Args))
	case TerminatorBrTable:
		parts := make([]string, len(t.Edges))
		for i, e := range t.Edges {
			parts[i] = fmt.Sprintf("%s(%s)", e.Target, joinValues(e.Args))
		}
		return fmt.Sprintf("br_table %s [%s]", t.Index, strings.Join(parts, ", "))
	case TerminatorReturn:
		return fmt.Sprintf("return %s", joinValues(t.Args))
	case TerminatorUnreachable:
		return "unreachable"
	default:
		return "<INVALID: no terminator>"
	}
}

// ModuleDisplay renders a Module as WAFFLE's textual dump format
// (spec.md §4.7). Construct via Module.Display.
type ModuleDisplay struct {
	Module     *Module
	Decorators map[Func]Decorator
}

// Display returns a renderer for m. decorators maps a function to the
// Decorator used while printing its body; functions absent from the map
// are printed with NopDecorator.
func (m *Module) Display(decorators map[Func]Decorator) ModuleDisplay {
	return ModuleDisplay{Module: m, Decorators: decorators}
}

// String implements fmt.Stringer.
func (d ModuleDisplay) String() string {
	var w strings.Builder
	m := d.Module
	w.WriteString("module {\n")
	if m.HasStartFunc {
		fmt.Fprintf(&w, "    start = %s\n", m.StartFunc)
	}

	sigStrs := make(map[Signature]string, m.Signatures.Len())
	m.Signatures.ForEach(func(id entity.ID, sig *SignatureData) bool {
		s := fmt.Sprintf("%s -> %s", joinTypes(sig.Params), joinTypes(sig.Returns))
		sigStrs[Signature(id)] = s
		fmt.Fprintf(&w, "  %s: %s\n", Signature(id), s)
		return true
	})

	m.Globals.ForEach(func(id entity.ID, g *GlobalData) bool {
		fmt.Fprintf(&w, "  %s: mutable=%v # %s\n", Global(id), g.Mutable, g.Type)
		return true
	})

	m.Tables.ForEach(func(id entity.ID, t *TableData) bool {
		fmt.Fprintf(&w, "  %s: %s\n", Table(id), t.ElemType)
		for i, f := range t.FuncElements {
			fmt.Fprintf(&w, "    %s[%d]: %s\n", Table(id), i, f)
		}
		return true
	})

	m.Memories.ForEach(func(id entity.ID, mem *MemoryData) bool {
		fmt.Fprintf(&w, "  %s: initial %d\n", Memory(id), mem.InitialPages)
		for _, seg := range mem.Segments {
			fmt.Fprintf(&w, "    %s offset %d: # %d bytes\n", Memory(id), seg.Offset, len(seg.Data))
		}
		return true
	})

	for _, imp := range m.Imports {
		fmt.Fprintf(&w, "  import %q.%q: %s\n", imp.Module, imp.Name, imp.Kind)
	}
	for _, exp := range m.Exports {
		fmt.Fprintf(&w, "  export %q: %s\n", exp.Name, exp.Kind)
	}

	m.Funcs.ForEach(func(id entity.ID, decl *FuncDecl) bool {
		f := Func(id)
		sigStr := sigStrs[decl.Sig]
		switch decl.State {
		case FuncStateBody:
			fmt.Fprintf(&w, "  %s %q: %s = # %s\n", f, decl.Name, decl.Sig, sigStr)
			dec := d.Decorators[f]
			w.WriteString(decl.Body.DisplayVerbose("    ", m, dec).String())
		case FuncStateLazy:
			fmt.Fprintf(&w, "  %s %q: %s = # %s\n", f, decl.Name, decl.Sig, sigStr)
			fmt.Fprintf(&w, "  # raw bytes (length %d)\n", decl.Lazy.Len())
		case FuncStateCompiled:
			fmt.Fprintf(&w, "  %s %q: %s = # %s\n", f, decl.Name, decl.Sig, sigStr)
			w.WriteString("  # already compiled\n")
		case FuncStateImport:
			fmt.Fprintf(&w, "  %s %q: %s # %s\n", f, decl.Name, decl.Sig, sigStr)
		case FuncStateNone:
			fmt.Fprintf(&w, "  %s: none\n", f)
		}
		return true
	})

	m.Debug.SourceLocs.ForEach(func(id entity.ID, loc *SourceLocData) bool {
		fmt.Fprintf(&w, "  %s = %s line %d column %d\n", SourceLoc(id), loc.File, loc.Line, loc.Col)
		return true
	})
	m.Debug.SourceFiles.ForEach(func(id entity.ID, name *string) bool {
		fmt.Fprintf(&w, "  %s = %q\n", SourceFile(id), *name)
		return true
	})

	w.WriteString("}\n")
	return w.String()
}
