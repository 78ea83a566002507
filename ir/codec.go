package ir

import "github.com/bytecodealliance/waffle/entity"

// FrontendOptions configures the front-end decoder, per spec.md §4.4.
// Fields apply at decode time only; mutating an option after a Module has
// already been decoded has no retroactive effect.
type FrontendOptions struct {
	// Debug, if true, instructs the decoder to preserve source-location
	// and source-file debug tables; otherwise they are left empty.
	Debug bool
}

// DefaultFrontendOptions returns the zero-value options (Debug: false),
// named for parity with OptOptions' DefaultOptOptions and for callers that
// prefer not to spell out a struct literal.
func DefaultFrontendOptions() FrontendOptions {
	return FrontendOptions{}
}

// OptOptions configures FunctionBody.Optimize (spec.md §4.6). The zero
// value runs every currently implemented basic optimization.
type OptOptions struct {
	// DisableGVN turns off global value numbering (redundant Operator
	// elimination via Alias).
	DisableGVN bool
	// DisableConstProp turns off constant folding/propagation.
	DisableConstProp bool
}

// DefaultOptOptions returns the zero value (every pass enabled).
func DefaultOptOptions() OptOptions {
	return OptOptions{}
}

// Decoder is the front-end collaborator contract (spec.md §1 "Out of
// scope... the binary Wasm decoder"). The IR core depends only on this
// interface, never on a concrete binary-format parser: DecodeModule
// produces a Module (with any function bodies eagerly or lazily
// materialized at the decoder's discretion) and DecodeFunctionBody
// forces a single Lazy slot to Body, used by ExpandAllFuncs.
type Decoder interface {
	// DecodeModule parses bytes into a Module. The returned Module must
	// have had SetCollaborators called with this Decoder (and a matching
	// Encoder, if round-tripping is supported) so later ExpandAllFuncs/
	// ToWasmBytes calls succeed.
	DecodeModule(bytes []byte, opts *FrontendOptions) (*Module, error)

	// DecodeFunctionBody parses a single Lazy function's retained bytes
	// into a FunctionBody. sig is supplied for error-context purposes;
	// implementations need not consult it.
	DecodeFunctionBody(lazy *LazyBody, sig *SignatureData, opts *FrontendOptions) (*FunctionBody, error)
}

// Encoder is the back-end collaborator contract (spec.md §1 "Out of
// scope... the Wasm encoder"). EncodeModule must return EncodeError (or a
// wrapped instance) for any constraint the wire format cannot represent,
// e.g. an unresolved Placeholder or an edge that violates arity/type
// invariants the core's own construction API failed to reject.
type Encoder interface {
	EncodeModule(m *Module) ([]byte, error)
}

// FromWasmBytes decodes bytes into a Module using d, per spec.md §6.1.
// This is the sole entry point into the front-end collaborator; the IR
// core never reads Wasm bytes directly.
func FromWasmBytes(d Decoder, bytes []byte, opts *FrontendOptions) (*Module, error) {
	return d.DecodeModule(bytes, opts)
}

// ToWasmBytes re-serializes m using its registered Encoder (installed via
// SetCollaborators, normally by the Decoder that produced m). Per spec.md
// §7 "Option-mismatch", any function still Lazy is transparently expanded
// first so the encoder never has to special-case that state.
func (m *Module) ToWasmBytes() ([]byte, error) {
	if err := m.ExpandAllFuncs(); err != nil {
		return nil, err
	}
	if m.encoder == nil {
		PanicInvariant("ToWasmBytes called on a Module with no registered Encoder")
	}
	return m.encoder.EncodeModule(m)
}

// ExpandAllFuncs forces every Lazy function to Body, per spec.md §4.5.
// It is idempotent: already-Body (and Import/Compiled/None) slots are left
// untouched, and a second call is a no-op. Expansion of a single Lazy slot
// is atomic with respect to the Module: on decoder failure the slot
// remains Lazy and a *DecodeError identifying the offending function is
// returned immediately, leaving every function expanded so far in Body
// state and every function not yet visited untouched (spec.md §8 scenario
// 6).
func (m *Module) ExpandAllFuncs() error {
	n := m.Funcs.Len()
	for i := 0; i < n; i++ {
		f := Func(i)
		decl := m.Funcs.Get(entity.ID(f))
		if decl.State != FuncStateLazy {
			continue
		}
		if m.decoder == nil {
			PanicInvariant("ExpandAllFuncs called on a Module with no registered Decoder")
		}
		sig := m.Signatures.Get(entity.ID(decl.Sig))
		body, err := m.decoder.DecodeFunctionBody(decl.Lazy, sig, &m.FrontendConfig)
		if err != nil {
			return NewDecodeError(f, decl.Name, err)
		}
		*decl = BodyDecl(decl.Sig, decl.Name, body)
	}
	return nil
}
