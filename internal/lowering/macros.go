package lowering

import "github.com/orizon-lang/orizon/internal/interner"

// MacroKind distinguishes a built-in macro (registered unconditionally,
// e.g. `println!`-style) from a user declarative macro (a token-stream
// rewrite rule inserted as the lowerer encounters its definition).
// Grounded on Raven-Rewrite's `rv-hir-lower` macro pre-registration; only
// the registration/lookup protocol is in scope here — expansion itself
// (the token-stream engine) is an out-of-scope surface utility per
// spec.md §1.
type MacroKind int

const (
	MacroBuiltin MacroKind = iota
	MacroUserDeclarative
)

// MacroDef records a macro's kind and, for user macros, the raw
// replacement text the (out-of-scope) expansion engine would consult.
type MacroDef struct {
	Name interner.Symbol
	Kind MacroKind
	Body string
}

// MacroEnv is the macro lookup environment a LoweringContext carries.
type MacroEnv struct {
	macros map[interner.Symbol]MacroDef
}

// NewMacroEnv creates an environment with the built-in macro set
// pre-registered.
func NewMacroEnv(symbols *interner.Table) *MacroEnv {
	env := &MacroEnv{macros: map[interner.Symbol]MacroDef{}}
	for _, name := range []string{"println", "print", "assert", "format", "panic"} {
		sym := symbols.Intern(name)
		env.macros[sym] = MacroDef{Name: sym, Kind: MacroBuiltin}
	}
	return env
}

// Register inserts a user declarative macro, overwriting the built-in of
// the same name if one existed (shadowing is intentional: a crate may
// redefine `assert!`).
func (e *MacroEnv) Register(name interner.Symbol, body string) {
	e.macros[name] = MacroDef{Name: name, Kind: MacroUserDeclarative, Body: body}
}

// Lookup returns the macro registered under name, if any.
func (e *MacroEnv) Lookup(name interner.Symbol) (MacroDef, bool) {
	m, ok := e.macros[name]
	return m, ok
}

// IsBuiltin reports whether name names a built-in macro.
func (e *MacroEnv) IsBuiltin(name interner.Symbol) bool {
	m, ok := e.macros[name]
	return ok && m.Kind == MacroBuiltin
}
