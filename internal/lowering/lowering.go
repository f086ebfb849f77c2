// Package lowering walks a narrow CST adapter (internal/cstnode) and
// populates a hir.Program: the symbol table, scope tree, and the four
// HIR arenas (expressions/statements/patterns/types). Grounded on the
// teacher's mir.HIRToMIRTransformer convention of accumulating `errors
// []error` on the transforming struct rather than aborting (spec §4.1,
// "Lowering never aborts").
package lowering

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/orizon-lang/orizon/internal/cstnode"
	"github.com/orizon-lang/orizon/internal/hir"
	"github.com/orizon-lang/orizon/internal/interner"
	"github.com/orizon-lang/orizon/internal/position"
)

// Context drives CST→HIR lowering and owns the resulting Program plus
// the macro environment and any errors accumulated along the way.
type Context struct {
	Program *hir.Program
	Macros  *MacroEnv

	errors []error

	// genericScope tracks the generic parameter names visible while
	// lowering the current item, so Type nodes referencing them lower
	// to HirTypeGeneric instead of an unresolved Named lookup.
	genericScope map[interner.Symbol]bool

	moduleScopes map[hir.ModId]hir.ScopeId

	// currentFn/nextLocal implement local-id assignment for pattern
	// bindings encountered while lowering one function body. Parameters
	// occupy LocalId(0..len(params)-1); every subsequent `let`/match-arm/
	// closure-parameter binding draws the next id from this counter.
	// This folds the resolver's "assigns local-ids to pattern bindings"
	// responsibility (§4.2) into lowering, where the scope tree is
	// already being built; the resolver (internal/resolver) reuses
	// these ids when it walks Variable expressions rather than
	// re-numbering them.
	currentFn hir.FnId
	nextLocal hir.LocalId
}

func (c *Context) allocLocal() hir.LocalId {
	id := c.nextLocal
	c.nextLocal++
	return id
}

// NewContext creates a lowering context over a fresh Program backed by
// symbols.
func NewContext(symbols *interner.Table) *Context {
	return &Context{
		Program:      hir.NewProgram(symbols),
		Macros:       NewMacroEnv(symbols),
		genericScope: map[interner.Symbol]bool{},
		moduleScopes: map[hir.ModId]hir.ScopeId{},
	}
}

// Errors returns the accumulated lowering errors.
func (c *Context) Errors() []error { return c.errors }

func (c *Context) errorf(format string, args ...interface{}) {
	c.errors = append(c.errors, fmt.Errorf(format, args...))
}

func (c *Context) sym(s string) interner.Symbol { return c.Program.Symbols.Intern(s) }

// LowerModule lowers a root module node into the context's Program,
// following the two-pass protocol of §4.1: first register every
// top-level item's name in the root scope, then lower bodies.
func (c *Context) LowerModule(root cstnode.Node) {
	items := root.Children()

	// Pass 1: register names.
	for _, item := range items {
		c.registerItem(item, c.Program.RootScope)
	}

	// Pass 2: lower bodies.
	for _, item := range items {
		c.lowerItem(item, c.Program.RootScope)
	}
}

func (c *Context) registerItem(node cstnode.Node, scope hir.ScopeId) {
	switch node.Kind() {
	case cstnode.KindStruct:
		def := &hir.StructDef{Name: c.sym(node.Text())}
		id := c.Program.TypeDefs.Alloc(hir.TypeDef{Kind: hir.TypeDefStruct, Struct: def})
		def.Self = id
		c.Program.TypeByName[def.Name] = id
		c.Program.Scopes.Define(scope, def.Name, hir.ScopeEntry{Def: hir.TypeDefRef(id), Visibility: hir.VisPublic})
	case cstnode.KindEnum:
		def := &hir.EnumDef{Name: c.sym(node.Text())}
		id := c.Program.TypeDefs.Alloc(hir.TypeDef{Kind: hir.TypeDefEnum, Enum: def})
		def.Self = id
		c.Program.TypeByName[def.Name] = id
		c.Program.Scopes.Define(scope, def.Name, hir.ScopeEntry{Def: hir.TypeDefRef(id), Visibility: hir.VisPublic})
	case cstnode.KindTrait:
		def := &hir.TraitDef{Name: c.sym(node.Text())}
		id := c.Program.Traits.Alloc(*def)
		c.Program.TraitByName[def.Name] = id
		c.Program.Scopes.Define(scope, def.Name, hir.ScopeEntry{Def: hir.TraitDefRef(id), Visibility: hir.VisPublic})
	case cstnode.KindFunction:
		name := c.sym(node.Text())
		id := c.Program.Functions.Alloc(hir.Function{Name: name, Self: 0})
		c.Program.FnByName[name] = id
		c.Program.Scopes.Define(scope, name, hir.ScopeEntry{Def: hir.FunctionDef(id), Visibility: hir.VisPublic})
	case cstnode.KindImpl:
		// Impl blocks have no name of their own; registration of the
		// block itself happens during lowering since it needs its
		// self-type resolved, which requires pass-1 to have already
		// run for structs/enums/traits.
	case cstnode.KindExternBlock:
		for _, fn := range cstnode.ChildrenOfKind(node, cstnode.KindFunction) {
			name := c.sym(fn.Text())
			// External functions have no HIR body; they are recorded
			// directly on the Program rather than the function arena.
			_ = name
		}
	case cstnode.KindModule:
		def := &hir.ModuleDef{Name: c.sym(node.Text())}
		id := c.Program.Modules.Alloc(*def)
		c.Program.Scopes.Define(scope, def.Name, hir.ScopeEntry{Def: hir.ModuleDefRef(id), Visibility: hir.VisPublic})
		child := c.Program.Scopes.Push(scope, hir.ScopeModuleRoot)
		c.moduleScopes[id] = child
		for _, sub := range node.Children() {
			c.registerItem(sub, child)
		}
	}
}

func (c *Context) lowerItem(node cstnode.Node, scope hir.ScopeId) {
	switch node.Kind() {
	case cstnode.KindStruct:
		c.lowerStructBody(node)
	case cstnode.KindEnum:
		c.lowerEnumBody(node)
	case cstnode.KindTrait:
		c.lowerTraitBody(node)
	case cstnode.KindImpl:
		c.lowerImpl(node, scope)
	case cstnode.KindFunction:
		c.lowerFunctionBody(node, scope)
	case cstnode.KindExternBlock:
		for _, fn := range cstnode.ChildrenOfKind(node, cstnode.KindFunction) {
			abi := node.Text()
			if abi == "" {
				abi = "C"
			}
			c.Program.ExternFns = append(c.Program.ExternFns, hir.ExternalFunction{
				Name: c.sym(fn.Text()),
				ABI:  abi,
			})
		}
	case cstnode.KindModule:
		entry, ok := c.Program.Scopes.Lookup(scope, c.sym(node.Text()))
		if !ok || entry.Def.Kind != hir.DefModule {
			c.errorf("lowering: module %q not registered", node.Text())
			return
		}
		child := c.moduleScopes[entry.Def.Mod]
		for _, sub := range node.Children() {
			c.lowerItem(sub, child)
		}
	}
}

func span(node cstnode.Node) position.Span { return node.Span() }

func parseLiteral(text string) hir.LiteralValue {
	switch {
	case text == "true":
		return hir.LiteralValue{Kind: hir.LitBool, Bool: true}
	case text == "false":
		return hir.LiteralValue{Kind: hir.LitBool, Bool: false}
	case text == "()":
		return hir.LiteralValue{Kind: hir.LitUnit}
	case strings.HasPrefix(text, `"`) && strings.HasSuffix(text, `"`):
		return hir.LiteralValue{Kind: hir.LitString, Str: strings.Trim(text, `"`)}
	case strings.ContainsAny(text, "."):
		f, _ := strconv.ParseFloat(text, 64)
		return hir.LiteralValue{Kind: hir.LitFloat, Float: f}
	default:
		i, err := strconv.ParseInt(text, 10, 64)
		if err != nil {
			return hir.LiteralValue{Kind: hir.LitUnit}
		}
		return hir.LiteralValue{Kind: hir.LitInt, Int: i}
	}
}

func binOpFromText(text string) (hir.BinOp, bool) {
	switch text {
	case "+":
		return hir.BinAdd, true
	case "-":
		return hir.BinSub, true
	case "*":
		return hir.BinMul, true
	case "/":
		return hir.BinDiv, true
	case "%":
		return hir.BinRem, true
	case "==":
		return hir.BinEq, true
	case "!=":
		return hir.BinNe, true
	case "<":
		return hir.BinLt, true
	case "<=":
		return hir.BinLe, true
	case ">":
		return hir.BinGt, true
	case ">=":
		return hir.BinGe, true
	case "&&":
		return hir.BinAnd, true
	case "||":
		return hir.BinOr, true
	case "&":
		return hir.BinBitAnd, true
	case "|":
		return hir.BinBitOr, true
	case "^":
		return hir.BinBitXor, true
	case "<<":
		return hir.BinShl, true
	case ">>":
		return hir.BinShr, true
	default:
		return 0, false
	}
}

func unOpFromText(text string) (hir.UnOp, bool) {
	switch text {
	case "-":
		return hir.UnNeg, true
	case "!":
		return hir.UnNot, true
	case "~":
		return hir.UnBitNot, true
	default:
		return 0, false
	}
}
