// Package hir implements the arena-indexed high-level IR: item
// definitions, expressions, statements, patterns, and surface-syntax
// types, plus the lexical scope tree lowering builds while walking a
// CST. HIR nodes reference each other through small integer handles
// rather than pointers (spec §9), which keeps every IR trivially
// cloneable and sidesteps cyclic-ownership problems such as an impl
// block holding a handle to a type whose method body holds a handle
// back to the impl.
package hir

import (
	"github.com/orizon-lang/orizon/internal/arena"
	"github.com/orizon-lang/orizon/internal/interner"
)

// Program is the populated result of CST→HIR lowering: every arena, the
// scope tree, and lookup tables from id to item. It is the
// "LoweringContext" named by spec §4.1.
type Program struct {
	Symbols *interner.Table

	Exprs    *arena.Arena[Expr]
	Stmts    *arena.Arena[Stmt]
	Patterns *arena.Arena[Pattern]
	Types    *arena.Arena[HirType]

	Functions *arena.Arena[Function]
	TypeDefs  *arena.Arena[TypeDef]
	Traits    *arena.Arena[TraitDef]
	Impls     *arena.Arena[ImplBlock]
	Modules   *arena.Arena[ModuleDef]

	ExternFns []ExternalFunction

	Scopes    *ScopeTree
	RootScope ScopeId

	// nameToType/nameToFn allow lowering's two-pass name registration
	// (register names, then lower bodies) to find an item by its
	// interned name within whichever scope registered it. Resolution
	// proper walks the scope tree; these maps additionally let
	// lowering and the method resolver find a TypeDef or Function
	// straight from its definition name.
	TypeByName map[interner.Symbol]TypeId
	FnByName   map[interner.Symbol]FnId
	TraitByName map[interner.Symbol]TraitId
}

// NewProgram allocates an empty Program with a fresh root scope.
func NewProgram(symbols *interner.Table) *Program {
	tree, root := NewScopeTree()
	return &Program{
		Symbols:     symbols,
		Exprs:       arena.New[Expr](),
		Stmts:       arena.New[Stmt](),
		Patterns:    arena.New[Pattern](),
		Types:       arena.New[HirType](),
		Functions:   arena.New[Function](),
		TypeDefs:    arena.New[TypeDef](),
		Traits:      arena.New[TraitDef](),
		Impls:       arena.New[ImplBlock](),
		Modules:     arena.New[ModuleDef](),
		Scopes:      tree,
		RootScope:   root,
		TypeByName:  map[interner.Symbol]TypeId{},
		FnByName:    map[interner.Symbol]FnId{},
		TraitByName: map[interner.Symbol]TraitId{},
	}
}

// Struct returns the StructDef named by id, or nil if id names an enum.
func (p *Program) Struct(id TypeId) *StructDef {
	def := p.TypeDefs.Get(id)
	if def.Kind != TypeDefStruct {
		return nil
	}
	return def.Struct
}

// Enum returns the EnumDef named by id, or nil if id names a struct.
func (p *Program) Enum(id TypeId) *EnumDef {
	def := p.TypeDefs.Get(id)
	if def.Kind != TypeDefEnum {
		return nil
	}
	return def.Enum
}

// FieldIndex returns the index of fieldName within structDef's field
// list. Field names become indices at MIR-lowering time (§4.6).
func FieldIndex(def *StructDef, fieldName interner.Symbol) (int, bool) {
	for i, f := range def.Fields {
		if f.Name == fieldName {
			return i, true
		}
	}
	return 0, false
}

// VariantIndex returns the index of variantName within enumDef's variant
// list.
func VariantIndex(def *EnumDef, variantName interner.Symbol) (int, bool) {
	for i, v := range def.Variants {
		if v.Name == variantName {
			return i, true
		}
	}
	return 0, false
}
