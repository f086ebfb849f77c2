package hir

import "github.com/orizon-lang/orizon/internal/interner"

// TypeDefKind distinguishes the two concrete type-definition shapes that
// share the TypeId numbering space (mirroring Raven-Rewrite's TypeDefId,
// which numbers structs and enums uniformly).
type TypeDefKind int

const (
	TypeDefStruct TypeDefKind = iota
	TypeDefEnum
)

// TypeDef is the uniform entry stored in the type-definition arena; Kind
// picks which of Struct/Enum is populated.
type TypeDef struct {
	Kind   TypeDefKind
	Struct *StructDef
	Enum   *EnumDef
}

// FieldDef is one field of a struct.
type FieldDef struct {
	Name interner.Symbol
	Ty   HirTypeId
}

// StructDef is a HIR struct item.
type StructDef struct {
	Name    interner.Symbol
	Fields  []FieldDef
	Generic []interner.Symbol
	Self    TypeId
}

// VariantFieldsKind distinguishes enum variant payload shapes.
type VariantFieldsKind int

const (
	VariantUnit VariantFieldsKind = iota
	VariantTuple
	VariantStruct
)

// VariantFields holds a variant's payload, tagged by VariantFieldsKind.
type VariantFields struct {
	Kind        VariantFieldsKind
	TupleFields []HirTypeId
	StructFields []FieldDef
}

func (v VariantFields) Arity() int {
	switch v.Kind {
	case VariantUnit:
		return 0
	case VariantTuple:
		return len(v.TupleFields)
	case VariantStruct:
		return len(v.StructFields)
	default:
		return 0
	}
}

// EnumVariantDef is one variant of an enum.
type EnumVariantDef struct {
	Name   interner.Symbol
	Fields VariantFields
}

// EnumDef is a HIR enum item.
type EnumDef struct {
	Name     interner.Symbol
	Variants []EnumVariantDef
	Generic  []interner.Symbol
	Self     TypeId
}

// Param is a function parameter.
type Param struct {
	Name interner.Symbol
	Ty   HirTypeId
	// SelfReceiver marks the implicit receiver of a method (`self`,
	// `&self`, `&mut self`); Ty is still populated for uniform handling.
	SelfReceiver bool
	SelfMut      bool
	// Def is the LocalId this parameter was assigned during lowering,
	// filled in alongside its scope entry (spec §4.2).
	Def *DefId
}

// Function is a HIR function item, whether free or a method inside an
// impl block.
type Function struct {
	Name       interner.Symbol
	Generic    []interner.Symbol
	Params     []Param
	ReturnTy   HirTypeId
	Body       ExprId
	Self       FnId
	IsGeneric  bool
}

// ExternalFunction declares an ABI-visible function with no HIR body.
type ExternalFunction struct {
	Name     interner.Symbol
	ABI      string // "C" or "Rust"
	Params   []Param
	ReturnTy HirTypeId
}

// AssocTypeImpl binds a trait's associated type to a concrete HIR type
// within one impl block.
type AssocTypeImpl struct {
	Name interner.Symbol
	Ty   HirTypeId
}

// TraitMethodSig is one method signature declared by a trait.
type TraitMethodSig struct {
	Name     interner.Symbol
	Params   []Param
	ReturnTy HirTypeId
}

// TraitDef is a HIR trait item.
type TraitDef struct {
	Name        interner.Symbol
	Methods     []TraitMethodSig
	AssocTypes  []interner.Symbol
	Self        TraitId
}

// ImplBlock implements either inherent methods on SelfTy, or TraitRef on
// SelfTy when TraitRef is set.
type ImplBlock struct {
	SelfTy              HirTypeId
	TraitRef            *TraitId
	Methods             []FnId
	AssociatedTypeImpls []AssocTypeImpl
	Self                ImplId
}

// ModuleDef is a HIR module item, owning nested item ids by kind.
type ModuleDef struct {
	Name       interner.Symbol
	Structs    []TypeId
	Enums      []TypeId
	Traits     []TraitId
	Impls      []ImplId
	Functions  []FnId
	ExternFns  []ExternalFunction
	SubModules []ModId
	Self       ModId
}
