package hir

import (
	"github.com/orizon-lang/orizon/internal/arena"
	"github.com/orizon-lang/orizon/internal/interner"
)

// HirTypeId is a handle into the HIR-type arena. HIR types mirror surface
// syntax; they are a separate, larger universe than the inference-time
// TyKind in internal/types (spec §9, "Separate HIR-types from
// inference-types").
type HirTypeId = arena.Index[HirType]

// HirTypeKind tags the alternative held by a HirType's Data field.
type HirTypeKind int

const (
	HirTypeNamed HirTypeKind = iota
	HirTypeGeneric
	HirTypeFunction
	HirTypeTuple
	HirTypeReference
	HirTypeQualifiedPath
	HirTypeArray
	HirTypeUnknown
)

// HirType is a closed sum over surface-syntax type expressions. Unknown is
// a lowering placeholder that must not survive type inference.
type HirType struct {
	Kind HirTypeKind
	Data interface{}
}

// NamedType names a concrete type by identifier, e.g. `i64` or
// `Point`. Def is set by lowering when the name is an already-registered
// struct or enum.
type NamedType struct {
	Name interner.Symbol
	Def  *DefId
	Args []HirTypeId
}

// GenericType refers to a generic parameter in scope, e.g. `T`.
type GenericType struct {
	Name interner.Symbol
}

// FunctionType is a function-pointer type `fn(params) -> ret`.
type FunctionType struct {
	Params []HirTypeId
	Ret    HirTypeId
}

// TupleType is a fixed-arity tuple type.
type TupleType struct {
	Elements []HirTypeId
}

// ReferenceType is `&T` or `&mut T`.
type ReferenceType struct {
	Mutable bool
	Inner   HirTypeId
}

// QualifiedPathType is `<Base as Trait>::AssocType`-style associated type
// access.
type QualifiedPathType struct {
	Base       HirTypeId
	AssocType  interner.Symbol
}

// ArrayType is `[T; N]`: a fixed-length array whose length is a const
// expression, evaluated by internal/consteval rather than carried as a
// plain int literal (spec §7, Open Question 3 — only a small subset of
// const expressions is permitted for array sizes).
type ArrayType struct {
	Element HirTypeId
	Size    ExprId
}
