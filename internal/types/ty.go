// Package types implements the Hindley–Milner type-inference universe
// (spec §3 "Type-inference types", §4.3): TyKind, a union-find style
// TyContext, unify, and the NormalizedTy safety witness that MIR
// lowering requires instead of a raw TyId.
//
// This universe is deliberately smaller and more structured than
// internal/hir's surface-syntax types; converting from one to the other
// is a one-way, cache-guarded walk (spec §9) implemented in fromhir.go.
package types

import "github.com/orizon-lang/orizon/internal/arena"

// TyId is a handle into a TyContext's type arena.
type TyId = arena.Index[Ty]

// TyDefId names the struct/enum definition a Struct/Enum TyKind refers
// back to. It mirrors hir.TypeId but lives in this package so the type
// representation itself does not depend on internal/hir (the HIR-facing
// files, fromhir.go and infer.go, import hir).
type TyDefId uint32

// VarId names a unification variable, independent of TyId: many TyIds
// may all be Kind==Var referring to the same VarId before substitution
// collapses them.
type VarId uint32

// Kind tags the alternative carried by a Ty's Data field.
type Kind int

const (
	KindInt Kind = iota
	KindFloat
	KindBool
	KindString
	KindUnit
	KindNever
	KindParam
	KindVar
	KindFunction
	KindTuple
	KindRef
	KindStruct
	KindEnum
	KindNamed
	KindArray
	KindSlice
)

func (k Kind) String() string {
	names := [...]string{"Int", "Float", "Bool", "String", "Unit", "Never", "Param", "Var", "Function", "Tuple", "Ref", "Struct", "Enum", "Named", "Array", "Slice"}
	if int(k) < len(names) {
		return names[k]
	}
	return "Unknown"
}

// Ty is a closed sum over inference-time types.
type Ty struct {
	Kind Kind
	Data interface{}
}

type ParamData struct{ Name string }
type VarData struct{ ID VarId }
type FunctionData struct {
	Params []TyId
	Ret    TyId
}
type TupleData struct{ Elements []TyId }
type RefData struct {
	Mutable bool
	Inner   TyId
}
type StructField struct {
	Name string
	Ty   TyId
}
type StructData struct {
	DefID  TyDefId
	Fields []StructField
}
type EnumVariant struct {
	Name   string
	Fields []TyId
}
type EnumData struct {
	DefID    TyDefId
	Variants []EnumVariant
}
type NamedData struct {
	Name string
	Def  *TyDefId
	Args []TyId
}
type ArrayData struct {
	Element TyId
	Size    int64
}
type SliceData struct{ Element TyId }
