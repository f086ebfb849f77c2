package hir

import "github.com/orizon-lang/orizon/internal/arena"

// Item-defining arenas. Each HIR item kind gets its own arena so its
// handles stay small integers independent of the other kinds.
type (
	FnId    = arena.Index[Function]
	TypeId  = arena.Index[TypeDef] // struct/enum definitions, keyed uniformly
	TraitId = arena.Index[TraitDef]
	ImplId  = arena.Index[ImplBlock]
	ModId   = arena.Index[ModuleDef]
	LocalId uint32
)

// DefKind tags the alternative held by a DefId.
type DefKind int

const (
	DefNone DefKind = iota
	DefFunction
	DefType
	DefTrait
	DefImpl
	DefModule
	DefLocal
)

// DefId names any item or local variable. It follows the Kind+fields
// idiom used throughout this codebase for closed sums: only the fields
// relevant to Kind are meaningful, the rest are zero.
type DefId struct {
	Kind DefKind

	Fn    FnId
	Type  TypeId
	Trait TraitId
	Impl  ImplId
	Mod   ModId

	// Local is qualified by its enclosing function so two functions'
	// locals never collide.
	LocalFn    FnId
	LocalLocal LocalId
}

func FunctionDef(id FnId) DefId { return DefId{Kind: DefFunction, Fn: id} }
func TypeDefRef(id TypeId) DefId { return DefId{Kind: DefType, Type: id} }
func TraitDefRef(id TraitId) DefId { return DefId{Kind: DefTrait, Trait: id} }
func ImplDefRef(id ImplId) DefId { return DefId{Kind: DefImpl, Impl: id} }
func ModuleDefRef(id ModId) DefId { return DefId{Kind: DefModule, Mod: id} }
func LocalDef(fn FnId, local LocalId) DefId {
	return DefId{Kind: DefLocal, LocalFn: fn, LocalLocal: local}
}

// Equal reports structural equality between two DefIds.
func (d DefId) Equal(o DefId) bool { return d == o }
