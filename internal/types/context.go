package types

import "github.com/orizon-lang/orizon/internal/arena"

// TyContext owns a type arena and the substitution map a round of
// unification extends. internal/mir/program.go shares one TyContext
// across every function it infers; monomorphization creates a fresh one
// per instance (§4.8).
type TyContext struct {
	arena    *arena.Arena[Ty]
	subst    map[VarId]TyId
	nextVar  VarId
}

// NewContext creates an empty TyContext.
func NewContext() *TyContext {
	return &TyContext{
		arena: arena.New[Ty](),
		subst: map[VarId]TyId{},
	}
}

// Alloc stores t and returns its handle.
func (c *TyContext) Alloc(t Ty) TyId { return c.arena.Alloc(t) }

// Get dereferences id.
func (c *TyContext) Get(id TyId) Ty { return c.arena.Get(id) }

// FreshVar allocates a new unification variable and returns its TyId.
func (c *TyContext) FreshVar() TyId {
	id := c.nextVar
	c.nextVar++
	return c.arena.Alloc(Ty{Kind: KindVar, Data: VarData{ID: id}})
}

// Primitive helpers, used pervasively by both inference and tests.
func (c *TyContext) Int() TyId    { return c.arena.Alloc(Ty{Kind: KindInt}) }
func (c *TyContext) Float() TyId  { return c.arena.Alloc(Ty{Kind: KindFloat}) }
func (c *TyContext) Bool() TyId   { return c.arena.Alloc(Ty{Kind: KindBool}) }
func (c *TyContext) String() TyId { return c.arena.Alloc(Ty{Kind: KindString}) }
func (c *TyContext) Unit() TyId   { return c.arena.Alloc(Ty{Kind: KindUnit}) }
func (c *TyContext) Never() TyId  { return c.arena.Alloc(Ty{Kind: KindNever}) }

// resolve follows the substitution chain for id while it points at a
// bound Var, returning the first non-Var (or unbound Var) TyId reached.
func (c *TyContext) resolve(id TyId) TyId {
	for {
		t := c.arena.Get(id)
		if t.Kind != KindVar {
			return id
		}
		v := t.Data.(VarData)
		next, bound := c.subst[v.ID]
		if !bound {
			return id
		}
		id = next
	}
}
