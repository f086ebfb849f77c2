package types

// Set overwrites the Ty stored at id. Used by the HIR→Ty converter to
// fill in a placeholder allocated before recursing into a cyclic type's
// fields (see fromhir.go).
func (c *TyContext) Set(id TyId, t Ty) { c.arena.Set(id, t) }
