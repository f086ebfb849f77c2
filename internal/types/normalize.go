package types

import "fmt"

// ErrResidualVar is returned by Normalize when a type still contains an
// unbound unification variable after substitution — the class of bug
// NormalizedTy exists to make unreachable downstream (spec §9).
type ErrResidualVar struct{ Var VarId }

func (e *ErrResidualVar) Error() string {
	return fmt.Sprintf("unresolved type variable %d survived normalization", e.Var)
}

// NormalizedTy carries a compile-time-visible proof that the
// substitution has been applied to top-level and every structural
// descendant. Its constructor is unexported: only Normalize produces
// one, so a caller holding a NormalizedTy knows normalization actually
// ran (spec §9, "a wrapper type with a single private constructor
// called only by normalize").
type NormalizedTy struct {
	id TyId
}

// ID returns the underlying TyId. Safe to call from outside the
// package; the invariant lives in how the value was constructed, not in
// hiding the id.
func (n NormalizedTy) ID() TyId { return n.id }

// Normalize walks the substitution to a fixed point and rebuilds id's
// structural descendants in the same arena, failing if a residual Var is
// encountered anywhere in the tree.
func (c *TyContext) Normalize(id TyId) (NormalizedTy, error) {
	resolved, err := c.normalizeRec(id, map[TyId]bool{})
	if err != nil {
		return NormalizedTy{}, err
	}
	return NormalizedTy{id: resolved}, nil
}

func (c *TyContext) normalizeRec(id TyId, visiting map[TyId]bool) (TyId, error) {
	resolvedID := c.resolve(id)
	t := c.arena.Get(resolvedID)

	if t.Kind == KindVar {
		return 0, &ErrResidualVar{Var: t.Data.(VarData).ID}
	}

	// Cyclic structural types (spec §9: "struct Node { next: Node }")
	// would loop forever without this guard; once a TyId is being
	// normalized higher up the call stack, return it as-is rather than
	// recursing again.
	if visiting[resolvedID] {
		return resolvedID, nil
	}
	visiting[resolvedID] = true
	defer delete(visiting, resolvedID)

	switch t.Kind {
	case KindInt, KindFloat, KindBool, KindString, KindUnit, KindNever, KindParam:
		return resolvedID, nil

	case KindFunction:
		d := t.Data.(FunctionData)
		params := make([]TyId, len(d.Params))
		for i, p := range d.Params {
			np, err := c.normalizeRec(p, visiting)
			if err != nil {
				return 0, err
			}
			params[i] = np
		}
		ret, err := c.normalizeRec(d.Ret, visiting)
		if err != nil {
			return 0, err
		}
		return c.arena.Alloc(Ty{Kind: KindFunction, Data: FunctionData{Params: params, Ret: ret}}), nil

	case KindTuple:
		d := t.Data.(TupleData)
		elems := make([]TyId, len(d.Elements))
		for i, e := range d.Elements {
			ne, err := c.normalizeRec(e, visiting)
			if err != nil {
				return 0, err
			}
			elems[i] = ne
		}
		return c.arena.Alloc(Ty{Kind: KindTuple, Data: TupleData{Elements: elems}}), nil

	case KindRef:
		d := t.Data.(RefData)
		inner, err := c.normalizeRec(d.Inner, visiting)
		if err != nil {
			return 0, err
		}
		return c.arena.Alloc(Ty{Kind: KindRef, Data: RefData{Mutable: d.Mutable, Inner: inner}}), nil

	case KindStruct:
		d := t.Data.(StructData)
		fields := make([]StructField, len(d.Fields))
		for i, f := range d.Fields {
			nf, err := c.normalizeRec(f.Ty, visiting)
			if err != nil {
				return 0, err
			}
			fields[i] = StructField{Name: f.Name, Ty: nf}
		}
		return c.arena.Alloc(Ty{Kind: KindStruct, Data: StructData{DefID: d.DefID, Fields: fields}}), nil

	case KindEnum:
		d := t.Data.(EnumData)
		variants := make([]EnumVariant, len(d.Variants))
		for i, v := range d.Variants {
			fields := make([]TyId, len(v.Fields))
			for j, f := range v.Fields {
				nf, err := c.normalizeRec(f, visiting)
				if err != nil {
					return 0, err
				}
				fields[j] = nf
			}
			variants[i] = EnumVariant{Name: v.Name, Fields: fields}
		}
		return c.arena.Alloc(Ty{Kind: KindEnum, Data: EnumData{DefID: d.DefID, Variants: variants}}), nil

	case KindNamed:
		d := t.Data.(NamedData)
		args := make([]TyId, len(d.Args))
		for i, a := range d.Args {
			na, err := c.normalizeRec(a, visiting)
			if err != nil {
				return 0, err
			}
			args[i] = na
		}
		return c.arena.Alloc(Ty{Kind: KindNamed, Data: NamedData{Name: d.Name, Def: d.Def, Args: args}}), nil

	case KindArray:
		d := t.Data.(ArrayData)
		elem, err := c.normalizeRec(d.Element, visiting)
		if err != nil {
			return 0, err
		}
		return c.arena.Alloc(Ty{Kind: KindArray, Data: ArrayData{Element: elem, Size: d.Size}}), nil

	case KindSlice:
		d := t.Data.(SliceData)
		elem, err := c.normalizeRec(d.Element, visiting)
		if err != nil {
			return 0, err
		}
		return c.arena.Alloc(Ty{Kind: KindSlice, Data: SliceData{Element: elem}}), nil

	default:
		return resolvedID, nil
	}
}
