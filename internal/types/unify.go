package types

import "fmt"

// UnificationError reports a structural mismatch between two types.
type UnificationError struct {
	Left, Right Ty
}

func (e *UnificationError) Error() string {
	return fmt.Sprintf("cannot unify %s with %s", e.Left.Kind, e.Right.Kind)
}

// Unify walks a and b in parallel, extending the substitution so they
// become equal, or returns a UnificationError. Bindings made earlier in
// the same structural recursion stay in the context's substitution when
// a later step fails; nothing is rolled back.
func (c *TyContext) Unify(a, b TyId) error {
	ra, rb := c.resolve(a), c.resolve(b)
	ta, tb := c.arena.Get(ra), c.arena.Get(rb)

	if ta.Kind == KindVar {
		return c.bind(ta.Data.(VarData).ID, rb)
	}
	if tb.Kind == KindVar {
		return c.bind(tb.Data.(VarData).ID, ra)
	}

	if ta.Kind != tb.Kind {
		return &UnificationError{Left: ta, Right: tb}
	}

	switch ta.Kind {
	case KindInt, KindFloat, KindBool, KindString, KindUnit, KindNever:
		return nil

	case KindParam:
		if ta.Data.(ParamData).Name != tb.Data.(ParamData).Name {
			return &UnificationError{Left: ta, Right: tb}
		}
		return nil

	case KindFunction:
		fa, fb := ta.Data.(FunctionData), tb.Data.(FunctionData)
		if len(fa.Params) != len(fb.Params) {
			return &UnificationError{Left: ta, Right: tb}
		}
		for i := range fa.Params {
			if err := c.Unify(fa.Params[i], fb.Params[i]); err != nil {
				return err
			}
		}
		return c.Unify(fa.Ret, fb.Ret)

	case KindTuple:
		ea, eb := ta.Data.(TupleData), tb.Data.(TupleData)
		if len(ea.Elements) != len(eb.Elements) {
			return &UnificationError{Left: ta, Right: tb}
		}
		for i := range ea.Elements {
			if err := c.Unify(ea.Elements[i], eb.Elements[i]); err != nil {
				return err
			}
		}
		return nil

	case KindRef:
		da, db := ta.Data.(RefData), tb.Data.(RefData)
		if da.Mutable != db.Mutable {
			return &UnificationError{Left: ta, Right: tb}
		}
		return c.Unify(da.Inner, db.Inner)

	case KindStruct:
		sa, sb := ta.Data.(StructData), tb.Data.(StructData)
		if sa.DefID != sb.DefID {
			return &UnificationError{Left: ta, Right: tb}
		}
		return nil

	case KindEnum:
		ea, eb := ta.Data.(EnumData), tb.Data.(EnumData)
		if ea.DefID != eb.DefID {
			return &UnificationError{Left: ta, Right: tb}
		}
		return nil

	case KindNamed:
		na, nb := ta.Data.(NamedData), tb.Data.(NamedData)
		if na.Name != nb.Name || len(na.Args) != len(nb.Args) {
			return &UnificationError{Left: ta, Right: tb}
		}
		for i := range na.Args {
			if err := c.Unify(na.Args[i], nb.Args[i]); err != nil {
				return err
			}
		}
		return nil

	case KindArray:
		aa, ab := ta.Data.(ArrayData), tb.Data.(ArrayData)
		if aa.Size != ab.Size {
			return &UnificationError{Left: ta, Right: tb}
		}
		return c.Unify(aa.Element, ab.Element)

	case KindSlice:
		sa, sb := ta.Data.(SliceData), tb.Data.(SliceData)
		return c.Unify(sa.Element, sb.Element)

	default:
		return &UnificationError{Left: ta, Right: tb}
	}
}

func (c *TyContext) bind(v VarId, target TyId) error {
	if existing, bound := c.subst[v]; bound {
		return c.Unify(existing, target)
	}
	if c.occurs(v, target) {
		return fmt.Errorf("cannot construct infinite type for var %d", v)
	}
	c.subst[v] = target
	return nil
}

func (c *TyContext) occurs(v VarId, id TyId) bool {
	t := c.arena.Get(c.resolve(id))
	if t.Kind == KindVar {
		return t.Data.(VarData).ID == v
	}
	switch t.Kind {
	case KindFunction:
		d := t.Data.(FunctionData)
		for _, p := range d.Params {
			if c.occurs(v, p) {
				return true
			}
		}
		return c.occurs(v, d.Ret)
	case KindTuple:
		for _, e := range t.Data.(TupleData).Elements {
			if c.occurs(v, e) {
				return true
			}
		}
	case KindRef:
		return c.occurs(v, t.Data.(RefData).Inner)
	case KindArray:
		return c.occurs(v, t.Data.(ArrayData).Element)
	case KindSlice:
		return c.occurs(v, t.Data.(SliceData).Element)
	}
	return false
}
