package types

// SubstituteParams rewrites every KindParam occurrence reachable from id
// according to subst (keyed by parameter name), allocating fresh Tys in
// ctx for any node that changes and returning the original id unchanged
// for subtrees with no generic parameter in them. Monomorphization does
// not call it: it re-infers each instance with InferFunctionSeeded.
func SubstituteParams(ctx *TyContext, id TyId, subst map[string]TyId) TyId {
	t := ctx.Get(id)

	switch t.Kind {
	case KindParam:
		name := t.Data.(ParamData).Name
		if concrete, ok := subst[name]; ok {
			return concrete
		}
		return id

	case KindInt, KindFloat, KindBool, KindString, KindUnit, KindNever, KindVar:
		return id

	case KindFunction:
		d := t.Data.(FunctionData)
		params := make([]TyId, len(d.Params))
		changed := false
		for i, p := range d.Params {
			np := SubstituteParams(ctx, p, subst)
			params[i] = np
			changed = changed || np != p
		}
		ret := SubstituteParams(ctx, d.Ret, subst)
		changed = changed || ret != d.Ret
		if !changed {
			return id
		}
		return ctx.Alloc(Ty{Kind: KindFunction, Data: FunctionData{Params: params, Ret: ret}})

	case KindTuple:
		d := t.Data.(TupleData)
		elems := make([]TyId, len(d.Elements))
		changed := false
		for i, e := range d.Elements {
			ne := SubstituteParams(ctx, e, subst)
			elems[i] = ne
			changed = changed || ne != e
		}
		if !changed {
			return id
		}
		return ctx.Alloc(Ty{Kind: KindTuple, Data: TupleData{Elements: elems}})

	case KindRef:
		d := t.Data.(RefData)
		inner := SubstituteParams(ctx, d.Inner, subst)
		if inner == d.Inner {
			return id
		}
		return ctx.Alloc(Ty{Kind: KindRef, Data: RefData{Mutable: d.Mutable, Inner: inner}})

	case KindStruct:
		d := t.Data.(StructData)
		fields := make([]StructField, len(d.Fields))
		changed := false
		for i, f := range d.Fields {
			nf := SubstituteParams(ctx, f.Ty, subst)
			fields[i] = StructField{Name: f.Name, Ty: nf}
			changed = changed || nf != f.Ty
		}
		if !changed {
			return id
		}
		return ctx.Alloc(Ty{Kind: KindStruct, Data: StructData{DefID: d.DefID, Fields: fields}})

	case KindEnum:
		d := t.Data.(EnumData)
		variants := make([]EnumVariant, len(d.Variants))
		changed := false
		for i, v := range d.Variants {
			fields := make([]TyId, len(v.Fields))
			for j, f := range v.Fields {
				nf := SubstituteParams(ctx, f, subst)
				fields[j] = nf
				changed = changed || nf != f
			}
			variants[i] = EnumVariant{Name: v.Name, Fields: fields}
		}
		if !changed {
			return id
		}
		return ctx.Alloc(Ty{Kind: KindEnum, Data: EnumData{DefID: d.DefID, Variants: variants}})

	case KindNamed:
		d := t.Data.(NamedData)
		args := make([]TyId, len(d.Args))
		changed := false
		for i, a := range d.Args {
			na := SubstituteParams(ctx, a, subst)
			args[i] = na
			changed = changed || na != a
		}
		if !changed {
			return id
		}
		return ctx.Alloc(Ty{Kind: KindNamed, Data: NamedData{Name: d.Name, Def: d.Def, Args: args}})

	case KindArray:
		d := t.Data.(ArrayData)
		elem := SubstituteParams(ctx, d.Element, subst)
		if elem == d.Element {
			return id
		}
		return ctx.Alloc(Ty{Kind: KindArray, Data: ArrayData{Element: elem, Size: d.Size}})

	case KindSlice:
		d := t.Data.(SliceData)
		elem := SubstituteParams(ctx, d.Element, subst)
		if elem == d.Element {
			return id
		}
		return ctx.Alloc(Ty{Kind: KindSlice, Data: SliceData{Element: elem}})

	default:
		return id
	}
}
