package mir

import (
	"fmt"

	"github.com/orizon-lang/orizon/internal/hir"
	"github.com/orizon-lang/orizon/internal/types"
)

// TypeLowerer elaborates NormalizedTy values (inference's type universe)
// into MirType (MIR's fully-elaborated, structurally-expanded type
// universe), resolving Struct/Enum TyDefId back to their HIR definitions
// so MIR never carries a bare name for a user type (spec §4.5, "Named
// must only remain for externally opaque types").
type TypeLowerer struct {
	Ctx  *types.TyContext
	Prog *hir.Program

	cache map[types.TyId]MirType
}

func NewTypeLowerer(ctx *types.TyContext, prog *hir.Program) *TypeLowerer {
	return &TypeLowerer{Ctx: ctx, Prog: prog, cache: map[types.TyId]MirType{}}
}

// Lower elaborates an already-normalized type. It panics if the
// substitution still left a residual type variable anywhere in the
// tree: NormalizedTy's own constructor guarantees Normalize already
// checked this for the top-level call, but LowerRaw hands the same
// elaboration a TyId built outside that guarantee, so the check is
// repeated here (spec §4.5: "MirType::Var hitting a compiler bug and
// must panic").
func (l *TypeLowerer) Lower(n types.NormalizedTy) MirType {
	return l.lower(n.ID())
}

// LowerRaw is the same elaboration but for a TyId not wrapped in a
// NormalizedTy. It trusts the caller that id holds no unification
// variable; a residual one still panics inside the elaboration.
func (l *TypeLowerer) LowerRaw(id types.TyId) MirType {
	return l.lower(id)
}

func (l *TypeLowerer) lower(id types.TyId) MirType {
	if cached, ok := l.cache[id]; ok {
		return cached
	}

	t := l.Ctx.Get(id)
	switch t.Kind {
	case types.KindInt:
		return MirType{Kind: MirInt}
	case types.KindFloat:
		return MirType{Kind: MirFloat}
	case types.KindBool:
		return MirType{Kind: MirBool}
	case types.KindString:
		return MirType{Kind: MirString}
	case types.KindUnit:
		return MirType{Kind: MirUnit}
	case types.KindNever:
		return MirType{Kind: MirUnit}

	case types.KindVar:
		panic(fmt.Sprintf("mir: residual type variable %v reached MIR lowering", t.Data))

	case types.KindParam:
		panic(fmt.Sprintf("mir: unresolved generic parameter %q reached MIR lowering", t.Data.(types.ParamData).Name))

	case types.KindRef:
		d := t.Data.(types.RefData)
		out := MirType{Kind: MirRef, Data: MirRefData{Mutable: d.Mutable, Inner: l.lower(d.Inner)}}
		l.cache[id] = out
		return out

	case types.KindTuple:
		d := t.Data.(types.TupleData)
		elems := make([]MirType, len(d.Elements))
		for i, e := range d.Elements {
			elems[i] = l.lower(e)
		}
		out := MirType{Kind: MirTuple, Data: MirTupleData{Elements: elems}}
		l.cache[id] = out
		return out

	case types.KindArray:
		d := t.Data.(types.ArrayData)
		out := MirType{Kind: MirArray, Data: MirArrayData{Element: l.lower(d.Element), Size: d.Size}}
		l.cache[id] = out
		return out

	case types.KindSlice:
		d := t.Data.(types.SliceData)
		out := MirType{Kind: MirSlice, Data: MirSliceData{Element: l.lower(d.Element)}}
		l.cache[id] = out
		return out

	case types.KindFunction:
		d := t.Data.(types.FunctionData)
		params := make([]MirType, len(d.Params))
		for i, p := range d.Params {
			params[i] = l.lower(p)
		}
		out := MirType{Kind: MirFn, Data: MirFunctionData{Params: params, Ret: l.lower(d.Ret)}}
		l.cache[id] = out
		return out

	case types.KindStruct:
		d := t.Data.(types.StructData)
		def := l.Prog.Struct(hir.TypeId(d.DefID))
		name := l.Prog.Symbols.Lookup(def.Name)
		// Placeholder first so a field referring back to this same
		// struct (a self-referential type, spec §9's Node{next: Node}
		// example) resolves to a finished-enough entry rather than
		// recursing forever.
		placeholder := MirType{Kind: MirStruct, Data: MirStructData{Name: name}}
		l.cache[id] = placeholder
		fields := make([]MirStructField, len(d.Fields))
		for i, f := range d.Fields {
			fields[i] = MirStructField{Name: f.Name, Ty: l.lower(f.Ty)}
		}
		out := MirType{Kind: MirStruct, Data: MirStructData{Name: name, Fields: fields}}
		l.cache[id] = out
		return out

	case types.KindEnum:
		d := t.Data.(types.EnumData)
		def := l.Prog.Enum(hir.TypeId(d.DefID))
		name := l.Prog.Symbols.Lookup(def.Name)
		placeholder := MirType{Kind: MirEnum, Data: MirEnumData{Name: name}}
		l.cache[id] = placeholder
		variants := make([]MirVariant, len(d.Variants))
		for i, v := range d.Variants {
			fields := make([]MirType, len(v.Fields))
			for j, f := range v.Fields {
				fields[j] = l.lower(f)
			}
			variants[i] = MirVariant{Name: v.Name, Fields: fields}
		}
		out := MirType{Kind: MirEnum, Data: MirEnumData{Name: name, Variants: variants}}
		l.cache[id] = out
		return out

	case types.KindNamed:
		d := t.Data.(types.NamedData)
		out := MirType{Kind: MirNamed, Data: MirNamedData{Name: d.Name}}
		l.cache[id] = out
		return out

	default:
		panic(fmt.Sprintf("mir: unhandled type kind %v", t.Kind))
	}
}
