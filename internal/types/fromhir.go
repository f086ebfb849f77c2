package types

import (
	"github.com/orizon-lang/orizon/internal/consteval"
	"github.com/orizon-lang/orizon/internal/hir"
)

// HirConverter performs the one-way, cache-guarded walk from
// internal/hir's surface-syntax types into this package's inference
// universe (spec §9, "Separate HIR-types from inference-types"). The
// cache that breaks cycles (defCache) is keyed by the HIR struct/enum
// definition id rather than by HirTypeId, because two distinct HirType arena slots can both name the
// same recursive struct (`struct Node { next: Node }`); keying on the
// definition is what actually breaks the cycle.
type HirConverter struct {
	ctx      *TyContext
	prog     *hir.Program
	defCache map[hir.TypeId]TyId
	hirCache map[hir.HirTypeId]TyId
	generics map[string]TyId

	// arrayErrors accumulates const-evaluation failures encountered while
	// converting an ArrayType's size expression (internal/consteval); a
	// failed size still yields a KindArray Ty (size 0) so conversion can
	// keep going and report every failure at once.
	arrayErrors []error
}

// NewHirConverter creates a converter writing into ctx. generics, if
// non-nil, is consulted before allocating a fresh KindParam entry for a
// Generic{name} HIR type, so repeated references to the same generic
// parameter within one function share a single Ty.
func NewHirConverter(ctx *TyContext, prog *hir.Program, generics map[string]TyId) *HirConverter {
	if generics == nil {
		generics = map[string]TyId{}
	}
	return &HirConverter{
		ctx:      ctx,
		prog:     prog,
		defCache: map[hir.TypeId]TyId{},
		hirCache: map[hir.HirTypeId]TyId{},
		generics: generics,
	}
}

// Errors returns every const-evaluation failure accumulated while
// converting an ArrayType's size expression.
func (hc *HirConverter) Errors() []error { return hc.arrayErrors }

// Convert lowers a HIR type handle into a TyId.
func (hc *HirConverter) Convert(id hir.HirTypeId) TyId {
	if cached, ok := hc.hirCache[id]; ok {
		return cached
	}
	ht := hc.prog.Types.Get(id)
	result := hc.convertKind(ht)
	hc.hirCache[id] = result
	return result
}

func (hc *HirConverter) convertKind(ht hir.HirType) TyId {
	switch ht.Kind {
	case hir.HirTypeGeneric:
		name := hc.prog.Symbols.Lookup(ht.Data.(hir.GenericType).Name)
		if v, ok := hc.generics[name]; ok {
			return v
		}
		v := hc.ctx.Alloc(Ty{Kind: KindParam, Data: ParamData{Name: name}})
		hc.generics[name] = v
		return v

	case hir.HirTypeFunction:
		d := ht.Data.(hir.FunctionType)
		params := make([]TyId, len(d.Params))
		for i, p := range d.Params {
			params[i] = hc.Convert(p)
		}
		return hc.ctx.Alloc(Ty{Kind: KindFunction, Data: FunctionData{Params: params, Ret: hc.Convert(d.Ret)}})

	case hir.HirTypeTuple:
		d := ht.Data.(hir.TupleType)
		elems := make([]TyId, len(d.Elements))
		for i, e := range d.Elements {
			elems[i] = hc.Convert(e)
		}
		return hc.ctx.Alloc(Ty{Kind: KindTuple, Data: TupleData{Elements: elems}})

	case hir.HirTypeReference:
		d := ht.Data.(hir.ReferenceType)
		return hc.ctx.Alloc(Ty{Kind: KindRef, Data: RefData{Mutable: d.Mutable, Inner: hc.Convert(d.Inner)}})

	case hir.HirTypeQualifiedPath:
		// Associated-type resolution is out of this core's scope beyond
		// naming the slot; represent it as an opaque Named type keyed
		// by the associated type's own name.
		d := ht.Data.(hir.QualifiedPathType)
		return hc.ctx.Alloc(Ty{Kind: KindNamed, Data: NamedData{Name: hc.prog.Symbols.Lookup(d.AssocType)}})

	case hir.HirTypeArray:
		d := ht.Data.(hir.ArrayType)
		elem := hc.Convert(d.Element)
		size, err := consteval.EvalArraySize(hc.prog, d.Size)
		if err != nil {
			hc.arrayErrors = append(hc.arrayErrors, err)
		}
		return hc.ctx.Alloc(Ty{Kind: KindArray, Data: ArrayData{Element: elem, Size: size}})

	case hir.HirTypeNamed:
		return hc.convertNamed(ht.Data.(hir.NamedType))

	case hir.HirTypeUnknown:
		return hc.ctx.FreshVar()

	default:
		return hc.ctx.FreshVar()
	}
}

func (hc *HirConverter) convertNamed(d hir.NamedType) TyId {
	name := hc.prog.Symbols.Lookup(d.Name)
	if prim, ok := primitiveTy(hc.ctx, name); ok {
		return prim
	}

	if d.Def == nil || d.Def.Kind != hir.DefType {
		args := make([]TyId, len(d.Args))
		for i, a := range d.Args {
			args[i] = hc.Convert(a)
		}
		return hc.ctx.Alloc(Ty{Kind: KindNamed, Data: NamedData{Name: name, Args: args}})
	}

	typeID := d.Def.Type
	if cached, ok := hc.defCache[typeID]; ok {
		return cached
	}

	def := hc.prog.TypeDefs.Get(typeID)
	switch def.Kind {
	case hir.TypeDefStruct:
		placeholder := hc.ctx.Alloc(Ty{Kind: KindStruct, Data: StructData{DefID: TyDefId(typeID)}})
		hc.defCache[typeID] = placeholder
		fields := make([]StructField, len(def.Struct.Fields))
		for i, f := range def.Struct.Fields {
			fields[i] = StructField{Name: hc.prog.Symbols.Lookup(f.Name), Ty: hc.Convert(f.Ty)}
		}
		hc.ctx.Set(placeholder, Ty{Kind: KindStruct, Data: StructData{DefID: TyDefId(typeID), Fields: fields}})
		return placeholder

	case hir.TypeDefEnum:
		placeholder := hc.ctx.Alloc(Ty{Kind: KindEnum, Data: EnumData{DefID: TyDefId(typeID)}})
		hc.defCache[typeID] = placeholder
		variants := make([]EnumVariant, len(def.Enum.Variants))
		for i, v := range def.Enum.Variants {
			var fields []TyId
			if v.Fields.Kind == hir.VariantTuple {
				fields = make([]TyId, len(v.Fields.TupleFields))
				for j, f := range v.Fields.TupleFields {
					fields[j] = hc.Convert(f)
				}
			} else if v.Fields.Kind == hir.VariantStruct {
				fields = make([]TyId, len(v.Fields.StructFields))
				for j, f := range v.Fields.StructFields {
					fields[j] = hc.Convert(f.Ty)
				}
			}
			variants[i] = EnumVariant{Name: hc.prog.Symbols.Lookup(v.Name), Fields: fields}
		}
		hc.ctx.Set(placeholder, Ty{Kind: KindEnum, Data: EnumData{DefID: TyDefId(typeID), Variants: variants}})
		return placeholder

	default:
		return hc.ctx.FreshVar()
	}
}

// ConvertTypeDef builds a TyId for the struct or enum identified by
// tid, the same way Convert elaborates a Named HIR type referencing it.
// Monomorphization (§4.8) uses this to seed a fresh TyContext's generic
// parameter with a concrete struct/enum type read back from already-
// lowered MIR (which only carries the type's name), rather than from a
// HirTypeId index into some function's own signature.
func (hc *HirConverter) ConvertTypeDef(name string, tid hir.TypeId) TyId {
	return hc.convertNamed(hir.NamedType{Name: hc.prog.Symbols.Intern(name), Def: defPtr(hir.TypeDefRef(tid))})
}

func primitiveTy(ctx *TyContext, name string) (TyId, bool) {
	switch name {
	case "i8", "i16", "i32", "i64", "u8", "u16", "u32", "u64":
		return ctx.Int(), true
	case "f32", "f64":
		return ctx.Float(), true
	case "bool":
		return ctx.Bool(), true
	case "str", "string":
		return ctx.String(), true
	case "()":
		return ctx.Unit(), true
	default:
		return 0, false
	}
}
