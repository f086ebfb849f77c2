// Package mono implements monomorphization (spec §4.8): it walks an
// already-lowered mir.Program looking for calls into a still-generic
// HIR function, synthesizes one concrete instance per unique
// argument-type tuple, and rewrites every call site to reference the
// instance instead of the template. Grounded on the teacher's
// HIRToMIRTransformer accumulate-then-resolve shape, generalized here
// into the three-phase collect/generate/rewrite split the spec names.
package mono

import (
	"fmt"
	"strings"

	"github.com/orizon-lang/orizon/internal/hir"
	"github.com/orizon-lang/orizon/internal/interner"
	"github.com/orizon-lang/orizon/internal/methodresolve"
	"github.com/orizon-lang/orizon/internal/mir"
	"github.com/orizon-lang/orizon/internal/types"
)

// Monomorphizer drives the collect/generate/rewrite passes over one
// compiled program. Prog is mutated: Generation allocates one fresh
// hir.Function per needed instance directly in Prog.Functions, reusing
// the template's Params/Body (immutable HIR data safe to share across
// instances) under a new FnId and a mangled Name.
type Monomorphizer struct {
	Prog      *hir.Program
	MethodRes *methodresolve.Resolver
}

func New(prog *hir.Program, methodRes *methodresolve.Resolver) *Monomorphizer {
	return &Monomorphizer{Prog: prog, MethodRes: methodRes}
}

// instanceKey identifies one (template, concrete argument types) pair.
type instanceKey struct {
	Template hir.FnId
	ArgsKey  string
}

func argTypesKey(args []mir.MirType) string {
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = a.String()
	}
	return strings.Join(parts, ",")
}

// Run executes all three phases (§4.8) over prog, returning the final
// function list: every originally non-generic function plus one
// MirFunction per synthesized instance, with every Call/TermCall
// rewritten away from a generic template. Instance ordering follows
// first-seen order during collection, making the result deterministic
// across runs of the same input.
func (m *Monomorphizer) Run(prog *mir.Program) *mir.Program {
	needed, order := m.collect(prog)
	if len(needed) == 0 {
		return prog
	}

	instances := m.generate(order, needed)

	out := &mir.Program{Functions: append([]*mir.MirFunction{}, prog.Functions...)}
	for _, key := range order {
		out.Functions = append(out.Functions, instances[key].fn)
	}

	for _, fn := range out.Functions {
		m.rewriteCalls(fn, instances)
	}

	return out
}

type callSite struct {
	template hir.FnId
	args     []mir.MirType
}

// collect implements Phase 1: every Call/TermCall targeting a function
// the HIR program marks IsGeneric is recorded as one needed instance,
// keyed by the template id and its concrete argument-type tuple.
func (m *Monomorphizer) collect(prog *mir.Program) (map[instanceKey]callSite, []instanceKey) {
	needed := map[instanceKey]callSite{}
	var order []instanceKey

	record := func(fnID hir.FnId, fn *mir.MirFunction, args []mir.Operand) {
		if !m.isGeneric(fnID) {
			return
		}
		argTys := make([]mir.MirType, len(args))
		for i, a := range args {
			argTys[i] = operandType(fn, a)
		}
		key := instanceKey{Template: fnID, ArgsKey: argTypesKey(argTys)}
		if _, ok := needed[key]; ok {
			return
		}
		needed[key] = callSite{template: fnID, args: argTys}
		order = append(order, key)
	}

	for _, fn := range prog.Functions {
		for _, bb := range fn.Blocks {
			for _, s := range bb.Statements {
				if s.Kind == mir.StmtAssign && s.RValue.Kind == mir.RValueCall {
					record(s.RValue.Func, fn, s.RValue.Args)
				}
			}
			if bb.Terminator.Kind == mir.TermCall {
				record(bb.Terminator.Func, fn, bb.Terminator.Args)
			}
		}
	}
	return needed, order
}

func (m *Monomorphizer) isGeneric(fnID hir.FnId) bool {
	if int(fnID) <= 0 || int(fnID) > m.Prog.Functions.Len() {
		return false
	}
	return m.Prog.Functions.Get(fnID).IsGeneric
}

// operandType recovers the MirType of an already-lowered operand. Call
// arguments are always a bare local copy with no projection (lowerCall/
// lowerMethodCall emit exactly `CopyOf(LocalPlace(...))`), so reading
// that local's declared type is exact.
func operandType(fn *mir.MirFunction, o mir.Operand) mir.MirType {
	if o.Kind == mir.OperandConstant {
		return o.Ty
	}
	return fn.Locals[o.Place.Local].Ty
}

type instance struct {
	key hir.FnId
	fn  *mir.MirFunction
}

// generate implements Phase 2: for each unique needed instance, mint a
// fresh hir.Function (a concrete alias of the generic template under a
// new FnId), run inference seeded with the instance's concrete
// argument types in place of its generic parameters, and lower the
// result to MIR.
func (m *Monomorphizer) generate(order []instanceKey, needed map[instanceKey]callSite) map[instanceKey]*instance {
	out := make(map[instanceKey]*instance, len(needed))

	for _, key := range order {
		site := needed[key]
		template := m.Prog.Functions.Get(site.template)

		name := mangledName(m.Prog, template.Name, site.args)
		instFn := hir.Function{
			Name:     m.Prog.Symbols.Intern(name),
			Params:   template.Params,
			ReturnTy: template.ReturnTy,
			Body:     template.Body,
		}
		instID := m.Prog.Functions.Alloc(instFn)
		instFn.Self = instID
		m.Prog.Functions.Set(instID, instFn)

		ctx := types.NewContext()
		inf := types.NewInference(ctx, m.Prog, m.MethodRes)
		hc := types.NewHirConverter(ctx, m.Prog, nil)

		seeds := m.buildSeeds(hc, ctx, template, site.args)
		inf.InferFunctionSeeded(instID, seeds)

		tl := mir.NewTypeLowerer(ctx, m.Prog)
		mf := mir.LowerFunction(m.Prog, ctx, inf, tl, m.MethodRes, instID)

		out[key] = &instance{key: instID, fn: mf}
	}
	return out
}

// buildSeeds maps each of the template's generic parameter names to a
// concrete TyId built from the matching argument position, by reading
// off which declared HIR parameter type is Generic{name} (spec §4.8
// phase 2 step 2).
func (m *Monomorphizer) buildSeeds(hc *types.HirConverter, ctx *types.TyContext, template hir.Function, args []mir.MirType) map[string]types.TyId {
	seeds := map[string]types.TyId{}
	for i, p := range template.Params {
		if i >= len(args) {
			break
		}
		ht := m.Prog.Types.Get(p.Ty)
		if ht.Kind != hir.HirTypeGeneric {
			continue
		}
		name := m.Prog.Symbols.Lookup(ht.Data.(hir.GenericType).Name)
		if _, ok := seeds[name]; ok {
			continue
		}
		seeds[name] = m.mirTypeToTy(hc, ctx, args[i])
	}
	return seeds
}

// mirTypeToTy is the inverse of TypeLowerer: it reconstructs a TyId for
// a fully-elaborated MirType, used only to seed a fresh TyContext with
// the concrete type a generic parameter instantiates to. Struct/Enum
// cases round-trip through the HIR definition tables (by name) so the
// seeded Ty carries real field types, not just an opaque DefID.
func (m *Monomorphizer) mirTypeToTy(hc *types.HirConverter, ctx *types.TyContext, mt mir.MirType) types.TyId {
	switch mt.Kind {
	case mir.MirInt:
		return ctx.Int()
	case mir.MirFloat:
		return ctx.Float()
	case mir.MirBool:
		return ctx.Bool()
	case mir.MirString:
		return ctx.String()
	case mir.MirUnit:
		return ctx.Unit()
	case mir.MirNamed:
		return ctx.Alloc(types.Ty{Kind: types.KindNamed, Data: types.NamedData{Name: mt.Data.(mir.MirNamedData).Name}})
	case mir.MirStruct:
		d := mt.Data.(mir.MirStructData)
		sym := m.Prog.Symbols.Intern(d.Name)
		tid, ok := m.Prog.TypeByName[sym]
		if !ok {
			return ctx.FreshVar()
		}
		return hc.ConvertTypeDef(d.Name, tid)
	case mir.MirEnum:
		d := mt.Data.(mir.MirEnumData)
		sym := m.Prog.Symbols.Intern(d.Name)
		tid, ok := m.Prog.TypeByName[sym]
		if !ok {
			return ctx.FreshVar()
		}
		return hc.ConvertTypeDef(d.Name, tid)
	case mir.MirTuple:
		d := mt.Data.(mir.MirTupleData)
		elems := make([]types.TyId, len(d.Elements))
		for i, e := range d.Elements {
			elems[i] = m.mirTypeToTy(hc, ctx, e)
		}
		return ctx.Alloc(types.Ty{Kind: types.KindTuple, Data: types.TupleData{Elements: elems}})
	case mir.MirArray:
		d := mt.Data.(mir.MirArrayData)
		return ctx.Alloc(types.Ty{Kind: types.KindArray, Data: types.ArrayData{Element: m.mirTypeToTy(hc, ctx, d.Element), Size: d.Size}})
	case mir.MirSlice:
		d := mt.Data.(mir.MirSliceData)
		return ctx.Alloc(types.Ty{Kind: types.KindSlice, Data: types.SliceData{Element: m.mirTypeToTy(hc, ctx, d.Element)}})
	case mir.MirRef:
		d := mt.Data.(mir.MirRefData)
		return ctx.Alloc(types.Ty{Kind: types.KindRef, Data: types.RefData{Mutable: d.Mutable, Inner: m.mirTypeToTy(hc, ctx, d.Inner)}})
	case mir.MirFn:
		d := mt.Data.(mir.MirFunctionData)
		params := make([]types.TyId, len(d.Params))
		for i, p := range d.Params {
			params[i] = m.mirTypeToTy(hc, ctx, p)
		}
		return ctx.Alloc(types.Ty{Kind: types.KindFunction, Data: types.FunctionData{Params: params, Ret: m.mirTypeToTy(hc, ctx, d.Ret)}})
	default:
		return ctx.FreshVar()
	}
}

func mangledName(prog *hir.Program, base interner.Symbol, args []mir.MirType) string {
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = a.String()
	}
	return fmt.Sprintf("%s$%s", prog.Symbols.Lookup(base), strings.Join(parts, "$"))
}

// rewriteCalls implements Phase 3: any Call/TermCall targeting a
// generic template is redirected to the instance matching its own
// argument-type tuple, when one was generated. After this runs over
// every function (originals and freshly generated instances alike),
// no call can reach a generic template (spec §4.8 phase 3).
func (m *Monomorphizer) rewriteCalls(fn *mir.MirFunction, instances map[instanceKey]*instance) {
	resolve := func(fnID hir.FnId, args []mir.Operand) (hir.FnId, bool) {
		if !m.isGeneric(fnID) {
			return fnID, false
		}
		argTys := make([]mir.MirType, len(args))
		for i, a := range args {
			argTys[i] = operandType(fn, a)
		}
		key := instanceKey{Template: fnID, ArgsKey: argTypesKey(argTys)}
		inst, ok := instances[key]
		if !ok {
			return fnID, false
		}
		return inst.key, true
	}

	for bi := range fn.Blocks {
		bb := &fn.Blocks[bi]
		for si := range bb.Statements {
			s := &bb.Statements[si]
			if s.Kind == mir.StmtAssign && s.RValue.Kind == mir.RValueCall {
				if newID, ok := resolve(s.RValue.Func, s.RValue.Args); ok {
					s.RValue.Func = newID
				}
			}
		}
		if bb.Terminator.Kind == mir.TermCall {
			if newID, ok := resolve(bb.Terminator.Func, bb.Terminator.Args); ok {
				bb.Terminator.Func = newID
			}
		}
	}
}
