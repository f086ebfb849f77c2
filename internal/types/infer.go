package types

import (
	"fmt"

	"github.com/orizon-lang/orizon/internal/hir"
	"github.com/orizon-lang/orizon/internal/interner"
)

// MethodResolver resolves `receiver.method(...)` to a concrete function
// (spec §4.9). internal/methodresolve implements this against the same
// TyContext the caller is inferring with; internal/types only depends on
// the interface, never on the concrete resolver, so the two packages
// don't form an import cycle.
type MethodResolver interface {
	ResolveMethod(ctx *TyContext, receiver TyId, method string) (hir.FnId, bool)
}

// UnificationFailure reports a unification error encountered while typing
// a specific expression.
type UnificationFailure struct {
	Expr hir.ExprId
	Err  error
}

func (e *UnificationFailure) Error() string {
	return fmt.Sprintf("expr %d: %s", e.Expr, e.Err)
}

// UndefinedVariable reports a Variable expression the resolver never
// attached a DefId to.
type UndefinedVariable struct {
	Expr hir.ExprId
	Name string
}

func (e *UndefinedVariable) Error() string {
	return fmt.Sprintf("expr %d: undefined variable %q", e.Expr, e.Name)
}

// FieldNotFound reports access to a field that doesn't exist on the
// base expression's resolved type.
type FieldNotFound struct {
	Expr  hir.ExprId
	Field string
}

func (e *FieldNotFound) Error() string {
	return fmt.Sprintf("expr %d: no field %q", e.Expr, e.Field)
}

// MethodNotFound reports a method call the resolver could not match to
// any impl block.
type MethodNotFound struct {
	Expr   hir.ExprId
	Method string
}

func (e *MethodNotFound) Error() string {
	return fmt.Sprintf("expr %d: no method %q", e.Expr, e.Method)
}

// TypeNotFound reports a struct/enum construction whose name lowering
// never attached a definition to.
type TypeNotFound struct {
	Expr hir.ExprId
	Name string
}

func (e *TypeNotFound) Error() string {
	return fmt.Sprintf("expr %d: undefined type %q", e.Expr, e.Name)
}

// Inference carries the per-function state of one Hindley-Milner pass
// (spec §4.3): the shared TyContext, the program being typed, the
// method resolver, and the accumulated per-expression types and errors.
// Lowering errors, resolution errors and type errors all accumulate
// rather than aborting (spec §7); only ErrResidualVar-class internal
// invariant violations panic, and this package never panics on
// ordinary source-level mistakes.
type Inference struct {
	Ctx       *TyContext
	Prog      *hir.Program
	Resolver  MethodResolver
	ExprTypes map[hir.ExprId]TyId

	// LocalTypes carries every local/parameter binding's inferred type,
	// qualified by its owning function so two functions' LocalIds never
	// collide (mirroring DefId.LocalFn/LocalLocal). MIR lowering reads
	// this to type a Local entry at the point it's declared, which may
	// not correspond to any single Variable expression's occurrence.
	LocalTypes map[hir.FnId]map[hir.LocalId]TyId

	currentFn    hir.FnId
	currentRetTy TyId
	errors       []error
}

// NewInference creates an Inference pass writing into ctx.
func NewInference(ctx *TyContext, prog *hir.Program, resolver MethodResolver) *Inference {
	return &Inference{
		Ctx:        ctx,
		Prog:       prog,
		Resolver:   resolver,
		ExprTypes:  map[hir.ExprId]TyId{},
		LocalTypes: map[hir.FnId]map[hir.LocalId]TyId{},
	}
}

func (inf *Inference) bindLocal(fnID hir.FnId, local hir.LocalId, ty TyId) {
	m, ok := inf.LocalTypes[fnID]
	if !ok {
		m = map[hir.LocalId]TyId{}
		inf.LocalTypes[fnID] = m
	}
	m[local] = ty
}

// Errors returns every type error accumulated so far.
func (inf *Inference) Errors() []error { return inf.errors }

func (inf *Inference) errorf(e error) { inf.errors = append(inf.errors, e) }

func (inf *Inference) unify(exprID hir.ExprId, a, b TyId) {
	if err := inf.Ctx.Unify(a, b); err != nil {
		inf.errorf(&UnificationFailure{Expr: exprID, Err: err})
	}
}

// InferFunction types fn's parameters, body, and return type, seeding
// the function's own generic parameters as fresh KindParam entries so
// the body infers against the unspecialized template (monomorphization
// re-infers each instance with InferFunctionSeeded).
func (inf *Inference) InferFunction(fnID hir.FnId) TyId {
	return inf.inferFunction(fnID, nil)
}

// InferFunctionSeeded types fn the same way InferFunction does, except
// each of fn's generic parameter names present in seeds binds directly
// to the given concrete TyId instead of a fresh KindParam. Monomorphization
// (§4.8 phase 2) uses this to run one inference pass per needed instance,
// so the instance's body is typed directly against concrete types rather
// than typed generically and substituted after the fact.
func (inf *Inference) InferFunctionSeeded(fnID hir.FnId, seeds map[string]TyId) TyId {
	return inf.inferFunction(fnID, seeds)
}

func (inf *Inference) inferFunction(fnID hir.FnId, seeds map[string]TyId) TyId {
	inf.currentFn = fnID
	fn := inf.Prog.Functions.Get(fnID)

	generics := map[string]TyId{}
	for _, g := range fn.Generic {
		name := inf.Prog.Symbols.Lookup(g)
		if seed, ok := seeds[name]; ok {
			generics[name] = seed
			continue
		}
		generics[name] = inf.Ctx.Alloc(Ty{Kind: KindParam, Data: ParamData{Name: name}})
	}
	hc := NewHirConverter(inf.Ctx, inf.Prog, generics)

	locals := map[hir.LocalId]TyId{}
	paramTys := make([]TyId, 0, len(fn.Params))
	for _, p := range fn.Params {
		var ty TyId
		switch {
		case p.SelfReceiver:
			ty = inf.selfReceiverType(hc, fn.Name)
		default:
			ty = hc.Convert(p.Ty)
		}
		paramTys = append(paramTys, ty)
		if p.Def != nil && p.Def.Kind == hir.DefLocal {
			locals[p.Def.LocalLocal] = ty
			inf.bindLocal(fnID, p.Def.LocalLocal, ty)
		}
	}

	retTy := hc.Convert(fn.ReturnTy)
	inf.currentRetTy = retTy

	if fn.Body.Valid() {
		bodyTy := inf.inferExpr(fn.Body, locals, hc)
		inf.unify(fn.Body, bodyTy, retTy)
	}

	inf.errors = append(inf.errors, hc.Errors()...)

	return inf.Ctx.Alloc(Ty{Kind: KindFunction, Data: FunctionData{Params: paramTys, Ret: retTy}})
}

// selfReceiverType recovers the impl's Self type from a method's
// lowering-qualified name ("Point::len"), since `self` carries no HIR
// type annotation of its own (spec §4.2's uniform Param shape).
func (inf *Inference) selfReceiverType(hc *HirConverter, fnName interner.Symbol) TyId {
	full := inf.Prog.Symbols.Lookup(fnName)
	selfName := full
	for i := 0; i+1 < len(full); i++ {
		if full[i] == ':' && full[i+1] == ':' {
			selfName = full[:i]
			break
		}
	}
	sym := inf.Prog.Symbols.Intern(selfName)
	tid, ok := inf.Prog.TypeByName[sym]
	if !ok {
		return inf.Ctx.FreshVar()
	}
	return hc.convertNamed(hir.NamedType{Name: sym, Def: defPtr(hir.TypeDefRef(tid))})
}

func defPtr(d hir.DefId) *hir.DefId { return &d }

func (inf *Inference) inferExpr(id hir.ExprId, locals map[hir.LocalId]TyId, hc *HirConverter) TyId {
	if cached, ok := inf.ExprTypes[id]; ok {
		return cached
	}
	e := inf.Prog.Exprs.Get(id)
	ty := inf.inferExprKind(id, e, locals, hc)
	inf.ExprTypes[id] = ty
	return ty
}

func (inf *Inference) inferExprKind(id hir.ExprId, e hir.Expr, locals map[hir.LocalId]TyId, hc *HirConverter) TyId {
	switch e.Kind {
	case hir.ExprLiteral:
		return inf.literalTy(e.Data.(hir.LiteralExpr).Value)

	case hir.ExprVariable:
		d := e.Data.(hir.VariableExpr)
		if d.Def == nil {
			inf.errorf(&UndefinedVariable{Expr: id, Name: inf.Prog.Symbols.Lookup(d.Name)})
			return inf.Ctx.FreshVar()
		}
		return inf.tyOfDef(*d.Def, locals, hc)

	case hir.ExprCall:
		d := e.Data.(hir.CallExpr)
		calleeTy := inf.inferExpr(d.Callee, locals, hc)
		argTys := make([]TyId, len(d.Args))
		for i, a := range d.Args {
			argTys[i] = inf.inferExpr(a, locals, hc)
		}
		retVar := inf.Ctx.FreshVar()
		expected := inf.Ctx.Alloc(Ty{Kind: KindFunction, Data: FunctionData{Params: argTys, Ret: retVar}})
		inf.unify(id, calleeTy, expected)
		return retVar

	case hir.ExprMethodCall:
		d := e.Data.(hir.MethodCallExpr)
		recvTy := inf.inferExpr(d.Receiver, locals, hc)
		methodName := inf.Prog.Symbols.Lookup(d.Method)
		fnID, ok := inf.Resolver.ResolveMethod(inf.Ctx, recvTy, methodName)
		if !ok {
			inf.errorf(&MethodNotFound{Expr: id, Method: methodName})
			return inf.Ctx.FreshVar()
		}
		return inf.inferCall(id, fnID, d.Args, locals, hc)

	case hir.ExprBinaryOp:
		d := e.Data.(hir.BinaryOpExpr)
		lt := inf.inferExpr(d.Left, locals, hc)
		rt := inf.inferExpr(d.Right, locals, hc)
		inf.unify(id, lt, rt)
		if d.Op.IsComparison() {
			return inf.Ctx.Bool()
		}
		return lt

	case hir.ExprUnaryOp:
		d := e.Data.(hir.UnaryOpExpr)
		ot := inf.inferExpr(d.Operand, locals, hc)
		if d.Op == hir.UnNot {
			inf.unify(id, ot, inf.Ctx.Bool())
			return inf.Ctx.Bool()
		}
		return ot

	case hir.ExprIf:
		d := e.Data.(hir.IfExpr)
		condTy := inf.inferExpr(d.Cond, locals, hc)
		inf.unify(id, condTy, inf.Ctx.Bool())
		thenTy := inf.inferExpr(d.Then, locals, hc)
		if d.Else != nil {
			elseTy := inf.inferExpr(*d.Else, locals, hc)
			inf.unify(id, thenTy, elseTy)
			return thenTy
		}
		inf.unify(id, thenTy, inf.Ctx.Unit())
		return inf.Ctx.Unit()

	case hir.ExprBlock:
		d := e.Data.(hir.BlockExpr)
		for _, s := range d.Stmts {
			inf.inferStmt(s, locals, hc)
		}
		if d.Trailing != nil {
			return inf.inferExpr(*d.Trailing, locals, hc)
		}
		return inf.Ctx.Unit()

	case hir.ExprMatch:
		d := e.Data.(hir.MatchExpr)
		scrutTy := inf.inferExpr(d.Scrutinee, locals, hc)
		resultTy := inf.Ctx.FreshVar()
		for _, arm := range d.Arms {
			inf.inferPattern(arm.Pattern, scrutTy, locals, hc)
			if arm.Guard != nil {
				guardTy := inf.inferExpr(*arm.Guard, locals, hc)
				inf.unify(id, guardTy, inf.Ctx.Bool())
			}
			armTy := inf.inferExpr(arm.Body, locals, hc)
			inf.unify(id, resultTy, armTy)
		}
		return resultTy

	case hir.ExprField:
		d := e.Data.(hir.FieldExpr)
		baseTy := inf.inferExpr(d.Base, locals, hc)
		fieldName := inf.Prog.Symbols.Lookup(d.Field)
		ty, ok := inf.fieldTy(baseTy, fieldName)
		if !ok {
			inf.errorf(&FieldNotFound{Expr: id, Field: fieldName})
			return inf.Ctx.FreshVar()
		}
		return ty

	case hir.ExprStructConstruct:
		d := e.Data.(hir.StructConstructExpr)
		if d.Def == nil {
			inf.errorf(&TypeNotFound{Expr: id, Name: inf.Prog.Symbols.Lookup(d.TypeName)})
			return inf.Ctx.FreshVar()
		}
		structTy := hc.convertNamed(hir.NamedType{Name: d.TypeName, Def: d.Def})
		sd, ok := inf.Ctx.Get(inf.Ctx.resolve(structTy)).Data.(StructData)
		if !ok {
			return structTy
		}
		for _, f := range d.Fields {
			fname := inf.Prog.Symbols.Lookup(f.Name)
			valTy := inf.inferExpr(f.Value, locals, hc)
			for _, sf := range sd.Fields {
				if sf.Name == fname {
					inf.unify(id, sf.Ty, valTy)
					break
				}
			}
		}
		return structTy

	case hir.ExprEnumVariant:
		d := e.Data.(hir.EnumVariantExpr)
		if d.Def == nil {
			inf.errorf(&TypeNotFound{Expr: id, Name: inf.Prog.Symbols.Lookup(d.EnumName)})
			return inf.Ctx.FreshVar()
		}
		enumTy := hc.convertNamed(hir.NamedType{Name: d.EnumName, Def: d.Def})
		ed, ok := inf.Ctx.Get(inf.Ctx.resolve(enumTy)).Data.(EnumData)
		if !ok {
			return enumTy
		}
		variantName := inf.Prog.Symbols.Lookup(d.Variant)
		for _, v := range ed.Variants {
			if v.Name != variantName {
				continue
			}
			for i, arg := range d.Args {
				if i >= len(v.Fields) {
					break
				}
				argTy := inf.inferExpr(arg, locals, hc)
				inf.unify(id, v.Fields[i], argTy)
			}
			break
		}
		return enumTy

	case hir.ExprClosure:
		d := e.Data.(hir.ClosureExpr)
		paramTys := make([]TyId, len(d.Params))
		for i, p := range d.Params {
			var ty TyId
			if p.Ty.Valid() {
				ty = hc.Convert(p.Ty)
			} else {
				ty = inf.Ctx.FreshVar()
			}
			paramTys[i] = ty
			if p.Def != nil && p.Def.Kind == hir.DefLocal {
				locals[p.Def.LocalLocal] = ty
				inf.bindLocal(inf.currentFn, p.Def.LocalLocal, ty)
			}
		}
		bodyTy := inf.inferExpr(d.Body, locals, hc)
		return inf.Ctx.Alloc(Ty{Kind: KindFunction, Data: FunctionData{Params: paramTys, Ret: bodyTy}})

	default:
		return inf.Ctx.FreshVar()
	}
}

// inferCall types a call against a known callee function, excluding any
// self receiver from the positional argument list (the receiver was
// already typed and unified by the caller).
func (inf *Inference) inferCall(exprID hir.ExprId, fnID hir.FnId, args []hir.ExprId, locals map[hir.LocalId]TyId, hc *HirConverter) TyId {
	fn := inf.Prog.Functions.Get(fnID)

	generics := map[string]TyId{}
	for _, g := range fn.Generic {
		name := inf.Prog.Symbols.Lookup(g)
		generics[name] = inf.Ctx.FreshVar()
	}
	calleeHC := NewHirConverter(inf.Ctx, inf.Prog, generics)

	var paramTys []TyId
	for _, p := range fn.Params {
		if p.SelfReceiver {
			continue
		}
		paramTys = append(paramTys, calleeHC.Convert(p.Ty))
	}
	retTy := calleeHC.Convert(fn.ReturnTy)

	for i, a := range args {
		argTy := inf.inferExpr(a, locals, hc)
		if i < len(paramTys) {
			inf.unify(exprID, paramTys[i], argTy)
		}
	}
	return retTy
}

func (inf *Inference) tyOfDef(def hir.DefId, locals map[hir.LocalId]TyId, hc *HirConverter) TyId {
	switch def.Kind {
	case hir.DefLocal:
		if ty, ok := locals[def.LocalLocal]; ok {
			return ty
		}
		return inf.Ctx.FreshVar()
	case hir.DefFunction:
		generics := map[string]TyId{}
		fn := inf.Prog.Functions.Get(def.Fn)
		for _, g := range fn.Generic {
			generics[inf.Prog.Symbols.Lookup(g)] = inf.Ctx.FreshVar()
		}
		fnHC := NewHirConverter(inf.Ctx, inf.Prog, generics)
		params := make([]TyId, 0, len(fn.Params))
		for _, p := range fn.Params {
			if p.SelfReceiver {
				continue
			}
			params = append(params, fnHC.Convert(p.Ty))
		}
		ret := fnHC.Convert(fn.ReturnTy)
		return inf.Ctx.Alloc(Ty{Kind: KindFunction, Data: FunctionData{Params: params, Ret: ret}})
	default:
		return inf.Ctx.FreshVar()
	}
}

func (inf *Inference) fieldTy(baseTy TyId, field string) (TyId, bool) {
	resolved := inf.Ctx.resolve(baseTy)
	t := inf.Ctx.Get(resolved)
	for t.Kind == KindRef {
		resolved = inf.Ctx.resolve(t.Data.(RefData).Inner)
		t = inf.Ctx.Get(resolved)
	}
	if t.Kind != KindStruct {
		return 0, false
	}
	for _, f := range t.Data.(StructData).Fields {
		if f.Name == field {
			return f.Ty, true
		}
	}
	return 0, false
}

func (inf *Inference) literalTy(v hir.LiteralValue) TyId {
	switch v.Kind {
	case hir.LitInt:
		return inf.Ctx.Int()
	case hir.LitFloat:
		return inf.Ctx.Float()
	case hir.LitBool:
		return inf.Ctx.Bool()
	case hir.LitString:
		return inf.Ctx.String()
	default:
		return inf.Ctx.Unit()
	}
}

func (inf *Inference) inferStmt(id hir.StmtId, locals map[hir.LocalId]TyId, hc *HirConverter) {
	s := inf.Prog.Stmts.Get(id)
	switch s.Kind {
	case hir.StmtLet:
		d := s.Data.(hir.LetStmt)
		initTy := inf.inferExpr(d.Init, locals, hc)
		if d.Ty != nil {
			annotTy := hc.Convert(*d.Ty)
			inf.unify(d.Init, initTy, annotTy)
		}
		inf.inferPattern(d.Pattern, initTy, locals, hc)

	case hir.StmtExpr:
		inf.inferExpr(s.Data.(hir.ExprStmt).Expr, locals, hc)

	case hir.StmtReturn:
		if v := s.Data.(hir.ReturnStmt).Value; v != nil {
			valueTy := inf.inferExpr(*v, locals, hc)
			inf.unify(*v, inf.currentRetTy, valueTy)
		}
	}
}

// inferPattern unifies pat's type with ty and binds every Binding
// pattern it contains into locals.
func (inf *Inference) inferPattern(patID hir.PatternId, ty TyId, locals map[hir.LocalId]TyId, hc *HirConverter) {
	p := inf.Prog.Patterns.Get(patID)
	switch p.Kind {
	case hir.PatternWildcard:
		return

	case hir.PatternBinding:
		d := p.Data.(hir.BindingPattern)
		if d.Def != nil && d.Def.Kind == hir.DefLocal {
			locals[d.Def.LocalLocal] = ty
			inf.bindLocal(inf.currentFn, d.Def.LocalLocal, ty)
		}
		if d.SubPattern != nil {
			inf.inferPattern(*d.SubPattern, ty, locals, hc)
		}

	case hir.PatternLiteral:
		lit := inf.literalTy(p.Data.(hir.LiteralPattern).Value)
		inf.Ctx.Unify(ty, lit)

	case hir.PatternRange:
		d := p.Data.(hir.RangePattern)
		inf.Ctx.Unify(ty, inf.literalTy(d.Start))

	case hir.PatternTuple:
		d := p.Data.(hir.TuplePattern)
		elemTys := make([]TyId, len(d.Patterns))
		for i := range elemTys {
			elemTys[i] = inf.Ctx.FreshVar()
		}
		expected := inf.Ctx.Alloc(Ty{Kind: KindTuple, Data: TupleData{Elements: elemTys}})
		inf.Ctx.Unify(ty, expected)
		for i, sub := range d.Patterns {
			inf.inferPattern(sub, elemTys[i], locals, hc)
		}

	case hir.PatternStruct:
		d := p.Data.(hir.StructPattern)
		if d.Ty == nil {
			return
		}
		structTy := hc.convertNamed(hir.NamedType{Name: d.TypeName, Def: defPtr(hir.TypeDefRef(*d.Ty))})
		inf.Ctx.Unify(ty, structTy)
		sd, ok := inf.Ctx.Get(inf.Ctx.resolve(structTy)).Data.(StructData)
		if !ok {
			return
		}
		for _, f := range d.Fields {
			fname := inf.Prog.Symbols.Lookup(f.Name)
			for _, sf := range sd.Fields {
				if sf.Name == fname {
					inf.inferPattern(f.Pattern, sf.Ty, locals, hc)
					break
				}
			}
		}

	case hir.PatternEnum:
		d := p.Data.(hir.EnumPattern)
		if d.Def == nil {
			return
		}
		enumTy := hc.convertNamed(hir.NamedType{Name: d.EnumName, Def: defPtr(hir.TypeDefRef(*d.Def))})
		inf.Ctx.Unify(ty, enumTy)
		ed, ok := inf.Ctx.Get(inf.Ctx.resolve(enumTy)).Data.(EnumData)
		if !ok {
			return
		}
		variantName := inf.Prog.Symbols.Lookup(d.Variant)
		for _, v := range ed.Variants {
			if v.Name != variantName {
				continue
			}
			for i, sub := range d.SubPatterns {
				if i >= len(v.Fields) {
					break
				}
				inf.inferPattern(sub, v.Fields[i], locals, hc)
			}
			break
		}

	case hir.PatternOr:
		d := p.Data.(hir.OrPattern)
		for _, alt := range d.Patterns {
			inf.inferPattern(alt, ty, locals, hc)
		}
	}
}
