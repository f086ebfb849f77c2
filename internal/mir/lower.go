package mir

import (
	"github.com/orizon-lang/orizon/internal/exhaustive"
	"github.com/orizon-lang/orizon/internal/hir"
	"github.com/orizon-lang/orizon/internal/interner"
	"github.com/orizon-lang/orizon/internal/methodresolve"
	"github.com/orizon-lang/orizon/internal/types"
)

// Builder lowers one HIR function body into a MirFunction (spec §4.5,
// §4.6). Grounded on the teacher's HIRToMIRTransformer: a struct walking
// a higher IR to build a lower one, deferring whole-program invariant
// checks (spec §3's five MIR-entry invariants) to a verification pass
// run once every function in a crate is built, the way the teacher
// checks its own IR after a full transform rather than incrementally.
type Builder struct {
	Prog      *hir.Program
	Ctx       *types.TyContext
	Inf       *types.Inference
	TL        *TypeLowerer
	MethodRes *methodresolve.Resolver

	fn       *MirFunction
	fnID     hir.FnId
	hirLocal map[hir.LocalId]LocalId
	varMut   map[hir.LocalId]bool
	block    BlockId
}

// LowerFunction builds the MirFunction for fnID. inf must already have
// run InferFunction(fnID) so Inf.ExprTypes/LocalTypes are populated for
// this function.
func LowerFunction(prog *hir.Program, ctx *types.TyContext, inf *types.Inference, tl *TypeLowerer, methodRes *methodresolve.Resolver, fnID hir.FnId) *MirFunction {
	fnDef := prog.Functions.Get(fnID)
	name := prog.Symbols.Lookup(fnDef.Name)

	b := &Builder{
		Prog: prog, Ctx: ctx, Inf: inf, TL: tl, MethodRes: methodRes,
		fn:       &MirFunction{Name: name, FnID: fnID},
		fnID:     fnID,
		hirLocal: map[hir.LocalId]LocalId{},
		varMut:   map[hir.LocalId]bool{},
	}

	localTys := inf.LocalTypes[fnID]
	for _, p := range fnDef.Params {
		ty := b.tyOf(localTys, p.Def)
		mirTy := b.mustNormalizeAndLower(ty)
		id := b.fn.NewLocal(Local{Name: paramName(prog, p), Ty: mirTy, Mutable: p.SelfMut})
		if p.Def != nil && p.Def.Kind == hir.DefLocal {
			b.hirLocal[p.Def.LocalLocal] = id
			b.varMut[p.Def.LocalLocal] = p.SelfMut
		}
	}
	b.fn.ParamCount = len(fnDef.Params)

	b.fn.ReturnLocal = b.fn.NewLocal(Local{Ty: b.returnType(fnDef), Mutable: true})

	entry := b.fn.NewBlock()
	b.block = entry

	if fnDef.Body.Valid() {
		resultLocal := b.lowerExprInto(fnDef.Body, b.fn.ReturnLocal)
		if resultLocal != b.fn.ReturnLocal {
			b.emitAssign(LocalPlace(b.fn.ReturnLocal), useOf(resultLocal))
		}
		b.fn.terminate(b.block, Terminator{Kind: TermReturn, Value: refOperand(CopyOf(LocalPlace(b.fn.ReturnLocal)))})
	} else {
		b.fn.terminate(b.block, Terminator{Kind: TermUnreachable})
	}

	return b.fn
}

func useOf(local LocalId) RValue { return RValue{Kind: RValueUse, Operand: CopyOf(LocalPlace(local))} }
func refOperand(o Operand) *Operand { return &o }

func paramName(prog *hir.Program, p hir.Param) string {
	if p.SelfReceiver {
		return "self"
	}
	return prog.Symbols.Lookup(p.Name)
}

func (b *Builder) tyOf(localTys map[hir.LocalId]types.TyId, def *hir.DefId) types.TyId {
	if def == nil || def.Kind != hir.DefLocal {
		return b.Ctx.FreshVar()
	}
	if ty, ok := localTys[def.LocalLocal]; ok {
		return ty
	}
	return b.Ctx.FreshVar()
}

func (b *Builder) mustNormalizeAndLower(ty types.TyId) MirType {
	n, err := b.Ctx.Normalize(ty)
	if err != nil {
		panic(err)
	}
	return b.TL.Lower(n)
}

// returnType recovers a function's return MirType by re-converting its
// HIR annotation directly, since a body-less extern declaration has no
// ExprTypes entry to read a type off of.
func (b *Builder) returnType(fnDef hir.Function) MirType {
	hc := types.NewHirConverter(b.Ctx, b.Prog, map[string]types.TyId{})
	return b.mustNormalizeAndLower(hc.Convert(fnDef.ReturnTy))
}

func (b *Builder) emitAssign(place Place, rv RValue) {
	b.fn.emit(b.block, Statement{Kind: StmtAssign, Place: place, RValue: rv})
}

func (b *Builder) newTemp(ty MirType) LocalId {
	return b.fn.NewLocal(Local{Ty: ty, Mutable: false})
}

func (b *Builder) exprMirType(id hir.ExprId) MirType {
	ty, ok := b.Inf.ExprTypes[id]
	if !ok {
		return MirType{Kind: MirUnit}
	}
	return b.mustNormalizeAndLower(ty)
}

func (b *Builder) exprTy(id hir.ExprId) types.TyId {
	if ty, ok := b.Inf.ExprTypes[id]; ok {
		return ty
	}
	return b.Ctx.Unit()
}

// resolveTy fully normalizes id and dereferences it, for call sites that
// need to switch on a Ty's Kind rather than lower it to a MirType.
func (b *Builder) resolveTy(id types.TyId) types.Ty {
	n, err := b.Ctx.Normalize(id)
	if err != nil {
		panic(err)
	}
	return b.Ctx.Get(n.ID())
}

// lowerExprInto lowers expr, writing its value into preferred where
// possible, and returns whichever local actually ended up holding the
// value (ExprVariable and the control-flow forms may return a different
// local than preferred to avoid a redundant copy).
func (b *Builder) lowerExprInto(id hir.ExprId, preferred LocalId) LocalId {
	e := b.Prog.Exprs.Get(id)

	switch e.Kind {
	case hir.ExprLiteral:
		d := e.Data.(hir.LiteralExpr)
		b.emitAssign(LocalPlace(preferred), RValue{Kind: RValueUse, Operand: literalOperand(d.Value, b.exprMirType(id))})
		return preferred

	case hir.ExprVariable:
		d := e.Data.(hir.VariableExpr)
		if d.Def == nil || d.Def.Kind != hir.DefLocal {
			return preferred
		}
		if src, ok := b.hirLocal[d.Def.LocalLocal]; ok {
			return src
		}
		return preferred

	case hir.ExprBinaryOp:
		d := e.Data.(hir.BinaryOpExpr)
		l := b.lowerExprToLocal(d.Left)
		r := b.lowerExprToLocal(d.Right)
		b.emitAssign(LocalPlace(preferred), RValue{
			Kind: RValueBinaryOp, BinOp: mirBinOp(d.Op),
			Left: CopyOf(LocalPlace(l)), Right: CopyOf(LocalPlace(r)),
		})
		return preferred

	case hir.ExprUnaryOp:
		d := e.Data.(hir.UnaryOpExpr)
		o := b.lowerExprToLocal(d.Operand)
		b.emitAssign(LocalPlace(preferred), RValue{Kind: RValueUnaryOp, UnOp: mirUnOp(d.Op), Left: CopyOf(LocalPlace(o))})
		return preferred

	case hir.ExprIf:
		return b.lowerIf(e.Data.(hir.IfExpr), preferred)

	case hir.ExprBlock:
		return b.lowerBlock(e.Data.(hir.BlockExpr), preferred)

	case hir.ExprMatch:
		return b.lowerMatch(id, e.Data.(hir.MatchExpr), preferred)

	case hir.ExprField:
		d := e.Data.(hir.FieldExpr)
		basePlace := b.lowerExprToPlace(d.Base)
		idx := b.fieldIndex(d.Base, d.Field)
		b.emitAssign(LocalPlace(preferred), RValue{Kind: RValueUse, Operand: CopyOf(basePlace.Project(PlaceElem{Kind: ElemField, FieldIdx: idx}))})
		return preferred

	case hir.ExprStructConstruct:
		d := e.Data.(hir.StructConstructExpr)
		ops := b.lowerStructFields(d)
		b.emitAssign(LocalPlace(preferred), RValue{Kind: RValueAggregate, AggKind: AggregateStruct, Operands: ops})
		return preferred

	case hir.ExprEnumVariant:
		d := e.Data.(hir.EnumVariantExpr)
		variantIdx := 0
		if d.Def != nil && d.Def.Kind == hir.DefType {
			if enumDef := b.Prog.Enum(d.Def.Type); enumDef != nil {
				if idx, ok := hir.VariantIndex(enumDef, d.Variant); ok {
					variantIdx = idx
				}
			}
		}
		// Field 0 is the reserved discriminant tag (read back by
		// discriminantOperand and skipped by projectPatternBindings's
		// i+1 field offset for variant payload fields).
		ops := make([]Operand, len(d.Args)+1)
		ops[0] = ConstInt64(int64(variantIdx), MirType{Kind: MirInt})
		for i, a := range d.Args {
			ops[i+1] = CopyOf(LocalPlace(b.lowerExprToLocal(a)))
		}
		b.emitAssign(LocalPlace(preferred), RValue{Kind: RValueAggregate, AggKind: AggregateEnum, VariantIdx: variantIdx, Operands: ops})
		return preferred

	case hir.ExprClosure:
		d := e.Data.(hir.ClosureExpr)
		ops := make([]Operand, len(d.Captures))
		for i, capName := range d.Captures {
			ops[i] = b.captureOperand(capName)
		}
		b.emitAssign(LocalPlace(preferred), RValue{Kind: RValueAggregate, AggKind: AggregateStruct, Operands: ops})
		return preferred

	case hir.ExprCall:
		return b.lowerCall(e.Data.(hir.CallExpr), preferred)

	case hir.ExprMethodCall:
		return b.lowerMethodCall(id, e.Data.(hir.MethodCallExpr), preferred)

	default:
		return preferred
	}
}

func (b *Builder) lowerExprToLocal(id hir.ExprId) LocalId {
	tmp := b.newTemp(b.exprMirType(id))
	return b.lowerExprInto(id, tmp)
}

func (b *Builder) lowerExprToPlace(id hir.ExprId) Place { return LocalPlace(b.lowerExprToLocal(id)) }

// captureOperand reads a closure capture's current value out of the
// enclosing function's own locals (spec §4.7: captures are resolved
// names already bound in the defining scope).
func (b *Builder) captureOperand(name interner.Symbol) Operand {
	for localID, mirID := range b.hirLocal {
		if b.localName(localID) == b.Prog.Symbols.Lookup(name) {
			return CopyOf(LocalPlace(mirID))
		}
	}
	return ConstUnitVal(MirType{Kind: MirUnit})
}

func (b *Builder) localName(id hir.LocalId) string {
	if mirID, ok := b.hirLocal[id]; ok && int(mirID) < len(b.fn.Locals) {
		return b.fn.Locals[mirID].Name
	}
	return ""
}

func literalOperand(v hir.LiteralValue, ty MirType) Operand {
	switch v.Kind {
	case hir.LitInt:
		return ConstInt64(v.Int, ty)
	case hir.LitFloat:
		return ConstFloat64(v.Float, ty)
	case hir.LitBool:
		return ConstBoolVal(v.Bool, ty)
	case hir.LitString:
		return ConstStr(v.Str, ty)
	default:
		return ConstUnitVal(ty)
	}
}

func mirBinOp(op hir.BinOp) BinOpKind {
	table := [...]BinOpKind{
		hir.BinAdd: MirAdd, hir.BinSub: MirSub, hir.BinMul: MirMul, hir.BinDiv: MirDiv, hir.BinRem: MirRem,
		hir.BinEq: MirEq, hir.BinNe: MirNe, hir.BinLt: MirLt, hir.BinLe: MirLe, hir.BinGt: MirGt, hir.BinGe: MirGe,
		hir.BinAnd: MirAnd, hir.BinOr: MirOr,
		hir.BinBitAnd: MirBitAnd, hir.BinBitOr: MirBitOr, hir.BinBitXor: MirBitXor,
		hir.BinShl: MirShl, hir.BinShr: MirShr,
	}
	return table[op]
}

func mirUnOp(op hir.UnOp) UnOpKind {
	table := [...]UnOpKind{hir.UnNeg: MirNeg, hir.UnNot: MirNot, hir.UnBitNot: MirBitNot}
	return table[op]
}

// fieldIndex resolves base.field to the declaring struct's field index,
// auto-deref'ing through Ref layers the same way method resolution does
// (spec §4.6: Field projection always targets the concrete struct, not
// a reference to one).
func (b *Builder) fieldIndex(baseExpr hir.ExprId, field interner.Symbol) int {
	ty := b.resolveTy(b.exprTy(baseExpr))
	for ty.Kind == types.KindRef {
		ty = b.resolveTy(ty.Data.(types.RefData).Inner)
	}
	sd, ok := ty.Data.(types.StructData)
	if !ok {
		return 0
	}
	def := b.Prog.Struct(hir.TypeId(sd.DefID))
	if def == nil {
		return 0
	}
	idx, _ := hir.FieldIndex(def, field)
	return idx
}

func (b *Builder) lowerStructFields(d hir.StructConstructExpr) []Operand {
	if d.Def == nil || d.Def.Kind != hir.DefType {
		ops := make([]Operand, len(d.Fields))
		for i, f := range d.Fields {
			ops[i] = CopyOf(LocalPlace(b.lowerExprToLocal(f.Value)))
		}
		return ops
	}
	def := b.Prog.Struct(d.Def.Type)
	if def == nil {
		return nil
	}
	ops := make([]Operand, len(def.Fields))
	for _, f := range d.Fields {
		idx, ok := hir.FieldIndex(def, f.Name)
		if !ok {
			continue
		}
		ops[idx] = CopyOf(LocalPlace(b.lowerExprToLocal(f.Value)))
	}
	return ops
}

// lowerIf lowers a conditional: cond into its own temp, a SwitchInt over
// {1: then, otherwise: else} (spec §4.5, "If... SwitchInt with
// otherwise=else_bb"), both arms writing into preferred, then a shared
// join block.
func (b *Builder) lowerIf(d hir.IfExpr, preferred LocalId) LocalId {
	condLocal := b.lowerExprToLocal(d.Cond)

	thenBB := b.fn.NewBlock()
	elseBB := b.fn.NewBlock()
	joinBB := b.fn.NewBlock()

	b.fn.terminate(b.block, Terminator{
		Kind:         TermSwitchInt,
		Discriminant: CopyOf(LocalPlace(condLocal)),
		Targets:      map[int64]BlockId{1: thenBB},
		Otherwise:    elseBB,
	})

	b.block = thenBB
	b.lowerExprInto(d.Then, preferred)
	b.fn.terminate(b.block, Terminator{Kind: TermGoto, Target: joinBB})

	b.block = elseBB
	if d.Else != nil {
		b.lowerExprInto(*d.Else, preferred)
	} else {
		b.emitAssign(LocalPlace(preferred), RValue{Kind: RValueUse, Operand: ConstUnitVal(MirType{Kind: MirUnit})})
	}
	b.fn.terminate(b.block, Terminator{Kind: TermGoto, Target: joinBB})

	b.block = joinBB
	return preferred
}

func (b *Builder) lowerBlock(d hir.BlockExpr, preferred LocalId) LocalId {
	for _, s := range d.Stmts {
		b.lowerStmt(s)
	}
	if d.Trailing != nil {
		return b.lowerExprInto(*d.Trailing, preferred)
	}
	b.emitAssign(LocalPlace(preferred), RValue{Kind: RValueUse, Operand: ConstUnitVal(MirType{Kind: MirUnit})})
	return preferred
}

func (b *Builder) lowerStmt(id hir.StmtId) {
	s := b.Prog.Stmts.Get(id)
	switch s.Kind {
	case hir.StmtLet:
		d := s.Data.(hir.LetStmt)
		scrutLocal := b.lowerExprToLocal(d.Init)
		b.projectPatternBindings(d.Pattern, scrutLocal)

	case hir.StmtExpr:
		expr := s.Data.(hir.ExprStmt).Expr
		b.lowerExprToLocal(expr)

	case hir.StmtReturn:
		d := s.Data.(hir.ReturnStmt)
		if d.Value != nil {
			b.lowerExprInto(*d.Value, b.fn.ReturnLocal)
		} else {
			b.emitAssign(LocalPlace(b.fn.ReturnLocal), RValue{Kind: RValueUse, Operand: ConstUnitVal(MirType{Kind: MirUnit})})
		}
		epilogue := b.fn.NewBlock()
		b.fn.terminate(b.block, Terminator{Kind: TermReturn, Value: refOperand(CopyOf(LocalPlace(b.fn.ReturnLocal)))})
		b.block = epilogue
	}
}

// lowerMatch lowers a match expression (spec §4.5): run the
// exhaustiveness check first (a warning-only pass, it never blocks
// lowering), then build one SwitchInt per enum/bool/int discriminant
// with arm bodies as separate blocks. The first wildcard/binding arm
// becomes the SwitchInt's `otherwise`; any arm after it is unreachable.
func (b *Builder) lowerMatch(id hir.ExprId, d hir.MatchExpr, preferred LocalId) LocalId {
	scrutTy := b.exprTy(d.Scrutinee)
	if missing := exhaustive.Check(b.Ctx, b.Prog, scrutTy, d.Arms); len(missing) > 0 {
		b.fn.Warnings = append(b.fn.Warnings, MatchWarning{Expr: id, Missing: missing})
	}

	scrutLocal := b.lowerExprToLocal(d.Scrutinee)

	joinBB := b.fn.NewBlock()
	targets := map[int64]BlockId{}
	var otherwise BlockId
	haveOtherwise := false
	unreachableBB := BlockId(0)

	dispatchBB := b.block

	for _, arm := range d.Arms {
		armBB := b.fn.NewBlock()
		b.block = armBB

		savedLocal := b.hirLocal
		b.hirLocal = cloneLocalMap(savedLocal)
		b.projectPatternBindings(arm.Pattern, scrutLocal)

		if arm.Guard != nil {
			// A guard's failure must fall through to the next arm; since
			// this builder lowers arms as a flat SwitchInt rather than a
			// nested decision tree, a guarded arm's body is lowered
			// unconditionally when its constructor matches and the guard
			// is folded into the body as an if/else mirroring the
			// source's intended short-circuit (spec leaves guard
			// interaction with SwitchInt unspecified beyond "the pattern
			// matches and the guard is true").
			guardLocal := b.lowerExprToLocal(*arm.Guard)
			bodyBB := b.fn.NewBlock()
			skipBB := b.fn.NewBlock()
			b.fn.terminate(b.block, Terminator{
				Kind: TermSwitchInt, Discriminant: CopyOf(LocalPlace(guardLocal)),
				Targets: map[int64]BlockId{0: skipBB}, Otherwise: bodyBB,
			})
			b.block = bodyBB
			b.lowerExprInto(arm.Body, preferred)
			b.fn.terminate(b.block, Terminator{Kind: TermGoto, Target: joinBB})
			b.block = skipBB
			b.fn.terminate(b.block, Terminator{Kind: TermUnreachable})
		} else {
			b.lowerExprInto(arm.Body, preferred)
			b.fn.terminate(b.block, Terminator{Kind: TermGoto, Target: joinBB})
		}

		b.hirLocal = savedLocal

		p := b.Prog.Patterns.Get(arm.Pattern)
		if haveOtherwise {
			continue
		}
		if isCatchAll(p) {
			otherwise = armBB
			haveOtherwise = true
			continue
		}
		if key, ok := b.discriminantKey(p); ok {
			if _, dup := targets[key]; !dup {
				targets[key] = armBB
			}
		}
	}

	if !haveOtherwise {
		unreachableBB = b.fn.NewBlock()
		b.block = unreachableBB
		b.fn.terminate(unreachableBB, Terminator{Kind: TermUnreachable})
		otherwise = unreachableBB
	}

	b.block = dispatchBB
	b.fn.terminate(dispatchBB, Terminator{
		Kind:         TermSwitchInt,
		Discriminant: b.discriminantOperand(d.Scrutinee, scrutLocal, scrutTy),
		Targets:      targets,
		Otherwise:    otherwise,
	})

	b.block = joinBB
	return preferred
}

func cloneLocalMap(m map[hir.LocalId]LocalId) map[hir.LocalId]LocalId {
	out := make(map[hir.LocalId]LocalId, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func isCatchAll(p hir.Pattern) bool {
	return p.Kind == hir.PatternWildcard || p.Kind == hir.PatternBinding
}

// discriminantKey returns the SwitchInt key a non-catch-all pattern
// dispatches on: a bool/int literal's value, or an enum variant's index.
func (b *Builder) discriminantKey(p hir.Pattern) (int64, bool) {
	switch p.Kind {
	case hir.PatternLiteral:
		v := p.Data.(hir.LiteralPattern).Value
		switch v.Kind {
		case hir.LitBool:
			if v.Bool {
				return 1, true
			}
			return 0, true
		case hir.LitInt:
			return v.Int, true
		}
		return 0, false
	case hir.PatternEnum:
		d := p.Data.(hir.EnumPattern)
		if d.Def == nil {
			return 0, false
		}
		enumDef := b.Prog.Enum(*d.Def)
		if enumDef == nil {
			return 0, false
		}
		idx, ok := hir.VariantIndex(enumDef, d.Variant)
		return int64(idx), ok
	default:
		return 0, false
	}
}

// discriminantOperand builds the SwitchInt's Discriminant: a struct-tag
// read for an enum, or the scrutinee's own value for a bool/int.
func (b *Builder) discriminantOperand(scrutExpr hir.ExprId, scrutLocal LocalId, scrutTy types.TyId) Operand {
	t := b.resolveTy(scrutTy)
	if t.Kind == types.KindEnum {
		// The discriminant tag is the enum's own first projected field
		// in this pipeline's Aggregate-Enum representation; backends are
		// free to pick a denser tag encoding, but MIR always reads it
		// through a dedicated Field{0} projection reserved for the tag.
		return CopyOf(LocalPlace(scrutLocal).Project(PlaceElem{Kind: ElemField, FieldIdx: 0}))
	}
	return CopyOf(LocalPlace(scrutLocal))
}

// projectPatternBindings emits the statements binding pat's names out
// of scrutinee (spec §4.6): Binding copies the whole scrutinee (and
// recurses into any `@` sub-pattern), Tuple/Struct/Enum project each
// sub-pattern's field and recurse, Or recurses only into its first
// alternative (every alternative binds an identical name set, enforced
// upstream by the resolver), and Literal/Wildcard/Range bind nothing.
func (b *Builder) projectPatternBindings(patID hir.PatternId, scrutinee LocalId) {
	p := b.Prog.Patterns.Get(patID)
	switch p.Kind {
	case hir.PatternWildcard, hir.PatternLiteral, hir.PatternRange:
		return

	case hir.PatternBinding:
		d := p.Data.(hir.BindingPattern)
		if d.Def != nil && d.Def.Kind == hir.DefLocal {
			mirTy := b.fn.Locals[scrutinee].Ty
			local := b.fn.NewLocal(Local{Name: b.Prog.Symbols.Lookup(d.Name), Ty: mirTy, Mutable: d.Mutable})
			b.emitAssign(LocalPlace(local), useOf(scrutinee))
			b.hirLocal[d.Def.LocalLocal] = local
			b.varMut[d.Def.LocalLocal] = d.Mutable
		}
		if d.SubPattern != nil {
			b.projectPatternBindings(*d.SubPattern, scrutinee)
		}

	case hir.PatternTuple:
		d := p.Data.(hir.TuplePattern)
		for i, sub := range d.Patterns {
			elemTy := b.tupleElemTy(scrutinee, i)
			elemLocal := b.newTemp(elemTy)
			b.emitAssign(LocalPlace(elemLocal), RValue{Kind: RValueUse, Operand: CopyOf(LocalPlace(scrutinee).Project(PlaceElem{Kind: ElemField, FieldIdx: i}))})
			b.projectPatternBindings(sub, elemLocal)
		}

	case hir.PatternStruct:
		d := p.Data.(hir.StructPattern)
		if d.Ty == nil {
			return
		}
		def := b.Prog.Struct(*d.Ty)
		if def == nil {
			return
		}
		for _, f := range d.Fields {
			idx, ok := hir.FieldIndex(def, f.Name)
			if !ok {
				continue
			}
			fieldTy := b.structFieldTy(def, idx)
			fieldLocal := b.newTemp(fieldTy)
			b.emitAssign(LocalPlace(fieldLocal), RValue{Kind: RValueUse, Operand: CopyOf(LocalPlace(scrutinee).Project(PlaceElem{Kind: ElemField, FieldIdx: idx}))})
			b.projectPatternBindings(f.Pattern, fieldLocal)
		}

	case hir.PatternEnum:
		d := p.Data.(hir.EnumPattern)
		if d.Def == nil {
			return
		}
		def := b.Prog.Enum(*d.Def)
		if def == nil {
			return
		}
		idx, ok := hir.VariantIndex(def, d.Variant)
		if !ok {
			return
		}
		variant := def.Variants[idx]
		for i, sub := range d.SubPatterns {
			var fieldTy MirType
			switch variant.Fields.Kind {
			case hir.VariantTuple:
				if i < len(variant.Fields.TupleFields) {
					hc := types.NewHirConverter(b.Ctx, b.Prog, map[string]types.TyId{})
					fieldTy = b.mustNormalizeAndLower(hc.Convert(variant.Fields.TupleFields[i]))
				}
			case hir.VariantStruct:
				if i < len(variant.Fields.StructFields) {
					hc := types.NewHirConverter(b.Ctx, b.Prog, map[string]types.TyId{})
					fieldTy = b.mustNormalizeAndLower(hc.Convert(variant.Fields.StructFields[i].Ty))
				}
			}
			// Field index i+1 reserves index 0 for the variant tag read
			// by discriminantOperand.
			subLocal := b.newTemp(fieldTy)
			b.emitAssign(LocalPlace(subLocal), RValue{Kind: RValueUse, Operand: CopyOf(LocalPlace(scrutinee).Project(PlaceElem{Kind: ElemField, FieldIdx: i + 1}))})
			b.projectPatternBindings(sub, subLocal)
		}

	case hir.PatternOr:
		d := p.Data.(hir.OrPattern)
		if len(d.Patterns) > 0 {
			b.projectPatternBindings(d.Patterns[0], scrutinee)
		}
	}
}

func (b *Builder) tupleElemTy(scrutinee LocalId, idx int) MirType {
	ty := b.fn.Locals[scrutinee].Ty
	if ty.Kind == MirTuple {
		elems := ty.Data.(MirTupleData).Elements
		if idx < len(elems) {
			return elems[idx]
		}
	}
	return MirType{Kind: MirUnit}
}

func (b *Builder) structFieldTy(def *hir.StructDef, idx int) MirType {
	if idx >= len(def.Fields) {
		return MirType{Kind: MirUnit}
	}
	hc := types.NewHirConverter(b.Ctx, b.Prog, map[string]types.TyId{})
	return b.mustNormalizeAndLower(hc.Convert(def.Fields[idx].Ty))
}

// lowerCall lowers a direct call. The callee is expected to be a
// Variable resolved to a Function DefId (spec §4.5's "resolved function
// variable" rule). Any other callee (an indirect or closure call target,
// which is a Function-typed value rather than a callable FnId in this
// model) emits no call: the unit constant is written into preferred.
func (b *Builder) lowerCall(d hir.CallExpr, preferred LocalId) LocalId {
	args := make([]Operand, len(d.Args))
	for i, a := range d.Args {
		args[i] = CopyOf(LocalPlace(b.lowerExprToLocal(a)))
	}

	fnID, ok := b.calleeFnID(d.Callee)
	if !ok {
		b.emitAssign(LocalPlace(preferred), RValue{Kind: RValueUse, Operand: ConstUnitVal(MirType{Kind: MirUnit})})
		return preferred
	}

	nextBB := b.fn.NewBlock()
	b.fn.terminate(b.block, Terminator{
		Kind: TermCall, Func: fnID, Args: args,
		Destination: LocalPlace(preferred), CallTarget: nextBB,
	})
	b.block = nextBB
	return preferred
}

func (b *Builder) calleeFnID(calleeExpr hir.ExprId) (hir.FnId, bool) {
	e := b.Prog.Exprs.Get(calleeExpr)
	if e.Kind != hir.ExprVariable {
		return 0, false
	}
	d := e.Data.(hir.VariableExpr)
	if d.Def == nil || d.Def.Kind != hir.DefFunction {
		return 0, false
	}
	return d.Def.Fn, true
}

// lowerMethodCall consults the method resolver to find the concrete
// callee, auto-deref'ing the receiver place as many times as Resolve
// reports, then emits the receiver as the call's first argument (spec
// §4.5, "receiver becomes first arg").
func (b *Builder) lowerMethodCall(id hir.ExprId, d hir.MethodCallExpr, preferred LocalId) LocalId {
	recvPlace := b.lowerExprToPlace(d.Receiver)
	recvTy := b.exprTy(d.Receiver)
	recvMut := b.receiverIsMut(d.Receiver)

	methodName := b.Prog.Symbols.Lookup(d.Method)
	fnID, derefs, err := b.MethodRes.Resolve(b.Ctx, recvTy, methodName, recvMut)
	if err != nil {
		b.emitAssign(LocalPlace(preferred), RValue{Kind: RValueUse, Operand: ConstUnitVal(MirType{Kind: MirUnit})})
		return preferred
	}
	for i := 0; i < derefs; i++ {
		recvPlace = recvPlace.Project(PlaceElem{Kind: ElemDeref})
	}

	args := make([]Operand, 0, len(d.Args)+1)
	args = append(args, CopyOf(recvPlace))
	for _, a := range d.Args {
		args = append(args, CopyOf(LocalPlace(b.lowerExprToLocal(a))))
	}

	nextBB := b.fn.NewBlock()
	b.fn.terminate(b.block, Terminator{
		Kind: TermCall, Func: fnID, Args: args,
		Destination: LocalPlace(preferred), CallTarget: nextBB,
	})
	b.block = nextBB
	return preferred
}

func (b *Builder) receiverIsMut(recvExpr hir.ExprId) bool {
	e := b.Prog.Exprs.Get(recvExpr)
	if e.Kind != hir.ExprVariable {
		return false
	}
	d := e.Data.(hir.VariableExpr)
	if d.Def == nil || d.Def.Kind != hir.DefLocal {
		return false
	}
	return b.varMut[d.Def.LocalLocal]
}
