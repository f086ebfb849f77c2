package types_test

import (
	"testing"

	"github.com/orizon-lang/orizon/internal/hir"
	"github.com/orizon-lang/orizon/internal/interner"
	"github.com/orizon-lang/orizon/internal/types"
)

type noMethods struct{}

func (noMethods) ResolveMethod(ctx *types.TyContext, receiver types.TyId, method string) (hir.FnId, bool) {
	return hir.FnId(0), false
}

func namedTy(prog *hir.Program, name string) hir.HirTypeId {
	return prog.Types.Alloc(hir.HirType{Kind: hir.HirTypeNamed, Data: hir.NamedType{Name: prog.Symbols.Intern(name)}})
}

// buildAddFunction constructs `fn add(a: i64, b: i64) -> i64 { a + b }`
// directly against the hir arenas, bypassing internal/lowering, so this
// package's tests don't depend on that package's CST conventions.
func buildAddFunction(t *testing.T) (*hir.Program, hir.FnId) {
	t.Helper()
	symbols := interner.New()
	prog := hir.NewProgram(symbols)

	fnID := prog.Functions.Alloc(hir.Function{})
	aDef := hir.LocalDef(fnID, 0)
	bDef := hir.LocalDef(fnID, 1)

	i64Ty := namedTy(prog, "i64")

	aVar := prog.Exprs.Alloc(hir.Expr{Kind: hir.ExprVariable, Data: hir.VariableExpr{Name: symbols.Intern("a"), Def: &aDef}})
	bVar := prog.Exprs.Alloc(hir.Expr{Kind: hir.ExprVariable, Data: hir.VariableExpr{Name: symbols.Intern("b"), Def: &bDef}})
	body := prog.Exprs.Alloc(hir.Expr{Kind: hir.ExprBinaryOp, Data: hir.BinaryOpExpr{Op: hir.BinAdd, Left: aVar, Right: bVar}})

	fn := hir.Function{
		Name: symbols.Intern("add"),
		Params: []hir.Param{
			{Name: symbols.Intern("a"), Ty: i64Ty, Def: &aDef},
			{Name: symbols.Intern("b"), Ty: namedTy(prog, "i64"), Def: &bDef},
		},
		ReturnTy: namedTy(prog, "i64"),
		Body:     body,
		Self:     fnID,
	}
	prog.Functions.Set(fnID, fn)
	return prog, fnID
}

func TestInferAddFunctionNoErrors(t *testing.T) {
	prog, fnID := buildAddFunction(t)
	ctx := types.NewContext()
	inf := types.NewInference(ctx, prog, noMethods{})

	fnTy := inf.InferFunction(fnID)
	if errs := inf.Errors(); len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}

	norm, err := ctx.Normalize(fnTy)
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	got := ctx.Get(norm.ID())
	if got.Kind != types.KindFunction {
		t.Fatalf("want KindFunction, got %s", got.Kind)
	}
	ret := ctx.Get(got.Data.(types.FunctionData).Ret)
	if ret.Kind != types.KindInt {
		t.Fatalf("want return KindInt, got %s", ret.Kind)
	}
}

func TestInferMismatchedOperandsReportsUnificationFailure(t *testing.T) {
	symbols := interner.New()
	prog := hir.NewProgram(symbols)

	fnID := prog.Functions.Alloc(hir.Function{})
	aDef := hir.LocalDef(fnID, 0)
	bDef := hir.LocalDef(fnID, 1)

	aVar := prog.Exprs.Alloc(hir.Expr{Kind: hir.ExprVariable, Data: hir.VariableExpr{Name: symbols.Intern("a"), Def: &aDef}})
	bVar := prog.Exprs.Alloc(hir.Expr{Kind: hir.ExprVariable, Data: hir.VariableExpr{Name: symbols.Intern("b"), Def: &bDef}})
	body := prog.Exprs.Alloc(hir.Expr{Kind: hir.ExprBinaryOp, Data: hir.BinaryOpExpr{Op: hir.BinAdd, Left: aVar, Right: bVar}})

	fn := hir.Function{
		Name: symbols.Intern("bad"),
		Params: []hir.Param{
			{Name: symbols.Intern("a"), Ty: namedTy(prog, "i64"), Def: &aDef},
			{Name: symbols.Intern("b"), Ty: namedTy(prog, "bool"), Def: &bDef},
		},
		ReturnTy: namedTy(prog, "i64"),
		Body:     body,
		Self:     fnID,
	}
	prog.Functions.Set(fnID, fn)

	ctx := types.NewContext()
	inf := types.NewInference(ctx, prog, noMethods{})
	inf.InferFunction(fnID)

	errs := inf.Errors()
	if len(errs) == 0 {
		t.Fatalf("expected a unification error, got none")
	}
	if _, ok := errs[0].(*types.UnificationFailure); !ok {
		t.Fatalf("want *UnificationFailure, got %T", errs[0])
	}
}

// TestInferEarlyReturnMismatchReportsUnificationFailure builds
// `fn f() -> i64 { if true { return "oops"; } 42 }` directly against the
// hir arenas: the early return's value is only reachable through a
// StmtReturn nested inside the if's Then block, never through the
// function body's own trailing expression (42).
func TestInferEarlyReturnMismatchReportsUnificationFailure(t *testing.T) {
	symbols := interner.New()
	prog := hir.NewProgram(symbols)

	fnID := prog.Functions.Alloc(hir.Function{})

	cond := prog.Exprs.Alloc(hir.Expr{Kind: hir.ExprLiteral, Data: hir.LiteralExpr{Value: hir.LiteralValue{Kind: hir.LitBool, Bool: true}}})
	badReturnValue := prog.Exprs.Alloc(hir.Expr{Kind: hir.ExprLiteral, Data: hir.LiteralExpr{Value: hir.LiteralValue{Kind: hir.LitString, Str: "oops"}}})

	returnStmt := prog.Stmts.Alloc(hir.Stmt{Kind: hir.StmtReturn, Data: hir.ReturnStmt{Value: &badReturnValue}})
	thenBlock := prog.Exprs.Alloc(hir.Expr{Kind: hir.ExprBlock, Data: hir.BlockExpr{Stmts: []hir.StmtId{returnStmt}}})
	ifExpr := prog.Exprs.Alloc(hir.Expr{Kind: hir.ExprIf, Data: hir.IfExpr{Cond: cond, Then: thenBlock}})

	ifStmt := prog.Stmts.Alloc(hir.Stmt{Kind: hir.StmtExpr, Data: hir.ExprStmt{Expr: ifExpr}})
	trailing := prog.Exprs.Alloc(hir.Expr{Kind: hir.ExprLiteral, Data: hir.LiteralExpr{Value: hir.LiteralValue{Kind: hir.LitInt, Int: 42}}})
	body := prog.Exprs.Alloc(hir.Expr{Kind: hir.ExprBlock, Data: hir.BlockExpr{Stmts: []hir.StmtId{ifStmt}, Trailing: &trailing}})

	fn := hir.Function{
		Name:     symbols.Intern("f"),
		ReturnTy: namedTy(prog, "i64"),
		Body:     body,
		Self:     fnID,
	}
	prog.Functions.Set(fnID, fn)

	ctx := types.NewContext()
	inf := types.NewInference(ctx, prog, noMethods{})
	inf.InferFunction(fnID)

	errs := inf.Errors()
	if len(errs) == 0 {
		t.Fatalf("expected a unification error from the early return, got none")
	}
	if _, ok := errs[0].(*types.UnificationFailure); !ok {
		t.Fatalf("want *UnificationFailure, got %T", errs[0])
	}
}

func TestInferFieldAccess(t *testing.T) {
	symbols := interner.New()
	prog := hir.NewProgram(symbols)

	xName := symbols.Intern("x")
	structSym := symbols.Intern("Point")
	typeID := prog.TypeDefs.Alloc(hir.TypeDef{
		Kind: hir.TypeDefStruct,
		Struct: &hir.StructDef{
			Name:   structSym,
			Fields: []hir.FieldDef{{Name: xName, Ty: namedTy(prog, "i64")}},
		},
	})
	prog.TypeByName[structSym] = typeID
	defRef := hir.TypeDefRef(typeID)

	fnID := prog.Functions.Alloc(hir.Function{})
	pDef := hir.LocalDef(fnID, 0)
	pVar := prog.Exprs.Alloc(hir.Expr{Kind: hir.ExprVariable, Data: hir.VariableExpr{Name: symbols.Intern("p"), Def: &pDef}})
	field := prog.Exprs.Alloc(hir.Expr{Kind: hir.ExprField, Data: hir.FieldExpr{Base: pVar, Field: xName}})

	pointTy := prog.Types.Alloc(hir.HirType{Kind: hir.HirTypeNamed, Data: hir.NamedType{Name: structSym, Def: &defRef}})
	fn := hir.Function{
		Name:     symbols.Intern("getX"),
		Params:   []hir.Param{{Name: symbols.Intern("p"), Ty: pointTy, Def: &pDef}},
		ReturnTy: namedTy(prog, "i64"),
		Body:     field,
		Self:     fnID,
	}
	prog.Functions.Set(fnID, fn)

	ctx := types.NewContext()
	inf := types.NewInference(ctx, prog, noMethods{})
	inf.InferFunction(fnID)

	if errs := inf.Errors(); len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
}

func TestUnifyStructsByDefIdentity(t *testing.T) {
	ctx := types.NewContext()
	a := ctx.Alloc(types.Ty{Kind: types.KindStruct, Data: types.StructData{DefID: 1}})
	b := ctx.Alloc(types.Ty{Kind: types.KindStruct, Data: types.StructData{DefID: 1}})
	c := ctx.Alloc(types.Ty{Kind: types.KindStruct, Data: types.StructData{DefID: 2}})

	if err := ctx.Unify(a, b); err != nil {
		t.Fatalf("expected same-def structs to unify: %v", err)
	}
	if err := ctx.Unify(a, c); err == nil {
		t.Fatalf("expected different-def structs to fail unification")
	}
}

func TestUnifyOccursCheck(t *testing.T) {
	ctx := types.NewContext()
	v := ctx.FreshVar()
	fn := ctx.Alloc(types.Ty{Kind: types.KindFunction, Data: types.FunctionData{Params: []types.TyId{v}, Ret: ctx.Unit()}})
	if err := ctx.Unify(v, fn); err == nil {
		t.Fatalf("expected occurs-check failure for infinite type")
	}
}

func TestNormalizeCyclicStruct(t *testing.T) {
	ctx := types.NewContext()
	node := ctx.Alloc(types.Ty{Kind: types.KindStruct, Data: types.StructData{DefID: 7}})
	ctx.Set(node, types.Ty{Kind: types.KindStruct, Data: types.StructData{
		DefID:  7,
		Fields: []types.StructField{{Name: "next", Ty: node}},
	}})

	norm, err := ctx.Normalize(node)
	if err != nil {
		t.Fatalf("normalize cyclic struct: %v", err)
	}
	got := ctx.Get(norm.ID())
	if got.Kind != types.KindStruct {
		t.Fatalf("want KindStruct, got %s", got.Kind)
	}
}

func TestNormalizeResidualVarFails(t *testing.T) {
	ctx := types.NewContext()
	v := ctx.FreshVar()
	if _, err := ctx.Normalize(v); err == nil {
		t.Fatalf("expected ErrResidualVar for an unbound var")
	}
}

func TestSubstituteParamsReplacesParamLeaves(t *testing.T) {
	ctx := types.NewContext()
	param := ctx.Alloc(types.Ty{Kind: types.KindParam, Data: types.ParamData{Name: "T"}})
	listOfT := ctx.Alloc(types.Ty{Kind: types.KindTuple, Data: types.TupleData{Elements: []types.TyId{param, param}}})

	concrete := ctx.Int()
	substituted := types.SubstituteParams(ctx, listOfT, map[string]types.TyId{"T": concrete})

	got := ctx.Get(substituted)
	if got.Kind != types.KindTuple {
		t.Fatalf("want KindTuple, got %s", got.Kind)
	}
	for _, e := range got.Data.(types.TupleData).Elements {
		if ctx.Get(e).Kind != types.KindInt {
			t.Fatalf("want substituted element to be KindInt, got %s", ctx.Get(e).Kind)
		}
	}
}

func TestSubstituteParamsNoopWhenNoParams(t *testing.T) {
	ctx := types.NewContext()
	id := ctx.Int()
	if got := types.SubstituteParams(ctx, id, map[string]types.TyId{"T": ctx.Bool()}); got != id {
		t.Fatalf("expected unchanged id for a parameter-free type")
	}
}
