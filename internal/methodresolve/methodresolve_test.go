package methodresolve

import (
	"testing"

	"github.com/orizon-lang/orizon/internal/cstnode"
	"github.com/orizon-lang/orizon/internal/interner"
	"github.com/orizon-lang/orizon/internal/lowering"
	"github.com/orizon-lang/orizon/internal/position"
	"github.com/orizon-lang/orizon/internal/types"
)

func testSpan() position.Span { return position.Span{} }

func typeNode(name string) cstnode.Node { return cstnode.NewTree(cstnode.KindType, name, testSpan()) }
func paramNode(name string, ty cstnode.Node) cstnode.Node {
	return cstnode.NewTree(cstnode.KindParameter, name, testSpan(), ty)
}
func selfParamNode(text string) cstnode.Node { return cstnode.NewTree(cstnode.KindParameter, text, testSpan()) }

// buildPointModule lowers:
//
//	struct Point { x: i64 }
//	impl Point { fn len(&self) -> i64 { self.x } }
func buildPointModule(t *testing.T) *lowering.Context {
	t.Helper()
	xField := paramNode("x", typeNode("i64"))
	structNode := cstnode.NewTree(cstnode.KindStruct, "Point", testSpan(), xField)

	selfParams := cstnode.NewTree(cstnode.KindParameters, "", testSpan(), selfParamNode("&self"))
	retTy := typeNode("i64")
	body := cstnode.NewTree(cstnode.KindBlock, "", testSpan(),
		cstnode.NewTree(cstnode.KindField, "x", testSpan(), cstnode.NewTree(cstnode.KindIdentifier, "self", testSpan())))
	lenFn := cstnode.NewTree(cstnode.KindFunction, "len", testSpan(), selfParams, retTy, body)
	implNode := cstnode.NewTree(cstnode.KindImpl, "", testSpan(), typeNode("Point"), lenFn)

	module := cstnode.NewTree(cstnode.KindModule, "root", testSpan(), structNode, implNode)

	ctx := lowering.NewContext(interner.New())
	ctx.LowerModule(module)
	if len(ctx.Errors()) != 0 {
		t.Fatalf("unexpected lowering errors: %v", ctx.Errors())
	}
	return ctx
}

func TestResolveInherentMethod(t *testing.T) {
	ctx := buildPointModule(t)
	prog := ctx.Program

	pointTypeID, ok := prog.TypeByName[prog.Symbols.Intern("Point")]
	if !ok {
		t.Fatalf("Point not registered")
	}
	wantFnID, ok := prog.FnByName[prog.Symbols.Intern("Point::len")]
	if !ok {
		t.Fatalf("Point::len not registered")
	}

	tctx := types.NewContext()
	pointTy := tctx.Alloc(types.Ty{Kind: types.KindStruct, Data: types.StructData{
		DefID: types.TyDefId(pointTypeID),
	}})

	r := New(prog)
	gotFnID, derefs, err := r.Resolve(tctx, pointTy, "len", false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotFnID != wantFnID {
		t.Fatalf("expected %v, got %v", wantFnID, gotFnID)
	}
	if derefs != 0 {
		t.Fatalf("expected no auto-deref for a bare struct receiver, got %d", derefs)
	}
}

func TestResolveAutoDerefsThroughRef(t *testing.T) {
	ctx := buildPointModule(t)
	prog := ctx.Program

	pointTypeID := prog.TypeByName[prog.Symbols.Intern("Point")]
	wantFnID := prog.FnByName[prog.Symbols.Intern("Point::len")]

	tctx := types.NewContext()
	pointTy := tctx.Alloc(types.Ty{Kind: types.KindStruct, Data: types.StructData{DefID: types.TyDefId(pointTypeID)}})
	refTy := tctx.Alloc(types.Ty{Kind: types.KindRef, Data: types.RefData{Inner: pointTy}})

	r := New(prog)
	gotFnID, derefs, err := r.Resolve(tctx, refTy, "len", false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotFnID != wantFnID {
		t.Fatalf("expected %v, got %v", wantFnID, gotFnID)
	}
	if derefs != 1 {
		t.Fatalf("expected exactly one auto-deref, got %d", derefs)
	}
}

func TestResolveMethodNotFound(t *testing.T) {
	ctx := buildPointModule(t)
	prog := ctx.Program
	pointTypeID := prog.TypeByName[prog.Symbols.Intern("Point")]

	tctx := types.NewContext()
	pointTy := tctx.Alloc(types.Ty{Kind: types.KindStruct, Data: types.StructData{DefID: types.TyDefId(pointTypeID)}})

	r := New(prog)
	_, _, err := r.Resolve(tctx, pointTy, "missing", false)
	if _, ok := err.(*MethodNotFound); !ok {
		t.Fatalf("expected *MethodNotFound, got %v", err)
	}
}

func TestResolveTraitMethodMutabilityMismatch(t *testing.T) {
	traitNode := cstnode.NewTree(cstnode.KindTrait, "Counter", testSpan(),
		cstnode.NewTree(cstnode.KindFunction, "increment", testSpan(),
			cstnode.NewTree(cstnode.KindParameters, "", testSpan(), selfParamNode("&mut self")),
			typeNode("i64")))

	xField := paramNode("x", typeNode("i64"))
	structNode := cstnode.NewTree(cstnode.KindStruct, "Point", testSpan(), xField)

	selfParams := cstnode.NewTree(cstnode.KindParameters, "", testSpan(), selfParamNode("&mut self"))
	body := cstnode.NewTree(cstnode.KindBlock, "", testSpan(),
		cstnode.NewTree(cstnode.KindField, "x", testSpan(), cstnode.NewTree(cstnode.KindIdentifier, "self", testSpan())))
	incFn := cstnode.NewTree(cstnode.KindFunction, "increment", testSpan(), selfParams, typeNode("i64"), body)
	implNode := cstnode.NewTree(cstnode.KindImpl, "", testSpan(), typeNode("Counter"), typeNode("Point"), incFn)

	module := cstnode.NewTree(cstnode.KindModule, "root", testSpan(), traitNode, structNode, implNode)

	ctx := lowering.NewContext(interner.New())
	ctx.LowerModule(module)
	if len(ctx.Errors()) != 0 {
		t.Fatalf("unexpected lowering errors: %v", ctx.Errors())
	}
	prog := ctx.Program
	pointTypeID := prog.TypeByName[prog.Symbols.Intern("Point")]

	tctx := types.NewContext()
	pointTy := tctx.Alloc(types.Ty{Kind: types.KindStruct, Data: types.StructData{DefID: types.TyDefId(pointTypeID)}})

	r := New(prog)
	_, _, err := r.Resolve(tctx, pointTy, "increment", false)
	if _, ok := err.(*MutabilityMismatch); !ok {
		t.Fatalf("expected *MutabilityMismatch for an immutable receiver, got %v", err)
	}

	_, _, err = r.Resolve(tctx, pointTy, "increment", true)
	if err != nil {
		t.Fatalf("expected success with a mutable receiver, got %v", err)
	}
}
