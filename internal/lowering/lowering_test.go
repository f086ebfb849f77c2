package lowering

import (
	"testing"

	"github.com/orizon-lang/orizon/internal/cstnode"
	"github.com/orizon-lang/orizon/internal/hir"
	"github.com/orizon-lang/orizon/internal/interner"
	"github.com/orizon-lang/orizon/internal/position"
)

func testSpan() position.Span { return position.Span{} }

func lit(text string) cstnode.Node   { return cstnode.NewTree(cstnode.KindLiteral, text, testSpan()) }
func ident(text string) cstnode.Node { return cstnode.NewTree(cstnode.KindIdentifier, text, testSpan()) }
func binOp(op string, l, r cstnode.Node) cstnode.Node {
	return cstnode.NewTree(cstnode.KindBinaryOp, op, testSpan(), l, r)
}

func TestLowerSimpleArithmeticFunction(t *testing.T) {
	// fn main() -> i64 { 2 + 3 * 4 }
	mul := binOp("*", lit("3"), lit("4"))
	add := binOp("+", lit("2"), mul)
	params := cstnode.NewTree(cstnode.KindParameters, "", testSpan())
	retTy := cstnode.NewTree(cstnode.KindType, "i64", testSpan())
	block := cstnode.NewTree(cstnode.KindBlock, "", testSpan(), add)
	fn := cstnode.NewTree(cstnode.KindFunction, "main", testSpan(), params, retTy, block)
	module := cstnode.NewTree(cstnode.KindModule, "root", testSpan(), fn)

	ctx := NewContext(interner.New())
	ctx.LowerModule(module)

	if len(ctx.Errors()) != 0 {
		t.Fatalf("unexpected lowering errors: %v", ctx.Errors())
	}

	fnID, ok := ctx.Program.FnByName[ctx.Program.Symbols.Intern("main")]
	if !ok {
		t.Fatalf("main not registered")
	}
	fnDef := ctx.Program.Functions.Get(fnID)
	if !fnDef.Body.Valid() {
		t.Fatalf("expected function body to be lowered")
	}

	body := ctx.Program.Exprs.Get(fnDef.Body)
	if body.Kind != hir.ExprBlock {
		t.Fatalf("expected block body, got %v", body.Kind)
	}
	blockData := body.Data.(hir.BlockExpr)
	if blockData.Trailing == nil {
		t.Fatalf("expected trailing expression")
	}
	trailing := ctx.Program.Exprs.Get(*blockData.Trailing)
	if trailing.Kind != hir.ExprBinaryOp {
		t.Fatalf("expected binary op trailing expression, got %v", trailing.Kind)
	}
	addData := trailing.Data.(hir.BinaryOpExpr)
	if addData.Op != hir.BinAdd {
		t.Fatalf("expected add at top, got %v", addData.Op)
	}
}

func TestClosureCapturesOuterVariable(t *testing.T) {
	// fn main() -> i64 { let x = 1; let f = || x; 0 }
	letX := cstnode.NewTree(cstnode.KindLet, "", testSpan(), ident("x"), lit("1"))
	closureBody := ident("x")
	closure := cstnode.NewTree(cstnode.KindClosure, "", testSpan(),
		cstnode.NewTree(cstnode.KindParameters, "", testSpan()), closureBody)
	letF := cstnode.NewTree(cstnode.KindLet, "", testSpan(), ident("f"), closure)
	tail := lit("0")
	block := cstnode.NewTree(cstnode.KindBlock, "", testSpan(), letX, letF, tail)
	params := cstnode.NewTree(cstnode.KindParameters, "", testSpan())
	retTy := cstnode.NewTree(cstnode.KindType, "i64", testSpan())
	fn := cstnode.NewTree(cstnode.KindFunction, "main", testSpan(), params, retTy, block)
	module := cstnode.NewTree(cstnode.KindModule, "root", testSpan(), fn)

	ctx := NewContext(interner.New())
	ctx.LowerModule(module)
	if len(ctx.Errors()) != 0 {
		t.Fatalf("unexpected errors: %v", ctx.Errors())
	}

	fnID := ctx.Program.FnByName[ctx.Program.Symbols.Intern("main")]
	fnDef := ctx.Program.Functions.Get(fnID)

	var found *hir.ClosureExpr
	ctx.Program.WalkExprs(fnDef.Body, func(id hir.ExprId) bool {
		e := ctx.Program.Exprs.Get(id)
		if e.Kind == hir.ExprClosure {
			c := e.Data.(hir.ClosureExpr)
			found = &c
		}
		return true
	})
	if found == nil {
		t.Fatalf("expected to find closure")
	}
	if len(found.Captures) != 1 || ctx.Program.Symbols.Lookup(found.Captures[0]) != "x" {
		t.Fatalf("expected closure to capture [x], got %v", found.Captures)
	}
}
