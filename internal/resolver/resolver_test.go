package resolver

import (
	"testing"

	"github.com/orizon-lang/orizon/internal/cstnode"
	"github.com/orizon-lang/orizon/internal/hir"
	"github.com/orizon-lang/orizon/internal/interner"
	"github.com/orizon-lang/orizon/internal/lowering"
	"github.com/orizon-lang/orizon/internal/position"
)

func testSpan() position.Span { return position.Span{} }

func lit(text string) cstnode.Node   { return cstnode.NewTree(cstnode.KindLiteral, text, testSpan()) }
func ident(text string) cstnode.Node { return cstnode.NewTree(cstnode.KindIdentifier, text, testSpan()) }
func binOp(op string, l, r cstnode.Node) cstnode.Node {
	return cstnode.NewTree(cstnode.KindBinaryOp, op, testSpan(), l, r)
}

// TestResolveVariableToLet covers `fn main() -> i64 { let x = 41; x + 1 }`:
// the `x` reference inside the trailing expression must resolve to the
// same Local that the `let` bound.
func TestResolveVariableToLet(t *testing.T) {
	letX := cstnode.NewTree(cstnode.KindLet, "", testSpan(), ident("x"), lit("41"))
	tail := binOp("+", ident("x"), lit("1"))
	block := cstnode.NewTree(cstnode.KindBlock, "", testSpan(), letX, tail)
	params := cstnode.NewTree(cstnode.KindParameters, "", testSpan())
	retTy := cstnode.NewTree(cstnode.KindType, "i64", testSpan())
	fn := cstnode.NewTree(cstnode.KindFunction, "main", testSpan(), params, retTy, block)
	module := cstnode.NewTree(cstnode.KindModule, "root", testSpan(), fn)

	ctx := lowering.NewContext(interner.New())
	ctx.LowerModule(module)
	if len(ctx.Errors()) != 0 {
		t.Fatalf("unexpected lowering errors: %v", ctx.Errors())
	}

	errs := ResolveProgram(ctx.Program)
	if len(errs) != 0 {
		t.Fatalf("unexpected resolution errors: %v", errs)
	}

	fnID := ctx.Program.FnByName[ctx.Program.Symbols.Intern("main")]
	fnDef := ctx.Program.Functions.Get(fnID)
	block2 := ctx.Program.Exprs.Get(fnDef.Body).Data.(hir.BlockExpr)
	trailing := ctx.Program.Exprs.Get(*block2.Trailing)
	addData := trailing.Data.(hir.BinaryOpExpr)
	left := ctx.Program.Exprs.Get(addData.Left)
	v := left.Data.(hir.VariableExpr)
	if v.Def == nil {
		t.Fatalf("expected x to resolve")
	}
	if v.Def.Kind != hir.DefLocal {
		t.Fatalf("expected local def, got %v", v.Def.Kind)
	}
}

// TestResolveUndefinedVariable covers a reference to a name never bound
// anywhere in scope; resolution must record an error and leave Def nil
// rather than panicking.
func TestResolveUndefinedVariable(t *testing.T) {
	tail := ident("missing")
	block := cstnode.NewTree(cstnode.KindBlock, "", testSpan(), tail)
	params := cstnode.NewTree(cstnode.KindParameters, "", testSpan())
	retTy := cstnode.NewTree(cstnode.KindType, "i64", testSpan())
	fn := cstnode.NewTree(cstnode.KindFunction, "main", testSpan(), params, retTy, block)
	module := cstnode.NewTree(cstnode.KindModule, "root", testSpan(), fn)

	ctx := lowering.NewContext(interner.New())
	ctx.LowerModule(module)

	errs := ResolveProgram(ctx.Program)
	if len(errs) != 1 {
		t.Fatalf("expected exactly one undefined-variable error, got %v", errs)
	}
	if _, ok := errs[0].(*UndefinedVariable); !ok {
		t.Fatalf("expected *UndefinedVariable, got %T", errs[0])
	}
}

// TestOrPatternMismatchReported covers `Some(x) | None => ...`-shaped
// mismatched bindings (Open Question 2): the resolver must flag it.
func TestOrPatternMismatchReported(t *testing.T) {
	prog := hir.NewProgram(interner.New())
	bindX := prog.Patterns.Alloc(hir.Pattern{Kind: hir.PatternBinding, Data: hir.BindingPattern{Name: prog.Symbols.Intern("x")}})
	wildcard := prog.Patterns.Alloc(hir.Pattern{Kind: hir.PatternWildcard})
	orPat := prog.Patterns.Alloc(hir.Pattern{Kind: hir.PatternOr, Data: hir.OrPattern{Patterns: []hir.PatternId{bindX, wildcard}}})

	r := New(prog)
	r.checkOrPatternBindings(orPat)
	if len(r.Errors()) != 1 {
		t.Fatalf("expected a mismatch error, got %v", r.Errors())
	}
	if _, ok := r.Errors()[0].(*OrPatternMismatch); !ok {
		t.Fatalf("expected *OrPatternMismatch, got %T", r.Errors()[0])
	}
}
