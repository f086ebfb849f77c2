package mir

import (
	"testing"

	"github.com/orizon-lang/orizon/internal/cstnode"
	"github.com/orizon-lang/orizon/internal/interner"
	"github.com/orizon-lang/orizon/internal/lowering"
	"github.com/orizon-lang/orizon/internal/position"
	"github.com/orizon-lang/orizon/internal/resolver"
)

func sp() position.Span { return position.Span{} }

func typeNode(name string) cstnode.Node { return cstnode.NewTree(cstnode.KindType, name, sp()) }
func ident(name string) cstnode.Node    { return cstnode.NewTree(cstnode.KindIdentifier, name, sp()) }
func lit(text string) cstnode.Node      { return cstnode.NewTree(cstnode.KindLiteral, text, sp()) }

func paramNode(name string, ty cstnode.Node) cstnode.Node {
	return cstnode.NewTree(cstnode.KindParameter, name, sp(), ty)
}

func buildAndLower(t *testing.T, module cstnode.Node) (*lowering.Context, *Program) {
	t.Helper()
	ctx := lowering.NewContext(interner.New())
	ctx.LowerModule(module)
	if len(ctx.Errors()) != 0 {
		t.Fatalf("lowering errors: %v", ctx.Errors())
	}
	if errs := resolver.ResolveProgram(ctx.Program); len(errs) != 0 {
		t.Fatalf("resolve errors: %v", errs)
	}
	prog, _, _ := LowerProgram(ctx.Program)
	return ctx, prog
}

// add(a: i64, b: i64) -> i64 { a + b }
func TestLowerSimpleArithmeticFunction(t *testing.T) {
	params := cstnode.NewTree(cstnode.KindParameters, "", sp(),
		paramNode("a", typeNode("i64")), paramNode("b", typeNode("i64")))
	body := cstnode.NewTree(cstnode.KindBlock, "", sp(),
		cstnode.NewTree(cstnode.KindBinaryOp, "+", sp(), ident("a"), ident("b")))
	fn := cstnode.NewTree(cstnode.KindFunction, "add", sp(), params, typeNode("i64"), body)
	module := cstnode.NewTree(cstnode.KindModule, "root", sp(), fn)

	_, prog := buildAndLower(t, module)
	if len(prog.Functions) != 1 {
		t.Fatalf("expected one lowered function, got %d", len(prog.Functions))
	}
	mf := prog.Functions[0]
	if mf.ParamCount != 2 {
		t.Fatalf("expected 2 params, got %d", mf.ParamCount)
	}

	var sawBinOp bool
	for _, bb := range mf.Blocks {
		for _, s := range bb.Statements {
			if s.Kind == StmtAssign && s.RValue.Kind == RValueBinaryOp && s.RValue.BinOp == MirAdd {
				sawBinOp = true
			}
		}
	}
	if !sawBinOp {
		t.Fatalf("expected a lowered BinaryOp(Add) statement, got:\n%s", mf.String())
	}

	if errs := Verify(prog, nil); len(errs) != 0 {
		t.Fatalf("verify errors: %v", errs)
	}
}

// fn pick(n: bool) -> i64 { if n { 1 } else { 2 } }
func TestLowerIfExpression(t *testing.T) {
	params := cstnode.NewTree(cstnode.KindParameters, "", sp(), paramNode("n", typeNode("bool")))
	ifExpr := cstnode.NewTree(cstnode.KindIf, "", sp(),
		ident("n"),
		cstnode.NewTree(cstnode.KindBlock, "", sp(), lit("1")),
		cstnode.NewTree(cstnode.KindBlock, "", sp(), lit("2")))
	body := cstnode.NewTree(cstnode.KindBlock, "", sp(), ifExpr)
	fn := cstnode.NewTree(cstnode.KindFunction, "pick", sp(), params, typeNode("i64"), body)
	module := cstnode.NewTree(cstnode.KindModule, "root", sp(), fn)

	_, prog := buildAndLower(t, module)
	mf := prog.Functions[0]

	var sawSwitch bool
	for _, bb := range mf.Blocks {
		if bb.Terminator.Kind == TermSwitchInt {
			sawSwitch = true
		}
	}
	if !sawSwitch {
		t.Fatalf("expected a SwitchInt terminator lowering the if, got:\n%s", mf.String())
	}
	if errs := Verify(prog, nil); len(errs) != 0 {
		t.Fatalf("verify errors: %v", errs)
	}
}

// struct Point { x: i64, y: i64 }
// fn make() -> Point { Point { x: 1, y: 2 } }
func TestLowerStructConstructAndFieldAccess(t *testing.T) {
	xField := paramNode("x", typeNode("i64"))
	yField := paramNode("y", typeNode("i64"))
	structNode := cstnode.NewTree(cstnode.KindStruct, "Point", sp(), xField, yField)

	ctor := cstnode.NewTree(cstnode.KindStructConstruct, "Point", sp(),
		cstnode.NewTree(cstnode.KindField, "x", sp(), lit("1")),
		cstnode.NewTree(cstnode.KindField, "y", sp(), lit("2")))
	body := cstnode.NewTree(cstnode.KindBlock, "", sp(), ctor)
	fn := cstnode.NewTree(cstnode.KindFunction, "make", sp(),
		cstnode.NewTree(cstnode.KindParameters, "", sp()), typeNode("Point"), body)

	module := cstnode.NewTree(cstnode.KindModule, "root", sp(), structNode, fn)

	_, prog := buildAndLower(t, module)
	mf := prog.Functions[0]

	var sawAggregate bool
	for _, bb := range mf.Blocks {
		for _, s := range bb.Statements {
			if s.Kind == StmtAssign && s.RValue.Kind == RValueAggregate && s.RValue.AggKind == AggregateStruct {
				sawAggregate = true
			}
		}
	}
	if !sawAggregate {
		t.Fatalf("expected an Aggregate(Struct) rvalue, got:\n%s", mf.String())
	}
	if errs := Verify(prog, nil); len(errs) != 0 {
		t.Fatalf("verify errors: %v", errs)
	}
}
