package consteval

import (
	"testing"

	"github.com/orizon-lang/orizon/internal/hir"
	"github.com/orizon-lang/orizon/internal/interner"
)

func lit(prog *hir.Program, v hir.LiteralValue) hir.ExprId {
	return prog.Exprs.Alloc(hir.Expr{Kind: hir.ExprLiteral, Data: hir.LiteralExpr{Value: v}})
}

func intLit(prog *hir.Program, v int64) hir.ExprId {
	return lit(prog, hir.LiteralValue{Kind: hir.LitInt, Int: v})
}

func TestEvalArraySizeLiteral(t *testing.T) {
	prog := hir.NewProgram(interner.New())
	id := intLit(prog, 4)
	v, err := EvalArraySize(prog, id)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != 4 {
		t.Fatalf("expected 4, got %d", v)
	}
}

func TestEvalArithmetic(t *testing.T) {
	prog := hir.NewProgram(interner.New())
	// 2 + 3 * 4
	mul := prog.Exprs.Alloc(hir.Expr{Kind: hir.ExprBinaryOp, Data: hir.BinaryOpExpr{
		Op: hir.BinMul, Left: intLit(prog, 3), Right: intLit(prog, 4),
	}})
	add := prog.Exprs.Alloc(hir.Expr{Kind: hir.ExprBinaryOp, Data: hir.BinaryOpExpr{
		Op: hir.BinAdd, Left: intLit(prog, 2), Right: mul,
	}})

	ev := NewEvaluator(prog, Width64, true)
	v, err := ev.Eval(add)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.Kind != ValInt || v.Int != 14 {
		t.Fatalf("expected 14, got %+v", v)
	}
}

func TestEvalDivisionByZero(t *testing.T) {
	prog := hir.NewProgram(interner.New())
	div := prog.Exprs.Alloc(hir.Expr{Kind: hir.ExprBinaryOp, Data: hir.BinaryOpExpr{
		Op: hir.BinDiv, Left: intLit(prog, 1), Right: intLit(prog, 0),
	}})
	ev := NewEvaluator(prog, Width64, true)
	_, err := ev.Eval(div)
	cerr, ok := err.(*Error)
	if !ok || cerr.Kind != DivisionByZero {
		t.Fatalf("expected DivisionByZero, got %v", err)
	}
}

func TestEvalOverflowI8(t *testing.T) {
	prog := hir.NewProgram(interner.New())
	add := prog.Exprs.Alloc(hir.Expr{Kind: hir.ExprBinaryOp, Data: hir.BinaryOpExpr{
		Op: hir.BinAdd, Left: intLit(prog, 120), Right: intLit(prog, 10),
	}})
	ev := NewEvaluator(prog, Width8, true)
	_, err := ev.Eval(add)
	cerr, ok := err.(*Error)
	if !ok || cerr.Kind != OverflowError {
		t.Fatalf("expected OverflowError, got %v", err)
	}
}

func TestEvalRejectsBlockWithStatements(t *testing.T) {
	prog := hir.NewProgram(interner.New())
	letStmt := prog.Stmts.Alloc(hir.Stmt{Kind: hir.StmtLet, Data: hir.LetStmt{
		Pattern: prog.Patterns.Alloc(hir.Pattern{Kind: hir.PatternWildcard}),
		Init:    intLit(prog, 1),
	}})
	tail := intLit(prog, 2)
	block := prog.Exprs.Alloc(hir.Expr{Kind: hir.ExprBlock, Data: hir.BlockExpr{
		Stmts: []hir.StmtId{letStmt}, Trailing: &tail,
	}})

	ev := NewEvaluator(prog, Width64, true)
	_, err := ev.Eval(block)
	cerr, ok := err.(*Error)
	if !ok || cerr.Kind != NonConstExpr {
		t.Fatalf("expected NonConstExpr, got %v", err)
	}
}

func TestEvalNonConstVariable(t *testing.T) {
	prog := hir.NewProgram(interner.New())
	v := prog.Exprs.Alloc(hir.Expr{Kind: hir.ExprVariable, Data: hir.VariableExpr{Name: prog.Symbols.Intern("N")}})
	ev := NewEvaluator(prog, Width64, true)
	_, err := ev.Eval(v)
	cerr, ok := err.(*Error)
	if !ok || cerr.Kind != NonConstExpr {
		t.Fatalf("expected NonConstExpr, got %v", err)
	}
}

func TestEvalConstReference(t *testing.T) {
	prog := hir.NewProgram(interner.New())
	v := prog.Exprs.Alloc(hir.Expr{Kind: hir.ExprVariable, Data: hir.VariableExpr{Name: prog.Symbols.Intern("N")}})
	ev := NewEvaluator(prog, Width64, true)
	ev.Consts["N"] = Value{Kind: ValInt, Int: 8}
	got, err := ev.Eval(v)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Int != 8 {
		t.Fatalf("expected 8, got %d", got.Int)
	}
}
