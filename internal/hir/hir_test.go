package hir

import (
	"testing"

	"github.com/orizon-lang/orizon/internal/interner"
)

func TestProgramAllocatesExpr(t *testing.T) {
	syms := interner.New()
	p := NewProgram(syms)
	id := p.Exprs.Alloc(Expr{Kind: ExprLiteral, Data: LiteralExpr{Value: LiteralValue{Kind: LitInt, Int: 7}}})
	got := p.Exprs.Get(id)
	if got.Kind != ExprLiteral {
		t.Fatalf("expected literal expr kind")
	}
}

func TestSubExprsBinaryOp(t *testing.T) {
	syms := interner.New()
	p := NewProgram(syms)
	left := p.Exprs.Alloc(Expr{Kind: ExprLiteral, Data: LiteralExpr{Value: LiteralValue{Kind: LitInt, Int: 2}}})
	right := p.Exprs.Alloc(Expr{Kind: ExprLiteral, Data: LiteralExpr{Value: LiteralValue{Kind: LitInt, Int: 3}}})
	add := p.Exprs.Alloc(Expr{Kind: ExprBinaryOp, Data: BinaryOpExpr{Op: BinAdd, Left: left, Right: right}})

	kids := p.SubExprs(add)
	if len(kids) != 2 || kids[0] != left || kids[1] != right {
		t.Fatalf("unexpected subexprs: %v", kids)
	}
}

func TestScopeLookupWalksOutward(t *testing.T) {
	syms := interner.New()
	p := NewProgram(syms)
	name := syms.Intern("x")

	child := p.Scopes.Push(p.RootScope, ScopeBlock)
	p.Scopes.Define(p.RootScope, name, ScopeEntry{Def: LocalDef(1, 0)})

	entry, ok := p.Scopes.Lookup(child, name)
	if !ok {
		t.Fatalf("expected lookup from child to find root-scope binding")
	}
	if entry.Def.Kind != DefLocal {
		t.Fatalf("expected local def, got %v", entry.Def.Kind)
	}
}

func TestFieldIndex(t *testing.T) {
	syms := interner.New()
	x := syms.Intern("x")
	y := syms.Intern("y")
	def := &StructDef{Fields: []FieldDef{{Name: x}, {Name: y}}}

	if idx, ok := FieldIndex(def, y); !ok || idx != 1 {
		t.Fatalf("FieldIndex(y) = %d,%v want 1,true", idx, ok)
	}
	if _, ok := FieldIndex(def, syms.Intern("z")); ok {
		t.Fatalf("expected missing field to report not-found")
	}
}
