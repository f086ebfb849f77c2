package types_test

import (
	"testing"

	"github.com/orizon-lang/orizon/internal/hir"
	"github.com/orizon-lang/orizon/internal/interner"
	"github.com/orizon-lang/orizon/internal/types"
)

// buildArrayType constructs the HIR type `[i64; size]`, with size a
// single integer literal, directly against
// the hir arenas, bypassing internal/lowering the same way
// buildAddFunction does.
func buildArrayType(t *testing.T, size int64) (*hir.Program, hir.HirTypeId) {
	t.Helper()
	symbols := interner.New()
	prog := hir.NewProgram(symbols)

	elem := namedTy(prog, "i64")
	sizeExpr := prog.Exprs.Alloc(hir.Expr{
		Kind: hir.ExprLiteral,
		Data: hir.LiteralExpr{Value: hir.LiteralValue{Kind: hir.LitInt, Int: size}},
	})
	arrTy := prog.Types.Alloc(hir.HirType{Kind: hir.HirTypeArray, Data: hir.ArrayType{Element: elem, Size: sizeExpr}})

	return prog, arrTy
}

func TestHirConverterEvaluatesArraySize(t *testing.T) {
	prog, arrTy := buildArrayType(t, 3)

	ctx := types.NewContext()
	hc := types.NewHirConverter(ctx, prog, nil)

	tyID := hc.Convert(arrTy)
	ty := ctx.Get(tyID)

	if ty.Kind != types.KindArray {
		t.Fatalf("expected KindArray, got %v", ty.Kind)
	}

	data := ty.Data.(types.ArrayData)
	if data.Size != 3 {
		t.Errorf("expected array size 3, got %d", data.Size)
	}

	if len(hc.Errors()) != 0 {
		t.Errorf("unexpected const-eval errors: %v", hc.Errors())
	}
}

func TestHirConverterRejectsNegativeArraySize(t *testing.T) {
	prog, arrTy := buildArrayType(t, -1)

	ctx := types.NewContext()
	hc := types.NewHirConverter(ctx, prog, nil)

	hc.Convert(arrTy)

	if len(hc.Errors()) != 1 {
		t.Fatalf("expected exactly one const-eval error, got %d", len(hc.Errors()))
	}
}
