package exhaustive

import (
	"testing"

	"github.com/orizon-lang/orizon/internal/hir"
	"github.com/orizon-lang/orizon/internal/interner"
	"github.com/orizon-lang/orizon/internal/types"
)

// buildOptionTy builds an Option<i64>-shaped enum type (Some(i64), None)
// directly in a fresh TyContext, mirroring how fromhir.go would convert
// such an enum's HIR definition.
func buildOptionTy(ctx *types.TyContext) types.TyId {
	intTy := ctx.Alloc(types.Ty{Kind: types.KindInt})
	return ctx.Alloc(types.Ty{Kind: types.KindEnum, Data: types.EnumData{
		DefID: 1,
		Variants: []types.EnumVariant{
			{Name: "Some", Fields: []types.TyId{intTy}},
			{Name: "None"},
		},
	}})
}

func TestCheckEnumMissingVariant(t *testing.T) {
	symbols := interner.New()
	prog := hir.NewProgram(symbols)
	ctx := types.NewContext()
	optTy := buildOptionTy(ctx)

	x := prog.Patterns.Alloc(hir.Pattern{Kind: hir.PatternBinding, Data: hir.BindingPattern{Name: symbols.Intern("x")}})
	somePat := prog.Patterns.Alloc(hir.Pattern{Kind: hir.PatternEnum, Data: hir.EnumPattern{
		EnumName: symbols.Intern("Option"), Variant: symbols.Intern("Some"), SubPatterns: []hir.PatternId{x},
	}})

	missing := Check(ctx, prog, optTy, []hir.MatchArm{{Pattern: somePat}})
	if len(missing) != 1 {
		t.Fatalf("expected exactly one missing witness, got %d: %v", len(missing), missing)
	}
	if missing[0].Ctor.Name != "None" {
		t.Fatalf("expected missing witness None, got %v", missing[0])
	}
}

func TestCheckEnumFullyCovered(t *testing.T) {
	symbols := interner.New()
	prog := hir.NewProgram(symbols)
	ctx := types.NewContext()
	optTy := buildOptionTy(ctx)

	x := prog.Patterns.Alloc(hir.Pattern{Kind: hir.PatternBinding, Data: hir.BindingPattern{Name: symbols.Intern("x")}})
	somePat := prog.Patterns.Alloc(hir.Pattern{Kind: hir.PatternEnum, Data: hir.EnumPattern{
		EnumName: symbols.Intern("Option"), Variant: symbols.Intern("Some"), SubPatterns: []hir.PatternId{x},
	}})
	nonePat := prog.Patterns.Alloc(hir.Pattern{Kind: hir.PatternEnum, Data: hir.EnumPattern{
		EnumName: symbols.Intern("Option"), Variant: symbols.Intern("None"),
	}})

	missing := Check(ctx, prog, optTy, []hir.MatchArm{{Pattern: somePat}, {Pattern: nonePat}})
	if len(missing) != 0 {
		t.Fatalf("expected no missing witnesses, got %v", missing)
	}
}

func TestCheckBoolFullyCoveredByWildcard(t *testing.T) {
	symbols := interner.New()
	prog := hir.NewProgram(symbols)
	ctx := types.NewContext()
	boolTy := ctx.Alloc(types.Ty{Kind: types.KindBool})

	truePat := prog.Patterns.Alloc(hir.Pattern{Kind: hir.PatternLiteral, Data: hir.LiteralPattern{Value: hir.LiteralValue{Kind: hir.LitBool, Bool: true}}})
	wildcard := prog.Patterns.Alloc(hir.Pattern{Kind: hir.PatternWildcard})

	missing := Check(ctx, prog, boolTy, []hir.MatchArm{{Pattern: truePat}, {Pattern: wildcard}})
	if len(missing) != 0 {
		t.Fatalf("expected wildcard arm to cover remaining bool, got %v", missing)
	}
}

func TestCheckBoolMissingFalse(t *testing.T) {
	symbols := interner.New()
	prog := hir.NewProgram(symbols)
	ctx := types.NewContext()
	boolTy := ctx.Alloc(types.Ty{Kind: types.KindBool})

	truePat := prog.Patterns.Alloc(hir.Pattern{Kind: hir.PatternLiteral, Data: hir.LiteralPattern{Value: hir.LiteralValue{Kind: hir.LitBool, Bool: true}}})

	missing := Check(ctx, prog, boolTy, []hir.MatchArm{{Pattern: truePat}})
	if len(missing) != 1 || missing[0].Ctor.BoolValue != false {
		t.Fatalf("expected missing witness false, got %v", missing)
	}
}

func TestCheckIntWithDefaultIsExhaustive(t *testing.T) {
	symbols := interner.New()
	prog := hir.NewProgram(symbols)
	ctx := types.NewContext()
	intTy := ctx.Alloc(types.Ty{Kind: types.KindInt})

	one := prog.Patterns.Alloc(hir.Pattern{Kind: hir.PatternLiteral, Data: hir.LiteralPattern{Value: hir.LiteralValue{Kind: hir.LitInt, Int: 1}}})
	two := prog.Patterns.Alloc(hir.Pattern{Kind: hir.PatternLiteral, Data: hir.LiteralPattern{Value: hir.LiteralValue{Kind: hir.LitInt, Int: 2}}})
	rng := prog.Patterns.Alloc(hir.Pattern{Kind: hir.PatternRange, Data: hir.RangePattern{
		Start:     hir.LiteralValue{Kind: hir.LitInt, Int: 3},
		End:       hir.LiteralValue{Kind: hir.LitInt, Int: 5},
		Inclusive: true,
	}})
	wildcard := prog.Patterns.Alloc(hir.Pattern{Kind: hir.PatternWildcard})

	missing := Check(ctx, prog, intTy, []hir.MatchArm{{Pattern: one}, {Pattern: two}, {Pattern: rng}, {Pattern: wildcard}})
	if len(missing) != 0 {
		t.Fatalf("expected the trailing wildcard to make this exhaustive, got %v", missing)
	}
}

func TestCheckIntWithoutDefaultReportsWildcard(t *testing.T) {
	symbols := interner.New()
	prog := hir.NewProgram(symbols)
	ctx := types.NewContext()
	intTy := ctx.Alloc(types.Ty{Kind: types.KindInt})

	one := prog.Patterns.Alloc(hir.Pattern{Kind: hir.PatternLiteral, Data: hir.LiteralPattern{Value: hir.LiteralValue{Kind: hir.LitInt, Int: 1}}})

	missing := Check(ctx, prog, intTy, []hir.MatchArm{{Pattern: one}})
	if len(missing) != 1 || missing[0].String() != "_" {
		t.Fatalf("expected a single wildcard witness, got %v", missing)
	}
}
