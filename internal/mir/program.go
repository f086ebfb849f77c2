package mir

import (
	"github.com/orizon-lang/orizon/internal/hir"
	"github.com/orizon-lang/orizon/internal/methodresolve"
	"github.com/orizon-lang/orizon/internal/types"
)

// LowerProgram runs type inference and MIR lowering over every
// non-generic function in prog, in FnId order (spec §4.8, "Determinism:
// instance ordering follows insertion order" — this ordering is the
// deterministic basis monomorphization's own collection pass builds on
// for generic functions, lowered separately once their instantiations
// are known).
func LowerProgram(prog *hir.Program) (*Program, *types.TyContext, *types.Inference) {
	ctx := types.NewContext()
	methodRes := methodresolve.New(prog)
	inf := types.NewInference(ctx, prog, methodRes)
	tl := NewTypeLowerer(ctx, prog)

	out := &Program{}
	prog.Functions.All(func(fnID hir.FnId, fn hir.Function) bool {
		if fn.IsGeneric || !fn.Body.Valid() {
			return true
		}
		inf.InferFunction(fnID)
		mf := LowerFunction(prog, ctx, inf, tl, methodRes, fnID)
		out.Functions = append(out.Functions, mf)
		return true
	})
	return out, ctx, inf
}
