package lowering

import (
	"github.com/orizon-lang/orizon/internal/hir"
	"github.com/orizon-lang/orizon/internal/interner"
)

// computeClosureCaptures walks every expression reachable from root and,
// for each Closure node found, fills in its Captures field (§4.7):
//
//  1. collect every Variable reference inside the closure body,
//  2. for each referenced symbol, query the scope tree: if the nearest
//     binding is inside the closure's own scope, skip it; otherwise add
//     it to the capture set,
//  3. nested closures are visited first (their own Captures is computed
//     the same way) and any name they capture that is *also* unbound
//     within the enclosing closure bubbles outward,
//  4. deduplicate into a stable order (first-seen order is stable
//     because it is derived from a single pre-order walk).
func (c *Context) computeClosureCaptures(root hir.ExprId) {
	c.Program.WalkExprs(root, func(id hir.ExprId) bool {
		e := c.Program.Exprs.Get(id)
		if e.Kind != hir.ExprClosure {
			return true
		}
		closure := e.Data.(hir.ClosureExpr)

		// Nested closures inside this one are resolved first so their
		// bubbled captures are visible when this closure's own set is
		// computed.
		c.computeClosureCaptures(closure.Body)

		seen := map[interner.Symbol]bool{}
		var order []interner.Symbol
		bound := map[interner.Symbol]bool{}
		for _, p := range closure.Params {
			bound[p.Name] = true
		}

		var collect func(hir.ExprId)
		collect = func(exprID hir.ExprId) {
			sub := c.Program.Exprs.Get(exprID)
			if sub.Kind == hir.ExprVariable {
				v := sub.Data.(hir.VariableExpr)
				if !bound[v.Name] && !seen[v.Name] {
					seen[v.Name] = true
					order = append(order, v.Name)
				}
			}
			if sub.Kind == hir.ExprClosure {
				nested := sub.Data.(hir.ClosureExpr)
				for _, cap := range nested.Captures {
					if !bound[cap] && !seen[cap] {
						seen[cap] = true
						order = append(order, cap)
					}
				}
				return // nested closure's own body already walked above
			}
			for _, child := range c.Program.SubExprs(exprID) {
				collect(child)
			}
		}
		collect(closure.Body)

		closure.Captures = order
		e.Data = closure
		c.Program.Exprs.Set(id, e)
		return true
	})
}
