// Package resolver implements the second pass over lowered HIR bodies
// (spec §4.2): walking each function's already-lowered expression tree
// and filling in every Variable.Def slot from the scope tree lowering
// built. Pattern bindings themselves are assigned a LocalId and
// registered into their owning scope directly during lowering (see
// internal/lowering's currentFn/nextLocal bookkeeping); this package
// only resolves the remaining unresolved slot, Variable references, and
// enforces the one cross-cutting rule lowering cannot check locally:
// that every alternative of an Or-pattern binds an identical name set
// (Open Question 2).
package resolver

import (
	"fmt"
	"sort"

	"github.com/orizon-lang/orizon/internal/hir"
	"github.com/orizon-lang/orizon/internal/interner"
)

// UndefinedVariable reports a Variable expression whose name was never
// found walking the scope chain outward from where it appears. This is
// a resolution error, not fatal (spec §7 taxon 2): the expression's
// Def stays nil and inference later reports its own UndefinedVariable
// when it encounters the same expression.
type UndefinedVariable struct {
	Expr hir.ExprId
	Name string
}

func (e *UndefinedVariable) Error() string {
	return fmt.Sprintf("expr %d: cannot find value %q in this scope", e.Expr, e.Name)
}

// OrPatternMismatch reports an Or-pattern whose alternatives do not all
// bind the same set of names.
type OrPatternMismatch struct {
	Pattern hir.PatternId
	Missing []string
}

func (e *OrPatternMismatch) Error() string {
	return fmt.Sprintf("pattern %d: or-pattern alternatives must bind the same names, missing %v in one alternative", e.Pattern, e.Missing)
}

// Resolver accumulates resolution errors while walking a Program's
// functions.
type Resolver struct {
	Prog   *hir.Program
	errors []error
}

// New creates a Resolver over prog.
func New(prog *hir.Program) *Resolver {
	return &Resolver{Prog: prog}
}

// Errors returns every resolution error accumulated so far.
func (r *Resolver) Errors() []error { return r.errors }

func (r *Resolver) errorf(e error) { r.errors = append(r.errors, e) }

// ResolveProgram walks every function body registered in prog (free
// functions and impl methods alike share the same Functions arena) and
// returns the accumulated errors. Safe to call more than once; already
// resolved Variable.Def slots are left untouched.
func ResolveProgram(prog *hir.Program) []error {
	r := New(prog)
	prog.Functions.All(func(id hir.FnId, fn hir.Function) bool {
		r.ResolveFunction(id)
		return true
	})
	return r.errors
}

// ResolveFunction resolves one function's body in place.
func (r *Resolver) ResolveFunction(fnID hir.FnId) {
	fn := r.Prog.Functions.Get(fnID)
	if !fn.Body.Valid() {
		return
	}
	r.resolveExpr(fn.Body, r.Prog.RootScope)
}

func (r *Resolver) resolveExpr(id hir.ExprId, scope hir.ScopeId) {
	e := r.Prog.Exprs.Get(id)

	switch e.Kind {
	case hir.ExprVariable:
		d := e.Data.(hir.VariableExpr)
		if d.Def != nil {
			return
		}
		entry, ok := r.Prog.Scopes.Lookup(scope, d.Name)
		if !ok {
			r.errorf(&UndefinedVariable{Expr: id, Name: r.Prog.Symbols.Lookup(d.Name)})
			return
		}
		def := entry.Def
		d.Def = &def
		e.Data = d
		r.Prog.Exprs.Set(id, e)

	case hir.ExprBlock:
		d := e.Data.(hir.BlockExpr)
		for _, sid := range d.Stmts {
			r.resolveStmt(sid, d.Scope)
		}
		if d.Trailing != nil {
			r.resolveExpr(*d.Trailing, d.Scope)
		}

	case hir.ExprMatch:
		d := e.Data.(hir.MatchExpr)
		r.resolveExpr(d.Scrutinee, scope)
		for _, arm := range d.Arms {
			r.checkOrPatternBindings(arm.Pattern)
			if arm.Guard != nil {
				r.resolveExpr(*arm.Guard, arm.Scope)
			}
			r.resolveExpr(arm.Body, arm.Scope)
		}

	case hir.ExprClosure:
		d := e.Data.(hir.ClosureExpr)
		r.resolveExpr(d.Body, d.Scope)

	default:
		for _, child := range r.Prog.SubExprs(id) {
			r.resolveExpr(child, scope)
		}
	}
}

func (r *Resolver) resolveStmt(id hir.StmtId, scope hir.ScopeId) {
	s := r.Prog.Stmts.Get(id)
	switch s.Kind {
	case hir.StmtLet:
		r.resolveExpr(s.Data.(hir.LetStmt).Init, scope)
	case hir.StmtExpr:
		r.resolveExpr(s.Data.(hir.ExprStmt).Expr, scope)
	case hir.StmtReturn:
		if v := s.Data.(hir.ReturnStmt).Value; v != nil {
			r.resolveExpr(*v, scope)
		}
	}
}

// checkOrPatternBindings recurses through pat looking for Or-patterns and
// verifies every alternative binds an identical name set (Open Question
// 2), reporting a mismatch as a resolution error. Nested patterns of any
// shape are visited uniformly so an Or-pattern buried inside a Tuple or
// Struct pattern is still checked.
func (r *Resolver) checkOrPatternBindings(patID hir.PatternId) {
	p := r.Prog.Patterns.Get(patID)
	switch p.Kind {
	case hir.PatternOr:
		d := p.Data.(hir.OrPattern)
		var reference map[interner.Symbol]bool
		for i, alt := range d.Patterns {
			r.checkOrPatternBindings(alt)
			names := map[interner.Symbol]bool{}
			for _, n := range bindingNames(r.Prog, alt) {
				names[n] = true
			}
			if i == 0 {
				reference = names
				continue
			}
			var missing []string
			for n := range reference {
				if !names[n] {
					missing = append(missing, r.Prog.Symbols.Lookup(n))
				}
			}
			for n := range names {
				if !reference[n] {
					missing = append(missing, r.Prog.Symbols.Lookup(n))
				}
			}
			if len(missing) > 0 {
				sort.Strings(missing)
				r.errorf(&OrPatternMismatch{Pattern: patID, Missing: missing})
			}
		}

	case hir.PatternBinding:
		d := p.Data.(hir.BindingPattern)
		if d.SubPattern != nil {
			r.checkOrPatternBindings(*d.SubPattern)
		}

	case hir.PatternTuple:
		for _, sub := range p.Data.(hir.TuplePattern).Patterns {
			r.checkOrPatternBindings(sub)
		}

	case hir.PatternStruct:
		for _, f := range p.Data.(hir.StructPattern).Fields {
			r.checkOrPatternBindings(f.Pattern)
		}

	case hir.PatternEnum:
		for _, sub := range p.Data.(hir.EnumPattern).SubPatterns {
			r.checkOrPatternBindings(sub)
		}
	}
}

// bindingNames collects every name bound transitively by pat, used to
// compare Or-pattern alternatives against each other.
func bindingNames(prog *hir.Program, patID hir.PatternId) []interner.Symbol {
	var out []interner.Symbol
	var walk func(hir.PatternId)
	walk = func(id hir.PatternId) {
		p := prog.Patterns.Get(id)
		switch p.Kind {
		case hir.PatternBinding:
			d := p.Data.(hir.BindingPattern)
			out = append(out, d.Name)
			if d.SubPattern != nil {
				walk(*d.SubPattern)
			}
		case hir.PatternTuple:
			for _, sub := range p.Data.(hir.TuplePattern).Patterns {
				walk(sub)
			}
		case hir.PatternStruct:
			for _, f := range p.Data.(hir.StructPattern).Fields {
				walk(f.Pattern)
			}
		case hir.PatternEnum:
			for _, sub := range p.Data.(hir.EnumPattern).SubPatterns {
				walk(sub)
			}
		case hir.PatternOr:
			// Each alternative is checked against the others
			// elsewhere; for the purposes of a name set comparison
			// one level up, all alternatives bind the same names by
			// construction once they've passed their own check, so
			// the first alternative stands in for the whole.
			if alts := p.Data.(hir.OrPattern).Patterns; len(alts) > 0 {
				walk(alts[0])
			}
		}
	}
	walk(patID)
	return out
}
