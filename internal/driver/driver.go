// Package driver orchestrates one crate's full compilation pipeline —
// CST -> HIR -> resolved HIR -> typed HIR -> MIR -> monomorphized MIR
// (spec.md §1) — behind a single CompilationContext, and fans out
// multiple independent crates across goroutines for the driver-level
// entry points cmd/orizonc calls. Grounded on the teacher's
// cmd/orizon-compiler Compiler struct: one long-lived object per
// compilation unit that threads a diagnostic sink through every phase
// and recovers panics at the top rather than letting one crate's bug
// take the whole run down.
package driver

import (
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/orizon-lang/orizon/internal/cstnode"
	"github.com/orizon-lang/orizon/internal/diagnostic"
	"github.com/orizon-lang/orizon/internal/hir"
	"github.com/orizon-lang/orizon/internal/interner"
	"github.com/orizon-lang/orizon/internal/lowering"
	"github.com/orizon-lang/orizon/internal/methodresolve"
	"github.com/orizon-lang/orizon/internal/mir"
	"github.com/orizon-lang/orizon/internal/mono"
	"github.com/orizon-lang/orizon/internal/resolver"
	"github.com/orizon-lang/orizon/internal/types"
)

// CompilationContext owns one crate's pipeline run: a fresh interner
// and lowering.Context, and the diagnostic engine every phase below
// reports into. SessionID is a fresh random id per context; it is not
// attached to diagnostics or to any other output.
type CompilationContext struct {
	SessionID uuid.UUID
	CrateName string

	Lowering    *lowering.Context
	Diagnostics *diagnostic.DiagnosticEngine

	TyCtx *types.TyContext
	Infer *types.Inference
	Mir   *mir.Program
}

// New creates a CompilationContext for one crate named name.
func New(name string) *CompilationContext {
	return &CompilationContext{
		SessionID: uuid.New(),
		CrateName: name,
		Lowering:  lowering.NewContext(interner.New()),
		Diagnostics: diagnostic.NewDiagnosticEngine(diagnostic.DiagnosticConfig{
			MaxErrors:       200,
			ShowSuggestions: true,
			ShowRelatedInfo: true,
		}),
	}
}

// Compile runs the full pipeline over root and returns the final,
// monomorphized MIR program. It never returns early on a recoverable
// error (spec §7 taxa 1-4: lowering, resolution, type, exhaustiveness
// are all "never fatal") — every phase's errors are recorded on
// c.Diagnostics and the pipeline keeps going so later phases still run
// over whatever partial result exists. A panic escaping any phase
// (spec §7 taxon 5, "internal invariant violation") is recovered here,
// reported as a fatal diagnostic, and returned as err instead of
// crashing the caller.
func (c *CompilationContext) Compile(root cstnode.Node) (prog *mir.Program, err error) {
	defer func() {
		if r := recover(); r != nil {
			c.reportInternal(fmt.Sprintf("panic: %v", r))
			err = fmt.Errorf("internal compiler error in crate %q: %v", c.CrateName, r)
		}
	}()

	c.Lowering.LowerModule(root)
	for _, e := range c.Lowering.Errors() {
		c.reportLowering(e)
	}

	hprog := c.Lowering.Program

	for _, e := range resolver.ResolveProgram(hprog) {
		c.reportResolution(e)
	}

	mirOut, tyCtx, inf := mir.LowerProgram(hprog)
	c.TyCtx = tyCtx
	c.Infer = inf
	for _, e := range inf.Errors() {
		c.reportType(e)
	}

	methodRes := methodresolve.New(hprog)
	monoOut := mono.New(hprog, methodRes).Run(mirOut)

	for _, fn := range monoOut.Functions {
		for _, w := range fn.Warnings {
			c.reportExhaustiveness(fn.Name, w)
		}
	}

	known := map[hir.FnId]bool{}
	hprog.Functions.All(func(id hir.FnId, _ hir.Function) bool {
		known[id] = true
		return true
	})
	for _, e := range mir.Verify(monoOut, known) {
		c.reportInternal(e.Error())
	}

	c.Mir = monoOut

	return monoOut, nil
}

func (c *CompilationContext) reportLowering(e error) {
	c.Diagnostics.AddDiagnostic(diagnostic.NewDiagnostic().
		Error().Syntax().Code("E0100").Title("lowering error").
		Message(e.Error()).Build())
}

func (c *CompilationContext) reportResolution(e error) {
	c.Diagnostics.AddDiagnostic(diagnostic.NewDiagnostic().
		Error().Semantic().Code("E0200").Title("resolution error").
		Message(e.Error()).Build())
}

func (c *CompilationContext) reportType(e error) {
	c.Diagnostics.AddDiagnostic(diagnostic.NewDiagnostic().
		Error().Type().Code("E0300").Title("type error").
		Message(e.Error()).Build())
}

func (c *CompilationContext) reportExhaustiveness(fnName string, w mir.MatchWarning) {
	missing := make([]string, len(w.Missing))
	for i, m := range w.Missing {
		missing[i] = m.String()
	}

	c.Diagnostics.AddDiagnostic(diagnostic.NewDiagnostic().
		Warning().Semantic().Code("W0400").Title("non-exhaustive match").
		Message(fmt.Sprintf("match in %q does not cover: %s", fnName, strings.Join(missing, ", "))).
		Tag("exhaustiveness").Build())
}

func (c *CompilationContext) reportInternal(msg string) {
	c.Diagnostics.AddDiagnostic(diagnostic.NewDiagnostic().
		Error().Semantic().Code("E0500").Title("internal compiler error").
		Message(msg).Tag("internal-invariant").Build())
}

// Result is one crate's outcome from CompileCrates: its context (and
// therefore its diagnostics and session id) plus whatever MIR it
// managed to produce before a fatal error, if any.
type Result struct {
	Context *CompilationContext
	Mir     *mir.Program
	Err     error
}

// CompileCrates compiles each named crate's root concurrently, one
// goroutine per CompilationContext (spec §5: "compilation of
// independent crates could run in parallel processes" — realized here
// as parallel goroutines, each owning its own interner and arenas with
// no cross-context sharing). Returns a Result per crate regardless of
// whether any individual crate failed; the returned error is the first
// fatal one encountered, if any.
func CompileCrates(roots map[string]cstnode.Node) (map[string]*Result, error) {
	results := make(map[string]*Result, len(roots))

	var mu sync.Mutex

	g := new(errgroup.Group)

	for name, root := range roots {
		name, root := name, root

		g.Go(func() error {
			ctx := New(name)
			mirOut, err := ctx.Compile(root)

			mu.Lock()
			results[name] = &Result{Context: ctx, Mir: mirOut, Err: err}
			mu.Unlock()

			return err
		})
	}

	err := g.Wait()

	return results, err
}
