package prettyprint

import (
	"bytes"
	"strings"
	"testing"

	"github.com/orizon-lang/orizon/internal/demoprograms"
	"github.com/orizon-lang/orizon/internal/diagnostic"
	"github.com/orizon-lang/orizon/internal/driver"
)

func compile(t *testing.T, name string) *driver.CompilationContext {
	t.Helper()

	for _, sc := range demoprograms.All() {
		if sc.Name == name {
			ctx := driver.New(name)
			if _, err := ctx.Compile(sc.Root); err != nil {
				t.Fatalf("Compile: %v", err)
			}

			return ctx
		}
	}

	t.Fatalf("scenario %q not found", name)

	return nil
}

func TestHIRRendersMainFunction(t *testing.T) {
	ctx := compile(t, "arithmetic")

	prog := ctx.Lowering.Program

	mainSym := prog.Symbols.Intern("main")

	fnID, ok := prog.FnByName[mainSym]
	if !ok {
		t.Fatalf("main not found in FnByName")
	}

	out := HIR(prog, fnID)
	if !strings.Contains(out, "fn main()") {
		t.Errorf("HIR output missing main signature:\n%s", out)
	}

	if !strings.Contains(out, "2") || !strings.Contains(out, "3") || !strings.Contains(out, "4") {
		t.Errorf("HIR output missing the scenario's literals:\n%s", out)
	}
}

func TestMIRRendersEveryFunction(t *testing.T) {
	ctx := compile(t, "call")

	out := MIR(ctx.Mir)
	if strings.Count(out, "fn ") != len(ctx.Mir.Functions) {
		t.Errorf("MIR output has %d fn blocks, want %d", strings.Count(out, "fn "), len(ctx.Mir.Functions))
	}
}

func TestDiagnosticsRendersNonExhaustiveWarningPlain(t *testing.T) {
	ctx := compile(t, "non-exhaustive-match")

	if !ctx.Diagnostics.HasErrors() {
		// non-exhaustive match is a warning, not an error; that's expected.
	}

	var buf bytes.Buffer

	out := Diagnostics(&buf, ctx.Diagnostics)
	if !strings.Contains(out, "non-exhaustive match") {
		t.Errorf("Diagnostics output missing the exhaustiveness warning:\n%s", out)
	}

	if strings.Contains(out, "\x1b[") {
		t.Errorf("Diagnostics output should be plain (non-terminal writer), got escape codes:\n%q", out)
	}
}

func TestDiagnosticsHandlesEmptyEngine(t *testing.T) {
	engine := diagnostic.NewDiagnosticEngine(diagnostic.DiagnosticConfig{MaxErrors: 10})

	var buf bytes.Buffer

	out := Diagnostics(&buf, engine)
	if out == "" {
		t.Error("expected at least a summary line for an empty engine")
	}
}
