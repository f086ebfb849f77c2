package prettyprint

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"

	"github.com/orizon-lang/orizon/internal/diagnostic"
)

// Diagnostics renders engine's accumulated diagnostics in a rustc-style
// labeled-span form (spec §4.10), one block per diagnostic: a severity-
// colored header line, the offending span, and any related info or
// suggestions. Color is applied with fatih/color (from the
// vovakirdan-surge example repo, already idiomatic for a compiler CLI's
// build output) and is skipped in favor of plain text when w is not a
// terminal, checked with mattn/go-isatty the same way the teacher's own
// CLI commands guard color.New before using it (SPEC_FULL.md §10).
func Diagnostics(w io.Writer, engine *diagnostic.DiagnosticEngine) string {
	plain := true
	if f, ok := w.(interface{ Fd() uintptr }); ok {
		plain = !isatty.IsTerminal(f.Fd()) && !isatty.IsCygwinTerminal(f.Fd())
	}

	var b strings.Builder

	for _, d := range engine.GetDiagnostics() {
		writeDiagnostic(&b, d, plain)
	}

	errs, warns := len(engine.GetErrors()), len(engine.GetWarnings())
	if errs == 0 && warns == 0 {
		b.WriteString("no diagnostics\n")
	} else {
		fmt.Fprintf(&b, "%d error(s), %d warning(s)\n", errs, warns)
	}

	return b.String()
}

func writeDiagnostic(b *strings.Builder, d diagnostic.Diagnostic, plain bool) {
	header := fmt.Sprintf("%s[%s]: %s", d.Level, d.Code, d.Title)
	b.WriteString(colorizeLevel(d.Level, header, plain))
	b.WriteByte('\n')

	if d.Span.IsValid() {
		fmt.Fprintf(b, "  --> %s\n", d.Span.Start.String())
	}

	if d.Message != "" {
		fmt.Fprintf(b, "  %s\n", d.Message)
	}

	for _, r := range d.RelatedInfo {
		fmt.Fprintf(b, "  note: %s (%s)\n", r.Message, r.Span.Start.String())
	}

	for _, s := range d.Suggestions {
		fmt.Fprintf(b, "  help: %s — %s\n", s.Title, s.Description)
	}
}

func colorizeLevel(level diagnostic.DiagnosticLevel, text string, plain bool) string {
	if plain {
		return text
	}

	switch level {
	case diagnostic.DiagnosticError:
		return color.New(color.FgRed, color.Bold).Sprint(text)
	case diagnostic.DiagnosticWarning:
		return color.New(color.FgYellow, color.Bold).Sprint(text)
	case diagnostic.DiagnosticInfo:
		return color.New(color.FgCyan).Sprint(text)
	case diagnostic.DiagnosticHint:
		return color.New(color.FgGreen).Sprint(text)
	default:
		return text
	}
}
