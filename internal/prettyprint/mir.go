package prettyprint

import (
	"strings"

	"github.com/orizon-lang/orizon/internal/mir"
)

// MIR renders every function of prog in declaration order, one
// `fn ... { ... }` block per function, reusing MirFunction's own
// String() (grounded on rv-mir's pretty-printer, SPEC_FULL.md §12).
// This is the form cmd/orizonc's --emit-mir flag and cmd/orizon-repl's
// stepper both print.
func MIR(prog *mir.Program) string {
	var b strings.Builder

	for i, fn := range prog.Functions {
		if i > 0 {
			b.WriteByte('\n')
		}

		b.WriteString(fn.String())
	}

	return b.String()
}
