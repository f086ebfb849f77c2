package driver

import (
	"bytes"
	"testing"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/orizon-lang/orizon/internal/demoprograms"
	"github.com/orizon-lang/orizon/internal/interner"
)

// snapshot is the msgpack-encoded shape the determinism test round-trips:
// the crate's symbol table plus a textual dump of its final, monomorphized
// MIR (SPEC_FULL.md §10, "determinism snapshot testing" — a stronger
// check than struct equality since it exercises an actual encode/decode
// round trip through github.com/vmihailenco/msgpack/v5, grounded on the
// teacher's internal/driver.DiskCache use of the same library for its own
// on-disk compilation cache).
type snapshot struct {
	Symbols   []string
	Functions map[string]string
}

func symbolOf(i int) interner.Symbol { return interner.Symbol(i) }

func TestSnapshotRoundTripsThroughMsgpack(t *testing.T) {
	for _, sc := range demoprograms.All() {
		sc := sc

		t.Run(sc.Name, func(t *testing.T) {
			ctx := New(sc.Name)

			mirProg, err := ctx.Compile(sc.Root)
			if err != nil {
				t.Fatalf("Compile: %v", err)
			}

			symbols := make([]string, 0, ctx.Lowering.Program.Symbols.Len())
			for i := 1; i <= ctx.Lowering.Program.Symbols.Len(); i++ {
				symbols = append(symbols, ctx.Lowering.Program.Symbols.Lookup(symbolOf(i)))
			}

			fns := make(map[string]string, len(mirProg.Functions))
			for _, fn := range mirProg.Functions {
				fns[fn.Name] = fn.String()
			}

			snap := snapshot{Symbols: symbols, Functions: fns}

			encoded, err := msgpack.Marshal(snap)
			if err != nil {
				t.Fatalf("Marshal: %v", err)
			}

			var decoded snapshot
			if err := msgpack.Unmarshal(encoded, &decoded); err != nil {
				t.Fatalf("Unmarshal: %v", err)
			}

			reEncoded, err := msgpack.Marshal(decoded)
			if err != nil {
				t.Fatalf("re-Marshal: %v", err)
			}

			if !bytes.Equal(encoded, reEncoded) {
				t.Errorf("snapshot bytes differ after a decode/encode round trip for %q", sc.Name)
			}
		})
	}
}

func TestCompilationIsDeterministicAcrossRuns(t *testing.T) {
	for _, sc := range demoprograms.All() {
		sc := sc

		t.Run(sc.Name, func(t *testing.T) {
			ctx1 := New(sc.Name)
			if _, err := ctx1.Compile(sc.Root); err != nil {
				t.Fatalf("first Compile: %v", err)
			}

			ctx2 := New(sc.Name)
			if _, err := ctx2.Compile(sc.Root); err != nil {
				t.Fatalf("second Compile: %v", err)
			}

			fns1, fns2 := ctx1.Mir.Functions, ctx2.Mir.Functions
			if len(fns1) != len(fns2) {
				t.Fatalf("function count differs across runs: %d vs %d", len(fns1), len(fns2))
			}

			for i := range fns1 {
				if fns1[i].String() != fns2[i].String() {
					t.Errorf("function %d MIR text differs across runs:\n--- run1 ---\n%s\n--- run2 ---\n%s",
						i, fns1[i].String(), fns2[i].String())
				}
			}
		})
	}
}
