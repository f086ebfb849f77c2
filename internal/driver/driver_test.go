package driver

import (
	"testing"

	"github.com/orizon-lang/orizon/internal/cstnode"
	"github.com/orizon-lang/orizon/internal/demoprograms"
)

func TestCompileAllScenarios(t *testing.T) {
	for _, sc := range demoprograms.All() {
		sc := sc
		t.Run(sc.Name, func(t *testing.T) {
			ctx := New(sc.Name)

			mirProg, err := ctx.Compile(sc.Root)
			if err != nil {
				t.Fatalf("Compile returned a fatal error: %v", err)
			}
			if mirProg == nil || len(mirProg.Functions) == 0 {
				t.Fatalf("expected at least one lowered function")
			}

			for _, d := range ctx.Diagnostics.GetErrors() {
				t.Errorf("unexpected error diagnostic: %s", d.Message)
			}
		})
	}
}

func TestCompileReportsNonExhaustiveMatch(t *testing.T) {
	var scenario demoprograms.Scenario
	for _, sc := range demoprograms.All() {
		if sc.Name == "non-exhaustive-match" {
			scenario = sc
		}
	}
	if scenario.Root == nil {
		t.Fatalf("non-exhaustive-match scenario not found")
	}

	ctx := New(scenario.Name)
	if _, err := ctx.Compile(scenario.Root); err != nil {
		t.Fatalf("Compile returned a fatal error: %v", err)
	}

	warnings := ctx.Diagnostics.GetWarnings()
	if len(warnings) == 0 {
		t.Fatalf("expected a non-exhaustive match warning, got none")
	}
	found := false
	for _, w := range warnings {
		if w.Tags != nil {
			for _, tag := range w.Tags {
				if tag == "exhaustiveness" {
					found = true
				}
			}
		}
	}
	if !found {
		t.Fatalf("expected an exhaustiveness-tagged warning, got %+v", warnings)
	}
}

func TestCompileExhaustiveMatchHasNoWarning(t *testing.T) {
	var scenario demoprograms.Scenario
	for _, sc := range demoprograms.All() {
		if sc.Name == "exhaustive-match" {
			scenario = sc
		}
	}
	if scenario.Root == nil {
		t.Fatalf("exhaustive-match scenario not found")
	}

	ctx := New(scenario.Name)
	if _, err := ctx.Compile(scenario.Root); err != nil {
		t.Fatalf("Compile returned a fatal error: %v", err)
	}

	for _, w := range ctx.Diagnostics.GetWarnings() {
		for _, tag := range w.Tags {
			if tag == "exhaustiveness" {
				t.Fatalf("did not expect an exhaustiveness warning for a fully-covered match")
			}
		}
	}
}

func TestCompileCratesFansOutByName(t *testing.T) {
	scenarios := demoprograms.All()
	roots := make(map[string]cstnode.Node, len(scenarios))
	for _, sc := range scenarios {
		roots[sc.Name] = sc.Root
	}

	results, err := CompileCrates(roots)
	if err != nil {
		t.Fatalf("CompileCrates returned a fatal error: %v", err)
	}
	if len(results) != len(scenarios) {
		t.Fatalf("expected %d results, got %d", len(scenarios), len(results))
	}
	for name, res := range results {
		if res.Mir == nil {
			t.Errorf("crate %q produced no MIR", name)
		}
	}
}
