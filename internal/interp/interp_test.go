package interp_test

import (
	"testing"

	"github.com/orizon-lang/orizon/internal/demoprograms"
	"github.com/orizon-lang/orizon/internal/driver"
	"github.com/orizon-lang/orizon/internal/interp"
)

func TestScenarioTable(t *testing.T) {
	for _, sc := range demoprograms.All() {
		sc := sc
		t.Run(sc.Name, func(t *testing.T) {
			ctx := driver.New(sc.Name)

			mirProg, err := ctx.Compile(sc.Root)
			if err != nil {
				t.Fatalf("Compile returned a fatal error: %v", err)
			}

			got, err := interp.New(mirProg).RunMain()
			if err != nil {
				t.Fatalf("interpreter error: %v", err)
			}
			if got != sc.Expect {
				t.Fatalf("%s: expected %d, got %d", sc.Description, sc.Expect, got)
			}
		})
	}
}
