package cli

import (
	"math"
	"strconv"
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// FormatUSD should always carry a "$" marker and round-trip back to the
// original value once commas and the sign are stripped.
func TestProperty_FormatUSDRoundTrips(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("FormatUSD preserves the numeric value", prop.ForAll(
		func(amount float64) bool {
			if math.IsNaN(amount) || math.IsInf(amount, 0) || math.Abs(amount) > 1e12 {
				return true
			}

			formatted := FormatUSD(amount)
			negative := strings.HasPrefix(formatted, "-")
			stripped := strings.TrimPrefix(formatted, "-")
			stripped = strings.TrimPrefix(stripped, "+")
			stripped = strings.TrimPrefix(stripped, "$")
			stripped = strings.ReplaceAll(stripped, ",", "")

			got, err := strconv.ParseFloat(stripped, 64)
			if err != nil {
				t.Logf("could not parse %q back from %f", formatted, amount)
				return false
			}
			if negative {
				got = -got
			}
			return math.Abs(got-amount) < 0.01
		},
		gen.Float64Range(-1e9, 1e9),
	))

	properties.TestingRun(t)
}

func TestFormatUSDSign(t *testing.T) {
	if !strings.HasPrefix(FormatUSD(100), "+") {
		t.Fatalf("expected + prefix for positive amount, got %q", FormatUSD(100))
	}
	if strings.HasPrefix(FormatUSD(-100), "+") {
		t.Fatalf("did not expect + prefix for negative amount, got %q", FormatUSD(-100))
	}
	if strings.HasPrefix(FormatUSD(0), "+") {
		t.Fatalf("did not expect + prefix for zero, got %q", FormatUSD(0))
	}
}

func TestTableRenderDoesNotPanicOnRaggedRows(t *testing.T) {
	out := &Output{writer: new(strings.Builder), jsonMode: false, colorEnabled: false}
	table := NewTable(out, "A", "B", "C")
	table.AddRow("1", "2")
	table.AddRow("1", "2", "3")
	table.Render()
}
