package align

import (
	"testing"

	"github.com/BurntSushi/toml"
)

// alignmentCase is one fixture row: a query/target pair and the CIGAR
// and identity SearchScalar + Trim must reproduce, the same
// table-of-expectations shape as the toml-driven test runner in the
// muscato lineage this package is descended from.
type alignmentCase struct {
	Name string
	Query string
	Target string
	Cigar string
	MinID float64
}

type alignmentFixtures struct {
	Case []alignmentCase
}

const alignmentFixturesTOML = `
[[case]]
name = "exact_match"
query = "ACGTACGTACGT"
target = "ACGTACGTACGT"
cigar = "12M"
minid = 1.0

[[case]]
name = "single_mismatch"
query = "ACGTACGTACGT"
target = "ACGAACGTACGT"
cigar = "12M"
minid = 0.9

[[case]]
name = "single_insertion"
query = "ACGTTACGTACGT"
target = "ACGTACGTACGT"
cigar = "4M1I8M"
minid = 0.9
`

func TestSearchScalarAgainstTOMLFixtures(t *testing.T) {
	var fixtures alignmentFixtures
	if _, err := toml.Decode(alignmentFixturesTOML, &fixtures); err != nil {
		t.Fatalf("decoding fixtures: %v", err)
	}
	if len(fixtures.Case) == 0 {
		t.Fatal("no fixture cases decoded")
	}

	for _, c := range fixtures.Case {
		t.Run(c.Name, func(t *testing.T) {
			res := SearchScalar([]byte(c.Query), []byte(c.Target), DefaultScores(), DefaultGapPenalties())
			if !res.Aligned {
				t.Fatalf("%s: expected an alignment", c.Name)
			}
			if res.Cigar != c.Cigar {
				t.Fatalf("%s: Cigar = %q, want %q", c.Name, res.Cigar, c.Cigar)
			}
			trimmed := Trim(res, len(c.Query), len(c.Target))
			if trimmed.ID2 < c.MinID {
				t.Fatalf("%s: ID2 = %v, want >= %v", c.Name, trimmed.ID2, c.MinID)
			}
		})
	}
}
