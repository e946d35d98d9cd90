// Package search implements the k-mer indexed similarity search
// pipeline: mask, sample, collect candidates, prefilter, align each
// candidate, trim/score, accept/reject, merge strands.
package search

import "github.com/kshedden/vsearchgo/internal/align"

// Strand identifies which orientation of the query produced a hit.
type Strand int

const (
	Plus Strand = iota
	Minus
)

// Hit is one scored candidate match between a query and a target record.
type Hit struct {
	TargetIndex int
	Strand Strand

	Score int
	Cigar string

	Matches int
	Mismatches int
	Gaps int
	Indels int

	Trim align.Trimmed

	Shortest, Longest int

	ID float64 // primary identity, selected per IdDef

	Aligned bool
	Accepted bool
	Rejected bool
	Weak bool
}
