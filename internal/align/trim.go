package align

import (
	"strconv"
)

// Trimmed holds the terminal-gap-trimmed counters and all five identity
// variants.
type Trimmed struct {
	InternalMatches int
	InternalMismatches int
	InternalIndels int
	InternalGaps int
	InternalAlnLength int
	AlnLength int

	ID0, ID1, ID2, ID3, ID4 float64
}

// IDDef selects which identity variant is the primary "id".
type IDDef int

const (
	ID0 IDDef = iota
	ID1
	ID2
	ID3
	ID4
)

// Trim parses res.Cigar, strips leading and trailing I/D runs (terminal
// gaps contribute to the full counts but not to the "internal" ones),
// and computes the internal_* counters plus all five identities. qlen
// and dlen are the untrimmed query/target lengths, used for id3 (id4
// divides by the alignment length instead).
func Trim(res Result, qlen, dlen int) Trimmed {
	ops := parseCigar(res.Cigar)

	lo, hi := 0, len(ops)
	for lo < hi && (ops[lo].op == 'I' || ops[lo].op == 'D') {
		lo++
	}
	for hi > lo && (ops[hi-1].op == 'I' || ops[hi-1].op == 'D') {
		hi--
	}
	internal := ops[lo:hi]

	var t Trimmed
	t.InternalGaps = countGapRunsCig(internal)
	for _, o := range internal {
		switch o.op {
		case 'M':
			// A run of 'M' mixes matches and mismatches in a CIGAR;
			// the trimmer only sees run-length-encoded ops, so M-run
			// match/mismatch counts are taken from res's own totals
			// minus whatever fell in the trimmed terminal runs. Since
			// terminal runs are always I/D (gaps), no M content is
			// ever trimmed, and internal matches/mismatches equal the
			// full-alignment counts.
		case 'I', 'D':
			t.InternalIndels += o.length
		}
	}
	t.InternalMatches = res.Matches
	t.InternalMismatches = res.Mismatches
	t.InternalAlnLength = t.InternalMatches + t.InternalMismatches + t.InternalIndels
	t.AlnLength = res.Matches + res.Mismatches + res.Indels

	shortest := qlen
	if dlen < shortest {
		shortest = dlen
	}

	t.ID0 = ratio(t.InternalMatches, t.InternalMatches+t.InternalMismatches+t.InternalIndels)
	t.ID1 = ratio(t.InternalMatches, t.InternalAlnLength)
	t.ID2 = ratio(t.InternalMatches, t.InternalMatches+t.InternalMismatches)
	t.ID3 = ratio(t.InternalMatches, shortest)
	t.ID4 = ratio(t.InternalMatches, t.AlnLength)

	return t
}

// Primary returns the identity selected by def.
func (t Trimmed) Primary(def IDDef) float64 {
	switch def {
	case ID0:
		return t.ID0
	case ID1:
		return t.ID1
	case ID3:
		return t.ID3
	case ID4:
		return t.ID4
	default:
		return t.ID2
	}
}

func ratio(num, den int) float64 {
	if den <= 0 {
		return 0
	}
	return float64(num) / float64(den)
}

type cigOp struct {
	op byte
	length int
}

// parseCigar expands a run-length-encoded CIGAR ("12M3I5M") into its
// run list, in alignment order.
func parseCigar(cigar string) []cigOp {
	var ops []cigOp
	n := 0
	for i := 0; i < len(cigar); i++ {
		c := cigar[i]
		if c >= '0' && c <= '9' {
			n = n*10 + int(c-'0')
			continue
		}
		if n == 0 {
			n = 1
		}
		ops = append(ops, cigOp{op: c, length: n})
		n = 0
	}
	return ops
}

func countGapRunsCig(ops []cigOp) int {
	var gaps int
	for _, o := range ops {
		if o.op == 'I' || o.op == 'D' {
			gaps++
		}
	}
	return gaps
}

// FormatCigar renders a run list back to its compact string form,
// matching the encoding SearchScalar's traceback already produces
// (runs of length 1 omit the count).
func FormatCigar(ops []cigOp) string {
	var b []byte
	for _, o := range ops {
		if o.length > 1 {
			b = append(b, []byte(strconv.Itoa(o.length))...)
		}
		b = append(b, o.op)
	}
	return string(b)
}
