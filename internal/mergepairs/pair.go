package mergepairs

import (
	"github.com/kshedden/vsearchgo/internal/search"
	"github.com/kshedden/vsearchgo/internal/seqstore"
)

// Options controls one merge run.
type Options struct {
	MinLen, MaxLen int
	TruncQual byte
	MaxNs int
	KmerLen int
	MinOvlen int
	MinMergeLen, MaxMergeLen int
	MaxDiffs int
	MaxDiffPct float64
	AllowMergeStagger bool
	MaxEE float64
	QminOut, QmaxOut int
	DropMax float64
	MinScore float64

	AsciiBase int
}

// DefaultOptions mirrors vsearch's own fastq_mergepairs defaults.
func DefaultOptions() Options {
	return Options{
		MinLen: 1,
		MaxLen: 1 << 20,
		TruncQual: 0,
		MaxNs: 0,
		KmerLen: DefaultKmerLen,
		MinOvlen: 10,
		MinMergeLen: 1,
		MaxMergeLen: 1 << 20,
		MaxDiffs: 10,
		MaxDiffPct: 100,
		MaxEE: 1e6,
		QminOut: 0,
		QmaxOut: 41,
		DropMax: 16,
		MinScore: 16,
		AsciiBase: 33,
	}
}

// Merged is the outcome of merging one pair. Fwd and Rev are the
// original input records, carried through so a caller can write them to
// a notmerged-fwd/notmerged-rev sink when Reason != Ok.
type Merged struct {
	Fwd, Rev *seqstore.Record

	Header string
	Seq []byte
	Quality []byte
	Offset int
	Diffs int
	EEFwd, EERev, EEMerged float64
	Reason Reason
}

// MergePair runs the full per-pair merge pipeline on one forward/reverse
// read.
func MergePair(fwd, rev *seqstore.Record, opt Options, table [256]uint32) Merged {
	m := mergePair(fwd, rev, opt, table)
	m.Fwd, m.Rev = fwd, rev
	return m
}

func mergePair(fwd, rev *seqstore.Record, opt Options, table [256]uint32) Merged {
	if len(fwd.Seq) < opt.MinLen || len(rev.Seq) < opt.MinLen {
		return Merged{Reason: MinLen}
	}
	if len(fwd.Seq) > opt.MaxLen || len(rev.Seq) > opt.MaxLen {
		return Merged{Reason: MaxLen}
	}

	fTrunc := truncateQual(fwd.Seq, fwd.Quality, opt.TruncQual, opt.AsciiBase)
	rTrunc := truncateQual(rev.Seq, rev.Quality, opt.TruncQual, opt.AsciiBase)

	fPhred := decodeQual(fwd.Quality[:fTrunc], opt.AsciiBase)
	rPhred := decodeQual(rev.Quality[:rTrunc], opt.AsciiBase)

	fSeq, fQ := maskNs(fwd.Seq[:fTrunc], fPhred)
	rSeq, rQ := maskNs(rev.Seq[:rTrunc], rPhred)

	if countNs(fSeq) > opt.MaxNs || countNs(rSeq) > opt.MaxNs {
		return Merged{Reason: MaxNs}
	}

	revRC := search.ReverseComplement(rSeq)
	revRCQ := reverseBytes(rQ)

	diagCounts := diagonalCounts(fSeq, revRC, opt.KmerLen, table)
	if len(diagCounts) == 0 {
		return Merged{Reason: NoKmers}
	}

	minCount := 4
	if opt.MinOvlen < 9 {
		minCount = 1
	}

	type candidate struct {
		offset, overlap int
		score float64
		diffs int
	}
	var best *candidate
	var tiedAtBest int

	for d, count := range diagCounts {
		if count < minCount {
			continue
		}
		overlap, fwdStart, revStart, ok := overlapGeometry(len(fSeq), len(revRC), d)
		if !ok || overlap < opt.MinOvlen {
			continue
		}
		if overlap > len(fSeq)+len(revRC)-opt.MinMergeLen {
			continue
		}
		if !opt.AllowMergeStagger && fwdStart+overlap < len(fSeq) {
			// A 3' overhang on the forward read means the reverse
			// read's 5' end has not been reached yet — a staggered
			// placement we reject unless explicitly allowed.
			continue
		}

		score, diffs, ok := overlapScore(fSeq, fQ, revRC, revRCQ, fwdStart, revStart, overlap, opt.DropMax)
		if !ok || score < opt.MinScore {
			continue
		}

		c := candidate{offset: d, overlap: overlap, score: score, diffs: diffs}
		if best == nil || score > best.score {
			best = &c
			tiedAtBest = 1
		} else if score == best.score {
			tiedAtBest++
		}
	}

	if best == nil {
		return Merged{Reason: Undefined}
	}
	if tiedAtBest > 1 {
		return Merged{Reason: Repeat}
	}
	if best.diffs > opt.MaxDiffs {
		return Merged{Reason: MaxDiffs}
	}
	if float64(best.diffs)/float64(best.overlap)*100 > opt.MaxDiffPct {
		return Merged{Reason: MaxDiffPct}
	}

	overlap, fwdStart, revStart, _ := overlapGeometry(len(fSeq), len(revRC), best.offset)
	mergedLen := fwdStart + overlap + (len(revRC) - revStart - overlap)
	if mergedLen < opt.MinMergeLen {
		return Merged{Reason: MinMergeLen}
	}
	if mergedLen > opt.MaxMergeLen {
		return Merged{Reason: MaxMergeLen}
	}

	merged, mergedQ, eeFwd, eeRev, eeMerged := buildMerged(fSeq, fQ, revRC, revRCQ, fwdStart, revStart, overlap, opt)
	if eeMerged > opt.MaxEE {
		return Merged{Reason: MaxEE}
	}

	return Merged{
		Header: fwd.Label,
		Seq: merged,
		Quality: mergedQ,
		Offset: best.offset,
		Diffs: best.diffs,
		EEFwd: eeFwd,
		EERev: eeRev,
		EEMerged: eeMerged,
		Reason: Ok,
	}
}

// overlapGeometry converts a diagonal d (as diagonalCounts defines it)
// into (overlapLen, fwdStart, revStart), reporting false if the
// diagonal does not correspond to a valid in-bounds overlap.
func overlapGeometry(fwdLen, revLen, d int) (overlap, fwdStart, revStart int, ok bool) {
	// d = revLen + fwdPos - revPos for a matching k-mer at
	// (fwdPos, revPos); the implied overlap begins at fwdStart = d -
	// revLen and spans to the shorter of the two reads' remaining
	// length.
	fwdStart = d - revLen
	revStart = 0
	if fwdStart < 0 {
		revStart = -fwdStart
		fwdStart = 0
	}
	overlap = fwdLen - fwdStart
	if remain := revLen - revStart; remain < overlap {
		overlap = remain
	}
	if overlap <= 0 {
		return 0, 0, 0, false
	}
	return overlap, fwdStart, revStart, true
}

func truncateQual(seq, qual []byte, truncQual byte, asciiBase int) int {
	for i, q := range qual {
		if int(q)-asciiBase <= int(truncQual) {
			return i
		}
	}
	return len(seq)
}

// decodeQual converts raw ASCII FASTQ quality characters to phred
// values.
func decodeQual(ascii []byte, asciiBase int) []byte {
	out := make([]byte, len(ascii))
	for i, c := range ascii {
		out[i] = byte(int(c) - asciiBase)
	}
	return out
}

// maskNs zeroes the phred quality at N positions so they never
// dominate the overlap score.
func maskNs(seq, phred []byte) ([]byte, []byte) {
	s := append([]byte(nil), seq...)
	q := append([]byte(nil), phred...)
	for i, b := range s {
		if upper(b) == 'N' {
			q[i] = 0
		}
	}
	return s, q
}

func countNs(seq []byte) int {
	n := 0
	for _, b := range seq {
		if upper(b) == 'N' {
			n++
		}
	}
	return n
}

func reverseBytes(b []byte) []byte {
	out := make([]byte, len(b))
	for i, v := range b {
		out[len(b)-1-i] = v
	}
	return out
}

func buildMerged(fSeq, fQ, revRC, revRCQ []byte, fwdStart, revStart, overlap int, opt Options) (seq, qual []byte, eeFwd, eeRev, eeMerged float64) {
	for i := 0; i < fwdStart; i++ {
		seq = append(seq, fSeq[i])
		qual = append(qual, fQ[i])
		eeFwd += perr(fQ[i])
	}
	for i := 0; i < overlap; i++ {
		fb, fq := fSeq[fwdStart+i], fQ[fwdStart+i]
		rb, rq := revRC[revStart+i], revRCQ[revStart+i]
		mb, mq := mergeBase(fb, rb, fq, rq, opt.QminOut, opt.QmaxOut)
		seq = append(seq, mb)
		qual = append(qual, mq)
		eeMerged += perr(mq)
	}
	for i := revStart + overlap; i < len(revRC); i++ {
		seq = append(seq, revRC[i])
		qual = append(qual, revRCQ[i])
		eeRev += perr(revRCQ[i])
	}

	asciiQual := make([]byte, len(qual))
	for i, q := range qual {
		asciiQual[i] = q + byte(opt.AsciiBase)
	}
	return seq, asciiQual, eeFwd, eeRev, eeMerged + eeFwd + eeRev
}
