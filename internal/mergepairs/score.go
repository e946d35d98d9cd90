package mergepairs

import "math"

// Reason is the enum of merge outcomes a pair can be tagged with.
type Reason int

const (
	Ok Reason = iota
	Undefined
	MinLen
	MaxLen
	MaxNs
	MinOvlen
	MaxDiffs
	MaxDiffPct
	Staggered
	Indel
	Repeat
	MinMergeLen
	MaxMergeLen
	MaxEE
	MinScore
	NoKmers
)

// perrTable maps a phred quality (0..127) to its error probability
// P_err = 10^(-q/10), precomputed once.
var perrTable = func() [128]float64 {
	var t [128]float64
	for q := range t {
		t[q] = math.Pow(10, -float64(q)/10)
	}
	return t
}()

func perr(q byte) float64 {
	if int(q) >= len(perrTable) {
		return perrTable[len(perrTable)-1]
	}
	return perrTable[q]
}

// overlapScore computes the score for aligning fwd[fwdStart:] against
// revRC[revStart:] for the given overlap length, using a log-odds
// formula per column and enforcing a dropmax high-water-mark
// constraint. It returns the final score, the number of mismatched
// columns, and ok=false if dropmax was violated (in which case the
// caller discards this offset).
func overlapScore(fwd, fwdQ, revRC, revQ []byte, fwdStart, revStart, length int, dropmax float64) (score float64, diffs int, ok bool) {
	high := 0.0
	cur := 0.0

	for i := 0; i < length; i++ {
		fb := fwd[fwdStart+i]
		rb := revRC[revStart+i]
		pf := perr(fwdQ[fwdStart+i])
		pr := perr(revQ[revStart+i])

		p := 1 - pf - pr + (4.0/3.0)*pf*pr
		if upper(fb) == upper(rb) {
			cur += math.Log2(p / 0.25)
		} else {
			diffs++
			v := math.Log2((1 - p) / 0.75)
			if v < -4 {
				v = -4
			}
			cur += v
		}

		if cur > high {
			high = cur
		}
		if high-cur > dropmax {
			return cur, diffs, false
		}
	}
	return cur, diffs, true
}

// mergeBase computes the merged base/quality for one aligned column: on
// agreement, a combined-confidence quality; on disagreement, the
// higher-quality base with a disagreement-adjusted quality. qminout/
// qmaxout clamp the output phred range.
func mergeBase(fb, rb, fq, rq byte, qminout, qmaxout int) (mergedBase, mergedQ byte) {
	pf := perr(fq)
	pr := perr(rq)

	if upper(fb) == upper(rb) {
		denom := 1 - pf - pr + (4.0/3.0)*pf*pr
		pm := (pf * pr / 3) / denom
		q := clampQ(round(-10*math.Log10(pm)), qminout, qmaxout)
		return fb, byte(q)
	}

	hiBase, hiQ, loQ := fb, fq, rq
	if rq > fq {
		hiBase, hiQ, loQ = rb, rq, fq
	}
	phi, plo := perr(hiQ), perr(loQ)
	denom := phi + plo - (4.0/3.0)*phi*plo
	pd := phi * (1 - plo/3) / denom
	q := clampQ(round(-10*math.Log10(pd)), qminout, qmaxout)
	return hiBase, byte(q)
}

func clampQ(q, minQ, maxQ int) int {
	if q < minQ {
		return minQ
	}
	if q > maxQ {
		return maxQ
	}
	return q
}

func round(x float64) int {
	return int(math.Round(x))
}

func upper(b byte) byte {
	if b >= 'a' && b <= 'z' {
		return b - ('a' - 'A')
	}
	return b
}
