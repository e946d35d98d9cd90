package align

import "fmt"

// Result is the outcome of a global alignment: the score, the CIGAR
// string, and the raw match/mismatch/gap counts including terminal
// gaps.
type Result struct {
	Score int
	Cigar string
	Matches int
	Mismatches int
	Gaps int // number of distinct gap runs opened
	Indels int // total gap columns/rows (sum of run lengths)
	Aligned bool
}

// direction bits recorded per DP cell, mirroring the bitmask traceback
// vsearch's own scalar aligner uses (maskup/maskleft/maskextup/
// maskextleft in nws.cc), renamed to this package's I/D convention:
// bitV marks "this cell's best score came from the query-gap (I) state",
// bitH marks target-gap (D), bitVExt/bitHExt mark that the gap state
// itself extended a run rather than opening a fresh one.
const (
	bitV = 1 << iota
	bitH
	bitVExt
	bitHExt
)

const negInf = -(1 << 30)

// SearchScalar runs a full Needleman-Wunsch global alignment of query
// against target with a six-class asymmetric gap scheme, returning the
// traced-back CIGAR and raw counts. It is the fallback aligner and the
// semantic reference that Search16's batched kernel must agree with.
func SearchScalar(query, target []byte, sc Scores, gp GapPenalties) Result {
	qlen, dlen := len(query), len(target)
	if qlen == 0 || dlen == 0 {
		return Result{Aligned: false}
	}

	// H, Vgap ("I" state), Hgap ("D" state): (qlen+1) x (dlen+1).
	stride := dlen + 1
	H := make([]int, (qlen+1)*stride)
	V := make([]int, (qlen+1)*stride)
	D := make([]int, (qlen+1)*stride)
	dir := make([]byte, (qlen+1)*stride)

	at := func(i, j int) int { return i*stride + j }

	for j := 0; j <= dlen; j++ {
		V[at(0, j)] = negInf
	}
	for i := 0; i <= qlen; i++ {
		D[at(i, 0)] = negInf
	}
	H[at(0, 0)] = 0
	for j := 1; j <= dlen; j++ {
		gc := targetClass(gp, 0, j, dlen)
		H[at(0, j)] = H[at(0, j-1)] - gc.Open - gc.Extend*j
		D[at(0, j)] = negInf
	}
	for i := 1; i <= qlen; i++ {
		gc := queryClass(gp, 0, i, qlen)
		H[at(i, 0)] = H[at(i-1, 0)] - gc.Open - gc.Extend*i
		V[at(i, 0)] = negInf
	}

	for i := 1; i <= qlen; i++ {
		qc := queryClass(gp, i-1, i, qlen)
		for j := 1; j <= dlen; j++ {
			tc := targetClass(gp, j-1, j, dlen)

			diag := H[at(i-1, j-1)] + sc.Sub(query[i-1], target[j-1])

			vExtend := V[at(i-1, j)] - qc.Extend
			vOpen := H[at(i-1, j)] - qc.Open - qc.Extend
			v := vOpen
			var vExt byte
			if vExtend > vOpen {
				v = vExtend
				vExt = bitVExt
			}

			hExtend := D[at(i, j-1)] - tc.Extend
			hOpen := H[at(i, j-1)] - tc.Open - tc.Extend
			h := hOpen
			var hExt byte
			if hExtend > hOpen {
				h = hExtend
				hExt = bitHExt
			}

			V[at(i, j)] = v
			D[at(i, j)] = h

			best := diag
			if v > best {
				best = v
			}
			if h > best {
				best = h
			}

			// Record every transition tied for best, so traceback can
			// apply its own priority among ties.
			var bits byte
			if v == best {
				bits |= bitV | vExt
			}
			if h == best {
				bits |= bitH | hExt
			}
			H[at(i, j)] = best
			dir[at(i, j)] = bits
		}
	}

	return traceback(query, target, H, dir, stride, qlen, dlen, sc)
}

func queryClass(gp GapPenalties, iPrev, i, qlen int) GapClass {
	switch {
	case iPrev == 0:
		return gp.QueryLeft
	case i == qlen:
		return gp.QueryRight
	default:
		return gp.QueryInterior
	}
}

func targetClass(gp GapPenalties, jPrev, j, dlen int) GapClass {
	switch {
	case jPrev == 0:
		return gp.TargetLeft
	case j == dlen:
		return gp.TargetRight
	default:
		return gp.TargetInterior
	}
}

// tracebackOp is one step of the traced-back alignment path: 'M' for a
// diagonal match/mismatch column, 'I' for query consumed with no target
// (query gap), 'D' for target consumed with no query (target gap).
type tracebackOp struct{ kind byte }

// traceback walks the direction bitmask from (qlen,dlen) back to (0,0),
// applying a fixed backtrace priority: extend current gap > open query
// gap > open target gap > diagonal.
func traceback(query, target []byte, H []int, dir []byte, stride, qlen, dlen int, sc Scores) Result {
	score := H[qlen*stride+dlen]
	if score <= -(1 << 29) || score >= (1<<29) {
		return Result{Aligned: false}
	}

	var ops []tracebackOp

	i, j := qlen, dlen
	state := byte(0) // 0 = none, bitV = in query-gap run, bitH = in target-gap run

	for i > 0 || j > 0 {
		if i == 0 {
			ops = append(ops, tracebackOp{'D'})
			j--
			state = bitH
			continue
		}
		if j == 0 {
			ops = append(ops, tracebackOp{'I'})
			i--
			state = bitV
			continue
		}

		d := dir[i*stride+j]

		switch {
		case state == bitV && d&bitVExt != 0:
			ops = append(ops, tracebackOp{'I'})
			i--
			state = bitV
		case state == bitH && d&bitHExt != 0:
			ops = append(ops, tracebackOp{'D'})
			j--
			state = bitH
		case d&bitV != 0:
			ops = append(ops, tracebackOp{'I'})
			i--
			state = bitV
		case d&bitH != 0:
			ops = append(ops, tracebackOp{'D'})
			j--
			state = bitH
		default:
			ops = append(ops, tracebackOp{'M'})
			i--
			j--
			state = 0
		}
	}

	// ops was built backwards (from the end); reverse it.
	for l, r := 0, len(ops)-1; l < r; l, r = l+1, r-1 {
		ops[l], ops[r] = ops[r], ops[l]
	}

	var res Result
	res.Aligned = true
	res.Score = score

	qi, ti := 0, 0
	var cigar []byte
	var runOp byte
	var runLen int
	flush := func() {
		if runLen == 0 {
			return
		}
		if runLen > 1 {
			cigar = append(cigar, []byte(fmt.Sprintf("%d", runLen))...)
		}
		cigar = append(cigar, runOp)
	}
	for _, o := range ops {
		switch o.kind {
		case 'M':
			if query[qi] == target[ti] || upper(query[qi]) == upper(target[ti]) {
				res.Matches++
			} else {
				res.Mismatches++
			}
			qi++
			ti++
		case 'I':
			res.Indels++
			qi++
		case 'D':
			res.Indels++
			ti++
		}
		if o.kind != runOp {
			flush()
			runOp = o.kind
			runLen = 1
		} else {
			runLen++
		}
	}
	flush()
	res.Cigar = string(cigar)

	// Count distinct gap runs: Gaps is the run count, Indels the total
	// gap columns/rows.
	res.Gaps = countGapRuns(ops)

	return res
}

func countGapRuns(ops []tracebackOp) int {
	var gaps int
	var inGap bool
	var last byte
	for _, o := range ops {
		isGap := o.kind == 'I' || o.kind == 'D'
		if isGap && (!inGap || o.kind != last) {
			gaps++
		}
		inGap = isGap
		last = o.kind
	}
	return gaps
}
