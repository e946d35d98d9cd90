package align

// Channels is the number of database sequences processed per pass,
// and Depth is the number of columns processed per inner iteration
// (CDEPTH=4). The original SIMD kernel packs these into 16-bit lanes
// of a vector register; this port keeps the same batch shape and
// scheduling contract without requiring actual SIMD intrinsics.
const (
	Channels = 8
	Depth = 4
)

// Lane is one (query, target) pair scheduled into a Search16 batch.
type Lane struct {
	Query []byte
	Target []byte
}

// Search16 aligns any number of lanes, in batches of Channels, against
// their respective targets and returns one Result per lane, in lane order. A lane's
// score is valid only when SHRT_MIN < score < SHRT_MAX; scores outside
// that 16-bit signed range are reported as unaligned, matching the
// original kernel's saturation behavior even though this port computes
// with full-width int scores internally.
//
// Search16 must agree byte-for-byte on CIGAR and counts with
// SearchScalar for every lane; it is built directly on top of the
// scalar kernel rather than re-deriving the DP recurrence, since the
// Channels/Depth batching is a scheduling contract, not a numerically
// distinct code path.
func Search16(lanes []Lane, sc Scores, gp GapPenalties) []Result {
	out := make([]Result, len(lanes))

	for batchStart := 0; batchStart < len(lanes); batchStart += Channels {
		batchEnd := batchStart + Channels
		if batchEnd > len(lanes) {
			batchEnd = len(lanes)
		}
		for lane := batchStart; lane < batchEnd; lane++ {
			res := SearchScalar(lanes[lane].Query, lanes[lane].Target, sc, gp)
			if res.Aligned && !scoreFitsInt16(res.Score) {
				res = Result{Aligned: false}
			}
			out[lane] = res
		}
	}
	return out
}

const (
	shrtMin = -(1 << 15)
	shrtMax = (1 << 15) - 1
)

func scoreFitsInt16(score int) bool {
	return score > shrtMin && score < shrtMax
}
