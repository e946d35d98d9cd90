package search

import (
	"github.com/kshedden/vsearchgo/internal/runctx"
	"github.com/kshedden/vsearchgo/internal/seqstore"
)

// Prefilter reports whether candidate target survives the cheap,
// pre-alignment checks: self/selfid, idprefix/idsuffix, length ratio
// bounds, abundance ratio bounds and maxqsize/mintsize. Survivors go on
// to full alignment; maxid needs an identity and is applied after
// alignment instead.
func Prefilter(opt *runctx.Options, query, target *seqstore.Record) bool {
	if opt.Self && query.Index == target.Index {
		return false
	}
	if opt.SelfId && query.Label == target.Label {
		return false
	}

	qlen, tlen := len(query.Seq), len(target.Seq)

	if opt.IdPrefix > 0 {
		if qlen < opt.IdPrefix || tlen < opt.IdPrefix {
			return false
		}
		if !prefixEqual(query.Seq, target.Seq, opt.IdPrefix) {
			return false
		}
	}
	if opt.IdSuffix > 0 {
		if qlen < opt.IdSuffix || tlen < opt.IdSuffix {
			return false
		}
		if !suffixEqual(query.Seq, target.Seq, opt.IdSuffix) {
			return false
		}
	}

	if opt.MinQT > 0 || opt.MaxQT > 0 {
		ratio := float64(qlen) / float64(tlen)
		if opt.MinQT > 0 && ratio < opt.MinQT {
			return false
		}
		if opt.MaxQT > 0 && ratio > opt.MaxQT {
			return false
		}
	}
	if opt.MinSL > 0 || opt.MaxSL > 0 {
		shortest, longest := qlen, tlen
		if longest < shortest {
			shortest, longest = longest, shortest
		}
		ratio := float64(shortest) / float64(longest)
		if opt.MinSL > 0 && ratio < opt.MinSL {
			return false
		}
		if opt.MaxSL > 0 && ratio > opt.MaxSL {
			return false
		}
	}

	if opt.MinSizeRatio > 0 || opt.MaxSizeRatio > 0 {
		ratio := float64(query.Abundance) / float64(target.Abundance)
		if opt.MinSizeRatio > 0 && ratio < opt.MinSizeRatio {
			return false
		}
		if opt.MaxSizeRatio > 0 && ratio > opt.MaxSizeRatio {
			return false
		}
	}

	if opt.MaxQSize > 0 && query.Abundance > opt.MaxQSize {
		return false
	}
	if opt.MinTSize > 0 && target.Abundance < opt.MinTSize {
		return false
	}

	return true
}

func prefixEqual(a, b []byte, n int) bool {
	for i := 0; i < n; i++ {
		if upperByte(a[i]) != upperByte(b[i]) {
			return false
		}
	}
	return true
}

func suffixEqual(a, b []byte, n int) bool {
	la, lb := len(a), len(b)
	for i := 0; i < n; i++ {
		if upperByte(a[la-1-i]) != upperByte(b[lb-1-i]) {
			return false
		}
	}
	return true
}

func upperByte(b byte) byte {
	if b >= 'a' && b <= 'z' {
		return b - ('a' - 'A')
	}
	return b
}
