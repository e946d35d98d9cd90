package search

import (
	"sort"

	"github.com/kshedden/vsearchgo/internal/align"
	"github.com/kshedden/vsearchgo/internal/kmerindex"
	"github.com/kshedden/vsearchgo/internal/mask"
	"github.com/kshedden/vsearchgo/internal/runctx"
	"github.com/kshedden/vsearchgo/internal/seqstore"
)

// Engine bundles the index, store and scoring scheme a worker needs to
// search one query through both strands.
type Engine struct {
	Run *runctx.Run
	Index *kmerindex.Index
	Store *seqstore.Store
	Counter *kmerindex.Counter

	MaskMode mask.Mode
	HardMask bool

	Scores align.Scores
	GapPenalties align.GapPenalties
}

// Search runs the full pipeline for one query record and returns the
// merged, truncated hit list in the order it should be emitted.
func (e *Engine) Search(query *seqstore.Record) []Hit {
	opt := e.Run.Opt

	var plusHits, minusHits []Hit
	plusHits = e.searchStrand(query, query.Seq, Plus)

	if opt.Strand == "both" {
		rc := ReverseComplement(query.Seq)
		minusHits = e.searchStrand(query, rc, Minus)
	}

	return mergeStrands(plusHits, minusHits, opt.MaxHits)
}

func (e *Engine) searchStrand(query *seqstore.Record, seq []byte, strand Strand) []Hit {
	opt := e.Run.Opt

	masked := append([]byte(nil), seq...)
	mask.Apply(masked, e.MaskMode, e.HardMask)

	candidates := CollectCandidates(e.Index, e.Counter, masked, opt.MaxAccepts, opt.MaxRejects)

	var hits []Hit
	var accepted, rejected int

	for _, c := range candidates {
		if accepted >= opt.MaxAccepts || rejected >= opt.MaxRejects {
			break
		}

		target := e.Store.At(int(c.RecordIndex))
		if !Prefilter(opt, query, target) {
			continue
		}

		res := align.SearchScalar(masked, target.Seq, e.Scores, e.GapPenalties)
		if !res.Aligned {
			continue
		}

		h := buildHit(int(c.RecordIndex), strand, res, len(masked), len(target.Seq), opt.IdDef)
		if opt.MaxId < 1.0 && h.ID > opt.MaxId {
			continue
		}

		switch {
		case h.ID >= opt.OptId:
			h.Accepted = true
			accepted++
		case h.ID >= opt.WeakId:
			h.Weak = true
		default:
			h.Rejected = true
			rejected++
		}
		hits = append(hits, h)
	}

	return hits
}

func buildHit(targetIndex int, strand Strand, res align.Result, qlen, tlen int, idDef int) Hit {
	trimmed := align.Trim(res, qlen, tlen)

	shortest, longest := qlen, tlen
	if longest < shortest {
		shortest, longest = longest, shortest
	}

	return Hit{
		TargetIndex: targetIndex,
		Strand: strand,
		Score: res.Score,
		Cigar: res.Cigar,
		Matches: res.Matches,
		Mismatches: res.Mismatches,
		Gaps: res.Gaps,
		Indels: res.Indels,
		Trim: trimmed,
		Shortest: shortest,
		Longest: longest,
		ID: trimmed.Primary(align.IDDef(idDef)),
		Aligned: true,
	}
}

// mergeStrands combines plus- and minus-strand hit buffers, sorts by
// descending id (then ascending target index), and truncates to maxHits
// (0 = unbounded).
func mergeStrands(plus, minus []Hit, maxHits int) []Hit {
	all := make([]Hit, 0, len(plus)+len(minus))
	all = append(all, plus...)
	all = append(all, minus...)

	sort.SliceStable(all, func(i, j int) bool {
		if all[i].ID != all[j].ID {
			return all[i].ID > all[j].ID
		}
		return all[i].TargetIndex < all[j].TargetIndex
	})

	if maxHits > 0 && len(all) > maxHits {
		all = all[:maxHits]
	}
	return all
}
