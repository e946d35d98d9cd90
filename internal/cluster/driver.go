// Package cluster implements a greedy centroid clustering driver:
// cluster_fast/cluster_size/cluster_smallmem input-order variants, each
// running the search pipeline against an incrementally growing live
// index and promoting unmatched records to new clusters.
package cluster

import (
	"fmt"

	"github.com/kshedden/vsearchgo/internal/align"
	"github.com/kshedden/vsearchgo/internal/kmerindex"
	"github.com/kshedden/vsearchgo/internal/mask"
	"github.com/kshedden/vsearchgo/internal/runctx"
	"github.com/kshedden/vsearchgo/internal/search"
	"github.com/kshedden/vsearchgo/internal/seqstore"
)

// InputOrder selects which of the three clustering variants' ordering
// contract applies.
type InputOrder int

const (
	// ClusterFast sorts by length descending first.
	ClusterFast InputOrder = iota
	// ClusterSize sorts by abundance descending first.
	ClusterSize
	// ClusterSmallmem trusts the caller's order and refuses an
	// out-of-order record unless UserSort is set.
	ClusterSmallmem
)

// Cluster is one live cluster: its centroid record index and the
// member indices assigned to it (in assignment order).
type Cluster struct {
	Centroid int
	Members []int
}

// Result is the outcome of a clustering run: the cluster list plus
// summary counters over cluster sizes.
type Result struct {
	Clusters []Cluster
	Singletons int
	MinSize int
	MaxSize int
	MeanSize float64
}

// Run clusters every record in store, in the order InputOrder dictates,
// against an index grown incrementally as new centroids are promoted.
func Run(run *runctx.Run, store *seqstore.Store, order InputOrder, userSort bool) (*Result, error) {
	switch order {
	case ClusterFast:
		store.Sort(seqstore.SortByLengthThenAbundance)
	case ClusterSize:
		store.Sort(seqstore.SortByAbundance)
	case ClusterSmallmem:
		if !userSort && !store.IsSorted() {
			return nil, fmt.Errorf("cluster: cluster_smallmem requires pre-sorted input (set usersort to bypass)")
		}
	}

	opt := run.Opt
	idx := kmerindex.New(opt.Wordlength)
	counter := kmerindex.NewCounter(0)

	// centroids holds only the promoted centroid records, added to idx
	// in the same order, so a candidate's RecordIndex (idx's own dense
	// slot numbering) always matches centroids' position. store itself
	// holds every input record and is walked by loop index i, never by
	// RecordIndex, since the two numberings coincide only by accident.
	centroids := seqstore.New(0, 0)

	engine := &search.Engine{
		Run: run,
		Index: idx,
		Store: centroids,
		Counter: counter,
		MaskMode: mask.Dust,
		HardMask: false,
		Scores: align.DefaultScores(),
		GapPenalties: align.DefaultGapPenalties(),
	}

	var clusters []Cluster

	for i := 0; i < store.Len(); i++ {
		rec := store.At(i)
		counter.Grow(idx.NumRecords())

		var hits []search.Hit
		if idx.NumRecords() > 0 {
			hits = engine.Search(rec)
		}

		assigned := -1
		for _, h := range hits {
			if h.Accepted {
				assigned = h.TargetIndex
				break
			}
		}

		if assigned >= 0 {
			clusters[assigned].Members = append(clusters[assigned].Members, rec.Index)
			run.Shared.Stats.AddHit(assigned)
		} else {
			clusters = append(clusters, Cluster{Centroid: rec.Index, Members: []int{rec.Index}})
			if err := idx.Add(idx.NumRecords(), rec.Seq); err != nil {
				return nil, fmt.Errorf("cluster: growing index: %w", err)
			}
			centroids.Add(&seqstore.Record{Header: rec.Header, Label: rec.Label, Seq: rec.Seq, Abundance: rec.Abundance})
		}
		run.Shared.Stats.AddQuery(assigned >= 0)
	}

	return summarize(clusters), nil
}

func summarize(clusters []Cluster) *Result {
	res := &Result{Clusters: clusters}
	if len(clusters) == 0 {
		return res
	}
	total := 0
	res.MinSize = len(clusters[0].Members)
	for _, c := range clusters {
		n := len(c.Members)
		total += n
		if n == 1 {
			res.Singletons++
		}
		if n < res.MinSize {
			res.MinSize = n
		}
		if n > res.MaxSize {
			res.MaxSize = n
		}
	}
	res.MeanSize = float64(total) / float64(len(clusters))
	return res
}
