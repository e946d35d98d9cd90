package search

import (
	"sync"
	"sync/atomic"

	"github.com/kshedden/vsearchgo/internal/kmerindex"
	"github.com/kshedden/vsearchgo/internal/seqstore"
)

// RunPool searches every record in queries against e's index/store
// concurrently, calling emit under the run's output mutex for each
// query's merged hit list. Each worker gets its own Counter (the
// counter is per-query mutable scratch space, not sharable across
// goroutines), a one-state-per-worker pool idiom.
func RunPool(e *Engine, queries *seqstore.Store, emit func(query *seqstore.Record, hits []Hit)) {
	threads := e.Run.Opt.Threads
	if threads < 1 {
		threads = 1
	}

	n := queries.Len()
	var next int64

	var wg sync.WaitGroup
	for w := 0; w < threads; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			worker := &Engine{
				Run:          e.Run,
				Index:        e.Index,
				Store:        e.Store,
				Counter:      kmerindex.NewCounter(e.Store.Len()),
				MaskMode:     e.MaskMode,
				HardMask:     e.HardMask,
				Scores:       e.Scores,
				GapPenalties: e.GapPenalties,
			}

			for {
				i := int(atomic.AddInt64(&next, 1) - 1)
				if i >= n {
					return
				}
				q := queries.At(i)
				hits := worker.Search(q)

				matched := false
				for _, h := range hits {
					if h.Accepted {
						matched = true
						e.Run.Shared.Stats.AddHit(h.TargetIndex)
					}
				}
				e.Run.Shared.Stats.AddQuery(matched)

				e.Run.Shared.OutputMu.Lock()
				emit(q, hits)
				e.Run.Shared.OutputMu.Unlock()
			}
		}()
	}
	wg.Wait()
}
