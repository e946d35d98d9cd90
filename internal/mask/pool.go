package mask

import (
	"sync"
	"sync/atomic"

	"github.com/kshedden/vsearchgo/internal/seqstore"
)

// RunPool masks every record in store concurrently. The only shared state
// across workers is an atomic "next record" counter and a progress
// mutex; a fixed set of worker goroutines is joined by a sync.WaitGroup.
func RunPool(store *seqstore.Store, mode Mode, hardmask bool, threads int, progress func(done, total int)) {
	if threads < 1 {
		threads = 1
	}

	n := store.Len()
	var next int64
	var progressMu sync.Mutex
	var done int64

	var wg sync.WaitGroup
	for w := 0; w < threads; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				i := int(atomic.AddInt64(&next, 1) - 1)
				if i >= n {
					return
				}
				Apply(store.At(i).Seq, mode, hardmask)

				if progress != nil {
					progressMu.Lock()
					done++
					progress(int(done), n)
					progressMu.Unlock()
				}
			}
		}()
	}
	wg.Wait()
}
