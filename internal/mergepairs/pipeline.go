package mergepairs

import (
	"sync"

	"github.com/kshedden/vsearchgo/internal/runctx"
	"github.com/kshedden/vsearchgo/internal/seqstore"
)

// chunkSize and chunkFactor size the chunk ring: chunks of 500 pairs,
// chunk_factor*threads chunks in flight at once.
const (
	chunkSize   = 500
	chunkFactor = 4
)

type chunkState int

const (
	empty chunkState = iota
	filled
	inprogress
	processed
)

type chunk struct {
	state chunkState
	pairs []pairIn
	out   []Merged
}

type pairIn struct {
	fwd, rev *seqstore.Record
}

// Pipeline runs the producer (read) / processor (merge) / consumer
// (write) roles over a chunk ring: one mutex + condition variable
// guards chunk state transitions, and read_next/process_next/write_next
// cursors each advance independently modulo the chunk count.
type Pipeline struct {
	run   *runctx.Run
	opt   Options
	table [256]uint32

	mu   sync.Mutex
	cond *sync.Cond

	chunks       []chunk
	readNext     int
	procNext     int
	writeNext    int
	producerDone bool
}

// NewPipeline allocates a ring of chunk_factor*threads chunks.
func NewPipeline(run *runctx.Run, opt Options) *Pipeline {
	threads := run.Opt.Threads
	if threads < 1 {
		threads = 1
	}
	n := chunkFactor * threads
	if n < 1 {
		n = 1
	}
	p := &Pipeline{run: run, opt: opt, table: newHashTable(), chunks: make([]chunk, n)}
	p.cond = sync.NewCond(&p.mu)
	return p
}

// Run drains pairs from next (returning ok=false at end of input),
// merges each, and calls emit for every result in original order. When
// threads==1 the single goroutine rotates through read/process/write
// itself, a single-thread fallback.
func (p *Pipeline) Run(next func() (fwd, rev *seqstore.Record, ok bool), emit func(m Merged)) {
	threads := p.run.Opt.Threads
	if threads < 1 {
		threads = 1
	}

	if threads == 1 {
		for {
			fwd, rev, ok := next()
			if !ok {
				return
			}
			emit(MergePair(fwd, rev, p.opt, p.table))
		}
	}

	var wg sync.WaitGroup

	// Producer: fills chunks in order.
	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			var pairs []pairIn
			for len(pairs) < chunkSize {
				fwd, rev, ok := next()
				if !ok {
					break
				}
				pairs = append(pairs, pairIn{fwd, rev})
			}
			done := len(pairs) == 0

			p.mu.Lock()
			idx := p.readNext % len(p.chunks)
			for p.chunks[idx].state != empty {
				p.cond.Wait()
			}
			if !done {
				p.chunks[idx].state = filled
				p.chunks[idx].pairs = pairs
				p.readNext++
			}
			if done {
				p.producerDone = true
			}
			p.cond.Broadcast()
			p.mu.Unlock()

			if done {
				return
			}
		}
	}()

	// Processors: merge whatever chunk is next in process order.
	workers := threads - 1
	if workers < 1 {
		workers = 1
	}
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				p.mu.Lock()
				idx := -1
				for {
					cand := p.procNext % len(p.chunks)
					if p.chunks[cand].state == filled {
						p.chunks[cand].state = inprogress
						p.procNext++
						idx = cand
						break
					}
					if p.producerDone && p.procNext >= p.readNext {
						p.mu.Unlock()
						return
					}
					p.cond.Wait()
				}
				p.mu.Unlock()

				out := make([]Merged, len(p.chunks[idx].pairs))
				for i, pr := range p.chunks[idx].pairs {
					out[i] = MergePair(pr.fwd, pr.rev, p.opt, p.table)
				}

				p.mu.Lock()
				p.chunks[idx].out = out
				p.chunks[idx].state = processed
				p.cond.Broadcast()
				p.mu.Unlock()
			}
		}()
	}

	// Consumer: emits chunks strictly in order.
	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			p.mu.Lock()
			idx := p.writeNext % len(p.chunks)
			for p.chunks[idx].state != processed {
				if p.producerDone && p.writeNext >= p.readNext {
					p.mu.Unlock()
					return
				}
				p.cond.Wait()
			}
			out := p.chunks[idx].out
			p.chunks[idx] = chunk{}
			p.writeNext++
			p.cond.Broadcast()
			p.mu.Unlock()

			p.run.Shared.OutputMu.Lock()
			for _, m := range out {
				emit(m)
			}
			p.run.Shared.OutputMu.Unlock()
		}
	}()

	wg.Wait()
}
