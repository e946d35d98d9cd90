// Package runctx carries the immutable run configuration and the mutable
// shared counters that every worker pool in vsearchgo touches, replacing
// the module-level statics that the C engine this tool is modeled on used
// for option values, file handles and mutexes.
package runctx

import (
	"log"
	"os"
	"sync"
)

// Options holds the validated, command-independent knobs that the core
// packages consume. Flag/JSON-config parsing is the caller's job; Options
// is the contract the core accepts, mirroring utils.Config but scoped to
// what the engine itself needs rather than to any one CLI command.
type Options struct {
	Threads int

	MinSeqLength int
	MaxSeqLength int

	NoTruncLabels bool

	FastqAscii int
	FastqQmin int
	FastqQmax int

	KmerLength int

	Wordlength int

	MaxAccepts int
	MaxRejects int
	MaxHits int

	IdDef int
	OptId float64
	WeakId float64
	MinQT float64
	MaxQT float64
	MinSL float64
	MaxSL float64

	IdPrefix int
	IdSuffix int

	MinSizeRatio float64
	MaxSizeRatio float64
	MaxQSize int64
	MinTSize int64
	MaxId float64

	MaxDiffs int
	MaxDiffPct float64
	MinCols int

	Self bool
	SelfId bool

	Strand string // "plus" or "both"
}

// DefaultOptions returns the option set the command-line binaries start
// from before applying their flags.
func DefaultOptions() *Options {
	return &Options{
		Threads: 1,
		MinSeqLength: 1,
		MaxSeqLength: 1 << 20,
		FastqAscii: 33,
		FastqQmin: 0,
		FastqQmax: 41,
		KmerLength: 8,
		Wordlength: 8,
		MaxAccepts: 1,
		MaxRejects: 32,
		MaxHits: 0,
		IdDef: 2,
		OptId: 0.97,
		WeakId: 0.90,
		MinQT: 0,
		MaxQT: 0,
		MinSL: 0,
		MaxSL: 0,
		MinSizeRatio: 0,
		MaxSizeRatio: 0,
		MaxId: 1.0,
		MaxDiffPct: 100,
		Strand: "plus",
	}
}

// Stats are the counters updated under a dedicated mutex: queries
// processed, matches, per-record hit counts, and the counted
// (non-fatal) discard reasons.
type Stats struct {
	mu sync.Mutex

	Queries int64
	QMatches int64
	DBMatched map[int]int64

	TooShort int64
	TooLong int64

	Singletons int64
	Clusters int64
}

// NewStats allocates a zeroed Stats block.
func NewStats() *Stats {
	return &Stats{DBMatched: make(map[int]int64)}
}

// AddQuery records one processed query and whether it matched.
func (s *Stats) AddQuery(matched bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Queries++
	if matched {
		s.QMatches++
	}
}

// AddHit records a hit against the given target record index.
func (s *Stats) AddHit(target int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.DBMatched[target]++
}

// AddDiscard increments the too-short or too-long counter.
func (s *Stats) AddDiscard(tooLong bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if tooLong {
		s.TooLong++
	} else {
		s.TooShort++
	}
}

// Shared bundles the mutexes a worker pool needs beyond Stats: one to
// serialize reads of the next input record, one to serialize writes to
// the output sink(s).
type Shared struct {
	InputMu sync.Mutex
	OutputMu sync.Mutex
	Next int64 // next unclaimed input record index
	Stats *Stats
}

// NewShared allocates a fresh Shared block.
func NewShared() *Shared {
	return &Shared{Stats: NewStats()}
}

// Run is the explicit, immutable-after-construction context threaded
// through every pipeline stage in place of module statics: options, a
// logger, and a pointer to the mutable Shared counters.
type Run struct {
	Opt *Options
	Log *log.Logger
	Shared *Shared
}

// NewRun builds a Run with a stderr logger and fresh Shared state.
func NewRun(opt *Options) *Run {
	if opt == nil {
		opt = DefaultOptions()
	}
	return &Run{
		Opt: opt,
		Log: log.New(os.Stderr, "", log.Ltime),
		Shared: NewShared(),
	}
}

// Fatal logs msg and args, then aborts the process. There is no
// partial-recovery path: a fatal error terminates the run
// immediately.
func (r *Run) Fatal(format string, args ...interface{}) {
	r.Log.Printf(format, args...)
	os.Exit(1)
}
