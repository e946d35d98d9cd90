package runctx

import (
	"sync"
	"testing"
)

func TestDefaultOptionsSaneDefaults(t *testing.T) {
	opt := DefaultOptions()
	if opt.Threads != 1 {
		t.Fatalf("Threads = %d, want 1", opt.Threads)
	}
	if opt.Strand != "plus" {
		t.Fatalf("Strand = %q, want plus", opt.Strand)
	}
	if opt.MaxAccepts != 1 || opt.MaxRejects != 32 {
		t.Fatalf("MaxAccepts/MaxRejects = %d/%d, want 1/32", opt.MaxAccepts, opt.MaxRejects)
	}
}

func TestStatsAddQueryCountsMatches(t *testing.T) {
	s := NewStats()
	s.AddQuery(true)
	s.AddQuery(false)
	s.AddQuery(true)

	if s.Queries != 3 {
		t.Fatalf("Queries = %d, want 3", s.Queries)
	}
	if s.QMatches != 2 {
		t.Fatalf("QMatches = %d, want 2", s.QMatches)
	}
}

func TestStatsAddHitPerTarget(t *testing.T) {
	s := NewStats()
	s.AddHit(5)
	s.AddHit(5)
	s.AddHit(9)

	if s.DBMatched[5] != 2 || s.DBMatched[9] != 1 {
		t.Fatalf("DBMatched = %v, want {5:2, 9:1}", s.DBMatched)
	}
}

func TestStatsAddDiscard(t *testing.T) {
	s := NewStats()
	s.AddDiscard(true)
	s.AddDiscard(false)
	s.AddDiscard(true)

	if s.TooLong != 2 || s.TooShort != 1 {
		t.Fatalf("TooLong=%d TooShort=%d, want 2/1", s.TooLong, s.TooShort)
	}
}

func TestStatsConcurrentUpdatesAreSafe(t *testing.T) {
	s := NewStats()
	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.AddQuery(true)
		}()
	}
	wg.Wait()

	if s.Queries != 100 || s.QMatches != 100 {
		t.Fatalf("Queries=%d QMatches=%d, want 100/100", s.Queries, s.QMatches)
	}
}

func TestNewRunUsesDefaultOptionsWhenNil(t *testing.T) {
	run := NewRun(nil)
	if run.Opt == nil {
		t.Fatal("NewRun(nil) left Opt nil")
	}
	if run.Opt.Threads != 1 {
		t.Fatalf("Opt.Threads = %d, want the default 1", run.Opt.Threads)
	}
	if run.Shared == nil || run.Shared.Stats == nil {
		t.Fatal("NewRun(nil) did not initialize Shared/Stats")
	}
}

func TestNewRunPreservesProvidedOptions(t *testing.T) {
	opt := &Options{Threads: 7}
	run := NewRun(opt)
	if run.Opt != opt {
		t.Fatal("NewRun replaced a non-nil Options pointer")
	}
	if run.Opt.Threads != 7 {
		t.Fatalf("Opt.Threads = %d, want 7", run.Opt.Threads)
	}
}
