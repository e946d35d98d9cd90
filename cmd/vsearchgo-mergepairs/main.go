// Command vsearchgo-mergepairs merges forward/reverse FASTQ read pairs
// through the chunked producer/processor/consumer pipeline.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/kshedden/vsearchgo/internal/cmdutil"
	"github.com/kshedden/vsearchgo/internal/fastaq"
	"github.com/kshedden/vsearchgo/internal/mergepairs"
	"github.com/kshedden/vsearchgo/internal/runctx"
	"github.com/kshedden/vsearchgo/internal/seqstore"
	"github.com/kshedden/vsearchgo/internal/sinks"
)

func main() {
	fwdPath := flag.String("forward", "", "forward-read FASTQ (.sz for snappy)")
	revPath := flag.String("reverse", "", "reverse-read FASTQ (.sz for snappy)")
	mergedOut := flag.String("merged", "", "merged-read FASTQ output path")
	notmergedFwdOut := flag.String("notmerged-fwd", "", "unmerged forward reads output path")
	notmergedRevOut := flag.String("notmerged-rev", "", "unmerged reverse reads output path")
	threads := flag.Int("threads", 1, "worker goroutines")
	minOvlen := flag.Int("minovlen", 10, "minimum overlap length")
	maxDiffs := flag.Int("maxdiffs", 10, "maximum mismatched overlap columns")
	allowStagger := flag.Bool("allowmergestagger", false, "allow a staggered (3' overhanging) overlap")
	maxEE := flag.Float64("maxee", 1e6, "maximum expected error in the merged read")
	doProfile := flag.Bool("profile", false, "write a CPU profile to the current directory")
	flag.Parse()

	defer cmdutil.StartProfile(*doProfile)()

	if *fwdPath == "" || *revPath == "" || *mergedOut == "" {
		fmt.Fprintln(os.Stderr, "vsearchgo-mergepairs: -forward, -reverse and -merged are required")
		os.Exit(2)
	}

	opt := runctx.DefaultOptions()
	opt.Threads = *threads
	run := runctx.NewRun(opt)

	fwdFile, err := cmdutil.OpenInput(*fwdPath)
	if err != nil {
		run.Fatal("vsearchgo-mergepairs: reading -forward: %v", err)
	}
	defer fwdFile.Close()
	revFile, err := cmdutil.OpenInput(*revPath)
	if err != nil {
		run.Fatal("vsearchgo-mergepairs: reading -reverse: %v", err)
	}
	defer revFile.Close()

	fopt := fastaq.Options{FastqAscii: opt.FastqAscii, FastqQmin: opt.FastqQmin, FastqQmax: opt.FastqQmax}
	fwdRd, err := fastaq.Open(fwdFile, fopt)
	if err != nil {
		run.Fatal("vsearchgo-mergepairs: opening -forward: %v", err)
	}
	revRd, err := fastaq.Open(revFile, fopt)
	if err != nil {
		run.Fatal("vsearchgo-mergepairs: opening -reverse: %v", err)
	}

	mergedFile, err := cmdutil.CreateOutput(*mergedOut)
	if err != nil {
		run.Fatal("vsearchgo-mergepairs: creating -merged: %v", err)
	}
	mergedWriter := sinks.NewFileWriter(mergedFile, 0)
	defer mergedWriter.Close()

	var notFwdWriter, notRevWriter *sinks.FileWriter
	if *notmergedFwdOut != "" {
		f, err := cmdutil.CreateOutput(*notmergedFwdOut)
		if err != nil {
			run.Fatal("vsearchgo-mergepairs: creating -notmerged-fwd: %v", err)
		}
		notFwdWriter = sinks.NewFileWriter(f, 0)
		defer notFwdWriter.Close()
	}
	if *notmergedRevOut != "" {
		f, err := cmdutil.CreateOutput(*notmergedRevOut)
		if err != nil {
			run.Fatal("vsearchgo-mergepairs: creating -notmerged-rev: %v", err)
		}
		notRevWriter = sinks.NewFileWriter(f, 0)
		defer notRevWriter.Close()
	}

	mopt := mergepairs.DefaultOptions()
	mopt.MinOvlen = *minOvlen
	mopt.MaxDiffs = *maxDiffs
	mopt.AllowMergeStagger = *allowStagger
	mopt.MaxEE = *maxEE
	mopt.AsciiBase = opt.FastqAscii

	nextPair := func() (fwd, rev *seqstore.Record, ok bool) {
		run.Shared.InputMu.Lock()
		defer run.Shared.InputMu.Unlock()

		f, err := fwdRd.Next()
		if err == io.EOF {
			return nil, nil, false
		}
		if err != nil {
			run.Fatal("vsearchgo-mergepairs: reading forward record: %v", err)
		}
		r, err := revRd.Next()
		if err == io.EOF {
			run.Fatal("vsearchgo-mergepairs: reverse file has fewer records than forward file")
		}
		if err != nil {
			run.Fatal("vsearchgo-mergepairs: reading reverse record: %v", err)
		}
		return f, r, true
	}

	merged, notmerged := 0, 0
	pipe := mergepairs.NewPipeline(run, mopt)
	pipe.Run(nextPair, func(m mergepairs.Merged) {
		if m.Reason != mergepairs.Ok {
			notmerged++
			if notFwdWriter != nil {
				if err := notFwdWriter.WriteFastq(m.Fwd); err != nil {
					run.Fatal("vsearchgo-mergepairs: writing notmerged-fwd record: %v", err)
				}
			}
			if notRevWriter != nil {
				if err := notRevWriter.WriteFastq(m.Rev); err != nil {
					run.Fatal("vsearchgo-mergepairs: writing notmerged-rev record: %v", err)
				}
			}
			return
		}
		merged++
		rec := &seqstore.Record{Header: m.Header, Label: m.Header, Seq: m.Seq, Quality: m.Quality}
		if err := mergedWriter.WriteFastq(rec); err != nil {
			run.Fatal("vsearchgo-mergepairs: writing merged record: %v", err)
		}
	})

	run.Log.Printf("%d pairs merged, %d not merged", merged, notmerged)
}
