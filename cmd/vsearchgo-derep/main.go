// Command vsearchgo-derep runs the two-pass small-memory dereplication
// and rereplication operations over a FASTA/FASTQ file.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/kshedden/vsearchgo/internal/cmdutil"
	"github.com/kshedden/vsearchgo/internal/derep"
	"github.com/kshedden/vsearchgo/internal/fastaq"
	"github.com/kshedden/vsearchgo/internal/seqstore"
	"github.com/kshedden/vsearchgo/internal/sinks"
)

func main() {
	input := flag.String("in", "", "input FASTA/FASTQ (.sz for snappy)")
	output := flag.String("out", "", "output FASTA (.sz for snappy)")
	rereplicate := flag.Bool("rereplicate", false, "expand each record by its size= abundance instead of dereplicating")
	sizeIn := flag.Bool("sizein", false, "trust size= annotations as starting abundance")
	sizeOut := flag.Bool("sizeout", true, "annotate output records with merged size=")
	strand := flag.String("strand", "plus", "plus or both")
	minUniqueSize := flag.Int64("minuniquesize", 0, "discard clusters below this merged abundance")
	maxUniqueSize := flag.Int64("maxuniquesize", 0, "discard clusters above this merged abundance (0 = unbounded)")
	strict := flag.Bool("strict", false, "verify byte equality on a fingerprint collision")
	doProfile := flag.Bool("profile", false, "write a CPU profile to the current directory")
	flag.Parse()

	defer cmdutil.StartProfile(*doProfile)()

	if *input == "" || *output == "" {
		fmt.Fprintln(os.Stderr, "vsearchgo-derep: -in and -out are required")
		os.Exit(2)
	}

	in, err := cmdutil.OpenInput(*input)
	if err != nil {
		fatal("reading -in: %v", err)
	}
	defer in.Close()

	recs, err := derep.LoadAll(in, fastaq.DefaultOptions())
	if err != nil {
		fatal("loading records: %v", err)
	}

	out, err := cmdutil.CreateOutput(*output)
	if err != nil {
		fatal("creating -out: %v", err)
	}
	defer out.Close()
	w := sinks.NewFileWriter(out, 0)
	defer w.Close()

	if *rereplicate {
		err = derep.Rereplicate(recs, func(rec *seqstore.Record, copyIndex int64) error {
			return w.WriteFasta(rec, false, 0, false)
		})
	} else {
		opt := derep.Options{
			SizeIn:        *sizeIn,
			SizeOut:       *sizeOut,
			Strand:        *strand,
			MinUniqueSize: *minUniqueSize,
			MaxUniqueSize: *maxUniqueSize,
			Strict:        *strict,
		}
		err = derep.Run(recs, opt, func(rec *seqstore.Record, mergedSize int64) error {
			rec.Abundance = mergedSize
			return w.WriteFasta(rec, opt.SizeOut, 0, false)
		})
	}
	if err != nil {
		fatal("%v", err)
	}
}

func fatal(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "vsearchgo-derep: "+format+"\n", args...)
	os.Exit(1)
}
