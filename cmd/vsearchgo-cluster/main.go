// Command vsearchgo-cluster runs greedy centroid clustering over a
// FASTA/FASTQ file, in one of the three input-order variants.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/kshedden/vsearchgo/internal/cluster"
	"github.com/kshedden/vsearchgo/internal/cmdutil"
	"github.com/kshedden/vsearchgo/internal/fastaq"
	"github.com/kshedden/vsearchgo/internal/runctx"
	"github.com/kshedden/vsearchgo/internal/seqstore"
	"github.com/kshedden/vsearchgo/internal/sinks"
)

func main() {
	input := flag.String("in", "", "input FASTA/FASTQ (.sz for snappy)")
	centroidsOut := flag.String("centroids", "", "output FASTA of cluster centroids")
	ucOut := flag.String("uc", "", "output UC cluster listing")
	order := flag.String("order", "fast", "fast, size, or smallmem")
	userSort := flag.Bool("usersort", false, "trust input order for smallmem without checking")
	id := flag.Float64("id", 0.97, "minimum identity to join an existing cluster")
	threads := flag.Int("threads", 1, "worker goroutines")
	wordlength := flag.Int("wordlength", 8, "k-mer length for the inverted index")
	maxRejects := flag.Int("maxrejects", 32, "stop after this many rejected candidates per record")
	doProfile := flag.Bool("profile", false, "write a CPU profile to the current directory")
	flag.Parse()

	defer cmdutil.StartProfile(*doProfile)()

	if *input == "" {
		fmt.Fprintln(os.Stderr, "vsearchgo-cluster: -in is required")
		os.Exit(2)
	}

	opt := runctx.DefaultOptions()
	opt.Threads = *threads
	opt.Wordlength = *wordlength
	opt.OptId = *id
	opt.MaxAccepts = 1
	opt.MaxRejects = *maxRejects
	run := runctx.NewRun(opt)

	in, err := cmdutil.OpenInput(*input)
	if err != nil {
		run.Fatal("vsearchgo-cluster: reading -in: %v", err)
	}
	defer in.Close()

	store, err := loadAll(in, opt)
	if err != nil {
		run.Fatal("vsearchgo-cluster: loading records: %v", err)
	}

	var inputOrder cluster.InputOrder
	switch *order {
	case "fast":
		inputOrder = cluster.ClusterFast
	case "size":
		inputOrder = cluster.ClusterSize
	case "smallmem":
		inputOrder = cluster.ClusterSmallmem
	default:
		run.Fatal("vsearchgo-cluster: unknown -order %q", *order)
	}

	result, err := cluster.Run(run, store, inputOrder, *userSort)
	if err != nil {
		run.Fatal("vsearchgo-cluster: %v", err)
	}

	if *centroidsOut != "" {
		out, err := cmdutil.CreateOutput(*centroidsOut)
		if err != nil {
			run.Fatal("vsearchgo-cluster: creating -centroids: %v", err)
		}
		w := sinks.NewFileWriter(out, 0)
		for _, c := range result.Clusters {
			rec := store.At(c.Centroid)
			rec.Abundance = int64(len(c.Members))
			if err := w.WriteFasta(rec, true, 0, false); err != nil {
				run.Fatal("vsearchgo-cluster: writing centroid: %v", err)
			}
		}
		w.Close()
	}

	if *ucOut != "" {
		out, err := cmdutil.CreateOutput(*ucOut)
		if err != nil {
			run.Fatal("vsearchgo-cluster: creating -uc: %v", err)
		}
		for slot, c := range result.Clusters {
			centroid := store.At(c.Centroid)
			for _, m := range c.Members {
				member := store.At(m)
				rtype := "H"
				if m == c.Centroid {
					rtype = "S"
				}
				fmt.Fprintf(out, "%s\t%d\t%d\t*\t*\t*\t*\t*\t%s\t%s\n", rtype, slot, len(member.Seq), member.Label, centroid.Label)
			}
		}
		out.Close()
	}

	run.Log.Printf("%d clusters, %d singletons, min %d, max %d, mean %.2f",
		len(result.Clusters), result.Singletons, result.MinSize, result.MaxSize, result.MeanSize)
}

func loadAll(r io.Reader, opt *runctx.Options) (*seqstore.Store, error) {
	fopt := fastaq.Options{
		NoTruncLabels: opt.NoTruncLabels,
		FastqAscii:    opt.FastqAscii,
		FastqQmin:     opt.FastqQmin,
		FastqQmax:     opt.FastqQmax,
	}
	rd, err := fastaq.Open(r, fopt)
	if err != nil {
		return nil, err
	}
	store := seqstore.New(opt.MinSeqLength, opt.MaxSeqLength)
	for {
		rec, err := rd.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		store.Add(rec)
	}
	return store, nil
}
