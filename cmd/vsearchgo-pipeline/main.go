// Command vsearchgo-pipeline chains dereplication, clustering and
// search into one external-process workflow, in a scipipe network
// style: each stage is an OS process, its stdout or flagged output file
// feeding the next stage's input flag.
package main

import (
	"flag"
	"fmt"
	"os"
	"path"

	"github.com/scipipe/scipipe"
)

func main() {
	inPath := flag.String("in", "", "input FASTA/FASTQ of reads to dereplicate, cluster and search")
	dbPath := flag.String("db", "", "target database to search cluster centroids against")
	outPath := flag.String("out", "", "final alignment listing output path")
	tmpDir := flag.String("tmpdir", "", "directory for intermediate files (default: a fresh directory under os.TempDir)")
	id := flag.Float64("id", 0.97, "minimum identity for both clustering and search")
	threads := flag.String("threads", "1", "worker goroutines for the cluster and search stages")
	flag.Parse()

	if *inPath == "" || *dbPath == "" || *outPath == "" {
		fmt.Fprintln(os.Stderr, "vsearchgo-pipeline: -in, -db and -out are required")
		os.Exit(2)
	}

	dir := *tmpDir
	if dir == "" {
		d, err := os.MkdirTemp("", "vsearchgo-pipeline-")
		if err != nil {
			fmt.Fprintf(os.Stderr, "vsearchgo-pipeline: %v\n", err)
			os.Exit(1)
		}
		dir = d
	}

	wf := scipipe.NewWorkflow("vsearchgo-pipeline", 3)

	derep := wf.NewProc("derep", fmt.Sprintf("vsearchgo-derep -in %s -out {os:dereped}", *inPath))
	derep.SetPathStatic("dereped", path.Join(dir, "dereped.fasta"))

	clust := wf.NewProc("cluster", fmt.Sprintf("vsearchgo-cluster -in {i:clusterIn} -threads %s -id %.4f -order fast -centroids {os:centroids}", *threads, *id))
	clust.SetPathStatic("centroids", path.Join(dir, "centroids.fasta"))
	clust.In("clusterIn").Connect(derep.Out("dereped"))

	search := wf.NewProc("search", fmt.Sprintf("vsearchgo-search -db %s -query {i:searchIn} -threads %s -id %.4f -alnout {os:alnout}", *dbPath, *threads, *id))
	search.SetPathStatic("alnout", *outPath)
	search.In("searchIn").Connect(clust.Out("centroids"))

	snk := scipipe.NewSink("snk")
	snk.Connect(search.Out("alnout"))

	wf.AddProcs(derep, clust, search)
	wf.SetDriver(snk)
	wf.Run()
}
