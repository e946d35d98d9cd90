// Command vsearchgo-search runs the k-mer indexed similarity search
// pipeline: load a target database, index it, and search every query
// record against it, emitting alignment/UC/BLAST6 records and an
// optional OTU table.
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"regexp"
	"time"

	"github.com/kshedden/vsearchgo/internal/align"
	"github.com/kshedden/vsearchgo/internal/cmdutil"
	"github.com/kshedden/vsearchgo/internal/fastaq"
	"github.com/kshedden/vsearchgo/internal/kmerindex"
	"github.com/kshedden/vsearchgo/internal/mask"
	"github.com/kshedden/vsearchgo/internal/otutable"
	"github.com/kshedden/vsearchgo/internal/runctx"
	"github.com/kshedden/vsearchgo/internal/search"
	"github.com/kshedden/vsearchgo/internal/seqstore"
	"github.com/kshedden/vsearchgo/internal/sinks"
)

func main() {
	dbPath := flag.String("db", "", "target database FASTA/FASTQ (.sz for snappy)")
	queryPath := flag.String("query", "", "query FASTA/FASTQ (.sz for snappy)")
	alnout := flag.String("alnout", "", "human-readable alignment output path")
	ucout := flag.String("uc", "", "UC-format output path")
	blast6out := flag.String("blast6out", "", "BLAST6-format output path")
	biomout := flag.String("biomout", "", "BIOM 1.0 OTU table output path")
	sharedout := flag.String("otutabout", "", "mothur shared-format OTU table output path")
	sampleRe := flag.String("sample-regex", `^(\S+?)\.`, "regex with one capture group extracting sample id from query headers")
	otuRe := flag.String("otu-regex", `^(\S+)`, "regex with one capture group extracting OTU id from target headers")

	threads := flag.Int("threads", 1, "worker goroutines")
	wordlength := flag.Int("wordlength", 8, "k-mer length for the inverted index")
	id := flag.Float64("id", 0.97, "minimum identity to accept a hit")
	weakId := flag.Float64("weak_id", 0.90, "identity floor below which a hit is rejected rather than merely weak")
	maxAccepts := flag.Int("maxaccepts", 1, "stop after this many accepted hits per query/strand")
	maxRejects := flag.Int("maxrejects", 32, "stop after this many rejected hits per query/strand")
	maxHits := flag.Int("maxhits", 0, "cap on emitted hits per query after merge (0 = unbounded)")
	iddef := flag.Int("iddef", 2, "identity definition (0-4)")
	strand := flag.String("strand", "plus", "plus or both")
	self := flag.Bool("self", false, "reject a hit whose target equals the query by index")
	selfid := flag.Bool("selfid", false, "reject a hit whose target equals the query by header")
	exact := flag.Bool("exact", false, "use exact full-length matching instead of the k-mer search pipeline")
	doProfile := flag.Bool("profile", false, "write a CPU profile to the current directory")
	flag.Parse()

	defer cmdutil.StartProfile(*doProfile)()

	if *dbPath == "" || *queryPath == "" {
		fmt.Fprintln(os.Stderr, "vsearchgo-search: -db and -query are required")
		os.Exit(2)
	}

	opt := runctx.DefaultOptions()
	opt.Threads = *threads
	opt.Wordlength = *wordlength
	opt.KmerLength = *wordlength
	opt.OptId = *id
	opt.WeakId = *weakId
	opt.MaxAccepts = *maxAccepts
	opt.MaxRejects = *maxRejects
	opt.MaxHits = *maxHits
	opt.IdDef = *iddef
	opt.Strand = *strand
	opt.Self = *self
	opt.SelfId = *selfid
	run := runctx.NewRun(opt)

	targets, err := loadStore(*dbPath, opt)
	if err != nil {
		run.Fatal("vsearchgo-search: loading db: %v", err)
	}
	queries, err := loadStore(*queryPath, opt)
	if err != nil {
		run.Fatal("vsearchgo-search: loading query: %v", err)
	}

	openWriter := func(path string) *sinks.FileWriter {
		if path == "" {
			return nil
		}
		wc, err := cmdutil.CreateOutput(path)
		if err != nil {
			run.Fatal("vsearchgo-search: creating %s: %v", path, err)
		}
		return sinks.NewFileWriter(wc, 0)
	}
	alnWriter := openWriter(*alnout)
	ucWriter := openWriter(*ucout)
	blast6Writer := openWriter(*blast6out)
	for _, w := range []*sinks.FileWriter{alnWriter, ucWriter, blast6Writer} {
		if w != nil {
			defer w.Close()
		}
	}

	var table *otutable.Table
	if *biomout != "" || *sharedout != "" {
		sre, err := regexp.Compile(*sampleRe)
		if err != nil {
			run.Fatal("vsearchgo-search: sample-regex: %v", err)
		}
		ore, err := regexp.Compile(*otuRe)
		if err != nil {
			run.Fatal("vsearchgo-search: otu-regex: %v", err)
		}
		table = otutable.New(sre, ore)
	}

	emit := func(query *seqstore.Record, hits []search.Hit) {
		for _, h := range hits {
			target := targets.At(h.TargetIndex)
			if alnWriter != nil {
				alnWriter.WriteAln(query, target, &h)
			}
			if ucWriter != nil {
				ucWriter.WriteUC(query, target, &h)
			}
			if blast6Writer != nil {
				blast6Writer.WriteBlast6(query, target, &h)
			}
			if table != nil && h.Accepted {
				table.Add(query.Header, target.Header, query.Abundance)
			}
		}
	}

	if *exact {
		ei := search.BuildExactIndex(targets, true)
		for i := 0; i < queries.Len(); i++ {
			emit(queries.At(i), ei.SearchExact(queries.At(i)))
		}
	} else {
		idx := kmerindex.New(opt.Wordlength)
		for i := 0; i < targets.Len(); i++ {
			if err := idx.Add(i, targets.At(i).Seq); err != nil {
				run.Fatal("vsearchgo-search: indexing target %d: %v", i, err)
			}
		}

		engine := &search.Engine{
			Run:          run,
			Index:        idx,
			Store:        targets,
			Counter:      kmerindex.NewCounter(targets.Len()),
			MaskMode:     mask.Dust,
			HardMask:     false,
			Scores:       align.DefaultScores(),
			GapPenalties: align.DefaultGapPenalties(),
		}
		search.RunPool(engine, queries, emit)
	}

	if table != nil {
		if *biomout != "" {
			f, err := cmdutil.CreateOutput(*biomout)
			if err != nil {
				run.Fatal("vsearchgo-search: creating biomout: %v", err)
			}
			if err := table.WriteBIOM(f, "vsearchgo", time.Now().UTC().Format(time.RFC3339)); err != nil {
				run.Fatal("vsearchgo-search: writing biomout: %v", err)
			}
			f.Close()
		}
		if *sharedout != "" {
			f, err := cmdutil.CreateOutput(*sharedout)
			if err != nil {
				run.Fatal("vsearchgo-search: creating otutabout: %v", err)
			}
			if err := table.WriteShared(f); err != nil {
				run.Fatal("vsearchgo-search: writing otutabout: %v", err)
			}
			f.Close()
		}
	}

	log.Printf("vsearchgo-search: %d queries, %d matched", run.Shared.Stats.Queries, run.Shared.Stats.QMatches)
}

func loadStore(path string, opt *runctx.Options) (*seqstore.Store, error) {
	r, err := cmdutil.OpenInput(path)
	if err != nil {
		return nil, err
	}
	defer r.Close()

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
