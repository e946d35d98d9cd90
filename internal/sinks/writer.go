// Package sinks defines the minimal output-sink capability interface:
// FASTA/FASTQ mirrors, UC, BLAST6, and alignment listing, a
// dynamic-dispatch formatter layer in place of a per-format global
// function table.
package sinks

import (
	"bufio"
	"fmt"
	"io"

	"github.com/kshedden/vsearchgo/internal/search"
	"github.com/kshedden/vsearchgo/internal/seqstore"
)

// Writer is the capability every output format implements. A caller
// picks whichever subset of methods its chosen output format needs;
// unsupported combinations are a caller bug, not a runtime error.
type Writer interface {
	WriteFasta(rec *seqstore.Record, sizeAnnotate bool, ee float64, eeAnnotate bool) error
	WriteFastq(rec *seqstore.Record) error
	WriteAln(query *seqstore.Record, target *seqstore.Record, h *search.Hit) error
	WriteUC(query *seqstore.Record, target *seqstore.Record, h *search.Hit) error
	WriteBlast6(query *seqstore.Record, target *seqstore.Record, h *search.Hit) error
	Close() error
}

// FileWriter is the concrete Writer backing every cmd/vsearchgo-*
// entry point: one buffered writer over an *os.File or any other
// io.WriteCloser (including a FIFO from internal/fifoout).
type FileWriter struct {
	w *bufio.Writer
	c io.Closer
	wid int // FASTA/FASTQ line wrap width, 0 = unwrapped
}

// NewFileWriter wraps wc in a buffered Writer with the given line-wrap
// width (0 disables wrapping).
func NewFileWriter(wc io.WriteCloser, wrapWidth int) *FileWriter {
	return &FileWriter{w: bufio.NewWriter(wc), c: wc, wid: wrapWidth}
}

func (f *FileWriter) WriteFasta(rec *seqstore.Record, sizeAnnotate bool, ee float64, eeAnnotate bool) error {
	header := rec.Header
	if sizeAnnotate {
		header = seqstore.WithSize(header, rec.Abundance)
	}
	if eeAnnotate {
		header = fmt.Sprintf("%s;ee=%.4f;", header, ee)
	}
	if _, err := fmt.Fprintf(f.w, ">%s\n", header); err != nil {
		return err
	}
	return f.writeWrapped(rec.Seq)
}

func (f *FileWriter) WriteFastq(rec *seqstore.Record) error {
	if _, err := fmt.Fprintf(f.w, "@%s\n%s\n+\n%s\n", rec.Header, rec.Seq, rec.Quality); err != nil {
		return err
	}
	return nil
}

// WriteAln renders a short human-readable summary of one alignment:
// query label, target label, CIGAR and percent identity.
func (f *FileWriter) WriteAln(query, target *seqstore.Record, h *search.Hit) error {
	_, err := fmt.Fprintf(f.w, "Query %s\nTarget %s\nCIGAR %s\nId %.1f%%\n\n",
		query.Label, target.Label, h.Cigar, h.ID*100)
	return err
}

// WriteUC renders one UC-format line: H for an accepted hit, N when h is
// nil or not accepted. It writes no S (cluster seed) records.
func (f *FileWriter) WriteUC(query, target *seqstore.Record, h *search.Hit) error {
	rtype := "H"
	if h == nil || !h.Accepted {
		rtype = "N"
	}
	if h == nil {
		_, err := fmt.Fprintf(f.w, "%s\t*\t%d\t*\t*\t*\t*\t*\t%s\t*\n", rtype, len(query.Seq), query.Label)
		return err
	}
	_, err := fmt.Fprintf(f.w, "%s\t%d\t%d\t%.1f\t%s\t0\t0\t%s\t%s\t%s\n",
		rtype, h.TargetIndex, len(query.Seq), h.ID*100, strandChar(h.Strand), h.Cigar, query.Label, target.Label)
	return err
}

// WriteBlast6 renders one BLAST6 tabular line.
func (f *FileWriter) WriteBlast6(query, target *seqstore.Record, h *search.Hit) error {
	_, err := fmt.Fprintf(f.w, "%s\t%s\t%.1f\t%d\t%d\t%d\t1\t%d\t1\t%d\t0\t%d\n",
		query.Label, target.Label, h.ID*100, h.Trim.InternalAlnLength,
		h.Mismatches, h.Indels, len(query.Seq), len(target.Seq), h.Score)
	return err
}

func (f *FileWriter) Close() error {
	if err := f.w.Flush(); err != nil {
		return err
	}
	return f.c.Close()
}

func (f *FileWriter) writeWrapped(seq []byte) error {
	if f.wid <= 0 {
		_, err := fmt.Fprintf(f.w, "%s\n", seq)
		return err
	}
	for i := 0; i < len(seq); i += f.wid {
		end := i + f.wid
		if end > len(seq) {
			end = len(seq)
		}
		if _, err := fmt.Fprintf(f.w, "%s\n", seq[i:end]); err != nil {
			return err
		}
	}
	return nil
}

func strandChar(s search.Strand) string {
	if s == search.Minus {
		return "-"
	}
	return "+"
}
