package sinks

import (
	"bytes"
	"strings"
	"testing"

	"github.com/kshedden/vsearchgo/internal/search"
	"github.com/kshedden/vsearchgo/internal/seqstore"
)

// nopCloser adapts a bytes.Buffer to io.WriteCloser for these tests.
type nopCloser struct {
	*bytes.Buffer
	closed bool
}

func (n *nopCloser) Close() error {
	n.closed = true
	return nil
}

func TestFileWriterWriteFastaUnwrapped(t *testing.T) {
	buf := &nopCloser{Buffer: &bytes.Buffer{}}
	w := NewFileWriter(buf, 0)

	rec := &seqstore.Record{Header: "read1", Seq: []byte("ACGTACGT"), Abundance: 3}
	if err := w.WriteFasta(rec, false, 0, false); err != nil {
		t.Fatalf("WriteFasta: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	want := ">read1\nACGTACGT\n"
	if buf.String() != want {
		t.Fatalf("output = %q, want %q", buf.String(), want)
	}
	if !buf.closed {
		t.Fatal("Close did not close the underlying writer")
	}
}

func TestFileWriterWriteFastaWithSizeAndEEAnnotation(t *testing.T) {
	buf := &nopCloser{Buffer: &bytes.Buffer{}}
	w := NewFileWriter(buf, 0)

	rec := &seqstore.Record{Header: "read1", Seq: []byte("ACGT"), Abundance: 5}
	if err := w.WriteFasta(rec, true, 0.25, true); err != nil {
		t.Fatalf("WriteFasta: %v", err)
	}
	w.Close()

	got := buf.String()
	if !strings.Contains(got, "size=5") {
		t.Fatalf("output %q missing size annotation", got)
	}
	if !strings.Contains(got, "ee=0.2500") {
		t.Fatalf("output %q missing ee annotation", got)
	}
}

func TestFileWriterWriteFastaWraps(t *testing.T) {
	buf := &nopCloser{Buffer: &bytes.Buffer{}}
	w := NewFileWriter(buf, 4)

	rec := &seqstore.Record{Header: "r", Seq: []byte("ACGTACGTAC")}
	if err := w.WriteFasta(rec, false, 0, false); err != nil {
		t.Fatalf("WriteFasta: %v", err)
	}
	w.Close()

	want := ">r\nACGT\nACGT\nAC\n"
	if buf.String() != want {
		t.Fatalf("output = %q, want %q", buf.String(), want)
	}
}

func TestFileWriterWriteFastq(t *testing.T) {
	buf := &nopCloser{Buffer: &bytes.Buffer{}}
	w := NewFileWriter(buf, 0)

	rec := &seqstore.Record{Header: "r", Seq: []byte("ACGT"), Quality: []byte("IIII")}
	if err := w.WriteFastq(rec); err != nil {
		t.Fatalf("WriteFastq: %v", err)
	}
	w.Close()

	want := "@r\nACGT\n+\nIIII\n"
	if buf.String() != want {
		t.Fatalf("output = %q, want %q", buf.String(), want)
	}
}

func TestFileWriterWriteUCNoHit(t *testing.T) {
	buf := &nopCloser{Buffer: &bytes.Buffer{}}
	w := NewFileWriter(buf, 0)

	query := &seqstore.Record{Header: "q", Label: "q", Seq: []byte("ACGT")}
	if err := w.WriteUC(query, nil, nil); err != nil {
		t.Fatalf("WriteUC: %v", err)
	}
	w.Close()

	if !strings.HasPrefix(buf.String(), "N\t") {
		t.Fatalf("output = %q, want a no-hit N record", buf.String())
	}
}

func TestFileWriterWriteUCHit(t *testing.T) {
	buf := &nopCloser{Buffer: &bytes.Buffer{}}
	w := NewFileWriter(buf, 0)

	query := &seqstore.Record{Header: "q", Label: "q", Seq: []byte("ACGT")}
	target := &seqstore.Record{Header: "t", Label: "t", Seq: []byte("ACGT")}
	h := &search.Hit{TargetIndex: 0, Strand: search.Plus, ID: 1.0, Cigar: "4M", Accepted: true}

	if err := w.WriteUC(query, target, h); err != nil {
		t.Fatalf("WriteUC: %v", err)
	}
	w.Close()

	if !strings.HasPrefix(buf.String(), "H\t") {
		t.Fatalf("output = %q, want an accepted-hit H record", buf.String())
	}
	if !strings.Contains(buf.String(), "+") {
		t.Fatalf("output = %q, want a plus-strand marker", buf.String())
	}
}

func TestFileWriterWriteBlast6(t *testing.T) {
	buf := &nopCloser{Buffer: &bytes.Buffer{}}
	w := NewFileWriter(buf, 0)

	query := &seqstore.Record{Header: "q", Label: "q", Seq: []byte("ACGTACGT")}
	target := &seqstore.Record{Header: "t", Label: "t", Seq: []byte("ACGTACGT")}
	h := &search.Hit{ID: 1.0, Score: 16}

	if err := w.WriteBlast6(query, target, h); err != nil {
		t.Fatalf("WriteBlast6: %v", err)
	}
	w.Close()

	if !strings.HasPrefix(buf.String(), "q\tt\t100.0\t") {
		t.Fatalf("output = %q, want a BLAST6 line starting q\\tt\\t100.0", buf.String())
	}
}

func TestFileWriterWriteAln(t *testing.T) {
	buf := &nopCloser{Buffer: &bytes.Buffer{}}
	w := NewFileWriter(buf, 0)

	query := &seqstore.Record{Header: "q", Label: "q"}
	target := &seqstore.Record{Header: "t", Label: "t"}
	h := &search.Hit{Cigar: "4M", ID: 1.0}

	if err := w.WriteAln(query, target, h); err != nil {
		t.Fatalf("WriteAln: %v", err)
	}
	w.Close()

	got := buf.String()
	if !strings.Contains(got, "Query q") || !strings.Contains(got, "Target t") || !strings.Contains(got, "CIGAR 4M") {
		t.Fatalf("output = %q, missing expected fields", got)
	}
}
