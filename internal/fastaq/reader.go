// Package fastaq implements a FASTA/FASTQ record-yielding reader. It is
// modeled directly on utils.ReadInSeq from the reference implementation
// it descends from, extended with gzip/bzip2 autodetection and full
// FASTA/FASTQ framing instead of a fixed-stride reader.
package fastaq

import (
	"bufio"
	"bytes"
	"compress/bzip2"
	"compress/gzip"
	"fmt"
	"io"

	"github.com/kshedden/vsearchgo/internal/seqstore"
)

// Options controls how raw records are turned into seqstore.Records.
type Options struct {
	NoTruncLabels bool
	FastqAscii int // 33 or 64
	FastqQmin int
	FastqQmax int
}

// DefaultOptions mirrors vsearch's own FASTQ defaults.
func DefaultOptions() Options {
	return Options{FastqAscii: 33, FastqQmin: 0, FastqQmax: 41}
}

// Reader yields seqstore.Records one at a time from a FASTA or FASTQ
// stream, autodetecting gzip (1F 8B) and bzip2 (42 5A) magic bytes on
// open.
type Reader struct {
	br *bufio.Reader
	opt Options
	isFastq bool
	detected bool
	closer io.Closer
	next []byte // a pushed-back header line for FASTA framing
	lineno int
}

// Open wraps an io.Reader (typically an *os.File) with compression
// autodetection and returns a Reader.
func Open(rc io.Reader, opt Options) (*Reader, error) {
	br := bufio.NewReaderSize(rc, 1<<20)
	magic, err := br.Peek(2)
	if err != nil && err != io.EOF {
		return nil, fmt.Errorf("fastaq: reading magic bytes: %w", err)
	}
	var reader io.Reader = br
	if len(magic) == 2 {
		switch {
		case magic[0] == 0x1f && magic[1] == 0x8b:
			gz, err := gzip.NewReader(br)
			if err != nil {
				return nil, fmt.Errorf("fastaq: gzip: %w", err)
			}
			reader = gz
		case magic[0] == 0x42 && magic[1] == 0x5a:
			reader = bzip2.NewReader(br)
		}
	}
	return &Reader{br: bufio.NewReaderSize(reader, 1<<20), opt: opt}, nil
}

// Next reads and returns the next record, or io.EOF when the stream is
// exhausted.
func (r *Reader) Next() (*seqstore.Record, error) {
	line, err := r.readLine()
	if err != nil {
		return nil, err
	}
	if len(line) == 0 {
		return nil, io.EOF
	}

	switch line[0] {
	case '>':
		return r.readFasta(line)
	case '@':
		return r.readFastq(line)
	default:
		return nil, fmt.Errorf("fastaq: line %d: expected '>' or '@', got %q", r.lineno, line)
	}
}

func (r *Reader) readLine() ([]byte, error) {
	if r.next != nil {
		l := r.next
		r.next = nil
		return l, nil
	}
	line, err := r.br.ReadBytes('\n')
	if len(line) == 0 && err != nil {
		return nil, err
	}
	r.lineno++
	return bytes.TrimRight(line, "\r\n"), nil
}

func (r *Reader) header(line []byte) (full, label string) {
	full = string(line[1:])
	if r.opt.NoTruncLabels {
		return full, full
	}
	return full, seqstore.Truncate(full)
}

func (r *Reader) readFasta(headerLine []byte) (*seqstore.Record, error) {
	full, label := r.header(headerLine)

	var buf bytes.Buffer
	for {
		line, err := r.readLine()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if len(line) > 0 && (line[0] == '>' || line[0] == '@') {
			r.next = line
			break
		}
		buf.Write(line)
	}

	seq, _, err := seqstore.CleanSeq(buf.Bytes())
	if err != nil {
		return nil, err
	}
	ab, err := seqstore.ParseAbundance(full)
	if err != nil {
		return nil, err
	}
	return &seqstore.Record{Header: full, Label: label, Seq: seq, Abundance: ab}, nil
}

func (r *Reader) readFastq(headerLine []byte) (*seqstore.Record, error) {
	full, label := r.header(headerLine)

	seqLine, err := r.readLine()
	if err != nil {
		return nil, fmt.Errorf("fastaq: truncated FASTQ record at line %d: %w", r.lineno, err)
	}
	plusLine, err := r.readLine()
	if err != nil {
		return nil, fmt.Errorf("fastaq: truncated FASTQ record at line %d: %w", r.lineno, err)
	}
	if len(plusLine) == 0 || plusLine[0] != '+' {
		return nil, fmt.Errorf("fastaq: line %d: expected '+' separator, got %q", r.lineno, plusLine)
	}
	qualLine, err := r.readLine()
	if err != nil {
		return nil, fmt.Errorf("fastaq: truncated FASTQ record at line %d: %w", r.lineno, err)
	}
	if len(qualLine) != len(seqLine) {
		return nil, fmt.Errorf("fastaq: line %d: quality length %d does not match sequence length %d", r.lineno, len(qualLine), len(seqLine))
	}

	for _, q := range qualLine {
		v := int(q) - r.opt.FastqAscii
		if v < r.opt.FastqQmin || v > r.opt.FastqQmax {
			return nil, fmt.Errorf("fastaq: line %d: quality value %d out of range [%d,%d]", r.lineno, v, r.opt.FastqQmin, r.opt.FastqQmax)
		}
	}

	seq, _, err := seqstore.CleanSeq(seqLine)
	if err != nil {
		return nil, err
	}
	if len(seq) != len(seqLine) {
		return nil, fmt.Errorf("fastaq: line %d: FASTQ sequence must not contain stripped characters", r.lineno)
	}
	ab, err := seqstore.ParseAbundance(full)
	if err != nil {
		return nil, err
	}
	qual := make([]byte, len(qualLine))
	copy(qual, qualLine)
	return &seqstore.Record{Header: full, Label: label, Seq: seq, Quality: qual, Abundance: ab}, nil
}
