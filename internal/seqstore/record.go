// Package seqstore owns the dense, loaded-reference record table: packed
// headers and sequences, per-record abundance parsed from the header's
// size=N annotation, and lookup by stable record index.
package seqstore

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// sizeRe matches a size=N annotation bounded by ';' or string edges, per
// "(^|;)size=([0-9]+)(;|$)".
var sizeRe = regexp.MustCompile(`(^|;)size=([0-9]+)(;|$)`)

// Record is one loaded sequence: a header, its nucleotide letters, an
// optional per-base FASTQ quality track, and the abundance parsed out of
// the header. Index is stable after load.
type Record struct {
	Index int
	Header string // full header, no truncation applied by this type
	Label string // header truncated at first whitespace, unless disabled
	Seq []byte
	Quality []byte // nil for FASTA records
	Abundance int64
}

// ParseAbundance extracts size=N from header and returns it, or 1 if no
// annotation is present. A zero or negative size is an error.
func ParseAbundance(header string) (int64, error) {
	m := sizeRe.FindStringSubmatch(header)
	if m == nil {
		return 1, nil
	}
	n, err := strconv.ParseInt(m[2], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("seqstore: malformed size= annotation in header %q: %w", header, err)
	}
	if n <= 0 {
		return 0, fmt.Errorf("seqstore: size= annotation must be positive, got %d in header %q", n, header)
	}
	return n, nil
}

// StripSize removes any size=N fragment from header, collapsing the
// adjacent ';' the same way the fragment's boundaries were matched.
func StripSize(header string) string {
	return sizeRe.ReplaceAllStringFunc(header, func(m string) string {
		// A fragment bounded by ';' on either (or both) sides leaves a
		// single ';' behind.
		if strings.HasPrefix(m, ";") || strings.HasSuffix(m, ";") {
			return ";"
		}
		return ""
	})
}

// WithSize removes any existing size= fragment and appends ";size=N;",
// so StripSize(WithSize(h, n)) reproduces the original stripped header.
func WithSize(header string, n int64) string {
	stripped := StripSize(header)
	stripped = strings.TrimRight(stripped, ";")
	if stripped == "" {
		return fmt.Sprintf("size=%d;", n)
	}
	return fmt.Sprintf("%s;size=%d;", stripped, n)
}

// Truncate returns the header up to (not including) the first whitespace
// rune, the usual FASTA/FASTQ label-truncation rule.
func Truncate(header string) string {
	if i := strings.IndexAny(header, " \t"); i >= 0 {
		return header[:i]
	}
	return header
}
