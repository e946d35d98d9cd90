// Package otutable accumulates (sample, otu) -> count cells from
// search_exact hits and writes them out as BIOM 1.0 JSON or mothur
// "shared" tables.
package otutable

import (
	"encoding/json"
	"fmt"
	"io"
	"regexp"
	"sort"
)

// Table accumulates counts for a sparse (sample, otu) matrix, keyed by
// regex-extracted labels from query and target headers.
type Table struct {
	sampleRe *regexp.Regexp
	otuRe *regexp.Regexp

	samples []string
	otus []string
	sampleIdx map[string]int
	otuIdx map[string]int

	cells map[[2]int]int64
}

// New builds an accumulator that extracts the sample label from a query
// header and the OTU label from a target header using the given
// regexes (each must have exactly one capture group).
func New(sampleRe, otuRe *regexp.Regexp) *Table {
	return &Table{
		sampleRe: sampleRe,
		otuRe: otuRe,
		sampleIdx: make(map[string]int),
		otuIdx: make(map[string]int),
		cells: make(map[[2]int]int64),
	}
}

// Add records one hit of queryHeader (sample source) against
// targetHeader (otu source), weighted by abundance.
func (t *Table) Add(queryHeader, targetHeader string, abundance int64) {
	sample := extract(t.sampleRe, queryHeader)
	otu := extract(t.otuRe, targetHeader)
	if sample == "" || otu == "" {
		return
	}

	si, ok := t.sampleIdx[sample]
	if !ok {
		si = len(t.samples)
		t.samples = append(t.samples, sample)
		t.sampleIdx[sample] = si
	}
	oi, ok := t.otuIdx[otu]
	if !ok {
		oi = len(t.otus)
		t.otus = append(t.otus, otu)
		t.otuIdx[otu] = oi
	}
	t.cells[[2]int{si, oi}] += abundance
}

func extract(re *regexp.Regexp, header string) string {
	m := re.FindStringSubmatch(header)
	if len(m) < 2 {
		return ""
	}
	return m[1]
}

// biomDoc mirrors the subset of the BIOM 1.0 schema this engine
// produces: a sparse OTU table with row = OTU, column = sample.
type biomDoc struct {
	ID interface{} `json:"id"`
	Format string `json:"format"`
	FormatURL string `json:"format_url"`
	Type string `json:"type"`
	GeneratedBy string `json:"generated_by"`
	Date string `json:"date"`
	Rows []biomEntry `json:"rows"`
	Columns []biomEntry `json:"columns"`
	MatrixType string `json:"matrix_type"`
	MatrixElementType string `json:"matrix_element_type"`
	Shape [2]int `json:"shape"`
	Data [][3]float64 `json:"data"`
}

type biomEntry struct {
	ID string `json:"id"`
	Metadata interface{} `json:"metadata"`
}

// WriteBIOM writes the accumulated table as BIOM 1.0 JSON, rows = OTUs,
// columns = samples.
func (t *Table) WriteBIOM(w io.Writer, generatedBy, date string) error {
	doc := biomDoc{
		ID: nil,
		Format: "Biological Observation Matrix 1.0.0",
		FormatURL: "http://biom-format.org",
		Type: "OTU table",
		GeneratedBy: generatedBy,
		Date: date,
		MatrixType: "sparse",
		MatrixElementType: "int",
		Shape: [2]int{len(t.otus), len(t.samples)},
	}
	for _, otu := range t.otus {
		doc.Rows = append(doc.Rows, biomEntry{ID: otu})
	}
	for _, s := range t.samples {
		doc.Columns = append(doc.Columns, biomEntry{ID: s})
	}

	var keys [][2]int
	for k := range t.cells {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i][1] != keys[j][1] {
			return keys[i][1] < keys[j][1]
		}
		return keys[i][0] < keys[j][0]
	})
	for _, k := range keys {
		// BIOM sparse data rows are [otu_index, sample_index, count].
		doc.Data = append(doc.Data, [3]float64{float64(k[1]), float64(k[0]), float64(t.cells[k])})
	}

	enc := json.NewEncoder(w)
	return enc.Encode(doc)
}

// WriteShared writes the accumulated table as a mothur "shared" file:
// one header line (label, Group, numOtus, otu names...) then one row
// per sample.
func (t *Table) WriteShared(w io.Writer) error {
	if _, err := fmt.Fprintf(w, "label\tGroup\tnumOtus"); err != nil {
		return err
	}
	for _, otu := range t.otus {
		if _, err := fmt.Fprintf(w, "\t%s", otu); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintln(w); err != nil {
		return err
	}

	for si, sample := range t.samples {
		if _, err := fmt.Fprintf(w, "0.03\t%s\t%d", sample, len(t.otus)); err != nil {
			return err
		}
		for oi := range t.otus {
			count := t.cells[[2]int{si, oi}]
			if _, err := fmt.Fprintf(w, "\t%d", count); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintln(w); err != nil {
			return err
		}
	}
	return nil
}
