package otutable

import (
	"bytes"
	"encoding/json"
	"regexp"
	"strings"
	"testing"
)

func newTestTable() *Table {
	sampleRe := regexp.MustCompile(`sample=(\w+)`)
	otuRe := regexp.MustCompile(`otu=(\w+)`)
	return New(sampleRe, otuRe)
}

func TestTableAddAccumulatesAbundance(t *testing.T) {
	tbl := newTestTable()
	tbl.Add("read1;sample=A;", "ref1;otu=X;", 3)
	tbl.Add("read2;sample=A;", "ref1;otu=X;", 2)

	var buf bytes.Buffer
	if err := tbl.WriteShared(&buf); err != nil {
		t.Fatalf("WriteShared: %v", err)
	}
	if !strings.Contains(buf.String(), "\t5\n") {
		t.Fatalf("output %q does not show accumulated count 5", buf.String())
	}
}

func TestTableAddIgnoresUnmatchedHeaders(t *testing.T) {
	tbl := newTestTable()
	tbl.Add("read1 no sample tag", "ref1;otu=X;", 1)

	var buf bytes.Buffer
	tbl.WriteShared(&buf)
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected only the header line, got %d lines", len(lines))
	}
}

func TestWriteSharedHeaderListsOtus(t *testing.T) {
	tbl := newTestTable()
	tbl.Add("r;sample=A;", "t;otu=X;", 1)
	tbl.Add("r;sample=B;", "t;otu=Y;", 1)

	var buf bytes.Buffer
	if err := tbl.WriteShared(&buf); err != nil {
		t.Fatalf("WriteShared: %v", err)
	}

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want 3 (header + 2 samples)", len(lines))
	}
	if !strings.HasPrefix(lines[0], "label\tGroup\tnumOtus\tX\tY") {
		t.Fatalf("header line = %q, want OTUs X and Y listed in order", lines[0])
	}
}

func TestWriteBIOMProducesValidShapeAndData(t *testing.T) {
	tbl := newTestTable()
	tbl.Add("r1;sample=A;", "t1;otu=X;", 4)
	tbl.Add("r2;sample=B;", "t1;otu=X;", 6)

	var buf bytes.Buffer
	if err := tbl.WriteBIOM(&buf, "vsearchgo", "2026-01-01"); err != nil {
		t.Fatalf("WriteBIOM: %v", err)
	}

	var doc struct {
		Shape [2]int `json:"shape"`
		Data [][3]float64 `json:"data"`
		Rows []struct {
			ID string `json:"id"`
		} `json:"rows"`
		Columns []struct {
			ID string `json:"id"`
		} `json:"columns"`
	}
	if err := json.Unmarshal(buf.Bytes(), &doc); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}

	if doc.Shape != [2]int{1, 2} {
		t.Fatalf("Shape = %v, want [1 2] (1 OTU x 2 samples)", doc.Shape)
	}
	if len(doc.Data) != 2 {
		t.Fatalf("len(Data) = %d, want 2 sparse cells", len(doc.Data))
	}
	if doc.Rows[0].ID != "X" {
		t.Fatalf("Rows[0].ID = %q, want X", doc.Rows[0].ID)
	}
}
