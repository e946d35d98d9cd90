// Package derep implements small-memory two-pass dereplication: pass 1
// builds a fingerprint table of normalized sequences with merged
// abundances, pass 2 re-streams the input and emits one record per
// first occurrence of a live cluster.
package derep

import (
	"fmt"
	"io"

	"github.com/kshedden/vsearchgo/internal/fastaq"
	"github.com/kshedden/vsearchgo/internal/fingerprint"
	"github.com/kshedden/vsearchgo/internal/search"
	"github.com/kshedden/vsearchgo/internal/seqstore"
)

// Options controls the dereplication pass.
type Options struct {
	SizeIn bool // trust size= in the header as the starting abundance
	SizeOut bool // annotate output with the merged size=

	Strand string // "plus" or "both"; "both" also probes the revcomp hash

	MinUniqueSize int64
	MaxUniqueSize int64 // 0 = unbounded

	Strict bool // enable byte-equality verification in the fingerprint table
}

// clusterInfo tracks, per fingerprint bucket, the record index of its
// first occurrence (the one pass 2 will emit) and its accumulated
// abundance.
type clusterInfo struct {
	firstIndex int
	abundance int64
}

// Run performs the full two-pass dereplication over recs, calling emit
// once per surviving cluster's first-occurrence record with its final
// merged abundance.
func Run(recs []*seqstore.Record, opt Options, emit func(rec *seqstore.Record, mergedSize int64) error) error {
	table := fingerprint.New(opt.Strict)
	clusters := make(map[fingerprint.Fingerprint]*clusterInfo)

	for i, rec := range recs {
		start := int64(1)
		if opt.SizeIn {
			start = rec.Abundance
		}

		norm := fingerprint.Normalize(rec.Seq)
		fp := fingerprint.Hash(norm)

		target := fp
		if opt.Strand == "both" {
			rc := fingerprint.Normalize(search.ReverseComplement(rec.Seq))
			rcfp := fingerprint.Hash(rc)
			if _, ok := table.Lookup(fp, norm); !ok {
				if _, ok := table.Lookup(rcfp, rc); ok {
					target = rcfp
				}
			}
		}

		if ci, ok := clusters[target]; ok {
			ci.abundance += start
			table.Insert(target, norm, start)
			continue
		}

		clusters[target] = &clusterInfo{firstIndex: i, abundance: start}
		table.Insert(target, norm, start)
	}

	// Pass 2: re-walk the same records, emitting each cluster exactly
	// once at its first-occurrence index.
	emitted := make(map[fingerprint.Fingerprint]bool)
	for i, rec := range recs {
		norm := fingerprint.Normalize(rec.Seq)
		fp := fingerprint.Hash(norm)

		var target fingerprint.Fingerprint
		var ci *clusterInfo
		if c, ok := clusters[fp]; ok && c.firstIndex == i {
			target, ci = fp, c
		} else if opt.Strand == "both" {
			rc := fingerprint.Normalize(search.ReverseComplement(rec.Seq))
			rcfp := fingerprint.Hash(rc)
			if c, ok := clusters[rcfp]; ok && c.firstIndex == i {
				target, ci = rcfp, c
			}
		}
		if ci == nil {
			continue
		}
		if emitted[target] {
			continue
		}
		emitted[target] = true

		if ci.abundance < opt.MinUniqueSize {
			continue
		}
		if opt.MaxUniqueSize > 0 && ci.abundance > opt.MaxUniqueSize {
			continue
		}

		if err := emit(rec, ci.abundance); err != nil {
			return fmt.Errorf("derep: emitting cluster: %w", err)
		}
	}

	return nil
}

// LoadAll reads every record from r via a fastaq.Reader, the thin
// collaborator contract a cmd/ entry point hands Run.
func LoadAll(r io.Reader, fopt fastaq.Options) ([]*seqstore.Record, error) {
	rd, err := fastaq.Open(r, fopt)
	if err != nil {
		return nil, err
	}
	var recs []*seqstore.Record
	for {
		rec, err := rd.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		recs = append(recs, rec)
	}
	return recs, nil
}
