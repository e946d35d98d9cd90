package derep

import (
	"fmt"

	"github.com/kshedden/vsearchgo/internal/seqstore"
)

// Rereplicate is the inverse of Run: given records already annotated
// with size=N (as dereplication produces), re-expand each into N
// copies, matching src/rereplicate.cc in the original engine.
func Rereplicate(recs []*seqstore.Record, emit func(rec *seqstore.Record, copyIndex int64) error) error {
	for _, rec := range recs {
		n := rec.Abundance
		if n < 1 {
			return fmt.Errorf("derep: rereplicate: record %q has non-positive size", rec.Header)
		}
		for copyIndex := int64(0); copyIndex < n; copyIndex++ {
			if err := emit(rec, copyIndex); err != nil {
				return fmt.Errorf("derep: rereplicate: %w", err)
			}
		}
	}
	return nil
}
