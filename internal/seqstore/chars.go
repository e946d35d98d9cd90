package seqstore

import "fmt"

// legal holds the IUPAC nucleotide letters accepted in a sequence:
// A/C/G/T/U plus the eleven ambiguity codes, and their lowercase mirrors
// (soft-masked FASTA is mainstream input, not an edge case). CleanSeq
// upcases every legal letter on the way into Seq.
var legal = map[byte]bool{
	'A': true, 'C': true, 'G': true, 'T': true, 'U': true,
	'B': true, 'D': true, 'H': true, 'K': true, 'M': true,
	'N': true, 'R': true, 'S': true, 'V': true, 'W': true, 'Y': true,
	'a': true, 'c': true, 'g': true, 't': true, 'u': true,
	'b': true, 'd': true, 'h': true, 'k': true, 'm': true,
	'n': true, 'r': true, 's': true, 'v': true, 'w': true, 'y': true,
}

// stripSilently holds the control characters that are dropped from a
// sequence without comment: TAB, LF, CR, VT, FF.
var stripSilently = map[byte]bool{
	'\t': true, '\n': true, '\r': true, '\v': true, '\f': true,
}

// CleanResult reports what CleanSeq found while scanning.
type CleanResult struct {
	StrippedNoisy int // digits/punctuation dropped, counted as a warning
}

// CleanSeq validates and compacts raw sequence bytes: legal letters are
// upcased (clearing bit 0x20, valid since every legal byte is a letter),
// the five whitespace control characters are stripped silently, digits
// and punctuation are stripped but counted, and any other control
// character or illegal printable letter aborts.
func CleanSeq(raw []byte) ([]byte, CleanResult, error) {
	out := make([]byte, 0, len(raw))
	var res CleanResult

	for _, b := range raw {
		switch {
		case legal[b]:
			out = append(out, b&0xdf)
		case stripSilently[b]:
			// dropped, no count
		case b < 0x20 || b == 0x7f:
			return nil, res, fmt.Errorf("seqstore: illegal control character 0x%02x in sequence", b)
		case (b >= '0' && b <= '9') || isPunct(b):
			res.StrippedNoisy++
		default:
			return nil, res, fmt.Errorf("seqstore: illegal character %q in sequence", b)
		}
	}
	return out, res, nil
}

func isPunct(b byte) bool {
	switch {
	case b >= '!' && b <= '/':
		return true
	case b >= ':' && b <= '@':
		return true
	case b >= '[' && b <= '`':
		return true
	case b >= '{' && b <= '~':
		return true
	}
	return false
}
