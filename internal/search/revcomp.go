package search

var complement = func() [256]byte {
	var t [256]byte
	for i := range t {
		t[i] = byte(i)
	}
	pairs := map[byte]byte{
		'A': 'T', 'T': 'A', 'U': 'A', 'C': 'G', 'G': 'C',
		'R': 'Y', 'Y': 'R', 'S': 'S', 'W': 'W', 'K': 'M', 'M': 'K',
		'B': 'V', 'V': 'B', 'D': 'H', 'H': 'D', 'N': 'N',
	}
	for u, c := range pairs {
		t[u] = c
		t[u+('a'-'A')] = c + ('a' - 'A')
	}
	return t
}()

// ReverseComplement returns the reverse complement of seq, used to search
// the minus strand of a query.
func ReverseComplement(seq []byte) []byte {
	out := make([]byte, len(seq))
	n := len(seq)
	for i, b := range seq {
		out[n-1-i] = complement[b]
	}
	return out
}
