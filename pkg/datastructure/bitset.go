package datastructure

// Bitset is a fixed-size bit vector used for per-query exclusion marks in
// graph views. Checking membership is a word index plus a mask, so spur
// searches never pay for a structural graph copy.
type Bitset struct {
	words []uint64
	n     int
}

func NewBitset(n int) *Bitset {
	return &Bitset{
		words: make([]uint64, (n+63)/64),
		n:     n,
	}
}

func (b *Bitset) Set(i Index) {
	b.words[i>>6] |= uint64(1) << (i & 63)
}

func (b *Bitset) IsSet(i Index) bool {
	return b.words[i>>6]&(uint64(1)<<(i&63)) != 0
}

func (b *Bitset) Len() int {
	return b.n
}

func (b *Bitset) Reset() {
	for i := range b.words {
		b.words[i] = 0
	}
}
