package universe

import "math/rand/v2"

// RandomSource is the uniform [0,1) generator the universe is seeded from.
// *rand.Rand from math/rand/v2 satisfies it.
type RandomSource interface {
	Float64() float64
}

// NewRandom returns a deterministic PCG source for reproducible seeding.
func NewRandom(seed uint64) RandomSource {
	return rand.New(rand.NewPCG(seed, 0))
}

func newUnseededRandom() RandomSource {
	return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
}

// seedWords draws enough 32-bit words to cover bits cells.
// Every bit of a word is an independent fair coin.
func seedWords(bits int, src RandomSource) []uint32 {
	words := make([]uint32, (bits+31)/32)
	for i := range words {
		words[i] = uint32(src.Float64() * (1 << 32))
	}
	return words
}

//seed refills the cells from a fresh random draw, bit i of the grid is bit i%32 of word i/32
func (u *Universe) seed() {
	n := u.width * u.height
	words := seedWords(n, u.random)
	u.cells.ClearAll()
	for i := 0; i < n; i++ {
		if words[i/32]>>(i%32)&1 == 1 {
			u.cells.Set(uint(i))
		}
	}
}
