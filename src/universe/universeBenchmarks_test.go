package universe

import (
	"fmt"
	"testing"
)

var sizes = [][2]int{{64, 64}, {200, 200}, {512, 256}}

func newBenchUniverse(b *testing.B, w, h int) *Universe {
	u, err := NewWithOptions(&Options{Width: w, Height: h, Random: NewRandom(1)})
	if err != nil {
		b.Fatal(err)
	}
	return u
}

func Benchmark_Tick(b *testing.B) {
	for _, s := range sizes {
		b.Run(fmt.Sprintf("%dx%d", s[0], s[1]), func(b *testing.B) {
			u := newBenchUniverse(b, s[0], s[1])
			b.ReportAllocs()
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				u.Tick()
			}
		})
	}
}

func Benchmark_Reset(b *testing.B) {
	for _, s := range sizes {
		b.Run(fmt.Sprintf("%dx%d", s[0], s[1]), func(b *testing.B) {
			u := newBenchUniverse(b, s[0], s[1])
			b.ReportAllocs()
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				u.Reset()
			}
		})
	}
}
