package view

import (
	"image/color"
	"testing"

	"bitlife/src/simulation"
)

//blinkerFrame is a 4x3 frame with a horizontal blinker on row 1
func blinkerFrame() simulation.Frame {
	var w uint64
	for _, i := range []int{4, 5, 6} {
		w |= 1 << uint(i)
	}
	return simulation.Frame{Width: 4, Height: 3, Words: []uint64{w}}
}

func TestRenderRows(t *testing.T) {
	got := RenderRows(blinkerFrame(), "#", ".", 0, 0)
	want := []string{"....", "###.", "...."}
	if len(got) != len(want) {
		t.Fatalf("%d rows, expected %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("row %d = %q, expected %q", i, got[i], want[i])
		}
	}
}

func TestRenderRowsCrops(t *testing.T) {
	got := RenderRows(blinkerFrame(), "#", ".", 2, 2)
	want := []string{"..", "##"}
	if len(got) != 2 || got[0] != want[0] || got[1] != want[1] {
		t.Fatalf("cropped rows %q, expected %q", got, want)
	}
}

func TestFillRGBA(t *testing.T) {
	f := blinkerFrame()
	buf := make([]byte, 4*f.Width*f.Height)
	FillRGBA(buf, f, color.White, color.Black)
	for i := 0; i < f.Width*f.Height; i++ {
		want := byte(0)
		if i >= 4 && i <= 6 {
			want = 0xff
		}
		if buf[i*4] != want || buf[i*4+1] != want || buf[i*4+2] != want || buf[i*4+3] != 0xff {
			t.Fatalf("pixel %d = %v", i, buf[i*4:i*4+4])
		}
	}
}
