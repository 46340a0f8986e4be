package universe

import (
	"testing"

	"github.com/pkg/errors"
)

func TestViewLayout(t *testing.T) {
	u := newEmpty(t, 5, 3)
	mustSet(t, u, Cell{1, 2}, Cell{2, 4})

	v := u.Cells()
	if v.Width() != 5 || v.Height() != 3 || v.Len() != 15 {
		t.Fatalf("view is %dx%d len %d", v.Width(), v.Height(), v.Len())
	}
	words := v.Words()
	if len(words) != 1 {
		t.Fatalf("15 cells packed into %d words, expected 1", len(words))
	}
	if want := uint64(1)<<7 | uint64(1)<<14; words[0] != want {
		t.Fatalf("words[0] = %b, expected %b", words[0], want)
	}
	for row := 0; row < 3; row++ {
		for col := 0; col < 5; col++ {
			got, err := v.Alive(row, col)
			if err != nil {
				t.Fatal(err)
			}
			want, _ := u.IsAlive(row, col)
			if got != want {
				t.Fatalf("view (%d,%d) = %v, universe says %v", row, col, got, want)
			}
		}
	}
	if _, err := v.Alive(3, 0); !errors.Is(err, ErrOutOfRange) {
		t.Fatalf("err %v, expected ErrOutOfRange", err)
	}
}

func TestViewInvalidatedByMutation(t *testing.T) {
	mutations := map[string]func(u *Universe){
		"tick":      func(u *Universe) { u.Tick() },
		"toggle":    func(u *Universe) { _ = u.Toggle(0, 0) },
		"set":       func(u *Universe) { _ = u.SetCells([]Cell{{1, 1}}) },
		"glider":    func(u *Universe) { _ = u.Glider(2, 2) },
		"clear":     func(u *Universe) { u.Clear() },
		"reset":     func(u *Universe) { u.Reset() },
		"setWidth":  func(u *Universe) { _ = u.SetWidth(4) },
		"setHeight": func(u *Universe) { _ = u.SetHeight(4) },
	}
	for name, mutate := range mutations {
		t.Run(name, func(t *testing.T) {
			u := newEmpty(t, 8, 8)
			v := u.Cells()
			if !v.Valid() {
				t.Fatal("fresh view must be valid")
			}
			if _, err := v.Alive(0, 0); err != nil {
				t.Fatal(err)
			}
			mutate(u)
			if v.Valid() {
				t.Fatal("view still valid after mutating call")
			}
			if _, err := v.Alive(0, 0); !errors.Is(err, ErrStaleView) {
				t.Fatalf("err %v, expected ErrStaleView", err)
			}
		})
	}
}

func TestViewSurvivesReads(t *testing.T) {
	u := newEmpty(t, 8, 8)
	v := u.Cells()
	_, _ = u.IsAlive(1, 1)
	_, _ = u.LiveNeighbourCount(1, 1)
	_ = u.Population()
	_ = u.Fingerprint()
	if !v.Valid() {
		t.Fatal("read-only calls must not invalidate a view")
	}
}

func TestZeroViewIsInvalid(t *testing.T) {
	var v View
	if v.Valid() {
		t.Fatal("zero View must be invalid")
	}
}
